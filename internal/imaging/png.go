package imaging

import (
	"bytes"
	"encoding/binary"
)

var pngSignature = []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}

// PNGHasAlpha reports whether a PNG carries transparency, without
// decoding pixel data. Color types 4 (gray+alpha) and 6 (RGBA) always
// have an alpha channel; palette images (type 3) are transparent only
// when a tRNS chunk appears before the first IDAT. Malformed input
// reports false rather than an error.
func PNGHasAlpha(data []byte) bool {
	if len(data) < len(pngSignature)+25 || !bytes.Equal(data[:8], pngSignature) {
		return false
	}
	// First chunk must be IHDR: length(4) type(4) data(13) crc(4).
	off := 8
	if binary.BigEndian.Uint32(data[off:off+4]) != 13 || string(data[off+4:off+8]) != "IHDR" {
		return false
	}
	colorType := data[off+8+9]
	switch colorType {
	case 4, 6:
		return true
	case 3:
		// Walk chunks looking for tRNS ahead of pixel data.
	default:
		return false
	}
	off += 8 + 13 + 4
	for off+8 <= len(data) {
		length := int(binary.BigEndian.Uint32(data[off : off+4]))
		chunkType := string(data[off+4 : off+8])
		switch chunkType {
		case "tRNS":
			return true
		case "IDAT", "IEND":
			return false
		}
		next := off + 8 + length + 4
		if length < 0 || next <= off || next > len(data) {
			return false
		}
		off = next
	}
	return false
}
