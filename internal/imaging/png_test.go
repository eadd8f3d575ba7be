package imaging

import (
	"encoding/binary"
	"testing"
)

func buildPNG(colorType byte, extraChunks ...[]byte) []byte {
	out := append([]byte{}, pngSignature...)
	ihdr := make([]byte, 13)
	binary.BigEndian.PutUint32(ihdr[0:4], 1)  // width
	binary.BigEndian.PutUint32(ihdr[4:8], 1)  // height
	ihdr[8] = 8                               // bit depth
	ihdr[9] = colorType
	out = appendChunk(out, "IHDR", ihdr)
	for _, c := range extraChunks {
		out = append(out, c...)
	}
	return out
}

func appendChunk(dst []byte, chunkType string, data []byte) []byte {
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(data)))
	dst = append(dst, lenBuf[:]...)
	dst = append(dst, chunkType...)
	dst = append(dst, data...)
	dst = append(dst, 0, 0, 0, 0) // crc, not verified
	return dst
}

func chunk(chunkType string, data []byte) []byte {
	return appendChunk(nil, chunkType, data)
}

func TestPNGHasAlphaColorTypes(t *testing.T) {
	cases := []struct {
		name      string
		colorType byte
		chunks    [][]byte
		want      bool
	}{
		{"grayscale", 0, [][]byte{chunk("IDAT", []byte{0})}, false},
		{"truecolor", 2, [][]byte{chunk("IDAT", []byte{0})}, false},
		{"gray alpha", 4, nil, true},
		{"rgba", 6, nil, true},
		{"palette no trns", 3, [][]byte{chunk("PLTE", make([]byte, 3)), chunk("IDAT", []byte{0})}, false},
		{"palette with trns", 3, [][]byte{chunk("PLTE", make([]byte, 3)), chunk("tRNS", []byte{0x80}), chunk("IDAT", []byte{0})}, true},
		{"palette trns after idat", 3, [][]byte{chunk("IDAT", []byte{0}), chunk("tRNS", []byte{0x80})}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := PNGHasAlpha(buildPNG(tc.colorType, tc.chunks...))
			if got != tc.want {
				t.Fatalf("PNGHasAlpha() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestPNGHasAlphaMalformed(t *testing.T) {
	cases := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"short", []byte{0x89, 'P', 'N'}},
		{"bad signature", make([]byte, 64)},
		{"truncated chunk walk", buildPNG(3, chunk("PLTE", make([]byte, 3)))[:40]},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if PNGHasAlpha(tc.data) {
				t.Fatalf("PNGHasAlpha() = true for malformed input")
			}
		})
	}
}
