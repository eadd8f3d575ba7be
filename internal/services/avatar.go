package services

import (
	"bytes"
	"context"
	"fmt"
	"image/color"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"

	"github.com/stagekit/stageplot-backend/internal/blobstore"
	types "github.com/stagekit/stageplot-backend/internal/domain"
	"github.com/stagekit/stageplot-backend/internal/platform/logger"
)

// AvatarService renders initials avatars for new accounts and stores
// them alongside the asset blobs.
type AvatarService interface {
	EnsureUserAvatar(ctx context.Context, user *types.User) error
	RegenerateUserAvatar(ctx context.Context, user *types.User) error
}

type avatarService struct {
	log   *logger.Logger
	store blobstore.BlobStore
	rng   *rand.Rand

	bgColors []color.NRGBA
	fontFace font.Face
}

var defaultAvatarColors = []color.NRGBA{
	{R: 0x2E, G: 0x86, B: 0xAB, A: 255},
	{R: 0xF2, G: 0x54, B: 0x5B, A: 255},
	{R: 0x6A, G: 0x4C, B: 0x93, A: 255},
	{R: 0x1B, G: 0x99, B: 0x8B, A: 255},
	{R: 0xF1, G: 0x8F, B: 0x01, A: 255},
	{R: 0x44, G: 0x4E, B: 0x7E, A: 255},
}

func NewAvatarService(log *logger.Logger, store blobstore.BlobStore) (AvatarService, error) {
	serviceLog := log.With("service", "AvatarService")

	var face font.Face
	if fontPath := strings.TrimSpace(os.Getenv("AVATAR_FONT")); fontPath != "" {
		fontBytes, err := os.ReadFile(fontPath)
		if err != nil {
			return nil, fmt.Errorf("read avatar font: %w", err)
		}
		parsedFont, err := truetype.Parse(fontBytes)
		if err != nil {
			return nil, fmt.Errorf("parse avatar font: %w", err)
		}
		face = truetype.NewFace(parsedFont, &truetype.Options{
			Size:    206,
			DPI:     72,
			Hinting: font.HintingNone,
		})
	} else {
		serviceLog.Warn("AVATAR_FONT not set; avatars render without initials")
	}

	return &avatarService{
		log:      serviceLog,
		store:    store,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
		bgColors: defaultAvatarColors,
		fontFace: face,
	}, nil
}

func (as *avatarService) EnsureUserAvatar(ctx context.Context, user *types.User) error {
	if strings.TrimSpace(user.AvatarBucketKey) != "" {
		return nil
	}
	return as.renderAndStore(ctx, user)
}

func (as *avatarService) RegenerateUserAvatar(ctx context.Context, user *types.User) error {
	oldKey := strings.TrimSpace(user.AvatarBucketKey)
	if err := as.renderAndStore(ctx, user); err != nil {
		return err
	}
	// Best-effort delete of the replaced object.
	if oldKey != "" && oldKey != user.AvatarBucketKey {
		if err := as.store.Delete(ctx, oldKey); err != nil {
			as.log.Warn("Failed to delete old avatar", "key", oldKey, "error", err)
		}
	}
	return nil
}

func (as *avatarService) renderAndStore(ctx context.Context, user *types.User) error {
	as.ensureAvatarColor(user)

	buf, err := as.generate(user)
	if err != nil {
		return err
	}

	// Versioned key so a CDN never serves a stale avatar.
	key := fmt.Sprintf("user_avatar/%s/%d.png", user.ID.String(), time.Now().UnixNano())
	if _, err := as.store.Put(ctx, key, "image/png", bytes.NewReader(buf.Bytes())); err != nil {
		return fmt.Errorf("store avatar: %w", err)
	}
	user.AvatarBucketKey = key
	user.AvatarURL = "/api/me/avatar"
	return nil
}

func (as *avatarService) generate(user *types.User) (bytes.Buffer, error) {
	const size = 512

	dc := gg.NewContext(size, size)
	dc.DrawCircle(float64(size)/2, float64(size)/2, float64(size)/2)
	dc.Clip()

	dc.SetColor(as.pickColor(user.AvatarColor))
	dc.DrawRectangle(0, 0, float64(size), float64(size))
	dc.Fill()

	if as.fontFace != nil {
		initials := computeInitials(user.FirstName, user.LastName)
		dc.SetFontFace(as.fontFace)
		tw, th := dc.MeasureString(initials)
		cx, cy := float64(size)/2, float64(size)/2
		dc.SetColor(color.White)
		dc.DrawString(initials, cx-(tw/2)+5, cy+(th/2)-10)
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return buf, fmt.Errorf("encode avatar png: %w", err)
	}
	return buf, nil
}

func (as *avatarService) ensureAvatarColor(user *types.User) {
	if c, ok := parseHexNRGBA(user.AvatarColor); ok {
		user.AvatarColor = nrgbaToHex(c)
		return
	}
	pick := as.bgColors[as.rng.Intn(len(as.bgColors))]
	user.AvatarColor = nrgbaToHex(pick)
}

func (as *avatarService) pickColor(hexStr string) color.NRGBA {
	if c, ok := parseHexNRGBA(hexStr); ok {
		return c
	}
	return as.bgColors[as.rng.Intn(len(as.bgColors))]
}

func parseHexNRGBA(s string) (color.NRGBA, bool) {
	s = strings.TrimSpace(strings.ToUpper(s))
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return color.NRGBA{}, false
	}
	var r, g, b uint8
	if _, err := fmt.Sscanf(s, "%02X%02X%02X", &r, &g, &b); err != nil {
		return color.NRGBA{}, false
	}
	return color.NRGBA{R: r, G: g, B: b, A: 255}, true
}

func nrgbaToHex(c color.NRGBA) string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

func computeInitials(first, last string) string {
	fInit := "?"
	if len(first) > 0 {
		fInit = strings.ToUpper(first[:1])
	}
	lInit := "?"
	if len(last) > 0 {
		lInit = strings.ToUpper(last[:1])
	}
	return fInit + lInit
}
