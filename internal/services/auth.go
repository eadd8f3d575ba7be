package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stagekit/stageplot-backend/internal/data/repos"
	types "github.com/stagekit/stageplot-backend/internal/domain"
	"github.com/stagekit/stageplot-backend/internal/pkg/ctxutil"
	"github.com/stagekit/stageplot-backend/internal/platform/logger"
	"github.com/stagekit/stageplot-backend/internal/platform/redis"
)

// JWTClaims is the access token payload; the subject is the user ID.
type JWTClaims struct {
	jwt.RegisteredClaims
}

type AuthService interface {
	// SignInWithGoogle verifies the posted ID token, upserts the user
	// keyed by Google subject, and opens a session.
	SignInWithGoogle(ctx context.Context, idToken, nonceHash string) (*types.User, string, string, error)
	// RefreshSession rotates both tokens; the old session row is removed.
	RefreshSession(ctx context.Context) (string, string, error)
	Logout(ctx context.Context) error
	// ContextFromToken validates an access token and attaches request
	// data to the context.
	ContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
	AccessTTL() time.Duration
	RefreshTTL() time.Duration
}

type authService struct {
	db            *gorm.DB
	log           *logger.Logger
	userRepo      repos.UserRepo
	userTokenRepo repos.UserTokenRepo
	avatarService AvatarService
	oidc          OIDCVerifier
	tokenCache    *redis.TokenCache
	jwtSecretKey  string
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewAuthService(
	db *gorm.DB,
	log *logger.Logger,
	userRepo repos.UserRepo,
	userTokenRepo repos.UserTokenRepo,
	avatarService AvatarService,
	oidc OIDCVerifier,
	tokenCache *redis.TokenCache,
	jwtSecretKey string,
	accessTTL time.Duration,
	refreshTTL time.Duration,
) AuthService {
	return &authService{
		db:            db,
		log:           log.With("service", "AuthService"),
		userRepo:      userRepo,
		userTokenRepo: userTokenRepo,
		avatarService: avatarService,
		oidc:          oidc,
		tokenCache:    tokenCache,
		jwtSecretKey:  jwtSecretKey,
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

func (as *authService) SignInWithGoogle(ctx context.Context, idToken, nonceHash string) (*types.User, string, string, error) {
	ident, err := as.oidc.VerifyGoogleIDToken(ctx, idToken, nonceHash)
	if err != nil {
		return nil, "", "", fmt.Errorf("verify google id token: %w", err)
	}
	if !ident.EmailVerified {
		return nil, "", "", fmt.Errorf("google account email is not verified")
	}

	var (
		user         *types.User
		accessToken  string
		refreshToken string
	)
	err = as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		found, err := as.userRepo.GetByGoogleSubs(ctx, tx, []string{ident.Sub})
		if err != nil {
			return fmt.Errorf("lookup user by google sub: %w", err)
		}
		if len(found) > 0 {
			user = found[0]
			if syncProfile(user, ident) {
				if err := as.userRepo.Update(ctx, tx, user); err != nil {
					return fmt.Errorf("update user profile: %w", err)
				}
			}
		} else {
			user = &types.User{
				ID:        uuid.New(),
				GoogleSub: ident.Sub,
				Email:     strings.ToLower(ident.Email),
				FirstName: ident.FirstName,
				LastName:  ident.LastName,
			}
			if err := as.avatarService.EnsureUserAvatar(ctx, user); err != nil {
				return fmt.Errorf("create user avatar: %w", err)
			}
			if _, err := as.userRepo.Create(ctx, tx, []*types.User{user}); err != nil {
				return fmt.Errorf("create user: %w", err)
			}
		}

		accessToken, refreshToken, err = as.openSession(ctx, tx, user)
		return err
	})
	if err != nil {
		return nil, "", "", err
	}

	as.tokenCache.Set(ctx, accessToken, redis.SessionEntry{
		UserID:       user.ID,
		RefreshToken: refreshToken,
		Admin:        user.Admin,
	})
	as.log.Info("User signed in", "user_id", user.ID.String())
	return user, accessToken, refreshToken, nil
}

// syncProfile copies fresh claim values onto the stored user and reports
// whether anything changed.
func syncProfile(user *types.User, ident *GoogleIdentity) bool {
	changed := false
	if email := strings.ToLower(ident.Email); email != "" && email != user.Email {
		user.Email = email
		changed = true
	}
	if ident.FirstName != "" && ident.FirstName != user.FirstName {
		user.FirstName = ident.FirstName
		changed = true
	}
	if ident.LastName != "" && ident.LastName != user.LastName {
		user.LastName = ident.LastName
		changed = true
	}
	return changed
}

func (as *authService) openSession(ctx context.Context, tx *gorm.DB, user *types.User) (string, string, error) {
	accessToken, err := as.generateAccessToken(user)
	if err != nil {
		return "", "", fmt.Errorf("generate access token: %w", err)
	}
	refreshToken := uuid.New().String()
	userToken := &types.UserToken{
		ID:           uuid.New(),
		UserID:       user.ID,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    time.Now().Add(as.refreshTTL),
	}
	if _, err := as.userTokenRepo.Create(ctx, tx, []*types.UserToken{userToken}); err != nil {
		return "", "", fmt.Errorf("create user token: %w", err)
	}
	return accessToken, refreshToken, nil
}

func (as *authService) RefreshSession(ctx context.Context) (string, string, error) {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil || rd.RefreshToken == "" {
		return "", "", fmt.Errorf("no refresh token in request")
	}

	var (
		oldAccessToken  string
		newAccessToken  string
		newRefreshToken string
	)
	err := as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		found, err := as.userTokenRepo.GetByRefreshTokens(ctx, tx, []string{rd.RefreshToken})
		if err != nil {
			return fmt.Errorf("lookup refresh token: %w", err)
		}
		if len(found) == 0 {
			return fmt.Errorf("unknown refresh token")
		}
		existing := found[0]
		oldAccessToken = existing.AccessToken
		if existing.ExpiresAt.Before(time.Now()) {
			_ = as.userTokenRepo.DeleteByIDs(ctx, tx, []uuid.UUID{existing.ID})
			return fmt.Errorf("refresh token expired")
		}

		users, err := as.userRepo.GetByIDs(ctx, tx, []uuid.UUID{existing.UserID})
		if err != nil {
			return fmt.Errorf("load user for refresh: %w", err)
		}
		if len(users) == 0 {
			return fmt.Errorf("no user for refresh token")
		}

		newAccessToken, newRefreshToken, err = as.openSession(ctx, tx, users[0])
		if err != nil {
			return err
		}
		return as.userTokenRepo.DeleteByIDs(ctx, tx, []uuid.UUID{existing.ID})
	})
	if err != nil {
		return "", "", err
	}

	as.tokenCache.Delete(ctx, oldAccessToken)
	return newAccessToken, newRefreshToken, nil
}

func (as *authService) Logout(ctx context.Context) error {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil || rd.TokenString == "" {
		return fmt.Errorf("no access token in request")
	}
	err := as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		found, err := as.userTokenRepo.GetByAccessTokens(ctx, tx, []string{rd.TokenString})
		if err != nil {
			return fmt.Errorf("lookup session: %w", err)
		}
		if len(found) == 0 {
			return nil
		}
		return as.userTokenRepo.DeleteByIDs(ctx, tx, []uuid.UUID{found[0].ID})
	})
	if err != nil {
		return err
	}
	as.tokenCache.Delete(ctx, rd.TokenString)
	return nil
}

func (as *authService) generateAccessToken(user *types.User) (string, error) {
	claims := JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(as.accessTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(as.jwtSecretKey))
}

func (as *authService) ContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	if tokenString == "" {
		return ctx, nil
	}
	parsed, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(as.jwtSecretKey), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return ctx, fmt.Errorf("parse token: %w", err)
	}
	claims, ok := parsed.Claims.(*JWTClaims)
	if !ok || !parsed.Valid {
		return ctx, fmt.Errorf("invalid or expired token")
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return ctx, fmt.Errorf("invalid user id in token: %w", err)
	}

	if entry, ok := as.tokenCache.Get(ctx, tokenString); ok {
		return ctxutil.WithRequestData(ctx, &ctxutil.RequestData{
			UserID:       userID,
			TokenString:  tokenString,
			RefreshToken: entry.RefreshToken,
			Admin:        entry.Admin,
		}), nil
	}

	// A valid JWT alone is not a session; the token row must still exist.
	found, err := as.userTokenRepo.GetByAccessTokens(ctx, nil, []string{tokenString})
	if err != nil {
		return ctx, fmt.Errorf("lookup session: %w", err)
	}
	if len(found) == 0 {
		return ctx, fmt.Errorf("session revoked")
	}

	users, err := as.userRepo.GetByIDs(ctx, nil, []uuid.UUID{userID})
	if err != nil {
		return ctx, fmt.Errorf("load user: %w", err)
	}
	if len(users) == 0 {
		return ctx, fmt.Errorf("user not found")
	}

	entry := redis.SessionEntry{
		UserID:       userID,
		RefreshToken: found[0].RefreshToken,
		Admin:        users[0].Admin,
	}
	as.tokenCache.Set(ctx, tokenString, entry)

	return ctxutil.WithRequestData(ctx, &ctxutil.RequestData{
		UserID:       userID,
		TokenString:  tokenString,
		RefreshToken: entry.RefreshToken,
		Admin:        entry.Admin,
	}), nil
}

func (as *authService) AccessTTL() time.Duration  { return as.accessTTL }
func (as *authService) RefreshTTL() time.Duration { return as.refreshTTL }
