package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"pg_wallpaper/internal/domain/models"
	"pg_wallpaper/internal/lib/jwt"
	"pg_wallpaper/internal/lib/logger/sl"
	"pg_wallpaper/internal/repository"
	"pg_wallpaper/internal/storage"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserExist          = errors.New("user already exist")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidToken       = errors.New("invalid token")
)

type Auth struct {
	log        *slog.Logger
	users      repository.UserRepository
	profiles   repository.ProfileRepository
	tokens     repository.TokenRepository
	secret     string
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func New(
	log *slog.Logger,
	users repository.UserRepository,
	profiles repository.ProfileRepository,
	tokens repository.TokenRepository,
	secret string,
	accessTTL, refreshTTL time.Duration,
) *Auth {
	return &Auth{
		log:        log,
		users:      users,
		profiles:   profiles,
		tokens:     tokens,
		secret:     secret,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// SignUp registers the user with an empty profile and signs them in.
func (a *Auth) SignUp(ctx context.Context, email, password, fullName string) (models.TokenPair, error) {
	const op = "auth.SignUp"

	email = normalizeEmail(email)

	log := a.log.With(
		slog.String("op", op),
		slog.String("email", email),
	)

	log.Info("register user")

	passHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Error("failed to generate password hash", sl.Err(err))

		return models.TokenPair{}, fmt.Errorf("%s: %w", op, err)
	}

	user := models.User{Email: email, Password: passHash}

	id, err := a.users.SaveUser(ctx, user, strings.TrimSpace(fullName))
	if err != nil {
		if errors.Is(err, storage.ErrUserExists) {
			log.Warn("user already exist", sl.Err(err))

			return models.TokenPair{}, fmt.Errorf("%s: %w", op, ErrUserExist)
		}

		log.Error("failed to save user", sl.Err(err))

		return models.TokenPair{}, fmt.Errorf("%s: %w", op, err)
	}

	user.ID = id

	log.Info("user registered", slog.String("user_id", id.String()))

	pair, err := a.issueTokens(ctx, user)
	if err != nil {
		log.Error("failed to generate tokens", sl.Err(err))

		return models.TokenPair{}, fmt.Errorf("%s: %w", op, err)
	}

	return pair, nil
}

func (a *Auth) SignIn(ctx context.Context, email, password string) (models.TokenPair, error) {
	const op = "auth.SignIn"

	email = normalizeEmail(email)

	log := a.log.With(
		slog.String("op", op),
		slog.String("username", email),
	)

	log.Info("attempting to login user")

	user, err := a.users.UserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			log.Warn("user not found", sl.Err(err))

			return models.TokenPair{}, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
		}
		log.Error("failed to get user", sl.Err(err))

		return models.TokenPair{}, fmt.Errorf("%s: %w", op, err)
	}

	if err := bcrypt.CompareHashAndPassword(user.Password, []byte(password)); err != nil {
		log.Info("invalid credentials", sl.Err(err))

		return models.TokenPair{}, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	if err := a.users.TouchLastLogin(ctx, user.ID); err != nil {
		// не критично для входа
		log.Warn("failed to update last login", sl.Err(err))
	}

	pair, err := a.issueTokens(ctx, user)
	if err != nil {
		log.Error("failed to generate tokens", sl.Err(err))

		return models.TokenPair{}, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("user logged in successfully")

	return pair, nil
}

// Refresh rotates a refresh token: the presented one is revoked and a new pair issued.
func (a *Auth) Refresh(ctx context.Context, refreshToken string) (models.TokenPair, error) {
	const op = "auth.Refresh"

	log := a.log.With(slog.String("op", op))

	claims, err := jwt.ParseToken(refreshToken, jwt.TokenRefresh, a.secret)
	if err != nil {
		log.Warn("refresh token rejected", sl.Err(err))

		return models.TokenPair{}, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	userID := claims.UserID.String()

	exists, err := a.tokens.GetRefreshToken(ctx, userID, refreshToken)
	if err != nil {
		log.Error("failed to look up refresh token", sl.Err(err))

		return models.TokenPair{}, fmt.Errorf("%s: %w", op, err)
	}
	if !exists {
		return models.TokenPair{}, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	if err := a.tokens.DeleteRefreshToken(ctx, userID, refreshToken); err != nil {
		log.Error("failed to revoke refresh token", sl.Err(err))

		return models.TokenPair{}, fmt.Errorf("%s: %w", op, err)
	}

	pair, err := a.issueTokens(ctx, models.User{ID: claims.UserID, Email: claims.Email})
	if err != nil {
		log.Error("failed to generate tokens", sl.Err(err))

		return models.TokenPair{}, fmt.Errorf("%s: %w", op, err)
	}

	return pair, nil
}

// SignOut revokes every refresh token of the user.
func (a *Auth) SignOut(ctx context.Context, userID uuid.UUID) error {
	const op = "auth.SignOut"

	log := a.log.With(
		slog.String("op", op),
		slog.String("user_id", userID.String()),
	)

	if err := a.tokens.DeleteAllUserTokens(ctx, userID.String()); err != nil {
		log.Error("failed to revoke tokens", sl.Err(err))

		return fmt.Errorf("%s: %w", op, err)
	}

	log.Info("user signed out")

	return nil
}

// Me returns the authenticated user together with their profile.
func (a *Auth) Me(ctx context.Context, userID uuid.UUID) (models.Account, error) {
	const op = "auth.Me"

	log := a.log.With(
		slog.String("op", op),
		slog.String("user_id", userID.String()),
	)

	user, err := a.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return models.Account{}, fmt.Errorf("%s: %w", op, ErrUserNotFound)
		}
		log.Error("failed to get user", sl.Err(err))

		return models.Account{}, fmt.Errorf("%s: %w", op, err)
	}

	profile, err := a.profiles.GetProfile(ctx, userID)
	if err != nil && !errors.Is(err, storage.ErrProfileNotFound) {
		log.Error("failed to get profile", sl.Err(err))

		return models.Account{}, fmt.Errorf("%s: %w", op, err)
	}
	profile.UserID = userID

	return models.Account{User: user, Profile: profile}, nil
}

// ParseAccessToken validates a bearer token issued by this service.
func (a *Auth) ParseAccessToken(token string) (jwt.Claims, error) {
	claims, err := jwt.ParseToken(token, jwt.TokenAccess, a.secret)
	if err != nil {
		return jwt.Claims{}, fmt.Errorf("auth.ParseAccessToken: %w", ErrInvalidToken)
	}
	return claims, nil
}

func (a *Auth) issueTokens(ctx context.Context, user models.User) (models.TokenPair, error) {
	accessToken, err := jwt.NewToken(user, jwt.TokenAccess, a.accessTTL, a.secret)
	if err != nil {
		return models.TokenPair{}, err
	}

	refreshToken, err := jwt.NewToken(user, jwt.TokenRefresh, a.refreshTTL, a.secret)
	if err != nil {
		return models.TokenPair{}, err
	}

	if err := a.tokens.SaveRefreshToken(ctx, user.ID.String(), refreshToken, a.refreshTTL); err != nil {
		return models.TokenPair{}, err
	}

	return models.TokenPair{
		UserID:       user.ID,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
