package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	redislib "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	pkgauth "github.com/blushmart/blushmart-backend/pkg/auth"
	"github.com/blushmart/blushmart-backend/pkg/config"
	"github.com/blushmart/blushmart-backend/pkg/db/models"
	"github.com/blushmart/blushmart-backend/pkg/enums"
	pkgerrors "github.com/blushmart/blushmart-backend/pkg/errors"
	"github.com/blushmart/blushmart-backend/pkg/logger"
	"github.com/blushmart/blushmart-backend/pkg/security"
)

// codeStore is the Redis surface used for hashed one-time codes and their
// attempt counters.
type codeStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	IncrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error)
}

type codeKeyer interface {
	OTPKey(phone string) string
}

// sessionManager is the refresh-session surface backed by Redis.
type sessionManager interface {
	Generate(ctx context.Context, accessID string) (string, error)
	Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error)
	Revoke(ctx context.Context, accessID string) error
}

// userRepository is the identity persistence surface.
type userRepository interface {
	FindByID(ctx context.Context, userID uuid.UUID) (*models.User, error)
	FindByPhone(ctx context.Context, phone string) (*models.User, error)
	Create(ctx context.Context, user *models.User) (*models.User, error)
	TouchLastLogin(ctx context.Context, userID uuid.UUID, at time.Time) error
	UpdatePasswordHash(ctx context.Context, userID uuid.UUID, hash string) error
}

// ServiceParams groups dependencies for the auth service.
type ServiceParams struct {
	Config   *config.Config
	Store    codeStore
	Keyer    codeKeyer
	Sessions sessionManager
	UserRepo userRepository
	Logger   *logger.Logger
}

// Service implements phone-OTP login, token rotation, and password updates.
type Service interface {
	SendOTP(ctx context.Context, input SendOTPInput) (SendOTPResult, error)
	VerifyOTP(ctx context.Context, input VerifyOTPInput) (TokenPairDTO, error)
	Refresh(ctx context.Context, input RefreshInput) (TokenPairDTO, error)
	Logout(ctx context.Context, accessID string) error
	UpdatePassword(ctx context.Context, userID uuid.UUID, input UpdatePasswordInput) error
}

type service struct {
	cfg      *config.Config
	store    codeStore
	keyer    codeKeyer
	sessions sessionManager
	userRepo userRepository
	logg     *logger.Logger
	now      func() time.Time
}

// NewService builds an auth service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Config == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "config is required")
	}
	if params.Store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "code store is required")
	}
	if params.Keyer == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "code keyer is required")
	}
	if params.Sessions == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session manager is required")
	}
	if params.UserRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user repo is required")
	}
	return &service{
		cfg:      params.Config,
		store:    params.Store,
		keyer:    params.Keyer,
		sessions: params.Sessions,
		userRepo: params.UserRepo,
		logg:     params.Logger,
		now:      time.Now,
	}, nil
}

// SendOTP generates a one-time code, stores only its argon2id hash in Redis,
// and resets the attempt counter for the phone. The plain code leaves the
// process solely through the SMS provider, or the dev echo field.
func (s *service) SendOTP(ctx context.Context, input SendOTPInput) (SendOTPResult, error) {
	phone := strings.TrimSpace(input.Phone)
	if phone == "" {
		return SendOTPResult{}, pkgerrors.New(pkgerrors.CodeValidation, "phone is required")
	}

	code, err := security.GenerateOTP(s.cfg.OTP.Digits)
	if err != nil {
		return SendOTPResult{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate code")
	}
	hash, err := security.HashPassword(code, s.cfg.Password)
	if err != nil {
		return SendOTPResult{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash code")
	}

	otpKey := s.keyer.OTPKey(phone)
	if err := s.store.Set(ctx, otpKey, hash, s.cfg.OTP.TTL); err != nil {
		return SendOTPResult{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store code")
	}
	if err := s.store.Del(ctx, attemptsKey(otpKey)); err != nil {
		return SendOTPResult{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reset attempts")
	}

	if s.logg != nil {
		s.logg.Info(s.logg.WithFields(ctx, map[string]any{"phone": phone}), "otp.sent")
	}

	result := SendOTPResult{
		Phone:     phone,
		ExpiresIn: int(s.cfg.OTP.TTL.Seconds()),
	}
	if s.cfg.App.IsDev() && s.cfg.OTP.EchoInDev {
		result.DevCode = code
	}
	return result, nil
}

// VerifyOTP checks the submitted code against the stored hash, enforcing a
// bounded attempt count, and on success logs the shopper in — creating the
// account on first verification.
func (s *service) VerifyOTP(ctx context.Context, input VerifyOTPInput) (TokenPairDTO, error) {
	phone := strings.TrimSpace(input.Phone)
	code := strings.TrimSpace(input.Code)
	if phone == "" || code == "" {
		return TokenPairDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "phone and code are required")
	}

	otpKey := s.keyer.OTPKey(phone)
	hash, err := s.store.Get(ctx, otpKey)
	if err != nil {
		if errors.Is(err, redislib.Nil) {
			return TokenPairDTO{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "code expired or never requested")
		}
		return TokenPairDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load code")
	}

	attempts, err := s.store.IncrWithTTL(ctx, attemptsKey(otpKey), s.cfg.OTP.TTL)
	if err != nil {
		return TokenPairDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count attempt")
	}
	if attempts > int64(s.cfg.OTP.MaxAttempt) {
		// Burn the code so brute-forcing past the counter buys nothing.
		if delErr := s.store.Del(ctx, otpKey, attemptsKey(otpKey)); delErr != nil && s.logg != nil {
			s.logg.Warn(ctx, "otp.burn_failed")
		}
		return TokenPairDTO{}, pkgerrors.New(pkgerrors.CodeRateLimit, "too many attempts, request a new code")
	}

	match, err := security.VerifyPassword(code, hash)
	if err != nil {
		return TokenPairDTO{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify code")
	}
	if !match {
		return TokenPairDTO{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "incorrect code")
	}

	if err := s.store.Del(ctx, otpKey, attemptsKey(otpKey)); err != nil {
		return TokenPairDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "consume code")
	}

	user, err := s.findOrCreateUser(ctx, phone)
	if err != nil {
		return TokenPairDTO{}, err
	}
	if !user.IsActive {
		return TokenPairDTO{}, pkgerrors.New(pkgerrors.CodeForbidden, "account is disabled")
	}

	pair, err := s.issueTokens(ctx, user)
	if err != nil {
		return TokenPairDTO{}, err
	}

	now := s.now()
	if err := s.userRepo.TouchLastLogin(ctx, user.ID, now); err != nil && s.logg != nil {
		s.logg.Warn(s.logg.WithFields(ctx, map[string]any{"user_id": user.ID.String()}), "auth.touch_last_login_failed")
	}

	if s.logg != nil {
		s.logg.Info(s.logg.WithFields(ctx, map[string]any{"user_id": user.ID.String()}), "auth.login")
	}
	return pair, nil
}

// Refresh rotates the refresh token tied to the access token's session and
// mints a fresh pair. The access token may be expired but must be genuine.
func (s *service) Refresh(ctx context.Context, input RefreshInput) (TokenPairDTO, error) {
	claims, err := pkgauth.ParseAccessTokenAllowExpired(s.cfg.JWT, input.AccessToken)
	if err != nil {
		return TokenPairDTO{}, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid access token")
	}
	if claims.ID == "" {
		return TokenPairDTO{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "token has no session")
	}

	newAccessID, newRefresh, err := s.sessions.Rotate(ctx, claims.ID, input.RefreshToken)
	if err != nil {
		return TokenPairDTO{}, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid refresh token")
	}

	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return TokenPairDTO{}, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "unknown user")
		}
		return TokenPairDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	if !user.IsActive {
		return TokenPairDTO{}, pkgerrors.New(pkgerrors.CodeForbidden, "account is disabled")
	}

	access, err := pkgauth.MintAccessToken(s.cfg.JWT, s.now(), pkgauth.AccessTokenPayload{
		UserID: user.ID,
		Phone:  user.Phone,
		Role:   user.Role,
		JTI:    newAccessID,
	})
	if err != nil {
		return TokenPairDTO{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint access token")
	}

	return TokenPairDTO{
		AccessToken:  access,
		RefreshToken: newRefresh,
		ExpiresIn:    s.cfg.JWT.ExpirationMinutes * 60,
		User:         userToDTO(*user),
	}, nil
}

// Logout revokes the Redis session behind the access token's jti.
func (s *service) Logout(ctx context.Context, accessID string) error {
	if strings.TrimSpace(accessID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	if err := s.sessions.Revoke(ctx, accessID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "revoke session")
	}
	return nil
}

// UpdatePassword re-hashes the credential. Accounts created by OTP login have
// no password yet, in which case the current password is not required.
func (s *service) UpdatePassword(ctx context.Context, userID uuid.UUID, input UpdatePasswordInput) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "user not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}

	if user.PasswordHash != nil && *user.PasswordHash != "" {
		match, err := security.VerifyPassword(input.CurrentPassword, *user.PasswordHash)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
		}
		if !match {
			return pkgerrors.New(pkgerrors.CodeUnauthorized, "current password is incorrect")
		}
	}

	hash, err := security.HashPassword(input.NewPassword, s.cfg.Password)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}
	if err := s.userRepo.UpdatePasswordHash(ctx, userID, hash); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store password")
	}
	return nil
}

func (s *service) findOrCreateUser(ctx context.Context, phone string) (*models.User, error) {
	user, err := s.userRepo.FindByPhone(ctx, phone)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}

	created, err := s.userRepo.Create(ctx, &models.User{
		Phone:    phone,
		Role:     enums.UserRoleCustomer,
		IsActive: true,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create user")
	}
	if s.logg != nil {
		s.logg.Info(s.logg.WithFields(ctx, map[string]any{"user_id": created.ID.String()}), "auth.user_created")
	}
	return created, nil
}

func (s *service) issueTokens(ctx context.Context, user *models.User) (TokenPairDTO, error) {
	accessID := uuid.NewString()

	refresh, err := s.sessions.Generate(ctx, accessID)
	if err != nil {
		return TokenPairDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create session")
	}

	access, err := pkgauth.MintAccessToken(s.cfg.JWT, s.now(), pkgauth.AccessTokenPayload{
		UserID: user.ID,
		Phone:  user.Phone,
		Role:   user.Role,
		JTI:    accessID,
	})
	if err != nil {
		return TokenPairDTO{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint access token")
	}

	return TokenPairDTO{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    s.cfg.JWT.ExpirationMinutes * 60,
		User:         userToDTO(*user),
	}, nil
}

func attemptsKey(otpKey string) string {
	return otpKey + ":attempts"
}
