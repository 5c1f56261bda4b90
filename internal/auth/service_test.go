package auth

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	redislib "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/blushmart/blushmart-backend/pkg/config"
	"github.com/blushmart/blushmart-backend/pkg/db/models"
	"github.com/blushmart/blushmart-backend/pkg/enums"
	pkgerrors "github.com/blushmart/blushmart-backend/pkg/errors"
)

type fakeCodeStore struct {
	mu     sync.Mutex
	values map[string]string
	counts map[string]int64
}

func newFakeCodeStore() *fakeCodeStore {
	return &fakeCodeStore{values: map[string]string{}, counts: map[string]int64{}}
}

func (f *fakeCodeStore) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values[key] = value.(string)
	return nil
}

func (f *fakeCodeStore) Get(ctx context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	value, ok := f.values[key]
	if !ok {
		return "", redislib.Nil
	}
	return value, nil
}

func (f *fakeCodeStore) Del(ctx context.Context, keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, key := range keys {
		delete(f.values, key)
		delete(f.counts, key)
	}
	return nil
}

func (f *fakeCodeStore) IncrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.counts[key]++
	return f.counts[key], nil
}

type fakeKeyer struct{}

func (fakeKeyer) OTPKey(phone string) string { return "bm:otp:" + phone }

type fakeSessions struct {
	active  map[string]string
	revoked []string
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{active: map[string]string{}}
}

func (f *fakeSessions) Generate(ctx context.Context, accessID string) (string, error) {
	token := "refresh-" + accessID
	f.active[accessID] = token
	return token, nil
}

func (f *fakeSessions) Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error) {
	stored, ok := f.active[oldAccessID]
	if !ok || stored != provided {
		return "", "", redislib.Nil
	}
	delete(f.active, oldAccessID)
	newID := uuid.NewString()
	token := "refresh-" + newID
	f.active[newID] = token
	return newID, token, nil
}

func (f *fakeSessions) Revoke(ctx context.Context, accessID string) error {
	delete(f.active, accessID)
	f.revoked = append(f.revoked, accessID)
	return nil
}

type fakeUserRepo struct {
	byPhone map[string]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byPhone: map[string]*models.User{}}
}

func (f *fakeUserRepo) FindByID(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	for _, user := range f.byPhone {
		if user.ID == userID {
			return user, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) FindByPhone(ctx context.Context, phone string) (*models.User, error) {
	user, ok := f.byPhone[phone]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (f *fakeUserRepo) Create(ctx context.Context, user *models.User) (*models.User, error) {
	user.ID = uuid.New()
	f.byPhone[user.Phone] = user
	return user, nil
}

func (f *fakeUserRepo) TouchLastLogin(ctx context.Context, userID uuid.UUID, at time.Time) error {
	for _, user := range f.byPhone {
		if user.ID == userID {
			stamp := at
			user.LastLoginAt = &stamp
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) UpdatePasswordHash(ctx context.Context, userID uuid.UUID, hash string) error {
	for _, user := range f.byPhone {
		if user.ID == userID {
			h := hash
			user.PasswordHash = &h
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "dev", Port: "8080"},
		JWT: config.JWTConfig{
			Secret:            "test-secret-test-secret",
			Issuer:            "blushmart-test",
			ExpirationMinutes: 15,
		},
		OTP: config.OTPConfig{
			TTL:        5 * time.Minute,
			Digits:     6,
			EchoInDev:  true,
			MaxAttempt: 3,
		},
	}
}

type authFixture struct {
	svc      Service
	store    *fakeCodeStore
	sessions *fakeSessions
	users    *fakeUserRepo
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	f := &authFixture{
		store:    newFakeCodeStore(),
		sessions: newFakeSessions(),
		users:    newFakeUserRepo(),
	}
	svc, err := NewService(ServiceParams{
		Config:   testConfig(),
		Store:    f.store,
		Keyer:    fakeKeyer{},
		Sessions: f.sessions,
		UserRepo: f.users,
	})
	require.NoError(t, err)
	f.svc = svc
	return f
}

const testPhone = "+15550006666"

func TestSendOTPStoresHashNotCode(t *testing.T) {
	f := newAuthFixture(t)

	result, err := f.svc.SendOTP(context.Background(), SendOTPInput{Phone: testPhone})
	require.NoError(t, err)
	require.Len(t, result.DevCode, 6)

	stored := f.store.values["bm:otp:"+testPhone]
	require.NotEmpty(t, stored)
	assert.NotContains(t, stored, result.DevCode)
	assert.True(t, strings.HasPrefix(stored, "$argon2id$"))
}

func TestVerifyOTPCreatesUserAndIssuesTokens(t *testing.T) {
	f := newAuthFixture(t)
	sent, err := f.svc.SendOTP(context.Background(), SendOTPInput{Phone: testPhone})
	require.NoError(t, err)

	pair, err := f.svc.VerifyOTP(context.Background(), VerifyOTPInput{Phone: testPhone, Code: sent.DevCode})
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.Equal(t, enums.UserRoleCustomer, pair.User.Role)
	assert.Equal(t, testPhone, pair.User.Phone)

	user, err := f.users.FindByPhone(context.Background(), testPhone)
	require.NoError(t, err)
	assert.NotNil(t, user.LastLoginAt)
}

func TestVerifyOTPIsSingleUse(t *testing.T) {
	f := newAuthFixture(t)
	sent, err := f.svc.SendOTP(context.Background(), SendOTPInput{Phone: testPhone})
	require.NoError(t, err)

	_, err = f.svc.VerifyOTP(context.Background(), VerifyOTPInput{Phone: testPhone, Code: sent.DevCode})
	require.NoError(t, err)

	_, err = f.svc.VerifyOTP(context.Background(), VerifyOTPInput{Phone: testPhone, Code: sent.DevCode})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeUnauthorized, pkgerrors.As(err).Code())
}

func TestVerifyOTPWrongCode(t *testing.T) {
	f := newAuthFixture(t)
	_, err := f.svc.SendOTP(context.Background(), SendOTPInput{Phone: testPhone})
	require.NoError(t, err)

	_, err = f.svc.VerifyOTP(context.Background(), VerifyOTPInput{Phone: testPhone, Code: "000000"})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeUnauthorized, pkgerrors.As(err).Code())
}

func TestVerifyOTPBurnsCodeAfterTooManyAttempts(t *testing.T) {
	f := newAuthFixture(t)
	sent, err := f.svc.SendOTP(context.Background(), SendOTPInput{Phone: testPhone})
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err = f.svc.VerifyOTP(context.Background(), VerifyOTPInput{Phone: testPhone, Code: "000000"})
		require.Error(t, err)
	}

	// Fourth attempt trips the limit even with the right code.
	_, err = f.svc.VerifyOTP(context.Background(), VerifyOTPInput{Phone: testPhone, Code: sent.DevCode})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeRateLimit, pkgerrors.As(err).Code())

	_, err = f.svc.VerifyOTP(context.Background(), VerifyOTPInput{Phone: testPhone, Code: sent.DevCode})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeUnauthorized, pkgerrors.As(err).Code())
}

func TestRefreshRotatesSession(t *testing.T) {
	f := newAuthFixture(t)
	sent, err := f.svc.SendOTP(context.Background(), SendOTPInput{Phone: testPhone})
	require.NoError(t, err)
	pair, err := f.svc.VerifyOTP(context.Background(), VerifyOTPInput{Phone: testPhone, Code: sent.DevCode})
	require.NoError(t, err)

	rotated, err := f.svc.Refresh(context.Background(), RefreshInput{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
	require.NoError(t, err)
	assert.NotEqual(t, pair.RefreshToken, rotated.RefreshToken)

	// The old refresh token is dead after rotation.
	_, err = f.svc.Refresh(context.Background(), RefreshInput{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeUnauthorized, pkgerrors.As(err).Code())
}

func TestRefreshRejectsForgedToken(t *testing.T) {
	f := newAuthFixture(t)

	_, err := f.svc.Refresh(context.Background(), RefreshInput{
		AccessToken:  "not-a-jwt",
		RefreshToken: "whatever",
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeUnauthorized, pkgerrors.As(err).Code())
}

func TestUpdatePasswordChecksCurrent(t *testing.T) {
	f := newAuthFixture(t)
	sent, err := f.svc.SendOTP(context.Background(), SendOTPInput{Phone: testPhone})
	require.NoError(t, err)
	pair, err := f.svc.VerifyOTP(context.Background(), VerifyOTPInput{Phone: testPhone, Code: sent.DevCode})
	require.NoError(t, err)

	// First set: no current password required.
	err = f.svc.UpdatePassword(context.Background(), pair.User.ID, UpdatePasswordInput{NewPassword: "first-password"})
	require.NoError(t, err)

	// Replacing it demands the existing one.
	err = f.svc.UpdatePassword(context.Background(), pair.User.ID, UpdatePasswordInput{
		CurrentPassword: "wrong",
		NewPassword:     "second-password",
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeUnauthorized, pkgerrors.As(err).Code())

	err = f.svc.UpdatePassword(context.Background(), pair.User.ID, UpdatePasswordInput{
		CurrentPassword: "first-password",
		NewPassword:     "second-password",
	})
	require.NoError(t, err)
}

func TestLogoutRevokesSession(t *testing.T) {
	f := newAuthFixture(t)
	sent, err := f.svc.SendOTP(context.Background(), SendOTPInput{Phone: testPhone})
	require.NoError(t, err)
	_, err = f.svc.VerifyOTP(context.Background(), VerifyOTPInput{Phone: testPhone, Code: sent.DevCode})
	require.NoError(t, err)
	require.Len(t, f.sessions.active, 1)

	var accessID string
	for id := range f.sessions.active {
		accessID = id
	}
	require.NoError(t, f.svc.Logout(context.Background(), accessID))
	assert.Empty(t, f.sessions.active)
}
