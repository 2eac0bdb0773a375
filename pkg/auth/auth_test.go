package auth

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/arnavshah/shiftdock-api/internal/testdb"
	"github.com/arnavshah/shiftdock-api/pkg/apperr"
	"github.com/arnavshah/shiftdock-api/pkg/store"
	"github.com/golang-jwt/jwt/v4"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type capture struct{ codes map[string]string }

func (c *capture) SendCode(_ context.Context, phone, code string) error {
	c.codes[phone] = code
	return nil
}

func newService(t *testing.T, opts Options) (*Service, *capture, *MemoryOTPStore) {
	db := testdb.Open(t)
	logger, _ := test.NewNullLogger()
	sms := &capture{codes: map[string]string{}}
	codes := NewMemoryOTPStore()
	opts.HashCost = bcrypt.MinCost
	if opts.TTL == 0 {
		opts.TTL = time.Minute
	}
	svc := NewService(store.New(db), codes, sms, NewTokens([]byte("test-secret"), time.Hour), opts, logger)
	return svc, sms, codes
}

func TestTokenRoundTrip(t *testing.T) {
	tokens := NewTokens([]byte("s3cret"), time.Hour)
	signed, exp, err := tokens.Issue("user-1")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, time.Minute)

	claims, err := tokens.Verify(signed)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)

	_, err = NewTokens([]byte("other"), time.Hour).Verify(signed)
	assert.Equal(t, apperr.CodeInvalidToken, apperr.CodeOf(err))
}

func TestTokenExpired(t *testing.T) {
	tokens := NewTokens([]byte("s3cret"), time.Minute)
	tokens.now = func() time.Time { return time.Now().Add(-time.Hour) }
	signed, _, err := tokens.Issue("user-1")
	require.NoError(t, err)

	_, err = tokens.Verify(signed)
	assert.Equal(t, apperr.CodeInvalidToken, apperr.CodeOf(err))
}

func TestTokenRejectsOtherAlgorithms(t *testing.T) {
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{UserID: "user-1"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewTokens([]byte("s3cret"), time.Hour).Verify(unsigned)
	assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))
}

func TestRefreshTokenKinds(t *testing.T) {
	tokens := NewTokens([]byte("s3cret"), time.Hour).WithRefreshTTL(48 * time.Hour)
	access, _, err := tokens.Issue("user-1")
	require.NoError(t, err)
	refresh, exp, err := tokens.IssueRefresh("user-1", 3)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(48*time.Hour), exp, time.Minute)

	claims, err := tokens.VerifyRefresh(refresh)
	require.NoError(t, err)
	assert.Equal(t, 3, claims.Version)

	_, err = tokens.Verify(refresh)
	assert.Equal(t, apperr.CodeInvalidToken, apperr.CodeOf(err), "refresh tokens are not bearer tokens")
	_, err = tokens.VerifyRefresh(access)
	assert.Equal(t, apperr.CodeInvalidToken, apperr.CodeOf(err))
}

func TestSignUpRejectsDuplicatePhone(t *testing.T) {
	svc, _, _ := newService(t, Options{})
	ctx := context.Background()

	u, err := svc.SignUp(ctx, SignUpInput{Phone: " +1 555 0100 ", Name: "Wes"})
	require.NoError(t, err)
	assert.Equal(t, "+15550100", u.Phone)

	_, err = svc.SignUp(ctx, SignUpInput{Phone: "+15550100", Name: "Wes again"})
	assert.Equal(t, apperr.CodeUserExists, apperr.CodeOf(err))

	_, err = svc.SignUp(ctx, SignUpInput{Phone: "+15550101"})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestOTPFlow(t *testing.T) {
	svc, sms, _ := newService(t, Options{Length: 6})
	ctx := context.Background()
	u, err := svc.SignUp(ctx, SignUpInput{Phone: "+15550100", Name: "Wes"})
	require.NoError(t, err)

	err = svc.SendOTP(ctx, "+15559999")
	assert.Equal(t, apperr.CodeUserNotFound, apperr.CodeOf(err))

	require.NoError(t, svc.SendOTP(ctx, "+15550100"))
	code := sms.codes["+15550100"]
	assert.Len(t, code, 6)

	_, err = svc.VerifyOTP(ctx, "+15550100", "not-it")
	assert.Equal(t, apperr.CodeInvalidOTP, apperr.CodeOf(err))

	session, err := svc.VerifyOTP(ctx, "+15550100", code)
	require.NoError(t, err)
	assert.Equal(t, u.ID, session.User.ID)
	claims, err := svc.tokens.Verify(session.Token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.UserID)

	_, err = svc.VerifyOTP(ctx, "+15550100", code)
	assert.Equal(t, apperr.CodeInvalidOTP, apperr.CodeOf(err), "codes are single use")
}

func TestRefreshAndSignOut(t *testing.T) {
	svc, sms, _ := newService(t, Options{})
	ctx := context.Background()
	u, err := svc.SignUp(ctx, SignUpInput{Phone: "+15550100", Name: "Wes"})
	require.NoError(t, err)
	require.NoError(t, svc.SendOTP(ctx, u.Phone))
	session, err := svc.VerifyOTP(ctx, u.Phone, sms.codes[u.Phone])
	require.NoError(t, err)
	require.NotEmpty(t, session.RefreshToken)

	renewed, err := svc.Refresh(ctx, session.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, u.ID, renewed.User.ID)
	assert.NotEqual(t, session.Token, renewed.Token)

	_, err = svc.Refresh(ctx, session.Token)
	assert.Equal(t, apperr.CodeInvalidToken, apperr.CodeOf(err))

	require.NoError(t, svc.SignOut(ctx, u.ID))
	_, err = svc.Refresh(ctx, session.RefreshToken)
	assert.Equal(t, apperr.CodeInvalidToken, apperr.CodeOf(err))
	_, err = svc.Refresh(ctx, renewed.RefreshToken)
	assert.Equal(t, apperr.CodeInvalidToken, apperr.CodeOf(err))

	err = svc.SignOut(ctx, "missing")
	assert.Equal(t, apperr.CodeUserNotFound, apperr.CodeOf(err))
}

func TestOTPDevCodeAndExpiry(t *testing.T) {
	svc, _, codes := newService(t, Options{DevCode: "123456"})
	ctx := context.Background()
	_, err := svc.SignUp(ctx, SignUpInput{Phone: "+15550100", Name: "Wes"})
	require.NoError(t, err)
	require.NoError(t, svc.SendOTP(ctx, "+15550100"))

	codes.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	_, err = svc.VerifyOTP(ctx, "+15550100", "123456")
	assert.Equal(t, apperr.CodeInvalidOTP, apperr.CodeOf(err))
}

func TestMemoryStoreSweep(t *testing.T) {
	s := NewMemoryOTPStore()
	ctx := context.Background()
	require.NoError(t, s.Put(ctx, "a", "h1", time.Minute))
	require.NoError(t, s.Put(ctx, "b", "h2", time.Hour))

	s.now = func() time.Time { return time.Now().Add(10 * time.Minute) }
	assert.Equal(t, 1, s.Sweep())

	_, err := s.Get(ctx, "a")
	assert.ErrorIs(t, err, ErrNoCode)
	hash, err := s.Get(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, "h2", hash)
}

func TestRedisStore(t *testing.T) {
	url := os.Getenv("TEST_REDIS_URL")
	if url == "" {
		t.Skip("TEST_REDIS_URL not set")
	}
	ctx := context.Background()
	client, err := NewRedisClient(ctx, url)
	require.NoError(t, err)
	defer client.Close()

	s := NewRedisOTPStore(client)
	require.NoError(t, s.Put(ctx, "+15550100", "hash", time.Minute))
	hash, err := s.Get(ctx, "+15550100")
	require.NoError(t, err)
	assert.Equal(t, "hash", hash)
	assert.Positive(t, client.TTL(ctx, redisKeyPrefix+"+15550100").Val())

	require.NoError(t, s.Delete(ctx, "+15550100"))
	_, err = s.Get(ctx, "+15550100")
	assert.ErrorIs(t, err, ErrNoCode)
}

func TestLogSenderMasksCode(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	require.NoError(t, LogSender{Log: logger}.SendCode(context.Background(), "+15550100", "482913"))
	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.InfoLevel, entry.Level)
	assert.Equal(t, "*****3", entry.Data["code"])

	hook.Reset()
	require.NoError(t, LogSender{Log: logger, Reveal: true}.SendCode(context.Background(), "+15550100", "482913"))
	entry = hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.DebugLevel, entry.Level)
	assert.Equal(t, "482913", entry.Data["code"])

	logger.SetLevel(logrus.InfoLevel)
	hook.Reset()
	require.NoError(t, LogSender{Log: logger, Reveal: true}.SendCode(context.Background(), "+15550100", "482913"))
	assert.Empty(t, hook.AllEntries())
}
