// Package auth signs users in by phone with one-time codes and issues the
// bearer tokens the API authenticates with.
package auth

import (
	"context"
	"crypto/rand"
	"math/big"
	"strings"
	"time"

	"github.com/arnavshah/shiftdock-api/pkg/apperr"
	"github.com/arnavshah/shiftdock-api/pkg/database"
	"github.com/arnavshah/shiftdock-api/pkg/store"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// SMSSender delivers a one-time code to a phone
type SMSSender interface {
	SendCode(ctx context.Context, phone, code string) error
}

// LogSender writes codes to the log instead of sending them. The code is
// masked unless Reveal is set, and even then only logged at debug level.
type LogSender struct {
	Log    logrus.FieldLogger
	Reveal bool
}

func (s LogSender) SendCode(_ context.Context, phone, code string) error {
	entry := s.Log.WithField("phone", phone)
	if s.Reveal {
		entry.WithField("code", code).Debug("otp issued")
		return nil
	}
	entry.WithField("code", MaskCode(code)).Info("otp issued")
	return nil
}

// MaskCode keeps the last digit of code
func MaskCode(code string) string {
	if len(code) <= 1 {
		return strings.Repeat("*", len(code))
	}
	return strings.Repeat("*", len(code)-1) + code[len(code)-1:]
}

type Options struct {
	TTL      time.Duration
	Length   int
	DevCode  string
	HashCost int
}

type Service struct {
	store  *store.Store
	codes  OTPStore
	sms    SMSSender
	tokens *Tokens
	opts   Options
	log    logrus.FieldLogger
}

func NewService(st *store.Store, codes OTPStore, sms SMSSender, tokens *Tokens, opts Options, log logrus.FieldLogger) *Service {
	if opts.HashCost == 0 {
		opts.HashCost = bcrypt.DefaultCost
	}
	if opts.Length == 0 {
		opts.Length = 6
	}
	return &Service{store: st, codes: codes, sms: sms, tokens: tokens, opts: opts, log: log}
}

func normalizePhone(phone string) string {
	return strings.ReplaceAll(strings.TrimSpace(phone), " ", "")
}

type SignUpInput struct {
	Phone string
	Name  string
	Email *string
}

// SignUp registers a user. A phone number can only be registered once.
func (s *Service) SignUp(ctx context.Context, in SignUpInput) (*database.User, error) {
	phone := normalizePhone(in.Phone)
	if phone == "" || strings.TrimSpace(in.Name) == "" {
		return nil, apperr.Validation(apperr.CodeValidationFailed, "phone and name are required")
	}
	_, err := s.store.Users.GetByPhone(ctx, phone)
	switch {
	case err == nil:
		return nil, apperr.Conflict(apperr.CodeUserExists, "a user with phone %s already exists", phone)
	case !errors.Is(err, store.ErrNotFound):
		return nil, errors.Wrap(err, "load user by phone")
	}

	u := &database.User{Phone: phone, Name: strings.TrimSpace(in.Name), Email: in.Email}
	if err := s.store.Users.Add(ctx, u); err != nil {
		return nil, errors.Wrap(err, "insert user")
	}
	s.log.WithField("user_id", u.ID).Info("user signed up")
	return u, nil
}

func (s *Service) generateCode() (string, error) {
	if s.opts.DevCode != "" {
		return s.opts.DevCode, nil
	}
	var sb strings.Builder
	ten := big.NewInt(10)
	for i := 0; i < s.opts.Length; i++ {
		d, err := rand.Int(rand.Reader, ten)
		if err != nil {
			return "", err
		}
		sb.WriteByte(byte('0' + d.Int64()))
	}
	return sb.String(), nil
}

// SendOTP stores a fresh code for a registered phone and delivers it.
// A new code replaces any pending one.
func (s *Service) SendOTP(ctx context.Context, phone string) error {
	phone = normalizePhone(phone)
	if _, err := s.store.Users.GetByPhone(ctx, phone); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apperr.NotFound(apperr.CodeUserNotFound, "no user with phone %s", phone)
		}
		return errors.Wrap(err, "load user by phone")
	}

	code, err := s.generateCode()
	if err != nil {
		return errors.Wrap(err, "generate otp")
	}
	hash, err := HashCode(code, s.opts.HashCost)
	if err != nil {
		return errors.Wrap(err, "hash otp")
	}
	if err := s.codes.Put(ctx, phone, hash, s.opts.TTL); err != nil {
		return err
	}
	return errors.Wrap(s.sms.SendCode(ctx, phone, code), "send otp")
}

type Session struct {
	Token            string
	ExpiresAt        time.Time
	RefreshToken     string
	RefreshExpiresAt time.Time
	User             *database.User
}

func (s *Service) session(u *database.User) (*Session, error) {
	token, expiresAt, err := s.tokens.Issue(u.ID)
	if err != nil {
		return nil, errors.Wrap(err, "issue token")
	}
	refresh, refreshExpiresAt, err := s.tokens.IssueRefresh(u.ID, u.TokenVersion)
	if err != nil {
		return nil, errors.Wrap(err, "issue refresh token")
	}
	return &Session{
		Token:            token,
		ExpiresAt:        expiresAt,
		RefreshToken:     refresh,
		RefreshExpiresAt: refreshExpiresAt,
		User:             u,
	}, nil
}

// VerifyOTP consumes a matching code and issues a token for its user
func (s *Service) VerifyOTP(ctx context.Context, phone, code string) (*Session, error) {
	phone = normalizePhone(phone)
	hash, err := s.codes.Get(ctx, phone)
	if errors.Is(err, ErrNoCode) {
		return nil, apperr.Unauthorized(apperr.CodeInvalidOTP, "invalid or expired code")
	}
	if err != nil {
		return nil, err
	}
	if !CheckCodeHash(strings.TrimSpace(code), hash) {
		return nil, apperr.Unauthorized(apperr.CodeInvalidOTP, "invalid or expired code")
	}
	if err := s.codes.Delete(ctx, phone); err != nil {
		return nil, err
	}

	u, err := s.store.Users.GetByPhone(ctx, phone)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperr.NotFound(apperr.CodeUserNotFound, "no user with phone %s", phone)
	}
	if err != nil {
		return nil, errors.Wrap(err, "load user by phone")
	}
	session, err := s.session(u)
	if err != nil {
		return nil, err
	}
	s.log.WithField("user_id", u.ID).Info("user signed in")
	return session, nil
}

// Refresh exchanges a valid refresh token for a new token pair. Tokens issued
// before the user's last sign out are rejected.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*Session, error) {
	claims, err := s.tokens.VerifyRefresh(refreshToken)
	if err != nil {
		return nil, err
	}
	u, err := s.store.Users.GetByID(ctx, claims.UserID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperr.Unauthorized(apperr.CodeInvalidToken, "invalid or expired token")
	}
	if err != nil {
		return nil, errors.Wrap(err, "load user")
	}
	if claims.Version != u.TokenVersion {
		return nil, apperr.Unauthorized(apperr.CodeInvalidToken, "refresh token revoked")
	}
	return s.session(u)
}

// SignOut revokes every refresh token of the user. Access tokens stay valid
// until they expire.
func (s *Service) SignOut(ctx context.Context, userID string) error {
	err := s.store.Users.BumpTokenVersion(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return apperr.NotFound(apperr.CodeUserNotFound, "user %s not found", userID)
	}
	if err != nil {
		return errors.Wrap(err, "revoke refresh tokens")
	}
	s.log.WithField("user_id", userID).Info("user signed out")
	return nil
}

// Me returns the user a verified token belongs to
func (s *Service) Me(ctx context.Context, userID string) (*database.User, error) {
	u, err := s.store.Users.GetByID(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperr.NotFound(apperr.CodeUserNotFound, "user %s not found", userID)
	}
	return u, errors.Wrap(err, "load user")
}
