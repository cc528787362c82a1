package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"lsx-portal/dto"
	"lsx-portal/internal/notion"
	"lsx-portal/internal/ranking"
	"lsx-portal/internal/repository"
)

const (
	minPasswordLength = 4
	// bcrypt.GenerateFromPassword rejects longer input.
	maxPasswordLength = 72
)

type AuthService struct {
	members       *repository.MemberRepository
	clock         ranking.Clock
	logger        *zap.Logger
	upgradeLegacy bool
}

func NewAuthService(members *repository.MemberRepository, clock ranking.Clock, logger *zap.Logger) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{members: members, clock: clock, logger: logger, upgradeLegacy: true}
}

// WithLegacyUpgrade controls whether a login that matched a plaintext
// password writes a bcrypt hash back to the member record.
func (s *AuthService) WithLegacyUpgrade(enabled bool) *AuthService {
	s.upgradeLegacy = enabled
	return s
}

func isBcryptHash(s string) bool {
	return strings.HasPrefix(s, "$2a$") || strings.HasPrefix(s, "$2b$") || strings.HasPrefix(s, "$2y$")
}

func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// checkPassword accepts bcrypt hashes and legacy plaintext values. legacy is
// true when the stored value should be upgraded to a hash.
func checkPassword(stored, given string) (ok, legacy bool) {
	if stored == "" {
		return false, false
	}
	if isBcryptHash(stored) {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(given)) == nil, false
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(given)) == 1, true
}

// Login returns the member page for valid credentials.
func (s *AuthService) Login(ctx context.Context, username, password string) (*notion.Page, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	page, err := s.members.FindByUsername(ctx, username)
	if errors.Is(err, repository.ErrMemberNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		s.logger.Warn("login lookup failed", zap.Error(err))
		return nil, ErrUnavailable
	}

	stored := page.Properties.RawText(s.members.Fields().Password)
	ok, legacy := checkPassword(stored, password)
	if !ok {
		return nil, ErrInvalidCredentials
	}

	if legacy && s.upgradeLegacy {
		s.upgradePassword(ctx, page.ID, password)
	}
	return page, nil
}

func (s *AuthService) upgradePassword(ctx context.Context, memberID, password string) {
	hashed, err := HashPassword(password)
	if err != nil {
		s.logger.Warn("hash legacy password", zap.Error(err))
		return
	}
	if _, err := s.members.Update(ctx, memberID, repository.MemberUpdate{PasswordHash: &hashed}); err != nil {
		s.logger.Warn("upgrade legacy password", zap.String("member", memberID), zap.Error(err))
		return
	}
	s.logger.Info("upgraded legacy password", zap.String("member", memberID))
}

// Register validates the request, rejects duplicate display names and
// creates the member document.
func (s *AuthService) Register(ctx context.Context, req dto.RegisterRequest) (*notion.Page, error) {
	name := strings.TrimSpace(req.DisplayName)
	switch {
	case name == "":
		return nil, invalid("display name is required")
	case req.Password == "":
		return nil, invalid("password is required")
	case strings.TrimSpace(req.Birthday) == "":
		return nil, invalid("birthday is required")
	case len(req.Password) < minPasswordLength:
		return nil, invalid("password is too short")
	case len(req.Password) > maxPasswordLength:
		return nil, invalid("password is too long")
	case req.Password != req.ConfirmPassword:
		return nil, invalid("passwords do not match")
	}

	birthday, err := time.Parse(time.DateOnly, strings.TrimSpace(req.Birthday))
	if err != nil {
		return nil, invalid("birthday must be YYYY-MM-DD")
	}
	if birthday.After(s.clock.Today()) {
		return nil, invalid("birthday cannot be in the future")
	}

	_, err = s.members.FindByDisplayName(ctx, name)
	switch {
	case err == nil:
		return nil, invalid("display name is already taken")
	case !errors.Is(err, repository.ErrMemberNotFound):
		s.logger.Warn("duplicate name check failed", zap.Error(err))
		return nil, ErrUnavailable
	}

	hashed, err := HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	page, err := s.members.Create(ctx, repository.NewMember{
		DisplayName:  name,
		Nickname:     strings.TrimSpace(req.Nickname),
		PasswordHash: hashed,
		Birthday:     &birthday,
	})
	if err != nil {
		s.logger.Warn("create member failed", zap.Error(err))
		return nil, ErrUnavailable
	}
	s.logger.Info("member registered", zap.String("member", page.ID))
	return page, nil
}
