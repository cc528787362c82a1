package services

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"lsx-portal/config"
	"lsx-portal/dto"
	"lsx-portal/internal/imagehost"
	"lsx-portal/internal/models"
	"lsx-portal/internal/notion"
	"lsx-portal/internal/ranking"
	"lsx-portal/internal/repository"
)

// PlaceholderPhotoURL is shown for members without a photo.
const PlaceholderPhotoURL = "https://via.placeholder.com/150"

// ImageUploader hosts an image and returns its public URL.
type ImageUploader interface {
	Upload(ctx context.Context, data []byte) (string, error)
}

type ProfileService struct {
	members *repository.MemberRepository
	images  ImageUploader
	ranking *RankingService
	clock   ranking.Clock
	logger  *zap.Logger
}

func NewProfileService(members *repository.MemberRepository, images ImageUploader, rankingSvc *RankingService, clock ranking.Clock, logger *zap.Logger) *ProfileService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProfileService{members: members, images: images, ranking: rankingSvc, clock: clock, logger: logger}
}

// ProfileFromPage builds the member's own view of their document.
func ProfileFromPage(page notion.Page, fields config.MemberSchema, clock ranking.Clock) models.MemberProfile {
	rec := ranking.RecordFromPage(page, fields, clock.Today())
	profile := models.MemberProfile{
		ID:          rec.ID,
		DisplayName: rec.DisplayName,
		Nickname:    page.Properties.Text(fields.Nickname, ""),
		Username:    rec.Username,
		PhotoURL:    PlaceholderPhotoURL,
		Birthday:    rec.Birthday,
		AgeYears:    rec.AgeYears,
		RankGroup:   rec.RankGroup,
		RankTitle:   rec.RankTitle,
		Score:       rec.OverallScore,
		Rank:        rec.OverallRankParsed,
		JuniorScore: rec.JuniorScore,
		JuniorRank:  rec.JuniorRankParsed,
	}
	if rec.PhotoURL != nil {
		profile.PhotoURL = *rec.PhotoURL
		profile.HasPhoto = true
	}
	return profile
}

// Get refreshes the member from the store.
func (s *ProfileService) Get(ctx context.Context, memberID string) (models.MemberProfile, error) {
	page, err := s.members.Get(ctx, memberID)
	if err != nil {
		if errors.Is(err, repository.ErrMemberNotFound) {
			return models.MemberProfile{}, err
		}
		s.logger.Warn("refresh member", zap.String("member", memberID), zap.Error(err))
		return models.MemberProfile{}, ErrUnavailable
	}
	return ProfileFromPage(*page, s.members.Fields(), s.clock), nil
}

// Update applies a display name and/or password change. A display name
// equal to the current one is not written.
func (s *ProfileService) Update(ctx context.Context, memberID string, req dto.UpdateProfileRequest) (models.MemberProfile, error) {
	if req.Password != "" || req.ConfirmPassword != "" {
		if req.Password != req.ConfirmPassword {
			return models.MemberProfile{}, invalid("passwords do not match")
		}
		if len(req.Password) < minPasswordLength {
			return models.MemberProfile{}, invalid("password is too short")
		}
		if len(req.Password) > maxPasswordLength {
			return models.MemberProfile{}, invalid("password is too long")
		}
	}

	var name *string
	if req.DisplayName != nil {
		trimmed := strings.TrimSpace(*req.DisplayName)
		if trimmed == "" {
			return models.MemberProfile{}, invalid("display name cannot be empty")
		}
		name = &trimmed
	}

	current, err := s.Get(ctx, memberID)
	if err != nil {
		return models.MemberProfile{}, err
	}

	var update repository.MemberUpdate
	if name != nil && *name != current.DisplayName {
		other, err := s.members.FindByDisplayName(ctx, *name)
		switch {
		case err == nil && other.ID != memberID:
			return models.MemberProfile{}, invalid("display name is already taken")
		case err != nil && !errors.Is(err, repository.ErrMemberNotFound):
			s.logger.Warn("duplicate name check failed", zap.Error(err))
			return models.MemberProfile{}, ErrUnavailable
		}
		update.DisplayName = name
	}
	if req.Password != "" {
		hashed, err := HashPassword(req.Password)
		if err != nil {
			return models.MemberProfile{}, err
		}
		update.PasswordHash = &hashed
	}

	if update.Empty() {
		return current, nil
	}
	return s.write(ctx, memberID, update)
}

// UploadPhoto hosts the image and points the member's photo at it.
func (s *ProfileService) UploadPhoto(ctx context.Context, memberID string, data []byte) (string, error) {
	if _, err := imagehost.Validate(data); err != nil {
		return "", invalid(err.Error())
	}

	url, err := s.images.Upload(ctx, data)
	if err != nil {
		s.logger.Warn("photo upload failed", zap.String("member", memberID), zap.Error(err))
		return "", ErrPhotoUpload
	}

	if _, err := s.write(ctx, memberID, repository.MemberUpdate{PhotoURL: &url}); err != nil {
		return "", err
	}
	return url, nil
}

func (s *ProfileService) write(ctx context.Context, memberID string, update repository.MemberUpdate) (models.MemberProfile, error) {
	page, err := s.members.Update(ctx, memberID, update)
	if err != nil {
		if errors.Is(err, repository.ErrMemberNotFound) {
			return models.MemberProfile{}, err
		}
		s.logger.Warn("save member", zap.String("member", memberID), zap.Error(err))
		return models.MemberProfile{}, ErrUnavailable
	}
	if s.ranking != nil {
		s.ranking.Invalidate()
	}
	s.logger.Info("member updated", zap.String("member", memberID))
	return ProfileFromPage(*page, s.members.Fields(), s.clock), nil
}

// FromPage renders a member page fetched elsewhere, e.g. by login.
func (s *ProfileService) FromPage(page notion.Page) models.MemberProfile {
	return ProfileFromPage(page, s.members.Fields(), s.clock)
}
