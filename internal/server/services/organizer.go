// Package services contains server-side business logic. This file
// implements OrganizerService: credential verification, token issuance,
// logout (revocation), and profile management.
package services

import (
	"context"
	"errors"

	"github.com/akozlov/activityhub/internal/common"
	"github.com/akozlov/activityhub/internal/server/auth"
	"github.com/akozlov/activityhub/internal/server/models"
	"github.com/akozlov/activityhub/internal/server/repositories/organizers"
	"github.com/akozlov/activityhub/internal/server/repositories/revokedtokens"
)

// TokenPair bundles the short-lived access token and the long-lived
// refresh token minted at login.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	Username     string
}

// ProfileUpdate carries the optional profile mutations. Nil fields are
// left unchanged; a non-nil Password is re-hashed before storage.
type ProfileUpdate struct {
	Name     *string
	Email    *string
	Avatar   *string
	Password *string
}

type OrganizerService struct {
	repo        organizers.Repository
	revokedRepo revokedtokens.Repository
	issuer      *auth.Issuer
}

func NewOrganizerService(repo organizers.Repository, revokedRepo revokedtokens.Repository, issuer *auth.Issuer) *OrganizerService {
	return &OrganizerService{
		repo:        repo,
		revokedRepo: revokedRepo,
		issuer:      issuer,
	}
}

// Login verifies the credentials and, on success, mints an access/refresh
// token pair. A missing organizer and a wrong password both yield
// common.ErrorUnauthorized, so the caller cannot distinguish them.
// Credential-store failures fail closed as common.ErrorInternal.
func (s *OrganizerService) Login(ctx context.Context, username string, password string) (*TokenPair, error) {
	organizer, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, common.ErrorInternal
	}

	if !auth.VerifyPassword(organizer.PasswordHash, password) {
		return nil, common.ErrorUnauthorized
	}

	access, err := s.issuer.IssueAccessToken(organizer.ID, organizer.Username)
	if err != nil {
		return nil, common.ErrorInternal
	}
	refresh, err := s.issuer.IssueRefreshToken(organizer.ID)
	if err != nil {
		return nil, common.ErrorInternal
	}

	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		Username:     organizer.Username,
	}, nil
}

// Refresh mints a new access token for the organizer named by an already
// verified refresh token. The refresh token itself is not rotated.
func (s *OrganizerService) Refresh(ctx context.Context, organizerID string) (string, error) {
	organizer, err := s.repo.GetByID(ctx, organizerID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", common.ErrorUnauthorized
		}
		return "", common.ErrorInternal
	}

	access, err := s.issuer.IssueAccessToken(organizer.ID, organizer.Username)
	if err != nil {
		return "", common.ErrorInternal
	}
	return access, nil
}

// Logout revokes the presented token's jti. Revocation is idempotent.
func (s *OrganizerService) Logout(ctx context.Context, jti string) error {
	if err := s.revokedRepo.Revoke(ctx, jti); err != nil {
		return common.ErrorInternal
	}
	return nil
}

// GetProfile returns the organizer's record. The caller is responsible for
// not exposing the password verifier.
func (s *OrganizerService) GetProfile(ctx context.Context, organizerID string) (*models.Organizer, error) {
	organizer, err := s.repo.GetByID(ctx, organizerID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, common.ErrorInternal
	}
	return organizer, nil
}

// UpdateProfile applies the non-nil fields of update to the organizer's
// record. A new password is hashed through the password hasher; the
// plaintext is never stored.
func (s *OrganizerService) UpdateProfile(ctx context.Context, organizerID string, update ProfileUpdate) (*models.Organizer, error) {
	organizer, err := s.repo.GetByID(ctx, organizerID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, common.ErrorInternal
	}

	if update.Name != nil {
		organizer.Name = *update.Name
	}
	if update.Email != nil {
		organizer.Email = *update.Email
	}
	if update.Avatar != nil {
		organizer.Avatar = *update.Avatar
	}
	if update.Password != nil {
		if *update.Password == "" {
			return nil, common.ErrorValidation
		}
		hash, err := auth.HashPassword(*update.Password)
		if err != nil {
			return nil, common.ErrorInternal
		}
		organizer.PasswordHash = hash
	}

	if err := s.repo.Update(ctx, organizer); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, common.ErrorInternal
	}

	return organizer, nil
}
