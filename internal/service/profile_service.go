// Package service contains the business logic layer of the application.
package service

import (
	"context"

	"inkwell/internal/models"
	"inkwell/internal/repository"
)

// ProfileService exposes public profiles and the follow graph.
type ProfileService struct {
	userRepo   repository.UserRepository
	followRepo repository.FollowRepository
}

// NewProfileService creates a new profile service.
func NewProfileService(
	userRepo repository.UserRepository,
	followRepo repository.FollowRepository,
) *ProfileService {
	return &ProfileService{
		userRepo:   userRepo,
		followRepo: followRepo,
	}
}

func (s *ProfileService) GetProfile(ctx context.Context, username string, currentUserID uint) (*models.Profile, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewNotFoundError("Profile", username)
	}

	following, err := s.followRepo.IsFollowing(ctx, currentUserID, user.ID)
	if err != nil {
		return nil, err
	}
	return user.Profile(following), nil
}

func (s *ProfileService) Follow(ctx context.Context, username string, currentUserID uint) (*models.Profile, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewNotFoundError("Profile", username)
	}
	if user.ID == currentUserID {
		return nil, models.NewValidationError("You cannot follow yourself")
	}

	if err := s.followRepo.Follow(ctx, currentUserID, user.ID); err != nil {
		return nil, err
	}
	return user.Profile(true), nil
}

func (s *ProfileService) Unfollow(ctx context.Context, username string, currentUserID uint) (*models.Profile, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewNotFoundError("Profile", username)
	}

	if err := s.followRepo.Unfollow(ctx, currentUserID, user.ID); err != nil {
		return nil, err
	}
	return user.Profile(false), nil
}
