package service

import (
	"context"
	"testing"

	"inkwell/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetProfile(t *testing.T) {
	ctx := context.Background()

	userRepo := noopUserRepo()
	userRepo.getByUsernameFn = func(_ context.Context, username string) (*models.User, error) {
		if username == "anna" {
			return &models.User{ID: 2, Username: "anna", Bio: "writer"}, nil
		}
		return nil, nil
	}
	followRepo := noopFollowRepo()
	followRepo.isFollowingFn = func(_ context.Context, followerID, followingID uint) (bool, error) {
		return followerID == 1 && followingID == 2, nil
	}

	svc := NewProfileService(userRepo, followRepo)

	t.Run("annotated for a follower", func(t *testing.T) {
		profile, err := svc.GetProfile(ctx, "anna", 1)
		require.NoError(t, err)
		assert.Equal(t, "anna", profile.Username)
		assert.True(t, profile.Following)
	})

	t.Run("anonymous sees following false", func(t *testing.T) {
		profile, err := svc.GetProfile(ctx, "anna", 0)
		require.NoError(t, err)
		assert.False(t, profile.Following)
	})

	t.Run("unknown username", func(t *testing.T) {
		_, err := svc.GetProfile(ctx, "ghost", 1)
		assert.True(t, models.IsCode(err, models.CodeNotFound))
	})
}

func TestFollow(t *testing.T) {
	ctx := context.Background()

	userRepo := noopUserRepo()
	userRepo.getByUsernameFn = func(_ context.Context, username string) (*models.User, error) {
		if username == "anna" {
			return &models.User{ID: 2, Username: "anna"}, nil
		}
		if username == "self" {
			return &models.User{ID: 1, Username: "self"}, nil
		}
		return nil, nil
	}

	t.Run("creates the edge and reports following", func(t *testing.T) {
		followRepo := noopFollowRepo()
		var edge [2]uint
		followRepo.followFn = func(_ context.Context, followerID, followingID uint) error {
			edge = [2]uint{followerID, followingID}
			return nil
		}

		svc := NewProfileService(userRepo, followRepo)
		profile, err := svc.Follow(ctx, "anna", 1)
		require.NoError(t, err)
		assert.Equal(t, [2]uint{1, 2}, edge)
		assert.True(t, profile.Following)
	})

	t.Run("self-follow is rejected", func(t *testing.T) {
		svc := NewProfileService(userRepo, noopFollowRepo())
		_, err := svc.Follow(ctx, "self", 1)
		assert.True(t, models.IsCode(err, models.CodeValidation))
	})

	t.Run("unknown username", func(t *testing.T) {
		svc := NewProfileService(userRepo, noopFollowRepo())
		_, err := svc.Follow(ctx, "ghost", 1)
		assert.True(t, models.IsCode(err, models.CodeNotFound))
	})
}

func TestUnfollow(t *testing.T) {
	ctx := context.Background()

	userRepo := noopUserRepo()
	userRepo.getByUsernameFn = func(_ context.Context, username string) (*models.User, error) {
		if username == "anna" {
			return &models.User{ID: 2, Username: "anna"}, nil
		}
		return nil, nil
	}
	followRepo := noopFollowRepo()
	removed := false
	followRepo.unfollowFn = func(_ context.Context, _, _ uint) error {
		removed = true
		return nil
	}

	svc := NewProfileService(userRepo, followRepo)
	profile, err := svc.Unfollow(ctx, "anna", 1)
	require.NoError(t, err)
	assert.True(t, removed)
	assert.False(t, profile.Following)
}
