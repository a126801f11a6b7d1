// Package service provides the business logic layer orchestrating the
// catalog store, validation, and the aggregate cache.
package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/vidcatapp/vidcat-core/internal/cache"
	"github.com/vidcatapp/vidcat-core/internal/domain"
	"github.com/vidcatapp/vidcat-core/internal/store"
	"github.com/vidcatapp/vidcat-core/internal/validation"
)

// CatalogService orchestrates activity and video operations. Every
// successful mutation invalidates the aggregate cache before returning,
// so statistics reads never serve pre-mutation values.
type CatalogService struct {
	store     store.Store
	validator *validation.Validator
	cache     *cache.StatsCache
	logger    *slog.Logger
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(st store.Store, v *validation.Validator, c *cache.StatsCache, logger *slog.Logger) *CatalogService {
	return &CatalogService{
		store:     st,
		validator: v,
		cache:     c,
		logger:    logger,
	}
}

// CreateActivity validates and persists a new activity.
func (s *CatalogService) CreateActivity(ctx context.Context, a *domain.Activity) error {
	if err := s.validator.Validate(*a); err != nil {
		return err
	}
	if err := s.store.CreateActivity(ctx, a); err != nil {
		return fmt.Errorf("create activity: %w", err)
	}
	s.cache.Invalidate()

	s.logger.Info("activity created",
		"activity_id", a.ID,
		"name", a.Name,
	)
	return nil
}

// GetActivity retrieves an activity with its video count.
func (s *CatalogService) GetActivity(ctx context.Context, id int64) (*domain.Activity, error) {
	return s.store.GetActivity(ctx, id)
}

// ListActivities returns activities, optionally restricted by class and/or
// section. Empty filters return everything.
func (s *CatalogService) ListActivities(ctx context.Context, class, section string) ([]*domain.Activity, error) {
	if class == "" && section == "" {
		return s.store.ListActivities(ctx)
	}
	return s.store.ListActivitiesFiltered(ctx, class, section)
}

// UpdateActivity validates and persists activity changes.
func (s *CatalogService) UpdateActivity(ctx context.Context, a *domain.Activity) error {
	if err := s.validator.Validate(*a); err != nil {
		return err
	}
	if err := s.store.UpdateActivity(ctx, a); err != nil {
		return fmt.Errorf("update activity: %w", err)
	}
	s.cache.Invalidate()
	return nil
}

// DeleteActivity removes an activity. Without cascade it fails with a
// HasDependents error when videos exist; the caller confirms and re-issues
// with cascade set. Returns the stored file paths that were removed.
func (s *CatalogService) DeleteActivity(ctx context.Context, id int64, cascade bool) ([]string, error) {
	paths, err := s.store.DeleteActivity(ctx, id, cascade)
	if err != nil {
		return nil, err
	}
	s.cache.Invalidate()

	s.logger.Info("activity deleted",
		"activity_id", id,
		"cascade", cascade,
		"removed_files", len(paths),
	)
	return paths, nil
}

// CreateVideo validates and persists a new video with its tags. A zero
// VersionNumber is assigned the next number in the video's version chain.
func (s *CatalogService) CreateVideo(ctx context.Context, v *domain.Video, tagNames []string) error {
	if v.VersionNumber == 0 {
		next, err := s.store.NextVersionNumber(ctx, v.ActivityID, v.Title)
		if err != nil {
			return fmt.Errorf("next version number: %w", err)
		}
		v.VersionNumber = next
	}
	if err := s.validator.Validate(*v); err != nil {
		return err
	}
	if err := s.store.CreateVideo(ctx, v, tagNames); err != nil {
		return fmt.Errorf("create video: %w", err)
	}
	s.cache.Invalidate()

	s.logger.Info("video created",
		"video_id", v.ID,
		"activity_id", v.ActivityID,
		"title", v.Title,
		"version", v.VersionNumber,
	)
	return nil
}

// GetVideo retrieves a video by ID.
func (s *CatalogService) GetVideo(ctx context.Context, id int64) (*domain.Video, error) {
	return s.store.GetVideo(ctx, id)
}

// ListVideosByActivity returns an activity's videos, newest version first.
func (s *CatalogService) ListVideosByActivity(ctx context.Context, activityID int64) ([]*domain.Video, error) {
	return s.store.ListVideosByActivity(ctx, activityID)
}

// UpdateVideo validates and persists video changes. The upload date is
// immutable and silently preserved by the store.
func (s *CatalogService) UpdateVideo(ctx context.Context, v *domain.Video) error {
	if err := s.validator.Validate(*v); err != nil {
		return err
	}
	if err := s.store.UpdateVideo(ctx, v); err != nil {
		return fmt.Errorf("update video: %w", err)
	}
	s.cache.Invalidate()
	return nil
}

// DeleteVideo removes a video, returning the stored paths handed to the
// file storage collaborator.
func (s *CatalogService) DeleteVideo(ctx context.Context, id int64) ([]string, error) {
	paths, err := s.store.DeleteVideo(ctx, id)
	if err != nil {
		return nil, err
	}
	s.cache.Invalidate()

	s.logger.Info("video deleted",
		"video_id", id,
		"removed_files", len(paths),
	)
	return paths, nil
}

// ListVersionChain returns the revisions sharing the video's activity and
// title, oldest version first.
func (s *CatalogService) ListVersionChain(ctx context.Context, activityID int64, title string) ([]*domain.Video, error) {
	return s.store.ListVersionChain(ctx, activityID, title)
}

// NextVersionNumber returns the version number a new revision would get.
func (s *CatalogService) NextVersionNumber(ctx context.Context, activityID int64, title string) (int, error) {
	return s.store.NextVersionNumber(ctx, activityID, title)
}
