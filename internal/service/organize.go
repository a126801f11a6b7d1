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

// OrganizeService manages tags, collections, the class/section vocabulary,
// and activity links.
type OrganizeService struct {
	store     store.Store
	validator *validation.Validator
	cache     *cache.StatsCache
	logger    *slog.Logger
}

// NewOrganizeService creates a new organize service.
func NewOrganizeService(st store.Store, v *validation.Validator, c *cache.StatsCache, logger *slog.Logger) *OrganizeService {
	return &OrganizeService{
		store:     st,
		validator: v,
		cache:     c,
		logger:    logger,
	}
}

// CreateTag validates and persists a new tag.
func (s *OrganizeService) CreateTag(ctx context.Context, t *domain.Tag) error {
	if err := s.validator.Validate(*t); err != nil {
		return err
	}
	if err := s.store.CreateTag(ctx, t); err != nil {
		return fmt.Errorf("create tag: %w", err)
	}
	s.cache.Invalidate()
	return nil
}

// ListTags returns all tags with their video counts.
func (s *OrganizeService) ListTags(ctx context.Context) ([]*domain.Tag, error) {
	return s.store.ListTags(ctx)
}

// DeleteTag removes a tag and its associations; tagged videos survive.
func (s *OrganizeService) DeleteTag(ctx context.Context, id int64) error {
	if err := s.store.DeleteTag(ctx, id); err != nil {
		return err
	}
	s.cache.Invalidate()

	s.logger.Info("tag deleted", "tag_id", id)
	return nil
}

// TagVideo associates a tag with a video, creating the tag on first use.
func (s *OrganizeService) TagVideo(ctx context.Context, videoID int64, tagName string) (*domain.Tag, error) {
	tag, created, err := s.store.FindOrCreateTagByName(ctx, tagName)
	if err != nil {
		return nil, err
	}
	if err := s.store.AddTagToVideo(ctx, videoID, tag.ID); err != nil {
		return nil, err
	}
	s.cache.Invalidate()

	if created {
		s.logger.Info("tag created on first use", "tag_id", tag.ID, "name", tag.Name)
	}
	return tag, nil
}

// UntagVideo removes the association; removing a missing one is a no-op.
func (s *OrganizeService) UntagVideo(ctx context.Context, videoID, tagID int64) error {
	if err := s.store.RemoveTagFromVideo(ctx, videoID, tagID); err != nil {
		return err
	}
	s.cache.Invalidate()
	return nil
}

// ReplaceVideoTags swaps a video's full tag set in one transaction.
func (s *OrganizeService) ReplaceVideoTags(ctx context.Context, videoID int64, tagNames []string) error {
	if err := s.store.ReplaceVideoTags(ctx, videoID, tagNames); err != nil {
		return err
	}
	s.cache.Invalidate()
	return nil
}

// GetVideoTags returns the tags on a video.
func (s *OrganizeService) GetVideoTags(ctx context.Context, videoID int64) ([]*domain.Tag, error) {
	return s.store.GetVideoTags(ctx, videoID)
}

// CreateCollection validates and persists a new collection.
func (s *OrganizeService) CreateCollection(ctx context.Context, c *domain.Collection) error {
	if err := s.validator.Validate(*c); err != nil {
		return err
	}
	if err := s.store.CreateCollection(ctx, c); err != nil {
		return fmt.Errorf("create collection: %w", err)
	}
	s.cache.Invalidate()
	return nil
}

// GetCollection retrieves a collection with its video count.
func (s *OrganizeService) GetCollection(ctx context.Context, id int64) (*domain.Collection, error) {
	return s.store.GetCollection(ctx, id)
}

// ListCollections returns all collections with video counts.
func (s *OrganizeService) ListCollections(ctx context.Context) ([]*domain.Collection, error) {
	return s.store.ListCollections(ctx)
}

// UpdateCollection validates and persists collection changes.
func (s *OrganizeService) UpdateCollection(ctx context.Context, c *domain.Collection) error {
	if err := s.validator.Validate(*c); err != nil {
		return err
	}
	if err := s.store.UpdateCollection(ctx, c); err != nil {
		return fmt.Errorf("update collection: %w", err)
	}
	s.cache.Invalidate()
	return nil
}

// DeleteCollection removes a collection; its videos survive.
func (s *OrganizeService) DeleteCollection(ctx context.Context, id int64) error {
	if err := s.store.DeleteCollection(ctx, id); err != nil {
		return err
	}
	s.cache.Invalidate()

	s.logger.Info("collection deleted", "collection_id", id)
	return nil
}

// AddVideoToCollection adds a shared reference; re-adding is a no-op.
func (s *OrganizeService) AddVideoToCollection(ctx context.Context, collectionID, videoID int64) error {
	if err := s.store.AddVideoToCollection(ctx, collectionID, videoID); err != nil {
		return err
	}
	s.cache.Invalidate()
	return nil
}

// RemoveVideoFromCollection drops the reference; the video survives.
func (s *OrganizeService) RemoveVideoFromCollection(ctx context.Context, collectionID, videoID int64) error {
	if err := s.store.RemoveVideoFromCollection(ctx, collectionID, videoID); err != nil {
		return err
	}
	s.cache.Invalidate()
	return nil
}

// GetCollectionVideos returns a collection's videos, most recently added first.
func (s *OrganizeService) GetCollectionVideos(ctx context.Context, collectionID int64) ([]*domain.Video, error) {
	return s.store.GetCollectionVideos(ctx, collectionID)
}

// GetVideoCollections returns the collections containing a video.
func (s *OrganizeService) GetVideoCollections(ctx context.Context, videoID int64) ([]*domain.Collection, error) {
	return s.store.GetVideoCollections(ctx, videoID)
}

// CreateClass adds a class to the hierarchy vocabulary.
func (s *OrganizeService) CreateClass(ctx context.Context, c *domain.Class) error {
	if err := s.validator.Validate(*c); err != nil {
		return err
	}
	if err := s.store.CreateClass(ctx, c); err != nil {
		return fmt.Errorf("create class: %w", err)
	}
	s.cache.Invalidate()
	return nil
}

// ListClasses returns the class vocabulary with usage counts.
func (s *OrganizeService) ListClasses(ctx context.Context) ([]*domain.Class, error) {
	return s.store.ListClasses(ctx)
}

// DeleteClass removes a vocabulary entry; activities keep the name.
func (s *OrganizeService) DeleteClass(ctx context.Context, id int64) error {
	if err := s.store.DeleteClass(ctx, id); err != nil {
		return err
	}
	s.cache.Invalidate()
	return nil
}

// CreateSection adds a section to the hierarchy vocabulary.
func (s *OrganizeService) CreateSection(ctx context.Context, sec *domain.Section) error {
	if err := s.validator.Validate(*sec); err != nil {
		return err
	}
	if err := s.store.CreateSection(ctx, sec); err != nil {
		return fmt.Errorf("create section: %w", err)
	}
	s.cache.Invalidate()
	return nil
}

// ListSections returns the section vocabulary with usage counts.
func (s *OrganizeService) ListSections(ctx context.Context) ([]*domain.Section, error) {
	return s.store.ListSections(ctx)
}

// DeleteSection removes a vocabulary entry; activities keep the name.
func (s *OrganizeService) DeleteSection(ctx context.Context, id int64) error {
	if err := s.store.DeleteSection(ctx, id); err != nil {
		return err
	}
	s.cache.Invalidate()
	return nil
}

// CreateLink attaches an external link to an activity.
func (s *OrganizeService) CreateLink(ctx context.Context, l *domain.Link) error {
	if err := s.validator.Validate(*l); err != nil {
		return err
	}
	if err := s.store.CreateLink(ctx, l); err != nil {
		return fmt.Errorf("create link: %w", err)
	}
	s.cache.Invalidate()
	return nil
}

// ListLinksByActivity returns an activity's links, newest first.
func (s *OrganizeService) ListLinksByActivity(ctx context.Context, activityID int64) ([]*domain.Link, error) {
	return s.store.ListLinksByActivity(ctx, activityID)
}

// DeleteLink removes a link.
func (s *OrganizeService) DeleteLink(ctx context.Context, id int64) error {
	if err := s.store.DeleteLink(ctx, id); err != nil {
		return err
	}
	s.cache.Invalidate()
	return nil
}
