// Package store defines the persistence contract for the catalog core and
// the query types shared between the engine and its callers.
package store

import (
	"context"

	"github.com/vidcatapp/vidcat-core/internal/domain"
)

// Store is the full catalog persistence contract. The SQLite implementation
// in store/sqlite is the only production implementation; the interface
// exists so services can be exercised against it in tests without reaching
// through to SQL.
type Store interface {
	ActivityStore
	VideoStore
	TagStore
	CollectionStore
	TaxonomyStore
	LinkStore
	SearchStore
	StatsStore

	Close() error
}

// ActivityStore covers activity CRUD and the confirmation-gated cascade.
type ActivityStore interface {
	CreateActivity(ctx context.Context, a *domain.Activity) error
	GetActivity(ctx context.Context, id int64) (*domain.Activity, error)
	ListActivities(ctx context.Context) ([]*domain.Activity, error)
	ListActivitiesFiltered(ctx context.Context, class, section string) ([]*domain.Activity, error)
	UpdateActivity(ctx context.Context, a *domain.Activity) error

	// DeleteActivity removes an activity. Without cascade it fails with a
	// HasDependents error when the activity still owns videos; with cascade
	// it transactionally removes the activity, its videos, its links, and
	// all tag/collection associations, returning the stored file paths of
	// the removed videos for the file storage collaborator.
	DeleteActivity(ctx context.Context, id int64, cascade bool) (removedPaths []string, err error)
}

// VideoStore covers video CRUD and version chains.
type VideoStore interface {
	// CreateVideo inserts the video and atomically applies tagNames,
	// creating missing tags. UploadDate is assigned by the store.
	CreateVideo(ctx context.Context, v *domain.Video, tagNames []string) error
	GetVideo(ctx context.Context, id int64) (*domain.Video, error)
	ListVideosByActivity(ctx context.Context, activityID int64) ([]*domain.Video, error)
	UpdateVideo(ctx context.Context, v *domain.Video) error

	// DeleteVideo removes the video and its associations, returning the
	// stored paths for the file storage collaborator. The owning activity
	// and any referenced tags/collections survive.
	DeleteVideo(ctx context.Context, id int64) (removedPaths []string, err error)

	// ListVersionChain returns the videos sharing an activity and title,
	// ordered by version number ascending, upload date as tiebreak.
	ListVersionChain(ctx context.Context, activityID int64, title string) ([]*domain.Video, error)

	// NextVersionNumber returns MAX(version_number)+1 for a chain, 1 when
	// the chain is empty.
	NextVersionNumber(ctx context.Context, activityID int64, title string) (int, error)
}

// TagStore covers tags and the video-tag association.
type TagStore interface {
	CreateTag(ctx context.Context, t *domain.Tag) error
	GetTag(ctx context.Context, id int64) (*domain.Tag, error)
	GetTagByName(ctx context.Context, name string) (*domain.Tag, error)
	ListTags(ctx context.Context) ([]*domain.Tag, error)
	FindOrCreateTagByName(ctx context.Context, name string) (*domain.Tag, bool, error)
	DeleteTag(ctx context.Context, id int64) error

	AddTagToVideo(ctx context.Context, videoID, tagID int64) error
	RemoveTagFromVideo(ctx context.Context, videoID, tagID int64) error
	ReplaceVideoTags(ctx context.Context, videoID int64, tagNames []string) error
	GetVideoTags(ctx context.Context, videoID int64) ([]*domain.Tag, error)
}

// CollectionStore covers collections and the collection-video association.
type CollectionStore interface {
	CreateCollection(ctx context.Context, c *domain.Collection) error
	GetCollection(ctx context.Context, id int64) (*domain.Collection, error)
	ListCollections(ctx context.Context) ([]*domain.Collection, error)
	UpdateCollection(ctx context.Context, c *domain.Collection) error
	DeleteCollection(ctx context.Context, id int64) error

	AddVideoToCollection(ctx context.Context, collectionID, videoID int64) error
	RemoveVideoFromCollection(ctx context.Context, collectionID, videoID int64) error
	GetCollectionVideos(ctx context.Context, collectionID int64) ([]*domain.Video, error)
	GetVideoCollections(ctx context.Context, videoID int64) ([]*domain.Collection, error)
}

// TaxonomyStore covers the class/section hierarchy vocabulary.
type TaxonomyStore interface {
	CreateClass(ctx context.Context, c *domain.Class) error
	ListClasses(ctx context.Context) ([]*domain.Class, error)
	DeleteClass(ctx context.Context, id int64) error

	CreateSection(ctx context.Context, s *domain.Section) error
	ListSections(ctx context.Context) ([]*domain.Section, error)
	DeleteSection(ctx context.Context, id int64) error
}

// LinkStore covers external links owned by activities.
type LinkStore interface {
	CreateLink(ctx context.Context, l *domain.Link) error
	ListLinksByActivity(ctx context.Context, activityID int64) ([]*domain.Link, error)
	DeleteLink(ctx context.Context, id int64) error
}

// SearchStore is the index-backed multi-criteria query surface.
type SearchStore interface {
	SearchVideos(ctx context.Context, f VideoFilter) ([]*domain.Video, error)
	CountVideos(ctx context.Context, f VideoFilter) (int64, error)

	// Suggest returns autocomplete candidates: case-insensitive prefix
	// matches over video titles, tag names, and activity names.
	Suggest(ctx context.Context, prefix string, limit int) ([]string, error)
}

// StatsStore computes catalog-wide aggregates. Results are cached by the
// service layer, not here.
type StatsStore interface {
	OverviewStats(ctx context.Context) (*domain.OverviewStats, error)
	ListFormats(ctx context.Context) ([]string, error)
}
