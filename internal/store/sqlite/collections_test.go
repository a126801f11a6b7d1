package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/vidcatapp/vidcat-core/internal/domain"
	domainerrors "github.com/vidcatapp/vidcat-core/internal/errors"
)

func TestCreateAndGetCollection(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	c := &domain.Collection{Name: "Highlights", Description: "best of", Color: "#00ff00"}
	if err := s.CreateCollection(ctx, c); err != nil {
		t.Fatalf("CreateCollection: %v", err)
	}
	if c.ID == 0 {
		t.Error("expected assigned ID, got 0")
	}

	got, err := s.GetCollection(ctx, c.ID)
	if err != nil {
		t.Fatalf("GetCollection: %v", err)
	}
	if got.Name != "Highlights" || got.Description != "best of" || got.Color != "#00ff00" {
		t.Errorf("fields not persisted: %+v", got)
	}
	if got.VideoCount != 0 {
		t.Errorf("VideoCount: got %d, want 0", got.VideoCount)
	}
}

func TestCreateCollection_DuplicateName(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.CreateCollection(ctx, &domain.Collection{Name: "Doubles"}); err != nil {
		t.Fatalf("CreateCollection: %v", err)
	}
	err := s.CreateCollection(ctx, &domain.Collection{Name: "Doubles"})
	if err == nil {
		t.Fatal("expected error for duplicate name, got nil")
	}
	if !errors.Is(err, domainerrors.ErrAlreadyExists) {
		t.Errorf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestUpdateCollection(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	c := &domain.Collection{Name: "Draft"}
	if err := s.CreateCollection(ctx, c); err != nil {
		t.Fatalf("CreateCollection: %v", err)
	}

	c.Name = "Published"
	c.Color = "#123456"
	if err := s.UpdateCollection(ctx, c); err != nil {
		t.Fatalf("UpdateCollection: %v", err)
	}

	got, err := s.GetCollection(ctx, c.ID)
	if err != nil {
		t.Fatalf("GetCollection: %v", err)
	}
	if got.Name != "Published" || got.Color != "#123456" {
		t.Errorf("update not persisted: %+v", got)
	}
}

func TestUpdateCollection_NotFound(t *testing.T) {
	s := newTestStore(t)

	err := s.UpdateCollection(context.Background(), &domain.Collection{ID: 999, Name: "Ghost"})
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !errors.Is(err, domainerrors.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestCollectionMembership(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	a := makeTestActivity("Source")
	if err := s.CreateActivity(ctx, a); err != nil {
		t.Fatalf("CreateActivity: %v", err)
	}
	v1 := insertTestVideo(t, s, a.ID, "First")
	v2 := insertTestVideo(t, s, a.ID, "Second")

	c := &domain.Collection{Name: "Mixed"}
	if err := s.CreateCollection(ctx, c); err != nil {
		t.Fatalf("CreateCollection: %v", err)
	}

	if err := s.AddVideoToCollection(ctx, c.ID, v1.ID); err != nil {
		t.Fatalf("AddVideoToCollection v1: %v", err)
	}
	if err := s.AddVideoToCollection(ctx, c.ID, v2.ID); err != nil {
		t.Fatalf("AddVideoToCollection v2: %v", err)
	}
	// Re-adding is a no-op, not an error.
	if err := s.AddVideoToCollection(ctx, c.ID, v1.ID); err != nil {
		t.Fatalf("AddVideoToCollection (again): %v", err)
	}

	videos, err := s.GetCollectionVideos(ctx, c.ID)
	if err != nil {
		t.Fatalf("GetCollectionVideos: %v", err)
	}
	if len(videos) != 2 {
		t.Fatalf("expected 2 videos, got %d", len(videos))
	}

	cols, err := s.GetVideoCollections(ctx, v1.ID)
	if err != nil {
		t.Fatalf("GetVideoCollections: %v", err)
	}
	if len(cols) != 1 || cols[0].ID != c.ID {
		t.Errorf("expected membership in %d, got %+v", c.ID, cols)
	}

	if err := s.RemoveVideoFromCollection(ctx, c.ID, v1.ID); err != nil {
		t.Fatalf("RemoveVideoFromCollection: %v", err)
	}
	videos, err = s.GetCollectionVideos(ctx, c.ID)
	if err != nil {
		t.Fatalf("GetCollectionVideos after remove: %v", err)
	}
	if len(videos) != 1 || videos[0].ID != v2.ID {
		t.Errorf("expected only v2 left, got %+v", videos)
	}

	// Removing a video from the collection never deletes the video.
	if _, err := s.GetVideo(ctx, v1.ID); err != nil {
		t.Errorf("video should survive removal from collection: %v", err)
	}
}

func TestAddVideoToCollection_MissingVideo(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	c := &domain.Collection{Name: "Strict"}
	if err := s.CreateCollection(ctx, c); err != nil {
		t.Fatalf("CreateCollection: %v", err)
	}

	err := s.AddVideoToCollection(ctx, c.ID, 424242)
	if err == nil {
		t.Fatal("expected error for missing video, got nil")
	}
	if !errors.Is(err, domainerrors.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteCollection_VideosSurvive(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	a := makeTestActivity("Backing")
	if err := s.CreateActivity(ctx, a); err != nil {
		t.Fatalf("CreateActivity: %v", err)
	}
	v := insertTestVideo(t, s, a.ID, "Shared Clip")

	c := &domain.Collection{Name: "Ephemeral"}
	if err := s.CreateCollection(ctx, c); err != nil {
		t.Fatalf("CreateCollection: %v", err)
	}
	if err := s.AddVideoToCollection(ctx, c.ID, v.ID); err != nil {
		t.Fatalf("AddVideoToCollection: %v", err)
	}

	if err := s.DeleteCollection(ctx, c.ID); err != nil {
		t.Fatalf("DeleteCollection: %v", err)
	}

	if _, err := s.GetCollection(ctx, c.ID); !errors.Is(err, domainerrors.ErrNotFound) {
		t.Errorf("expected ErrNotFound for deleted collection, got %v", err)
	}
	// The referenced video is untouched.
	if _, err := s.GetVideo(ctx, v.ID); err != nil {
		t.Errorf("video should survive collection delete: %v", err)
	}
}

func TestListCollections(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, name := range []string{"Zulu", "Alpha"} {
		if err := s.CreateCollection(ctx, &domain.Collection{Name: name}); err != nil {
			t.Fatalf("CreateCollection(%s): %v", name, err)
		}
	}

	got, err := s.ListCollections(ctx)
	if err != nil {
		t.Fatalf("ListCollections: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 collections, got %d", len(got))
	}
	if got[0].Name != "Alpha" || got[1].Name != "Zulu" {
		t.Errorf("ordering wrong: %q, %q", got[0].Name, got[1].Name)
	}
}
