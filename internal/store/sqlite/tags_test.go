package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/vidcatapp/vidcat-core/internal/domain"
	domainerrors "github.com/vidcatapp/vidcat-core/internal/errors"
)

// mustCreateTag creates and persists a tag, failing the test on error.
func mustCreateTag(t *testing.T, s *Store, name string) *domain.Tag {
	t.Helper()
	tag := &domain.Tag{Name: name}
	if err := s.CreateTag(context.Background(), tag); err != nil {
		t.Fatalf("CreateTag(%s): %v", name, err)
	}
	return tag
}

func TestCreateAndGetTag(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	tag := &domain.Tag{Name: "ballet", Color: "#ff8800"}
	if err := s.CreateTag(ctx, tag); err != nil {
		t.Fatalf("CreateTag: %v", err)
	}
	if tag.ID == 0 {
		t.Error("expected assigned ID, got 0")
	}

	got, err := s.GetTag(ctx, tag.ID)
	if err != nil {
		t.Fatalf("GetTag: %v", err)
	}
	if got.Name != "ballet" {
		t.Errorf("Name: got %q, want %q", got.Name, "ballet")
	}
	if got.Color != "#ff8800" {
		t.Errorf("Color: got %q, want %q", got.Color, "#ff8800")
	}
	if got.CreatedAt.Unix() != tag.CreatedAt.Unix() {
		t.Errorf("CreatedAt: got %v, want %v", got.CreatedAt, tag.CreatedAt)
	}
}

func TestGetTag_NotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetTag(context.Background(), 12345)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !errors.Is(err, domainerrors.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestCreateTag_DuplicateCaseInsensitive(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	mustCreateTag(t, s, "Dance")

	// Same name in different casing collides.
	err := s.CreateTag(ctx, &domain.Tag{Name: "dance"})
	if err == nil {
		t.Fatal("expected error for case-insensitive duplicate, got nil")
	}
	if !errors.Is(err, domainerrors.ErrAlreadyExists) {
		t.Errorf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestGetTagByName_CaseInsensitive(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	created := mustCreateTag(t, s, "Hip-Hop")

	got, err := s.GetTagByName(ctx, "hip-hop")
	if err != nil {
		t.Fatalf("GetTagByName: %v", err)
	}
	if got.ID != created.ID {
		t.Errorf("ID: got %d, want %d", got.ID, created.ID)
	}
	// Original casing preserved for display.
	if got.Name != "Hip-Hop" {
		t.Errorf("Name: got %q, want %q", got.Name, "Hip-Hop")
	}
}

func TestFindOrCreateTagByName(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	// First call creates.
	tag1, created, err := s.FindOrCreateTagByName(ctx, "modern")
	if err != nil {
		t.Fatalf("FindOrCreateTagByName (create): %v", err)
	}
	if !created {
		t.Error("expected created=true for new tag")
	}
	if tag1.ID == 0 {
		t.Error("expected non-zero ID for created tag")
	}
	if tag1.Color == "" {
		t.Error("expected default color for tag created on first use")
	}

	// Second call in different casing finds the same tag.
	tag2, created2, err := s.FindOrCreateTagByName(ctx, "MODERN")
	if err != nil {
		t.Fatalf("FindOrCreateTagByName (find): %v", err)
	}
	if created2 {
		t.Error("expected created=false for existing tag")
	}
	if tag2.ID != tag1.ID {
		t.Errorf("expected same ID %d, got %d", tag1.ID, tag2.ID)
	}
}

func TestFindOrCreateTagByName_Empty(t *testing.T) {
	s := newTestStore(t)

	_, _, err := s.FindOrCreateTagByName(context.Background(), "   ")
	if err == nil {
		t.Fatal("expected error for blank name, got nil")
	}
	if !errors.Is(err, domainerrors.ErrValidation) {
		t.Errorf("expected ErrValidation, got %v", err)
	}
}

func TestListTags_CountsAndOrder(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	a := makeTestActivity("Tagged")
	if err := s.CreateActivity(ctx, a); err != nil {
		t.Fatalf("CreateActivity: %v", err)
	}
	v := insertTestVideo(t, s, a.ID, "Tagged Clip")

	zebra := mustCreateTag(t, s, "zebra")
	apple := mustCreateTag(t, s, "Apple")
	if err := s.AddTagToVideo(ctx, v.ID, zebra.ID); err != nil {
		t.Fatalf("AddTagToVideo: %v", err)
	}

	got, err := s.ListTags(ctx)
	if err != nil {
		t.Fatalf("ListTags: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 tags, got %d", len(got))
	}
	// Ordered by name, case-insensitively.
	if got[0].ID != apple.ID || got[1].ID != zebra.ID {
		t.Errorf("ordering wrong: %q, %q", got[0].Name, got[1].Name)
	}
	if got[0].VideoCount != 0 {
		t.Errorf("apple VideoCount: got %d, want 0", got[0].VideoCount)
	}
	if got[1].VideoCount != 1 {
		t.Errorf("zebra VideoCount: got %d, want 1", got[1].VideoCount)
	}
}

func TestDeleteTag_VideosSurvive(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	a := makeTestActivity("Holder")
	if err := s.CreateActivity(ctx, a); err != nil {
		t.Fatalf("CreateActivity: %v", err)
	}
	v := insertTestVideo(t, s, a.ID, "Kept Clip")
	tag := mustCreateTag(t, s, "transient")
	if err := s.AddTagToVideo(ctx, v.ID, tag.ID); err != nil {
		t.Fatalf("AddTagToVideo: %v", err)
	}

	if err := s.DeleteTag(ctx, tag.ID); err != nil {
		t.Fatalf("DeleteTag: %v", err)
	}

	// Tag gone, association gone, video untouched.
	if _, err := s.GetTag(ctx, tag.ID); !errors.Is(err, domainerrors.ErrNotFound) {
		t.Errorf("expected ErrNotFound for deleted tag, got %v", err)
	}
	tags, err := s.GetVideoTags(ctx, v.ID)
	if err != nil {
		t.Fatalf("GetVideoTags: %v", err)
	}
	if len(tags) != 0 {
		t.Errorf("expected no tags on video, got %d", len(tags))
	}
	if _, err := s.GetVideo(ctx, v.ID); err != nil {
		t.Errorf("video should survive tag delete: %v", err)
	}
}

func TestAddTagToVideo_Idempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	a := makeTestActivity("Idem")
	if err := s.CreateActivity(ctx, a); err != nil {
		t.Fatalf("CreateActivity: %v", err)
	}
	v := insertTestVideo(t, s, a.ID, "Once")
	tag := mustCreateTag(t, s, "repeat")

	if err := s.AddTagToVideo(ctx, v.ID, tag.ID); err != nil {
		t.Fatalf("AddTagToVideo: %v", err)
	}
	// Re-adding is a no-op.
	if err := s.AddTagToVideo(ctx, v.ID, tag.ID); err != nil {
		t.Fatalf("AddTagToVideo (again): %v", err)
	}

	tags, err := s.GetVideoTags(ctx, v.ID)
	if err != nil {
		t.Fatalf("GetVideoTags: %v", err)
	}
	if len(tags) != 1 {
		t.Errorf("expected 1 association, got %d", len(tags))
	}
}

func TestRemoveTagFromVideo_MissingIsNoop(t *testing.T) {
	s := newTestStore(t)

	if err := s.RemoveTagFromVideo(context.Background(), 1, 1); err != nil {
		t.Errorf("expected no-op, got %v", err)
	}
}

func TestReplaceVideoTags(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	a := makeTestActivity("Replaced")
	if err := s.CreateActivity(ctx, a); err != nil {
		t.Fatalf("CreateActivity: %v", err)
	}
	v := makeTestVideo(a.ID, "Retagged")
	if err := s.CreateVideo(ctx, v, []string{"old-a", "old-b"}); err != nil {
		t.Fatalf("CreateVideo: %v", err)
	}

	if err := s.ReplaceVideoTags(ctx, v.ID, []string{"new-only"}); err != nil {
		t.Fatalf("ReplaceVideoTags: %v", err)
	}

	tags, err := s.GetVideoTags(ctx, v.ID)
	if err != nil {
		t.Fatalf("GetVideoTags: %v", err)
	}
	if len(tags) != 1 || tags[0].Name != "new-only" {
		t.Errorf("expected only new-only, got %+v", tags)
	}

	// The old tags still exist, just unassociated.
	if _, err := s.GetTagByName(ctx, "old-a"); err != nil {
		t.Errorf("old-a should survive replacement: %v", err)
	}
}

func TestReplaceVideoTags_MissingVideo(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	err := s.ReplaceVideoTags(ctx, 9999, []string{"dance"})
	if !errors.Is(err, domainerrors.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	// An empty replacement set is still an error for a missing video.
	err = s.ReplaceVideoTags(ctx, 9999, nil)
	if !errors.Is(err, domainerrors.ErrNotFound) {
		t.Errorf("expected ErrNotFound for empty set, got %v", err)
	}

	// No stray tags were created on the failed path.
	tags, err := s.ListTags(ctx)
	if err != nil {
		t.Fatalf("ListTags: %v", err)
	}
	if len(tags) != 0 {
		t.Errorf("expected no tags after failed replace, got %+v", tags)
	}
}

func TestApplyTagNames_DedupeAndBlank(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	a := makeTestActivity("Folded")
	if err := s.CreateActivity(ctx, a); err != nil {
		t.Fatalf("CreateActivity: %v", err)
	}
	v := makeTestVideo(a.ID, "Messy Tags")
	// "Dance" and " dance " fold to the same tag; blanks are skipped.
	if err := s.CreateVideo(ctx, v, []string{"Dance", " dance ", "", "  "}); err != nil {
		t.Fatalf("CreateVideo: %v", err)
	}

	tags, err := s.GetVideoTags(ctx, v.ID)
	if err != nil {
		t.Fatalf("GetVideoTags: %v", err)
	}
	if len(tags) != 1 {
		t.Fatalf("expected 1 folded tag, got %d", len(tags))
	}
	if tags[0].Name != "Dance" {
		t.Errorf("first-seen casing should win: got %q", tags[0].Name)
	}
}
