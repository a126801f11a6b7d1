package sqlite

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/vidcatapp/vidcat-core/internal/domain"
	"github.com/vidcatapp/vidcat-core/internal/store"
)

// searchFixture is a small catalog exercising every filter category.
type searchFixture struct {
	recital  *domain.Activity // class 2024, section Spring
	showcase *domain.Activity // class 2023, section Winter

	balletOpening *domain.Video // mp4, local, tags: dance, ballet
	balletFinale  *domain.Video // mp4, local+youtube, tags: dance, finale
	jazzSolo      *domain.Video // mov, youtube only, tags: jazz
	hipHopGroup   *domain.Video // mp4, local, large file, tags: dance, hip-hop
	interview     *domain.Video // mkv, local, short, no tags

	favorites *domain.Collection // contains balletOpening, jazzSolo
}

func newSearchFixture(t *testing.T, s *Store) *searchFixture {
	t.Helper()
	ctx := context.Background()
	f := &searchFixture{}

	f.recital = &domain.Activity{Name: "Spring Recital", Class: "2024", Section: "Spring"}
	f.showcase = &domain.Activity{Name: "Winter Showcase", Class: "2023", Section: "Winter"}
	for _, a := range []*domain.Activity{f.recital, f.showcase} {
		if err := s.CreateActivity(ctx, a); err != nil {
			t.Fatalf("CreateActivity(%s): %v", a.Name, err)
		}
	}

	local := func(path string) *string { return &path }
	yt := "https://youtube.com/watch?v=fixture"

	f.balletOpening = &domain.Video{
		ActivityID: f.recital.ID, Title: "Ballet Opening",
		FilePath: local("videos/ballet-opening.mp4"), FileName: "ballet-opening.mp4",
		FileSize: 10 << 20, Duration: 300, Format: "mp4", Resolution: "1920x1080",
	}
	f.balletFinale = &domain.Video{
		ActivityID: f.recital.ID, Title: "Ballet Finale",
		FilePath: local("videos/ballet-finale.mp4"), YouTubeURL: &yt,
		FileName: "ballet-finale.mp4",
		FileSize: 12 << 20, Duration: 420, Format: "mp4", Resolution: "1920x1080",
	}
	f.jazzSolo = &domain.Video{
		ActivityID: f.recital.ID, Title: "Jazz Solo",
		YouTubeURL: &yt,
		Duration:   180, Format: "mov",
	}
	f.hipHopGroup = &domain.Video{
		ActivityID: f.showcase.ID, Title: "Hip Hop Group",
		FilePath: local("videos/hip-hop-group.mp4"), FileName: "hip-hop-group.mp4",
		FileSize: 50 << 20, Duration: 600, Format: "mp4", Resolution: "3840x2160",
	}
	f.interview = &domain.Video{
		ActivityID: f.showcase.ID, Title: "Interview",
		FilePath: local("videos/interview.mkv"), FileName: "interview.mkv",
		FileSize: 2 << 20, Duration: 60, Format: "mkv",
	}

	inserts := []struct {
		v    *domain.Video
		tags []string
	}{
		{f.balletOpening, []string{"dance", "ballet"}},
		{f.balletFinale, []string{"dance", "finale"}},
		{f.jazzSolo, []string{"jazz"}},
		{f.hipHopGroup, []string{"dance", "hip-hop"}},
		{f.interview, nil},
	}
	for _, in := range inserts {
		if err := s.CreateVideo(ctx, in.v, in.tags); err != nil {
			t.Fatalf("CreateVideo(%s): %v", in.v.Title, err)
		}
	}

	f.favorites = &domain.Collection{Name: "Favorites"}
	if err := s.CreateCollection(ctx, f.favorites); err != nil {
		t.Fatalf("CreateCollection: %v", err)
	}
	for _, v := range []*domain.Video{f.balletOpening, f.jazzSolo} {
		if err := s.AddVideoToCollection(ctx, f.favorites.ID, v.ID); err != nil {
			t.Fatalf("AddVideoToCollection(%s): %v", v.Title, err)
		}
	}

	return f
}

// tagID resolves a fixture tag by name.
func tagID(t *testing.T, s *Store, name string) int64 {
	t.Helper()
	tag, err := s.GetTagByName(context.Background(), name)
	if err != nil {
		t.Fatalf("GetTagByName(%s): %v", name, err)
	}
	return tag.ID
}

func titles(videos []*domain.Video) []string {
	out := make([]string, len(videos))
	for i, v := range videos {
		out[i] = v.Title
	}
	return out
}

func assertTitles(t *testing.T, got []*domain.Video, want ...string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d results %v, want %d %v", len(got), titles(got), len(want), want)
	}
	have := map[string]bool{}
	for _, v := range got {
		have[v.Title] = true
	}
	for _, w := range want {
		if !have[w] {
			t.Errorf("missing %q in results %v", w, titles(got))
		}
	}
}

func TestSearchVideos_NoFilter(t *testing.T) {
	s := newTestStore(t)
	newSearchFixture(t, s)
	ctx := context.Background()

	got, err := s.SearchVideos(ctx, store.VideoFilter{})
	if err != nil {
		t.Fatalf("SearchVideos: %v", err)
	}
	if len(got) != 5 {
		t.Errorf("expected all 5 videos, got %d", len(got))
	}
}

func TestSearchVideos_Text(t *testing.T) {
	s := newTestStore(t)
	newSearchFixture(t, s)
	ctx := context.Background()

	// Title substring, case-insensitive.
	got, err := s.SearchVideos(ctx, store.VideoFilter{Text: "ballet"})
	if err != nil {
		t.Fatalf("SearchVideos: %v", err)
	}
	assertTitles(t, got, "Ballet Opening", "Ballet Finale")

	// Tag name match pulls in the tagged video.
	got, err = s.SearchVideos(ctx, store.VideoFilter{Text: "jazz"})
	if err != nil {
		t.Fatalf("SearchVideos: %v", err)
	}
	assertTitles(t, got, "Jazz Solo")

	// Activity name match pulls in all its videos.
	got, err = s.SearchVideos(ctx, store.VideoFilter{Text: "Winter"})
	if err != nil {
		t.Fatalf("SearchVideos: %v", err)
	}
	assertTitles(t, got, "Hip Hop Group", "Interview")

	// No match returns an empty, non-nil slice.
	got, err = s.SearchVideos(ctx, store.VideoFilter{Text: "nonexistent-zzz"})
	if err != nil {
		t.Fatalf("SearchVideos: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("expected empty slice, got %v", got)
	}
}

func TestSearchVideos_Structured(t *testing.T) {
	s := newTestStore(t)
	f := newSearchFixture(t, s)
	ctx := context.Background()

	got, err := s.SearchVideos(ctx, store.VideoFilter{ActivityID: f.recital.ID})
	if err != nil {
		t.Fatalf("activity filter: %v", err)
	}
	assertTitles(t, got, "Ballet Opening", "Ballet Finale", "Jazz Solo")

	got, err = s.SearchVideos(ctx, store.VideoFilter{Class: "2023"})
	if err != nil {
		t.Fatalf("class filter: %v", err)
	}
	assertTitles(t, got, "Hip Hop Group", "Interview")

	got, err = s.SearchVideos(ctx, store.VideoFilter{Section: "Spring", Format: "mp4"})
	if err != nil {
		t.Fatalf("section+format filter: %v", err)
	}
	assertTitles(t, got, "Ballet Opening", "Ballet Finale")

	got, err = s.SearchVideos(ctx, store.VideoFilter{Resolution: "3840x2160"})
	if err != nil {
		t.Fatalf("resolution filter: %v", err)
	}
	assertTitles(t, got, "Hip Hop Group")
}

func TestSearchVideos_Ranges(t *testing.T) {
	s := newTestStore(t)
	newSearchFixture(t, s)
	ctx := context.Background()

	// Size minimum keeps only the large file.
	got, err := s.SearchVideos(ctx, store.VideoFilter{SizeRange: store.Int64Range{Min: 20 << 20}})
	if err != nil {
		t.Fatalf("size filter: %v", err)
	}
	assertTitles(t, got, "Hip Hop Group")

	// Duration window.
	got, err = s.SearchVideos(ctx, store.VideoFilter{
		DurationRange: store.FloatRange{Min: 100, Max: 350},
	})
	if err != nil {
		t.Fatalf("duration filter: %v", err)
	}
	assertTitles(t, got, "Ballet Opening", "Jazz Solo")

	// Upload range spanning the fixture includes everything; a window in
	// the past excludes everything.
	now := time.Now().UTC()
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)
	got, err = s.SearchVideos(ctx, store.VideoFilter{
		UploadRange: store.TimeRange{From: &past, To: &future},
	})
	if err != nil {
		t.Fatalf("upload range: %v", err)
	}
	if len(got) != 5 {
		t.Errorf("spanning upload range: got %d, want 5", len(got))
	}

	longAgo := now.Add(-48 * time.Hour)
	got, err = s.SearchVideos(ctx, store.VideoFilter{
		UploadRange: store.TimeRange{To: &longAgo},
	})
	if err != nil {
		t.Fatalf("past upload range: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("past upload range: got %d, want 0", len(got))
	}
}

func TestSearchVideos_Tags(t *testing.T) {
	s := newTestStore(t)
	newSearchFixture(t, s)
	ctx := context.Background()

	dance := tagID(t, s, "dance")
	ballet := tagID(t, s, "ballet")

	// Any-of: everything carrying either tag.
	got, err := s.SearchVideos(ctx, store.VideoFilter{TagIDs: []int64{dance, ballet}})
	if err != nil {
		t.Fatalf("tags any: %v", err)
	}
	assertTitles(t, got, "Ballet Opening", "Ballet Finale", "Hip Hop Group")

	// All-of: only the video carrying both.
	got, err = s.SearchVideos(ctx, store.VideoFilter{
		TagIDs: []int64{dance, ballet}, MatchAllTags: true,
	})
	if err != nil {
		t.Fatalf("tags all: %v", err)
	}
	assertTitles(t, got, "Ballet Opening")
}

func TestSearchVideos_FormatAndAllTags(t *testing.T) {
	s := newTestStore(t)
	newSearchFixture(t, s)
	ctx := context.Background()

	// Conjunction across categories: mp4 AND both tags.
	got, err := s.SearchVideos(ctx, store.VideoFilter{
		Format:       "mp4",
		TagIDs:       []int64{tagID(t, s, "dance"), tagID(t, s, "finale")},
		MatchAllTags: true,
	})
	if err != nil {
		t.Fatalf("SearchVideos: %v", err)
	}
	assertTitles(t, got, "Ballet Finale")
}

// A wider catalog: many near-miss videos carrying one of the wanted tags
// or the wanted format, and exactly two carrying all three criteria.
func TestSearchVideos_FormatAndAllTags_Wide(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	a := makeTestActivity("Wide Net")
	if err := s.CreateActivity(ctx, a); err != nil {
		t.Fatalf("CreateActivity: %v", err)
	}

	add := func(i int, format string, tags []string) {
		t.Helper()
		v := makeTestVideo(a.ID, fmt.Sprintf("Wide %02d", i))
		v.Format = format
		if err := s.CreateVideo(ctx, v, tags); err != nil {
			t.Fatalf("CreateVideo %d: %v", i, err)
		}
	}

	for i := 0; i < 8; i++ {
		add(i, "mp4", []string{"solo"}) // right format, only one wanted tag
	}
	for i := 8; i < 16; i++ {
		add(i, "mov", []string{"solo", "group"}) // both tags, wrong format
	}
	for i := 16; i < 22; i++ {
		add(i, "avi", nil) // neither
	}
	add(22, "mp4", []string{"solo", "group"})
	add(23, "mp4", []string{"solo", "group", "extra"})

	got, err := s.SearchVideos(ctx, store.VideoFilter{
		Format:       "mp4",
		TagIDs:       []int64{tagID(t, s, "solo"), tagID(t, s, "group")},
		MatchAllTags: true,
	})
	if err != nil {
		t.Fatalf("SearchVideos: %v", err)
	}
	assertTitles(t, got, "Wide 22", "Wide 23")
}

func TestSearchVideos_Collection(t *testing.T) {
	s := newTestStore(t)
	f := newSearchFixture(t, s)
	ctx := context.Background()

	got, err := s.SearchVideos(ctx, store.VideoFilter{CollectionID: f.favorites.ID})
	if err != nil {
		t.Fatalf("collection filter: %v", err)
	}
	assertTitles(t, got, "Ballet Opening", "Jazz Solo")
}

func TestSearchVideos_Availability(t *testing.T) {
	s := newTestStore(t)
	newSearchFixture(t, s)
	ctx := context.Background()

	yes, no := true, false

	got, err := s.SearchVideos(ctx, store.VideoFilter{HasYouTubeLink: &yes})
	if err != nil {
		t.Fatalf("youtube filter: %v", err)
	}
	assertTitles(t, got, "Ballet Finale", "Jazz Solo")

	got, err = s.SearchVideos(ctx, store.VideoFilter{HasLocalCopy: &no})
	if err != nil {
		t.Fatalf("no-local filter: %v", err)
	}
	assertTitles(t, got, "Jazz Solo")
}

func TestSearchVideos_MinVersion(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	a := makeTestActivity("Revisions")
	if err := s.CreateActivity(ctx, a); err != nil {
		t.Fatalf("CreateActivity: %v", err)
	}
	for _, n := range []int{1, 2, 3} {
		v := makeTestVideo(a.ID, "Cut")
		v.VersionNumber = n
		if err := s.CreateVideo(ctx, v, nil); err != nil {
			t.Fatalf("CreateVideo v%d: %v", n, err)
		}
	}

	got, err := s.SearchVideos(ctx, store.VideoFilter{MinVersion: 2})
	if err != nil {
		t.Fatalf("SearchVideos: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("min version filter: got %d, want 2", len(got))
	}
}

func TestSearchVideos_SortAndPage(t *testing.T) {
	s := newTestStore(t)
	newSearchFixture(t, s)
	ctx := context.Background()

	got, err := s.SearchVideos(ctx, store.VideoFilter{SortBy: store.SortTitleAsc})
	if err != nil {
		t.Fatalf("SearchVideos: %v", err)
	}
	want := []string{"Ballet Finale", "Ballet Opening", "Hip Hop Group", "Interview", "Jazz Solo"}
	for i, w := range want {
		if got[i].Title != w {
			t.Errorf("sorted[%d]: got %q, want %q", i, got[i].Title, w)
		}
	}

	// Size descending puts the largest first.
	got, err = s.SearchVideos(ctx, store.VideoFilter{SortBy: store.SortFileSizeDesc})
	if err != nil {
		t.Fatalf("SearchVideos: %v", err)
	}
	if got[0].Title != "Hip Hop Group" {
		t.Errorf("largest first: got %q", got[0].Title)
	}

	// Limit/Offset page through the title ordering.
	page, err := s.SearchVideos(ctx, store.VideoFilter{
		SortBy: store.SortTitleAsc, Limit: 2, Offset: 2,
	})
	if err != nil {
		t.Fatalf("SearchVideos: %v", err)
	}
	if len(page) != 2 || page[0].Title != "Hip Hop Group" || page[1].Title != "Interview" {
		t.Errorf("page wrong: %v", titles(page))
	}
}

func TestSearchVideos_OffsetWithoutLimit(t *testing.T) {
	s := newTestStore(t)
	newSearchFixture(t, s)
	ctx := context.Background()

	// An unbounded query still honors the offset.
	got, err := s.SearchVideos(ctx, store.VideoFilter{
		SortBy: store.SortTitleAsc, Offset: 2,
	})
	if err != nil {
		t.Fatalf("SearchVideos: %v", err)
	}
	want := []string{"Hip Hop Group", "Interview", "Jazz Solo"}
	if len(got) != len(want) {
		t.Fatalf("got %d results %v, want %d", len(got), titles(got), len(want))
	}
	for i, w := range want {
		if got[i].Title != w {
			t.Errorf("offset[%d]: got %q, want %q", i, got[i].Title, w)
		}
	}
}

func TestCountVideos(t *testing.T) {
	s := newTestStore(t)
	newSearchFixture(t, s)
	ctx := context.Background()

	count, err := s.CountVideos(ctx, store.VideoFilter{})
	if err != nil {
		t.Fatalf("CountVideos: %v", err)
	}
	if count != 5 {
		t.Errorf("total count: got %d, want 5", count)
	}

	// Count ignores Limit/Offset.
	count, err = s.CountVideos(ctx, store.VideoFilter{Format: "mp4", Limit: 1})
	if err != nil {
		t.Fatalf("CountVideos: %v", err)
	}
	if count != 3 {
		t.Errorf("mp4 count: got %d, want 3", count)
	}
}

func TestSuggest(t *testing.T) {
	s := newTestStore(t)
	newSearchFixture(t, s)
	ctx := context.Background()

	// Prefix spanning titles, case-insensitive.
	got, err := s.Suggest(ctx, "ba", 10)
	if err != nil {
		t.Fatalf("Suggest: %v", err)
	}
	assertContains(t, got, "Ballet Finale")
	assertContains(t, got, "Ballet Opening")
	assertContains(t, got, "ballet") // the tag

	// Activity names participate too.
	got, err = s.Suggest(ctx, "spring", 10)
	if err != nil {
		t.Fatalf("Suggest: %v", err)
	}
	assertContains(t, got, "Spring Recital")

	// Short prefixes return nothing.
	got, err = s.Suggest(ctx, "b", 10)
	if err != nil {
		t.Fatalf("Suggest: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("short prefix: got %v, want empty", got)
	}

	// The limit caps the merged result set.
	got, err = s.Suggest(ctx, "ba", 2)
	if err != nil {
		t.Fatalf("Suggest: %v", err)
	}
	if len(got) > 2 {
		t.Errorf("limit ignored: got %d suggestions", len(got))
	}
}

func assertContains(t *testing.T, got []string, want string) {
	t.Helper()
	for _, g := range got {
		if g == want {
			return
		}
	}
	t.Errorf("missing %q in %v", want, got)
}

func TestListFormats(t *testing.T) {
	s := newTestStore(t)
	newSearchFixture(t, s)
	ctx := context.Background()

	got, err := s.ListFormats(ctx)
	if err != nil {
		t.Fatalf("ListFormats: %v", err)
	}
	want := []string{"mkv", "mov", "mp4"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i, w := range want {
		if got[i] != w {
			t.Errorf("format[%d]: got %q, want %q", i, got[i], w)
		}
	}
}
