package store

import "time"

// SortKey selects the result ordering for video searches. The zero value
// sorts by upload date descending. Every ordering breaks ties by id
// ascending so results are deterministic.
type SortKey string

// Recognized sort keys.
const (
	SortUploadDateDesc SortKey = "upload_date_desc"
	SortUploadDateAsc  SortKey = "upload_date_asc"
	SortTitleAsc       SortKey = "title_asc"
	SortFileSizeDesc   SortKey = "file_size_desc"
	SortDurationDesc   SortKey = "duration_desc"
	SortVersionDesc    SortKey = "version_desc"
)

// TimeRange is an inclusive [From, To] window. A nil bound is open.
type TimeRange struct {
	From *time.Time
	To   *time.Time
}

// Int64Range is an inclusive numeric window. Zero bounds are open,
// matching the leniency of the filter surface (sizes and durations of
// zero are not meaningful filter bounds).
type Int64Range struct {
	Min int64
	Max int64
}

// FloatRange is the float counterpart of Int64Range, used for durations.
type FloatRange struct {
	Min float64
	Max float64
}

// VideoFilter is the structured search configuration. All supplied
// predicates are conjoined; within TagIDs the semantics are any-of unless
// MatchAllTags is set. Empty string / zero / nil fields are ignored.
type VideoFilter struct {
	// Text is substring-matched (case-insensitive) against video title,
	// description, file name, activity name, and tag names.
	Text string

	ActivityID int64
	Class      string
	Section    string
	Format     string
	Resolution string

	// UploadRange filters on upload_date, EventRange on event_date.
	UploadRange TimeRange
	EventRange  TimeRange

	SizeRange     Int64Range
	DurationRange FloatRange

	// MinVersion keeps only videos at or above a version number.
	MinVersion int

	TagIDs       []int64
	MatchAllTags bool

	CollectionID int64

	// Tri-state availability filters: nil means don't care.
	HasLocalCopy   *bool
	HasYouTubeLink *bool

	SortBy SortKey
	// Limit of 0 means unbounded; Offset applies either way.
	Limit  int
	Offset int
}

// HasIndexedPredicate reports whether at least one predicate can ride an
// index, meaning candidate selection avoids a full-table scan. A pure
// free-text query is the one case that scans, bounded by catalog size.
func (f *VideoFilter) HasIndexedPredicate() bool {
	return f.ActivityID != 0 ||
		f.Class != "" ||
		f.Section != "" ||
		f.Format != "" ||
		f.Resolution != "" ||
		f.UploadRange.From != nil || f.UploadRange.To != nil ||
		f.EventRange.From != nil || f.EventRange.To != nil ||
		f.SizeRange.Min > 0 || f.SizeRange.Max > 0 ||
		f.DurationRange.Min > 0 || f.DurationRange.Max > 0 ||
		f.MinVersion > 0 ||
		len(f.TagIDs) > 0 ||
		f.CollectionID != 0 ||
		f.HasLocalCopy != nil ||
		f.HasYouTubeLink != nil
}
