package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }

func TestVideo_RecomputeAvailability(t *testing.T) {
	tests := []struct {
		name        string
		filePath    *string
		youtubeURL  *string
		wantLocal   bool
		wantYouTube bool
	}{
		{"both sources", strPtr("videos/a.mp4"), strPtr("https://youtube.com/watch?v=x"), true, true},
		{"local only", strPtr("videos/a.mp4"), nil, true, false},
		{"youtube only", nil, strPtr("https://youtube.com/watch?v=x"), false, true},
		{"neither", nil, nil, false, false},
		{"empty strings count as absent", strPtr(""), strPtr(""), false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &Video{
				FilePath:   tt.filePath,
				YouTubeURL: tt.youtubeURL,
				// Stored values are stale on purpose.
				HasLocalCopy:   !tt.wantLocal,
				HasYouTubeLink: !tt.wantYouTube,
			}

			v.RecomputeAvailability()

			assert.Equal(t, tt.wantLocal, v.HasLocalCopy)
			assert.Equal(t, tt.wantYouTube, v.HasYouTubeLink)
		})
	}
}

func TestVideo_HasSource(t *testing.T) {
	assert.True(t, (&Video{FilePath: strPtr("a.mp4")}).HasSource())
	assert.True(t, (&Video{YouTubeURL: strPtr("https://youtube.com/watch?v=x")}).HasSource())
	assert.False(t, (&Video{}).HasSource())
	assert.False(t, (&Video{FilePath: strPtr(""), YouTubeURL: strPtr("")}).HasSource())
}

func TestVideo_Chain(t *testing.T) {
	a := &Video{ActivityID: 1, Title: "Grand Finale", VersionNumber: 1}
	b := &Video{ActivityID: 1, Title: "Grand Finale", VersionNumber: 3}
	c := &Video{ActivityID: 2, Title: "Grand Finale"}

	assert.Equal(t, a.Chain(), b.Chain())
	assert.NotEqual(t, a.Chain(), c.Chain())
}

func TestVideo_StoredPaths(t *testing.T) {
	tests := []struct {
		name  string
		video *Video
		want  []string
	}{
		{
			"file and thumbnail",
			&Video{FilePath: strPtr("videos/a.mp4"), ThumbnailPath: strPtr("thumbs/a.jpg")},
			[]string{"videos/a.mp4", "thumbs/a.jpg"},
		},
		{
			"file only",
			&Video{FilePath: strPtr("videos/a.mp4")},
			[]string{"videos/a.mp4"},
		},
		{
			"youtube-only video has no stored paths",
			&Video{YouTubeURL: strPtr("https://youtube.com/watch?v=x")},
			nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.video.StoredPaths())
		})
	}
}
