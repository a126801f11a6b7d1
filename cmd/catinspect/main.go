// Package main provides a read-only inspection tool for a catalog directory.
//
// Usage:
//
//	CATALOG_PATH=~/vidcat go run ./cmd/catinspect
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/vidcatapp/vidcat-core/internal/store/sqlite"
)

func main() {
	catalogPath := os.Getenv("CATALOG_PATH")
	if catalogPath == "" {
		catalogPath = os.ExpandEnv("$HOME/vidcat")
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	s, err := sqlite.Open(catalogPath, logger)
	if err != nil {
		log.Fatalf("Failed to open catalog: %v", err)
	}
	defer s.Close()

	ctx := context.Background()

	fmt.Println("=== Catalog Inspection ===")
	fmt.Printf("Path: %s\n", catalogPath)
	fmt.Println()

	stats, err := s.OverviewStats(ctx)
	if err != nil {
		log.Fatalf("Failed to read stats: %v", err)
	}

	fmt.Println("=== Summary ===")
	fmt.Printf("Activities:  %d\n", stats.TotalActivities)
	fmt.Printf("Videos:      %d (local: %d, youtube: %d)\n",
		stats.TotalVideos, stats.LocalVideos, stats.YouTubeVideos)
	fmt.Printf("Tags:        %d\n", stats.TotalTags)
	fmt.Printf("Collections: %d\n", stats.TotalCollections)
	fmt.Printf("Storage:     %.2f MB\n", stats.StorageMB())
	fmt.Println()

	if len(stats.FormatCounts) > 0 {
		fmt.Println("=== Formats ===")
		for _, fc := range stats.FormatCounts {
			fmt.Printf("  %-8s %d\n", fc.Format, fc.Count)
		}
		fmt.Println()
	}

	activities, err := s.ListActivities(ctx)
	if err != nil {
		log.Fatalf("Failed to list activities: %v", err)
	}

	fmt.Println("=== Activities ===")
	for _, a := range activities {
		label := a.Name
		if a.Class != "" || a.Section != "" {
			label = fmt.Sprintf("%s (%s %s)", a.Name, a.Class, a.Section)
		}
		fmt.Printf("  [%d] %s — %d videos\n", a.ID, label, a.VideoCount)

		videos, err := s.ListVideosByActivity(ctx, a.ID)
		if err != nil {
			log.Printf("Failed to list videos for activity %d: %v", a.ID, err)
			continue
		}
		for i, v := range videos {
			if i >= 5 {
				fmt.Printf("      ... and %d more videos\n", len(videos)-5)
				break
			}
			source := "youtube"
			if v.HasLocalCopy {
				source = "local"
			}
			fmt.Printf("      v%d %s [%s, %s, %.0fs]\n",
				v.VersionNumber, v.Title, source, v.Format, v.Duration)
		}
	}
}
