// Package main provides a tool to seed a catalog with demo data.
//
// This creates a handful of activities with videos, tags, collections, and
// links so search, stats, and version chains have something to chew on.
//
// Usage:
//
//	CATALOG_PATH=~/vidcat go run ./cmd/seed
//	CATALOG_PATH=~/vidcat go run ./cmd/seed --wipe  # Delete existing activities first
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"math/rand"
	"os"
	"time"

	"github.com/vidcatapp/vidcat-core/internal/cache"
	"github.com/vidcatapp/vidcat-core/internal/domain"
	"github.com/vidcatapp/vidcat-core/internal/service"
	"github.com/vidcatapp/vidcat-core/internal/store/sqlite"
	"github.com/vidcatapp/vidcat-core/internal/validation"
)

var wipe = flag.Bool("wipe", false, "Delete existing activities before seeding")

type seedActivity struct {
	name     string
	class    string
	section  string
	desc     string
	titles   []string
	versions int
}

var seedActivities = []seedActivity{
	{
		name:    "Spring Recital",
		class:   "2025",
		section: "Spring",
		desc:    "Annual end-of-term showcase",
		titles:  []string{"Opening Number", "Ballet Ensemble", "Grand Finale"},
		// Grand Finale gets multiple cuts to exercise version chains.
		versions: 3,
	},
	{
		name:    "Winter Showcase",
		class:   "2024",
		section: "Winter",
		desc:    "Holiday program",
		titles:  []string{"Nutcracker Excerpt", "Jazz Medley"},
	},
	{
		name:    "Summer Intensive",
		class:   "2025",
		section: "Summer",
		desc:    "Two-week workshop recordings",
		titles:  []string{"Technique Class", "Improv Session", "Final Performance"},
	},
}

var seedFormats = []string{"mp4", "mp4", "mp4", "mov", "mkv"}

var seedTags = map[string][]string{
	"Opening Number":     {"dance", "group"},
	"Ballet Ensemble":    {"ballet", "group"},
	"Grand Finale":       {"dance", "finale"},
	"Nutcracker Excerpt": {"ballet", "solo"},
	"Jazz Medley":        {"jazz", "group"},
	"Technique Class":    {"practice"},
	"Improv Session":     {"jazz", "practice"},
	"Final Performance":  {"finale"},
}

func main() {
	flag.Parse()

	catalogPath := os.Getenv("CATALOG_PATH")
	if catalogPath == "" {
		catalogPath = os.ExpandEnv("$HOME/vidcat")
	}

	fmt.Printf("Opening catalog at: %s\n", catalogPath)

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	st, err := sqlite.Open(catalogPath, logger)
	if err != nil {
		log.Fatalf("Failed to open catalog: %v", err)
	}
	defer st.Close()

	statsCache := cache.New()
	v := validation.New()
	catalog := service.NewCatalogService(st, v, statsCache, logger)
	organize := service.NewOrganizeService(st, v, statsCache, logger)

	ctx := context.Background()
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	if *wipe {
		existing, err := catalog.ListActivities(ctx, "", "")
		if err != nil {
			log.Fatalf("Failed to list activities: %v", err)
		}
		for _, a := range existing {
			if _, err := catalog.DeleteActivity(ctx, a.ID, true); err != nil {
				log.Fatalf("Failed to delete activity %d: %v", a.ID, err)
			}
		}
		fmt.Printf("Wiped %d existing activities\n", len(existing))
	}

	showcase := &domain.Collection{
		Name:        "Highlights",
		Description: "Best takes across programs",
		Color:       "#e8b339",
	}
	if err := organize.CreateCollection(ctx, showcase); err != nil {
		log.Fatalf("Failed to create collection: %v", err)
	}

	totalVideos := 0

	for _, sa := range seedActivities {
		activity := &domain.Activity{
			Name:        sa.name,
			Description: sa.desc,
			Class:       sa.class,
			Section:     sa.section,
		}
		if err := catalog.CreateActivity(ctx, activity); err != nil {
			log.Fatalf("Failed to create activity %q: %v", sa.name, err)
		}
		fmt.Printf("\nActivity: %s (%s %s)\n", sa.name, sa.class, sa.section)

		eventDate := time.Now().AddDate(0, 0, -rng.Intn(120)).Truncate(24 * time.Hour)

		for i, title := range sa.titles {
			versions := 1
			if sa.versions > 1 && i == len(sa.titles)-1 {
				versions = sa.versions
			}

			for range versions {
				video := &domain.Video{
					ActivityID: activity.ID,
					Title:      title,
					FileSize:   int64(10+rng.Intn(200)) << 20,
					Duration:   float64(60 + rng.Intn(540)),
					Format:     seedFormats[rng.Intn(len(seedFormats))],
					Resolution: "1920x1080",
					EventDate:  &eventDate,
				}

				// Mix sources: most videos are local, some YouTube-only,
				// a few both.
				switch rng.Intn(5) {
				case 0:
					url := fmt.Sprintf("https://youtube.com/watch?v=seed%04d", rng.Intn(10000))
					video.YouTubeURL = &url
				case 1:
					path := fmt.Sprintf("videos/%s/%s.%s", sa.name, title, video.Format)
					url := fmt.Sprintf("https://youtube.com/watch?v=seed%04d", rng.Intn(10000))
					video.FilePath = &path
					video.YouTubeURL = &url
				default:
					path := fmt.Sprintf("videos/%s/%s.%s", sa.name, title, video.Format)
					video.FilePath = &path
				}

				if err := catalog.CreateVideo(ctx, video, seedTags[title]); err != nil {
					log.Fatalf("Failed to create video %q: %v", title, err)
				}
				totalVideos++

				fmt.Printf("  v%d %s [%s]\n", video.VersionNumber, title, video.Format)

				// First take of each title goes into the highlights collection.
				if video.VersionNumber == 1 && rng.Intn(2) == 0 {
					if err := organize.AddVideoToCollection(ctx, showcase.ID, video.ID); err != nil {
						log.Fatalf("Failed to add video to collection: %v", err)
					}
				}
			}
		}

		link := &domain.Link{
			ActivityID:  activity.ID,
			Title:       "Program notes",
			URL:         fmt.Sprintf("https://example.com/programs/%d", activity.ID),
			Description: "External program page",
		}
		if err := organize.CreateLink(ctx, link); err != nil {
			log.Fatalf("Failed to create link: %v", err)
		}
	}

	fmt.Printf("\nSeeded %d activities, %d videos\n", len(seedActivities), totalVideos)
}
