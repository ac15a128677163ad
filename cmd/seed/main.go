// Command seed fills the database with fake social data, or writes a
// synthetic voter roll file.
package main

import (
	"context"
	"flag"
	"log"
	"os"

	"quad/internal/config"
	"quad/internal/database"
	"quad/internal/seed"
)

func main() {
	opts := seed.DefaultOptions
	flag.IntVar(&opts.Profiles, "profiles", opts.Profiles, "Number of profiles to create")
	flag.IntVar(&opts.NotesPerProfile, "notes", opts.NotesPerProfile, "Notes per profile")
	flag.IntVar(&opts.FriendsPer, "friends", opts.FriendsPer, "Friend attempts per profile")
	flag.IntVar(&opts.FollowsPer, "follows", opts.FollowsPer, "Follow attempts per profile")
	flag.IntVar(&opts.EngagementRate, "engagement", opts.EngagementRate, "Like chance per note and profile, in percent")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	seedValue := flag.Int64("seed", 0, "Random seed (0 for random)")
	votersCSV := flag.String("voters-csv", "", "Write a synthetic voter roll to this path instead of seeding")
	voterRows := flag.Int("voters", 1000, "Rows to write with -voters-csv")
	preset := flag.String("preset", "", "YAML preset file overriding the size flags")
	flag.Parse()

	if *preset != "" {
		var err error
		if opts, err = seed.LoadPreset(*preset); err != nil {
			log.Fatalf("Failed to load preset: %v", err)
		}
		log.Printf("Applying preset %s (ignoring size flags)", *preset)
	}

	if *votersCSV != "" {
		f, err := os.Create(*votersCSV)
		if err != nil {
			log.Fatalf("Failed to create %s: %v", *votersCSV, err)
		}
		if err := seed.WriteVoterCSV(f, *voterRows, *seedValue); err != nil {
			_ = f.Close()
			log.Fatalf("Failed to write voters: %v", err)
		}
		if err := f.Close(); err != nil {
			log.Fatalf("Failed to close %s: %v", *votersCSV, err)
		}
		log.Printf("Wrote %d voter rows to %s", *voterRows, *votersCSV)
		return
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	ctx := context.Background()
	s := seed.NewSeeder(db, *seedValue)
	if *shouldClean {
		if err := s.ClearAll(ctx); err != nil {
			log.Fatalf("Cleanup failed: %v", err)
		}
	}

	sum, err := s.Run(ctx, opts)
	if err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}
	log.Printf("Seeded %d profiles, %d friendships, %d follows, %d notes, %d likes, %d bookmarks, %d comments",
		sum.Profiles, sum.Friendships, sum.Follows, sum.Notes, sum.Likes, sum.Bookmarks, sum.Comments)
}
