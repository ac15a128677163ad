// Package seed fills a development database with synthetic profiles,
// relationships and engagement. Everything is written through the
// repositories so derived counters stay consistent.
package seed

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"quad/internal/database"
	"quad/internal/models"
	"quad/internal/repository"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"
)

// Options sizes a seeding run.
type Options struct {
	Profiles        int `yaml:"profiles"`
	NotesPerProfile int `yaml:"notes_per_profile"`
	FriendsPer      int `yaml:"friends_per_profile"`
	FollowsPer      int `yaml:"follows_per_profile"`
	// EngagementRate is the chance, in percent, that a profile likes or
	// bookmarks a given note.
	EngagementRate int `yaml:"engagement_rate"`
}

// DefaultOptions is what cmd/seed uses without flags.
var DefaultOptions = Options{
	Profiles:        50,
	NotesPerProfile: 4,
	FriendsPer:      5,
	FollowsPer:      8,
	EngagementRate:  15,
}

// Summary counts what a run created.
type Summary struct {
	Profiles    int
	Friendships int
	Follows     int
	Notes       int
	Likes       int
	Bookmarks   int
	Comments    int
}

// Seeder writes fake data. A fixed seed gives a reproducible data set.
type Seeder struct {
	db       *gorm.DB
	faker    *gofakeit.Faker
	profiles repository.ProfileRepository
	friends  repository.FriendRepository
	follows  repository.FollowRepository
	notes    repository.NoteRepository
	comments repository.CommentRepository
}

// NewSeeder binds a Seeder to db. seed 0 picks a random seed.
func NewSeeder(db *gorm.DB, seed int64) *Seeder {
	return &Seeder{
		db:       db,
		faker:    gofakeit.New(seed),
		profiles: repository.NewProfileRepository(db),
		friends:  repository.NewFriendRepository(db),
		follows:  repository.NewFollowRepository(db),
		notes:    repository.NewNoteRepository(db),
		comments: repository.NewCommentRepository(db),
	}
}

// ClearAll deletes every row of every schema-managed table, children first.
func (s *Seeder) ClearAll(ctx context.Context) error {
	all := database.PersistentModels()
	tx := s.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true})
	for i := len(all) - 1; i >= 0; i-- {
		if err := tx.Delete(all[i]).Error; err != nil {
			return fmt.Errorf("clear %T: %w", all[i], err)
		}
	}
	return nil
}

// Run creates profiles, then the social graph, then notes and engagement.
func (s *Seeder) Run(ctx context.Context, opts Options) (*Summary, error) {
	sum := &Summary{}

	profiles, err := s.SeedProfiles(ctx, opts.Profiles)
	if err != nil {
		return sum, err
	}
	sum.Profiles = len(profiles)

	if sum.Friendships, sum.Follows, err = s.SeedSocialGraph(ctx, profiles, opts.FriendsPer, opts.FollowsPer); err != nil {
		return sum, err
	}

	notes, err := s.SeedNotes(ctx, profiles, opts.NotesPerProfile)
	if err != nil {
		return sum, err
	}
	sum.Notes = len(notes)

	if err := s.SeedEngagement(ctx, profiles, notes, opts.EngagementRate, sum); err != nil {
		return sum, err
	}

	slog.InfoContext(ctx, "seed complete",
		slog.Int("profiles", sum.Profiles),
		slog.Int("friendships", sum.Friendships),
		slog.Int("follows", sum.Follows),
		slog.Int("notes", sum.Notes),
		slog.Int("likes", sum.Likes),
		slog.Int("bookmarks", sum.Bookmarks),
		slog.Int("comments", sum.Comments),
	)
	return sum, nil
}

// SeedProfiles creates n profiles with unique emails.
func (s *Seeder) SeedProfiles(ctx context.Context, n int) ([]models.Profile, error) {
	out := make([]models.Profile, 0, n)
	for i := 0; i < n; i++ {
		first, last := s.faker.FirstName(), s.faker.LastName()
		birth := s.faker.DateRange(
			time.Date(1940, 1, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2005, 12, 31, 0, 0, 0, 0, time.UTC),
		)
		p := models.Profile{
			FirstName: first,
			LastName:  last,
			Email:     fmt.Sprintf("%s.%s.%d@example.org", strings.ToLower(first), strings.ToLower(last), i+1),
			City:      s.faker.City(),
			Bio:       s.faker.Sentence(12),
			AvatarURL: fmt.Sprintf("https://i.pravatar.cc/150?u=%s", s.faker.UUID()),
			BirthDate: &birth,
		}
		if err := s.profiles.Create(ctx, &p); err != nil {
			return out, fmt.Errorf("create profile: %w", err)
		}
		out = append(out, p)
	}
	return out, nil
}

// SeedSocialGraph gives each profile up to friendsPer friends and
// followsPer followees, chosen at random. Duplicates are absorbed by the
// repositories, so the returned counts are rows actually created.
func (s *Seeder) SeedSocialGraph(ctx context.Context, profiles []models.Profile, friendsPer, followsPer int) (friendships, follows int, err error) {
	if len(profiles) < 2 {
		return 0, 0, nil
	}
	for i := range profiles {
		for j := 0; j < friendsPer; j++ {
			other := s.other(profiles, i)
			created, err := s.friends.Add(ctx, profiles[i].ID, other.ID)
			if err != nil {
				return friendships, follows, fmt.Errorf("add friend: %w", err)
			}
			if created {
				friendships++
			}
		}
		for j := 0; j < followsPer; j++ {
			other := s.other(profiles, i)
			created, err := s.follows.Follow(ctx, profiles[i].ID, other.ID)
			if err != nil {
				return friendships, follows, fmt.Errorf("follow: %w", err)
			}
			if created {
				follows++
			}
		}
	}
	return friendships, follows, nil
}

// SeedNotes writes perProfile notes for every profile.
func (s *Seeder) SeedNotes(ctx context.Context, profiles []models.Profile, perProfile int) ([]models.Note, error) {
	out := make([]models.Note, 0, len(profiles)*perProfile)
	for _, p := range profiles {
		for j := 0; j < perProfile; j++ {
			n := models.Note{
				Title:    strings.TrimSuffix(s.faker.Sentence(s.faker.Number(3, 7)), "."),
				Content:  s.faker.Paragraph(1, 3, 12, "\n"),
				AuthorID: p.ID,
			}
			if err := s.notes.Create(ctx, &n); err != nil {
				return out, fmt.Errorf("create note: %w", err)
			}
			out = append(out, n)
		}
	}
	return out, nil
}

// SeedEngagement likes, bookmarks and comments on notes at ratePercent.
func (s *Seeder) SeedEngagement(ctx context.Context, profiles []models.Profile, notes []models.Note, ratePercent int, sum *Summary) error {
	for _, n := range notes {
		for _, p := range profiles {
			if p.ID == n.AuthorID {
				continue
			}
			if s.hit(ratePercent) {
				if _, err := s.notes.Toggle(ctx, models.EngagementLike, n.ID, p.ID); err != nil {
					return fmt.Errorf("like: %w", err)
				}
				sum.Likes++
			}
			if s.hit(ratePercent / 2) {
				if _, err := s.notes.Toggle(ctx, models.EngagementBookmark, n.ID, p.ID); err != nil {
					return fmt.Errorf("bookmark: %w", err)
				}
				sum.Bookmarks++
			}
			if s.hit(ratePercent / 3) {
				c := models.Comment{Content: s.faker.Sentence(s.faker.Number(4, 16)), NoteID: n.ID, ProfileID: p.ID}
				if err := s.comments.Create(ctx, &c); err != nil {
					return fmt.Errorf("comment: %w", err)
				}
				sum.Comments++
			}
		}
	}
	return nil
}

// other picks a profile different from profiles[i].
func (s *Seeder) other(profiles []models.Profile, i int) models.Profile {
	j := s.faker.Number(0, len(profiles)-2)
	if j >= i {
		j++
	}
	return profiles[j]
}

func (s *Seeder) hit(percent int) bool {
	return percent > 0 && s.faker.Number(1, 100) <= percent
}
