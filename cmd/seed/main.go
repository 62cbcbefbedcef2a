// Command seed fills the database with generated demo data: users with a
// shared known password, a fixed tag set, and randomized posts, follows,
// comments and ratings. It wipes existing rows first.
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"

	"go.uber.org/zap"

	"github.com/gamingrealm/backend/internal/apperr"
	"github.com/gamingrealm/backend/internal/auth"
	"github.com/gamingrealm/backend/internal/db"
	"github.com/gamingrealm/backend/internal/models"
	"github.com/gamingrealm/backend/pkg/config"
	"github.com/gamingrealm/backend/pkg/logging"
)

// seedPassword is the login password of every generated user.
const seedPassword = "abcdefg"

var tagNames = []string{
	"pubg", "cod", "amongus", "valorant", "fortnite", "forza",
	"godofwar", "witcher", "rust", "minecraft", "fifa", "f1",
}

var loremWords = []string{
	"raid", "clutch", "respawn", "loot", "speedrun", "ranked", "squad",
	"boss", "patch", "meta", "grind", "lobby", "frame", "combo", "quest",
}

func sentence(rng *rand.Rand, n int) string {
	out := ""
	for i := 0; i < n; i++ {
		if i > 0 {
			out += " "
		}
		out += loremWords[rng.Intn(len(loremWords))]
	}
	return out
}

type seeder struct {
	users    *db.UserRepository
	follows  *db.FollowRepository
	posts    *db.PostRepository
	comments *db.CommentRepository
	ratings  *db.RatingRepository
	tags     *db.TagRepository
	rng      *rand.Rand
	logger   *zap.Logger
}

func (s *seeder) createUsers(ctx context.Context, hash string, n int) ([]models.User, error) {
	users := make([]models.User, 0, n)
	for i := 0; i < n; i++ {
		username := fmt.Sprintf("%s_%s%d", loremWords[s.rng.Intn(len(loremWords))], loremWords[s.rng.Intn(len(loremWords))], i)
		if len(username) > models.MaxUsernameLen {
			username = username[:models.MaxUsernameLen]
		}
		email := fmt.Sprintf("%s%d@example.com", username, i)
		u, err := s.users.Create(ctx, email, username, hash)
		if err != nil {
			return nil, fmt.Errorf("creating user %q: %w", username, err)
		}
		users = append(users, *u)
	}
	s.logger.Info("Created users", zap.Int("count", n))

	attempts := 3 * n
	made := 0
	for i := 0; i < attempts; i++ {
		a := users[s.rng.Intn(len(users))]
		b := users[s.rng.Intn(len(users))]
		err := s.follows.Follow(ctx, a.ID, b.ID)
		switch {
		case err == nil:
			made++
		case apperr.IsConflict(err) || apperr.IsInvalidArgument(err):
			// self-follow or duplicate pick, skip
		default:
			return nil, fmt.Errorf("creating follow: %w", err)
		}
	}
	s.logger.Info("Created follows", zap.Int("attempted", attempts), zap.Int("made", made))
	return users, nil
}

func (s *seeder) createPosts(ctx context.Context, users []models.User, n int) error {
	for i := 0; i < n; i++ {
		author := users[s.rng.Intn(len(users))]
		body := sentence(s.rng, 12)
		post, err := s.posts.Create(ctx, db.CreatePostParams{
			AuthorID:    author.ID,
			Title:       sentence(s.rng, 4),
			TextContent: &body,
			Tags:        []string{tagNames[s.rng.Intn(len(tagNames))]},
			MediaURLs:   []string{fmt.Sprintf("https://media.example.com/%d.png", i)},
		})
		if err != nil {
			return fmt.Errorf("creating post: %w", err)
		}

		// Each post gets comments and ratings from a sample of distinct users.
		sample := s.rng.Perm(len(users))
		reviewers := n / 2
		if reviewers > len(users) {
			reviewers = len(users)
		}
		for _, idx := range sample[:reviewers] {
			reviewer := users[idx]
			if _, err := s.comments.Create(ctx, post.ID, reviewer.ID, sentence(s.rng, 6)); err != nil {
				return fmt.Errorf("creating comment: %w", err)
			}
			if err := s.ratings.Rate(ctx, post.ID, reviewer.ID, s.rng.Intn(6)); err != nil {
				return fmt.Errorf("creating rating: %w", err)
			}
		}
	}
	s.logger.Info("Created posts", zap.Int("count", n))
	return nil
}

func clearDatabase(database *db.DB) error {
	// Table order does not matter, the cascade wipes dependents.
	return database.Exec(
		"TRUNCATE users, passwords, followers, posts, post_media, post_ratings, post_comments, post_reports, tags, post_tags RESTART IDENTITY CASCADE",
	).Error
}

func main() {
	userCount := flag.Int("users", 10, "number of users to create")
	postCount := flag.Int("posts", 30, "number of posts to create")
	seed := flag.Int64("seed", 0, "random seed")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if err := logging.InitLogger(&cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logging.GetLogger().Sync()
	logger := logging.GetLogger()

	if *postCount/2 > *userCount {
		logger.Warn("Raising user count to half the post count",
			zap.Int("users", *postCount/2))
		*userCount = *postCount / 2
	}

	database, err := db.New(&cfg.Database, cfg.Logging.Level)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.Close()

	if err := database.Migrate(); err != nil {
		logger.Fatal("Failed to migrate database schema", zap.Error(err))
	}
	if err := clearDatabase(database); err != nil {
		logger.Fatal("Failed to clear database", zap.Error(err))
	}
	logger.Info("Cleared the database")

	hash, err := auth.HashPassword(seedPassword, auth.ParamsFromConfig(&cfg.Auth))
	if err != nil {
		logger.Fatal("Failed to hash seed password", zap.Error(err))
	}

	repo := db.NewRepository(database.DB)
	s := &seeder{
		users:    db.NewUserRepository(repo),
		follows:  db.NewFollowRepository(repo),
		posts:    db.NewPostRepository(repo),
		comments: db.NewCommentRepository(repo),
		ratings:  db.NewRatingRepository(repo),
		tags:     db.NewTagRepository(repo),
		rng:      rand.New(rand.NewSource(*seed)),
		logger:   logger,
	}

	ctx := context.Background()
	users, err := s.createUsers(ctx, hash, *userCount)
	if err != nil {
		logger.Fatal("Failed to seed users", zap.Error(err))
	}
	if err := s.createPosts(ctx, users, *postCount); err != nil {
		logger.Fatal("Failed to seed posts", zap.Error(err))
	}
	logger.Info("Dummy data created",
		zap.Int("users", len(users)), zap.Int("posts", *postCount))
}
