// Package seed populates the database with demo users, posts and interactions
// for development and testing.
package seed

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"log/slog"
	"math/rand"
	"strings"

	"campusgram/internal/middleware"
	"campusgram/internal/models"
	"campusgram/internal/repository"
	"campusgram/internal/storage"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DefaultPassword is the password of every seeded user.
const DefaultPassword = "password123"

// Options configuration for the seeder
type Options struct {
	NumUsers int
	NumPosts int
	// Interaction probabilities, 0..1.
	LikeRate    float64
	CommentRate float64
	FollowRate  float64
	SaveRate    float64
	// Seed makes runs reproducible when non-zero.
	Seed int64
}

// DefaultOptions returns a small, lively data set.
func DefaultOptions() Options {
	return Options{
		NumUsers:    20,
		NumPosts:    60,
		LikeRate:    0.3,
		CommentRate: 0.1,
		FollowRate:  0.2,
		SaveRate:    0.05,
	}
}

// Result summarizes what a run created.
type Result struct {
	Users    []models.User
	Posts    []models.Post
	Likes    int
	Comments int
	Follows  int
	Saves    int
}

// Seeder writes demo data through the repositories so notifications are produced
// exactly as they are for real traffic.
type Seeder struct {
	db           *gorm.DB
	store        storage.Store
	interactions repository.InteractionRepository
	hashCost     int
}

func NewSeeder(db *gorm.DB, store storage.Store) *Seeder {
	return &Seeder{
		db:           db,
		store:        store,
		interactions: repository.NewInteractionRepository(db),
		hashCost:     bcrypt.DefaultCost,
	}
}

// ClearAll deletes every row of the application tables. The stored images are left alone.
func (s *Seeder) ClearAll(ctx context.Context) error {
	tables := []interface{}{
		&models.Notification{},
		&models.Feedback{},
		&models.SavedPost{},
		&models.Follow{},
		&models.Comment{},
		&models.Like{},
		&models.Post{},
		&models.User{},
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, model := range tables {
			if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error; err != nil {
				return fmt.Errorf("clear %T: %w", model, err)
			}
		}
		return nil
	})
}

// Run seeds users, posts with generated images, then random interactions.
func (s *Seeder) Run(ctx context.Context, opts Options) (*Result, error) {
	if opts.Seed != 0 {
		gofakeit.Seed(opts.Seed)
	}
	//nolint:gosec // Weak random number generator is fine for seeding
	r := rand.New(rand.NewSource(gofakeit.Int64()))

	res := &Result{}
	users, err := s.createUsers(ctx, opts.NumUsers)
	if err != nil {
		return nil, fmt.Errorf("failed to create users: %w", err)
	}
	res.Users = users
	middleware.Logger.Info("Seeded users", slog.Int("count", len(users)))

	if len(users) == 0 {
		return res, nil
	}

	posts, err := s.createPosts(ctx, r, users, opts.NumPosts)
	if err != nil {
		return nil, fmt.Errorf("failed to create posts: %w", err)
	}
	res.Posts = posts
	middleware.Logger.Info("Seeded posts", slog.Int("count", len(posts)))

	if err := s.createInteractions(ctx, r, res, opts); err != nil {
		return nil, fmt.Errorf("failed to create interactions: %w", err)
	}
	middleware.Logger.Info("Seeded interactions",
		slog.Int("likes", res.Likes),
		slog.Int("comments", res.Comments),
		slog.Int("follows", res.Follows),
		slog.Int("saves", res.Saves),
	)
	return res, nil
}

func (s *Seeder) createUsers(ctx context.Context, n int) ([]models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), s.hashCost)
	if err != nil {
		return nil, err
	}

	users := make([]models.User, 0, n)
	seen := make(map[string]bool, n)
	for len(users) < n {
		username := uniqueUsername(seen)
		users = append(users, models.User{
			Username: username,
			Email:    strings.ToLower(username) + "@umassd.edu",
			Password: string(hash),
		})
	}
	if n == 0 {
		return users, nil
	}
	if err := s.db.WithContext(ctx).CreateInBatches(&users, 100).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func uniqueUsername(seen map[string]bool) string {
	for {
		name := strings.ToLower(gofakeit.FirstName() + "_" + gofakeit.LastName())
		if len(name) > 40 {
			name = name[:40]
		}
		name = fmt.Sprintf("%s%d", name, gofakeit.Number(10, 999))
		if !seen[name] {
			seen[name] = true
			return name
		}
	}
}

func (s *Seeder) createPosts(ctx context.Context, r *rand.Rand, users []models.User, n int) ([]models.Post, error) {
	posts := make([]models.Post, 0, n)
	for i := 0; i < n; i++ {
		owner := users[r.Intn(len(users))]

		data, err := swatch(r)
		if err != nil {
			return nil, err
		}
		name := storage.UniqueName(gofakeit.Word() + ".png")
		if err := s.store.Save(ctx, name, data, "image/png"); err != nil {
			return nil, fmt.Errorf("store image: %w", err)
		}

		post := models.Post{
			UserID:    owner.ID,
			ImagePath: name,
			Caption:   gofakeit.Sentence(gofakeit.Number(3, 12)),
		}
		if err := s.db.WithContext(ctx).Create(&post).Error; err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, nil
}

// swatch renders a small two-tone PNG.
func swatch(r *rand.Rand) ([]byte, error) {
	const size = 96
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	bg := color.RGBA{uint8(r.Intn(256)), uint8(r.Intn(256)), uint8(r.Intn(256)), 255}
	fg := color.RGBA{uint8(r.Intn(256)), uint8(r.Intn(256)), uint8(r.Intn(256)), 255}
	draw.Draw(img, img.Bounds(), &image.Uniform{C: bg}, image.Point{}, draw.Src)
	inset := size / 4
	draw.Draw(img, image.Rect(inset, inset, size-inset, size-inset), &image.Uniform{C: fg}, image.Point{}, draw.Src)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *Seeder) createInteractions(ctx context.Context, r *rand.Rand, res *Result, opts Options) error {
	for _, user := range res.Users {
		for _, post := range res.Posts {
			if r.Float64() < opts.LikeRate {
				if _, _, err := s.interactions.ToggleLike(ctx, user.ID, post.ID); err != nil {
					return err
				}
				res.Likes++
			}
			if r.Float64() < opts.CommentRate {
				comment := &models.Comment{UserID: user.ID, PostID: post.ID, Content: gofakeit.Sentence(gofakeit.Number(2, 10))}
				if _, err := s.interactions.AddComment(ctx, comment); err != nil {
					return err
				}
				res.Comments++
			}
			if r.Float64() < opts.SaveRate {
				if _, err := s.interactions.ToggleSave(ctx, user.ID, post.ID); err != nil {
					return err
				}
				res.Saves++
			}
		}

		for _, other := range res.Users {
			if other.ID == user.ID || r.Float64() >= opts.FollowRate {
				continue
			}
			if _, _, err := s.interactions.ToggleFollow(ctx, user.ID, other.ID); err != nil {
				return err
			}
			res.Follows++
		}
	}
	return nil
}
