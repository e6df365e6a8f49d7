// Command main fills the database with demo users, posts and interactions.
package main

import (
	"context"
	"flag"
	"log"

	"campusgram/internal/bootstrap"
	"campusgram/internal/config"
	"campusgram/internal/seed"
)

func main() {
	defaults := seed.DefaultOptions()
	numUsers := flag.Int("users", defaults.NumUsers, "Number of users to create")
	numPosts := flag.Int("posts", defaults.NumPosts, "Number of posts to create")
	likeRate := flag.Float64("like-rate", defaults.LikeRate, "Probability that a user likes a post")
	followRate := flag.Float64("follow-rate", defaults.FollowRate, "Probability that a user follows another")
	seedValue := flag.Int64("seed", 0, "Random seed for reproducible data (0 = random)")
	shouldClean := flag.Bool("clean", false, "Delete existing rows before seeding")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()
	rt, err := bootstrap.InitRuntime(ctx, cfg, bootstrap.Options{})
	if err != nil {
		log.Fatalf("Failed to initialize runtime: %v", err)
	}

	s := seed.NewSeeder(rt.DB, rt.Store)
	if *shouldClean {
		if err := s.ClearAll(ctx); err != nil {
			log.Fatalf("Cleanup failed: %v", err)
		}
	}

	opts := defaults
	opts.NumUsers = *numUsers
	opts.NumPosts = *numPosts
	opts.LikeRate = *likeRate
	opts.FollowRate = *followRate
	opts.Seed = *seedValue

	res, err := s.Run(ctx, opts)
	if err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Printf("Created %d users, %d posts, %d likes, %d comments, %d follows, %d saves",
		len(res.Users), len(res.Posts), res.Likes, res.Comments, res.Follows, res.Saves)
	log.Printf("All seeded users have the password: %s", seed.DefaultPassword)
}
