// Command seed fills a development database with fake data.
package main

import (
	"flag"
	"log"

	"voxpop/internal/config"
	"voxpop/internal/database"
	"voxpop/internal/seed"
)

func main() {
	users := flag.Int("users", 10, "number of users to create")
	posts := flag.Int("posts", 5, "posts per user")
	voteRatio := flag.Float64("vote-ratio", 0.3, "fraction of (user, post) pairs that get a vote")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.Env == "production" || cfg.Env == "prod" {
		log.Fatal("Refusing to seed a production database")
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Database connection failed: %v", err)
	}

	if err := seed.Run(db, seed.Options{
		Users:        *users,
		PostsPerUser: *posts,
		VoteRatio:    *voteRatio,
	}); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}
}
