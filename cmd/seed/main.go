// Command main seeds the scenario catalog and, optionally, demo community data.
package main

import (
	"context"
	"flag"
	"log"

	"github.com/GenkiNakashima/systemst/internal/bootstrap"
	"github.com/GenkiNakashima/systemst/internal/config"
	"github.com/GenkiNakashima/systemst/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 20, "Number of demo users to create")
	numPosts := flag.Int("posts", 100, "Number of demo posts to create")
	maxDays := flag.Int("days", 30, "Spread post timestamps over this many days")
	shouldClean := flag.Bool("clean", false, "Remove existing community data before seeding")
	scenariosOnly := flag.Bool("scenarios-only", false, "Only upsert the scenario catalog")
	fast := flag.Bool("fast", true, "Hash demo passwords with the minimum bcrypt cost")
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, _, err := bootstrap.InitRuntime(ctx, cfg, bootstrap.Options{SeedScenarios: true})
	if err != nil {
		log.Fatalf("Failed to initialize runtime: %v", err)
	}
	if *scenariosOnly {
		log.Println("Scenario catalog is up to date.")
		return
	}

	if *shouldClean {
		if err := seed.Clear(ctx, db); err != nil {
			log.Fatalf("Cleanup failed: %v", err)
		}
	}

	factory, err := seed.NewFactory(db, seed.Options{
		Users:    *numUsers,
		Posts:    *numPosts,
		MaxDays:  *maxDays,
		FastHash: *fast,
	})
	if err != nil {
		log.Fatalf("Failed to create factory: %v", err)
	}

	summary, err := factory.Demo(ctx)
	if err != nil {
		log.Fatalf("Demo seeding failed: %v", err)
	}

	log.Printf("Created %d users, %d posts, %d reactions and %d replies.",
		summary.Users, summary.Posts, summary.Reactions, summary.Replies)
	log.Printf("All demo users have the password: %s", seed.DemoPassword)
}
