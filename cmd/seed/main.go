// Command main runs the database seeder for Tingle.
package main

import (
	"context"
	"flag"
	"log"
	"os"

	"tingle/internal/bootstrap"
	"tingle/internal/config"
	"tingle/internal/database"
	"tingle/internal/seed"
)

func main() {
	preset := flag.String("preset", "demo", "Seeder preset to apply")
	presetFile := flag.String("preset-file", "", "YAML file with additional presets")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	seedValue := flag.Int64("seed", 0, "Random seed (0 picks one)")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.IsProduction() {
		log.Fatal("Refusing to seed a production database")
	}

	presets, err := seed.BuiltinPresets()
	if err != nil {
		log.Fatalf("Failed to load built-in presets: %v", err)
	}
	if *presetFile != "" {
		raw, err := os.ReadFile(*presetFile)
		if err != nil {
			log.Fatalf("Failed to read preset file: %v", err)
		}
		custom, err := seed.ParsePresets(raw)
		if err != nil {
			log.Fatalf("Invalid preset file: %v", err)
		}
		for name, opts := range custom {
			presets[name] = opts
		}
	}

	opts, err := seed.LookupPreset(presets, *preset)
	if err != nil {
		log.Fatal(err)
	}
	if *seedValue != 0 {
		opts.Seed = *seedValue
	}
	log.Printf("Applying preset %q: %d users, %d posts each, clean=%v", *preset, opts.Users, opts.PostsPerUser, *shouldClean)

	ctx := context.Background()
	db, _, err := bootstrap.InitRuntime(ctx, cfg, bootstrap.Options{ApplySchema: true})
	if err != nil {
		log.Fatalf("Failed to initialize runtime: %v", err)
	}
	defer database.Close(db)

	publisher := bootstrap.InitEvents(cfg)
	defer publisher.Close()

	s, err := seed.NewSeeder(db, opts, publisher)
	if err != nil {
		log.Fatalf("Invalid seeder options: %v", err)
	}
	if *shouldClean {
		if err := s.ClearAll(ctx); err != nil {
			log.Fatalf("Cleanup failed: %v", err)
		}
	}

	summary, err := s.Run(ctx)
	if err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Printf("Seeded %d users, %d posts, %d follows, %d likes, %d comments, %d messages",
		summary.Users, summary.Posts, summary.Follows, summary.Likes, summary.Comments, summary.Messages)
	log.Printf("All seeded users have the password: %s", seed.DefaultPassword)
}
