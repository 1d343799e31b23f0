// Seeds a verified demo account with a few bookmarks, for local
// development against a fresh database. Safe to re-run: a duplicate
// email aborts before touching bookmarks.
package main

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/almasbek/pinpoint/config"
	"github.com/almasbek/pinpoint/internal/domain"
	"github.com/almasbek/pinpoint/internal/hash"
	"github.com/almasbek/pinpoint/internal/infrastructure/postgres"
	"github.com/almasbek/pinpoint/internal/repository"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer pool.Close()

	users := postgres.NewUserRepository(pool)
	bookmarks := postgres.NewBookmarkRepository(pool)

	hasher := hash.NewBcryptHasher()
	passwordHash, err := hasher.Hash("password123")
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}

	user, err := users.Create(ctx, &domain.User{
		Email:        "demo@pinpoint.dev",
		Username:     "demo",
		PasswordHash: passwordHash,
		IsVerified:   true,
	})
	if errors.Is(err, domain.ErrDuplicateEmail) {
		log.Println("demo user already exists, nothing to do")
		return
	}
	if err != nil {
		log.Fatalf("create demo user: %v", err)
	}

	if err := seedBookmarks(ctx, bookmarks, user.ID); err != nil {
		log.Fatalf("seed bookmarks: %v", err)
	}

	log.Printf("seeded demo user %s (demo@pinpoint.dev / password123)", user.ID)
}

func seedBookmarks(ctx context.Context, repo repository.BookmarkRepository, userID string) error {
	desc := func(s string) *string { return &s }

	samples := []*domain.Bookmark{
		{UserID: userID, Name: "Kok-Tobe", Latitude: 43.2287, Longitude: 76.9723, Description: desc("Hilltop park overlooking the city")},
		{UserID: userID, Name: "Medeu", Latitude: 43.1569, Longitude: 77.0585, Description: desc("High-altitude skating rink")},
		{UserID: userID, Name: "Big Almaty Lake", Latitude: 43.0559, Longitude: 76.9854},
	}

	for _, b := range samples {
		if _, err := repo.Create(ctx, b); err != nil {
			return err
		}
	}
	return nil
}
