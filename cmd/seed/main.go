package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"bookmyseat/internal/catalog"
	"bookmyseat/internal/seats"
	"bookmyseat/internal/shared/config"
	"bookmyseat/internal/shared/database"
	"bookmyseat/internal/users"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type Seeder struct {
	db *database.DB
}

func main() {
	fmt.Println("🌱 Starting BookMySeat Database Seeder...")

	cfg := config.Load()

	db, err := database.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	seeder := &Seeder{db: db}

	fmt.Println("\n🧹 Cleaning database...")
	if err := seeder.CleanDatabase(); err != nil {
		log.Fatalf("Failed to clean database: %v", err)
	}

	fmt.Println("\n🌱 Seeding database...")
	if err := seeder.SeedAll(); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}

	fmt.Println("\n🎉 Seeding completed! Database is ready for testing.")
}

// CleanDatabase truncates all tables in reverse dependency order.
func (s *Seeder) CleanDatabase() error {
	tables := []string{
		"bookings",
		"seats",
		"theaters",
		"movies",
		"genres",
		"languages",
		"users",
	}

	tx := s.db.PostgreSQL.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := tx.Exec("SET CONSTRAINTS ALL DEFERRED").Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to defer constraints: %w", err)
	}

	for _, table := range tables {
		fmt.Printf("  Truncating table: %s\n", table)
		if err := tx.Exec(fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", table)).Error; err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to truncate table %s: %w", table, err)
		}
	}

	if err := tx.Exec("SET CONSTRAINTS ALL IMMEDIATE").Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to restore constraints: %w", err)
	}

	return tx.Commit().Error
}

func (s *Seeder) SeedAll() error {
	ctx := context.Background()

	if err := s.SeedUsers(); err != nil {
		return fmt.Errorf("failed to seed users: %w", err)
	}

	genres, languages, err := s.SeedTaxonomy()
	if err != nil {
		return fmt.Errorf("failed to seed genres and languages: %w", err)
	}

	movieIDs, err := s.SeedMovies(genres, languages)
	if err != nil {
		return fmt.Errorf("failed to seed movies: %w", err)
	}

	theaterIDs, err := s.SeedTheaters(movieIDs)
	if err != nil {
		return fmt.Errorf("failed to seed theaters: %w", err)
	}

	if err := s.SeedSeats(ctx, theaterIDs); err != nil {
		return fmt.Errorf("failed to seed seats: %w", err)
	}

	// Drop any stale cached reads from previous runs.
	if s.db.Redis != nil {
		if err := s.db.Redis.FlushDB(ctx).Err(); err != nil {
			log.Printf("Warning: failed to clear Redis cache: %v", err)
		}
	}

	return nil
}

// SeedUsers creates one admin and two regular users, password "qwerty".
func (s *Seeder) SeedUsers() error {
	fmt.Println("  👤 Seeding users...")

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("qwerty"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	seedUsers := []users.User{
		{FirstName: "Admin", LastName: "User", Email: "admin@bookmyseat.com", Password: string(hashedPassword), Role: users.RoleAdmin},
		{FirstName: "Alice", LastName: "Sharma", Email: "alice@example.com", Password: string(hashedPassword), Role: users.RoleUser},
		{FirstName: "Bob", LastName: "Verma", Email: "bob@example.com", Password: string(hashedPassword), Role: users.RoleUser},
	}

	for i := range seedUsers {
		if err := s.db.PostgreSQL.Create(&seedUsers[i]).Error; err != nil {
			return err
		}
		fmt.Printf("    Created %s (%s)\n", seedUsers[i].Email, seedUsers[i].Role)
	}

	return nil
}

func (s *Seeder) SeedTaxonomy() (map[string]uuid.UUID, map[string]uuid.UUID, error) {
	fmt.Println("  🏷️  Seeding genres and languages...")

	genres := make(map[string]uuid.UUID)
	for _, name := range []string{"Action", "Drama", "Comedy", "Sci-Fi", "Thriller"} {
		genre := catalog.Genre{Name: name}
		if err := s.db.PostgreSQL.Create(&genre).Error; err != nil {
			return nil, nil, err
		}
		genres[name] = genre.ID
	}

	languages := make(map[string]uuid.UUID)
	for _, name := range []string{"English", "Hindi", "Tamil"} {
		language := catalog.Language{Name: name}
		if err := s.db.PostgreSQL.Create(&language).Error; err != nil {
			return nil, nil, err
		}
		languages[name] = language.ID
	}

	return genres, languages, nil
}

func (s *Seeder) SeedMovies(genres, languages map[string]uuid.UUID) ([]uuid.UUID, error) {
	fmt.Println("  🎬 Seeding movies...")

	ref := func(m map[string]uuid.UUID, key string) *uuid.UUID {
		id := m[key]
		return &id
	}

	seedMovies := []catalog.Movie{
		{
			Name:        "Inception",
			Rating:      8.8,
			GenreID:     ref(genres, "Sci-Fi"),
			LanguageID:  ref(languages, "English"),
			Cast:        "Leonardo DiCaprio, Joseph Gordon-Levitt, Elliot Page",
			Description: "A thief who steals corporate secrets through dream-sharing technology.",
			TrailerURL:  "https://www.youtube.com/watch?v=YoHD9XEInc0",
		},
		{
			Name:        "3 Idiots",
			Rating:      8.4,
			GenreID:     ref(genres, "Comedy"),
			LanguageID:  ref(languages, "Hindi"),
			Cast:        "Aamir Khan, R. Madhavan, Sharman Joshi",
			Description: "Two friends search for their long-lost college companion.",
			TrailerURL:  "https://www.youtube.com/watch?v=K0eDlFX9GMc",
		},
		{
			Name:        "The Dark Knight",
			Rating:      9.0,
			GenreID:     ref(genres, "Action"),
			LanguageID:  ref(languages, "English"),
			Cast:        "Christian Bale, Heath Ledger, Aaron Eckhart",
			Description: "Batman faces the Joker, a criminal mastermind bent on chaos.",
			TrailerURL:  "https://www.youtube.com/watch?v=EXeTwQWrcwY",
		},
		{
			Name:        "Vikram",
			Rating:      8.3,
			GenreID:     ref(genres, "Thriller"),
			LanguageID:  ref(languages, "Tamil"),
			Cast:        "Kamal Haasan, Vijay Sethupathi, Fahadh Faasil",
			Description: "A special agent investigates a masked vigilante squad.",
			TrailerURL:  "https://www.youtube.com/watch?v=OKBMCL-frPU",
		},
		{
			Name:        "12th Fail",
			Rating:      8.9,
			GenreID:     ref(genres, "Drama"),
			LanguageID:  ref(languages, "Hindi"),
			Cast:        "Vikrant Massey, Medha Shankar",
			Description: "The real-life struggle of an aspirant who refused to give up.",
			TrailerURL:  "https://www.youtube.com/watch?v=WeMPUAzfwp0",
		},
	}

	ids := make([]uuid.UUID, 0, len(seedMovies))
	for i := range seedMovies {
		if err := s.db.PostgreSQL.Create(&seedMovies[i]).Error; err != nil {
			return nil, err
		}
		ids = append(ids, seedMovies[i].ID)
		fmt.Printf("    Created movie: %s\n", seedMovies[i].Name)
	}

	return ids, nil
}

func (s *Seeder) SeedTheaters(movieIDs []uuid.UUID) ([]uuid.UUID, error) {
	fmt.Println("  🏛️  Seeding theaters...")

	names := []string{"PVR Phoenix", "INOX Garuda", "Cinepolis Forum"}
	showOffsets := []time.Duration{18 * time.Hour, 21 * time.Hour, 42 * time.Hour}

	var ids []uuid.UUID
	for _, movieID := range movieIDs {
		for i, name := range names {
			theater := catalog.Theater{
				Name:     name,
				MovieID:  movieID,
				ShowTime: time.Now().Add(showOffsets[i]).Truncate(time.Minute),
			}
			if err := s.db.PostgreSQL.Create(&theater).Error; err != nil {
				return nil, err
			}
			ids = append(ids, theater.ID)
		}
	}

	fmt.Printf("    Created %d showings\n", len(ids))
	return ids, nil
}

// SeedSeats lays out an 8x10 grid per showing.
func (s *Seeder) SeedSeats(ctx context.Context, theaterIDs []uuid.UUID) error {
	fmt.Println("  💺 Seeding seat grids...")

	ledger := seats.NewLedger(seats.NewRepository(s.db.PostgreSQL))
	for _, theaterID := range theaterIDs {
		if _, err := ledger.GenerateSeats(ctx, theaterID, 8, 10); err != nil {
			return err
		}
	}

	fmt.Printf("    Created %d seats\n", len(theaterIDs)*8*10)
	return nil
}
