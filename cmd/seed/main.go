package main

import (
	"database/sql"
	"fmt"
	"log"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/stacksapp/stacks-api/config"
	"github.com/stacksapp/stacks-api/pkg/helpers"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := sql.Open("pgx", cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	password := "password123"
	hash, err := helpers.HashPassword(password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	var userID string
	err = db.QueryRow(`
		INSERT INTO users (email, password_hash, first_name, last_name)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (email) DO UPDATE SET first_name = EXCLUDED.first_name
		RETURNING id
	`, "demo@stacks.local", hash, "Demo", "User").Scan(&userID)
	if err != nil {
		log.Fatalf("failed to seed user: %v", err)
	}
	fmt.Printf("seeded user: id=%s email=demo@stacks.local password=%s\n", userID, password)

	var ownerID string
	err = db.QueryRow(`
		INSERT INTO users (email, password_hash, is_merchant)
		VALUES ($1, $2, TRUE)
		ON CONFLICT (email) DO UPDATE SET is_merchant = TRUE
		RETURNING id
	`, "cafe@stacks.local", hash).Scan(&ownerID)
	if err != nil {
		log.Fatalf("failed to seed merchant user: %v", err)
	}

	var merchantID string
	err = db.QueryRow(`
		INSERT INTO merchants (owner_id, name, category, address, phone, lat, lng)
		VALUES ($1, 'Corner Cafe', 'Food', '12 Main St', '555-0101', 40.7128, -74.0060)
		ON CONFLICT (owner_id) DO UPDATE SET name = EXCLUDED.name
		RETURNING id
	`, ownerID).Scan(&merchantID)
	if err != nil {
		log.Fatalf("failed to seed merchant: %v", err)
	}
	fmt.Printf("seeded merchant: id=%s owner=%s\n", merchantID, ownerID)

	deals := []struct {
		name, description, barcode string
	}{
		{"Free coffee with pastry", "Buy any pastry, get a drip coffee on us.", "100001"},
		{"Half-price lunch special", "Any sandwich plus soup for half price, weekdays 11-2.", "100002"},
		{"Loyalty double stamps", "Double stamps on every visit this month.", "100003"},
	}
	for _, d := range deals {
		var id string
		if err := db.QueryRow(`
			INSERT INTO deals (merchant_id, name, description, barcode)
			VALUES ($1, $2, $3, $4)
			RETURNING id
		`, merchantID, d.name, d.description, d.barcode).Scan(&id); err != nil {
			log.Fatalf("failed to seed deal %q: %v", d.name, err)
		}
		fmt.Printf("seeded deal: id=%s name=%q\n", id, d.name)
	}
}
