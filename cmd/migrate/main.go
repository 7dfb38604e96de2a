package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/csight/reportd/internal/db"
)

func main() {
	_ = godotenv.Load()

	down := flag.Bool("down", false, "Roll back the most recent migration")
	dbURL := flag.String("database-url", os.Getenv("DATABASE_URL"), "PostgreSQL connection string")
	flag.Parse()

	if *dbURL == "" {
		slog.Error("DATABASE_URL is required")
		os.Exit(1)
	}

	if *down {
		if err := db.Rollback(*dbURL); err != nil {
			slog.Error("rollback failed", "err", err)
			os.Exit(1)
		}
		fmt.Println("rolled back one migration")
		return
	}

	if err := db.Migrate(*dbURL); err != nil {
		slog.Error("migration failed", "err", err)
		os.Exit(1)
	}
	fmt.Println("migrations complete")
}
