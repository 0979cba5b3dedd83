package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

type ctxKey string

const dbKey ctxKey = "seed-db"

func newDBURLFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "db-url",
		Usage:    "Database connection string",
		Required: true,
		EnvVars:  []string{"DATABASE_URL"},
	}
}

func newDataDirFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "data-dir",
		Usage:   "Directory containing snapshot CSV fixtures",
		Value:   "./data/seeds",
		EnvVars: []string{"SEED_DATA_DIR"},
	}
}

func initDB(c *cli.Context) error {
	db, err := sql.Open("pgx", c.String("db-url"))
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	c.Context = context.WithValue(c.Context, dbKey, db)
	return nil
}

func closeDB(c *cli.Context) error {
	if db, ok := c.Context.Value(dbKey).(*sql.DB); ok && db != nil {
		return db.Close()
	}
	return nil
}

func dbFromContext(c *cli.Context) (*sql.DB, error) {
	db, ok := c.Context.Value(dbKey).(*sql.DB)
	if !ok || db == nil {
		return nil, fmt.Errorf("database connection not found in context")
	}
	return db, nil
}

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("warning: could not load .env file: %v", err)
	}

	app := &cli.App{
		Name:  "seed",
		Usage: "Seed the database with snapshot fixture data",
		Commands: []*cli.Command{
			{
				Name:  "fixtures",
				Usage: "Download snapshot CSV fixtures from object storage",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "fixture-prefix",
						Usage:   "Object key prefix for snapshot fixtures",
						Value:   "snapshots",
						EnvVars: []string{"FIXTURE_PREFIX"},
					},
					&cli.StringFlag{
						Name:    "download-dir",
						Usage:   "Local directory to download fixtures into",
						Value:   "./data/seeds",
						EnvVars: []string{"FIXTURE_DOWNLOAD_DIR"},
					},
				},
				Action: runFixtureDownload,
			},
			{
				Name:  "master",
				Usage: "Seed master data (stores, family codes, SKU mappings, manual hero picks)",
				Flags: []cli.Flag{
					newDBURLFlag(),
					newDataDirFlag(),
				},
				Before: initDB,
				After:  closeDB,
				Action: runMasterSeeder,
			},
			{
				Name:  "facts",
				Usage: "Seed snapshot fact data (revenue, SKU summaries, inventory, demand, orders)",
				Flags: []cli.Flag{
					newDBURLFlag(),
					newDataDirFlag(),
					&cli.BoolFlag{
						Name:  "reset-facts",
						Usage: "Truncate fact tables before seeding",
						Value: false,
					},
				},
				Before: initDB,
				After:  closeDB,
				Action: runFactSeeder,
			},
			{
				Name:  "all",
				Usage: "Seed both master data and snapshot facts",
				Flags: []cli.Flag{
					newDBURLFlag(),
					newDataDirFlag(),
				},
				Before: initDB,
				After:  closeDB,
				Action: func(c *cli.Context) error {
					if err := runMasterSeeder(c); err != nil {
						return fmt.Errorf("error running master seed: %w", err)
					}
					if err := runFactSeeder(c); err != nil {
						return fmt.Errorf("error running fact seed: %w", err)
					}
					return nil
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
