package main

import (
	"context"
	"database/sql"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"

	"github.com/urfave/cli/v2"
)

// nullIfEmpty returns NULL if the string is empty, otherwise returns the string
func nullIfEmpty(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func runMasterSeeder(c *cli.Context) error {
	db, err := dbFromContext(c)
	if err != nil {
		return err
	}

	dataDir := c.String("data-dir")
	ctx := context.Background()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	log.Println("Starting master data seeding...")

	if err := seedStores(ctx, tx, dataDir); err != nil {
		return fmt.Errorf("failed to seed stores: %w", err)
	}
	if err := seedFamilyCodes(ctx, tx, dataDir); err != nil {
		return fmt.Errorf("failed to seed family codes: %w", err)
	}
	if err := seedSkuMappings(ctx, tx, dataDir); err != nil {
		return fmt.Errorf("failed to seed sku mappings: %w", err)
	}
	if err := seedManualHeroPicks(ctx, tx, dataDir); err != nil {
		return fmt.Errorf("failed to seed manual hero picks: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.Println("Master data seeding completed successfully!")
	return nil
}

func runFactSeeder(c *cli.Context) error {
	db, err := dbFromContext(c)
	if err != nil {
		return err
	}

	dataDir := c.String("data-dir")
	ctx := context.Background()

	if c.Bool("reset-facts") {
		log.Println("Resetting fact tables...")
		resetQuery := `
			TRUNCATE TABLE daily_revenue_facts RESTART IDENTITY CASCADE;
			TRUNCATE TABLE sku_financial_summaries RESTART IDENTITY CASCADE;
			TRUNCATE TABLE inventory_positions RESTART IDENTITY CASCADE;
			TRUNCATE TABLE demand_signals RESTART IDENTITY CASCADE;
			TRUNCATE TABLE order_line_items RESTART IDENTITY CASCADE;
			TRUNCATE TABLE orders RESTART IDENTITY CASCADE;
		`
		if _, err := db.ExecContext(ctx, resetQuery); err != nil {
			return fmt.Errorf("failed to reset fact tables: %w", err)
		}
		log.Println("Fact tables reset successfully")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	log.Println("Starting fact seeding...")

	if err := seedDailyRevenue(ctx, tx, dataDir); err != nil {
		return fmt.Errorf("failed to seed daily revenue: %w", err)
	}
	if err := seedSkuSummaries(ctx, tx, dataDir); err != nil {
		return fmt.Errorf("failed to seed sku summaries: %w", err)
	}
	if err := seedInventory(ctx, tx, dataDir); err != nil {
		return fmt.Errorf("failed to seed inventory positions: %w", err)
	}
	if err := seedDemandSignals(ctx, tx, dataDir); err != nil {
		return fmt.Errorf("failed to seed demand signals: %w", err)
	}
	if err := seedOrders(ctx, tx, dataDir); err != nil {
		return fmt.Errorf("failed to seed orders: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.Println("Fact seeding completed successfully!")
	return nil
}

func seedStores(ctx context.Context, tx *sql.Tx, dataDir string) error {
	const query = `
		INSERT INTO stores (original_id, name)
		VALUES ($1, $2)
		ON CONFLICT (original_id) DO UPDATE SET
			name = EXCLUDED.name,
			updated_at = NOW()
	`

	return forEachRecord(filepath.Join(dataDir, "stores.csv"), 2, func(record []string) error {
		_, err := tx.ExecContext(ctx, query, record[0], record[1])
		return err
	})
}

func seedFamilyCodes(ctx context.Context, tx *sql.Tx, dataDir string) error {
	const query = `
		INSERT INTO family_codes (store_id, code, name, is_manual_hero)
		SELECT s.id, $2, $3, $4
		FROM stores s
		WHERE s.original_id = $1
		ON CONFLICT (store_id, code) DO UPDATE SET
			name = EXCLUDED.name,
			is_manual_hero = EXCLUDED.is_manual_hero,
			updated_at = NOW()
	`

	return forEachRecord(filepath.Join(dataDir, "family_codes.csv"), 4, func(record []string) error {
		isHero, err := strconv.ParseBool(record[3])
		if err != nil {
			return fmt.Errorf("invalid is_manual_hero for code %s: %w", record[1], err)
		}
		_, err = tx.ExecContext(ctx, query, record[0], record[1], record[2], isHero)
		return err
	})
}

func seedSkuMappings(ctx context.Context, tx *sql.Tx, dataDir string) error {
	const query = `
		INSERT INTO sku_fc_mappings (fc_id, sku)
		SELECT fc.id, $3
		FROM family_codes fc
		JOIN stores s ON s.id = fc.store_id
		WHERE s.original_id = $1 AND fc.code = $2
		ON CONFLICT (fc_id, sku) DO NOTHING
	`

	return forEachRecord(filepath.Join(dataDir, "sku_fc_mappings.csv"), 3, func(record []string) error {
		_, err := tx.ExecContext(ctx, query, record[0], record[1], record[2])
		return err
	})
}

func seedManualHeroPicks(ctx context.Context, tx *sql.Tx, dataDir string) error {
	path := filepath.Join(dataDir, "manual_hero_picks.csv")
	if _, err := os.Stat(path); os.IsNotExist(err) {
		log.Println("No manual hero picks fixture, skipping")
		return nil
	}

	const query = `
		INSERT INTO manual_hero_picks (fc_id)
		SELECT fc.id
		FROM family_codes fc
		JOIN stores s ON s.id = fc.store_id
		WHERE s.original_id = $1 AND fc.code = $2
		ON CONFLICT (fc_id) DO NOTHING
	`

	return forEachRecord(path, 2, func(record []string) error {
		_, err := tx.ExecContext(ctx, query, record[0], record[1])
		return err
	})
}

func seedDailyRevenue(ctx context.Context, tx *sql.Tx, dataDir string) error {
	const query = `
		INSERT INTO daily_revenue_facts (store_id, date, revenue)
		SELECT s.id, $2::date, $3::numeric
		FROM stores s
		WHERE s.original_id = $1
		ON CONFLICT (store_id, date) DO UPDATE SET
			revenue = EXCLUDED.revenue
	`

	return forEachRecord(filepath.Join(dataDir, "daily_revenue.csv"), 3, func(record []string) error {
		_, err := tx.ExecContext(ctx, query, record[0], record[1], record[2])
		return err
	})
}

func seedSkuSummaries(ctx context.Context, tx *sql.Tx, dataDir string) error {
	const query = `
		INSERT INTO sku_financial_summaries (
			store_id, sku, category, revenue, quantity_sold, cogs,
			gross_profit, avg_unit_price, avg_unit_cogs
		)
		SELECT s.id, $2, $3, $4::numeric, $5::int, $6::numeric,
		       $7::numeric, $8::numeric, $9::numeric
		FROM stores s
		WHERE s.original_id = $1
		ON CONFLICT (store_id, sku) DO UPDATE SET
			category = EXCLUDED.category,
			revenue = EXCLUDED.revenue,
			quantity_sold = EXCLUDED.quantity_sold,
			cogs = EXCLUDED.cogs,
			gross_profit = EXCLUDED.gross_profit,
			avg_unit_price = EXCLUDED.avg_unit_price,
			avg_unit_cogs = EXCLUDED.avg_unit_cogs
	`

	return forEachRecord(filepath.Join(dataDir, "sku_summaries.csv"), 9, func(record []string) error {
		args := make([]interface{}, len(record))
		for i, v := range record {
			args[i] = v
		}
		// category may legitimately be blank
		args[2] = nullIfEmpty(record[2])
		_, err := tx.ExecContext(ctx, query, args...)
		return err
	})
}

func seedInventory(ctx context.Context, tx *sql.Tx, dataDir string) error {
	const query = `
		INSERT INTO inventory_positions (fc_id, on_hand)
		SELECT fc.id, $3::int
		FROM family_codes fc
		JOIN stores s ON s.id = fc.store_id
		WHERE s.original_id = $1 AND fc.code = $2
		ON CONFLICT (fc_id) DO UPDATE SET
			on_hand = EXCLUDED.on_hand
	`

	return forEachRecord(filepath.Join(dataDir, "inventory.csv"), 3, func(record []string) error {
		_, err := tx.ExecContext(ctx, query, record[0], record[1], record[2])
		return err
	})
}

func seedDemandSignals(ctx context.Context, tx *sql.Tx, dataDir string) error {
	const query = `
		INSERT INTO demand_signals (fc_id, avg_daily_sales, avg_7day_sales, trend)
		SELECT fc.id, $3::numeric, $4::numeric, $5
		FROM family_codes fc
		JOIN stores s ON s.id = fc.store_id
		WHERE s.original_id = $1 AND fc.code = $2
		ON CONFLICT (fc_id) DO UPDATE SET
			avg_daily_sales = EXCLUDED.avg_daily_sales,
			avg_7day_sales = EXCLUDED.avg_7day_sales,
			trend = EXCLUDED.trend
	`

	return forEachRecord(filepath.Join(dataDir, "demand.csv"), 5, func(record []string) error {
		_, err := tx.ExecContext(ctx, query,
			record[0], record[1], record[2], record[3], nullIfEmpty(record[4]))
		return err
	})
}

func seedOrders(ctx context.Context, tx *sql.Tx, dataDir string) error {
	const orderQuery = `
		INSERT INTO orders (store_id, order_ref, ordered_at)
		SELECT s.id, $2, $3::timestamptz
		FROM stores s
		WHERE s.original_id = $1
		ON CONFLICT (store_id, order_ref) DO UPDATE SET
			ordered_at = EXCLUDED.ordered_at
	`

	if err := forEachRecord(filepath.Join(dataDir, "orders.csv"), 3, func(record []string) error {
		_, err := tx.ExecContext(ctx, orderQuery, record[0], record[1], record[2])
		return err
	}); err != nil {
		return err
	}

	const lineQuery = `
		INSERT INTO order_line_items (order_id, sku, quantity)
		SELECT o.id, $3, $4::int
		FROM orders o
		JOIN stores s ON s.id = o.store_id
		WHERE s.original_id = $1 AND o.order_ref = $2
		ON CONFLICT (order_id, sku) DO UPDATE SET
			quantity = EXCLUDED.quantity
	`

	return forEachRecord(filepath.Join(dataDir, "order_lines.csv"), 4, func(record []string) error {
		_, err := tx.ExecContext(ctx, lineQuery, record[0], record[1], record[2], record[3])
		return err
	})
}

// forEachRecord streams a headered CSV file and applies fn to every row.
func forEachRecord(filePath string, minColumns int, fn func(record []string) error) error {
	log.Printf("Seeding from %s\n", filePath)

	file, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("failed to open file %s: %w", filePath, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	// Skip header
	if _, err := reader.Read(); err != nil {
		return fmt.Errorf("failed to read CSV header: %w", err)
	}

	rowCount := 0
	for {
		record, err := reader.Read()
		if err != nil {
			if err == io.EOF {
				break
			}
			return fmt.Errorf("failed to read CSV record: %w", err)
		}

		if len(record) < minColumns {
			return fmt.Errorf("invalid record (expected at least %d columns): %v", minColumns, record)
		}

		if err := fn(record); err != nil {
			return fmt.Errorf("failed to process record %v: %w", record, err)
		}
		rowCount++
	}

	log.Printf("Successfully seeded %d rows from %s\n", rowCount, filepath.Base(filePath))
	return nil
}
