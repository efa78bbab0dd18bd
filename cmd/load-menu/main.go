// CLI tool to load a fast-food nutrition table (CSV or XLSX) into restaurants
// and menu_items. Existing items are updated in place, so re-running with a
// corrected file is safe. The whole file goes in one transaction.
// Usage: go run ./cmd/load-menu fastfood.csv
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5"
	"github.com/spf13/cobra"

	"lg/fastfood-nutrition-api/internal/catalog"
	"lg/fastfood-nutrition-api/internal/config"
	"lg/fastfood-nutrition-api/internal/menuimport"
)

func main() {
	var sheet string
	cmd := &cobra.Command{
		Use:          "load-menu <file.csv|file.xlsx>",
		Short:        "Load menu nutrition data into the database",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), args[0], sheet)
		},
	}
	cmd.Flags().StringVar(&sheet, "sheet", "", "worksheet to read from an .xlsx file (default: first)")

	if err := cmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, path, sheet string) error {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	items, err := menuimport.ReadFile(path, sheet)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	if len(items) == 0 {
		fmt.Println("No menu items found.")
		return nil
	}

	conn, err := pgx.Connect(ctx, cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("unable to connect to database: %w", err)
	}
	defer conn.Close(ctx)

	var added, updated int
	err = pgx.BeginFunc(ctx, conn, func(tx pgx.Tx) error {
		for _, name := range menuimport.Restaurants(items) {
			if _, err := tx.Exec(ctx,
				"INSERT INTO restaurants (name) VALUES ($1) ON CONFLICT (name) DO NOTHING", name); err != nil {
				return fmt.Errorf("restaurant %s: %w", name, err)
			}
		}
		for _, it := range items {
			var inserted bool
			err := tx.QueryRow(ctx,
				`INSERT INTO menu_items
				   (restaurant, item, calories, cal_fat, total_fat, sat_fat, trans_fat, cholesterol,
				    sodium, total_carb, fiber, sugar, protein, vit_a, vit_c, calcium)
				 VALUES
				   (@restaurant, @item, @calories, @calFat, @totalFat, @satFat, @transFat, @cholesterol,
				    @sodium, @totalCarb, @fiber, @sugar, @protein, @vitA, @vitC, @calcium)
				 ON CONFLICT (restaurant, item) DO UPDATE SET
				   calories = EXCLUDED.calories, cal_fat = EXCLUDED.cal_fat,
				   total_fat = EXCLUDED.total_fat, sat_fat = EXCLUDED.sat_fat,
				   trans_fat = EXCLUDED.trans_fat, cholesterol = EXCLUDED.cholesterol,
				   sodium = EXCLUDED.sodium, total_carb = EXCLUDED.total_carb,
				   fiber = EXCLUDED.fiber, sugar = EXCLUDED.sugar, protein = EXCLUDED.protein,
				   vit_a = EXCLUDED.vit_a, vit_c = EXCLUDED.vit_c, calcium = EXCLUDED.calcium
				 RETURNING (xmax = 0)`,
				pgx.NamedArgs{
					"restaurant": it.Restaurant, "item": it.Item, "calories": it.Calories,
					"calFat": it.CalFat, "totalFat": it.TotalFat, "satFat": it.SatFat,
					"transFat": it.TransFat, "cholesterol": it.Cholesterol, "sodium": it.Sodium,
					"totalCarb": it.TotalCarb, "fiber": it.Fiber, "sugar": it.Sugar,
					"protein": it.Protein, "vitA": it.VitA, "vitC": it.VitC, "calcium": it.Calcium,
				}).Scan(&inserted)
			if err != nil {
				return fmt.Errorf("%s / %s: %w", it.Restaurant, it.Item, err)
			}
			if inserted {
				added++
			} else {
				updated++
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	fmt.Printf("  added:   %d\n  updated: %d\n", added, updated)

	// Drop the shared search snapshot so API instances reload from the database
	// instead of adopting the pre-import copy.
	if cfg.Redis.Address != "" {
		rdb := catalog.NewRedisClient(cfg.Redis)
		defer rdb.Close()
		if err := rdb.Del(ctx, cfg.Catalog.RedisKey).Err(); err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not clear shared search snapshot: %v\n", err)
		}
	}

	fmt.Printf("\n%d menu item(s) loaded.\n", len(items))
	return nil
}
