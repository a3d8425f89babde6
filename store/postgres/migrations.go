package postgres

import (
	"context"

	"github.com/xraph/grove/migrate"
)

// Migrations is the grove migration group for the Costify store.
var Migrations = migrate.NewGroup("costify")

func init() {
	Migrations.MustRegister(
		&migrate.Migration{
			Name:    "create_costify_ingredients",
			Version: "20250101000001",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS costify_ingredients (
    id             TEXT PRIMARY KEY,
    name           TEXT NOT NULL,
    price_per_unit TEXT NOT NULL,
    unit           TEXT NOT NULL,
    created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_costify_ingredients_name ON costify_ingredients (name);
CREATE INDEX IF NOT EXISTS idx_costify_ingredients_created ON costify_ingredients (created_at);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS costify_ingredients`)
				return err
			},
		},
		&migrate.Migration{
			Name:    "create_costify_recipes",
			Version: "20250101000002",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS costify_recipes (
    id         TEXT PRIMARY KEY,
    name       TEXT NOT NULL,
    total_cost TEXT NOT NULL DEFAULT '0',
    lines      JSONB NOT NULL DEFAULT '[]',
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_costify_recipes_name ON costify_recipes (name);
CREATE INDEX IF NOT EXISTS idx_costify_recipes_created ON costify_recipes (created_at);
CREATE INDEX IF NOT EXISTS idx_costify_recipes_lines ON costify_recipes USING GIN (lines jsonb_path_ops);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS costify_recipes`)
				return err
			},
		},
	)
}
