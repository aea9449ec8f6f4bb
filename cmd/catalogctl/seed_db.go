package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sudo-init-do/bazaar/internal/catalog"
	"github.com/sudo-init-do/bazaar/internal/catalog/seed"
	"github.com/sudo-init-do/bazaar/internal/config"
	"github.com/sudo-init-do/bazaar/internal/db"
	"github.com/sudo-init-do/bazaar/internal/logx"
)

// seedDBCmd writes the embedded catalogs into Postgres
var seedDBCmd = &cobra.Command{
	Use:   "seed-db [vertical...]",
	Short: "Replace the Postgres catalog with the embedded seeds",
	Long: `Replace the vendors and offerings of the given verticals (all of them
when none are named) with the embedded seed catalogs. Connection settings
come from the same DB_* variables as the server.`,
	RunE: runSeedDB,
}

func runSeedDB(cmd *cobra.Command, args []string) error {
	verticals := catalog.Verticals()
	if len(args) > 0 {
		verticals = verticals[:0:0]
		for _, a := range args {
			v, ok := catalog.ParseVertical(a)
			if !ok {
				return fmt.Errorf("unknown vertical %q", a)
			}
			verticals = append(verticals, v)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	db.Init(cfg.Database)
	defer db.Conn.Close()

	ctx := cmd.Context()
	for _, v := range verticals {
		vendors, err := seed.Source{}.Load(ctx, v)
		if err != nil {
			return err
		}
		if err := db.SaveVertical(ctx, db.Conn, v, vendors); err != nil {
			return err
		}
		logx.Info().Str("vertical", string(v)).Int("vendors", len(vendors)).Msg("catalog seeded")
	}
	return nil
}
