package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"HospitalCare/db"
	"HospitalCare/migrations"
)

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage database migrations",
	}

	up := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadEnv()
			if err != nil {
				return err
			}
			defer log.Sync()

			ctx := cmd.Context()
			mongo, err := db.Connect(ctx, cfg.Mongo)
			if err != nil {
				return err
			}
			defer mongo.Disconnect(context.Background())

			n, err := migrations.Run(ctx, mongo, log)
			if err != nil {
				return err
			}
			log.Info("migrations applied", zap.Int("count", n))
			return nil
		},
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List known migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, m := range migrations.All() {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", m.ID, m.Description)
			}
			return nil
		},
	}

	cmd.AddCommand(up, list)
	return cmd
}
