package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"HospitalCare/cache"
	"HospitalCare/db"
	"HospitalCare/services"
	"HospitalCare/store"
)

func bootstrapAdminCmd() *cobra.Command {
	var in services.BootstrapAdminInput
	cmd := &cobra.Command{
		Use:   "bootstrap-admin",
		Short: "Create the first admin account if none exists",
		RunE: func(cmd *cobra.Command, args []string) error {
			if in.Password == "" {
				in.Password = os.Getenv("ADMIN_PASSWORD")
			}
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

			app, err := newApplication(cfg, mongoRepositories(store.New(mongo)), cache.Noop{}, mongo, log)
			if err != nil {
				return err
			}
			user, made, err := app.services.Auth.BootstrapAdmin(ctx, in)
			if err != nil {
				return err
			}
			if !made {
				fmt.Fprintln(cmd.OutOrStdout(), "Admin already exists")
				return nil
			}
			log.Info("admin created", zap.String("email", user.Email))
			fmt.Fprintf(cmd.OutOrStdout(), "Admin created: %s\n", user.Email)
			return nil
		},
	}
	cmd.Flags().StringVar(&in.Name, "name", "Administrator", "admin display name")
	cmd.Flags().StringVar(&in.Email, "email", "", "admin email")
	cmd.Flags().StringVar(&in.Password, "password", "", "admin password, defaults to $ADMIN_PASSWORD")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}
