package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rabeeb-commits/spring-dental-clinic-sub001/cmd/bootstrap"
	"github.com/rabeeb-commits/spring-dental-clinic-sub001/config"
	"github.com/rabeeb-commits/spring-dental-clinic-sub001/internal/delivery/dto"
	"github.com/rabeeb-commits/spring-dental-clinic-sub001/internal/domain/entity"
	"github.com/rabeeb-commits/spring-dental-clinic-sub001/internal/infrastructure/database"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var envFile string

	root := &cobra.Command{
		Use:           "dentalclinic",
		Short:         "Dental clinic appointment scheduling API",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(envFile)
		},
	}
	root.PersistentFlags().StringVar(&envFile, "env", ".env", "path to the env file")

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Start the HTTP API",
			RunE: func(cmd *cobra.Command, args []string) error {
				return serve(envFile)
			},
		},
		newMigrateCommand(&envFile),
		newCreateAdminCommand(&envFile),
	)

	return root
}

func serve(envFile string) error {
	// Initialize application with all dependencies
	app, err := bootstrap.New(context.Background(), envFile)
	if err != nil {
		logrus.Errorf("Failed to initialize application: %v", err)
		return err
	}

	// Run the application
	return app.Run()
}

func newMigrateCommand(envFile *string) *cobra.Command {
	return &cobra.Command{
		Use:       "migrate [up|down]",
		Short:     "Apply or roll back the database schema",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{database.MigrateUp, database.MigrateDown},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(*envFile)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			log := bootstrap.SetupLogger(cfg.App)
			if err := database.RunMigrations(cfg.DB, args[0], log); err != nil {
				log.Errorf("Failed to run migrations: %v", err)
				return err
			}
			return nil
		},
	}
}

func newCreateAdminCommand(envFile *string) *cobra.Command {
	req := &dto.CreateStaffRequest{Role: entity.RoleAdmin}

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an administrator account",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			app, err := bootstrap.New(ctx, *envFile)
			if err != nil {
				logrus.Errorf("Failed to initialize application: %v", err)
				return err
			}
			defer app.Close()

			if err := app.Validator.Validate(req); err != nil {
				return fmt.Errorf("invalid admin account: %v", app.Validator.FormatValidationErrors(err))
			}

			user, err := app.AuthUsecase.CreateStaff(ctx, req)
			if err != nil {
				logrus.Errorf("Failed to create admin: %v", err)
				return err
			}
			logrus.WithField("user_id", user.ID).Infof("Admin %s created", user.Email)
			return nil
		},
	}

	cmd.Flags().StringVar(&req.Email, "email", "", "admin email")
	cmd.Flags().StringVar(&req.Password, "password", "", "admin password")
	cmd.Flags().StringVar(&req.FirstName, "first-name", "", "admin first name")
	cmd.Flags().StringVar(&req.LastName, "last-name", "", "admin last name")
	cmd.MarkFlagRequired("email")
	cmd.MarkFlagRequired("password")
	cmd.MarkFlagRequired("first-name")
	cmd.MarkFlagRequired("last-name")

	return cmd
}
