package main

import (
	"context"
	"fmt"
	"os"

	"neuropharm-backend/cmd/bootstrap"
	"neuropharm-backend/internal/delivery/dto"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "neuropharm",
		Short: "NeuroPharm pharmacogenomics API",
		Run: func(cmd *cobra.Command, args []string) {
			serve()
		},
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(createAdminCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serve() {
	// Initialize application with all dependencies
	app, err := bootstrap.New()
	if err != nil {
		logrus.Fatalf("Failed to initialize application: %v", err)
	}

	app.Run()
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		Run: func(cmd *cobra.Command, args []string) {
			serve()
		},
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := bootstrap.Migrate(); err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
			return nil
		},
	}
}

func createAdminCmd() *cobra.Command {
	req := &dto.CreateDoctorRequest{}

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an admin account",
		RunE: func(cmd *cobra.Command, args []string) error {
			admin, err := bootstrap.CreateAdmin(context.Background(), req)
			if err != nil {
				return err
			}

			fmt.Printf("Admin %s created with id %s\n", admin.Email, admin.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&req.Email, "email", "", "Admin email")
	cmd.Flags().StringVar(&req.Password, "password", "", "Admin password")
	cmd.Flags().StringVar(&req.FullName, "full-name", "Admin", "Admin first name")
	cmd.Flags().StringVar(&req.LastName, "last-name", "", "Admin last name")
	cmd.MarkFlagRequired("email")
	cmd.MarkFlagRequired("password")

	return cmd
}
