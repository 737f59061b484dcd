package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/pradiptar/leave-management/internal/auth"
	"github.com/pradiptar/leave-management/internal/identity"
	"github.com/pradiptar/leave-management/internal/user"
	userPostgres "github.com/pradiptar/leave-management/internal/user/postgres"
	"github.com/pradiptar/leave-management/pkg/logger"
	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with a sample employee and manager for development.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		db, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		defer db.Close()

		gormDB, err := initGorm(db)
		if err != nil {
			log.Fatalf("failed to init gorm: %v", err)
		}

		directory := user.NewService(
			userPostgres.NewUserRepository(gormDB),
			identity.NewSequencer(gormDB),
			auth.NewBcryptHasher(cfg.Security.BCryptCost),
			logger.LoggerWrapper(),
		)

		ctx := context.Background()
		samples := []user.CreateUserParams{
			{Name: "Asha", Email: "asha@example.com", Department: "Engineering", Password: "password", Role: user.RoleEmployee},
			{Name: "Raj", Email: "raj@example.com", Department: "Engineering", Password: "password", Role: user.RoleManager},
		}

		for _, params := range samples {
			u, err := directory.Create(ctx, params)
			if err != nil {
				if errors.Is(err, user.ErrDuplicateEmail) {
					fmt.Printf("user %s already exists, skipping\n", params.Email)
					continue
				}
				log.Fatalf("failed to seed user %s: %v", params.Email, err)
			}
			fmt.Printf("seeded %s user %s (%s)\n", u.Role, u.Email, u.RoleID)
		}
	},
}
