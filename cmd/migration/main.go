package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"medblock-service/internal/app/config"
	"medblock-service/internal/app/drivers/database"
	"medblock-service/internal/app/services/core/users"
	"medblock-service/internal/app/services/shared/recordstore"
	"medblock-service/internal/pkg/constvars"
	"medblock-service/internal/pkg/utils"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const commandTimeout = time.Minute

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	log, err := zap.NewProduction()
	if err != nil {
		log = zap.NewNop()
	}

	root := &cobra.Command{
		Use:           "migration",
		Short:         "Database maintenance for medblock-service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newIndexesCommand(log), newSeedAdminCommand(log))
	return root
}

func newIndexesCommand(log *zap.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "indexes",
		Short: "Create the MongoDB indexes used by the service",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
			defer cancel()

			driverConfig := config.NewDriverConfig()
			client, err := database.NewMongoDB(ctx, driverConfig)
			if err != nil {
				return err
			}
			defer client.Disconnect(context.Background())

			return utils.LogOperation(log, "ensure_indexes", func() error {
				created, err := recordstore.EnsureIndexes(ctx, client.Database(driverConfig.MongoDB.DbName))
				if err != nil {
					return err
				}
				for collection, names := range created {
					log.Info("indexes ensured",
						zap.String(constvars.LoggingCollectionKey, collection),
						zap.Strings("indexes", names),
					)
				}
				return nil
			})
		},
	}
}

func newSeedAdminCommand(log *zap.Logger) *cobra.Command {
	input := seedAdminInput{}
	cmd := &cobra.Command{
		Use:   "seed-admin",
		Short: "Create the first admin account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if input.Password == "" {
				input.Password = os.Getenv("SEED_ADMIN_PASSWORD")
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
			defer cancel()

			driverConfig := config.NewDriverConfig()
			client, err := database.NewMongoDB(ctx, driverConfig)
			if err != nil {
				return err
			}
			defer client.Disconnect(context.Background())

			repository := users.NewUserMongoRepository(recordstore.NewMongoRecordStore(client, driverConfig.MongoDB.DbName))
			return utils.LogOperation(log, "seed_admin", func() error {
				user, err := seedAdmin(ctx, repository, input, time.Now().UTC())
				if err != nil {
					return err
				}
				log.Info("admin account created",
					zap.String(constvars.LoggingAccountIDKey, user.IDHex()),
				)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&input.Email, "email", "", "admin email (required)")
	cmd.Flags().StringVar(&input.Password, "password", "", "admin password, falls back to SEED_ADMIN_PASSWORD")
	cmd.Flags().StringVar(&input.FirstName, "first-name", "System", "admin first name")
	cmd.Flags().StringVar(&input.LastName, "last-name", "Admin", "admin last name")
	cmd.Flags().StringVar(&input.PhoneNumber, "phone", "", "admin phone number")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}
