package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/preyforum/preyforum/preyforum"
	"github.com/preyforum/preyforum/preyforum/database"
	"github.com/preyforum/preyforum/preyforum/logger"
	"github.com/preyforum/preyforum/preyforum/migration"
)

var (
	configPath string
	exportPath string
	mongoURI   string
	mongoName  string
	batchSize  int
	useCopy    bool
	syncSchema bool
)

var rootCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Import the legacy forum database into Postgres",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		cfg, err := preyforum.LoadConfig(configPath)
		if err != nil {
			return err
		}

		db, err := database.New(ctx, database.DBConfig{
			Host:     cfg.DB.Host,
			Port:     cfg.DB.Port,
			User:     cfg.DB.User,
			Password: cfg.DB.Password,
			Database: cfg.DB.Database,
			PoolSize: cfg.DB.PoolSize,
		})
		if err != nil {
			slog.Error("Failed to connect to database", slog.Any("error", err))
			return err
		}
		defer db.Close()

		if syncSchema {
			if err := db.InitializeSchema(ctx); err != nil {
				slog.Error("Failed to initialize schema", slog.Any("error", err))
				return err
			}
		}

		migrator := migration.NewMigrator(db.BunDB(), exportPath)
		migrator.SetBatchSize(batchSize)
		migrator.SetUseCopy(useCopy)
		migrator.UsePool(db.GetPool())

		if mongoURI != "" {
			connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()

			client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(mongoURI))
			if err != nil {
				slog.Error("Failed to connect to mongo", slog.Any("error", err))
				return err
			}
			defer client.Disconnect(ctx)

			migrator.UseMongo(client, mongoName)
			if err := migrator.MigrateAllFromMongo(ctx); err != nil {
				slog.Error("Migration failed", slog.Any("error", err))
				return err
			}
		} else {
			if err := migrator.MigrateAll(ctx); err != nil {
				slog.Error("Migration failed", slog.Any("error", err))
				return err
			}
		}

		slog.Info("Migration completed successfully!")
		return nil
	},
}

func init() {
	rootCmd.Flags().StringVar(&configPath, "config", "config.toml", "path to the config file")
	rootCmd.Flags().StringVar(&exportPath, "export", "data/export.json", "path to the legacy JSON export")
	rootCmd.Flags().StringVar(&mongoURI, "mongo-uri", "", "read from a Mongo mirror instead of the JSON export")
	rootCmd.Flags().StringVar(&mongoName, "mongo-db", "preyforum", "mongo database name")
	rootCmd.Flags().IntVar(&batchSize, "batch-size", 1000, "insert batch size")
	rootCmd.Flags().BoolVar(&useCopy, "use-copy", false, "use COPY FROM for bulk user inserts")
	rootCmd.Flags().BoolVar(&syncSchema, "sync-db", false, "create tables before importing")
}

func main() {
	customHandler := logger.NewHandler("Preyforum-Migrate")
	slog.SetDefault(slog.New(customHandler))

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
