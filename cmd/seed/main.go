package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/wms-platform/warehouse-ops/internal/bootstrap"
	"github.com/wms-platform/warehouse-ops/internal/config"
	"github.com/wms-platform/warehouse-ops/internal/domain"
	"github.com/wms-platform/warehouse-ops/internal/fixtures"
	"github.com/wms-platform/warehouse-ops/pkg/logging"
	"github.com/wms-platform/warehouse-ops/pkg/metrics"
)

func main() {
	if err := newRootCmd(viper.New(), os.Stdout).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(v *viper.Viper, out io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:          "seed",
		Short:        "Load warehouse fixtures and operator accounts",
		SilenceUsage: true,
	}
	root.PersistentPreRunE = func(*cobra.Command, []string) error {
		if file := v.GetString("config"); file != "" {
			v.SetConfigFile(file)
			if err := v.ReadInConfig(); err != nil {
				return fmt.Errorf("failed to read %s: %w", file, err)
			}
		}
		return nil
	}
	root.SetOut(out)

	flags := root.PersistentFlags()
	flags.String("config", "", "YAML file with storage settings")
	flags.String("storage-driver", "", "mongodb or memory (default from STORAGE_DRIVER)")
	flags.String("mongodb-uri", "", "MongoDB connection string (default from MONGODB_URI)")
	flags.String("mongodb-database", "", "MongoDB database (default from MONGODB_DATABASE)")
	for _, name := range []string{"config", "storage-driver", "mongodb-uri", "mongodb-database"} {
		_ = v.BindPFlag(name, flags.Lookup(name))
	}
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	root.AddCommand(newFixturesCmd(v), newUserCmd(v))
	return root
}

func newFixturesCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fixtures",
		Short: "Seed orders, tasks, returns, cycle counts, users and dashboards",
		RunE: func(cmd *cobra.Command, _ []string) error {
			now := time.Now()
			if ref := v.GetString("reference-time"); ref != "" {
				parsed, err := time.Parse(time.RFC3339, ref)
				if err != nil {
					return fmt.Errorf("invalid --reference-time: %w", err)
				}
				now = parsed
			}

			return withStorage(cmd.Context(), v, func(ctx context.Context, storage *bootstrap.Storage, logger *logging.Logger) error {
				res, err := fixtures.Seed(ctx, storage.FixtureStores(), fixtures.NewBuilder(now), logger)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "created %d, skipped %d\n", res.Created, res.Skipped)
				return nil
			})
		},
	}
	cmd.Flags().String("reference-time", "", "RFC 3339 time the fixture dates are relative to")
	_ = v.BindPFlag("reference-time", cmd.Flags().Lookup("reference-time"))
	return cmd
}

func newUserCmd(v *viper.Viper) *cobra.Command {
	var username, password, displayName, role string

	cmd := &cobra.Command{
		Use:   "user",
		Short: "Create or reset an operator account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			r := domain.Role(role)
			switch r {
			case domain.RoleAdmin, domain.RoleWarehouseManager, domain.RoleWarehouseStaff:
			default:
				return fmt.Errorf("unknown role %q", role)
			}
			if displayName == "" {
				displayName = username
			}

			return withStorage(cmd.Context(), v, func(ctx context.Context, storage *bootstrap.Storage, _ *logging.Logger) error {
				user, err := fixtures.NewBuilder(time.Now()).User(username, password, displayName, r)
				if err != nil {
					return err
				}
				if err := storage.Users.Save(ctx, user); err != nil {
					return fmt.Errorf("failed to save user: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "saved user %s (%s)\n", user.Username, user.Role)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&username, "username", "", "login name")
	cmd.Flags().StringVar(&password, "password", "", "plain text password, stored as a bcrypt hash")
	cmd.Flags().StringVar(&displayName, "display-name", "", "name shown in the UI")
	cmd.Flags().StringVar(&role, "role", string(domain.RoleWarehouseStaff), "admin, warehouse_manager or warehouse_staff")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

// withStorage opens the configured storage for the duration of fn
func withStorage(ctx context.Context, v *viper.Viper, fn func(context.Context, *bootstrap.Storage, *logging.Logger) error) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := storageConfig(v)
	if err != nil {
		return err
	}

	logConfig := logging.DefaultConfig(cfg.ServiceName + "-seed")
	logConfig.Level = cfg.LogLevel
	logConfig.Output = os.Stderr
	logger := logging.New(logConfig)

	storage, err := bootstrap.OpenStorage(ctx, cfg, logger, metrics.New(metrics.DefaultConfig(cfg.ServiceName+"-seed")))
	if err != nil {
		return err
	}
	defer storage.Close(context.Background())

	return fn(ctx, storage, logger)
}

// storageConfig reads the environment and applies flag and file overrides.
// Seeding never issues tokens, so auth is switched off.
func storageConfig(v *viper.Viper) (*config.Config, error) {
	cfg := config.Read()
	cfg.AuthEnabled = false

	if driver := v.GetString("storage-driver"); driver != "" {
		cfg.StorageDriver = driver
	}
	if uri := v.GetString("mongodb-uri"); uri != "" {
		cfg.MongoDB.URI = uri
	}
	if db := v.GetString("mongodb-database"); db != "" {
		cfg.MongoDB.Database = db
	}
	return cfg, cfg.Validate()
}
