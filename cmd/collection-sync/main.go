package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"artmarket.backoffice/internal/config"
	"artmarket.backoffice/internal/domain/entities"
	"artmarket.backoffice/internal/infrastructure/blockchain"
	"artmarket.backoffice/internal/infrastructure/datasources/postgres"
	"artmarket.backoffice/internal/infrastructure/repositories"
	"artmarket.backoffice/internal/usecases"
	"artmarket.backoffice/pkg/logger"
)

type collectionSyncer interface {
	SyncCollection(ctx context.Context, id int64) *entities.SyncCollectionResult
	SyncPendingCollections(ctx context.Context, limit int) ([]*entities.SyncCollectionResult, error)
}

var (
	loadDotenv = godotenv.Load
	loadCfg    = config.Load
	initLog    = logger.Init

	// buildSyncer wires the reconciler against postgres and the configured RPC endpoints
	buildSyncer = func(cfg *config.Config) (collectionSyncer, func(), error) {
		db, err := postgres.NewConnection(cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		factory := blockchain.NewClientFactory(cfg.Blockchain)
		uc := usecases.NewCollectionUsecase(
			repositories.NewCollectionRepository(db),
			repositories.NewSmartContractRepository(db),
			repositories.NewUnitOfWork(db),
			factory,
		)
		cleanup := func() {
			factory.Close()
			if sqlDB, err := db.DB(); err == nil {
				_ = sqlDB.Close()
			}
		}
		return uc, cleanup, nil
	}
)

var limit int

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "collection-sync",
		Short:         "Reconcile collections with their deployment transactions",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	syncCmd := &cobra.Command{
		Use:   "sync <collection-id>",
		Short: "Reconcile one collection",
		Args:  cobra.ExactArgs(1),
		RunE:  runSync,
	}

	pendingCmd := &cobra.Command{
		Use:   "pending",
		Short: "Reconcile every pending collection that has a transaction hash",
		Args:  cobra.NoArgs,
		RunE:  runPending,
	}
	pendingCmd.Flags().IntVar(&limit, "limit", usecases.DefaultSyncBatchSize, "maximum number of collections to reconcile")

	root.AddCommand(syncCmd, pendingCmd)
	return root
}

func setup(cmd *cobra.Command) (collectionSyncer, func(), error) {
	dotenvErr := loadDotenv()
	cfg := loadCfg()
	initLog(cfg.Server.Env)
	if dotenvErr != nil {
		logger.Debug(cmd.Context(), "No .env file found, using environment variables")
	}

	syncer, cleanup, err := buildSyncer(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize: %w", err)
	}
	return syncer, cleanup, nil
}

func runSync(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return fmt.Errorf("invalid collection id %q", args[0])
	}

	syncer, cleanup, err := setup(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	result := syncer.SyncCollection(cmd.Context(), id)
	if err := printJSON(cmd, result); err != nil {
		return err
	}
	if !result.Success {
		return fmt.Errorf("collection %d: %s", id, result.Message)
	}
	return nil
}

func runPending(cmd *cobra.Command, _ []string) error {
	if limit < 0 {
		return fmt.Errorf("invalid limit %d", limit)
	}

	syncer, cleanup, err := setup(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	results, err := syncer.SyncPendingCollections(cmd.Context(), limit)
	if err != nil {
		logger.Error(cmd.Context(), "Pending collection sync failed", zap.Error(err))
		return err
	}

	updated := 0
	for _, r := range results {
		if r.Updated {
			updated++
		}
	}
	logger.Info(cmd.Context(), "Pending collections synced", zap.Int("total", len(results)), zap.Int("updated", updated))

	return printJSON(cmd, map[string]interface{}{
		"results": results,
		"total":   len(results),
		"updated": updated,
	})
}

func printJSON(cmd *cobra.Command, v interface{}) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
