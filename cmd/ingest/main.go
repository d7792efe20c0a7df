package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/vanshika/venmito/backend/internal/config"
	"github.com/vanshika/venmito/backend/internal/domain"
	"github.com/vanshika/venmito/backend/internal/graphexport"
	"github.com/vanshika/venmito/backend/internal/ingest"
	"github.com/vanshika/venmito/backend/internal/logging"
	"github.com/vanshika/venmito/backend/internal/store"
)

var errMissingSource = errors.New("source file not found")

func main() {
	var (
		datasetDir   = flag.String("dataset-dir", "./data", "Directory containing the five raw source files")
		peopleJSON   = flag.String("people-json", "", "Path to people.json (overrides dataset-dir)")
		peopleYAML   = flag.String("people-yml", "", "Path to people.yml (overrides dataset-dir)")
		transactions = flag.String("transactions", "", "Path to transactions.xml (overrides dataset-dir)")
		promotions   = flag.String("promotions", "", "Path to promotions.csv (overrides dataset-dir)")
		transfers    = flag.String("transfers", "", "Path to transfers.csv (overrides dataset-dir)")
	)
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.Logging).With("component", "ingest")

	paths, err := resolveSourcePaths(*datasetDir, map[string]string{
		"people.json":      *peopleJSON,
		"people.yml":       *peopleYAML,
		"transactions.xml": *transactions,
		"promotions.csv":   *promotions,
		"transfers.csv":    *transfers,
	})
	if err != nil {
		logger.Error("source resolution failed", "error", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	sink, err := buildStore(ctx, cfg.Store)
	if err != nil {
		logger.Error("failed to open store", "error", err, "driver", cfg.Store.Driver)
		os.Exit(1)
	}
	defer func() {
		if err := sink.Close(context.Background()); err != nil {
			logger.Warn("closing store failed", "error", err)
		}
	}()

	files, closeFiles, err := openSources(paths)
	if err != nil {
		logger.Error("failed to open sources", "error", err)
		os.Exit(1)
	}
	defer closeFiles()

	start := time.Now()
	pipeline := ingest.New(logger, sink)
	result, err := pipeline.Run(ctx, files)
	if err != nil {
		logger.Error("ingestion failed", "error", err)
		os.Exit(1)
	}

	logger.Info("batch persisted",
		"duration", time.Since(start).String(),
		"people", len(result.Dataset.People),
		"promotions", len(result.Dataset.Promotions),
		"transactionLineItems", len(result.Dataset.Transactions),
		"transfers", len(result.Dataset.Transfers),
	)
	for violation, count := range result.Report.Counts {
		logger.Warn("integrity finding", "violation", violation, "count", count)
	}

	if cfg.Graph.URI != "" {
		if err := exportGraph(ctx, logger, cfg, result.Dataset); err != nil {
			logger.Error("graph export failed", "error", err)
			os.Exit(1)
		}
	}
}

func resolveSourcePaths(baseDir string, overrides map[string]string) (map[string]string, error) {
	resolved := make(map[string]string, len(overrides))
	for name, explicit := range overrides {
		path := explicit
		if path == "" {
			path = filepath.Join(baseDir, name)
		}
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("%w: %s", errMissingSource, path)
		}
		resolved[name] = path
	}
	return resolved, nil
}

func openSources(paths map[string]string) (ingest.Sources, func(), error) {
	var opened []io.Closer
	closeAll := func() {
		for _, c := range opened {
			_ = c.Close()
		}
	}

	open := func(name string) (*os.File, error) {
		file, err := os.Open(paths[name])
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", paths[name], err)
		}
		opened = append(opened, file)
		return file, nil
	}

	var src ingest.Sources
	var err error
	if src.PeopleJSON, err = open("people.json"); err != nil {
		closeAll()
		return ingest.Sources{}, nil, err
	}
	if src.PeopleYAML, err = open("people.yml"); err != nil {
		closeAll()
		return ingest.Sources{}, nil, err
	}
	if src.Transactions, err = open("transactions.xml"); err != nil {
		closeAll()
		return ingest.Sources{}, nil, err
	}
	if src.Promotions, err = open("promotions.csv"); err != nil {
		closeAll()
		return ingest.Sources{}, nil, err
	}
	if src.Transfers, err = open("transfers.csv"); err != nil {
		closeAll()
		return ingest.Sources{}, nil, err
	}
	return src, closeAll, nil
}

func buildStore(ctx context.Context, cfg config.StoreConfig) (store.Store, error) {
	switch cfg.Driver {
	case "sqlite":
		return store.OpenSQLite(ctx, cfg.Path)
	case "memory":
		return store.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("%w: %s", store.ErrUnknownDriver, cfg.Driver)
	}
}

func exportGraph(ctx context.Context, logger *slog.Logger, cfg config.Config, ds domain.Dataset) error {
	opts := graphexport.Options{
		URI:            cfg.Graph.URI,
		Database:       cfg.Graph.Database,
		Username:       cfg.Graph.Username,
		Password:       cfg.Graph.Password,
		MaxConnections: cfg.Graph.MaxConnections,
	}
	client, err := graphexport.NewNeo4jClient(ctx, opts)
	if err != nil {
		return err
	}
	defer func() {
		if err := client.Close(context.Background()); err != nil {
			logger.Warn("closing graph client failed", "error", err)
		}
	}()

	start := time.Now()
	exporter := graphexport.NewExporter(client, cfg.Graph.Workers)
	if err := exporter.Export(ctx, ds); err != nil {
		return err
	}
	logger.Info("transfer network exported",
		"uri", cfg.Graph.URI,
		"duration", time.Since(start).String(),
		"people", len(ds.People),
		"transfers", len(ds.Transfers),
	)
	return nil
}
