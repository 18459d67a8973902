// Command cura runs the real estate analysis backend: an HTTP API over the
// agent crew pipeline, plus one-shot query and data utilities.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/armaanamatya/HackUTD2025/internal/agent/ports"
	"github.com/armaanamatya/HackUTD2025/internal/config"
	"github.com/armaanamatya/HackUTD2025/internal/crews"
	"github.com/armaanamatya/HackUTD2025/internal/jobs"
	"github.com/armaanamatya/HackUTD2025/internal/listings"
	"github.com/armaanamatya/HackUTD2025/internal/llm"
	"github.com/armaanamatya/HackUTD2025/internal/server"
	"github.com/armaanamatya/HackUTD2025/internal/shared/logging"
	"github.com/armaanamatya/HackUTD2025/internal/toolregistry"
)

var configFile string

func main() {
	root := &cobra.Command{
		Use:   "cura",
		Short: "Real estate analysis backend driven by LLM agent crews",
	}
	root.PersistentFlags().StringVar(&configFile, "config", "", "path to config file")

	root.AddCommand(newServeCmd(), newRespondCmd(), newIngestCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type app struct {
	cfg     *config.Config
	factory *crews.Factory
	manager *jobs.Manager
	store   listings.Store
	logger  logging.Logger
}

func buildApp() (*app, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, err
	}
	logger := logging.NewComponentLogger("cura")

	var client ports.LLMClient
	client, err = llm.NewOpenAIClient(llm.Config{
		BaseURL: cfg.LLM.BaseURL,
		APIKey:  cfg.LLM.APIKey,
		Model:   cfg.LLM.Model,
	})
	if err != nil {
		return nil, err
	}
	client = llm.NewRetryClient(client, cfg.LLM.MaxRetries)

	var store listings.Store
	if cfg.Listings.CSV != "" {
		records, err := listings.LoadCSV(cfg.Listings.CSV)
		if err != nil {
			return nil, fmt.Errorf("load listings: %w", err)
		}
		logger.Info("loaded %d listings from %s", len(records), cfg.Listings.CSV)
		store = listings.NewMemoryStore(records...)
	}

	registry := toolregistry.New(toolregistry.Config{
		TavilyAPIKey:     cfg.Tools.TavilyAPIKey,
		PerplexityAPIKey: cfg.Tools.PerplexityAPIKey,
		Listings:         store,
	}, logger)

	factory := crews.NewFactory(crews.Config{
		LLM:           client,
		Registry:      registry,
		Logger:        logger,
		TaskTimeout:   cfg.Tasks.Timeout,
		StrictRouting: cfg.Routing.Strict,
	})

	return &app{
		cfg:     cfg,
		factory: factory,
		manager: jobs.NewManager(jobs.NewMemoryStore(), cfg.Jobs.MaxConcurrent, logger),
		store:   store,
		logger:  logger,
	}, nil
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp()
			if err != nil {
				return err
			}
			defer a.manager.Close()

			srv := server.New(server.Config{
				Addr:  a.cfg.Server.Addr(),
				Model: a.cfg.LLM.Model,
			}, a.factory, a.manager, a.store, a.logger)

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return srv.Run(ctx)
		},
	}
}

func newRespondCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "respond [query]",
		Short: "Run the response routing pipeline for one query and print the result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp()
			if err != nil {
				return err
			}
			defer a.manager.Close()

			out, err := a.factory.RunResponseWorkflow(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Println(out)
			return nil
		},
	}
}

func newIngestCmd() *cobra.Command {
	var csvPath string
	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Validate a listings CSV and report what it contains",
		RunE: func(cmd *cobra.Command, args []string) error {
			if csvPath == "" {
				return fmt.Errorf("--csv is required")
			}
			records, err := listings.LoadCSV(csvPath)
			if err != nil {
				return err
			}
			store := listings.NewMemoryStore(records...)
			stats, err := store.Stats(cmd.Context(), listings.StatsFilter{})
			if err != nil {
				return err
			}
			fmt.Printf("loaded %d listings\n", stats.TotalListings)
			if stats.TotalListings > 0 {
				fmt.Printf("price: min $%.0f, max $%.0f, avg $%.0f\n", stats.MinPrice, stats.MaxPrice, stats.AvgPrice)
				fmt.Printf("by status: %v\n", stats.StatusBreakdown)
				fmt.Printf("by type: %v\n", stats.TypeBreakdown)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&csvPath, "csv", "", "path to listings CSV file")
	return cmd
}
