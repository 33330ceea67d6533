package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"pha-locator/internal/config"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		log.Error().Err(err).Msg("import failed")
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "importer",
		Short:         "Load agency, gazetteer and ZIP data",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "configs", "directory containing app.env")

	load := func() (config.Config, error) {
		cfg, err := config.LoadConfig(configPath)
		if err != nil {
			return cfg, err
		}
		if cfg.LogPretty {
			log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
		}
		return cfg, nil
	}

	root.AddCommand(
		newAgenciesCmd(load),
		newPlacesCmd(load),
		newZipcodesCmd(load),
		newAllCmd(load),
	)
	return root
}

type configLoader func() (config.Config, error)

func newAgenciesCmd(load configLoader) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "agencies",
		Short: "Replace the agencies table with the rows of a CSV file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			records, err := readFile(file, parseAgencies)
			if err != nil {
				return err
			}
			log.Info().Str("file", file).Int("records", len(records)).Msg("parsed agencies")
			pool, err := connectDB(cmd.Context(), cfg.DBSource)
			if err != nil {
				return err
			}
			defer pool.Close()
			return importAgencies(cmd.Context(), pool, records)
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "path to the agencies CSV file")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newPlacesCmd(load configLoader) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "places",
		Short: "Replace the city and county gazetteer with the rows of a CSV file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			records, err := readFile(file, parsePlaces)
			if err != nil {
				return err
			}
			log.Info().Str("file", file).Int("records", len(records)).Msg("parsed places")
			pool, err := connectDB(cmd.Context(), cfg.DBSource)
			if err != nil {
				return err
			}
			defer pool.Close()
			return importPlaces(cmd.Context(), pool, records)
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "path to the places CSV file")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newZipcodesCmd(load configLoader) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "zipcodes",
		Short: "Upsert ZIP centroids into the SQLite lookup database",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			records, err := readFile(file, parseZipcodes)
			if err != nil {
				return err
			}
			log.Info().Str("file", file).Int("records", len(records)).Msg("parsed zipcodes")
			return importZipcodes(cmd.Context(), cfg.ZipDBPath, records)
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "path to the zipcodes CSV file")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

// newAllCmd runs each given import concurrently; the first failure cancels the rest.
func newAllCmd(load configLoader) *cobra.Command {
	var agencies, places, zipcodes string
	cmd := &cobra.Command{
		Use:   "all",
		Short: "Run the agencies, places and zipcodes imports concurrently",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if agencies == "" && places == "" && zipcodes == "" {
				return fmt.Errorf("at least one of --agencies, --places or --zipcodes is required")
			}
			cfg, err := load()
			if err != nil {
				return err
			}

			var pool *pgxpool.Pool
			if agencies != "" || places != "" {
				pool, err = connectDB(cmd.Context(), cfg.DBSource)
				if err != nil {
					return err
				}
				defer pool.Close()
			}

			g, ctx := errgroup.WithContext(cmd.Context())
			if agencies != "" {
				g.Go(func() error {
					records, err := readFile(agencies, parseAgencies)
					if err != nil {
						return fmt.Errorf("agencies: %w", err)
					}
					return importAgencies(ctx, pool, records)
				})
			}
			if places != "" {
				g.Go(func() error {
					records, err := readFile(places, parsePlaces)
					if err != nil {
						return fmt.Errorf("places: %w", err)
					}
					return importPlaces(ctx, pool, records)
				})
			}
			if zipcodes != "" {
				g.Go(func() error {
					records, err := readFile(zipcodes, parseZipcodes)
					if err != nil {
						return fmt.Errorf("zipcodes: %w", err)
					}
					return importZipcodes(ctx, cfg.ZipDBPath, records)
				})
			}
			return g.Wait()
		},
	}
	cmd.Flags().StringVar(&agencies, "agencies", "", "path to the agencies CSV file")
	cmd.Flags().StringVar(&places, "places", "", "path to the places CSV file")
	cmd.Flags().StringVar(&zipcodes, "zipcodes", "", "path to the zipcodes CSV file")
	return cmd
}

func readFile[T any](path string, parse func(io.Reader) ([]T, error)) ([]T, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()
	return parse(f)
}
