package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/vanshika/venmito/backend/internal/generator"
)

func main() {
	cfg := generator.DefaultConfig()
	var (
		people         = flag.Int("people", cfg.NumPeople, "number of people to generate")
		transactions   = flag.Int("transactions", cfg.NumTransactions, "number of transactions to generate")
		promotions     = flag.Int("promotions", cfg.NumPromotions, "number of promotions to generate")
		transfers      = flag.Int("transfers", cfg.NumTransfers, "number of transfers to generate")
		bothChance     = flag.Float64("both-sources-chance", cfg.BothSourcesChance, "probability a person appears in both person sources")
		missingChance  = flag.Float64("missing-contact-chance", cfg.MissingContactChance, "probability a serialized row drops a contact field")
		mismatchChance = flag.Float64("total-mismatch-chance", cfg.TotalMismatchChance, "probability a line total disagrees with quantity times unit price")
		unknownChance  = flag.Float64("unknown-ref-chance", cfg.UnknownRefChance, "probability a dependent row references a missing person")
		seed           = flag.Int64("seed", cfg.Seed, "random seed for deterministic generation")
		outputDir      = flag.String("output-dir", "data", "directory to write the five raw source files")
	)
	flag.Parse()

	genCfg := generator.Config{
		NumPeople:            *people,
		NumTransactions:      *transactions,
		NumPromotions:        *promotions,
		NumTransfers:         *transfers,
		BothSourcesChance:    clampProbability(*bothChance),
		MissingContactChance: clampProbability(*missingChance),
		TotalMismatchChance:  clampProbability(*mismatchChance),
		UnknownRefChance:     clampProbability(*unknownChance),
		Seed:                 *seed,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	gen := generator.New(genCfg)
	dataset, err := gen.Generate(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "generation failed: %v\n", err)
		os.Exit(1)
	}

	if err := gen.WriteSources(dataset, *outputDir); err != nil {
		fmt.Fprintf(os.Stderr, "failed to write sources: %v\n", err)
		os.Exit(1)
	}

	fmt.Fprintf(os.Stdout, "Generated %d people, %d transactions, %d promotions and %d transfers into %s\n",
		len(dataset.People), len(dataset.Transactions), len(dataset.Promotions), len(dataset.Transfers), *outputDir)
}

func clampProbability(value float64) float64 {
	if value < 0 {
		return 0
	}
	if value > 1 {
		return 1
	}
	return value
}
