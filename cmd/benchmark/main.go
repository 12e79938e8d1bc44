package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/rateyourbarber/trustengine/internal/config"
	"github.com/rateyourbarber/trustengine/internal/models"
	"github.com/rateyourbarber/trustengine/internal/services"
	"github.com/rateyourbarber/trustengine/pkg/logger"
)

// Runs the golden-case benchmark against the configured enrichment provider
// and prints a report.
//
// Usage:
//
//	benchmark                 # provider from config/database
//	benchmark -provider=heuristic
func main() {
	providerKind := flag.String("provider", "", "override provider kind (heuristic uses the built-in rules)")
	flag.Parse()

	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	logger.Init("warn")

	var provider services.Provider
	if *providerKind == "heuristic" {
		provider = services.NewHeuristicProvider(cfg.Enrichment.ExtraStopWordList(), cfg.Enrichment.TrustedImageTag)
	} else {
		if err := models.InitDB(&cfg.Database); err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		if *providerKind != "" {
			cfg.Provider.Kind = *providerKind
		}
		provider = services.SelectProvider(models.GetDB(), cfg)
	}

	fmt.Printf("Running %d golden cases against %s (%s)...\n\n",
		len(services.GoldenCases), provider.Name(), provider.ModelID())

	report, err := services.RunBenchmark(context.Background(), provider, nil)
	if err != nil {
		log.Fatalf("Benchmark failed: %v", err)
	}

	report.Print(os.Stdout)
}
