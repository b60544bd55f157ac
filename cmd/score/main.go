package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"vitalrisk/config"
	"vitalrisk/ml"
	"vitalrisk/service"
	"vitalrisk/store"
)

func main() {
	configPath := flag.String("config", "", "config file path")
	bundleKey := flag.String("bundle", "", "bundle key (overrides config)")
	input := flag.String("input", "", `vitals as "HeartRate=70,SystolicBP=115,..." (empty for interactive mode)`)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	if *bundleKey != "" {
		cfg.Store.BundleKey = *bundleKey
	}

	logger, err := config.NewLogger(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "build logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	blobs, err := openStore(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open bundle store: %v\n", err)
		os.Exit(1)
	}
	defer blobs.Close()

	svc, err := service.New(blobs, ml.NewTrainer(cfg.Training.Seed), logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "build service: %v\n", err)
		os.Exit(1)
	}
	if fs, ok := blobs.(*store.FileStore); ok {
		if err := svc.WatchStore(fs.Root()); err != nil {
			logger.Warn("store watch unavailable: " + err.Error())
		}
		defer svc.Close()
	}

	var vitals map[string]float64
	if *input != "" {
		vitals, err = parseInput(*input)
		if err != nil {
			fmt.Fprintf(os.Stderr, "parse input: %v\n", err)
			os.Exit(1)
		}
	} else {
		vitals = promptVitals(os.Stdin, os.Stdout)
	}

	result, err := svc.Score(cfg.Store.BundleKey, vitals)
	if err != nil {
		fmt.Fprintln(os.Stderr, describeError(err))
		os.Exit(1)
	}

	risk := "LOW"
	if result.Label == 1 {
		risk = "HIGH"
	}
	fmt.Printf("risk: %s (label=%d, probability=%.3f)\n", risk, result.Label, result.Probability)
}

// promptVitals collects the seven schema fields from the terminal. Malformed
// numeric input re-prompts instead of aborting.
func promptVitals(in *os.File, out *os.File) map[string]float64 {
	scanner := bufio.NewScanner(in)
	vitals := make(map[string]float64, len(ml.FeatureNames()))
	for _, name := range ml.FeatureNames() {
		for {
			fmt.Fprintf(out, "%s: ", name)
			if !scanner.Scan() {
				return vitals
			}
			v, err := strconv.ParseFloat(strings.TrimSpace(scanner.Text()), 64)
			if err != nil {
				fmt.Fprintf(out, "invalid number, try again\n")
				continue
			}
			vitals[name] = v
			break
		}
	}
	return vitals
}

func parseInput(input string) (map[string]float64, error) {
	vitals := make(map[string]float64)
	for _, pair := range strings.Split(input, ",") {
		parts := strings.SplitN(strings.TrimSpace(pair), "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("malformed pair %q", pair)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", parts[0], err)
		}
		vitals[strings.TrimSpace(parts[0])] = v
	}
	return vitals, nil
}

// describeError surfaces the specific failure kind instead of a generic
// message.
func describeError(err error) string {
	var notFound *ml.BundleNotFoundError
	if errors.As(err, &notFound) {
		return "no trained model available: " + err.Error() + " (run train_model first)"
	}
	var missing *ml.MissingFeatureError
	if errors.As(err, &missing) {
		return "input is incomplete: " + err.Error()
	}
	var schema *ml.SchemaError
	if errors.As(err, &schema) {
		return "stored bundle is corrupt: " + err.Error()
	}
	return "scoring failed: " + err.Error()
}

func openStore(cfg *config.Config) (store.BlobStore, error) {
	if cfg.Store.Backend == "sqlite" {
		return store.OpenSQLite(cfg.Store.Path)
	}
	return store.NewFileStore(cfg.Store.Path)
}
