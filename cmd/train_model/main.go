package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"

	"go.uber.org/zap"

	"vitalrisk/config"
	"vitalrisk/ml"
	"vitalrisk/patient"
	"vitalrisk/service"
	"vitalrisk/store"
)

func main() {
	configPath := flag.String("config", "", "config file path")
	count := flag.Int("count", 0, "cohort size (overrides config)")
	seed := flag.Int64("seed", 0, "generator seed (overrides config)")
	csvPath := flag.String("csv", "", "train from an existing cohort CSV instead of generating")
	saveCSV := flag.String("save_csv", "", "write the generated cohort to this CSV path")
	bundleKey := flag.String("bundle", "", "bundle key (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	if *count > 0 {
		cfg.Cohort.Count = *count
	}
	if *seed != 0 {
		cfg.Cohort.Seed = *seed
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

	records, err := loadOrGenerate(cfg, *csvPath, *saveCSV, logger)
	if err != nil {
		logger.Fatal("build training cohort", zap.Error(err))
	}

	blobs, sqlite, err := openStore(cfg)
	if err != nil {
		logger.Fatal("open bundle store", zap.Error(err))
	}
	defer blobs.Close()

	trainer := ml.NewTrainer(cfg.Training.Seed)
	trainer.TestRatio = cfg.Training.TestRatio
	trainer.Model = &ml.LogisticRegression{
		LearnRate: cfg.Training.LearnRate,
		Epochs:    cfg.Training.Epochs,
		L2:        cfg.Training.L2,
	}

	svc, err := service.New(blobs, trainer, logger)
	if err != nil {
		logger.Fatal("build service", zap.Error(err))
	}

	ref, report, err := svc.Train(records, cfg.Store.BundleKey)
	if err != nil {
		logger.Fatal("training failed", zap.Error(err))
	}
	if sqlite != nil {
		if err := sqlite.LogTrainingRun(ref, report); err != nil {
			logger.Warn("record training run", zap.Error(err))
		}
	}

	logger.Info("evaluation",
		zap.Float64("accuracy", report.Accuracy),
		zap.Float64("precision", report.Precision),
		zap.Float64("recall", report.Recall),
		zap.Float64("f1", report.F1),
		zap.Float64("roc_auc", report.ROCAUC),
		zap.Float64("positive_ratio", report.PositiveRatio))
	fmt.Printf("bundle stored under %q\n", ref)
}

func loadOrGenerate(cfg *config.Config, csvPath, saveCSV string, logger *zap.Logger) ([]patient.VitalRecord, error) {
	if csvPath != "" {
		records, err := patient.LoadCSV(csvPath)
		if err != nil {
			return nil, err
		}
		logger.Info("loaded cohort", zap.String("path", csvPath), zap.Int("rows", len(records)))
		return records, nil
	}

	rng := rand.New(rand.NewSource(cfg.Cohort.Seed))
	gen := patient.NewCohortGenerator(rng)
	records, err := gen.Generate(cfg.Cohort.Count, cfg.Cohort.PatientID)
	if err != nil {
		return nil, err
	}
	logger.Info("generated cohort",
		zap.Int("rows", len(records)),
		zap.Int64("seed", cfg.Cohort.Seed),
		zap.String("patient", cfg.Cohort.PatientID))

	if saveCSV == "" {
		saveCSV = cfg.Cohort.CSVPath
	}
	if saveCSV != "" {
		if err := patient.SaveCSV(saveCSV, records); err != nil {
			return nil, err
		}
		logger.Info("saved cohort", zap.String("path", saveCSV))
	}
	return records, nil
}

func openStore(cfg *config.Config) (store.BlobStore, *store.SQLiteStore, error) {
	switch cfg.Store.Backend {
	case "sqlite":
		s, err := store.OpenSQLite(cfg.Store.Path)
		return s, s, err
	default:
		s, err := store.NewFileStore(cfg.Store.Path)
		return s, nil, err
	}
}
