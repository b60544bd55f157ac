package service

import (
	"github.com/fsnotify/fsnotify"
	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"

	"vitalrisk/ml"
	"vitalrisk/patient"
	"vitalrisk/store"
)

const engineCacheSize = 8

// RiskService is the caller-facing API over the pipeline: Train fits a new
// bundle and stores it, Score loads a bundle by ref and scores one
// observation. Loaded engines are cached; a bundle is read once and then
// served read-only, so concurrent scoring needs no locking.
type RiskService struct {
	store   store.BlobStore
	trainer *ml.Trainer
	engines *lru.Cache[string, *ml.Engine]
	logger  *zap.Logger
	watcher *fsnotify.Watcher
	done    chan struct{}
}

// New wires a service over the given store and trainer.
func New(st store.BlobStore, trainer *ml.Trainer, logger *zap.Logger) (*RiskService, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	engines, err := lru.New[string, *ml.Engine](engineCacheSize)
	if err != nil {
		return nil, err
	}
	return &RiskService{
		store:   st,
		trainer: trainer,
		engines: engines,
		logger:  logger,
	}, nil
}

// Train fits a bundle from labeled records and stores it under ref. An empty
// ref defaults to the new bundle's version. Returns the ref the bundle was
// stored under and the evaluation report.
func (s *RiskService) Train(records []patient.VitalRecord, ref string) (string, *ml.EvaluationReport, error) {
	bundle, report, err := s.trainer.Train(records)
	if err != nil {
		return "", nil, err
	}
	if ref == "" {
		ref = bundle.Version
	}
	data, err := bundle.Encode()
	if err != nil {
		return "", nil, err
	}
	if err := s.store.Put(ref, data); err != nil {
		return "", nil, err
	}
	// The ref may have pointed at an older bundle; drop any cached engine so
	// the next Score loads the fresh one.
	s.engines.Remove(ref)

	s.logger.Info("trained bundle",
		zap.String("ref", ref),
		zap.String("version", bundle.Version),
		zap.Int("train_rows", report.TrainRows),
		zap.Int("test_rows", report.TestRows),
		zap.Float64("accuracy", report.Accuracy),
		zap.Float64("roc_auc", report.ROCAUC))
	return ref, report, nil
}

// Score resolves ref to an engine and scores one observation. A ref with no
// stored bundle yields *ml.BundleNotFoundError; feature-level failures
// propagate from the engine untouched.
func (s *RiskService) Score(ref string, vitals map[string]float64) (ml.PredictionResult, error) {
	engine, err := s.engine(ref)
	if err != nil {
		return ml.PredictionResult{}, err
	}
	return engine.Score(vitals)
}

func (s *RiskService) engine(ref string) (*ml.Engine, error) {
	if engine, ok := s.engines.Get(ref); ok {
		return engine, nil
	}
	data, ok, err := s.store.Get(ref)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &ml.BundleNotFoundError{Ref: ref, Missing: "bundle"}
	}
	bundle, err := ml.DecodeBundle(data)
	if err != nil {
		return nil, err
	}
	engine, err := ml.NewEngine(bundle)
	if err != nil {
		return nil, err
	}
	s.engines.Add(ref, engine)
	s.logger.Debug("loaded bundle", zap.String("ref", ref), zap.String("version", bundle.Version))
	return engine, nil
}

// WatchStore invalidates cached engines when a blob file under dir is
// replaced. Bundle swaps are write-new-then-rename, so a rename or create
// event on a key's file means the cached engine is stale.
func (s *RiskService) WatchStore(dir string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return err
	}
	s.watcher = watcher
	s.done = make(chan struct{})

	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename|fsnotify.Remove) == 0 {
					continue
				}
				key := store.KeyFromPath(event.Name)
				if key == "" {
					continue
				}
				if s.engines.Remove(key) {
					s.logger.Info("bundle changed on disk, dropped cached engine", zap.String("ref", key))
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				s.logger.Warn("store watcher error", zap.Error(err))
			case <-s.done:
				return
			}
		}
	}()
	return nil
}

// Close stops the store watcher if one is running.
func (s *RiskService) Close() error {
	if s.watcher != nil {
		close(s.done)
		return s.watcher.Close()
	}
	return nil
}
