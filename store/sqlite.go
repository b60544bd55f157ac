package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"vitalrisk/ml"
)

// SQLiteStore is a BlobStore backed by a single SQLite file. It also keeps a
// training_runs log so every evaluation report stays queryable after the
// bundle it describes has been replaced.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the database at path and prepares its tables.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	queries := []string{
		`CREATE TABLE IF NOT EXISTS blobs (
            key TEXT PRIMARY KEY,
            data BLOB NOT NULL,
            updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
        )`,
		`CREATE TABLE IF NOT EXISTS training_runs (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            bundle_ref TEXT NOT NULL,
            accuracy REAL,
            precision REAL,
            recall REAL,
            f1 REAL,
            roc_auc REAL,
            train_rows INTEGER,
            test_rows INTEGER,
            trained_at DATETIME NOT NULL
        )`,
	}
	for _, query := range queries {
		if _, err := db.Exec(query); err != nil {
			db.Close()
			return nil, fmt.Errorf("create tables: %w", err)
		}
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Put(key string, data []byte) error {
	_, err := s.db.Exec(
		`INSERT INTO blobs (key, data, updated_at) VALUES (?, ?, ?)
         ON CONFLICT(key) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		key, data, time.Now().UTC())
	return err
}

func (s *SQLiteStore) Get(key string) ([]byte, bool, error) {
	var data []byte
	err := s.db.QueryRow(`SELECT data FROM blobs WHERE key = ?`, key).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

// LogTrainingRun appends one evaluation report to the training log.
func (s *SQLiteStore) LogTrainingRun(bundleRef string, report *ml.EvaluationReport) error {
	_, err := s.db.Exec(
		`INSERT INTO training_runs
            (bundle_ref, accuracy, precision, recall, f1, roc_auc, train_rows, test_rows, trained_at)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		bundleRef, report.Accuracy, report.Precision, report.Recall,
		report.F1, report.ROCAUC, report.TrainRows, report.TestRows, time.Now().UTC())
	return err
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
