/*
Package storage implements the persistent layer behind the discovery engine's
external collaborators.

It provides SQLite-backed persistence for the call log (feeding the
execution-trace miner), cached embedding vectors (the embedding-provider
surface), and search analytics, with graceful degradation if the database is
unavailable: failed storage never fails a query.

The database lives at ~/.tool-scout-mcp/scout.db and uses modernc.org/sqlite
(a pure Go, CGo-free implementation).
*/
package storage

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/toolscout/tool-scout-mcp/internal/trace"
)

// Storage defines the persistence operations consumed by the engine's
// collaborators.
type Storage interface {
	// Init opens the database and runs migrations.
	Init() error

	// RecordCall appends one tool invocation to the call log.
	RecordCall(record trace.CallRecord) error

	// ListCalls returns call records at or after the given time, oldest
	// first. Satisfies trace.CallSource.
	ListCalls(since time.Time) ([]trace.CallRecord, error)

	// RecordSearch records a search query for analytics.
	RecordSearch(record SearchRecord) error

	// SaveEmbedding caches an embedding vector for a tool or domain node.
	SaveEmbedding(name string, vector []float32, nodeType, version string) error

	// ListEmbeddings returns every cached embedding.
	ListEmbeddings() ([]StoredEmbedding, error)

	// Cleanup removes records older than the retention window.
	Cleanup(retention time.Duration) error

	// Close closes the database connection.
	Close() error
}

// SQLiteStorage implements Storage using SQLite.
type SQLiteStorage struct {
	db       *sql.DB
	dbPath   string
	enabled  bool
	mu       sync.Mutex
	initOnce sync.Once
}

// NewStorage creates storage at the default location,
// ~/.tool-scout-mcp/scout.db. If the home directory cannot be resolved the
// storage is disabled and every operation becomes a no-op.
func NewStorage() *SQLiteStorage {
	home, err := os.UserHomeDir()
	if err != nil {
		log.Printf("Warning: failed to get home directory: %v", err)
		return &SQLiteStorage{enabled: false}
	}

	return NewStorageAt(filepath.Join(home, ".tool-scout-mcp", "scout.db"))
}

// NewStorageAt creates storage backed by the given database path.
func NewStorageAt(dbPath string) *SQLiteStorage {
	return &SQLiteStorage{
		dbPath:  dbPath,
		enabled: true,
	}
}

// Init opens the database and runs migrations.
//
// If initialization fails, storage is disabled and subsequent operations
// become no-ops (graceful degradation).
func (s *SQLiteStorage) Init() error {
	if !s.enabled {
		return nil
	}

	var initErr error
	s.initOnce.Do(func() {
		dbDir := filepath.Dir(s.dbPath)
		if err := os.MkdirAll(dbDir, 0755); err != nil {
			initErr = fmt.Errorf("failed to create db directory: %w", err)
			s.enabled = false
			return
		}

		db, err := sql.Open("sqlite", s.dbPath)
		if err != nil {
			initErr = fmt.Errorf("failed to open database: %w", err)
			s.enabled = false
			log.Printf("Warning: %v", initErr)
			return
		}
		s.db = db

		if err := db.Ping(); err != nil {
			initErr = fmt.Errorf("failed to ping database: %w", err)
			s.enabled = false
			log.Printf("Warning: %v", initErr)
			return
		}

		if err := s.runMigrations(); err != nil {
			initErr = fmt.Errorf("failed to run migrations: %w", err)
			s.enabled = false
			log.Printf("Warning: %v", initErr)
			return
		}
	})

	return initErr
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	if !s.enabled || s.db == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.db.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	s.db = nil
	return nil
}

// HashQuery creates a SHA256 hash of a query string for privacy.
func HashQuery(query string) string {
	hash := sha256.Sum256([]byte(query))
	return hex.EncodeToString(hash[:])
}
