package storage

import (
	"log"
	"time"
)

// RecordSearch records a search query for analytics.
func (s *SQLiteStorage) RecordSearch(record SearchRecord) error {
	if !s.enabled || s.db == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO search_history (search_id, query_hash, mode, timestamp, results_count)
		VALUES (?, ?, ?, ?, ?)
	`,
		record.SearchID,
		record.QueryHash,
		record.Mode,
		record.Timestamp.Format(time.RFC3339),
		record.ResultsCount,
	)

	if err != nil {
		log.Printf("Warning: failed to record search: %v", err)
	}

	return nil
}

// Cleanup removes old call-log and search-history records.
func (s *SQLiteStorage) Cleanup(retention time.Duration) error {
	if !s.enabled || s.db == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := time.Now().Add(-retention).Format(time.RFC3339)

	if _, err := s.db.Exec("DELETE FROM call_log WHERE timestamp < ?", cutoff); err != nil {
		log.Printf("Warning: failed to cleanup call_log: %v", err)
	}

	if _, err := s.db.Exec("DELETE FROM search_history WHERE timestamp < ?", cutoff); err != nil {
		log.Printf("Warning: failed to cleanup search_history: %v", err)
	}

	if _, err := s.db.Exec("VACUUM"); err != nil {
		log.Printf("Warning: failed to vacuum database: %v", err)
	}

	return nil
}
