package storage

import (
	"log"
	"time"

	"github.com/toolscout/tool-scout-mcp/internal/trace"
)

// RecordCall appends one tool invocation to the call log.
func (s *SQLiteStorage) RecordCall(record trace.CallRecord) error {
	if !s.enabled || s.db == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	timestamp := record.Timestamp
	if timestamp.IsZero() {
		timestamp = time.Now()
	}

	_, err := s.db.Exec(
		"INSERT INTO call_log (session_id, tool_name, timestamp) VALUES (?, ?, ?)",
		record.SessionID,
		record.ToolName,
		timestamp.Format(time.RFC3339),
	)

	if err != nil {
		log.Printf("Warning: failed to record call: %v", err)
	}

	return nil
}

// ListCalls returns call records at or after the given time, oldest first so
// the miner sees each session in execution order.
func (s *SQLiteStorage) ListCalls(since time.Time) ([]trace.CallRecord, error) {
	if !s.enabled || s.db == nil {
		return []trace.CallRecord{}, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(`
		SELECT session_id, tool_name, timestamp
		FROM call_log
		WHERE timestamp >= ?
		ORDER BY timestamp ASC
	`, since.Format(time.RFC3339))
	if err != nil {
		log.Printf("Warning: failed to query call log: %v", err)
		return []trace.CallRecord{}, nil
	}
	defer rows.Close()

	var records []trace.CallRecord
	for rows.Next() {
		var record trace.CallRecord
		var timestampStr string

		if err := rows.Scan(&record.SessionID, &record.ToolName, &timestampStr); err != nil {
			log.Printf("Warning: failed to scan call row: %v", err)
			continue
		}

		record.Timestamp, err = time.Parse(time.RFC3339, timestampStr)
		if err != nil {
			log.Printf("Warning: failed to parse call timestamp: %v", err)
			continue
		}

		records = append(records, record)
	}

	return records, nil
}
