package storage

import (
	"log"
	"time"
)

// SaveEmbedding caches an embedding vector for a tool or domain node.
func (s *SQLiteStorage) SaveEmbedding(name string, vector []float32, nodeType, version string) error {
	if !s.enabled || s.db == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT OR REPLACE INTO node_embeddings (name, vector, node_type, version, created_at)
		VALUES (?, ?, ?, ?, ?)
	`,
		name,
		vectorToJSON(vector),
		nodeType,
		version,
		time.Now().Format(time.RFC3339),
	)

	if err != nil {
		log.Printf("Warning: failed to save embedding: %v", err)
	}

	return nil
}

// ListEmbeddings returns every cached embedding, tool and domain nodes alike.
func (s *SQLiteStorage) ListEmbeddings() ([]StoredEmbedding, error) {
	if !s.enabled || s.db == nil {
		return []StoredEmbedding{}, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(`
		SELECT name, vector, node_type, version, created_at
		FROM node_embeddings
	`)
	if err != nil {
		log.Printf("Warning: failed to query embeddings: %v", err)
		return []StoredEmbedding{}, nil
	}
	defer rows.Close()

	var embeddings []StoredEmbedding
	for rows.Next() {
		var embedding StoredEmbedding
		var vectorJSON, createdStr string

		if err := rows.Scan(&embedding.Name, &vectorJSON, &embedding.NodeType, &embedding.Version, &createdStr); err != nil {
			log.Printf("Warning: failed to scan embedding: %v", err)
			continue
		}

		vector, err := jsonToVector(vectorJSON)
		if err != nil {
			log.Printf("Warning: failed to parse embedding vector: %v", err)
			continue
		}
		embedding.Vector = vector

		if parsed, err := time.Parse(time.RFC3339, createdStr); err == nil {
			embedding.CreatedAt = parsed
		}

		embeddings = append(embeddings, embedding)
	}

	return embeddings, nil
}
