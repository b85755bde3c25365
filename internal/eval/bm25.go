package eval

import (
	"fmt"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"

	"github.com/toolscout/tool-scout-mcp/internal/registry"
)

// BM25Ranker builds an in-memory bleve index over the catalog and returns a
// ranker backed by its BM25 scoring.
//
// This is the ablation baseline behind the serving-path decision: BM25's
// document-length normalization showed no measurable benefit over TF-IDF
// cosine for short tool descriptions, so the serving path uses TF-IDF and
// BM25 lives here for regression comparisons.
func BM25Ranker(reg *registry.Registry) (RankFunc, func() error, error) {
	indexMapping := buildIndexMapping()

	index, err := bleve.NewMemOnly(indexMapping)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create bleve index: %w", err)
	}

	batch := index.NewBatch()
	for _, entry := range reg.Entries() {
		doc := map[string]interface{}{
			"name":        entry.Name,
			"description": entry.Description,
			"tags":        entry.Tags,
		}
		if err := batch.Index(entry.Name, doc); err != nil {
			index.Close()
			return nil, nil, fmt.Errorf("failed to index tool %s: %w", entry.Name, err)
		}
	}
	if err := index.Batch(batch); err != nil {
		index.Close()
		return nil, nil, fmt.Errorf("failed to batch index catalog: %w", err)
	}

	rank := func(query string, k int) []string {
		if k <= 0 {
			k = 10
		}

		searchQuery := bleve.NewMatchQuery(query)
		request := bleve.NewSearchRequestOptions(searchQuery, k, 0, false)

		results, err := index.Search(request)
		if err != nil {
			return nil
		}

		ranked := make([]string, 0, len(results.Hits))
		for _, hit := range results.Hits {
			ranked = append(ranked, hit.ID)
		}
		return ranked
	}

	return rank, index.Close, nil
}

// buildIndexMapping creates the bleve mapping for catalog documents.
func buildIndexMapping() mapping.IndexMapping {
	toolMapping := bleve.NewDocumentMapping()

	nameFieldMapping := bleve.NewTextFieldMapping()
	toolMapping.AddFieldMappingsAt("name", nameFieldMapping)

	descFieldMapping := bleve.NewTextFieldMapping()
	toolMapping.AddFieldMappingsAt("description", descFieldMapping)

	tagsFieldMapping := bleve.NewTextFieldMapping()
	toolMapping.AddFieldMappingsAt("tags", tagsFieldMapping)

	indexMapping := bleve.NewIndexMapping()
	indexMapping.AddDocumentMapping("_default", toolMapping)

	return indexMapping
}
