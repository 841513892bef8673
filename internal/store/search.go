// internal/store/search.go
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"decision-assistant/internal/common/logger"
	"decision-assistant/internal/models"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

// HistoryIndex mirrors decision records into Elasticsearch for full-text
// search over project name, objective, and rationale. A nil *HistoryIndex
// is valid and turns every operation into a no-op; the service runs
// without search when elasticsearch is not configured.
type HistoryIndex struct {
	client *elasticsearch.Client
	index  string
	logger logger.Logger
}

func NewHistoryIndex(client *elasticsearch.Client, index string, log logger.Logger) *HistoryIndex {
	return &HistoryIndex{
		client: client,
		index:  index,
		logger: log.WithFields(map[string]interface{}{"component": "history-index"}),
	}
}

// Enabled reports whether the index is live.
func (h *HistoryIndex) Enabled() bool {
	return h != nil && h.client != nil
}

// indexedDecision is the flattened document shape stored in the index.
type indexedDecision struct {
	ID          string   `json:"id"`
	ProjectName string   `json:"projectName"`
	Objective   string   `json:"objective"`
	Decision    string   `json:"decision"`
	Score       int      `json:"score"`
	Rationale   []string `json:"rationale"`
	Notes       string   `json:"notes,omitempty"`
	CreatedAt   string   `json:"createdAt"`
}

// Index writes one decision record into the history index.
func (h *HistoryIndex) Index(ctx context.Context, rec *models.DecisionRecord) error {
	if !h.Enabled() {
		return nil
	}

	doc := indexedDecision{
		ID:          rec.ID,
		ProjectName: rec.Intake.ProjectName,
		Objective:   rec.Intake.Objective,
		Decision:    rec.Output.Decision,
		Score:       rec.Output.Score,
		Rationale:   rec.Output.Rationale,
		Notes:       rec.Intake.Notes,
		CreatedAt:   rec.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}

	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}

	req := esapi.IndexRequest{
		Index:      h.index,
		DocumentID: rec.ID,
		Body:       strings.NewReader(string(body)),
	}

	res, err := req.Do(ctx, h.client)
	if err != nil {
		return fmt.Errorf("index decision: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("index decision: %s", res.Status())
	}
	return nil
}

// SearchHit is one match from the history index.
type SearchHit struct {
	ID          string  `json:"id"`
	ProjectName string  `json:"projectName"`
	Decision    string  `json:"decision"`
	Score       int     `json:"score"`
	Relevance   float64 `json:"relevance"`
}

// Search runs a multi-field full-text query over past decisions.
func (h *HistoryIndex) Search(ctx context.Context, query string, size int) ([]SearchHit, error) {
	if !h.Enabled() {
		return nil, fmt.Errorf("history index disabled")
	}
	if size <= 0 {
		size = 10
	}

	esQuery := map[string]interface{}{
		"size": size,
		"query": map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  query,
				"fields": []string{"projectName^2", "objective", "rationale", "notes"},
			},
		},
	}

	body, err := json.Marshal(esQuery)
	if err != nil {
		return nil, fmt.Errorf("marshal query: %w", err)
	}

	req := esapi.SearchRequest{
		Index: []string{h.index},
		Body:  strings.NewReader(string(body)),
	}

	res, err := req.Do(ctx, h.client)
	if err != nil {
		return nil, fmt.Errorf("search decisions: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("search decisions: %s", res.Status())
	}

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("read search response: %w", err)
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				Score  float64         `json:"_score"`
				Source indexedDecision `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("parse search response: %w", err)
	}

	hits := make([]SearchHit, 0, len(parsed.Hits.Hits))
	for _, hit := range parsed.Hits.Hits {
		hits = append(hits, SearchHit{
			ID:          hit.Source.ID,
			ProjectName: hit.Source.ProjectName,
			Decision:    hit.Source.Decision,
			Score:       hit.Source.Score,
			Relevance:   hit.Score,
		})
	}
	return hits, nil
}
