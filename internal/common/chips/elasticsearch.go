// Package chips loads extracted requirement chips for a project.
package chips

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"estimate-workers/internal/common/errors"
	"estimate-workers/internal/models"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

const (
	DefaultIndex = "requirement_chips"
	maxChips     = 1000
)

// Source returns a project's chips in extraction order.
type Source interface {
	ChipsForProject(ctx context.Context, projectID string) ([]models.Chip, error)
}

type ElasticsearchSource struct {
	client *elasticsearch.Client
	index  string
}

func NewElasticsearchSource(client *elasticsearch.Client, index string) *ElasticsearchSource {
	if index == "" {
		index = DefaultIndex
	}
	return &ElasticsearchSource{client: client, index: index}
}

type searchResponse struct {
	Hits struct {
		Hits []struct {
			Source struct {
				ProjectID string      `json:"projectId"`
				Category  string      `json:"category"`
				Value     interface{} `json:"value"`
			} `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

func buildQuery(projectID string) map[string]interface{} {
	return map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"filter": []interface{}{
					map[string]interface{}{"term": map[string]interface{}{"projectId": projectID}},
				},
			},
		},
		"sort": []interface{}{
			map[string]interface{}{"extractedAt": map[string]interface{}{"order": "asc", "unmapped_type": "date"}},
		},
	}
}

// ChipsForProject searches the chip index. Results are sorted by extraction
// time so that "last chip wins" rules see the newest value last.
func (s *ElasticsearchSource) ChipsForProject(ctx context.Context, projectID string) ([]models.Chip, error) {
	body, err := json.Marshal(buildQuery(projectID))
	if err != nil {
		return nil, errors.NewInternalError(err)
	}

	size := maxChips
	req := esapi.SearchRequest{
		Index: []string{s.index},
		Body:  strings.NewReader(string(body)),
		Size:  &size,
	}

	res, err := req.Do(ctx, s.client)
	if err != nil {
		return nil, errors.NewChipSourceUnavailableError(fmt.Errorf("search %s: %w", s.index, err))
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, errors.NewChipSourceUnavailableError(fmt.Errorf("search %s: %s", s.index, res.Status()))
	}

	var parsed searchResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, errors.NewChipSourceUnavailableError(fmt.Errorf("decode search response: %w", err))
	}

	out := make([]models.Chip, 0, len(parsed.Hits.Hits))
	for _, hit := range parsed.Hits.Hits {
		out = append(out, models.Chip{Category: hit.Source.Category, Value: hit.Source.Value})
	}
	return out, nil
}
