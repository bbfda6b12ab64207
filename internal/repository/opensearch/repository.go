package opensearch

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/opensearch-project/opensearch-go/v2"
	"github.com/opensearch-project/opensearch-go/v2/opensearchapi"

	"github.com/kingrain94/remote-config-api/internal/config"
	"github.com/kingrain94/remote-config-api/internal/domain"
	"github.com/kingrain94/remote-config-api/internal/repository"
)

type searchRepository struct {
	client *opensearch.Client
	index  string
}

func NewRepository(client *opensearch.Client, cfg *config.OpenSearchConfig) repository.SearchRepository {
	return &searchRepository{
		client: client,
		index:  cfg.IndexName,
	}
}

func (r *searchRepository) Index(ctx context.Context, cfg *domain.AppConfigWithTenant) error {
	if err := r.CreateIndex(ctx); err != nil {
		return fmt.Errorf("failed to ensure index exists: %w", err)
	}

	data, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	req := opensearchapi.IndexRequest{
		Index:      r.index,
		DocumentID: cfg.ID,
		Body:       strings.NewReader(string(data)),
	}

	res, err := req.Do(ctx, r.client)
	if err != nil {
		return fmt.Errorf("failed to index document: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("error indexing document: %s", res.String())
	}

	return nil
}

func (r *searchRepository) BulkIndex(ctx context.Context, cfgs []domain.AppConfigWithTenant) error {
	if len(cfgs) == 0 {
		return nil
	}

	if err := r.CreateIndex(ctx); err != nil {
		return fmt.Errorf("failed to ensure index exists: %w", err)
	}

	body, err := buildBulkBody(r.index, cfgs)
	if err != nil {
		return err
	}

	req := opensearchapi.BulkRequest{
		Body: strings.NewReader(body),
	}

	res, err := req.Do(ctx, r.client)
	if err != nil {
		return fmt.Errorf("failed to execute bulk request: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("bulk request failed: %s", res.String())
	}

	return nil
}

// buildBulkBody renders the NDJSON action/document pairs.
func buildBulkBody(index string, cfgs []domain.AppConfigWithTenant) (string, error) {
	var bulkBody strings.Builder
	for _, cfg := range cfgs {
		action := map[string]any{
			"index": map[string]any{
				"_index": index,
				"_id":    cfg.ID,
			},
		}
		actionLine, err := json.Marshal(action)
		if err != nil {
			return "", fmt.Errorf("failed to marshal action: %w", err)
		}
		bulkBody.Write(actionLine)
		bulkBody.WriteString("\n")

		docLine, err := json.Marshal(cfg)
		if err != nil {
			return "", fmt.Errorf("failed to marshal document: %w", err)
		}
		bulkBody.Write(docLine)
		bulkBody.WriteString("\n")
	}
	return bulkBody.String(), nil
}

func (r *searchRepository) Search(ctx context.Context, filter domain.AppConfigFilter) ([]domain.AppConfigWithTenant, error) {
	queryJSON, err := json.Marshal(buildSearchQuery(filter))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal query: %w", err)
	}

	req := opensearchapi.SearchRequest{
		Index: []string{r.index},
		Body:  strings.NewReader(string(queryJSON)),
	}

	res, err := req.Do(ctx, r.client)
	if err != nil {
		return nil, fmt.Errorf("failed to execute search: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		if res.StatusCode == 404 {
			return []domain.AppConfigWithTenant{}, nil
		}
		return nil, fmt.Errorf("search request failed: %s", res.String())
	}

	var searchResult struct {
		Hits struct {
			Hits []struct {
				Source domain.AppConfigWithTenant `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}

	if err := json.NewDecoder(res.Body).Decode(&searchResult); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	configs := make([]domain.AppConfigWithTenant, 0, len(searchResult.Hits.Hits))
	for _, hit := range searchResult.Hits.Hits {
		configs = append(configs, hit.Source)
	}

	return configs, nil
}

// buildSearchQuery matches the free-text query against key and tenant names
// and applies the structured filters as non-scoring clauses.
func buildSearchQuery(filter domain.AppConfigFilter) map[string]any {
	must := make([]map[string]any, 0)
	filters := make([]map[string]any, 0)

	if filter.Query != "" {
		must = append(must, map[string]any{
			"multi_match": map[string]any{
				"query":  filter.Query,
				"fields": []string{"key_name^2", "key_name.text", "tenant_name"},
				"type":   "best_fields",
			},
		})
	}

	if filter.TenantID != "" {
		filters = append(filters, createTermQuery("tenant_id", filter.TenantID))
	}

	if filter.Published != nil {
		exists := map[string]any{"exists": map[string]any{"field": "last_published_at"}}
		if *filter.Published {
			filters = append(filters, exists)
		} else {
			must = append(must, map[string]any{
				"bool": map[string]any{"must_not": []map[string]any{exists}},
			})
		}
	}

	if !filter.UpdatedSince.IsZero() {
		filters = append(filters, map[string]any{
			"range": map[string]any{
				"updated_at": map[string]any{"gte": filter.UpdatedSince},
			},
		})
	}

	query := map[string]any{
		"query": map[string]any{
			"bool": map[string]any{
				"must":   must,
				"filter": filters,
			},
		},
		"sort": []map[string]any{
			{"updated_at": map[string]any{"order": "desc"}},
		},
	}

	if filter.Limit > 0 {
		query["size"] = filter.Limit
	}
	if filter.Offset > 0 {
		query["from"] = filter.Offset
	}

	return query
}

func createTermQuery(field, value string) map[string]any {
	return map[string]any{
		"term": map[string]any{
			field: value,
		},
	}
}

func indexMapping() string {
	return `{
		"mappings": {
			"properties": {
				"id": { "type": "keyword" },
				"tenant_id": { "type": "keyword" },
				"tenant_name": { "type": "text" },
				"key_name": {
					"type": "keyword",
					"fields": { "text": { "type": "text" } }
				},
				"draft_json": { "type": "object", "enabled": false },
				"published_json": { "type": "object", "enabled": false },
				"last_published_at": { "type": "date" },
				"request_count": { "type": "long" },
				"created_at": { "type": "date" },
				"updated_at": { "type": "date" }
			}
		},
		"settings": {
			"index": {
				"number_of_shards": 1,
				"number_of_replicas": 1,
				"refresh_interval": "1s"
			}
		}
	}`
}

func (r *searchRepository) CreateIndex(ctx context.Context) error {
	exists := opensearchapi.IndicesExistsRequest{
		Index: []string{r.index},
	}
	res, err := exists.Do(ctx, r.client)
	if err != nil {
		return fmt.Errorf("failed to check index existence: %w", err)
	}
	res.Body.Close()

	if res.StatusCode == 200 {
		return nil
	}

	create := opensearchapi.IndicesCreateRequest{
		Index: r.index,
		Body:  strings.NewReader(indexMapping()),
	}

	res, err = create.Do(ctx, r.client)
	if err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("error creating index: %s", res.String())
	}

	return nil
}

func (r *searchRepository) Delete(ctx context.Context, id string) error {
	req := opensearchapi.DeleteRequest{
		Index:      r.index,
		DocumentID: id,
	}

	res, err := req.Do(ctx, r.client)
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("error deleting document: %s", res.String())
	}

	return nil
}
