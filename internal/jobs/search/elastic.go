package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"jobgate/internal/jobs/models"
	id "jobgate/pkg/domain"
)

const maxHits = 1000

var indexMapping = map[string]any{
	"mappings": map[string]any{
		"properties": map[string]any{
			"title":       map[string]any{"type": "text", "fields": map[string]any{"keyword": map[string]any{"type": "keyword"}}},
			"location":    map[string]any{"type": "text", "fields": map[string]any{"keyword": map[string]any{"type": "keyword"}}},
			"type":        map[string]any{"type": "keyword"},
			"status":      map[string]any{"type": "keyword"},
			"skillsLower": map[string]any{"type": "keyword"},
			"postedAt":    map[string]any{"type": "date"},
			"salary": map[string]any{"properties": map[string]any{
				"min": map[string]any{"type": "integer"},
				"max": map[string]any{"type": "integer"},
			}},
		},
	},
}

// document is the indexed shape: the job plus fields that make
// case-insensitive matching possible on keyword fields.
type document struct {
	models.Job
	SkillsLower []string `json:"skillsLower"`
}

type Elastic struct {
	client *elasticsearch.Client
	index  string
}

// ElasticConfig mirrors config.SearchConfig.
type ElasticConfig struct {
	Addresses []string
	Username  string
	Password  string
	Index     string
	Transport http.RoundTripper
}

func NewElastic(cfg ElasticConfig) (*Elastic, error) {
	esCfg := elasticsearch.Config{Addresses: cfg.Addresses, Transport: cfg.Transport}
	if cfg.Username != "" {
		esCfg.Username = cfg.Username
		esCfg.Password = cfg.Password
	}
	client, err := elasticsearch.NewClient(esCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create elasticsearch client: %w", err)
	}
	index := cfg.Index
	if index == "" {
		index = "jobs"
	}
	return &Elastic{client: client, index: index}, nil
}

// EnsureIndex creates the index with its mapping when missing.
func (e *Elastic) EnsureIndex(ctx context.Context) error {
	res, err := e.client.Indices.Exists([]string{e.index}, e.client.Indices.Exists.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("check index: %w", err)
	}
	res.Body.Close()
	if res.StatusCode == http.StatusOK {
		return nil
	}
	if res.StatusCode != http.StatusNotFound {
		return fmt.Errorf("check index: %s", res.Status())
	}

	body, err := json.Marshal(indexMapping)
	if err != nil {
		return err
	}
	res, err = e.client.Indices.Create(e.index,
		e.client.Indices.Create.WithContext(ctx),
		e.client.Indices.Create.WithBody(bytes.NewReader(body)),
	)
	if err != nil {
		return fmt.Errorf("create index: %w", err)
	}
	return checkResponse(res, "create index")
}

func (e *Elastic) Index(ctx context.Context, job *models.Job) error {
	doc := document{Job: *job, SkillsLower: lowerAll(job.Skills)}
	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode job document: %w", err)
	}
	res, err := e.client.Index(e.index, bytes.NewReader(body),
		e.client.Index.WithContext(ctx),
		e.client.Index.WithDocumentID(job.ID.String()),
		e.client.Index.WithRefresh("true"),
	)
	if err != nil {
		return fmt.Errorf("index job: %w", err)
	}
	return checkResponse(res, "index job")
}

func (e *Elastic) Remove(ctx context.Context, jobID id.JobID) error {
	res, err := e.client.Delete(e.index, jobID.String(),
		e.client.Delete.WithContext(ctx),
		e.client.Delete.WithRefresh("true"),
	)
	if err != nil {
		return fmt.Errorf("remove job: %w", err)
	}
	if res.StatusCode == http.StatusNotFound {
		res.Body.Close()
		return nil
	}
	return checkResponse(res, "remove job")
}

type searchResponse struct {
	Hits struct {
		Hits []struct {
			Source document `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

func (e *Elastic) Search(ctx context.Context, q models.SearchQuery) ([]*models.Job, error) {
	body, err := json.Marshal(BuildQuery(q))
	if err != nil {
		return nil, fmt.Errorf("encode search query: %w", err)
	}
	size := maxHits
	req := esapi.SearchRequest{
		Index: []string{e.index},
		Body:  bytes.NewReader(body),
		Size:  &size,
	}
	res, err := req.Do(ctx, e.client)
	if err != nil {
		return nil, fmt.Errorf("search jobs: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, fmt.Errorf("search jobs: %s: %s", res.Status(), readSnippet(res.Body))
	}

	var parsed searchResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}
	out := make([]*models.Job, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		job := h.Source.Job
		out = append(out, &job)
	}
	return out, nil
}

// BuildQuery translates a SearchQuery into an Elasticsearch bool query
// with the same semantics as SearchQuery.Matches.
func BuildQuery(q models.SearchQuery) map[string]any {
	filters := []any{
		map[string]any{"term": map[string]any{"status": string(models.StatusActive)}},
	}
	if q.Title != "" {
		filters = append(filters, containsFold("title.keyword", q.Title))
	}
	if q.Location != "" {
		filters = append(filters, containsFold("location.keyword", q.Location))
	}
	if q.Type != "" {
		filters = append(filters, map[string]any{"term": map[string]any{"type": string(q.Type)}})
	}
	if q.MinSalary > 0 {
		filters = append(filters, map[string]any{"range": map[string]any{"salary.min": map[string]any{"gte": q.MinSalary}}})
	}
	if len(q.Skills) > 0 {
		filters = append(filters, map[string]any{"terms": map[string]any{"skillsLower": lowerAll(q.Skills)}})
	}
	return map[string]any{
		"query": map[string]any{"bool": map[string]any{"filter": filters}},
		"sort":  []any{map[string]any{"postedAt": map[string]any{"order": "desc"}}},
	}
}

func containsFold(field, value string) map[string]any {
	return map[string]any{"wildcard": map[string]any{field: map[string]any{
		"value":            "*" + escapeWildcard(value) + "*",
		"case_insensitive": true,
	}}}
}

var wildcardEscaper = strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`)

func escapeWildcard(s string) string { return wildcardEscaper.Replace(s) }

func lowerAll(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = strings.ToLower(v)
	}
	return out
}

func checkResponse(res *esapi.Response, op string) error {
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("%s: %s: %s", op, res.Status(), readSnippet(res.Body))
	}
	return nil
}

func readSnippet(r io.Reader) string {
	b, _ := io.ReadAll(io.LimitReader(r, 512))
	return string(b)
}
