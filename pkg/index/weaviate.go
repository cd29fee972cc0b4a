package index

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/weaviate/weaviate-go-client/v5/weaviate"
	"github.com/weaviate/weaviate-go-client/v5/weaviate/auth"
	"github.com/weaviate/weaviate-go-client/v5/weaviate/graphql"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const tracerName = "redress/index"

type weaviateBackend struct {
	client *weaviate.Client
	http   *http.Client
}

func weaviateConnector(cfg *Config) Connector {
	return func(ctx context.Context) (Backend, error) {
		ctx, span := otel.Tracer(tracerName).Start(ctx, "index.connect")
		defer span.End()

		u, err := url.Parse(cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("parse url: %w", err)
		}

		httpClient := &http.Client{Timeout: cfg.TimeoutDuration()}

		wcfg := weaviate.Config{
			Host:             u.Host,
			Scheme:           u.Scheme,
			Headers:          cfg.Headers(),
			ConnectionClient: httpClient,
		}
		if cfg.APIKey != "" {
			wcfg.AuthConfig = auth.ApiKey{Value: cfg.APIKey}
		}

		client, err := weaviate.NewClient(wcfg)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "create client failed")
			return nil, fmt.Errorf("create weaviate client: %w", err)
		}

		ready, err := client.Misc().ReadyChecker().Do(ctx)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "ready check failed")
			return nil, fmt.Errorf("ready check: %w", err)
		}
		if !ready {
			span.SetStatus(codes.Error, "not ready")
			return nil, fmt.Errorf("weaviate at %s is not ready", u.Host)
		}

		span.SetStatus(codes.Ok, "connected")
		return &weaviateBackend{client: client, http: httpClient}, nil
	}
}

func (w *weaviateBackend) Hybrid(ctx context.Context, q Query) ([]Hit, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "index.hybrid")
	defer span.End()

	span.SetAttributes(
		attribute.String("index.collection", q.Collection),
		attribute.Float64("index.alpha", float64(q.Alpha)),
		attribute.Int("index.limit", q.Limit),
		attribute.String("index.rerank_property", q.RerankProperty),
	)

	hybrid := w.client.GraphQL().
		HybridArgumentBuilder().
		WithQuery(q.Text).
		WithAlpha(q.Alpha)

	fields := make([]graphql.Field, 0, len(q.Properties)+1)
	for _, p := range q.Properties {
		fields = append(fields, graphql.Field{Name: p})
	}
	fields = append(fields, graphql.Field{Name: additionalSelection(q)})

	get := w.client.GraphQL().Get().
		WithClassName(q.Collection).
		WithFields(fields...).
		WithHybrid(hybrid)

	if q.Limit > 0 {
		get = get.WithLimit(q.Limit)
	}

	resp, err := get.Do(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "query failed")
		return nil, fmt.Errorf("%w: hybrid query: %w", ErrUnavailable, err)
	}

	if len(resp.Errors) > 0 {
		span.SetStatus(codes.Error, "graphql error")
		return nil, fmt.Errorf("%w: %s", ErrUnavailable, resp.Errors[0].Message)
	}

	var data any
	if resp.Data != nil {
		data = resp.Data["Get"]
	}

	hits, err := ParseHits(data, q.Collection)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "parse failed")
		return nil, err
	}

	span.SetAttributes(attribute.Int("index.hits", len(hits)))
	span.SetStatus(codes.Ok, "")
	return hits, nil
}

func (w *weaviateBackend) Close() error {
	w.http.CloseIdleConnections()
	return nil
}

func additionalSelection(q Query) string {
	var sb strings.Builder
	sb.WriteString("_additional { id score")
	if q.RerankProperty != "" {
		rq := q.RerankQuery
		if rq == "" {
			rq = q.Text
		}
		fmt.Fprintf(&sb, " rerank(property: %s query: %s) { score }",
			graphqlString(q.RerankProperty), graphqlString(rq))
	}
	sb.WriteString(" }")
	return sb.String()
}

func graphqlString(s string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.Encode(s)
	return strings.TrimSpace(buf.String())
}

// ParseHits extracts hits for collection from the "Get" section of a GraphQL
// response. A missing collection yields no hits; any other shape mismatch is
// reported as ErrMalformed.
func ParseHits(get any, collection string) ([]Hit, error) {
	if get == nil {
		return []Hit{}, nil
	}

	section, ok := get.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: Get is %T", ErrMalformed, get)
	}

	raw, ok := section[collection]
	if !ok || raw == nil {
		return []Hit{}, nil
	}

	objects, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: %s is %T", ErrMalformed, collection, raw)
	}

	hits := make([]Hit, 0, len(objects))
	for i, o := range objects {
		obj, ok := o.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: object %d is %T", ErrMalformed, i, o)
		}

		hit := Hit{Properties: make(map[string]any, len(obj))}
		for k, v := range obj {
			if k == "_additional" {
				continue
			}
			hit.Properties[k] = v
		}

		if add, ok := obj["_additional"].(map[string]any); ok {
			if id, ok := add["id"].(string); ok {
				hit.ID = id
			}
			hit.Score = number(add["score"])
			hit.RerankScore = rerankScore(add["rerank"])
		}

		hits = append(hits, hit)
	}

	return hits, nil
}

func rerankScore(v any) *float64 {
	switch r := v.(type) {
	case []any:
		if len(r) == 0 {
			return nil
		}
		if entry, ok := r[0].(map[string]any); ok {
			return number(entry["score"])
		}
	case map[string]any:
		return number(r["score"])
	}
	return nil
}

func number(v any) *float64 {
	switch n := v.(type) {
	case float64:
		return &n
	case float32:
		f := float64(n)
		return &f
	case json.Number:
		if f, err := n.Float64(); err == nil {
			return &f
		}
	case string:
		if f, err := strconv.ParseFloat(n, 64); err == nil {
			return &f
		}
	}
	return nil
}
