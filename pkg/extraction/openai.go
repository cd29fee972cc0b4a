package extraction

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"reflect"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sashabaranov/go-openai/jsonschema"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/JaimeStill/redress/pkg/formatting"
)

type openAIExtractor struct {
	client      *openai.Client
	model       string
	temperature float32
	logger      *slog.Logger
}

func newOpenAI(cfg *Config, logger *slog.Logger) (*openAIExtractor, error) {
	var clientCfg openai.ClientConfig

	switch cfg.Provider {
	case ProviderAzure:
		clientCfg = openai.DefaultAzureConfig(cfg.Token, cfg.BaseURL)
		clientCfg.APIVersion = cfg.APIVersion
	case ProviderOpenAI, ProviderOllama:
		clientCfg = openai.DefaultConfig(cfg.Token)
		if cfg.BaseURL != "" {
			clientCfg.BaseURL = cfg.BaseURL
		}
	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.Provider)
	}

	clientCfg.HTTPClient = &http.Client{Timeout: cfg.TimeoutDuration()}

	return &openAIExtractor{
		client:      openai.NewClientWithConfig(clientCfg),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		logger:      logger.With("system", "extraction", "provider", cfg.Provider, "model", cfg.Model),
	}, nil
}

func (o *openAIExtractor) Extract(ctx context.Context, req Request, target any) error {
	shape, err := schemaFor(target)
	if err != nil {
		return err
	}

	ctx, span := otel.Tracer("redress/extraction").Start(ctx, "extraction.extract")
	defer span.End()
	span.SetAttributes(
		attribute.String("extraction.schema", req.Name),
		attribute.String("extraction.model", o.model),
	)

	messages := make([]openai.ChatCompletionMessage, 0, 2)
	if req.System != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.System,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: req.Prompt,
	})

	start := time.Now()
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       o.model,
		Messages:    messages,
		Temperature: o.temperature,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   req.Name,
				Schema: shape,
				Strict: true,
			},
		},
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "completion failed")
		return classify(err)
	}

	if len(resp.Choices) == 0 {
		span.SetStatus(codes.Error, "no choices")
		return fmt.Errorf("%w: no choices returned", ErrMalformed)
	}

	msg := resp.Choices[0].Message
	if msg.Refusal != "" {
		span.SetStatus(codes.Error, "refused")
		return fmt.Errorf("%w: model refused: %s", ErrMalformed, msg.Refusal)
	}

	if err := formatting.ParseInto(msg.Content, target); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "parse failed")
		return fmt.Errorf("%w: %w", ErrMalformed, err)
	}

	o.logger.DebugContext(ctx, "extraction complete",
		"schema", req.Name,
		"finish_reason", resp.Choices[0].FinishReason,
		"duration", time.Since(start),
	)
	span.SetStatus(codes.Ok, "")
	return nil
}

func schemaFor(target any) (*jsonschema.Definition, error) {
	t := reflect.TypeOf(target)
	if t == nil || t.Kind() != reflect.Pointer || reflect.ValueOf(target).IsNil() {
		return nil, ErrInvalidTarget
	}
	if t.Elem().Kind() != reflect.Struct {
		return nil, ErrInvalidTarget
	}

	zero := reflect.New(t.Elem()).Elem().Interface()
	shape, err := jsonschema.GenerateSchemaForType(zero)
	if err != nil {
		return nil, fmt.Errorf("generate schema: %w", err)
	}
	return shape, nil
}

// classify wraps every transport and API failure as ErrUnavailable.
func classify(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("%w: status %d: %s", ErrUnavailable, apiErr.HTTPStatusCode, apiErr.Message)
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return fmt.Errorf("%w: status %d: %w", ErrUnavailable, reqErr.HTTPStatusCode, reqErr.Err)
	}

	return fmt.Errorf("%w: %w", ErrUnavailable, err)
}
