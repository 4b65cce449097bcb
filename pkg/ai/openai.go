package ai

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// GeminiBaseURL is the OpenAI-compatible endpoint for Google's Gemini models.
const GeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta/openai/"

var (
	classifyDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "onboard",
		Subsystem: "classifier",
		Name:      "request_duration_seconds",
		Help:      "Duration of document classification requests",
	}, []string{"model"})

	classifyFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "onboard",
		Subsystem: "classifier",
		Name:      "request_failures_total",
		Help:      "Number of failed document classification requests",
	}, []string{"model"})
)

// VisionConfig defines configuration options for the vision classifier.
type VisionConfig struct {
	APIKey  string
	BaseURL string
	Models  []string
	Timeout time.Duration
	Logger  zerolog.Logger
}

// VisionClassifier implements Classifier against any OpenAI-compatible
// chat-completions API that accepts image parts, including Gemini.
type VisionClassifier struct {
	client *openai.Client
	cfg    VisionConfig
	tracer trace.Tracer
	logger zerolog.Logger
}

// NewVisionClassifier builds a classifier using the provided configuration.
func NewVisionClassifier(cfg VisionConfig) (*VisionClassifier, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("classifier api key is required")
	}

	if len(cfg.Models) == 0 {
		cfg.Models = []string{"gemini-2.0-flash"}
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = 25 * time.Second
	}

	tracer := otel.Tracer("github.com/noah-isme/onboard-go-api/pkg/ai/vision")
	logger := cfg.Logger
	if logger.GetLevel() == zerolog.Disabled {
		logger = zerolog.Nop()
	}

	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}
	client := openai.NewClientWithConfig(config)

	return &VisionClassifier{
		client: client,
		cfg:    cfg,
		tracer: tracer,
		logger: logger.With().Str("component", "vision_classifier").Logger(),
	}, nil
}

// Classify sends the document to each candidate model in order; the first
// non-empty response wins. When every model fails the returned error is a
// *ClassifierError carrying the last failure.
func (c *VisionClassifier) Classify(parent context.Context, doc Document) (Classification, error) {
	ctx, span := c.tracer.Start(parent, "classifier.classify", trace.WithAttributes(
		attribute.String("classifier.mime_type", doc.MimeType),
		attribute.Int("classifier.size_bytes", len(doc.Data)),
	))
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	dataURI := fmt.Sprintf("data:%s;base64,%s", doc.MimeType, base64.StdEncoding.EncodeToString(doc.Data))

	var lastErr error
	for _, model := range c.cfg.Models {
		content, err := c.complete(ctx, model, dataURI)
		if err != nil {
			c.logger.Warn().Err(err).Str("model", model).Msg("classifier model failed")
			classifyFailures.WithLabelValues(model).Inc()
			lastErr = err
			continue
		}

		if strings.TrimSpace(content) == "" {
			lastErr = fmt.Errorf("model %s returned an empty response", model)
			classifyFailures.WithLabelValues(model).Inc()
			continue
		}

		result := ParseClassification(content)
		if result.DocumentType == "Other" && result.Confidence == 0 {
			c.logger.Warn().Str("model", model).Str("raw", content).Msg("classifier response not parseable, downgraded")
		}

		span.SetAttributes(
			attribute.String("classifier.model", model),
			attribute.String("classifier.document_type", result.DocumentType),
			attribute.Float64("classifier.confidence", result.Confidence),
		)
		return result, nil
	}

	err := &ClassifierError{LastErr: lastErr}
	span.RecordError(err)
	span.SetStatus(codes.Error, "all models failed")
	return Classification{}, err
}

func (c *VisionClassifier) complete(ctx context.Context, model, dataURI string) (string, error) {
	start := time.Now()
	defer func() {
		classifyDuration.WithLabelValues(model).Observe(time.Since(start).Seconds())
	}()

	request := openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{
						Type: openai.ChatMessagePartTypeText,
						Text: ClassificationPrompt(),
					},
					{
						Type:     openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{URL: dataURI},
					},
				},
			},
		},
	}

	resp, err := c.client.CreateChatCompletion(ctx, request)
	if err != nil {
		return "", fmt.Errorf("classify with %s: %w", model, err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices returned from %s", model)
	}

	return resp.Choices[0].Message.Content, nil
}
