package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/noah-isme/onboard-go-api/internal/models"
)

// Document carries the raw upload handed to the classifier.
type Document struct {
	Data     []byte
	MimeType string
}

// Classification is the structured answer extracted from the model response.
type Classification struct {
	DocumentType string  `json:"document_type"`
	Confidence   float64 `json:"confidence"`
}

// Classifier describes an AI model capable of classifying academic documents.
type Classifier interface {
	Classify(ctx context.Context, doc Document) (Classification, error)
}

// ClassifierError indicates every candidate model failed to return a response.
// Parse problems never produce this error; only transport-level failures do.
type ClassifierError struct {
	LastErr error
}

func (e *ClassifierError) Error() string {
	if e.LastErr == nil {
		return "all classifier models failed"
	}
	return fmt.Sprintf("all classifier models failed: %v", e.LastErr)
}

func (e *ClassifierError) Unwrap() error { return e.LastErr }

// ClassificationPrompt enumerates the closed document-type set for the model.
func ClassificationPrompt() string {
	builder := strings.Builder{}
	builder.WriteString("You are an AI Academic Document Classification System.\n\n")
	builder.WriteString("Analyze the uploaded document and determine its document type.\n\n")
	builder.WriteString("Do NOT extract detailed data.\nDo NOT summarize.\nOnly classify.\n\n")
	builder.WriteString("Possible types:\n")
	for _, docType := range models.KnownDocumentTypes {
		builder.WriteString("- ")
		builder.WriteString(string(docType))
		builder.WriteString("\n")
	}
	builder.WriteString("- ")
	builder.WriteString(string(models.DocOther))
	builder.WriteString("\n\nReturn strictly valid JSON:\n\n")
	builder.WriteString(`{"document_type": "string", "confidence": number (0-100)}`)
	return builder.String()
}

// ParseClassification extracts the structured answer from free-form model
// output. Fenced code blocks are stripped before parsing. A response that
// still fails to parse downgrades to {Other, 0} so the pipeline always has a
// usable classification; the raw text is returned for logging.
func ParseClassification(content string) Classification {
	cleaned := strings.ReplaceAll(content, "```json", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")
	cleaned = strings.TrimSpace(cleaned)

	var parsed Classification
	if err := json.Unmarshal([]byte(cleaned), &parsed); err != nil || parsed.DocumentType == "" {
		return Classification{DocumentType: string(models.DocOther), Confidence: 0}
	}

	if parsed.Confidence < 0 {
		parsed.Confidence = 0
	}
	if parsed.Confidence > 100 {
		parsed.Confidence = 100
	}

	return parsed
}
