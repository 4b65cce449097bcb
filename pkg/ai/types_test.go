package ai

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/onboard-go-api/internal/models"
)

func TestParseClassificationPlainJSON(t *testing.T) {
	parsed := ParseClassification(`{"document_type": "Aadhaar Card", "confidence": 92}`)
	require.Equal(t, "Aadhaar Card", parsed.DocumentType)
	require.Equal(t, 92.0, parsed.Confidence)
}

func TestParseClassificationStripsCodeFences(t *testing.T) {
	content := "```json\n{\"document_type\": \"PAN Card\", \"confidence\": 77}\n```"
	parsed := ParseClassification(content)
	require.Equal(t, "PAN Card", parsed.DocumentType)
	require.Equal(t, 77.0, parsed.Confidence)
}

func TestParseClassificationStripsBareFences(t *testing.T) {
	content := "```\n{\"document_type\": \"10th Marksheet\", \"confidence\": 81}\n```"
	parsed := ParseClassification(content)
	require.Equal(t, "10th Marksheet", parsed.DocumentType)
}

func TestParseClassificationDowngradesGarbage(t *testing.T) {
	for _, content := range []string{
		"I think this is an Aadhaar card.",
		"",
		"{\"confidence\": 90}",
		"{not json at all",
	} {
		parsed := ParseClassification(content)
		require.Equal(t, string(models.DocOther), parsed.DocumentType, "content %q", content)
		require.Zero(t, parsed.Confidence)
	}
}

func TestParseClassificationClampsConfidence(t *testing.T) {
	parsed := ParseClassification(`{"document_type": "PAN Card", "confidence": 250}`)
	require.Equal(t, 100.0, parsed.Confidence)

	parsed = ParseClassification(`{"document_type": "PAN Card", "confidence": -5}`)
	require.Zero(t, parsed.Confidence)
}

func TestClassificationPromptEnumeratesAllTypes(t *testing.T) {
	prompt := ClassificationPrompt()
	for _, docType := range models.KnownDocumentTypes {
		require.Contains(t, prompt, "- "+string(docType))
	}
	require.Contains(t, prompt, "- Other")
	require.Contains(t, prompt, `"document_type"`)
}

func TestClassifierErrorUnwraps(t *testing.T) {
	cause := errors.New("connection refused")
	err := &ClassifierError{LastErr: cause}

	require.ErrorIs(t, err, cause)
	require.Contains(t, err.Error(), "connection refused")
	require.Equal(t, "all classifier models failed", (&ClassifierError{}).Error())
}
