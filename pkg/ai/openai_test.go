package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type chatStubResponse struct {
	status  int
	content string
}

// chatStubServer serves an OpenAI-compatible chat completions endpoint,
// answering per-model from the responses table.
func chatStubServer(t *testing.T, responses map[string]chatStubResponse, calls *[]string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Model string `json:"model"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		*calls = append(*calls, req.Model)

		resp, ok := responses[req.Model]
		if !ok || resp.status >= 400 {
			status := resp.status
			if status == 0 {
				status = http.StatusInternalServerError
			}
			w.WriteHeader(status)
			w.Write([]byte(`{"error": {"message": "model overloaded"}}`))
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]interface{}{"role": "assistant", "content": resp.content}},
			},
		})
	}))
}

func newTestClassifier(t *testing.T, baseURL string, models []string) *VisionClassifier {
	t.Helper()
	classifier, err := NewVisionClassifier(VisionConfig{
		APIKey:  "test-key",
		BaseURL: baseURL + "/v1",
		Models:  models,
		Timeout: 5 * time.Second,
	})
	require.NoError(t, err)
	return classifier
}

func TestVisionClassifierFirstModelWins(t *testing.T) {
	var calls []string
	server := chatStubServer(t, map[string]chatStubResponse{
		"model-a": {status: 200, content: `{"document_type": "Aadhaar Card", "confidence": 91}`},
	}, &calls)
	defer server.Close()

	classifier := newTestClassifier(t, server.URL, []string{"model-a", "model-b"})

	result, err := classifier.Classify(context.Background(), Document{Data: []byte("img"), MimeType: "image/png"})
	require.NoError(t, err)

	require.Equal(t, "Aadhaar Card", result.DocumentType)
	require.Equal(t, 91.0, result.Confidence)
	require.Equal(t, []string{"model-a"}, calls)
}

func TestVisionClassifierFallsBackOnFailure(t *testing.T) {
	var calls []string
	server := chatStubServer(t, map[string]chatStubResponse{
		"model-a": {status: 503},
		"model-b": {status: 200, content: "```json\n{\"document_type\": \"PAN Card\", \"confidence\": 84}\n```"},
	}, &calls)
	defer server.Close()

	classifier := newTestClassifier(t, server.URL, []string{"model-a", "model-b"})

	result, err := classifier.Classify(context.Background(), Document{Data: []byte("img"), MimeType: "image/png"})
	require.NoError(t, err)

	require.Equal(t, "PAN Card", result.DocumentType)
	require.Equal(t, []string{"model-a", "model-b"}, calls)
}

func TestVisionClassifierAllModelsFailed(t *testing.T) {
	var calls []string
	server := chatStubServer(t, map[string]chatStubResponse{}, &calls)
	defer server.Close()

	classifier := newTestClassifier(t, server.URL, []string{"model-a", "model-b"})

	_, err := classifier.Classify(context.Background(), Document{Data: []byte("img"), MimeType: "image/png"})

	var classifierErr *ClassifierError
	require.ErrorAs(t, err, &classifierErr)
	require.Len(t, calls, 2)
}

func TestVisionClassifierUnparseableAnswerDowngrades(t *testing.T) {
	var calls []string
	server := chatStubServer(t, map[string]chatStubResponse{
		"model-a": {status: 200, content: "This looks like some kind of certificate."},
	}, &calls)
	defer server.Close()

	classifier := newTestClassifier(t, server.URL, []string{"model-a"})

	result, err := classifier.Classify(context.Background(), Document{Data: []byte("img"), MimeType: "image/png"})
	require.NoError(t, err)

	require.Equal(t, "Other", result.DocumentType)
	require.Zero(t, result.Confidence)
}

func TestNewVisionClassifierRequiresAPIKey(t *testing.T) {
	_, err := NewVisionClassifier(VisionConfig{})
	require.Error(t, err)
}
