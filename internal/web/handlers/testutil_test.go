package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kozaktomas/face-checkin/internal/checkin"
	"github.com/kozaktomas/face-checkin/internal/config"
	"github.com/kozaktomas/face-checkin/internal/store/mock"
)

// stubModel fakes the model server for handler tests.
type stubModel struct {
	embeddings map[string][]float32
	masked     map[string]bool
}

func (s *stubModel) Embed(ctx context.Context, imageData []byte) ([]float32, error) {
	vec, ok := s.embeddings[string(imageData)]
	if !ok {
		return nil, nil
	}
	return vec, nil
}

func (s *stubModel) IsMasked(ctx context.Context, imageData []byte) (bool, error) {
	return s.masked[string(imageData)], nil
}

// testConfig creates a minimal config for testing
func testConfig() *config.Config {
	return &config.Config{
		Mask: config.MaskConfig{Enabled: true},
		Matching: config.MatchingConfig{
			RecognitionThreshold: 0.70,
			DuplicateThreshold:   0.70,
		},
	}
}

// newTestHandler wires a handler to a real service over a mock store.
func newTestHandler(t *testing.T, st *mock.Store, model *stubModel) *CheckinHandler {
	t.Helper()
	cfg := testConfig()
	svc, err := checkin.NewService(cfg, st, model, model)
	if err != nil {
		t.Fatalf("failed to create service: %v", err)
	}
	return NewCheckinHandler(cfg, svc)
}

// multipartRequest builds a multipart request with form fields and file parts.
func multipartRequest(t *testing.T, path string, fields map[string]string, files map[string][][]byte) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			t.Fatalf("failed to write field %q: %v", key, err)
		}
	}
	for name, contents := range files {
		for _, data := range contents {
			part, err := writer.CreateFormFile(name, "image.jpg")
			if err != nil {
				t.Fatalf("failed to create file part: %v", err)
			}
			if _, err := part.Write(data); err != nil {
				t.Fatalf("failed to write file part: %v", err)
			}
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("failed to close multipart writer: %v", err)
	}

	req := httptest.NewRequest("POST", path, &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func assertStatusCode(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Errorf("expected status %d, got %d (body: %s)", want, rec.Code, rec.Body.String())
	}
}

func assertJSONError(t *testing.T, rec *httptest.ResponseRecorder, contains string) {
	t.Helper()
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not JSON: %v", err)
	}
	if body["error"] == "" {
		t.Fatalf("expected error field in response, got %v", body)
	}
	if contains != "" && !bytes.Contains([]byte(body["error"]), []byte(contains)) {
		t.Errorf("expected error containing %q, got %q", contains, body["error"])
	}
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("failed to decode response %q: %v", rec.Body.String(), err)
	}
}
