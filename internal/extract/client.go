// Package extract talks to the model server: a sidecar exposing the face
// detection + embedding pipeline and the mask classifier over HTTP.
package extract

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"
)

const defaultBaseURL = "http://localhost:8000"

// Client computes face embeddings and mask checks using the model server.
type Client struct {
	baseURL string
	dim     int
	client  *http.Client
}

// NewClient creates a model server client. dim is the expected embedding
// dimension; responses with a different dimension are rejected.
func NewClient(baseURL string, dim int, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		dim:     dim,
		client:  &http.Client{Timeout: timeout},
	}
}

// embedResponse represents the response from the embedding endpoint.
// A detected face yields a populated embedding; no face yields an empty one.
type embedResponse struct {
	Embedding []float32 `json:"embedding"`
	Dim       int       `json:"dim"`
}

type maskResponse struct {
	Mask bool `json:"mask"`
}

// postMultipartImage constructs a multipart form with the image data and posts
// it to the given endpoint. The part carries an explicit Content-Type header
// based on magic byte detection.
func (c *Client) postMultipartImage(ctx context.Context, endpoint string, imageData []byte) ([]byte, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="file"; filename="image.jpg"`)
	h.Set("Content-Type", detectMIMEType(imageData))
	part, err := writer.CreatePart(h)
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}

	if _, err := part.Write(imageData); err != nil {
		return nil, fmt.Errorf("failed to write image data: %w", err)
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, &buf)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("model server error (status %d): %s", resp.StatusCode, string(body))
	}

	return body, nil
}

// Embed computes the embedding of the face in the image.
// Returns (nil, nil) when the model server finds no usable face.
func (c *Client) Embed(ctx context.Context, imageData []byte) ([]float32, error) {
	body, err := c.postMultipartImage(ctx, "/embed/face", imageData)
	if err != nil {
		return nil, err
	}

	var embResp embedResponse
	if err := json.Unmarshal(body, &embResp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if len(embResp.Embedding) == 0 {
		return nil, nil
	}
	if c.dim > 0 && len(embResp.Embedding) != c.dim {
		return nil, fmt.Errorf("model server returned %d-dimensional embedding, want %d", len(embResp.Embedding), c.dim)
	}

	return embResp.Embedding, nil
}

// IsMasked reports whether the face in the image wears a mask.
func (c *Client) IsMasked(ctx context.Context, imageData []byte) (bool, error) {
	body, err := c.postMultipartImage(ctx, "/check-mask", imageData)
	if err != nil {
		return false, err
	}

	var mResp maskResponse
	if err := json.Unmarshal(body, &mResp); err != nil {
		return false, fmt.Errorf("failed to parse response: %w", err)
	}

	return mResp.Mask, nil
}
