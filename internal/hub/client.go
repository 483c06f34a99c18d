// Package hub pushes the local dataset to a Hugging Face dataset repository.
package hub

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultEndpoint is the public Hugging Face Hub.
const DefaultEndpoint = "https://huggingface.co"

// Client is the remote side of an upload. Implementations must be safe to
// call sequentially; the uploader never issues concurrent requests.
type Client interface {
	// Whoami validates the credential and returns the account name.
	Whoami(ctx context.Context) (string, error)
	// UploadFile commits data to pathInRepo inside the dataset repository,
	// overwriting any previous content at that path.
	UploadFile(ctx context.Context, repoID, pathInRepo string, data []byte) error
}

// HTTPClient talks to the Hub REST API with a bearer token.
type HTTPClient struct {
	endpoint string
	token    string
	client   *http.Client
}

// NewHTTPClient creates a client for the given endpoint and credential.
// An empty endpoint selects the public Hub.
func NewHTTPClient(endpoint, token string, timeout time.Duration) *HTTPClient {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &HTTPClient{
		endpoint: endpoint,
		token:    token,
		client:   &http.Client{Timeout: timeout},
	}
}

// Whoami calls GET /api/whoami-v2 to validate the token.
func (c *HTTPClient) Whoami(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"/api/whoami-v2", nil)
	if err != nil {
		return "", fmt.Errorf("hub: build whoami request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("hub: whoami: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("hub: whoami: %s", readAPIError(resp))
	}
	var body struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("hub: parse whoami response: %w", err)
	}
	return body.Name, nil
}

// UploadFile commits a single file to the main branch of the dataset repo
// via the NDJSON commit endpoint. Re-uploading the same path overwrites it.
func (c *HTTPClient) UploadFile(ctx context.Context, repoID, pathInRepo string, data []byte) error {
	var payload bytes.Buffer
	enc := json.NewEncoder(&payload)
	if err := enc.Encode(commitLine{
		Key: "header",
		Value: map[string]string{
			"summary": "Upload " + pathInRepo,
		},
	}); err != nil {
		return fmt.Errorf("hub: encode commit header: %w", err)
	}
	if err := enc.Encode(commitLine{
		Key: "file",
		Value: map[string]string{
			"path":     pathInRepo,
			"content":  base64.StdEncoding.EncodeToString(data),
			"encoding": "base64",
		},
	}); err != nil {
		return fmt.Errorf("hub: encode commit file: %w", err)
	}

	url := fmt.Sprintf("%s/api/datasets/%s/commit/main", c.endpoint, repoID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &payload)
	if err != nil {
		return fmt.Errorf("hub: build commit request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/x-ndjson")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("hub: commit %s: %w", pathInRepo, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("hub: commit %s: %s", pathInRepo, readAPIError(resp))
	}
	return nil
}

type commitLine struct {
	Key   string            `json:"key"`
	Value map[string]string `json:"value"`
}

// readAPIError extracts the error text the Hub returns, falling back to the
// HTTP status.
func readAPIError(resp *http.Response) string {
	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
	if err == nil {
		var parsed struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(body, &parsed) == nil && parsed.Error != "" {
			return fmt.Sprintf("HTTP %d: %s", resp.StatusCode, parsed.Error)
		}
	}
	return fmt.Sprintf("HTTP %d", resp.StatusCode)
}
