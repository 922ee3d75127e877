package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/dryerd/dryerd/pkg/types"
)

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// Health checks if the server is healthy
func (c *Client) Health() error {
	resp, err := c.get("/api/v1/health")
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("server unhealthy: status %d", resp.StatusCode)
	}

	return nil
}

// Status returns the server status
func (c *Client) Status() (*types.ServerStatus, error) {
	resp, err := c.get("/api/v1/status")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var status types.ServerStatus
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return nil, err
	}

	return &status, nil
}

// Predict runs a prediction and returns the structured result
func (c *Client) Predict(q string) (*types.PredictionResult, error) {
	resp, err := c.get("/api/v1/predict?q=" + url.QueryEscape(q))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var apiErr struct {
			Error string `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Error != "" {
			return nil, fmt.Errorf("prediction failed: %s", apiErr.Error)
		}
		return nil, fmt.Errorf("prediction failed: status %d", resp.StatusCode)
	}

	var result types.PredictionResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}

	return &result, nil
}

// PredictText runs a prediction against the public endpoint and
// returns the plain-text body
func (c *Client) PredictText(q string) (string, error) {
	resp, err := c.get("/predict?q=" + url.QueryEscape(q))
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("prediction failed: status %d: %s", resp.StatusCode, string(body))
	}

	return string(body), nil
}

// ListModels returns all cached model artifacts
func (c *Client) ListModels() ([]types.ModelInfo, error) {
	resp, err := c.get("/api/v1/models")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var result struct {
		Models []types.ModelInfo `json:"models"`
		Count  int               `json:"count"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}

	return result.Models, nil
}

// WarmModels asks the server to resolve its models into the cache
func (c *Client) WarmModels(force bool) error {
	payload := map[string]interface{}{"force": force}

	resp, err := c.post("/api/v1/models/warm", payload)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("warm-up failed: status %d", resp.StatusCode)
	}

	return nil
}

// EvictModel removes a cached artifact
func (c *Client) EvictModel(name string) error {
	req, err := http.NewRequest(http.MethodDelete, c.baseURL+"/api/v1/models/"+url.PathEscape(name), nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("model not cached: %s", name)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("evict failed: status %d", resp.StatusCode)
	}

	return nil
}

func (c *Client) get(path string) (*http.Response, error) {
	resp, err := c.httpClient.Get(c.baseURL + path)
	if err != nil {
		return nil, fmt.Errorf("failed to reach server: %w", err)
	}
	return resp, nil
}

func (c *Client) post(path string, payload interface{}) (*http.Response, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(data)
	}

	resp, err := c.httpClient.Post(c.baseURL+path, "application/json", body)
	if err != nil {
		return nil, fmt.Errorf("failed to reach server: %w", err)
	}
	return resp, nil
}
