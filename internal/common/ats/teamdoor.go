// internal/common/ats/teamdoor.go
package ats

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// TeamdoorClient pushes analysis outcomes back to the Teamdoor ATS so
// recruiters see scores without leaving their tracking system.
type TeamdoorClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// CandidateStatus is the payload Teamdoor accepts on its status endpoint.
type CandidateStatus struct {
	ExternalID string  `json:"external_id"`
	Email      string  `json:"email,omitempty"`
	Stage      string  `json:"stage"`
	MatchScore float64 `json:"match_score"`
	Verdict    string  `json:"verdict"`
	Summary    string  `json:"summary,omitempty"`
}

type statusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

func NewTeamdoorClient(baseURL, apiKey string, timeout time.Duration) *TeamdoorClient {
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &TeamdoorClient{
		apiKey:  apiKey,
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// PushStatus updates a candidate's stage and score in Teamdoor.
func (c *TeamdoorClient) PushStatus(ctx context.Context, status *CandidateStatus) error {
	url := fmt.Sprintf("%s/api/v1/candidates/%s/status", c.baseURL, status.ExternalID)

	jsonData, err := json.Marshal(status)
	if err != nil {
		return fmt.Errorf("failed to marshal status: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("failed to push status (status %d): %s", resp.StatusCode, string(body))
	}

	if len(body) > 0 {
		var sr statusResponse
		if err := json.Unmarshal(body, &sr); err == nil && sr.Status != "" && sr.Status != "success" {
			return fmt.Errorf("status push rejected: %s", sr.Message)
		}
	}

	return nil
}
