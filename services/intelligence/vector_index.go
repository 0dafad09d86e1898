package intelligence

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// VectorizeIndex queries a Cloudflare Vectorize index for nearest matches.
type VectorizeIndex struct {
	AccountID string
	APIToken  string
	IndexName string
	Client    *http.Client
}

func NewVectorizeIndex(accountID, apiToken, indexName string) *VectorizeIndex {
	return &VectorizeIndex{
		AccountID: accountID,
		APIToken:  apiToken,
		IndexName: indexName,
		Client:    &http.Client{Timeout: 30 * time.Second},
	}
}

type vectorQueryRequest struct {
	Vector         []float32 `json:"vector"`
	TopK           int       `json:"topK"`
	ReturnMetadata string    `json:"returnMetadata"`
}

type vectorQueryResponse struct {
	Result struct {
		Matches []struct {
			Score    float64 `json:"score"`
			Metadata struct {
				Text string `json:"text"`
			} `json:"metadata"`
		} `json:"matches"`
	} `json:"result"`
}

func (v *VectorizeIndex) Query(ctx context.Context, vector []float32, topK int) ([]Match, error) {
	url := fmt.Sprintf("https://api.cloudflare.com/client/v4/accounts/%s/vectorize/v2/indexes/%s/query",
		v.AccountID, v.IndexName)

	payload, err := json.Marshal(vectorQueryRequest{
		Vector:         vector,
		TopK:           topK,
		ReturnMetadata: "all",
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+v.APIToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := v.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("vector query failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("vector query returned status %d", resp.StatusCode)
	}

	var out vectorQueryResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode vector query response: %w", err)
	}

	matches := make([]Match, 0, len(out.Result.Matches))
	for _, m := range out.Result.Matches {
		matches = append(matches, Match{Score: m.Score, Text: m.Metadata.Text})
	}
	return matches, nil
}

// Vector is one embedding plus the metadata stored alongside it.
type Vector struct {
	ID       string         `json:"id"`
	Values   []float32      `json:"values"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

type vectorUpsertRequest struct {
	Vectors []Vector `json:"vectors"`
}

// Upsert writes vectors into the index, replacing any with the same id.
func (v *VectorizeIndex) Upsert(ctx context.Context, vectors []Vector) error {
	url := fmt.Sprintf("https://api.cloudflare.com/client/v4/accounts/%s/vectorize/v2/indexes/%s/upsert",
		v.AccountID, v.IndexName)

	payload, err := json.Marshal(vectorUpsertRequest{Vectors: vectors})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+v.APIToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := v.Client.Do(req)
	if err != nil {
		return fmt.Errorf("vector upsert failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("vector upsert returned status %d", resp.StatusCode)
	}
	return nil
}
