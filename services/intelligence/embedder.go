package intelligence

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const embeddingModel = "@cf/baai/bge-small-en-v1.5"

// WorkersAIEmbedder requests 384-dim embeddings from Cloudflare Workers AI.
type WorkersAIEmbedder struct {
	AccountID string
	APIToken  string
	Client    *http.Client
}

func NewWorkersAIEmbedder(accountID, apiToken string) *WorkersAIEmbedder {
	return &WorkersAIEmbedder{
		AccountID: accountID,
		APIToken:  apiToken,
		Client:    &http.Client{Timeout: 60 * time.Second},
	}
}

type embedRequest struct {
	Text []string `json:"text"`
}

type embedResponse struct {
	Result struct {
		Data [][]float32 `json:"data"`
	} `json:"result"`
}

func (e *WorkersAIEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vectors, err := e.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// EmbedBatch embeds several texts in one request, in input order. Used by the
// ingestion tool to keep request counts low.
func (e *WorkersAIEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	url := fmt.Sprintf("https://api.cloudflare.com/client/v4/accounts/%s/ai/run/%s",
		e.AccountID, embeddingModel)

	payload, err := json.Marshal(embedRequest{Text: texts})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+e.APIToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("embedding request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("embedding request returned status %d", resp.StatusCode)
	}

	var out embedResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode embedding response: %w", err)
	}
	if len(out.Result.Data) != len(texts) {
		return nil, fmt.Errorf("embedding response returned %d vectors for %d texts",
			len(out.Result.Data), len(texts))
	}
	return out.Result.Data, nil
}
