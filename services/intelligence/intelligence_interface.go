package intelligence

import (
	"context"

	"onetracker/models"
)

// Match is one vector-search hit with its similarity score and stored text.
type Match struct {
	Score float64
	Text  string
}

// Embedder turns a text into its embedding vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// VectorIndex returns the nearest stored documents for a query vector.
type VectorIndex interface {
	Query(ctx context.Context, vector []float32, topK int) ([]Match, error)
}

// Generator produces a reply from a system instruction plus the conversation
// history, newest turn last.
type Generator interface {
	Generate(ctx context.Context, system string, history []models.ChatTurn) (string, error)
}
