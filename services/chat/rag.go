package chat

import (
	"context"
	"fmt"
	"strings"

	"onetracker/models"
	"onetracker/services/intelligence"
	"onetracker/utils"

	"go.uber.org/zap"
)

const (
	ragTopK           = 5
	ragScoreThreshold = 0.68
	ragContextChars   = 500
	ragHistoryWindow  = 12
)

const systemPromptTemplate = `You are OneTracker AI assistant.
Only answer OneTracker related queries.
Use documentation context only if relevant.
If unsure, say so politely.

Context:
%s

Never simulate bookings.`

// Responder answers knowledge-base questions by augmenting the generative
// model's prompt with retrieved documentation context. Every upstream failure
// degrades locally: a missing vector means no retrieval, a retrieval failure
// means empty context, and a generation failure yields the fixed fallback
// reply. Respond never returns an error to the caller.
type Responder struct {
	Embedder  intelligence.Embedder
	Index     intelligence.VectorIndex
	Generator intelligence.Generator
}

// Respond appends the user turn, answers it, appends the assistant turn and
// returns the reply.
func (r *Responder) Respond(ctx context.Context, session *models.Session, input string) string {
	logger := utils.GetLogger()

	appendTurn(session, "user", input)

	contexts := r.retrieveContext(ctx, input)
	if contexts == "" {
		contexts = "No relevant documentation found."
	}
	system := fmt.Sprintf(systemPromptTemplate, contexts)

	history := session.Turns
	if len(history) > ragHistoryWindow {
		history = history[len(history)-ragHistoryWindow:]
	}
	// Gemini rejects histories that open with a model turn, so when the
	// window cuts an exchange in half, advance to the first user turn.
	for len(history) > 0 && history[0].Role != "user" {
		history = history[1:]
	}

	reply, err := r.Generator.Generate(ctx, system, history)
	if err != nil {
		logger.Warn("generative model unavailable", zap.Error(err))
		reply = ReplyAIUnavailable
	}

	appendTurn(session, "assistant", reply)
	return reply
}

func (r *Responder) retrieveContext(ctx context.Context, input string) string {
	logger := utils.GetLogger()

	vector, err := r.Embedder.Embed(ctx, input)
	if err != nil {
		logger.Warn("embedding failed, continuing without context", zap.Error(err))
		return ""
	}

	matches, err := r.Index.Query(ctx, vector, ragTopK)
	if err != nil {
		logger.Warn("vector search failed, continuing without context", zap.Error(err))
		return ""
	}

	var parts []string
	for _, m := range matches {
		if m.Score < ragScoreThreshold {
			continue
		}
		text := m.Text
		if runes := []rune(text); len(runes) > ragContextChars {
			text = string(runes[:ragContextChars])
		}
		parts = append(parts, text)
	}
	return strings.Join(parts, "\n\n")
}
