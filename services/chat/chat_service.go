package chat

import (
	"context"
	"strings"

	"onetracker/models"
	"onetracker/utils"

	"go.uber.org/zap"
)

// cancelKeywords end the conversation from any state, including idle.
var cancelKeywords = []string{"cancel", "stop", "exit", "quit"}

const startTrigger = "demo"

// maxStoredTurns bounds the per-session conversation log.
const maxStoredTurns = 50

// Service handles one inbound chat message per call.
type Service interface {
	HandleMessage(ctx context.Context, sessionID, message string) (string, error)
}

// DefaultService routes each message: cancel intent first, then an active
// booking dialogue, then the start trigger, else the retrieval-augmented
// responder.
type DefaultService struct {
	Sessions  SessionStore
	Dialogue  *Dialogue
	Responder *Responder
}

func (s *DefaultService) HandleMessage(ctx context.Context, sessionID, message string) (string, error) {
	logger := utils.GetLogger()

	input := strings.TrimSpace(message)
	lower := strings.ToLower(input)

	session, err := s.Sessions.Get(ctx, sessionID)
	if err != nil {
		logger.Warn("session load failed, starting fresh", zap.Error(err),
			zap.String("session_id", sessionID))
	}
	if session == nil {
		session = &models.Session{}
	}

	if containsAny(lower, cancelKeywords) {
		if err := s.Sessions.Clear(ctx, sessionID); err != nil {
			logger.Warn("session clear failed", zap.Error(err))
		}
		return ReplyCancelled, nil
	}

	if session.Draft != nil {
		result := s.Dialogue.Advance(ctx, *session.Draft, input)
		session.Draft = result.draft
		if err := s.Sessions.Put(ctx, sessionID, session); err != nil {
			logger.Warn("session save failed", zap.Error(err))
		}
		return result.reply, nil
	}

	// Start trigger only fires when no draft exists, so "demo" mid-dialogue
	// never restarts the flow.
	if strings.Contains(lower, startTrigger) {
		session.Draft = NewDraft()
		if err := s.Sessions.Put(ctx, sessionID, session); err != nil {
			logger.Warn("session save failed", zap.Error(err))
		}
		return ReplyAskTimezone, nil
	}

	reply := s.Responder.Respond(ctx, session, input)
	if err := s.Sessions.Put(ctx, sessionID, session); err != nil {
		logger.Warn("session save failed", zap.Error(err))
	}
	return reply, nil
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

func appendTurn(session *models.Session, role, content string) {
	session.Turns = append(session.Turns, models.ChatTurn{Role: role, Content: content})
	if len(session.Turns) > maxStoredTurns {
		session.Turns = session.Turns[len(session.Turns)-maxStoredTurns:]
	}
}
