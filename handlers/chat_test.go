package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

type stubChatService struct {
	reply string
	err   error

	gotSessionID string
	gotMessage   string
}

func (s *stubChatService) HandleMessage(_ context.Context, sessionID, message string) (string, error) {
	s.gotSessionID = sessionID
	s.gotMessage = message
	return s.reply, s.err
}

func chatRouter(svc *stubChatService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/v1/chatbot/chat", NewChatHandler(svc).HandleChat)
	return r
}

func postChat(r *gin.Engine, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/chatbot/chat", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestHandleChatSuccess(t *testing.T) {
	svc := &stubChatService{reply: "Please provide your timezone (Example: Asia/Kolkata)"}
	r := chatRouter(svc)

	w := postChat(r, `{"session_id":"abc","message":"demo"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp ChatResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, "abc", resp.SessionID)
	require.Equal(t, svc.reply, resp.Reply)

	require.Equal(t, "abc", svc.gotSessionID)
	require.Equal(t, "demo", svc.gotMessage)
}

func TestHandleChatRejectsMissingFields(t *testing.T) {
	r := chatRouter(&stubChatService{reply: "unused"})

	for _, body := range []string{
		`{}`,
		`{"session_id":"abc"}`,
		`{"message":"hello"}`,
		`not json`,
	} {
		w := postChat(r, body)
		require.Equal(t, http.StatusBadRequest, w.Code, "body %q", body)
	}
}

func TestHandleChatServiceError(t *testing.T) {
	r := chatRouter(&stubChatService{err: errors.New("session backend down")})

	w := postChat(r, `{"session_id":"abc","message":"hello"}`)
	require.Equal(t, http.StatusInternalServerError, w.Code)
	require.NotContains(t, w.Body.String(), "session backend down")
}
