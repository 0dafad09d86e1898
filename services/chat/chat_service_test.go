package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"onetracker/models"
	"onetracker/services/intelligence"

	"github.com/stretchr/testify/require"
)

type fakeEmbedder struct {
	vector []float32
	err    error
	calls  int
}

func (f *fakeEmbedder) Embed(_ context.Context, _ string) ([]float32, error) {
	f.calls++
	return f.vector, f.err
}

type fakeIndex struct {
	matches []intelligence.Match
	err     error
	calls   int
}

func (f *fakeIndex) Query(_ context.Context, _ []float32, _ int) ([]intelligence.Match, error) {
	f.calls++
	return f.matches, f.err
}

type fakeGenerator struct {
	reply      string
	err        error
	lastSystem string
	lastTurns  []models.ChatTurn
}

func (f *fakeGenerator) Generate(_ context.Context, system string, history []models.ChatTurn) (string, error) {
	f.lastSystem = system
	f.lastTurns = history
	return f.reply, f.err
}

func newTestService(gen *fakeGenerator, emb *fakeEmbedder, idx *fakeIndex) *DefaultService {
	return &DefaultService{
		Sessions: NewMemorySessionStore(),
		Dialogue: newTestDialogue(&fakeBookings{}),
		Responder: &Responder{
			Embedder:  emb,
			Index:     idx,
			Generator: gen,
		},
	}
}

func plainService(reply string) *DefaultService {
	return newTestService(
		&fakeGenerator{reply: reply},
		&fakeEmbedder{vector: []float32{0.1, 0.2}},
		&fakeIndex{},
	)
}

func TestHandleMessageStartTrigger(t *testing.T) {
	svc := plainService("hello")
	ctx := context.Background()

	reply, err := svc.HandleMessage(ctx, "s1", "I'd like to book a DEMO please")
	require.NoError(t, err)
	require.Equal(t, ReplyAskTimezone, reply)

	session, err := svc.Sessions.Get(ctx, "s1")
	require.NoError(t, err)
	require.NotNil(t, session)
	require.NotNil(t, session.Draft)
	require.Equal(t, models.StepCollectTimezone, session.Draft.Step)
}

func TestHandleMessageCancelFromAnyState(t *testing.T) {
	ctx := context.Background()

	states := []*models.BookingDraft{
		nil,
		{Step: models.StepCollectTimezone},
		{Step: models.StepChooseSlot, Availability: testSlots},
		{Step: models.StepCollectName},
		{Step: models.StepCollectMessage},
	}
	for i, draft := range states {
		svc := plainService("ignored")
		id := fmt.Sprintf("s%d", i)
		if draft != nil {
			require.NoError(t, svc.Sessions.Put(ctx, id, &models.Session{Draft: draft}))
		}

		reply, err := svc.HandleMessage(ctx, id, "please CANCEL this")
		require.NoError(t, err)
		require.Equal(t, ReplyCancelled, reply)

		session, err := svc.Sessions.Get(ctx, id)
		require.NoError(t, err)
		require.Nil(t, session, "cancel must clear the session")
	}
}

func TestHandleMessageDemoMidDialogueIsInput(t *testing.T) {
	svc := plainService("ignored")
	ctx := context.Background()

	require.NoError(t, svc.Sessions.Put(ctx, "s1", &models.Session{
		Draft: &models.BookingDraft{Step: models.StepCollectName},
	}))

	// "demo" while a draft is active is a name, not a restart.
	reply, err := svc.HandleMessage(ctx, "s1", "demo")
	require.NoError(t, err)
	require.Equal(t, ReplyAskEmail, reply)

	session, err := svc.Sessions.Get(ctx, "s1")
	require.NoError(t, err)
	require.Equal(t, models.StepCollectEmail, session.Draft.Step)
	require.Equal(t, "demo", session.Draft.Name)
}

func TestHandleMessageDialogueEndClearsDraft(t *testing.T) {
	svc := plainService("ignored")
	ctx := context.Background()

	require.NoError(t, svc.Sessions.Put(ctx, "s1", &models.Session{
		Draft: &models.BookingDraft{
			Step:            models.StepCollectMessage,
			Timezone:        "UTC",
			BookingDatetime: "2026-09-01T02:00:00Z",
		},
	}))

	reply, err := svc.HandleMessage(ctx, "s1", "see you then")
	require.NoError(t, err)
	require.Equal(t, ReplyBookingSuccess, reply)

	session, err := svc.Sessions.Get(ctx, "s1")
	require.NoError(t, err)
	require.NotNil(t, session)
	require.Nil(t, session.Draft)
}

func TestHandleMessageRoutesToResponder(t *testing.T) {
	gen := &fakeGenerator{reply: "OneTracker tracks shipments end to end."}
	svc := newTestService(gen, &fakeEmbedder{vector: []float32{0.5}}, &fakeIndex{
		matches: []intelligence.Match{{Score: 0.9, Text: "OneTracker docs."}},
	})
	ctx := context.Background()

	reply, err := svc.HandleMessage(ctx, "s1", "What does OneTracker do?")
	require.NoError(t, err)
	require.Equal(t, gen.reply, reply)

	session, err := svc.Sessions.Get(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, session.Turns, 2)
	require.Equal(t, "user", session.Turns[0].Role)
	require.Equal(t, "assistant", session.Turns[1].Role)
	require.Equal(t, gen.reply, session.Turns[1].Content)
}

func TestResponderFiltersAndTruncatesContext(t *testing.T) {
	long := strings.Repeat("x", ragContextChars+200)
	gen := &fakeGenerator{reply: "ok"}
	r := &Responder{
		Embedder: &fakeEmbedder{vector: []float32{0.5}},
		Index: &fakeIndex{matches: []intelligence.Match{
			{Score: 0.95, Text: long},
			{Score: 0.50, Text: "below threshold, must be dropped"},
			{Score: 0.70, Text: "short relevant passage"},
		}},
		Generator: gen,
	}

	r.Respond(context.Background(), &models.Session{}, "question")

	require.NotContains(t, gen.lastSystem, "below threshold")
	require.Contains(t, gen.lastSystem, "short relevant passage")
	require.Contains(t, gen.lastSystem, long[:ragContextChars])
	require.NotContains(t, gen.lastSystem, strings.Repeat("x", ragContextChars+1))
}

func TestResponderDegradesWhenEmbeddingFails(t *testing.T) {
	gen := &fakeGenerator{reply: "still answered"}
	idx := &fakeIndex{}
	r := &Responder{
		Embedder:  &fakeEmbedder{err: errors.New("workers ai timeout")},
		Index:     idx,
		Generator: gen,
	}

	reply := r.Respond(context.Background(), &models.Session{}, "question")
	require.Equal(t, "still answered", reply)
	require.Zero(t, idx.calls, "no retrieval without a vector")
	require.Contains(t, gen.lastSystem, "No relevant documentation found.")
}

func TestResponderDegradesWhenRetrievalFails(t *testing.T) {
	gen := &fakeGenerator{reply: "still answered"}
	r := &Responder{
		Embedder:  &fakeEmbedder{vector: []float32{0.5}},
		Index:     &fakeIndex{err: errors.New("vectorize 500")},
		Generator: gen,
	}

	reply := r.Respond(context.Background(), &models.Session{}, "question")
	require.Equal(t, "still answered", reply)
	require.Contains(t, gen.lastSystem, "No relevant documentation found.")
}

func TestResponderFallsBackWhenGenerationFails(t *testing.T) {
	session := &models.Session{}
	r := &Responder{
		Embedder:  &fakeEmbedder{vector: []float32{0.5}},
		Index:     &fakeIndex{},
		Generator: &fakeGenerator{err: errors.New("gemini quota")},
	}

	reply := r.Respond(context.Background(), session, "question")
	require.Equal(t, ReplyAIUnavailable, reply)
	// The fallback is still recorded as the assistant turn.
	require.Len(t, session.Turns, 2)
	require.Equal(t, ReplyAIUnavailable, session.Turns[1].Content)
}

func TestResponderWindowsHistory(t *testing.T) {
	session := &models.Session{}
	for i := 0; i < 20; i++ {
		appendTurn(session, "user", fmt.Sprintf("old message %d", i))
	}

	gen := &fakeGenerator{reply: "ok"}
	r := &Responder{
		Embedder:  &fakeEmbedder{vector: []float32{0.5}},
		Index:     &fakeIndex{},
		Generator: gen,
	}

	r.Respond(context.Background(), session, "latest question")

	require.Len(t, gen.lastTurns, ragHistoryWindow)
	require.Equal(t, "latest question", gen.lastTurns[len(gen.lastTurns)-1].Content)
}

func TestResponderWindowNeverLeadsWithAssistant(t *testing.T) {
	session := &models.Session{}
	for i := 1; i <= 6; i++ {
		appendTurn(session, "user", fmt.Sprintf("u%d", i))
		appendTurn(session, "assistant", fmt.Sprintf("a%d", i))
	}

	gen := &fakeGenerator{reply: "ok"}
	r := &Responder{
		Embedder:  &fakeEmbedder{vector: []float32{0.5}},
		Index:     &fakeIndex{},
		Generator: gen,
	}

	// Appending the new user turn makes the stored count odd, so a blind
	// window would start on an assistant turn, which Gemini rejects.
	r.Respond(context.Background(), session, "latest question")

	require.NotEmpty(t, gen.lastTurns)
	require.Equal(t, "user", gen.lastTurns[0].Role)
	require.LessOrEqual(t, len(gen.lastTurns), ragHistoryWindow)
	require.Equal(t, "latest question", gen.lastTurns[len(gen.lastTurns)-1].Content)
}

func TestResponderTruncatesOnRuneBoundary(t *testing.T) {
	long := strings.Repeat("配", ragContextChars+50)
	gen := &fakeGenerator{reply: "ok"}
	r := &Responder{
		Embedder:  &fakeEmbedder{vector: []float32{0.5}},
		Index:     &fakeIndex{matches: []intelligence.Match{{Score: 0.9, Text: long}}},
		Generator: gen,
	}

	r.Respond(context.Background(), &models.Session{}, "question")

	require.True(t, utf8.ValidString(gen.lastSystem))
	require.Contains(t, gen.lastSystem, strings.Repeat("配", ragContextChars))
	require.NotContains(t, gen.lastSystem, strings.Repeat("配", ragContextChars+1))
}

func TestAppendTurnBoundsConversationLog(t *testing.T) {
	session := &models.Session{}
	for i := 0; i < maxStoredTurns+30; i++ {
		appendTurn(session, "user", fmt.Sprintf("m%d", i))
	}

	require.Len(t, session.Turns, maxStoredTurns)
	require.Equal(t, fmt.Sprintf("m%d", maxStoredTurns+29),
		session.Turns[len(session.Turns)-1].Content)
}
