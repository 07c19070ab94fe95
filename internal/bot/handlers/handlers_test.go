package handlers_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	telebot "gopkg.in/telebot.v3"

	"github.com/Proton-105/gatebot/internal/bot/handlers"
	"github.com/Proton-105/gatebot/internal/bot/keyboard"
	"github.com/Proton-105/gatebot/internal/broadcast"
	"github.com/Proton-105/gatebot/internal/registry"
	"github.com/Proton-105/gatebot/internal/testutil"
)

const adminID int64 = 1000

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testKeyboards() *keyboard.Builder {
	return keyboard.NewBuilder("https://t.me/gated", "https://app.example.com", testLogger())
}

type mockGate struct {
	mock.Mock
}

func (m *mockGate) IsAllowed(ctx context.Context, userID int64) bool {
	args := m.Called(ctx, userID)
	return args.Bool(0)
}

type fakeDirectory struct {
	ids   []int64
	stats registry.Stats
	err   error
}

func (d *fakeDirectory) IDs(context.Context) ([]int64, error) { return d.ids, d.err }

func (d *fakeDirectory) Stats(context.Context) (registry.Stats, error) { return d.stats, d.err }

type countingRelayer struct {
	mu     sync.Mutex
	copied []string
}

func (r *countingRelayer) Copy(to telebot.Recipient, _ telebot.Editable, _ ...interface{}) (*telebot.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.copied = append(r.copied, to.Recipient())
	return &telebot.Message{}, nil
}

func TestStartHandler_AlwaysShowsPrompt(t *testing.T) {
	ctx := testutil.NewMessage(42, "/start")
	h := handlers.NewStartHandler(testKeyboards(), testLogger())

	require.NoError(t, h(ctx))
	require.NoError(t, h(ctx))

	sent := ctx.Sent()
	require.Len(t, sent, 2)
	for _, call := range sent {
		assert.Equal(t, "Hello Test User! Please subscribe to our channel to use the bot.", call.Text())
		markup := call.Markup()
		require.NotNil(t, markup)
		require.Len(t, markup.InlineKeyboard, 2)
		assert.Equal(t, "Subscribe to Channel", markup.InlineKeyboard[0][0].Text)
		assert.Equal(t, "https://t.me/gated", markup.InlineKeyboard[0][0].URL)
		assert.Equal(t, "Check Subscription", markup.InlineKeyboard[1][0].Text)
		assert.Equal(t, keyboard.UniqueCheckSubscription, markup.InlineKeyboard[1][0].Data)
	}
}

func TestGreeting_WithoutLastName(t *testing.T) {
	got := handlers.Greeting(&telebot.User{ID: 1, FirstName: "Ann"})
	assert.Equal(t, "Hello Ann! Please subscribe to our channel to use the bot.", got)
}

func TestRecheckHandler_Allowed(t *testing.T) {
	gate := new(mockGate)
	gate.On("IsAllowed", mock.Anything, int64(42)).Return(true).Once()

	ctx := testutil.NewCallback(42, keyboard.UniqueCheckSubscription)
	h := handlers.NewRecheckHandler(gate, testKeyboards(), testLogger())

	require.NoError(t, h(ctx))

	responses := ctx.Responses()
	require.Len(t, responses, 1)
	assert.False(t, responses[0].ShowAlert)
	assert.Empty(t, responses[0].Text)

	edited := ctx.Edited()
	require.Len(t, edited, 1)
	assert.Equal(t, handlers.TextUnlocked, edited[0].Text())
	markup := edited[0].Markup()
	require.NotNil(t, markup)
	require.Len(t, markup.InlineKeyboard, 3)
	require.NotNil(t, markup.InlineKeyboard[0][0].WebApp)
	assert.Equal(t, "https://app.example.com", markup.InlineKeyboard[0][0].WebApp.URL)
	assert.Equal(t, "https://t.me/gated", markup.InlineKeyboard[1][0].URL)
	assert.Equal(t, keyboard.UniqueBack, markup.InlineKeyboard[2][0].Data)
	assert.Empty(t, ctx.Sent())
	gate.AssertExpectations(t)
}

func TestRecheckHandler_Blocked(t *testing.T) {
	gate := new(mockGate)
	gate.On("IsAllowed", mock.Anything, int64(42)).Return(false).Once()

	ctx := testutil.NewCallback(42, keyboard.UniqueCheckSubscription)
	h := handlers.NewRecheckHandler(gate, testKeyboards(), testLogger())

	require.NoError(t, h(ctx))

	responses := ctx.Responses()
	require.Len(t, responses, 1)
	assert.True(t, responses[0].ShowAlert)
	assert.Equal(t, handlers.TextRecheckBlocked, responses[0].Text)
	assert.Empty(t, ctx.Edited())
	assert.Empty(t, ctx.Sent())
	gate.AssertExpectations(t)
}

func TestRecheckHandler_NotModifiedIsIgnored(t *testing.T) {
	gate := new(mockGate)
	gate.On("IsAllowed", mock.Anything, int64(42)).Return(true)

	ctx := testutil.NewCallback(42, keyboard.UniqueCheckSubscription)
	ctx.EditErr = telebot.ErrSameMessageContent

	h := handlers.NewRecheckHandler(gate, testKeyboards(), testLogger())
	assert.NoError(t, h(ctx))
}

func TestRecheckHandler_EditFailure(t *testing.T) {
	gate := new(mockGate)
	gate.On("IsAllowed", mock.Anything, int64(42)).Return(true)

	ctx := testutil.NewCallback(42, keyboard.UniqueCheckSubscription)
	ctx.EditErr = errors.New("message to edit not found")

	h := handlers.NewRecheckHandler(gate, testKeyboards(), testLogger())
	assert.Error(t, h(ctx))
}

func TestBackHandler_RestoresPrompt(t *testing.T) {
	ctx := testutil.NewCallback(42, keyboard.UniqueBack)
	h := handlers.NewBackHandler(testKeyboards(), testLogger())

	require.NoError(t, h(ctx))

	require.Len(t, ctx.Responses(), 1)
	edited := ctx.Edited()
	require.Len(t, edited, 1)
	assert.Equal(t, "Hello Test User! Please subscribe to our channel to use the bot.", edited[0].Text())
	require.NotNil(t, edited[0].Markup())
	assert.Len(t, edited[0].Markup().InlineKeyboard, 2)
}

func TestHelpHandler(t *testing.T) {
	ctx := testutil.NewMessage(42, "/help")
	require.NoError(t, handlers.NewHelpHandler()(ctx))

	sent := ctx.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, handlers.TextHelp, sent[0].Text())
}

func TestAdminHandler_RejectsNonAdmin(t *testing.T) {
	relayer := &countingRelayer{}
	fanout := broadcast.NewFanout(relayer, 0, testLogger())
	dir := &fakeDirectory{ids: []int64{1, 2, 3}}

	ctx := testutil.NewMessage(42, "/admin")
	ctx.Msg.ReplyTo = &telebot.Message{ID: 5, Chat: &telebot.Chat{ID: 42}}

	h := handlers.NewAdminHandler(adminID, dir, fanout, testLogger())
	require.NoError(t, h(ctx))

	sent := ctx.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, handlers.TextNotAuthorized, sent[0].Text())
	assert.Empty(t, relayer.copied)
}

func TestAdminHandler_BroadcastsReply(t *testing.T) {
	relayer := &countingRelayer{}
	fanout := broadcast.NewFanout(relayer, 0, testLogger())
	dir := &fakeDirectory{ids: []int64{1, 2, 3, adminID}}

	ctx := testutil.NewMessage(adminID, "/admin")
	ctx.Msg.ReplyTo = &telebot.Message{ID: 5, Chat: &telebot.Chat{ID: adminID}, Text: "news"}

	h := handlers.NewAdminHandler(adminID, dir, fanout, testLogger())
	require.NoError(t, h(ctx))

	assert.ElementsMatch(t, []string{"1", "2", "3", strconv.FormatInt(adminID, 10)}, relayer.copied)

	sent := ctx.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, handlers.TextBroadcastDone, sent[0].Text())
}

func TestAdminHandler_ReportsStats(t *testing.T) {
	relayer := &countingRelayer{}
	fanout := broadcast.NewFanout(relayer, 0, testLogger())
	dir := &fakeDirectory{stats: registry.Stats{TotalUsers: 7, DailyActive: 3}}

	ctx := testutil.NewMessage(adminID, "/admin")
	h := handlers.NewAdminHandler(adminID, dir, fanout, testLogger())
	require.NoError(t, h(ctx))

	sent := ctx.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "📊 Bot Statistics:\n\n👥 Total Users: 7\n🔥 Daily Active Users: 3", sent[0].Text())
	assert.Empty(t, relayer.copied)
}

func TestAdminHandler_StatsUnavailable(t *testing.T) {
	dir := &fakeDirectory{err: errors.New("redis down")}

	ctx := testutil.NewMessage(adminID, "/admin")
	h := handlers.NewAdminHandler(adminID, dir, broadcast.NewFanout(&countingRelayer{}, 0, testLogger()), testLogger())
	require.NoError(t, h(ctx))

	sent := ctx.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, handlers.TextStatsUnavailable, sent[0].Text())
}

func TestGenericHandler_Blocked(t *testing.T) {
	gate := new(mockGate)
	gate.On("IsAllowed", mock.Anything, int64(42)).Return(false).Once()

	featureCalled := false
	feature := func(telebot.Context) error {
		featureCalled = true
		return nil
	}

	ctx := testutil.NewMessage(42, "translate this")
	h := handlers.NewGenericHandler(gate, testKeyboards(), feature, testLogger())
	require.NoError(t, h(ctx))

	sent := ctx.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, handlers.TextGenericBlocked, sent[0].Text())
	require.NotNil(t, sent[0].Markup())
	assert.Len(t, sent[0].Markup().InlineKeyboard, 2)
	assert.False(t, featureCalled)
}

func TestGenericHandler_AllowedReachesFeature(t *testing.T) {
	gate := new(mockGate)
	gate.On("IsAllowed", mock.Anything, int64(42)).Return(true).Once()

	ctx := testutil.NewMessage(42, "translate this")
	h := handlers.NewGenericHandler(gate, testKeyboards(), nil, testLogger())
	require.NoError(t, h(ctx))

	sent := ctx.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, handlers.TextFeaturePending, sent[0].Text())
}

func TestGenericHandler_AnswersUnknownCallback(t *testing.T) {
	gate := new(mockGate)
	gate.On("IsAllowed", mock.Anything, int64(42)).Return(true).Once()

	ctx := testutil.NewCallback(42, "stale_button")
	h := handlers.NewGenericHandler(gate, testKeyboards(), nil, testLogger())
	require.NoError(t, h(ctx))

	assert.Len(t, ctx.Responses(), 1)
}

func TestGenericHandler_IgnoresMissingSender(t *testing.T) {
	gate := new(mockGate)

	ctx := &testutil.Context{Msg: &telebot.Message{Text: "hi"}}
	h := handlers.NewGenericHandler(gate, testKeyboards(), nil, testLogger())
	require.NoError(t, h(ctx))

	assert.Empty(t, ctx.Sent())
	gate.AssertNotCalled(t, "IsAllowed", mock.Anything, mock.Anything)
}

func TestRequestContext_DefaultsToBackground(t *testing.T) {
	ctx := testutil.NewMessage(1, "hi")
	assert.Equal(t, context.Background(), handlers.RequestContext(ctx))

	type key struct{}
	custom := context.WithValue(context.Background(), key{}, "v")
	handlers.SetRequestContext(ctx, custom)
	assert.Equal(t, "v", handlers.RequestContext(ctx).Value(key{}))
}

func TestHandlers_QuoteTriggeringMessage(t *testing.T) {
	start := testutil.NewMessage(42, "/start")
	require.NoError(t, handlers.NewStartHandler(testKeyboards(), testLogger())(start))
	require.Len(t, start.Sent(), 1)
	assert.True(t, start.Sent()[0].Reply)

	help := testutil.NewMessage(42, "/help")
	require.NoError(t, handlers.NewHelpHandler()(help))
	require.Len(t, help.Sent(), 1)
	assert.True(t, help.Sent()[0].Reply)

	admin := testutil.NewMessage(7, "/admin")
	h := handlers.NewAdminHandler(adminID, &fakeDirectory{}, broadcast.NewFanout(&countingRelayer{}, 0, testLogger()), testLogger())
	require.NoError(t, h(admin))
	require.Len(t, admin.Sent(), 1)
	assert.True(t, admin.Sent()[0].Reply)
}

func TestGenericHandler_CallbackIsNotQuoted(t *testing.T) {
	gate := new(mockGate)
	gate.On("IsAllowed", mock.Anything, int64(42)).Return(false).Once()

	ctx := testutil.NewCallback(42, "stale_button")
	h := handlers.NewGenericHandler(gate, testKeyboards(), nil, testLogger())
	require.NoError(t, h(ctx))

	sent := ctx.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, handlers.TextGenericBlocked, sent[0].Text())
	assert.False(t, sent[0].Reply)
}
