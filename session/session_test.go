package session

import (
	"context"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/melikesraoz/ai-chatbot-2/chat"
	"github.com/melikesraoz/ai-chatbot-2/llm"
)

// scriptedProvider replays canned replies and records every request.
type scriptedProvider struct {
	replies []string
	errs    []error
	calls   [][]llm.Message
	models  []string
	onChat  func()
}

func (p *scriptedProvider) Chat(ctx context.Context, messages []llm.Message, model string) (string, error) {
	p.calls = append(p.calls, messages)
	p.models = append(p.models, model)
	if p.onChat != nil {
		p.onChat()
	}
	i := len(p.calls) - 1
	if i < len(p.errs) && p.errs[i] != nil {
		return "", p.errs[i]
	}
	if i < len(p.replies) {
		return p.replies[i], nil
	}
	return "ok", nil
}

func (p *scriptedProvider) GenerateTitle(ctx context.Context, messages []llm.Message) (string, error) {
	return "a title", nil
}

func (p *scriptedProvider) Name() string          { return "scripted" }
func (p *scriptedProvider) Models() []string      { return nil }
func (p *scriptedProvider) ValidateConfig() error { return nil }

func (p *scriptedProvider) lastCall() []llm.Message {
	return p.calls[len(p.calls)-1]
}

func newSession(provider llm.Provider) (*Session, *chat.Store) {
	store := chat.New(nil)
	return New(store, provider, "gpt-3.5-turbo", "chat"), store
}

func TestSendAppendsUserTurnAndReply(t *testing.T) {
	provider := &scriptedProvider{replies: []string{"Hello!"}}
	sess, store := newSession(provider)
	id := store.CreateConversation()

	require.NoError(t, sess.Send(context.Background(), id, "Hi"))

	conv, _ := store.Conversation(id)
	require.Len(t, conv.Messages, 2)
	require.Equal(t, chat.SenderUser, conv.Messages[0].Sender)
	require.Equal(t, "Hi", conv.Messages[0].Text)
	require.Equal(t, chat.SenderBot, conv.Messages[1].Sender)
	require.Equal(t, "Hello!", conv.Messages[1].Text)

	// The request carries the system prompt first and the user text as
	// the latest turn
	call := provider.lastCall()
	require.Equal(t, llm.RoleSystem, call[0].Role)
	require.Equal(t, llm.RoleUser, call[len(call)-1].Role)
	require.Equal(t, "Hi", call[len(call)-1].Content)
	require.Equal(t, "gpt-3.5-turbo", provider.models[0])
}

func TestSendUnknownConversation(t *testing.T) {
	provider := &scriptedProvider{}
	sess, _ := newSession(provider)

	require.Error(t, sess.Send(context.Background(), "no-such-id", "Hi"))
	require.Empty(t, provider.calls)
}

func TestSendFailureBecomesBotErrorMessage(t *testing.T) {
	provider := &scriptedProvider{
		errs: []error{&llm.ProviderError{Provider: "OpenAI", Kind: llm.ErrorKindRateLimit}},
	}
	sess, store := newSession(provider)
	id := store.CreateConversation()

	require.NoError(t, sess.Send(context.Background(), id, "Hi"))

	conv, _ := store.Conversation(id)
	require.Len(t, conv.Messages, 2)
	last := conv.Messages[1]
	require.Equal(t, chat.SenderBot, last.Sender)
	require.True(t, strings.HasPrefix(last.Text, "Error: "))
	require.Contains(t, last.Text, "request limit exceeded")
}

func TestEditUserMessageRegeneratesFollowingReply(t *testing.T) {
	provider := &scriptedProvider{replies: []string{"Hello!", "Hello again!"}}
	sess, store := newSession(provider)
	id := store.CreateConversation()
	require.NoError(t, sess.Send(context.Background(), id, "Hi"))

	conv, _ := store.Conversation(id)
	userID := conv.Messages[0].ID
	oldBotID := conv.Messages[1].ID

	require.NoError(t, sess.EditUserMessage(context.Background(), id, userID, "Hi there"))

	conv, _ = store.Conversation(id)
	require.Len(t, conv.Messages, 2)
	require.Equal(t, "Hi there", conv.Messages[0].Text)
	require.True(t, conv.Messages[0].Edited)
	require.Equal(t, "Hi", conv.Messages[0].OriginalText)
	require.Equal(t, chat.SenderBot, conv.Messages[1].Sender)
	require.Equal(t, "Hello again!", conv.Messages[1].Text)
	require.NotEqual(t, oldBotID, conv.Messages[1].ID)

	// The second request carries the edited text as the latest user turn
	require.Len(t, provider.calls, 2)
	call := provider.lastCall()
	require.Equal(t, "Hi there", call[len(call)-1].Content)
	require.Equal(t, llm.RoleUser, call[len(call)-1].Role)
}

func TestEditUserMessageWithoutFollowingReply(t *testing.T) {
	provider := &scriptedProvider{}
	sess, store := newSession(provider)
	id := store.CreateConversation()
	msg := chat.NewMessage(chat.SenderUser, "alone")
	store.AppendMessage(id, msg)

	require.NoError(t, sess.EditUserMessage(context.Background(), id, msg.ID, "still alone"))

	conv, _ := store.Conversation(id)
	require.Len(t, conv.Messages, 1)
	require.Equal(t, "still alone", conv.Messages[0].Text)
	require.Empty(t, provider.calls)
}

func TestEditBotMessageTriggersNothing(t *testing.T) {
	provider := &scriptedProvider{replies: []string{"Hello!"}}
	sess, store := newSession(provider)
	id := store.CreateConversation()
	require.NoError(t, sess.Send(context.Background(), id, "Hi"))

	conv, _ := store.Conversation(id)
	botID := conv.Messages[1].ID

	require.NoError(t, sess.EditUserMessage(context.Background(), id, botID, "corrected reply"))

	conv, _ = store.Conversation(id)
	require.Len(t, conv.Messages, 2)
	require.Equal(t, "corrected reply", conv.Messages[1].Text)
	require.True(t, conv.Messages[1].Edited)
	// No second completion request
	require.Len(t, provider.calls, 1)
}

func TestRegenerate(t *testing.T) {
	provider := &scriptedProvider{replies: []string{"Hello!", "A fresh reply"}}
	sess, store := newSession(provider)
	id := store.CreateConversation()
	require.NoError(t, sess.Send(context.Background(), id, "Hi"))

	conv, _ := store.Conversation(id)
	botID := conv.Messages[1].ID

	require.NoError(t, sess.Regenerate(context.Background(), id, botID))

	conv, _ = store.Conversation(id)
	require.Len(t, conv.Messages, 2)
	require.Equal(t, "A fresh reply", conv.Messages[1].Text)

	call := provider.lastCall()
	require.Equal(t, "Hi", call[len(call)-1].Content)
	require.Equal(t, llm.RoleUser, call[len(call)-1].Role)
}

func TestRegenerateUserMessageIsNoop(t *testing.T) {
	provider := &scriptedProvider{replies: []string{"Hello!"}}
	sess, store := newSession(provider)
	id := store.CreateConversation()
	require.NoError(t, sess.Send(context.Background(), id, "Hi"))

	conv, _ := store.Conversation(id)
	require.NoError(t, sess.Regenerate(context.Background(), id, conv.Messages[0].ID))

	after, _ := store.Conversation(id)
	require.Equal(t, conv.Messages, after.Messages)
	require.Len(t, provider.calls, 1)
}

func TestReplyLandsOnOriginatingConversation(t *testing.T) {
	provider := &scriptedProvider{replies: []string{"reply for A"}}
	sess, store := newSession(provider)
	a := store.CreateConversation()
	b := store.CreateConversation()

	// The user navigates away while the request is in flight
	provider.onChat = func() {
		store.SelectConversation(b)
	}

	require.NoError(t, sess.Send(context.Background(), a, "question for A"))

	convA, _ := store.Conversation(a)
	require.Len(t, convA.Messages, 2)
	require.Equal(t, "reply for A", convA.Messages[1].Text)

	convB, _ := store.Conversation(b)
	require.Empty(t, convB.Messages)
	require.Equal(t, b, store.CurrentID())
}

func TestSystemPromptFollowsConversationLanguage(t *testing.T) {
	provider := &scriptedProvider{replies: []string{"ok"}}
	sess, store := newSession(provider)
	id := store.CreateConversation()
	store.SetConversationLanguage(id, chat.LanguageGerman)

	require.NoError(t, sess.Send(context.Background(), id, "Hallo"))

	call := provider.lastCall()
	require.Equal(t, llm.RoleSystem, call[0].Role)
	require.Contains(t, call[0].Content, "German")
}

func TestGenerateTitleRenamesConversation(t *testing.T) {
	provider := &scriptedProvider{replies: []string{"Hello!"}}
	sess, store := newSession(provider)
	id := store.CreateConversation()
	require.NoError(t, sess.Send(context.Background(), id, "Hi"))

	title, err := sess.GenerateTitle(context.Background(), id)
	require.NoError(t, err)
	require.Equal(t, "a title", title)

	conv, _ := store.Conversation(id)
	require.Equal(t, "a title", conv.Title)
}

func TestGenerateTitleEmptyConversationKeepsTitle(t *testing.T) {
	provider := &scriptedProvider{}
	sess, store := newSession(provider)
	id := store.CreateConversation()

	title, err := sess.GenerateTitle(context.Background(), id)
	require.NoError(t, err)
	require.Equal(t, chat.DefaultTitle, title)
}

func TestBusyClearsAfterCompletion(t *testing.T) {
	provider := &scriptedProvider{errs: []error{errors.New("boom")}}
	sess, store := newSession(provider)
	id := store.CreateConversation()

	var busyDuring bool
	provider.onChat = func() { busyDuring = sess.Busy(id) }

	require.NoError(t, sess.Send(context.Background(), id, "Hi"))
	require.True(t, busyDuring)
	require.False(t, sess.Busy(id))
}
