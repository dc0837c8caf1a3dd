// Package session orchestrates the round trip between the
// conversation store, the prompt builder and a completion provider.
// The store itself never talks to the network; everything that does
// lives here.
package session

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/melikesraoz/ai-chatbot-2/chat"
	"github.com/melikesraoz/ai-chatbot-2/llm"
	"github.com/melikesraoz/ai-chatbot-2/prompt"
)

// Session drives one provider against the conversation store.
type Session struct {
	store    *chat.Store
	provider llm.Provider
	log      zerolog.Logger

	mu    sync.Mutex
	model string
	mode  string
	busy  map[string]bool
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the session logger.
func WithLogger(log zerolog.Logger) Option {
	return func(s *Session) { s.log = log }
}

// New creates a session using the given model identifier and chat
// mode for every completion request.
func New(store *chat.Store, provider llm.Provider, model, mode string, opts ...Option) *Session {
	s := &Session{
		store:    store,
		provider: provider,
		log:      zerolog.Nop(),
		model:    model,
		mode:     mode,
		busy:     map[string]bool{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetModel changes the model used for subsequent requests.
func (s *Session) SetModel(model string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.model = model
}

// SetMode changes the chat mode used for subsequent requests.
func (s *Session) SetMode(mode string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mode = mode
}

// Busy reports whether a completion request is in flight for the
// conversation. Advisory only: front ends are expected to disable
// input while it is set, the store does not enforce it.
func (s *Session) Busy(conversationID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy[conversationID]
}

func (s *Session) setBusy(conversationID string, v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if v {
		s.busy[conversationID] = true
	} else {
		delete(s.busy, conversationID)
	}
}

// Send appends the user's text to the conversation and requests a
// completion. The reply (or the failure, rendered as a bot-authored
// error message) is appended to the conversation it was requested
// for, by id, regardless of which conversation is current when the
// request resolves.
func (s *Session) Send(ctx context.Context, conversationID, text string) error {
	if _, ok := s.store.Conversation(conversationID); !ok {
		return errors.Errorf("unknown conversation %q", conversationID)
	}

	s.store.AppendMessage(conversationID, chat.NewMessage(chat.SenderUser, text))
	s.complete(ctx, conversationID)
	return nil
}

// EditUserMessage applies the edit and, when the edited message is a
// user message immediately followed by a bot reply, deletes that
// reply and requests a fresh completion from the edited text. The
// composite is not atomic across the network call: a failed
// completion leaves the edit applied, recorded as an error message,
// with no rollback. Editing a bot message only applies the edit.
func (s *Session) EditUserMessage(ctx context.Context, conversationID, messageID, newText string) error {
	msg, ok := s.store.Message(conversationID, messageID)
	if !ok {
		return errors.Errorf("unknown message %q", messageID)
	}

	s.store.EditMessage(conversationID, messageID, newText)
	if msg.Sender != chat.SenderUser {
		return nil
	}

	conv, ok := s.store.Conversation(conversationID)
	if !ok {
		return nil
	}
	for i, m := range conv.Messages {
		if m.ID != messageID {
			continue
		}
		if i+1 < len(conv.Messages) && conv.Messages[i+1].Sender == chat.SenderBot {
			s.store.DeleteMessage(conversationID, conv.Messages[i+1].ID)
			s.complete(ctx, conversationID)
		}
		break
	}
	return nil
}

// Regenerate rewinds the conversation to just before the given bot
// message and requests a fresh completion from the preceding user
// input. A no-op when the store rewind is.
func (s *Session) Regenerate(ctx context.Context, conversationID, messageID string) error {
	userMsg, ok := s.store.RegenerateFrom(conversationID, messageID)
	if !ok {
		return nil
	}
	s.log.Debug().Str("conversation_id", conversationID).Str("user_message_id", userMsg.ID).
		Msg("regenerating response")
	s.complete(ctx, conversationID)
	return nil
}

// GenerateTitle asks the provider for a short title based on the
// conversation so far and renames the conversation with it.
func (s *Session) GenerateTitle(ctx context.Context, conversationID string) (string, error) {
	conv, ok := s.store.Conversation(conversationID)
	if !ok {
		return "", errors.Errorf("unknown conversation %q", conversationID)
	}
	if len(conv.Messages) == 0 {
		return conv.Title, nil
	}

	history := make([]llm.Message, 0, len(conv.Messages))
	for _, m := range conv.Messages {
		role := llm.RoleAssistant
		if m.Sender == chat.SenderUser {
			role = llm.RoleUser
		}
		history = append(history, llm.Message{Role: role, Content: m.Text})
	}

	title, err := s.provider.GenerateTitle(ctx, history)
	if err != nil {
		return "", err
	}
	s.store.RenameConversation(conversationID, title)
	return title, nil
}

// complete requests a completion for the conversation's current
// history and appends the result. Completion failures become
// bot-authored error messages so the conversation stays a readable
// record of what happened.
func (s *Session) complete(ctx context.Context, conversationID string) {
	conv, ok := s.store.Conversation(conversationID)
	if !ok {
		return
	}

	s.mu.Lock()
	model, mode := s.model, s.mode
	s.mu.Unlock()

	apiMessages := make([]llm.Message, 0, len(conv.Messages)+1)
	apiMessages = append(apiMessages, llm.Message{
		Role:    llm.RoleSystem,
		Content: prompt.BuildSystemPrompt(mode, string(conv.Language)),
	})
	for _, m := range conv.Messages {
		role := llm.RoleAssistant
		if m.Sender == chat.SenderUser {
			role = llm.RoleUser
		}
		apiMessages = append(apiMessages, llm.Message{Role: role, Content: m.Text})
	}

	s.setBusy(conversationID, true)
	response, err := s.provider.Chat(ctx, apiMessages, model)
	s.setBusy(conversationID, false)

	if err != nil {
		s.log.Warn().Err(err).Str("conversation_id", conversationID).Msg("completion request failed")
		s.store.AppendMessage(conversationID, chat.NewMessage(chat.SenderBot, "Error: "+err.Error()))
		return
	}
	s.store.AppendMessage(conversationID, chat.NewMessage(chat.SenderBot, response))
}
