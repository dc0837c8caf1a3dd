package chat

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/melikesraoz/ai-chatbot-2/store"
)

// Notifier receives a notification after every successful mutation.
// Implementations must not call back into the Store.
type Notifier interface {
	ConversationChanged(conversationID, op string)
}

// Store is the single source of truth for all conversations. Every
// operation is atomic from the caller's perspective and ends by
// persisting the full collection; persistence failures are logged and
// never block the in-memory mutation.
//
// All accessors return copies. Callers never receive a mutable
// reference into the Store's state.
type Store struct {
	mu            sync.Mutex
	conversations []*Conversation
	convIndex     map[string]int            // conversation id -> position
	msgIndex      map[string]map[string]int // conversation id -> message id -> position
	currentID     string

	kv       store.Store
	notifier Notifier
	log      zerolog.Logger
	now      func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithNotifier wires mutation notifications, e.g. to an event bus.
func WithNotifier(n Notifier) Option {
	return func(s *Store) { s.notifier = n }
}

// WithLogger sets the logger used for persistence warnings.
func WithLogger(log zerolog.Logger) Option {
	return func(s *Store) { s.log = log }
}

// WithNow overrides the clock, for tests.
func WithNow(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// New creates a Store backed by kv and rehydrates any previously
// persisted state. A nil kv disables persistence. Malformed persisted
// data is discarded and the Store starts empty.
func New(kv store.Store, opts ...Option) *Store {
	s := &Store{
		convIndex: map[string]int{},
		msgIndex:  map[string]map[string]int{},
		kv:        kv,
		log:       zerolog.Nop(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.load()
	return s
}

// CreateConversation inserts a new empty conversation at the front of
// the collection, makes it current, and returns its id.
func (s *Store) CreateConversation() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	conv := &Conversation{
		ID:        uuid.NewString(),
		Title:     DefaultTitle,
		Messages:  []Message{},
		CreatedAt: now,
		UpdatedAt: now,
		Language:  DefaultLanguage,
	}
	s.conversations = append([]*Conversation{conv}, s.conversations...)
	s.rebuildConvIndex()
	s.msgIndex[conv.ID] = map[string]int{}
	s.currentID = conv.ID

	s.persistConversations()
	s.persistCurrent()
	s.notify(conv.ID, "create")
	return conv.ID
}

// SelectConversation sets the current pointer. Unknown ids are a
// silent no-op.
func (s *Store) SelectConversation(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.convIndex[id]; !ok {
		return
	}
	s.currentID = id
	s.persistCurrent()
	s.notify(id, "select")
}

// AppendMessage appends msg to the conversation's message list. The
// first user message of a conversation whose title is still the
// default placeholder also derives the title. No-op when the
// conversation does not exist.
func (s *Store) AppendMessage(conversationID string, msg Message) {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, ok := s.conversation(conversationID)
	if !ok {
		return
	}

	if msg.Sender == SenderUser && len(conv.Messages) == 0 && conv.Title == DefaultTitle {
		conv.Title = deriveTitle(msg.Text)
	}
	s.msgIndex[conversationID][msg.ID] = len(conv.Messages)
	conv.Messages = append(conv.Messages, msg)
	conv.UpdatedAt = s.now()

	s.persistConversations()
	s.notify(conversationID, "append")
}

// EditMessage replaces the message text, marking it edited. The
// pre-edit text is preserved in OriginalText on the first edit only.
func (s *Store) EditMessage(conversationID, messageID, newText string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, ok := s.conversation(conversationID)
	if !ok {
		return
	}
	pos, ok := s.msgIndex[conversationID][messageID]
	if !ok {
		return
	}

	msg := &conv.Messages[pos]
	if !msg.Edited {
		msg.OriginalText = msg.Text
	}
	msg.Text = newText
	msg.Edited = true
	conv.UpdatedAt = s.now()

	s.persistConversations()
	s.notify(conversationID, "edit")
}

// DeleteMessage removes the message from the ordered list. Neighbors
// are untouched.
func (s *Store) DeleteMessage(conversationID, messageID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, ok := s.conversation(conversationID)
	if !ok {
		return
	}
	pos, ok := s.msgIndex[conversationID][messageID]
	if !ok {
		return
	}

	conv.Messages = append(conv.Messages[:pos], conv.Messages[pos+1:]...)
	s.rebuildMsgIndex(conv)
	conv.UpdatedAt = s.now()

	s.persistConversations()
	s.notify(conversationID, "delete-message")
}

// DeleteConversation removes the conversation. When it was current,
// the front of the remaining list is promoted, or the pointer is
// cleared if none remain.
func (s *Store) DeleteConversation(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pos, ok := s.convIndex[id]
	if !ok {
		return
	}

	s.conversations = append(s.conversations[:pos], s.conversations[pos+1:]...)
	s.rebuildConvIndex()
	delete(s.msgIndex, id)

	if s.currentID == id {
		if len(s.conversations) > 0 {
			s.currentID = s.conversations[0].ID
		} else {
			s.currentID = ""
		}
		s.persistCurrent()
	}

	s.persistConversations()
	s.notify(id, "delete")
}

// RenameConversation overwrites the title directly, without any
// derivation logic.
func (s *Store) RenameConversation(id, title string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, ok := s.conversation(id)
	if !ok {
		return
	}
	conv.Title = title
	conv.UpdatedAt = s.now()

	s.persistConversations()
	s.notify(id, "rename")
}

// ClearConversation empties the message list but keeps the metadata.
func (s *Store) ClearConversation(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, ok := s.conversation(id)
	if !ok {
		return
	}
	conv.Messages = []Message{}
	s.msgIndex[id] = map[string]int{}
	conv.UpdatedAt = s.now()

	s.persistConversations()
	s.notify(id, "clear")
}

// SetConversationLanguage overwrites the conversation language.
func (s *Store) SetConversationLanguage(id string, language Language) {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, ok := s.conversation(id)
	if !ok {
		return
	}
	conv.Language = language
	conv.UpdatedAt = s.now()

	s.persistConversations()
	s.notify(id, "language")
}

// RegenerateFrom rewinds the conversation for a fresh completion: it
// locates the given bot message, drops it and everything after it,
// and returns the nearest preceding user message, whose text the
// caller re-submits to the completion provider. Calling it on a
// missing id, a user message, or a bot message with no preceding user
// message is a no-op returning found=false.
func (s *Store) RegenerateFrom(conversationID, messageID string) (Message, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, ok := s.conversation(conversationID)
	if !ok {
		return Message{}, false
	}
	pos, ok := s.msgIndex[conversationID][messageID]
	if !ok || conv.Messages[pos].Sender != SenderBot {
		return Message{}, false
	}

	userPos := pos - 1
	for userPos >= 0 && conv.Messages[userPos].Sender != SenderUser {
		userPos--
	}
	if userPos < 0 {
		return Message{}, false
	}

	userMsg := conv.Messages[userPos]
	conv.Messages = conv.Messages[:pos]
	s.rebuildMsgIndex(conv)
	conv.UpdatedAt = s.now()

	s.persistConversations()
	s.notify(conversationID, "regenerate")
	return userMsg, true
}

// ClearAll drops every conversation, the current pointer, and both
// persisted keys.
func (s *Store) ClearAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.conversations = nil
	s.convIndex = map[string]int{}
	s.msgIndex = map[string]map[string]int{}
	s.currentID = ""

	if s.kv != nil {
		if err := s.kv.Delete(keyConversations); err != nil {
			s.log.Warn().Err(err).Msg("failed to delete persisted conversations")
		}
		if err := s.kv.Delete(keyCurrentID); err != nil {
			s.log.Warn().Err(err).Msg("failed to delete persisted current id")
		}
	}
	s.notify("", "clear-all")
}

// Conversations returns a copy of the ordered collection.
func (s *Store) Conversations() []Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Conversation, 0, len(s.conversations))
	for _, conv := range s.conversations {
		out = append(out, conv.clone())
	}
	return out
}

// Conversation returns a copy of the conversation with the given id.
func (s *Store) Conversation(id string) (Conversation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, ok := s.conversation(id)
	if !ok {
		return Conversation{}, false
	}
	return conv.clone(), true
}

// CurrentID returns the id of the current conversation, or "" when
// none is selected.
func (s *Store) CurrentID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentID
}

// Current returns a copy of the current conversation.
func (s *Store) Current() (Conversation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.currentID == "" {
		return Conversation{}, false
	}
	conv, ok := s.conversation(s.currentID)
	if !ok {
		return Conversation{}, false
	}
	return conv.clone(), true
}

// Message returns a copy of a single message.
func (s *Store) Message(conversationID, messageID string) (Message, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, ok := s.conversation(conversationID)
	if !ok {
		return Message{}, false
	}
	pos, ok := s.msgIndex[conversationID][messageID]
	if !ok {
		return Message{}, false
	}
	return conv.Messages[pos], true
}

// conversation looks up by id; callers hold the lock.
func (s *Store) conversation(id string) (*Conversation, bool) {
	pos, ok := s.convIndex[id]
	if !ok {
		return nil, false
	}
	return s.conversations[pos], true
}

func (s *Store) rebuildConvIndex() {
	s.convIndex = make(map[string]int, len(s.conversations))
	for i, conv := range s.conversations {
		s.convIndex[conv.ID] = i
	}
}

func (s *Store) rebuildMsgIndex(conv *Conversation) {
	idx := make(map[string]int, len(conv.Messages))
	for i, msg := range conv.Messages {
		idx[msg.ID] = i
	}
	s.msgIndex[conv.ID] = idx
}

func (s *Store) notify(conversationID, op string) {
	if s.notifier != nil {
		s.notifier.ConversationChanged(conversationID, op)
	}
}
