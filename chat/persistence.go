package chat

import "encoding/json"

// Persistence layout: two logical keys. Absence of the collection key
// means an empty collection; absence of the current key means no
// conversation is selected.
const (
	keyConversations = "ai-chatbot-chats"
	keyCurrentID     = "ai-chatbot-current-chat-id"
)

// persistConversations writes the full collection. Best-effort: a
// failed write is logged and the in-memory mutation stays visible.
// The caller holds the lock.
func (s *Store) persistConversations() {
	if s.kv == nil {
		return
	}
	if len(s.conversations) == 0 {
		if err := s.kv.Delete(keyConversations); err != nil {
			s.log.Warn().Err(err).Msg("failed to delete persisted conversations")
		}
		return
	}

	data, err := json.Marshal(s.conversations)
	if err != nil {
		s.log.Warn().Err(err).Msg("failed to serialize conversations")
		return
	}
	if err := s.kv.Set(keyConversations, data); err != nil {
		s.log.Warn().Err(err).Msg("failed to persist conversations")
	}
}

// persistCurrent writes or clears the current-conversation key. The
// caller holds the lock.
func (s *Store) persistCurrent() {
	if s.kv == nil {
		return
	}
	if s.currentID == "" {
		if err := s.kv.Delete(keyCurrentID); err != nil {
			s.log.Warn().Err(err).Msg("failed to delete persisted current id")
		}
		return
	}
	if err := s.kv.Set(keyCurrentID, []byte(s.currentID)); err != nil {
		s.log.Warn().Err(err).Msg("failed to persist current id")
	}
}

// load rehydrates the Store from the persistent store. Malformed data
// is discarded (and removed) so the Store starts from an empty state
// instead of propagating a load error.
func (s *Store) load() {
	if s.kv == nil {
		return
	}

	data, found, err := s.kv.Get(keyConversations)
	if err != nil {
		s.log.Warn().Err(err).Msg("failed to load conversations, starting empty")
		return
	}
	if !found {
		return
	}

	var loaded []*Conversation
	if err := json.Unmarshal(data, &loaded); err != nil {
		s.log.Warn().Err(err).Msg("persisted conversation data has an invalid format, discarding it")
		_ = s.kv.Delete(keyConversations)
		_ = s.kv.Delete(keyCurrentID)
		return
	}

	for _, conv := range loaded {
		if conv == nil || conv.ID == "" {
			// skip malformed entries instead of failing the whole load
			continue
		}
		if conv.Messages == nil {
			conv.Messages = []Message{}
		}
		if conv.Language == "" {
			conv.Language = DefaultLanguage
		}
		s.conversations = append(s.conversations, conv)
	}
	s.rebuildConvIndex()
	for _, conv := range s.conversations {
		s.rebuildMsgIndex(conv)
	}

	if id, found, err := s.kv.Get(keyCurrentID); err == nil && found {
		if _, ok := s.convIndex[string(id)]; ok {
			s.currentID = string(id)
		}
	} else if err != nil {
		s.log.Warn().Err(err).Msg("failed to load current conversation id")
	}
	if s.currentID == "" && len(s.conversations) > 0 {
		s.currentID = s.conversations[0].ID
		s.persistCurrent()
	}
}
