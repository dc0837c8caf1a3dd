// Package chat implements the conversation state engine: it owns the
// ordered collection of conversations, the current-conversation
// pointer, and every operation that mutates them, persisting the full
// state through a key-value store after each mutation.
package chat

import (
	"time"

	"github.com/google/uuid"
)

// Sender identifies who authored a message.
type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

// Language is the locale tag of a conversation.
type Language string

const (
	LanguageTurkish Language = "tr"
	LanguageEnglish Language = "en"
	LanguageGerman  Language = "de"
	LanguageRussian Language = "ru"
)

// DefaultLanguage is assigned to newly created conversations.
const DefaultLanguage = LanguageTurkish

// DefaultTitle is the placeholder title of a fresh conversation. The
// first user message replaces it, see deriveTitle.
const DefaultTitle = "Yeni Sohbet"

// titleLimit is the character budget for auto-derived titles.
const titleLimit = 10

// Message is a single entry in a conversation.
type Message struct {
	ID        string `json:"id"`
	Sender    Sender `json:"sender"`
	Text      string `json:"message"`
	Timestamp string `json:"timestamp"`
	Edited    bool   `json:"isEdited,omitempty"`
	// OriginalText preserves the pre-edit content. It is set on the
	// first edit and never overwritten by later edits.
	OriginalText string `json:"originalMessage,omitempty"`
}

// NewMessage builds a message with a fresh unique ID and a
// minute-precision display timestamp.
func NewMessage(sender Sender, text string) Message {
	return Message{
		ID:        uuid.NewString(),
		Sender:    sender,
		Text:      text,
		Timestamp: time.Now().Format("15:04"),
	}
}

// Conversation is a titled, ordered sequence of messages with its own
// language setting. Message order is append order and is semantically
// meaningful.
type Conversation struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Messages  []Message `json:"messages"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Language  Language  `json:"language"`
}

// clone returns a deep copy; Message fields are plain values so
// copying the slice is enough.
func (c *Conversation) clone() Conversation {
	out := *c
	out.Messages = append([]Message(nil), c.Messages...)
	return out
}

// deriveTitle truncates the first user message to the title budget,
// appending an ellipsis marker when it was longer.
func deriveTitle(text string) string {
	runes := []rune(text)
	if len(runes) > titleLimit {
		return string(runes[:titleLimit]) + "..."
	}
	return text
}
