package internal

import (
	"fmt"
	"sync/atomic"
	"time"
)

// idCounter breaks ties between ids generated in the same nanosecond tick.
var idCounter atomic.Uint64

// NewMessageID generates a message id unique within a sequence: a
// high-resolution timestamp plus a counter, with the role as a suffix
// discriminator. The counter breaks ties within one clock tick.
func NewMessageID(role string) string {
	return fmt.Sprintf("%d.%d-%s", time.Now().UnixNano(), idCounter.Add(1), role)
}

func nowRFC3339() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// State owns the live message sequence for the currently open conversation
// plus the active conversation id. All mutation goes through the append,
// replace and clear operations below; no operation reorders existing
// entries.
type State struct {
	messages       []Message
	conversationID string
}

// NewState creates an empty State with no conversation selected.
func NewState() *State {
	return &State{}
}

// Messages returns the current message sequence in append order.
func (s *State) Messages() []Message {
	return s.messages
}

// ConversationID returns the active conversation id, empty when none is
// selected.
func (s *State) ConversationID() string {
	return s.conversationID
}

// SetConversationID selects a conversation without touching the message
// sequence. Used when history is loaded for a newly selected conversation.
func (s *State) SetConversationID(id string) {
	s.conversationID = id
}

// AppendUserMessage creates and appends a user message with a fresh id and
// the current timestamp. The pending message is visible before the request
// is dispatched.
func (s *State) AppendUserMessage(text string) Message {
	msg := Message{
		ID:        NewMessageID("user"),
		Role:      "user",
		Content:   text,
		Timestamp: nowRFC3339(),
	}
	s.messages = append(s.messages, msg)
	return msg
}

// AppendAssistantMessage appends a normalized assistant message. When the
// server answered under a different conversation id (a conversation created
// on the fly), the active id is adopted.
func (s *State) AppendAssistantMessage(msg Message, conversationID string) {
	s.messages = append(s.messages, msg)
	if conversationID != "" && conversationID != s.conversationID {
		s.conversationID = conversationID
	}
}

// AppendSystemMessage appends a normalized system message, used for
// non-conversational notices such as upload confirmations.
func (s *State) AppendSystemMessage(msg Message) {
	s.messages = append(s.messages, msg)
}

// AppendErrorMessage appends a synthetic assistant message describing a
// failed send. It never fails; the pending user message stays in the log.
func (s *State) AppendErrorMessage(err error) Message {
	msg := Message{
		ID:        NewMessageID("assistant"),
		Role:      "assistant",
		Content:   ExplainSendError(err),
		Timestamp: nowRFC3339(),
		IsError:   true,
	}
	s.messages = append(s.messages, msg)
	return msg
}

// ReplaceAll swaps in a new message sequence wholesale, used when switching
// conversations. This is the only operation that may shrink the sequence.
func (s *State) ReplaceAll(messages []Message) {
	s.messages = messages
}

// Clear empties the sequence and unsets the active conversation id. Used on
// sign-out, on a new conversation, and as the fallback when conversation
// creation fails remotely.
func (s *State) Clear() {
	s.messages = nil
	s.conversationID = ""
}
