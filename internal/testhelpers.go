package internal

import (
	"time"
)

// CreateTestTranscript creates a test transcript with sample data
func CreateTestTranscript(id string) *Transcript {
	return &Transcript{
		Conversation: Conversation{
			ID:            id,
			Title:         "Test Conversation",
			LastMessageAt: time.Now().Format(time.RFC3339),
			TotalMessages: 2,
		},
		Messages: []Message{
			{
				ID:        NewMessageID("user"),
				Role:      "user",
				Content:   "What happened in the markets today?",
				Timestamp: time.Now().Format(time.RFC3339),
			},
			{
				ID:        NewMessageID("assistant"),
				Role:      "assistant",
				Content:   "Here is a short digest of today's market news.",
				Timestamp: time.Now().Format(time.RFC3339),
				Mode:      ModeRAGSearch,
			},
		},
		ExportedAt: time.Now().Format(time.RFC3339),
	}
}

// CreateTestTranscriptWithMessages creates a test transcript with custom messages
func CreateTestTranscriptWithMessages(id string, messages []Message) *Transcript {
	return &Transcript{
		Conversation: Conversation{
			ID:            id,
			TotalMessages: len(messages),
		},
		Messages: messages,
	}
}
