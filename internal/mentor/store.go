// Package mentor runs chat sessions with the AI mentor and keeps their
// transcripts.
package mentor

import (
	"crypto/rand"
	"fmt"
	"sync"
	"time"
)

// Message is one line of a mentor transcript.
type Message struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	IsError   bool      `json:"is_error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Conversation is a local transcript. ServerID is the backend's
// conversationId, unknown until the first reply arrives.
type Conversation struct {
	ID        string    `json:"id"`
	ServerID  string    `json:"server_id,omitempty"`
	Messages  []Message `json:"messages"`
	StartedAt time.Time `json:"started_at"`
}

// Store keeps conversation transcripts.
type Store interface {
	CreateConversation(conv Conversation) (string, error)
	GetConversation(id string) (*Conversation, error)
	AddMessage(conversationID string, msg Message) error
	SetServerID(conversationID, serverID string) error
}

// MemoryStore is an in-memory implementation of Store.
type MemoryStore struct {
	conversations map[string]*Conversation
	mu            sync.RWMutex
}

// NewMemoryStore creates a new in-memory conversation store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		conversations: make(map[string]*Conversation),
	}
}

func (s *MemoryStore) CreateConversation(conv Conversation) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := generateID()
	conv.ID = id
	conv.StartedAt = time.Now()
	conv.Messages = append([]Message{}, conv.Messages...)
	s.conversations[id] = &conv
	return id, nil
}

// GetConversation returns a copy of the stored conversation.
func (s *MemoryStore) GetConversation(id string) (*Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	conv, ok := s.conversations[id]
	if !ok {
		return nil, fmt.Errorf("conversation not found: %s", id)
	}
	cp := *conv
	cp.Messages = append([]Message{}, conv.Messages...)
	return &cp, nil
}

func (s *MemoryStore) AddMessage(conversationID string, msg Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, ok := s.conversations[conversationID]
	if !ok {
		return fmt.Errorf("conversation not found: %s", conversationID)
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now()
	}
	conv.Messages = append(conv.Messages, msg)
	return nil
}

func (s *MemoryStore) SetServerID(conversationID, serverID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, ok := s.conversations[conversationID]
	if !ok {
		return fmt.Errorf("conversation not found: %s", conversationID)
	}
	conv.ServerID = serverID
	return nil
}

func generateID() string {
	b := make([]byte, 16)
	rand.Read(b)
	return fmt.Sprintf("%x", b)
}
