package mentor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/p-n-ai/cogni/internal/api"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"

	// ErrorReply is shown in the transcript when the mentor cannot answer.
	ErrorReply = "Sorry, I encountered an error. Please try again."
)

// ErrEmptyMessage is returned for blank input. Nothing is sent.
var ErrEmptyMessage = errors.New("message is empty")

// Replier sends one user turn to the mentor backend.
type Replier interface {
	MentorChat(ctx context.Context, req api.MentorRequest) (api.MentorReply, error)
}

// Chat is one interactive mentor session.
type Chat struct {
	replier Replier
	store   Store
	convID  string
}

// NewChat starts a session with an empty conversation.
func NewChat(replier Replier, store Store) (*Chat, error) {
	if store == nil {
		store = NewMemoryStore()
	}
	c := &Chat{replier: replier, store: store}
	if err := c.Reset(); err != nil {
		return nil, err
	}
	return c, nil
}

// Reset starts a new conversation. The next message gets a fresh server id.
func (c *Chat) Reset() error {
	id, err := c.store.CreateConversation(Conversation{})
	if err != nil {
		return fmt.Errorf("create conversation: %w", err)
	}
	c.convID = id
	return nil
}

// Send records text, asks the mentor and records the answer. On failure an
// error line is added to the transcript and the error is returned.
func (c *Chat) Send(ctx context.Context, text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrEmptyMessage
	}

	conv, err := c.store.GetConversation(c.convID)
	if err != nil {
		return "", err
	}

	slog.Info("sending mentor message",
		"conversation_id", conv.ServerID,
		"text_len", len(text),
	)

	if err := c.store.AddMessage(conv.ID, Message{Role: RoleUser, Content: text}); err != nil {
		slog.Error("failed to store user message", "error", err)
	}

	reply, err := c.replier.MentorChat(ctx, api.MentorRequest{
		Message:        text,
		ConversationID: conv.ServerID,
	})
	if err != nil {
		slog.Error("mentor chat failed", "error", err)
		if err := c.store.AddMessage(conv.ID, Message{Role: RoleAssistant, Content: ErrorReply, IsError: true}); err != nil {
			slog.Error("failed to store error reply", "error", err)
		}
		return "", fmt.Errorf("mentor chat: %w", err)
	}

	if reply.ConversationID != "" && reply.ConversationID != conv.ServerID {
		if err := c.store.SetServerID(conv.ID, reply.ConversationID); err != nil {
			slog.Error("failed to store conversation id", "error", err)
		}
	}
	if err := c.store.AddMessage(conv.ID, Message{Role: RoleAssistant, Content: reply.Message}); err != nil {
		slog.Error("failed to store assistant message", "error", err)
	}

	return reply.Message, nil
}

// Transcript returns the messages of the current conversation.
func (c *Chat) Transcript() []Message {
	conv, err := c.store.GetConversation(c.convID)
	if err != nil {
		return nil
	}
	return conv.Messages
}

// ConversationID returns the backend's id for the current conversation.
func (c *Chat) ConversationID() string {
	conv, err := c.store.GetConversation(c.convID)
	if err != nil {
		return ""
	}
	return conv.ServerID
}
