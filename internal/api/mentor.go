package api

import (
	"context"
	"net/http"
)

// MentorRequest is one user turn. An empty ConversationID starts a new
// conversation.
type MentorRequest struct {
	Message        string `json:"message"`
	ConversationID string `json:"conversationId,omitempty"`
}

// MentorReply is the mentor's answer and the conversation it belongs to.
type MentorReply struct {
	ConversationID string `json:"conversationId"`
	Message        string `json:"message"`
}

// MentorChat sends a message to the AI mentor.
func (c *Client) MentorChat(ctx context.Context, req MentorRequest) (MentorReply, error) {
	var out MentorReply
	err := c.call(ctx, http.MethodPost, "/api/mentor/chat", req, &out)
	return out, err
}
