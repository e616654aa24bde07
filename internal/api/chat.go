// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/medchat/medchat-tui/internal/model"
)

// ErrEmptyMessage indicates a send attempt with no text.
var ErrEmptyMessage = errors.New("message is empty")

// sendRequest is the JSON body for a chat message.
type sendRequest struct {
	Message string `json:"message"`
}

// sendResponse carries the assistant's reply.
type sendResponse struct {
	Reply string `json:"reply"`
}

// historyResponse is the wire shape of the history listing. Timestamps arrive
// as strings (naive UTC from the backend) and are parsed leniently.
type historyResponse struct {
	Items []historyItem `json:"items"`
}

type historyItem struct {
	ChatID    string          `json:"chat_id"`
	Messages  []model.Message `json:"messages"`
	Timestamp string          `json:"timestamp"`
}

// newChatResponse carries the identifier of a freshly created session.
type newChatResponse struct {
	ChatID string `json:"chat_id"`
}

// closeRequest names the session to close. A nil ChatID means "let the
// backend decide", which closes its most recent open session.
type closeRequest struct {
	ChatID *string `json:"chat_id"`
}

// closeResponse reports the outcome of a close call.
type closeResponse struct {
	Closed bool   `json:"closed"`
	Error  string `json:"error"`
}

// SendMessage sends one user message to the active session and returns the
// assistant's reply text.
func (c *Client) SendMessage(ctx context.Context, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyMessage
	}

	var resp sendResponse
	if err := c.postJSON(ctx, "/chat/message", sendRequest{Message: text}, &resp); err != nil {
		return "", err
	}
	return resp.Reply, nil
}

// History fetches all past sessions, sorted most recent first. Sorting is
// done client-side; the backend's order is not trusted.
func (c *Client) History(ctx context.Context) ([]model.Session, error) {
	var resp historyResponse
	if err := c.get(ctx, "/chat/history", &resp); err != nil {
		return nil, err
	}

	sessions := make([]model.Session, 0, len(resp.Items))
	for _, item := range resp.Items {
		sessions = append(sessions, model.Session{
			ID:        item.ChatID,
			Messages:  item.Messages,
			Timestamp: model.ParseTimestamp(item.Timestamp),
		})
	}
	model.SortSessions(sessions)
	return sessions, nil
}

// NewChat creates a fresh session and returns its identifier.
func (c *Client) NewChat(ctx context.Context) (string, error) {
	var resp newChatResponse
	if err := c.postJSON(ctx, "/chat/new", struct{}{}, &resp); err != nil {
		return "", err
	}
	if resp.ChatID == "" {
		return "", fmt.Errorf("new chat created but no identifier was returned")
	}
	return resp.ChatID, nil
}

// CloseChat closes the named session, or the backend's choice when id is
// empty. A reported-but-not-performed close surfaces as an error.
func (c *Client) CloseChat(ctx context.Context, id string) error {
	req := closeRequest{}
	if id != "" {
		req.ChatID = &id
	}

	var resp closeResponse
	if err := c.postJSON(ctx, "/chat/close", req, &resp); err != nil {
		return err
	}
	if !resp.Closed {
		if resp.Error != "" {
			return fmt.Errorf("close failed: %s", resp.Error)
		}
		return fmt.Errorf("close failed")
	}
	return nil
}
