// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"testing"
	"time"

	"github.com/medchat/medchat-tui/internal/model"
)

func seededConversation() *Conversation {
	c := NewConversation()
	c.SetSession(&model.Session{
		ID: "abc123",
		Messages: []model.Message{
			{Role: model.RoleUser, Text: "bonjour"},
			{Role: model.RoleBot, Text: "Bonjour, comment puis-je aider ?"},
		},
		Timestamp: time.Now(),
	})
	return c
}

func TestBeginSend_OptimisticAppend(t *testing.T) {
	c := seededConversation()

	seq, ok := c.BeginSend("j'ai de la fièvre")
	if !ok {
		t.Fatal("BeginSend() refused")
	}
	if !c.Sending() {
		t.Error("Sending() = false during in-flight send")
	}

	msgs := c.Messages()
	last := msgs[len(msgs)-1]
	if last.Role != model.RoleUser || last.Text != "j'ai de la fièvre" {
		t.Errorf("tentative message = %+v", last)
	}

	if !c.CompleteSend(seq, "Reposez-vous et hydratez-vous.") {
		t.Fatal("CompleteSend() rejected matching seq")
	}
	msgs = c.Messages()
	if len(msgs) != 4 {
		t.Fatalf("len = %d, want 4", len(msgs))
	}
	if msgs[2].Text != "j'ai de la fièvre" || msgs[3].Text != "Reposez-vous et hydratez-vous." {
		t.Errorf("tail = [%+v, %+v]", msgs[2], msgs[3])
	}
	if c.Sending() {
		t.Error("Sending() = true after commit")
	}
}

func TestBeginSend_SingleInFlight(t *testing.T) {
	c := seededConversation()

	seq, ok := c.BeginSend("first")
	if !ok {
		t.Fatal("first BeginSend() refused")
	}

	// A second submit while sending is a no-op.
	if _, ok := c.BeginSend("second"); ok {
		t.Error("second BeginSend() should be refused while in flight")
	}
	if len(c.Messages()) != 3 {
		t.Errorf("len = %d, refused send must not mutate state", len(c.Messages()))
	}

	c.CompleteSend(seq, "done")
	if _, ok := c.BeginSend("third"); !ok {
		t.Error("BeginSend() should work again after the commit")
	}
}

func TestBeginSend_BlankRefused(t *testing.T) {
	c := seededConversation()
	if _, ok := c.BeginSend("   "); ok {
		t.Error("blank message should be refused")
	}
	if c.Sending() {
		t.Error("refused send left the conversation in sending state")
	}
}

func TestFailSend_ExactRollback(t *testing.T) {
	c := seededConversation()
	before := make([]model.Message, len(c.Messages()))
	copy(before, c.Messages())

	seq, _ := c.BeginSend("j'ai de la fièvre")
	restored, ok := c.FailSend(seq)
	if !ok {
		t.Fatal("FailSend() rejected matching seq")
	}

	// Rollback is exact and the input text comes back.
	if restored != "j'ai de la fièvre" {
		t.Errorf("restored = %q", restored)
	}
	after := c.Messages()
	if len(after) != len(before) {
		t.Fatalf("len = %d, want %d", len(after), len(before))
	}
	for i := range before {
		if after[i] != before[i] {
			t.Errorf("message %d = %+v, want %+v", i, after[i], before[i])
		}
	}
	if c.Sending() {
		t.Error("Sending() = true after rollback")
	}
}

func TestStaleResultsDropped(t *testing.T) {
	c := seededConversation()
	seq, _ := c.BeginSend("first")

	// Switching sessions invalidates the in-flight send.
	c.SetSession(&model.Session{ID: "other"})

	if c.CompleteSend(seq, "late reply") {
		t.Error("CompleteSend() accepted a stale result")
	}
	if _, ok := c.FailSend(seq); ok {
		t.Error("FailSend() accepted a stale result")
	}
	if len(c.Messages()) != 0 {
		t.Errorf("stale result mutated the new session: %+v", c.Messages())
	}
}

func TestCompleteSend_WrongSeq(t *testing.T) {
	c := seededConversation()
	seq, _ := c.BeginSend("hello")

	if c.CompleteSend(seq+1, "nope") {
		t.Error("CompleteSend() accepted a mismatched seq")
	}
	// The real result still lands.
	if !c.CompleteSend(seq, "hi") {
		t.Error("CompleteSend() rejected the genuine result")
	}
}

func TestSetSession_ClonesInput(t *testing.T) {
	s := &model.Session{
		ID:       "abc123",
		Messages: []model.Message{{Role: model.RoleUser, Text: "original"}},
	}
	c := NewConversation()
	c.SetSession(s)

	seq, _ := c.BeginSend("more")
	c.CompleteSend(seq, "reply")

	// The caller's session must be untouched by conversation edits.
	if len(s.Messages) != 1 {
		t.Errorf("source session mutated: %+v", s.Messages)
	}
}
