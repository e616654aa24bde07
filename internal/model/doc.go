// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for chat sessions and messages.
//
// # Key Types
//
//   - Session: a server-tracked conversation with an identifier, ordered
//     messages, and a last-activity timestamp
//   - Message: a single message with a role and text
//   - Role: message role enumeration (user, bot)
//
// Sessions are owned by the backend; the client holds read-mostly cached
// copies and never deletes them locally. Removal is only ever reflected by
// a subsequent history fetch.
package model
