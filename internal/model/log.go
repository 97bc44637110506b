// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

// =============================================================================
// CONVERSATION LOG
// =============================================================================

// Log is an ordered sequence of messages, newest first.
//
// The zero value is an empty, usable log. A Log is not safe for concurrent
// use; the session controller serializes access to it.
type Log []Message

// Unshift prepends a message, keeping newest-first order.
func (l *Log) Unshift(msg Message) {
	*l = append(Log{msg}, *l...)
}

// Newest returns the most recent message and true, or a zero Message and
// false when the log is empty.
func (l Log) Newest() (Message, bool) {
	if len(l) == 0 {
		return Message{}, false
	}
	return l[0], true
}

// HasPending reports whether an unresolved assistant placeholder exists.
// By construction the placeholder, if any, is the newest entry.
func (l Log) HasPending() bool {
	msg, ok := l.Newest()
	return ok && msg.IsPlaceholder()
}

// ResolvePending patches the in-flight placeholder with the reply text and
// returns true. Returns false when the newest entry is not a placeholder;
// no other message is ever touched.
func (l Log) ResolvePending(reply string) bool {
	if len(l) == 0 || !l[0].IsPlaceholder() {
		return false
	}
	l[0].Text = reply
	return true
}

// Chronological returns a copy of the log in oldest-first order, the order
// used when rendering prompt history.
func (l Log) Chronological() Log {
	out := make(Log, len(l))
	for i, msg := range l {
		out[len(l)-1-i] = msg
	}
	return out
}

// Clone returns a shallow copy of the log. Messages are value types, so the
// copy is independent for all mutation the controller performs.
func (l Log) Clone() Log {
	out := make(Log, len(l))
	copy(out, l)
	return out
}

// ContainsID reports whether any message in the log carries the given id.
func (l Log) ContainsID(id string) bool {
	for _, msg := range l {
		if msg.ID == id {
			return true
		}
	}
	return false
}

// Len returns the number of messages.
func (l Log) Len() int {
	return len(l)
}
