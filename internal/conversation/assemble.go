// Package conversation holds the pure logic that turns stored history and
// incoming turns into provider input. Nothing here touches storage; the
// persistence decisions it computes are carried out by the chat service.
package conversation

import (
	"strings"

	"github.com/nexchat/nexchat-backend/internal/providers"
)

// TitleMaxRunes bounds a derived session title before the ellipsis kicks in.
const TitleMaxRunes = 20

// Assemble builds the ordered provider input: optional system message,
// then stored history, then the incoming turns, each in original order.
// History is skipped when the incoming batch already resends it (any
// incoming turn matching a stored one by role and content); including
// both would hand the provider the same turns twice.
func Assemble(systemMessage string, history, incoming []providers.Message) []providers.Message {
	out := make([]providers.Message, 0, 1+len(history)+len(incoming))

	if systemMessage != "" {
		out = append(out, providers.Message{Role: "system", Content: systemMessage})
	}
	if !overlaps(history, incoming) {
		out = append(out, history...)
	}
	out = append(out, incoming...)

	return out
}

// overlaps reports whether any incoming turn duplicates a stored turn.
func overlaps(history, incoming []providers.Message) bool {
	if len(history) == 0 {
		return false
	}

	stored := make(map[providers.Message]struct{}, len(history))
	for _, msg := range history {
		stored[msg] = struct{}{}
	}
	for _, msg := range incoming {
		if _, ok := stored[msg]; ok {
			return true
		}
	}
	return false
}

// PersistPlan decides which incoming turns to store. A fresh session (new
// or with no stored history) stores everything the caller supplied. A
// session that already has history stores only the last user turn: the
// rest of the incoming list is assumed to be resent history, and storing
// it again would double-count the record. Assistant or system turns
// supplied mid-batch on a continuing session are dropped by this rule;
// that asymmetry is deliberate and kept for compatibility.
func PersistPlan(fresh bool, incoming []providers.Message) []providers.Message {
	if fresh {
		return incoming
	}

	if last, ok := LastUserMessage(incoming); ok {
		return []providers.Message{last}
	}
	return nil
}

// LastUserMessage returns the last user-role message in the list.
func LastUserMessage(msgs []providers.Message) (providers.Message, bool) {
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Role == "user" {
			return msgs[i], true
		}
	}
	return providers.Message{}, false
}

// DeriveTitle derives a session title from a message, truncating long
// content at TitleMaxRunes with an ellipsis marker. Rune-based so CJK
// content truncates cleanly.
func DeriveTitle(content string) string {
	content = strings.TrimSpace(content)
	runes := []rune(content)
	if len(runes) <= TitleMaxRunes {
		return content
	}
	return string(runes[:TitleMaxRunes]) + "..."
}
