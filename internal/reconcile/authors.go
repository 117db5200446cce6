package reconcile

import (
	"context"
	"strings"

	"github.com/geekgonecrazy/rfd-tool-rc-app/internal/chat"
)

// parseAuthorToken derives the matchable value from an author token. The
// "Name <email>" form yields the email; anything else is the trimmed token
// itself, which may be an email or a username.
func parseAuthorToken(token string) string {
	token = strings.TrimSpace(token)
	open := strings.IndexByte(token, '<')
	close_ := strings.LastIndexByte(token, '>')
	if open >= 0 && close_ > open {
		return strings.TrimSpace(token[open+1 : close_])
	}
	return token
}

// resolveAuthor maps one author token to a chat username, or "" if the token
// cannot be resolved. Resolution order, first match wins:
//
//  1. the derived email matches any email of a parent-room member
//  2. the derived value matches a parent-room member's username
//  3. for values that cannot be emails, a direct username lookup
func (r *Reconciler) resolveAuthor(ctx context.Context, token string, members []chat.User) string {
	value := parseAuthorToken(token)
	if value == "" {
		return ""
	}

	for _, m := range members {
		if m.HasEmail(value) {
			return m.Username
		}
	}
	for _, m := range members {
		if strings.EqualFold(m.Username, value) {
			return m.Username
		}
	}
	if !strings.Contains(value, "@") {
		if user, err := r.chat.UserByUsername(ctx, value); err == nil && user != nil {
			return user.Username
		}
	}
	return ""
}

// addAuthors resolves each token and invites the matches into roomID.
// Per-author failures are logged and skipped. Returns the usernames added.
func (r *Reconciler) addAuthors(ctx context.Context, roomID, actingUser string, tokens []string, members []chat.User) []string {
	var added []string
	for _, token := range tokens {
		username := r.resolveAuthor(ctx, token, members)
		if username == "" {
			r.logger.Debug("author not resolvable, skipping", "author", token)
			continue
		}
		if err := r.chat.AddMember(ctx, roomID, username, actingUser); err != nil {
			r.logger.Warn("failed to add author to discussion",
				"author", token, "username", username, "room", roomID, "error", err)
			continue
		}
		added = append(added, username)
	}
	return added
}
