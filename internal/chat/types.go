package chat

import (
	"errors"
	"strings"
)

// ErrNotFound is returned when a room, user, or the acting identity cannot
// be resolved on the chat platform.
var ErrNotFound = errors.New("not found")

// Room is a chat-platform room. Discussions are rooms parented to a channel.
type Room struct {
	ID          string
	Name        string
	DisplayName string
	Description string
	ParentID    string
}

// User is a chat-platform account.
type User struct {
	ID       string
	Username string
	Name     string
	Emails   []string
}

// HasEmail reports whether the user owns email, compared case-insensitively.
func (u User) HasEmail(email string) bool {
	for _, e := range u.Emails {
		if strings.EqualFold(e, email) {
			return true
		}
	}
	return false
}
