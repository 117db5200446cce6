package reconcile

import (
	"context"

	"github.com/geekgonecrazy/rfd-tool-rc-app/internal/chat"
)

//go:generate mockgen -destination=mocks/mock_chat.go -package=mocks github.com/geekgonecrazy/rfd-tool-rc-app/internal/reconcile ChatService

// ChatService is the chat-platform capability set the reconciler consumes.
// The production implementation is chat.Rocket; tests supply a mock.
type ChatService interface {
	RoomByName(ctx context.Context, name string) (*chat.Room, error)
	RoomByID(ctx context.Context, id string) (*chat.Room, error)
	AppIdentity(ctx context.Context) (*chat.User, error)
	UserByUsername(ctx context.Context, username string) (*chat.User, error)
	RoomMembers(ctx context.Context, roomID string) ([]chat.User, error)
	CreateDiscussion(ctx context.Context, parentID, displayName, slug, creator string) (*chat.Room, error)
	SetRoomDescription(ctx context.Context, roomID, description, actingUser string) error
	AddMember(ctx context.Context, roomID, username, actingUser string) error
	PostMessage(ctx context.Context, roomID, sender, text string) error
}
