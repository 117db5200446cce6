package reconcile

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/geekgonecrazy/rfd-tool-rc-app/internal/chat"
	"github.com/geekgonecrazy/rfd-tool-rc-app/internal/rfd"
	"github.com/geekgonecrazy/rfd-tool-rc-app/internal/store"
)

// Config carries the settings the reconciler needs. No hidden global state;
// the caller constructs this from its configuration layer.
type Config struct {
	// ParentChannel is the name of the channel discussions are parented to.
	ParentChannel string
	// Prefix defaults to "RFD" and leads every discussion display name.
	Prefix string
	// SiteURL is the chat site root, e.g. "https://chat.example.com".
	SiteURL string
	// UseDeepLinks switches the produced discussion URLs to the universal
	// go.rocket.chat form.
	UseDeepLinks bool
	// OverwriteInvalidURL makes an invalid incoming discussion reference
	// trigger creation of a replacement instead of being trusted.
	OverwriteInvalidURL bool
}

// Action describes what a reconciliation did.
type Action string

const (
	ActionCreated Action = "created"
	ActionUpdated Action = "updated"
	ActionNone    Action = "none"
)

// Result is the outcome of one reconciliation.
type Result struct {
	RoomID string
	URL    string
	Action Action
}

// Reconciler drives the chat platform to keep one discussion room per RFD.
type Reconciler struct {
	chat   ChatService
	store  *store.DiscussionStore
	cfg    Config
	logger *slog.Logger

	// keyLocks serializes reconciliation per record id, closing the
	// check-then-create window between concurrent deliveries.
	mu       sync.Mutex
	keyLocks map[string]*sync.Mutex
}

// New constructs a Reconciler. logger may be nil.
func New(chatSvc ChatService, st *store.DiscussionStore, cfg Config, logger *slog.Logger) *Reconciler {
	if cfg.Prefix == "" {
		cfg.Prefix = "RFD"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Reconciler{
		chat:     chatSvc,
		store:    st,
		cfg:      cfg,
		logger:   logger,
		keyLocks: make(map[string]*sync.Mutex),
	}
}

func (r *Reconciler) lockKey(id string) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.keyLocks[id]
	if !ok {
		l = &sync.Mutex{}
		r.keyLocks[id] = l
	}
	return l
}

// Reconcile applies one webhook event. The event must already be validated.
func (r *Reconciler) Reconcile(ctx context.Context, ev *rfd.Event) (*Result, error) {
	record := ev.RFD

	lock := r.lockKey(record.ID)
	lock.Lock()
	defer lock.Unlock()

	reference := r.trustedReference(record)

	switch ev.Event {
	case rfd.EventCreated:
		if reference != "" {
			// Already reconciled upstream; nothing to do.
			return &Result{RoomID: ParseRoomID(reference), URL: reference, Action: ActionNone}, nil
		}
		existing, err := r.store.Get(ctx, record.ID)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			// A prior create succeeded but its response was lost.
			return &Result{RoomID: existing.RoomID, URL: existing.RoomURL, Action: ActionNone}, nil
		}
		return r.create(ctx, ev)

	case rfd.EventUpdated:
		if reference == "" {
			existing, err := r.store.Get(ctx, record.ID)
			if err != nil {
				return nil, err
			}
			if existing == nil {
				return r.create(ctx, ev)
			}
			reference = existing.RoomURL
		}
		return r.update(ctx, ev, reference)

	default:
		return nil, fmt.Errorf("unknown event type %q", ev.Event)
	}
}

// trustedReference returns the record's discussion reference, or "" when it
// is absent or (with overwrite enabled) does not point at the configured
// site.
func (r *Reconciler) trustedReference(record *rfd.Record) string {
	ref := strings.TrimSpace(record.DiscussionURL)
	if ref == "" {
		return ""
	}
	if r.cfg.OverwriteInvalidURL && !ValidDiscussionURL(ref, r.cfg.SiteURL) {
		r.logger.Warn("ignoring invalid discussion reference",
			"rfd_id", record.ID, "reference", ref)
		return ""
	}
	return ref
}

// create provisions a discussion room, decorates it, and persists the
// mapping. Failures before the room exists propagate; afterwards they are
// logged and swallowed.
func (r *Reconciler) create(ctx context.Context, ev *rfd.Event) (*Result, error) {
	record := ev.RFD

	parent, err := r.chat.RoomByName(ctx, r.cfg.ParentChannel)
	if err != nil {
		return nil, fmt.Errorf("resolve parent channel %q: %w", r.cfg.ParentChannel, err)
	}
	app, err := r.chat.AppIdentity(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolve acting identity: %w", err)
	}

	name := displayName(r.cfg.Prefix, record.ID, record.Title)
	room, err := r.chat.CreateDiscussion(ctx, parent.ID, name, slugify(name), app.Username)
	if err != nil {
		return nil, fmt.Errorf("create discussion: %w", err)
	}

	// The room exists now; everything below is cosmetic.
	desc := roomDescription(record.State.Description(), record.Tags, ev.Link)
	if err := r.chat.SetRoomDescription(ctx, room.ID, desc, app.Username); err != nil {
		r.logger.Warn("failed to set discussion description", "room", room.ID, "error", err)
	}

	members, err := r.chat.RoomMembers(ctx, parent.ID)
	if err != nil {
		r.logger.Warn("failed to list parent channel members; skipping author invites",
			"room", parent.ID, "error", err)
		members = nil
	}
	r.addAuthors(ctx, room.ID, app.Username, record.Authors, members)

	intro := fmt.Sprintf("Discussion for **%s**\nStatus: %s\nAuthors: %s\nView record: %s",
		name, record.State.Description(), authorList(record.Authors), ev.Link)
	if err := r.chat.PostMessage(ctx, room.ID, app.Username, intro); err != nil {
		r.logger.Warn("failed to post intro message", "room", room.ID, "error", err)
	}

	roomURL := BuildDiscussionURL(r.cfg.SiteURL, room.ID, r.cfg.UseDeepLinks)
	if err := r.store.Put(ctx, record.ID, room.ID, roomURL); err != nil {
		return nil, fmt.Errorf("persist discussion mapping: %w", err)
	}

	r.logger.Info("discussion created",
		"rfd_id", record.ID, "room", room.ID, "url", roomURL)
	return &Result{RoomID: room.ID, URL: roomURL, Action: ActionCreated}, nil
}

// update posts a change notice into the existing discussion. Field order is
// fixed: state, title, content, authors, tags.
func (r *Reconciler) update(ctx context.Context, ev *rfd.Event, reference string) (*Result, error) {
	record := ev.RFD

	roomID := ParseRoomID(reference)
	if roomID == "" {
		return nil, fmt.Errorf("discussion reference %q has no room id: %w",
			reference, chat.ErrNotFound)
	}

	// An all-absent change set is an explicit no-op. Return before touching
	// the chat collaborator at all.
	changes := ev.Changes
	if changes.Empty() {
		return &Result{RoomID: roomID, URL: reference, Action: ActionNone}, nil
	}

	room, err := r.chat.RoomByID(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("resolve discussion room %q: %w", roomID, err)
	}

	var lines []string

	if c := changes.State; c != nil {
		desc := roomDescription(c.New.Description(), record.Tags, ev.Link)
		if err := r.chat.SetRoomDescription(ctx, room.ID, desc, ""); err != nil {
			r.logger.Warn("failed to update discussion description", "room", room.ID, "error", err)
		}
		lines = append(lines, fmt.Sprintf("Status changed: %s → %s",
			c.Old.Description(), c.New.Description()))
	}

	if c := changes.Title; c != nil {
		// Renaming the room itself needs elevated permission the acting
		// account may lack, so only the notice is posted.
		lines = append(lines, fmt.Sprintf("Title changed: %q → %q", c.Old, c.New))
	}

	if changes.Content {
		lines = append(lines, fmt.Sprintf("Content updated — view the latest version: %s", ev.Link))
	}

	if c := changes.Authors; c != nil {
		if added := diffAdded(c.Old, c.New); len(added) > 0 {
			members := r.parentMembers(ctx, room)
			r.addAuthors(ctx, room.ID, "", added, members)
			lines = append(lines, "New authors added: "+strings.Join(added, ", "))
		}
	}

	if c := changes.Tags; c != nil {
		added := diffAdded(c.Old, c.New)
		removed := diffAdded(c.New, c.Old)
		if len(added) > 0 || len(removed) > 0 {
			var frags []string
			for _, t := range added {
				frags = append(frags, "+"+t)
			}
			for _, t := range removed {
				frags = append(frags, "-"+t)
			}
			lines = append(lines, "Tags changed: "+strings.Join(frags, " "))
		}
	}

	if len(lines) == 0 {
		return &Result{RoomID: room.ID, URL: reference, Action: ActionNone}, nil
	}

	banner := fmt.Sprintf("**%s-%s updated**", r.cfg.Prefix, record.ID)
	message := banner + "\n" + strings.Join(lines, "\n")
	if err := r.chat.PostMessage(ctx, room.ID, "", message); err != nil {
		return nil, fmt.Errorf("post update notice: %w", err)
	}

	r.logger.Info("discussion updated", "rfd_id", record.ID, "room", room.ID, "changes", len(lines))
	return &Result{RoomID: room.ID, URL: reference, Action: ActionUpdated}, nil
}

// parentMembers fetches the membership used for author resolution on the
// update path. Best effort: a failure only suppresses author invites.
func (r *Reconciler) parentMembers(ctx context.Context, room *chat.Room) []chat.User {
	parentID := room.ParentID
	if parentID == "" {
		parent, err := r.chat.RoomByName(ctx, r.cfg.ParentChannel)
		if err != nil {
			r.logger.Warn("failed to resolve parent channel for author invites", "error", err)
			return nil
		}
		parentID = parent.ID
	}
	members, err := r.chat.RoomMembers(ctx, parentID)
	if err != nil {
		r.logger.Warn("failed to list parent members for author invites",
			"room", parentID, "error", err)
		return nil
	}
	return members
}

// diffAdded returns the elements of next that are absent from prev, by exact
// string equality, preserving next's order.
func diffAdded(prev, next []string) []string {
	seen := make(map[string]struct{}, len(prev))
	for _, v := range prev {
		seen[v] = struct{}{}
	}
	var out []string
	for _, v := range next {
		if _, ok := seen[v]; !ok {
			out = append(out, v)
		}
	}
	return out
}

func authorList(authors []string) string {
	if len(authors) == 0 {
		return "none"
	}
	return strings.Join(authors, ", ")
}
