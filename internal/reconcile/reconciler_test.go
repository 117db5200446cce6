package reconcile

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geekgonecrazy/rfd-tool-rc-app/internal/chat"
	"github.com/geekgonecrazy/rfd-tool-rc-app/internal/reconcile/mocks"
	"github.com/geekgonecrazy/rfd-tool-rc-app/internal/rfd"
	"github.com/geekgonecrazy/rfd-tool-rc-app/internal/storage"
	"github.com/geekgonecrazy/rfd-tool-rc-app/internal/store"
)

const testSite = "https://chat.example.com"

func newTestReconciler(t *testing.T) (*Reconciler, *mocks.MockChatService, *store.DiscussionStore) {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)
	mockChat := mocks.NewMockChatService(ctrl)

	db, err := storage.OpenSQLite(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	st := store.NewDiscussionStore(db)

	r := New(mockChat, st, Config{
		ParentChannel: "rfd",
		Prefix:        "RFD",
		SiteURL:       testSite,
	}, nil)
	return r, mockChat, st
}

func createdEvent(id, title string) *rfd.Event {
	return &rfd.Event{
		Event: rfd.EventCreated,
		RFD: &rfd.Record{
			ID:      id,
			Title:   title,
			Authors: []string{"alice@x.com"},
			State:   rfd.StateIdeation,
			Tags:    []string{"infra"},
		},
		Link: "https://rfd.example.com/rfd/" + id,
	}
}

func expectCreate(m *mocks.MockChatService, roomID string) {
	parent := &chat.Room{ID: "GENERAL", Name: "rfd"}
	bot := &chat.User{ID: "b1", Username: "rfd-bot"}

	m.EXPECT().RoomByName(gomock.Any(), "rfd").Return(parent, nil)
	m.EXPECT().AppIdentity(gomock.Any()).Return(bot, nil)
	m.EXPECT().CreateDiscussion(gomock.Any(), "GENERAL", gomock.Any(), gomock.Any(), "rfd-bot").
		Return(&chat.Room{ID: roomID, ParentID: "GENERAL"}, nil)
	m.EXPECT().SetRoomDescription(gomock.Any(), roomID, gomock.Any(), "rfd-bot").Return(nil)
	m.EXPECT().RoomMembers(gomock.Any(), "GENERAL").
		Return([]chat.User{{ID: "u1", Username: "alice", Emails: []string{"alice@x.com"}}}, nil)
	m.EXPECT().AddMember(gomock.Any(), roomID, "alice", "rfd-bot").Return(nil)
	m.EXPECT().PostMessage(gomock.Any(), roomID, "rfd-bot", gomock.Any()).Return(nil)
}

func TestCreatePath(t *testing.T) {
	r, mockChat, st := newTestReconciler(t)
	ev := createdEvent("0001", "Add the thing")

	parent := &chat.Room{ID: "GENERAL", Name: "rfd"}
	bot := &chat.User{ID: "b1", Username: "rfd-bot"}

	mockChat.EXPECT().RoomByName(gomock.Any(), "rfd").Return(parent, nil)
	mockChat.EXPECT().AppIdentity(gomock.Any()).Return(bot, nil)
	mockChat.EXPECT().
		CreateDiscussion(gomock.Any(), "GENERAL", "RFD-0001: Add the thing", "rfd-0001-add-the-thing", "rfd-bot").
		Return(&chat.Room{ID: "DISC1", ParentID: "GENERAL"}, nil)
	mockChat.EXPECT().
		SetRoomDescription(gomock.Any(), "DISC1",
			"Ideation | Tags: infra\n\nView record: https://rfd.example.com/rfd/0001", "rfd-bot").
		Return(nil)
	mockChat.EXPECT().RoomMembers(gomock.Any(), "GENERAL").
		Return([]chat.User{{ID: "u1", Username: "alice", Emails: []string{"alice@x.com"}}}, nil)
	mockChat.EXPECT().AddMember(gomock.Any(), "DISC1", "alice", "rfd-bot").Return(nil)

	var intro string
	mockChat.EXPECT().PostMessage(gomock.Any(), "DISC1", "rfd-bot", gomock.Any()).
		DoAndReturn(func(_ context.Context, _, _, text string) error {
			intro = text
			return nil
		})

	res, err := r.Reconcile(context.Background(), ev)
	require.NoError(t, err)
	assert.Equal(t, ActionCreated, res.Action)
	assert.Equal(t, "DISC1", res.RoomID)
	assert.Equal(t, testSite+"/group/DISC1", res.URL)

	assert.Contains(t, intro, "RFD-0001: Add the thing")
	assert.Contains(t, intro, "Ideation")
	assert.Contains(t, intro, "https://rfd.example.com/rfd/0001")
	assert.Contains(t, intro, "alice@x.com")

	rec, err := st.Get(context.Background(), "0001")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "DISC1", rec.RoomID)
	assert.Equal(t, res.URL, rec.RoomURL)
}

// The same created delivery twice: one room creation, one stored record, and
// the retry answers with the original mapping.
func TestCreateIdempotent(t *testing.T) {
	r, mockChat, st := newTestReconciler(t)
	ev := createdEvent("0001", "Add the thing")

	expectCreate(mockChat, "DISC1")

	first, err := r.Reconcile(context.Background(), ev)
	require.NoError(t, err)
	require.Equal(t, ActionCreated, first.Action)

	// No further collaborator expectations: any chat call here fails the test.
	second, err := r.Reconcile(context.Background(), ev)
	require.NoError(t, err)
	assert.Equal(t, ActionNone, second.Action)
	assert.Equal(t, first.RoomID, second.RoomID)
	assert.Equal(t, first.URL, second.URL)

	n, err := st.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestCreatedWithReferenceAlreadyReconciled(t *testing.T) {
	r, _, st := newTestReconciler(t)

	ev := createdEvent("0001", "Add the thing")
	ev.RFD.DiscussionURL = testSite + "/group/ROOM9"

	res, err := r.Reconcile(context.Background(), ev)
	require.NoError(t, err)
	assert.Equal(t, ActionNone, res.Action)
	assert.Equal(t, ev.RFD.DiscussionURL, res.URL)
	assert.Equal(t, "ROOM9", res.RoomID)

	ok, err := st.Exists(context.Background(), "0001")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCreatedWithInvalidReferenceOverwrite(t *testing.T) {
	r, mockChat, _ := newTestReconciler(t)
	r.cfg.OverwriteInvalidURL = true

	ev := createdEvent("0001", "Add the thing")
	ev.RFD.DiscussionURL = "https://github.com/group/ROOM9"

	expectCreate(mockChat, "DISC1")

	res, err := r.Reconcile(context.Background(), ev)
	require.NoError(t, err)
	assert.Equal(t, ActionCreated, res.Action)
	assert.Equal(t, "DISC1", res.RoomID)
}

func TestCreateParentMissing(t *testing.T) {
	r, mockChat, st := newTestReconciler(t)
	ev := createdEvent("0001", "Add the thing")

	mockChat.EXPECT().RoomByName(gomock.Any(), "rfd").Return(nil, chat.ErrNotFound)

	_, err := r.Reconcile(context.Background(), ev)
	require.Error(t, err)
	assert.ErrorIs(t, err, chat.ErrNotFound)

	ok, err := st.Exists(context.Background(), "0001")
	require.NoError(t, err)
	assert.False(t, ok)
}

// Cosmetic failures after the room exists must not fail the operation or
// lose the mapping.
func TestCreateCosmeticFailuresSwallowed(t *testing.T) {
	r, mockChat, st := newTestReconciler(t)
	ev := createdEvent("0001", "Add the thing")

	parent := &chat.Room{ID: "GENERAL", Name: "rfd"}
	bot := &chat.User{ID: "b1", Username: "rfd-bot"}
	boom := assert.AnError

	mockChat.EXPECT().RoomByName(gomock.Any(), "rfd").Return(parent, nil)
	mockChat.EXPECT().AppIdentity(gomock.Any()).Return(bot, nil)
	mockChat.EXPECT().CreateDiscussion(gomock.Any(), "GENERAL", gomock.Any(), gomock.Any(), "rfd-bot").
		Return(&chat.Room{ID: "DISC1"}, nil)
	mockChat.EXPECT().SetRoomDescription(gomock.Any(), "DISC1", gomock.Any(), "rfd-bot").Return(boom)
	mockChat.EXPECT().RoomMembers(gomock.Any(), "GENERAL").Return(nil, boom)
	mockChat.EXPECT().PostMessage(gomock.Any(), "DISC1", "rfd-bot", gomock.Any()).Return(boom)

	res, err := r.Reconcile(context.Background(), ev)
	require.NoError(t, err)
	assert.Equal(t, ActionCreated, res.Action)

	ok, err := st.Exists(context.Background(), "0001")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestUpdatedWithoutMappingCreates(t *testing.T) {
	r, mockChat, _ := newTestReconciler(t)

	ev := createdEvent("0001", "Add the thing")
	ev.Event = rfd.EventUpdated

	expectCreate(mockChat, "DISC1")

	res, err := r.Reconcile(context.Background(), ev)
	require.NoError(t, err)
	assert.Equal(t, ActionCreated, res.Action)
}

// An all-absent change set must produce no chat traffic at all: no room
// resolution, no messages. The mock controller fails the test on any call.
func TestUpdateNoOp(t *testing.T) {
	r, _, _ := newTestReconciler(t)

	ev := createdEvent("0001", "Add the thing")
	ev.Event = rfd.EventUpdated
	ev.RFD.DiscussionURL = testSite + "/group/DISC1"
	ev.Changes = &rfd.ChangeSet{}

	res, err := r.Reconcile(context.Background(), ev)
	require.NoError(t, err)
	assert.Equal(t, ActionNone, res.Action)
	assert.Equal(t, "DISC1", res.RoomID)
}

func TestUpdateUsesStoredReference(t *testing.T) {
	r, mockChat, st := newTestReconciler(t)
	require.NoError(t, st.Put(context.Background(), "0001", "DISC1", testSite+"/group/DISC1"))

	ev := createdEvent("0001", "Add the thing")
	ev.Event = rfd.EventUpdated
	ev.Changes = &rfd.ChangeSet{Content: true}

	mockChat.EXPECT().RoomByID(gomock.Any(), "DISC1").Return(&chat.Room{ID: "DISC1"}, nil)

	var message string
	mockChat.EXPECT().PostMessage(gomock.Any(), "DISC1", "", gomock.Any()).
		DoAndReturn(func(_ context.Context, _, _, text string) error {
			message = text
			return nil
		})

	res, err := r.Reconcile(context.Background(), ev)
	require.NoError(t, err)
	assert.Equal(t, ActionUpdated, res.Action)
	assert.Equal(t, testSite+"/group/DISC1", res.URL)
	assert.Contains(t, message, "RFD-0001 updated")
	assert.Contains(t, message, "Content updated — view the latest version: https://rfd.example.com/rfd/0001")
}

func TestUpdateMissingRoom(t *testing.T) {
	r, mockChat, _ := newTestReconciler(t)

	ev := createdEvent("0001", "Add the thing")
	ev.Event = rfd.EventUpdated
	ev.RFD.DiscussionURL = testSite + "/group/GONE"
	ev.Changes = &rfd.ChangeSet{Content: true}

	mockChat.EXPECT().RoomByID(gomock.Any(), "GONE").Return(nil, chat.ErrNotFound)

	_, err := r.Reconcile(context.Background(), ev)
	assert.ErrorIs(t, err, chat.ErrNotFound)
}

func TestUpdateStateChange(t *testing.T) {
	r, mockChat, _ := newTestReconciler(t)

	ev := createdEvent("0001", "Add the thing")
	ev.Event = rfd.EventUpdated
	ev.RFD.DiscussionURL = testSite + "/group/DISC1"
	ev.Changes = &rfd.ChangeSet{
		State: &rfd.StateChange{Old: rfd.StateIdeation, New: rfd.StateDiscussion},
	}

	mockChat.EXPECT().RoomByID(gomock.Any(), "DISC1").Return(&chat.Room{ID: "DISC1"}, nil)
	mockChat.EXPECT().
		SetRoomDescription(gomock.Any(), "DISC1",
			"In discussion | Tags: infra\n\nView record: https://rfd.example.com/rfd/0001", "").
		Return(nil)

	var message string
	mockChat.EXPECT().PostMessage(gomock.Any(), "DISC1", "", gomock.Any()).
		DoAndReturn(func(_ context.Context, _, _, text string) error {
			message = text
			return nil
		})

	res, err := r.Reconcile(context.Background(), ev)
	require.NoError(t, err)
	assert.Equal(t, ActionUpdated, res.Action)
	assert.Contains(t, message, "Status changed: Ideation → In discussion")
}

func TestUpdateTagDiff(t *testing.T) {
	r, mockChat, _ := newTestReconciler(t)

	ev := createdEvent("0001", "Add the thing")
	ev.Event = rfd.EventUpdated
	ev.RFD.DiscussionURL = testSite + "/group/DISC1"
	ev.Changes = &rfd.ChangeSet{
		Tags: &rfd.ListChange{Old: []string{"a", "b"}, New: []string{"b", "c"}},
	}

	mockChat.EXPECT().RoomByID(gomock.Any(), "DISC1").Return(&chat.Room{ID: "DISC1"}, nil)

	var message string
	mockChat.EXPECT().PostMessage(gomock.Any(), "DISC1", "", gomock.Any()).
		DoAndReturn(func(_ context.Context, _, _, text string) error {
			message = text
			return nil
		})

	_, err := r.Reconcile(context.Background(), ev)
	require.NoError(t, err)

	assert.Contains(t, message, "+c")
	assert.Contains(t, message, "-a")
	assert.NotContains(t, message, "+b")
	assert.NotContains(t, message, "-b")
}

func TestUpdateAuthorDiff(t *testing.T) {
	r, mockChat, _ := newTestReconciler(t)

	ev := createdEvent("0001", "Add the thing")
	ev.Event = rfd.EventUpdated
	ev.RFD.DiscussionURL = testSite + "/group/DISC1"
	ev.Changes = &rfd.ChangeSet{
		Authors: &rfd.ListChange{
			Old: []string{"alice@x.com"},
			New: []string{"alice@x.com", "bob@x.com"},
		},
	}

	mockChat.EXPECT().RoomByID(gomock.Any(), "DISC1").
		Return(&chat.Room{ID: "DISC1", ParentID: "GENERAL"}, nil)
	mockChat.EXPECT().RoomMembers(gomock.Any(), "GENERAL").
		Return([]chat.User{
			{ID: "u1", Username: "alice", Emails: []string{"alice@x.com"}},
			{ID: "u2", Username: "bob", Emails: []string{"bob@x.com"}},
		}, nil)
	// Only the newly added author gets invited.
	mockChat.EXPECT().AddMember(gomock.Any(), "DISC1", "bob", "").Return(nil)

	var message string
	mockChat.EXPECT().PostMessage(gomock.Any(), "DISC1", "", gomock.Any()).
		DoAndReturn(func(_ context.Context, _, _, text string) error {
			message = text
			return nil
		})

	_, err := r.Reconcile(context.Background(), ev)
	require.NoError(t, err)
	assert.Contains(t, message, "New authors added: bob@x.com")
}

func TestUpdateFieldOrder(t *testing.T) {
	r, mockChat, _ := newTestReconciler(t)

	ev := createdEvent("0001", "Add the thing")
	ev.Event = rfd.EventUpdated
	ev.RFD.DiscussionURL = testSite + "/group/DISC1"
	ev.Changes = &rfd.ChangeSet{
		Title:   &rfd.StringChange{Old: "Add the thing", New: "Add the other thing"},
		State:   &rfd.StateChange{Old: rfd.StateIdeation, New: rfd.StateDiscussion},
		Content: true,
		Tags:    &rfd.ListChange{Old: []string{"a"}, New: []string{"a", "b"}},
	}

	mockChat.EXPECT().RoomByID(gomock.Any(), "DISC1").Return(&chat.Room{ID: "DISC1"}, nil)
	mockChat.EXPECT().SetRoomDescription(gomock.Any(), "DISC1", gomock.Any(), "").Return(nil)

	var message string
	mockChat.EXPECT().PostMessage(gomock.Any(), "DISC1", "", gomock.Any()).
		DoAndReturn(func(_ context.Context, _, _, text string) error {
			message = text
			return nil
		})

	_, err := r.Reconcile(context.Background(), ev)
	require.NoError(t, err)

	statusAt := strings.Index(message, "Status changed")
	titleAt := strings.Index(message, "Title changed")
	contentAt := strings.Index(message, "Content updated")
	tagsAt := strings.Index(message, "Tags changed")
	require.True(t, statusAt >= 0 && titleAt >= 0 && contentAt >= 0 && tagsAt >= 0, "message: %q", message)
	assert.Less(t, statusAt, titleAt)
	assert.Less(t, titleAt, contentAt)
	assert.Less(t, contentAt, tagsAt)
}

// Two concurrent created deliveries for one record must produce exactly one
// room creation; the loser of the race answers from the store.
func TestConcurrentCreateSingleRoom(t *testing.T) {
	r, mockChat, st := newTestReconciler(t)
	ev := createdEvent("0001", "Add the thing")

	expectCreate(mockChat, "DISC1")

	var wg sync.WaitGroup
	results := make([]*Result, 2)
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = r.Reconcile(context.Background(), ev)
		}(i)
	}
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])
	assert.Equal(t, results[0].RoomID, results[1].RoomID)
	assert.Equal(t, results[0].URL, results[1].URL)

	n, err := st.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
