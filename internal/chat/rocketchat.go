package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Rocket is a Rocket.Chat REST API client. It authenticates with a personal
// access token and acts as that account for every write.
type Rocket struct {
	baseURL    string
	userID     string
	authToken  string
	alias      string
	httpClient *http.Client
}

// NewRocket constructs a Rocket.Chat client. baseURL is the site root, e.g.
// "https://chat.example.com".
func NewRocket(baseURL, userID, authToken string) *Rocket {
	return &Rocket{
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		userID:     strings.TrimSpace(userID),
		authToken:  strings.TrimSpace(authToken),
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// SetAlias fixes the display alias for posted messages, overriding the
// per-call sender.
func (c *Rocket) SetAlias(alias string) {
	c.alias = alias
}

// BaseURL returns the configured site root.
func (c *Rocket) BaseURL() string {
	return c.baseURL
}

// Ping checks API reachability. Used by the doctor, not the reconciler.
func (c *Rocket) Ping(ctx context.Context) error {
	var out struct {
		Version string `json:"version"`
	}
	return c.get(ctx, "/api/v1/info", nil, &out)
}

// RoomByName resolves a channel or private group by its name.
func (c *Rocket) RoomByName(ctx context.Context, name string) (*Room, error) {
	if name == "" {
		return nil, fmt.Errorf("room name is empty: %w", ErrNotFound)
	}

	params := url.Values{"roomName": {name}}
	var out struct {
		Channel *wireRoom `json:"channel"`
		Group   *wireRoom `json:"group"`
	}
	err := c.get(ctx, "/api/v1/channels.info", params, &out)
	if err == nil && out.Channel != nil {
		return out.Channel.room(), nil
	}

	// Not a public channel; it may be a private group the account belongs to.
	if gerr := c.get(ctx, "/api/v1/groups.info", params, &out); gerr == nil && out.Group != nil {
		return out.Group.room(), nil
	}
	return nil, fmt.Errorf("room %q: %w", name, ErrNotFound)
}

// RoomByID resolves a room by its identifier.
func (c *Rocket) RoomByID(ctx context.Context, id string) (*Room, error) {
	if id == "" {
		return nil, fmt.Errorf("room id is empty: %w", ErrNotFound)
	}

	var out struct {
		Room *wireRoom `json:"room"`
	}
	if err := c.get(ctx, "/api/v1/rooms.info", url.Values{"roomId": {id}}, &out); err != nil || out.Room == nil {
		return nil, fmt.Errorf("room %q: %w", id, ErrNotFound)
	}
	return out.Room.room(), nil
}

// AppIdentity resolves the account this client acts as.
func (c *Rocket) AppIdentity(ctx context.Context) (*User, error) {
	var out wireUser
	if err := c.get(ctx, "/api/v1/me", nil, &out); err != nil {
		return nil, fmt.Errorf("acting identity: %w", ErrNotFound)
	}
	return out.user(), nil
}

// UserByUsername resolves a user account by username.
func (c *Rocket) UserByUsername(ctx context.Context, username string) (*User, error) {
	if username == "" {
		return nil, fmt.Errorf("username is empty: %w", ErrNotFound)
	}

	var out struct {
		User *wireUser `json:"user"`
	}
	if err := c.get(ctx, "/api/v1/users.info", url.Values{"username": {username}}, &out); err != nil || out.User == nil {
		return nil, fmt.Errorf("user %q: %w", username, ErrNotFound)
	}
	return out.User.user(), nil
}

// RoomMembers lists the members of a channel or private group.
func (c *Rocket) RoomMembers(ctx context.Context, roomID string) ([]User, error) {
	params := url.Values{"roomId": {roomID}, "count": {"0"}}
	var out struct {
		Members []wireUser `json:"members"`
	}
	err := c.get(ctx, "/api/v1/channels.members", params, &out)
	if err != nil {
		if err = c.get(ctx, "/api/v1/groups.members", params, &out); err != nil {
			return nil, fmt.Errorf("members of room %q: %w", roomID, err)
		}
	}

	users := make([]User, 0, len(out.Members))
	for _, m := range out.Members {
		users = append(users, *m.user())
	}
	return users, nil
}

// CreateDiscussion creates a discussion room under parentID. The server
// slugifies the display name itself; slug is what we computed locally and is
// sent for servers that honor a caller-provided name.
func (c *Rocket) CreateDiscussion(ctx context.Context, parentID, displayName, slug, creator string) (*Room, error) {
	body := map[string]any{
		"prid":   parentID,
		"t_name": displayName,
	}
	_ = slug
	_ = creator

	var out struct {
		Discussion *wireRoom `json:"discussion"`
	}
	if err := c.post(ctx, "/api/v1/rooms.createDiscussion", body, &out); err != nil {
		return nil, fmt.Errorf("create discussion under %q: %w", parentID, err)
	}
	if out.Discussion == nil {
		return nil, fmt.Errorf("create discussion under %q: empty response", parentID)
	}
	return out.Discussion.room(), nil
}

// SetRoomDescription sets a room's description. Discussions are private
// groups, so the groups endpoint applies.
func (c *Rocket) SetRoomDescription(ctx context.Context, roomID, description, actingUser string) error {
	_ = actingUser // the client's token is the acting identity
	body := map[string]any{
		"roomId":      roomID,
		"description": description,
	}
	if err := c.post(ctx, "/api/v1/groups.setDescription", body, nil); err != nil {
		return fmt.Errorf("set description of room %q: %w", roomID, err)
	}
	return nil
}

// AddMember invites username into a room.
func (c *Rocket) AddMember(ctx context.Context, roomID, username, actingUser string) error {
	_ = actingUser
	body := map[string]any{
		"roomId":   roomID,
		"username": username,
	}
	if err := c.post(ctx, "/api/v1/groups.invite", body, nil); err != nil {
		return fmt.Errorf("add %q to room %q: %w", username, roomID, err)
	}
	return nil
}

// PostMessage posts text into a room, displayed under the sender alias.
func (c *Rocket) PostMessage(ctx context.Context, roomID, sender, text string) error {
	body := map[string]any{
		"roomId": roomID,
		"text":   text,
	}
	if c.alias != "" {
		sender = c.alias
	}
	if sender != "" {
		body["alias"] = sender
	}
	if err := c.post(ctx, "/api/v1/chat.postMessage", body, nil); err != nil {
		return fmt.Errorf("post message to room %q: %w", roomID, err)
	}
	return nil
}

// wire types

type wireRoom struct {
	ID          string `json:"_id"`
	Name        string `json:"name"`
	DisplayName string `json:"fname"`
	Description string `json:"description"`
	ParentID    string `json:"prid"`
}

func (w *wireRoom) room() *Room {
	return &Room{
		ID:          w.ID,
		Name:        w.Name,
		DisplayName: w.DisplayName,
		Description: w.Description,
		ParentID:    w.ParentID,
	}
}

type wireUser struct {
	ID       string `json:"_id"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Emails   []struct {
		Address string `json:"address"`
	} `json:"emails"`
}

func (w *wireUser) user() *User {
	u := &User{ID: w.ID, Username: w.Username, Name: w.Name}
	for _, e := range w.Emails {
		u.Emails = append(u.Emails, e.Address)
	}
	return u
}

// transport

func (c *Rocket) get(ctx context.Context, path string, params url.Values, out any) error {
	endpoint := c.baseURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Rocket) post(ctx context.Context, path string, body map[string]any, out any) error {
	raw, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(raw))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Rocket) do(req *http.Request, out any) error {
	req.Header.Set("X-Auth-Token", c.authToken)
	req.Header.Set("X-User-Id", c.userID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if resp.StatusCode == http.StatusNotFound || strings.Contains(string(payload), "not-found") {
			return ErrNotFound
		}
		return fmt.Errorf("%s %s: status %d: %s",
			req.Method, req.URL.Path, resp.StatusCode, strings.TrimSpace(string(payload)))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s %s: decode response: %w", req.Method, req.URL.Path, err)
	}
	return nil
}
