package reconcile

import (
	"net/url"
	"strings"
)

// deepLinkHost serves Rocket.Chat universal links resolvable by any client.
const deepLinkHost = "go.rocket.chat"

// BuildDiscussionURL returns the externally visible URL for a discussion
// room. With deep links enabled the universal-link form is produced,
// otherwise a direct path on the site.
func BuildDiscussionURL(siteURL, roomID string, deepLinks bool) string {
	site := strings.TrimRight(siteURL, "/")
	if !deepLinks {
		return site + "/group/" + roomID
	}

	q := url.Values{}
	q.Set("host", siteHost(siteURL))
	q.Set("path", "group/"+roomID)
	return "https://" + deepLinkHost + "/room?" + q.Encode()
}

// ParseRoomID extracts the room identifier from either discussion-URL form.
// Returns "" if reference is not a recognizable discussion URL.
func ParseRoomID(reference string) string {
	u, err := url.Parse(strings.TrimSpace(reference))
	if err != nil {
		return ""
	}

	if strings.EqualFold(u.Host, deepLinkHost) {
		// Query values arrive URL-decoded, so group%2F and group/ both land
		// here as "group/".
		path := u.Query().Get("path")
		if rest, ok := strings.CutPrefix(path, "group/"); ok && rest != "" {
			return rest
		}
		return ""
	}

	if rest, ok := strings.CutPrefix(u.Path, "/group/"); ok {
		if i := strings.IndexByte(rest, '/'); i >= 0 {
			rest = rest[:i]
		}
		if rest != "" {
			return rest
		}
	}
	return ""
}

// ValidDiscussionURL reports whether reference points at the configured
// site. A direct URL must be hosted on the site itself; a deep link must
// name the site in its host parameter. Host comparison is case-insensitive.
func ValidDiscussionURL(reference, siteURL string) bool {
	if ParseRoomID(reference) == "" {
		return false
	}

	u, err := url.Parse(strings.TrimSpace(reference))
	if err != nil {
		return false
	}

	want := siteHost(siteURL)
	if want == "" {
		return false
	}

	if strings.EqualFold(u.Host, deepLinkHost) {
		return strings.EqualFold(u.Query().Get("host"), want)
	}
	return strings.EqualFold(u.Host, want)
}

func siteHost(siteURL string) string {
	u, err := url.Parse(strings.TrimSpace(siteURL))
	if err != nil {
		return ""
	}
	return u.Host
}
