package reconcile

import (
	"fmt"
	"strings"
)

// maxSlugLen bounds the room slug length.
const maxSlugLen = 50

// displayName builds the discussion room's display name, e.g.
// "RFD-0042: Deprecate the legacy importer".
func displayName(prefix, id, title string) string {
	return fmt.Sprintf("%s-%s: %s", prefix, id, title)
}

// slugify lowercases the name, collapses every run of non-alphanumeric
// characters to a single hyphen, trims leading/trailing hyphens, and
// truncates to maxSlugLen.
func slugify(name string) string {
	var b strings.Builder
	pendingHyphen := false
	for _, r := range strings.ToLower(name) {
		isAlnum := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
		if !isAlnum {
			pendingHyphen = b.Len() > 0
			continue
		}
		if pendingHyphen {
			b.WriteByte('-')
			pendingHyphen = false
		}
		b.WriteRune(r)
	}

	slug := b.String()
	if len(slug) > maxSlugLen {
		slug = strings.TrimRight(slug[:maxSlugLen], "-")
	}
	return slug
}

// roomDescription renders the description shown on a discussion room.
func roomDescription(stateDesc string, tags []string, link string) string {
	tagList := "none"
	if len(tags) > 0 {
		tagList = strings.Join(tags, ", ")
	}
	return fmt.Sprintf("%s | Tags: %s\n\nView record: %s", stateDesc, tagList, link)
}
