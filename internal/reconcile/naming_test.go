package reconcile

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "RFD-0042: Deprecate the importer",
		displayName("RFD", "0042", "Deprecate the importer"))
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "simple",
			input: "RFD-0042: Deprecate the importer",
			want:  "rfd-0042-deprecate-the-importer",
		},
		{
			name:  "collapses symbol runs",
			input: "a  --  b!!c",
			want:  "a-b-c",
		},
		{
			name:  "trims leading and trailing",
			input: "---hello---",
			want:  "hello",
		},
		{
			name:  "truncates to fifty",
			input: strings.Repeat("ab", 40),
			want:  strings.Repeat("ab", 25),
		},
		{
			name:  "no trailing hyphen after truncation",
			input: strings.Repeat("abcd ", 12),
			want:  "abcd-abcd-abcd-abcd-abcd-abcd-abcd-abcd-abcd-abcd",
		},
		{
			name:  "empty",
			input: "",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := slugify(tt.input)
			assert.Equal(t, tt.want, got)
			assert.LessOrEqual(t, len(got), maxSlugLen)
		})
	}
}

func TestRoomDescription(t *testing.T) {
	desc := roomDescription("In discussion", []string{"infra", "storage"}, "https://rfd.example.com/rfd/0042")
	assert.Equal(t, "In discussion | Tags: infra, storage\n\nView record: https://rfd.example.com/rfd/0042", desc)

	desc = roomDescription("Published", nil, "https://rfd.example.com/rfd/0042")
	assert.Equal(t, "Published | Tags: none\n\nView record: https://rfd.example.com/rfd/0042", desc)
}
