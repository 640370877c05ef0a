package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchPrefix(t *testing.T) {
	editors := []string{"plain", "lexical", "prosemirror", "tiptap", "unknown"}

	tests := []struct {
		name     string
		prefix   string
		want     string
		errorMsg string
	}{
		{name: "exact match", prefix: "tiptap", want: "tiptap"},
		{name: "exact match case insensitive", prefix: "LEXICAL", want: "lexical"},
		{name: "unique prefix", prefix: "pro", want: "prosemirror"},
		{name: "surrounding space", prefix: " ti ", want: "tiptap"},
		{name: "ambiguous", prefix: "p", errorMsg: `ambiguous editor "p" matches: plain, prosemirror`},
		{name: "no match", prefix: "quill", errorMsg: `unknown editor "quill" (expected one of: plain, lexical, prosemirror, tiptap, unknown)`},
		{name: "empty", prefix: "", errorMsg: "empty editor (expected one of: plain, lexical, prosemirror, tiptap, unknown)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MatchPrefix("editor", tt.prefix, editors)
			if tt.errorMsg != "" {
				require.Error(t, err)
				assert.Equal(t, tt.errorMsg, err.Error())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMatchPrefixExactBeatsPrefix(t *testing.T) {
	got, err := MatchPrefix("backend", "file", []string{"filesystem", "file"})
	require.NoError(t, err)
	assert.Equal(t, "file", got)
}

func TestMatchPrefixAmbiguousError(t *testing.T) {
	_, err := MatchPrefix("backend", "f", []string{"file", "fast"})
	var amb *AmbiguousError
	require.ErrorAs(t, err, &amb)
	assert.Equal(t, []string{"fast", "file"}, amb.Matches)
}
