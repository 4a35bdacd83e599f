package markdown

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	r := New()

	tests := []struct {
		name     string
		source   string
		contains []string
		excludes []string
	}{
		{
			name:     "heading",
			source:   "# Release plan",
			contains: []string{`<h1 id="release-plan">Release plan</h1>`},
		},
		{
			name:     "task list",
			source:   "- [x] done\n- [ ] todo",
			contains: []string{`type="checkbox"`, "checked", "done", "todo"},
		},
		{
			name:     "table",
			source:   "| a | b |\n|---|---|\n| 1 | 2 |",
			contains: []string{"<table>", "<td>1</td>"},
		},
		{
			name:     "strikethrough",
			source:   "~~old~~",
			contains: []string{"<del>old</del>"},
		},
		{
			name:     "raw html omitted",
			source:   "<script>alert(1)</script>",
			excludes: []string{"<script>"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			html, err := r.Render(tt.source)
			require.NoError(t, err)
			for _, want := range tt.contains {
				require.Contains(t, html, want)
			}
			for _, unwanted := range tt.excludes {
				require.NotContains(t, html, unwanted)
			}
		})
	}
}

func TestRenderEmpty(t *testing.T) {
	html, err := New().Render("")
	require.NoError(t, err)
	require.Empty(t, html)
}
