package cas_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/xo/internal/adapters/cas"
)

func TestTracker_AddReverse(t *testing.T) {
	t.Parallel()

	tr := cas.NewTracker()
	tr.Add("content/b.md", "layouts/default.html")
	tr.Add("content/a.md", "layouts/default.html")
	tr.Add("content/a.md", "content/_partials/header.md")
	tr.Add("content/a.md", "layouts/default.html")

	assert.Equal(t, []string{"content/a.md", "content/b.md"}, tr.Reverse("layouts/default.html"))
	assert.Equal(t, []string{"content/a.md"}, tr.Reverse("content/_partials/header.md"))
	assert.Empty(t, tr.Reverse("layouts/unused.html"))
	assert.Equal(t,
		[]string{"layouts/default.html", "content/_partials/header.md"},
		tr.Dependencies("content/a.md"),
	)
	assert.Empty(t, tr.Dependencies("content/unknown.md"))
}

func TestTracker_Forget(t *testing.T) {
	t.Parallel()

	tr := cas.NewTracker()
	tr.Add("content/a.md", "layouts/default.html")
	tr.Add("content/a.md", "content/_partials/header.md")
	tr.Add("content/b.md", "layouts/default.html")

	tr.Forget("content/a.md")

	assert.Empty(t, tr.Dependencies("content/a.md"))
	assert.Equal(t, []string{"content/b.md"}, tr.Reverse("layouts/default.html"))
	assert.Empty(t, tr.Reverse("content/_partials/header.md"))
	assert.Equal(t, 1, tr.Len())

	tr.Forget("content/unknown.md")
	assert.Equal(t, 1, tr.Len())
}

func TestTracker_ReverseIsSnapshot(t *testing.T) {
	t.Parallel()

	tr := cas.NewTracker()
	tr.Add("content/a.md", "layouts/default.html")

	dependents := tr.Reverse("layouts/default.html")
	tr.Forget("content/a.md")

	assert.Equal(t, []string{"content/a.md"}, dependents)
}

func TestTracker_SaveLoad(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "deps.jsonl")

	tr := cas.NewTracker()
	tr.Add("content/b.md", "layouts/default.html")
	tr.Add("content/a.md", "layouts/post.html")
	tr.Add("content/a.md", "content/_partials/header.md")
	require.NoError(t, tr.Save(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.JSONEq(t, `{"path":"content/a.md","deps":["layouts/post.html","content/_partials/header.md"]}`, lines[0])
	assert.JSONEq(t, `{"path":"content/b.md","deps":["layouts/default.html"]}`, lines[1])

	loaded := cas.NewTracker()
	loaded.Add("content/stale.md", "layouts/default.html")
	require.NoError(t, loaded.Load(path))

	assert.Equal(t, tr.Dependencies("content/a.md"), loaded.Dependencies("content/a.md"))
	assert.Equal(t, []string{"content/b.md"}, loaded.Reverse("layouts/default.html"))
	assert.Equal(t, 2, loaded.Len())
}

func TestTracker_LoadSkipsMalformed(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "deps.jsonl")
	content := strings.Join([]string{
		`{"path":"content/a.md","deps":["layouts/default.html"]}`,
		`not json`,
		`{"path":"","deps":["layouts/default.html"]}`,
		`{"path":"content/b.md","deps":"layouts/default.html"}`,
	}, "\n")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	tr := cas.NewTracker()
	require.NoError(t, tr.Load(path))

	assert.Equal(t, []string{"content/a.md"}, tr.Reverse("layouts/default.html"))
}

func TestTracker_LoadMissing(t *testing.T) {
	t.Parallel()

	tr := cas.NewTracker()
	require.NoError(t, tr.Load(filepath.Join(t.TempDir(), "deps.jsonl")))
	assert.Equal(t, 0, tr.Len())
}
