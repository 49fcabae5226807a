// SPDX-License-Identifier: MIT

package routes

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mehdiaitsaid/owasp-top-10-labs/internal/fsutil"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o750))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
}

func labsSite(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, dir, "labs/intro.md", "---\ntitle: Welcome\n---\n# Ignored heading\n")
	writeFile(t, dir, "labs/01-a01-broken-access-control/index.md", "# Broken Access Control\n")
	writeFile(t, dir, "labs/01-a01-broken-access-control/02-idor-lab.mdx", "Some text without heading\n")
	writeFile(t, dir, "labs/02-a02-crypto/lab.md", "---\nid: weak-hashing\nslug: /crypto/hashing\n---\nbody\n")
	writeFile(t, dir, "labs/02-a02-crypto/notes.md", "---\nslug: cheatsheet\n---\n")
	writeFile(t, dir, "labs/_partials/snippet.md", "# Partial\n")
	writeFile(t, dir, "labs/.hidden/secret.md", "# Hidden\n")
	writeFile(t, dir, "labs/wip.md", "---\ndraft: true\n---\n# WIP\n")
	writeFile(t, dir, "labs/img/diagram.png", "not markdown")
	writeFile(t, dir, "sidebars.json", `{"tutorialSidebar": [], "extraSidebar": []}`)
	return dir
}

func TestDiscover_DerivesRoutesFromContent(t *testing.T) {
	dir := labsSite(t)

	set, err := Discover(context.Background(), dir, []Root{{
		Preset:        "classic",
		Path:          "labs",
		RouteBasePath: "labs",
		SidebarPath:   "./sidebars.json",
	}})
	require.NoError(t, err)

	want := []string{
		"/labs/a01-broken-access-control",
		"/labs/a01-broken-access-control/idor-lab",
		"/labs/a02-crypto/cheatsheet",
		"/labs/crypto/hashing",
		"/labs/intro",
	}
	if diff := cmp.Diff(want, set.Routes()); diff != "" {
		t.Errorf("routes mismatch (-want +got):\n%s", diff)
	}

	assert.True(t, set.HasDoc("intro"))
	assert.True(t, set.HasDoc("a02-crypto/weak-hashing"))
	assert.True(t, set.HasDoc("a01-broken-access-control/index"))
	assert.False(t, set.HasDoc("wip"), "drafts are not published")

	ok, known := set.HasSidebar("tutorialSidebar")
	assert.True(t, known)
	assert.True(t, ok)
	ok, _ = set.HasSidebar("missingSidebar")
	assert.False(t, ok)
}

func TestDiscover_Titles(t *testing.T) {
	dir := labsSite(t)
	writeFile(t, dir, "labs/setup.md", "---\nsidebar_label: Short Label\n---\n# Setting Up The Lab\n")
	writeFile(t, dir, "labs/both.md", "---\ntitle: Page Title\nsidebar_label: Short\n---\n")

	set, err := Discover(context.Background(), dir, []Root{{Preset: "classic", Path: "labs", RouteBasePath: "labs"}})
	require.NoError(t, err)

	titles := map[string]string{}
	for _, d := range set.Docs() {
		titles[d.Route] = d.Title
	}
	assert.Equal(t, "Welcome", titles["/labs/intro"], "front matter title wins")
	assert.Equal(t, "Page Title", titles["/labs/both"], "title before sidebar_label")
	assert.Equal(t, "Short Label", titles["/labs/setup"], "sidebar_label before heading")
	assert.Equal(t, "Broken Access Control", titles["/labs/a01-broken-access-control"], "first heading")
	assert.Equal(t, "Idor Lab", titles["/labs/a01-broken-access-control/idor-lab"], "title-cased file name")
}

func TestDiscover_ScriptSidebarsAreUnknown(t *testing.T) {
	dir := labsSite(t)
	writeFile(t, dir, "sidebars.ts", "export default {};\n")

	set, err := Discover(context.Background(), dir, []Root{{
		Preset: "classic", Path: "labs", RouteBasePath: "labs", SidebarPath: "./sidebars.ts",
	}})
	require.NoError(t, err)

	_, known := set.HasSidebar("tutorialSidebar")
	assert.False(t, known)
}

func TestDiscover_MissingContentRoot(t *testing.T) {
	dir := t.TempDir()

	_, err := Discover(context.Background(), dir, []Root{{Preset: "classic", Path: "labs", RouteBasePath: "labs"}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
	assert.Contains(t, err.Error(), `docs.path "labs"`)
}

func TestDiscover_RootOutsideSiteDir(t *testing.T) {
	parent := t.TempDir()
	dir := filepath.Join(parent, "site")
	writeFile(t, parent, "outside/secret.md", "# Secret\n")
	writeFile(t, dir, "labs/intro.md", "# Intro\n")
	require.NoError(t, os.Symlink(filepath.Join(parent, "outside"), filepath.Join(dir, "linked")))

	for _, p := range []string{"../outside", "linked"} {
		_, err := Discover(context.Background(), dir, []Root{{Preset: "classic", Path: p, RouteBasePath: "labs"}})
		require.Error(t, err, p)
		assert.True(t, errors.Is(err, fsutil.ErrEscapesRoot), "%s: %v", p, err)
	}
}

func TestDiscover_MissingSidebarFile(t *testing.T) {
	dir := labsSite(t)

	_, err := Discover(context.Background(), dir, []Root{{
		Preset: "classic", Path: "labs", RouteBasePath: "labs", SidebarPath: "./sidebars.ts",
	}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "docs.sidebarPath")
}

func TestDiscover_DuplicateRouteAcrossPresets(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "labs/intro.md", "# Intro\n")
	writeFile(t, dir, "more/labs/intro.md", "# Intro again\n")

	_, err := Discover(context.Background(), dir, []Root{
		{Preset: "classic", Path: "labs", RouteBasePath: "labs"},
		{Preset: "extra", Path: "more", RouteBasePath: "/"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate route /labs/intro")
}

func TestDiscover_MultiplePresets(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "labs/intro.md", "# Intro\n")
	writeFile(t, dir, "guides/setup.md", "# Setup\n")

	set, err := Discover(context.Background(), dir, []Root{
		{Preset: "labs", Path: "labs", RouteBasePath: "labs"},
		{Preset: "guides", Path: "guides", RouteBasePath: "/guides/"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"/guides/setup", "/labs/intro"}, set.Routes())

	_, known := set.HasSidebar("anything")
	assert.False(t, known, "no sidebar files configured")
}

func TestDiscover_CancelledContext(t *testing.T) {
	dir := labsSite(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Discover(ctx, dir, []Root{{Preset: "classic", Path: "labs", RouteBasePath: "labs"}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestDiscover_MalformedFrontMatter(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "labs/bad.md", "---\ntitle: [unclosed\n---\n")

	_, err := Discover(context.Background(), dir, []Root{{Preset: "classic", Path: "labs", RouteBasePath: "labs"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "front matter in bad.md")
}
