// SPDX-License-Identifier: MIT

package site

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/require"
)

func mockClock(year int) *clock.Mock {
	clk := clock.NewMock()
	clk.Set(time.Date(year, time.June, 1, 12, 0, 0, 0, time.UTC))
	return clk
}

func writeFile(t *testing.T, root, rel, content string) string {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o750))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	return p
}

// labsSite lays out the content the built-in descriptor links to.
func labsSite(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, dir, "labs/intro.md", "---\ntitle: Welcome\n---\n")
	writeFile(t, dir, "labs/a01-broken-access-control/index.md", "# Broken Access Control\n")
	writeFile(t, dir, "sidebars.ts", "export default {tutorialSidebar: [{type: 'autogenerated', dirName: '.'}]};\n")
	return dir
}
