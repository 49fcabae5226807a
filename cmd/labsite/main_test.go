// SPDX-License-Identifier: MIT

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	for _, e := range os.Environ() {
		if strings.HasPrefix(e, "LABSITE_") {
			key, _, _ := strings.Cut(e, "=")
			_ = os.Unsetenv(key)
		}
	}
	os.Exit(m.Run())
}

func writeFile(t *testing.T, root, rel, content string) string {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o750))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	return p
}

func labsSite(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, dir, "labs/intro.md", "---\ntitle: Welcome\n---\n")
	writeFile(t, dir, "labs/01-a01-broken-access-control/index.md", "# Broken Access Control\n")
	writeFile(t, dir, "sidebars.ts", "export default {};\n")
	return dir
}

func runCLI(t *testing.T, args ...string) (code int, stdout, stderr string) {
	t.Helper()
	var out, errOut bytes.Buffer
	code = run(context.Background(), append(args, "--log-level", "error"), &out, &errOut)
	return code, out.String(), errOut.String()
}

func TestRun_Validate(t *testing.T) {
	dir := labsSite(t)

	brokenDir := t.TempDir()
	writeFile(t, brokenDir, "labs/other.md", "# Other\n")
	writeFile(t, brokenDir, "sidebars.ts", "export default {};\n")

	tests := []struct {
		name       string
		args       []string
		wantExit   int
		wantStdout string
		wantStderr string
	}{
		{
			name:       "built-in descriptor",
			args:       []string{"validate"},
			wantExit:   0,
			wantStdout: "✓ built-in descriptor is valid",
		},
		{
			name:       "with site dir",
			args:       []string{"validate", "--site-dir", dir},
			wantExit:   0,
			wantStdout: "is valid",
		},
		{
			name:       "unknown key in file",
			args:       []string{"validate", "-f", writeFile(t, t.TempDir(), "site.yaml", "titel: typo\n")},
			wantExit:   1,
			wantStderr: "unknown descriptor field",
		},
		{
			name:       "invalid value in file",
			args:       []string{"validate", "-f", writeFile(t, t.TempDir(), "site.yaml", "baseUrl: labs\n")},
			wantExit:   1,
			wantStderr: "baseUrl",
		},
		{
			name:       "broken link under throw",
			args:       []string{"validate", "--site-dir", brokenDir},
			wantExit:   1,
			wantStderr: "broken link",
		},
		{
			name:       "missing site dir",
			args:       []string{"validate", "--site-dir", filepath.Join(dir, "missing")},
			wantExit:   2,
			wantStderr: "siteDir",
		},
		{
			name:       "unknown flag",
			args:       []string{"validate", "--nope"},
			wantExit:   2,
			wantStderr: "unknown flag",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, stdout, stderr := runCLI(t, tt.args...)
			assert.Equal(t, tt.wantExit, code, "stderr: %s", stderr)
			if tt.wantStdout != "" {
				assert.Contains(t, stdout, tt.wantStdout)
			}
			if tt.wantStderr != "" {
				assert.Contains(t, stderr, tt.wantStderr)
			}
		})
	}
}

func TestRun_DumpJSON(t *testing.T) {
	code, stdout, stderr := runCLI(t, "dump", "--format", "json")
	require.Equal(t, 0, code, stderr)

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &got))
	assert.Equal(t, "/owasp-top-10-labs/", got["baseUrl"])
	assert.Equal(t, "OWASP TOP 10 Labs", got["title"])
}

func TestRun_DumpRejectsUnknownFormat(t *testing.T) {
	code, _, stderr := runCLI(t, "dump", "--format", "toml")
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, "unsupported format")
}

func TestRun_Write(t *testing.T) {
	out := filepath.Join(t.TempDir(), "site.config.yaml")

	code, stdout, stderr := runCLI(t, "write", "-o", out)
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "✓ wrote "+out)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "baseUrl: /owasp-top-10-labs/")
}

func TestRun_WrittenFileValidates(t *testing.T) {
	for _, name := range []string{"site.config.yaml", "site.config.json"} {
		t.Run(name, func(t *testing.T) {
			out := filepath.Join(t.TempDir(), name)

			code, _, stderr := runCLI(t, "write", "-o", out)
			require.Equal(t, 0, code, stderr)

			code, stdout, stderr := runCLI(t, "validate", "-f", out)
			require.Equal(t, 0, code, stderr)
			assert.Contains(t, stdout, "✓ "+out+" is valid")
		})
	}
}

func TestRun_WriteRequiresOutput(t *testing.T) {
	code, _, stderr := runCLI(t, "write")
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, `"output"`)
}

func TestRun_Routes(t *testing.T) {
	dir := labsSite(t)

	code, stdout, stderr := runCLI(t, "routes", "--site-dir", dir)
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "ROUTE")
	assert.Contains(t, stdout, "/labs/intro")
	assert.Contains(t, stdout, "/labs/a01-broken-access-control")
	assert.Contains(t, stdout, "Broken Access Control")
}

func TestRun_RoutesRequiresSiteDir(t *testing.T) {
	code, _, stderr := runCLI(t, "routes")
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, "--site-dir")
}

func TestRun_EnvAndFlagPrecedence(t *testing.T) {
	file := writeFile(t, t.TempDir(), "site.yaml", "title: From Env\n")
	t.Setenv("LABSITE_FILE", file)

	code, stdout, stderr := runCLI(t, "dump")
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, `"title": "From Env"`)

	flagFile := writeFile(t, t.TempDir(), "site.yaml", "title: From Flag\n")
	code, stdout, stderr = runCLI(t, "dump", "-f", flagFile)
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, `"title": "From Flag"`)
}

func TestRun_Watch(t *testing.T) {
	dir := labsSite(t)
	out := filepath.Join(t.TempDir(), "site.config.json")

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	var stdout, stderr bytes.Buffer
	code := run(ctx, []string{"watch", "--site-dir", dir, "-o", out, "--log-level", "error"}, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())
	assert.Contains(t, stdout.String(), "✓ watching")

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"baseUrl": "/owasp-top-10-labs/"`)
}

func TestRun_Version(t *testing.T) {
	code, stdout, _ := runCLI(t, "version")
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, "commit:")
}
