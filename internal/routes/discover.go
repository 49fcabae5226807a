// SPDX-License-Identifier: MIT

package routes

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/adrg/frontmatter"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/mehdiaitsaid/owasp-top-10-labs/internal/fsutil"
	xlog "github.com/mehdiaitsaid/owasp-top-10-labs/internal/log"
)

// Root describes one content preset to scan.
type Root struct {
	Preset        string // preset name, used in errors and Doc.Preset
	Path          string // content root relative to the site directory
	RouteBasePath string // URL prefix the preset's pages are served under
	SidebarPath   string // optional sidebar definition file relative to the site directory
}

type docFrontMatter struct {
	ID           string `yaml:"id"`
	Slug         string `yaml:"slug"`
	Title        string `yaml:"title"`
	SidebarLabel string `yaml:"sidebar_label"`
	Draft        bool   `yaml:"draft"`
}

// numberPrefix matches ordering prefixes such as "01-" or "2_" that the
// generator strips from file and directory names.
var numberPrefix = regexp.MustCompile(`^\d+[-_.\s]+`)

// Discover scans every root under siteDir concurrently and returns the merged
// set of routes. Two docs resolving to the same route is an error.
func Discover(ctx context.Context, siteDir string, roots []Root) (*Set, error) {
	logger := xlog.WithComponentFromContext(ctx, "routes")

	type result struct {
		docs     []Doc
		sidebars []string
		known    bool
	}
	results := make([]result, len(roots))

	g, gctx := errgroup.WithContext(ctx)
	for i, root := range roots {
		g.Go(func() error {
			docs, err := scanRoot(gctx, siteDir, root)
			if err != nil {
				return err
			}
			sidebars, known, err := readSidebars(siteDir, root)
			if err != nil {
				return err
			}
			logger.Debug().
				Str(xlog.FieldEvent, "routes.root_scanned").
				Str(xlog.FieldPreset, root.Preset).
				Str(xlog.FieldPath, root.Path).
				Int(xlog.FieldRoutes, len(docs)).
				Msg("scanned content root")
			results[i] = result{docs: docs, sidebars: sidebars, known: known}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var (
		all      []Doc
		sidebars []string
		known    = len(roots) > 0
		seen     = make(map[string]Doc)
	)
	for _, r := range results {
		for _, d := range r.docs {
			if prev, dup := seen[d.Route]; dup {
				return nil, fmt.Errorf("duplicate route %s: %s (%s) and %s (%s)",
					d.Route, prev.Source, prev.Preset, d.Source, d.Preset)
			}
			seen[d.Route] = d
			all = append(all, d)
		}
		if !r.known {
			known = false
		}
		sidebars = append(sidebars, r.sidebars...)
	}
	if !known {
		sidebars = nil
	} else if sidebars == nil {
		sidebars = []string{}
	}

	logger.Debug().
		Str(xlog.FieldEvent, "routes.discovered").
		Str(xlog.FieldSiteDir, siteDir).
		Int(xlog.FieldRoutes, len(all)).
		Bool("sidebars_known", known).
		Msg("discovered content routes")

	return NewSet(all, sidebars), nil
}

func scanRoot(ctx context.Context, siteDir string, root Root) ([]Doc, error) {
	dir, err := fsutil.Confine(siteDir, root.Path)
	if err != nil {
		return nil, fmt.Errorf("preset %q: docs.path %q: %w", root.Preset, root.Path, err)
	}
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("preset %q: docs.path %q: %w", root.Preset, root.Path, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("preset %q: docs.path %q is not a directory", root.Preset, root.Path)
	}

	var docs []Doc
	err = filepath.WalkDir(dir, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		name := d.Name()
		if p != dir && (strings.HasPrefix(name, "_") || strings.HasPrefix(name, ".")) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(name))
		if ext != ".md" && ext != ".mdx" {
			return nil
		}

		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}
		doc, ok, err := readDoc(p, filepath.ToSlash(rel), root)
		if err != nil {
			return err
		}
		if ok {
			docs = append(docs, doc)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("preset %q: scan %s: %w", root.Preset, root.Path, err)
	}
	return docs, nil
}

// readDoc derives the doc ID, route and title for one content file. ok is
// false for drafts, which the generator leaves out of production builds.
func readDoc(file, rel string, root Root) (Doc, bool, error) {
	// #nosec G304 -- file comes from walking the configured content root
	data, err := os.ReadFile(file)
	if err != nil {
		return Doc{}, false, fmt.Errorf("read %s: %w", rel, err)
	}

	var fm docFrontMatter
	body, err := frontmatter.Parse(bytes.NewReader(data), &fm)
	if err != nil {
		return Doc{}, false, fmt.Errorf("front matter in %s: %w", rel, err)
	}
	if fm.Draft {
		return Doc{}, false, nil
	}

	dir := stripDirPrefixes(path.Dir(rel))
	fileName := strings.TrimSuffix(path.Base(rel), path.Ext(rel))
	unprefixed := numberPrefix.ReplaceAllString(fileName, "")

	baseID := unprefixed
	if fm.ID != "" {
		baseID = fm.ID
	}
	id := path.Join(dir, baseID)

	var slug string
	switch {
	case strings.HasPrefix(fm.Slug, "/"):
		slug = fm.Slug
	case fm.Slug != "":
		slug = path.Join(dir, fm.Slug)
	case isCategoryIndex(unprefixed, dir):
		slug = dir
	default:
		slug = path.Join(dir, baseID)
	}

	title := fm.Title
	if title == "" {
		title = fm.SidebarLabel
	}
	if title == "" {
		title = firstHeading(body)
	}
	if title == "" {
		title = titleFromName(unprefixed)
	}

	return Doc{
		ID:     id,
		Route:  Join(root.RouteBasePath, slug),
		Title:  title,
		Source: path.Join(root.Path, rel),
		Preset: root.Preset,
	}, true, nil
}

func stripDirPrefixes(dir string) string {
	if dir == "." || dir == "" {
		return ""
	}
	parts := strings.Split(dir, "/")
	for i, p := range parts {
		parts[i] = numberPrefix.ReplaceAllString(p, "")
	}
	return strings.Join(parts, "/")
}

// isCategoryIndex mirrors the generator's index convention: index, README, or
// a file named after its parent directory is served at the directory route.
func isCategoryIndex(name, dir string) bool {
	lower := strings.ToLower(name)
	if lower == "index" || lower == "readme" {
		return true
	}
	return dir != "" && strings.EqualFold(name, path.Base(dir))
}

func firstHeading(body []byte) string {
	for _, line := range bytes.Split(body, []byte("\n")) {
		trimmed := bytes.TrimSpace(line)
		if bytes.HasPrefix(trimmed, []byte("# ")) {
			return string(bytes.TrimSpace(trimmed[2:]))
		}
	}
	return ""
}

func titleFromName(name string) string {
	spaced := strings.NewReplacer("-", " ", "_", " ").Replace(name)
	return cases.Title(language.English).String(spaced)
}
