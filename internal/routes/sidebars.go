// SPDX-License-Identifier: MIT

package routes

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mehdiaitsaid/owasp-top-10-labs/internal/fsutil"
)

// readSidebars returns the sidebar IDs declared in the root's sidebar file.
// JSON and YAML files are read; script files can only be checked for
// existence, so known is false for them.
func readSidebars(siteDir string, root Root) (ids []string, known bool, err error) {
	if root.SidebarPath == "" {
		return nil, false, nil
	}

	file, err := fsutil.Confine(siteDir, root.SidebarPath)
	if err != nil {
		return nil, false, fmt.Errorf("preset %q: docs.sidebarPath %q: %w", root.Preset, root.SidebarPath, err)
	}
	// #nosec G304 -- confined to the site directory
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, false, fmt.Errorf("preset %q: docs.sidebarPath %q: %w", root.Preset, root.SidebarPath, err)
	}

	switch strings.ToLower(filepath.Ext(file)) {
	case ".json", ".yaml", ".yml":
	default:
		return nil, false, nil
	}

	// JSON is a subset of YAML, so one decoder serves both formats.
	var doc map[string]yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, false, fmt.Errorf("preset %q: parse %s: %w", root.Preset, root.SidebarPath, err)
	}

	ids = make([]string, 0, len(doc))
	for id := range doc {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, true, nil
}
