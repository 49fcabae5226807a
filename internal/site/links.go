// SPDX-License-Identifier: MIT

package site

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/rs/zerolog"

	xlog "github.com/mehdiaitsaid/owasp-top-10-labs/internal/log"
	"github.com/mehdiaitsaid/owasp-top-10-labs/internal/routes"
)

// BrokenLink is a navigation or footer target that does not resolve.
type BrokenLink struct {
	Source string // configuration path of the entry, e.g. themeConfig.navbar.items[0]
	Label  string
	Target string
}

func (b BrokenLink) String() string {
	return fmt.Sprintf("%s (%q) -> %s", b.Source, b.Label, b.Target)
}

// BrokenLinkError is returned when broken links are found under PolicyThrow.
type BrokenLinkError struct {
	Links []BrokenLink
}

func (e *BrokenLinkError) Error() string {
	parts := make([]string, len(e.Links))
	for i, l := range e.Links {
		parts[i] = l.String()
	}
	return fmt.Sprintf("%d broken link(s): %s", len(e.Links), strings.Join(parts, "; "))
}

// CheckLinks resolves every internal navbar and footer target of d against
// known. External targets (href, or a to with a URL scheme) are not checked.
// Sidebar references are only checked when known can answer for sidebars.
func CheckLinks(d *Descriptor, known *routes.Set) []BrokenLink {
	var broken []BrokenLink

	for i, item := range d.ThemeConfig.Navbar.Items {
		source := fmt.Sprintf("themeConfig.navbar.items[%d]", i)
		switch item.Type {
		case NavItemDocSidebar:
			if ok, isKnown := known.HasSidebar(item.SidebarID); isKnown && !ok {
				broken = append(broken, BrokenLink{Source: source, Label: item.Label, Target: "sidebar:" + item.SidebarID})
			}
		case NavItemDoc:
			if !known.HasDoc(item.DocID) {
				broken = append(broken, BrokenLink{Source: source, Label: item.Label, Target: "doc:" + item.DocID})
			}
		default:
			if !resolves(d.BaseURL, item.To, known) {
				broken = append(broken, BrokenLink{Source: source, Label: item.Label, Target: item.To})
			}
		}
	}

	for g, group := range d.ThemeConfig.Footer.Links {
		for j, link := range group.Items {
			if !resolves(d.BaseURL, link.To, known) {
				broken = append(broken, BrokenLink{
					Source: fmt.Sprintf("themeConfig.footer.links[%d].items[%d]", g, j),
					Label:  link.Label,
					Target: link.To,
				})
			}
		}
	}

	return broken
}

// resolves reports whether a "to" target is either external or a known route.
func resolves(baseURL, to string, known *routes.Set) bool {
	if to == "" || isExternal(to) {
		return true
	}
	return known.HasRoute(stripBase(baseURL, to))
}

// stripBase removes the baseUrl prefix from to. The base path with or without
// its trailing slash names the site root.
func stripBase(baseURL, to string) string {
	bare := strings.TrimSuffix(baseURL, "/")
	if bare == "" {
		return to
	}
	rest, ok := strings.CutPrefix(to, bare)
	if !ok || (rest != "" && !strings.ContainsRune("/?#", rune(rest[0]))) {
		return to
	}
	return "/" + strings.TrimPrefix(rest, "/")
}

func isExternal(target string) bool {
	if strings.HasPrefix(target, "pathname://") {
		return true
	}
	u, err := url.Parse(target)
	return err == nil && u.Scheme != ""
}

// ApplyLinkPolicy reacts to broken links according to policy: throw returns a
// *BrokenLinkError, warn logs each link, ignore only logs at debug level.
func ApplyLinkPolicy(policy BrokenLinkPolicy, broken []BrokenLink, logger zerolog.Logger) error {
	if len(broken) == 0 {
		return nil
	}

	switch policy {
	case PolicyThrow:
		return &BrokenLinkError{Links: broken}
	case PolicyWarn:
		for _, b := range broken {
			logger.Warn().
				Str(xlog.FieldEvent, "site.broken_link").
				Str(xlog.FieldPolicy, string(policy)).
				Str(xlog.FieldSource, b.Source).
				Str(xlog.FieldTarget, b.Target).
				Msgf("broken link %q", b.Label)
		}
	default:
		logger.Debug().
			Str(xlog.FieldEvent, "site.broken_links_ignored").
			Str(xlog.FieldPolicy, string(policy)).
			Int("count", len(broken)).
			Msg("ignoring broken links")
	}
	return nil
}
