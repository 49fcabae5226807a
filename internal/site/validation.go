// SPDX-License-Identifier: MIT

package site

import (
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/text/language"

	"github.com/mehdiaitsaid/owasp-top-10-labs/internal/validate"
)

var (
	brokenLinkPolicies = []string{string(PolicyThrow), string(PolicyWarn), string(PolicyIgnore)}
	colorModes         = []string{"light", "dark"}
	footerStyles       = []string{"dark", "light"}
	navPositions       = []string{"left", "right"}
	navItemTypes       = []string{NavItemDefault, NavItemDoc, NavItemDocSidebar}
	webSchemes         = []string{"http", "https"}

	// prismThemes are the palettes bundled with the generator's highlighter.
	prismThemes = []string{
		"dracula", "duotoneDark", "duotoneLight", "github", "gruvboxMaterialDark",
		"gruvboxMaterialLight", "jettwaveDark", "jettwaveLight", "nightOwl",
		"nightOwlLight", "oceanicNext", "okaidia", "oneDark", "oneLight", "palenight",
		"shadesOfPurple", "synthwave84", "ultramin", "vsDark", "vsLight",
	}
)

// Validate checks every field of d and returns a validate.ValidationError
// naming each offending field by its configuration path.
func Validate(d Descriptor) error {
	v := validate.New()

	v.NotEmpty("title", d.Title)
	v.NotEmpty("tagline", d.Tagline)
	v.Path("favicon", d.Favicon)

	v.URL("url", d.URL, webSchemes)
	if u, err := url.Parse(d.URL); err == nil && u.Host != "" && u.Path != "" && u.Path != "/" {
		v.AddError("url", "must not contain a path (use baseUrl)", d.URL)
	}
	v.BasePath("baseUrl", d.BaseURL)
	v.NotEmpty("organizationName", d.OrganizationName)
	v.NotEmpty("projectName", d.ProjectName)
	v.NotEmpty("deploymentBranch", d.DeploymentBranch)
	v.OneOf("onBrokenLinks", string(d.OnBrokenLinks), brokenLinkPolicies)

	validateI18n(v, d.I18n)
	validatePresets(v, d.Presets)
	validateTheme(v, d.ThemeConfig)

	return v.Err()
}

func validateI18n(v *validate.Validator, i I18n) {
	v.NotEmpty("i18n.defaultLocale", i.DefaultLocale)
	if len(i.Locales) == 0 {
		v.AddError("i18n.locales", "at least one locale is required", i.Locales)
		return
	}
	for idx, loc := range i.Locales {
		if _, err := language.Parse(loc); err != nil {
			v.AddError(fmt.Sprintf("i18n.locales[%d]", idx), fmt.Sprintf("invalid locale code: %v", err), loc)
		}
	}
	v.Unique("i18n.locales", i.Locales, nil)
	if strings.TrimSpace(i.DefaultLocale) != "" {
		v.Contains("i18n.defaultLocale", i.DefaultLocale, i.Locales)
	}
}

func validatePresets(v *validate.Validator, presets []Preset) {
	if len(presets) == 0 {
		v.AddError("presets", "at least one preset is required", presets)
		return
	}

	seen := make(map[string]int, len(presets))
	for i, p := range presets {
		prefix := fmt.Sprintf("presets[%d]", i)
		v.NotEmpty(prefix+".name", p.Name)
		v.Path(prefix+".docs.path", p.Docs.Path)

		field := prefix + ".docs.routeBasePath"
		if strings.ContainsAny(p.Docs.RouteBasePath, "?#\\ ") || strings.Contains(p.Docs.RouteBasePath, "..") {
			v.AddError(field, "route prefix must be a plain URL path", p.Docs.RouteBasePath)
		}
		key := routePrefixKey(p.Docs.RouteBasePath)
		if first, dup := seen[key]; dup {
			v.AddError(field,
				fmt.Sprintf("duplicate route prefix %q (also used by presets[%d])", p.Docs.RouteBasePath, first),
				p.Docs.RouteBasePath)
		} else {
			seen[key] = i
		}

		if p.Docs.SidebarPath != "" {
			v.Path(prefix+".docs.sidebarPath", p.Docs.SidebarPath)
		}
		if p.Docs.EditURL != "" {
			v.URL(prefix+".docs.editUrl", p.Docs.EditURL, webSchemes)
		}
		if p.Theme.CustomCSS != "" {
			v.Path(prefix+".theme.customCss", p.Theme.CustomCSS)
		}
	}
}

// routePrefixKey compares route prefixes the way the generator mounts them:
// "labs", "/labs" and "/labs/" are the same mount point, "" and "/" the root.
func routePrefixKey(prefix string) string {
	return strings.Trim(prefix, "/")
}

func validateTheme(v *validate.Validator, t ThemeConfig) {
	v.Path("themeConfig.image", t.Image)
	v.OneOf("themeConfig.colorMode.defaultMode", t.ColorMode.DefaultMode, colorModes)

	if t.Navbar.Logo.Src != "" {
		v.Path("themeConfig.navbar.logo.src", t.Navbar.Logo.Src)
		v.NotEmpty("themeConfig.navbar.logo.alt", t.Navbar.Logo.Alt)
	}
	for i, item := range t.Navbar.Items {
		validateNavItem(v, fmt.Sprintf("themeConfig.navbar.items[%d]", i), item)
	}

	v.OneOf("themeConfig.footer.style", t.Footer.Style, footerStyles)
	for g, group := range t.Footer.Links {
		prefix := fmt.Sprintf("themeConfig.footer.links[%d]", g)
		v.NotEmpty(prefix+".title", group.Title)
		if len(group.Items) == 0 {
			v.AddError(prefix+".items", "footer group must contain at least one link", group.Title)
		}
		for j, link := range group.Items {
			validateLink(v, fmt.Sprintf("%s.items[%d]", prefix, j), link.Label, link.To, link.Href)
		}
	}
	v.NotEmpty("themeConfig.footer.copyright", t.Footer.Copyright)

	v.OneOf("themeConfig.prism.theme", t.Prism.Theme, prismThemes)
	v.OneOf("themeConfig.prism.darkTheme", t.Prism.DarkTheme, prismThemes)
}

func validateNavItem(v *validate.Validator, field string, item NavItem) {
	if item.Position != "" {
		v.OneOf(field+".position", item.Position, navPositions)
	}
	switch item.Type {
	case NavItemDocSidebar:
		v.NotEmpty(field+".label", item.Label)
		v.NotEmpty(field+".sidebarId", item.SidebarID)
	case NavItemDoc:
		v.NotEmpty(field+".docId", item.DocID)
	case NavItemDefault:
		validateLink(v, field, item.Label, item.To, item.Href)
	default:
		v.OneOf(field+".type", item.Type, navItemTypes)
	}
}

// validateLink enforces that a plain link carries a label and exactly one target.
func validateLink(v *validate.Validator, field, label, to, href string) {
	v.NotEmpty(field+".label", label)
	switch {
	case to == "" && href == "":
		v.AddError(field, "one of to or href is required", label)
	case to != "" && href != "":
		v.AddError(field, "to and href are mutually exclusive", label)
	case href != "":
		if u, err := url.Parse(href); err != nil || u.Scheme == "" {
			v.AddError(field+".href", "must be an absolute URL", href)
		}
	}
}
