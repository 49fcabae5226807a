// SPDX-License-Identifier: MIT

package site

import (
	"strings"

	"gopkg.in/yaml.v3"
)

// Descriptor is the complete site configuration handed to the documentation
// generator. A Descriptor returned by Load or Default is validated and must be
// treated as read-only; use Clone to derive a modified copy.
type Descriptor struct {
	Title            string           `json:"title" yaml:"title"`
	Tagline          string           `json:"tagline" yaml:"tagline"`
	Favicon          string           `json:"favicon" yaml:"favicon"`
	Future           Future           `json:"future" yaml:"future"`
	URL              string           `json:"url" yaml:"url"`
	BaseURL          string           `json:"baseUrl" yaml:"baseUrl"`
	OrganizationName string           `json:"organizationName" yaml:"organizationName"`
	ProjectName      string           `json:"projectName" yaml:"projectName"`
	DeploymentBranch string           `json:"deploymentBranch" yaml:"deploymentBranch"`
	TrailingSlash    bool             `json:"trailingSlash" yaml:"trailingSlash"`
	OnBrokenLinks    BrokenLinkPolicy `json:"onBrokenLinks" yaml:"onBrokenLinks"`
	I18n             I18n             `json:"i18n" yaml:"i18n"`
	Presets          []Preset         `json:"presets" yaml:"presets"`
	ThemeConfig      ThemeConfig      `json:"themeConfig" yaml:"themeConfig"`
}

// Future carries generator compatibility flags.
type Future struct {
	V4 bool `json:"v4" yaml:"v4"`
}

// I18n holds the localisation defaults.
type I18n struct {
	DefaultLocale string   `json:"defaultLocale" yaml:"defaultLocale"`
	Locales       []string `json:"locales" yaml:"locales"`
}

// Preset is a named bundle of docs routing and theme options.
type Preset struct {
	Name  string       `json:"name" yaml:"name"`
	Docs  DocsOptions  `json:"docs" yaml:"docs"`
	Theme ThemeOptions `json:"theme" yaml:"theme"`
}

// DocsOptions configures one content root.
type DocsOptions struct {
	Path          string `json:"path" yaml:"path"`
	RouteBasePath string `json:"routeBasePath" yaml:"routeBasePath"`
	SidebarPath   string `json:"sidebarPath,omitempty" yaml:"sidebarPath,omitempty"`
	EditURL       string `json:"editUrl,omitempty" yaml:"editUrl,omitempty"`
}

// ThemeOptions configures preset-level styling.
type ThemeOptions struct {
	CustomCSS string `json:"customCss,omitempty" yaml:"customCss,omitempty"`
}

// ThemeConfig holds the theme options rendered into every page.
type ThemeConfig struct {
	Image     string    `json:"image" yaml:"image"`
	ColorMode ColorMode `json:"colorMode" yaml:"colorMode"`
	Navbar    Navbar    `json:"navbar" yaml:"navbar"`
	Footer    Footer    `json:"footer" yaml:"footer"`
	Prism     Prism     `json:"prism" yaml:"prism"`
}

// ColorMode controls the light/dark switch.
type ColorMode struct {
	DefaultMode               string `json:"defaultMode" yaml:"defaultMode"`
	DisableSwitch             bool   `json:"disableSwitch" yaml:"disableSwitch"`
	RespectPrefersColorScheme bool   `json:"respectPrefersColorScheme" yaml:"respectPrefersColorScheme"`
}

// Navbar is the top bar: title, logo and items.
type Navbar struct {
	Title string    `json:"title" yaml:"title"`
	Logo  Logo      `json:"logo" yaml:"logo"`
	Items []NavItem `json:"items" yaml:"items"`
}

// Logo is an image shown next to the navbar title.
type Logo struct {
	Alt string `json:"alt" yaml:"alt"`
	Src string `json:"src" yaml:"src"`
}

// Navbar item types understood by the generator.
const (
	NavItemDefault    = ""
	NavItemDoc        = "doc"
	NavItemDocSidebar = "docSidebar"
)

// NavItem is one navbar entry. Default items link via To (site route) or Href
// (external URL); doc and docSidebar items resolve through DocID and SidebarID.
type NavItem struct {
	Type      string `json:"type,omitempty" yaml:"type,omitempty"`
	SidebarID string `json:"sidebarId,omitempty" yaml:"sidebarId,omitempty"`
	DocID     string `json:"docId,omitempty" yaml:"docId,omitempty"`
	Label     string `json:"label" yaml:"label"`
	To        string `json:"to,omitempty" yaml:"to,omitempty"`
	Href      string `json:"href,omitempty" yaml:"href,omitempty"`
	Position  string `json:"position,omitempty" yaml:"position,omitempty"`
}

// Footer is the page footer. Copyright is always derived at load time.
type Footer struct {
	Style     string        `json:"style" yaml:"style"`
	Links     []FooterGroup `json:"links" yaml:"links"`
	Copyright string        `json:"copyright" yaml:"copyright,omitempty"`
}

// FooterGroup is one titled column of footer links.
type FooterGroup struct {
	Title string       `json:"title" yaml:"title"`
	Items []FooterLink `json:"items" yaml:"items"`
}

// FooterLink links via To (site route) or Href (external URL), never both.
type FooterLink struct {
	Label string `json:"label" yaml:"label"`
	To    string `json:"to,omitempty" yaml:"to,omitempty"`
	Href  string `json:"href,omitempty" yaml:"href,omitempty"`
}

// Prism names the light and dark syntax-highlighting palettes.
type Prism struct {
	Theme     string `json:"theme" yaml:"theme"`
	DarkTheme string `json:"darkTheme" yaml:"darkTheme"`
}

// BrokenLinkPolicy is the reaction to a navigation target that does not resolve.
type BrokenLinkPolicy string

const (
	PolicyThrow  BrokenLinkPolicy = "throw"
	PolicyWarn   BrokenLinkPolicy = "warn"
	PolicyIgnore BrokenLinkPolicy = "ignore"
)

// ParseBrokenLinkPolicy normalises s. "fail" is accepted as a synonym of
// "throw"; unknown values are returned unchanged so validation can name them.
func ParseBrokenLinkPolicy(s string) BrokenLinkPolicy {
	v := strings.ToLower(strings.TrimSpace(s))
	if v == "fail" {
		return PolicyThrow
	}
	return BrokenLinkPolicy(v)
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (p *BrokenLinkPolicy) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	*p = ParseBrokenLinkPolicy(s)
	return nil
}

// SiteIdentity groups the fields that name and brand the site.
type SiteIdentity struct {
	Title   string
	Tagline string
	Favicon string
	Image   string
}

// DeploymentTarget groups the fields that control where the site is published.
type DeploymentTarget struct {
	URL              string
	BaseURL          string
	OrganizationName string
	ProjectName      string
	DeploymentBranch string
	TrailingSlash    bool
	OnBrokenLinks    BrokenLinkPolicy
}

// Identity returns the site identity.
func (d *Descriptor) Identity() SiteIdentity {
	return SiteIdentity{
		Title:   d.Title,
		Tagline: d.Tagline,
		Favicon: d.Favicon,
		Image:   d.ThemeConfig.Image,
	}
}

// Deployment returns the deployment target.
func (d *Descriptor) Deployment() DeploymentTarget {
	return DeploymentTarget{
		URL:              d.URL,
		BaseURL:          d.BaseURL,
		OrganizationName: d.OrganizationName,
		ProjectName:      d.ProjectName,
		DeploymentBranch: d.DeploymentBranch,
		TrailingSlash:    d.TrailingSlash,
		OnBrokenLinks:    d.OnBrokenLinks,
	}
}

// Localization returns a copy of the i18n settings.
func (d *Descriptor) Localization() I18n {
	return I18n{
		DefaultLocale: d.I18n.DefaultLocale,
		Locales:       append([]string(nil), d.I18n.Locales...),
	}
}

// Clone returns a deep copy of d.
func (d *Descriptor) Clone() *Descriptor {
	c := *d
	c.I18n.Locales = append([]string(nil), d.I18n.Locales...)
	c.Presets = append([]Preset(nil), d.Presets...)
	c.ThemeConfig.Navbar.Items = append([]NavItem(nil), d.ThemeConfig.Navbar.Items...)
	c.ThemeConfig.Footer.Links = make([]FooterGroup, len(d.ThemeConfig.Footer.Links))
	for i, g := range d.ThemeConfig.Footer.Links {
		g.Items = append([]FooterLink(nil), g.Items...)
		c.ThemeConfig.Footer.Links[i] = g
	}
	if d.ThemeConfig.Footer.Links == nil {
		c.ThemeConfig.Footer.Links = nil
	}
	return &c
}
