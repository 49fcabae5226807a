// SPDX-License-Identifier: MIT

package site

import (
	"fmt"
	"time"

	"github.com/benbjohnson/clock"
)

// DefaultCopyrightHolder is the author named in the footer copyright.
const DefaultCopyrightHolder = "Pr. AIT SAID Mehdi"

const repositoryURL = "https://github.com/mehdiaitsaid/owasp-top-10-labs.git"

// Copyright renders the footer copyright line for the year of now.
func Copyright(holder string, now time.Time) string {
	return fmt.Sprintf("Copyright © %d %s.", now.Year(), holder)
}

// Default returns the built-in descriptor of the OWASP Top 10 Labs site with
// the copyright derived from clk. The result is validated.
func Default(clk clock.Clock) (*Descriptor, error) {
	if clk == nil {
		clk = clock.New()
	}
	d := builtin()
	d.ThemeConfig.Footer.Copyright = Copyright(DefaultCopyrightHolder, clk.Now())
	if err := Validate(d); err != nil {
		return nil, fmt.Errorf("built-in descriptor: %w", err)
	}
	return &d, nil
}

// builtin returns a fresh copy of the authored literals. The copyright is
// left empty; it is derived at load time.
func builtin() Descriptor {
	return Descriptor{
		Title:   "OWASP TOP 10 Labs",
		Tagline: "Hands-on Application Security Labs to Learn, Practice, and Master Web Vulnerabilities",
		Favicon: "img/favicon.ico",
		Future:  Future{V4: true},

		URL:              "https://mehdiaitsaid.github.com",
		BaseURL:          "/owasp-top-10-labs/",
		OrganizationName: "mehdiaitsaid",
		ProjectName:      "owasp-top-10-labs",
		DeploymentBranch: "gh-pages",
		TrailingSlash:    false,
		OnBrokenLinks:    PolicyThrow,

		I18n: I18n{
			DefaultLocale: "en",
			Locales:       []string{"en"},
		},

		Presets: []Preset{
			{
				Name: "classic",
				Docs: DocsOptions{
					Path:          "labs",
					RouteBasePath: "labs",
					SidebarPath:   "./sidebars.ts",
					EditURL:       repositoryURL,
				},
				Theme: ThemeOptions{CustomCSS: "./src/css/custom.css"},
			},
		},

		ThemeConfig: ThemeConfig{
			Image: "img/logo.png",
			ColorMode: ColorMode{
				DefaultMode:               "light",
				RespectPrefersColorScheme: true,
			},
			Navbar: Navbar{
				Title: "OWASP",
				Logo:  Logo{Alt: "OWASP TOP 10 Labs", Src: "img/logo.png"},
				Items: []NavItem{
					{Type: NavItemDocSidebar, SidebarID: "tutorialSidebar", Position: "left", Label: "Labs"},
					{Href: repositoryURL, Label: "GitHub", Position: "right"},
				},
			},
			Footer: Footer{
				Style: "dark",
				Links: []FooterGroup{
					{
						Title: "Labs",
						Items: []FooterLink{
							{Label: "Hands-On Labs", To: "/labs/intro"},
						},
					},
					{
						Title: "Contact me",
						Items: []FooterLink{
							{Label: "Linkedin", Href: "https://www.linkedin.com/in/mehdi-aitsaid/"},
							{Label: "Instagram", Href: "https://www.instagram.com/mehdi.aitsaid/"},
							{Label: "GitHub", Href: "https://github.com/mehdiaitsaid"},
						},
					},
					{
						Title: "More",
						Items: []FooterLink{
							{Label: "Université Mohammed I", To: "https://www.ump.ma/"},
							{Label: "EST Nador", Href: "https://estn.ump.ma/"},
						},
					},
				},
			},
			Prism: Prism{Theme: "github", DarkTheme: "dracula"},
		},
	}
}
