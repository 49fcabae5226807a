// SPDX-License-Identifier: MIT

package site

import (
	"context"
	"errors"
	"fmt"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	xlog "github.com/mehdiaitsaid/owasp-top-10-labs/internal/log"
	"github.com/mehdiaitsaid/owasp-top-10-labs/internal/metrics"
	"github.com/mehdiaitsaid/owasp-top-10-labs/internal/routes"
)

// Loader builds descriptors: built-in literals, then the optional override
// file, then the derived copyright, then validation and the broken-link check.
type Loader struct {
	clk      clock.Clock
	file     string
	siteDir  string
	known    *routes.Set
	logger   zerolog.Logger
	textfile string
}

// Option configures a Loader.
type Option func(*Loader)

// WithClock sets the clock the copyright year is derived from.
func WithClock(clk clock.Clock) Option {
	return func(l *Loader) { l.clk = clk }
}

// WithFile overlays the YAML or JSON file at path onto the built-in values.
func WithFile(path string) Option {
	return func(l *Loader) { l.file = path }
}

// WithSiteDir enables route discovery under dir. Content roots and sidebar
// paths of each preset are resolved relative to it.
func WithSiteDir(dir string) Option {
	return func(l *Loader) { l.siteDir = dir }
}

// WithRoutes supplies a fixed route set instead of scanning the site directory.
func WithRoutes(known *routes.Set) Option {
	return func(l *Loader) { l.known = known }
}

func WithLogger(logger zerolog.Logger) Option {
	return func(l *Loader) { l.logger = logger }
}

// WithMetrics writes the load metrics to a node-exporter textfile after every load.
func WithMetrics(textfile string) Option {
	return func(l *Loader) { l.textfile = textfile }
}

// NewLoader returns a Loader using the wall clock and the global logger unless
// overridden by opts.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{
		clk:    clock.New(),
		logger: xlog.WithComponent("site"),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// File returns the override file path, or "" when only built-in values are used.
func (l *Loader) File() string { return l.file }

// SiteDir returns the directory routes are discovered in.
func (l *Loader) SiteDir() string { return l.siteDir }

// Load constructs and validates a descriptor. Validation errors abort the load;
// broken links abort it only under PolicyThrow.
func (l *Loader) Load(ctx context.Context) (*Descriptor, error) {
	ctx = l.logger.WithContext(xlog.ContextWithLoadID(ctx, uuid.NewString()))
	logger := xlog.WithContext(ctx, l.logger)
	start := l.clk.Now()

	d, err := l.load(ctx, logger)

	metrics.ObserveLoadDuration(l.clk.Since(start))
	metrics.IncLoad(resultOf(err))
	if err == nil {
		metrics.RecordSuccess(l.clk.Now())
	}
	if l.textfile != "" {
		if werr := metrics.WriteTextfile(l.textfile); werr != nil {
			logger.Warn().Err(werr).
				Str(xlog.FieldEvent, "site.metrics_write_failed").
				Str(xlog.FieldPath, l.textfile).
				Msg("could not write metrics textfile")
		}
	}

	if err != nil {
		logger.Error().Err(err).Str(xlog.FieldEvent, "site.load_failed").Msg("descriptor load failed")
		return nil, err
	}
	logger.Info().
		Str(xlog.FieldEvent, "site.load_success").
		Str(xlog.FieldBaseURL, d.BaseURL).
		Str(xlog.FieldLocale, d.I18n.DefaultLocale).
		Str(xlog.FieldPolicy, string(d.OnBrokenLinks)).
		Msg("descriptor loaded")
	return d, nil
}

func (l *Loader) load(ctx context.Context, logger zerolog.Logger) (*Descriptor, error) {
	d := builtin()
	holder := DefaultCopyrightHolder

	if l.file != "" {
		var err error
		d, holder, err = loadFile(l.file, d)
		if err != nil {
			return nil, fmt.Errorf("load descriptor file %s: %w", l.file, err)
		}
		logger.Debug().
			Str(xlog.FieldEvent, "site.file_applied").
			Str(xlog.FieldPath, l.file).
			Msg("override file applied")
	}

	derived := Copyright(holder, l.clk.Now())
	if from := d.ThemeConfig.Footer.Copyright; from != "" && from != derived {
		logger.Debug().
			Str(xlog.FieldEvent, "site.copyright_replaced").
			Str(xlog.FieldField, "themeConfig.footer.copyright").
			Str("from", from).
			Str("to", derived).
			Msg("file copyright replaced by the derived one")
	}
	d.ThemeConfig.Footer.Copyright = derived

	if err := Validate(d); err != nil {
		return nil, fmt.Errorf("site validation failed: %w", err)
	}

	known, err := l.routes(ctx, &d)
	if err != nil {
		return nil, fmt.Errorf("discover routes: %w", err)
	}
	if known == nil {
		logger.Debug().
			Str(xlog.FieldEvent, "site.links_unchecked").
			Msg("no site directory or route set; skipping link check")
		return &d, nil
	}
	metrics.RecordKnownRoutes(known.Len())

	broken := CheckLinks(&d, known)
	metrics.AddBrokenLinks(string(d.OnBrokenLinks), len(broken))
	if err := ApplyLinkPolicy(d.OnBrokenLinks, broken, logger); err != nil {
		return nil, err
	}
	return &d, nil
}

func (l *Loader) routes(ctx context.Context, d *Descriptor) (*routes.Set, error) {
	if l.known != nil {
		return l.known, nil
	}
	if l.siteDir == "" {
		return nil, nil
	}
	return routes.Discover(ctx, l.siteDir, Roots(d))
}

// Roots maps each preset of d to the content root route discovery scans.
func Roots(d *Descriptor) []routes.Root {
	roots := make([]routes.Root, 0, len(d.Presets))
	for _, p := range d.Presets {
		roots = append(roots, routes.Root{
			Preset:        p.Name,
			Path:          p.Docs.Path,
			RouteBasePath: p.Docs.RouteBasePath,
			SidebarPath:   p.Docs.SidebarPath,
		})
	}
	return roots
}

func resultOf(err error) string {
	var brokenErr *BrokenLinkError
	var fieldErr interface{ Fields() []string }
	switch {
	case err == nil:
		return metrics.ResultSuccess
	case errors.As(err, &brokenErr):
		return metrics.ResultBrokenLinks
	case errors.As(err, &fieldErr):
		return metrics.ResultInvalid
	default:
		return metrics.ResultError
	}
}

// Load builds a descriptor with a default Loader configured by opts.
func Load(ctx context.Context, opts ...Option) (*Descriptor, error) {
	return NewLoader(opts...).Load(ctx)
}
