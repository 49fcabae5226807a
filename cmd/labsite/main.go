// SPDX-License-Identifier: MIT

// labsite builds, validates and publishes the site descriptor of the
// OWASP Top 10 Labs documentation site.
//
// Usage:
//
//	labsite validate --site-dir . --file site.yaml
//	labsite dump --format yaml
//	labsite write -o site.config.json
//	labsite routes --site-dir .
//	labsite watch --site-dir . -o site.config.json
//
// Exit codes:
//   - 0: success
//   - 1: the descriptor could not be loaded, is invalid or has broken links
//   - 2: usage error (unknown command or flag, invalid tool configuration)
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mehdiaitsaid/owasp-top-10-labs/internal/config"
	xlog "github.com/mehdiaitsaid/owasp-top-10-labs/internal/log"
	"github.com/mehdiaitsaid/owasp-top-10-labs/internal/site"
	"github.com/mehdiaitsaid/owasp-top-10-labs/internal/version"
)

const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

// exitError carries the process exit code of a failed command.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func failure(err error) error { return &exitError{code: exitFailure, err: err} }

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes the CLI and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root := newRootCmd(stdout, stderr)
	root.SetArgs(args)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return exitOK
	}

	var ee *exitError
	if errors.As(err, &ee) {
		fmt.Fprintf(stderr, "Error: %v\n", ee.err)
		return ee.code
	}
	// Anything cobra rejects before a command runs is a usage error.
	fmt.Fprintf(stderr, "Error: %v\n", err)
	fmt.Fprintf(stderr, "Run '%s --help' for usage.\n", root.Name())
	return exitUsage
}

// globals are the persistent flags shared by every subcommand.
type globals struct {
	file            string
	siteDir         string
	logLevel        string
	logFormat       string
	metricsTextfile string

	cfg config.Config
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	g := &globals{}

	root := &cobra.Command{
		Use:           "labsite",
		Short:         "Validate and publish the OWASP Top 10 Labs site descriptor",
		Long:          `labsite builds the typed site descriptor handed to the documentation generator, validates it and checks every navigation target against the content on disk.`,
		Version:       version.String(),
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return g.resolve(cmd, stderr)
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	pf := root.PersistentFlags()
	pf.StringVarP(&g.file, "file", "f", "", "descriptor override file (YAML or JSON) [$"+config.EnvFile+"]")
	pf.StringVar(&g.siteDir, "site-dir", "", "site root used to discover routes for link checking [$"+config.EnvSiteDir+"]")
	pf.StringVar(&g.logLevel, "log-level", "", "log level: trace, debug, info, warn, error [$"+config.EnvLogLevel+"]")
	pf.StringVar(&g.logFormat, "log-format", "", "log format: json or console [$"+config.EnvLogFormat+"]")
	pf.StringVar(&g.metricsTextfile, "metrics-textfile", "", "write load metrics to this node-exporter textfile [$"+config.EnvMetricsTextfile+"]")

	root.AddCommand(
		newValidateCmd(g),
		newDumpCmd(g),
		newWriteCmd(g),
		newRoutesCmd(g),
		newWatchCmd(g),
		newVersionCmd(),
	)
	return root
}

// resolve merges flags over the environment, validates the result and
// configures logging.
func (g *globals) resolve(cmd *cobra.Command, stderr io.Writer) error {
	cfg := config.FromEnv()

	flags := cmd.Flags()
	if flags.Changed("file") {
		cfg.File = g.file
	}
	if flags.Changed("site-dir") {
		cfg.SiteDir = g.siteDir
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = g.logLevel
	}
	if flags.Changed("log-format") {
		cfg.LogFormat = g.logFormat
	}
	if flags.Changed("metrics-textfile") {
		cfg.MetricsTextfile = g.metricsTextfile
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	g.cfg = cfg

	xlog.Configure(xlog.Config{
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		Output:  stderr,
		Version: version.Version,
	})
	return nil
}

// loaderOptions returns the site loader options implied by the configuration.
func (g *globals) loaderOptions() []site.Option {
	opts := []site.Option{site.WithLogger(xlog.WithComponent("site"))}
	if g.cfg.File != "" {
		opts = append(opts, site.WithFile(g.cfg.File))
	}
	if g.cfg.SiteDir != "" {
		opts = append(opts, site.WithSiteDir(g.cfg.SiteDir))
	}
	if g.cfg.MetricsTextfile != "" {
		opts = append(opts, site.WithMetrics(g.cfg.MetricsTextfile))
	}
	return opts
}

func (g *globals) source() string {
	if g.cfg.File != "" {
		return g.cfg.File
	}
	return "built-in descriptor"
}
