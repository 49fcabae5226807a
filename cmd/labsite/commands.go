// SPDX-License-Identifier: MIT

package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	xlog "github.com/mehdiaitsaid/owasp-top-10-labs/internal/log"
	"github.com/mehdiaitsaid/owasp-top-10-labs/internal/routes"
	"github.com/mehdiaitsaid/owasp-top-10-labs/internal/site"
	"github.com/mehdiaitsaid/owasp-top-10-labs/internal/version"
)

func newValidateCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Load the descriptor, validate it and check its links",
		Example: `
  # Validate the built-in descriptor against the content in the current folder
  labsite validate --site-dir .

  # Validate an override file
  labsite validate -f site.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := site.Load(cmd.Context(), g.loaderOptions()...); err != nil {
				return failure(fmt.Errorf("%s: %w", g.source(), err))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ %s is valid\n", g.source())
			return nil
		},
	}
}

func newDumpCmd(g *globals) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Print the effective descriptor",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := site.ParseFormat(format)
			if err != nil {
				return err
			}
			d, err := site.Load(cmd.Context(), g.loaderOptions()...)
			if err != nil {
				return failure(err)
			}
			if err := site.Encode(cmd.OutOrStdout(), d, f); err != nil {
				return failure(fmt.Errorf("encode descriptor: %w", err))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", string(site.FormatJSON), "output format: json or yaml")
	return cmd
}

func newWriteCmd(g *globals) *cobra.Command {
	var output, format string

	cmd := &cobra.Command{
		Use:   "write",
		Short: "Write the effective descriptor to a file atomically",
		Example: `
  # Format follows the extension unless --format is given
  labsite write -o site.config.json
  labsite write -o site.config --format yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := outputFormat(output, format)
			if err != nil {
				return err
			}
			d, err := site.Load(cmd.Context(), g.loaderOptions()...)
			if err != nil {
				return failure(err)
			}
			if err := site.WriteFile(cmd.Context(), output, d, f); err != nil {
				return failure(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ wrote %s\n", output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "destination file (required)")
	cmd.Flags().StringVar(&format, "format", "", "output format: json or yaml (default from the file extension, else json)")
	_ = cmd.MarkFlagRequired("output")
	return cmd
}

// outputFormat picks the explicit format, or the one implied by the file extension.
func outputFormat(path, explicit string) (site.Format, error) {
	if explicit != "" {
		return site.ParseFormat(explicit)
	}
	if f, err := site.ParseFormat(strings.TrimPrefix(filepath.Ext(path), ".")); err == nil {
		return f, nil
	}
	return site.FormatJSON, nil
}

func newRoutesCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "routes",
		Short: "List the routes discovered under --site-dir",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if g.cfg.SiteDir == "" {
				return errors.New("routes requires --site-dir")
			}

			// Links are not checked here: the listing is how broken ones get diagnosed.
			opts := []site.Option{site.WithLogger(xlog.WithComponent("site"))}
			if g.cfg.File != "" {
				opts = append(opts, site.WithFile(g.cfg.File))
			}
			d, err := site.Load(cmd.Context(), opts...)
			if err != nil {
				return failure(err)
			}

			known, err := routes.Discover(cmd.Context(), g.cfg.SiteDir, site.Roots(d))
			if err != nil {
				return failure(err)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ROUTE\tDOC\tTITLE\tPRESET")
			for _, doc := range known.Docs() {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", doc.Route, doc.ID, doc.Title, doc.Preset)
			}
			return tw.Flush()
		},
	}
}

func newWatchCmd(g *globals) *cobra.Command {
	var output, format string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Reload the descriptor whenever its sources change",
		Long: `watch loads the descriptor, then reloads it whenever the override file, a
sidebar file or anything under a content root changes, until interrupted.
A failed reload is logged and the previous descriptor stays in effect. With
-o the descriptor is rewritten after every successful load.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var f site.Format
			if output != "" {
				var err error
				if f, err = outputFormat(output, format); err != nil {
					return err
				}
			}

			ctx := cmd.Context()
			logger := xlog.Derive(func(c *zerolog.Context) {
				*c = c.Str(xlog.FieldComponent, "watch").Str(xlog.FieldSiteDir, g.cfg.SiteDir)
			})
			loader := site.NewLoader(g.loaderOptions()...)

			initial, err := loader.Load(ctx)
			if err != nil {
				return failure(err)
			}
			publish := func(d *site.Descriptor) {
				if output == "" {
					return
				}
				if err := site.WriteFile(ctx, output, d, f); err != nil {
					logger.Error().Err(err).
						Str(xlog.FieldEvent, "watch.write_failed").
						Str(xlog.FieldPath, output).
						Msg("could not write descriptor")
				}
			}
			publish(initial)

			holder := site.NewHolder(initial, loader, g.cfg.WatchDebounce)
			updates := make(chan *site.Descriptor, 1)
			holder.RegisterListener(updates)
			if err := holder.StartWatcher(ctx); err != nil {
				return failure(err)
			}
			defer holder.Stop()

			fmt.Fprintf(cmd.OutOrStdout(), "✓ watching %s (Ctrl+C to stop)\n", g.source())
			for {
				select {
				case <-ctx.Done():
					return nil
				case d := <-updates:
					publish(d)
				}
			}
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "rewrite this file after every successful load")
	cmd.Flags().StringVar(&format, "format", "", "output format: json or yaml (default from the file extension, else json)")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the labsite version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.String())
		},
	}
}
