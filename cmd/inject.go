package cmd

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rtfdocs/rtfd/internal/api"
	"github.com/rtfdocs/rtfd/internal/overlay"
)

var injectCmd = &cobra.Command{
	Use:   "inject",
	Short: "Mount the overlay on a static HTML page",
	Long: `Runs the overlay widget against an HTML file as if it were served at
--path. The page's own rtfd-script config wins over the configured API and
static base. The descriptor is fetched from the describe API over HTTP, or
from the local project database with --local. When the overlay is suppressed
the page is written unchanged.`,
	RunE: runInject,
}

func init() {
	injectCmd.Flags().String("file", "", "HTML page to process")
	injectCmd.Flags().String("path", "", "URL path the page is served at, e.g. /en/v2/guide/setup.html")
	injectCmd.Flags().String("out", "", "output file (defaults to stdout)")
	injectCmd.Flags().String("name", "", "project name when the page doesn't carry one")
	injectCmd.Flags().Bool("local", false, "read the descriptor from the local project database")
	_ = injectCmd.MarkFlagRequired("file")
	_ = injectCmd.MarkFlagRequired("path")
	rootCmd.AddCommand(injectCmd)
}

func runInject(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := setupLogger(cfg)

	file, _ := cmd.Flags().GetString("file")
	pagePath, _ := cmd.Flags().GetString("path")
	out, _ := cmd.Flags().GetString("out")
	name, _ := cmd.Flags().GetString("name")
	local, _ := cmd.Flags().GetBool("local")

	raw, err := os.ReadFile(file)
	if err != nil {
		return err
	}
	doc, err := overlay.Parse(bytes.NewReader(raw))
	if err != nil {
		return err
	}

	defaults := loaderConfig(cfg)
	if name != "" {
		defaults[overlay.KeyName] = name
	}
	opts := overlay.Options{
		Defaults: defaults,
		Legacy:   cfg.Overlay.LegacyAPI,
		Timeout:  cfg.Overlay.Timeout,
		Mount:    overlay.MountMode(cfg.Overlay.Mount),
		Popover:  popoverOptions(cfg),
		Logger:   log.WithName("inject"),
	}
	if local {
		database, store, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer database.Close()
		opts.Fetcher = &api.StoreFetcher{Store: store, DocsDir: cfg.DocsDir()}
	}

	res := overlay.NewWidget(opts).Run(cmd.Context(), doc, pagePath)

	result := raw
	switch res.Phase {
	case overlay.PhaseRendered, overlay.PhasePopoverBound:
		if result, err = overlay.RenderDocument(doc); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "overlay mounted: %s %s (%s)\n", res.State.Language, res.State.Branch, res.Phase)
	default:
		fmt.Fprintf(os.Stderr, "overlay suppressed: %v\n", res.Reason)
	}

	if out == "" {
		_, err = cmd.OutOrStdout().Write(result)
		return err
	}
	return os.WriteFile(out, result, 0o644)
}
