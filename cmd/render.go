package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rtfdocs/rtfd/internal/api"
	"github.com/rtfdocs/rtfd/internal/overlay"
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Print the overlay fragment of a page",
	Long:  `Renders the overlay HTML for a project page from the local project database, without a page to mount it on.`,
	RunE:  runRender,
}

func init() {
	renderCmd.Flags().String("name", "", "project name")
	renderCmd.Flags().String("path", "/", "URL path of the page, e.g. /en/latest/")
	renderCmd.Flags().String("prefix", "", "prefix for language and version links")
	_ = renderCmd.MarkFlagRequired("name")
	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	database, store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	name, _ := cmd.Flags().GetString("name")
	pagePath, _ := cmd.Flags().GetString("path")
	prefix, _ := cmd.Flags().GetString("prefix")

	fetcher := &api.StoreFetcher{Store: store, DocsDir: cfg.DocsDir()}
	d, err := fetcher.FetchDescriptor(cmd.Context(), name)
	if err != nil {
		return err
	}
	if !d.NavEnabled() {
		return fmt.Errorf("project %s: %w", name, overlay.ErrSuppressed)
	}
	frag, _, err := overlay.RenderWith(d, pagePath, overlay.RenderOptions{LinkPrefix: prefix})
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(frag))
	return nil
}
