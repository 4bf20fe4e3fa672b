package cmd

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/rtfdocs/rtfd/internal/api"
	"github.com/rtfdocs/rtfd/internal/progress"
	"github.com/rtfdocs/rtfd/internal/project"
	"github.com/rtfdocs/rtfd/internal/site"
)

var buildCmd = &cobra.Command{
	Use:   "build <name> <checkout-dir>",
	Short: "Build one branch of a project's documentation",
	Long: `Renders the project's source dir inside checkout-dir into
<base_dir>/docs/<name>/<lang>/<branch>/ and records the result, which the
badge endpoint reports. Building the project's latest branch also refreshes
the "latest" copy.`,
	Args: cobra.ExactArgs(2),
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().String("branch", "", "branch being built (defaults to the project's default branch)")
	buildCmd.Flags().String("lang", "", "language being built (defaults to the project's first language)")
	buildCmd.Flags().String("sender", string(project.SenderCLI), "what triggered the build: cli, api or webhook")
	buildCmd.Flags().Bool("no-progress", false, "disable the progress bar")
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := setupLogger(cfg)

	database, store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	ctx := cmd.Context()
	p, err := store.Get(ctx, args[0])
	if err != nil {
		return err
	}

	branch, _ := cmd.Flags().GetString("branch")
	lang, _ := cmd.Flags().GetString("lang")
	sender, _ := cmd.Flags().GetString("sender")
	switch project.Sender(sender) {
	case project.SenderCLI, project.SenderAPI, project.SenderWebhook:
	default:
		return fmt.Errorf("invalid --sender %q: must be cli, api or webhook", sender)
	}

	var reporter progress.Reporter = progress.NewReporter()
	if noProgress, _ := cmd.Flags().GetBool("no-progress"); noProgress {
		reporter = progress.Nop{}
	}

	builder := &site.Builder{
		DocsDir:   cfg.DocsDir(),
		Include:   cfg.Build.Include,
		Exclude:   cfg.Build.Exclude,
		Loader:    loaderConfig(cfg),
		LoaderSrc: loaderSrc(cfg.APIBase()),
		Reporter:  reporter,
		Log:       log.WithName("build"),
	}

	srcDir := filepath.Join(args[1], filepath.FromSlash(p.SourceDir))
	res, buildErr := builder.Build(ctx, p, lang, branch, srcDir)

	record := &project.Build{Sender: project.Sender(sender), Language: lang, Branch: strings.ToLower(branch)}
	if record.Branch == "" {
		record.Branch = strings.ToLower(p.DefaultBranch)
	}
	if buildErr != nil {
		record.Message = buildErr.Error()
	} else {
		record.Passing = true
		record.Language = res.Language
		record.Branch = res.Branch
		record.Pages = res.Pages
		record.Duration = res.Duration
	}
	if err := store.RecordBuild(ctx, p.Name, record); err != nil {
		log.Error(err, "recording build", "project", p.Name)
	}
	if buildErr != nil {
		return fmt.Errorf("building %s: %w", p.Name, buildErr)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Built %s %s/%s: %d pages, %d assets in %s\n",
		res.Project, res.Language, res.Branch, res.Pages, res.Assets, res.Duration.Round(time.Millisecond))
	fmt.Fprintf(cmd.OutOrStdout(), "  Output: %s\n", res.OutputDir)
	if res.Latest {
		fmt.Fprintln(cmd.OutOrStdout(), "  Published as latest")
	}
	return nil
}

// loaderSrc is the URL of the browser loader served by an rtfd server at base.
func loaderSrc(base string) string {
	return strings.TrimSuffix(base, "/") + api.AssetsPath + "/rtfd.js"
}
