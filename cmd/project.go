package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rtfdocs/rtfd/internal/project"
)

var projectCmd = &cobra.Command{
	Use:     "project",
	Aliases: []string{"p"},
	Short:   "Manage documentation projects",
	Long:    `Create, inspect, list, update and remove the projects rtfd builds and serves.`,
}

var projectCreateCmd = &cobra.Command{
	Use:   "create <name> <git-url>",
	Short: "Register a project",
	Args:  cobra.ExactArgs(2),
	RunE:  runProjectCreate,
}

var projectGetCmd = &cobra.Command{
	Use:   "get <name>",
	Short: "Show a project as JSON",
	Args:  cobra.ExactArgs(1),
	RunE:  runProjectGet,
}

var projectListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all projects",
	RunE:  runProjectList,
}

var projectUpdateCmd = &cobra.Command{
	Use:   "update <name>",
	Short: "Change project settings",
	Args:  cobra.ExactArgs(1),
	RunE:  runProjectUpdate,
}

var projectRemoveCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Remove a project and its build history",
	Args:  cobra.ExactArgs(1),
	RunE:  runProjectRemove,
}

func init() {
	for _, c := range []*cobra.Command{projectCreateCmd, projectUpdateCmd} {
		c.Flags().String("latest", "", "branch served as latest")
		c.Flags().String("source-dir", "", "documentation directory inside the repository")
		c.Flags().StringSlice("languages", nil, "comma separated languages, first is the default")
		c.Flags().Bool("single", false, "single version project (no language or version switch)")
		c.Flags().Bool("show-nav", true, "show the rtfd overlay on pages")
		c.Flags().Bool("hide-git", false, "hide the view/edit source links")
		c.Flags().String("builder", "", "page layout: html, dirhtml or singlehtml")
		c.Flags().String("domain", "", "custom domain serving the docs")
		c.Flags().String("icon", "", "overlay icon URL")
		c.Flags().String("secret", "", "webhook secret")
	}
	projectCreateCmd.Flags().String("default-branch", "master", "default branch of the repository")
	projectUpdateCmd.Flags().String("default-branch", "", "default branch of the repository")
	projectUpdateCmd.Flags().String("url", "", "git repository URL")

	projectCmd.AddCommand(projectCreateCmd, projectGetCmd, projectListCmd, projectUpdateCmd, projectRemoveCmd)
	rootCmd.AddCommand(projectCmd)
}

func runProjectCreate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	database, store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	branch, _ := cmd.Flags().GetString("default-branch")
	if !cmd.Flags().Changed("default-branch") && cfg.DefaultBranch != "" {
		branch = cfg.DefaultBranch
	}
	p, err := project.New(args[0], args[1], branch)
	if err != nil {
		return err
	}
	if err := applyProjectFlags(cmd, p); err != nil {
		return err
	}
	if err := store.Create(cmd.Context(), p); err != nil {
		if errors.Is(err, project.ErrExists) {
			return fmt.Errorf("project %q already exists (use `rtfd project update %s`)", p.Name, p.Name)
		}
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Project %q created\n", p.Name)
	fmt.Fprintf(cmd.OutOrStdout(), "  Repository: %s (%s)\n", displayURL(p.URL), p.GSP)
	fmt.Fprintf(cmd.OutOrStdout(), "  Languages: %s\n", strings.Join(p.Languages, ", "))
	return nil
}

func runProjectGet(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	database, store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	p, err := store.Get(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	p.URL = displayURL(p.URL)

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(p)
}

func runProjectList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	database, store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	projects, err := store.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("listing projects: %w", err)
	}
	if len(projects) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No projects registered. Use `rtfd project create` to add one.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tLATEST\tLANGUAGES\tGSP\tPUBLIC\tREPO")
	for _, p := range projects {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%t\t%s\n",
			p.Name, p.Latest, strings.Join(p.Languages, ","), p.GSP, p.Public, repoName(p.URL))
	}
	return w.Flush()
}

func runProjectUpdate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	database, store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	p, err := store.Get(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("url") {
		rawurl, _ := cmd.Flags().GetString("url")
		public, err := project.CheckGitURL(rawurl)
		if err != nil {
			return fmt.Errorf("checking git url: %w", err)
		}
		rawurl = strings.TrimSuffix(rawurl, ".git")
		gsp, err := project.ServiceProvider(rawurl)
		if err != nil {
			return err
		}
		p.URL, p.GSP, p.Public = rawurl, gsp, public
	}
	if cmd.Flags().Changed("default-branch") {
		p.DefaultBranch, _ = cmd.Flags().GetString("default-branch")
	}
	if err := applyProjectFlags(cmd, p); err != nil {
		return err
	}
	if err := store.Update(cmd.Context(), p); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Project %q updated\n", p.Name)
	return nil
}

func runProjectRemove(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	database, store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	if err := store.Delete(cmd.Context(), args[0]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Project %q removed; built docs under %s are left in place\n", args[0], cfg.DocsDir())
	return nil
}

// applyProjectFlags copies the explicitly set flags onto p.
func applyProjectFlags(cmd *cobra.Command, p *project.Project) error {
	f := cmd.Flags()
	if f.Changed("latest") {
		p.Latest, _ = f.GetString("latest")
		p.Latest = strings.ToLower(p.Latest)
		if p.Latest == project.LatestBranch {
			return fmt.Errorf("--latest must name a branch, not %q", project.LatestBranch)
		}
	}
	if f.Changed("source-dir") {
		p.SourceDir, _ = f.GetString("source-dir")
	}
	if f.Changed("languages") {
		langs, _ := f.GetStringSlice("languages")
		if len(langs) == 0 {
			return fmt.Errorf("--languages must name at least one language")
		}
		p.Languages = langs
	}
	if f.Changed("single") {
		p.Single, _ = f.GetBool("single")
	}
	if f.Changed("show-nav") {
		p.ShowNav, _ = f.GetBool("show-nav")
	}
	if f.Changed("hide-git") {
		p.HideGit, _ = f.GetBool("hide-git")
	}
	if f.Changed("builder") {
		b, _ := f.GetString("builder")
		switch project.Builder(b) {
		case project.BuilderHTML, project.BuilderDirHTML, project.BuilderSingleHTML:
			p.Builder = project.Builder(b)
		default:
			return fmt.Errorf("invalid --builder %q: must be html, dirhtml or singlehtml", b)
		}
	}
	if f.Changed("domain") {
		p.CustomDomain, _ = f.GetString("domain")
		if p.CustomDomain != "" && !project.IsDomain(p.CustomDomain) {
			return fmt.Errorf("invalid --domain %q", p.CustomDomain)
		}
	}
	if f.Changed("icon") {
		p.Icon, _ = f.GetString("icon")
	}
	if f.Changed("secret") {
		p.Secret, _ = f.GetString("secret")
	}
	return nil
}

// displayURL strips credentials from a repository URL for output.
func displayURL(raw string) string {
	u, err := project.PublicURL(raw)
	if err != nil {
		return "(invalid url)"
	}
	return u
}

// repoName is the "owner/repo" of a repository URL.
func repoName(raw string) string {
	r, err := project.UserRepo(raw)
	if err != nil {
		return "(invalid url)"
	}
	return r
}
