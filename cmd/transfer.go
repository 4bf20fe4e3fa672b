package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rtfdocs/rtfd/internal/project"
)

var projectTransferCmd = &cobra.Command{
	Use:     "transfer [name]",
	Aliases: []string{"t"},
	Short:   "Export or import a project as a base64 string",
	Long: `Export a project's settings as a base64 string on one rtfd instance and
import it on another, or import it locally under a new name to copy it.

  rtfd project transfer -e <name>
  rtfd project transfer -i <base64> [new-name]

The webhook secret is not exported.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runProjectTransfer,
}

func init() {
	projectTransferCmd.Flags().BoolP("export", "e", false, "export the named project")
	projectTransferCmd.Flags().StringP("import", "i", "", "import a project from an export string")
	projectTransferCmd.Flags().BoolP("import-debug", "d", false, "print the decoded export instead of importing")
	projectCmd.AddCommand(projectTransferCmd)
}

func runProjectTransfer(cmd *cobra.Command, args []string) error {
	export, _ := cmd.Flags().GetBool("export")
	encoded, _ := cmd.Flags().GetString("import")
	debug, _ := cmd.Flags().GetBool("import-debug")
	if export == (encoded != "") {
		return errors.New("use exactly one of --export or --import")
	}

	if debug {
		data, err := project.DecodeExport(encoded)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	database, store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	if export {
		if len(args) == 0 {
			return errors.New("--export needs a project name")
		}
		p, err := store.Get(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		out, err := project.Export(p)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), out)
		return nil
	}

	rename := ""
	if len(args) > 0 {
		rename = args[0]
	}
	p, err := project.Import(encoded, rename)
	if err != nil {
		return err
	}
	if err := store.Create(cmd.Context(), p); err != nil {
		if errors.Is(err, project.ErrExists) {
			return fmt.Errorf("project %q already exists; import it under a new name: rtfd project transfer -i <base64> <name>", p.Name)
		}
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Project %q imported\n", p.Name)
	return nil
}
