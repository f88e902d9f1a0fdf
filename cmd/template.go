package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/weekrep/weekrep/internal/logging"
	"github.com/weekrep/weekrep/internal/template"
)

var templateCmd = &cobra.Command{
	Use:   "template",
	Short: "Manage report templates",
	Long: `Manage the report templates that drive report generation.

Templates are owned per user. The "Default" template is materialized
automatically on first use and is protected: it cannot be deleted or renamed.
A template marked shared is readable (but never writable) by every user.`,
}

var templateListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the user's templates, including shared ones",
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, err := cmd.Flags().GetString("user")
		if err != nil {
			return err
		}
		includeShared, err := cmd.Flags().GetBool("shared")
		if err != nil {
			return err
		}

		store, err := openTemplateStore()
		if err != nil {
			return err
		}

		return printJSON(store.TemplatesForUser(userID, includeShared))
	},
}

var templateShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one template by id",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, err := cmd.Flags().GetString("user")
		if err != nil {
			return err
		}

		store, err := openTemplateStore()
		if err != nil {
			return err
		}

		tpl := store.Template(args[0], userID)
		if tpl == nil {
			return fmt.Errorf("template %q not found", args[0])
		}
		return printJSON(tpl)
	},
}

var templateCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a template seeded from the built-in configuration",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, err := cmd.Flags().GetString("user")
		if err != nil {
			return err
		}
		description, err := cmd.Flags().GetString("description")
		if err != nil {
			return err
		}
		shared, err := cmd.Flags().GetBool("share")
		if err != nil {
			return err
		}

		store, err := openTemplateStore()
		if err != nil {
			return err
		}

		tpl, err := store.Create(userID, args[0], description, shared,
			template.DefaultFieldMapping(), template.DefaultIssueSelection())
		if err != nil {
			return err
		}

		logging.Info("created template", "id", tpl.ID, "name", tpl.Name)
		return printJSON(tpl)
	},
}

var templateDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a template the user owns",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, err := cmd.Flags().GetString("user")
		if err != nil {
			return err
		}

		store, err := openTemplateStore()
		if err != nil {
			return err
		}

		deleted, err := store.Delete(args[0], userID)
		if err != nil {
			return err
		}
		if !deleted {
			return fmt.Errorf("template %q was not deleted (not found, not owned, or protected)", args[0])
		}

		logging.Info("deleted template", "id", args[0])
		return nil
	},
}

var templateCloneCmd = &cobra.Command{
	Use:   "clone <id>",
	Short: "Clone a readable template into one the user owns",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, err := cmd.Flags().GetString("user")
		if err != nil {
			return err
		}
		name, err := cmd.Flags().GetString("name")
		if err != nil {
			return err
		}

		store, err := openTemplateStore()
		if err != nil {
			return err
		}

		clone, err := store.Clone(args[0], userID, name)
		if err != nil {
			return err
		}
		if clone == nil {
			return fmt.Errorf("template %q not found", args[0])
		}

		logging.Info("cloned template", "source", args[0], "id", clone.ID)
		return printJSON(clone)
	},
}

var templateDefaultCmd = &cobra.Command{
	Use:   "default",
	Short: "Show the user's Default template, creating it if needed",
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, err := cmd.Flags().GetString("user")
		if err != nil {
			return err
		}

		store, err := openTemplateStore()
		if err != nil {
			return err
		}

		tpl, err := store.DefaultTemplate(userID)
		if err != nil {
			return err
		}
		return printJSON(tpl)
	},
}

func init() {
	rootCmd.AddCommand(templateCmd)
	templateCmd.AddCommand(templateListCmd)
	templateCmd.AddCommand(templateShowCmd)
	templateCmd.AddCommand(templateCreateCmd)
	templateCmd.AddCommand(templateDeleteCmd)
	templateCmd.AddCommand(templateCloneCmd)
	templateCmd.AddCommand(templateDefaultCmd)

	templateListCmd.Flags().Bool("shared", true, "Include templates shared by other users")
	templateCreateCmd.Flags().StringP("description", "d", "", "Template description")
	templateCreateCmd.Flags().Bool("share", false, "Make the template readable by every user")
	templateCloneCmd.Flags().StringP("name", "n", "", "Name for the clone (defaults to 'Copy of <source>')")
}

func printJSON(v any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
