// Package cmd provides the command-line interface for the weekrep tool.
package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/weekrep/weekrep/internal/config"
	"github.com/weekrep/weekrep/internal/jira"
	"github.com/weekrep/weekrep/internal/logging"
	"github.com/weekrep/weekrep/internal/report"
	"github.com/weekrep/weekrep/internal/template"
	"github.com/weekrep/weekrep/pkg/models"
)

// reportPayload is the combined response shape consumers receive.
type reportPayload struct {
	Report    []models.ReportRow      `json:"report"`
	Timesheet models.TimesheetSummary `json:"timesheet"`
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Generate a weekly status report for a parent issue",
	Long: `Generate a weekly status report and timesheet for a parent Jira issue
and its direct children.

The report is driven by a template: the template's field mapping decides which
issue fields become the category, initiative and item columns, and how
multi-valued fields are rendered. Without --template the user's "Default"
template is used, materialized from the built-in configuration on first use.

Example:
  weekrep report --parent KAN-1 --user alice --template "Platform weekly"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		parentKey, err := cmd.Flags().GetString("parent")
		if err != nil {
			return err
		}
		if parentKey == "" {
			return fmt.Errorf("parent flag is required")
		}

		templateName, err := cmd.Flags().GetString("template")
		if err != nil {
			return err
		}

		userID, err := cmd.Flags().GetString("user")
		if err != nil {
			return err
		}

		store, err := openTemplateStore()
		if err != nil {
			return err
		}

		tpl, err := findTemplate(store, userID, templateName)
		if err != nil {
			return err
		}

		jiraClient, err := jira.NewClient()
		if err != nil {
			return fmt.Errorf("failed to initialize jira client: %v", err)
		}

		logging.Info("generating report",
			"parent", parentKey,
			"template", tpl.Name,
			"user", userID)

		parent, err := jiraClient.FetchIssue(parentKey)
		if err != nil {
			return err
		}
		children, err := jiraClient.FetchChildren(parentKey)
		if err != nil {
			return err
		}

		logging.Info("fetched issues",
			"parent", parentKey,
			"child_count", len(children))

		payload := reportPayload{
			Report:    report.Generate(children, tpl),
			Timesheet: report.Timesheet(parent, children),
		}

		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(payload)
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.Flags().StringP("parent", "p", "", "Parent issue key (e.g. 'KAN-1')")
	reportCmd.Flags().StringP("template", "t", "", "Template name (defaults to the user's \"Default\" template)")
}

// openTemplateStore builds the template store over the configured JSON file.
func openTemplateStore() (*template.Store, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %v", err)
	}

	path := cfg.Templates.File
	if path == "" {
		path, err = template.DefaultPath()
		if err != nil {
			return nil, err
		}
	}

	return template.NewStore(template.NewFileRepository(path))
}

// findTemplate resolves a template by name for the user. An empty name means
// the user's Default template.
func findTemplate(store *template.Store, userID, name string) (models.ReportTemplate, error) {
	if name == "" || name == template.DefaultTemplateName {
		return store.DefaultTemplate(userID)
	}

	for _, tpl := range store.TemplatesForUser(userID, true) {
		if tpl.Name == name {
			return tpl, nil
		}
	}
	return models.ReportTemplate{}, fmt.Errorf("no template named %q for user %q", name, userID)
}
