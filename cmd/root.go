package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "weekrep",
	Short: "Weekrep turns Jira issue hierarchies into weekly status reports",
	Long: `Weekrep fetches a parent Jira issue and its children and produces a
weekly status report plus timesheet aggregates, driven by a user-configurable
template that maps issue fields onto the report columns.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Available to all commands: templates are owned per user.
	rootCmd.PersistentFlags().StringP("user", "u", "", "User id owning the report templates")
}
