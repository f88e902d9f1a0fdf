// Package config provides centralized configuration management for the application.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration parameters for the application.
type Config struct {
	Jira      JiraConfig
	Templates TemplatesConfig
}

// JiraConfig holds JIRA specific configuration.
type JiraConfig struct {
	URL      string
	Username string
	Token    string

	// AuthMethod selects the Jira authentication scheme: "basic" (default)
	// or "bearer" for personal access tokens.
	AuthMethod string
}

// TemplatesConfig holds report template store configuration.
type TemplatesConfig struct {
	// File is the path of the JSON template store; empty means the default
	// location under the user's home directory.
	File string
}

// LoadConfig initializes and loads configuration from environment variables.
func LoadConfig() (*Config, error) {
	// Initialize Viper for environment variables
	v := viper.New()
	v.SetEnvPrefix("")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Map specific environment variables
	v.BindEnv("jira.url", "JIRA_URL")
	v.BindEnv("jira.username", "JIRA_USERNAME")
	v.BindEnv("jira.token", "JIRA_TOKEN")
	v.BindEnv("jira.authmethod", "JIRA_AUTH_METHOD")
	v.BindEnv("templates.file", "WEEKREP_TEMPLATE_FILE")

	v.SetDefault("jira.authmethod", "basic")

	config := &Config{
		Jira: JiraConfig{
			URL:        v.GetString("jira.url"),
			Username:   v.GetString("jira.username"),
			Token:      v.GetString("jira.token"),
			AuthMethod: strings.ToLower(v.GetString("jira.authmethod")),
		},
		Templates: TemplatesConfig{
			File: v.GetString("templates.file"),
		},
	}

	return config, nil
}

// ValidateJiraConfig ensures the Jira connection settings are complete.
// Username is only required for basic auth; a bearer token stands alone.
func ValidateJiraConfig(config *Config) error {
	var missingVars []string

	if config.Jira.URL == "" {
		missingVars = append(missingVars, "JIRA_URL")
	}
	if config.Jira.Username == "" && config.Jira.AuthMethod != "bearer" {
		missingVars = append(missingVars, "JIRA_USERNAME")
	}
	if config.Jira.Token == "" {
		missingVars = append(missingVars, "JIRA_TOKEN")
	}

	if len(missingVars) > 0 {
		return fmt.Errorf("missing required environment variables: %v", missingVars)
	}

	return nil
}
