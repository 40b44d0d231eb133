package cmd

import (
	"fmt"
	"os"

	"github.com/dmrub/jira-tools/internal/config"
	"github.com/spf13/cobra"
)

var (
	atlassianDomain string
	cfgFile         string
	appConfig       config.Config
	version         = "0.1.0"
)

var rootCmd = &cobra.Command{
	Use:     "jira-tools",
	Short:   "Download and label Jira issues from the command line",
	Long:    `Tools for working with Jira issues over the REST API: export issues (with comments and attachments) into per-issue YAML or text files, and add or remove labels in bulk on issues selected by JQL query or explicit key.`,
	Version: version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&atlassianDomain, "atlassian-domain", "", "Atlassian domain to talk to (defaults to 'domain' from the DEFAULT section of the configuration file)")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config-file", "config.ini", "INI configuration file with Atlassian credentials")
}

// loadConfig loads and validates configuration. Commands that need API access call this.
func loadConfig() error {
	cfg, err := config.Load(cfgFile, atlassianDomain)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w\nRun 'jira-tools config' to set up credentials", err)
	}
	appConfig = cfg
	return nil
}
