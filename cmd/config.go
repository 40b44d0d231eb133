package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/dmrub/jira-tools/internal/config"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configure Atlassian connection settings",
	Long:  `Interactively set up the Atlassian domain, user, and API token. Settings are written to the INI configuration file; sections for other domains are left untouched.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		reader := bufio.NewReader(os.Stdin)

		// Load existing config for defaults
		existing, _ := config.Load(cfgFile, atlassianDomain)

		domain := existing.Domain
		if domain != "" {
			fmt.Printf("Atlassian domain [%s]: ", domain)
		} else {
			fmt.Print("Atlassian domain (e.g., your-org.atlassian.net): ")
		}
		input, _ := reader.ReadString('\n')
		if input = strings.TrimSpace(input); input != "" {
			domain = input
		}

		user := existing.User
		if user != "" {
			fmt.Printf("User [%s]: ", user)
		} else {
			fmt.Print("User (email): ")
		}
		input, _ = reader.ReadString('\n')
		if input = strings.TrimSpace(input); input != "" {
			user = input
		}

		fmt.Print("API Token (input hidden): ")
		tokenBytes, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Println() // newline after hidden input
		if err != nil {
			return fmt.Errorf("reading token: %w", err)
		}
		token := strings.TrimSpace(string(tokenBytes))
		if token == "" {
			token = existing.APIToken
		}

		jql := existing.JQL
		if jql != "" {
			fmt.Printf("Default JQL query [%s]: ", jql)
		} else {
			fmt.Print("Default JQL query (optional): ")
		}
		input, _ = reader.ReadString('\n')
		if input = strings.TrimSpace(input); input != "" {
			jql = input
		}

		cfg := config.Config{
			Domain:   domain,
			User:     user,
			APIToken: token,
			JQL:      jql,
		}

		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}

		if err := config.Save(cfg, cfgFile); err != nil {
			return err
		}

		fmt.Printf("Configuration saved to %s\n", cfgFile)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}
