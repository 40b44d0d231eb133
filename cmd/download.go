package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dmrub/jira-tools/internal/jira"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	destDir             string
	downloadJQL         string
	outputFormat        string
	downloadAttachments bool
)

var downloadCmd = &cobra.Command{
	Use:   "download",
	Short: "Download Jira issues into per-issue files",
	Long: `Downloads all issues matching a JQL query and writes one file per issue
(<KEY>.yaml or <KEY>.txt) into the destination directory. With
--download-attachments, attachments are stored under <dest-dir>/<KEY>/.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(); err != nil {
			return err
		}
		if outputFormat != "yaml" && outputFormat != "text" {
			return fmt.Errorf("unsupported output format %q (expected yaml or text)", outputFormat)
		}

		jql := downloadJQL
		if jql == "" {
			jql = appConfig.JQL
		}
		if jql == "" {
			return fmt.Errorf("no JQL query specified (use --jql or set 'jql' in the DEFAULT section of the configuration file)")
		}

		fmt.Printf("Atlassian domain: %s\n", appConfig.Domain)
		fmt.Printf("Atlassian user: %s\n", appConfig.User)
		fmt.Printf("Output issues to the directory: %s\n", destDir)
		fmt.Printf("Output format: %s\n", outputFormat)
		fmt.Printf("JQL: %s\n", jql)

		if err := os.MkdirAll(destDir, 0755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}

		client := jira.NewClient("https://"+appConfig.Domain, appConfig.User, appConfig.APIToken)

		numIssues := 0
		iter := client.SearchIssues(jql, "*all")
		for iter.Next() {
			if err := writeIssue(client, iter.Issue()); err != nil {
				return err
			}
			numIssues++
		}
		if err := iter.Err(); err != nil {
			return fmt.Errorf("searching issues: %w", err)
		}

		fmt.Printf("Downloaded %d issues\n", numIssues)
		return nil
	},
}

// writeIssue serializes one issue to <dest-dir>/<KEY>.<ext> and optionally
// downloads its attachments.
func writeIssue(client *jira.Client, issue jira.Issue) error {
	if cl := issue.Comments(); cl != nil && cl.Total() != cl.Len() {
		fmt.Printf("Need to download comments: total = %d, have = %d\n", cl.Total(), cl.Len())
	}

	browseURL := fmt.Sprintf("https://%s/browse/%s", appConfig.Domain, issue.Key())

	switch outputFormat {
	case "yaml":
		path := filepath.Join(destDir, issue.Key()+".yaml")
		fmt.Printf("issue %s -> %s\n", issue.Key(), path)
		doc := issue.Struct()
		if issue.Key() != "" {
			doc["browse_url"] = browseURL
		}
		data, err := yaml.Marshal(doc)
		if err != nil {
			return fmt.Errorf("marshalling issue %s: %w", issue.Key(), err)
		}
		if err := os.WriteFile(path, data, 0644); err != nil {
			return fmt.Errorf("writing file: %w", err)
		}
	case "text":
		path := filepath.Join(destDir, issue.Key()+".txt")
		fmt.Printf("issue %s -> %s\n", issue.Key(), path)
		content := "Link: " + browseURL + "\n" + issue.Text()
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			return fmt.Errorf("writing file: %w", err)
		}
	}

	if downloadAttachments {
		attachments := issue.Attachments()
		if len(attachments) == 0 {
			return nil
		}
		issueDir := filepath.Join(destDir, issue.Key())
		if err := os.MkdirAll(issueDir, 0755); err != nil {
			return fmt.Errorf("creating attachment directory: %w", err)
		}
		for _, a := range attachments {
			if a.ContentURL() == "" || a.Filename() == "" {
				continue
			}
			dest := filepath.Join(issueDir, filepath.Base(a.Filename()))
			if err := client.DownloadFile(a.ContentURL(), dest); err != nil {
				return fmt.Errorf("downloading attachment %s of %s: %w", a.Filename(), issue.Key(), err)
			}
		}
	}

	return nil
}

func init() {
	downloadCmd.Flags().StringVar(&destDir, "dest-dir", "issues", "output directory where the issues will be saved")
	downloadCmd.Flags().StringVar(&downloadJQL, "jql", "", "JQL query to find issues (defaults to 'jql' from the DEFAULT section of the configuration file)")
	downloadCmd.Flags().StringVarP(&outputFormat, "format", "f", "text", "output format (yaml or text)")
	downloadCmd.Flags().BoolVarP(&downloadAttachments, "download-attachments", "d", false, "download and store attachments")
	rootCmd.AddCommand(downloadCmd)
}
