package cmd

import (
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/dmrub/jira-tools/internal/jira"
	"github.com/spf13/cobra"
)

var (
	labelsDryRun bool
	labelsJQL    string
	issueKeys    []string
	addLabels    []string
	removeLabels []string
)

var editLabelsCmd = &cobra.Command{
	Use:   "edit-labels",
	Short: "Add and remove labels on Jira issues in bulk",
	Long: `Adds and/or removes labels on issues selected by explicit key (--key) and/or
JQL query (--jql). An issue is updated only when its label set actually
changes. With --dry-run every computation and log line still happens, but no
update is sent.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(); err != nil {
			return err
		}

		if labelsJQL != "" {
			fmt.Printf("JQL: %s\n", labelsJQL)
		} else {
			fmt.Println("No JQL specified")
		}
		if len(issueKeys) > 0 {
			fmt.Printf("Jira keys: %s\n", strings.Join(issueKeys, ", "))
		} else {
			fmt.Println("No Jira keys specified")
		}
		if len(addLabels) > 0 {
			fmt.Printf("Add labels: %s\n", strings.Join(addLabels, ", "))
		} else {
			fmt.Println("There are no labels to add")
		}
		if len(removeLabels) > 0 {
			fmt.Printf("Remove labels: %s\n", strings.Join(removeLabels, ", "))
		} else {
			fmt.Println("There are no labels to remove")
		}

		if len(addLabels) == 0 && len(removeLabels) == 0 {
			return fmt.Errorf("no labels specified for adding and/or removing")
		}

		editor := &labelEditor{
			client: jira.NewClient("https://"+appConfig.Domain, appConfig.User, appConfig.APIToken),
			add:    addLabels,
			remove: removeLabels,
			dryRun: labelsDryRun,
			out:    os.Stdout,
		}

		for _, key := range issueKeys {
			rec, err := editor.client.GetIssue(key, "labels")
			if err != nil {
				return fmt.Errorf("fetching issue %s: %w", key, err)
			}
			if err := editor.editOne(jira.NewIssue(rec)); err != nil {
				return err
			}
		}

		if labelsJQL != "" {
			iter := editor.client.SearchIssues(labelsJQL, "labels")
			for iter.Next() {
				if err := editor.editOne(iter.Issue()); err != nil {
					return err
				}
			}
			if err := iter.Err(); err != nil {
				return fmt.Errorf("searching issues: %w", err)
			}
		}

		fmt.Printf("Processed %d issue(s)\n", editor.numIssues)
		if labelsDryRun {
			fmt.Printf("DRY RUN: I would have updated %d issue(s)\n", editor.numUpdated)
		} else {
			fmt.Printf("Updated %d issue(s)\n", editor.numUpdated)
		}
		return nil
	},
}

// labelEditor applies one add/remove edit across a sequence of issues and
// tracks how many it saw and how many it updated (or would update).
type labelEditor struct {
	client     *jira.Client
	add        []string
	remove     []string
	dryRun     bool
	out        io.Writer
	numIssues  int
	numUpdated int
}

// editOne computes the label edit for a single issue and sends the update
// when the net label set changed. A label added and removed in the same run
// cancels out; that is logged but sends nothing.
func (e *labelEditor) editOne(issue jira.Issue) error {
	e.numIssues++
	key := issue.Key()
	oldLabels := issue.Labels().Strings()
	newLabels, added, removed := jira.EditLabels(oldLabels, e.add, e.remove)
	for _, l := range added {
		fmt.Fprintf(e.out, "Add label %q to the issue %s\n", l, key)
	}
	for _, l := range removed {
		fmt.Fprintf(e.out, "Remove label %q from the issue %s\n", l, key)
	}
	if slices.Equal(newLabels, oldLabels) {
		return nil
	}
	e.numUpdated++
	if e.dryRun {
		fmt.Fprintf(e.out, "DRY RUN: I would update issue %s with labels: %s\n", key, strings.Join(newLabels, ", "))
		return nil
	}
	fmt.Fprintf(e.out, "Update issue %s with labels: %s\n", key, strings.Join(newLabels, ", "))
	if err := e.client.UpdateIssueFields(key, map[string]any{"labels": newLabels}); err != nil {
		return fmt.Errorf("updating issue %s: %w", key, err)
	}
	return nil
}

func init() {
	editLabelsCmd.Flags().BoolVarP(&labelsDryRun, "dry-run", "n", false, "perform a trial run with no changes made")
	editLabelsCmd.Flags().StringVar(&labelsJQL, "jql", "", "JQL query to find issues")
	editLabelsCmd.Flags().StringArrayVar(&issueKeys, "key", nil, "Jira issue key (repeatable)")
	editLabelsCmd.Flags().StringArrayVar(&addLabels, "add", nil, "label to add (repeatable)")
	editLabelsCmd.Flags().StringArrayVar(&removeLabels, "remove", nil, "label to remove (repeatable)")
	rootCmd.AddCommand(editLabelsCmd)
}
