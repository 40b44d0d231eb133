package main

import "github.com/dmrub/jira-tools/cmd"

func main() {
	cmd.Execute()
}
