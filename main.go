package main

import "github.com/insightx/insightx-cli/cmd"

func main() {
	cmd.Execute()
}
