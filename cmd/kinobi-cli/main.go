package main

import "github.com/dukerupert/kinobi/cmd/kinobi-cli/cmd"

func main() {
	cmd.Execute()
}
