// Package main provides the CLI entry point for AskLens.
package main

import "github.com/asklens-labs/asklens/internal/cli"

func main() {
	cli.Execute()
}
