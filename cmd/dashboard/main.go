// Package main provides the entrypoint for the kidwatch dashboard CLI.
package main

import "github.com/kidwatch/kidwatch/internal/cli"

func main() {
	cli.Execute()
}
