// Package main is the entry point for the narrow CLI.
package main

import "narrow.dev/pkg/narrow/cmd"

func main() {
	cmd.Execute()
}
