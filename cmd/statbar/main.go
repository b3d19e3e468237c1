// Package main is the entrypoint for statbar.
// statbar prints one system metric per line for terminal status bars.
package main

import "github.com/tutu-network/statbar/internal/cli"

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	cli.Execute(version)
}
