// Package main provides the warden CLI.
package main

import "github.com/mesh-intelligence/warden/internal/cli"

func main() {
	cli.Execute()
}
