// Package main is the entry point for the livesync CLI.
package main

import "livesync.dev/pkg/livesync/cmd"

func main() {
	cmd.Execute()
}
