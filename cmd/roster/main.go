package main

import (
	"os"

	"github.com/wonny/roster/cmd/roster/commands"
)

// main is the entry point for the roster CLI
// ⭐ 통합 CLI 진입점: go run ./cmd/roster [command]
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
