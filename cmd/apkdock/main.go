package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/apkdock/apkdock/internal/cli"
	"github.com/apkdock/apkdock/internal/domain"
)

func main() {
	// Load a local .env if present; ignored when absent
	godotenv.Load()

	if err := cli.Execute(); err != nil {
		os.Exit(domain.GetExitCode(err))
	}
}
