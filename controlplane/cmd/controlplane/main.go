package main

import (
	"os"

	"github.com/joho/godotenv"

	"vpnaas/controlplane/internal/cli"
)

func main() {
	_ = godotenv.Load("controlplane/.env")
	_ = godotenv.Load(".env")

	if err := cli.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
