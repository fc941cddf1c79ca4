package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/memoria-dev/memoria/internal/cli"
)

func init() {
	godotenv.Load()
}

func main() {
	if err := cli.RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
