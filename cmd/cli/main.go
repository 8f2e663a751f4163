package main

import (
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/tkoskim/breachpoint/cmd/cli/content"
	"github.com/tkoskim/breachpoint/internal/errors"
)

func init() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	rootCmd.AddGroup(content.Group)
	rootCmd.AddCommand(content.Validate)
}

var rootCmd = &cobra.Command{
	Use:  "breachpoint-cli",
	Long: `Command line utilities for the Breachpoint incident investigation server`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func main() {
	Execute()
}
