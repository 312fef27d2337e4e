package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command for the mailsift application
var rootCmd = &cobra.Command{
	Use:   "mailsift",
	Short: "Fetches Gmail messages and classifies them with Gemini",
	Long: `mailsift retrieves recent messages from a Gmail inbox and sorts them
into inbox categories (Important, Promotions, Social, Marketing, Spam,
General) using the Gemini model.

It can run as:
  - A standalone CLI tool (default)
  - An HTTP API server
  - An MCP (Model Context Protocol) server for AI assistants`,
	SilenceUsage: true,
}

// version will be set by main
var version = "dev"

// SetVersion sets the version for the root command
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "mailsift version %s\n" .Version}}`)

	// If no subcommand is provided, run the classify command by default
	if len(os.Args) == 1 {
		os.Args = append(os.Args, "classify")
	}

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the mailsift version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("mailsift version %s\n", version)
		},
	}
}

func init() {
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newFetchCmd())
	rootCmd.AddCommand(newClassifyCmd())
	rootCmd.AddCommand(newAuthCmd())
	rootCmd.AddCommand(newKeyCmd())
	rootCmd.AddCommand(newVersionCmd())
}
