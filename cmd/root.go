package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command for the mcp-google-sheets application
var rootCmd = &cobra.Command{
	Use:   "mcp-google-sheets",
	Short: "MCP server for Google Sheets and Google Drive",
	Long: `mcp-google-sheets is a Model Context Protocol (MCP) server that lets
AI assistants read, write and manage Google Spreadsheets.

It resolves Google credentials automatically from service accounts,
application default credentials or an interactive OAuth flow, and
exposes the spreadsheet operations as MCP tools over stdio or HTTP.`,
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
	rootCmd.SetVersionTemplate(`{{printf "mcp-google-sheets version %s\n" .Version}}`)

	// If no subcommand is provided, run the serve command by default
	if len(os.Args) == 1 {
		os.Args = append(os.Args, "serve")
	}

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newGenerateDocsCmd())
}
