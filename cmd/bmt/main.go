package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/patrickkwang/bmt-lite/cmd/bmt/commands"
	"github.com/patrickkwang/bmt-lite/logger"
)

var rootCmd = &cobra.Command{
	Use:   "bmt",
	Short: "bmt - Biolink model hierarchy toolkit",
	Long: `bmt — Hierarchy queries over the Biolink model.

Load a schema document, walk element lineage, resolve external
identifiers, and serve the index over HTTP, WebSocket, and MCP.

Available commands:
  element     - Show an element's properties
  parent      - Show the parent of an element
  children    - List the direct children of an element
  ancestors   - Walk the ancestor chain of an element
  descendants - List the subtree below an element
  lineage     - Show ancestors, the element, and descendants together
  roots       - List the roots of the taxonomy forest
  resolve     - Resolve an external identifier to one element
  lookup      - List every element claiming an external identifier
  model       - Fetch, inspect, and pin schema documents
  serve       - Start the HTTP/WebSocket query server
  mcp         - Serve queries over the Model Context Protocol (stdio)
  config      - Manage configuration

Examples:
  bmt element "chemical entity"       # Show one element
  bmt ancestors disease --tree        # Render the chain as a tree
  bmt resolve RO:0002410              # Resolve a CURIE
  bmt model fetch latest              # Download the newest release
  bmt serve                           # Start the query server`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Initialize global logger before any command runs. Skipped for
		// config show so its output stays cleanly parseable.
		if cmd.Name() != "show" {
			verbosity, _ := cmd.Flags().GetCount("verbose")
			if err := logger.Initialize(false, verbosity); err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
		}
		return nil
	},
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().CountP("verbose", "v", "Increase output verbosity (repeat for more detail: -v, -vv, -vvv)")
	rootCmd.PersistentFlags().String("model", "", "Path to a schema YAML file (overrides config)")
	rootCmd.PersistentFlags().Bool("json", false, "Emit JSON instead of human-readable output")

	// Add commands
	rootCmd.AddCommand(commands.ElementCmd)
	rootCmd.AddCommand(commands.ParentCmd)
	rootCmd.AddCommand(commands.ChildrenCmd)
	rootCmd.AddCommand(commands.AncestorsCmd)
	rootCmd.AddCommand(commands.DescendantsCmd)
	rootCmd.AddCommand(commands.LineageCmd)
	rootCmd.AddCommand(commands.RootsCmd)
	rootCmd.AddCommand(commands.ResolveCmd)
	rootCmd.AddCommand(commands.LookupCmd)
	rootCmd.AddCommand(commands.ModelCmd)
	rootCmd.AddCommand(commands.ServeCmd)
	rootCmd.AddCommand(commands.MCPCmd)
	rootCmd.AddCommand(commands.ConfigCmd)
	rootCmd.AddCommand(commands.VersionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
