package commands

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/patrickkwang/bmt-lite/sym"
)

// ResolveCmd represents the resolve command
var ResolveCmd = &cobra.Command{
	Use:   "resolve <identifier>",
	Short: sym.Mapping + " Resolve an external identifier to one element",
	Long: sym.Mapping + ` resolve — Resolve an external identifier to one element

When several elements claim the same identifier, resolution picks the
single element their lineages agree on. Identifiers nobody claims, or
claims that share no lineage, report as unresolved.

Examples:
  bmt resolve RO:0002410
  bmt resolve SEMMEDDB:CAUSES --json`,
	Args: cobra.ExactArgs(1),
	RunE: runResolve,
}

// LookupCmd represents the lookup command
var LookupCmd = &cobra.Command{
	Use:   "lookup <identifier>",
	Short: sym.Mapping + " List every element claiming an external identifier",
	Long: sym.Mapping + ` lookup — List every element claiming an external identifier

Unlike resolve, lookup does not reconcile competing claims; it lists
all claimants sorted by name.`,
	Args: cobra.ExactArgs(1),
	RunE: runLookup,
}

func runResolve(cmd *cobra.Command, args []string) error {
	lm, err := loadToolkit(cmd)
	if err != nil {
		return err
	}

	identifier := args[0]
	element, resolved := lm.Toolkit.ResolveMapping(identifier)

	if jsonOutput(cmd) {
		return printJSON(map[string]any{
			"identifier": identifier,
			"element":    element,
			"resolved":   resolved,
		})
	}

	if !resolved {
		pterm.Warning.Printf("%q does not resolve to any element\n", identifier)
		return nil
	}
	fmt.Println(element)
	return nil
}

func runLookup(cmd *cobra.Command, args []string) error {
	lm, err := loadToolkit(cmd)
	if err != nil {
		return err
	}

	identifier := args[0]
	elements := lm.Toolkit.ElementsByMapping(identifier)

	if jsonOutput(cmd) {
		return printJSON(map[string]any{
			"identifier": identifier,
			"elements":   elements,
		})
	}

	if len(elements) == 0 {
		pterm.Warning.Printf("No element claims %q\n", identifier)
		return nil
	}
	printNames(elements)
	return nil
}
