package commands

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/patrickkwang/bmt-lite/errors"
	"github.com/patrickkwang/bmt-lite/sym"
)

// ElementCmd represents the element command
var ElementCmd = &cobra.Command{
	Use:   "element <name>",
	Short: sym.Element + " Show an element's properties",
	Long: sym.Element + ` element — Show an element's properties

Look up one element by name and print its flattened property document:
parent, subsets, external mappings, and any extra schema properties.

Element names are the human-readable Biolink names, so quote the
multi-word ones.

Examples:
  bmt element disease
  bmt element "chemical entity"
  bmt element affects --json`,
	Args: cobra.ExactArgs(1),
	RunE: runElement,
}

func runElement(cmd *cobra.Command, args []string) error {
	lm, err := loadToolkit(cmd)
	if err != nil {
		return err
	}

	name := args[0]
	el := lm.Toolkit.Element(name)
	if el == nil {
		return errors.NewNotFoundError("no element named %q", name)
	}

	doc := el.Document()
	if jsonOutput(cmd) {
		return printJSON(doc)
	}

	keys := make([]string, 0, len(doc))
	for k := range doc {
		if k == "name" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fmt.Printf("%s %s\n", sym.Element, el.Name)
	for _, k := range keys {
		fmt.Printf("  %-12s %v\n", k, doc[k])
	}
	return nil
}
