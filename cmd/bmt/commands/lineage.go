package commands

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/pterm/pterm/putils"
	"github.com/spf13/cobra"

	"github.com/patrickkwang/bmt-lite/sym"
)

// ParentCmd represents the parent command
var ParentCmd = &cobra.Command{
	Use:   "parent <name>",
	Short: sym.Lineage + " Show the parent of an element",
	Long: sym.Lineage + ` parent — Show the parent of an element

Roots report themselves as roots; unknown names get a warning, not an
error, so scripted pipelines stay unbroken.`,
	Args: cobra.ExactArgs(1),
	RunE: runParent,
}

// ChildrenCmd represents the children command
var ChildrenCmd = &cobra.Command{
	Use:   "children <name>",
	Short: sym.Lineage + " List the direct children of an element",
	Long: sym.Lineage + ` children — List the direct children of an element

Children are sorted by name. An element with no children prints
nothing.`,
	Args: cobra.ExactArgs(1),
	RunE: runChildren,
}

// AncestorsCmd represents the ancestors command
var AncestorsCmd = &cobra.Command{
	Use:   "ancestors <name>",
	Short: sym.Lineage + " Walk the ancestor chain of an element",
	Long: sym.Lineage + ` ancestors — Walk the ancestor chain of an element

Prints the chain nearest first, one per line. With --tree the chain is
rendered root-down with the element at the bottom.

Examples:
  bmt ancestors regulates
  bmt ancestors disease --tree`,
	Args: cobra.ExactArgs(1),
	RunE: runAncestors,
}

// DescendantsCmd represents the descendants command
var DescendantsCmd = &cobra.Command{
	Use:   "descendants <name>",
	Short: sym.Lineage + " List the subtree below an element",
	Long: sym.Lineage + ` descendants — List the subtree below an element

Prints the subtree in depth-first order with children visited
alphabetically, one name per line.`,
	Args: cobra.ExactArgs(1),
	RunE: runDescendants,
}

// LineageCmd represents the lineage command
var LineageCmd = &cobra.Command{
	Use:   "lineage <name>",
	Short: sym.Lineage + " Show ancestors, the element, and descendants together",
	Args:  cobra.ExactArgs(1),
	RunE:  runLineage,
}

// RootsCmd represents the roots command
var RootsCmd = &cobra.Command{
	Use:   "roots",
	Short: sym.Root + " List the roots of the taxonomy forest",
	Args:  cobra.NoArgs,
	RunE:  runRoots,
}

var ancestorsTree bool

func init() {
	AncestorsCmd.Flags().BoolVar(&ancestorsTree, "tree", false, "Render the chain as a tree from the root down")
}

func runParent(cmd *cobra.Command, args []string) error {
	lm, err := loadToolkit(cmd)
	if err != nil {
		return err
	}

	name := args[0]
	parent, defined := lm.Toolkit.Parent(name)

	if jsonOutput(cmd) {
		return printJSON(map[string]any{
			"name":    name,
			"parent":  parent,
			"defined": defined,
		})
	}

	if !defined {
		pterm.Warning.Printf("No element named %q\n", name)
		return nil
	}
	if parent == "" {
		fmt.Printf("%s %s is a root\n", sym.Root, name)
		return nil
	}
	fmt.Println(parent)
	return nil
}

func runChildren(cmd *cobra.Command, args []string) error {
	lm, err := loadToolkit(cmd)
	if err != nil {
		return err
	}

	name := args[0]
	children := lm.Toolkit.Children(name)

	if jsonOutput(cmd) {
		return printJSON(map[string]any{"name": name, "children": children})
	}

	printNames(children)
	return nil
}

func runAncestors(cmd *cobra.Command, args []string) error {
	lm, err := loadToolkit(cmd)
	if err != nil {
		return err
	}

	name := args[0]
	ancestors := lm.Toolkit.Ancestors(name)

	if jsonOutput(cmd) {
		return printJSON(map[string]any{"name": name, "ancestors": ancestors})
	}

	if ancestorsTree {
		return renderAncestorTree(name, ancestors)
	}

	printNames(ancestors)
	return nil
}

// renderAncestorTree draws the chain root-down with the queried element
// as the deepest node
func renderAncestorTree(name string, ancestors []string) error {
	chain := make([]string, 0, len(ancestors)+1)
	for i := len(ancestors) - 1; i >= 0; i-- {
		chain = append(chain, ancestors[i])
	}
	chain = append(chain, name)

	items := make(pterm.LeveledList, 0, len(chain))
	for level, text := range chain {
		items = append(items, pterm.LeveledListItem{Level: level, Text: text})
	}

	root := putils.TreeFromLeveledList(items)
	return pterm.DefaultTree.WithRoot(root).Render()
}

func runDescendants(cmd *cobra.Command, args []string) error {
	lm, err := loadToolkit(cmd)
	if err != nil {
		return err
	}

	name := args[0]
	descendants := lm.Toolkit.Descendants(name)

	if jsonOutput(cmd) {
		return printJSON(map[string]any{"name": name, "descendants": descendants})
	}

	printNames(descendants)
	return nil
}

func runLineage(cmd *cobra.Command, args []string) error {
	lm, err := loadToolkit(cmd)
	if err != nil {
		return err
	}

	name := args[0]
	lineage := lm.Toolkit.Lineage(name)

	if jsonOutput(cmd) {
		return printJSON(map[string]any{"name": name, "lineage": lineage})
	}

	if lineage == nil {
		pterm.Warning.Printf("No element named %q\n", name)
		return nil
	}

	for _, entry := range lineage {
		if entry == name {
			fmt.Printf("%s %s\n", sym.Element, entry)
			continue
		}
		fmt.Println(entry)
	}
	return nil
}

func runRoots(cmd *cobra.Command, args []string) error {
	lm, err := loadToolkit(cmd)
	if err != nil {
		return err
	}

	roots := lm.Toolkit.Roots()

	if jsonOutput(cmd) {
		return printJSON(map[string]any{"roots": roots})
	}

	printNames(roots)
	return nil
}
