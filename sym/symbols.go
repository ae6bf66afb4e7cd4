// Package sym defines the canonical glyphs used across the bmt CLI and
// server banners. These symbols are stable across CLI help text, terminal
// output, and documentation.
package sym

// Command glyphs — one per top-level surface.
const (
	Model   = "⬡" // model — schema acquisition and identity
	Element = "◆" // element — single-node lookups
	Lineage = "⟁" // lineage — parent/children/ancestors/descendants
	Mapping = "⇌" // mapping — external identifier resolution
	Serve   = "⇅" // serve — HTTP/WebSocket query service
	Config  = "≡" // config — configuration and cascade
	Root    = "⊤" // root group of the taxonomy forest
)

// entry binds a glyph to its command and description.
type entry struct {
	glyph       string
	command     string
	description string
}

// registry is the canonical mapping between glyphs and command metadata.
var registry = []entry{
	{Model, "model", "Schema acquisition and identity"},
	{Element, "element", "Single-element lookups"},
	{Lineage, "ancestors", "Hierarchy traversal"},
	{Mapping, "resolve", "External identifier resolution"},
	{Serve, "serve", "HTTP/WebSocket query service"},
	{Config, "config", "Configuration and cascade"},
	{Root, "roots", "Root group of the forest"},
}

// Lookup tables built from the registry at init time.
var (
	glyphToCommand map[string]string
	commandToGlyph map[string]string
)

func init() {
	glyphToCommand = make(map[string]string, len(registry))
	commandToGlyph = make(map[string]string, len(registry))
	for _, e := range registry {
		glyphToCommand[e.glyph] = e.command
		commandToGlyph[e.command] = e.glyph
	}
}

// Command returns the text command for a glyph, or "" when unknown.
func Command(glyph string) string {
	return glyphToCommand[glyph]
}

// ForCommand returns the glyph for a text command, or "" when unknown.
func ForCommand(command string) string {
	return commandToGlyph[command]
}

// Describe returns the description registered for a glyph, or "".
func Describe(glyph string) string {
	for _, e := range registry {
		if e.glyph == glyph {
			return e.description
		}
	}
	return ""
}
