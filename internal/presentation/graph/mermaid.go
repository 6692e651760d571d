// Package graph renders the screen stack as a Mermaid flowchart.
package graph

import (
	"fmt"
	"strings"
)

// Overlay marks dynamic state on the graph.
type Overlay struct {
	// Effects lists running effect IDs, attached to the top screen.
	Effects []string
}

// GenerateMermaid produces a flowchart with one subgraph per container, root
// container first. Pushes are solid arrows inside a container and a
// presentation is a dotted arrow from the presenting screen into the next
// container. The top screen is styled as current.
func GenerateMermaid(levels [][]string, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph LR\n")

	prev := ""
	current := ""
	for i, screens := range levels {
		if len(screens) == 0 {
			continue
		}
		kind := "pushed"
		if i > 0 {
			kind = "presented"
		}
		fmt.Fprintf(&sb, "    subgraph level%d[\"%s %d\"]\n", i, kind, i)
		for j, title := range screens {
			id := screenID(i, j)
			fmt.Fprintf(&sb, "        %s[\"%s\"]\n", id, escape(title))
			if j > 0 {
				fmt.Fprintf(&sb, "        %s --> %s\n", screenID(i, j-1), id)
			}
			current = id
		}
		sb.WriteString("    end\n")
		if prev != "" {
			fmt.Fprintf(&sb, "    %s -. present .-> %s\n", prev, screenID(i, 0))
		}
		prev = current
	}

	if current == "" {
		return sb.String()
	}

	if overlay != nil {
		for k, e := range overlay.Effects {
			fmt.Fprintf(&sb, "    effect%d((\"⏱️ %s\"))\n", k, escape(e))
			fmt.Fprintf(&sb, "    %s -.- effect%d\n", current, k)
		}
	}

	sb.WriteString("\n    %% Overlay Styles\n")
	sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")
	fmt.Fprintf(&sb, "    class %s current;\n", current)
	return sb.String()
}

func screenID(level, index int) string {
	return fmt.Sprintf("s%d_%d", level, index)
}

func escape(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}
