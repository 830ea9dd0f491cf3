package tiler

import (
	"fmt"
	"strings"

	"github.com/forktile/forktile/internal/entity"
)

// Display renders an indented dump of the subtree rooted at root. It is a
// diagnostic aid only; nothing in the engine depends on its shape.
func (t *Tiler) Display(root entity.Handle) string {
	var sb strings.Builder
	t.displayFork(&sb, root, 0)
	return sb.String()
}

func (t *Tiler) displayFork(sb *strings.Builder, h entity.Handle, depth int) {
	indent := strings.Repeat("  ", depth)
	fork, ok := t.forks.Get(h)
	if !ok {
		fmt.Fprintf(sb, "%sFork(%d) <missing>\n", indent, h)
		return
	}
	fmt.Fprintf(sb, "%sFork(%d) %s ratio=%.2f %s", indent, h, fork.Area.String(), fork.Ratio, fork.Orientation)
	if fork.IsToplevel {
		fmt.Fprintf(sb, " toplevel(%d:%d)", fork.Workspace.Monitor, fork.Workspace.Workspace)
	}
	sb.WriteString(" {\n")
	t.displayNode(sb, fork.Left, depth+1)
	if fork.Right != nil {
		t.displayNode(sb, *fork.Right, depth+1)
	}
	fmt.Fprintf(sb, "%s}\n", indent)
}

func (t *Tiler) displayNode(sb *strings.Builder, n Node, depth int) {
	switch n.Kind {
	case NodeWindow:
		fmt.Fprintf(sb, "%sWindow(%d)\n", strings.Repeat("  ", depth), n.Entity)
	default:
		t.displayFork(sb, n.Entity, depth)
	}
}
