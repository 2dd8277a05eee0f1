// Package debug provides human-facing diagnostics for a dbvt.Tree: a
// Graphviz DOT export (grounded on this corpus's own cord-to-DOT exporter)
// and a colorized terminal health report. Nothing here is on any query
// path; it exists purely for inspection while developing against dbvt.
package debug

import (
	"fmt"
	"io"

	"dbvt"
)

// ToDot writes tree's current structure to w in Graphviz DOT format.
func ToDot(tree *dbvt.Tree, w io.Writer) {
	io.WriteString(w, "strict digraph {\n")
	io.WriteString(w, "\tnode [fontname=Arial,fontsize=12];\n")
	if tree.Root() == dbvt.NullHandle {
		io.WriteString(w, "}\n")
		return
	}
	nodelist, edgelist := "", ""
	writeDotNode(tree, tree.Root(), &nodelist, &edgelist)
	io.WriteString(w, nodelist)
	io.WriteString(w, edgelist)
	io.WriteString(w, "}\n")
}

func writeDotNode(tree *dbvt.Tree, h dbvt.NodeHandle, nodelist, edgelist *string) {
	bv := tree.BV(h)
	if tree.IsLeaf(h) {
		label := fmt.Sprintf("leaf %d\\n%.2f,%.2f,%.2f .. %.2f,%.2f,%.2f",
			int(h), bv.Min.X, bv.Min.Y, bv.Min.Z, bv.Max.X, bv.Max.Y, bv.Max.Z)
		*nodelist += fmt.Sprintf("\"%d\" [label=\"%s\",style=filled,shape=box];\n", h, label)
		return
	}
	label := fmt.Sprintf("h=%d\\nsize=%.1f", tree.Height(h), bv.Size())
	*nodelist += fmt.Sprintf("\"%d\" [label=\"%s\",style=filled,color=black,fillcolor=\"#a3d7e4\",shape=circle];\n", h, label)
	l, r := tree.Children(h)
	*edgelist += fmt.Sprintf("\"%d\" -> \"%d\";\n", h, l)
	*edgelist += fmt.Sprintf("\"%d\" -> \"%d\";\n", h, r)
	writeDotNode(tree, l, nodelist, edgelist)
	writeDotNode(tree, r, nodelist, edgelist)
}
