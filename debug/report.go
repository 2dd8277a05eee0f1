package debug

import (
	"fmt"
	"io"
	"math"

	"dbvt"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// Report summarizes a tree's balance health to w: leaf count, height,
// the ideal balanced height (log2 n), and the gap between them that
// Manager.Setup uses to pick a rebalance strategy. Output is colorized
// when w is a terminal and plain otherwise, following this corpus's own
// TTY-detection convention.
func Report(tree *dbvt.Tree, w io.Writer) {
	n := tree.Size()
	height := tree.MaxHeight()
	ideal := 0
	if n > 0 {
		ideal = int(math.Log2(float64(n)))
	}
	gap := height - ideal

	tty := false
	if f, ok := w.(interface{ Fd() uintptr }); ok {
		tty = term.IsTerminal(int(f.Fd()))
	}

	good := color.New(color.FgGreen)
	warn := color.New(color.FgYellow)
	bad := color.New(color.FgRed)
	plain := color.New(color.Reset)
	if !tty {
		good, warn, bad, plain = plain, plain, plain, plain
	}

	fmt.Fprintf(w, "leaves:       %d\n", n)
	fmt.Fprintf(w, "height:       %d\n", height)
	fmt.Fprintf(w, "ideal height: %d\n", ideal)

	switch {
	case gap <= 2:
		good.Fprintf(w, "balance gap:  %d (good)\n", gap)
	case gap <= 10:
		warn.Fprintf(w, "balance gap:  %d (elevated)\n", gap)
	default:
		bad.Fprintf(w, "balance gap:  %d (rebalance recommended)\n", gap)
	}
}
