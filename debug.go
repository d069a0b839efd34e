package willowvr

import (
	"fmt"
	"os"
	"time"
)

// debugLogResolve prints one resolution cycle's stats to stderr.
func (rt *Runtime) debugLogResolve(elapsed time.Duration, res Resolution) {
	if !rt.debug {
		return
	}
	target := "<none>"
	if res.FirstHit != nil && res.FirstHit.Node != nil {
		target = fmt.Sprintf("%q (ID %d) at %.3f", res.FirstHit.Node.Name, res.FirstHit.Node.ID, res.FirstHit.Distance)
	}
	_, _ = fmt.Fprintf(os.Stderr,
		"[willowvr] resolve: %v | hits: %d | surface walks: %d (empty %d) | target: %s\n",
		elapsed, res.Hits, res.SurfaceWalks, res.EmptySurfaceWalks, target)
}

// debugLogFrame prints one frame's stats to stderr.
func (rt *Runtime) debugLogFrame(elapsed time.Duration, surfaces, failures int) {
	if !rt.debug {
		return
	}
	_, _ = fmt.Fprintf(os.Stderr,
		"[willowvr] frame: %v | surfaces: %d | render failures: %d\n",
		elapsed, surfaces, failures)
}

// debugCheckDisposed panics with a descriptive message when a disposed node is
// used in a tree operation. Only called in debug mode.
func debugCheckDisposed(n *Node, op string) {
	if n.disposed {
		panic(fmt.Sprintf("willowvr debug: %s on disposed node %q (ID was %d)", op, n.Name, n.ID))
	}
}

// debugCheckTreeDepth warns on stderr if tree depth exceeds the threshold.
const debugMaxTreeDepth = 32

func debugCheckTreeDepth(n *Node) {
	depth := 0
	for p := n; p != nil; p = p.Parent {
		depth++
	}
	if depth > debugMaxTreeDepth {
		_, _ = fmt.Fprintf(os.Stderr, "[willowvr] warning: tree depth %d exceeds %d (node %q)\n",
			depth, debugMaxTreeDepth, n.Name)
	}
}

// debugCheckChildCount warns on stderr if a node has more than 1000 children.
const debugMaxChildCount = 1000

func debugCheckChildCount(n *Node) {
	if len(n.children) > debugMaxChildCount {
		_, _ = fmt.Fprintf(os.Stderr, "[willowvr] warning: node %q has %d children (threshold %d)\n",
			n.Name, len(n.children), debugMaxChildCount)
	}
}
