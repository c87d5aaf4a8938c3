package mdast

// WalkStatus controls traversal in Walk.
type WalkStatus int

const (
	// WalkContinue descends into children.
	WalkContinue WalkStatus = iota
	// WalkSkipChildren continues with the next sibling.
	WalkSkipChildren
	// WalkStop ends the traversal.
	WalkStop
)

// Walk visits n and its descendants in pre-order. Nil children are skipped.
func Walk(n *Node, fn func(*Node) WalkStatus) {
	walk(n, fn)
}

func walk(n *Node, fn func(*Node) WalkStatus) bool {
	if n == nil {
		return true
	}
	switch fn(n) {
	case WalkStop:
		return false
	case WalkSkipChildren:
		return true
	}
	for _, c := range n.Children {
		if !walk(c, fn) {
			return false
		}
	}
	return true
}
