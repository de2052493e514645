package psl

// Walk visits each distinct node reachable from root exactly once, children
// before parents, using an explicit stack so deep trees cannot exhaust the
// goroutine stack. Returning false from visit stops the walk.
func Walk(root *Node, visit func(*Node) bool) {
	if root == nil {
		return
	}
	type frame struct {
		n        *Node
		expanded bool
	}
	seen := make(map[*Node]struct{})
	stack := []frame{{n: root}}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _, ok := seen[top.n]; ok {
			continue
		}
		if top.expanded {
			seen[top.n] = struct{}{}
			if !visit(top.n) {
				return
			}
			continue
		}
		stack = append(stack, frame{n: top.n, expanded: true})
		if r := top.n.Right(); r != nil {
			stack = append(stack, frame{n: r})
		}
		if l := top.n.Left(); l != nil {
			stack = append(stack, frame{n: l})
		}
	}
}

// Depth is the height of the tree rooted at n; a leaf has depth 1.
func Depth(n *Node) int {
	depth := make(map[*Node]int)
	Walk(n, func(x *Node) bool {
		depth[x] = 1 + max(depth[x.Left()], depth[x.Right()])
		return true
	})
	return depth[n]
}

// Size counts distinct nodes reachable from n.
func Size(n *Node) int {
	size := 0
	Walk(n, func(*Node) bool {
		size++
		return true
	})
	return size
}

// Any reports whether some node reachable from n satisfies pred.
func Any(n *Node, pred func(*Node) bool) bool {
	found := false
	Walk(n, func(x *Node) bool {
		found = pred(x)
		return !found
	})
	return found
}

// CountOps counts the occurrences of nodes satisfying pred, counting shared
// subtrees once per reference.
func CountOps(n *Node, pred func(*Node) bool) int {
	count := make(map[*Node]int)
	Walk(n, func(x *Node) bool {
		c := count[x.Left()] + count[x.Right()]
		if pred(x) {
			c++
		}
		count[x] = c
		return true
	})
	return count[n]
}
