package pivot

import "fmt"

// Node is one category at one level of an axis hierarchy.
// The root is a sentinel without header; siblings are unique by Name and keep
// first-seen order until Sort runs.
type Node struct {
	Name     string
	Value    interface{}
	Header   string
	Children []*Node

	// Length is the number of leaf lines under the node (1 for a leaf)
	Length int
	// Start and End delimit the node's [Start, End) span once Assign ran
	Start int
	End   int

	placed bool
	index  map[string]int
}

// NewTree returns an empty root
func NewTree() *Node {
	return &Node{Name: "root", Value: "root"}
}

// BuildTree groups rows into a hierarchy with one level per field
func BuildTree(rows []Row, fields []FieldRef) (*Node, error) {
	root := NewTree()
	for i, row := range rows {
		node := root
		for _, f := range fields {
			cell, err := row.At(f.Index)
			if err != nil {
				return nil, fmt.Errorf("row %d: %w", i, err)
			}
			node = node.insert(cell, f.Header)
		}
	}
	return root, nil
}

// insert finds or creates the child named after cell and returns it
func (n *Node) insert(cell CellValue, header string) *Node {
	if child, ok := n.Child(cell.Key()); ok {
		return child
	}
	child := &Node{
		Name:   cell.Key(),
		Value:  cell.SortValue(),
		Header: header,
	}
	if n.index == nil {
		n.index = make(map[string]int)
	}
	n.index[child.Name] = len(n.Children)
	n.Children = append(n.Children, child)
	return child
}

// Child returns the child with the given display name
func (n *Node) Child(name string) (*Node, bool) {
	i, ok := n.index[name]
	if !ok {
		return nil, false
	}
	return n.Children[i], true
}

// IsLeaf reports whether the node has no children
func (n *Node) IsLeaf() bool {
	return len(n.Children) == 0
}

// Placed reports whether Assign gave the node a span
func (n *Node) Placed() bool {
	return n.placed
}

// Measure computes Length for the node and every descendant and returns the node's length
func (n *Node) Measure() int {
	total := 0
	for _, child := range n.Children {
		total += child.Measure()
	}
	if total == 0 {
		total = 1
	}
	n.Length = total
	return total
}

// Assign lays the children out contiguously from offset, recursively.
// The node itself is not placed, only its descendants.
func (n *Node) Assign(offset int) {
	for _, child := range n.Children {
		child.Start = offset
		child.placed = true
		child.Assign(offset)
		offset += child.Length
		child.End = offset
	}
}

// Descend follows row down the tree along fields. A childless node matches
// itself, so trees shallower than the field list stop at their bottom.
func (n *Node) Descend(row Row, fields []FieldRef) (*Node, error) {
	node := n
	for _, f := range fields {
		if node.IsLeaf() {
			return node, nil
		}
		cell, err := row.At(f.Index)
		if err != nil {
			return nil, err
		}
		child, ok := node.Child(cell.Key())
		if !ok {
			return nil, fmt.Errorf("%w: %q under %q", ErrUnknownCategory, cell.Key(), node.Name)
		}
		node = child
	}
	return node, nil
}

// Headers returns the header of each level, following the first child down
func (n *Node) Headers() []string {
	var headers []string
	for node := n; !node.IsLeaf(); node = node.Children[0] {
		headers = append(headers, node.Children[0].Header)
	}
	return headers
}

// Walk visits every descendant depth-first, pre-order, with its depth (children of the root are depth 1)
func (n *Node) Walk(fn func(node *Node, depth int)) {
	n.walk(fn, 1)
}

func (n *Node) walk(fn func(node *Node, depth int), depth int) {
	for _, child := range n.Children {
		fn(child, depth)
		child.walk(fn, depth+1)
	}
}

// reindex rebuilds the name lookup after children were reordered
func (n *Node) reindex() {
	if n.index == nil {
		n.index = make(map[string]int, len(n.Children))
	}
	for i, child := range n.Children {
		n.index[child.Name] = i
	}
}
