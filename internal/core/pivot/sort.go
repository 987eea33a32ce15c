package pivot

import (
	"encoding/json"
	"sort"
	"strings"
)

// Sort reorders the children of every node with the directive of their header.
// All siblings share a header, so the first child's header picks the directive.
func (n *Node) Sort(rules SortRules) {
	if n.IsLeaf() {
		return
	}
	directive := rules.For(n.Children[0].Header)
	if directive.Kind == SortManual {
		n.Children = sortManual(n.Children, directive)
	} else {
		sortByValue(n.Children, directive.Descending)
	}
	n.reindex()

	for _, child := range n.Children {
		child.Sort(rules)
	}
}

// sortManual puts listed categories first in list order, then the rest by value
func sortManual(nodes []*Node, d SortDirective) []*Node {
	position := make(map[string]int, len(d.Order))
	for i, name := range d.Order {
		if _, seen := position[name]; !seen {
			position[name] = i
		}
	}

	listed := make([]*Node, 0, len(nodes))
	rest := make([]*Node, 0, len(nodes))
	for _, node := range nodes {
		if _, ok := position[node.Name]; ok {
			listed = append(listed, node)
		} else {
			rest = append(rest, node)
		}
	}

	sort.SliceStable(listed, func(i, j int) bool {
		return position[listed[i].Name] < position[listed[j].Name]
	})
	sortByValue(rest, d.Descending)

	return append(listed, rest...)
}

// sortByValue orders nodes by Value. Numbers compare numerically and strings
// case-insensitively; any mix of kinds compares every element by its upper-cased
// string form instead.
func sortByValue(nodes []*Node, descending bool) {
	if len(nodes) < 2 {
		return
	}

	keys := make([]sortKey, len(nodes))
	for i, node := range nodes {
		keys[i] = keyOf(node.Value)
	}

	kind := keys[0].kind
	for _, k := range keys[1:] {
		if k.kind != kind {
			kind = kindMixed
			break
		}
	}
	if kind == kindNone {
		// values that are all missing have no order
		kind = kindMixed
	}

	order := make([]int, len(nodes))
	for i := range order {
		order[i] = i
	}
	less := func(a, b sortKey) bool {
		switch kind {
		case kindNumber:
			return a.num < b.num
		case kindString:
			return a.str < b.str
		default:
			return a.fallback < b.fallback
		}
	}
	sort.SliceStable(order, func(i, j int) bool {
		a, b := keys[order[i]], keys[order[j]]
		if descending {
			return less(b, a)
		}
		return less(a, b)
	})

	sorted := make([]*Node, len(nodes))
	for i, idx := range order {
		sorted[i] = nodes[idx]
	}
	copy(nodes, sorted)
}

type keyKind int

const (
	kindNone keyKind = iota
	kindNumber
	kindString
	kindMixed
)

type sortKey struct {
	kind     keyKind
	num      float64
	str      string
	fallback string
}

func keyOf(v interface{}) sortKey {
	key := sortKey{fallback: strings.ToUpper(stringForm(v))}
	switch t := v.(type) {
	case nil:
		key.kind = kindNone
	case string:
		key.kind = kindString
		key.str = strings.ToUpper(t)
	case float64:
		key.kind, key.num = kindNumber, t
	case float32:
		key.kind, key.num = kindNumber, float64(t)
	case int:
		key.kind, key.num = kindNumber, float64(t)
	case int64:
		key.kind, key.num = kindNumber, float64(t)
	case bool:
		key.kind = kindNumber
		if t {
			key.num = 1
		}
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			key.kind = kindMixed
			break
		}
		key.kind, key.num = kindNumber, f
	default:
		key.kind = kindMixed
	}
	return key
}
