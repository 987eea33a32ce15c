package pivot

import (
	"reflect"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/prop"
)

func buildOneLevel(t *testing.T, values ...interface{}) *Node {
	t.Helper()
	rows := make([]Row, len(values))
	for i, v := range values {
		rows[i] = row(v)
	}
	tree, err := BuildTree(rows, []FieldRef{{Index: 0, Header: "h"}})
	if err != nil {
		t.Fatalf("BuildTree failed: %v", err)
	}
	return tree
}

func TestSortAutomatic(t *testing.T) {
	tests := []struct {
		name       string
		values     []interface{}
		descending bool
		expected   []string
	}{
		{"numbers ascending", []interface{}{10.0, 2.0, 33.0}, false, []string{"2", "10", "33"}},
		{"numbers descending", []interface{}{10.0, 2.0, 33.0}, true, []string{"33", "10", "2"}},
		{"strings ignore case", []interface{}{"banana", "Apple", "cherry"}, false, []string{"Apple", "banana", "cherry"}},
		{"mixed falls back to strings", []interface{}{10.0, "b", 9.0}, false, []string{"10", "9", "b"}},
		{"single element", []interface{}{"only"}, true, []string{"only"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := buildOneLevel(t, tt.values...)
			tree.Sort(SortRules{"h": Automatic(tt.descending)})
			if got := names(tree.Children); !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestSortNullCategoryAmongLabels(t *testing.T) {
	rows := []Row{
		{cv("banana")},
		{{Value: nil, Formatted: "Null"}},
		{cv("apple")},
		{cv("zebra")},
	}
	tree, err := BuildTree(rows, []FieldRef{{Index: 0, Header: "h"}})
	if err != nil {
		t.Fatalf("BuildTree failed: %v", err)
	}

	tree.Sort(SortRules{"h": Automatic(false)})
	expected := []string{"apple", "banana", "Null", "zebra"}
	if got := names(tree.Children); !reflect.DeepEqual(got, expected) {
		t.Errorf("Expected %v, got %v", expected, got)
	}

	tree.Sort(SortRules{"h": Automatic(true)})
	expected = []string{"zebra", "Null", "banana", "apple"}
	if got := names(tree.Children); !reflect.DeepEqual(got, expected) {
		t.Errorf("Expected %v, got %v", expected, got)
	}
}

func TestSortManualIsStrictPrefix(t *testing.T) {
	tree := buildOneLevel(t, "A", "C", "B")
	tree.Sort(SortRules{"h": Manual([]string{"B", "A"}, false)})
	if got := names(tree.Children); !reflect.DeepEqual(got, []string{"B", "A", "C"}) {
		t.Errorf("Expected [B A C], got %v", got)
	}

	tree = buildOneLevel(t, "A", "D", "C", "B")
	tree.Sort(SortRules{"h": Manual([]string{"B", "Missing", "A"}, true)})
	if got := names(tree.Children); !reflect.DeepEqual(got, []string{"B", "A", "D", "C"}) {
		t.Errorf("Expected [B A D C], got %v", got)
	}
}

func TestSortMissingRuleDefaultsToReverse(t *testing.T) {
	tree := buildOneLevel(t, "a", "c", "b")
	tree.Sort(nil)
	if got := names(tree.Children); !reflect.DeepEqual(got, []string{"c", "b", "a"}) {
		t.Errorf("Expected [c b a], got %v", got)
	}
}

func TestSortKeepsLookupInSync(t *testing.T) {
	tree := buildOneLevel(t, "b", "a")
	tree.Sort(SortRules{"h": Automatic(false)})
	a, ok := tree.Child("a")
	if !ok || tree.Children[0] != a {
		t.Error("Expected lookup to follow the sorted order")
	}
}

func TestSortAppliesPerLevel(t *testing.T) {
	rows := []Row{row("x", "2"), row("y", "1"), row("x", "1")}
	tree, _ := BuildTree(rows, []FieldRef{{Index: 0, Header: "outer"}, {Index: 1, Header: "inner"}})
	tree.Sort(SortRules{"outer": Automatic(true), "inner": Automatic(false)})

	if got := names(tree.Children); !reflect.DeepEqual(got, []string{"y", "x"}) {
		t.Errorf("Expected outer [y x], got %v", got)
	}
	x, _ := tree.Child("x")
	if got := names(x.Children); !reflect.DeepEqual(got, []string{"1", "2"}) {
		t.Errorf("Expected inner [1 2], got %v", got)
	}
}

type spanSnapshot struct {
	Name       string
	Start, End int
	Children   []spanSnapshot
}

func snapshot(n *Node) []spanSnapshot {
	out := make([]spanSnapshot, len(n.Children))
	for i, c := range n.Children {
		out[i] = spanSnapshot{Name: c.Name, Start: c.Start, End: c.End, Children: snapshot(c)}
	}
	return out
}

func TestPropertyPipelineIsIdempotent(t *testing.T) {
	properties := gopter.NewProperties(nil)
	rules := SortRules{"h0": Automatic(false), "h1": Manual([]string{"c", "a"}, true), "h2": Automatic(true)}

	run := func(rows []Row) []spanSnapshot {
		tree, _ := BuildTree(rows, threeFields)
		tree.Measure()
		tree.Sort(rules)
		tree.Assign(3)
		return snapshot(tree)
	}

	properties.Property("same unsorted input yields the same placed tree", prop.ForAll(
		func(rows []Row) bool {
			return reflect.DeepEqual(run(rows), run(rows))
		},
		genRows(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
