package taxonomy

import "fmt"

// NodeKind discriminates the two shapes a StructureNode can take.
type NodeKind int

const (
	// KindCategory is an internal node: a named bucket with named children.
	KindCategory NodeKind = iota
	// KindLeafList is a terminal node: a named bucket holding a flat list of terms.
	KindLeafList
)

func (k NodeKind) String() string {
	switch k {
	case KindCategory:
		return "category"
	case KindLeafList:
		return "leaf_list"
	default:
		return "unknown"
	}
}

// StructureNode is the tagged union the pipeline builds, reshapes, and
// finally serializes: either a Category with named child nodes, or a
// LeafList holding the flat terms that were arranged or pruned into it.
//
// Annotations is a side channel from label to an instruction string (e.g. a
// generation hint derived from a concept's gloss); it travels with the node
// independent of Kind so any stage can attach guidance without forcing a
// shape change.
type StructureNode struct {
	Kind     NodeKind
	Name     string
	Children map[string]StructureNode // valid when Kind == KindCategory
	Leaves   []string                 // valid when Kind == KindLeafList

	Annotations map[string]string
}

// NewCategory builds an empty category node.
func NewCategory(name string) StructureNode {
	return StructureNode{Kind: KindCategory, Name: name, Children: map[string]StructureNode{}}
}

// NewLeafList builds a leaf-list node from the given terms.
func NewLeafList(name string, terms []string) StructureNode {
	return StructureNode{Kind: KindLeafList, Name: name, Leaves: append([]string(nil), terms...)}
}

// IsCategory reports whether the node is a category.
func (n StructureNode) IsCategory() bool { return n.Kind == KindCategory }

// IsLeafList reports whether the node is a leaf list.
func (n StructureNode) IsLeafList() bool { return n.Kind == KindLeafList }

// Annotate attaches an instruction string to a label on this node, creating
// the Annotations map on first use.
func (n *StructureNode) Annotate(label, instruction string) {
	if n.Annotations == nil {
		n.Annotations = map[string]string{}
	}
	n.Annotations[label] = instruction
}

// LeafCount returns the number of leaves directly under this node, or 0 for
// a category (use Walk to count recursively).
func (n StructureNode) LeafCount() int {
	if n.Kind != KindLeafList {
		return 0
	}
	return len(n.Leaves)
}

// Walk visits every node in the subtree rooted at n in pre-order, passing
// the path of category names from the root. Walk stops and returns the first
// non-nil error from visit.
func (n StructureNode) Walk(visit func(path []string, node StructureNode) error) error {
	return n.walk(nil, visit)
}

func (n StructureNode) walk(path []string, visit func(path []string, node StructureNode) error) error {
	if err := visit(path, n); err != nil {
		return err
	}
	if n.Kind != KindCategory {
		return nil
	}
	for name, child := range n.Children {
		if err := child.walk(append(append([]string(nil), path...), name), visit); err != nil {
			return fmt.Errorf("walking %q: %w", name, err)
		}
	}
	return nil
}
