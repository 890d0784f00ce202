package taxonomy

// ToYAMLValue converts a StructureNode into the plain
// map[string]any / []string shape the CLI serializes to YAML: a category
// becomes a map from child name to child value, a leaf list becomes a
// plain string slice. This matches the original project's nested
// dict-of-dict-of-list convention (an Open Question this pipeline resolved
// in favor of preserving, since every downstream tool in that ecosystem
// expects it), rather than inventing a new wire shape.
func (n StructureNode) ToYAMLValue() any {
	if n.Kind == KindLeafList {
		return append([]string(nil), n.Leaves...)
	}
	out := make(map[string]any, len(n.Children))
	for name, child := range n.Children {
		out[name] = child.ToYAMLValue()
	}
	return out
}

// FromYAMLValue rebuilds a StructureNode tree from the generic shape
// ToYAMLValue produces (or an equivalent hand-authored YAML file: a mapping
// of category names to either nested mappings or string lists).
func FromYAMLValue(name string, value any) StructureNode {
	switch v := value.(type) {
	case []any:
		leaves := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				leaves = append(leaves, s)
			}
		}
		return NewLeafList(name, leaves)
	case []string:
		return NewLeafList(name, v)
	case map[string]any:
		node := NewCategory(name)
		for k, child := range v {
			node.Children[k] = FromYAMLValue(k, child)
		}
		return node
	case map[any]any:
		node := NewCategory(name)
		for k, child := range v {
			key, _ := k.(string)
			node.Children[key] = FromYAMLValue(key, child)
		}
		return node
	default:
		return NewLeafList(name, nil)
	}
}
