package sexy

import "fmt"

// Match structurally compares a pattern node against an actual node.
// Ellipsis in the pattern is a wildcard: in an item position it matches
// any single node, and as the final item of a list or array it matches
// all remaining items. Returns nil on match, or an error naming the path
// of the first mismatch.
func Match(pattern, actual *Node) error {
	return match(pattern, actual, "root")
}

func match(pattern, actual *Node, path string) error {
	if pattern == nil && actual == nil {
		return nil
	}
	if pattern == nil {
		return fmt.Errorf("at %s: expected nothing, got %s", path, actual.String())
	}
	if actual == nil {
		return fmt.Errorf("at %s: expected %s, got nothing", path, pattern.String())
	}

	if pattern.Type == NodeEllipsis {
		return nil
	}

	if pattern.Type != actual.Type {
		return fmt.Errorf("at %s: expected %s, got %s", path, pattern.String(), actual.String())
	}

	switch pattern.Type {
	case NodeSymbol, NodeString, NodeInteger:
		if pattern.Text != actual.Text {
			return fmt.Errorf("at %s: expected %s, got %s", path, pattern.String(), actual.String())
		}
		return nil
	case NodeList, NodeArray:
		return matchItems(pattern, actual, path)
	default:
		return fmt.Errorf("at %s: unsupported pattern node type %d", path, pattern.Type)
	}
}

func matchItems(pattern, actual *Node, path string) error {
	expected := pattern.Items
	got := actual.Items

	// A trailing ellipsis swallows the rest of the actual items.
	trailing := len(expected) > 0 && expected[len(expected)-1].Type == NodeEllipsis
	if trailing {
		expected = expected[:len(expected)-1]
		if len(got) < len(expected) {
			return fmt.Errorf("at %s: expected at least %d items, got %d", path, len(expected), len(got))
		}
		got = got[:len(expected)]
	} else if len(expected) != len(got) {
		return fmt.Errorf("at %s: expected %d items, got %d", path, len(expected), len(got))
	}

	for i := range expected {
		itemPath := fmt.Sprintf("%s[%d]", path, i)
		if len(expected[i].Items) > 0 || expected[i].Type == NodeList || expected[i].Type == NodeArray {
			// Use the list head for a more readable path when available.
			if len(expected[i].Items) > 0 && expected[i].Items[0].Type == NodeSymbol {
				itemPath = path + "." + expected[i].Items[0].Text
			}
		}
		if err := match(expected[i], got[i], itemPath); err != nil {
			return err
		}
	}
	return nil
}
