package idcodec

import "strings"

// FormatNodeID renders a single-key node element ID: "Label:id".
func FormatNodeID(label, id string) string {
	return label + ":" + id
}

// FormatCompositeNodeID renders a composite-key node element ID:
// "Label:k1|k2".
func FormatCompositeNodeID(label string, keys []string) string {
	return label + ":" + strings.Join(keys, "|")
}

// FormatEdgeID renders an edge element ID: "Type:from_id->to_id".
func FormatEdgeID(relType, fromID, toID string) string {
	return relType + ":" + fromID + "->" + toID
}

// ParseNodeID splits a node element ID back into its label and key parts
// (one element for a single key, several for a composite key).
func ParseNodeID(s string) (label string, keys []string, ok bool) {
	label, rest, found := strings.Cut(s, ":")
	if !found {
		return "", nil, false
	}
	return label, strings.Split(rest, "|"), true
}

// ParseEdgeID splits an edge element ID back into its relationship type and
// endpoint ids.
func ParseEdgeID(s string) (relType, fromID, toID string, ok bool) {
	relType, rest, found := strings.Cut(s, ":")
	if !found {
		return "", "", "", false
	}
	fromID, toID, found = strings.Cut(rest, "->")
	if !found {
		return "", "", "", false
	}
	return relType, fromID, toID, true
}
