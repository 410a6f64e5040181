package store

import "strings"

// Document is a loosely shaped record: scalar values, Timestamps, and nested
// maps addressed by dotted field paths ("participants.<id>.disabled").
type Document map[string]any

func splitPath(path string) []string {
	return strings.Split(path, ".")
}

// setField writes value at the dotted path, creating intermediate maps as
// needed. A non-map value found along the way is replaced by a map, matching
// merge-write semantics of document stores.
func setField(doc Document, path string, value any) {
	segs := splitPath(path)
	node := map[string]any(doc)
	for _, seg := range segs[:len(segs)-1] {
		child, ok := node[seg].(map[string]any)
		if !ok {
			child = make(map[string]any)
			node[seg] = child
		}
		node = child
	}
	node[segs[len(segs)-1]] = value
}

// deleteField removes the dotted path if present. Missing intermediate nodes
// make the delete a no-op.
func deleteField(doc Document, path string) {
	segs := splitPath(path)
	node := map[string]any(doc)
	for _, seg := range segs[:len(segs)-1] {
		child, ok := node[seg].(map[string]any)
		if !ok {
			return
		}
		node = child
	}
	delete(node, segs[len(segs)-1])
}

// getField returns the value at the dotted path, or ok=false.
func getField(doc Document, path string) (any, bool) {
	segs := splitPath(path)
	node := map[string]any(doc)
	for _, seg := range segs[:len(segs)-1] {
		child, ok := node[seg].(map[string]any)
		if !ok {
			return nil, false
		}
		node = child
	}
	v, ok := node[segs[len(segs)-1]]
	return v, ok
}

// copyDocument deep-copies the nested map structure so subscribers can never
// observe or mutate the store's live document. Leaf values are immutable
// (scalars and Timestamps) and are shared.
func copyDocument(doc Document) Document {
	return Document(copyNode(doc))
}

func copyNode(node map[string]any) map[string]any {
	out := make(map[string]any, len(node))
	for k, v := range node {
		if child, ok := v.(map[string]any); ok {
			out[k] = copyNode(child)
			continue
		}
		out[k] = v
	}
	return out
}
