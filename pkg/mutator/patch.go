package mutator

import (
	"strings"
)

const (
	opAdd = "add"
)

// PatchOperation is a single RFC 6902 JSON Patch operation.
type PatchOperation struct {
	Operation string      `json:"op"`
	Path      string      `json:"path"`
	Value     interface{} `json:"value"`
}

// PatchAdd returns an add operation for the given JSON Pointer. The path must
// already be escaped, see JoinPointer.
func PatchAdd(path string, value interface{}) PatchOperation {
	return PatchOperation{
		Operation: opAdd,
		Path:      path,
		Value:     value,
	}
}

var pointerEscaper = strings.NewReplacer("~", "~0", "/", "~1")

// EscapePointerSegment escapes a single reference token as defined by RFC
// 6901. "~" is encoded before "/" so that "~1" in the input survives a round
// trip.
func EscapePointerSegment(segment string) string {
	return pointerEscaper.Replace(segment)
}

// JoinPointer builds a JSON Pointer from unescaped reference tokens, e.g.
// JoinPointer("metadata", "annotations", "example.com/key") returns
// "/metadata/annotations/example.com~1key".
func JoinPointer(segments ...string) string {
	var b strings.Builder
	for _, s := range segments {
		b.WriteString("/")
		b.WriteString(EscapePointerSegment(s))
	}

	return b.String()
}
