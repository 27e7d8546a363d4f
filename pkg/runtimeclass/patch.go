package runtimeclass

import (
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"

	"github.com/giantswarm/runtimeclass-admission-controller/pkg/mutator"
)

// patches returns the runtime class operation followed by the configured
// annotations in key order. Annotations already present on the object are
// left untouched.
func (m *Mutator) patches(req Request) []mutator.PatchOperation {
	result := []mutator.PatchOperation{
		mutator.PatchAdd(PatchPathFor(req.Kind), m.runtimeClass),
	}

	if len(m.annotationKeys) == 0 {
		return result
	}

	existing, found, err := unstructured.NestedMap(req.Object.Object, "metadata", "annotations")
	if err != nil || !found {
		// JSON Patch cannot add below a missing parent, so create the
		// whole map in one operation.
		annotations := make(map[string]string, len(m.annotations))
		for _, k := range m.annotationKeys {
			annotations[k] = m.annotations[k]
		}

		if _, ok := req.Object.Object["metadata"]; !ok {
			return append(result, mutator.PatchAdd(mutator.JoinPointer("metadata"), map[string]interface{}{
				"annotations": annotations,
			}))
		}

		return append(result, mutator.PatchAdd(mutator.JoinPointer("metadata", "annotations"), annotations))
	}

	for _, k := range m.annotationKeys {
		if _, ok := existing[k]; ok {
			continue
		}
		result = append(result, mutator.PatchAdd(mutator.JoinPointer("metadata", "annotations", k), m.annotations[k]))
	}

	return result
}
