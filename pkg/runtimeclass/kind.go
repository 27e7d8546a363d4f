package runtimeclass

import (
	"github.com/giantswarm/runtimeclass-admission-controller/pkg/mutator"
)

// podTemplateKinds embed a pod template at spec.template.
var podTemplateKinds = map[string]struct{}{
	"DaemonSet":   {},
	"Deployment":  {},
	"ReplicaSet":  {},
	"StatefulSet": {},
}

// PatchPathFor returns the JSON Pointer receiving the runtime class for
// objects of the given kind. Unknown and empty kinds are treated as pods.
func PatchPathFor(kind string) string {
	return mutator.JoinPointer(runtimeClassFields(kind)...)
}

func runtimeClassFields(kind string) []string {
	if _, ok := podTemplateKinds[kind]; ok {
		return []string{"spec", "template", "spec", runtimeClassField}
	}

	return []string{"spec", runtimeClassField}
}
