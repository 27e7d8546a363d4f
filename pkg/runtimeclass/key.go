package runtimeclass

const (
	// Name of the mutator in this package.
	Name = "runtimeclass"
)

const (
	runtimeClassField = "runtimeClassName"
)

// Reasons reported with every decision.
const (
	ReasonAlreadySet        = "already_set"
	ReasonExcludedNamespace = "excluded_namespace"
	ReasonLabelMismatch     = "label_mismatch"
	ReasonMutated           = "mutated"
	ReasonOperation         = "operation"
)
