package mutator

import (
	"github.com/giantswarm/microerror"
)

var invalidConfigError = &microerror.Error{
	Kind: "invalidConfigError",
}

// IsInvalidConfig asserts invalidConfigError.
func IsInvalidConfig(err error) bool {
	return microerror.Cause(err) == invalidConfigError
}

// MalformedRequestError is returned by mutators, masked, when the admission
// request lacks the fields they need. The handler answers it with 400.
var MalformedRequestError = &microerror.Error{
	Kind: "malformedRequestError",
}

// IsMalformedRequest asserts MalformedRequestError.
func IsMalformedRequest(err error) bool {
	return microerror.Cause(err) == MalformedRequestError
}
