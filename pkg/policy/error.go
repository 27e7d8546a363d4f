package policy

import (
	"github.com/giantswarm/microerror"
)

var invalidPolicyError = &microerror.Error{
	Kind: "invalidPolicyError",
}

// IsInvalidPolicy asserts invalidPolicyError.
func IsInvalidPolicy(err error) bool {
	return microerror.Cause(err) == invalidPolicyError
}
