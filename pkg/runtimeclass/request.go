package runtimeclass

import (
	"bytes"

	"github.com/giantswarm/microerror"
	admissionv1 "k8s.io/api/admission/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/types"
	utiljson "k8s.io/apimachinery/pkg/util/json"

	"github.com/giantswarm/runtimeclass-admission-controller/pkg/key"
	"github.com/giantswarm/runtimeclass-admission-controller/pkg/mutator"
)

// Request is the part of an admission request the decision is made on.
type Request struct {
	UID       types.UID
	Kind      string
	Operation admissionv1.Operation

	Name         string
	GenerateName string
	Namespace    string
	Labels       map[string]string

	Object *unstructured.Unstructured
}

// NewRequest validates the admission request. The object and its
// metadata.namespace are required. Errors are matched by
// mutator.IsMalformedRequest.
func NewRequest(request *admissionv1.AdmissionRequest) (Request, error) {
	if request == nil {
		return Request{}, microerror.Maskf(mutator.MalformedRequestError, "admission request must not be empty")
	}
	if request.UID == "" {
		return Request{}, microerror.Maskf(mutator.MalformedRequestError, "admission request uid must not be empty")
	}

	raw := bytes.TrimSpace(request.Object.Raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return Request{}, microerror.Maskf(mutator.MalformedRequestError, "admission request object must not be empty")
	}

	obj := &unstructured.Unstructured{}
	err := utiljson.Unmarshal(raw, &obj.Object)
	if err != nil {
		return Request{}, microerror.Maskf(mutator.MalformedRequestError, "admission request object must be a JSON object: %s", err)
	}

	namespace := obj.GetNamespace()
	if namespace == "" {
		return Request{}, microerror.Maskf(mutator.MalformedRequestError, "admission request object namespace must not be empty")
	}

	r := Request{
		UID:       request.UID,
		Kind:      request.Kind.Kind,
		Operation: request.Operation,

		Name:         obj.GetName(),
		GenerateName: obj.GetGenerateName(),
		Namespace:    namespace,
		Labels:       key.Labels(obj),

		Object: obj,
	}

	return r, nil
}

// DisplayName is the name used in logs, it never influences the decision.
func (r Request) DisplayName() string {
	return key.DisplayName(r.Object)
}
