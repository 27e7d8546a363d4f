package unittest

import (
	"encoding/json"

	"github.com/giantswarm/microerror"
	admissionv1 "k8s.io/api/admission/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/types"
)

// DefaultAdmissionRequest returns a CREATE request for obj. An empty kind
// leaves request.kind unset.
func DefaultAdmissionRequest(uid types.UID, kind string, obj interface{}) (admissionv1.AdmissionRequest, error) {
	byt, err := json.Marshal(obj)
	if err != nil {
		return admissionv1.AdmissionRequest{}, microerror.Mask(err)
	}

	req := admissionv1.AdmissionRequest{
		UID: uid,
		Kind: metav1.GroupVersionKind{
			Kind: kind,
		},
		Operation: admissionv1.Create,
		Object: runtime.RawExtension{
			Raw: byt,
		},
	}

	return req, nil
}

// AdmissionReview returns the JSON body the API server would POST for req.
func AdmissionReview(req admissionv1.AdmissionRequest) ([]byte, error) {
	review := admissionv1.AdmissionReview{
		TypeMeta: metav1.TypeMeta{
			Kind:       "AdmissionReview",
			APIVersion: "admission.k8s.io/v1",
		},
		Request: &req,
	}

	byt, err := json.Marshal(review)
	if err != nil {
		return nil, microerror.Mask(err)
	}

	return byt, nil
}
