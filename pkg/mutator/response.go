package mutator

import (
	"encoding/json"

	"github.com/giantswarm/microerror"
	admissionv1 "k8s.io/api/admission/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/types"
)

const (
	admissionReviewAPIVersion = "admission.k8s.io/v1"
	admissionReviewKind       = "AdmissionReview"
)

// NewResponse wraps patches into an allowing admission response. PatchType
// and Patch are only set when there is at least one operation, so that an
// empty decision serializes without either field.
func NewResponse(uid types.UID, patches []PatchOperation) (*admissionv1.AdmissionResponse, error) {
	response := &admissionv1.AdmissionResponse{
		UID:     uid,
		Allowed: true,
	}

	if len(patches) == 0 {
		return response, nil
	}

	patchData, err := json.Marshal(patches)
	if err != nil {
		return nil, microerror.Mask(err)
	}

	pt := admissionv1.PatchTypeJSONPatch
	response.Patch = patchData
	response.PatchType = &pt

	return response, nil
}

// NewReview puts the response into an admission.k8s.io/v1 envelope.
func NewReview(response *admissionv1.AdmissionResponse) admissionv1.AdmissionReview {
	return admissionv1.AdmissionReview{
		TypeMeta: metav1.TypeMeta{
			Kind:       admissionReviewKind,
			APIVersion: admissionReviewAPIVersion,
		},
		Response: response,
	}
}
