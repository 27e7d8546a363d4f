package key

import (
	admissionv1 "k8s.io/api/admission/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	utiljson "k8s.io/apimachinery/pkg/util/json"
)

const (
	unknownName = "unknown"
)

// DisplayName returns the name used to refer to the object in logs. Objects
// created through generateName have no name yet at admission time.
func DisplayName(obj *unstructured.Unstructured) string {
	if obj.GetName() != "" {
		return obj.GetName()
	}
	if obj.GetGenerateName() != "" {
		return obj.GetGenerateName()
	}
	return unknownName
}

// RequestDisplayName is DisplayName of the object carried by request. It is
// "unknown" when the object cannot be read.
func RequestDisplayName(request *admissionv1.AdmissionRequest) string {
	obj := &unstructured.Unstructured{}
	err := utiljson.Unmarshal(request.Object.Raw, &obj.Object)
	if err != nil {
		return unknownName
	}
	return DisplayName(obj)
}

// Labels never returns nil.
func Labels(obj *unstructured.Unstructured) map[string]string {
	labels := obj.GetLabels()
	if labels == nil {
		return map[string]string{}
	}
	return labels
}

// NestedString returns the string at the given field path, or "" when it is
// missing or not a string.
func NestedString(obj *unstructured.Unstructured, fields ...string) string {
	s, _, err := unstructured.NestedString(obj.Object, fields...)
	if err != nil {
		return ""
	}
	return s
}
