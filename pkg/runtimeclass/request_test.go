package runtimeclass

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	admissionv1 "k8s.io/api/admission/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"

	"github.com/giantswarm/runtimeclass-admission-controller/pkg/mutator"
)

func Test_NewRequest(t *testing.T) {
	tests := []struct {
		name                string
		request             *admissionv1.AdmissionRequest
		expectedErr         bool
		expectedNamespace   string
		expectedDisplayName string
		expectedLabels      map[string]string
	}{
		{
			name:        "case 0: nil request",
			request:     nil,
			expectedErr: true,
		},
		{
			name: "case 1: missing uid",
			request: &admissionv1.AdmissionRequest{
				Object: runtime.RawExtension{Raw: []byte(`{"metadata":{"name":"a","namespace":"default"}}`)},
			},
			expectedErr: true,
		},
		{
			name: "case 2: missing namespace",
			request: &admissionv1.AdmissionRequest{
				UID:    "uid",
				Object: runtime.RawExtension{Raw: []byte(`{"metadata":{"name":"a"}}`)},
			},
			expectedErr: true,
		},
		{
			name: "case 3: object is not a JSON object",
			request: &admissionv1.AdmissionRequest{
				UID:       "uid",
				Namespace: "default",
				Object:    runtime.RawExtension{Raw: []byte(`["a"]`)},
			},
			expectedErr: true,
		},
		{
			name: "case 4: name and labels",
			request: &admissionv1.AdmissionRequest{
				UID:    "uid",
				Kind:   metav1.GroupVersionKind{Kind: "Pod"},
				Object: runtime.RawExtension{Raw: []byte(`{"metadata":{"name":"a","namespace":"default","labels":{"app":"a"}}}`)},
			},
			expectedNamespace:   "default",
			expectedDisplayName: "a",
			expectedLabels:      map[string]string{"app": "a"},
		},
		{
			name: "case 5: generateName is used when name is missing",
			request: &admissionv1.AdmissionRequest{
				UID:    "uid",
				Object: runtime.RawExtension{Raw: []byte(`{"metadata":{"generateName":"a-","namespace":"default"}}`)},
			},
			expectedNamespace:   "default",
			expectedDisplayName: "a-",
			expectedLabels:      map[string]string{},
		},
		{
			name: "case 6: unknown when neither is set",
			request: &admissionv1.AdmissionRequest{
				UID:    "uid",
				Object: runtime.RawExtension{Raw: []byte(`{"metadata":{"namespace":"default"}}`)},
			},
			expectedNamespace:   "default",
			expectedDisplayName: "unknown",
			expectedLabels:      map[string]string{},
		},
		{
			name: "case 7: request namespace is not a fallback",
			request: &admissionv1.AdmissionRequest{
				UID:       "uid",
				Namespace: "team-a",
				Object:    runtime.RawExtension{Raw: []byte(`{"metadata":{"generateName":"web-"}}`)},
			},
			expectedErr: true,
		},
		{
			name: "case 8: object namespace wins",
			request: &admissionv1.AdmissionRequest{
				UID:       "uid",
				Namespace: "team-a",
				Object:    runtime.RawExtension{Raw: []byte(`{"metadata":{"name":"a","namespace":"team-b"}}`)},
			},
			expectedNamespace:   "team-b",
			expectedDisplayName: "a",
			expectedLabels:      map[string]string{},
		},
		{
			name: "case 9: no object",
			request: &admissionv1.AdmissionRequest{
				UID:       "uid",
				Namespace: "team-a",
			},
			expectedErr: true,
		},
		{
			name: "case 10: null object",
			request: &admissionv1.AdmissionRequest{
				UID:       "uid",
				Namespace: "team-a",
				Object:    runtime.RawExtension{Raw: []byte(`null`)},
			},
			expectedErr: true,
		},
		{
			name: "case 11: object without metadata",
			request: &admissionv1.AdmissionRequest{
				UID:       "uid",
				Namespace: "team-a",
				Object:    runtime.RawExtension{Raw: []byte(`{"spec":{}}`)},
			},
			expectedErr: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req, err := NewRequest(tc.request)
			switch {
			case err != nil && !tc.expectedErr:
				t.Fatalf("error == %#v, want nil", err)
			case err == nil && tc.expectedErr:
				t.Fatalf("error == nil, want non-nil")
			case err != nil && !mutator.IsMalformedRequest(err):
				t.Fatalf("error == %#v, want malformed request error", err)
			}

			if tc.expectedErr {
				return
			}

			if req.UID != tc.request.UID {
				t.Fatalf("UID == %#q, want %#q", req.UID, tc.request.UID)
			}
			if req.Namespace != tc.expectedNamespace {
				t.Fatalf("Namespace == %#q, want %#q", req.Namespace, tc.expectedNamespace)
			}
			if req.DisplayName() != tc.expectedDisplayName {
				t.Fatalf("DisplayName() == %#q, want %#q", req.DisplayName(), tc.expectedDisplayName)
			}
			if diff := cmp.Diff(tc.expectedLabels, req.Labels); diff != "" {
				t.Fatalf("labels mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
