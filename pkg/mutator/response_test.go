package mutator

import (
	"encoding/base64"
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func Test_NewResponse(t *testing.T) {
	tests := []struct {
		name         string
		patches      []PatchOperation
		expectedJSON string
	}{
		{
			name:         "case 0: no patches",
			patches:      nil,
			expectedJSON: `{"uid":"abc","allowed":true}`,
		},
		{
			name:         "case 1: empty patches",
			patches:      []PatchOperation{},
			expectedJSON: `{"uid":"abc","allowed":true}`,
		},
		{
			name:    "case 2: one patch",
			patches: []PatchOperation{PatchAdd("/spec/runtimeClassName", "edera")},
			expectedJSON: `{"uid":"abc","allowed":true,"patch":"` +
				base64.StdEncoding.EncodeToString([]byte(`[{"op":"add","path":"/spec/runtimeClassName","value":"edera"}]`)) +
				`","patchType":"JSONPatch"}`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			response, err := NewResponse("abc", tc.patches)
			if err != nil {
				t.Fatalf("error == %#v, want nil", err)
			}

			b, err := json.Marshal(response)
			if err != nil {
				t.Fatalf("error == %#v, want nil", err)
			}

			var expected, got map[string]interface{}
			if err := json.Unmarshal([]byte(tc.expectedJSON), &expected); err != nil {
				t.Fatalf("error == %#v, want nil", err)
			}
			if err := json.Unmarshal(b, &got); err != nil {
				t.Fatalf("error == %#v, want nil", err)
			}
			if diff := cmp.Diff(expected, got); diff != "" {
				t.Fatalf("response mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func Test_NewReview(t *testing.T) {
	response, err := NewResponse("abc", nil)
	if err != nil {
		t.Fatalf("error == %#v, want nil", err)
	}

	review := NewReview(response)
	if review.APIVersion != "admission.k8s.io/v1" || review.Kind != "AdmissionReview" {
		t.Fatalf("envelope == %s/%s", review.APIVersion, review.Kind)
	}
	if review.Response.UID != "abc" {
		t.Fatalf("uid == %#q, want %#q", review.Response.UID, "abc")
	}
}
