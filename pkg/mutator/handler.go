package mutator

import (
	"context"
	"encoding/json"
	"io"
	"mime"
	"net/http"
	"time"

	"github.com/giantswarm/micrologger/loggermeta"
	admissionv1 "k8s.io/api/admission/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/runtime/serializer"

	"github.com/giantswarm/runtimeclass-admission-controller/pkg/key"
	"github.com/giantswarm/runtimeclass-admission-controller/pkg/metrics"
)

const (
	webhookType = "mutating"

	invalidInputMessage = "Invalid input"
)

type Mutator interface {
	Debugf(ctx context.Context, format string, params ...interface{})
	Errorf(ctx context.Context, err error, format string, params ...interface{})
	Mutate(ctx context.Context, request *admissionv1.AdmissionRequest) ([]PatchOperation, error)
	Resource() string
}

var (
	scheme       = runtime.NewScheme()
	codecs       = serializer.NewCodecFactory(scheme)
	Deserializer = codecs.UniversalDeserializer()
)

// errorBody is written instead of an admission review when the request
// cannot be understood at all.
type errorBody struct {
	Error string `json:"error"`
	Code  int    `json:"code"`
}

func Handler(mutator Mutator) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		ctx := request.Context()
		start := time.Now()
		defer func() {
			metrics.DurationRequests.WithLabelValues(webhookType, mutator.Resource()).Observe(time.Since(start).Seconds())
		}()

		metrics.TotalRequests.WithLabelValues(webhookType, mutator.Resource()).Inc()
		if request.Method != http.MethodPost {
			mutator.Errorf(ctx, nil, "invalid method: %s", request.Method)
			metrics.InvalidRequests.WithLabelValues(webhookType, mutator.Resource()).Inc()
			writer.Header().Set("Allow", http.MethodPost)
			writer.WriteHeader(http.StatusMethodNotAllowed)
			return
		}

		if !isJSON(request.Header.Get("Content-Type")) {
			mutator.Errorf(ctx, nil, "invalid content-type: %s", request.Header.Get("Content-Type"))
			metrics.InvalidRequests.WithLabelValues(webhookType, mutator.Resource()).Inc()
			writeInvalidInput(ctx, mutator, writer)
			return
		}

		data, err := io.ReadAll(request.Body)
		if err != nil {
			mutator.Errorf(ctx, err, "unable to read request")
			metrics.InternalError.WithLabelValues(webhookType, mutator.Resource()).Inc()
			writer.WriteHeader(http.StatusInternalServerError)
			return
		}

		review := admissionv1.AdmissionReview{}
		if _, _, err := Deserializer.Decode(data, nil, &review); err != nil {
			mutator.Errorf(ctx, err, "unable to parse admission review request")
			metrics.InvalidRequests.WithLabelValues(webhookType, mutator.Resource()).Inc()
			writeInvalidInput(ctx, mutator, writer)
			return
		}
		if review.Request == nil {
			mutator.Errorf(ctx, nil, "admission review without request")
			metrics.InvalidRequests.WithLabelValues(webhookType, mutator.Resource()).Inc()
			writeInvalidInput(ctx, mutator, writer)
			return
		}

		ctx = loggermeta.NewContext(ctx, key.CreateLoggerMeta(review.Request, key.RequestDisplayName(review.Request), mutator.Resource()))

		patch, err := mutator.Mutate(ctx, review.Request)
		if IsMalformedRequest(err) {
			mutator.Errorf(ctx, err, "unable to admit malformed request")
			metrics.InvalidRequests.WithLabelValues(webhookType, mutator.Resource()).Inc()
			writeInvalidInput(ctx, mutator, writer)
			return
		} else if err != nil {
			// The webhook never denies. Admit the object untouched.
			mutator.Errorf(ctx, err, "computing mutation failed, admitting without patches")
			metrics.InternalError.WithLabelValues(webhookType, mutator.Resource()).Inc()
			patch = nil
		}

		response, err := NewResponse(review.Request.UID, patch)
		if err != nil {
			mutator.Errorf(ctx, err, "unable to serialize patch, admitting without patches")
			metrics.InternalError.WithLabelValues(webhookType, mutator.Resource()).Inc()
			response = &admissionv1.AdmissionResponse{
				UID:     review.Request.UID,
				Allowed: true,
			}
		}

		mutator.Debugf(ctx, "admitted (with %d patches)", len(patch))
		metrics.SuccessfulRequests.WithLabelValues(webhookType, mutator.Resource()).Inc()

		writeResponse(ctx, mutator, writer, response)
	}
}

func isJSON(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "application/json"
}

func writeResponse(ctx context.Context, mutator Mutator, writer http.ResponseWriter, response *admissionv1.AdmissionResponse) {
	resp, err := json.Marshal(NewReview(response))
	if err != nil {
		mutator.Errorf(ctx, err, "unable to serialize response")
		metrics.InternalError.WithLabelValues(webhookType, mutator.Resource()).Inc()
		writer.WriteHeader(http.StatusInternalServerError)
		return
	}

	writer.Header().Set("Content-Type", "application/json")
	if _, err := writer.Write(resp); err != nil {
		mutator.Errorf(ctx, err, "unable to write response")
	}
}

func writeInvalidInput(ctx context.Context, mutator Mutator, writer http.ResponseWriter) {
	resp, err := json.Marshal(errorBody{
		Error: invalidInputMessage,
		Code:  http.StatusBadRequest,
	})
	if err != nil {
		mutator.Errorf(ctx, err, "unable to serialize error response")
		writer.WriteHeader(http.StatusBadRequest)
		return
	}

	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(http.StatusBadRequest)
	if _, err := writer.Write(resp); err != nil {
		mutator.Errorf(ctx, err, "unable to write response")
	}
}
