package key

import (
	"strconv"
	"sync/atomic"

	"github.com/giantswarm/micrologger/loggermeta"
	admissionv1 "k8s.io/api/admission/v1"
)

var requestIDSeq uint64

// CreateLoggerMeta returns logger metadata identifying a single admission
// request. The object is namespace/name when both are known.
func CreateLoggerMeta(request *admissionv1.AdmissionRequest, name, reviewer string) *loggermeta.LoggerMeta {
	requestID := atomic.AddUint64(&requestIDSeq, 1)

	object := request.Namespace
	if object != "" {
		object += "/"
	}
	object += name

	m := loggermeta.New()
	m.KeyVals["resource"] = reviewer
	m.KeyVals["object"] = object
	m.KeyVals["kind"] = request.Kind.Kind
	m.KeyVals["request"] = strconv.FormatUint(requestID, 10)
	m.KeyVals["uid"] = string(request.UID)

	return m
}
