package runtimeclass

import (
	"context"
	"fmt"
	"strings"

	"github.com/giantswarm/microerror"
	admissionv1 "k8s.io/api/admission/v1"

	"github.com/giantswarm/runtimeclass-admission-controller/pkg/key"
	"github.com/giantswarm/runtimeclass-admission-controller/pkg/metrics"
	"github.com/giantswarm/runtimeclass-admission-controller/pkg/mutator"
)

// Decision is the outcome for a single request. Patches is empty unless
// Mutate is true.
type Decision struct {
	Mutate  bool
	Reason  string
	Patches []mutator.PatchOperation
}

func (m *Mutator) Mutate(ctx context.Context, request *admissionv1.AdmissionRequest) ([]mutator.PatchOperation, error) {
	req, err := NewRequest(request)
	if err != nil {
		return nil, microerror.Mask(err)
	}

	d := m.Decide(ctx, req)

	kind := req.Kind
	if kind == "" {
		kind = "<none>"
	}
	metrics.Decisions.WithLabelValues(kind, d.Reason).Inc()

	return d.Patches, nil
}

// Decide runs the checks in order and stops at the first one that rules
// mutation out.
func (m *Mutator) Decide(ctx context.Context, req Request) Decision {
	name := req.DisplayName()

	if req.Name == "" && req.GenerateName == "" {
		m.logger.Debugf(ctx, "object has neither name nor generateName")
	}
	if len(req.Labels) == 0 {
		m.logger.Debugf(ctx, "object has no labels")
	}

	if req.Operation == admissionv1.Delete || req.Operation == admissionv1.Connect {
		m.logger.Debugf(ctx, "skipping mutation for %#q on %s operation", name, req.Operation)
		return Decision{Reason: ReasonOperation}
	}

	if m.namespaceFilter.Excluded(req.Namespace) {
		m.logger.LogCtx(ctx, "level", "info", "message", fmt.Sprintf("skipping mutation for %#q in excluded namespace %#q", name, req.Namespace))
		return Decision{Reason: ReasonExcludedNamespace}
	}

	path := PatchPathFor(req.Kind)

	if m.labelGate.Enabled() && !m.labelGate.Match(req.Labels) {
		m.logger.Debugf(ctx, "skipping mutation for %#q, required labels not matched: %s", name, strings.Join(m.labelGate.Missing(req.Labels), ", "))
		return Decision{Reason: ReasonLabelMismatch}
	}

	if existing := key.NestedString(req.Object, runtimeClassFields(req.Kind)...); existing != "" {
		m.logger.Debugf(ctx, "skipping mutation for %#q, %s is already set to %#q", name, path, existing)
		return Decision{Reason: ReasonAlreadySet}
	}

	d := Decision{
		Mutate:  true,
		Reason:  ReasonMutated,
		Patches: m.patches(req),
	}

	m.logger.LogCtx(ctx, "level", "info", "message", fmt.Sprintf("mutating %s/%s", req.Namespace, name))

	return d
}
