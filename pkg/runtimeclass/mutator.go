package runtimeclass

import (
	"context"
	"strings"

	"github.com/giantswarm/microerror"
	"github.com/giantswarm/micrologger"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/giantswarm/runtimeclass-admission-controller/internal/labelgate"
	"github.com/giantswarm/runtimeclass-admission-controller/internal/namespace"
	"github.com/giantswarm/runtimeclass-admission-controller/pkg/policy"
)

type MutatorConfig struct {
	Logger micrologger.Logger
	Policy policy.Policy
}

// Mutator holds no per-request state and is safe for concurrent use.
type Mutator struct {
	logger micrologger.Logger

	annotationKeys  []string
	annotations     map[string]string
	labelGate       *labelgate.Gate
	namespaceFilter *namespace.Filter
	runtimeClass    string
}

func NewMutator(config MutatorConfig) (*Mutator, error) {
	if config.Logger == nil {
		return nil, microerror.Maskf(invalidConfigError, "%T.Logger must not be empty", config)
	}

	p := config.Policy.Normalize()
	err := p.Validate()
	if err != nil {
		return nil, microerror.Mask(err)
	}

	var namespaceFilter *namespace.Filter
	{
		c := namespace.Config{
			Excluded: p.ExcludedNamespaces,
		}

		namespaceFilter, err = namespace.New(c)
		if err != nil {
			return nil, microerror.Mask(err)
		}
	}

	var labelGate *labelgate.Gate
	{
		c := labelgate.Config{
			Required: p.RequiredLabels,
		}

		labelGate, err = labelgate.New(c)
		if err != nil {
			return nil, microerror.Mask(err)
		}

		if labelGate.Enabled() {
			config.Logger.Debugf(context.Background(), "mutating only objects labelled %s", strings.Join(labelGate.Keys(), ", "))
		}
	}

	annotations := maps.Clone(p.Annotations)
	annotationKeys := maps.Keys(annotations)
	slices.Sort(annotationKeys)

	m := &Mutator{
		logger: config.Logger,

		annotationKeys:  annotationKeys,
		annotations:     annotations,
		labelGate:       labelGate,
		namespaceFilter: namespaceFilter,
		runtimeClass:    p.RuntimeClass,
	}

	return m, nil
}

func (m *Mutator) Debugf(ctx context.Context, format string, params ...interface{}) {
	m.logger.Debugf(ctx, format, params...)
}

func (m *Mutator) Errorf(ctx context.Context, err error, format string, params ...interface{}) {
	m.logger.Errorf(ctx, err, format, params...)
}

func (m *Mutator) Resource() string {
	return Name
}
