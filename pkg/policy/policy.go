package policy

import (
	"bytes"
	"errors"
	"io"
	"os"
	"strings"

	"github.com/giantswarm/microerror"
	"gopkg.in/yaml.v3"
	"k8s.io/apimachinery/pkg/util/validation"
)

const (
	DefaultRuntimeClass      = "edera"
	DefaultExcludedNamespace = "kube-system"
)

// Policy decides what gets injected and where.
type Policy struct {
	// RuntimeClass is the value written to runtimeClassName.
	RuntimeClass string `yaml:"runtimeClass"`
	// ExcludedNamespaces are never mutated. See namespace.Config for the
	// pattern syntax.
	ExcludedNamespaces []string `yaml:"excludedNamespaces"`
	// RequiredLabels, when not empty, restricts mutation to objects
	// carrying all of these labels.
	RequiredLabels map[string]string `yaml:"requiredLabels"`
	// Annotations are added next to the runtime class.
	Annotations map[string]string `yaml:"annotations"`
}

func Default() Policy {
	return Policy{
		RuntimeClass:       DefaultRuntimeClass,
		ExcludedNamespaces: []string{DefaultExcludedNamespace},
	}
}

// FromFile reads a YAML policy. Fields missing from the file keep their
// default values.
func FromFile(path string) (Policy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Policy{}, microerror.Mask(err)
	}

	p := Default()
	d := yaml.NewDecoder(bytes.NewReader(data))
	d.KnownFields(true)
	// A file without documents leaves the defaults in place.
	if err := d.Decode(&p); err != nil && !errors.Is(err, io.EOF) {
		return Policy{}, microerror.Maskf(invalidPolicyError, "parsing %#q: %s", path, err)
	}

	return p, nil
}

// Normalize lowercases required label values, since observed values are
// lowercased before comparison.
func (p Policy) Normalize() Policy {
	if len(p.RequiredLabels) == 0 {
		return p
	}

	labels := make(map[string]string, len(p.RequiredLabels))
	for k, v := range p.RequiredLabels {
		labels[k] = strings.ToLower(v)
	}
	p.RequiredLabels = labels

	return p
}

func (p Policy) Validate() error {
	if p.RuntimeClass == "" {
		return microerror.Maskf(invalidPolicyError, "%T.RuntimeClass must not be empty", p)
	}
	if errs := validation.IsDNS1123Subdomain(p.RuntimeClass); len(errs) > 0 {
		return microerror.Maskf(invalidPolicyError, "%T.RuntimeClass %#q is invalid: %s", p, p.RuntimeClass, strings.Join(errs, ", "))
	}

	for k, v := range p.RequiredLabels {
		if errs := validation.IsQualifiedName(k); len(errs) > 0 {
			return microerror.Maskf(invalidPolicyError, "%T.RequiredLabels key %#q is invalid: %s", p, k, strings.Join(errs, ", "))
		}
		if errs := validation.IsValidLabelValue(v); len(errs) > 0 {
			return microerror.Maskf(invalidPolicyError, "%T.RequiredLabels value %#q is invalid: %s", p, v, strings.Join(errs, ", "))
		}
	}

	for k := range p.Annotations {
		if errs := validation.IsQualifiedName(k); len(errs) > 0 {
			return microerror.Maskf(invalidPolicyError, "%T.Annotations key %#q is invalid: %s", p, k, strings.Join(errs, ", "))
		}
	}

	return nil
}
