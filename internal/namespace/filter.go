package namespace

import (
	"strings"

	"github.com/giantswarm/microerror"
)

type empty struct{}

type Config struct {
	// Excluded lists namespaces that are never mutated. An entry starting or
	// ending with "-" is a pattern matched against the namespace prefix or
	// suffix, e.g. "-system" or "kube-".
	Excluded []string
}

type Filter struct {
	dynamicExcluded []string
	fixedExcluded   map[string]empty
}

func New(config Config) (*Filter, error) {
	filter := Filter{
		dynamicExcluded: make([]string, 0),
		fixedExcluded:   make(map[string]empty, len(config.Excluded)),
	}

	for _, i := range config.Excluded {
		if strings.TrimSpace(i) == "" || strings.Trim(i, "-") == "" {
			return nil, microerror.Maskf(invalidConfigError, "%T.Excluded must not contain empty entries, got %#q", config, i)
		}

		if strings.HasPrefix(i, "-") || strings.HasSuffix(i, "-") {
			filter.dynamicExcluded = append(filter.dynamicExcluded, i)
		} else {
			filter.fixedExcluded[i] = empty{}
		}
	}

	return &filter, nil
}

// Excluded reports whether objects in the given namespace must be left alone.
func (f *Filter) Excluded(namespace string) bool {
	if _, ok := f.fixedExcluded[namespace]; ok {
		return true
	}

	for _, p := range f.dynamicExcluded {
		if strings.HasSuffix(namespace, p) || strings.HasPrefix(namespace, p) {
			return true
		}
	}

	return false
}
