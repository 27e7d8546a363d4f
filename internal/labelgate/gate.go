package labelgate

import (
	"strings"

	"github.com/giantswarm/microerror"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

type Config struct {
	// Required maps label keys to the lowercase value they must carry.
	Required map[string]string
}

// Gate only lets objects through whose labels carry every required pair.
// Keys compare exactly, observed values are lowercased before comparison.
type Gate struct {
	required map[string]string
}

func New(config Config) (*Gate, error) {
	required := make(map[string]string, len(config.Required))
	for k, v := range config.Required {
		if k == "" {
			return nil, microerror.Maskf(invalidConfigError, "%T.Required must not contain empty keys", config)
		}
		if v != strings.ToLower(v) {
			return nil, microerror.Maskf(invalidConfigError, "%T.Required value for %#q must be lowercase, got %#q", config, k, v)
		}
		required[k] = v
	}

	g := &Gate{
		required: required,
	}

	return g, nil
}

// Enabled is false when no labels are required, in which case Match always
// succeeds.
func (g *Gate) Enabled() bool {
	return len(g.required) > 0
}

func (g *Gate) Match(observed map[string]string) bool {
	var matches int
	for k, v := range g.required {
		o, ok := observed[k]
		if !ok {
			continue
		}
		if strings.ToLower(o) == v {
			matches++
		}
	}

	return matches == len(g.required)
}

// Missing returns the sorted keys of required pairs the observed labels do
// not satisfy.
func (g *Gate) Missing(observed map[string]string) []string {
	var missing []string
	for k, v := range g.required {
		if o, ok := observed[k]; !ok || strings.ToLower(o) != v {
			missing = append(missing, k)
		}
	}
	slices.Sort(missing)

	return missing
}

// Keys returns the sorted required label keys.
func (g *Gate) Keys() []string {
	keys := maps.Keys(g.required)
	slices.Sort(keys)
	return keys
}
