package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cwbudde/audiofx/dsp/effectchain"
)

// buildSteps resolves the -e and -p flags into chain steps. A parameter key
// "effect.name" applies to every instance of that effect; a bare "name" is
// accepted when the chain holds a single effect.
func buildSteps(reg *effectchain.Registry, names []string, params map[string]float64) ([]effectchain.Step, error) {
	if len(names) == 0 {
		return nil, fmt.Errorf("no effect given")
	}

	steps := make([]effectchain.Step, len(names))
	for i, name := range names {
		if _, ok := reg.Lookup(name); !ok {
			return nil, fmt.Errorf("%w: %s", effectchain.ErrUnknownEffect, name)
		}
		steps[i] = effectchain.Step{Effect: name, Params: map[string]float64{}}
	}

	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		effect, name, scoped := strings.Cut(key, ".")
		if !scoped {
			if len(steps) != 1 {
				return nil, fmt.Errorf("parameter %q must be written as effect.%s when chaining effects", key, key)
			}
			effect, name = steps[0].Effect, key
		}
		if name == "" {
			return nil, fmt.Errorf("parameter %q has no name", key)
		}

		matched := false
		for _, s := range steps {
			if s.Effect == effect {
				s.Params[name] = params[key]
				matched = true
			}
		}
		if !matched {
			return nil, fmt.Errorf("parameter %q does not match any effect in the chain", key)
		}
	}

	return steps, nil
}
