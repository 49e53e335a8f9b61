package param

import (
	"math"
	"sort"
)

// Set is a validated, complete assignment of values to an effect's
// parameters.
type Set struct {
	values map[string]float64
	order  []string
}

// Build validates raw against specs. Missing names take their default.
// Names are checked in sorted order so the reported error is deterministic.
func Build(effect string, specs []Spec, raw map[string]float64) (Set, error) {
	byName := make(map[string]Spec, len(specs))
	for _, s := range specs {
		byName[s.Name] = s
	}

	names := make([]string, 0, len(raw))
	for name := range raw {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		spec, ok := byName[name]
		if !ok {
			return Set{}, &UnknownError{Effect: effect, Name: name}
		}
		v := raw[name]
		if math.IsInf(v, 0) || !spec.Contains(v) {
			return Set{}, &OutOfRangeError{Effect: effect, Name: name, Value: v, Min: spec.Min, Max: spec.Max, Integer: spec.Integral() && v != math.Trunc(v)}
		}
	}

	set := Set{
		values: make(map[string]float64, len(specs)),
		order:  make([]string, 0, len(specs)),
	}
	for _, s := range specs {
		v, ok := raw[s.Name]
		if !ok {
			v = s.Default
		}
		set.values[s.Name] = v
		set.order = append(set.order, s.Name)
	}

	return set, nil
}

// Defaults returns the Set of declared defaults.
func Defaults(effect string, specs []Spec) Set {
	set, _ := Build(effect, specs, nil)
	return set
}

// Float returns the value of name, or 0 when the name is not declared.
func (s Set) Float(name string) float64 {
	return s.values[name]
}

// Int returns the value of name as an integer. Build only admits whole
// numbers for integral specs.
func (s Set) Int(name string) int {
	return int(s.values[name])
}

// Has reports whether name is part of the set.
func (s Set) Has(name string) bool {
	_, ok := s.values[name]
	return ok
}

// Names returns parameter names in declaration order.
func (s Set) Names() []string {
	return append([]string(nil), s.order...)
}

// Map returns a copy of the values keyed by name.
func (s Set) Map() map[string]float64 {
	out := make(map[string]float64, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out
}
