package ui

import (
	"fmt"
	"strings"
)

// Selection picks one value per axis. Absent or unknown values fall back to the
// resolver's defaults.
type Selection map[string]string

// Axis is one named dimension of a component's look and the class each value adds.
type Axis struct {
	Name   string
	Values map[string]string
}

// CompoundVariant adds Class when every axis listed in Match holds one of the given values.
type CompoundVariant struct {
	Match map[string][]string
	Class string
}

// Variants resolves a Selection into a class string: base classes, then each axis in
// declaration order, then matching compound variants. Compound classes are merged
// last so they win over per-axis classes touching the same property.
type Variants struct {
	Base     string
	Axes     []Axis
	Compound []CompoundVariant
	Defaults Selection
}

// Resolve returns the class string for sel. It is pure and total: every selection,
// including an empty one, resolves.
func (v Variants) Resolve(sel Selection) string {
	resolved := v.normalize(sel)
	parts := make([]string, 0, 1+len(v.Axes)+len(v.Compound))
	parts = append(parts, v.Base)
	for _, axis := range v.Axes {
		parts = append(parts, axis.Values[resolved[axis.Name]])
	}
	for _, cv := range v.Compound {
		if cv.matches(resolved) {
			parts = append(parts, cv.Class)
		}
	}
	return Merge(parts...)
}

func (v Variants) normalize(sel Selection) Selection {
	out := make(Selection, len(v.Axes))
	for _, axis := range v.Axes {
		val := sel[axis.Name]
		if _, ok := axis.Values[val]; !ok {
			val = v.Defaults[axis.Name]
		}
		out[axis.Name] = val
	}
	return out
}

func (cv CompoundVariant) matches(sel Selection) bool {
	for axis, values := range cv.Match {
		found := false
		for _, want := range values {
			if sel[axis] == want {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// Combinations enumerates every selection in the product of the axes.
func (v Variants) Combinations() []Selection {
	combos := []Selection{{}}
	for _, axis := range v.Axes {
		var next []Selection
		for _, base := range combos {
			for val := range axis.Values {
				sel := make(Selection, len(base)+1)
				for k, bv := range base {
					sel[k] = bv
				}
				sel[axis.Name] = val
				next = append(next, sel)
			}
		}
		combos = next
	}
	return combos
}

// Validate checks that every default names a declared value and every compound
// variant refers to declared axes and values.
func (v Variants) Validate() error {
	axes := make(map[string]Axis, len(v.Axes))
	for _, axis := range v.Axes {
		axes[axis.Name] = axis
		def, ok := v.Defaults[axis.Name]
		if !ok {
			return fmt.Errorf("ui: axis %q has no default", axis.Name)
		}
		if _, ok := axis.Values[def]; !ok {
			return fmt.Errorf("ui: default %q is not a value of axis %q", def, axis.Name)
		}
	}
	for i, cv := range v.Compound {
		if strings.TrimSpace(cv.Class) == "" {
			return fmt.Errorf("ui: compound variant %d has no class", i)
		}
		for name, values := range cv.Match {
			axis, ok := axes[name]
			if !ok {
				return fmt.Errorf("ui: compound variant %d names unknown axis %q", i, name)
			}
			for _, val := range values {
				if _, ok := axis.Values[val]; !ok {
					return fmt.Errorf("ui: compound variant %d names unknown value %q of axis %q", i, val, name)
				}
			}
		}
	}
	return nil
}
