package playlist

import "fmt"

type fieldKind int

const (
	fieldKeep fieldKind = iota
	fieldSet
	fieldTransform
)

// Field describes how Update treats one of an entry's values: leave it, set
// it, or derive it from the old value.
type Field struct {
	kind  fieldKind
	value float64
	fn    func(float64) float64
}

// Keep leaves the value unchanged.
func Keep() Field { return Field{kind: fieldKeep} }

// Set replaces the value.
func Set(v float64) Field { return Field{kind: fieldSet, value: v} }

// Transform maps the old value to a new one.
func Transform(fn func(float64) float64) Field {
	if fn == nil {
		return Keep()
	}
	return Field{kind: fieldTransform, fn: fn}
}

// Scale multiplies the old value by factor.
func Scale(factor float64) Field {
	return Transform(func(v float64) float64 { return v * factor })
}

func (f Field) apply(old float64) float64 {
	switch f.kind {
	case fieldSet:
		return f.value
	case fieldTransform:
		return f.fn(old)
	default:
		return old
	}
}

// Update rewrites the weight and volume of an existing entry. Overwrites done
// here never warn.
func (s *Store) Update(path string, weight, volume Field) error {
	old, ok := s.entries[path]
	if !ok {
		return fmt.Errorf("update %q: %w", path, ErrNotFound)
	}
	s.Add(path, weight.apply(old.Weight), volume.apply(old.Volume), false)
	return nil
}
