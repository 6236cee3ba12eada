package playlist

import "fmt"

// DiffEntry is one path whose values differ between two stores. Ours or
// Theirs is nil when the path is absent on that side.
type DiffEntry struct {
	Path   string
	Ours   *Values
	Theirs *Values
}

// Diff lists every path whose values differ between a and b: paths in a's
// order first, then paths only in b in b's order.
func Diff(a, b *Store) []DiffEntry {
	var out []DiffEntry
	compare := func(path string) {
		ours, inA := a.entries[path]
		theirs, inB := b.entries[path]
		if inA && inB && ours == theirs {
			return
		}
		entry := DiffEntry{Path: path}
		if inA {
			entry.Ours = &ours
		}
		if inB {
			entry.Theirs = &theirs
		}
		out = append(out, entry)
	}
	for _, path := range a.order {
		compare(path)
	}
	for _, path := range b.order {
		if _, inA := a.entries[path]; !inA {
			compare(path)
		}
	}
	return out
}

// DefaultStrategies returns the strategies Merge uses when none are given:
// averaged weights, and volumes pulled toward whichever side is farther from
// the target's mean volume.
func (s *Store) DefaultStrategies() (weight, volume Strategy) {
	return Average, Extreme(s.MeanVolume())
}

// Merge folds other into s. For every differing path the weight and volume
// strategies each produce a value; if either yields nothing the path is
// removed, otherwise it is upserted. Nil strategies select the defaults.
// Merge marks s dirty when anything changes but never writes.
func (s *Store) Merge(other *Store, weight, volume Strategy) error {
	defWeight, defVolume := s.DefaultStrategies()
	if weight == nil {
		weight = defWeight
	}
	if volume == nil {
		volume = defVolume
	}

	for _, d := range Diff(s, other) {
		if d.Ours == nil && d.Theirs == nil {
			return fmt.Errorf("merge %q: %w", d.Path, ErrNoValues)
		}
		var ow, ov, tw, tv *float64
		if d.Ours != nil {
			ow, ov = &d.Ours.Weight, &d.Ours.Volume
		}
		if d.Theirs != nil {
			tw, tv = &d.Theirs.Weight, &d.Theirs.Volume
		}
		w, wok := weight(d.Path, ow, tw)
		v, vok := volume(d.Path, ov, tv)
		if !wok || !vok {
			s.Remove(d.Path)
			continue
		}
		s.Add(d.Path, w, v, false)
	}
	return nil
}
