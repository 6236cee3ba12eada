package player

import "sync"

// volumeCell is the volume override shared by the input loop and the output
// scraper. It holds a fraction of the maximum volume.
type volumeCell struct {
	mu       sync.Mutex
	fraction float64
	touched  bool
}

func newVolumeCell(volume, volMax float64) *volumeCell {
	return &volumeCell{fraction: clamp01(volume / volMax)}
}

// adjust moves the override by delta and returns the new fraction.
func (c *volumeCell) adjust(delta float64) float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fraction = clamp01(c.fraction + delta)
	c.touched = true
	return c.fraction
}

// observe records a volume the player reported.
func (c *volumeCell) observe(fraction float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fraction = clamp01(fraction)
	c.touched = true
}

func (c *volumeCell) snapshot() (float64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fraction, c.touched
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
