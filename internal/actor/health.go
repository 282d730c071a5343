package actor

import "math"

// Health is an actor's hit points. 0 <= Current <= Max and Max > 0.
type Health struct {
	Current, Max int
	// RecentlyDamaged is set by non-lethal damage and cleared by the owner
	// once the hit has been presented.
	RecentlyDamaged bool
}

// NewHealth returns full health for maxHP; values below 1 are raised to 1.
func NewHealth(maxHP int) Health {
	maxHP = maxInt(maxHP, 1)
	return Health{Current: maxHP, Max: maxHP}
}

// TakeDamage lowers Current by n, clamped to [0, Max], and reports whether
// the actor died. Negative n never heals.
func (h *Health) TakeDamage(n int) (died bool) {
	if n < 0 {
		n = 0
	}
	h.Current = clamp(h.Current-n, 0, h.Max)
	if h.Current == 0 {
		h.RecentlyDamaged = false
		return true
	}
	if n > 0 {
		h.RecentlyDamaged = true
	}
	return false
}

// Dead reports whether Current has reached zero.
func (h Health) Dead() bool { return h.Current <= 0 }

// Reset restores Current to Max.
func (h *Health) Reset() {
	h.Current = h.Max
	h.RecentlyDamaged = false
}

// SetMax replaces Max and clamps Current into the new range.
func (h *Health) SetMax(maxHP int) {
	h.Max = maxInt(maxHP, 1)
	h.Current = clamp(h.Current, 0, h.Max)
}

// Rescale replaces Max. When the new maximum is larger, Current keeps its
// ratio to Max (rounded); otherwise Current is clamped.
func (h *Health) Rescale(maxHP int) {
	maxHP = maxInt(maxHP, 1)
	old := h.Max
	if maxHP > old && old > 0 {
		ratio := float64(h.Current) / float64(old)
		h.Max = maxHP
		h.Current = clamp(int(math.Round(float64(maxHP)*ratio)), 0, maxHP)
		return
	}
	h.SetMax(maxHP)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
