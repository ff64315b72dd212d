package lmbm

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// correction is one stored pair: s is an iterate difference, u the matching
// subgradient difference, su their inner product.
type correction struct {
	s, u []float64
	su   float64
}

// history is a ring buffer holding at most cap(slots) correction pairs.
// Slot vectors are allocated once and overwritten on wrap-around.
type history struct {
	slots []correction
	head  int // index of the oldest pair
	size  int
}

func newHistory(m, n int) *history {
	h := &history{slots: make([]correction, m)}
	for i := range h.slots {
		h.slots[i].s = make([]float64, n)
		h.slots[i].u = make([]float64, n)
	}
	return h
}

func (h *history) len() int { return h.size }

// at returns the i-th pair, oldest first.
func (h *history) at(i int) *correction {
	return &h.slots[(h.head+i)%len(h.slots)]
}

// push stores (s, u), evicting the oldest pair when full. It rejects the pair
// and returns false when sᵀu <= eps·sᵀs.
func (h *history) push(s, u []float64, eps float64) bool {
	su := floats.Dot(s, u)
	ss := floats.Dot(s, s)
	if !(su > eps*ss) || ss == 0 {
		return false
	}
	var c *correction
	if h.size < len(h.slots) {
		c = h.at(h.size)
		h.size++
	} else {
		c = &h.slots[h.head]
		h.head = (h.head + 1) % len(h.slots)
	}
	copy(c.s, s)
	copy(c.u, u)
	c.su = su
	return true
}

func (h *history) clear() {
	h.head = 0
	h.size = 0
}

// scaling returns sᵀu/uᵀu of the newest pair, or 1 when the history is empty.
func (h *history) scaling() float64 {
	if h.size == 0 {
		return 1
	}
	c := h.at(h.size - 1)
	uu := floats.Dot(c.u, c.u)
	if uu == 0 {
		return 1
	}
	return c.su / uu
}

// sr1Scaling returns half of the smallest sᵀu/uᵀu over the stored pairs.
// Keeping γ strictly below every ratio keeps each SR1 denominator
// (s - γu)ᵀu positive.
func (h *history) sr1Scaling() float64 {
	g := math.Inf(1)
	for i := 0; i < h.size; i++ {
		c := h.at(i)
		uu := floats.Dot(c.u, c.u)
		if uu > 0 {
			g = math.Min(g, c.su/uu)
		}
	}
	if math.IsInf(g, 1) {
		return 1
	}
	return 0.5 * g
}
