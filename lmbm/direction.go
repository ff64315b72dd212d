package lmbm

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// workspace holds scratch buffers reused across iterations.
type workspace struct {
	q     []float64
	alpha []float64
}

func newWorkspace(n, m int) *workspace {
	return &workspace{
		q:     make([]float64, n),
		alpha: make([]float64, m),
	}
}

// applyBFGS writes H·v into dst, where H is the limited memory inverse BFGS
// matrix of the history (two-loop recursion). H is positive definite.
func (w *workspace) applyBFGS(h *history, v, dst []float64) {
	q := w.q
	copy(q, v)
	for i := h.len() - 1; i >= 0; i-- {
		c := h.at(i)
		a := floats.Dot(c.s, q) / c.su
		w.alpha[i] = a
		floats.AddScaled(q, -a, c.u)
	}
	copy(dst, q)
	floats.Scale(h.scaling(), dst)
	for i := 0; i < h.len(); i++ {
		c := h.at(i)
		b := floats.Dot(c.u, dst) / c.su
		floats.AddScaled(dst, w.alpha[i]-b, c.s)
	}
}

// applySR1 writes H·v into dst, where H is the compact limited memory
// inverse SR1 matrix
//
//	H = γI + (S - γU) M⁻¹ (S - γU)ᵀ,  M = R + Rᵀ - D - γUᵀU
//
// with R the upper triangle of SᵀU and D its diagonal. It returns false when
// M is singular or ill-conditioned. H need not be positive definite; the
// caller checks the resulting direction.
func applySR1(h *history, v, dst []float64) bool {
	p := h.len()
	if p == 0 {
		return false
	}
	n := len(v)
	gamma := h.sr1Scaling()

	W := mat.NewDense(n, p, nil)
	M := mat.NewDense(p, p, nil)
	col := make([]float64, n)
	for j := 0; j < p; j++ {
		cj := h.at(j)
		floats.AddScaledTo(col, cj.s, -gamma, cj.u)
		W.SetCol(j, col)
		for i := 0; i <= j; i++ {
			ci := h.at(i)
			// Entry (i, j) with i <= j comes from R: s_iᵀu_j.
			var r float64
			if i == j {
				r = cj.su
			} else {
				r = floats.Dot(ci.s, cj.u)
			}
			val := r - gamma*floats.Dot(ci.u, cj.u)
			M.Set(i, j, val)
			M.Set(j, i, val)
		}
	}

	var rhs mat.VecDense
	rhs.MulVec(W.T(), mat.NewVecDense(n, v))
	var z mat.VecDense
	if err := z.SolveVec(M, &rhs); err != nil {
		return false
	}
	var wz mat.VecDense
	wz.MulVec(W, &z)
	floats.AddScaledTo(dst, wz.RawVector().Data, gamma, v)
	return true
}
