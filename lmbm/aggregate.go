package lmbm

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// simplex3 minimizes φ(λ) = ½λᵀGλ + aᵀλ over λ >= 0, Σλ = 1 for a 3x3
// symmetric positive semidefinite G. The minimizer of a convex quadratic on
// the simplex lies in the interior or on an edge (vertices are edge
// endpoints), so every face is solved in closed form and the best candidate
// wins.
func simplex3(G [3][3]float64, a [3]float64) [3]float64 {
	phi := func(l [3]float64) float64 {
		var v float64
		for i := 0; i < 3; i++ {
			v += a[i] * l[i]
			for j := 0; j < 3; j++ {
				v += 0.5 * l[i] * G[i][j] * l[j]
			}
		}
		return v
	}

	best := [3]float64{1, 0, 0}
	bestPhi := phi(best)
	consider := func(l [3]float64) {
		for _, v := range l {
			if v < 0 || math.IsNaN(v) {
				return
			}
		}
		if p := phi(l); p < bestPhi {
			best, bestPhi = l, p
		}
	}

	if l, ok := simplexInterior(G, a); ok {
		consider(l)
	}
	edges := [3][2]int{{0, 1}, {0, 2}, {1, 2}}
	for _, e := range edges {
		i, j := e[0], e[1]
		// λ_i = t, λ_j = 1 - t.
		curv := G[i][i] - 2*G[i][j] + G[j][j]
		var t float64
		if curv > 1e-300 {
			t = (G[j][j] - G[i][j] + a[j] - a[i]) / curv
		} else if G[i][i]/2+a[i] < G[j][j]/2+a[j] {
			t = 1
		}
		t = math.Max(0, math.Min(1, t))
		var l [3]float64
		l[i], l[j] = t, 1-t
		consider(l)
	}
	return best
}

// simplexInterior solves the equality constrained KKT system
//
//	[G 1][λ]   [-a]
//	[1ᵀ 0][μ] = [ 1]
//
// and reports false when it is singular.
func simplexInterior(G [3][3]float64, a [3]float64) ([3]float64, bool) {
	K := mat.NewDense(4, 4, nil)
	rhs := mat.NewVecDense(4, nil)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			K.Set(i, j, G[i][j])
		}
		K.Set(i, 3, 1)
		K.Set(3, i, 1)
		rhs.SetVec(i, -a[i])
	}
	rhs.SetVec(3, 1)

	var sol mat.VecDense
	if err := sol.SolveVec(K, rhs); err != nil {
		return [3]float64{}, false
	}
	return [3]float64{sol.AtVec(0), sol.AtVec(1), sol.AtVec(2)}, true
}
