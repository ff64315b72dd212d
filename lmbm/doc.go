// Package lmbm implements the limited memory bundle method (LMBM) for
// unconstrained nonsmooth, possibly nonconvex minimization.
//
// The method only needs the function value and one arbitrary subgradient at
// each point. Every iteration builds a search direction from the aggregate
// subgradient and an implicit limited memory matrix formed from the last m
// correction pairs (s = iterate difference, u = subgradient difference):
// L-BFGS after serious steps, compact L-SR1 after null steps. A line search
// then either accepts a new iterate (serious step) or keeps the current one
// and enriches the aggregate subgradient with the trial subgradient (null
// step).
//
// # States
//
//	Initialized -> SeriousStep | NullStep -> ... -> Converged
//	                                           \-> BudgetExceeded
//	                                           \-> Failed
//
// BudgetExceeded and Failed are not errors: Minimize returns the best iterate
// found so far together with the terminal status and a diagnostic. Minimize
// only returns an error for malformed input or when the function itself
// reports one.
//
// # Usage
//
//	opt := lmbm.New(lmbm.WithMemory(7), lmbm.WithTimeLimit(time.Minute))
//	res, err := opt.Minimize(ctx, fn, x0)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(res.Status, res.F)
//
// References: N. Haarala, K. Miettinen, M.M. Mäkelä, "Globally Convergent
// Limited Memory Bundle Method for Large-Scale Nonsmooth Optimization",
// Mathematical Programming 109(1), 2007.
package lmbm
