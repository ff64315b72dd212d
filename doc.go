// Package lmbclust solves the minimum sum-of-squares clustering problem
// incrementally with the limited memory bundle method.
//
// Starting from the centroid of the data (k = 1), every round adds one
// center, initialized at the record farthest from its nearest center, and
// minimizes the nonsmooth clustering objective
//
//	f(c_1..c_k) = Σ_a min_j ‖c_j - a‖²
//
// over all k centers with the LMBM optimizer (package lmbm). The objective
// and its subgradient are computed by package objective, validity indices by
// package validity. The loop ends when the requested number of clusters is
// reached, the global time budget is spent or the context is cancelled.
//
// # Quick Start
//
//	ds, _ := dataset.LoadFile("data.txt", 1000, 4)
//	cfg := lmbclust.DefaultConfig()
//	cfg.MaxClusters = 10
//	cfg.Records, cfg.Features = 1000, 4
//	res, err := lmbclust.Run(ctx, cfg, ds)
//	if err != nil {
//	    return err
//	}
//	for _, rec := range res.Records {
//	    fmt.Println(rec.K, rec.Objective, rec.Indices[validity.DaviesBouldin])
//	}
//
// # Guarantees
//
//   - The objective never increases from k-1 to k.
//   - Results are identical for any number of evaluator workers.
//   - A round that hits the time budget or whose line search breaks down is
//     still recorded, with the best centers found and a diagnostic.
//
// Reports (package report) can be published to any blobstore.Store.
//
// References: A.M. Bagirov, N. Karmitsa, S. Taheri, "Partitional Clustering
// via Nonsmooth Optimization", Springer, 2020.
package lmbclust
