// Package round runs one secure aggregation round end to end.
//
// It wires the lower-level packages together in the only order that keeps
// the privacy guarantee intact:
//
//	contributions -> aggregate -> net point -> dlog -> Laplace release
//
// # Usage
//
//	g, _ := curves.FromName("secp256k1")
//	r, err := round.New(g, round.Config{
//		Secrets:     []*big.Int{big.NewInt(5), big.NewInt(7), big.NewInt(3)},
//		Sensitivity: 1.0,
//		Epsilon:     0.1,
//		DLog:        dlog.Config{MaxIterations: 1 << 20},
//	}, round.WithLogger(logger))
//	if err != nil {
//		return err
//	}
//	out, err := r.Run(ctx)
//	if err != nil {
//		// nothing was released
//		return err
//	}
//	fmt.Println(out.Noisy)
//
// A Round is designed to be used exactly once. Calling Run a second time
// returns [ErrConsumed]. Every failure aborts the whole round: Run never
// returns a partial [Outcome], and the recovered scalar is only ever exposed
// next to its noisy release.
package round
