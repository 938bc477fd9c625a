// Package chain implements the liquid chain solver.
//
// A chain is a fixed-length list of point masses whose two ends pin to
// anchors while connected. Each fixed step runs, in order:
//
//	Predict -> MakeStraight -> DistanceConstraint -> MoveLiquid -> CheckBreak -> UpdateVelocity
//
// Predict is semi-implicit Euler under gravity, DistanceConstraint is a
// mass-weighted Gauss-Seidel edge projection (position based dynamics) and
// MoveLiquid shifts point mass downhill pair by pair in index order.
// The order is part of the model; reordering changes the simulation.
//
// Connection is a single counter, see [ConnectState]. The solver is not
// safe for concurrent use.
package chain
