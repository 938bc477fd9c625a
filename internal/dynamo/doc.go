// Package dynamo provides the shared primitives of the liquid chain simulation.
//
//   - [Vec3]: float64 3D vector used for positions, velocities and gravity
//   - [SimError]: step/time annotated error raised by the runner
//   - sentinel errors for configuration and lookup failures
//
// Vector operations are value based and allocation free; [Vec3.Normalize]
// returns the zero vector for zero-length input instead of NaN.
package dynamo
