// Package analysis post-processes settle runs.
//
//   - [PowerSpectrum] and [DominantPeriod]: oscillation of an energy history
//   - [EnergyPortrait]: potential against kinetic energy as a 2D trajectory
//   - [Sweep]: potential score as one physical parameter varies
//
// A network that rings before settling shows a clear peak in the spectrum of
// its kinetic energy:
//
//	period := analysis.DominantPeriod(result.Kinetic)
//	if period > 0 {
//	    // oscillates every period samples
//	}
package analysis
