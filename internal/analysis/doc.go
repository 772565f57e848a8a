// Package analysis inspects recorded runs.
//
//   - [PowerSpectrum]: magnitude spectrum of a sampled series
//   - [DominantFrequency]: strongest non-DC bin in Hz
//   - [SettlingTime]: when kinetic energy decays below a fraction of its peak
//   - [SubStepSweep]: stability of a configuration across sub-step counts
//
// A pile that has come to rest shows up as a flat spectrum and a finite
// settling time:
//
//	ps := analysis.PowerSpectrum(kinetic)
//	f := analysis.DominantFrequency(ps, 60)
package analysis
