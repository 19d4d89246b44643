// Package reverb implements a multichannel feedback-delay-network reverberator
// for block-based real-time hosts.
//
// A Processor fans the host's mono or stereo signal out to N internal lanes,
// runs them through a Topology, folds the lanes back and blends the result
// with the dry input:
//
//   - TopologyMatrix: a Diffuser (jittered delays, Hadamard mix, polarity
//     flips) followed by a FeedbackNetwork with Householder mixing.
//   - TopologyDelayArray: independent feedback delay lanes with smoothed
//     feedback volumes and optional damping.
//
// All memory is allocated in Prepare. Process never allocates, locks or
// fails; configuration problems are reported by Prepare and ProcessChecked.
package reverb
