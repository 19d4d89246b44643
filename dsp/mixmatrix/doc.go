// Package mixmatrix provides stateless orthogonal mixing transforms used to
// scatter energy between the lanes of a feedback delay network.
//
// Both transforms preserve the sum of squares of the vector they act on:
//
//   - [Hadamard]: recursive butterfly over a power-of-two size, scaled by
//     1/sqrt(N). Used for diffusion.
//   - [Householder]: reflection about the all-ones direction,
//     out = in - (2/N)*sum(in)*ones. Used in the feedback path.
//
// Transforms are deterministic and bit-reproducible for a given input.
package mixmatrix
