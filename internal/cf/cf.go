// Package cf implements the certainty-factor algebra used to combine
// uncertain evidence for and against a proposition.
package cf

import "math"

// Factor is a certainty factor: combined belief in a proposition on the
// scale [-1, 1], where 1 is certainly true, -1 certainly false, and 0
// unknown.
type Factor float64

const (
	True    Factor = 1.0
	False   Factor = -1.0
	Unknown Factor = 0.0

	// Cutoff is the belief threshold above which evidence counts as true.
	Cutoff Factor = 0.2
)

// Or combines two independent pieces of evidence bearing on the same
// proposition. It is commutative, and Unknown is its identity. Both operands
// must lie in [-1, 1]; combining certain evidence with any opposing evidence
// of magnitude 1 is undefined and panics.
func Or(a, b Factor) Factor {
	switch {
	case a > 0 && b > 0:
		return a + b - a*b
	case a < 0 && b < 0:
		return a + b + a*b
	default:
		d := 1 - Factor(math.Min(math.Abs(float64(a)), math.Abs(float64(b))))
		if d == 0 {
			panic("cf: Or undefined for certain opposing evidence")
		}
		return (a + b) / d
	}
}

// And combines evidence that must hold jointly, keeping the weakest belief.
func And(a, b Factor) Factor {
	if a < b {
		return a
	}
	return b
}

// Valid reports whether f lies on the certainty scale.
func (f Factor) Valid() bool {
	return False <= f && f <= True
}

// True reports whether f is strong enough to accept the proposition.
func (f Factor) True() bool {
	return f.Valid() && f > Cutoff
}

// False reports whether f is strong enough to reject the proposition.
func (f Factor) False() bool {
	return f.Valid() && f < Cutoff-1
}
