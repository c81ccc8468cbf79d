package diff

import (
	"strings"
	"time"

	apperrors "github.com/matzehuels/sidediff/pkg/errors"
)

// Aligner computes an Alignment between two token sequences.
//
// Implementations must classify every old token as Unchanged or Removed and
// every new token as Unchanged or Inserted, preserving relative order on each
// side, and pair tokens as Unchanged only when they are equal. Align must not
// panic for any input, including empty sequences.
type Aligner interface {
	Align(old, new []Token) Alignment
	Name() string
}

// Algorithm names accepted by NewAligner.
const (
	AlgorithmLookahead = "lookahead"
	AlgorithmMyers     = "myers"
)

// DefaultAlgorithm is used when no algorithm is configured.
const DefaultAlgorithm = AlgorithmLookahead

// Algorithms lists the accepted algorithm names.
var Algorithms = []string{AlgorithmLookahead, AlgorithmMyers}

// NewAligner returns the aligner registered under name. The window applies
// to the lookahead aligner; zero selects DefaultWindow.
func NewAligner(name string, window int) (Aligner, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", AlgorithmLookahead:
		return Lookahead{Window: window}, nil
	case AlgorithmMyers:
		return Myers{Timeout: DefaultMyersTimeout}, nil
	}
	return nil, apperrors.ValidateAlgorithm(name, Algorithms)
}

// DefaultWindow is the lookahead distance used when Lookahead.Window is zero.
const DefaultWindow = 10

// DefaultMyersTimeout bounds the time the Myers aligner spends searching for
// a minimal script before settling for a valid but longer one.
const DefaultMyersTimeout = time.Second

// Lookahead is a locally greedy aligner. Matching tokens are consumed in
// lockstep; after a mismatch it searches up to Window tokens ahead on each
// side for the nearest resynchronization point and classifies the skipped
// tokens as Removed or Inserted. When nothing matches within the window one
// token from each side is classified as a substitution.
//
// The result is a valid edit script but not necessarily a minimal one.
type Lookahead struct {
	Window int
}

// Name returns AlgorithmLookahead.
func (Lookahead) Name() string { return AlgorithmLookahead }

// Align implements Aligner.
func (l Lookahead) Align(old, new []Token) Alignment {
	window := l.Window
	if window <= 0 {
		window = DefaultWindow
	}

	var b builder
	i, j := 0, 0
	for i < len(old) || j < len(new) {
		if i < len(old) && j < len(new) && old[i] == new[j] {
			b.add(Unchanged, old[i])
			i++
			j++
			continue
		}

		if k, side := resync(old, new, i, j, window); k > 0 {
			if side == Removed {
				b.add(Removed, old[i:i+k]...)
				i += k
			} else {
				b.add(Inserted, new[j:j+k]...)
				j += k
			}
			continue
		}

		if i < len(old) {
			b.add(Removed, old[i])
			i++
		}
		if j < len(new) {
			b.add(Inserted, new[j])
			j++
		}
	}
	return b.finish()
}

// resync finds the smallest k in [1, window] at which old[i+k] matches
// new[j] (skip k old tokens) or old[i] matches new[j+k] (skip k new tokens).
// When both match at the same k the side whose current token sorts lower is
// skipped, so swapping the inputs mirrors the choice. It returns k == 0 when
// either side is exhausted or no match lies within the window.
func resync(old, new []Token, i, j, window int) (int, Classification) {
	if i >= len(old) || j >= len(new) {
		return 0, Unchanged
	}
	for k := 1; k <= window; k++ {
		skipOld := i+k < len(old) && old[i+k] == new[j]
		skipNew := j+k < len(new) && old[i] == new[j+k]
		switch {
		case skipOld && skipNew:
			if old[i] < new[j] {
				return k, Removed
			}
			return k, Inserted
		case skipOld:
			return k, Removed
		case skipNew:
			return k, Inserted
		}
	}
	return 0, Unchanged
}
