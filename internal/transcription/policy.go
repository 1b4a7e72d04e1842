package transcription

import (
	"errors"
	"fmt"
)

// OppositeChannelSpeech is the raw text recorded for a right channel that was
// not transcribed because the left channel contained speech.
const OppositeChannelSpeech = "no speech detected (speech detected in opposite channel)"

// ErrInvalidTransition reports a PairPolicy call made out of order.
var ErrInvalidTransition = errors.New("invalid pair transition")

// PairState is the progress of one stereo file through the short-circuit policy.
type PairState int

const (
	PendingPrimary PairState = iota
	PrimaryDone
	SecondaryTranscribed
	SecondarySkipped
	Complete
)

func (s PairState) String() string {
	switch s {
	case PendingPrimary:
		return "pending_primary"
	case PrimaryDone:
		return "primary_done"
	case SecondaryTranscribed:
		return "secondary_transcribed"
	case SecondarySkipped:
		return "secondary_skipped"
	case Complete:
		return "complete"
	default:
		return fmt.Sprintf("pair_state(%d)", int(s))
	}
}

// PairPolicy decides whether the secondary (right) unit of a stereo file is
// transcribed, based on the primary (left) result.
//
//	PendingPrimary -> PrimaryDone -> SecondaryTranscribed | SecondarySkipped -> Complete
type PairPolicy struct {
	state           PairState
	primaryNoSpeech bool
	skippedBranch   bool
}

// NewPairPolicy returns a policy waiting for its primary result.
func NewPairPolicy() *PairPolicy {
	return &PairPolicy{state: PendingPrimary}
}

// State returns the current state.
func (p *PairPolicy) State() PairState {
	return p.state
}

// RecordPrimary stores whether the primary unit produced no speech.
func (p *PairPolicy) RecordPrimary(noSpeech bool) error {
	if p.state != PendingPrimary {
		return fmt.Errorf("%w: record primary in state %s", ErrInvalidTransition, p.state)
	}
	p.primaryNoSpeech = noSpeech
	p.state = PrimaryDone
	return nil
}

// DecideSecondary moves past PrimaryDone and reports whether the secondary
// unit must be sent to the model. It is true only when the primary unit had
// no speech.
func (p *PairPolicy) DecideSecondary() (bool, error) {
	if p.state != PrimaryDone {
		return false, fmt.Errorf("%w: decide secondary in state %s", ErrInvalidTransition, p.state)
	}
	if p.primaryNoSpeech {
		p.state = SecondaryTranscribed
		return true, nil
	}
	p.state = SecondarySkipped
	p.skippedBranch = true
	return false, nil
}

// RecordSecondary marks the secondary record as produced.
func (p *PairPolicy) RecordSecondary() error {
	if p.state != SecondaryTranscribed && p.state != SecondarySkipped {
		return fmt.Errorf("%w: record secondary in state %s", ErrInvalidTransition, p.state)
	}
	p.state = Complete
	return nil
}

// Skipped reports whether the secondary unit was short-circuited.
func (p *PairPolicy) Skipped() bool {
	return p.skippedBranch
}
