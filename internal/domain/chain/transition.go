package chain

import "fmt"

// CanDecide reports whether a decision at the given stage is currently
// legal. A stage is actionable only when every earlier stage is approved
// and the stage itself is still pending; once any stage rejects, the whole
// chain is terminal.
func CanDecide(t Trail, s Stage) error {
	if !s.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidStage, s)
	}

	if rejected, ok := t.FirstRejected(); ok {
		return fmt.Errorf("%w: request was rejected by %s", ErrInvalidTransition, rejected.DisplayName())
	}

	record := t.Record(s)
	if record.Status.Decided() {
		return fmt.Errorf("%w: %s stage already %s", ErrInvalidTransition, s.DisplayName(), record.Status)
	}

	for i := 0; i < s.Ordinal(); i++ {
		prev := stageOrder[i]
		if t.Record(prev).Status != StatusApproved {
			return fmt.Errorf("%w: %s stage is still %s", ErrInvalidTransition, prev.DisplayName(), t.Record(prev).Status)
		}
	}

	return nil
}

// Apply records a decision at the given stage and returns the new trail
// together with the notification routing it obliges. The input trail is
// left untouched; on error the returned trail equals the input.
func Apply(t Trail, s Stage, d Decision, remarks string) (Trail, Outcome, error) {
	if d != DecisionApprove && d != DecisionReject {
		return t, Outcome{}, fmt.Errorf("%w: %q", ErrInvalidDecision, d)
	}

	if err := CanDecide(t, s); err != nil {
		return t, Outcome{}, err
	}

	updated := t.withRecord(s, StageRecord{
		Status:  d.Status(),
		Remarks: remarks,
	})

	return updated, routeFor(s, d), nil
}
