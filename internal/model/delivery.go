package model

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Delivery is one recorded ball. Once appended to a match's ball log it
// is immutable; corrections go through undo, never in-place edits.
type Delivery struct {
	ID      string `json:"id"`
	MatchID int64  `json:"match_id"`
	Innings int    `json:"innings"`
	// Over is 1-based; BallInOver is the position within the over.
	Over       int `json:"over"`
	BallInOver int `json:"ball_in_over"`
	// Runs is the full run value of the ball, extras included.
	Runs         int        `json:"runs"`
	StrikerID    int64      `json:"striker_id"`
	NonStrikerID int64      `json:"non_striker_id"`
	BowlerID     int64      `json:"bowler_id"`
	Wide         bool       `json:"wide"`
	NoBall       bool       `json:"no_ball"`
	Bye          bool       `json:"bye"`
	LegBye       bool       `json:"leg_bye"`
	Wicket       bool       `json:"wicket"`
	WicketKind   WicketKind `json:"wicket_kind,omitempty"`
	// FielderID is set only for caught/run-out/stumped; zero means none.
	FielderID  int64     `json:"fielder_id,omitempty"`
	Commentary string    `json:"commentary,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// Legal reports whether the ball counts toward the over's six.
func (d Delivery) Legal() bool { return !d.Wide && !d.NoBall }

// Extra reports whether any extras flag is set.
func (d Delivery) Extra() bool { return d.Wide || d.NoBall || d.Bye || d.LegBye }

// BatRuns is the run value credited to the striker's bat: zero on any
// extras delivery, the full run value otherwise.
func (d Delivery) BatRuns() int {
	if d.Extra() {
		return 0
	}
	return d.Runs
}

var (
	// ErrExtrasConflict rejects flag combinations that would double-count
	// runs under the extras accounting rules.
	ErrExtrasConflict = errors.New("conflicting extras flags")
	// ErrWicketKindOnExtra rejects dismissals that cannot occur on the
	// given kind of extra.
	ErrWicketKindOnExtra = errors.New("wicket kind not possible on this extra")
)

// Validate enforces the delivery construction invariants: at most one of
// {wide, no-ball}, at most one of {bye, leg-bye}, the two groups mutually
// exclusive, a known wicket kind whenever the wicket flag is set, and the
// dismissal/extra legality table:
//
//	wide    -> run-out, stumped, hit-wicket
//	no-ball -> run-out
//	bye/leg-bye -> run-out, stumped
//
// ProcessBall trusts a validated delivery and does not re-check.
func (d Delivery) Validate() error {
	if d.Runs < 0 {
		return fmt.Errorf("runs must be >= 0, got %d", d.Runs)
	}
	if d.StrikerID <= 0 || d.NonStrikerID <= 0 || d.BowlerID <= 0 {
		return errors.New("striker, non-striker and bowler are required")
	}
	if d.StrikerID == d.NonStrikerID {
		return errors.New("striker and non-striker must differ")
	}
	if d.Wide && d.NoBall {
		return fmt.Errorf("%w: wide and no-ball", ErrExtrasConflict)
	}
	if d.Bye && d.LegBye {
		return fmt.Errorf("%w: bye and leg-bye", ErrExtrasConflict)
	}
	if (d.Wide || d.NoBall) && (d.Bye || d.LegBye) {
		return fmt.Errorf("%w: wide/no-ball with bye/leg-bye", ErrExtrasConflict)
	}
	if !d.Wicket {
		if d.WicketKind != "" {
			return errors.New("wicket kind set without wicket flag")
		}
		return nil
	}
	if !ValidWicketKind(d.WicketKind) {
		return fmt.Errorf("unknown wicket kind %q", d.WicketKind)
	}
	switch {
	case d.Wide:
		if d.WicketKind != WicketRunOut && d.WicketKind != WicketStumped && d.WicketKind != WicketHitWicket {
			return fmt.Errorf("%w: %s on a wide", ErrWicketKindOnExtra, d.WicketKind)
		}
	case d.NoBall:
		if d.WicketKind != WicketRunOut {
			return fmt.Errorf("%w: %s on a no-ball", ErrWicketKindOnExtra, d.WicketKind)
		}
	case d.Bye || d.LegBye:
		if d.WicketKind != WicketRunOut && d.WicketKind != WicketStumped {
			return fmt.Errorf("%w: %s on a bye/leg-bye", ErrWicketKindOnExtra, d.WicketKind)
		}
	}
	if d.FielderID == 0 {
		switch d.WicketKind {
		case WicketCaught, WicketRunOut, WicketStumped:
			return fmt.Errorf("fielder required for %s", d.WicketKind)
		}
	}
	return nil
}

// NewDelivery stamps identity and creation time on a validated delivery.
func NewDelivery(d Delivery) (Delivery, error) {
	if err := d.Validate(); err != nil {
		return Delivery{}, err
	}
	d.ID = uuid.NewString()
	d.CreatedAt = time.Now().UTC()
	return d, nil
}

// Describe builds the human-readable commentary line for a delivery.
// It is derived, never authoritative.
func Describe(d Delivery, striker, bowler string) string {
	what := fmt.Sprintf("%d run", d.Runs)
	if d.Runs != 1 {
		what += "s"
	}
	switch {
	case d.Wide:
		what = fmt.Sprintf("wide, %s", what)
	case d.NoBall:
		what = fmt.Sprintf("no-ball, %s", what)
	case d.Bye:
		what = fmt.Sprintf("%s in byes", what)
	case d.LegBye:
		what = fmt.Sprintf("%s in leg-byes", what)
	case d.Runs == 4:
		what = "FOUR"
	case d.Runs == 6:
		what = "SIX"
	}
	line := fmt.Sprintf("%d.%d %s to %s: %s", d.Over-1, d.BallInOver, bowler, striker, what)
	if d.Wicket {
		line += fmt.Sprintf(", WICKET (%s)", d.WicketKind)
	}
	return line
}
