package gadgets

import (
	"time"

	apperrors "github.com/jrsteele09/go-gadget-server/internal/errors"
)

// transitions lists the statuses reachable from each status. Every status
// change in this package goes through TransitionTo.
var transitions = map[Status]map[Status]bool{
	StatusAvailable: {
		StatusAvailable:      true,
		StatusDeployed:       true,
		StatusDecommissioned: true,
		StatusDestroyed:      true,
	},
	StatusDeployed: {
		StatusAvailable:      true,
		StatusDeployed:       true,
		StatusDecommissioned: true,
		StatusDestroyed:      true,
	},
	StatusDecommissioned: {
		StatusDecommissioned: true,
		StatusDestroyed:      true,
	},
	StatusDestroyed: {
		StatusDestroyed: true,
	},
}

// CanTransition reports whether a gadget in from may move to to.
func CanTransition(from, to Status) bool {
	return transitions[from][to]
}

// TransitionTo moves the gadget to status, stamping DecommissionedOn on entry
// to DECOMMISSIONED. Entering DESTROYED stamps it only if it is still unset.
func (g *Gadget) TransitionTo(status Status, now time.Time) error {
	if !CanTransition(g.Status, status) {
		return apperrors.Newf(ErrInvalidTransition, "Gadget with id %s cannot move from %s to %s!", g.ID, g.Status, status)
	}

	switch status {
	case StatusDecommissioned:
		stamp := now
		g.DecommissionedOn = &stamp
	case StatusDestroyed:
		if g.DecommissionedOn == nil {
			stamp := now
			g.DecommissionedOn = &stamp
		}
	}
	g.Status = status
	return nil
}
