package gadgets

import (
	"strings"
	"time"
)

// Status is the operational state of a gadget.
type Status string

const (
	StatusAvailable      Status = "AVAILABLE"
	StatusDeployed       Status = "DEPLOYED"
	StatusDecommissioned Status = "DECOMMISSIONED"
	StatusDestroyed      Status = "DESTROYED"
)

var statuses = []Status{StatusAvailable, StatusDeployed, StatusDecommissioned, StatusDestroyed}

// ParseStatus accepts a status name in any letter case.
func ParseStatus(s string) (Status, bool) {
	candidate := Status(strings.ToUpper(strings.TrimSpace(s)))
	for _, status := range statuses {
		if status == candidate {
			return status, true
		}
	}
	return "", false
}

type Gadget struct {
	ID               string     `json:"id"`
	Name             string     `json:"name"`
	Status           Status     `json:"status"`
	DecommissionedOn *time.Time `json:"decommissionedOn,omitempty"`
}

// Listing is a gadget as returned by List. SuccessProbability is regenerated
// on every call and never stored.
type Listing struct {
	Gadget
	SuccessProbability int `json:"successProbability"`
}
