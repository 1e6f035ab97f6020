package statemachine

import (
	"food-delivery-backend/models"
)

// forward is the fixed order lifecycle. Cancelled is not part of it: no
// advance produces it.
var forward = []models.OrderStatus{
	models.StatusConfirmed,
	models.StatusPreparing,
	models.StatusOutForDelivery,
	models.StatusDelivered,
}

// Initial is the status every new order starts in.
const Initial = models.StatusConfirmed

// Next returns the status following cur in the forward sequence.
//
// Advance never fails: the last status, and any status not in the sequence
// (cancelled or an unknown value), clamp to delivered. Advancing a cancelled
// order therefore delivers it.
func Next(cur models.OrderStatus) models.OrderStatus {
	for i, s := range forward {
		if s == cur && i+1 < len(forward) {
			return forward[i+1]
		}
	}
	return models.StatusDelivered
}

// Flow returns a copy of the forward status sequence.
func Flow() []models.OrderStatus {
	out := make([]models.OrderStatus, len(forward))
	copy(out, forward)
	return out
}

// Transition is one forward step, for documentation.
type Transition struct {
	From models.OrderStatus `json:"from"`
	To   models.OrderStatus `json:"to"`
}

// Transitions lists the forward steps in order.
func Transitions() []Transition {
	out := make([]Transition, 0, len(forward)-1)
	for i := 0; i+1 < len(forward); i++ {
		out = append(out, Transition{From: forward[i], To: forward[i+1]})
	}
	return out
}

// TerminalStates are the statuses an order normally ends in.
func TerminalStates() []models.OrderStatus {
	return []models.OrderStatus{models.StatusDelivered, models.StatusCancelled}
}
