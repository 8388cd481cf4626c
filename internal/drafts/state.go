package drafts

import (
	"fmt"

	"github.com/shorebytelabs/nailsbyabri-sub003/internal/catalog"
	"github.com/shorebytelabs/nailsbyabri-sub003/pkg/enums"
)

// ProblemCode identifies one reason a draft cannot proceed to payment.
type ProblemCode string

const (
	ProblemNoSets             ProblemCode = "no_sets"
	ProblemIncompleteSet      ProblemCode = "incomplete_set"
	ProblemNoFulfillment      ProblemCode = "no_fulfillment"
	ProblemUnknownFulfillment ProblemCode = "unknown_fulfillment"
	ProblemAddressRequired    ProblemCode = "address_required"
	ProblemAddressIncomplete  ProblemCode = "address_incomplete"
)

// Problem is one non-blocking readiness failure. Problems disable the
// proceed action; they are never raised as errors.
type Problem struct {
	Code    ProblemCode `json:"code"`
	Message string      `json:"message"`
	SetID   string      `json:"set_id,omitempty"`
	Field   string      `json:"field,omitempty"`
}

// CheckReady evaluates the proceed-to-payment guard and returns every
// failing condition. An empty result means the draft may be submitted:
// at least one set, every set complete, a valid method and speed chosen,
// and a usable address when the method involves physical transport.
func CheckReady(d Draft, cfg catalog.FulfillmentConfig) []Problem {
	var problems []Problem

	if len(d.NailSets) == 0 {
		problems = append(problems, Problem{
			Code:    ProblemNoSets,
			Message: "add at least one nail set",
		})
	}
	for _, set := range d.NailSets {
		if !set.IsComplete() {
			problems = append(problems, Problem{
				Code:    ProblemIncompleteSet,
				Message: "set needs a design upload, a description, or a follow-up request",
				SetID:   set.ID.String(),
			})
		}
	}

	if d.Fulfillment.Method == "" {
		problems = append(problems, Problem{
			Code:    ProblemNoFulfillment,
			Message: "choose a delivery method",
		})
		return problems
	}
	method, ok := cfg.Methods[d.Fulfillment.Method]
	if !ok {
		problems = append(problems, Problem{
			Code:    ProblemUnknownFulfillment,
			Message: fmt.Sprintf("delivery method %q is not offered", d.Fulfillment.Method),
		})
		return problems
	}
	if _, ok := method.SpeedOptions[d.Fulfillment.Speed]; !ok {
		problems = append(problems, Problem{
			Code:    ProblemNoFulfillment,
			Message: "choose a turnaround speed",
			Field:   "speed",
		})
	}

	if d.Fulfillment.Method.RequiresAddress() {
		if d.Fulfillment.Address == nil {
			problems = append(problems, Problem{
				Code:    ProblemAddressRequired,
				Message: "a delivery address is required",
			})
		} else {
			for _, field := range d.Fulfillment.Address.MissingFields() {
				problems = append(problems, Problem{
					Code:    ProblemAddressIncomplete,
					Message: fmt.Sprintf("address is missing %s", field),
					Field:   field,
				})
			}
		}
	}

	return problems
}

// CanTransition reports whether moving an order between the two statuses is
// allowed. Payment failure is not a status transition: a failed intent keeps
// the order in pending_payment for retry.
func CanTransition(from, to enums.OrderStatus) bool {
	switch from {
	case enums.OrderStatusDraft:
		return to == enums.OrderStatusPendingPayment || to == enums.OrderStatusCancelled
	case enums.OrderStatusPendingPayment:
		return to == enums.OrderStatusCompleted || to == enums.OrderStatusCancelled
	default:
		return false
	}
}

// Transition validates and applies a status change on the draft.
func (d *Draft) Transition(to enums.OrderStatus) error {
	if !CanTransition(d.Status, to) {
		return fmt.Errorf("cannot transition order from %s to %s", d.Status, to)
	}
	d.Status = to
	d.Revision++
	return nil
}
