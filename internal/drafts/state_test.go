package drafts_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shorebytelabs/nailsbyabri-sub003/internal/catalog"
	"github.com/shorebytelabs/nailsbyabri-sub003/internal/drafts"
	"github.com/shorebytelabs/nailsbyabri-sub003/pkg/enums"
	"github.com/shorebytelabs/nailsbyabri-sub003/pkg/types"
)

func testFulfillmentConfig() catalog.FulfillmentConfig {
	return catalog.FulfillmentConfig{
		Methods: map[enums.FulfillmentMethod]catalog.DeliveryMethod{
			enums.FulfillmentMethodPickup: {
				ID:           enums.FulfillmentMethodPickup,
				DefaultSpeed: "standard",
				SpeedOptions: map[string]catalog.SpeedOption{
					"standard": {ID: "standard", EstimatedDays: 7},
				},
			},
			enums.FulfillmentMethodShipping: {
				ID:           enums.FulfillmentMethodShipping,
				DefaultSpeed: "standard",
				SpeedOptions: map[string]catalog.SpeedOption{
					"standard": {ID: "standard", FeeCents: 599, EstimatedDays: 7},
				},
			},
		},
	}
}

// readyDraft builds a draft that passes every readiness condition; each test
// below breaks exactly one of them.
func readyDraft() drafts.Draft {
	draft := drafts.NewDraft(uuid.New())
	draft.UpsertSet(drafts.NailSet{
		ShapeID:     "almond",
		Quantity:    1,
		Description: strPtr("chrome french tips"),
	})
	draft.SetFulfillment(drafts.Fulfillment{
		Method: enums.FulfillmentMethodShipping,
		Speed:  "standard",
		Address: &types.Address{
			Name:       "Abri C",
			Line1:      "12 Polish Ln",
			City:       "Austin",
			PostalCode: "78701",
		},
	})
	return draft
}

func problemCodes(problems []drafts.Problem) []drafts.ProblemCode {
	codes := make([]drafts.ProblemCode, 0, len(problems))
	for _, p := range problems {
		codes = append(codes, p.Code)
	}
	return codes
}

func TestCheckReadyPasses(t *testing.T) {
	t.Parallel()

	assert.Empty(t, drafts.CheckReady(readyDraft(), testFulfillmentConfig()))
}

func TestCheckReadyEmptySetList(t *testing.T) {
	t.Parallel()

	draft := readyDraft()
	draft.NailSets = nil

	codes := problemCodes(drafts.CheckReady(draft, testFulfillmentConfig()))
	assert.Equal(t, []drafts.ProblemCode{drafts.ProblemNoSets}, codes)
}

func TestCheckReadyIncompleteSet(t *testing.T) {
	t.Parallel()

	draft := readyDraft()
	draft.UpsertSet(drafts.NailSet{ShapeID: "coffin", Quantity: 1})

	problems := drafts.CheckReady(draft, testFulfillmentConfig())
	require.Len(t, problems, 1)
	assert.Equal(t, drafts.ProblemIncompleteSet, problems[0].Code)
	assert.Equal(t, draft.NailSets[1].ID.String(), problems[0].SetID)
}

func TestCheckReadyMissingFulfillment(t *testing.T) {
	t.Parallel()

	draft := readyDraft()
	draft.Fulfillment = drafts.Fulfillment{}

	codes := problemCodes(drafts.CheckReady(draft, testFulfillmentConfig()))
	assert.Equal(t, []drafts.ProblemCode{drafts.ProblemNoFulfillment}, codes)
}

func TestCheckReadyUnknownSpeed(t *testing.T) {
	t.Parallel()

	draft := readyDraft()
	draft.Fulfillment.Speed = "teleport"

	codes := problemCodes(drafts.CheckReady(draft, testFulfillmentConfig()))
	assert.Contains(t, codes, drafts.ProblemNoFulfillment)
}

func TestCheckReadyMissingAddress(t *testing.T) {
	t.Parallel()

	draft := readyDraft()
	draft.Fulfillment.Address = nil

	codes := problemCodes(drafts.CheckReady(draft, testFulfillmentConfig()))
	assert.Equal(t, []drafts.ProblemCode{drafts.ProblemAddressRequired}, codes)
}

func TestCheckReadyIncompleteAddress(t *testing.T) {
	t.Parallel()

	draft := readyDraft()
	draft.Fulfillment.Address.PostalCode = ""

	problems := drafts.CheckReady(draft, testFulfillmentConfig())
	require.Len(t, problems, 1)
	assert.Equal(t, drafts.ProblemAddressIncomplete, problems[0].Code)
	assert.Equal(t, "postal_code", problems[0].Field)
}

func TestCheckReadyPickupNeedsNoAddress(t *testing.T) {
	t.Parallel()

	draft := readyDraft()
	draft.SetFulfillment(drafts.Fulfillment{
		Method: enums.FulfillmentMethodPickup,
		Speed:  "standard",
	})

	assert.Empty(t, drafts.CheckReady(draft, testFulfillmentConfig()))
}

func TestCanTransition(t *testing.T) {
	t.Parallel()

	tests := []struct {
		from enums.OrderStatus
		to   enums.OrderStatus
		want bool
	}{
		{enums.OrderStatusDraft, enums.OrderStatusPendingPayment, true},
		{enums.OrderStatusDraft, enums.OrderStatusCancelled, true},
		{enums.OrderStatusDraft, enums.OrderStatusCompleted, false},
		{enums.OrderStatusPendingPayment, enums.OrderStatusCompleted, true},
		{enums.OrderStatusPendingPayment, enums.OrderStatusCancelled, true},
		{enums.OrderStatusPendingPayment, enums.OrderStatusDraft, false},
		{enums.OrderStatusCompleted, enums.OrderStatusCancelled, false},
		{enums.OrderStatusCancelled, enums.OrderStatusDraft, false},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(string(tc.from)+"_to_"+string(tc.to), func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, drafts.CanTransition(tc.from, tc.to))
		})
	}
}

func TestTransitionBumpsRevision(t *testing.T) {
	t.Parallel()

	draft := readyDraft()
	before := draft.Revision

	require.NoError(t, draft.Transition(enums.OrderStatusPendingPayment))
	assert.Equal(t, enums.OrderStatusPendingPayment, draft.Status)
	assert.Equal(t, before+1, draft.Revision)

	err := draft.Transition(enums.OrderStatusDraft)
	require.Error(t, err)
	assert.Equal(t, enums.OrderStatusPendingPayment, draft.Status, "failed transition leaves status untouched")
}
