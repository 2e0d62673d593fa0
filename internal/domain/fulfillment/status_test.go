package fulfillment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTrackingStatus_IsValid(t *testing.T) {
	for _, s := range allStatusIDs {
		assert.True(t, s.IsValid(), "catalog status %q should be valid", s)
	}
	assert.False(t, TrackingStatus("shipped").IsValid())
	assert.False(t, TrackingStatus("").IsValid())
}

func TestTrackingStatus_LabelAndCategory(t *testing.T) {
	for _, s := range allStatusIDs {
		assert.NotEmpty(t, s.Label())
		assert.NotEqual(t, s.String(), s.Label(), "status %q should have a curated label", s)
		assert.NotEmpty(t, s.Category())
	}
	assert.Equal(t, "Customs Clearance", StatusCustomsClearance.Label())
	assert.Equal(t, CategoryInternational, StatusCustomsClearance.Category())
	assert.Equal(t, CategoryTerminal, StatusCancelled.Category())
}

func TestTrackingStatus_IsInternationalOnly(t *testing.T) {
	internationalOnly := []TrackingStatus{
		StatusSupplierConfirmed,
		StatusAwaitingDispatch,
		StatusInternationalShipped,
		StatusCustomsClearance,
		StatusArrivedDestination,
		StatusLocalDispatch,
	}
	for _, s := range internationalOnly {
		assert.True(t, s.IsInternationalOnly(), "%q should be international-only", s)
	}
	assert.False(t, StatusProcessing.IsInternationalOnly())
	assert.False(t, StatusDelivered.IsInternationalOnly())
}

func TestCanonicalSequence(t *testing.T) {
	domestic := CanonicalSequence(OrderTypeStandard)
	international := CanonicalSequence(OrderTypePreorderInternational)

	assert.Len(t, domestic, 7)
	assert.Len(t, international, 13)

	// Both sequences share the same head and tail
	assert.Equal(t, StatusPendingPayment, domestic[0])
	assert.Equal(t, StatusPendingPayment, international[0])
	assert.Equal(t, StatusDelivered, domestic[len(domestic)-1])
	assert.Equal(t, StatusDelivered, international[len(international)-1])

	// Customs steps sit between ready_for_dispatch and out_for_delivery
	assert.Equal(t, StatusReadyForDispatch, international[4])
	assert.Equal(t, StatusSupplierConfirmed, international[5])
	assert.Equal(t, StatusOutForDelivery, international[11])

	// Absorbing states never appear in either sequence
	for _, seq := range [][]TrackingStatus{domestic, international} {
		assert.NotContains(t, seq, StatusCancelled)
		assert.NotContains(t, seq, StatusRefunded)
	}
}

func TestCanonicalSequence_ReturnsCopy(t *testing.T) {
	first := CanonicalSequence(OrderTypeStandard)
	first[0] = StatusCancelled
	second := CanonicalSequence(OrderTypeStandard)
	assert.Equal(t, StatusPendingPayment, second[0])
}

func TestSequenceIndex(t *testing.T) {
	tests := []struct {
		name      string
		orderType OrderType
		status    TrackingStatus
		want      int
	}{
		{"domestic first step", OrderTypeStandard, StatusPendingPayment, 0},
		{"domestic payment step", OrderTypeStandard, StatusPaymentCompleted, 1},
		{"domestic last step", OrderTypeStandard, StatusDelivered, 6},
		{"customs not in domestic sequence", OrderTypeStandard, StatusCustomsClearance, -1},
		{"customs in international sequence", OrderTypePreorderInternational, StatusCustomsClearance, 8},
		{"cancelled never sequenced", OrderTypePreorderInternational, StatusCancelled, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SequenceIndex(tt.orderType, tt.status))
		})
	}
}

func TestAllStatuses(t *testing.T) {
	all := AllStatuses()
	assert.Len(t, all, len(allStatusIDs))
	assert.Equal(t, StatusPending, all[0].ID)
	for _, d := range all {
		assert.Equal(t, d.ID.Label(), d.Label)
		assert.Equal(t, d.ID.Category(), d.Category)
	}
}

func TestSelectableStatuses(t *testing.T) {
	t.Run("standard order hides international statuses", func(t *testing.T) {
		out := SelectableStatuses(OrderTypeStandard, PaymentStatusPaid)
		for _, d := range out {
			assert.False(t, d.ID.IsInternationalOnly(), "%q should not be selectable for standard orders", d.ID)
		}
		assert.Len(t, out, len(allStatusIDs)-6)
	})

	t.Run("international order sees full catalog", func(t *testing.T) {
		out := SelectableStatuses(OrderTypePreorderInternational, PaymentStatusCompleted)
		assert.Len(t, out, len(allStatusIDs))
	})

	t.Run("unpaid order can only cancel", func(t *testing.T) {
		out := SelectableStatuses(OrderTypePreorderInternational, PaymentStatusPending)
		assert.Len(t, out, 1)
		assert.Equal(t, StatusCancelled, out[0].ID)
	})
}

func TestPaymentStatus_IsSettled(t *testing.T) {
	assert.False(t, PaymentStatusPending.IsSettled())
	assert.True(t, PaymentStatusPaid.IsSettled())
	assert.True(t, PaymentStatusCompleted.IsSettled())
}
