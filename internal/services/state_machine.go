package services

import (
	"order_manager/internal/apperrors"
	"order_manager/internal/models"
)

type channelSet map[models.Channel]bool

var allChannels = channelSet{
	models.ChannelDelivery: true,
	models.ChannelTable:    true,
	models.ChannelCounter:  true,
}

var deliveryOnly = channelSet{models.ChannelDelivery: true}

var tableAndCounter = channelSet{
	models.ChannelTable:   true,
	models.ChannelCounter: true,
}

// genericTransitions declares every transition reachable through the generic
// status-update operation, keyed by current status. Cancellation is handled
// separately (legal from any non-terminal state), and DELIVERED for table and
// counter orders is reachable only through close-bill.
var genericTransitions = map[models.OrderStatus]map[models.OrderStatus]channelSet{
	models.StatusPending: {
		models.StatusPrinting:  allChannels,
		models.StatusPreparing: allChannels,
		models.StatusEditing:   allChannels,
	},
	models.StatusPrinting: {
		models.StatusPreparing: allChannels,
		models.StatusEditing:   allChannels,
	},
	models.StatusPreparing: {
		models.StatusDispatched:      deliveryOnly,
		models.StatusEditing:         allChannels,
		models.StatusAwaitingPayment: tableAndCounter,
	},
	models.StatusDispatched: {
		// "delivered" on the delivery channel is a logistics fact, advanced
		// by the courier signal rather than by billing.
		models.StatusDelivered: deliveryOnly,
	},
	models.StatusEditing: {
		models.StatusEdited: allChannels,
	},
	models.StatusEdited: {
		models.StatusPrinting:  allChannels,
		models.StatusPreparing: allChannels,
	},
	models.StatusAwaitingPayment: {
		models.StatusPreparing: tableAndCounter,
	},
}

// closeBillSources lists the states a table/counter order may be billed out
// of. Delivery orders are billable from any non-terminal state since closing
// their bill does not move status.
var closeBillSources = map[models.OrderStatus]bool{
	models.StatusPreparing:       true,
	models.StatusAwaitingPayment: true,
}

// StateMachine is the authoritative rule set for order status transitions,
// declared as data so channel gating lives in one place.
type StateMachine struct {
	reopenTargets map[models.Channel]models.OrderStatus
}

func NewStateMachine(reopenTargets map[models.Channel]models.OrderStatus) *StateMachine {
	return &StateMachine{reopenTargets: reopenTargets}
}

// CheckTransition validates a generic status-update request.
func (m *StateMachine) CheckTransition(channel models.Channel, from, to models.OrderStatus) error {
	if from.Terminal() {
		return apperrors.InvalidTransition("order is %s; no further status changes are allowed", from)
	}
	if to == models.StatusCancelled {
		return nil
	}
	targets, ok := genericTransitions[from]
	if !ok {
		return apperrors.InvalidTransition("no transitions defined from %s", from)
	}
	channels, ok := targets[to]
	if !ok {
		return apperrors.InvalidTransition("cannot move from %s to %s", from, to)
	}
	if !channels[channel] {
		return apperrors.InvalidTransition("cannot move from %s to %s on the %s channel", from, to, channel)
	}
	return nil
}

// CheckCancel validates the dedicated cancel operation.
func (m *StateMachine) CheckCancel(from models.OrderStatus) error {
	if from.Terminal() {
		return apperrors.InvalidTransition("order is %s; it can no longer be cancelled", from)
	}
	return nil
}

// CloseBillTarget decides what closing the bill does to status. Table and
// counter orders move to DELIVERED; delivery orders keep their status and
// only flip the paid flag (payment is orthogonal to logistics there).
func (m *StateMachine) CloseBillTarget(channel models.Channel, from models.OrderStatus) (models.OrderStatus, error) {
	if from.Terminal() {
		return "", apperrors.InvalidTransition("order is %s; the bill can no longer be closed", from)
	}
	if channel == models.ChannelDelivery {
		return from, nil
	}
	if !closeBillSources[from] {
		return "", apperrors.InvalidTransition("cannot close the bill of a %s order in %s", channel, from)
	}
	return models.StatusDelivered, nil
}

// ReopenTarget is the only legal path back from a terminal state. The
// post-reopen status per channel is configuration, not hard-coded logic.
func (m *StateMachine) ReopenTarget(channel models.Channel, from models.OrderStatus) (models.OrderStatus, error) {
	if !from.Terminal() {
		return "", apperrors.InvalidTransition("only %s or %s orders can be reopened, not %s",
			models.StatusDelivered, models.StatusCancelled, from)
	}
	target, ok := m.reopenTargets[channel]
	if !ok {
		return "", apperrors.Invariant("no reopen target configured for channel %s", channel)
	}
	return target, nil
}
