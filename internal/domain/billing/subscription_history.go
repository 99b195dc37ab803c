package billing

import (
	"time"

	"github.com/backoffice/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// SubscriptionHistoryAction represents the kind of subscription transition recorded
type SubscriptionHistoryAction string

const (
	// SubscriptionHistoryActionCreated records a new subscription row being activated
	SubscriptionHistoryActionCreated SubscriptionHistoryAction = "CREATED"
	// SubscriptionHistoryActionUpgraded records an active row being replaced by a different plan
	SubscriptionHistoryActionUpgraded SubscriptionHistoryAction = "UPGRADED"
	// SubscriptionHistoryActionExpired records an active row being deactivated
	SubscriptionHistoryActionExpired SubscriptionHistoryAction = "EXPIRED"
)

// String returns the string representation of SubscriptionHistoryAction
func (a SubscriptionHistoryAction) String() string {
	return string(a)
}

// IsValid returns true if the history action is valid
func (a SubscriptionHistoryAction) IsValid() bool {
	switch a {
	case SubscriptionHistoryActionCreated, SubscriptionHistoryActionUpgraded, SubscriptionHistoryActionExpired:
		return true
	}
	return false
}

// SubscriptionHistory is an append-only audit record of one subscription
// transition. It is the sole source of historical truth for plan changes;
// expired subscription rows accumulate but are never re-interpreted.
type SubscriptionHistory struct {
	shared.BaseEntity
	TenantID       uuid.UUID
	SubscriptionID uuid.UUID
	OldPlanID      *uuid.UUID
	NewPlanID      *uuid.UUID
	Action         SubscriptionHistoryAction
	Notes          string
	PerformedBy    *uuid.UUID
	PerformedAt    time.Time
}

// NewSubscriptionHistory creates a new subscription history entry
func NewSubscriptionHistory(
	tenantID, subscriptionID uuid.UUID,
	action SubscriptionHistoryAction,
	notes string,
) (*SubscriptionHistory, error) {
	if tenantID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TENANT", "Tenant ID cannot be empty")
	}
	if subscriptionID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SUBSCRIPTION", "Subscription ID cannot be empty")
	}
	if !action.IsValid() {
		return nil, shared.NewDomainError("INVALID_ACTION", "Invalid history action")
	}

	return &SubscriptionHistory{
		BaseEntity:     shared.NewBaseEntity(),
		TenantID:       tenantID,
		SubscriptionID: subscriptionID,
		Action:         action,
		Notes:          notes,
		PerformedAt:    time.Now(),
	}, nil
}

// WithPlanChange sets the old and new plan IDs for the transition
func (h *SubscriptionHistory) WithPlanChange(oldPlanID, newPlanID *uuid.UUID) *SubscriptionHistory {
	h.OldPlanID = oldPlanID
	h.NewPlanID = newPlanID
	return h
}

// WithPerformedBy sets the acting user for the transition
func (h *SubscriptionHistory) WithPerformedBy(userID uuid.UUID) *SubscriptionHistory {
	h.PerformedBy = &userID
	return h
}
