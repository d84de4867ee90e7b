package domain

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// EventType identifies the kind of ledger notification.
type EventType string

const (
	EventStudentAdded    EventType = "student.added"
	EventStudentRemoved  EventType = "student.removed"
	EventProviderAdded   EventType = "provider.added"
	EventProviderRemoved EventType = "provider.removed"
	EventProviderUpdated EventType = "provider.updated"
	EventTokensMinted    EventType = "tokens.minted"
	EventTokensBurned    EventType = "tokens.burned"
	EventTransfer        EventType = "transfer"
	EventApproval        EventType = "approval"
	EventServicePayment  EventType = "service.payment"
)

// Event is one typed notification emitted after a successful mutation.
// The attributes payload depends on the event type.
type Event struct {
	ID         uuid.UUID       `json:"id"`
	Type       EventType       `json:"type"`
	Attributes json.RawMessage `json:"attributes"`
	CreatedAt  time.Time       `json:"created_at"`
}

// NewEvent builds an event with marshaled attributes.
func NewEvent(eventType EventType, attributes any) (*Event, error) {
	raw, err := json.Marshal(attributes)
	if err != nil {
		return nil, fmt.Errorf("marshal %s attributes: %w", eventType, err)
	}
	return &Event{
		ID:         uuid.New(),
		Type:       eventType,
		Attributes: raw,
		CreatedAt:  time.Now().UTC(),
	}, nil
}

// MembershipAttrs is the payload of student.added / student.removed.
type MembershipAttrs struct {
	Student Address `json:"student"`
}

// ProviderAttrs is the payload of provider.added / provider.removed /
// provider.updated, carrying the profile after the mutation.
type ProviderAttrs struct {
	Provider Address `json:"provider"`
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Active   bool    `json:"active"`
}

// MintAttrs is the payload of tokens.minted.
type MintAttrs struct {
	Student Address `json:"student"`
	Amount  int64   `json:"amount"`
}

// BurnAttrs is the payload of tokens.burned.
type BurnAttrs struct {
	Holder Address `json:"holder"`
	Amount int64   `json:"amount"`
}

// TransferAttrs is the payload of transfer events, covering both direct
// and delegated transfers. Spender is set only for delegated ones.
type TransferAttrs struct {
	From    Address `json:"from"`
	To      Address `json:"to"`
	Amount  int64   `json:"amount"`
	Spender Address `json:"spender,omitempty"`
}

// ApprovalAttrs is the payload of approval events.
type ApprovalAttrs struct {
	Owner   Address `json:"owner"`
	Spender Address `json:"spender"`
	Amount  int64   `json:"amount"`
}

// ServicePaymentAttrs is the payload of service.payment events. The fee
// split always satisfies ProviderShare + Fee == Amount.
type ServicePaymentAttrs struct {
	Student       Address `json:"student"`
	Provider      Address `json:"provider"`
	Amount        int64   `json:"amount"`
	Fee           int64   `json:"fee"`
	ProviderShare int64   `json:"provider_share"`
}
