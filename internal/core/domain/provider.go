package domain

import "time"

// ServiceProvider is a registered account eligible to receive service
// payments while active. Records are never deleted, only deactivated,
// reactivated or edited.
type ServiceProvider struct {
	Address   Address   `json:"address"`
	Name      string    `json:"name"`
	Category  string    `json:"category"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
