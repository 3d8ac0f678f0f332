package domain

import "time"

// Device is a client installation that syncs against this user's data. The
// pairing token is returned exactly once at registration; only its hash is
// kept.
type Device struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	Name       string    `json:"name"`
	Platform   string    `json:"platform"`
	TokenHash  string    `json:"-"`
	CreatedAt  time.Time `json:"created_at"`
	LastActive time.Time `json:"last_active"`
	IsRevoked  bool      `json:"is_revoked"`
}

type RegisterDeviceRequest struct {
	Name     string `json:"name" validate:"required"`
	Platform string `json:"platform" validate:"required,oneof=ios android macos windows linux web"`
}

type DeviceResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Platform     string    `json:"platform"`
	PairingToken string    `json:"pairing_token,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	LastActive   time.Time `json:"last_active"`
	IsRevoked    bool      `json:"is_revoked"`
}
