package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"countme-core/internal/domain"
	"countme-core/internal/store"
	"countme-core/pkg/hash"
)

// DeviceService manages the client installations syncing against a user's
// data. Pairing tokens are bcrypt-hashed at rest and returned exactly once.
type DeviceService struct {
	store *store.Store
}

func NewDeviceService(st *store.Store) *DeviceService {
	return &DeviceService{store: st}
}

func (s *DeviceService) Register(ctx context.Context, userID string, req *domain.RegisterDeviceRequest) (*domain.DeviceResponse, error) {
	token := uuid.New().String()
	tokenHash, err := hash.HashToken(token)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	device := &domain.Device{
		ID:         uuid.New().String(),
		UserID:     userID,
		Name:       req.Name,
		Platform:   req.Platform,
		TokenHash:  tokenHash,
		CreatedAt:  now,
		LastActive: now,
	}
	if err := s.store.PutDevice(ctx, device); err != nil {
		return nil, err
	}

	return &domain.DeviceResponse{
		ID:           device.ID,
		Name:         device.Name,
		Platform:     device.Platform,
		PairingToken: token,
		CreatedAt:    device.CreatedAt,
		LastActive:   device.LastActive,
		IsRevoked:    device.IsRevoked,
	}, nil
}

func (s *DeviceService) List(ctx context.Context, userID string) ([]*domain.DeviceResponse, error) {
	devices, err := s.store.Devices(ctx, userID)
	if err != nil {
		return nil, err
	}

	responses := make([]*domain.DeviceResponse, 0, len(devices))
	for _, d := range devices {
		responses = append(responses, &domain.DeviceResponse{
			ID:         d.ID,
			Name:       d.Name,
			Platform:   d.Platform,
			CreatedAt:  d.CreatedAt,
			LastActive: d.LastActive,
			IsRevoked:  d.IsRevoked,
		})
	}
	return responses, nil
}

func (s *DeviceService) Revoke(ctx context.Context, userID, deviceID string) error {
	device, err := s.store.DeviceByID(ctx, deviceID)
	if err != nil {
		return err
	}
	if device.UserID != userID {
		return ErrNotOwner
	}

	device.IsRevoked = true
	return s.store.PutDevice(ctx, device)
}

// Verify checks a pairing token against the stored hash and refreshes the
// device's last-active timestamp on success.
func (s *DeviceService) Verify(ctx context.Context, deviceID, token string) (*domain.Device, error) {
	device, err := s.store.DeviceByID(ctx, deviceID)
	if err != nil {
		return nil, err
	}
	if device.IsRevoked {
		return nil, ErrNotOwner
	}
	if err := hash.CompareToken(device.TokenHash, token); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if err := s.store.TouchDevice(ctx, deviceID, now); err != nil {
		return nil, err
	}
	device.LastActive = now
	return device, nil
}
