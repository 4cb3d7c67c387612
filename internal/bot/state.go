package bot

import (
	"context"
	"errors"
	"fmt"

	"sauna-offer-bot/internal/quotation"
	"sauna-offer-bot/pkg/redis"
)

// UserState is the dialog progress of one chat.
type UserState struct {
	Step     string                 `json:"step"`
	Request  quotation.Request      `json:"request"`
	Delivery quotation.DeliveryInfo `json:"delivery"`
}

type StateStorage struct {
	store StateStore
}

func NewStateStorage(store StateStore) *StateStorage {
	return &StateStorage{store: store}
}

func (s *StateStorage) Save(ctx context.Context, chatID int64, state UserState) error {
	if err := s.store.SaveState(ctx, chatID, state); err != nil {
		return fmt.Errorf("failed to save state: %w", err)
	}
	return nil
}

// Get returns the stored state, or an empty one when the chat has none.
func (s *StateStorage) Get(ctx context.Context, chatID int64) (UserState, error) {
	var state UserState
	err := s.store.GetState(ctx, chatID, &state)
	if errors.Is(err, redis.ErrNotFound) {
		return UserState{}, nil
	}
	if err != nil {
		return UserState{}, fmt.Errorf("failed to get state: %w", err)
	}
	return state, nil
}

func (s *StateStorage) Clear(ctx context.Context, chatID int64) error {
	if err := s.store.ClearState(ctx, chatID); err != nil {
		return fmt.Errorf("failed to clear state: %w", err)
	}
	return nil
}
