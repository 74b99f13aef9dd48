package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/jokeoa/goigaming/domain"
)

const snapshotTTL = 10 * time.Minute

// SnapshotStore keeps the latest public state of each poker table so that
// read requests can be served without waking the table goroutine.
type SnapshotStore struct {
	client *redis.Client
}

func NewSnapshotStore(client *redis.Client) *SnapshotStore {
	return &SnapshotStore{client: client}
}

func snapshotKey(tableID uuid.UUID) string {
	return "poker:table:" + tableID.String() + ":state"
}

func (s *SnapshotStore) SaveTableState(ctx context.Context, tableID uuid.UUID, state domain.WSTableState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("SnapshotStore.SaveTableState: %w", err)
	}
	if err := s.client.Set(ctx, snapshotKey(tableID), data, snapshotTTL).Err(); err != nil {
		return fmt.Errorf("SnapshotStore.SaveTableState: %w", err)
	}
	return nil
}

func (s *SnapshotStore) GetTableState(ctx context.Context, tableID uuid.UUID) (domain.WSTableState, bool, error) {
	var state domain.WSTableState

	data, err := s.client.Get(ctx, snapshotKey(tableID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return state, false, nil
	}
	if err != nil {
		return state, false, fmt.Errorf("SnapshotStore.GetTableState: %w", err)
	}
	if err := json.Unmarshal(data, &state); err != nil {
		return state, false, fmt.Errorf("SnapshotStore.GetTableState: %w", err)
	}
	return state, true, nil
}
