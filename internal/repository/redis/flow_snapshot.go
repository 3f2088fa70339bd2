package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"mobile-detailing-backend/internal/domain"
	"mobile-detailing-backend/internal/logger"
	"mobile-detailing-backend/internal/repository"

	"github.com/redis/go-redis/v9"
)

const flowKeyPrefix = "booking:flow:"

type flowSnapshotStore struct {
	client *redis.Client
}

// NewFlowSnapshotStore persists booking flow snapshots as JSON values with a TTL.
func NewFlowSnapshotStore(client *redis.Client) repository.FlowSnapshotRepository {
	return &flowSnapshotStore{client: client}
}

// NewClient builds a client and checks the server is reachable.
func NewClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}
	return client, nil
}

func (s *flowSnapshotStore) Save(ctx context.Context, snap *domain.FlowSnapshot, ttl time.Duration) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	logger.ExternalServiceCall("redis", "SET", "flowID", snap.ID, "ttl", ttl)
	err = s.client.Set(ctx, flowKeyPrefix+snap.ID, data, ttl).Err()
	logger.ExternalServiceResult("redis", "SET", err, "flowID", snap.ID)
	return err
}

func (s *flowSnapshotStore) Get(ctx context.Context, id string) (*domain.FlowSnapshot, error) {
	data, err := s.client.Get(ctx, flowKeyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		logger.ExternalServiceResult("redis", "GET", err, "flowID", id)
		return nil, err
	}
	var snap domain.FlowSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

func (s *flowSnapshotStore) Delete(ctx context.Context, id string) error {
	return s.client.Del(ctx, flowKeyPrefix+id).Err()
}
