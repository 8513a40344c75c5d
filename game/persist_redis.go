package game

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"
	"github.com/pkg/errors"
)

const (
	redisTableKeyPrefix  = "poker:table:"
	redisTableSetKey     = "poker:tables"
	redisPlayerKeyPrefix = "poker:player:"
)

// RedisTableStore is the shared store used when multiple processes serve
// the same table pool.
type RedisTableStore struct {
	rdclient *redis.Client
}

func NewRedisTableStore(redisURL string, redisPW string, redisDB int) *RedisTableStore {
	rdclient := redis.NewClient(&redis.Options{
		Addr:     redisURL,
		Password: redisPW,
		DB:       redisDB,
	})
	return &RedisTableStore{
		rdclient: rdclient,
	}
}

func tableKey(tableID string) string {
	return redisTableKeyPrefix + tableID
}

func playerKey(playerID uint64) string {
	return fmt.Sprintf("%s%d:table", redisPlayerKeyPrefix, playerID)
}

func (r *RedisTableStore) LoadTable(ctx context.Context, tableID string) (*Table, error) {
	tableBytes, err := r.rdclient.Get(ctx, tableKey(tableID)).Result()
	if err == redis.Nil {
		return nil, errors.Wrapf(ErrTableNotFound, "table %s", tableID)
	} else if err != nil {
		return nil, err
	}
	table := &Table{}
	if err := json.Unmarshal([]byte(tableBytes), table); err != nil {
		return nil, err
	}
	return table, nil
}

func (r *RedisTableStore) SaveTable(ctx context.Context, table *Table) error {
	tableBytes, err := json.Marshal(table)
	if err != nil {
		return err
	}
	if err := r.rdclient.Set(ctx, tableKey(table.ID), tableBytes, 0).Err(); err != nil {
		return err
	}
	return r.rdclient.SAdd(ctx, redisTableSetKey, table.ID).Err()
}

func (r *RedisTableStore) RemoveTable(ctx context.Context, tableID string) error {
	if err := r.rdclient.Del(ctx, tableKey(tableID)).Err(); err != nil {
		return err
	}
	return r.rdclient.SRem(ctx, redisTableSetKey, tableID).Err()
}

func (r *RedisTableStore) TableIDs(ctx context.Context) ([]string, error) {
	return r.rdclient.SMembers(ctx, redisTableSetKey).Result()
}

func (r *RedisTableStore) SetPlayerTable(ctx context.Context, playerID uint64, tableID string) error {
	return r.rdclient.Set(ctx, playerKey(playerID), tableID, 0).Err()
}

func (r *RedisTableStore) PlayerTable(ctx context.Context, playerID uint64) (string, error) {
	tableID, err := r.rdclient.Get(ctx, playerKey(playerID)).Result()
	if err == redis.Nil {
		return "", errors.Wrapf(ErrNoActiveTable, "player %d", playerID)
	} else if err != nil {
		return "", err
	}
	return tableID, nil
}

func (r *RedisTableStore) RemovePlayerTable(ctx context.Context, playerID uint64) error {
	return r.rdclient.Del(ctx, playerKey(playerID)).Err()
}
