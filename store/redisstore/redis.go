package redisstore

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/battlesnakeio/nol/store"
	"github.com/go-redis/redis"
	"github.com/pkg/errors"
)

// RedisStore keeps each game in two keys: a hash holding the ended flag and
// a sorted set of JSON encoded turns scored by turn number.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore will create a new instance of an underlying redis client, so it should not be re-created across "threads"
// - connectURL see: github.com/go-redis/redis/options.go for URL specifics
// - ttl is how long a game is kept after its last write, zero keeps games forever
// The underlying redis client will be immediately tested for connectivity, so don't call this until you know redis can connect.
// Returns a new instance OR an error if unable (meaning an issue connecting to your redis URL)
func NewRedisStore(connectURL string, ttl time.Duration) (*RedisStore, error) {
	o, err := redis.ParseURL(connectURL)
	if err != nil {
		return nil, errors.Wrap(err, "unable to parse redis URL")
	}

	client := redis.NewClient(o)

	// Validate it's connected
	err = client.Ping().Err()
	if err != nil {
		return nil, errors.Wrap(err, "unable to connect")
	}

	return &RedisStore{client: client, ttl: ttl}, nil
}

// Close closes the underlying redis client.
func (rs *RedisStore) Close() error {
	return rs.client.Close()
}

func gameKey(id string) string  { return "nol:game:" + id }
func turnsKey(id string) string { return "nol:game:" + id + ":turns" }

func (rs *RedisStore) expire(pipe redis.Pipeliner, id string) {
	if rs.ttl <= 0 {
		return
	}
	pipe.Expire(gameKey(id), rs.ttl)
	pipe.Expire(turnsKey(id), rs.ttl)
}

func (rs *RedisStore) exists(c *redis.Client, id string) (bool, error) {
	n, err := c.Exists(gameKey(id)).Result()
	if err != nil {
		return false, errors.Wrap(err, "unable to check game")
	}
	return n > 0, nil
}

// CreateGame registers a game if it does not exist yet.
func (rs *RedisStore) CreateGame(ctx context.Context, id string) error {
	_, err := rs.client.WithContext(ctx).TxPipelined(func(pipe redis.Pipeliner) error {
		pipe.HSetNX(gameKey(id), "ended", "0")
		rs.expire(pipe, id)
		return nil
	})
	return errors.Wrap(err, "unable to create game")
}

// PushTurn stores a turn, replacing any turn with the same number.
func (rs *RedisStore) PushTurn(ctx context.Context, id string, t *store.Turn) error {
	data, err := json.Marshal(t)
	if err != nil {
		return errors.Wrap(err, "unable to marshal turn")
	}

	score := strconv.Itoa(t.Turn)
	_, err = rs.client.WithContext(ctx).TxPipelined(func(pipe redis.Pipeliner) error {
		pipe.HSetNX(gameKey(id), "ended", "0")
		pipe.ZRemRangeByScore(turnsKey(id), score, score)
		pipe.ZAdd(turnsKey(id), redis.Z{Score: float64(t.Turn), Member: data})
		rs.expire(pipe, id)
		return nil
	})
	return errors.Wrap(err, "unable to push turn")
}

// ListTurns will list turns by an offset and limit, it supports
// negative offset.
func (rs *RedisStore) ListTurns(ctx context.Context, id string, limit, offset int) ([]*store.Turn, error) {
	c := rs.client.WithContext(ctx)
	ok, err := rs.exists(c, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, store.ErrNotFound
	}
	if limit <= 0 {
		return nil, nil
	}

	var values []string
	if offset >= 0 {
		start := int64(offset)
		values, err = c.ZRange(turnsKey(id), start, start+int64(limit)-1).Result()
	} else {
		start := int64(-offset - 1)
		values, err = c.ZRevRange(turnsKey(id), start, start+int64(limit)-1).Result()
	}
	if err != nil {
		return nil, errors.Wrap(err, "unable to list turns")
	}

	var turns []*store.Turn
	for _, v := range values {
		t := &store.Turn{}
		if err := json.Unmarshal([]byte(v), t); err != nil {
			return nil, errors.Wrap(err, "unable to unmarshal turn")
		}
		turns = append(turns, t)
	}
	return turns, nil
}

// EndGame marks the game as ended.
func (rs *RedisStore) EndGame(ctx context.Context, id string) error {
	err := rs.client.WithContext(ctx).Watch(func(tx *redis.Tx) error {
		n, err := tx.Exists(gameKey(id)).Result()
		if err != nil {
			return errors.Wrap(err, "unable to check game")
		}
		if n == 0 {
			return store.ErrNotFound
		}
		_, err = tx.Pipelined(func(pipe redis.Pipeliner) error {
			pipe.HSet(gameKey(id), "ended", "1")
			rs.expire(pipe, id)
			return nil
		})
		return errors.Wrap(err, "unable to end game")
	}, gameKey(id))
	if errors.Cause(err) == store.ErrNotFound {
		return store.ErrNotFound
	}
	return err
}

// GetGame will fetch the game summary.
func (rs *RedisStore) GetGame(ctx context.Context, id string) (*store.Game, error) {
	c := rs.client.WithContext(ctx)
	ended, err := c.HGet(gameKey(id), "ended").Result()
	if err == redis.Nil {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "unable to get game")
	}

	count, err := c.ZCard(turnsKey(id)).Result()
	if err != nil {
		return nil, errors.Wrap(err, "unable to count turns")
	}
	g := &store.Game{ID: id, Turns: int(count), LastTurn: -1, Ended: ended == "1"}

	last, err := c.ZRevRangeWithScores(turnsKey(id), 0, 0).Result()
	if err != nil {
		return nil, errors.Wrap(err, "unable to get last turn")
	}
	if len(last) > 0 {
		g.LastTurn = int(last[0].Score)
	}
	return g, nil
}
