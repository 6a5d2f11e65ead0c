// Package redis stores save points in Redis. Each save point is one string
// key; per-slot and global sorted sets scored by Unix milliseconds serve
// listing. Scores only narrow the candidates: the exact time filter, order
// and paging are applied to the decoded save points.
package redis

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/flowgraph/flowsave/internal/core/savepoint"
	"github.com/flowgraph/flowsave/pkg/serialization"
)

const defaultPrefix = "flowsave:"

// Saver implements savepoint.Saver for Redis.
type Saver struct {
	client     *redis.Client
	serializer *serialization.Serializer
	prefix     string
}

// NewSaver wraps an existing client.
func NewSaver(client *redis.Client, serializer *serialization.Serializer) *Saver {
	if serializer == nil {
		serializer = serialization.DefaultSerializer()
	}
	return &Saver{client: client, serializer: serializer, prefix: defaultPrefix}
}

// Open parses a redis:// URL, connects and pings.
func Open(ctx context.Context, url string, serializer *serialization.Serializer) (*Saver, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return NewSaver(client, serializer), nil
}

// WithPrefix namespaces every key.
func (s *Saver) WithPrefix(prefix string) *Saver {
	s.prefix = prefix
	return s
}

func (s *Saver) pointKey(id string) string  { return s.prefix + "savepoint:" + id }
func (s *Saver) slotKey(slot string) string { return s.prefix + "slot:" + slot }
func (s *Saver) allKey() string             { return s.prefix + "savepoints" }
func (s *Saver) slotsKey() string           { return s.prefix + "slots" }

// Save implements savepoint.Saver.
func (s *Saver) Save(ctx context.Context, sp *savepoint.SavePoint) error {
	if sp == nil {
		return savepoint.ErrInvalidSavePointID
	}
	if err := sp.Validate(); err != nil {
		return fmt.Errorf("save point validation failed: %w", err)
	}

	data, err := s.serializer.Serialize(sp)
	if err != nil {
		return fmt.Errorf("failed to serialize save point: %w", err)
	}

	oldSlot, err := s.client.HGet(ctx, s.slotsKey(), sp.ID).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("failed to read save point slot: %w", err)
	}

	score := float64(sp.Timestamp.UnixMilli())
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		if oldSlot != "" && oldSlot != sp.Slot {
			pipe.ZRem(ctx, s.slotKey(oldSlot), sp.ID)
		}
		pipe.Set(ctx, s.pointKey(sp.ID), data, 0)
		pipe.HSet(ctx, s.slotsKey(), sp.ID, sp.Slot)
		pipe.ZAdd(ctx, s.slotKey(sp.Slot), redis.Z{Score: score, Member: sp.ID})
		pipe.ZAdd(ctx, s.allKey(), redis.Z{Score: score, Member: sp.ID})
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save save point: %w", err)
	}
	return nil
}

// Load implements savepoint.Saver.
func (s *Saver) Load(ctx context.Context, id string) (*savepoint.SavePoint, error) {
	if id == "" {
		return nil, savepoint.ErrInvalidSavePointID
	}

	data, err := s.client.Get(ctx, s.pointKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, savepoint.ErrSavePointNotFound
		}
		return nil, fmt.Errorf("failed to load save point: %w", err)
	}
	return s.decode(data)
}

// List implements savepoint.Saver.
func (s *Saver) List(ctx context.Context, filter savepoint.Filter) ([]*savepoint.SavePoint, error) {
	if err := filter.Validate(); err != nil {
		return nil, fmt.Errorf("filter validation failed: %w", err)
	}

	ids, err := s.client.ZRangeArgs(ctx, s.rangeArgs(filter)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list save points: %w", err)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = s.pointKey(id)
	}
	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch save points: %w", err)
	}

	out := make([]*savepoint.SavePoint, 0, len(values))
	for _, v := range values {
		str, ok := v.(string)
		if !ok {
			// Deleted between the range and the fetch.
			continue
		}
		sp, err := s.decode([]byte(str))
		if err != nil {
			return nil, err
		}
		out = append(out, sp)
	}
	return narrow(out, filter), nil
}

// Delete implements savepoint.Saver.
func (s *Saver) Delete(ctx context.Context, id string) error {
	if id == "" {
		return savepoint.ErrInvalidSavePointID
	}

	slot, err := s.client.HGet(ctx, s.slotsKey(), id).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return savepoint.ErrSavePointNotFound
		}
		return fmt.Errorf("failed to read save point slot: %w", err)
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, s.pointKey(id))
		pipe.HDel(ctx, s.slotsKey(), id)
		pipe.ZRem(ctx, s.slotKey(slot), id)
		pipe.ZRem(ctx, s.allKey(), id)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete save point: %w", err)
	}
	return nil
}

// Close closes the client.
func (s *Saver) Close() error {
	return s.client.Close()
}

// rangeArgs selects every member whose millisecond score could hold a
// timestamp inside the filter's window. Offset and limit are not pushed down
// because several save points can share one millisecond.
func (s *Saver) rangeArgs(filter savepoint.Filter) redis.ZRangeArgs {
	key := s.allKey()
	if filter.Slot != "" {
		key = s.slotKey(filter.Slot)
	}

	args := redis.ZRangeArgs{
		Key:     key,
		Start:   "-inf",
		Stop:    "+inf",
		ByScore: true,
		Rev:     true,
	}
	if filter.Since != nil {
		args.Start = strconv.FormatInt(filter.Since.UnixMilli(), 10)
	}
	if filter.Before != nil {
		args.Stop = strconv.FormatInt(filter.Before.UnixMilli(), 10)
	}
	return args
}

// narrow applies the exact time window, newest-first order and paging to
// candidates fetched by millisecond score.
func narrow(candidates []*savepoint.SavePoint, filter savepoint.Filter) []*savepoint.SavePoint {
	out := candidates[:0]
	for _, sp := range candidates {
		if filter.Matches(sp) {
			out = append(out, sp)
		}
	}
	sortNewestFirst(out)
	return page(out, filter.Offset, filter.Limit)
}

func sortNewestFirst(points []*savepoint.SavePoint) {
	sort.Slice(points, func(i, j int) bool {
		if points[i].Timestamp.Equal(points[j].Timestamp) {
			return points[i].ID < points[j].ID
		}
		return points[i].Timestamp.After(points[j].Timestamp)
	})
}

func page(in []*savepoint.SavePoint, offset, limit int) []*savepoint.SavePoint {
	if offset >= len(in) {
		return nil
	}
	in = in[offset:]
	if limit > 0 && limit < len(in) {
		in = in[:limit]
	}
	return in
}

func (s *Saver) decode(data []byte) (*savepoint.SavePoint, error) {
	var sp savepoint.SavePoint
	if err := s.serializer.Deserialize(data, &sp); err != nil {
		return nil, fmt.Errorf("failed to deserialize save point: %w", err)
	}
	return &sp, nil
}
