package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	redisEventSeqKey  = "flashmaster:llm:seq"
	redisEventListKey = "flashmaster:llm:events"
	redisEventPrefix  = "flashmaster:llm:event:"
)

// Redis is a Backend that keeps app state and LLM events in a Redis server.
type Redis struct {
	client *redis.Client
}

var _ Backend = (*Redis)(nil)

// NewRedis connects to the server at redisURL and verifies it with a PING.
func NewRedis(ctx context.Context, redisURL string) (*Redis, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &Redis{client: client}, nil
}

// Close closes the client connection pool.
func (r *Redis) Close() error {
	return r.client.Close()
}

// KV returns the key/value view of this backend.
func (r *Redis) KV() KV {
	return redisKV{client: r.client}
}

// EventRepo returns an EventRepo backed by Redis lists.
func (r *Redis) EventRepo() EventRepo {
	return redisEventRepo{client: r.client}
}

type redisKV struct {
	client *redis.Client
}

func (k redisKV) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := k.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get %q: %w", key, err)
	}
	return v, true, nil
}

func (k redisKV) Set(ctx context.Context, key, value string) error {
	if err := k.client.Set(ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("set %q: %w", key, err)
	}
	return nil
}

type redisEventRepo struct {
	client *redis.Client
}

func (r redisEventRepo) AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error {
	id, err := r.client.Incr(ctx, redisEventSeqKey).Result()
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	rec := LLMRequestEventRecord{
		ID:           int(id),
		Timestamp:    time.Now(),
		Provider:     data.Provider,
		Model:        data.Model,
		Purpose:      data.Purpose,
		InputTokens:  data.InputTokens,
		OutputTokens: data.OutputTokens,
		LatencyMs:    data.LatencyMs,
		Success:      data.Success,
		ErrorMessage: data.ErrorMessage,
		RequestBody:  data.RequestBody,
		ResponseBody: data.ResponseBody,
	}
	b, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode LLM request event: %w", err)
	}

	_, err = r.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Set(ctx, redisEventPrefix+strconv.FormatInt(id, 10), b, 0)
		p.LPush(ctx, redisEventListKey, id)
		return nil
	})
	if err != nil {
		return fmt.Errorf("save LLM request event: %w", err)
	}
	return nil
}

// all returns every event, newest first.
func (r redisEventRepo) all(ctx context.Context) ([]LLMRequestEventRecord, error) {
	ids, err := r.client.LRange(ctx, redisEventListKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("list LLM events: %w", err)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = redisEventPrefix + id
	}
	vals, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("load LLM events: %w", err)
	}

	out := make([]LLMRequestEventRecord, 0, len(vals))
	for _, v := range vals {
		s, ok := v.(string)
		if !ok {
			continue
		}
		var rec LLMRequestEventRecord
		if err := json.Unmarshal([]byte(s), &rec); err != nil {
			return nil, fmt.Errorf("decode LLM event: %w", err)
		}
		out = append(out, rec)
	}
	return out, nil
}

func (r redisEventRepo) QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMRequestEventRecord, error) {
	events, err := r.all(ctx)
	if err != nil {
		return nil, err
	}
	return filterEvents(events, opts), nil
}

func (r redisEventRepo) GetLLMEvent(ctx context.Context, id int) (*LLMRequestEventRecord, error) {
	s, err := r.client.Get(ctx, redisEventPrefix+strconv.Itoa(id)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get LLM event: %w", err)
	}
	var rec LLMRequestEventRecord
	if err := json.Unmarshal([]byte(s), &rec); err != nil {
		return nil, fmt.Errorf("decode LLM event: %w", err)
	}
	return &rec, nil
}

func (r redisEventRepo) LLMUsageByPurpose(ctx context.Context) ([]LLMUsageStats, error) {
	events, err := r.all(ctx)
	if err != nil {
		return nil, err
	}
	return usageByPurpose(events), nil
}

func (r redisEventRepo) LLMUsageByModel(ctx context.Context) ([]LLMModelUsage, error) {
	events, err := r.all(ctx)
	if err != nil {
		return nil, err
	}
	return usageByModel(events), nil
}
