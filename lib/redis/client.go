package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
)

// Options contains options for connecting to Redis
type Options struct {
	Addr     string
	Password string
	DB       int
	// MaxLen caps a stream with approximate trimming; 0 keeps everything.
	MaxLen int64
}

// Client publishes events to Redis streams
type Client struct {
	rdb    *redis.Client
	maxLen int64
}

// NewClient creates a Redis client and checks the connection
func NewClient(ctx context.Context, options Options) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     options.Addr,
		Password: options.Password,
		DB:       options.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", options.Addr, err)
	}

	return &Client{rdb: rdb, maxLen: options.MaxLen}, nil
}

// Publish appends values to stream. Values are flattened to strings.
func (c *Client) Publish(ctx context.Context, stream string, values map[string]interface{}) error {
	fields := make(map[string]interface{}, len(values))
	for k, v := range values {
		s, err := stringify(v)
		if err != nil {
			return fmt.Errorf("failed to encode field %s: %w", k, err)
		}
		fields[k] = s
	}

	args := &redis.XAddArgs{
		Stream: stream,
		Values: fields,
	}
	if c.maxLen > 0 {
		args.MaxLen = c.maxLen
		args.Approx = true
	}
	return c.rdb.XAdd(ctx, args).Err()
}

// Close closes the connection pool
func (c *Client) Close() error {
	return c.rdb.Close()
}

func stringify(v interface{}) (string, error) {
	switch val := v.(type) {
	case string:
		return val, nil
	case []byte:
		return string(val), nil
	case int:
		return strconv.Itoa(val), nil
	case int64:
		return strconv.FormatInt(val, 10), nil
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), nil
	case bool:
		return strconv.FormatBool(val), nil
	case time.Time:
		return val.UTC().Format(time.RFC3339), nil
	default:
		raw, err := json.Marshal(v)
		if err != nil {
			return "", err
		}
		return string(raw), nil
	}
}
