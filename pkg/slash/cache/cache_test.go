package cache

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"
)

func TestNewRedisInvalidURL(t *testing.T) {
	if _, err := NewRedis(context.Background(), "not a url"); err == nil {
		t.Error("Expected error for invalid redis URL")
	}
}

// Requires a running redis; set TEST_REDIS_URL to enable.
func TestRedisRoundTrip(t *testing.T) {
	url := os.Getenv("TEST_REDIS_URL")
	if url == "" {
		t.Skip("TEST_REDIS_URL not set")
	}

	ctx := context.Background()
	c, err := NewRedis(ctx, url)
	if err != nil {
		t.Fatalf("Failed to connect: %v", err)
	}
	defer c.Close()

	type payload struct {
		Total int64 `json:"total"`
	}

	key := "test:" + time.Now().Format(time.RFC3339Nano)
	var got payload
	if err := c.GetJSON(ctx, key, &got); !errors.Is(err, ErrMiss) {
		t.Fatalf("Expected ErrMiss, got %v", err)
	}

	if err := c.SetJSON(ctx, key, payload{Total: 7}, time.Minute); err != nil {
		t.Fatalf("Failed to set: %v", err)
	}
	if err := c.GetJSON(ctx, key, &got); err != nil {
		t.Fatalf("Failed to get: %v", err)
	}
	if got.Total != 7 {
		t.Errorf("Expected total 7, got %d", got.Total)
	}
}
