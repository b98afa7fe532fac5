package redis

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/wonny/roster/pkg/config"
)

func disabledClient(t *testing.T) *Client {
	t.Helper()
	client, err := New(context.Background(), &config.Config{Redis: config.RedisConfig{Enabled: false}})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return client
}

func TestNewClient_Disabled(t *testing.T) {
	client := disabledClient(t)

	if client.Enabled() {
		t.Error("Expected client to be disabled")
	}
	if err := client.Close(); err != nil {
		t.Errorf("Close() on disabled client error = %v", err)
	}
}

func TestNewClient_PingHonoursCallerContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cfg := &config.Config{Redis: config.RedisConfig{Enabled: true, Host: "127.0.0.1", Port: "1"}}
	client, err := New(ctx, cfg)
	if err == nil {
		t.Fatal("Expected ping error with a cancelled context")
	}
	if client != nil {
		t.Error("Expected no client on ping failure")
	}
	if !strings.Contains(err.Error(), "127.0.0.1:1") {
		t.Errorf("Expected address in error, got %v", err)
	}
}

func TestRateLimiter_Disabled(t *testing.T) {
	limiter := NewRateLimiter(disabledClient(t), "test")

	// When Redis is disabled, all requests should be allowed
	allowed, remaining, err := limiter.Allow(context.Background(), SourceRateLimit)
	if err != nil {
		t.Fatalf("Allow() error = %v", err)
	}
	if !allowed {
		t.Error("Expected request to be allowed when Redis disabled")
	}
	if remaining != SourceRateLimit.Limit {
		t.Errorf("Expected remaining = %d, got %d", SourceRateLimit.Limit, remaining)
	}

	if err := limiter.Wait(context.Background(), SourceRateLimit); err != nil {
		t.Errorf("Wait() error = %v", err)
	}
}

func TestCache_Disabled(t *testing.T) {
	cache := NewCache(disabledClient(t), "test")

	var result string
	found, err := cache.Get(context.Background(), MetricsKey(), &result)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if found {
		t.Error("Expected cache miss when Redis disabled")
	}

	if err := cache.Delete(context.Background(), MetricsKey()); err != nil {
		t.Errorf("Delete() error = %v", err)
	}
}

func TestCache_GetOrSetFallsThroughWhenDisabled(t *testing.T) {
	cache := NewCache(disabledClient(t), "test")

	calls := 0
	var dest map[string]int
	err := cache.GetOrSet(context.Background(), MetricsKey(), &dest, TTLDaily, func() (interface{}, error) {
		calls++
		return map[string]int{"total_employees": 10}, nil
	})
	if err != nil {
		t.Fatalf("GetOrSet() error = %v", err)
	}
	if calls != 1 {
		t.Errorf("Expected loader to be called once, got %d", calls)
	}
	if dest["total_employees"] != 10 {
		t.Errorf("Expected dest to be populated, got %v", dest)
	}
}

func TestCache_GetOrSetPropagatesLoaderError(t *testing.T) {
	cache := NewCache(disabledClient(t), "test")

	var dest map[string]int
	err := cache.GetOrSet(context.Background(), MetricsKey(), &dest, TTLDaily, func() (interface{}, error) {
		return nil, errors.New("dataset missing")
	})
	if err == nil || err.Error() != "dataset missing" {
		t.Errorf("Expected loader error, got %v", err)
	}
}

func TestCache_GetOrSetReportsMarshalError(t *testing.T) {
	cache := NewCache(disabledClient(t), "test")

	var dest map[string]int
	err := cache.GetOrSet(context.Background(), MetricsKey(), &dest, TTLDaily, func() (interface{}, error) {
		return make(chan int), nil
	})
	if err == nil || !strings.Contains(err.Error(), "cache marshal failed") {
		t.Errorf("Expected marshal error, got %v", err)
	}
}

func TestMetricsKey(t *testing.T) {
	if got := MetricsKey(); got != "metrics:latest" {
		t.Errorf("got %q, want %q", got, "metrics:latest")
	}
}
