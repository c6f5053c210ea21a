package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

func TestDisabledCache(t *testing.T) {
	cache := NewDisabledCache()
	ctx := context.Background()

	if cache.Available() {
		t.Error("disabled cache must report unavailable")
	}

	var dest string
	if err := cache.Get(ctx, "k", &dest); !errors.Is(err, redis.Nil) {
		t.Errorf("Get on disabled cache = %v, want redis.Nil", err)
	}
	if err := cache.Set(ctx, "k", "v", time.Second); err != nil {
		t.Errorf("Set on disabled cache = %v, want nil", err)
	}
	if err := cache.Delete(ctx, "k"); err != nil {
		t.Errorf("Delete on disabled cache = %v, want nil", err)
	}
	if err := cache.DeleteByPattern(ctx, "evaluations:*"); err != nil {
		t.Errorf("DeleteByPattern on disabled cache = %v, want nil", err)
	}
	if err := cache.Publish(ctx, "ch", "msg"); err != nil {
		t.Errorf("Publish on disabled cache = %v, want nil", err)
	}
	if sub := cache.Subscribe(ctx, "ch"); sub != nil {
		t.Error("Subscribe on disabled cache should return nil")
	}
	if err := cache.Close(); err != nil {
		t.Errorf("Close on disabled cache = %v, want nil", err)
	}
}
