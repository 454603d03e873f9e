package utils

import (
	"context"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/mongo"
)

// HealthStatus represents current status of external services.
type HealthStatus struct {
	Mongo     *bool           `json:"mongo,omitempty"`
	Redis     map[string]bool `json:"redis"`
	Catalog   string          `json:"catalog,omitempty"`
	Sessions  int             `json:"sessions"`
	CheckedAt time.Time       `json:"checkedAt"`
}

// Healthy reports whether every checked dependency answered.
func (h HealthStatus) Healthy() bool {
	if h.Mongo != nil && !*h.Mongo {
		return false
	}
	for _, ok := range h.Redis {
		if !ok {
			return false
		}
	}
	return h.Catalog != "open"
}

// HealthChecks lists what the monitor pings. Nil fields are skipped.
type HealthChecks struct {
	Redis        map[string]*redis.Client
	Mongo        *mongo.Client
	CatalogState func() string
	SessionCount func() int
}

var (
	currentHealth HealthStatus
	mu            sync.RWMutex
)

// GetHealthStatus returns latest stored health snapshot.
func GetHealthStatus() HealthStatus {
	mu.RLock()
	defer mu.RUnlock()
	return currentHealth
}

// CheckHealth runs every check once and stores the result.
func CheckHealth(ctx context.Context, checks HealthChecks) HealthStatus {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	status := HealthStatus{Redis: map[string]bool{}, CheckedAt: time.Now()}
	for name, client := range checks.Redis {
		status.Redis[name] = client.Ping(ctx).Err() == nil
	}
	if checks.Mongo != nil {
		ok := checks.Mongo.Ping(ctx, nil) == nil
		status.Mongo = &ok
	}
	if checks.CatalogState != nil {
		status.Catalog = checks.CatalogState()
	}
	if checks.SessionCount != nil {
		status.Sessions = checks.SessionCount()
	}

	mu.Lock()
	currentHealth = status
	mu.Unlock()
	return status
}

// StartHealthMonitor performs periodic health checks until ctx is done.
func StartHealthMonitor(ctx context.Context, checks HealthChecks, every time.Duration) {
	CheckHealth(ctx, checks)
	go func() {
		ticker := time.NewTicker(every)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				CheckHealth(ctx, checks)
			}
		}
	}()
}
