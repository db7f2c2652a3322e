// Package store persists plan snapshots and activity records in Redis.
// It is a reference consumer of the core's round-trip contract: every
// field, enumeration labels included, survives save/load unchanged.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/planforge/planforge/internal/activity"
	"github.com/planforge/planforge/internal/fault"
	"github.com/planforge/planforge/internal/logger"
	"github.com/planforge/planforge/internal/plan"
)

const (
	planKeyPrefix   = "planforge:plan:"
	activityPrefix  = "planforge:activity:"
	snapshotVersion = 1
)

// snapshot wraps a plan with a schema version so future payload changes
// stay readable.
type snapshot struct {
	Version int               `json:"version"`
	SavedAt time.Time         `json:"saved_at"`
	Plan    *plan.NetworkPlan `json:"plan"`
}

// Store reads and writes planforge state in Redis.
type Store struct {
	rdb *redis.Client
	log *logger.Logger
}

// New creates a store around an existing Redis client.
func New(rdb *redis.Client, log *logger.Logger) *Store {
	if log == nil {
		log = logger.Default()
	}
	return &Store{rdb: rdb, log: log}
}

// Connect dials Redis and verifies the connection.
func Connect(ctx context.Context, addr string, db int, log *logger.Logger) (*Store, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr, DB: db})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fault.Wrap(err, "redis unreachable")
	}
	return New(rdb, log), nil
}

// Close releases the underlying client.
func (s *Store) Close() error {
	return s.rdb.Close()
}

func planKey(taskID string) string {
	return planKeyPrefix + taskID
}

// ActivityStreamKey returns the stream key for a task's activity records.
func ActivityStreamKey(taskID string) string {
	return activityPrefix + taskID
}

// SavePlan stores a versioned snapshot of the task's plan.
func (s *Store) SavePlan(ctx context.Context, taskID string, p *plan.NetworkPlan) error {
	if p == nil {
		return fault.Validationf("cannot save nil plan for task %s", taskID)
	}

	data, err := json.Marshal(snapshot{
		Version: snapshotVersion,
		SavedAt: time.Now(),
		Plan:    p,
	})
	if err != nil {
		return fault.Wrap(err, "marshal plan snapshot")
	}

	if err := s.rdb.Set(ctx, planKey(taskID), string(data), 0).Err(); err != nil {
		return fault.Wrap(err, "write plan snapshot")
	}
	s.log.WithField("task", taskID).Debug("plan snapshot saved")
	return nil
}

// LoadPlan retrieves the task's plan snapshot.
func (s *Store) LoadPlan(ctx context.Context, taskID string) (*plan.NetworkPlan, error) {
	data, err := s.rdb.Get(ctx, planKey(taskID)).Bytes()
	if err == redis.Nil {
		return nil, fault.NotFound("plan", taskID)
	}
	if err != nil {
		return nil, fault.Wrap(err, "read plan snapshot")
	}

	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fault.Wrap(err, "decode plan snapshot")
	}
	if snap.Plan == nil {
		return nil, fault.Wrap(fmt.Errorf("snapshot version %d has no plan", snap.Version), "decode plan snapshot")
	}
	return snap.Plan, nil
}

// DeletePlan removes the task's plan snapshot. Deleting a missing snapshot
// is not an error.
func (s *Store) DeletePlan(ctx context.Context, taskID string) error {
	if err := s.rdb.Del(ctx, planKey(taskID)).Err(); err != nil {
		return fault.Wrap(err, "delete plan snapshot")
	}
	return nil
}

// AppendActivity appends one activity record to the task's stream.
func (s *Store) AppendActivity(ctx context.Context, taskID string, a activity.Activity) error {
	err := s.rdb.XAdd(ctx, &redis.XAddArgs{
		Stream: ActivityStreamKey(taskID),
		Values: map[string]any{
			"agent":       a.Agent,
			"action":      a.Action,
			"description": a.Description,
			"success":     fmt.Sprintf("%t", a.Success),
		},
	}).Err()
	if err != nil {
		return fault.Wrap(err, "append activity record")
	}
	return nil
}

// TailActivity returns up to count most recent activity records, newest
// first.
func (s *Store) TailActivity(ctx context.Context, taskID string, count int64) ([]activity.Activity, error) {
	entries, err := s.rdb.XRevRangeN(ctx, ActivityStreamKey(taskID), "+", "-", count).Result()
	if err != nil {
		return nil, fault.Wrap(err, "read activity stream")
	}

	out := make([]activity.Activity, 0, len(entries))
	for _, e := range entries {
		out = append(out, activity.Activity{
			Agent:       str(e.Values["agent"]),
			Action:      str(e.Values["action"]),
			Description: str(e.Values["description"]),
			Success:     str(e.Values["success"]) == "true",
		})
	}
	return out, nil
}

func str(v any) string {
	s, _ := v.(string)
	return s
}
