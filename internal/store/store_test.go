package store

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/planforge/planforge/internal/activity"
	"github.com/planforge/planforge/internal/fault"
	"github.com/planforge/planforge/internal/plan"
)

func testPlan(t *testing.T) *plan.NetworkPlan {
	t.Helper()
	p, err := plan.BuildPlan("task-1", plan.PlanSpec{
		Stages: []plan.StageSpec{{
			Name: "stage-1",
			Works: []plan.WorkSpec{{
				Name:  "work-1",
				Tasks: []plan.TaskSpec{{Name: "t1", Subtasks: []plan.SubtaskSpec{{Name: "s1"}}}},
			}},
		}},
	})
	require.NoError(t, err)
	return p
}

func TestSavePlan(t *testing.T) {
	db, mock := redismock.NewClientMock()
	s := New(db, nil)

	// The snapshot payload embeds a save timestamp, so match by shape.
	mock.Regexp().ExpectSet("planforge:plan:task-1", `"version":1`, 0).SetVal("OK")

	require.NoError(t, s.SavePlan(context.Background(), "task-1", testPlan(t)))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSavePlan_NilPlan(t *testing.T) {
	db, _ := redismock.NewClientMock()
	s := New(db, nil)

	err := s.SavePlan(context.Background(), "task-1", nil)
	require.Error(t, err)
	assert.True(t, fault.IsCategory(err, fault.CategoryValidation))
}

func TestLoadPlan(t *testing.T) {
	db, mock := redismock.NewClientMock()
	s := New(db, nil)

	p := testPlan(t)
	data, err := json.Marshal(snapshot{Version: snapshotVersion, SavedAt: time.Now(), Plan: p})
	require.NoError(t, err)

	mock.ExpectGet("planforge:plan:task-1").SetVal(string(data))

	loaded, err := s.LoadPlan(context.Background(), "task-1")
	require.NoError(t, err)
	assert.Equal(t, p.ID, loaded.ID)
	assert.Equal(t, p.Stages[0].Works[0].Tasks[0].ID, loaded.Stages[0].Works[0].Tasks[0].ID)
	assert.NoError(t, plan.ValidatePlan(loaded))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoadPlan_Missing(t *testing.T) {
	db, mock := redismock.NewClientMock()
	s := New(db, nil)

	mock.ExpectGet("planforge:plan:ghost").RedisNil()

	_, err := s.LoadPlan(context.Background(), "ghost")
	require.Error(t, err)
	assert.True(t, fault.IsCategory(err, fault.CategoryNotFound))
}

func TestLoadPlan_CorruptSnapshot(t *testing.T) {
	db, mock := redismock.NewClientMock()
	s := New(db, nil)

	mock.ExpectGet("planforge:plan:task-1").SetVal("{not json")

	_, err := s.LoadPlan(context.Background(), "task-1")
	require.Error(t, err)
	assert.True(t, fault.IsCategory(err, fault.CategoryServer))
}

func TestLoadPlan_EmptySnapshot(t *testing.T) {
	db, mock := redismock.NewClientMock()
	s := New(db, nil)

	mock.ExpectGet("planforge:plan:task-1").SetVal(`{"version":1}`)

	_, err := s.LoadPlan(context.Background(), "task-1")
	require.Error(t, err)
	assert.True(t, fault.IsCategory(err, fault.CategoryServer))
}

func TestDeletePlan(t *testing.T) {
	db, mock := redismock.NewClientMock()
	s := New(db, nil)

	mock.ExpectDel("planforge:plan:task-1").SetVal(1)
	assert.NoError(t, s.DeletePlan(context.Background(), "task-1"))

	// Deleting a missing snapshot succeeds too.
	mock.ExpectDel("planforge:plan:ghost").SetVal(0)
	assert.NoError(t, s.DeletePlan(context.Background(), "ghost"))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAppendActivity(t *testing.T) {
	db, mock := redismock.NewClientMock()
	s := New(db, nil)

	mock.ExpectXAdd(&redis.XAddArgs{
		Stream: "planforge:activity:task-1",
		Values: map[string]any{
			"agent":       "researcher",
			"action":      "search",
			"description": "prior art",
			"success":     "true",
		},
	}).SetVal("1-0")

	err := s.AppendActivity(context.Background(), "task-1", activity.Activity{
		Agent:       "researcher",
		Action:      "search",
		Description: "prior art",
		Success:     true,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTailActivity(t *testing.T) {
	db, mock := redismock.NewClientMock()
	s := New(db, nil)

	mock.ExpectXRevRangeN("planforge:activity:task-1", "+", "-", 2).SetVal([]redis.XMessage{
		{ID: "2-0", Values: map[string]any{"agent": "writer", "action": "draft", "description": "", "success": "false"}},
		{ID: "1-0", Values: map[string]any{"agent": "researcher", "action": "search", "description": "prior art", "success": "true"}},
	})

	got, err := s.TailActivity(context.Background(), "task-1", 2)
	require.NoError(t, err)
	require.Len(t, got, 2)

	// Newest first.
	assert.Equal(t, "writer", got[0].Agent)
	assert.False(t, got[0].Success)
	assert.Equal(t, "researcher", got[1].Agent)
	assert.True(t, got[1].Success)
	assert.Equal(t, "prior art", got[1].Description)
	assert.NoError(t, mock.ExpectationsWereMet())
}
