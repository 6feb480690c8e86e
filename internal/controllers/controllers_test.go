package controllers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"milktracker/internal/models"
	"milktracker/internal/services"
	"milktracker/internal/structures"
	"milktracker/internal/testutil"
)

type fixture struct {
	ac       *ApiController
	session  services.SessionServiceInterface
	clock    *testutil.MockClock
	meals    *testutil.MockMealsRepository
	memories *testutil.MockMemoriesRepository
	cache    *testutil.MockCache
	metrics  *testutil.MockMetrics
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	conf := &structures.Config{Tracker: structures.TrackerConfig{Birthday: "2024-01-01", TickInterval: time.Second}}
	f := &fixture{
		clock: testutil.NewMockClock(time.Date(2024, 6, 10, 20, 50, 0, 0, time.Local)),
		meals: &testutil.MockMealsRepository{Records: []models.MealRecord{
			{Date: "2024-06-10", StartTime: "14:00", EndTime: "14:20"},
			{Date: "2024-06-10", StartTime: "18:00", EndTime: "18:25"},
		}},
		memories: &testutil.MockMemoriesRepository{Memories: []models.Memory{{Date: "2024-01-08", Description: "first bath"}}},
		cache:    testutil.NewMockCache(),
		metrics:  testutil.NewMockMetrics(),
	}
	logger := &testutil.MockLogger{}
	session, err := services.NewSessionService(conf, f.clock, logger, f.meals, testutil.NewMockKVStore())
	require.NoError(t, err)
	require.NoError(t, session.Restore())
	memories, err := services.NewMemoriesService(conf, logger, f.memories)
	require.NoError(t, err)
	require.NoError(t, memories.Restore())

	f.session = session
	f.ac = NewApiController(logger, session, memories, f.cache, f.metrics)
	return f
}
