package mocks

import (
	"context"
	"fmt"
	"time"

	"cr_war_stats/internal/app"
	"cr_war_stats/internal/store"
)

// MockStore is an in-memory test double for store.Store
type MockStore struct {
	Disabled bool

	// Responses to return
	ReportRows      []app.ReportRow
	DayStats        []app.DayPlayerStats
	Incomplete      []app.IncompletePlayer
	LeaversAffected int64

	// Errors to return
	UpsertError     map[string]error
	InsertError     error
	MarkLeaversErr  error
	ReportRowsError error
	IncompleteError error

	// Call tracking
	Players          map[string]int64
	Rows             []app.WarBattleRow
	MarkLeaversIDs   []int64
	MarkLeaversCalls int
	Targets          []app.NotificationTarget
	ReportCutout     time.Time
	IncompleteDay    time.Time

	nextID int64
	keys   map[string]bool
}

// NewMockStore creates an enabled, empty store
func NewMockStore() *MockStore {
	return &MockStore{
		UpsertError: make(map[string]error),
		Players:     make(map[string]int64),
		keys:        make(map[string]bool),
	}
}

func (m *MockStore) Enabled() bool {
	return !m.Disabled
}

func (m *MockStore) UpsertPlayer(ctx context.Context, tag, name string) (*int64, error) {
	if m.Disabled {
		return nil, nil
	}
	if err := m.UpsertError[tag]; err != nil {
		return nil, err
	}
	id, ok := m.Players[tag]
	if !ok {
		m.nextID++
		id = m.nextID
		m.Players[tag] = id
	}
	return &id, nil
}

func (m *MockStore) InsertBattle(ctx context.Context, row app.WarBattleRow) (store.InsertResult, error) {
	if m.Disabled {
		return store.InsertSkipped, nil
	}
	if m.InsertError != nil {
		return store.InsertSkipped, m.InsertError
	}
	key := fmt.Sprintf("%d/%s", row.PlayerID, row.Timestamp.UTC().Format(time.RFC3339Nano))
	if m.keys[key] {
		return store.InsertDuplicate, nil
	}
	m.keys[key] = true
	m.Rows = append(m.Rows, row)
	return store.InsertInserted, nil
}

func (m *MockStore) MarkLeavers(ctx context.Context, activeIDs []int64) (int64, error) {
	m.MarkLeaversCalls++
	m.MarkLeaversIDs = activeIDs
	return m.LeaversAffected, m.MarkLeaversErr
}

func (m *MockStore) SetNotificationTarget(ctx context.Context, target app.NotificationTarget) (bool, error) {
	m.Targets = append(m.Targets, target)
	_, ok := m.Players[target.Tag]
	return ok, nil
}

func (m *MockStore) FetchReportRows(ctx context.Context, cutout time.Time) ([]app.ReportRow, error) {
	m.ReportCutout = cutout
	return m.ReportRows, m.ReportRowsError
}

func (m *MockStore) FetchOpenWarDayStats(ctx context.Context, day time.Time) ([]app.DayPlayerStats, error) {
	return m.DayStats, nil
}

func (m *MockStore) FetchIncompletePlayers(ctx context.Context, day time.Time, maxDecks int) ([]app.IncompletePlayer, error) {
	m.IncompleteDay = day
	return m.Incomplete, m.IncompleteError
}
