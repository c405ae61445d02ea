package mocks

import (
	"context"

	"cr_war_stats/internal/app"
)

// MockRoyaleClient is a test double for royale.Client
type MockRoyaleClient struct {
	// Responses to return
	MembersResponse *app.MembersResponse
	BattleLogs      map[string][]app.Battle

	// Errors to return
	MembersError   error
	BattleLogError map[string]error

	// Call tracking
	MembersCalled      bool
	BattleLogRequested []string
	APICalls           int64
}

// NewMockRoyaleClient creates a mock serving the given roster
func NewMockRoyaleClient(members ...app.Member) *MockRoyaleClient {
	return &MockRoyaleClient{
		MembersResponse: &app.MembersResponse{Items: members},
		BattleLogs:      make(map[string][]app.Battle),
		BattleLogError:  make(map[string]error),
	}
}

func (m *MockRoyaleClient) GetClanMembers(ctx context.Context, clanTag string) (*app.MembersResponse, error) {
	m.MembersCalled = true
	m.APICalls++
	if m.MembersError != nil {
		return nil, m.MembersError
	}
	return m.MembersResponse, nil
}

func (m *MockRoyaleClient) GetBattleLog(ctx context.Context, playerTag string) ([]app.Battle, error) {
	m.BattleLogRequested = append(m.BattleLogRequested, playerTag)
	m.APICalls++
	if err := m.BattleLogError[playerTag]; err != nil {
		return nil, err
	}
	return m.BattleLogs[playerTag], nil
}

func (m *MockRoyaleClient) GetAPICallCount() int64 {
	return m.APICalls
}

// MockNameResolver is a test double for cache.NameResolver
type MockNameResolver struct {
	Name   string
	Error  error
	Called bool
}

func (m *MockNameResolver) ClanName(ctx context.Context, clanTag string) (string, error) {
	m.Called = true
	return m.Name, m.Error
}
