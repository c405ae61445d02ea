package mocks

import (
	"context"

	"cr_war_stats/internal/app"
)

// MockExporter is a test double for sheets.ReportExporter
type MockExporter struct {
	Error  error
	Called bool
	Table  [][]string
}

func (m *MockExporter) Export(ctx context.Context, table [][]string) error {
	m.Called = true
	m.Table = table
	return m.Error
}

// MockMappingReader is a test double for sheets.MappingReader
type MockMappingReader struct {
	Targets []app.NotificationTarget
	Error   error
	Called  bool
}

func (m *MockMappingReader) Read(ctx context.Context) ([]app.NotificationTarget, error) {
	m.Called = true
	return m.Targets, m.Error
}

// MockNotifier is a test double for notify.DiscordWebhook
type MockNotifier struct {
	Error   error
	Called  bool
	Message string
	Targets []string
}

func (m *MockNotifier) Send(ctx context.Context, message string, targets []string) error {
	m.Called = true
	m.Message = message
	m.Targets = targets
	return m.Error
}

// MockPublisher is a test double for publish.SSHPublisher
type MockPublisher struct {
	Error    error
	Called   bool
	Filename string
	Data     []byte
}

func (m *MockPublisher) Publish(ctx context.Context, filename string, data []byte) error {
	m.Called = true
	m.Filename = filename
	m.Data = data
	return m.Error
}
