package application

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type mockHealthChecker struct {
	err error
}

func (m *mockHealthChecker) Ping(_ context.Context) error {
	return m.err
}

func TestHealthService_Check(t *testing.T) {
	tests := []struct {
		name        string
		pingErr     error
		wantHealthy bool
		wantDB      string
	}{
		{name: "database reachable", wantHealthy: true, wantDB: "ok"},
		{name: "database down", pingErr: errors.New("database is closed"), wantHealthy: false, wantDB: "database is closed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewHealthService(&mockHealthChecker{err: tt.pingErr}, newMockSecretStore())

			got := svc.Check(context.Background())

			assert.Equal(t, tt.wantHealthy, got.Healthy)
			assert.Equal(t, tt.wantDB, got.Database)
			assert.Equal(t, "mock", got.SecretBackend)
			assert.False(t, got.CheckedAt.IsZero())
		})
	}
}
