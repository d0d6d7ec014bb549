package application

import (
	"context"
	"time"

	"github.com/ericfisherdev/accountvault/internal/domain/port/driven"
)

// HealthStatus is the service health view returned by the HTTP API.
type HealthStatus struct {
	Healthy       bool
	Database      string // "ok" or the ping error
	SecretBackend string
	CheckedAt     time.Time
}

// HealthService reports whether the metadata database is reachable and which
// secret backend is active. It depends only on port interfaces.
type HealthService struct {
	db      driven.HealthChecker
	backend string
}

// NewHealthService creates a new HealthService with the required dependencies.
func NewHealthService(db driven.HealthChecker, secrets driven.SecretStore) *HealthService {
	return &HealthService{
		db:      db,
		backend: secrets.Type(),
	}
}

// Check pings the database with a short timeout. The secret backend is not
// contacted; a probe would need a real account identity.
func (s *HealthService) Check(ctx context.Context) HealthStatus {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	status := HealthStatus{
		Healthy:       true,
		Database:      "ok",
		SecretBackend: s.backend,
		CheckedAt:     time.Now().UTC(),
	}
	if err := s.db.Ping(ctx); err != nil {
		status.Healthy = false
		status.Database = err.Error()
	}
	return status
}
