package services

import (
	"context"

	"github.com/udharokhata/credit-ledger/pkg/sqlite"
)

// HealthService answers the readiness probe by touching the store.
type HealthService struct {
	db *sqlite.DB
}

func NewHealthService(db *sqlite.DB) *HealthService {
	return &HealthService{db: db}
}

func (s *HealthService) Get() error {
	var one int
	return s.db.Conn(context.Background()).Raw("SELECT 1").Scan(&one).Error
}
