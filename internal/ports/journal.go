package ports

import (
	"context"

	"github.com/Root48/DataCollectionModule/internal/domain"
)

type DeliveryJournal interface {
	Record(ctx context.Context, rec domain.DeliveryRecord) error
	Recent(ctx context.Context, limit int) ([]domain.DeliveryRecord, error)
	Ping(ctx context.Context) error
}
