package domain

import (
	"context"
)

type SyncJournal interface {
	Record(ctx context.Context, rec *SyncRecord) error
	GetByReference(ctx context.Context, reference string) (*SyncRecord, error)
	RecentReferences(ctx context.Context, limit int) ([]string, error)
}

type Cache interface {
	Get(reference string) (*SyncRecord, bool)
	Set(rec *SyncRecord)
}

// TokenSource supplies the bearer credential for the remote ERP API. Token
// acquisition and refresh happen outside the sync engine.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}
