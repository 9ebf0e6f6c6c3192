package health

import "context"

// LedgerPinger checks interaction-ledger availability.
type LedgerPinger interface {
	Ping(ctx context.Context) error
}
