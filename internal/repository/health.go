package repository

import "context"

// Pinger checks the database is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}
