package service

import (
	"context"
	"errors"
	"fmt"
	"go-auth-api/logger"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// IRevocationLedger records which refresh-token instance identifiers have
// already been traded in. Existence of a key is the sole "used" signal;
// absence only means "not yet marked", never "was never issued".
type IRevocationLedger interface {
	IsConsumed(ctx context.Context, tokenUUID string) (bool, error)
	MarkConsumed(ctx context.Context, tokenUUID, subjectID string, ttl time.Duration) error
}

// RedisLedger implements IRevocationLedger on a shared Redis instance.
//
// MarkConsumed is a plain SET with TTL, not SETNX: two concurrent refreshes
// presenting the same token can both pass IsConsumed before either writes.
// The protocol accepts that race; last write wins on the TTL.
type RedisLedger struct {
	client ICacheClient
}

// NewRedisLedger creates a ledger backed by the given cache client.
func NewRedisLedger(client ICacheClient) *RedisLedger {
	return &RedisLedger{client: client}
}

// IsConsumed reports whether the token instance identifier already appears as
// a ledger key. A store failure is surfaced as ErrLedgerUnavailable and must
// abort the caller's flow; it is never treated as either outcome.
func (l *RedisLedger) IsConsumed(ctx context.Context, tokenUUID string) (bool, error) {
	err := l.client.Get(ctx, tokenUUID).Err()
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, redis.Nil):
		return false, nil
	default:
		logger.Log.WithError(err).WithField("token_uuid", tokenUUID).
			Error("Ledger read failed")
		return false, fmt.Errorf("%w: %v", ErrLedgerUnavailable, err)
	}
}

// MarkConsumed records the token instance identifier as used for the given
// TTL. The value is the subject identifier, kept for operational inspection.
func (l *RedisLedger) MarkConsumed(ctx context.Context, tokenUUID, subjectID string, ttl time.Duration) error {
	if err := l.client.Set(ctx, tokenUUID, subjectID, ttl).Err(); err != nil {
		logger.Log.WithError(err).WithFields(logrus.Fields{
			"token_uuid": tokenUUID,
			"subject":    subjectID,
		}).Error("Ledger write failed")
		return fmt.Errorf("%w: %v", ErrLedgerUnavailable, err)
	}
	return nil
}
