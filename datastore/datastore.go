/*
 * Copyright © 2025 Envitrack Systems Inc., All rights reserved.
 */

package datastore

import (
	"context"

	"github.com/envitrack/entitydata/storagemodels"
)

// GuardKind enumerates the conditional-write guards the repository layer
// needs. Guards are expressed semantically rather than as raw condition
// expression strings so every DataStore implementation can honor them.
type GuardKind int

const (
	// GuardNone applies no condition.
	GuardNone GuardKind = iota
	// GuardNotExists requires that no item exists at the key.
	GuardNotExists
	// GuardExists requires that an item exists at the key.
	GuardExists
	// GuardVersionEquals requires that the item exists and its Version
	// attribute equals ExpectedVersion.
	GuardVersionEquals
	// GuardCounterPositive requires that CounterAttribute is greater
	// than zero. Used to reject decrements below zero.
	GuardCounterPositive
	// GuardCounterZero requires that CounterAttribute is zero or
	// absent. Used to block deletion of parents with live dependents.
	GuardCounterZero
)

// Guard is a conditional-write requirement attached to a mutation. A
// failed guard surfaces as ErrConditionFailed; the repository layer
// translates it into the matching domain error.
type Guard struct {
	Kind             GuardKind
	ExpectedVersion  int64
	CounterAttribute string
}

// NoGuard is the zero guard, applying no condition.
var NoGuard = Guard{Kind: GuardNone}

// DataStore is the engine-facing storage interface for entity type T.
// Implementations do not retry, classify or swallow engine errors;
// transient failures propagate wrapped as StorageError and failed
// guards as ConditionFailedError.
type DataStore[T any] interface {
	// GetItem fetches the item at (pk, sk), returning (nil, nil) when
	// no item exists.
	GetItem(ctx context.Context, pk, sk string) (*T, error)

	// PutItem writes a full item, deriving and injecting all key
	// attributes via the type's registered key deriver.
	PutItem(ctx context.Context, entity T, guard Guard) error

	// UpdateItem applies a partial update to the item at (pk, sk) and
	// returns the item as stored after the update. Derived key
	// attributes affected by the update must be included in updates by
	// the caller so they are rewritten in the same write.
	UpdateItem(ctx context.Context, pk, sk string, updates map[string]any, guard Guard) (*T, error)

	// AddToCounter atomically adds delta to a numeric attribute at the
	// storage layer (not read-modify-write) and returns the item as
	// stored after the addition.
	AddToCounter(ctx context.Context, pk, sk, attribute string, delta int, guard Guard) (*T, error)

	// QueryPage runs one bounded page of an index query.
	QueryPage(ctx context.Context, params *storagemodels.QueryParams) (*storagemodels.QueryPage, error)

	// QueryCount counts all items matching the key condition, following
	// internal pagination until the partition is exhausted.
	QueryCount(ctx context.Context, params *storagemodels.QueryParams) (int32, error)

	// DeleteItem removes the item at (pk, sk).
	DeleteItem(ctx context.Context, pk, sk string, guard Guard) error
}
