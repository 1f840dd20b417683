/*
 * Copyright © 2025 Envitrack Systems Inc., All rights reserved.
 */

// Package mock provides an in-memory implementation of the DataStore
// interface for testing. It stores raw attribute maps and evaluates
// guards, counters and index queries the way the DynamoDB
// implementation does, so repository invariants can be tested without a
// live table.
package mock

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/envitrack/entitydata/datastore"
	eserrors "github.com/envitrack/entitydata/errors"
	"github.com/envitrack/entitydata/keys"
	"github.com/envitrack/entitydata/registry"
)

const attrVersion = "Version"

// DataStore is an in-memory implementation of datastore.DataStore[T].
type DataStore[T any] struct {
	mu    sync.RWMutex
	items map[string]map[string]types.AttributeValue

	putError    error
	updateError error
	deleteError error
	queryError  error
	addError    error
}

// New creates a new mock DataStore.
func New[T any]() *DataStore[T] {
	return &DataStore[T]{
		items: make(map[string]map[string]types.AttributeValue),
	}
}

// WithPutError makes PutItem operations return an error
func (m *DataStore[T]) WithPutError(err error) *DataStore[T] {
	m.putError = err
	return m
}

// WithUpdateError makes UpdateItem operations return an error
func (m *DataStore[T]) WithUpdateError(err error) *DataStore[T] {
	m.updateError = err
	return m
}

// WithDeleteError makes DeleteItem operations return an error
func (m *DataStore[T]) WithDeleteError(err error) *DataStore[T] {
	m.deleteError = err
	return m
}

// WithQueryError makes QueryPage and QueryCount operations return an error
func (m *DataStore[T]) WithQueryError(err error) *DataStore[T] {
	m.queryError = err
	return m
}

// WithAddError makes AddToCounter operations return an error
func (m *DataStore[T]) WithAddError(err error) *DataStore[T] {
	m.addError = err
	return m
}

// Len returns the number of stored items.
func (m *DataStore[T]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}

// RawItem returns a copy of the raw stored item at (pk, sk) for
// assertions on derived key attributes.
func (m *DataStore[T]) RawItem(pk, sk string) (map[string]types.AttributeValue, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	item, ok := m.items[itemKey(pk, sk)]
	if !ok {
		return nil, false
	}
	cp := make(map[string]types.AttributeValue, len(item))
	for k, v := range item {
		cp[k] = v
	}
	return cp, true
}

func itemKey(pk, sk string) string {
	return pk + "|" + sk
}

// GetItem retrieves the item at (pk, sk), returning (nil, nil) on miss.
func (m *DataStore[T]) GetItem(ctx context.Context, pk, sk string) (*T, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	item, ok := m.items[itemKey(pk, sk)]
	if !ok {
		return nil, nil
	}

	result := new(T)
	if err := attributevalue.UnmarshalMap(item, result); err != nil {
		return nil, eserrors.NewStorageError("GetItem", err)
	}
	return result, nil
}

// PutItem stores the entity with derived key attributes injected, the
// same way the DynamoDB implementation does.
func (m *DataStore[T]) PutItem(ctx context.Context, entity T, guard datastore.Guard) error {
	if m.putError != nil {
		return m.putError
	}

	deriver, ok := registry.GetKeyDeriver[T]()
	if !ok {
		return eserrors.NewStorageError("PutItem", fmt.Errorf("no key deriver registered for type %T", entity))
	}

	av, err := attributevalue.MarshalMap(entity)
	if err != nil {
		return eserrors.NewStorageError("PutItem", err)
	}
	derived := deriver(&entity)
	for name, value := range derived {
		av[name] = &types.AttributeValueMemberS{Value: value}
	}

	pk := derived[keys.AttrPK]
	sk := derived[keys.AttrSK]

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.checkGuard(pk, sk, guard, "PutItem"); err != nil {
		return err
	}
	m.items[itemKey(pk, sk)] = av
	return nil
}

// UpdateItem applies a partial update and returns the stored item.
func (m *DataStore[T]) UpdateItem(ctx context.Context, pk, sk string, updates map[string]any, guard datastore.Guard) (*T, error) {
	if m.updateError != nil {
		return nil, m.updateError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.checkGuard(pk, sk, guard, "UpdateItem"); err != nil {
		return nil, err
	}

	item, ok := m.items[itemKey(pk, sk)]
	if !ok {
		// DynamoDB creates on unconditional update; repositories always
		// guard updates, so this path only serves unguarded test use.
		item = map[string]types.AttributeValue{
			keys.AttrPK: &types.AttributeValueMemberS{Value: pk},
			keys.AttrSK: &types.AttributeValueMemberS{Value: sk},
		}
		m.items[itemKey(pk, sk)] = item
	}

	for attr, value := range updates {
		av, err := attributevalue.Marshal(value)
		if err != nil {
			return nil, eserrors.NewStorageError("UpdateItem", err)
		}
		item[attr] = av
	}

	result := new(T)
	if err := attributevalue.UnmarshalMap(item, result); err != nil {
		return nil, eserrors.NewStorageError("UpdateItem", err)
	}
	return result, nil
}

// AddToCounter atomically adds delta to a numeric attribute.
func (m *DataStore[T]) AddToCounter(ctx context.Context, pk, sk, attribute string, delta int, guard datastore.Guard) (*T, error) {
	if m.addError != nil {
		return nil, m.addError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.checkGuard(pk, sk, guard, "AddToCounter"); err != nil {
		return nil, err
	}

	item, ok := m.items[itemKey(pk, sk)]
	if !ok {
		return nil, eserrors.NewConditionFailedError("AddToCounter")
	}

	current := numericAttr(item, attribute)
	item[attribute] = &types.AttributeValueMemberN{Value: strconv.FormatInt(current+int64(delta), 10)}

	result := new(T)
	if err := attributevalue.UnmarshalMap(item, result); err != nil {
		return nil, eserrors.NewStorageError("AddToCounter", err)
	}
	return result, nil
}

// DeleteItem removes the item at (pk, sk).
func (m *DataStore[T]) DeleteItem(ctx context.Context, pk, sk string, guard datastore.Guard) error {
	if m.deleteError != nil {
		return m.deleteError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.checkGuard(pk, sk, guard, "DeleteItem"); err != nil {
		return err
	}
	delete(m.items, itemKey(pk, sk))
	return nil
}

// checkGuard evaluates a semantic guard against the stored item state.
// Callers must hold the lock.
func (m *DataStore[T]) checkGuard(pk, sk string, guard datastore.Guard, operation string) error {
	item, exists := m.items[itemKey(pk, sk)]

	switch guard.Kind {
	case datastore.GuardNone:
		return nil
	case datastore.GuardNotExists:
		if exists {
			return eserrors.NewConditionFailedError(operation)
		}
	case datastore.GuardExists:
		if !exists {
			return eserrors.NewConditionFailedError(operation)
		}
	case datastore.GuardVersionEquals:
		if !exists || numericAttr(item, attrVersion) != guard.ExpectedVersion {
			return eserrors.NewConditionFailedError(operation)
		}
	case datastore.GuardCounterPositive:
		if !exists || numericAttr(item, guard.CounterAttribute) <= 0 {
			return eserrors.NewConditionFailedError(operation)
		}
	case datastore.GuardCounterZero:
		if !exists || numericAttr(item, guard.CounterAttribute) != 0 {
			return eserrors.NewConditionFailedError(operation)
		}
	}
	return nil
}

func numericAttr(item map[string]types.AttributeValue, attribute string) int64 {
	n, ok := item[attribute].(*types.AttributeValueMemberN)
	if !ok {
		return 0
	}
	v, err := strconv.ParseInt(n.Value, 10, 64)
	if err != nil {
		return 0
	}
	return v
}

func stringAttr(item map[string]types.AttributeValue, attribute string) (string, bool) {
	s, ok := item[attribute].(*types.AttributeValueMemberS)
	if !ok {
		return "", false
	}
	return s.Value, true
}
