/*
 * Copyright © 2025 Envitrack Systems Inc., All rights reserved.
 */

package repository

import (
	"context"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/go-openapi/strfmt"
	"go.uber.org/zap"

	"github.com/envitrack/entitydata/cursor"
	"github.com/envitrack/entitydata/datastore"
	eserrors "github.com/envitrack/entitydata/errors"
	"github.com/envitrack/entitydata/keys"
	"github.com/envitrack/entitydata/models"
	"github.com/envitrack/entitydata/storagemodels"
)

// DefaultPageSize bounds the pre-filter read of a list call when the
// caller supplies no page size.
const DefaultPageSize int32 = 25

// MaxPageSize caps the pre-filter read of a single list call.
const MaxPageSize int32 = 100

// record constrains the generic store to pointer types implementing the
// shared entity behavior.
type record[T any] interface {
	*T
	models.Record
}

// TableIndexes names the secondary indexes of the table. Key attribute
// names (GSI1PK, ...) are fixed by the layout; index names are
// deployment configuration.
type TableIndexes struct {
	StatusIndex   string
	CategoryIndex string
}

// DefaultIndexes holds the default index names.
var DefaultIndexes = TableIndexes{
	StatusIndex:   "GSI1",
	CategoryIndex: "GSI2",
}

// Filter selects entities for a list call. Status and Category route to
// an index; Search is a post-query substring predicate. An entirely
// empty filter defaults to status=active.
type Filter struct {
	Status   string
	Category string
	Search   string
}

// ListRequest is one page request of a filtered listing.
type ListRequest struct {
	Filter   Filter
	PageSize int32
	// Cursor resumes after a prior page. It must be replayed with the
	// same filter parameters it was produced under.
	Cursor string
}

// Page is one page of list results. Items can legitimately hold fewer
// entries than the requested page size, or none at all, while HasMore
// is still true, because the page size bounds the pre-filter read.
type Page[T any] struct {
	Items      []*T
	NextCursor string
	HasMore    bool
}

// Store implements the generic single-table repository for one entity
// type. Per-entity repositories wrap it with typed attribute records
// and cross-entity invariants.
type Store[T any, PT record[T]] struct {
	ds          datastore.DataStore[T]
	table       string
	entityType  string
	counterAttr string
	indexes     TableIndexes
	log         *zap.Logger

	now   func() time.Time
	newID func() string
}

// StoreOption adjusts store construction, primarily for tests.
type StoreOption[T any, PT record[T]] func(*Store[T, PT])

// WithClock overrides the store's time source.
func WithClock[T any, PT record[T]](now func() time.Time) StoreOption[T, PT] {
	return func(s *Store[T, PT]) { s.now = now }
}

// WithIDGenerator overrides the store's id generator.
func WithIDGenerator[T any, PT record[T]](newID func() string) StoreOption[T, PT] {
	return func(s *Store[T, PT]) { s.newID = newID }
}

// NewStore constructs a generic entity store. counterAttr names the
// dependent-count attribute and is empty for leaf entity types.
func NewStore[T any, PT record[T]](
	ds datastore.DataStore[T],
	table, entityType, counterAttr string,
	indexes TableIndexes,
	log *zap.Logger,
	newID func() string,
	opts ...StoreOption[T, PT],
) *Store[T, PT] {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Store[T, PT]{
		ds:          ds,
		table:       table,
		entityType:  entityType,
		counterAttr: counterAttr,
		indexes:     indexes,
		log:         log,
		now:         time.Now,
		newID:       newID,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetByID fetches an entity by its id with a direct primary-key lookup.
func (s *Store[T, PT]) GetByID(ctx context.Context, id string) (*T, error) {
	pk, sk := keys.PrimaryKey(s.entityType, id)
	entity, err := s.ds.GetItem(ctx, pk, sk)
	if err != nil {
		return nil, err
	}
	if entity == nil {
		return nil, eserrors.NewNotFoundError(s.entityType, id)
	}
	return entity, nil
}

// Create stamps storage-owned fields on the entity and writes it
// conditionally on primary-key non-existence. An id collision,
// practically unreachable given id generation, surfaces as
// AlreadyExists instead of overwriting.
func (s *Store[T, PT]) Create(ctx context.Context, entity PT) (*T, error) {
	id := s.newID()
	entity.Stamp(id, strfmt.DateTime(s.now()))

	err := s.ds.PutItem(ctx, *(*T)(entity), datastore.Guard{Kind: datastore.GuardNotExists})
	if err != nil {
		if eserrors.IsConditionFailed(err) {
			return nil, eserrors.NewAlreadyExistsError(s.entityType, id)
		}
		return nil, err
	}

	s.log.Debug("entity created",
		zap.String("type", s.entityType),
		zap.String("id", id))
	return (*T)(entity), nil
}

// Update applies a typed patch to the entity with id. The current state
// is read first so derived index keys can be recomputed from the
// patched copy; only supplied fields, affected key attributes,
// UpdatedAt and Version are written. The write is conditional on the
// version observed by the read, surfacing Conflict when a concurrent
// update wins the race.
func (s *Store[T, PT]) Update(ctx context.Context, id string, apply func(entity PT) map[string]any) (*T, error) {
	current, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	expectedVersion := PT(current).CurrentVersion()

	patched := *current
	updates := apply(PT(&patched))
	if len(updates) == 0 {
		return nil, eserrors.NewValidationError("patch", "no fields supplied")
	}

	// Rewrite every derived key the patch moved, in the same write.
	oldKeys := models.DeriveKeys(PT(current))
	for attr, value := range models.DeriveKeys(PT(&patched)) {
		if oldKeys[attr] != value {
			updates[attr] = value
		}
	}
	updates["UpdatedAt"] = strfmt.DateTime(s.now())
	updates["Version"] = expectedVersion + 1

	pk, sk := keys.PrimaryKey(s.entityType, id)
	updated, err := s.ds.UpdateItem(ctx, pk, sk, updates, datastore.Guard{
		Kind:            datastore.GuardVersionEquals,
		ExpectedVersion: expectedVersion,
	})
	if err != nil {
		if eserrors.IsConditionFailed(err) {
			return nil, eserrors.NewConflictError(s.entityType, id, expectedVersion)
		}
		return nil, err
	}
	return updated, nil
}

// Delete removes the entity with id, rejecting the delete with
// HasDependents while the dependent count is nonzero. The count guard
// is enforced twice: once against the read state so the current count
// can be reported, and again as a storage-level condition so a child
// created between the read and the delete still blocks it.
func (s *Store[T, PT]) Delete(ctx context.Context, id string) error {
	current, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if count := PT(current).DependentCount(); count > 0 {
		return eserrors.NewHasDependentsError(s.entityType, id, count)
	}

	guard := datastore.Guard{Kind: datastore.GuardExists}
	if s.counterAttr != "" {
		guard = datastore.Guard{Kind: datastore.GuardCounterZero, CounterAttribute: s.counterAttr}
	}

	pk, sk := keys.PrimaryKey(s.entityType, id)
	if err := s.ds.DeleteItem(ctx, pk, sk, guard); err != nil {
		if !eserrors.IsConditionFailed(err) {
			return err
		}
		count, err := s.reclassifyDelete(ctx, id)
		if err != nil {
			return err
		}
		if count > 0 {
			return eserrors.NewHasDependentsError(s.entityType, id, count)
		}
		// The racing dependent is already gone again; one more attempt
		// before reporting the race to the caller.
		if err := s.ds.DeleteItem(ctx, pk, sk, guard); err != nil {
			if !eserrors.IsConditionFailed(err) {
				return err
			}
			count, err := s.reclassifyDelete(ctx, id)
			if err != nil {
				return err
			}
			return eserrors.NewHasDependentsError(s.entityType, id, count)
		}
	}

	s.log.Debug("entity deleted",
		zap.String("type", s.entityType),
		zap.String("id", id))
	return nil
}

// reclassifyDelete re-reads after a failed delete condition to tell a
// concurrent delete (NotFound) apart from a concurrent child creation,
// returning the fresh dependent count.
func (s *Store[T, PT]) reclassifyDelete(ctx context.Context, id string) (int, error) {
	current, err := s.GetByID(ctx, id)
	if err != nil {
		return 0, err
	}
	return PT(current).DependentCount(), nil
}

// IncrementDependentCount atomically adds one to the dependent count.
func (s *Store[T, PT]) IncrementDependentCount(ctx context.Context, id string) (*T, error) {
	pk, sk := keys.PrimaryKey(s.entityType, id)
	updated, err := s.ds.AddToCounter(ctx, pk, sk, s.counterAttr, 1,
		datastore.Guard{Kind: datastore.GuardExists})
	if err != nil {
		if eserrors.IsConditionFailed(err) {
			return nil, eserrors.NewNotFoundError(s.entityType, id)
		}
		return nil, err
	}
	return updated, nil
}

// DecrementDependentCount atomically subtracts one from the dependent
// count. A decrement that would drive the count negative fails with
// InvalidState and leaves the count untouched.
func (s *Store[T, PT]) DecrementDependentCount(ctx context.Context, id string) (*T, error) {
	pk, sk := keys.PrimaryKey(s.entityType, id)
	updated, err := s.ds.AddToCounter(ctx, pk, sk, s.counterAttr, -1, datastore.Guard{
		Kind:             datastore.GuardCounterPositive,
		CounterAttribute: s.counterAttr,
	})
	if err != nil {
		if eserrors.IsConditionFailed(err) {
			// The guard covers both a missing item and a zero count.
			if _, getErr := s.GetByID(ctx, id); getErr != nil {
				return nil, getErr
			}
			return nil, eserrors.NewInvalidStateError(s.entityType, id,
				"dependent count would become negative")
		}
		return nil, err
	}
	return updated, nil
}

// List returns one page of entities matching the filter. The router
// picks the index; conditions the index cannot express (free-text
// search, category alongside status) are applied to the returned page
// in-process, so a page can come back smaller than requested, even
// empty, while more unfiltered matches exist behind NextCursor.
func (s *Store[T, PT]) List(ctx context.Context, req ListRequest) (*Page[T], error) {
	route := s.route(req.Filter)
	search := strings.ToLower(strings.TrimSpace(req.Filter.Search))
	fingerprint := cursor.Fingerprint(route.indexName, route.partition, route.residualCategory, search)

	var startKey map[string]types.AttributeValue
	if req.Cursor != "" {
		var err error
		startKey, err = cursor.Decode(req.Cursor, fingerprint)
		if err != nil {
			return nil, err
		}
	}

	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}

	page, err := s.ds.QueryPage(ctx, &storagemodels.QueryParams{
		TableName:         s.table,
		IndexName:         route.indexName,
		KeyAttribute:      route.keyAttribute,
		KeyValue:          route.partition,
		SortKeyAttribute:  route.sortKeyAttribute,
		Limit:             &pageSize,
		ExclusiveStartKey: startKey,
	})
	if err != nil {
		return nil, err
	}

	result := &Page[T]{HasMore: page.LastEvaluatedKey != nil}
	for _, raw := range page.Items {
		entity := new(T)
		if err := attributevalue.UnmarshalMap(raw, entity); err != nil {
			return nil, eserrors.NewStorageError("List", err)
		}
		if route.residualCategory != "" && PT(entity).CategoryValue() != route.residualCategory {
			continue
		}
		if search != "" && !strings.Contains(PT(entity).SearchText(), search) {
			continue
		}
		result.Items = append(result.Items, entity)
	}

	if page.LastEvaluatedKey != nil {
		token, err := cursor.Encode(page.LastEvaluatedKey, fingerprint)
		if err != nil {
			return nil, err
		}
		result.NextCursor = token
	}
	return result, nil
}
