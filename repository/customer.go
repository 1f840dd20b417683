/*
 * Copyright © 2025 Envitrack Systems Inc., All rights reserved.
 */

package repository

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/envitrack/entitydata/datastore"
	eserrors "github.com/envitrack/entitydata/errors"
	"github.com/envitrack/entitydata/models"
)

// CustomerAttributes are the caller-supplied fields of a new customer.
// Status defaults to active when empty.
type CustomerAttributes struct {
	Name         string
	Industry     string
	Status       string
	ContactEmail string
	City         string
}

// CustomerRepository owns all items under the CUSTOMER partition
// prefix. Sibling repositories adjust the project count only through
// its public dependent-count operations, never by direct key
// manipulation.
type CustomerRepository struct {
	store *Store[models.Customer, *models.Customer]
}

// NewCustomerRepository constructs a customer repository on an injected
// datastore handle.
func NewCustomerRepository(
	ds datastore.DataStore[models.Customer],
	table string,
	indexes TableIndexes,
	log *zap.Logger,
	opts ...StoreOption[models.Customer, *models.Customer],
) *CustomerRepository {
	return &CustomerRepository{
		store: NewStore[models.Customer](
			ds, table, models.TypeCustomer, "ProjectCount", indexes, log,
			uuid.NewString, opts...),
	}
}

// Create validates the attributes and writes a new customer.
func (r *CustomerRepository) Create(ctx context.Context, attrs CustomerAttributes) (*models.Customer, error) {
	if attrs.Name == "" {
		return nil, eserrors.NewValidationError("name", "must not be empty")
	}
	if attrs.Status != "" && !models.ValidStatus(attrs.Status) {
		return nil, eserrors.NewValidationError("status", "unknown status "+attrs.Status)
	}

	return r.store.Create(ctx, &models.Customer{
		Name:         attrs.Name,
		Industry:     attrs.Industry,
		Status:       attrs.Status,
		ContactEmail: attrs.ContactEmail,
		City:         attrs.City,
	})
}

// GetByID fetches a customer by id.
func (r *CustomerRepository) GetByID(ctx context.Context, id string) (*models.Customer, error) {
	return r.store.GetByID(ctx, id)
}

// Update applies a typed patch to a customer.
func (r *CustomerRepository) Update(ctx context.Context, id string, patch models.CustomerPatch) (*models.Customer, error) {
	if patch.IsZero() {
		return nil, eserrors.NewValidationError("patch", "no fields supplied")
	}
	if patch.Status != nil && !models.ValidStatus(*patch.Status) {
		return nil, eserrors.NewValidationError("status", "unknown status "+*patch.Status)
	}
	return r.store.Update(ctx, id, func(c *models.Customer) map[string]any {
		return patch.Apply(c)
	})
}

// Delete removes a customer. It is rejected with HasDependents while
// projects still reference the customer.
func (r *CustomerRepository) Delete(ctx context.Context, id string) error {
	return r.store.Delete(ctx, id)
}

// List returns one page of customers matching the filter.
func (r *CustomerRepository) List(ctx context.Context, req ListRequest) (*Page[models.Customer], error) {
	return r.store.List(ctx, req)
}

// Statistics aggregates customer counts per status and per industry.
func (r *CustomerRepository) Statistics(ctx context.Context) (*Statistics, error) {
	return r.store.Statistics(ctx)
}

// IncrementProjectCount atomically records one more project referencing
// the customer. Called by the project repository after a successful
// project creation.
func (r *CustomerRepository) IncrementProjectCount(ctx context.Context, id string) (*models.Customer, error) {
	return r.store.IncrementDependentCount(ctx, id)
}

// DecrementProjectCount atomically records one less project referencing
// the customer, failing with InvalidState rather than going negative.
func (r *CustomerRepository) DecrementProjectCount(ctx context.Context, id string) (*models.Customer, error) {
	return r.store.DecrementDependentCount(ctx, id)
}
