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

// ProjectAttributes are the caller-supplied fields of a new project.
type ProjectAttributes struct {
	CustomerID string
	Name       string
	Type       string
	Site       string
	Status     string
}

// ProjectRepository owns all items under the PROJECT partition prefix.
// Project creation and deletion keep the parent customer's project
// count in step; the count write happens after the project write, so a
// crash between the two leaves the count stale until reconciled.
type ProjectRepository struct {
	store     *Store[models.Project, *models.Project]
	customers *CustomerRepository
	log       *zap.Logger
}

// NewProjectRepository constructs a project repository. The customer
// repository is required: it verifies the parent on create and absorbs
// the dependent-count adjustments.
func NewProjectRepository(
	ds datastore.DataStore[models.Project],
	table string,
	indexes TableIndexes,
	customers *CustomerRepository,
	log *zap.Logger,
	opts ...StoreOption[models.Project, *models.Project],
) *ProjectRepository {
	if log == nil {
		log = zap.NewNop()
	}
	return &ProjectRepository{
		store: NewStore[models.Project](
			ds, table, models.TypeProject, "MeasurementCount", indexes, log,
			uuid.NewString, opts...),
		customers: customers,
		log:       log,
	}
}

func validProjectType(t string) bool {
	switch t {
	case models.ProjectTypeCO2Removal, models.ProjectTypeWastewaterTreatment:
		return true
	}
	return false
}

// Create validates the attributes, verifies the parent customer exists,
// writes the project, then increments the customer's project count.
func (r *ProjectRepository) Create(ctx context.Context, attrs ProjectAttributes) (*models.Project, error) {
	if attrs.Name == "" {
		return nil, eserrors.NewValidationError("name", "must not be empty")
	}
	if attrs.CustomerID == "" {
		return nil, eserrors.NewValidationError("customerId", "must not be empty")
	}
	if attrs.Type != "" && !validProjectType(attrs.Type) {
		return nil, eserrors.NewValidationError("type", "unknown project type "+attrs.Type)
	}
	if attrs.Status != "" && !models.ValidStatus(attrs.Status) {
		return nil, eserrors.NewValidationError("status", "unknown status "+attrs.Status)
	}

	if _, err := r.customers.GetByID(ctx, attrs.CustomerID); err != nil {
		if eserrors.IsNotFound(err) {
			return nil, eserrors.NewValidationError("customerId", "customer "+attrs.CustomerID+" does not exist")
		}
		return nil, err
	}

	project, err := r.store.Create(ctx, &models.Project{
		CustomerID: attrs.CustomerID,
		Name:       attrs.Name,
		Type:       attrs.Type,
		Site:       attrs.Site,
		Status:     attrs.Status,
	})
	if err != nil {
		return nil, err
	}

	if _, err := r.customers.IncrementProjectCount(ctx, attrs.CustomerID); err != nil {
		// The project exists either way. Surface the stale count
		// instead of unwinding a committed write.
		r.log.Warn("project count increment failed after create",
			zap.String("customerId", attrs.CustomerID),
			zap.String("projectId", project.ID),
			zap.Error(err))
	}
	return project, nil
}

// GetByID fetches a project by id.
func (r *ProjectRepository) GetByID(ctx context.Context, id string) (*models.Project, error) {
	return r.store.GetByID(ctx, id)
}

// Update applies a typed patch to a project. The parent customer id is
// immutable and not part of the patch.
func (r *ProjectRepository) Update(ctx context.Context, id string, patch models.ProjectPatch) (*models.Project, error) {
	if patch.IsZero() {
		return nil, eserrors.NewValidationError("patch", "no fields supplied")
	}
	if patch.Status != nil && !models.ValidStatus(*patch.Status) {
		return nil, eserrors.NewValidationError("status", "unknown status "+*patch.Status)
	}
	if patch.Type != nil && !validProjectType(*patch.Type) {
		return nil, eserrors.NewValidationError("type", "unknown project type "+*patch.Type)
	}
	return r.store.Update(ctx, id, func(p *models.Project) map[string]any {
		return patch.Apply(p)
	})
}

// Delete removes a project and decrements the parent customer's project
// count. It is rejected with HasDependents while measurements still
// reference the project.
func (r *ProjectRepository) Delete(ctx context.Context, id string) error {
	project, err := r.store.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := r.store.Delete(ctx, id); err != nil {
		return err
	}
	if _, err := r.customers.DecrementProjectCount(ctx, project.CustomerID); err != nil {
		r.log.Warn("project count decrement failed after delete",
			zap.String("customerId", project.CustomerID),
			zap.String("projectId", id),
			zap.Error(err))
	}
	return nil
}

// List returns one page of projects matching the filter.
func (r *ProjectRepository) List(ctx context.Context, req ListRequest) (*Page[models.Project], error) {
	return r.store.List(ctx, req)
}

// Statistics aggregates project counts per status and per project type.
func (r *ProjectRepository) Statistics(ctx context.Context) (*Statistics, error) {
	return r.store.Statistics(ctx)
}

// IncrementMeasurementCount atomically records one more measurement
// referencing the project.
func (r *ProjectRepository) IncrementMeasurementCount(ctx context.Context, id string) (*models.Project, error) {
	return r.store.IncrementDependentCount(ctx, id)
}

// DecrementMeasurementCount atomically records one less measurement
// referencing the project, failing with InvalidState rather than going
// negative.
func (r *ProjectRepository) DecrementMeasurementCount(ctx context.Context, id string) (*models.Project, error) {
	return r.store.DecrementDependentCount(ctx, id)
}
