/*
 * Copyright © 2025 Envitrack Systems Inc., All rights reserved.
 */

package repository

import (
	"context"
	"io"
	"math/rand"
	"sync"
	"time"

	"github.com/go-openapi/strfmt"
	"github.com/oklog/ulid"
	"go.uber.org/zap"

	"github.com/envitrack/entitydata/datastore"
	eserrors "github.com/envitrack/entitydata/errors"
	"github.com/envitrack/entitydata/models"
)

// MeasurementAttributes are the caller-supplied fields of a new
// measurement. A zero MeasuredAt is stamped with the write time.
type MeasurementAttributes struct {
	ProjectID  string
	Parameter  string
	Value      float64
	Unit       string
	Status     string
	Notes      string
	MeasuredAt strfmt.DateTime
}

// ulidGenerator issues monotonic ULIDs. The reader ulid.Monotonic
// returns is not safe for concurrent use, so it is guarded.
type ulidGenerator struct {
	mu      sync.Mutex
	entropy io.Reader
}

func newULIDGenerator() *ulidGenerator {
	return &ulidGenerator{
		entropy: ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0),
	}
}

func (g *ulidGenerator) NewID() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return ulid.MustNew(ulid.Now(), g.entropy).String()
}

func validParameter(p string) bool {
	switch p {
	case models.ParameterPH, models.ParameterCOD, models.ParameterCO2Flow, models.ParameterNitrate:
		return true
	}
	return false
}

// MeasurementRepository owns all items under the MEASUREMENT partition
// prefix and keeps the parent project's measurement count in step.
type MeasurementRepository struct {
	store    *Store[models.Measurement, *models.Measurement]
	projects *ProjectRepository
	log      *zap.Logger
}

// NewMeasurementRepository constructs a measurement repository. The
// project repository is required for parent verification and
// dependent-count adjustments.
func NewMeasurementRepository(
	ds datastore.DataStore[models.Measurement],
	table string,
	indexes TableIndexes,
	projects *ProjectRepository,
	log *zap.Logger,
	opts ...StoreOption[models.Measurement, *models.Measurement],
) *MeasurementRepository {
	if log == nil {
		log = zap.NewNop()
	}
	return &MeasurementRepository{
		store: NewStore[models.Measurement](
			ds, table, models.TypeMeasurement, "", indexes, log,
			newULIDGenerator().NewID, opts...),
		projects: projects,
		log:      log,
	}
}

// Create validates the attributes, verifies the parent project exists,
// writes the measurement, then increments the project's measurement
// count.
func (r *MeasurementRepository) Create(ctx context.Context, attrs MeasurementAttributes) (*models.Measurement, error) {
	if attrs.ProjectID == "" {
		return nil, eserrors.NewValidationError("projectId", "must not be empty")
	}
	if attrs.Parameter == "" {
		return nil, eserrors.NewValidationError("parameter", "must not be empty")
	}
	if !validParameter(attrs.Parameter) {
		return nil, eserrors.NewValidationError("parameter", "unknown parameter "+attrs.Parameter)
	}
	if attrs.Status != "" && !models.ValidStatus(attrs.Status) {
		return nil, eserrors.NewValidationError("status", "unknown status "+attrs.Status)
	}

	if _, err := r.projects.GetByID(ctx, attrs.ProjectID); err != nil {
		if eserrors.IsNotFound(err) {
			return nil, eserrors.NewValidationError("projectId", "project "+attrs.ProjectID+" does not exist")
		}
		return nil, err
	}

	measurement, err := r.store.Create(ctx, &models.Measurement{
		ProjectID:  attrs.ProjectID,
		Parameter:  attrs.Parameter,
		Value:      attrs.Value,
		Unit:       attrs.Unit,
		Status:     attrs.Status,
		Notes:      attrs.Notes,
		MeasuredAt: attrs.MeasuredAt,
	})
	if err != nil {
		return nil, err
	}

	if _, err := r.projects.IncrementMeasurementCount(ctx, attrs.ProjectID); err != nil {
		r.log.Warn("measurement count increment failed after create",
			zap.String("projectId", attrs.ProjectID),
			zap.String("measurementId", measurement.ID),
			zap.Error(err))
	}
	return measurement, nil
}

// GetByID fetches a measurement by id.
func (r *MeasurementRepository) GetByID(ctx context.Context, id string) (*models.Measurement, error) {
	return r.store.GetByID(ctx, id)
}

// Update applies a typed patch to a measurement.
func (r *MeasurementRepository) Update(ctx context.Context, id string, patch models.MeasurementPatch) (*models.Measurement, error) {
	if patch.IsZero() {
		return nil, eserrors.NewValidationError("patch", "no fields supplied")
	}
	if patch.Status != nil && !models.ValidStatus(*patch.Status) {
		return nil, eserrors.NewValidationError("status", "unknown status "+*patch.Status)
	}
	if patch.Parameter != nil && !validParameter(*patch.Parameter) {
		return nil, eserrors.NewValidationError("parameter", "unknown parameter "+*patch.Parameter)
	}
	return r.store.Update(ctx, id, func(m *models.Measurement) map[string]any {
		return patch.Apply(m)
	})
}

// Delete removes a measurement and decrements the parent project's
// measurement count. Measurements have no dependents of their own.
func (r *MeasurementRepository) Delete(ctx context.Context, id string) error {
	measurement, err := r.store.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := r.store.Delete(ctx, id); err != nil {
		return err
	}
	if _, err := r.projects.DecrementMeasurementCount(ctx, measurement.ProjectID); err != nil {
		r.log.Warn("measurement count decrement failed after delete",
			zap.String("projectId", measurement.ProjectID),
			zap.String("measurementId", id),
			zap.Error(err))
	}
	return nil
}

// List returns one page of measurements matching the filter.
// Measurements within a status partition are ordered by reading time.
func (r *MeasurementRepository) List(ctx context.Context, req ListRequest) (*Page[models.Measurement], error) {
	return r.store.List(ctx, req)
}

// Statistics aggregates measurement counts per status and per
// parameter.
func (r *MeasurementRepository) Statistics(ctx context.Context) (*Statistics, error) {
	return r.store.Statistics(ctx)
}
