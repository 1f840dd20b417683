/*
 * Copyright © 2025 Envitrack Systems Inc., All rights reserved.
 */

package models

import (
	"strings"
	"time"

	"github.com/go-openapi/strfmt"
)

// Measurement parameters, keying the category index.
const (
	ParameterPH      = "ph"
	ParameterCOD     = "cod"
	ParameterCO2Flow = "co2-flow"
	ParameterNitrate = "nitrate"
)

// Measurement is one recorded reading against a project. Measurements
// are leaf entities: nothing references them, so they carry no
// dependent count. Their ids are ULIDs, giving the METADATA items a
// time-ordered id space.
type Measurement struct {
	ID         string          `dynamodbav:"ID" json:"id"`
	ProjectID  string          `dynamodbav:"ProjectID" json:"projectId"`
	Parameter  string          `dynamodbav:"Parameter" json:"parameter"`
	Value      float64         `dynamodbav:"Value" json:"value"`
	Unit       string          `dynamodbav:"Unit" json:"unit"`
	Status     string          `dynamodbav:"Status" json:"status"`
	Notes      string          `dynamodbav:"Notes" json:"notes"`
	MeasuredAt strfmt.DateTime `dynamodbav:"MeasuredAt" json:"measuredAt"`
	CreatedAt  strfmt.DateTime `dynamodbav:"CreatedAt" json:"createdAt"`
	UpdatedAt  strfmt.DateTime `dynamodbav:"UpdatedAt" json:"updatedAt"`
	Version    int64           `dynamodbav:"Version" json:"version"`
}

func (m *Measurement) EntityID() string      { return m.ID }
func (m *Measurement) EntityKind() string    { return TypeMeasurement }
func (m *Measurement) StatusValue() string   { return m.Status }
func (m *Measurement) CategoryValue() string { return m.Parameter }

// SortValue orders measurements by reading time within a status
// partition, unlike customers and projects which sort by name.
func (m *Measurement) SortValue() string        { return m.MeasuredAt.String() }
func (m *Measurement) CreatedTimestamp() string { return m.CreatedAt.String() }
func (m *Measurement) DependentCount() int      { return 0 }
func (m *Measurement) CurrentVersion() int64    { return m.Version }

func (m *Measurement) SearchText() string {
	return strings.ToLower(m.Parameter + " " + m.Unit + " " + m.Notes)
}

func (m *Measurement) Stamp(id string, now strfmt.DateTime) {
	m.ID = id
	m.CreatedAt = now
	m.UpdatedAt = now
	m.Version = 1
	if m.Status == "" {
		m.Status = StatusActive
	}
	if time.Time(m.MeasuredAt).IsZero() {
		m.MeasuredAt = now
	}
}

// MeasurementPatch is the typed partial-update record for measurements.
// ProjectID and MeasuredAt are not patchable; a reading belongs to one
// project at one point in time.
type MeasurementPatch struct {
	Parameter *string
	Value     *float64
	Unit      *string
	Status    *string
	Notes     *string
}

// IsZero reports whether the patch changes nothing.
func (p MeasurementPatch) IsZero() bool {
	return p.Parameter == nil && p.Value == nil && p.Unit == nil &&
		p.Status == nil && p.Notes == nil
}

// Apply writes the supplied fields onto m and returns the attribute
// updates for the storage layer.
func (p MeasurementPatch) Apply(m *Measurement) map[string]any {
	updates := make(map[string]any)
	if p.Parameter != nil {
		m.Parameter = *p.Parameter
		updates["Parameter"] = *p.Parameter
	}
	if p.Value != nil {
		m.Value = *p.Value
		updates["Value"] = *p.Value
	}
	if p.Unit != nil {
		m.Unit = *p.Unit
		updates["Unit"] = *p.Unit
	}
	if p.Status != nil {
		m.Status = *p.Status
		updates["Status"] = *p.Status
	}
	if p.Notes != nil {
		m.Notes = *p.Notes
		updates["Notes"] = *p.Notes
	}
	return updates
}
