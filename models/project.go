/*
 * Copyright © 2025 Envitrack Systems Inc., All rights reserved.
 */

package models

import (
	"strings"

	"github.com/go-openapi/strfmt"
)

// Project types, keying the category index.
const (
	ProjectTypeCO2Removal          = "co2-removal"
	ProjectTypeWastewaterTreatment = "wastewater-treatment"
)

// Project is a treatment installation run for a customer. CustomerID
// references the owning customer; MeasurementCount tracks live
// measurements recorded against the project.
type Project struct {
	ID               string          `dynamodbav:"ID" json:"id"`
	CustomerID       string          `dynamodbav:"CustomerID" json:"customerId"`
	Name             string          `dynamodbav:"Name" json:"name"`
	Type             string          `dynamodbav:"Type" json:"type"`
	Status           string          `dynamodbav:"Status" json:"status"`
	Site             string          `dynamodbav:"Site" json:"site"`
	MeasurementCount int             `dynamodbav:"MeasurementCount" json:"measurementCount"`
	CreatedAt        strfmt.DateTime `dynamodbav:"CreatedAt" json:"createdAt"`
	UpdatedAt        strfmt.DateTime `dynamodbav:"UpdatedAt" json:"updatedAt"`
	Version          int64           `dynamodbav:"Version" json:"version"`
}

func (p *Project) EntityID() string         { return p.ID }
func (p *Project) EntityKind() string       { return TypeProject }
func (p *Project) StatusValue() string      { return p.Status }
func (p *Project) CategoryValue() string    { return p.Type }
func (p *Project) SortValue() string        { return p.Name }
func (p *Project) CreatedTimestamp() string { return p.CreatedAt.String() }
func (p *Project) DependentCount() int      { return p.MeasurementCount }
func (p *Project) CurrentVersion() int64    { return p.Version }

func (p *Project) SearchText() string {
	return strings.ToLower(p.Name + " " + p.Site)
}

func (p *Project) Stamp(id string, now strfmt.DateTime) {
	p.ID = id
	p.CreatedAt = now
	p.UpdatedAt = now
	p.Version = 1
	p.MeasurementCount = 0
	if p.Status == "" {
		p.Status = StatusActive
	}
}

// ProjectPatch is the typed partial-update record for projects.
// CustomerID is not patchable; a project never moves between customers.
type ProjectPatch struct {
	Name   *string
	Type   *string
	Status *string
	Site   *string
}

// IsZero reports whether the patch changes nothing.
func (p ProjectPatch) IsZero() bool {
	return p.Name == nil && p.Type == nil && p.Status == nil && p.Site == nil
}

// Apply writes the supplied fields onto pr and returns the attribute
// updates for the storage layer.
func (p ProjectPatch) Apply(pr *Project) map[string]any {
	updates := make(map[string]any)
	if p.Name != nil {
		pr.Name = *p.Name
		updates["Name"] = *p.Name
	}
	if p.Type != nil {
		pr.Type = *p.Type
		updates["Type"] = *p.Type
	}
	if p.Status != nil {
		pr.Status = *p.Status
		updates["Status"] = *p.Status
	}
	if p.Site != nil {
		pr.Site = *p.Site
		updates["Site"] = *p.Site
	}
	return updates
}
