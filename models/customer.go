/*
 * Copyright © 2025 Envitrack Systems Inc., All rights reserved.
 */

package models

import (
	"strings"

	"github.com/go-openapi/strfmt"
)

// Customer is an industrial client operating one or more treatment
// projects. ProjectCount tracks the number of live projects referencing
// the customer and is mutated only through atomic counter additions.
type Customer struct {
	ID           string          `dynamodbav:"ID" json:"id"`
	Name         string          `dynamodbav:"Name" json:"name"`
	Industry     string          `dynamodbav:"Industry" json:"industry"`
	Status       string          `dynamodbav:"Status" json:"status"`
	ContactEmail string          `dynamodbav:"ContactEmail" json:"contactEmail"`
	City         string          `dynamodbav:"City" json:"city"`
	ProjectCount int             `dynamodbav:"ProjectCount" json:"projectCount"`
	CreatedAt    strfmt.DateTime `dynamodbav:"CreatedAt" json:"createdAt"`
	UpdatedAt    strfmt.DateTime `dynamodbav:"UpdatedAt" json:"updatedAt"`
	Version      int64           `dynamodbav:"Version" json:"version"`
}

func (c *Customer) EntityID() string         { return c.ID }
func (c *Customer) EntityKind() string       { return TypeCustomer }
func (c *Customer) StatusValue() string      { return c.Status }
func (c *Customer) CategoryValue() string    { return c.Industry }
func (c *Customer) SortValue() string        { return c.Name }
func (c *Customer) CreatedTimestamp() string { return c.CreatedAt.String() }
func (c *Customer) DependentCount() int      { return c.ProjectCount }
func (c *Customer) CurrentVersion() int64    { return c.Version }

func (c *Customer) SearchText() string {
	return strings.ToLower(c.Name + " " + c.ContactEmail + " " + c.City)
}

func (c *Customer) Stamp(id string, now strfmt.DateTime) {
	c.ID = id
	c.CreatedAt = now
	c.UpdatedAt = now
	c.Version = 1
	c.ProjectCount = 0
	if c.Status == "" {
		c.Status = StatusActive
	}
}

// CustomerPatch is the typed partial-update record for customers. Nil
// fields are left untouched; the set of updatable fields is fixed at
// compile time. Counter and storage-owned fields are deliberately
// absent.
type CustomerPatch struct {
	Name         *string
	Industry     *string
	Status       *string
	ContactEmail *string
	City         *string
}

// IsZero reports whether the patch changes nothing.
func (p CustomerPatch) IsZero() bool {
	return p.Name == nil && p.Industry == nil && p.Status == nil &&
		p.ContactEmail == nil && p.City == nil
}

// Apply writes the supplied fields onto c and returns the attribute
// updates for the storage layer, keyed by stored attribute name.
func (p CustomerPatch) Apply(c *Customer) map[string]any {
	updates := make(map[string]any)
	if p.Name != nil {
		c.Name = *p.Name
		updates["Name"] = *p.Name
	}
	if p.Industry != nil {
		c.Industry = *p.Industry
		updates["Industry"] = *p.Industry
	}
	if p.Status != nil {
		c.Status = *p.Status
		updates["Status"] = *p.Status
	}
	if p.ContactEmail != nil {
		c.ContactEmail = *p.ContactEmail
		updates["ContactEmail"] = *p.ContactEmail
	}
	if p.City != nil {
		c.City = *p.City
		updates["City"] = *p.City
	}
	return updates
}
