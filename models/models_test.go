/*
 * Copyright © 2025 Envitrack Systems Inc., All rights reserved.
 */

package models

import (
	"testing"
	"time"

	"github.com/go-openapi/strfmt"

	"github.com/envitrack/entitydata/keys"
	"github.com/envitrack/entitydata/registry"
)

func TestCustomerStamp(t *testing.T) {
	now := strfmt.DateTime(time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC))
	c := &Customer{Name: "Acme Water Works", Industry: "municipal"}
	c.Stamp("c-1", now)

	if c.ID != "c-1" {
		t.Errorf("Expected id c-1, got %s", c.ID)
	}
	if c.Status != StatusActive {
		t.Errorf("Expected default status active, got %s", c.Status)
	}
	if c.Version != 1 {
		t.Errorf("Expected version 1, got %d", c.Version)
	}
	if c.CreatedAt.String() != c.UpdatedAt.String() {
		t.Error("CreatedAt and UpdatedAt should match at creation")
	}
	if c.ProjectCount != 0 {
		t.Errorf("Expected project count 0, got %d", c.ProjectCount)
	}
}

func TestStampKeepsExplicitStatus(t *testing.T) {
	now := strfmt.DateTime(time.Now())
	c := &Customer{Name: "Dormant Corp", Status: StatusInactive}
	c.Stamp("c-2", now)

	if c.Status != StatusInactive {
		t.Errorf("Expected explicit status to survive Stamp, got %s", c.Status)
	}
}

func TestDeriveKeysCustomer(t *testing.T) {
	now := strfmt.DateTime(time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC))
	c := &Customer{Name: "Acme Water Works", Industry: "municipal"}
	c.Stamp("c-1", now)

	derived := DeriveKeys(c)

	expected := map[string]string{
		keys.AttrPK:     "CUSTOMER#c-1",
		keys.AttrSK:     "METADATA",
		keys.AttrGSI1PK: "CUSTOMER_STATUS#active",
		keys.AttrGSI1SK: "NAME#Acme Water Works",
		keys.AttrGSI2PK: "CUSTOMER_CATEGORY#municipal",
		keys.AttrGSI2SK: "CREATED#" + c.CreatedAt.String(),
	}
	for attr, want := range expected {
		if derived[attr] != want {
			t.Errorf("Attribute %s: expected %q, got %q", attr, want, derived[attr])
		}
	}
}

func TestDeriveKeysFollowsPatchedAttributes(t *testing.T) {
	now := strfmt.DateTime(time.Now())
	c := &Customer{Name: "Acme", Industry: "municipal"}
	c.Stamp("c-1", now)

	before := DeriveKeys(c)

	status := StatusInactive
	patched := *c
	updates := CustomerPatch{Status: &status}.Apply(&patched)
	after := DeriveKeys(&patched)

	if updates["Status"] != StatusInactive {
		t.Errorf("Expected Status update, got %v", updates)
	}
	if after[keys.AttrGSI1PK] == before[keys.AttrGSI1PK] {
		t.Error("Status index partition should change when status changes")
	}
	if after[keys.AttrGSI2PK] != before[keys.AttrGSI2PK] {
		t.Error("Category index partition should not change when only status changes")
	}
}

func TestMeasurementSortsByReadingTime(t *testing.T) {
	now := strfmt.DateTime(time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC))
	measuredAt := strfmt.DateTime(time.Date(2025, 5, 30, 8, 30, 0, 0, time.UTC))
	m := &Measurement{ProjectID: "p-1", Parameter: ParameterPH, Value: 7.4, MeasuredAt: measuredAt}
	m.Stamp("01ARZ3NDEKTSV4RRFFQ69G5FAV", now)

	derived := DeriveKeys(m)
	if derived[keys.AttrGSI1SK] != "NAME#"+measuredAt.String() {
		t.Errorf("Expected measurement sort key from MeasuredAt, got %s", derived[keys.AttrGSI1SK])
	}
	if m.MeasuredAt.String() != measuredAt.String() {
		t.Error("Explicit MeasuredAt should survive Stamp")
	}
}

func TestMeasurementStampDefaultsMeasuredAt(t *testing.T) {
	now := strfmt.DateTime(time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC))
	m := &Measurement{ProjectID: "p-1", Parameter: ParameterCOD}
	m.Stamp("01ARZ3NDEKTSV4RRFFQ69G5FAW", now)

	if m.MeasuredAt.String() != now.String() {
		t.Errorf("Expected MeasuredAt to default to creation time, got %s", m.MeasuredAt)
	}
}

func TestPatchIsZero(t *testing.T) {
	if !(CustomerPatch{}).IsZero() {
		t.Error("Empty customer patch should be zero")
	}
	name := "New Name"
	if (CustomerPatch{Name: &name}).IsZero() {
		t.Error("Patch with a field should not be zero")
	}
	if !(ProjectPatch{}).IsZero() {
		t.Error("Empty project patch should be zero")
	}
	if !(MeasurementPatch{}).IsZero() {
		t.Error("Empty measurement patch should be zero")
	}
}

func TestSearchTextIsLowercased(t *testing.T) {
	c := &Customer{Name: "Acme Water Works", ContactEmail: "Ops@Acme.example", City: "Rotterdam"}
	text := c.SearchText()
	if text != "acme water works ops@acme.example rotterdam" {
		t.Errorf("Unexpected search text: %q", text)
	}
}

func TestSchemasRegistered(t *testing.T) {
	for _, prefix := range []string{TypeCustomer, TypeProject, TypeMeasurement} {
		s, ok := registry.GetSchema(prefix)
		if !ok {
			t.Errorf("Expected schema registered for %s", prefix)
			continue
		}
		if s.KeyTemplates[keys.AttrPK] == "" {
			t.Errorf("Schema for %s should carry a PK template", prefix)
		}
	}

	// Only parents carry counters.
	if s, _ := registry.GetSchema(TypeMeasurement); s.CounterAttribute != "" {
		t.Error("Measurements should have no counter attribute")
	}
}

func TestKeyDeriversRegistered(t *testing.T) {
	if _, ok := registry.GetKeyDeriver[Customer](); !ok {
		t.Error("Expected key deriver registered for Customer")
	}
	if _, ok := registry.GetKeyDeriver[Project](); !ok {
		t.Error("Expected key deriver registered for Project")
	}
	if _, ok := registry.GetKeyDeriver[Measurement](); !ok {
		t.Error("Expected key deriver registered for Measurement")
	}
}
