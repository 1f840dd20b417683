/*
 * Copyright © 2025 Envitrack Systems Inc., All rights reserved.
 */

package models

import (
	"github.com/go-openapi/strfmt"

	"github.com/envitrack/entitydata/keys"
	"github.com/envitrack/entitydata/registry"
)

// Entity type prefixes. Each repository exclusively owns the items
// under its prefix.
const (
	TypeCustomer    = "CUSTOMER"
	TypeProject     = "PROJECT"
	TypeMeasurement = "MEASUREMENT"
)

// Entity statuses. Status is the low-cardinality attribute keying the
// status index.
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// Statuses enumerates all valid status values, in the order statistics
// reports them.
var Statuses = []string{StatusActive, StatusInactive}

// ValidStatus reports whether s is a known status value.
func ValidStatus(s string) bool {
	for _, known := range Statuses {
		if s == known {
			return true
		}
	}
	return false
}

// Record is the behavior shared by every stored entity type. The
// accessors feed key derivation and query routing; Stamp initializes
// the storage-owned fields on creation.
type Record interface {
	EntityID() string
	EntityKind() string
	StatusValue() string
	CategoryValue() string
	SortValue() string
	CreatedTimestamp() string
	SearchText() string
	DependentCount() int
	CurrentVersion() int64
	Stamp(id string, now strfmt.DateTime)
}

// DeriveKeys computes every derived key attribute for a record. It is a
// pure function of the record's current attribute values, so recomputing
// it on a patched copy yields exactly the index rewrites an update must
// carry.
func DeriveKeys(r Record) map[string]string {
	pk, sk := keys.PrimaryKey(r.EntityKind(), r.EntityID())
	statusPK, statusSK := keys.StatusIndexKey(r.EntityKind(), r.StatusValue(), r.SortValue())
	categoryPK, categorySK := keys.CategoryIndexKey(r.EntityKind(), r.CategoryValue(), r.CreatedTimestamp())

	return map[string]string{
		keys.AttrPK:     pk,
		keys.AttrSK:     sk,
		keys.AttrGSI1PK: statusPK,
		keys.AttrGSI1SK: statusSK,
		keys.AttrGSI2PK: categoryPK,
		keys.AttrGSI2SK: categorySK,
	}
}

func init() {
	registry.RegisterKeyDeriver[Customer](func(c *Customer) map[string]string { return DeriveKeys(c) })
	registry.RegisterKeyDeriver[Project](func(p *Project) map[string]string { return DeriveKeys(p) })
	registry.RegisterKeyDeriver[Measurement](func(m *Measurement) map[string]string { return DeriveKeys(m) })

	registry.RegisterSchema(registry.Schema{
		TypePrefix:       TypeCustomer,
		CounterAttribute: "ProjectCount",
		KeyTemplates: map[string]string{
			keys.AttrPK:     "CUSTOMER#{id}",
			keys.AttrSK:     keys.MetadataSK,
			keys.AttrGSI1PK: "CUSTOMER_STATUS#{status}",
			keys.AttrGSI1SK: "NAME#{name}",
			keys.AttrGSI2PK: "CUSTOMER_CATEGORY#{industry}",
			keys.AttrGSI2SK: "CREATED#{createdAt}",
		},
	})
	registry.RegisterSchema(registry.Schema{
		TypePrefix:       TypeProject,
		CounterAttribute: "MeasurementCount",
		KeyTemplates: map[string]string{
			keys.AttrPK:     "PROJECT#{id}",
			keys.AttrSK:     keys.MetadataSK,
			keys.AttrGSI1PK: "PROJECT_STATUS#{status}",
			keys.AttrGSI1SK: "NAME#{name}",
			keys.AttrGSI2PK: "PROJECT_CATEGORY#{type}",
			keys.AttrGSI2SK: "CREATED#{createdAt}",
		},
	})
	registry.RegisterSchema(registry.Schema{
		TypePrefix: TypeMeasurement,
		KeyTemplates: map[string]string{
			keys.AttrPK:     "MEASUREMENT#{id}",
			keys.AttrSK:     keys.MetadataSK,
			keys.AttrGSI1PK: "MEASUREMENT_STATUS#{status}",
			keys.AttrGSI1SK: "NAME#{measuredAt}",
			keys.AttrGSI2PK: "MEASUREMENT_CATEGORY#{parameter}",
			keys.AttrGSI2SK: "CREATED#{createdAt}",
		},
	})
}
