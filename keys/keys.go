/*
 * Copyright © 2025 Envitrack Systems Inc., All rights reserved.
 */

package keys

import (
	"fmt"
	"strings"
)

// Attribute names used across the table and its secondary indexes.
const (
	AttrPK     = "PK"
	AttrSK     = "SK"
	AttrGSI1PK = "GSI1PK"
	AttrGSI1SK = "GSI1SK"
	AttrGSI2PK = "GSI2PK"
	AttrGSI2SK = "GSI2SK"

	// MetadataSK is the fixed sort key of an entity's canonical item.
	// Exactly one item per entity carries the (PK, MetadataSK) pair.
	MetadataSK = "METADATA"
)

// PrimaryKey builds the partition and sort key addressing an entity's
// canonical item: pk = "TYPE#id", sk = "METADATA".
func PrimaryKey(entityType, id string) (pk, sk string) {
	return entityType + "#" + id, MetadataSK
}

// ParsePrimaryKey splits a partition key back into entity type and id.
func ParsePrimaryKey(pk string) (entityType, id string, err error) {
	parts := strings.SplitN(pk, "#", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("malformed partition key %q", pk)
	}
	return parts[0], parts[1], nil
}

// StatusIndexKey builds the status-keyed secondary index pair. The
// partition groups all entities of one type sharing a status; the sort
// component carries a high-cardinality attribute (name, or a timestamp
// for measurements) to support ordered range and prefix queries.
func StatusIndexKey(entityType, status, sortValue string) (pk, sk string) {
	return entityType + "_STATUS#" + status, "NAME#" + sortValue
}

// StatusIndexPartition builds only the partition component of the
// status index, as used by query key conditions.
func StatusIndexPartition(entityType, status string) string {
	return entityType + "_STATUS#" + status
}

// CategoryIndexKey builds the category-keyed secondary index pair,
// sorted by creation time so range queries return entities in
// chronological order within a category.
func CategoryIndexKey(entityType, category, createdAt string) (pk, sk string) {
	return entityType + "_CATEGORY#" + category, "CREATED#" + createdAt
}

// CategoryIndexPartition builds only the partition component of the
// category index.
func CategoryIndexPartition(entityType, category string) string {
	return entityType + "_CATEGORY#" + category
}

// ParseIndexValue strips the attribute prefix ("NAME#", "CREATED#",
// "TYPE_STATUS#", ...) from a derived index component, returning the raw
// attribute value it encodes.
func ParseIndexValue(component string) (string, error) {
	i := strings.Index(component, "#")
	if i < 0 {
		return "", fmt.Errorf("malformed index component %q", component)
	}
	return component[i+1:], nil
}
