/*
 * Copyright © 2025 Envitrack Systems Inc., All rights reserved.
 */

package storagemodels

import (
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// QueryParams defines parameters for a single-page query against the
// table or one of its secondary indexes. Key conditions are expressed
// semantically (attribute name + partition value) rather than as raw
// expression strings, so the in-memory datastore can interpret them the
// same way the DynamoDB implementation does.
type QueryParams struct {
	// TableName is the DynamoDB table name.
	TableName string
	// IndexName selects a secondary index; empty means the base table.
	IndexName string
	// KeyAttribute is the partition key attribute of the chosen index
	// (e.g. "GSI1PK"), or "PK" for the base table.
	KeyAttribute string
	// KeyValue is the fully derived partition value
	// (e.g. "CUSTOMER_STATUS#active").
	KeyValue string
	// SortKeyAttribute is the sort key attribute of the chosen index,
	// used for result ordering and resume positions.
	SortKeyAttribute string
	// SortKeyPrefix optionally restricts the sort key with begins_with.
	SortKeyPrefix string
	// Limit defines an optional limit per query page. The limit bounds
	// the pre-filter read, not the post-filter result size.
	Limit *int32
	// ExclusiveStartKey resumes a paginated query after a prior page.
	ExclusiveStartKey map[string]types.AttributeValue
	// ScanIndexForward specifies the order for index traversal.
	// If nil or true, traversal is in ascending order.
	ScanIndexForward *bool
	// CountOnly requests only the number of matching items, no item data.
	CountOnly bool
	// ProjectionAttributes optionally restricts returned attributes.
	ProjectionAttributes []string
}

// QueryPage is one page of raw query results. LastEvaluatedKey is nil
// when the partition is exhausted.
type QueryPage struct {
	// Items holds the raw DynamoDB items of this page.
	Items []map[string]types.AttributeValue
	// Count is the number of items matched by this page. For CountOnly
	// queries it is the only populated field.
	Count int32
	// LastEvaluatedKey is the engine-native resume position, present
	// when more results exist beyond this page.
	LastEvaluatedKey map[string]types.AttributeValue
}
