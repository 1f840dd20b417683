/*
 * Copyright © 2025 Envitrack Systems Inc., All rights reserved.
 */

package repository

import (
	"github.com/envitrack/entitydata/keys"
	"github.com/envitrack/entitydata/models"
)

// routedQuery is the index and key condition chosen for a filter. Any
// filter field the chosen index does not cover (free-text search, or
// category once the status index is picked) stays behind as an
// in-process predicate over the returned page.
type routedQuery struct {
	indexName        string
	keyAttribute     string
	sortKeyAttribute string
	partition        string
	// residualCategory holds the category condition when the chosen
	// index cannot express it. Empty when the category index serves the
	// query or no category was requested.
	residualCategory string
}

// route selects the secondary index satisfying a filter:
//
//   - status present: status index, restricted to the status partition;
//     a category given alongside becomes a residual predicate
//   - category present, status absent: category index
//   - neither present: status index with the default status (active)
//
// Free-text search is never pushed into the index query; the underlying
// store has no full-text capability, so it bounds recall to the fetched
// pages.
func (s *Store[T, PT]) route(f Filter) routedQuery {
	if f.Status == "" && f.Category != "" {
		return routedQuery{
			indexName:        s.indexes.CategoryIndex,
			keyAttribute:     keys.AttrGSI2PK,
			sortKeyAttribute: keys.AttrGSI2SK,
			partition:        keys.CategoryIndexPartition(s.entityType, f.Category),
		}
	}

	status := f.Status
	if status == "" {
		status = models.StatusActive
	}
	return routedQuery{
		indexName:        s.indexes.StatusIndex,
		keyAttribute:     keys.AttrGSI1PK,
		sortKeyAttribute: keys.AttrGSI1SK,
		partition:        keys.StatusIndexPartition(s.entityType, status),
		residualCategory: f.Category,
	}
}
