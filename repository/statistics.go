/*
 * Copyright © 2025 Envitrack Systems Inc., All rights reserved.
 */

package repository

import (
	"context"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"golang.org/x/sync/errgroup"

	eserrors "github.com/envitrack/entitydata/errors"
	"github.com/envitrack/entitydata/keys"
	"github.com/envitrack/entitydata/models"
	"github.com/envitrack/entitydata/storagemodels"
)

// statisticsPageSize bounds each page read of the category breakdown.
const statisticsPageSize int32 = 100

// Statistics aggregates entity counts per status and per category. The
// store has no GROUP BY, so the aggregation is issued as one count-only
// query per status value plus one projected walk over the active
// partition, combined client-side.
type Statistics struct {
	TotalByStatus map[string]int32
	ByCategory    map[string]int32
}

// Statistics computes the aggregate counts for this entity type. Status
// counts fan out concurrently; their cost scales with the number of
// distinct statuses. The category breakdown walks the active partition
// page by page projecting only the category key attribute, so its cost
// scales with the active-item count.
func (s *Store[T, PT]) Statistics(ctx context.Context) (*Statistics, error) {
	stats := &Statistics{
		TotalByStatus: make(map[string]int32, len(models.Statuses)),
		ByCategory:    make(map[string]int32),
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)

	for _, status := range models.Statuses {
		status := status
		g.Go(func() error {
			count, err := s.ds.QueryCount(gctx, &storagemodels.QueryParams{
				TableName:    s.table,
				IndexName:    s.indexes.StatusIndex,
				KeyAttribute: keys.AttrGSI1PK,
				KeyValue:     keys.StatusIndexPartition(s.entityType, status),
			})
			if err != nil {
				return err
			}
			mu.Lock()
			stats.TotalByStatus[status] = count
			mu.Unlock()
			return nil
		})
	}

	g.Go(func() error {
		byCategory, err := s.categoryBreakdown(gctx)
		if err != nil {
			return err
		}
		mu.Lock()
		stats.ByCategory = byCategory
		mu.Unlock()
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return stats, nil
}

// categoryBreakdown walks every active item, projecting only the
// category index partition key and parsing the category value out of it.
func (s *Store[T, PT]) categoryBreakdown(ctx context.Context) (map[string]int32, error) {
	byCategory := make(map[string]int32)

	params := &storagemodels.QueryParams{
		TableName:            s.table,
		IndexName:            s.indexes.StatusIndex,
		KeyAttribute:         keys.AttrGSI1PK,
		KeyValue:             keys.StatusIndexPartition(s.entityType, models.StatusActive),
		SortKeyAttribute:     keys.AttrGSI1SK,
		Limit:                aws.Int32(statisticsPageSize),
		ProjectionAttributes: []string{keys.AttrGSI2PK},
	}

	for {
		page, err := s.ds.QueryPage(ctx, params)
		if err != nil {
			return nil, err
		}
		for _, item := range page.Items {
			partition, ok := item[keys.AttrGSI2PK].(*types.AttributeValueMemberS)
			if !ok {
				continue
			}
			category, err := keys.ParseIndexValue(partition.Value)
			if err != nil {
				return nil, eserrors.NewStorageError("Statistics", err)
			}
			byCategory[category]++
		}
		if page.LastEvaluatedKey == nil {
			return byCategory, nil
		}
		params.ExclusiveStartKey = page.LastEvaluatedKey
	}
}
