/*
 * Copyright © 2025 Envitrack Systems Inc., All rights reserved.
 */

package mock

import (
	"context"
	"sort"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/envitrack/entitydata/keys"
	"github.com/envitrack/entitydata/storagemodels"
)

// QueryPage evaluates a semantic index query against the stored items:
// partition equality on the key attribute, optional sort prefix, sort
// order, resume position and page limit, matching the observable
// behavior of a DynamoDB query over a GSI.
func (m *DataStore[T]) QueryPage(ctx context.Context, params *storagemodels.QueryParams) (*storagemodels.QueryPage, error) {
	if m.queryError != nil {
		return nil, m.queryError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	matched := m.match(params)

	if params.CountOnly {
		return &storagemodels.QueryPage{Count: int32(len(matched))}, nil
	}

	sortAttr := params.SortKeyAttribute
	if sortAttr == "" {
		sortAttr = keys.AttrSK
	}
	ascending := params.ScanIndexForward == nil || *params.ScanIndexForward
	sort.Slice(matched, func(i, j int) bool {
		a, _ := stringAttr(matched[i], sortAttr)
		b, _ := stringAttr(matched[j], sortAttr)
		if a == b {
			// Stable tiebreak on the table partition key, as a real
			// index would never hold two items with identical full keys.
			pa, _ := stringAttr(matched[i], keys.AttrPK)
			pb, _ := stringAttr(matched[j], keys.AttrPK)
			if ascending {
				return pa < pb
			}
			return pa > pb
		}
		if ascending {
			return a < b
		}
		return a > b
	})

	start := 0
	if params.ExclusiveStartKey != nil {
		startSort, _ := stringAttr(params.ExclusiveStartKey, sortAttr)
		startPK, _ := stringAttr(params.ExclusiveStartKey, keys.AttrPK)
		for i, item := range matched {
			s, _ := stringAttr(item, sortAttr)
			p, _ := stringAttr(item, keys.AttrPK)
			if s == startSort && p == startPK {
				start = i + 1
				break
			}
		}
	}

	end := len(matched)
	if params.Limit != nil && start+int(*params.Limit) < end {
		end = start + int(*params.Limit)
	}

	page := &storagemodels.QueryPage{Count: int32(end - start)}
	for _, item := range matched[start:end] {
		page.Items = append(page.Items, projectItem(item, params.ProjectionAttributes))
	}
	if end < len(matched) && end > start {
		last := matched[end-1]
		page.LastEvaluatedKey = resumeKey(last, sortAttr, params.KeyAttribute)
	}
	return page, nil
}

// QueryCount counts all items matching the key condition.
func (m *DataStore[T]) QueryCount(ctx context.Context, params *storagemodels.QueryParams) (int32, error) {
	if m.queryError != nil {
		return 0, m.queryError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	return int32(len(m.match(params))), nil
}

// match collects items in the queried partition. Callers hold the lock.
func (m *DataStore[T]) match(params *storagemodels.QueryParams) []map[string]types.AttributeValue {
	var matched []map[string]types.AttributeValue
	for _, item := range m.items {
		v, ok := stringAttr(item, params.KeyAttribute)
		if !ok || v != params.KeyValue {
			continue
		}
		if params.SortKeyPrefix != "" {
			s, ok := stringAttr(item, params.SortKeyAttribute)
			if !ok || len(s) < len(params.SortKeyPrefix) || s[:len(params.SortKeyPrefix)] != params.SortKeyPrefix {
				continue
			}
		}
		matched = append(matched, item)
	}
	return matched
}

func projectItem(item map[string]types.AttributeValue, projection []string) map[string]types.AttributeValue {
	if len(projection) == 0 {
		cp := make(map[string]types.AttributeValue, len(item))
		for k, v := range item {
			cp[k] = v
		}
		return cp
	}
	cp := make(map[string]types.AttributeValue, len(projection))
	for _, attr := range projection {
		if v, ok := item[attr]; ok {
			cp[attr] = v
		}
	}
	return cp
}

// resumeKey mirrors the shape of a DynamoDB LastEvaluatedKey for a GSI
// query: table primary key plus the index key attributes.
func resumeKey(item map[string]types.AttributeValue, sortAttr, keyAttr string) map[string]types.AttributeValue {
	out := make(map[string]types.AttributeValue, 4)
	for _, attr := range []string{keys.AttrPK, keys.AttrSK, sortAttr, keyAttr} {
		if v, ok := item[attr]; ok {
			out[attr] = v
		}
	}
	return out
}
