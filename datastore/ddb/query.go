/*
 * Copyright © 2025 Envitrack Systems Inc., All rights reserved.
 */

package ddb

import (
	"context"
	"fmt"
	"strings"

	sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	eserrors "github.com/envitrack/entitydata/errors"
	"github.com/envitrack/entitydata/storagemodels"
)

// QueryPage runs one bounded page of a query against the table or one
// of its secondary indexes. The page limit bounds the pre-filter read;
// callers apply any non-indexable predicates to the returned items.
func (d *DynamodbDataStore[T]) QueryPage(ctx context.Context, params *storagemodels.QueryParams) (*storagemodels.QueryPage, error) {
	input, err := buildQueryInput(params)
	if err != nil {
		return nil, eserrors.NewStorageError("Query", err)
	}

	out, err := d.client.Query(ctx, input)
	if err != nil {
		return nil, eserrors.NewStorageError("Query", err)
	}

	d.log.Debug("query page",
		zap.String("index", params.IndexName),
		zap.String("partition", params.KeyValue),
		zap.Int32("count", out.Count),
		zap.Bool("hasMore", out.LastEvaluatedKey != nil))

	return &storagemodels.QueryPage{
		Items:            out.Items,
		Count:            out.Count,
		LastEvaluatedKey: out.LastEvaluatedKey,
	}, nil
}

// QueryCount counts all items matching the key condition, following
// internal pagination until the partition is exhausted. No item data
// crosses the wire, so cost scales with partition size only through
// read units, not transfer.
func (d *DynamodbDataStore[T]) QueryCount(ctx context.Context, params *storagemodels.QueryParams) (int32, error) {
	counted := *params
	counted.CountOnly = true
	counted.Limit = nil

	input, err := buildQueryInput(&counted)
	if err != nil {
		return 0, eserrors.NewStorageError("QueryCount", err)
	}

	var total int32
	for {
		out, err := d.client.Query(ctx, input)
		if err != nil {
			return 0, eserrors.NewStorageError("QueryCount", err)
		}
		total += out.Count
		if out.LastEvaluatedKey == nil {
			break
		}
		input.ExclusiveStartKey = out.LastEvaluatedKey
	}
	return total, nil
}

func buildQueryInput(params *storagemodels.QueryParams) (*sdk.QueryInput, error) {
	if params.KeyAttribute == "" || params.KeyValue == "" {
		return nil, fmt.Errorf("query requires a key attribute and partition value")
	}

	keyCondition := "#kpk = :kpk"
	exprNames := map[string]string{"#kpk": params.KeyAttribute}
	exprValues := map[string]types.AttributeValue{
		":kpk": &types.AttributeValueMemberS{Value: params.KeyValue},
	}

	if params.SortKeyPrefix != "" {
		if params.SortKeyAttribute == "" {
			return nil, fmt.Errorf("sort key prefix requires a sort key attribute")
		}
		keyCondition += " AND begins_with(#ksk, :ksk)"
		exprNames["#ksk"] = params.SortKeyAttribute
		exprValues[":ksk"] = &types.AttributeValueMemberS{Value: params.SortKeyPrefix}
	}

	input := &sdk.QueryInput{
		TableName:                 &params.TableName,
		KeyConditionExpression:    &keyCondition,
		ExpressionAttributeNames:  exprNames,
		ExpressionAttributeValues: exprValues,
		Limit:                     params.Limit,
		ExclusiveStartKey:         params.ExclusiveStartKey,
		ScanIndexForward:          params.ScanIndexForward,
	}
	if params.IndexName != "" {
		input.IndexName = &params.IndexName
	}
	if params.CountOnly {
		input.Select = types.SelectCount
	} else if len(params.ProjectionAttributes) > 0 {
		placeholders := make([]string, len(params.ProjectionAttributes))
		for i, attr := range params.ProjectionAttributes {
			ph := fmt.Sprintf("#p%d", i)
			exprNames[ph] = attr
			placeholders[i] = ph
		}
		projection := strings.Join(placeholders, ", ")
		input.ProjectionExpression = &projection
	}

	return input, nil
}
