/*
 * Copyright © 2025 Envitrack Systems Inc., All rights reserved.
 */

package ddb

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"github.com/envitrack/entitydata/datastore"
	eserrors "github.com/envitrack/entitydata/errors"
	"github.com/envitrack/entitydata/keys"
	"github.com/envitrack/entitydata/registry"
)

// attrEntityType is injected into every stored item so heterogeneous
// entity types can be told apart when read back from a shared index.
const attrEntityType = "EntityType"

// attrVersion is the optimistic-concurrency attribute checked by
// version guards.
const attrVersion = "Version"

// DynamodbDataStore implements datastore.DataStore[T] on AWS DynamoDB.
type DynamodbDataStore[T any] struct {
	client    *sdk.Client
	tableName string
	log       *zap.Logger
}

// NewDynamoDBClient initializes a DynamoDB client using static AWS
// credentials. The client handle is owned by the process bootstrap and
// shared across all entity stores.
func NewDynamoDBClient(ctx context.Context, awsAccessKey, awsSecretKey, awsRegion string) (*sdk.Client, error) {
	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(awsRegion),
		config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(awsAccessKey, awsSecretKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}
	return sdk.NewFromConfig(cfg), nil
}

// New constructs a DynamodbDataStore for type T on an injected client.
func New[T any](client *sdk.Client, tableName string, log *zap.Logger) *DynamodbDataStore[T] {
	if log == nil {
		log = zap.NewNop()
	}
	return &DynamodbDataStore[T]{
		client:    client,
		tableName: tableName,
		log:       log,
	}
}

// GetItem retrieves a single item by its full primary key. It returns
// (nil, nil) when no item is found.
func (d *DynamodbDataStore[T]) GetItem(ctx context.Context, pk, sk string) (*T, error) {
	out, err := d.client.GetItem(ctx, &sdk.GetItemInput{
		TableName: &d.tableName,
		Key:       primaryKeyAttrs(pk, sk),
	})
	if err != nil {
		return nil, eserrors.NewStorageError("GetItem", err)
	}
	if out.Item == nil {
		return nil, nil
	}

	result := new(T)
	if err := attributevalue.UnmarshalMap(out.Item, result); err != nil {
		return nil, eserrors.NewStorageError("GetItem", fmt.Errorf("failed to unmarshal item: %w", err))
	}
	return result, nil
}

// PutItem stores the given entity, deriving every key attribute through
// the registered key deriver so derived keys can never go stale.
func (d *DynamodbDataStore[T]) PutItem(ctx context.Context, entity T, guard datastore.Guard) error {
	deriver, ok := registry.GetKeyDeriver[T]()
	if !ok {
		return eserrors.NewStorageError("PutItem", fmt.Errorf("no key deriver registered for type %T", entity))
	}

	av, err := attributevalue.MarshalMap(entity)
	if err != nil {
		return eserrors.NewStorageError("PutItem", fmt.Errorf("failed to marshal entity: %w", err))
	}

	derived := deriver(&entity)
	for name, value := range derived {
		av[name] = &types.AttributeValueMemberS{Value: value}
	}
	if pk, ok := derived[keys.AttrPK]; ok {
		if entityType, _, err := keys.ParsePrimaryKey(pk); err == nil {
			av[attrEntityType] = &types.AttributeValueMemberS{Value: entityType}
		}
	}

	condition, names, values := compileGuard(guard)
	_, err = d.client.PutItem(ctx, &sdk.PutItemInput{
		TableName:                 &d.tableName,
		Item:                      av,
		ConditionExpression:       condition,
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
	})
	if err != nil {
		return translateError("PutItem", err)
	}
	return nil
}

// UpdateItem applies a partial update and returns the item as stored
// after the write. The caller includes any derived key attributes the
// update affects, so primary attributes and index keys change in the
// same write.
func (d *DynamodbDataStore[T]) UpdateItem(ctx context.Context, pk, sk string, updates map[string]any, guard datastore.Guard) (*T, error) {
	updateExpr, exprNames, exprValues, err := buildUpdateExpression(updates)
	if err != nil {
		return nil, eserrors.NewStorageError("UpdateItem", err)
	}

	condition, guardNames, guardValues := compileGuard(guard)
	mergeExpressionAttrs(exprNames, exprValues, guardNames, guardValues)

	out, err := d.client.UpdateItem(ctx, &sdk.UpdateItemInput{
		TableName:                 &d.tableName,
		Key:                       primaryKeyAttrs(pk, sk),
		UpdateExpression:          &updateExpr,
		ConditionExpression:       condition,
		ExpressionAttributeNames:  exprNames,
		ExpressionAttributeValues: exprValues,
		ReturnValues:              types.ReturnValueAllNew,
	})
	if err != nil {
		return nil, translateError("UpdateItem", err)
	}

	result := new(T)
	if err := attributevalue.UnmarshalMap(out.Attributes, result); err != nil {
		return nil, eserrors.NewStorageError("UpdateItem", fmt.Errorf("failed to unmarshal updated item: %w", err))
	}
	return result, nil
}

// AddToCounter atomically adds delta to a numeric attribute directly at
// the storage layer, never via read-modify-write, so concurrent
// adjustments cannot lose updates.
func (d *DynamodbDataStore[T]) AddToCounter(ctx context.Context, pk, sk, attribute string, delta int, guard datastore.Guard) (*T, error) {
	updateExpr := "ADD #ctr :delta"
	exprNames := map[string]string{"#ctr": attribute}
	exprValues := map[string]types.AttributeValue{
		":delta": &types.AttributeValueMemberN{Value: strconv.Itoa(delta)},
	}

	condition, guardNames, guardValues := compileGuard(guard)
	mergeExpressionAttrs(exprNames, exprValues, guardNames, guardValues)

	out, err := d.client.UpdateItem(ctx, &sdk.UpdateItemInput{
		TableName:                 &d.tableName,
		Key:                       primaryKeyAttrs(pk, sk),
		UpdateExpression:          &updateExpr,
		ConditionExpression:       condition,
		ExpressionAttributeNames:  exprNames,
		ExpressionAttributeValues: exprValues,
		ReturnValues:              types.ReturnValueAllNew,
	})
	if err != nil {
		return nil, translateError("AddToCounter", err)
	}

	result := new(T)
	if err := attributevalue.UnmarshalMap(out.Attributes, result); err != nil {
		return nil, eserrors.NewStorageError("AddToCounter", fmt.Errorf("failed to unmarshal updated item: %w", err))
	}
	return result, nil
}

// DeleteItem removes the item at (pk, sk), honoring the guard.
func (d *DynamodbDataStore[T]) DeleteItem(ctx context.Context, pk, sk string, guard datastore.Guard) error {
	condition, names, values := compileGuard(guard)
	_, err := d.client.DeleteItem(ctx, &sdk.DeleteItemInput{
		TableName:                 &d.tableName,
		Key:                       primaryKeyAttrs(pk, sk),
		ConditionExpression:       condition,
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
	})
	if err != nil {
		return translateError("DeleteItem", err)
	}
	return nil
}

func primaryKeyAttrs(pk, sk string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		keys.AttrPK: &types.AttributeValueMemberS{Value: pk},
		keys.AttrSK: &types.AttributeValueMemberS{Value: sk},
	}
}

// compileGuard translates a semantic guard into a DynamoDB condition
// expression with its attribute names and values.
func compileGuard(g datastore.Guard) (*string, map[string]string, map[string]types.AttributeValue) {
	switch g.Kind {
	case datastore.GuardNotExists:
		return aws.String("attribute_not_exists(#pk)"),
			map[string]string{"#pk": keys.AttrPK},
			nil
	case datastore.GuardExists:
		return aws.String("attribute_exists(#pk)"),
			map[string]string{"#pk": keys.AttrPK},
			nil
	case datastore.GuardVersionEquals:
		return aws.String("attribute_exists(#pk) AND #ver = :expectedVersion"),
			map[string]string{"#pk": keys.AttrPK, "#ver": attrVersion},
			map[string]types.AttributeValue{
				":expectedVersion": &types.AttributeValueMemberN{Value: strconv.FormatInt(g.ExpectedVersion, 10)},
			}
	case datastore.GuardCounterPositive:
		return aws.String("attribute_exists(#pk) AND #ctr > :zero"),
			map[string]string{"#pk": keys.AttrPK, "#ctr": g.CounterAttribute},
			map[string]types.AttributeValue{
				":zero": &types.AttributeValueMemberN{Value: "0"},
			}
	case datastore.GuardCounterZero:
		return aws.String("attribute_exists(#pk) AND (attribute_not_exists(#ctr) OR #ctr = :zero)"),
			map[string]string{"#pk": keys.AttrPK, "#ctr": g.CounterAttribute},
			map[string]types.AttributeValue{
				":zero": &types.AttributeValueMemberN{Value: "0"},
			}
	default:
		return nil, nil, nil
	}
}

// buildUpdateExpression transforms a map of attribute->value into a SET
// expression with placeholder names and marshaled values. Attributes
// are processed in sorted order so expressions are deterministic.
func buildUpdateExpression(updates map[string]any) (string, map[string]string, map[string]types.AttributeValue, error) {
	if len(updates) == 0 {
		return "", nil, nil, errors.New("no updates provided")
	}

	attrs := make([]string, 0, len(updates))
	for attr := range updates {
		attrs = append(attrs, attr)
	}
	sort.Strings(attrs)

	expr := "SET "
	exprNames := make(map[string]string, len(updates))
	exprValues := make(map[string]types.AttributeValue, len(updates))

	for i, attr := range attrs {
		namePlaceholder := fmt.Sprintf("#f%d", i)
		valuePlaceholder := fmt.Sprintf(":v%d", i)

		av, err := attributevalue.Marshal(updates[attr])
		if err != nil {
			return "", nil, nil, fmt.Errorf("failed to marshal value for attribute %q: %w", attr, err)
		}

		if i > 0 {
			expr += ", "
		}
		expr += namePlaceholder + " = " + valuePlaceholder
		exprNames[namePlaceholder] = attr
		exprValues[valuePlaceholder] = av
	}

	return expr, exprNames, exprValues, nil
}

func mergeExpressionAttrs(names map[string]string, values map[string]types.AttributeValue,
	guardNames map[string]string, guardValues map[string]types.AttributeValue) {
	for k, v := range guardNames {
		names[k] = v
	}
	for k, v := range guardValues {
		values[k] = v
	}
}

// translateError maps a failed conditional check to ConditionFailedError
// and wraps everything else as StorageError. Domain classification of
// condition failures happens in the repository layer, which knows which
// guard it attached.
func translateError(operation string, err error) error {
	var cfe *types.ConditionalCheckFailedException
	if errors.As(err, &cfe) {
		return eserrors.NewConditionFailedError(operation)
	}
	var txn *types.TransactionCanceledException
	if errors.As(err, &txn) {
		for _, reason := range txn.CancellationReasons {
			if reason.Code != nil && *reason.Code == "ConditionalCheckFailed" {
				return eserrors.NewConditionFailedError(operation)
			}
		}
	}
	return eserrors.NewStorageError(operation, err)
}
