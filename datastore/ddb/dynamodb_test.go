/*
 * Copyright © 2025 Envitrack Systems Inc., All rights reserved.
 */

package ddb

import (
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/envitrack/entitydata/datastore"
	"github.com/envitrack/entitydata/storagemodels"
)

func TestBuildUpdateExpression(t *testing.T) {
	t.Run("Deterministic", func(t *testing.T) {
		updates := map[string]any{
			"Name":   "Acme",
			"Status": "inactive",
			"GSI1PK": "CUSTOMER_STATUS#inactive",
		}

		expr, names, values, err := buildUpdateExpression(updates)
		if err != nil {
			t.Fatalf("buildUpdateExpression failed: %v", err)
		}

		// Attributes sorted: GSI1PK, Name, Status.
		expected := "SET #f0 = :v0, #f1 = :v1, #f2 = :v2"
		if expr != expected {
			t.Errorf("Expected expression %q, got %q", expected, expr)
		}
		if names["#f0"] != "GSI1PK" || names["#f1"] != "Name" || names["#f2"] != "Status" {
			t.Errorf("Unexpected placeholder names: %v", names)
		}

		v0, ok := values[":v0"].(*types.AttributeValueMemberS)
		if !ok || v0.Value != "CUSTOMER_STATUS#inactive" {
			t.Errorf("Expected :v0 to be CUSTOMER_STATUS#inactive, got %v", values[":v0"])
		}
	})

	t.Run("NumericValue", func(t *testing.T) {
		_, names, values, err := buildUpdateExpression(map[string]any{"Version": int64(3)})
		if err != nil {
			t.Fatalf("buildUpdateExpression failed: %v", err)
		}
		if names["#f0"] != "Version" {
			t.Errorf("Expected placeholder for Version, got %v", names)
		}
		n, ok := values[":v0"].(*types.AttributeValueMemberN)
		if !ok || n.Value != "3" {
			t.Errorf("Expected numeric value 3, got %v", values[":v0"])
		}
	})

	t.Run("Empty", func(t *testing.T) {
		if _, _, _, err := buildUpdateExpression(nil); err == nil {
			t.Error("Expected error for empty update set")
		}
	})
}

func TestCompileGuard(t *testing.T) {
	t.Run("None", func(t *testing.T) {
		expr, names, values := compileGuard(datastore.NoGuard)
		if expr != nil || names != nil || values != nil {
			t.Error("Expected no condition for NoGuard")
		}
	})

	t.Run("NotExists", func(t *testing.T) {
		expr, names, _ := compileGuard(datastore.Guard{Kind: datastore.GuardNotExists})
		if expr == nil || *expr != "attribute_not_exists(#pk)" {
			t.Errorf("Unexpected expression: %v", expr)
		}
		if names["#pk"] != "PK" {
			t.Errorf("Expected #pk to map to PK, got %v", names)
		}
	})

	t.Run("VersionEquals", func(t *testing.T) {
		expr, names, values := compileGuard(datastore.Guard{
			Kind:            datastore.GuardVersionEquals,
			ExpectedVersion: 7,
		})
		if expr == nil || *expr != "attribute_exists(#pk) AND #ver = :expectedVersion" {
			t.Errorf("Unexpected expression: %v", expr)
		}
		if names["#ver"] != "Version" {
			t.Errorf("Expected #ver to map to Version, got %v", names)
		}
		v, ok := values[":expectedVersion"].(*types.AttributeValueMemberN)
		if !ok || v.Value != "7" {
			t.Errorf("Expected expected version 7, got %v", values[":expectedVersion"])
		}
	})

	t.Run("CounterPositive", func(t *testing.T) {
		expr, names, values := compileGuard(datastore.Guard{
			Kind:             datastore.GuardCounterPositive,
			CounterAttribute: "ProjectCount",
		})
		if expr == nil || *expr != "attribute_exists(#pk) AND #ctr > :zero" {
			t.Errorf("Unexpected expression: %v", expr)
		}
		if names["#ctr"] != "ProjectCount" {
			t.Errorf("Expected #ctr to map to ProjectCount, got %v", names)
		}
		z, ok := values[":zero"].(*types.AttributeValueMemberN)
		if !ok || z.Value != "0" {
			t.Errorf("Expected :zero to be 0, got %v", values[":zero"])
		}
	})

	t.Run("CounterZero", func(t *testing.T) {
		expr, _, _ := compileGuard(datastore.Guard{
			Kind:             datastore.GuardCounterZero,
			CounterAttribute: "ProjectCount",
		})
		if expr == nil || *expr != "attribute_exists(#pk) AND (attribute_not_exists(#ctr) OR #ctr = :zero)" {
			t.Errorf("Unexpected expression: %v", expr)
		}
	})
}

func TestBuildQueryInput(t *testing.T) {
	t.Run("StatusIndex", func(t *testing.T) {
		input, err := buildQueryInput(&storagemodels.QueryParams{
			TableName:        "envitrack-core",
			IndexName:        "GSI1",
			KeyAttribute:     "GSI1PK",
			KeyValue:         "CUSTOMER_STATUS#active",
			SortKeyAttribute: "GSI1SK",
			Limit:            aws.Int32(20),
		})
		if err != nil {
			t.Fatalf("buildQueryInput failed: %v", err)
		}

		if *input.KeyConditionExpression != "#kpk = :kpk" {
			t.Errorf("Unexpected key condition: %s", *input.KeyConditionExpression)
		}
		if input.IndexName == nil || *input.IndexName != "GSI1" {
			t.Error("Expected IndexName GSI1")
		}
		pk := input.ExpressionAttributeValues[":kpk"].(*types.AttributeValueMemberS)
		if pk.Value != "CUSTOMER_STATUS#active" {
			t.Errorf("Expected partition CUSTOMER_STATUS#active, got %s", pk.Value)
		}
		if *input.Limit != 20 {
			t.Errorf("Expected limit 20, got %d", *input.Limit)
		}
	})

	t.Run("SortKeyPrefix", func(t *testing.T) {
		input, err := buildQueryInput(&storagemodels.QueryParams{
			TableName:        "envitrack-core",
			IndexName:        "GSI1",
			KeyAttribute:     "GSI1PK",
			KeyValue:         "CUSTOMER_STATUS#active",
			SortKeyAttribute: "GSI1SK",
			SortKeyPrefix:    "NAME#Ac",
		})
		if err != nil {
			t.Fatalf("buildQueryInput failed: %v", err)
		}

		expected := "#kpk = :kpk AND begins_with(#ksk, :ksk)"
		if *input.KeyConditionExpression != expected {
			t.Errorf("Expected key condition %q, got %q", expected, *input.KeyConditionExpression)
		}
		sk := input.ExpressionAttributeValues[":ksk"].(*types.AttributeValueMemberS)
		if sk.Value != "NAME#Ac" {
			t.Errorf("Expected sort prefix NAME#Ac, got %s", sk.Value)
		}
	})

	t.Run("CountOnly", func(t *testing.T) {
		input, err := buildQueryInput(&storagemodels.QueryParams{
			TableName:    "envitrack-core",
			IndexName:    "GSI1",
			KeyAttribute: "GSI1PK",
			KeyValue:     "PROJECT_STATUS#active",
			CountOnly:    true,
		})
		if err != nil {
			t.Fatalf("buildQueryInput failed: %v", err)
		}
		if input.Select != types.SelectCount {
			t.Error("Expected Select COUNT for count-only query")
		}
	})

	t.Run("Projection", func(t *testing.T) {
		input, err := buildQueryInput(&storagemodels.QueryParams{
			TableName:            "envitrack-core",
			IndexName:            "GSI1",
			KeyAttribute:         "GSI1PK",
			KeyValue:             "CUSTOMER_STATUS#active",
			ProjectionAttributes: []string{"Industry"},
		})
		if err != nil {
			t.Fatalf("buildQueryInput failed: %v", err)
		}
		if input.ProjectionExpression == nil || *input.ProjectionExpression != "#p0" {
			t.Errorf("Unexpected projection expression: %v", input.ProjectionExpression)
		}
		if input.ExpressionAttributeNames["#p0"] != "Industry" {
			t.Errorf("Expected #p0 to map to Industry, got %v", input.ExpressionAttributeNames)
		}
	})

	t.Run("MissingPartition", func(t *testing.T) {
		if _, err := buildQueryInput(&storagemodels.QueryParams{TableName: "envitrack-core"}); err == nil {
			t.Error("Expected error for query without partition value")
		}
	})

	t.Run("PrefixWithoutSortAttribute", func(t *testing.T) {
		_, err := buildQueryInput(&storagemodels.QueryParams{
			TableName:     "envitrack-core",
			KeyAttribute:  "GSI1PK",
			KeyValue:      "CUSTOMER_STATUS#active",
			SortKeyPrefix: "NAME#A",
		})
		if err == nil {
			t.Error("Expected error for sort prefix without sort attribute")
		}
	})
}
