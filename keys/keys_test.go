/*
 * Copyright © 2025 Envitrack Systems Inc., All rights reserved.
 */

package keys

import "testing"

func TestPrimaryKey(t *testing.T) {
	pk, sk := PrimaryKey("CUSTOMER", "abc-123")

	if pk != "CUSTOMER#abc-123" {
		t.Errorf("Expected PK CUSTOMER#abc-123, got %s", pk)
	}
	if sk != MetadataSK {
		t.Errorf("Expected SK %s, got %s", MetadataSK, sk)
	}
}

func TestParsePrimaryKey(t *testing.T) {
	t.Run("RoundTrip", func(t *testing.T) {
		pk, _ := PrimaryKey("MEASUREMENT", "01ARZ3NDEKTSV4RRFFQ69G5FAV")

		entityType, id, err := ParsePrimaryKey(pk)
		if err != nil {
			t.Fatalf("ParsePrimaryKey failed: %v", err)
		}
		if entityType != "MEASUREMENT" {
			t.Errorf("Expected entity type MEASUREMENT, got %s", entityType)
		}
		if id != "01ARZ3NDEKTSV4RRFFQ69G5FAV" {
			t.Errorf("Expected id 01ARZ3NDEKTSV4RRFFQ69G5FAV, got %s", id)
		}
	})

	t.Run("IDContainingSeparator", func(t *testing.T) {
		// Only the first separator splits type from id.
		entityType, id, err := ParsePrimaryKey("PROJECT#weird#id")
		if err != nil {
			t.Fatalf("ParsePrimaryKey failed: %v", err)
		}
		if entityType != "PROJECT" || id != "weird#id" {
			t.Errorf("Expected PROJECT / weird#id, got %s / %s", entityType, id)
		}
	})

	t.Run("Malformed", func(t *testing.T) {
		for _, pk := range []string{"", "CUSTOMER", "CUSTOMER#", "#abc"} {
			if _, _, err := ParsePrimaryKey(pk); err == nil {
				t.Errorf("Expected error for malformed key %q", pk)
			}
		}
	})
}

func TestStatusIndexKey(t *testing.T) {
	pk, sk := StatusIndexKey("CUSTOMER", "active", "Acme Water Works")

	if pk != "CUSTOMER_STATUS#active" {
		t.Errorf("Expected partition CUSTOMER_STATUS#active, got %s", pk)
	}
	if sk != "NAME#Acme Water Works" {
		t.Errorf("Expected sort NAME#Acme Water Works, got %s", sk)
	}
	if StatusIndexPartition("CUSTOMER", "active") != pk {
		t.Error("StatusIndexPartition should match the partition built by StatusIndexKey")
	}
}

func TestCategoryIndexKey(t *testing.T) {
	pk, sk := CategoryIndexKey("PROJECT", "co2-removal", "2025-06-01T10:00:00Z")

	if pk != "PROJECT_CATEGORY#co2-removal" {
		t.Errorf("Expected partition PROJECT_CATEGORY#co2-removal, got %s", pk)
	}
	if sk != "CREATED#2025-06-01T10:00:00Z" {
		t.Errorf("Expected sort CREATED#2025-06-01T10:00:00Z, got %s", sk)
	}
	if CategoryIndexPartition("PROJECT", "co2-removal") != pk {
		t.Error("CategoryIndexPartition should match the partition built by CategoryIndexKey")
	}
}

func TestParseIndexValue(t *testing.T) {
	val, err := ParseIndexValue("NAME#Acme Water Works")
	if err != nil {
		t.Fatalf("ParseIndexValue failed: %v", err)
	}
	if val != "Acme Water Works" {
		t.Errorf("Expected Acme Water Works, got %s", val)
	}

	if _, err := ParseIndexValue("no-separator"); err == nil {
		t.Error("Expected error for component without separator")
	}
}

func TestSharedPartitionByDesign(t *testing.T) {
	a, _ := StatusIndexKey("CUSTOMER", "active", "Alpha")
	b, _ := StatusIndexKey("CUSTOMER", "active", "Beta")
	if a != b {
		t.Error("Entities sharing a status must land in the same index partition")
	}
}
