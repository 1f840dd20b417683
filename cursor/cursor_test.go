/*
 * Copyright © 2025 Envitrack Systems Inc., All rights reserved.
 */

package cursor

import (
	"encoding/base64"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	eserrors "github.com/envitrack/entitydata/errors"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	lastKey := map[string]types.AttributeValue{
		"PK":     &types.AttributeValueMemberS{Value: "CUSTOMER#c-20"},
		"SK":     &types.AttributeValueMemberS{Value: "METADATA"},
		"GSI1PK": &types.AttributeValueMemberS{Value: "CUSTOMER_STATUS#active"},
		"GSI1SK": &types.AttributeValueMemberS{Value: "NAME#Acme"},
	}
	fp := Fingerprint("active", "", "", "GSI1")

	token, err := Encode(lastKey, fp)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if token == "" {
		t.Fatal("Expected non-empty token for non-empty position")
	}

	decoded, err := Decode(token, fp)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if len(decoded) != len(lastKey) {
		t.Fatalf("Expected %d key attributes, got %d", len(lastKey), len(decoded))
	}
	for name, av := range lastKey {
		want := av.(*types.AttributeValueMemberS).Value
		got, ok := decoded[name].(*types.AttributeValueMemberS)
		if !ok {
			t.Fatalf("Attribute %s did not decode to a string member", name)
		}
		if got.Value != want {
			t.Errorf("Attribute %s: expected %q, got %q", name, want, got.Value)
		}
	}
}

func TestEncodeEmptyPosition(t *testing.T) {
	token, err := Encode(nil, Fingerprint("active"))
	if err != nil {
		t.Fatalf("Encode of nil position failed: %v", err)
	}
	if token != "" {
		t.Errorf("Expected empty token for nil position, got %q", token)
	}
}

func TestEncodeNonStringKeyAttribute(t *testing.T) {
	lastKey := map[string]types.AttributeValue{
		"PK": &types.AttributeValueMemberN{Value: "42"},
	}

	_, err := Encode(lastKey, 0)
	if err == nil {
		t.Fatal("Expected error for non-string key attribute")
	}
	if !eserrors.IsStorage(err) {
		t.Errorf("Expected internal storage error, got %v", err)
	}
}

func TestDecodeMalformedTokens(t *testing.T) {
	tests := []struct {
		name  string
		token string
	}{
		{"NotAValidToken", "not-a-valid-token"},
		{"Empty", ""},
		{"Whitespace", "   "},
		{"NotBase64", "!!!###"},
		{"Base64ButNotJSON", base64.RawURLEncoding.EncodeToString([]byte("hello"))},
		{"JSONWithoutKeys", base64.RawURLEncoding.EncodeToString([]byte(`{"f":1}`))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.token, 0)
			if err == nil {
				t.Fatal("Expected error for malformed token")
			}
			if !eserrors.IsInvalidCursor(err) {
				t.Errorf("Expected InvalidCursor, got %v", err)
			}
		})
	}
}

func TestDecodeTruncatedToken(t *testing.T) {
	lastKey := map[string]types.AttributeValue{
		"PK": &types.AttributeValueMemberS{Value: "CUSTOMER#c-1"},
		"SK": &types.AttributeValueMemberS{Value: "METADATA"},
	}
	token, err := Encode(lastKey, 7)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	_, err = Decode(token[:len(token)/2], 7)
	if err == nil {
		t.Fatal("Expected error for truncated token")
	}
	if !eserrors.IsInvalidCursor(err) {
		t.Errorf("Expected InvalidCursor, got %v", err)
	}
}

func TestDecodeRejectsDifferentFilter(t *testing.T) {
	lastKey := map[string]types.AttributeValue{
		"PK": &types.AttributeValueMemberS{Value: "CUSTOMER#c-1"},
		"SK": &types.AttributeValueMemberS{Value: "METADATA"},
	}
	produced := Fingerprint("active", "", "")
	replayed := Fingerprint("inactive", "", "")

	token, err := Encode(lastKey, produced)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	if _, err := Decode(token, produced); err != nil {
		t.Fatalf("Decode under original filter failed: %v", err)
	}

	_, err = Decode(token, replayed)
	if err == nil {
		t.Fatal("Expected error when replaying cursor under a different filter")
	}
	if !eserrors.IsInvalidCursor(err) {
		t.Errorf("Expected InvalidCursor, got %v", err)
	}
}

func TestFingerprintStability(t *testing.T) {
	a := Fingerprint("active", "municipal", "acme")
	b := Fingerprint("active", "municipal", "acme")
	if a != b {
		t.Error("Fingerprint should be deterministic for identical parameters")
	}

	// Field boundaries matter: ("ab","c") must differ from ("a","bc").
	if Fingerprint("ab", "c") == Fingerprint("a", "bc") {
		t.Error("Fingerprint should separate adjacent fields")
	}
}
