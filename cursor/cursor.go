/*
 * Copyright © 2025 Envitrack Systems Inc., All rights reserved.
 */

package cursor

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	eserrors "github.com/envitrack/entitydata/errors"
)

// token is the serialized form of a resume position. Key attributes in
// this table are all strings, so the position is a plain string map.
type token struct {
	// Keys is the engine-native last evaluated key.
	Keys map[string]string `json:"k"`
	// Filter fingerprints the filter parameters the cursor was produced
	// under. Replaying a cursor against a different filter is rejected.
	Filter uint64 `json:"f"`
}

// Fingerprint hashes the filter parameters a list query was issued with.
// The same parameters always produce the same fingerprint, so a cursor
// can be validated against the follow-up request.
func Fingerprint(parts ...string) uint64 {
	h := fnv.New64a()
	for _, p := range parts {
		h.Write([]byte(p))
		h.Write([]byte{0})
	}
	return h.Sum64()
}

// Encode serializes a last evaluated key into an opaque URL-safe token.
// A nil or empty position yields an empty token, meaning no more pages.
// Non-string key attributes indicate an internal schema violation and
// surface as a storage error, never as a user-facing cursor error.
func Encode(lastKey map[string]types.AttributeValue, filterFingerprint uint64) (string, error) {
	if len(lastKey) == 0 {
		return "", nil
	}

	keys := make(map[string]string, len(lastKey))
	for name, av := range lastKey {
		s, ok := av.(*types.AttributeValueMemberS)
		if !ok {
			return "", eserrors.NewStorageError("EncodeCursor",
				fmt.Errorf("non-string key attribute %q in resume position", name))
		}
		keys[name] = s.Value
	}

	raw, err := json.Marshal(token{Keys: keys, Filter: filterFingerprint})
	if err != nil {
		return "", eserrors.NewStorageError("EncodeCursor", err)
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}

// Decode parses a token produced by Encode back into an exclusive start
// key, validating it against the fingerprint of the current filter
// parameters. Malformed, truncated or foreign tokens yield an
// InvalidCursor error, which callers must treat as a bad request.
func Decode(encoded string, filterFingerprint uint64) (map[string]types.AttributeValue, error) {
	if strings.TrimSpace(encoded) == "" {
		return nil, eserrors.NewInvalidCursorError("empty token")
	}

	raw, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return nil, eserrors.NewInvalidCursorError("token is not URL-safe base64")
	}

	var tok token
	if err := json.Unmarshal(raw, &tok); err != nil {
		return nil, eserrors.NewInvalidCursorError("token payload is not valid")
	}
	if len(tok.Keys) == 0 {
		return nil, eserrors.NewInvalidCursorError("token carries no resume position")
	}
	if tok.Filter != filterFingerprint {
		return nil, eserrors.NewInvalidCursorError("token was produced under different filter parameters")
	}

	startKey := make(map[string]types.AttributeValue, len(tok.Keys))
	for name, v := range tok.Keys {
		startKey[name] = &types.AttributeValueMemberS{Value: v}
	}
	return startKey, nil
}
