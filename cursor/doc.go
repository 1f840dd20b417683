/*
Package cursor encodes and decodes the opaque pagination tokens handed
out by list operations.

A token is the storage engine's last evaluated key, JSON-serialized and
base64-encoded together with a fingerprint of the filter parameters the
page was produced under. Decode rejects tokens that are malformed, were
not produced by this codec, or are replayed against different filter
parameters, returning an InvalidCursor error in every case.

Tokens are round-tripped through the repository interface only; callers
never parse them. They are not versioned across index schema changes.
*/
package cursor
