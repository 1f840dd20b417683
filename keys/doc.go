/*
Package keys derives every primary and secondary index key used by the
single-table layout, and parses them back. It is the only package that
understands key string formats.

Key shapes:

	PK     = "CUSTOMER#<id>"            SK     = "METADATA"
	GSI1PK = "CUSTOMER_STATUS#active"   GSI1SK = "NAME#<name>"
	GSI2PK = "CUSTOMER_CATEGORY#<ind>"  GSI2SK = "CREATED#<rfc3339>"

Two entities with identical derived attribute values collide in the same
index partition by design; primary keys never collide because ids are
generated to be globally unique.

Whenever an attribute feeding a derived key changes, every derived key
field on that item must be rewritten in the same update. A stale
secondary key silently removes the item from query results without
raising an error, so the repository layer recomputes all of them through
this package on every write.
*/
package keys
