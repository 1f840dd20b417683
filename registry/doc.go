/*
Package registry associates Go entity types with their single-table key
derivation functions and key schemas.

Entity packages register a KeyDeriver for each type at init time;
datastore implementations look the deriver up by type on every write and
inject the derived key attributes into the stored item. The schema
registry additionally records the key templates per type prefix so
tooling (cmd/schema) can enumerate the table layout.
*/
package registry
