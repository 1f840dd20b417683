/*
Package datastore defines the core interfaces for the Envitrack data
layer's persistence boundary.

The main interface is DataStore[T], which provides generic keyed
operations for any entity type T: conditional puts, partial updates,
atomic counter additions, bounded page queries and count queries.
Conditions are expressed as semantic Guard values instead of raw
expression strings, so the DynamoDB implementation and the in-memory
mock enforce identical semantics.

Implementations:
  - ddb: DynamoDB implementation for the single-table layout
  - mock: in-memory implementation for testing

The package uses Go generics to ensure type safety at compile time while
keeping the storage engine swappable.
*/
package datastore
