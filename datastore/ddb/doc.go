/*
Package ddb provides the DynamoDB implementation of the DataStore
interface for the single-table layout.

The DynamodbDataStore supports:
  - Key derivation through the type registry on every write
  - Semantic conditional guards compiled to condition expressions
  - Atomic counter additions via ADD update expressions
  - Bounded page queries with native resume positions
  - Count-only queries that follow internal pagination
  - Automatic EntityType injection for polymorphic storage

Error semantics: a failed conditional check surfaces as
ConditionFailedError; every other engine failure is wrapped as
StorageError and propagated without retries. Domain classification of
condition failures (AlreadyExists, Conflict, InvalidState, ...) happens
in the repository layer, which knows which guard it attached.
*/
package ddb
