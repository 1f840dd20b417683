/*
Package models defines the entity types stored in the single-table
layout (Customer, Project and Measurement) together with their typed
patch records and key derivation.

Customers own projects (ProjectCount) and projects own measurements
(MeasurementCount). Dependent counts are mutated only through atomic
counter additions at the storage layer; the patch records deliberately
exclude them along with every other storage-owned field.

DeriveKeys is a pure function of a record's current attributes.
Repositories recompute it on a patched copy of the entity to obtain the
index key rewrites an update must carry, so no derived key can go stale.
*/
package models
