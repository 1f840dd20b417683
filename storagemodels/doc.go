/*
Package storagemodels defines the shared query parameter and result page
types exchanged between the repository layer and datastore
implementations.

Key conditions are carried semantically (index name, partition attribute,
partition value, optional sort prefix) instead of as raw DynamoDB
expression strings. The ddb implementation compiles them into key
condition expressions; the mock implementation evaluates them directly
against stored items.
*/
package storagemodels
