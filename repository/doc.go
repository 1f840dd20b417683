/*
 * Copyright © 2025 Envitrack Systems Inc., All rights reserved.
 */

// Package repository implements the entity repositories of the
// single-table layout: customers, projects and measurements, each owned
// by one repository over a shared generic store.
//
// The generic Store provides identity CRUD with optimistic concurrency,
// filtered index-routed listing with opaque cursors, atomic
// dependent-count maintenance and client-side statistics aggregation.
// The typed repositories add attribute validation and the cross-entity
// referential rules: a project requires its customer, a measurement
// requires its project, and a parent with a nonzero dependent count
// cannot be deleted.
package repository
