/*
 * Copyright © 2025 Envitrack Systems Inc., All rights reserved.
 */

package repository

import (
	"context"
	"fmt"
	"testing"

	"github.com/envitrack/entitydata/models"
)

func TestStatistics(t *testing.T) {
	ctx := context.Background()

	t.Run("counts per status and per category", func(t *testing.T) {
		f := newFixture(t)
		f.mustCreateCustomer(t, CustomerAttributes{Name: "Mine A", Industry: "mining"})
		f.mustCreateCustomer(t, CustomerAttributes{Name: "Mine B", Industry: "mining"})
		f.mustCreateCustomer(t, CustomerAttributes{Name: "Mill C", Industry: "pulp-paper"})
		f.mustCreateCustomer(t, CustomerAttributes{Name: "Idle D", Industry: "mining", Status: models.StatusInactive})

		stats, err := f.customers.Statistics(ctx)
		if err != nil {
			t.Fatalf("Statistics: %v", err)
		}
		if got := stats.TotalByStatus[models.StatusActive]; got != 3 {
			t.Errorf("active = %d, want 3", got)
		}
		if got := stats.TotalByStatus[models.StatusInactive]; got != 1 {
			t.Errorf("inactive = %d, want 1", got)
		}

		// The category breakdown covers only active entities.
		if got := stats.ByCategory["mining"]; got != 2 {
			t.Errorf("mining = %d, want 2", got)
		}
		if got := stats.ByCategory["pulp-paper"]; got != 1 {
			t.Errorf("pulp-paper = %d, want 1", got)
		}
	})

	t.Run("empty table yields zero counts", func(t *testing.T) {
		f := newFixture(t)

		stats, err := f.customers.Statistics(ctx)
		if err != nil {
			t.Fatalf("Statistics: %v", err)
		}
		for status, count := range stats.TotalByStatus {
			if count != 0 {
				t.Errorf("status %s = %d, want 0", status, count)
			}
		}
		if len(stats.ByCategory) != 0 {
			t.Errorf("ByCategory = %v, want empty", stats.ByCategory)
		}
	})

	t.Run("category breakdown pages through large partitions", func(t *testing.T) {
		f := newFixture(t)
		// More active customers than one statistics page holds.
		for i := 0; i < int(statisticsPageSize)+20; i++ {
			f.mustCreateCustomer(t, CustomerAttributes{
				Name:     fmt.Sprintf("Plant %03d", i),
				Industry: "mining",
			})
		}

		stats, err := f.customers.Statistics(ctx)
		if err != nil {
			t.Fatalf("Statistics: %v", err)
		}
		want := int32(statisticsPageSize + 20)
		if got := stats.ByCategory["mining"]; got != want {
			t.Errorf("mining = %d, want %d", got, want)
		}
		if got := stats.TotalByStatus[models.StatusActive]; got != want {
			t.Errorf("active = %d, want %d", got, want)
		}
	})

	t.Run("measurement statistics group by parameter", func(t *testing.T) {
		f := newFixture(t)
		c := f.mustCreateCustomer(t, CustomerAttributes{Name: "Nordkalk AB"})
		p := f.mustCreateProject(t, ProjectAttributes{CustomerID: c.ID, Name: "A", Type: models.ProjectTypeWastewaterTreatment})

		for _, param := range []string{models.ParameterPH, models.ParameterPH, models.ParameterCOD} {
			if _, err := f.measurements.Create(ctx, MeasurementAttributes{
				ProjectID: p.ID,
				Parameter: param,
				Value:     1,
				Unit:      "u",
			}); err != nil {
				t.Fatalf("create measurement: %v", err)
			}
		}

		stats, err := f.measurements.Statistics(ctx)
		if err != nil {
			t.Fatalf("Statistics: %v", err)
		}
		if got := stats.ByCategory[models.ParameterPH]; got != 2 {
			t.Errorf("ph = %d, want 2", got)
		}
		if got := stats.ByCategory[models.ParameterCOD]; got != 1 {
			t.Errorf("cod = %d, want 1", got)
		}
	})
}
