package fifo_test

import (
	"testing"

	"github.com/mverdier/equitrack/internal/fifo"
	"github.com/mverdier/equitrack/internal/model"
)

// TestAggregate tests the weighted-average cost derivation.
//
// WHY: the PRU must equal the fee-inclusive weighted average of the open
// lots and must not depend on the order lots are supplied in.
func TestAggregate(t *testing.T) {
	t.Run("weighted average over buys", func(t *testing.T) {
		result, err := fifo.Replay([]model.Transaction{
			tx("b1", model.TransactionBuy, 10, 100, 1, day(1)),
			tx("b2", model.TransactionBuy, 5, 120, 1, day(2)),
		})
		if err != nil {
			t.Fatalf("Replay() returned unexpected error: %v", err)
		}

		pos, held := fifo.Aggregate("AI.PA", "Air Liquide", result.OpenLots)
		if !held {
			t.Fatal("Expected an open position")
		}
		eq(t, "Quantity", pos.Quantity, "15")
		eq(t, "TotalInvested", pos.TotalInvested, "1602") // 1001 + 601
		eq(t, "AverageCost", pos.AverageCost, "106.8")    // 1602 / 15
		if pos.CompanyName != "Air Liquide" {
			t.Errorf("CompanyName = %q, want Air Liquide", pos.CompanyName)
		}
	})

	t.Run("insensitive to lot order", func(t *testing.T) {
		lots := []model.Lot{
			{RemainingQuantity: dec("10"), UnitCost: dec("100.1")},
			{RemainingQuantity: dec("5"), UnitCost: dec("120.2")},
		}
		reversed := []model.Lot{lots[1], lots[0]}

		a, _ := fifo.Aggregate("AI.PA", "", lots)
		b, _ := fifo.Aggregate("AI.PA", "", reversed)

		if !a.AverageCost.Equal(b.AverageCost) {
			t.Errorf("AverageCost differs by lot order: %s vs %s", a.AverageCost, b.AverageCost)
		}
		if !a.TotalInvested.Equal(b.TotalInvested) {
			t.Errorf("TotalInvested differs by lot order: %s vs %s", a.TotalInvested, b.TotalInvested)
		}
	})

	t.Run("no position when nothing is held", func(t *testing.T) {
		if _, held := fifo.Aggregate("AI.PA", "", nil); held {
			t.Error("Expected no position for empty lot set")
		}
	})
}
