package fifo_test

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mverdier/equitrack/internal/apperrors"
	"github.com/mverdier/equitrack/internal/fifo"
	"github.com/mverdier/equitrack/internal/model"
)

func day(d int) time.Time {
	return time.Date(2024, time.January, d, 0, 0, 0, 0, time.UTC)
}

func tx(id, txType string, qty, price, fee float64, date time.Time) model.Transaction {
	q := decimal.NewFromFloat(qty)
	p := decimal.NewFromFloat(price)
	f := decimal.NewFromFloat(fee)
	return model.Transaction{
		ID:        id,
		Ticker:    "AI.PA",
		Type:      txType,
		Quantity:  q,
		Price:     p,
		Fee:       f,
		Date:      date,
		TotalCost: model.ComputeTotalCost(txType, q, p, f),
	}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func eq(t *testing.T, name string, got decimal.Decimal, want string) {
	t.Helper()
	if !got.Equal(decimal.RequireFromString(want)) {
		t.Errorf("%s = %s, want %s", name, got, want)
	}
}

// TestReplay_FIFOOrder tests lot consumption order.
//
// WHY: FIFO correctness is the core invariant of realized-gain computation:
// a sell must never touch the second lot before the first is exhausted.
func TestReplay_FIFOOrder(t *testing.T) {
	t.Run("small sell consumes only the oldest lot", func(t *testing.T) {
		result, err := fifo.Replay([]model.Transaction{
			tx("b1", model.TransactionBuy, 10, 100, 0, day(1)),
			tx("b2", model.TransactionBuy, 10, 200, 0, day(2)),
			tx("s1", model.TransactionSell, 4, 150, 0, day(3)),
		})
		if err != nil {
			t.Fatalf("Replay() returned unexpected error: %v", err)
		}

		if len(result.Gains) != 1 {
			t.Fatalf("Expected 1 realized gain, got %d", len(result.Gains))
		}
		gain := result.Gains[0]
		if len(gain.ConsumedLots) != 1 || gain.ConsumedLots[0] != "b1" {
			t.Errorf("Expected only lot b1 consumed, got %v", gain.ConsumedLots)
		}
		eq(t, "CostBasis", gain.CostBasis, "400")
		eq(t, "Gain", gain.Gain, "200")

		// Lot b1 survives partially, b2 untouched.
		if len(result.OpenLots) != 2 {
			t.Fatalf("Expected 2 open lots, got %d", len(result.OpenLots))
		}
		eq(t, "b1 remaining", result.OpenLots[0].RemainingQuantity, "6")
		eq(t, "b2 remaining", result.OpenLots[1].RemainingQuantity, "10")
	})

	t.Run("large sell exhausts the oldest lot before touching the next", func(t *testing.T) {
		result, err := fifo.Replay([]model.Transaction{
			tx("b1", model.TransactionBuy, 10, 100, 0, day(1)),
			tx("b2", model.TransactionBuy, 10, 200, 0, day(2)),
			tx("s1", model.TransactionSell, 15, 150, 0, day(3)),
		})
		if err != nil {
			t.Fatalf("Replay() returned unexpected error: %v", err)
		}

		gain := result.Gains[0]
		if len(gain.ConsumedLots) != 2 {
			t.Fatalf("Expected 2 consumed lots, got %v", gain.ConsumedLots)
		}
		// 10 @ 100 + 5 @ 200
		eq(t, "CostBasis", gain.CostBasis, "2000")
		eq(t, "Gain", gain.Gain, "250")

		if len(result.OpenLots) != 1 || result.OpenLots[0].BuyTransactionID != "b2" {
			t.Fatalf("Expected only b2 open, got %+v", result.OpenLots)
		}
		eq(t, "b2 remaining", result.OpenLots[0].RemainingQuantity, "5")
	})
}

// TestReplay_FeeAmortization tests the worked fee scenario.
//
// WHY: fees shift both the unit cost of lots and the proceeds of sales.
// This pins the exact decimal outcome of the canonical two-buy one-sell
// sequence so rounding drift cannot creep in unnoticed.
func TestReplay_FeeAmortization(t *testing.T) {
	result, err := fifo.Replay([]model.Transaction{
		tx("b1", model.TransactionBuy, 10, 100, 1, day(1)),  // cost 1001, unit 100.1
		tx("b2", model.TransactionBuy, 5, 120, 1, day(2)),   // cost 601, unit 120.2
		tx("s1", model.TransactionSell, 12, 150, 1, day(3)), // proceeds 1799
	})
	if err != nil {
		t.Fatalf("Replay() returned unexpected error: %v", err)
	}

	gain := result.Gains[0]
	eq(t, "Proceeds", gain.Proceeds, "1799")
	eq(t, "CostBasis", gain.CostBasis, "1241.4") // 1001 + 2*120.2
	eq(t, "Gain", gain.Gain, "557.6")

	if len(result.OpenLots) != 1 {
		t.Fatalf("Expected 1 open lot, got %d", len(result.OpenLots))
	}
	eq(t, "remaining quantity", result.OpenLots[0].RemainingQuantity, "3")
	eq(t, "remaining unit cost", result.OpenLots[0].UnitCost, "120.2")
}

// TestReplay_InsufficientQuantity tests oversell rejection.
//
// WHY: a sell exceeding held quantity must invalidate the whole replay
// rather than silently clip, so callers can reject the append outright.
func TestReplay_InsufficientQuantity(t *testing.T) {
	_, err := fifo.Replay([]model.Transaction{
		tx("b1", model.TransactionBuy, 10, 100, 1, day(1)),
		tx("b2", model.TransactionBuy, 5, 120, 1, day(2)),
		tx("s1", model.TransactionSell, 20, 150, 1, day(3)),
	})
	if !errors.Is(err, apperrors.ErrInsufficientQuantity) {
		t.Fatalf("Expected ErrInsufficientQuantity, got %v", err)
	}
}

// TestReplay_ExactClose tests selling exactly the total open quantity.
//
// WHY: the boundary sell must fully close every lot so the position
// disappears instead of lingering as a zero row.
func TestReplay_ExactClose(t *testing.T) {
	result, err := fifo.Replay([]model.Transaction{
		tx("b1", model.TransactionBuy, 10, 100, 1, day(1)),
		tx("b2", model.TransactionBuy, 5, 120, 1, day(2)),
		tx("s1", model.TransactionSell, 15, 150, 1, day(3)),
	})
	if err != nil {
		t.Fatalf("Replay() returned unexpected error: %v", err)
	}

	if len(result.OpenLots) != 0 {
		t.Errorf("Expected no open lots, got %+v", result.OpenLots)
	}
	if _, held := fifo.Aggregate("AI.PA", "", result.OpenLots); held {
		t.Error("Expected no position after exact close")
	}
	// 1001 + 601 basis against 15*150-1 proceeds
	eq(t, "Gain", result.Gains[0].Gain, "647")
}

// TestReplay_Idempotent tests recomputation stability.
//
// WHY: lots and gains are pure functions of the ledger; replaying the same
// history twice must yield identical results with no hidden accumulator.
func TestReplay_Idempotent(t *testing.T) {
	history := []model.Transaction{
		tx("b1", model.TransactionBuy, 10, 100, 1, day(1)),
		tx("s1", model.TransactionSell, 4, 110, 1, day(2)),
		tx("b2", model.TransactionBuy, 5, 120, 1, day(3)),
		tx("s2", model.TransactionSell, 7, 130, 1, day(4)),
	}

	first, err := fifo.Replay(history)
	if err != nil {
		t.Fatalf("first Replay() returned unexpected error: %v", err)
	}
	second, err := fifo.Replay(history)
	if err != nil {
		t.Fatalf("second Replay() returned unexpected error: %v", err)
	}

	if len(first.Gains) != len(second.Gains) {
		t.Fatalf("Gain counts differ: %d vs %d", len(first.Gains), len(second.Gains))
	}
	for i := range first.Gains {
		if !first.Gains[i].Gain.Equal(second.Gains[i].Gain) {
			t.Errorf("Gain %d differs: %s vs %s", i, first.Gains[i].Gain, second.Gains[i].Gain)
		}
	}
	if !first.OpenQuantity().Equal(second.OpenQuantity()) {
		t.Errorf("Open quantity differs: %s vs %s", first.OpenQuantity(), second.OpenQuantity())
	}
}

// TestReplay_UnknownType tests rejection of malformed history.
func TestReplay_UnknownType(t *testing.T) {
	_, err := fifo.Replay([]model.Transaction{
		tx("x1", "dividend", 1, 1, 0, day(1)),
	})
	if err == nil {
		t.Fatal("Expected error for unknown transaction type, got nil")
	}
}
