package ledger

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	elfbar = BrandContext{ID: "elfbar", Name: "ELFBAR", Image: "/images/elfbar-seeklogo.png"}
	sierra = BrandContext{ID: "sierra", Name: "SIERRA", Image: "/images/logo.png"}
)

func line(flavor, variant string, qty int, price string, brand BrandContext) UpsertInput {
	return UpsertInput{
		FlavorID:    flavor,
		VariantID:   variant,
		Quantity:    qty,
		UnitPrice:   decimal.RequireFromString(price),
		FlavorName:  flavor + " name",
		VariantName: variant + " name",
		Brand:       brand,
	}
}

func TestUpsertFirstLine(t *testing.T) {
	l := Ledger{}.Upsert(line("bc10000-apple", "apple-ice-5", 3, "10.0", elfbar))

	require.Equal(t, 1, l.Len())
	item := l.Items()[0]
	assert.True(t, item.LineTotal.Equal(decimal.NewFromInt(30)))
	assert.True(t, l.GrandTotal().Equal(decimal.NewFromInt(30)))
	assert.Equal(t, "ELFBAR", item.BrandName)
	assert.Equal(t, "/images/elfbar-seeklogo.png", item.BrandImage)
}

func TestUpsertSecondLineThenZeroFirst(t *testing.T) {
	l := Ledger{}.
		Upsert(line("bc10000-apple", "apple-ice-5", 3, "10.0", elfbar)).
		Upsert(line("bc10000", "blueberry-ice-5", 2, "5.0", elfbar))
	assert.True(t, l.GrandTotal().Equal(decimal.NewFromInt(40)))

	l = l.Upsert(line("bc10000-apple", "apple-ice-5", 0, "10.0", elfbar))
	require.Equal(t, 1, l.Len())
	assert.True(t, l.GrandTotal().Equal(decimal.NewFromInt(10)))
	assert.Equal(t, "blueberry-ice-5", l.Items()[0].VariantID)
}

func TestUpsertZeroPriceRemoves(t *testing.T) {
	l := Ledger{}.Upsert(line("iceking", "grape", 4, "12.5", elfbar))
	l = l.Upsert(line("iceking", "grape", 4, "0", elfbar))
	assert.True(t, l.IsEmpty())
	assert.True(t, l.GrandTotal().IsZero())
}

func TestUpsertNonPositiveOnAbsentKeyIsNoop(t *testing.T) {
	base := Ledger{}.Upsert(line("a", "1", 1, "2", elfbar))

	next, outcome := base.Apply(line("b", "1", 0, "2", elfbar))
	assert.Equal(t, OutcomeNoop, outcome)
	assert.Equal(t, base.Items(), next.Items())

	next, outcome = base.Apply(line("b", "1", -3, "2", elfbar))
	assert.Equal(t, OutcomeNoop, outcome)
	assert.Equal(t, 1, next.Len())
}

func TestUpsertReplacesInPlace(t *testing.T) {
	l := Ledger{}.
		Upsert(line("a", "1", 1, "1", elfbar)).
		Upsert(line("b", "1", 1, "1", elfbar)).
		Upsert(line("c", "1", 1, "1", sierra))

	l, outcome := l.Apply(line("b", "1", 5, "3.5", elfbar))
	assert.Equal(t, OutcomeUpdated, outcome)

	items := l.Items()
	require.Len(t, items, 3)
	assert.Equal(t, []string{"a", "b", "c"}, []string{items[0].FlavorID, items[1].FlavorID, items[2].FlavorID})
	assert.Equal(t, 5, items[1].Quantity)
	assert.Equal(t, "17.5", items[1].LineTotal.String())
	assert.Equal(t, "19.5", l.GrandTotal().String())
}

func TestUpsertLeavesReceiverUntouched(t *testing.T) {
	base := Ledger{}.Upsert(line("a", "1", 2, "3", elfbar))
	_ = base.Upsert(line("a", "1", 9, "9", elfbar))
	_ = base.Upsert(line("b", "1", 1, "1", elfbar))
	_ = base.Delete("a", "1")

	require.Equal(t, 1, base.Len())
	assert.Equal(t, 2, base.Items()[0].Quantity)
	assert.Equal(t, "6", base.GrandTotal().String())
}

func TestItemsReturnsCopy(t *testing.T) {
	l := Ledger{}.Upsert(line("a", "1", 2, "3", elfbar))
	items := l.Items()
	items[0].Quantity = 99
	assert.Equal(t, 2, l.Items()[0].Quantity)
}

func TestDeleteIsIdempotent(t *testing.T) {
	l := Ledger{}.
		Upsert(line("a", "1", 2, "3", elfbar)).
		Upsert(line("b", "2", 1, "4", sierra))

	once := l.Delete("a", "1")
	twice := once.Delete("a", "1")

	assert.Equal(t, once.Items(), twice.Items())
	assert.True(t, once.GrandTotal().Equal(twice.GrandTotal()))
	assert.Equal(t, "4", twice.GrandTotal().String())

	untouched := Ledger{}.Delete("missing", "x")
	assert.True(t, untouched.IsEmpty())
}

func TestDeleteMatchesZeroQuantityUpsert(t *testing.T) {
	l := Ledger{}.
		Upsert(line("a", "1", 2, "3", elfbar)).
		Upsert(line("b", "2", 1, "4", sierra))

	deleted := l.Delete("a", "1")
	zeroed := l.Upsert(line("a", "1", 0, "3", elfbar))
	assert.Equal(t, deleted.Items(), zeroed.Items())
}

func TestLineLookup(t *testing.T) {
	l := Ledger{}.Upsert(line("a", "1", 2, "3", elfbar))
	got, ok := l.Line("a", "1")
	require.True(t, ok)
	assert.Equal(t, Key{FlavorID: "a", VariantID: "1"}, got.Key())

	_, ok = l.Line("a", "2")
	assert.False(t, ok)
}

func TestGrandTotalMatchesFinalLinesForRandomSequences(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	brands := []BrandContext{elfbar, sierra}

	for round := 0; round < 200; round++ {
		l := Ledger{}
		expected := map[Key]decimal.Decimal{}
		for step := 0; step < 30; step++ {
			flavor := fmt.Sprintf("f%d", rng.Intn(4))
			variant := fmt.Sprintf("v%d", rng.Intn(3))
			qty := rng.Intn(5) - 1
			price := decimal.NewFromInt(int64(rng.Intn(4))).Add(decimal.New(int64(rng.Intn(100)), -2))
			brand := brands[rng.Intn(len(brands))]

			if rng.Intn(6) == 0 {
				l = l.Delete(flavor, variant)
				delete(expected, Key{flavor, variant})
				continue
			}

			l = l.Upsert(UpsertInput{FlavorID: flavor, VariantID: variant, Quantity: qty, UnitPrice: price, Brand: brand})
			key := Key{flavor, variant}
			if qty > 0 && price.IsPositive() {
				expected[key] = price.Mul(decimal.NewFromInt(int64(qty)))
			} else {
				delete(expected, key)
			}
		}

		want := decimal.Zero
		for _, v := range expected {
			want = want.Add(v)
		}
		require.Equal(t, len(expected), l.Len(), "round %d", round)
		require.True(t, want.Equal(l.GrandTotal()), "round %d: want %s got %s", round, want, l.GrandTotal())

		seen := map[Key]bool{}
		for _, item := range l.Items() {
			require.False(t, seen[item.Key()], "duplicate key %v", item.Key())
			seen[item.Key()] = true
			require.Positive(t, item.Quantity)
			require.True(t, item.UnitPrice.IsPositive())
		}

		groupSum := decimal.Zero
		groupLines := 0
		for _, group := range GroupByBrand(l) {
			groupSum = groupSum.Add(group.Subtotal)
			groupLines += len(group.Items)
		}
		require.True(t, groupSum.Equal(l.GrandTotal()))
		require.Equal(t, l.Len(), groupLines)
	}
}

func TestNewDropsInvalidItemsAndRecomputesTotal(t *testing.T) {
	l := New(
		LineItem{FlavorID: "a", VariantID: "1", Quantity: 2, UnitPrice: decimal.NewFromInt(3), LineTotal: decimal.NewFromInt(999)},
		LineItem{FlavorID: "b", VariantID: "1", Quantity: 0, UnitPrice: decimal.NewFromInt(3)},
	)
	require.Equal(t, 1, l.Len())
	assert.Equal(t, "6", l.GrandTotal().String())
}

func TestJSONRoundTripRecomputesTotal(t *testing.T) {
	l := Ledger{}.
		Upsert(line("a", "1", 2, "3.25", elfbar)).
		Upsert(line("b", "2", 1, "4", sierra))

	raw, err := json.Marshal(l)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"grandTotal":"10.5"`)

	tampered := []byte(`{"items":[{"flavorId":"a","variantId":"1","quantity":2,"unitPrice":"3.25","lineTotal":"1"}],"grandTotal":"1000"}`)
	var decoded Ledger
	require.NoError(t, json.Unmarshal(tampered, &decoded))
	assert.Equal(t, "6.5", decoded.GrandTotal().String())

	empty, err := json.Marshal(Ledger{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"items":[],"grandTotal":"0"}`, string(empty))
}

func TestTotalQuantity(t *testing.T) {
	l := Ledger{}.
		Upsert(line("a", "1", 2, "3", elfbar)).
		Upsert(line("b", "2", 5, "4", sierra))
	assert.Equal(t, 7, l.TotalQuantity())
}
