package domain_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YelzhanWeb/ordertaker/internal/domain"
)

func TestDraftAdd(t *testing.T) {
	draft := domain.NewDraft()

	t.Run("Fail without selection", func(t *testing.T) {
		_, err := draft.Add(1)
		assert.ErrorIs(t, err, domain.ErrNoProductSelected)
	})

	draft.Select(product("p1", "Eggs (dozen)", "5.00", 15))

	t.Run("Fail on invalid quantity", func(t *testing.T) {
		assert.ErrorIs(t, draft.ValidateQuantity(0), domain.ErrInvalidQuantity)
		assert.ErrorIs(t, draft.ValidateQuantity(-2), domain.ErrInvalidQuantity)
	})

	t.Run("Fail on quantity above stock", func(t *testing.T) {
		err := draft.ValidateQuantity(16)
		assert.ErrorIs(t, err, domain.ErrInsufficientStock)
		assert.Contains(t, err.Error(), "only 15 in stock")
	})

	t.Run("Success", func(t *testing.T) {
		item, err := draft.Add(15)
		require.NoError(t, err)
		assert.Equal(t, "p1", item.ProductID)
		assert.True(t, decimal.RequireFromString("75").Equal(item.Subtotal))

		_, selected := draft.Selected()
		assert.False(t, selected)
		assert.Equal(t, 1, draft.Len())
	})
}

func TestDraftTotalFollowsItems(t *testing.T) {
	draft := domain.NewDraft()
	catalog := []domain.Product{
		product("a", "Banana", "0.50", 100),
		product("b", "Bread", "2.00", 30),
		product("c", "Oil 1L", "4.50", 8),
	}
	steps := []struct {
		add    int
		qty    int
		remove int
	}{
		{add: 0, qty: 3, remove: -1},
		{add: 1, qty: 1, remove: -1},
		{add: 2, qty: 2, remove: -1},
		{add: -1, remove: 1},
		{add: 0, qty: 7, remove: -1},
		{add: -1, remove: 0},
	}

	for _, step := range steps {
		if step.add >= 0 {
			draft.Select(catalog[step.add])
			_, err := draft.Add(step.qty)
			require.NoError(t, err)
		}
		if step.remove >= 0 {
			require.NoError(t, draft.Remove(step.remove))
		}

		sum := decimal.Zero
		for _, item := range draft.Items() {
			sum = sum.Add(item.Subtotal)
		}
		assert.True(t, sum.Equal(draft.Total()), "total %s != sum %s", draft.Total(), sum)
	}

	items := draft.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "Oil 1L", items[0].ProductName)
	assert.Equal(t, "Banana", items[1].ProductName)
	assert.True(t, decimal.RequireFromString("12.50").Equal(draft.Total()))
}

func TestDraftRemoveOutOfRange(t *testing.T) {
	draft := domain.NewDraft()
	assert.ErrorIs(t, draft.Remove(0), domain.ErrItemNotFound)

	draft.Select(product("a", "Banana", "0.50", 100))
	_, err := draft.Add(1)
	require.NoError(t, err)

	assert.ErrorIs(t, draft.Remove(1), domain.ErrItemNotFound)
	assert.ErrorIs(t, draft.Remove(-1), domain.ErrItemNotFound)

	draft.Reset()
	assert.Zero(t, draft.Len())
	assert.True(t, draft.Total().IsZero())
}
