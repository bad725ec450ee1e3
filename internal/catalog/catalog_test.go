package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalogOrder(t *testing.T) {
	c := Default()

	items := c.Items()
	require.Len(t, items, 11)
	assert.Equal(t, "Chicken Biryani", items[0].Name)
	assert.Equal(t, "Mushroom Risotto", items[len(items)-1].Name)

	ings := c.Ingredients()
	require.Len(t, ings, 17)
	assert.Equal(t, "rice", ings[0].Name)
	assert.Equal(t, "mushrooms", ings[len(ings)-1].Name)
}

func TestLookup(t *testing.T) {
	c := Default()

	pizza, ok := c.Item("Pizza")
	require.True(t, ok)
	assert.Equal(t, 150.0, pizza.Price)
	assert.Equal(t, 30, pizza.PrepTime)

	_, ok = c.Item("Sushi")
	assert.False(t, ok)

	salmon, ok := c.Ingredient("salmon")
	require.True(t, ok)
	assert.True(t, salmon.HasTag("keto"))
}

func TestItemsReturnsCopy(t *testing.T) {
	c := Default()
	items := c.Items()
	items[0].Name = "changed"

	again := c.Items()
	assert.Equal(t, "Chicken Biryani", again[0].Name)
}
