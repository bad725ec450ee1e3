// Package catalog holds the menu and base-ingredient reference tables.
package catalog

import (
	"github.com/vladimiradmaev/spendeats/internal/domain"
)

// Static is an immutable, ordered catalog.
type Static struct {
	items       []domain.MenuItem
	itemIndex   map[string]int
	ingredients []domain.Ingredient
	ingIndex    map[string]int
}

// New builds a catalog from the given tables, keeping their order.
func New(items []domain.MenuItem, ingredients []domain.Ingredient) *Static {
	c := &Static{
		items:       items,
		itemIndex:   make(map[string]int, len(items)),
		ingredients: ingredients,
		ingIndex:    make(map[string]int, len(ingredients)),
	}
	for i, it := range items {
		c.itemIndex[it.Name] = i
	}
	for i, ing := range ingredients {
		c.ingIndex[ing.Name] = i
	}
	return c
}

// Default returns the built-in SpendEATS catalog.
func Default() *Static {
	return New(defaultItems(), defaultIngredients())
}

func (c *Static) Items() []domain.MenuItem {
	out := make([]domain.MenuItem, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Static) Item(name string) (domain.MenuItem, bool) {
	i, ok := c.itemIndex[name]
	if !ok {
		return domain.MenuItem{}, false
	}
	return c.items[i], true
}

func (c *Static) Ingredients() []domain.Ingredient {
	out := make([]domain.Ingredient, len(c.ingredients))
	copy(out, c.ingredients)
	return out
}

func (c *Static) Ingredient(name string) (domain.Ingredient, bool) {
	i, ok := c.ingIndex[name]
	if !ok {
		return domain.Ingredient{}, false
	}
	return c.ingredients[i], true
}

func defaultItems() []domain.MenuItem {
	return []domain.MenuItem{
		{
			Name: "Chicken Biryani", Price: 100, CarbonFootprint: 2.5,
			Calories: 800, Protein: 35, Carbs: 90, Fats: 25,
			Vitamins:    map[string]float64{"Vitamin A": 10, "Vitamin C": 5},
			Tags:        []string{"high-protein"},
			PrepTime:    45,
			Ingredients: []string{"rice", "chicken", "tomato"},
		},
		{
			Name: "Mutton Biryani", Price: 120, CarbonFootprint: 3.0,
			Calories: 850, Protein: 40, Carbs: 85, Fats: 30,
			Vitamins:    map[string]float64{"Vitamin A": 15, "Vitamin C": 3},
			Tags:        []string{"high-protein"},
			PrepTime:    60,
			Ingredients: []string{"rice", "mutton", "tomato"},
		},
		{
			Name: "Pizza", Price: 150, CarbonFootprint: 4.0,
			Calories: 700, Protein: 25, Carbs: 80, Fats: 30,
			Vitamins:    map[string]float64{"Vitamin A": 20, "Vitamin C": 10},
			Tags:        []string{"high-carb"},
			PrepTime:    30,
			Ingredients: []string{"wheat", "cheese", "tomato"},
		},
		{
			Name: "Burger", Price: 60, CarbonFootprint: 2.0,
			Calories: 600, Protein: 20, Carbs: 50, Fats: 35,
			Vitamins:    map[string]float64{"Vitamin A": 5, "Vitamin C": 2},
			Tags:        []string{"high-carb"},
			PrepTime:    20,
			Ingredients: []string{"wheat", "beef", "tomato"},
		},
		{
			Name: "Pepperoni", Price: 40, CarbonFootprint: 1.5,
			Calories: 300, Protein: 15, Carbs: 5, Fats: 25,
			Vitamins:    map[string]float64{"Vitamin A": 2, "Vitamin C": 1},
			Tags:        []string{"low-carb", "keto", "high-protein"},
			PrepTime:    25,
			Ingredients: []string{"pepperoni"},
		},
		{
			Name: "Margherita", Price: 90, CarbonFootprint: 2.0,
			Calories: 500, Protein: 15, Carbs: 60, Fats: 20,
			Vitamins:    map[string]float64{"Vitamin A": 15, "Vitamin C": 12},
			Tags:        []string{"vegetarian", "vegan", "high-carb"},
			PrepTime:    30,
			Ingredients: []string{"wheat", "tomato", "basil"},
		},
		{
			Name: "Lentil Curry", Price: 80, CarbonFootprint: 1.8,
			Calories: 450, Protein: 20, Carbs: 60, Fats: 5,
			Vitamins:    map[string]float64{"Vitamin A": 8, "Vitamin C": 15},
			Tags:        []string{"vegan", "vegetarian", "high-protein", "gluten-free"},
			PrepTime:    40,
			Ingredients: []string{"lentils", "tomato", "spinach"},
		},
		{
			Name: "Paneer Tikka", Price: 110, CarbonFootprint: 2.2,
			Calories: 650, Protein: 25, Carbs: 20, Fats: 45,
			Vitamins:    map[string]float64{"Vitamin A": 12, "Vitamin C": 8},
			Tags:        []string{"vegetarian", "high-protein", "low-carb"},
			PrepTime:    35,
			Ingredients: []string{"paneer", "tomato", "olive_oil"},
		},
		{
			Name: "Salmon Grilled", Price: 140, CarbonFootprint: 2.8,
			Calories: 500, Protein: 30, Carbs: 5, Fats: 35,
			Vitamins:    map[string]float64{"Vitamin D": 80, "Vitamin B12": 50},
			Tags:        []string{"high-protein", "low-carb", "keto"},
			PrepTime:    25,
			Ingredients: []string{"salmon", "olive_oil", "basil"},
		},
		{
			Name: "Aloo Gobi", Price: 70, CarbonFootprint: 1.5,
			Calories: 400, Protein: 8, Carbs: 60, Fats: 15,
			Vitamins:    map[string]float64{"Vitamin C": 30, "Vitamin A": 5},
			Tags:        []string{"vegan", "vegetarian", "gluten-free"},
			PrepTime:    30,
			Ingredients: []string{"potato", "tomato", "spinach"},
		},
		{
			Name: "Mushroom Risotto", Price: 95, CarbonFootprint: 2.0,
			Calories: 550, Protein: 12, Carbs: 85, Fats: 15,
			Vitamins:    map[string]float64{"Vitamin D": 10, "Vitamin B2": 15},
			Tags:        []string{"vegetarian", "gluten-free", "high-carb"},
			PrepTime:    40,
			Ingredients: []string{"rice", "mushrooms", "cheese"},
		},
	}
}

func defaultIngredients() []domain.Ingredient {
	return []domain.Ingredient{
		{Name: "rice", Category: domain.CategoryBase, Calories: 130, Protein: 2.7, Carbs: 28, Fats: 0.3, Tags: []string{"gluten-free"}, Cost: 15},
		{Name: "pasta", Category: domain.CategoryBase, Calories: 131, Protein: 5, Carbs: 25, Fats: 1.1, Tags: []string{"high-carb"}, Cost: 16},
		{Name: "chicken", Category: domain.CategoryProtein, Calories: 165, Protein: 31, Carbs: 0, Fats: 3.6, Tags: []string{"high-protein"}, Cost: 20},
		{Name: "mutton", Category: domain.CategoryProtein, Calories: 294, Protein: 25, Carbs: 0, Fats: 20, Tags: []string{"high-protein"}, Cost: 30},
		{Name: "wheat", Category: domain.CategoryBase, Calories: 340, Protein: 13, Carbs: 72, Fats: 2.5, Tags: []string{"high-carb"}, Cost: 14},
		{Name: "cheese", Category: domain.CategoryTopping, Calories: 403, Protein: 23, Carbs: 3.1, Fats: 33, Tags: []string{"dairy"}, Cost: 15},
		{Name: "tomato", Category: domain.CategoryVegetable, Calories: 18, Protein: 0.9, Carbs: 3.9, Fats: 0.2, Tags: []string{"vegan", "vegetarian"}, Cost: 12},
		{Name: "pepperoni", Category: domain.CategoryProtein, Calories: 504, Protein: 19, Carbs: 1.5, Fats: 46, Tags: []string{"low-carb"}, Cost: 25},
		{Name: "basil", Category: domain.CategorySeasoning, Calories: 23, Protein: 3, Carbs: 2.7, Fats: 0.6, Tags: []string{"vegan", "vegetarian"}, Cost: 13},
		{Name: "beef", Category: domain.CategoryProtein, Calories: 250, Protein: 26, Carbs: 0, Fats: 15, Tags: []string{"high-protein"}, Cost: 25},
		{Name: "lentils", Category: domain.CategoryProtein, Calories: 116, Protein: 9, Carbs: 20, Fats: 0.4, Tags: []string{"vegan", "vegetarian", "high-protein", "gluten-free"}, Cost: 6},
		{Name: "spinach", Category: domain.CategoryVegetable, Calories: 23, Protein: 2.9, Carbs: 3.6, Fats: 0.4, Tags: []string{"vegan", "vegetarian", "low-carb"}, Cost: 23},
		{Name: "paneer", Category: domain.CategoryProtein, Calories: 265, Protein: 18, Carbs: 3, Fats: 20, Tags: []string{"vegetarian", "high-protein", "dairy"}, Cost: 20},
		{Name: "potato", Category: domain.CategoryVegetable, Calories: 77, Protein: 2, Carbs: 17, Fats: 0.1, Tags: []string{"vegan", "vegetarian", "gluten-free"}, Cost: 20},
		{Name: "salmon", Category: domain.CategoryProtein, Calories: 206, Protein: 22, Carbs: 0, Fats: 13, Tags: []string{"high-protein", "low-carb", "keto"}, Cost: 40},
		{Name: "olive_oil", Category: domain.CategorySeasoning, Calories: 884, Protein: 0, Carbs: 0, Fats: 100, Tags: []string{"vegan", "vegetarian", "keto", "low-carb"}, Cost: 10},
		{Name: "mushrooms", Category: domain.CategoryVegetable, Calories: 22, Protein: 3.1, Carbs: 3.3, Fats: 0.3, Tags: []string{"vegan", "vegetarian", "low-carb"}, Cost: 15},
	}
}
