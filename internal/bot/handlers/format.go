package handlers

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/vladimiradmaev/spendeats/internal/domain"
)

var titleCaser = cases.Title(language.English)

// resolveItem maps a user-typed name onto the catalog spelling. Unknown names
// are returned trimmed so the services can reject them.
func resolveItem(catalog domain.Catalog, name string) string {
	name = strings.Join(strings.Fields(name), " ")
	for _, item := range catalog.Items() {
		if strings.EqualFold(item.Name, name) {
			return item.Name
		}
	}
	return name
}

// splitArgs splits "a | b | c" into trimmed parts.
func splitArgs(args string) []string {
	if strings.TrimSpace(args) == "" {
		return nil
	}
	parts := strings.Split(args, "|")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func titleCase(s string) string {
	return titleCaser.String(strings.Join(strings.Fields(s), " "))
}

// formatNumber rounds to cents and drops trailing zeros.
func formatNumber(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}

func formatBadges(badges []domain.Badge) string {
	if len(badges) == 0 {
		return "none yet"
	}
	names := make([]string, 0, len(badges))
	for _, b := range badges {
		names = append(names, string(b))
	}
	return strings.Join(names, ", ")
}

func formatVitamins(v map[string]float64) string {
	if len(v) == 0 {
		return "none"
	}
	names := make([]string, 0, len(v))
	for k := range v {
		names = append(names, k)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, k := range names {
		parts = append(parts, fmt.Sprintf("%s %s", k, formatNumber(v[k])))
	}
	return strings.Join(parts, ", ")
}

func formatSchedule(s *domain.MealSchedule) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📅 Meal schedule for %s, %s\n\n", s.Day, s.Date)
	for _, meal := range domain.Meals {
		item := s.Meals[meal]
		if item == "" {
			item = "not scheduled"
		}
		fmt.Fprintf(&b, "%s: %s\n", meal, item)
	}
	if len(s.Warnings) > 0 {
		b.WriteString("\n")
		for _, w := range s.Warnings {
			fmt.Fprintf(&b, "⚠️ %s\n", w.Message)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatRecipe(r *domain.CustomRecipe) string {
	var b strings.Builder
	fmt.Fprintf(&b, "👩‍🍳 %s\n\n", r.Name)
	fmt.Fprintf(&b, "Ingredients: %s\n", strings.Join(r.Ingredients, ", "))
	fmt.Fprintf(&b, "%d kcal, protein %dg, carbs %dg, fats %dg\n", r.Calories, r.Protein, r.Carbs, r.Fats)
	fmt.Fprintf(&b, "Price: Rs%d, carbon footprint: %s kg CO2, ready in %d min\n", r.Price, formatNumber(r.CarbonFootprint), r.PrepTime)
	if len(r.Tags) > 0 {
		fmt.Fprintf(&b, "Tags: %s\n", strings.Join(r.Tags, ", "))
	}
	b.WriteString("\n")
	for i, step := range r.Instructions {
		fmt.Fprintf(&b, "%d. %s\n", i+1, step)
	}
	return strings.TrimRight(b.String(), "\n")
}
