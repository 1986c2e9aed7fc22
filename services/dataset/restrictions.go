package dataset

import "strings"

// RestrictionColumns maps a profile restriction tag to the food catalog column
// that must be true for an item to be allowed.
var RestrictionColumns = map[string]string{
	"gluten-free": "Glutenfree",
	"vegetarian":  "Vegetarian",
	"vegan":       "Vegan",
	"paleo":       "Paleo",
	"dairy-free":  "Dairyfree",
	"kosher":      "Kosher",
	"nut-free":    "Nutfree",
	"keto":        "Keto",
}

// FilterByRestrictions keeps items flagged for every known restriction.
// Tags without a mapping, or whose column the catalog lacks, do not filter.
func FilterByRestrictions(catalog *FoodCatalog, restrictions []string) *FoodCatalog {
	filtered := &FoodCatalog{Columns: catalog.Columns, Items: catalog.Items}
	for _, tag := range restrictions {
		column, ok := RestrictionColumns[strings.ToLower(strings.TrimSpace(tag))]
		if !ok || !catalog.HasColumn(column) {
			continue
		}
		var kept []FoodItem
		for _, item := range filtered.Items {
			if item.Tags[column] {
				kept = append(kept, item)
			}
		}
		filtered.Items = kept
	}
	return filtered
}
