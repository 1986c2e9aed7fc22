package dataset

import (
	"math"
	"strings"

	"github.com/jszwec/csvutil"
	"github.com/spf13/cast"
)

type FoodItem struct {
	Name     string
	Calories float64
	ProteinG float64
	CarbsG   float64
	FatG     float64
	Tags     map[string]bool
}

type FoodCatalog struct {
	Columns []string
	Items   []FoodItem
}

func (c *FoodCatalog) HasColumn(name string) bool {
	for _, col := range c.Columns {
		if col == name {
			return true
		}
	}
	return false
}

type foodRow struct {
	Name     string `csv:"name"`
	Calories string `csv:"calories"`
	ProteinG string `csv:"protein_g"`
	CarbsG   string `csv:"carbs_g"`
	FatG     string `csv:"fat_g"`
}

var foodColumns = []string{"name", "calories", "protein_g", "carbs_g", "fat_g"}

// LoadFoodCatalog reads the catalog. Macro cells that are not numeric become NaN;
// every column the struct does not map is read as a boolean dietary tag.
func (s *Store) LoadFoodCatalog() (*FoodCatalog, error) {
	catalog := &FoodCatalog{}
	_, err := decodeFile(s.FoodItemsPath, foodColumns, func(dec *csvutil.Decoder, _ int, row *foodRow) error {
		header := dec.Header()
		if catalog.Columns == nil {
			catalog.Columns = header
		}
		record := dec.Record()
		item := FoodItem{
			Name:     strings.TrimSpace(row.Name),
			Calories: coerce(row.Calories),
			ProteinG: coerce(row.ProteinG),
			CarbsG:   coerce(row.CarbsG),
			FatG:     coerce(row.FatG),
			Tags:     make(map[string]bool),
		}
		for _, i := range dec.Unused() {
			item.Tags[header[i]] = cast.ToBool(strings.TrimSpace(record[i]))
		}
		catalog.Items = append(catalog.Items, item)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return catalog, nil
}

func coerce(raw string) float64 {
	v, err := ParseNumber(raw)
	if err != nil {
		return math.NaN()
	}
	return v
}

func trimAll(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = strings.TrimSpace(v)
	}
	return out
}
