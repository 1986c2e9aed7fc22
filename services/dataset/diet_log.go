package dataset

import (
	"math"
	"strings"

	"github.com/Jeshoorin/Gym-Suggestions/structs"

	"github.com/jszwec/csvutil"
	"github.com/spf13/cast"
)

var DietLogHeader = []string{
	"username", "date", "weight_kg", "meal_type",
	"calories", "protein_g", "carbs_g", "fat_g", "fooditem",
}

type DietLog struct {
	Username string
	Date     string
	Calories float64
	ProteinG float64
	CarbsG   float64
	FatG     float64
}

type dietLogRow struct {
	Username string `csv:"username"`
	Date     string `csv:"date"`
	Calories string `csv:"calories"`
	ProteinG string `csv:"protein_g"`
	CarbsG   string `csv:"carbs_g"`
	FatG     string `csv:"fat_g"`
}

var dietLogColumns = []string{"username", "date", "calories", "protein_g", "carbs_g", "fat_g"}

// LoadAllDietLogs reads every diet log row.
func (s *Store) LoadAllDietLogs() ([]DietLog, error) {
	return s.loadDietLogs(func(string) bool { return true })
}

// LoadDietLogs returns the rows belonging to username. Rows of other users are
// not parsed, so a bad cell elsewhere in the file does not affect username.
func (s *Store) LoadDietLogs(username string) ([]DietLog, error) {
	return s.loadDietLogs(func(name string) bool { return name == username })
}

func (s *Store) loadDietLogs(keep func(username string) bool) ([]DietLog, error) {
	var logs []DietLog
	_, err := decodeFile(s.DietLogsPath, dietLogColumns, func(_ *csvutil.Decoder, line int, row *dietLogRow) error {
		if !keep(row.Username) {
			return nil
		}
		entry, err := row.toDietLog(s.DietLogsPath, line)
		if err != nil {
			return err
		}
		logs = append(logs, entry)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return logs, nil
}

// toDietLog parses the macro cells. A blank cell becomes NaN and is skipped
// when the day is summed; any other non-numeric value is a data error.
func (r dietLogRow) toDietLog(path string, line int) (DietLog, error) {
	entry := DietLog{Username: r.Username, Date: strings.TrimSpace(r.Date)}
	cells := []struct {
		column string
		raw    string
		dst    *float64
	}{
		{"calories", r.Calories, &entry.Calories},
		{"protein_g", r.ProteinG, &entry.ProteinG},
		{"carbs_g", r.CarbsG, &entry.CarbsG},
		{"fat_g", r.FatG, &entry.FatG},
	}
	for _, c := range cells {
		if strings.TrimSpace(c.raw) == "" {
			*c.dst = math.NaN()
			continue
		}
		v, err := number(path, line, c.column, c.raw)
		if err != nil {
			return DietLog{}, err
		}
		*c.dst = v
	}
	return entry, nil
}

// AppendDietLog appends a logged meal with rounded values. An entry for the same
// username, date and meal type is not written twice; exists reports that case.
func (s *Store) AppendDietLog(p structs.SaveDietParam) (exists bool, err error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if err := EnsureFile(s.DietLogsPath, DietLogHeader); err != nil {
		return false, err
	}
	t, err := readTable(s.DietLogsPath)
	if err != nil {
		return false, err
	}
	if t.find(func(row map[string]string) bool {
		return row["username"] == p.Username && row["date"] == p.Date && row["meal_type"] == p.MealType
	}) >= 0 {
		return true, nil
	}

	row := map[string]string{
		"username":  p.Username,
		"date":      p.Date,
		"weight_kg": roundCell(p.WeightKg),
		"meal_type": p.MealType,
		"calories":  roundCell(p.Calories),
		"protein_g": roundCell(p.ProteinG),
		"carbs_g":   roundCell(p.CarbsG),
		"fat_g":     roundCell(p.FatG),
		"fooditem":  strings.Join(p.FoodItem, "|"),
	}
	return false, appendRow(s.DietLogsPath, row)
}

func roundCell(v float64) string {
	return cast.ToString(int64(math.Round(v)))
}
