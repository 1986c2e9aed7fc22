package dataset

import (
	"fmt"
	"strings"

	"github.com/jszwec/csvutil"
)

// ProfileHeader is written when the profiles file does not exist yet.
var ProfileHeader = []string{
	"username", "name", "age", "height_cm", "weight_kg", "email",
	"fitness_level", "gender",
	"bicep_cm", "chest_cm", "shoulder_cm", "lat_cm", "waist_cm", "abs_cm", "thigh_cm", "calf_cm",
	"blood_sugar_mg_dl", "cholesterol_mg_dl",
	"medical_history", "dietary_restrictions",
}

type Profile struct {
	Username            string
	WeightKg            float64
	HeightCm            float64
	Age                 float64
	Gender              string
	FitnessLevel        string
	DietaryRestrictions []string
}

type profileRow struct {
	Username            string `csv:"username"`
	Age                 string `csv:"age"`
	HeightCm            string `csv:"height_cm"`
	WeightKg            string `csv:"weight_kg"`
	FitnessLevel        string `csv:"fitness_level"`
	Gender              string `csv:"gender"`
	DietaryRestrictions string `csv:"dietary_restrictions"`
	line                int
}

var profileColumns = []string{"username", "age", "height_cm", "weight_kg", "fitness_level", "gender"}

// LoadProfile returns the first profile row for username.
func (s *Store) LoadProfile(username string) (Profile, error) {
	rows, err := decodeFile(s.ProfilesPath, profileColumns, func(_ *csvutil.Decoder, line int, row *profileRow) error {
		row.line = line
		return nil
	})
	if err != nil {
		return Profile{}, err
	}
	for _, row := range rows {
		if row.Username != username {
			continue
		}
		return row.toProfile(s.ProfilesPath)
	}
	return Profile{}, fmt.Errorf("%w: %s", ErrUserNotFound, username)
}

// Usernames lists every profile username in file order.
func (s *Store) Usernames() ([]string, error) {
	rows, err := decodeFile[profileRow](s.ProfilesPath, []string{"username"}, nil)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(rows))
	for _, row := range rows {
		if row.Username != "" {
			names = append(names, row.Username)
		}
	}
	return names, nil
}

func (r profileRow) toProfile(path string) (Profile, error) {
	p := Profile{
		Username:            r.Username,
		Gender:              strings.TrimSpace(r.Gender),
		FitnessLevel:        strings.TrimSpace(r.FitnessLevel),
		DietaryRestrictions: SplitPipe(r.DietaryRestrictions),
	}
	var err error
	if p.WeightKg, err = number(path, r.line, "weight_kg", r.WeightKg); err != nil {
		return Profile{}, err
	}
	if p.HeightCm, err = number(path, r.line, "height_cm", r.HeightCm); err != nil {
		return Profile{}, err
	}
	if p.Age, err = number(path, r.line, "age", r.Age); err != nil {
		return Profile{}, err
	}
	return p, nil
}

// SplitPipe splits a pipe-delimited cell, dropping blanks.
func SplitPipe(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, "|") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// SaveProfile updates the provided, non-empty fields of an existing profile or
// appends a new one. created reports which of the two happened.
func (s *Store) SaveProfile(input map[string]interface{}) (created bool, err error) {
	username := cellString(input["username"])
	if username == "" {
		return false, fmt.Errorf("username is required")
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if err := EnsureFile(s.ProfilesPath, ProfileHeader); err != nil {
		return false, err
	}
	table, err := readTable(s.ProfilesPath)
	if err != nil {
		return false, err
	}

	index := table.find(func(row map[string]string) bool { return row["username"] == username })
	if index >= 0 {
		row := table.Rows[index]
		for _, key := range table.Header {
			value, ok := input[key]
			if !ok {
				continue
			}
			if key == "dietary_restrictions" {
				if list, isList := value.([]interface{}); isList {
					row[key] = joinPipe(list)
				}
				continue
			}
			if str := cellString(value); str != "" {
				row[key] = str
			}
		}
	} else {
		row := make(map[string]string, len(table.Header))
		for _, key := range table.Header {
			if list, isList := input[key].([]interface{}); isList {
				row[key] = joinPipe(list)
				continue
			}
			row[key] = cellString(input[key])
		}
		table.Rows = append(table.Rows, row)
		created = true
	}

	return created, table.write(s.ProfilesPath)
}

// GetProfile returns the raw profile columns for username, matched case-insensitively,
// with dietary_restrictions expanded into a list.
func (s *Store) GetProfile(username string) (map[string]interface{}, error) {
	table, err := readTable(s.ProfilesPath)
	if err != nil {
		return nil, err
	}
	index := table.find(func(row map[string]string) bool {
		return strings.EqualFold(row["username"], username)
	})
	if index < 0 {
		return nil, fmt.Errorf("%w: %s", ErrUserNotFound, username)
	}

	profile := make(map[string]interface{}, len(table.Header))
	for _, key := range table.Header {
		profile[key] = table.Rows[index][key]
	}
	if raw := table.Rows[index]["dietary_restrictions"]; raw != "" {
		profile["dietary_restrictions"] = SplitPipe(raw)
	}
	return profile, nil
}
