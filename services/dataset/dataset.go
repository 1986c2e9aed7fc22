package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/Jeshoorin/Gym-Suggestions/utils"

	"github.com/jszwec/csvutil"
	"github.com/spf13/cast"
)

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrMissingColumn = errors.New("missing required column")
)

// DataError points at the file, line and column of a value that could not be used.
type DataError struct {
	File   string
	Line   int
	Column string
	Err    error
}

func (e *DataError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d: column %q: %v", e.File, e.Line, e.Column, e.Err)
	}
	return fmt.Sprintf("%s: column %q: %v", e.File, e.Column, e.Err)
}

func (e *DataError) Unwrap() error {
	return e.Err
}

// Store reads and appends the tabular files. Every read goes back to disk.
type Store struct {
	ProfilesPath  string
	DietLogsPath  string
	FoodItemsPath string
	FeedbackPath  string
	ExercisePath  string

	writeMu sync.Mutex
}

func NewStore() *Store {
	return &Store{
		ProfilesPath:  utils.DataPath(utils.EnvConfig.Data.Profiles),
		DietLogsPath:  utils.DataPath(utils.EnvConfig.Data.DietLogs),
		FoodItemsPath: utils.DataPath(utils.EnvConfig.Data.FoodItems),
		FeedbackPath:  utils.DataPath(utils.EnvConfig.Data.FeedbackLogs),
		ExercisePath:  utils.DataPath(utils.EnvConfig.Data.ExerciseItems),
	}
}

// decodeFile decodes every row of path into T after checking that the header
// carries the required columns. fn, when set, sees the decoder after each row
// so callers can read columns the struct does not map.
func decodeFile[T any](path string, required []string, fn func(dec *csvutil.Decoder, line int, row *T) error) ([]T, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header %s: %w", path, err)
	}
	// the column check and the decoder must see the same names
	header = trimAll(header)
	if err := requireColumns(path, header, required); err != nil {
		return nil, err
	}
	dec, err := csvutil.NewDecoder(r, header...)
	if err != nil {
		return nil, fmt.Errorf("read header %s: %w", path, err)
	}

	var rows []T
	for line := 2; ; line++ {
		var row T
		if err := dec.Decode(&row); err == io.EOF {
			break
		} else if err != nil {
			return nil, &DataError{File: path, Line: line, Err: err}
		}
		if fn != nil {
			if err := fn(dec, line, &row); err != nil {
				return nil, err
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func requireColumns(path string, header, required []string) error {
	present := make(map[string]bool, len(header))
	for _, h := range header {
		present[h] = true
	}
	for _, col := range required {
		if !present[col] {
			return &DataError{File: path, Column: col, Err: ErrMissingColumn}
		}
	}
	return nil
}

// number coerces a raw cell into a float, reporting where it failed.
func number(path string, line int, column, raw string) (float64, error) {
	v, err := ParseNumber(raw)
	if err != nil {
		return 0, &DataError{File: path, Line: line, Column: column, Err: err}
	}
	return v, nil
}

// ParseNumber accepts anything cast can turn into a float; blanks are an error.
func ParseNumber(raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, errors.New("empty value")
	}
	return cast.ToFloat64E(raw)
}
