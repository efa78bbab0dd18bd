// Package menuimport reads fast-food nutrition tables (CSV or XLSX) into menu
// items ready to be written to menu_items.
package menuimport

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Item is one row of the nutrition table. VitA, VitC and Calcium are nil
// where the source says "NA".
type Item struct {
	Restaurant  string
	Item        string
	Calories    int
	CalFat      float64
	TotalFat    float64
	SatFat      float64
	TransFat    float64
	Cholesterol float64
	Sodium      float64
	TotalCarb   float64
	Fiber       float64
	Sugar       float64
	Protein     float64
	VitA        *float64
	VitC        *float64
	Calcium     *float64
}

// RowError points at the cell that could not be read. Row is 1-based and
// counts the header.
type RowError struct {
	Row    int
	Column string
	Err    error
}

func (e *RowError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("row %d: %v", e.Row, e.Err)
	}
	return fmt.Sprintf("row %d, column %s: %v", e.Row, e.Column, e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }

var requiredColumns = []string{
	"restaurant", "item", "calories", "cal_fat", "total_fat", "sat_fat", "trans_fat",
	"cholesterol", "sodium", "total_carb", "fiber", "sugar", "protein",
}

var optionalColumns = []string{"vit_a", "vit_c", "calcium"}

// Parse reads rows whose first row is the header. Header names are matched
// case-insensitively and unknown columns (such as "salad") are ignored.
// Missing nutrient values ("NA" or empty) read as 0, except for calories,
// which every item must have, and the optional vitamin columns, which read
// as nil.
func Parse(rows [][]string) ([]Item, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("empty table")
	}
	index := map[string]int{}
	for i, name := range rows[0] {
		index[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			return nil, &RowError{Row: 1, Column: col, Err: fmt.Errorf("missing column")}
		}
	}

	items := make([]Item, 0, len(rows)-1)
	for n, row := range rows[1:] {
		if blank(row) {
			continue
		}
		it, err := parseRow(index, row)
		if err != nil {
			err.Row = n + 2
			return nil, err
		}
		items = append(items, it)
	}
	return items, nil
}

func parseRow(index map[string]int, row []string) (Item, *RowError) {
	cell := func(col string) string {
		i, ok := index[col]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	it := Item{Restaurant: cell("restaurant"), Item: cell("item")}
	if it.Restaurant == "" {
		return Item{}, &RowError{Column: "restaurant", Err: fmt.Errorf("is required")}
	}
	if it.Item == "" {
		return Item{}, &RowError{Column: "item", Err: fmt.Errorf("is required")}
	}

	kcal, err := strconv.ParseFloat(cell("calories"), 64)
	if err != nil || math.IsNaN(kcal) || math.IsInf(kcal, 0) {
		return Item{}, &RowError{Column: "calories", Err: fmt.Errorf("must be a number, got %q", cell("calories"))}
	}
	if kcal < 0 || kcal > math.MaxInt32 {
		return Item{}, &RowError{Column: "calories", Err: fmt.Errorf("out of range: %g", kcal)}
	}
	it.Calories = int(math.Round(kcal))

	nutrients := []struct {
		col string
		dst *float64
	}{
		{"cal_fat", &it.CalFat}, {"total_fat", &it.TotalFat}, {"sat_fat", &it.SatFat},
		{"trans_fat", &it.TransFat}, {"cholesterol", &it.Cholesterol}, {"sodium", &it.Sodium},
		{"total_carb", &it.TotalCarb}, {"fiber", &it.Fiber}, {"sugar", &it.Sugar},
		{"protein", &it.Protein},
	}
	for _, n := range nutrients {
		v, ok, err := optionalNumber(cell(n.col))
		if err != nil {
			return Item{}, &RowError{Column: n.col, Err: err}
		}
		if ok {
			*n.dst = v
		}
	}

	for col, dst := range map[string]**float64{"vit_a": &it.VitA, "vit_c": &it.VitC, "calcium": &it.Calcium} {
		v, ok, err := optionalNumber(cell(col))
		if err != nil {
			return Item{}, &RowError{Column: col, Err: err}
		}
		if ok {
			*dst = &v
		}
	}
	return it, nil
}

func optionalNumber(s string) (float64, bool, error) {
	if s == "" || strings.EqualFold(s, "NA") {
		return 0, false, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false, fmt.Errorf("must be a number, got %q", s)
	}
	return v, true, nil
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// ReadCSV parses a comma-separated table.
func ReadCSV(r io.Reader) ([]Item, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	return Parse(rows)
}

// ReadXLSX parses sheet from a workbook; an empty sheet name means the first one.
func ReadXLSX(r io.Reader, sheet string) ([]Item, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("workbook has no sheets")
		}
		sheet = sheets[0]
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheet, err)
	}
	return Parse(rows)
}

// ReadFile picks the reader from the file extension.
func ReadFile(path, sheet string) ([]Item, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fh.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return ReadCSV(fh)
	case ".xlsx":
		return ReadXLSX(fh, sheet)
	}
	return nil, fmt.Errorf("unsupported file type %q (want .csv or .xlsx)", filepath.Ext(path))
}

// Restaurants returns the distinct restaurant names in items, sorted.
func Restaurants(items []Item) []string {
	var names []string
	for _, it := range items {
		if !slices.Contains(names, it.Restaurant) {
			names = append(names, it.Restaurant)
		}
	}
	slices.Sort(names)
	return names
}
