package menuimport

import (
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

const sampleCSV = `restaurant,item,calories,cal_fat,total_fat,sat_fat,trans_fat,cholesterol,sodium,total_carb,fiber,sugar,protein,vit_a,vit_c,calcium,salad
Mcdonalds,Big Mac,540,250,28,10,1,80,950,46,3,9,25,6,2,25,Other
Subway,Turkey Breast,300,60,6.3,1.5,0,25,810,46,5,7,NA,NA,,30,Other

Taco Bell,Bean Burrito,350,80,9,3.5,0,5,1000,55,9,4,13,10,0,20,Other
`

func TestReadCSV(t *testing.T) {
	items, err := ReadCSV(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("got %d items, want 3 (blank line skipped)", len(items))
	}

	mac := items[0]
	if mac.Restaurant != "Mcdonalds" || mac.Item != "Big Mac" || mac.Calories != 540 || mac.Protein != 25 {
		t.Errorf("unexpected first item: %+v", mac)
	}
	if mac.VitA == nil || *mac.VitA != 6 {
		t.Errorf("VitA = %v, want 6", mac.VitA)
	}

	turkey := items[1]
	if turkey.TotalFat != 6.3 {
		t.Errorf("TotalFat = %v, want 6.3", turkey.TotalFat)
	}
	if turkey.Protein != 0 {
		t.Errorf("NA protein should read as 0, got %v", turkey.Protein)
	}
	if turkey.VitA != nil || turkey.VitC != nil {
		t.Errorf("NA and empty vitamins should be nil, got %v / %v", turkey.VitA, turkey.VitC)
	}
	if turkey.Calcium == nil || *turkey.Calcium != 30 {
		t.Errorf("Calcium = %v, want 30", turkey.Calcium)
	}
}

func TestParse_Errors(t *testing.T) {
	header := "restaurant,item,calories,cal_fat,total_fat,sat_fat,trans_fat,cholesterol,sodium,total_carb,fiber,sugar,protein\n"
	cases := []struct {
		name    string
		csv     string
		wantRow int
		wantCol string
	}{
		{"missing column", "restaurant,item,calories\nA,B,1\n", 1, "cal_fat"},
		{"calories NA", header + "A,B,NA,0,0,0,0,0,0,0,0,0,0\n", 2, "calories"},
		{"non-numeric sodium", header + "A,B,100,0,0,0,0,0,0,0,0,0,0\nA,C,100,0,0,0,0,0,lots,0,0,0,0\n", 3, "sodium"},
		{"NaN calories", header + "A,B,NaN,0,0,0,0,0,0,0,0,0,0\n", 2, "calories"},
		{"infinite calories", header + "A,B,+Inf,0,0,0,0,0,0,0,0,0,0\n", 2, "calories"},
		{"negative calories", header + "A,B,-5,0,0,0,0,0,0,0,0,0,0\n", 2, "calories"},
		{"NaN sugar", header + "A,B,100,0,0,0,0,0,0,0,0,nan,0\n", 2, "sugar"},
		{"missing item name", header + "A,,100,0,0,0,0,0,0,0,0,0,0\n", 2, "item"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ReadCSV(strings.NewReader(tc.csv))
			var rerr *RowError
			if !errors.As(err, &rerr) {
				t.Fatalf("expected *RowError, got %v", err)
			}
			if rerr.Row != tc.wantRow || rerr.Column != tc.wantCol {
				t.Errorf("got row %d column %q, want row %d column %q", rerr.Row, rerr.Column, tc.wantRow, tc.wantCol)
			}
		})
	}
}

func TestReadCSV_RoundsFractionalCalories(t *testing.T) {
	header := "restaurant,item,calories,cal_fat,total_fat,sat_fat,trans_fat,cholesterol,sodium,total_carb,fiber,sugar,protein\n"
	items, err := ReadCSV(strings.NewReader(header +
		"A,Up,12.7,0,0,0,0,0,0,0,0,0,0\n" +
		"A,Half,12.5,0,0,0,0,0,0,0,0,0,0\n" +
		"A,Down,12.2,0,0,0,0,0,0,0,0,0,0\n"))
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	want := []int{13, 13, 12}
	for i, it := range items {
		if it.Calories != want[i] {
			t.Errorf("%s: Calories = %d, want %d", it.Item, it.Calories, want[i])
		}
	}
}

func TestReadXLSX(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	rows := [][]any{
		{"Restaurant", "Item", "Calories", "Cal_Fat", "Total_Fat", "Sat_Fat", "Trans_Fat",
			"Cholesterol", "Sodium", "Total_Carb", "Fiber", "Sugar", "Protein", "Vit_A"},
		{"Chick Fil-A", "Grilled Nuggets", 140, 30, 3.5, 1, 0, 85, 530, 2, 0, 1, 25, "NA"},
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatalf("SetSheetRow: %v", err)
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("WriteToBuffer: %v", err)
	}

	items, err := ReadXLSX(buf, "")
	if err != nil {
		t.Fatalf("ReadXLSX: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("got %d items, want 1", len(items))
	}
	got := items[0]
	if got.Item != "Grilled Nuggets" || got.Calories != 140 || got.TotalFat != 3.5 || got.Protein != 25 {
		t.Errorf("unexpected item: %+v", got)
	}
	if got.VitA != nil || got.Calcium != nil {
		t.Errorf("expected nil vitamins, got %v / %v", got.VitA, got.Calcium)
	}
}

func TestReadFile_UnsupportedExtension(t *testing.T) {
	path := t.TempDir() + "/menu.json"
	if err := os.WriteFile(path, []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadFile(path, ""); err == nil || !strings.Contains(err.Error(), "unsupported file type") {
		t.Errorf("expected unsupported file type error, got %v", err)
	}
}

func TestRestaurants(t *testing.T) {
	items := []Item{{Restaurant: "Subway"}, {Restaurant: "Arbys"}, {Restaurant: "Subway"}}
	got := Restaurants(items)
	if strings.Join(got, ",") != "Arbys,Subway" {
		t.Errorf("Restaurants = %v", got)
	}
}
