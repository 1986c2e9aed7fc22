package dataset

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Jeshoorin/Gym-Suggestions/structs"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	return &Store{
		ProfilesPath:  filepath.Join(dir, "user_profiles.csv"),
		DietLogsPath:  filepath.Join(dir, "diet_logs.csv"),
		FoodItemsPath: filepath.Join(dir, "food_items.csv"),
		FeedbackPath:  filepath.Join(dir, "feedback_logs.csv"),
		ExercisePath:  filepath.Join(dir, "exercise_items.csv"),
	}
}

func writeFixture(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture %s: %v", path, err)
	}
}

func TestLoadProfile(t *testing.T) {
	store := newTestStore(t)
	writeFixture(t, store.ProfilesPath, "username,age,height_cm,weight_kg,fitness_level,gender,dietary_restrictions\n"+
		"alice,30,165,60,beginner,female,vegan|gluten-free\n"+
		"bob,40,180,abc,advanced,male,\n")

	profile, err := store.LoadProfile("alice")
	if err != nil {
		t.Fatalf("expected profile, got error: %v", err)
	}
	if profile.WeightKg != 60 || profile.HeightCm != 165 || profile.Age != 30 {
		t.Fatalf("unexpected numeric fields: %+v", profile)
	}
	if len(profile.DietaryRestrictions) != 2 || profile.DietaryRestrictions[1] != "gluten-free" {
		t.Fatalf("unexpected restrictions: %v", profile.DietaryRestrictions)
	}

	if _, err := store.LoadProfile("nobody"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}

	_, err = store.LoadProfile("bob")
	var dataErr *DataError
	if !errors.As(err, &dataErr) {
		t.Fatalf("expected DataError for non-numeric weight, got %v", err)
	}
	if dataErr.Column != "weight_kg" || dataErr.Line != 3 {
		t.Fatalf("unexpected data error location: %+v", dataErr)
	}
}

func TestLoadProfileMissingColumn(t *testing.T) {
	store := newTestStore(t)
	writeFixture(t, store.ProfilesPath, "username,age,height_cm,gender,fitness_level\nalice,30,165,female,beginner\n")

	if _, err := store.LoadProfile("alice"); !errors.Is(err, ErrMissingColumn) {
		t.Fatalf("expected ErrMissingColumn, got %v", err)
	}
}

func TestLoadFoodCatalog(t *testing.T) {
	store := newTestStore(t)
	writeFixture(t, store.FoodItemsPath, "name,calories,protein_g,carbs_g,fat_g,Vegan,Glutenfree\n"+
		"Tofu,150,16,4,8,True,True\n"+
		"Bread,250,8,n/a,3,True,False\n"+
		"Chicken,200,30,0,8,False,True\n")

	catalog, err := store.LoadFoodCatalog()
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	if len(catalog.Items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(catalog.Items))
	}
	if !catalog.HasColumn("Glutenfree") {
		t.Fatal("expected Glutenfree column")
	}
	if !math.IsNaN(catalog.Items[1].CarbsG) {
		t.Fatalf("expected non-numeric carbs to become NaN, got %v", catalog.Items[1].CarbsG)
	}
	if !catalog.Items[0].Tags["Vegan"] || catalog.Items[2].Tags["Vegan"] {
		t.Fatalf("unexpected vegan tags: %+v / %+v", catalog.Items[0].Tags, catalog.Items[2].Tags)
	}

	vegan := FilterByRestrictions(catalog, []string{"Vegan"})
	if len(vegan.Items) != 2 {
		t.Fatalf("expected 2 vegan items, got %d", len(vegan.Items))
	}
	both := FilterByRestrictions(catalog, []string{"vegan", "gluten-free", "kosher", "unknown"})
	if len(both.Items) != 1 || both.Items[0].Name != "Tofu" {
		t.Fatalf("expected only Tofu, got %+v", both.Items)
	}
	if len(catalog.Items) != 3 {
		t.Fatal("filtering must not modify the source catalog")
	}
}

func TestLoadFoodCatalogPaddedHeader(t *testing.T) {
	store := newTestStore(t)
	writeFixture(t, store.FoodItemsPath, "name, calories, protein_g, carbs_g, fat_g, Vegan\n"+
		"Oats,300,10,50,6,True\n")

	catalog, err := store.LoadFoodCatalog()
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	item := catalog.Items[0]
	if item.Calories != 300 || item.ProteinG != 10 || item.CarbsG != 50 || item.FatG != 6 {
		t.Fatalf("macros were not decoded from the padded header: %+v", item)
	}
	if len(item.Tags) != 1 || !item.Tags["Vegan"] {
		t.Fatalf("expected only the Vegan tag, got %v", item.Tags)
	}
	if !catalog.HasColumn("calories") {
		t.Fatalf("expected trimmed columns, got %v", catalog.Columns)
	}
}

func TestEnsureFileWritesHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "diet_logs.csv")
	if err := EnsureFile(path, DietLogHeader); err != nil {
		t.Fatalf("ensure file: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != strings.Join(DietLogHeader, ",")+"\n" {
		t.Fatalf("unexpected header %q", data)
	}
	if err := EnsureFile(path, DietLogHeader); err != nil {
		t.Fatalf("existing file: %v", err)
	}
}

func TestLoadFoodCatalogMissingColumn(t *testing.T) {
	store := newTestStore(t)
	writeFixture(t, store.FoodItemsPath, "name,calories,protein_g,carbs_g\nTofu,150,16,4\n")

	if _, err := store.LoadFoodCatalog(); !errors.Is(err, ErrMissingColumn) {
		t.Fatalf("expected ErrMissingColumn, got %v", err)
	}
}

func TestLoadDietLogs(t *testing.T) {
	store := newTestStore(t)
	writeFixture(t, store.DietLogsPath, strings.Join(DietLogHeader, ",")+"\n"+
		"alice,2024-01-01,60,breakfast,500,30,60,15,Oats|Milk\n"+
		"bob,2024-01-01,80,lunch,700,40,80,20,Rice\n"+
		"alice,2024-01-02,60,lunch,600,35,70,18,Salad\n")

	logs, err := store.LoadDietLogs("alice")
	if err != nil {
		t.Fatalf("load logs: %v", err)
	}
	if len(logs) != 2 || logs[1].Calories != 600 {
		t.Fatalf("unexpected logs: %+v", logs)
	}
}

func TestLoadDietLogsSkipsOtherUsersRows(t *testing.T) {
	store := newTestStore(t)
	writeFixture(t, store.DietLogsPath, strings.Join(DietLogHeader, ",")+"\n"+
		"alice,2024-01-01,60,breakfast,500,30,60,,Oats\n"+
		"bob,2024-01-01,70,lunch,,30,60,15,Rice\n"+
		"bob,2024-01-02,70,lunch,abc,30,60,15,Rice\n"+
		"alice,2024-01-02,60,lunch,600,35,70,18,Salad\n")

	logs, err := store.LoadDietLogs("alice")
	if err != nil {
		t.Fatalf("bad rows of another user must not fail alice: %v", err)
	}
	if len(logs) != 2 || logs[0].Calories != 500 || logs[1].FatG != 18 {
		t.Fatalf("unexpected logs: %+v", logs)
	}
	if !math.IsNaN(logs[0].FatG) {
		t.Fatalf("expected blank fat to be NaN, got %v", logs[0].FatG)
	}

	_, err = store.LoadDietLogs("bob")
	var dataErr *DataError
	if !errors.As(err, &dataErr) || dataErr.Line != 4 || dataErr.Column != "calories" {
		t.Fatalf("expected data error at line 4 calories, got %v", err)
	}
}

func TestLoadUserFeedbackMergesCatalog(t *testing.T) {
	store := newTestStore(t)
	writeFixture(t, store.ExercisePath, "ExerciseName,ExerciseType,TargetMuscle\nBench Press,Upper,Chest\nSquats,Lower,Quads\n")
	writeFixture(t, store.FeedbackPath, strings.Join(FeedbackHeader, ",")+"\n"+
		"alice,2024-01-01,Bench Press,strength,10,40,3,2,moderate,beginner,female,30,90,100,95,70,75,55,35,90,180,165,60\n"+
		"alice,2024-01-03,Squats,strength,8,60,3,1,high,beginner,female,30,90,100,95,70,75,55,35,90,180,165,60\n"+
		"bob,2024-01-02,Squats,strength,8,60,3,1,high,advanced,male,30,90,100,95,70,75,55,35,90,180,165,60\n")

	rows, err := store.LoadUserFeedback("alice")
	if err != nil {
		t.Fatalf("load feedback: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].Date != "2024-01-03" || rows[0].TargetMuscle != "Quads" || rows[0].ExerciseType != "Lower" {
		t.Fatalf("expected newest squats row first, got %+v", rows[0])
	}
}

func TestSaveAndGetProfile(t *testing.T) {
	store := newTestStore(t)

	created, err := store.SaveProfile(map[string]interface{}{
		"username":             "carol",
		"age":                  float64(28),
		"weight_kg":            float64(55),
		"height_cm":            float64(160),
		"gender":               "female",
		"fitness_level":        "intermediate",
		"dietary_restrictions": []interface{}{"vegan", "dairy-free"},
	})
	if err != nil || !created {
		t.Fatalf("expected profile creation, created=%v err=%v", created, err)
	}

	created, err = store.SaveProfile(map[string]interface{}{"username": "carol", "weight_kg": float64(54.5), "age": ""})
	if err != nil || created {
		t.Fatalf("expected profile update, created=%v err=%v", created, err)
	}

	profile, err := store.LoadProfile("carol")
	if err != nil {
		t.Fatalf("load saved profile: %v", err)
	}
	if profile.WeightKg != 54.5 || profile.Age != 28 {
		t.Fatalf("update should only touch provided fields: %+v", profile)
	}

	raw, err := store.GetProfile("CAROL")
	if err != nil {
		t.Fatalf("get profile: %v", err)
	}
	restrictions, ok := raw["dietary_restrictions"].([]string)
	if !ok || len(restrictions) != 2 {
		t.Fatalf("expected restriction list, got %#v", raw["dietary_restrictions"])
	}

	if _, err := store.SaveProfile(map[string]interface{}{"age": 20}); err == nil {
		t.Fatal("expected error without username")
	}
}

func TestAppendDietLogSkipsDuplicates(t *testing.T) {
	store := newTestStore(t)
	entry := structs.SaveDietParam{
		Username: "alice", Date: "2024-02-01", WeightKg: 60.4, MealType: "lunch",
		Calories: 612.6, ProteinG: 40.2, CarbsG: 70.5, FatG: 20.1, FoodItem: []string{"Rice", "Beans"},
	}

	exists, err := store.AppendDietLog(entry)
	if err != nil || exists {
		t.Fatalf("first append: exists=%v err=%v", exists, err)
	}
	exists, err = store.AppendDietLog(entry)
	if err != nil || !exists {
		t.Fatalf("second append should be detected as duplicate: exists=%v err=%v", exists, err)
	}

	logs, err := store.LoadDietLogs("alice")
	if err != nil {
		t.Fatalf("load logs: %v", err)
	}
	if len(logs) != 1 || logs[0].Calories != 613 || logs[0].CarbsG != 71 {
		t.Fatalf("expected one rounded row, got %+v", logs)
	}
}

func TestAppendFeedbackAndFeedbackOn(t *testing.T) {
	store := newTestStore(t)
	entry := structs.SaveFeedbackParam{
		Username: "Alice", Date: "2024-03-01", ExerciseName: "Squats", Category: "Lower",
		ActualReps: 10, ActualWeight: 50, NumberOfSets: 3, Intensity: "High",
	}
	if err := store.AppendFeedback(entry); err != nil {
		t.Fatalf("append feedback: %v", err)
	}
	entry.Date = "2024-03-02"
	if err := store.AppendFeedback(entry); err != nil {
		t.Fatalf("append feedback: %v", err)
	}

	today, err := store.FeedbackOn("alice", "2024-03-01")
	if err != nil {
		t.Fatalf("feedback on: %v", err)
	}
	if len(today) != 1 || today[0].ExerciseName != "Squats" || today[0].Category != "Lower" {
		t.Fatalf("unexpected summaries: %+v", today)
	}
}

func TestAppendRowTerminatesLastLine(t *testing.T) {
	store := newTestStore(t)
	writeFixture(t, store.DietLogsPath, strings.Join(DietLogHeader, ",")+"\nalice,2024-01-01,60,breakfast,500,30,60,15,Oats")

	if _, err := store.AppendDietLog(structs.SaveDietParam{Username: "alice", Date: "2024-01-02", MealType: "lunch", Calories: 400}); err != nil {
		t.Fatalf("append: %v", err)
	}
	logs, err := store.LoadDietLogs("alice")
	if err != nil {
		t.Fatalf("load logs: %v", err)
	}
	if len(logs) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(logs))
	}
}
