package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Jeshoorin/Gym-Suggestions/controllers"
	"github.com/Jeshoorin/Gym-Suggestions/services/dataset"
	"github.com/Jeshoorin/Gym-Suggestions/services/diet"
	"github.com/Jeshoorin/Gym-Suggestions/services/workout"
	"github.com/Jeshoorin/Gym-Suggestions/structs"
	"github.com/Jeshoorin/Gym-Suggestions/utils"

	"github.com/gin-gonic/gin"
)

func setup(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	utils.EnvConfig = &structs.EnvironmentModel{ConcurrentAmount: 1}

	dir := t.TempDir()
	store := &dataset.Store{
		ProfilesPath:  filepath.Join(dir, "user_profiles.csv"),
		DietLogsPath:  filepath.Join(dir, "diet_logs.csv"),
		FoodItemsPath: filepath.Join(dir, "food_items.csv"),
		FeedbackPath:  filepath.Join(dir, "feedback_logs.csv"),
		ExercisePath:  filepath.Join(dir, "exercise_items.csv"),
	}
	files := map[string]string{
		store.ProfilesPath: "username,age,height_cm,weight_kg,fitness_level,gender,dietary_restrictions\n" +
			"alice,30,165,60,beginner,female,vegan\n",
		store.DietLogsPath: strings.Join(dataset.DietLogHeader, ",") + "\n" +
			"alice,2024-01-01,60,breakfast,500,30,60,15,Oats\n",
		store.FoodItemsPath: "name,calories,protein_g,carbs_g,fat_g,Vegan\n" +
			"Oats,300,10,50,6,True\n" +
			"Tofu,180,18,4,10,True\n" +
			"Rice,200,4,45,1,True\n" +
			"Lentils,230,18,40,1,True\n" +
			"Chicken,250,40,0,8,False\n",
	}
	for path, content := range files {
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	controllers.Setup(controllers.Dependencies{
		Store:    store,
		Trend:    &diet.TrendPredictor{Window: 7, MinRows: 10, Epochs: 2, Hidden: 4, Seed: 42},
		Registry: &workout.Registry{},
	})
	return Router()
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func errorOf(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var res controllers.ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return res.Error
}

func TestRecommendDiet(t *testing.T) {
	r := setup(t)

	tests := []struct {
		name   string
		body   string
		status int
		err    string
	}{
		{"empty username", `{"username": ""}`, http.StatusBadRequest, "Username is required"},
		{"missing body", ``, http.StatusBadRequest, "Username is required"},
		{"unknown user", `{"username": "nobody"}`, http.StatusInternalServerError, "No recommendation generated"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(r, http.MethodPost, "/recommend-diet", tt.body)
			if w.Code != tt.status {
				t.Fatalf("expected %d, got %d: %s", tt.status, w.Code, w.Body.String())
			}
			if got := errorOf(t, w); got != tt.err {
				t.Fatalf("expected error %q, got %q", tt.err, got)
			}
		})
	}

	w := do(r, http.MethodPost, "/recommend-diet", `{"username": "alice"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var plan structs.MealPlan
	if err := json.Unmarshal(w.Body.Bytes(), &plan); err != nil {
		t.Fatal(err)
	}
	if plan.Lunch.Macros.Calories <= plan.Breakfast.Macros.Calories {
		t.Fatalf("lunch should carry the largest share: %+v", plan)
	}
	for _, meal := range []structs.Meal{plan.Breakfast, plan.Lunch, plan.Dinner} {
		for _, item := range meal.Items {
			if item == "Chicken" {
				t.Fatalf("vegan plan contains %s", item)
			}
		}
	}
}

func TestRecommendWorkoutWithoutModel(t *testing.T) {
	r := setup(t)

	if w := do(r, http.MethodPost, "/recommend-workout", `{}`); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	w := do(r, http.MethodPost, "/recommend-workout", `{"username": "alice"}`)
	if w.Code != http.StatusInternalServerError || errorOf(t, w) != workout.ErrModelNotLoaded.Error() {
		t.Fatalf("unexpected response %d %s", w.Code, w.Body.String())
	}
}

func TestProfileRoutes(t *testing.T) {
	r := setup(t)

	if w := do(r, http.MethodPost, "/save-profile", `{"age": 20}`); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	w := do(r, http.MethodPost, "/save-profile", `{"username": "carol", "age": 25, "dietary_restrictions": ["vegan", "glutenfree"]}`)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "Profile saved successfully.") {
		t.Fatalf("unexpected response %d %s", w.Code, w.Body.String())
	}
	w = do(r, http.MethodPost, "/save-profile", `{"username": "carol", "age": 26, "gender": ""}`)
	if !strings.Contains(w.Body.String(), "Profile updated successfully.") {
		t.Fatalf("unexpected response %s", w.Body.String())
	}

	w = do(r, http.MethodGet, "/get-profile/CAROL", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var profile map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &profile); err != nil {
		t.Fatal(err)
	}
	if profile["age"] != "26" {
		t.Fatalf("expected updated age, got %v", profile["age"])
	}
	if list, ok := profile["dietary_restrictions"].([]interface{}); !ok || len(list) != 2 {
		t.Fatalf("expected restriction list, got %v", profile["dietary_restrictions"])
	}

	if w := do(r, http.MethodGet, "/get-profile/dave", ""); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestLogRoutes(t *testing.T) {
	r := setup(t)

	if w := do(r, http.MethodPost, "/save-diet", `{"username": "alice"}`); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	entry := `{"username": "alice", "date": "2024-01-02", "weight_kg": 60.4, "meal_type": "lunch", "calories": 612.6, "fooditem": ["Rice", "Tofu"]}`
	if w := do(r, http.MethodPost, "/save-diet", entry); !strings.Contains(w.Body.String(), "Diet saved successfully") {
		t.Fatalf("unexpected response %s", w.Body.String())
	}
	if w := do(r, http.MethodPost, "/save-diet", entry); !strings.Contains(w.Body.String(), "Entry already exists") {
		t.Fatalf("unexpected response %s", w.Body.String())
	}

	if w := do(r, http.MethodGet, "/get-feedback/alice", ""); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 before any feedback, got %d", w.Code)
	}
	if w := do(r, http.MethodPost, "/save-feedback", `{"username": "alice"}`); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	date := time.Now().UTC().Format("2006-01-02")
	feedback := `{"username": "alice", "date": "` + date + `", "exercise_name": "Squats", "category": "strength", "actual_reps": 10.4, "intensity": "High"}`
	if w := do(r, http.MethodPost, "/save-feedback", feedback); w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	w := do(r, http.MethodGet, "/get-feedback/Alice", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var rows []dataset.FeedbackSummary
	if err := json.Unmarshal(w.Body.Bytes(), &rows); err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 || rows[0].ExerciseName != "Squats" || rows[0].Category != "strength" {
		t.Fatalf("unexpected feedback %+v", rows)
	}
}

func TestProbesAndJobs(t *testing.T) {
	r := setup(t)

	if w := do(r, http.MethodGet, "/read-probe", ""); w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	w := do(r, http.MethodGet, "/check-live", "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"model_loaded":false`) {
		t.Fatalf("unexpected check-live %d %s", w.Code, w.Body.String())
	}

	if w := do(r, http.MethodPost, "/jobs/reports", ""); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
	if w := do(r, http.MethodPost, "/jobs/diet-trend", `{"type": "single"}`); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without username, got %d", w.Code)
	}
	if w := do(r, http.MethodPost, "/jobs/diet-trend", ""); w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 without a worker, got %d", w.Code)
	}
}

func TestHandlerAllowsCrossOrigin(t *testing.T) {
	setup(t)
	h := Handler()

	req, _ := http.NewRequest(http.MethodOptions, "/save-profile", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "Content-Type")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusNoContent {
		t.Fatalf("preflight status %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("preflight allow origin %q", got)
	}

	req, _ = http.NewRequest(http.MethodGet, "/get-profile/alice", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusOK || w.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Fatalf("status %d allow origin %q", w.Code, w.Header().Get("Access-Control-Allow-Origin"))
	}
}
