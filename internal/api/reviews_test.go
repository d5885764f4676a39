package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"biblioruche/hive/internal/auth"
	"biblioruche/hive/internal/constants"
	"biblioruche/hive/internal/db/repositories"
	"biblioruche/hive/internal/models/dtos"
	gormModels "biblioruche/hive/internal/models/gorm"
	"biblioruche/hive/internal/services"

	"github.com/go-chi/chi/v5"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupReviewHandlerTest(t *testing.T) (*Handlers, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	models := []interface{}{
		&gormModels.User{},
		&gormModels.Proposal{},
		&gormModels.ClubSession{},
		&gormModels.Review{},
	}
	if err := db.AutoMigrate(models...); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}

	reviewSvc := services.NewReviewService(
		repositories.NewReviewRepository(db),
		repositories.NewProposalRepository(db),
		repositories.NewClubSessionRepository(db),
		nil,
	)

	handlers := NewHandlers(&Dependencies{
		Services: &Services{Reviews: reviewSvc},
	})
	return handlers, db
}

func seedReviewedWork(t *testing.T, db *gorm.DB, sessionStatus constants.ClubSessionStatus) {
	proposal := gormModels.Proposal{
		ID:         "prop-1",
		Kind:       constants.KindBook,
		Title:      "Livre",
		Author:     "Auteur",
		ProposedBy: "user-1",
		Status:     constants.ProposalCompleted,
	}
	if err := db.Create(&proposal).Error; err != nil {
		t.Fatalf("Failed to create proposal: %v", err)
	}

	session := gormModels.ClubSession{
		ID:         "session-1",
		Kind:       constants.KindBook,
		ProposalID: "prop-1",
		Status:     sessionStatus,
		CreatedBy:  "admin-1",
	}
	if err := db.Create(&session).Error; err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}
}

func submitReviewRequest(t *testing.T, handlers *Handlers, userID string, body []byte) *httptest.ResponseRecorder {
	router := chi.NewRouter()
	router.Post("/api/v1/proposals/{proposal_id}/reviews", handlers.SubmitReviewHandler())

	req := httptest.NewRequest("POST", "/api/v1/proposals/prop-1/reviews", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	claims := &auth.SessionClaims{UserUUID: userID, UsernameValue: "lecteur"}
	req = req.WithContext(auth.SetUserClaims(req.Context(), claims))

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func TestSubmitReviewHandler_Success(t *testing.T) {
	handlers, db := setupReviewHandlerTest(t)
	seedReviewedWork(t, db, constants.SessionCompleted)

	comment := "Une très bonne lecture"
	body, _ := json.Marshal(dtos.ReviewSubmitReq{Rating: 4, Comment: &comment})

	rr := submitReviewRequest(t, handlers, "user-1", body)

	if rr.Code != http.StatusCreated {
		t.Errorf("Expected status 201, got %d", rr.Code)
	}

	var response dtos.APIResponse
	if err := json.NewDecoder(rr.Body).Decode(&response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if response.Status != "ok" {
		t.Errorf("Expected status ok, got %s", response.Status)
	}
}

func TestSubmitReviewHandler_SessionStillRunning(t *testing.T) {
	handlers, db := setupReviewHandlerTest(t)
	seedReviewedWork(t, db, constants.SessionCurrent)

	body, _ := json.Marshal(dtos.ReviewSubmitReq{Rating: 4})

	rr := submitReviewRequest(t, handlers, "user-1", body)

	if rr.Code != http.StatusConflict {
		t.Errorf("Expected status 409, got %d", rr.Code)
	}
}

func TestSubmitReviewHandler_InvalidJSON(t *testing.T) {
	handlers, db := setupReviewHandlerTest(t)
	seedReviewedWork(t, db, constants.SessionCompleted)

	rr := submitReviewRequest(t, handlers, "user-1", []byte("invalid json"))

	if rr.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rr.Code)
	}
}

func TestSubmitReviewHandler_RatingOutOfRange(t *testing.T) {
	handlers, db := setupReviewHandlerTest(t)
	seedReviewedWork(t, db, constants.SessionCompleted)

	body, _ := json.Marshal(dtos.ReviewSubmitReq{Rating: 9})

	rr := submitReviewRequest(t, handlers, "user-1", body)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rr.Code)
	}

	var response dtos.APIResponse
	json.NewDecoder(rr.Body).Decode(&response)
	if response.Status != "error" {
		t.Errorf("Expected status error, got %s", response.Status)
	}
}

func TestListReviewsHandler_ReturnsAverage(t *testing.T) {
	handlers, db := setupReviewHandlerTest(t)
	seedReviewedWork(t, db, constants.SessionCompleted)

	for user, rating := range map[string]int{"user-1": 5, "user-2": 3} {
		body, _ := json.Marshal(dtos.ReviewSubmitReq{Rating: rating})
		if rr := submitReviewRequest(t, handlers, user, body); rr.Code != http.StatusCreated {
			t.Fatalf("Seed review for %s failed with status %d", user, rr.Code)
		}
	}

	router := chi.NewRouter()
	router.Get("/api/v1/proposals/{proposal_id}/reviews", handlers.ListReviewsHandler())

	req := httptest.NewRequest("GET", "/api/v1/proposals/prop-1/reviews", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rr.Code)
	}

	var response struct {
		Status string `json:"status"`
		Data   struct {
			Reviews   []dtos.ReviewResponse `json:"reviews"`
			AvgRating float64               `json:"avg_rating"`
		} `json:"data"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if len(response.Data.Reviews) != 2 {
		t.Errorf("Expected 2 reviews, got %d", len(response.Data.Reviews))
	}
	if response.Data.AvgRating != 4 {
		t.Errorf("Expected average 4, got %f", response.Data.AvgRating)
	}
}
