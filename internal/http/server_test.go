package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"budgetkoll/internal/core"
	"budgetkoll/internal/services"
	"budgetkoll/internal/storage"
)

func testServer(t *testing.T) (*Server, *storage.SQLiteRepository) {
	t.Helper()
	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "budget.db"))
	if err != nil {
		t.Fatalf("NewSQLiteRepository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })

	s := NewServer("127.0.0.1:0", services.NewSummaryService(repo), services.NewBudgetService(repo, nil), 100, 5*time.Minute)
	t.Cleanup(func() { s.Shutdown(context.Background()) })
	return s, repo
}

func do(t *testing.T, s *Server, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.Server.Handler.ServeHTTP(rec, req)
	return rec
}

func seed(t *testing.T, s *Server, repo *storage.SQLiteRepository) string {
	t.Helper()
	ctx := context.Background()
	acc, err := repo.PutAccount(ctx, core.Account{Name: "Lönekonto"})
	if err != nil {
		t.Fatalf("PutAccount: %v", err)
	}
	if _, err := repo.PutCategory(ctx, "food", "Mat"); err != nil {
		t.Fatalf("PutCategory: %v", err)
	}
	body := `{"kind":"cost","main_category_id":"food","account_id":"` + acc.ID +
		`","amount_ore":400000,"financed_from":"one-time","transfer_type":"monthly"}`
	if rec := do(t, s, http.MethodPost, "/api/months/2025-07/items", body); rec.Code != http.StatusOK {
		t.Fatalf("seed item: status %d body %s", rec.Code, rec.Body.String())
	}
	return acc.ID
}

func TestHealth(t *testing.T) {
	s, _ := testServer(t)
	rec := do(t, s, http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestMonthSummaryEndpoint(t *testing.T) {
	s, repo := testServer(t)
	seed(t, s, repo)

	rec := do(t, s, http.MethodGet, "/api/months/2025-07/summary?today=2025-07-01", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var view monthViewDTO
	if err := json.Unmarshal(rec.Body.Bytes(), &view); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if view.Month != "2025-07" {
		t.Errorf("month = %s", view.Month)
	}
	if len(view.Accounts) != 1 || view.Accounts[0].EstimatedClosing != -400000 {
		t.Errorf("accounts = %+v, want closing -400000", view.Accounts)
	}
	if len(view.Categories) != 1 || view.Categories[0].BudgetedOre != 400000 {
		t.Errorf("categories = %+v, want budgeted 400000", view.Categories)
	}
}

func TestInvalidMonthKeyRejected(t *testing.T) {
	s, _ := testServer(t)
	rec := do(t, s, http.MethodGet, "/api/months/2025-13/summary", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestLockChainConflict(t *testing.T) {
	s, repo := testServer(t)
	acc := seed(t, s, repo)

	body := `{"kind":"cost","main_category_id":"food","account_id":"` + acc +
		`","amount_ore":100000,"financed_from":"one-time","transfer_type":"monthly"}`
	if rec := do(t, s, http.MethodPost, "/api/months/2025-08/items", body); rec.Code != http.StatusOK {
		t.Fatalf("august item: %d", rec.Code)
	}

	if rec := do(t, s, http.MethodPost, "/api/months/2025-08/lock", ""); rec.Code != http.StatusConflict {
		t.Fatalf("lock out of order: status = %d, want 409", rec.Code)
	}
	if rec := do(t, s, http.MethodPost, "/api/months/2025-07/lock", ""); rec.Code != http.StatusNoContent {
		t.Fatalf("lock first month: status = %d, want 204", rec.Code)
	}
	if rec := do(t, s, http.MethodPost, "/api/months/2025-08/lock", ""); rec.Code != http.StatusNoContent {
		t.Fatalf("lock second month: status = %d, want 204", rec.Code)
	}
}

func TestMutationInvalidatesSummaryCache(t *testing.T) {
	s, repo := testServer(t)
	acc := seed(t, s, repo)

	first := do(t, s, http.MethodGet, "/api/months/2025-07/summary?today=2025-07-01", "")
	if first.Code != http.StatusOK {
		t.Fatalf("first summary: %d", first.Code)
	}

	// Cached now; a balance write must drop it.
	body := `{"value_ore": 999900}`
	if rec := do(t, s, http.MethodPut, "/api/months/2025-07/balances/"+acc, body); rec.Code != http.StatusNoContent {
		t.Fatalf("set balance: status = %d, body %s", rec.Code, rec.Body.String())
	}

	second := do(t, s, http.MethodGet, "/api/months/2025-07/summary?today=2025-07-01", "")
	var view monthViewDTO
	if err := json.Unmarshal(second.Body.Bytes(), &view); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if view.Accounts[0].ActualOre == nil || *view.Accounts[0].ActualOre != 999900 {
		t.Errorf("actual = %v, want 999900 after invalidation", view.Accounts[0].ActualOre)
	}
}

func TestDeleteEarlierMonthConflicts(t *testing.T) {
	s, repo := testServer(t)
	acc := seed(t, s, repo)

	body := `{"kind":"cost","main_category_id":"food","account_id":"` + acc +
		`","amount_ore":100000,"financed_from":"one-time","transfer_type":"monthly"}`
	if rec := do(t, s, http.MethodPost, "/api/months/2025-08/items", body); rec.Code != http.StatusOK {
		t.Fatalf("august item: %d", rec.Code)
	}

	if rec := do(t, s, http.MethodDelete, "/api/months/2025-07", ""); rec.Code != http.StatusConflict {
		t.Fatalf("delete earlier month: status = %d, want 409", rec.Code)
	}
	if rec := do(t, s, http.MethodDelete, "/api/months/2025-08", ""); rec.Code != http.StatusNoContent {
		t.Fatalf("delete latest month: status = %d, want 204", rec.Code)
	}
}

func TestUnknownAccountIs404(t *testing.T) {
	s, _ := testServer(t)
	rec := do(t, s, http.MethodPut, "/api/months/2025-07/balances/nope", `{"value_ore": 1}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestCategoryAndHolidayEndpoints(t *testing.T) {
	s, _ := testServer(t)

	if rec := do(t, s, http.MethodPost, "/api/categories", `{"id":"food","name":"Mat"}`); rec.Code != http.StatusOK {
		t.Fatalf("create category: %d", rec.Code)
	}
	if rec := do(t, s, http.MethodPost, "/api/categories/food/subcategories", `{"id":"groceries","name":"Livsmedel"}`); rec.Code != http.StatusOK {
		t.Fatalf("create subcategory: %d", rec.Code)
	}

	rec := do(t, s, http.MethodGet, "/api/categories", "")
	var cats []categoryDTO
	if err := json.Unmarshal(rec.Body.Bytes(), &cats); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(cats) != 1 || len(cats[0].SubIDs) != 1 || cats[0].SubIDs[0] != "groceries" {
		t.Errorf("categories = %+v", cats)
	}

	if rec := do(t, s, http.MethodPut, "/api/holidays", `{"date":"2025-06-06","name":"Klämdag"}`); rec.Code != http.StatusNoContent {
		t.Fatalf("put holiday: %d body %s", rec.Code, rec.Body.String())
	}
	rec = do(t, s, http.MethodGet, "/api/holidays", "")
	var holidays []holidayDTO
	if err := json.Unmarshal(rec.Body.Bytes(), &holidays); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(holidays) != 1 || holidays[0].Name != "Klämdag" {
		t.Errorf("holidays = %+v", holidays)
	}

	if rec := do(t, s, http.MethodPost, "/api/categories", `{"name":"  "}`); rec.Code != http.StatusBadRequest {
		t.Errorf("blank category name: status = %d, want 400", rec.Code)
	}
}
