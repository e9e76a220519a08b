package http

import (
	"net/http"
	"time"

	"budgetkoll/internal/core"
	"budgetkoll/internal/holiday"
)

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleMonthSummary(w http.ResponseWriter, r *http.Request) {
	mk, err := monthKey(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	today, err := parseToday(r)
	if err != nil {
		writeError(w, r, core.ErrInvalidMonthKey)
		return
	}

	// today shifts the remaining-budget window, so it is part of the key.
	key := string(mk) + ":" + today.Format("2006-01-02")
	if view, ok := s.viewCache.Get(key); ok {
		writeJSON(w, http.StatusOK, toMonthViewDTO(view))
		return
	}

	view, err := s.summaries.MonthView(r.Context(), mk, today)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.viewCache.Set(key, view)
	writeJSON(w, http.StatusOK, toMonthViewDTO(view))
}

func (s *Server) handleLockMonth(w http.ResponseWriter, r *http.Request) {
	mk, err := monthKey(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.budgets.LockMonth(r.Context(), mk); err != nil {
		writeError(w, r, err)
		return
	}
	s.invalidateViews()
	writeJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleUnlockMonth(w http.ResponseWriter, r *http.Request) {
	mk, err := monthKey(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.budgets.UnlockMonth(r.Context(), mk); err != nil {
		writeError(w, r, err)
		return
	}
	s.invalidateViews()
	writeJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleDeleteMonth(w http.ResponseWriter, r *http.Request) {
	mk, err := monthKey(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.budgets.DeleteMonth(r.Context(), mk); err != nil {
		writeError(w, r, err)
		return
	}
	s.invalidateViews()
	writeJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleSetActualBalance(w http.ResponseWriter, r *http.Request) {
	mk, err := monthKey(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var body struct {
		ValueOre *int64 `json:"value_ore"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid body"})
		return
	}
	if err := s.budgets.SetActualBalance(r.Context(), mk, r.PathValue("account"), body.ValueOre); err != nil {
		writeError(w, r, err)
		return
	}
	s.invalidateViews()
	writeJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleListItems(w http.ResponseWriter, r *http.Request) {
	mk, err := monthKey(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	items, err := s.summaries.Items(r.Context(), mk)
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := make([]itemDTO, 0, len(items))
	for _, it := range items {
		out = append(out, toItemDTO(it))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handlePutItem(w http.ResponseWriter, r *http.Request) {
	mk, err := monthKey(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var body itemDTO
	if err := decodeBody(r, &body); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid body"})
		return
	}
	saved, err := s.budgets.PutBudgetItem(r.Context(), mk, fromItemDTO(body))
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.invalidateViews()
	writeJSON(w, http.StatusOK, toItemDTO(saved))
}

func (s *Server) handleDeleteItem(w http.ResponseWriter, r *http.Request) {
	if err := s.budgets.DeleteBudgetItem(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	s.invalidateViews()
	writeJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleListAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := s.summaries.Accounts(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := make([]accountDTO, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, accountDTO{ID: a.ID, Name: a.Name})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handlePutAccount(w http.ResponseWriter, r *http.Request) {
	var body accountDTO
	if err := decodeBody(r, &body); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid body"})
		return
	}
	saved, err := s.budgets.PutAccount(r.Context(), core.Account{ID: body.ID, Name: body.Name})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, accountDTO{ID: saved.ID, Name: saved.Name})
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	graph, err := s.summaries.Categories(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := make([]categoryDTO, 0, len(graph.Categories))
	for _, c := range graph.Categories {
		out = append(out, categoryDTO{ID: c.ID, Name: c.Name, SubIDs: c.SubIDs})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handlePutCategory(w http.ResponseWriter, r *http.Request) {
	var body categoryDTO
	if err := decodeBody(r, &body); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid body"})
		return
	}
	id, err := s.budgets.PutCategory(r.Context(), body.ID, body.Name)
	if err != nil {
		writeError(w, r, err)
		return
	}
	body.ID = id
	writeJSON(w, http.StatusOK, body)
}

func (s *Server) handlePutSubcategory(w http.ResponseWriter, r *http.Request) {
	var body categoryDTO
	if err := decodeBody(r, &body); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid body"})
		return
	}
	id, err := s.budgets.PutSubcategory(r.Context(), body.ID, r.PathValue("id"), body.Name)
	if err != nil {
		writeError(w, r, err)
		return
	}
	body.ID = id
	writeJSON(w, http.StatusOK, body)
}

func (s *Server) handleListHolidays(w http.ResponseWriter, r *http.Request) {
	holidays, err := s.summaries.CustomHolidays(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := make([]holidayDTO, 0, len(holidays))
	for _, h := range holidays {
		out = append(out, holidayDTO{Date: h.Date.Format("2006-01-02"), Name: h.Name})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handlePutHoliday(w http.ResponseWriter, r *http.Request) {
	var body holidayDTO
	if err := decodeBody(r, &body); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid body"})
		return
	}
	date, err := time.Parse("2006-01-02", body.Date)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid date"})
		return
	}
	if err := s.budgets.PutCustomHoliday(r.Context(), holiday.Holiday{Date: date, Name: body.Name}); err != nil {
		writeError(w, r, err)
		return
	}
	s.invalidateViews()
	writeJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleListGoals(w http.ResponseWriter, r *http.Request) {
	goals, err := s.summaries.Goals(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := make([]goalDTO, 0, len(goals))
	for _, g := range goals {
		out = append(out, toGoalDTO(g))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handlePutGoal(w http.ResponseWriter, r *http.Request) {
	var body goalDTO
	if err := decodeBody(r, &body); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid body"})
		return
	}
	saved, err := s.budgets.PutSavingsGoal(r.Context(), fromGoalDTO(body))
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.invalidateViews()
	writeJSON(w, http.StatusOK, toGoalDTO(saved))
}

func (s *Server) handleDeleteGoal(w http.ResponseWriter, r *http.Request) {
	if err := s.budgets.DeleteSavingsGoal(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	s.invalidateViews()
	writeJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleImportTransaction(w http.ResponseWriter, r *http.Request) {
	var body transactionDTO
	if err := decodeBody(r, &body); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid body"})
		return
	}
	t, err := fromTransactionDTO(body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid date"})
		return
	}
	saved, err := s.budgets.ImportTransaction(r.Context(), t)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.invalidateViews()
	body.ID = saved.ID
	writeJSON(w, http.StatusCreated, body)
}

func (s *Server) handleGetTransferSettings(w http.ResponseWriter, r *http.Request) {
	daily, weekend, err := s.summaries.TransferSettings(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, transferSettingsDTO{DailyOre: daily.Ore, WeekendOre: weekend.Ore})
}

func (s *Server) handleSetTransferSettings(w http.ResponseWriter, r *http.Request) {
	var body transferSettingsDTO
	if err := decodeBody(r, &body); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid body"})
		return
	}
	err := s.budgets.SetTransferSettings(r.Context(),
		core.Money{Ore: body.DailyOre}, core.Money{Ore: body.WeekendOre})
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.invalidateViews()
	writeJSON(w, http.StatusNoContent, nil)
}
