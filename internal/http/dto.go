package http

import (
	"time"

	"budgetkoll/internal/core"
	"budgetkoll/internal/period"
	"budgetkoll/internal/services"
)

// Wire types. All money fields are öre integers; the UI owns formatting.
type (
	accountDTO struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}

	itemDTO struct {
		ID             string `json:"id,omitempty"`
		Kind           string `json:"kind"`
		MainCategoryID string `json:"main_category_id"`
		SubCategoryID  string `json:"sub_category_id,omitempty"`
		AccountID      string `json:"account_id"`
		AmountOre      int64  `json:"amount_ore"`
		FinancedFrom   string `json:"financed_from"`
		TransferType   string `json:"transfer_type"`
		DailyAmountOre int64  `json:"daily_amount_ore,omitempty"`
		// Weekdays 0 (Sunday) through 6 (Saturday).
		TransferDays []int `json:"transfer_days,omitempty"`
	}

	categoryDTO struct {
		ID     string   `json:"id,omitempty"`
		Name   string   `json:"name"`
		SubIDs []string `json:"sub_ids,omitempty"`
	}

	goalDTO struct {
		ID               string `json:"id,omitempty"`
		Name             string `json:"name"`
		AccountID        string `json:"account_id"`
		TargetAmountOre  int64  `json:"target_amount_ore"`
		StartMonth       string `json:"start_month"`
		EndMonth         string `json:"end_month"`
		LinkedCategoryID string `json:"linked_category_id,omitempty"`
	}

	transactionDTO struct {
		ID               string `json:"id,omitempty"`
		AccountID        string `json:"account_id"`
		Date             string `json:"date"`
		AmountOre        int64  `json:"amount_ore"`
		CorrectedOre     *int64 `json:"corrected_ore,omitempty"`
		Type             string `json:"type"`
		AppCategoryID    string `json:"app_category_id,omitempty"`
		AppSubCategoryID string `json:"app_sub_category_id,omitempty"`
		SavingsTargetID  string `json:"savings_target_id,omitempty"`
		IncomeTargetID   string `json:"income_target_id,omitempty"`
		BankBalanceOre   *int64 `json:"bank_balance_ore,omitempty"`
	}

	transferSettingsDTO struct {
		DailyOre   int64 `json:"daily_ore"`
		WeekendOre int64 `json:"weekend_ore"`
	}

	accountSummaryDTO struct {
		AccountID        string `json:"account_id"`
		AccountName      string `json:"account_name"`
		EstimatedOpening int64  `json:"estimated_opening_ore"`
		EstimatedClosing int64  `json:"estimated_closing_ore"`
		ActualOre        *int64 `json:"actual_ore,omitempty"`
		DiffOre          *int64 `json:"diff_ore,omitempty"`
		BankBalanceOre   *int64 `json:"bank_balance_ore,omitempty"`
	}

	categorySummaryDTO struct {
		CategoryID  string `json:"category_id"`
		BudgetedOre int64  `json:"budgeted_ore"`
		ActualOre   int64  `json:"actual_ore"`
		Convention  string `json:"convention"`
	}

	savingsSummaryDTO struct {
		GoalID       string `json:"goal_id"`
		AmortizedOre int64  `json:"amortized_ore"`
		ActualOre    int64  `json:"actual_ore"`
	}

	anomalyDTO struct {
		TransactionID string `json:"transaction_id"`
		Field         string `json:"field"`
		Value         string `json:"value"`
		Reason        string `json:"reason"`
	}

	holidayDTO struct {
		Date string `json:"date"`
		Name string `json:"name"`
	}

	dailyBudgetDTO struct {
		TotalOre         int64        `json:"total_ore"`
		RemainingOre     int64        `json:"remaining_ore"`
		HolidayLostOre   int64        `json:"holiday_lost_ore"`
		WeekdayCount     int          `json:"weekday_count"`
		FridayCount      int          `json:"friday_count"`
		RemainingDays    int          `json:"remaining_weekdays"`
		RemainingFridays int          `json:"remaining_fridays"`
		UpcomingHolidays []holidayDTO `json:"upcoming_holidays,omitempty"`
	}

	monthViewDTO struct {
		Month      string               `json:"month"`
		Locked     bool                 `json:"locked"`
		Accounts   []accountSummaryDTO  `json:"accounts"`
		Categories []categorySummaryDTO `json:"categories"`
		Savings    []savingsSummaryDTO  `json:"savings"`
		Anomalies  []anomalyDTO         `json:"anomalies,omitempty"`
		Budget     dailyBudgetDTO       `json:"daily_budget"`
	}
)

func toItemDTO(it core.BudgetItem) itemDTO {
	var days []int
	for d := time.Sunday; d <= time.Saturday; d++ {
		if it.TransferDays[d] {
			days = append(days, int(d))
		}
	}
	return itemDTO{
		ID:             it.ID,
		Kind:           string(it.Kind),
		MainCategoryID: it.MainCategoryID,
		SubCategoryID:  it.SubCategoryID,
		AccountID:      it.AccountID,
		AmountOre:      it.Amount.Ore,
		FinancedFrom:   string(it.FinancedFrom),
		TransferType:   string(it.TransferType),
		DailyAmountOre: it.DailyAmount.Ore,
		TransferDays:   days,
	}
}

func fromItemDTO(d itemDTO) core.BudgetItem {
	var days map[time.Weekday]bool
	if len(d.TransferDays) > 0 {
		days = make(map[time.Weekday]bool, len(d.TransferDays))
		for _, wd := range d.TransferDays {
			days[time.Weekday(wd%7)] = true
		}
	}
	return core.BudgetItem{
		ID:             d.ID,
		Kind:           core.ItemKind(d.Kind),
		MainCategoryID: d.MainCategoryID,
		SubCategoryID:  d.SubCategoryID,
		AccountID:      d.AccountID,
		Amount:         core.Money{Ore: d.AmountOre},
		FinancedFrom:   core.FinancedFrom(d.FinancedFrom),
		TransferType:   core.TransferType(d.TransferType),
		DailyAmount:    core.Money{Ore: d.DailyAmountOre},
		TransferDays:   days,
	}
}

func toGoalDTO(g core.SavingsGoal) goalDTO {
	return goalDTO{
		ID:               g.ID,
		Name:             g.Name,
		AccountID:        g.AccountID,
		TargetAmountOre:  g.TargetAmount.Ore,
		StartMonth:       string(g.StartMonth),
		EndMonth:         string(g.EndMonth),
		LinkedCategoryID: g.LinkedCategoryID,
	}
}

func fromGoalDTO(d goalDTO) core.SavingsGoal {
	return core.SavingsGoal{
		ID:               d.ID,
		Name:             d.Name,
		AccountID:        d.AccountID,
		TargetAmount:     core.Money{Ore: d.TargetAmountOre},
		StartMonth:       core.MonthKey(d.StartMonth),
		EndMonth:         core.MonthKey(d.EndMonth),
		LinkedCategoryID: d.LinkedCategoryID,
	}
}

func fromTransactionDTO(d transactionDTO) (core.Transaction, error) {
	date, err := time.Parse("2006-01-02", d.Date)
	if err != nil {
		return core.Transaction{}, err
	}
	t := core.Transaction{
		ID:               d.ID,
		AccountID:        d.AccountID,
		Date:             date,
		Amount:           core.Money{Ore: d.AmountOre},
		Type:             core.TransactionType(d.Type),
		AppCategoryID:    d.AppCategoryID,
		AppSubCategoryID: d.AppSubCategoryID,
		SavingsTargetID:  d.SavingsTargetID,
		IncomeTargetID:   d.IncomeTargetID,
	}
	if d.CorrectedOre != nil {
		t.CorrectedAmount = &core.Money{Ore: *d.CorrectedOre}
	}
	if d.BankBalanceOre != nil {
		t.BankBalance = &core.Money{Ore: *d.BankBalanceOre}
	}
	return t, nil
}

func toMonthViewDTO(view services.MonthView) monthViewDTO {
	out := monthViewDTO{
		Month:  string(view.Summary.Month),
		Locked: view.Summary.Locked,
		Budget: toDailyBudgetDTO(view.Budget),
	}
	for _, acc := range view.Summary.Accounts {
		dto := accountSummaryDTO{
			AccountID:        acc.AccountID,
			AccountName:      acc.AccountName,
			EstimatedOpening: acc.EstimatedOpening,
			EstimatedClosing: acc.EstimatedClosing,
		}
		if acc.IsSet {
			actual, diff := acc.Actual, acc.Diff
			dto.ActualOre, dto.DiffOre = &actual, &diff
		}
		if acc.BankBalance != nil {
			ore := acc.BankBalance.Ore
			dto.BankBalanceOre = &ore
		}
		out.Accounts = append(out.Accounts, dto)
	}
	for _, cat := range view.Summary.Categories {
		out.Categories = append(out.Categories, categorySummaryDTO{
			CategoryID:  cat.CategoryID,
			BudgetedOre: cat.Budgeted,
			ActualOre:   cat.Actual.Ore,
			Convention:  string(cat.Actual.Convention),
		})
	}
	for _, sav := range view.Summary.Savings {
		out.Savings = append(out.Savings, savingsSummaryDTO{
			GoalID:       sav.GoalID,
			AmortizedOre: sav.Amortized,
			ActualOre:    sav.Actual.Ore,
		})
	}
	for _, a := range view.Summary.Anomalies {
		out.Anomalies = append(out.Anomalies, anomalyDTO{
			TransactionID: a.TransactionID,
			Field:         a.Field,
			Value:         a.Value,
			Reason:        a.Reason,
		})
	}
	return out
}

func toDailyBudgetDTO(b period.DailyBudget) dailyBudgetDTO {
	out := dailyBudgetDTO{
		TotalOre:         b.TotalBudget,
		RemainingOre:     b.RemainingBudget,
		HolidayLostOre:   b.HolidayBudget,
		WeekdayCount:     b.WeekdayCount,
		FridayCount:      b.FridayCount,
		RemainingDays:    b.RemainingWeekdayCount,
		RemainingFridays: b.RemainingFridayCount,
	}
	for _, h := range b.UpcomingHolidays {
		out.UpcomingHolidays = append(out.UpcomingHolidays, holidayDTO{
			Date: h.Date.Format("2006-01-02"),
			Name: h.Name,
		})
	}
	return out
}
