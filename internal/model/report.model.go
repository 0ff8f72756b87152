package model

// ReportTotals sums a date range, both ends inclusive. NetBalance is
// TotalCredits - TotalPayments.
type ReportTotals struct {
	TotalCredits  float64 `json:"total_credits"`
	TotalPayments float64 `json:"total_payments"`
	NetBalance    float64 `json:"net_balance"`
}
