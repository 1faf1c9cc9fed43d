package dto

import "time"

// StatementReportRequest selects aging run parameters. Unset fields fall
// back to the configured defaults. An empty party_ids list runs the
// report for every party with activity.
type StatementReportRequest struct {
	AsOfDate    *time.Time `json:"as_of_date"`
	BucketDays  int        `json:"bucket_days" binding:"omitempty,min=1,max=365"`
	BucketCount int        `json:"bucket_count" binding:"omitempty,min=2,max=12"`
	PeriodDays  int        `json:"period_days" binding:"omitempty,min=1,max=365"`
	PartyIDs    []string   `json:"party_ids" binding:"omitempty,dive,uuid"`
}

// FinanceChargeRequest runs a finance charge assessment for one party.
// AnnualRate and GraceDays fall back to the configured defaults when
// omitted.
type FinanceChargeRequest struct {
	PartyID    string     `json:"party_id" binding:"required,uuid"`
	AnnualRate string     `json:"annual_rate"`
	GraceDays  int        `json:"grace_days" binding:"omitempty,min=0,max=180"`
	AsOfDate   *time.Time `json:"as_of_date"`
}
