package dto

// DashboardSummaryResponse aggregates the caller's task counts.
type DashboardSummaryResponse struct {
	OpenTasks     int64 `json:"open_tasks"`
	FinishedTasks int64 `json:"finished_tasks"`
}
