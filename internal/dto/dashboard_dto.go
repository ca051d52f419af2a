package dto

type DashboardStats struct {
	TotalExams    int64 `json:"total_exams"`
	TotalClasses  int64 `json:"total_classes"`
	TotalStudents int64 `json:"total_students"`
	TotalAttempts int64 `json:"total_attempts"`
}

type TrafficPoint struct {
	Label string `json:"label"`
	Count int64  `json:"count"`
}

type DashboardResp struct {
	Stats   DashboardStats `json:"stats"`
	Traffic []TrafficPoint `json:"traffic"`
}
