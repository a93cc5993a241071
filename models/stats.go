package models

type Stats struct {
	UsersByRole          map[string]int64 `json:"usersByRole"`
	AppointmentsByStatus map[string]int64 `json:"appointmentsByStatus"`
	TotalRevenue         float64          `json:"totalRevenue"`
	OutstandingInvoices  int64            `json:"outstandingInvoices"`
	TodayAppointments    int64            `json:"todayAppointments"`
}

type DepartmentCount struct {
	Department string `json:"department" bson:"_id"`
	Count      int64  `json:"count" bson:"count"`
}

type AppointmentAnalytics struct {
	From         string            `json:"from,omitempty"`
	To           string            `json:"to,omitempty"`
	ByDepartment []DepartmentCount `json:"byDepartment"`
	ByStatus     map[string]int64  `json:"byStatus"`
}
