package point

// Response is the API representation of a disciplinary point.
type Response struct {
	ID           string  `json:"id"`
	EmployeeID   string  `json:"employee_id"`
	ShiftDate    string  `json:"shift_date"`
	AttendanceID string  `json:"attendance_id"`
	Type         string  `json:"type"`
	Value        float64 `json:"value"`
	Description  string  `json:"description"`
	ExpiresAt    string  `json:"expires_at"`
	GBROEligible bool    `json:"gbro_eligible"`
	ExpiredAt    *string `json:"expired_at,omitempty"`
	CreatedAt    string  `json:"created_at"`
}

func (p AttendancePoint) ToResponse() Response {
	resp := Response{
		ID:           p.ID,
		EmployeeID:   p.EmployeeID,
		ShiftDate:    p.ShiftDate.Format("2006-01-02"),
		AttendanceID: p.AttendanceID,
		Type:         string(p.Type),
		Value:        p.Value,
		Description:  p.Description,
		ExpiresAt:    p.ExpiresAt.Format("2006-01-02T15:04:05Z07:00"),
		GBROEligible: p.GBROEligible,
		CreatedAt:    p.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
	if p.ExpiredAt != nil {
		s := p.ExpiredAt.Format("2006-01-02T15:04:05Z07:00")
		resp.ExpiredAt = &s
	}
	return resp
}
