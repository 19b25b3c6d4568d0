package attendance

import (
	"time"
)

type Attendance struct {
	ID                   string
	EmployeeID           string
	CompanyID            string
	Date                 time.Time
	ClockIn              *time.Time
	ClockOut             *time.Time
	Status               string
	LateCheckoutApproved bool
	CreatedAt            time.Time
	UpdatedAt            time.Time

	// Joined
	EmployeeName *string
	Timezone     *string
}
