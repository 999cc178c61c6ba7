package entity

// User is the authenticated BPMS user
type User struct {
	Email        string        `json:"email"`
	Partner      string        `json:"partner"`
	Applications []Application `json:"application"`
}

// Application is a user's membership of one application
type Application struct {
	AppName string `json:"app_name"`
	Role    []Role `json:"role"`
}

// Role grants a user type, optionally scoped to a cost center
type Role struct {
	BP           string  `json:"bp"`
	CostCenter   *string `json:"cost_center"`
	EmCostCenter *string `json:"em_cost_center,omitempty"`
	UserType     string  `json:"user_type"`
}
