package dto

type Res struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
}

// ErrorRes is the body of every non-2xx response.
type ErrorRes struct {
	Error   string      `json:"error"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

type CheckoutRes struct {
	URL string `json:"url"`
}

type HealthRes struct {
	Status   string            `json:"status"`
	Features map[string]bool   `json:"features,omitempty"`
	Checks   map[string]string `json:"checks,omitempty"`
}
