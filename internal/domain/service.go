package domain

// Service is an offering in the consultancy catalog (visa counselling,
// test preparation, university admission, ...).
type Service struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
	Active   bool   `json:"active"`
}
