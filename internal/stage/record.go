package stage

// Record is the standard per-file shape in the envelope.
// Using a struct ensures deterministic JSON field ordering.
type Record struct {
	Locator string    `json:"locator"`
	Text    string    `json:"text,omitempty"`
	Tokens  []string  `json:"tokens,omitempty"`
	Error   *RecError `json:"error,omitempty"`
}

// RecError is a per-record error payload.
type RecError struct {
	Stage   string `json:"stage"`
	Message string `json:"message"`
}
