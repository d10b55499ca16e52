package models

// EvidenceResult is the response for a claim-verification request. On a
// successful lookup Evidence and Citations are set; when the backend is
// unavailable Fallback is true and Message explains, with SearchURL always
// present as the manual path.
type EvidenceResult struct {
	ClaimID   string   `json:"claimId"`
	Evidence  string   `json:"evidence,omitempty"`
	Citations []string `json:"citations,omitempty"`
	Model     string   `json:"model,omitempty"`
	SearchURL string   `json:"searchUrl"`
	Fallback  bool     `json:"fallback,omitempty"`
	Message   string   `json:"message,omitempty"`
}
