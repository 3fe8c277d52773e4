package domain

// EnforceRequest is the authorization question asked by the RBAC middleware.
type EnforceRequest struct {
	UserID   string `json:"user_id"`
	Resource string `json:"resource"`
	Action   string `json:"action"`
}
