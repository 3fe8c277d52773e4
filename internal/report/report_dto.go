package report

// File is a generated spreadsheet ready to be streamed to the client.
type File struct {
	Name    string
	Content []byte
}

type Summary struct {
	Total             int `json:"total"`
	Pending           int `json:"pending"`
	InReview          int `json:"in_review"`
	Approved          int `json:"approved"`
	Rejected          int `json:"rejected"`
	Cancelled         int `json:"cancelled"`
	ApprovedThisMonth int `json:"approved_this_month"`
}
