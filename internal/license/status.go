package license

// Status is the license request lifecycle state. Any state is reachable from
// any other by an explicit SetStatus call; the engine does not enforce a
// transition graph.
type Status string

const (
	StatusPending  Status = "pending"
	StatusInReview Status = "in_review"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
	StatusCanceled Status = "cancelled"
)

var statusLabels = map[Status]string{
	StatusPending:  "Pendiente",
	StatusInReview: "En revisión",
	StatusApproved: "Aprobada",
	StatusRejected: "Rechazada",
	StatusCanceled: "Cancelada",
}

func (s Status) IsValid() bool {
	_, ok := statusLabels[s]
	return ok
}

// Label returns the Spanish display label used in responses and reports.
func (s Status) Label() string {
	if label, ok := statusLabels[s]; ok {
		return label
	}
	return string(s)
}
