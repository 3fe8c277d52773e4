package license

// PermitType is the leave classification code. Each code carries a display
// label for responses/reports and the cell where the printable request form
// expects its checkmark.
type PermitType string

const (
	PermitRemunerated PermitType = "remunerada"
	PermitUnpaid      PermitType = "no_remunerada"
	PermitMedical     PermitType = "medica"
	PermitMaternity   PermitType = "maternidad"
	PermitPaternity   PermitType = "paternidad"
	PermitBereavement PermitType = "luto"
	PermitMarriage    PermitType = "matrimonio"
	PermitStudy       PermitType = "estudio"
	PermitVoting      PermitType = "votacion"
	PermitCalamity    PermitType = "calamidad"
	PermitPersonal    PermitType = "personal"
	PermitOther       PermitType = "otra"
)

type permitMeta struct {
	label    string
	formCell string
}

var permitTypes = map[PermitType]permitMeta{
	PermitRemunerated: {"Licencia remunerada", "C10"},
	PermitUnpaid:      {"Licencia no remunerada", "C11"},
	PermitMedical:     {"Incapacidad o cita médica", "C12"},
	PermitMaternity:   {"Licencia de maternidad", "C13"},
	PermitPaternity:   {"Licencia de paternidad", "C14"},
	PermitBereavement: {"Licencia por luto", "C15"},
	PermitMarriage:    {"Licencia por matrimonio", "C16"},
	PermitStudy:       {"Permiso de estudio", "C17"},
	PermitVoting:      {"Permiso por votación", "C18"},
	PermitCalamity:    {"Calamidad doméstica", "C19"},
	PermitPersonal:    {"Permiso personal", "C20"},
	PermitOther:       {"Otro permiso", "C21"},
}

// PermitTypes lists every code in form order (top to bottom of the checkmark
// column).
func PermitTypes() []PermitType {
	return []PermitType{
		PermitRemunerated, PermitUnpaid, PermitMedical, PermitMaternity,
		PermitPaternity, PermitBereavement, PermitMarriage, PermitStudy,
		PermitVoting, PermitCalamity, PermitPersonal, PermitOther,
	}
}

func (p PermitType) IsValid() bool {
	_, ok := permitTypes[p]
	return ok
}

func (p PermitType) Label() string {
	if meta, ok := permitTypes[p]; ok {
		return meta.label
	}
	return string(p)
}

// FormCell returns the spreadsheet coordinate for the permit checkmark in the
// printable form template.
func (p PermitType) FormCell() string {
	if meta, ok := permitTypes[p]; ok {
		return meta.formCell
	}
	return ""
}
