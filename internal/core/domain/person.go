package domain

// Person: пациент или практикующий врач
type Person interface {
	NaturalKey() string
	FullName() string
}

type Patient struct {
	Key       string `json:"cinPatient"`
	LastName  string `json:"nom"`
	FirstName string `json:"prenom"`
}

func (p Patient) NaturalKey() string {
	return p.Key
}

func (p Patient) FullName() string {
	return p.LastName + " " + p.FirstName
}

type Practitioner struct {
	Key       string `json:"cinPraticien"`
	LastName  string `json:"nom"`
	FirstName string `json:"prenom"`
}

func (p Practitioner) NaturalKey() string {
	return p.Key
}

func (p Practitioner) FullName() string {
	return p.LastName + " " + p.FirstName
}
