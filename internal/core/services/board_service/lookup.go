package board_service

import "github.com/suchimauz/appointment-board/internal/core/domain"

// UnknownName подставляется, когда ключ не найден в справочнике
const UnknownName = "Unknown"

// Отображаемые имена по натуральному ключу
type Directory map[string]string

// NewDirectory строит справочник, при дублях ключа побеждает первая запись
func NewDirectory[T domain.Person](people []T) Directory {
	dir := make(Directory, len(people))
	for _, person := range people {
		key := person.NaturalKey()
		if _, exists := dir[key]; exists {
			continue
		}
		dir[key] = person.FullName()
	}
	return dir
}

func ResolveName(key string, dir Directory) string {
	if name, ok := dir[key]; ok {
		return name
	}
	return UnknownName
}

type Lookup struct {
	Patients      Directory
	Practitioners Directory
}

func NewLookup(patients []domain.Patient, practitioners []domain.Practitioner) Lookup {
	return Lookup{
		Patients:      NewDirectory(patients),
		Practitioners: NewDirectory(practitioners),
	}
}

func (l Lookup) PatientName(key string) string {
	return ResolveName(key, l.Patients)
}

func (l Lookup) PractitionerName(key string) string {
	return ResolveName(key, l.Practitioners)
}
