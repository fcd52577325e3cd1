package source

import (
	"fmt"

	"github.com/darmiel/sitegate/internal/core"
)

// Dataset is one fully materialized set of input collections for a check
// run. The engine never does I/O; everything is loaded up front.
type Dataset struct {
	People    []core.PersonRecord
	Training  []core.TrainingRecord
	Blacklist []core.BlacklistEntry
}

// attachCertificates joins standalone certificates onto their owning person
// records. A certificate referencing an unknown person is an input error:
// the invariant is that every certificate belongs to exactly one person.
func attachCertificates(people []core.PersonRecord, certs []core.Certificate) ([]core.PersonRecord, error) {
	if len(certs) == 0 {
		return people, nil
	}

	index := make(map[string]int, len(people))
	for i, p := range people {
		index[p.ID] = i
	}

	for _, cert := range certs {
		i, ok := index[cert.PersonID]
		if !ok {
			return nil, fmt.Errorf("certificate '%s' references unknown person '%s'", cert.Number, cert.PersonID)
		}
		people[i].Certificates = append(people[i].Certificates, cert)
	}
	return people, nil
}

// FindPerson returns the person with the given ID.
func (d *Dataset) FindPerson(id string) (core.PersonRecord, bool) {
	for _, p := range d.People {
		if p.ID == id {
			return p, true
		}
	}
	return core.PersonRecord{}, false
}
