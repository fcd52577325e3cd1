package core

// Phase is the project lifecycle stage a person is assigned to.
// Training and certificate rules differ between the two stages.
type Phase string

const (
	PhaseConstruction Phase = "construction"
	PhaseOperation    Phase = "operation"
)

func (p Phase) IsValid() bool {
	switch p {
	case PhaseConstruction, PhaseOperation:
		return true
	default:
		return false
	}
}

// WorkCategory is a person's declared trade (e.g. "electrician", "welder",
// "rigger"). The set of categories is open; the ruleset decides which ones
// are known.
type WorkCategory string

// PersonRecord is a single contractor as supplied by the input collaborator.
// Records are read-only for a check run; the engine never mutates them.
type PersonRecord struct {
	// ID is the unique person identifier (e.g. "BP-2024-0042").
	ID string `yaml:"id" json:"id"`

	// Name is the person's display name.
	Name string `yaml:"name" json:"name"`

	// IDNumber is the national identity number. Together with Name it forms
	// the fallback blacklist key for entries without a person ID.
	IDNumber string `yaml:"id_number,omitempty" json:"id_number,omitempty"`

	// Phase the person is currently assigned to.
	Phase Phase `yaml:"phase" json:"phase"`

	// Category is the declared work category.
	Category WorkCategory `yaml:"category" json:"category"`

	// Certificates held by this person.
	Certificates []Certificate `yaml:"certificates,omitempty" json:"certificates,omitempty"`
}

// Keys returns all identity keys under which this person may appear on the
// blacklist: the person ID and the name/id-number composite.
func (p PersonRecord) Keys() []string {
	keys := make([]string, 0, 2)
	if p.ID != "" {
		keys = append(keys, p.ID)
	}
	if p.Name != "" && p.IDNumber != "" {
		keys = append(keys, compositeKey(p.Name, p.IDNumber))
	}
	return keys
}

// Certificate is a credential held by exactly one person.
// Invariant: ExpiresAt >= IssuedAt. A nil ExpiresAt is malformed input and
// downgrades the owning record to DATA_INVALID.
type Certificate struct {
	// Number is the certificate serial as printed on the document.
	Number string `yaml:"number,omitempty" json:"number,omitempty"`

	// Type is the certificate type (e.g. "welding", "electrical").
	// Matched against the ruleset's per-category requirements.
	Type string `yaml:"type" json:"type"`

	IssuedAt  Date  `yaml:"issued_at" json:"issued_at"`
	ExpiresAt *Date `yaml:"expires_at" json:"expires_at"`

	// Authority is the issuing body, informational only.
	Authority string `yaml:"authority,omitempty" json:"authority,omitempty"`

	// PersonID is the owning person. Empty for certificates embedded
	// directly in a PersonRecord.
	PersonID string `yaml:"person_id,omitempty" json:"person_id,omitempty"`
}

// TrainingRecord is one completed training course for a person.
// Training records never expire; only phase applicability and the score
// threshold decide whether a record counts.
type TrainingRecord struct {
	PersonID    string `yaml:"person_id" json:"person_id"`
	Course      string `yaml:"course" json:"course"`
	CompletedAt Date   `yaml:"completed_at" json:"completed_at"`

	// Phase the course was taken for. A construction-phase course does not
	// satisfy an operation-phase requirement, and vice versa.
	Phase Phase `yaml:"phase" json:"phase"`

	// Score is the exam result, if the course is scored.
	Score *int `yaml:"score,omitempty" json:"score,omitempty"`
}

// BlacklistEntry is a banned identity. Entries are immutable once loaded for
// a check run; the index is rebuilt from scratch when the source changes.
type BlacklistEntry struct {
	// PersonID is the banned person's ID, if known.
	PersonID string `yaml:"person_id,omitempty" json:"person_id,omitempty"`

	// Name and IDNumber form the composite key for entries that predate
	// person IDs.
	Name     string `yaml:"name,omitempty" json:"name,omitempty"`
	IDNumber string `yaml:"id_number,omitempty" json:"id_number,omitempty"`

	// Reason documents why the person was banned.
	Reason string `yaml:"reason,omitempty" json:"reason,omitempty"`

	AddedAt Date `yaml:"added_at,omitempty" json:"added_at,omitempty"`
}

// Key returns the identity key this entry is indexed under.
// An empty key marks an unusable entry.
func (e BlacklistEntry) Key() string {
	if e.PersonID != "" {
		return e.PersonID
	}
	if e.Name != "" && e.IDNumber != "" {
		return compositeKey(e.Name, e.IDNumber)
	}
	return ""
}

func compositeKey(name, idNumber string) string {
	return name + "/" + idNumber
}
