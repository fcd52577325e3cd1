package blacklist

import (
	"errors"
	"testing"

	"github.com/darmiel/sitegate/internal/core"
)

func TestBuild_DuplicatePolicies(t *testing.T) {
	entries := []core.BlacklistEntry{
		{PersonID: "P-1", Reason: "first"},
		{PersonID: "P-1", Reason: "second"},
	}

	t.Run("Warn Keeps Last Entry", func(t *testing.T) {
		idx, err := Build(entries, core.DuplicateWarn)
		if err != nil {
			t.Fatalf("Build() unexpected error: %v", err)
		}
		if idx.Len() != 1 {
			t.Errorf("Len() = %d, want 1", idx.Len())
		}
		entry, ok := idx.Lookup("P-1")
		if !ok || entry.Reason != "second" {
			t.Errorf("Lookup(P-1) = %+v, want the last entry", entry)
		}
	})

	t.Run("Reject Fails Fast", func(t *testing.T) {
		_, err := Build(entries, core.DuplicateReject)
		var dupErr DuplicateKeyError
		if !errors.As(err, &dupErr) {
			t.Fatalf("expected DuplicateKeyError, got %v", err)
		}
		if dupErr.Key != "P-1" {
			t.Errorf("Key = %s, want P-1", dupErr.Key)
		}
	})
}

func TestBuild_SkipsUnkeyedEntries(t *testing.T) {
	entries := []core.BlacklistEntry{
		{Reason: "no identity at all"},
		{Name: "only a name"},
		{PersonID: "P-2"},
	}
	idx, err := Build(entries, core.DuplicateWarn)
	if err != nil {
		t.Fatalf("Build() unexpected error: %v", err)
	}
	if idx.Len() != 1 {
		t.Errorf("Len() = %d, want 1", idx.Len())
	}
}

func TestIndex_Match(t *testing.T) {
	idx, err := Build([]core.BlacklistEntry{
		{PersonID: "P-1"},
		{Name: "Wei Chen", IDNumber: "E1234567"},
	}, core.DuplicateWarn)
	if err != nil {
		t.Fatalf("Build() unexpected error: %v", err)
	}

	tests := []struct {
		name   string
		person core.PersonRecord
		want   bool
	}{
		{"Match By Person ID", core.PersonRecord{ID: "P-1", Name: "Someone Else"}, true},
		{"Match By Composite Key", core.PersonRecord{ID: "P-9", Name: "Wei Chen", IDNumber: "E1234567"}, true},
		{"Name Alone Does Not Match", core.PersonRecord{ID: "P-9", Name: "Wei Chen"}, false},
		{"No Match", core.PersonRecord{ID: "P-9", Name: "Clean Person", IDNumber: "X0000000"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, got := idx.Match(tt.person); got != tt.want {
				t.Errorf("Match() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestManager_Rebuild(t *testing.T) {
	initial, err := Build([]core.BlacklistEntry{{PersonID: "P-1"}}, core.DuplicateWarn)
	if err != nil {
		t.Fatalf("Build() unexpected error: %v", err)
	}
	m := NewManager(initial)

	if !m.Index().Contains("P-1") {
		t.Fatal("initial index should contain P-1")
	}

	if err := m.Rebuild([]core.BlacklistEntry{{PersonID: "P-2"}}, core.DuplicateWarn); err != nil {
		t.Fatalf("Rebuild() unexpected error: %v", err)
	}
	if m.Index().Contains("P-1") || !m.Index().Contains("P-2") {
		t.Error("rebuild should fully replace the index")
	}

	// a failing rebuild must keep the previous index
	dup := []core.BlacklistEntry{{PersonID: "P-3"}, {PersonID: "P-3"}}
	if err := m.Rebuild(dup, core.DuplicateReject); err == nil {
		t.Fatal("expected rebuild to fail on duplicates")
	}
	if !m.Index().Contains("P-2") {
		t.Error("failed rebuild must not replace the index")
	}
}
