package records

import "testing"

func TestNormalizeInsulinType(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"fast_acting", "fast_acting"},
		{"Lantus Solostar", "lantus_solostar"},
		{"HUMALOG", "humalog"},
		{"  NovoRapid  ", "novorapid"},
		{"", DefaultInsulinType},
		{"regular_insulin", "regular_insulin"},
		{"Mixed_Case Stays", "Mixed_Case Stays"},
	}

	for _, tt := range tests {
		if got := NormalizeInsulinType(tt.in); got != tt.want {
			t.Errorf("NormalizeInsulinType(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestClampLevel(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{0, 0},
		{2, 2},
		{-2, -2},
		{5, MaxActivityLevel},
		{-9, MinActivityLevel},
	}

	for _, tt := range tests {
		if got := ClampLevel(tt.in); got != tt.want {
			t.Errorf("ClampLevel(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestImportTypeValid(t *testing.T) {
	for _, typ := range []ImportType{ImportMeals, ImportBloodSugar, ImportActivities, ImportInsulin, ImportAll} {
		if !typ.Valid() {
			t.Errorf("%q should be valid", typ)
		}
	}
	if ImportType("exercise").Valid() {
		t.Error("unknown type should be invalid")
	}
}

func TestActivityEntryAccessor(t *testing.T) {
	entry := ActivityEntry{Level: 1, Type: ActivityExpected}
	a := Activity{ExpectedActivities: []ActivityEntry{entry}}

	got, ok := a.Entry()
	if !ok || got.Type != ActivityExpected {
		t.Errorf("Entry() = %+v, %v", got, ok)
	}

	if _, ok := (Activity{}).Entry(); ok {
		t.Error("empty activity has no entry")
	}
}
