package cusip

import "testing"

func TestParseRecordType(t *testing.T) {
	tests := []struct {
		input   string
		want    RecordType
		wantErr bool
	}{
		{"issuer", Issuer, false},
		{"issue", Issue, false},
		{"issue_attr", IssueAttribute, false},
		{"issuer_attr", "", true},
		{"", "", true},
		{"ISSUER", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseRecordType(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseRecordType(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseRecordType(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSuffixRoundTrip(t *testing.T) {
	for _, rt := range LoadOrder {
		got, ok := FromSuffix(rt.Suffix())
		if !ok || got != rt {
			t.Errorf("FromSuffix(%c) = %q, %v; want %q", rt.Suffix(), got, ok, rt)
		}
	}

	if _, ok := FromSuffix('X'); ok {
		t.Error("FromSuffix('X') = ok, want not ok")
	}
}

func TestSpecShapes(t *testing.T) {
	tests := []struct {
		rt         RecordType
		fieldCount int
		pkLen      int
		staging    string
	}{
		{Issuer, 16, 1, "stg_issuer"},
		{Issue, 17, 2, "stg_issue"},
		{IssueAttribute, 53, 2, "stg_issue_attribute"},
	}

	for _, tt := range tests {
		t.Run(string(tt.rt), func(t *testing.T) {
			spec := Spec(tt.rt)
			if spec.FieldCount() != tt.fieldCount {
				t.Errorf("FieldCount() = %d, want %d", spec.FieldCount(), tt.fieldCount)
			}
			if len(spec.PrimaryKey) != tt.pkLen {
				t.Errorf("len(PrimaryKey) = %d, want %d", len(spec.PrimaryKey), tt.pkLen)
			}
			if spec.StagingTable != tt.staging {
				t.Errorf("StagingTable = %q, want %q", spec.StagingTable, tt.staging)
			}

			// Primary-key columns must appear in the column list.
			names := make(map[string]bool)
			for _, n := range spec.ColumnNames() {
				names[n] = true
			}
			for _, pk := range spec.PrimaryKey {
				if !names[pk] {
					t.Errorf("primary key column %q missing from column list", pk)
				}
			}
		})
	}
}

func TestLoadOrder(t *testing.T) {
	want := []RecordType{Issuer, Issue, IssueAttribute}
	if len(LoadOrder) != len(want) {
		t.Fatalf("len(LoadOrder) = %d, want %d", len(LoadOrder), len(want))
	}
	for i := range want {
		if LoadOrder[i] != want[i] {
			t.Errorf("LoadOrder[%d] = %q, want %q", i, LoadOrder[i], want[i])
		}
	}
}
