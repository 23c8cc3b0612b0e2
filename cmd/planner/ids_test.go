package main

import "testing"

func TestResolveID(t *testing.T) {
	ids := []string{"4f1a2b3c-0000", "4f1a9999-0000", "7c00aaaa-0000"}
	self := func(s string) string { return s }

	tests := []struct {
		prefix  string
		want    string
		wantErr bool
	}{
		{"7c", "7c00aaaa-0000", false},
		{"4f1a2", "4f1a2b3c-0000", false},
		{"4f1a9999-0000", "4f1a9999-0000", false},
		{"4f1a", "", true},
		{"zz", "", true},
	}
	for _, tt := range tests {
		got, err := resolveID("note", tt.prefix, ids, self)
		if (err != nil) != tt.wantErr {
			t.Errorf("resolveID(%q) err = %v, wantErr %v", tt.prefix, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("resolveID(%q) = %q, want %q", tt.prefix, got, tt.want)
		}
	}
}
