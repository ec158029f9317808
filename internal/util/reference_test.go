package util

import (
	"strings"
	"testing"
)

func TestGenerateReference(t *testing.T) {
	tests := []struct {
		serviceType string
		wantPrefix  string
	}{
		{"ambulance", "AMB"},
		{"manpower", "MAN"},
		{"vendor", "VEN"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.serviceType, func(t *testing.T) {
			ref := GenerateReference(tt.serviceType)

			if len(ref) != referenceLength {
				t.Errorf("expected length %d, got %q", referenceLength, ref)
			}
			if !strings.HasPrefix(ref, tt.wantPrefix) {
				t.Errorf("expected prefix %q, got %q", tt.wantPrefix, ref)
			}
			for _, c := range ref[len(tt.wantPrefix):] {
				if !strings.ContainsRune(charset, c) {
					t.Errorf("unexpected character %q in %q", c, ref)
				}
			}
		})
	}
}
