// AngelaMos | 2026
// database_test.go

package core

import (
	"testing"
	"time"
)

func TestJitteredDuration(t *testing.T) {
	tests := []struct {
		name string
		base time.Duration
	}{
		{"unlimited", 0},
		{"negative", -time.Second},
		{"one nanosecond", time.Nanosecond},
		{"below spread", 6 * time.Nanosecond},
		{"smallest spread", 7 * time.Nanosecond},
		{"one hour", time.Hour},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for range 50 {
				got := jitteredDuration(tt.base)
				if tt.base/7 <= 0 {
					if got != tt.base {
						t.Fatalf("jitteredDuration(%v) = %v, want unchanged", tt.base, got)
					}
					continue
				}
				if got < tt.base || got >= tt.base+tt.base/7 {
					t.Fatalf("jitteredDuration(%v) = %v, want in [%v, %v)",
						tt.base, got, tt.base, tt.base+tt.base/7)
				}
			}
		})
	}
}
