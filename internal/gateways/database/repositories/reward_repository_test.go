package repositories

import (
	"errors"
	"testing"

	"github.com/ellavondegurechaff/healthquest/internal/domain/rewards"
)

func TestClaimOutcome(t *testing.T) {
	tests := []struct {
		name     string
		affected int64
		exists   bool
		want     error
	}{
		{name: "unit taken", affected: 1, exists: true, want: nil},
		{name: "unknown reward", affected: 0, exists: false, want: rewards.ErrRewardNotFound},
		{name: "at cap", affected: 0, exists: true, want: rewards.ErrRewardExhausted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := claimOutcome(tt.affected, tt.exists)
			if !errors.Is(got, tt.want) || (tt.want == nil && got != nil) {
				t.Errorf("claimOutcome(%d, %v) = %v, want %v", tt.affected, tt.exists, got, tt.want)
			}
		})
	}
}
