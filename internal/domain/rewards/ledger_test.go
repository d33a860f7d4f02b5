package rewards

import (
	"context"
	"errors"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/ellavondegurechaff/healthquest/internal/domain/rewards/mock"
	"github.com/ellavondegurechaff/healthquest/internal/gateways/database/models"
	"go.uber.org/mock/gomock"
)

func newTestLedger(repo Repository, gating Gating) *Ledger {
	l := NewLedger(repo, Config{Gating: gating})
	l.now = func() time.Time { return mock.Now }
	return l
}

func rewardIDs(rs []Reward) []string {
	ids := make([]string, 0, len(rs))
	for _, r := range rs {
		ids = append(ids, r.ID)
	}
	return ids
}

func TestLedger_AvailableRewards(t *testing.T) {
	tests := []struct {
		name   string
		gating Gating
		level  int
		badges []string
		want   []string
	}{
		{name: "nothing at level 1", gating: GatingAny, level: 1, want: []string{}},
		{name: "level gate", gating: GatingAny, level: 3, want: []string{"coupon-10", "workshop"}},
		{name: "badges alone unlock under any", gating: GatingAny, level: 1, badges: []string{"knowledge-seeker"}, want: []string{"mentor-chat"}},
		{name: "all requires badges too", gating: GatingAll, level: 6, want: []string{"coupon-10", "workshop"}},
		{name: "all with badges", gating: GatingAll, level: 6, badges: []string{"knowledge-seeker"}, want: []string{"coupon-10", "workshop", "mentor-chat"}},
		{name: "all rejects badges without level", gating: GatingAll, level: 1, badges: []string{"knowledge-seeker"}, want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := mock.NewMockRepository(gomock.NewController(t))
			repo.EXPECT().GetAll(gomock.Any()).Return(mock.Rewards(), nil)

			got, err := newTestLedger(repo, tt.gating).AvailableRewards(context.Background(), tt.level, tt.badges)
			if err != nil {
				t.Fatalf("AvailableRewards() error = %v", err)
			}
			ids := rewardIDs(got)
			if len(ids) != len(tt.want) {
				t.Fatalf("AvailableRewards() = %v, want %v", ids, tt.want)
			}
			for i := range ids {
				if ids[i] != tt.want[i] {
					t.Errorf("AvailableRewards() = %v, want %v", ids, tt.want)
				}
			}
		})
	}
}

var codePattern = regexp.MustCompile(`^[0-9A-F]{10}$`)

func TestLedger_Claim(t *testing.T) {
	tests := []struct {
		name       string
		claimErrs  []error
		wantResult ClaimResult
		wantErr    bool
	}{
		{name: "success", claimErrs: []error{nil}, wantResult: ClaimResult{Success: true}},
		{name: "deleted between lookup and claim", claimErrs: []error{ErrRewardNotFound}, wantResult: ClaimResult{Reason: ReasonNotFound}},
		{name: "exhausted", claimErrs: []error{ErrRewardExhausted}, wantResult: ClaimResult{Reason: ReasonExhausted}},
		{name: "code collision retried", claimErrs: []error{ErrDuplicateCode, nil}, wantResult: ClaimResult{Success: true}},
		{name: "collisions exhaust retries", claimErrs: []error{ErrDuplicateCode, ErrDuplicateCode, ErrDuplicateCode}, wantErr: true},
		{name: "infrastructure failure", claimErrs: []error{errors.New("connection reset")}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := mock.NewMockRepository(gomock.NewController(t))
			repo.EXPECT().GetByID(gomock.Any(), "coupon-10").Return(rewardByID("coupon-10"), nil)
			var calls []any
			for _, err := range tt.claimErrs {
				calls = append(calls, repo.EXPECT().Claim(gomock.Any(), gomock.Any()).Return(err))
			}
			gomock.InOrder(calls...)

			got, err := newTestLedger(repo, GatingAny).Claim(context.Background(), "u1", "coupon-10", 2, nil)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Claim() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if got.Success != tt.wantResult.Success || got.Reason != tt.wantResult.Reason {
				t.Errorf("Claim() = %+v, want success=%v reason=%q", got, tt.wantResult.Success, tt.wantResult.Reason)
			}
			if got.Message == "" {
				t.Error("Claim() message should be human readable, got empty")
			}
			if !got.Success {
				return
			}
			if !codePattern.MatchString(got.Code) {
				t.Errorf("Claim() code = %q, want 10 upper-case hex chars", got.Code)
			}
			ur := got.UserReward
			if ur.Status != StatusClaimed || !ur.ClaimedAt.Equal(mock.Now) {
				t.Errorf("UserReward = %+v", ur)
			}
			if ur.ExpiresAt == nil || !ur.ExpiresAt.Equal(mock.Now.Add(7*24*time.Hour)) {
				t.Errorf("ExpiresAt = %v, want claimedAt + 7 days", ur.ExpiresAt)
			}
		})
	}
}

func rewardByID(id string) *models.Reward {
	for _, r := range mock.Rewards() {
		if r.ID == id {
			return r
		}
	}
	return nil
}

func TestLedger_ClaimChecksEligibility(t *testing.T) {
	tests := []struct {
		name       string
		gating     Gating
		rewardID   string
		level      int
		badges     []string
		wantClaim  bool
		wantReason Reason
	}{
		{name: "below level", gating: GatingAny, rewardID: "workshop", level: 2, wantReason: ReasonNotEligible},
		{name: "level and badge missing", gating: GatingAny, rewardID: "mentor-chat", level: 1, wantReason: ReasonNotEligible},
		{name: "badge alone under any", gating: GatingAny, rewardID: "mentor-chat", level: 1, badges: []string{"knowledge-seeker"}, wantClaim: true},
		{name: "badge alone under all", gating: GatingAll, rewardID: "mentor-chat", level: 1, badges: []string{"knowledge-seeker"}, wantReason: ReasonNotEligible},
		{name: "level alone under all", gating: GatingAll, rewardID: "mentor-chat", level: 6, wantReason: ReasonNotEligible},
		{name: "exact level", gating: GatingAll, rewardID: "workshop", level: 3, wantClaim: true},
		{name: "unknown reward", gating: GatingAny, rewardID: "missing", level: 10, wantReason: ReasonNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := mock.NewMockRepository(gomock.NewController(t))
			repo.EXPECT().GetByID(gomock.Any(), tt.rewardID).Return(rewardByID(tt.rewardID), nil)
			if tt.wantClaim {
				repo.EXPECT().Claim(gomock.Any(), gomock.Any()).Return(nil)
			}

			got, err := newTestLedger(repo, tt.gating).Claim(context.Background(), "u1", tt.rewardID, tt.level, tt.badges)
			if err != nil {
				t.Fatalf("Claim() error = %v", err)
			}
			if got.Success != tt.wantClaim || got.Reason != tt.wantReason {
				t.Errorf("Claim() = %+v, want success=%v reason=%q", got, tt.wantClaim, tt.wantReason)
			}
			if !got.Success && got.Message == "" {
				t.Error("Claim() message should be human readable, got empty")
			}
		})
	}
}

func TestLedger_Claim_LookupFailure(t *testing.T) {
	repo := mock.NewMockRepository(gomock.NewController(t))
	repo.EXPECT().GetByID(gomock.Any(), "coupon-10").Return(nil, errors.New("timeout"))

	if _, err := newTestLedger(repo, GatingAny).Claim(context.Background(), "u1", "coupon-10", 5, nil); err == nil {
		t.Error("Claim() error = nil, want lookup failure")
	}
}

// cappedStore mimics the repository's conditional increment without any
// locking of its own, so only the ledger's serialization keeps it correct.
type cappedStore struct {
	total   int
	claimed int
	codes   map[string]bool
}

func (c *cappedStore) claim(_ context.Context, ur *models.UserReward) error {
	current := c.claimed
	time.Sleep(time.Millisecond)
	if current >= c.total {
		return ErrRewardExhausted
	}
	c.claimed = current + 1
	c.codes[ur.Code] = true
	return nil
}

func TestLedger_ClaimNeverExceedsCap(t *testing.T) {
	tests := []struct {
		name     string
		total    int
		claimers int
	}{
		{name: "last unit raced by two users", total: 1, claimers: 2},
		{name: "three units, twenty users", total: 3, claimers: 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &cappedStore{total: tt.total, codes: map[string]bool{}}
			repo := mock.NewMockRepository(gomock.NewController(t))
			repo.EXPECT().GetByID(gomock.Any(), "limited").Return(&models.Reward{ID: "limited", RequiredLevel: 1, TotalAvailable: &tt.total}, nil).AnyTimes()
			repo.EXPECT().Claim(gomock.Any(), gomock.Any()).DoAndReturn(store.claim).AnyTimes()

			l := newTestLedger(repo, GatingAny)

			results := make([]*ClaimResult, tt.claimers)
			var wg sync.WaitGroup
			for i := 0; i < tt.claimers; i++ {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					res, err := l.Claim(context.Background(), "user", "limited", 1, nil)
					if err != nil {
						t.Errorf("Claim() error = %v", err)
						return
					}
					results[i] = res
				}(i)
			}
			wg.Wait()

			successes, exhausted := 0, 0
			for _, r := range results {
				switch {
				case r == nil:
				case r.Success:
					successes++
				case r.Reason == ReasonExhausted:
					exhausted++
				}
			}
			if successes != tt.total {
				t.Errorf("successes = %d, want %d", successes, tt.total)
			}
			if exhausted != tt.claimers-tt.total {
				t.Errorf("exhausted = %d, want %d", exhausted, tt.claimers-tt.total)
			}
			if len(store.codes) != tt.total {
				t.Errorf("issued %d distinct codes, want %d", len(store.codes), tt.total)
			}
		})
	}
}

func TestLedger_MarkUsed(t *testing.T) {
	byID := map[string]*models.UserReward{}
	for _, ur := range mock.UserRewards() {
		byID[ur.ID] = ur
	}

	tests := []struct {
		name        string
		id          string
		markUsed    *bool
		wantSuccess bool
		wantReason  Reason
	}{
		{name: "active claim", id: "ur-active", markUsed: boolPtr(true), wantSuccess: true},
		{name: "unknown id", id: "missing", wantReason: ReasonNotFound},
		{name: "past expiry", id: "ur-lapsed", wantReason: ReasonExpired},
		{name: "already used", id: "ur-used", wantReason: ReasonNotClaimed},
		{name: "swept", id: "ur-swept", wantReason: ReasonNotClaimed},
		{name: "lost race", id: "ur-active", markUsed: boolPtr(false), wantReason: ReasonNotClaimed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := mock.NewMockRepository(gomock.NewController(t))
			repo.EXPECT().GetUserReward(gomock.Any(), "u1", tt.id).Return(byID[tt.id], nil)
			if tt.markUsed != nil {
				repo.EXPECT().MarkUsed(gomock.Any(), "u1", tt.id, mock.Now).Return(*tt.markUsed, nil)
			}

			got := newTestLedger(repo, GatingAny).MarkUsed(context.Background(), "u1", tt.id)
			if got.Success != tt.wantSuccess || got.Reason != tt.wantReason {
				t.Errorf("MarkUsed() = %+v, want success=%v reason=%q", got, tt.wantSuccess, tt.wantReason)
			}
		})
	}
}

func TestLedger_MarkUsed_RepositoryFailure(t *testing.T) {
	repo := mock.NewMockRepository(gomock.NewController(t))
	repo.EXPECT().GetUserReward(gomock.Any(), "u1", "x").Return(nil, errors.New("timeout"))

	got := newTestLedger(repo, GatingAny).MarkUsed(context.Background(), "u1", "x")
	if got.Success || got.Reason != ReasonUnavailable {
		t.Errorf("MarkUsed() = %+v", got)
	}
}

func TestLedger_Stats(t *testing.T) {
	repo := mock.NewMockRepository(gomock.NewController(t))
	repo.EXPECT().GetUserRewards(gomock.Any(), "u1").Return(mock.UserRewards(), nil)

	got, err := newTestLedger(repo, GatingAny).Stats(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	want := Stats{TotalClaimed: 4, TotalActive: 1, TotalUsed: 1, TotalExpired: 2}
	if got != want {
		t.Errorf("Stats() = %+v, want %+v", got, want)
	}
}

func TestLedger_ExpireClaims(t *testing.T) {
	repo := mock.NewMockRepository(gomock.NewController(t))
	repo.EXPECT().ExpireClaims(gomock.Any(), mock.Now).Return(int64(3), nil)

	n, err := newTestLedger(repo, GatingAny).ExpireClaims(context.Background())
	if err != nil || n != 3 {
		t.Errorf("ExpireClaims() = %d, %v", n, err)
	}
}

func TestEffectiveStatus(t *testing.T) {
	expiry := mock.Now
	tests := []struct {
		name string
		ur   UserReward
		now  time.Time
		want Status
	}{
		{name: "before expiry", ur: UserReward{Status: StatusClaimed, ExpiresAt: &expiry}, now: expiry.Add(-time.Second), want: StatusClaimed},
		{name: "at expiry", ur: UserReward{Status: StatusClaimed, ExpiresAt: &expiry}, now: expiry, want: StatusClaimed},
		{name: "after expiry", ur: UserReward{Status: StatusClaimed, ExpiresAt: &expiry}, now: expiry.Add(time.Second), want: StatusExpired},
		{name: "no expiry", ur: UserReward{Status: StatusClaimed}, now: expiry.Add(1000 * time.Hour), want: StatusClaimed},
		{name: "used stays used", ur: UserReward{Status: StatusUsed, ExpiresAt: &expiry}, now: expiry.Add(time.Hour), want: StatusUsed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EffectiveStatus(tt.ur, tt.now); got != tt.want {
				t.Errorf("EffectiveStatus() = %q, want %q", got, tt.want)
			}
		})
	}
}

func boolPtr(v bool) *bool { return &v }
