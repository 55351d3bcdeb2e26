package progression

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
)

// memLedger is a mutex-guarded in-memory Ledger with the same conditional
// semantics as the Postgres implementation: increments are atomic and a
// deduction below zero fails without touching the balance.
type memLedger struct {
	mu       sync.Mutex
	balances map[string]int64
	failNext error
}

func newMemLedger() *memLedger {
	return &memLedger{balances: make(map[string]int64)}
}

func (l *memLedger) Balance(_ context.Context, userID string) (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.failNext != nil {
		return 0, l.failNext
	}
	return l.balances[userID], nil
}

func (l *memLedger) Increment(_ context.Context, userID string, amount int64) (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.failNext != nil {
		return 0, l.failNext
	}
	next := l.balances[userID] + amount
	if next < 0 {
		return 0, ErrInsufficientFunds
	}
	l.balances[userID] = next
	return next, nil
}

type memProfiles struct {
	mu    sync.Mutex
	roles map[string]Role
	sets  int
}

func newMemProfiles() *memProfiles {
	return &memProfiles{roles: make(map[string]Role)}
}

func (p *memProfiles) Role(_ context.Context, userID string) (Role, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if role, ok := p.roles[userID]; ok {
		return role, nil
	}
	return RoleNewUser, nil
}

func (p *memProfiles) SetRole(_ context.Context, userID string, role Role) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.roles[userID] = role
	p.sets++
	return nil
}

type recordingSink struct {
	mu     sync.Mutex
	events []RoleChanged
}

func (s *recordingSink) RoleChanged(event RoleChanged) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
}

func (s *recordingSink) all() []RoleChanged {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]RoleChanged(nil), s.events...)
}

func newTestEngine(t *testing.T) (*Engine, *memLedger, *memProfiles, *recordingSink) {
	t.Helper()
	ledger := newMemLedger()
	profiles := newMemProfiles()
	sink := &recordingSink{}
	engine, err := NewEngine(NewDefaultConfig(), ledger, profiles, sink)
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	return engine, ledger, profiles, sink
}

func TestEngine_AwardForAction_FreshUser(t *testing.T) {
	engine, _, profiles, sink := newTestEngine(t)
	ctx := context.Background()

	// A user the stores have never seen is a NewUser with balance 0; three
	// posts in a non-unique category earn 1 coin each and no promotion.
	for i, want := range []int64{1, 2, 3} {
		got, err := engine.AwardForAction(ctx, "u1", false)
		if err != nil {
			t.Fatalf("award %d: %v", i, err)
		}
		if got != want {
			t.Errorf("award %d: balance = %d, want %d", i, got, want)
		}
	}

	role, _ := profiles.Role(ctx, "u1")
	if role != RoleNewUser {
		t.Errorf("role = %s, want %s", role, RoleNewUser)
	}
	if events := sink.all(); len(events) != 0 {
		t.Errorf("got %d events, want 0", len(events))
	}
}

func TestEngine_AwardForAction_UniqueCategoryRates(t *testing.T) {
	engine, ledger, profiles, _ := newTestEngine(t)
	ctx := context.Background()

	profiles.roles["u1"] = RoleUser
	ledger.balances["u1"] = 205

	balance, err := engine.AwardForAction(ctx, "u1", true)
	if err != nil {
		t.Fatalf("AwardForAction() error = %v", err)
	}
	if balance != 225 {
		t.Errorf("balance = %d, want 225", balance)
	}
}

func TestEngine_EvaluateTransition_Promotes(t *testing.T) {
	engine, _, profiles, sink := newTestEngine(t)
	ctx := context.Background()

	role, promoted, err := engine.EvaluateTransition(ctx, "u1", 205)
	if err != nil {
		t.Fatalf("EvaluateTransition() error = %v", err)
	}
	if !promoted || role != RoleUser {
		t.Fatalf("EvaluateTransition() = (%s, %v), want (%s, true)", role, promoted, RoleUser)
	}

	events := sink.all()
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	ev := events[0]
	if ev.UserID != "u1" || ev.FromRole != RoleNewUser || ev.ToRole != RoleUser || ev.Balance != 205 {
		t.Errorf("unexpected event %+v", ev)
	}
	if ev.Timestamp == 0 {
		t.Error("event timestamp not set")
	}

	if got, _ := profiles.Role(ctx, "u1"); got != RoleUser {
		t.Errorf("stored role = %s, want %s", got, RoleUser)
	}
}

func TestEngine_EvaluateTransition_NoOpBelowNextThreshold(t *testing.T) {
	engine, _, profiles, sink := newTestEngine(t)
	ctx := context.Background()

	profiles.roles["u1"] = RoleUser
	profiles.sets = 0

	role, promoted, err := engine.EvaluateTransition(ctx, "u1", 225)
	if err != nil {
		t.Fatalf("EvaluateTransition() error = %v", err)
	}
	if promoted || role != "" {
		t.Errorf("EvaluateTransition() = (%q, %v), want no-op", role, promoted)
	}
	if profiles.sets != 0 {
		t.Errorf("profile writes = %d, want 0", profiles.sets)
	}
	if events := sink.all(); len(events) != 0 {
		t.Errorf("got %d events, want 0", len(events))
	}
}

func TestEngine_EvaluateTransition_NeverDemotes(t *testing.T) {
	engine, _, profiles, sink := newTestEngine(t)
	ctx := context.Background()

	profiles.roles["u1"] = RoleTeacher
	profiles.sets = 0

	// Balance well below the Teacher threshold must not pull the role down.
	_, promoted, err := engine.EvaluateTransition(ctx, "u1", 42)
	if err != nil {
		t.Fatalf("EvaluateTransition() error = %v", err)
	}
	if promoted {
		t.Error("expected no promotion")
	}
	if profiles.sets != 0 {
		t.Errorf("profile writes = %d, want 0", profiles.sets)
	}
	if events := sink.all(); len(events) != 0 {
		t.Errorf("got %d events, want 0", len(events))
	}
}

func TestEngine_EvaluateTransition_MonotonicUnderRacingSnapshots(t *testing.T) {
	engine, _, profiles, _ := newTestEngine(t)
	ctx := context.Background()

	// A stale low-balance snapshot arriving after a high one must not win.
	if _, _, err := engine.EvaluateTransition(ctx, "u1", 1805); err != nil {
		t.Fatal(err)
	}
	if _, _, err := engine.EvaluateTransition(ctx, "u1", 250); err != nil {
		t.Fatal(err)
	}

	if got, _ := profiles.Role(ctx, "u1"); got != RoleAdministrator {
		t.Errorf("role = %s, want %s", got, RoleAdministrator)
	}
}

func TestEngine_EvaluateTransition_UnknownStoredRoleKeptOnTop(t *testing.T) {
	engine, _, profiles, _ := newTestEngine(t)
	ctx := context.Background()

	// Unrecognized stored roles rank as the top tier; a threshold promotion
	// must never overwrite them.
	profiles.roles["u1"] = Role("superuser")
	profiles.sets = 0

	if _, _, err := engine.EvaluateTransition(ctx, "u1", 1800); err != nil {
		t.Fatal(err)
	}
	if profiles.sets != 0 {
		t.Errorf("profile writes = %d, want 0", profiles.sets)
	}
}

func TestEngine_AwardForAction_ConcurrentNoLostUpdates(t *testing.T) {
	engine, ledger, profiles, _ := newTestEngine(t)
	ctx := context.Background()

	profiles.roles["u1"] = RoleUser
	ledger.balances["u1"] = 300

	const workers = 50
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			if _, err := engine.AwardForAction(ctx, "u1", false); err != nil {
				t.Error(err)
			}
		}()
	}
	wg.Wait()

	balance, _ := ledger.Balance(ctx, "u1")
	if want := int64(300 + workers*10); balance != want {
		t.Errorf("balance = %d, want %d", balance, want)
	}
}

func TestEngine_ActivateCard(t *testing.T) {
	engine, ledger, profiles, sink := newTestEngine(t)
	ctx := context.Background()

	ledger.balances["u1"] = 1799

	// One coin short of the Administrator card: no deduction, no role change.
	_, err := engine.ActivateCard(ctx, "u1", "Administrator")
	if !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("ActivateCard() error = %v, want ErrInsufficientFunds", err)
	}
	if balance, _ := ledger.Balance(ctx, "u1"); balance != 1799 {
		t.Errorf("balance = %d, want 1799", balance)
	}
	if role, _ := profiles.Role(ctx, "u1"); role != RoleNewUser {
		t.Errorf("role = %s, want %s", role, RoleNewUser)
	}
	if events := sink.all(); len(events) != 0 {
		t.Errorf("got %d events, want 0", len(events))
	}

	// With exact funds the card activates, deducts, and force-sets the role.
	ledger.balances["u1"] = 1800
	balance, err := engine.ActivateCard(ctx, "u1", "Administrator")
	if err != nil {
		t.Fatalf("ActivateCard() error = %v", err)
	}
	if balance != 0 {
		t.Errorf("balance = %d, want 0", balance)
	}
	if role, _ := profiles.Role(ctx, "u1"); role != RoleAdministrator {
		t.Errorf("role = %s, want %s", role, RoleAdministrator)
	}
	events := sink.all()
	if len(events) != 1 || events[0].ToRole != RoleAdministrator {
		t.Errorf("unexpected events %+v", events)
	}
}

func TestEngine_ActivateCard_UnknownName(t *testing.T) {
	engine, ledger, _, _ := newTestEngine(t)
	ctx := context.Background()

	ledger.balances["u1"] = 5000
	if _, err := engine.ActivateCard(ctx, "u1", "Hokage"); !errors.Is(err, ErrUnknownCard) {
		t.Fatalf("ActivateCard() error = %v, want ErrUnknownCard", err)
	}
	if balance, _ := ledger.Balance(ctx, "u1"); balance != 5000 {
		t.Errorf("balance = %d, want 5000", balance)
	}
}

func TestEngine_AwardForAction_StoreErrorPropagates(t *testing.T) {
	engine, ledger, _, _ := newTestEngine(t)
	ctx := context.Background()

	storeDown := fmt.Errorf("connection refused")
	ledger.failNext = storeDown

	if _, err := engine.AwardForAction(ctx, "u1", false); !errors.Is(err, storeDown) {
		t.Fatalf("AwardForAction() error = %v, want wrapped %v", err, storeDown)
	}
}

func TestEngine_Report(t *testing.T) {
	engine, ledger, profiles, _ := newTestEngine(t)
	ctx := context.Background()

	ledger.balances["u1"] = 450
	profiles.roles["u1"] = RoleUser

	report, err := engine.Report(ctx, "u1")
	if err != nil {
		t.Fatalf("Report() error = %v", err)
	}
	if report.Balance != 450 || report.Role != RoleUser {
		t.Errorf("report = %+v", report)
	}
	if report.Current.Role != RoleUser {
		t.Errorf("current milestone = %s, want %s", report.Current.Role, RoleUser)
	}
	if report.Next == nil || report.Next.Role != RoleModerator {
		t.Errorf("next milestone = %+v, want %s", report.Next, RoleModerator)
	}
	if report.Progress != 37.5 {
		t.Errorf("progress = %v, want 37.5", report.Progress)
	}
}

// Worked end-to-end scenario: three NewUser posts, a simulated catch-up to
// 205 coins, then one unique-category post as User.
func TestEngine_ProgressionScenario(t *testing.T) {
	engine, ledger, profiles, sink := newTestEngine(t)
	ctx := context.Background()

	for want := int64(1); want <= 3; want++ {
		balance, err := engine.AwardForAction(ctx, "u1", false)
		if err != nil {
			t.Fatal(err)
		}
		if balance != want {
			t.Fatalf("balance = %d, want %d", balance, want)
		}
	}

	ledger.balances["u1"] = 205
	role, promoted, err := engine.EvaluateTransition(ctx, "u1", 205)
	if err != nil {
		t.Fatal(err)
	}
	if !promoted || role != RoleUser {
		t.Fatalf("EvaluateTransition() = (%s, %v), want (User, true)", role, promoted)
	}

	balance, err := engine.AwardForAction(ctx, "u1", true)
	if err != nil {
		t.Fatal(err)
	}
	if balance != 225 {
		t.Errorf("balance = %d, want 225", balance)
	}

	if got, _ := profiles.Role(ctx, "u1"); got != RoleUser {
		t.Errorf("role = %s, want %s", got, RoleUser)
	}

	events := sink.all()
	if len(events) != 1 {
		t.Fatalf("got %d events, want exactly 1", len(events))
	}
	if events[0].FromRole != RoleNewUser || events[0].ToRole != RoleUser || events[0].Balance != 205 {
		t.Errorf("unexpected event %+v", events[0])
	}
}
