package progression

import (
	"math"
	"testing"
)

func TestCalculator_ComputeReward(t *testing.T) {
	calc := NewCalculator(NewDefaultConfig())

	tests := []struct {
		name           string
		role           Role
		uniqueCategory bool
		want           int64
	}{
		{name: "new user standard", role: RoleNewUser, uniqueCategory: false, want: 1},
		{name: "new user ignores unique flag", role: RoleNewUser, uniqueCategory: true, want: 1},
		{name: "user standard", role: RoleUser, uniqueCategory: false, want: 10},
		{name: "user unique", role: RoleUser, uniqueCategory: true, want: 20},
		{name: "moderator standard", role: RoleModerator, uniqueCategory: false, want: 20},
		{name: "moderator unique", role: RoleModerator, uniqueCategory: true, want: 30},
		{name: "teacher standard", role: RoleTeacher, uniqueCategory: false, want: 30},
		{name: "teacher unique", role: RoleTeacher, uniqueCategory: true, want: 40},
		{name: "administrator standard", role: RoleAdministrator, uniqueCategory: false, want: 30},
		{name: "administrator unique", role: RoleAdministrator, uniqueCategory: true, want: 40},
		{name: "unknown role falls back to top rate", role: Role("superuser"), uniqueCategory: false, want: 30},
		{name: "unknown role falls back to top unique rate", role: Role("superuser"), uniqueCategory: true, want: 40},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := calc.ComputeReward(tt.role, tt.uniqueCategory); got != tt.want {
				t.Errorf("ComputeReward(%q, %v) = %d, want %d", tt.role, tt.uniqueCategory, got, tt.want)
			}
		})
	}
}

func TestCalculator_MilestoneFor(t *testing.T) {
	calc := NewCalculator(NewDefaultConfig())

	tests := []struct {
		balance int64
		want    Role
	}{
		{balance: 0, want: RoleNewUser},
		{balance: 199, want: RoleNewUser},
		{balance: 200, want: RoleUser},
		{balance: 699, want: RoleUser},
		{balance: 700, want: RoleModerator},
		{balance: 999, want: RoleModerator},
		{balance: 1000, want: RoleTeacher},
		{balance: 1799, want: RoleTeacher},
		{balance: 1800, want: RoleAdministrator},
		{balance: 50000, want: RoleAdministrator},
	}

	for _, tt := range tests {
		if got := calc.MilestoneFor(tt.balance).Role; got != tt.want {
			t.Errorf("MilestoneFor(%d) = %s, want %s", tt.balance, got, tt.want)
		}
	}
}

func TestCalculator_Progress(t *testing.T) {
	calc := NewCalculator(NewDefaultConfig())

	// Exact thresholds land on the configured positions.
	exact := map[int64]float64{0: 0, 200: 25, 700: 50, 1000: 75, 1800: 100}
	for balance, want := range exact {
		if got := calc.Progress(balance); got != want {
			t.Errorf("Progress(%d) = %v, want %v", balance, got, want)
		}
	}

	// Balances strictly between thresholds interpolate strictly between the
	// neighbouring positions.
	between := []struct {
		balance int64
		lo, hi  float64
	}{
		{balance: 100, lo: 0, hi: 25},
		{balance: 450, lo: 25, hi: 50},
		{balance: 850, lo: 50, hi: 75},
		{balance: 1400, lo: 75, hi: 100},
	}
	for _, tt := range between {
		got := calc.Progress(tt.balance)
		if got <= tt.lo || got >= tt.hi {
			t.Errorf("Progress(%d) = %v, want strictly within (%v, %v)", tt.balance, got, tt.lo, tt.hi)
		}
	}

	// Midpoint of the first range is exactly halfway between the positions.
	if got, want := calc.Progress(100), 12.5; math.Abs(got-want) > 1e-9 {
		t.Errorf("Progress(100) = %v, want %v", got, want)
	}

	// Never escapes [0, 100], even far above the top threshold.
	if got := calc.Progress(10_000_000); got != 100 {
		t.Errorf("Progress(10000000) = %v, want 100", got)
	}
}

func TestCalculator_Progress_AlternatePositions(t *testing.T) {
	// The legacy deployment shipped a 0/25/42/65/100 table; the scale is
	// configuration, not law.
	cfg := NewDefaultConfig()
	cfg.Positions = map[Role]float64{
		RoleNewUser:       0,
		RoleUser:          25,
		RoleModerator:     42,
		RoleTeacher:       65,
		RoleAdministrator: 100,
	}
	calc := NewCalculator(cfg)

	if got := calc.Progress(700); got != 42 {
		t.Errorf("Progress(700) = %v, want 42", got)
	}
	if got := calc.Progress(1000); got != 65 {
		t.Errorf("Progress(1000) = %v, want 65", got)
	}
}

func TestCalculator_CardByName(t *testing.T) {
	calc := NewCalculator(NewDefaultConfig())

	card, ok := calc.CardByName("Administrator")
	if !ok {
		t.Fatal("CardByName(Administrator) not found")
	}
	if card.Cost != 1800 {
		t.Errorf("Administrator card cost = %d, want 1800", card.Cost)
	}

	if _, ok := calc.CardByName("NewUser"); ok {
		t.Error("CardByName(NewUser) should not exist, the floor tier is free")
	}
	if _, ok := calc.CardByName("Shinigami"); ok {
		t.Error("CardByName(Shinigami) should not exist")
	}
}

func TestConfig_Validate(t *testing.T) {
	if err := NewDefaultConfig().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}

	cfg := NewDefaultConfig()
	cfg.Thresholds[RoleNewUser] = 5
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for non-zero floor threshold")
	}

	cfg = NewDefaultConfig()
	cfg.Thresholds[RoleTeacher] = 700
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for non-increasing thresholds")
	}
}
