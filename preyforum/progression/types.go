package progression

import (
	"context"
	"errors"
)

// Role is a named progression tier. Stored role values that do not match any
// known tier are treated as the top tier when computing rewards and ranks.
type Role string

const (
	RoleNewUser       Role = "NewUser"
	RoleUser          Role = "User"
	RoleModerator     Role = "Moderator"
	RoleTeacher       Role = "Teacher"
	RoleAdministrator Role = "Administrator"
)

var roleOrder = []Role{
	RoleNewUser,
	RoleUser,
	RoleModerator,
	RoleTeacher,
	RoleAdministrator,
}

// Rank returns the tier index in promotion order. Unknown roles rank as the
// top tier so they are never overwritten by a threshold promotion.
func (r Role) Rank() int {
	for i, role := range roleOrder {
		if r == role {
			return i
		}
	}
	return len(roleOrder) - 1
}

func (r Role) Known() bool {
	for _, role := range roleOrder {
		if r == role {
			return true
		}
	}
	return false
}

// Milestone gates a role behind a minimum balance. Position is the progress
// bar anchor for the tier, in percent.
type Milestone struct {
	Role      Role
	Threshold int64
	Position  float64
}

// Card is a purchasable role unlock. Activating it deducts Cost from the
// user's balance and force-sets their role.
type Card struct {
	Name Role
	Cost int64
}

// RoleChanged is emitted once per successful role transition.
type RoleChanged struct {
	UserID    string `json:"user_id"`
	FromRole  Role   `json:"from_role"`
	ToRole    Role   `json:"to_role"`
	Balance   int64  `json:"balance"`
	Timestamp int64  `json:"timestamp"`
}

// ProgressReport is a read-only snapshot used by the profile progress bar.
type ProgressReport struct {
	UserID   string     `json:"user_id"`
	Balance  int64      `json:"balance"`
	Role     Role       `json:"role"`
	Progress float64    `json:"progress"`
	Current  Milestone  `json:"current"`
	Next     *Milestone `json:"next,omitempty"`
}

// Ledger holds per-user balances. A missing user reads as balance 0.
// Increment must apply atomically against the stored value; a negative amount
// that would take the balance below zero must fail with ErrInsufficientFunds
// and leave the balance untouched.
type Ledger interface {
	Balance(ctx context.Context, userID string) (int64, error)
	Increment(ctx context.Context, userID string, amount int64) (int64, error)
}

// ProfileStore holds per-user roles. A missing user reads as RoleNewUser.
type ProfileStore interface {
	Role(ctx context.Context, userID string) (Role, error)
	SetRole(ctx context.Context, userID string, role Role) error
}

// EventSink receives RoleChanged events. Implementations must not block; the
// engine publishes inline and does not wait for delivery.
type EventSink interface {
	RoleChanged(event RoleChanged)
}

var (
	ErrInsufficientFunds = errors.New("progression: insufficient funds")
	ErrUnknownCard       = errors.New("progression: unknown card")
)
