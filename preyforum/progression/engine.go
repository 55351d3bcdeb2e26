package progression

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Engine computes awards and role transitions on top of an injected Ledger
// and ProfileStore. It holds no state of its own; atomicity of balance
// updates is the ledger's contract.
type Engine struct {
	config     *Config
	calculator *Calculator
	ledger     Ledger
	profiles   ProfileStore
	events     EventSink
}

func NewEngine(config *Config, ledger Ledger, profiles ProfileStore, events EventSink) (*Engine, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Engine{
		config:     config,
		calculator: NewCalculator(config),
		ledger:     ledger,
		profiles:   profiles,
		events:     events,
	}, nil
}

func (e *Engine) Calculator() *Calculator {
	return e.calculator
}

// AwardForAction credits the user for one reward-triggering action and
// evaluates the resulting role transition. A user the stores have never seen
// is a fresh NewUser with balance 0, not an error.
func (e *Engine) AwardForAction(ctx context.Context, userID string, uniqueCategory bool) (int64, error) {
	role, err := e.profiles.Role(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to read role for %s: %w", userID, err)
	}

	amount := e.calculator.ComputeReward(role, uniqueCategory)
	balance, err := e.ledger.Increment(ctx, userID, amount)
	if err != nil {
		return 0, fmt.Errorf("failed to credit %d to %s: %w", amount, userID, err)
	}

	if _, _, err := e.EvaluateTransition(ctx, userID, balance); err != nil {
		return 0, err
	}

	slog.Debug("Awarded coins for action",
		slog.String("type", "progression"),
		slog.String("user_id", userID),
		slog.Int64("amount", amount),
		slog.Int64("balance", balance),
		slog.Bool("unique_category", uniqueCategory))

	return balance, nil
}

// EvaluateTransition promotes the user to the highest tier their balance
// qualifies for. It only ever writes a role that outranks the stored one, so
// racing evaluations converge on the highest observed balance and a balance
// drop never demotes. Returns the new role and true when a promotion was
// written, and a zero role with false when nothing changed.
func (e *Engine) EvaluateTransition(ctx context.Context, userID string, balance int64) (Role, bool, error) {
	target := e.calculator.MilestoneFor(balance).Role

	current, err := e.profiles.Role(ctx, userID)
	if err != nil {
		return "", false, fmt.Errorf("failed to read role for %s: %w", userID, err)
	}
	if target.Rank() <= current.Rank() {
		return "", false, nil
	}

	if err := e.profiles.SetRole(ctx, userID, target); err != nil {
		return "", false, fmt.Errorf("failed to set role %s for %s: %w", target, userID, err)
	}

	e.emit(RoleChanged{
		UserID:    userID,
		FromRole:  current,
		ToRole:    target,
		Balance:   balance,
		Timestamp: time.Now().UnixMilli(),
	})

	slog.Info("Role promoted",
		slog.String("type", "progression"),
		slog.String("user_id", userID),
		slog.String("from", string(current)),
		slog.String("to", string(target)),
		slog.Int64("balance", balance))

	return target, true, nil
}

// ActivateCard spends the card's cost to force-set the user's role to the
// card name, bypassing milestone evaluation. The deduction is conditional at
// the ledger: it fails with ErrInsufficientFunds rather than clamping, and in
// that case neither balance nor role change.
func (e *Engine) ActivateCard(ctx context.Context, userID string, cardName string) (int64, error) {
	card, ok := e.calculator.CardByName(cardName)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownCard, cardName)
	}

	current, err := e.profiles.Role(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to read role for %s: %w", userID, err)
	}

	balance, err := e.ledger.Increment(ctx, userID, -card.Cost)
	if err != nil {
		return 0, fmt.Errorf("failed to deduct %d from %s: %w", card.Cost, userID, err)
	}

	if err := e.profiles.SetRole(ctx, userID, card.Name); err != nil {
		return 0, fmt.Errorf("failed to set role %s for %s: %w", card.Name, userID, err)
	}

	e.emit(RoleChanged{
		UserID:    userID,
		FromRole:  current,
		ToRole:    card.Name,
		Balance:   balance,
		Timestamp: time.Now().UnixMilli(),
	})

	slog.Info("Card activated",
		slog.String("type", "progression"),
		slog.String("user_id", userID),
		slog.String("card", cardName),
		slog.Int64("cost", card.Cost),
		slog.Int64("balance", balance))

	return balance, nil
}

// ProgressFraction returns the user's position on the progress bar scale.
func (e *Engine) ProgressFraction(ctx context.Context, userID string) (float64, error) {
	balance, err := e.ledger.Balance(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to read balance for %s: %w", userID, err)
	}
	return e.calculator.Progress(balance), nil
}

// Report builds the progress snapshot shown on the profile page.
func (e *Engine) Report(ctx context.Context, userID string) (*ProgressReport, error) {
	balance, err := e.ledger.Balance(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to read balance for %s: %w", userID, err)
	}
	role, err := e.profiles.Role(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to read role for %s: %w", userID, err)
	}

	current := e.calculator.MilestoneFor(balance)
	report := &ProgressReport{
		UserID:   userID,
		Balance:  balance,
		Role:     role,
		Progress: e.calculator.Progress(balance),
		Current:  current,
	}
	if next, ok := e.calculator.NextMilestone(current); ok {
		report.Next = &next
	}
	return report, nil
}

func (e *Engine) emit(event RoleChanged) {
	if e.events == nil {
		return
	}
	e.events.RoleChanged(event)
}
