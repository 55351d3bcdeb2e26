package progression

type Calculator struct {
	config     *Config
	milestones []Milestone
}

func NewCalculator(config *Config) *Calculator {
	return &Calculator{
		config:     config,
		milestones: config.Milestones(),
	}
}

// ComputeReward returns the coin award for one action by a user with the
// given role. NewUser ignores the unique-category flag entirely; unrecognized
// roles earn at the fallback (top tier) rate.
func (c *Calculator) ComputeReward(role Role, uniqueCategory bool) int64 {
	if role == RoleNewUser {
		return c.config.Rewards[RoleNewUser].Standard
	}

	rate, ok := c.config.Rewards[role]
	if !ok {
		rate = c.config.FallbackReward
	}
	if uniqueCategory {
		return rate.Unique
	}
	return rate.Standard
}

// MilestoneFor returns the highest milestone whose threshold the balance
// meets. Balances below every threshold resolve to the floor tier.
func (c *Calculator) MilestoneFor(balance int64) Milestone {
	current := c.milestones[0]
	for _, m := range c.milestones {
		if balance < m.Threshold {
			break
		}
		current = m
	}
	return current
}

// NextMilestone returns the milestone following m in tier order, or false if
// m is the top tier.
func (c *Calculator) NextMilestone(m Milestone) (Milestone, bool) {
	for i, candidate := range c.milestones {
		if candidate.Role == m.Role && i+1 < len(c.milestones) {
			return c.milestones[i+1], true
		}
	}
	return Milestone{}, false
}

// Progress maps a balance onto the configured position scale by linear
// interpolation between the surrounding milestones, clamped to [0, 100].
func (c *Calculator) Progress(balance int64) float64 {
	current := c.MilestoneFor(balance)
	next, ok := c.NextMilestone(current)
	if !ok {
		return clampPercent(current.Position)
	}

	span := float64(next.Threshold - current.Threshold)
	within := float64(balance - current.Threshold)
	position := current.Position + within/span*(next.Position-current.Position)
	return clampPercent(position)
}

// CardByName resolves a purchasable card by its role name.
// Cards lists the purchasable role cards in ascending cost order.
func (c *Calculator) Cards() []Card {
	return c.config.Cards()
}

func (c *Calculator) CardByName(name string) (Card, bool) {
	for _, card := range c.config.Cards() {
		if string(card.Name) == name {
			return card, true
		}
	}
	return Card{}, false
}

func clampPercent(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
