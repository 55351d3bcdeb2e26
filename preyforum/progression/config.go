package progression

import "fmt"

// RewardRate is the coin award for one action, split by whether the action
// happened in a unique (premium) category.
type RewardRate struct {
	Standard int64
	Unique   int64
}

type Config struct {
	// Rewards maps each known role to its award rates. Roles absent from the
	// map (and unrecognized stored roles) fall back to FallbackReward.
	Rewards        map[Role]RewardRate
	FallbackReward RewardRate

	// Thresholds is the minimum balance for each tier. NewUser must be 0 and
	// values must be strictly increasing in tier order.
	Thresholds map[Role]int64

	// Positions are the progress bar anchors per tier, in percent. Deployments
	// have shipped more than one table, so these stay configurable.
	Positions map[Role]float64
}

func NewDefaultConfig() *Config {
	return &Config{
		Rewards: map[Role]RewardRate{
			RoleNewUser:       {Standard: 1, Unique: 1},
			RoleUser:          {Standard: 10, Unique: 20},
			RoleModerator:     {Standard: 20, Unique: 30},
			RoleTeacher:       {Standard: 30, Unique: 40},
			RoleAdministrator: {Standard: 30, Unique: 40},
		},
		FallbackReward: RewardRate{Standard: 30, Unique: 40},
		Thresholds: map[Role]int64{
			RoleNewUser:       0,
			RoleUser:          200,
			RoleModerator:     700,
			RoleTeacher:       1000,
			RoleAdministrator: 1800,
		},
		Positions: map[Role]float64{
			RoleNewUser:       0,
			RoleUser:          25,
			RoleModerator:     50,
			RoleTeacher:       75,
			RoleAdministrator: 100,
		},
	}
}

func (c *Config) Validate() error {
	if c.Thresholds[RoleNewUser] != 0 {
		return fmt.Errorf("progression config: %s threshold must be 0, got %d", RoleNewUser, c.Thresholds[RoleNewUser])
	}
	for i := 1; i < len(roleOrder); i++ {
		prev, cur := roleOrder[i-1], roleOrder[i]
		if c.Thresholds[cur] <= c.Thresholds[prev] {
			return fmt.Errorf("progression config: %s threshold %d must exceed %s threshold %d",
				cur, c.Thresholds[cur], prev, c.Thresholds[prev])
		}
	}
	return nil
}

// Milestones returns the tier table in ascending threshold order.
func (c *Config) Milestones() []Milestone {
	milestones := make([]Milestone, 0, len(roleOrder))
	for _, role := range roleOrder {
		milestones = append(milestones, Milestone{
			Role:      role,
			Threshold: c.Thresholds[role],
			Position:  c.Positions[role],
		})
	}
	return milestones
}

// Cards returns the purchasable role unlocks. Each card is named after a role
// and costs that role's threshold; the free floor tier has no card.
func (c *Config) Cards() []Card {
	cards := make([]Card, 0, len(roleOrder)-1)
	for _, role := range roleOrder[1:] {
		cards = append(cards, Card{Name: role, Cost: c.Thresholds[role]})
	}
	return cards
}
