package engagement

// Tier is an achievement level derived from completion percentage.
type Tier string

const (
	TierGettingStarted Tier = "getting_started"
	TierBeginner       Tier = "beginner"
	TierIntermediate   Tier = "intermediate"
	TierExpert         Tier = "expert"
	TierMaster         Tier = "master"
)

// tierThresholds lists tiers highest first with the minimum completion
// percentage each requires.
var tierThresholds = []struct {
	tier    Tier
	percent int
}{
	{TierMaster, 100},
	{TierExpert, 75},
	{TierIntermediate, 50},
	{TierBeginner, 25},
	{TierGettingStarted, 0},
}

// AllTiers returns all tiers in ascending order.
func AllTiers() []Tier {
	return []Tier{TierGettingStarted, TierBeginner, TierIntermediate, TierExpert, TierMaster}
}

// TierFor returns the tier for completed out of total lessons. Boundaries
// are inclusive: exactly 75% is Expert.
func TierFor(completed, total int) Tier {
	if total <= 0 {
		return TierGettingStarted
	}
	for _, th := range tierThresholds {
		if 100*completed >= th.percent*total {
			return th.tier
		}
	}
	return TierGettingStarted
}

// Threshold returns the minimum completion percentage for t.
func (t Tier) Threshold() int {
	for _, th := range tierThresholds {
		if th.tier == t {
			return th.percent
		}
	}
	return 0
}

// DisplayName returns a human-readable label for the tier.
func (t Tier) DisplayName() string {
	switch t {
	case TierGettingStarted:
		return "Getting Started"
	case TierBeginner:
		return "Beginner"
	case TierIntermediate:
		return "Intermediate"
	case TierExpert:
		return "Expert"
	case TierMaster:
		return "Master"
	default:
		return string(t)
	}
}

// Icon returns the display icon for the tier.
func (t Tier) Icon() string {
	switch t {
	case TierMaster:
		return "🏅"
	case TierExpert:
		return "🏆"
	case TierIntermediate:
		return "🎯"
	case TierBeginner:
		return "🌱"
	default:
		return "⏳"
	}
}
