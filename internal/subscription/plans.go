package subscription

import "gymconnect/internal/apperr"

var plans = []Plan{
	{
		Type:        TypeSingleGymLite,
		Name:        "Single Gym Lite",
		Description: "One gym, one month",
		Months:      1,
	},
	{
		Type:        TypeMultiGymFlex,
		Name:        "Multi Gym Flex",
		Description: "Partner gyms, three months",
		Months:      3,
	},
	{
		Type:        TypeUnlimitedPro,
		Name:        "Unlimited Pro",
		Description: "Unlimited access for a year",
		Months:      12,
	},
}

func Plans() []Plan {
	out := make([]Plan, len(plans))
	copy(out, plans)
	return out
}

func findPlan(t string) (Plan, error) {
	for _, p := range plans {
		if string(p.Type) == t {
			return p, nil
		}
	}
	return Plan{}, apperr.New(apperr.CodeInvalidRequest, "unknown subscription type "+t)
}
