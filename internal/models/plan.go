package models

type Plan string

const (
	PlanFree       Plan = "free"
	PlanPro        Plan = "pro"
	PlanEnterprise Plan = "enterprise"
)

var planRank = map[Plan]int{
	PlanFree:       0,
	PlanPro:        1,
	PlanEnterprise: 2,
}

func (p Plan) IsValid() bool {
	_, ok := planRank[p]
	return ok
}

// IsAtLeast compares plans over free < pro < enterprise.
// Unknown plans rank as free.
func IsAtLeast(plan, threshold Plan) bool {
	return planRank[plan] >= planRank[threshold]
}
