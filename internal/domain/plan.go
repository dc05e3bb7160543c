package domain

// PlanStatus is the lifecycle state shared by meal and workout plans.
//
// Transitions out of "active":
//   - completed:       every day in the plan range has a completed progress record
//   - account-updated: a newer plan of the same type superseded this one
//   - not-suitable:    the user rejected the plan with feedback
//   - account-deleted: the owning account was removed
//
// All non-active states are terminal.
type PlanStatus string

const (
	PlanActive         PlanStatus = "active"
	PlanCompleted      PlanStatus = "completed"
	PlanAccountUpdated PlanStatus = "account-updated"
	PlanAccountDeleted PlanStatus = "account-deleted"
	PlanNotSuitable    PlanStatus = "not-suitable"
)

// Terminal reports whether no further transitions are defined for s.
func (s PlanStatus) Terminal() bool { return s != PlanActive }

// PlanType distinguishes the two plan kinds wherever both are handled.
type PlanType string

const (
	PlanTypeMeal    PlanType = "meal"
	PlanTypeWorkout PlanType = "workout"
)

func (t PlanType) Valid() bool { return t == PlanTypeMeal || t == PlanTypeWorkout }
