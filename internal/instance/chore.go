package instance

import (
	"strings"

	"github.com/dukerupert/kinobi/internal/model"
)

// ChoreInput is a new chore. Numeric fields that are missing or not positive
// fall back to the instance configuration.
type ChoreInput struct {
	Name          string
	Icon          string
	CycleDuration *float64
	Points        *int
}

// ChorePatch edits a subset of a chore's fields. Nil fields are untouched.
type ChorePatch struct {
	Name          *string
	Icon          *string
	CycleDuration *float64
	Points        *int
}

func AddChore(inst *model.Instance, in ChoreInput) (model.Chore, error) {
	name := strings.TrimSpace(in.Name)
	icon := strings.TrimSpace(in.Icon)
	if name == "" || icon == "" {
		return model.Chore{}, invalid("name", "invalid name or icon for chore")
	}
	if in.CycleDuration != nil && *in.CycleDuration > model.MaxCycleHours {
		return model.Chore{}, invalid("cycleDuration", cycleMessage)
	}

	c := model.Chore{
		ID:            NewID(prefixChore),
		Name:          name,
		Icon:          icon,
		CycleDuration: inst.Config.DefaultCycleDuration,
		Points:        inst.Config.DefaultPoints,
	}
	if in.CycleDuration != nil && *in.CycleDuration > 0 {
		c.CycleDuration = *in.CycleDuration
	}
	if in.Points != nil && *in.Points > 0 {
		c.Points = *in.Points
	}
	inst.Chores = append(inst.Chores, c)
	return c, nil
}

// UpdateChore applies a patch. A new cycle takes effect at the next tend;
// the current dueDate is not recomputed.
func UpdateChore(inst *model.Instance, id string, p ChorePatch) (model.Chore, error) {
	var name, icon string
	if p.Name != nil {
		name = strings.TrimSpace(*p.Name)
	}
	if p.Icon != nil {
		icon = strings.TrimSpace(*p.Icon)
	}
	if p.CycleDuration != nil && !validCycle(*p.CycleDuration) {
		return model.Chore{}, invalid("cycleDuration", cycleMessage)
	}
	if p.Points != nil && *p.Points <= 0 {
		return model.Chore{}, invalid("points", "must be a positive integer")
	}
	if name == "" && icon == "" && p.CycleDuration == nil && p.Points == nil {
		return model.Chore{}, invalid("chore", "invalid chore data")
	}

	i := choreIndex(inst, id)
	if i < 0 {
		return model.Chore{}, notFound("chore")
	}
	c := &inst.Chores[i]
	if name != "" {
		c.Name = name
	}
	if icon != "" {
		c.Icon = icon
	}
	if p.CycleDuration != nil {
		c.CycleDuration = *p.CycleDuration
	}
	if p.Points != nil {
		c.Points = *p.Points
	}
	return *c, nil
}

// DeleteChore removes a chore from the catalog. History entries that point
// at it are kept and score at the default award from now on.
func DeleteChore(inst *model.Instance, id string) error {
	i := choreIndex(inst, id)
	if i < 0 {
		return notFound("chore")
	}
	inst.Chores = append(inst.Chores[:i:i], inst.Chores[i+1:]...)
	return nil
}

// ReorderChores puts the catalog in the order of ids. Chores not listed keep
// their relative order after the listed ones. An empty list is only accepted
// for an empty catalog.
func ReorderChores(inst *model.Instance, ids []string) ([]model.Chore, error) {
	if len(ids) == 0 && len(inst.Chores) == 0 {
		inst.Chores = []model.Chore{}
		return inst.Chores, nil
	}
	if len(ids) == 0 {
		return nil, invalid("chores", "chores list is required")
	}
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			return nil, invalid("chores", "duplicate chore "+id)
		}
		if choreIndex(inst, id) < 0 {
			return nil, invalid("chores", "unknown chore "+id)
		}
		seen[id] = true
	}

	ordered := make([]model.Chore, 0, len(inst.Chores))
	for _, id := range ids {
		ordered = append(ordered, inst.Chores[choreIndex(inst, id)])
	}
	for _, c := range inst.Chores {
		if !seen[c.ID] {
			ordered = append(ordered, c)
		}
	}
	inst.Chores = ordered
	return ordered, nil
}

func choreIndex(inst *model.Instance, id string) int {
	for i, c := range inst.Chores {
		if c.ID == id {
			return i
		}
	}
	return -1
}

const cycleMessage = "must be a positive number of hours, at most 2562047"

func validCycle(hours float64) bool {
	return hours > 0 && hours <= model.MaxCycleHours
}
