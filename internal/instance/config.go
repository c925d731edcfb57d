package instance

import "github.com/dukerupert/kinobi/internal/model"

// ConfigInput mirrors model.Config with every field optional so missing
// values can be told apart from zeros.
type ConfigInput struct {
	DefaultCycleDuration *float64
	DefaultPoints        *int
	WarningThreshold     *float64
	UrgentThreshold      *float64
}

// ReplaceConfig validates all four fields and swaps the configuration in.
// A warning threshold above the urgent threshold is rejected.
func ReplaceConfig(inst *model.Instance, in ConfigInput) (model.Config, error) {
	if in.DefaultCycleDuration == nil || !validCycle(*in.DefaultCycleDuration) {
		return model.Config{}, invalid("defaultCycleDuration", cycleMessage)
	}
	if in.DefaultPoints == nil || *in.DefaultPoints <= 0 {
		return model.Config{}, invalid("defaultPoints", "must be a positive integer")
	}
	if !percent(in.WarningThreshold) {
		return model.Config{}, invalid("warningThreshold", "must be between 0 and 100")
	}
	if !percent(in.UrgentThreshold) {
		return model.Config{}, invalid("urgentThreshold", "must be between 0 and 100")
	}
	if *in.WarningThreshold > *in.UrgentThreshold {
		return model.Config{}, invalid("warningThreshold", "must not exceed urgentThreshold")
	}

	inst.Config = model.Config{
		DefaultCycleDuration: *in.DefaultCycleDuration,
		DefaultPoints:        *in.DefaultPoints,
		WarningThreshold:     *in.WarningThreshold,
		UrgentThreshold:      *in.UrgentThreshold,
	}
	return inst.Config, nil
}

func percent(v *float64) bool {
	return v != nil && *v >= 0 && *v <= 100
}
