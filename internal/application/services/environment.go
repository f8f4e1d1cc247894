package services

// Environment profile names shared by the generators and the graph
// compiler. Generators stamp one of these into a suggestion's first
// action; the compiler resolves it into concrete device targets.
const (
	EnvAnxietyRelief  = "anxiety_relief"
	EnvMoodBoost      = "mood_boost"
	EnvFocusClarity   = "focus_clarity"
	EnvDeepRelaxation = "deep_relaxation"
	EnvBalanced       = "balanced_comfort"
)

// EnvironmentProfile holds the device targets for one environment.
// LightLevel is a 0-100 percentage; the compiler maps it to the
// engine's native range.
type EnvironmentProfile struct {
	LightLevel  int
	ColorTempK  int
	TargetTempC int
}

var environmentProfiles = map[string]EnvironmentProfile{
	EnvAnxietyRelief:  {LightLevel: 30, ColorTempK: 2700, TargetTempC: 22},
	EnvMoodBoost:      {LightLevel: 85, ColorTempK: 5000, TargetTempC: 21},
	EnvFocusClarity:   {LightLevel: 75, ColorTempK: 4200, TargetTempC: 20},
	EnvDeepRelaxation: {LightLevel: 20, ColorTempK: 2200, TargetTempC: 23},
}

var defaultEnvironmentProfile = EnvironmentProfile{LightLevel: 50, ColorTempK: 3300, TargetTempC: 22}

// ProfileFor returns the profile for an environment name, falling back
// to the generic profile for unknown or empty names.
func ProfileFor(name string) EnvironmentProfile {
	if p, ok := environmentProfiles[name]; ok {
		return p
	}
	return defaultEnvironmentProfile
}
