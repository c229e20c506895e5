package providers

// LevelProfile describes what an optimization level is expected to save.
// Percentages are historical averages, not guarantees.
type LevelProfile struct {
	TokensSavedPct float64
	Description    string
	UseCase        string
}

var levelProfiles = map[string]LevelProfile{
	"conservative": {
		TokensSavedPct: 0.15,
		Description:    "Minimal risk, 15% savings",
		UseCase:        "Critical tasks",
	},
	"balanced": {
		TokensSavedPct: 0.28,
		Description:    "Recommended, 28% savings",
		UseCase:        "General use",
	},
	"aggressive": {
		TokensSavedPct: 0.42,
		Description:    "Fast results, 42% savings",
		UseCase:        "Performance critical",
	},
}

// LevelSavings returns the expected-effect profile for an optimization
// level. Unknown names get the balanced profile, mirroring the engine's
// threshold fallback.
func LevelSavings(level string) LevelProfile {
	if p, ok := levelProfiles[level]; ok {
		return p
	}
	return levelProfiles["balanced"]
}

// LevelNames lists the known levels in ascending aggressiveness.
func LevelNames() []string {
	return []string{"conservative", "balanced", "aggressive"}
}
