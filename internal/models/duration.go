package models

// DurationOption is one entry of the fixed sanction-length vocabulary.
// Permanent is encoded explicitly, never as a sentinel second count.
type DurationOption struct {
	Key       string
	Label     string
	Seconds   int64
	Permanent bool
}

// BanDurations are the lengths offered for bans.
var BanDurations = []DurationOption{
	{Key: "1h", Label: "1 hour", Seconds: 3600},
	{Key: "1d", Label: "1 day", Seconds: 86400},
	{Key: "7d", Label: "7 days", Seconds: 604800},
	{Key: "permanent", Label: "Permanent", Permanent: true},
}

// MuteDurations are the lengths offered for mutes.
var MuteDurations = []DurationOption{
	{Key: "1h", Label: "1 hour", Seconds: 3600},
	{Key: "6h", Label: "6 hours", Seconds: 21600},
	{Key: "1d", Label: "1 day", Seconds: 86400},
	{Key: "7d", Label: "7 days", Seconds: 604800},
}

// DurationsFor returns the vocabulary for the given action kind.
func DurationsFor(kind ActionKind) []DurationOption {
	if kind == ActionMute {
		return MuteDurations
	}
	return BanDurations
}

// FindDuration looks up a vocabulary entry by key.
func FindDuration(kind ActionKind, key string) (DurationOption, bool) {
	for _, opt := range DurationsFor(kind) {
		if opt.Key == key {
			return opt, true
		}
	}
	return DurationOption{}, false
}
