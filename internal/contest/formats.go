package contest

import "fmt"

// Built-in contest formats. Each is plain configuration data; new formats are
// added by declaring values, not by branching in the engine.

// Motorsport is the captain/driver/constructor format: the captain entry is a
// separate listing that scores 1.5x its projection at its listed salary, and
// the constructor entry does not count toward team aggregation.
func Motorsport() *Configuration {
	return &Configuration{
		Name: "motorsport",
		Quotas: map[string]int{
			"CPT":   1,
			"D":     4,
			"CNSTR": 1,
		},
		SalaryCap:  50000,
		MaxPerTeam: 3,
		MinTeams:   2,
		Multipliers: map[string]RoleMultiplier{
			"CPT": {Salary: 1.0, Points: 1.5},
		},
		TeamExempt:   map[string]bool{"CNSTR": true},
		PositionRank: map[string]int{"CPT": 0, "D": 1, "CNSTR": 2},
	}
}

// BaseballClassic is the ten-slot classic format with no role multipliers.
func BaseballClassic() *Configuration {
	return &Configuration{
		Name: "baseball",
		Quotas: map[string]int{
			"P":  2,
			"C":  1,
			"1B": 1,
			"2B": 1,
			"3B": 1,
			"SS": 1,
			"OF": 3,
		},
		SalaryCap:  50000,
		MaxPerTeam: 5,
		MinTeams:   2,
		PositionRank: map[string]int{
			"P": 0, "C": 1, "1B": 2, "2B": 3, "3B": 4, "SS": 5, "OF": 6,
		},
	}
}

// ShowdownCaptain is the single-game format: one captain at 1.5x salary and
// 1.5x points plus five utility slots, with both roles derived from one flat
// listing per athlete.
func ShowdownCaptain() *Configuration {
	return &Configuration{
		Name: "showdown",
		Quotas: map[string]int{
			"CPT":  1,
			"UTIL": 5,
		},
		SalaryCap:  50000,
		MaxPerTeam: 5,
		MinTeams:   1,
		Multipliers: map[string]RoleMultiplier{
			"CPT": {Salary: 1.5, Points: 1.5},
		},
		PositionRank: map[string]int{"CPT": 0, "UTIL": 1},
		CaptainRole:  "CPT",
		UtilityRole:  "UTIL",
	}
}

// ByName resolves a built-in format.
func ByName(name string) (*Configuration, error) {
	switch name {
	case "motorsport", "f1":
		return Motorsport(), nil
	case "baseball", "mlb":
		return BaseballClassic(), nil
	case "showdown":
		return ShowdownCaptain(), nil
	}
	return nil, fmt.Errorf("unknown contest format %q", name)
}
