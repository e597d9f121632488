package contest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRosterSize(t *testing.T) {
	assert.Equal(t, 6, Motorsport().RosterSize())
	assert.Equal(t, 10, BaseballClassic().RosterSize())
	assert.Equal(t, 6, ShowdownCaptain().RosterSize())
}

func TestValidate_BuiltinsAreValid(t *testing.T) {
	for _, cfg := range []*Configuration{Motorsport(), BaseballClassic(), ShowdownCaptain()} {
		assert.NoError(t, cfg.Validate(), cfg.Name)
	}
}

func TestValidate_RejectsBadConfigurations(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Configuration)
		field  string
	}{
		{"empty quotas", func(c *Configuration) { c.Quotas = nil }, "quotas"},
		{"zero quota count", func(c *Configuration) { c.Quotas["D"] = 0 }, "quotas"},
		{"zero salary cap", func(c *Configuration) { c.SalaryCap = 0 }, "salary_cap"},
		{"zero max per team", func(c *Configuration) { c.MaxPerTeam = 0 }, "max_per_team"},
		{"zero min teams", func(c *Configuration) { c.MinTeams = 0 }, "min_teams"},
		{"non-positive multiplier", func(c *Configuration) {
			c.Multipliers["CPT"] = RoleMultiplier{Salary: 0, Points: 1.5}
		}, "multipliers"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Motorsport()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			var cfgErr *ConfigurationError
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, tt.field, cfgErr.Field)
		})
	}
}

func TestCheckPool(t *testing.T) {
	cfg := Motorsport() // MinTeams: 2
	assert.NoError(t, cfg.CheckPool(2))
	assert.NoError(t, cfg.CheckPool(10))

	err := cfg.CheckPool(1)
	var cfgErr *ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "min_teams", cfgErr.Field)
}

func TestChargedSalary_RoundsHalfSalaries(t *testing.T) {
	cfg := ShowdownCaptain()
	// 1.5x an odd salary rounds to the nearest integer.
	assert.Equal(t, 10350, cfg.ChargedSalary("CPT", 6900))
	assert.Equal(t, 8250, cfg.ChargedSalary("CPT", 5500))
	assert.Equal(t, 5500, cfg.ChargedSalary("UTIL", 5500))
}

func TestScoredPoints(t *testing.T) {
	cfg := Motorsport()
	// Motorsport captain scores 1.5x but pays listed salary.
	assert.InDelta(t, 45.0, cfg.ScoredPoints("CPT", 30.0), 1e-9)
	assert.InDelta(t, 30.0, cfg.ScoredPoints("D", 30.0), 1e-9)
	assert.Equal(t, 7500, cfg.ChargedSalary("CPT", 7500))
}

func TestTeamCounted(t *testing.T) {
	cfg := Motorsport()
	assert.True(t, cfg.TeamCounted("CPT"))
	assert.True(t, cfg.TeamCounted("D"))
	assert.False(t, cfg.TeamCounted("CNSTR"))
}

func TestPositionsAndSlotLabels(t *testing.T) {
	cfg := Motorsport()
	assert.Equal(t, []string{"CPT", "D", "CNSTR"}, cfg.Positions())
	assert.Equal(t, []string{"CPT", "D", "D", "D", "D", "CNSTR"}, cfg.SlotLabels())

	mlb := BaseballClassic()
	assert.Equal(t, []string{"P", "P", "C", "1B", "2B", "3B", "SS", "OF", "OF", "OF"}, mlb.SlotLabels())
}

func TestByName(t *testing.T) {
	for alias, want := range map[string]string{
		"motorsport": "motorsport",
		"f1":         "motorsport",
		"baseball":   "baseball",
		"mlb":        "baseball",
		"showdown":   "showdown",
	} {
		cfg, err := ByName(alias)
		require.NoError(t, err, alias)
		assert.Equal(t, want, cfg.Name)
	}

	_, err := ByName("curling")
	assert.Error(t, err)
}
