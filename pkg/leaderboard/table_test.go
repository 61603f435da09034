package leaderboard

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mpapenbr/racereplay/pkg/model"
)

func TestFormatGap(t *testing.T) {
	tests := []struct {
		name     string
		d        model.DriverSnapshot
		gap      string
		interval string
	}{
		{"leader", model.DriverSnapshot{Position: 1}, LeaderText, ""},
		{"zero", model.DriverSnapshot{Position: 2}, "+0.000", "+0.000"},
		{
			"rounded", model.DriverSnapshot{Position: 3, GapToLeader: 5.0, IntervalToAhead: 1.2345},
			"+5.000", "+1.235",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.gap, FormatGap(&tt.d))
			assert.Equal(t, tt.interval, FormatInterval(&tt.d))
		})
	}
}

func TestFormatSessionTime(t *testing.T) {
	assert.Equal(t, "0:00:00.000", FormatSessionTime(0))
	assert.Equal(t, "0:00:00.000", FormatSessionTime(-3))
	assert.Equal(t, "0:01:05.500", FormatSessionTime(65.5))
	assert.Equal(t, "1:02:03.457", FormatSessionTime(3723.4567))
}

func TestFormatRankChange(t *testing.T) {
	assert.Equal(t, "▲2", FormatRankChange(2))
	assert.Equal(t, "▼1", FormatRankChange(-1))
	assert.Equal(t, "", FormatRankChange(0))
}

func TestFormatCompound(t *testing.T) {
	assert.Equal(t, "S", FormatCompound(&model.DriverSnapshot{Compound: model.CompoundSoft}))
	assert.Equal(t, "H*", FormatCompound(&model.DriverSnapshot{
		Compound: model.CompoundHard, CompoundSynthesized: true,
	}))
	assert.Equal(t, "", FormatCompound(&model.DriverSnapshot{}))
}

func TestRender(t *testing.T) {
	snap := &model.Snapshot{
		SessionTime: 65.5,
		Drivers: []model.DriverSnapshot{
			{
				ID: "1", Code: "VER", Team: "Red Bull Racing", Position: 1, Lap: 2,
				Compound: model.CompoundMedium,
				Sectors: [model.NumSectors]*model.SectorState{
					{Duration: 30, Color: model.SectorPurple},
					{Duration: 35.1, Color: model.SectorGreen},
				},
			},
			{
				ID: "16", Code: "LEC", Team: "Ferrari", Position: 2, Lap: 2,
				GapToLeader: 1.5, IntervalToAhead: 1.5, InPit: true, RankChange: -1,
				Compound: model.CompoundSoft, CompoundSynthesized: true,
			},
		},
	}
	var b bytes.Buffer
	NewRenderer().Render(&b, snap)
	out := b.String()

	assert.Contains(t, out, "Session time 0:01:05.500")
	lines := strings.Split(out, "\n")
	ver := lines[slicesIndex(lines, " VER ")]
	assert.Contains(t, ver, LeaderText)
	assert.Contains(t, ver, "30.000 P")
	assert.Contains(t, ver, "35.100 G")
	lec := lines[slicesIndex(lines, "LEC")]
	assert.Contains(t, lec, "+1.500")
	assert.Contains(t, lec, "PIT")
	assert.Contains(t, lec, "▼1")
	assert.Contains(t, lec, "S*")
}

func TestRenderColors(t *testing.T) {
	snap := &model.Snapshot{Drivers: []model.DriverSnapshot{{
		Code: "VER", Position: 1,
		Sectors: [model.NumSectors]*model.SectorState{{Duration: 30, Color: model.SectorPurple}},
	}}}
	var b bytes.Buffer
	NewRenderer(WithColors(true)).Render(&b, snap)
	assert.Contains(t, b.String(), "\x1b[35m30.000")
	assert.NotContains(t, b.String(), "30.000 P")
}

func slicesIndex(lines []string, s string) int {
	for i, l := range lines {
		if strings.Contains(l, s) {
			return i
		}
	}
	return -1
}
