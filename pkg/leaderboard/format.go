package leaderboard

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/mpapenbr/racereplay/pkg/model"
)

const LeaderText = "LEADER"

// FormatGap returns the gap to the leader with millisecond precision
func FormatGap(d *model.DriverSnapshot) string {
	if d.Position == 1 {
		return LeaderText
	}
	return "+" + decimal.NewFromFloat(d.GapToLeader).StringFixed(3)
}

// FormatInterval returns the interval to the car ahead, empty for the leader
func FormatInterval(d *model.DriverSnapshot) string {
	if d.Position == 1 {
		return ""
	}
	return "+" + decimal.NewFromFloat(d.IntervalToAhead).StringFixed(3)
}

func FormatRankChange(change int) string {
	switch {
	case change > 0:
		return fmt.Sprintf("▲%d", change)
	case change < 0:
		return fmt.Sprintf("▼%d", -change)
	default:
		return ""
	}
}

// FormatSessionTime formats seconds as h:mm:ss.mmm
func FormatSessionTime(sec float64) string {
	ms := int64(math.Round(math.Max(sec, 0) * 1000))
	h := ms / 3_600_000
	m := ms / 60_000 % 60
	s := ms / 1000 % 60
	return fmt.Sprintf("%d:%02d:%02d.%03d", h, m, s, ms%1000)
}

// FormatCompound returns the first letter of the compound.
// Synthesized compounds are marked with an asterisk.
func FormatCompound(d *model.DriverSnapshot) string {
	if d.Compound == "" {
		return ""
	}
	ret := string(d.Compound[0])
	if d.CompoundSynthesized {
		ret += "*"
	}
	return ret
}

func colorMarker(c model.SectorColor) string {
	switch c {
	case model.SectorPurple:
		return "P"
	case model.SectorGreen:
		return "G"
	default:
		return "Y"
	}
}
