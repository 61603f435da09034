// Package leaderboard renders snapshots as text tables.
package leaderboard

import (
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/mpapenbr/racereplay/pkg/model"
)

type Option func(r *Renderer)

// WithColors renders sector colors as terminal colors instead of markers
func WithColors(enabled bool) Option {
	return func(r *Renderer) {
		r.colors = enabled
	}
}

func WithStyle(style table.Style) Option {
	return func(r *Renderer) {
		r.style = style
	}
}

type Renderer struct {
	colors bool
	style  table.Style
}

func NewRenderer(opts ...Option) *Renderer {
	ret := &Renderer{style: table.StyleRounded}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

// Render writes the snapshot as table to w
func (r *Renderer) Render(w io.Writer, snap *model.Snapshot) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(r.style)
	t.SetTitle("Session time %s", FormatSessionTime(snap.SessionTime))
	t.AppendHeader(table.Row{
		"Pos", "", "Driver", "Team", "Lap", "Gap", "Int", "S1", "S2", "S3", "Tyre", "Pit",
	})
	t.AppendRows(lo.Map(snap.Drivers, func(d model.DriverSnapshot, _ int) table.Row {
		return table.Row{
			d.Position,
			FormatRankChange(d.RankChange),
			d.Code,
			d.Team,
			d.Lap,
			FormatGap(&d),
			FormatInterval(&d),
			r.sector(d.Sectors[0]),
			r.sector(d.Sectors[1]),
			r.sector(d.Sectors[2]),
			FormatCompound(&d),
			lo.Ternary(d.InPit, "PIT", ""),
		}
	}))
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 6, Align: text.AlignRight},
		{Number: 7, Align: text.AlignRight},
		{Number: 8, Align: text.AlignRight},
		{Number: 9, Align: text.AlignRight},
		{Number: 10, Align: text.AlignRight},
	})
	t.Render()
}

func (r *Renderer) sector(s *model.SectorState) string {
	if s == nil {
		return ""
	}
	v := decimal.NewFromFloat(s.Duration).StringFixed(3)
	if !r.colors {
		return v + " " + colorMarker(s.Color)
	}
	switch s.Color {
	case model.SectorPurple:
		return text.Colors{text.FgMagenta}.Sprint(v)
	case model.SectorGreen:
		return text.Colors{text.FgGreen}.Sprint(v)
	default:
		return text.Colors{text.FgYellow}.Sprint(v)
	}
}
