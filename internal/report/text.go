package report

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/roach88/ninjatrace/internal/store"
)

func newTable(w io.Writer) table.Writer {
	tbl := table.NewWriter()
	tbl.SetOutputMirror(w)
	tbl.SetStyle(table.StyleLight)
	tbl.Style().Options.SeparateRows = false
	tbl.Style().Options.DrawBorder = false
	tbl.Style().Format.Footer = text.FormatDefault
	return tbl
}

// FormatMS renders a millisecond count with thousands separators.
func FormatMS(ms int64) string {
	return humanize.Comma(ms) + " ms"
}

// WriteSummary renders s as text tables.
func WriteSummary(w io.Writer, s Summary) {
	overview := newTable(w)
	overview.SetTitle("Build summary")
	overview.AppendRows([]table.Row{
		{"Records", humanize.Comma(int64(s.Records))},
		{"Invocations", humanize.Comma(int64(s.Invocations))},
		{"Steps", humanize.Comma(int64(s.Steps))},
		{"Lanes", humanize.Comma(int64(s.Lanes))},
		{"Wall span", FormatMS(s.SpanMS)},
		{"Total step time", FormatMS(s.TotalStepMS)},
		{"Parallelism", strconv.FormatFloat(s.Parallelism, 'f', 2, 64)},
	})
	overview.Render()

	if len(s.Slowest) == 0 {
		return
	}
	fmt.Fprintln(w)

	slowest := newTable(w)
	slowest.SetTitle("Slowest steps")
	slowest.AppendHeader(table.Row{"#", "Output", "Duration", "Start", "Lane", "Invocation"})
	for i, st := range s.Slowest {
		slowest.AppendRow(table.Row{
			i + 1,
			st.Output,
			FormatMS(st.DurationMS),
			FormatMS(int64(st.StartMS)),
			st.Lane,
			st.Invocation,
		})
	}
	slowest.Render()
}

// WriteSessions renders recorded sessions, with ages relative to now.
func WriteSessions(w io.Writer, sessions []store.Session, now time.Time) {
	if len(sessions) == 0 {
		fmt.Fprintln(w, "No recorded sessions")
		return
	}

	tbl := newTable(w)
	tbl.AppendHeader(table.Row{"Session", "Recorded", "Log", "Invocations", "Steps", "Lanes", "Span"})
	for _, sess := range sessions {
		tbl.AppendRow(table.Row{
			sess.ID,
			humanize.RelTime(sess.RecordedAt, now, "ago", "from now"),
			sess.LogPath,
			humanize.Comma(int64(sess.Invocations)),
			humanize.Comma(int64(sess.Steps)),
			sess.Lanes,
			FormatMS(sess.SpanMS),
		})
	}
	tbl.AppendFooter(table.Row{fmt.Sprintf("Total: %d sessions", len(sessions))})
	tbl.Render()
}

// WriteSteps renders the steps of one session.
func WriteSteps(w io.Writer, sess store.Session, steps []store.Step) {
	tbl := newTable(w)
	tbl.SetTitle(fmt.Sprintf("Session %s (%s)", sess.ID, sess.LogPath))
	tbl.AppendHeader(table.Row{"Output", "Duration", "Start", "Lane", "Invocation"})
	for _, st := range steps {
		tbl.AppendRow(table.Row{
			st.Output,
			FormatMS(st.DurationMS()),
			FormatMS(int64(st.StartMS)),
			st.Lane,
			st.Invocation,
		})
	}
	tbl.Render()
}
