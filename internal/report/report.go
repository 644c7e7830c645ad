// Package report renders the human-readable output of a run: the optional
// activity table followed by the debt summary.
package report

import (
	"fmt"
	"io"
	"math"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/dustin/go-humanize/english"

	"cycledebt/internal/core"
	"cycledebt/internal/storage"
)

const timeLayout = "2006-01-02 15:04"

// Report is everything printed at the end of a run. Distances are meters.
type Report struct {
	Now time.Time
	// Location for table timestamps; time.Local when nil.
	Location *time.Location

	Schedule    core.Schedule
	Total       core.Summary
	Window      core.Summary
	WindowWeeks int

	// LastActivity is the end of the latest record, zero when there is none.
	LastActivity time.Time

	// Rows is printed as a table when non-empty.
	Rows []storage.Row
}

// Kilometers formats meters as kilometers rounded to one decimal, with
// thousands separators.
func Kilometers(meters float64) string {
	km := math.Round(core.Kilometers(meters)*10) / 10
	if km == 0 {
		km = 0 // drop the sign of -0
	}
	return humanize.CommafWithDigits(km, 1) + " km"
}

// Write renders r to w.
func Write(w io.Writer, r Report) error {
	p := &printer{w: w}

	if len(r.Rows) > 0 {
		loc := r.Location
		if loc == nil {
			loc = time.Local
		}
		p.table(r.Rows, loc)
		p.printf("\n")
	}

	p.summary(r)
	return p.err
}

// printer keeps the first write error and skips everything after it.
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

func (p *printer) table(rows []storage.Row, loc *time.Location) {
	if p.err != nil {
		return
	}
	tw := tabwriter.NewWriter(p.w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "#\tSTART\tEND\tACTIVITY\tDISTANCE\tDEBT\t")
	for _, row := range rows {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t\n",
			row.Seq,
			row.Start.In(loc).Format(timeLayout),
			row.End.In(loc).Format(timeLayout),
			row.Kind,
			Kilometers(row.Distance),
			Kilometers(row.Debt),
		)
	}
	p.err = tw.Flush()
}

func (p *printer) summary(r Report) {
	total := r.Total
	p.printf("Driven:  %s\n", Kilometers(total.Get(core.Driving)))
	p.printf("Cycled:  %s\n", Kilometers(total.Get(core.Cycling)))

	s := r.Schedule
	if s.Owed {
		p.printf("Debt:    %s\n", Kilometers(s.Debt))
		p.printf("To be even by January 1 (%s left): %s per day, %s per week\n",
			english.Plural(s.DaysLeft, "day", ""),
			Kilometers(s.PerDay),
			Kilometers(s.PerWeek),
		)
	} else {
		p.printf("Debt:    none (%s ahead)\n", Kilometers(-s.Debt))
	}

	p.printf("Last %s: driven %s, cycled %s\n",
		english.Plural(r.WindowWeeks, "week", ""),
		Kilometers(r.Window.Get(core.Driving)),
		Kilometers(r.Window.Get(core.Cycling)),
	)

	if !r.LastActivity.IsZero() && !r.Now.IsZero() {
		p.printf("Latest activity ended %s\n", humanize.RelTime(r.LastActivity, r.Now, "ago", "from now"))
	}
}
