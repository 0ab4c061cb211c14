// Package backfill expands a backfill specification into an ordered
// sequence of per-date parameter overlays.
package backfill

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

const canonicalLayout = "2006-01-02"

// Granularity enumerates the recognised date_granularity values.
type Granularity string

const (
	GranularityDay   Granularity = "day"
	GranularityWeek  Granularity = "week"
	GranularityMonth Granularity = "month"
)

// Spec is the decoded backfill configuration (spec.md §4.3).
type Spec struct {
	StartDate        string
	EndDate          string
	DateGranularity  Granularity
	CustomDates      []string
	DateParamName    string
	DateParamNames   []string
	DateParamFormats map[string]string
	DryRun           bool
	Params           map[string]string
}

// Point is one materialised date point in the plan: its calendar date and
// the parameter overlay it contributes (date variants merged with the
// static params, date keys winning on collision).
type Point struct {
	Date    time.Time
	Overlay map[string]string
}

// Plan is the finite ordered sequence of date points a backfill run walks
// strictly sequentially.
type Plan struct {
	Points []Point
	DryRun bool
}

// Build expands spec into a Plan, implementing spec.md §4.3's date-point
// generation and per-point overlay materialisation (S5).
func Build(spec Spec) (*Plan, error) {
	names := paramNames(spec)

	var points []time.Time
	var err error
	if len(spec.CustomDates) > 0 {
		points, err = parseCustomDates(spec.CustomDates)
	} else {
		points, err = generatePoints(spec)
	}
	if err != nil {
		return nil, err
	}

	plan := &Plan{DryRun: spec.DryRun}
	for _, d := range points {
		plan.Points = append(plan.Points, Point{
			Date:    d,
			Overlay: materialiseOverlay(d, names, spec.DateParamFormats, spec.Params),
		})
	}
	return plan, nil
}

func paramNames(spec Spec) []string {
	if len(spec.DateParamNames) > 0 {
		return spec.DateParamNames
	}
	name := spec.DateParamName
	if name == "" {
		name = "day_id"
	}
	return []string{name}
}

func parseCustomDates(dates []string) ([]time.Time, error) {
	out := make([]time.Time, 0, len(dates))
	for _, s := range dates {
		d, err := time.Parse(canonicalLayout, s)
		if err != nil {
			return nil, fmt.Errorf("backfill: invalid custom date %q: %w", s, err)
		}
		out = append(out, d)
	}
	return out, nil
}

func generatePoints(spec Spec) ([]time.Time, error) {
	start, err := time.Parse(canonicalLayout, spec.StartDate)
	if err != nil {
		return nil, fmt.Errorf("backfill: invalid start_date %q: %w", spec.StartDate, err)
	}
	end, err := time.Parse(canonicalLayout, spec.EndDate)
	if err != nil {
		return nil, fmt.Errorf("backfill: invalid end_date %q: %w", spec.EndDate, err)
	}
	if end.Before(start) {
		return nil, fmt.Errorf("backfill: end_date %s is before start_date %s", spec.EndDate, spec.StartDate)
	}

	granularity := spec.DateGranularity
	if granularity == "" {
		granularity = GranularityDay
	}

	switch granularity {
	case GranularityDay:
		return daySequence(start, end), nil
	case GranularityWeek:
		return weekSequence(start, end), nil
	case GranularityMonth:
		return monthSequence(start, end), nil
	default:
		return nil, fmt.Errorf("backfill: unknown date_granularity %q", granularity)
	}
}

func daySequence(start, end time.Time) []time.Time {
	var out []time.Time
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		out = append(out, d)
	}
	return out
}

// weekSequence returns the Monday of every week whose Monday falls within
// [start, end]; if start is mid-week, the first point is that week's
// Monday (which may precede start).
func weekSequence(start, end time.Time) []time.Time {
	monday := mondayOf(start)
	var out []time.Time
	for !monday.After(end) {
		out = append(out, monday)
		monday = monday.AddDate(0, 0, 7)
	}
	return out
}

func mondayOf(d time.Time) time.Time {
	weekday := int(d.Weekday())
	// time.Sunday == 0; convert to ISO where Monday == 0 offset back.
	offset := (weekday + 6) % 7
	return d.AddDate(0, 0, -offset)
}

// monthSequence returns the first day of each month intersecting [start,
// end]; the first point is the first day of start's month, which precedes
// start when start is mid-month.
func monthSequence(start, end time.Time) []time.Time {
	cur := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, start.Location())
	var out []time.Time
	for !cur.After(end) {
		out = append(out, cur)
		cur = cur.AddDate(0, 1, 0)
	}
	return out
}

// materialiseOverlay builds the per-point overlay: for each parameter
// name, the canonical form, the no-dash form, and (if a format is given)
// the custom-format variant, merged over the static params with date keys
// winning on collision.
func materialiseOverlay(d time.Time, names []string, formats map[string]string, staticParams map[string]string) map[string]string {
	out := make(map[string]string, len(staticParams)+len(names)*3)
	for k, v := range staticParams {
		out[k] = v
	}

	canonical := d.Format(canonicalLayout)
	noDash := strings.ReplaceAll(canonical, "-", "")

	for _, name := range names {
		out[name] = canonical
		out[name+"_no_dash"] = noDash
		if fmtSpec, ok := formats[name]; ok {
			out[name+"_fmt"] = formatStrftime(d, fmtSpec)
		}
	}
	return out
}

// strftimeDirectives maps the subset of strftime-style codes used by
// date_param_formats to Go reference-time layout fragments.
var strftimeDirectives = []struct {
	code   string
	layout func(time.Time) string
}{
	{"%Y", func(t time.Time) string { return fmt.Sprintf("%04d", t.Year()) }},
	{"%m", func(t time.Time) string { return fmt.Sprintf("%02d", int(t.Month())) }},
	{"%d", func(t time.Time) string { return fmt.Sprintf("%02d", t.Day()) }},
	{"%H", func(t time.Time) string { return fmt.Sprintf("%02d", t.Hour()) }},
	{"%M", func(t time.Time) string { return fmt.Sprintf("%02d", t.Minute()) }},
	{"%S", func(t time.Time) string { return fmt.Sprintf("%02d", t.Second()) }},
}

func formatStrftime(t time.Time, spec string) string {
	out := spec
	for _, d := range strftimeDirectives {
		out = strings.ReplaceAll(out, d.code, d.layout(t))
	}
	return out
}

// SortedKeys is a small convenience for callers (e.g. the backfill dry-run listing)
// that want a stable rendering order over an overlay map.
func SortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
