package importer

import (
	"fmt"
	"io"
	"strings"
	"time"

	"chroncli/internal/reports"
	"chroncli/internal/storage"

	ical "github.com/arran4/golang-ical"
)

// ICSImporter reads VEVENTs from an iCalendar file.
type ICSImporter struct{}

// Name returns the importer name.
func (i *ICSImporter) Name() string {
	return "ics"
}

// Preview converts each VEVENT with a summary and a start into a task.
// All-day events start at local midnight and have no end.
func (i *ICSImporter) Preview(r io.Reader) (*Preview, error) {
	cal, err := ical.ParseCalendar(r)
	if err != nil {
		return nil, fmt.Errorf("parse calendar: %w", err)
	}

	p := &Preview{}
	for n, ev := range cal.Events() {
		summary := ev.GetProperty(ical.ComponentPropertySummary)
		if summary == nil || strings.TrimSpace(summary.Value) == "" {
			p.skip("event %d: no summary", n+1)
			continue
		}
		name := strings.TrimSpace(unescapeText(summary.Value))

		start, allDay, err := eventTime(ev.GetProperty(ical.ComponentPropertyDtStart))
		if err != nil {
			p.skip("%s: start: %v", name, err)
			continue
		}
		task := storage.Task{Name: name, Start: start}

		if end, _, err := eventTime(ev.GetProperty(ical.ComponentPropertyDtEnd)); err == nil && !allDay && end.After(start) {
			task.End = &end
		}
		if done := ev.GetProperty(reports.PropertyCompleted); done != nil {
			task.Completed = strings.EqualFold(done.Value, "TRUE")
		}
		p.Tasks = append(p.Tasks, task)
	}
	return p, nil
}

// eventTime reads a DTSTART or DTEND value in local time. UTC values are
// converted, TZID values are read in their zone, floating values are local.
func eventTime(prop *ical.IANAProperty) (t time.Time, allDay bool, err error) {
	if prop == nil || prop.Value == "" {
		return time.Time{}, false, fmt.Errorf("missing")
	}
	v := prop.Value

	loc := time.Local
	if tz := prop.ICalParameters["TZID"]; len(tz) > 0 {
		if l, lerr := time.LoadLocation(tz[0]); lerr == nil {
			loc = l
		}
	}

	switch {
	case strings.HasSuffix(v, "Z"):
		t, err = time.Parse("20060102T150405Z", v)
	case len(v) == len("20060102"):
		t, err = time.ParseInLocation("20060102", v, time.Local)
		allDay = true
	default:
		t, err = time.ParseInLocation("20060102T150405", v, loc)
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("invalid time %q", v)
	}
	return t.In(time.Local), allDay, nil
}

var textUnescaper = strings.NewReplacer(`\\`, `\`, `\,`, ",", `\;`, ";", `\n`, "\n", `\N`, "\n")

// unescapeText undoes RFC 5545 TEXT escaping.
func unescapeText(s string) string {
	return textUnescaper.Replace(s)
}
