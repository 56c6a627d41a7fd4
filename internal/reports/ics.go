package reports

import (
	"crypto/sha1"
	"encoding/hex"
	"strconv"
	"time"

	"chroncli/internal/storage"

	ical "github.com/arran4/golang-ical"
)

// PropertyCompleted marks a completed task on an exported VEVENT. Events
// have no completion status of their own.
const PropertyCompleted = ical.ComponentProperty("X-CHRONCLI-COMPLETED")

const productID = "-//chroncli//chroncli//EN"

// FormatICS serializes tasks as an iCalendar feed, one VEVENT per task.
// stamp is written as DTSTAMP.
func FormatICS(tasks []storage.Task, stamp time.Time) string {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(productID)

	for i, t := range tasks {
		ev := cal.AddEvent(eventUID(t, i))
		ev.SetDtStampTime(stamp)
		ev.SetStartAt(t.Start)
		if t.End != nil {
			ev.SetEndAt(*t.End)
		}
		ev.SetSummary(t.Name)
		if t.Completed {
			ev.SetProperty(PropertyCompleted, "TRUE")
		}
	}
	return cal.Serialize()
}

// eventUID derives a UID from the task and its position in the export.
func eventUID(t storage.Task, i int) string {
	h := sha1.New()
	h.Write([]byte(t.Start.UTC().Format(time.RFC3339)))
	h.Write([]byte("|" + strconv.Itoa(i) + "|"))
	h.Write([]byte(t.Name))
	return hex.EncodeToString(h.Sum(nil))[:16] + "@chroncli"
}

// MonthTasks returns the tasks starting in year and month, in order.
func (g *Generator) MonthTasks(year int, month time.Month) []storage.Task {
	_, start, end := monthBounds(year, month)
	return g.store.TasksBetween(start, end)
}
