package service

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"legalbooking/internal/model"
)

var (
	lawyerIDPattern   = regexp.MustCompile(`(?i)\b(?:lawyer|abogad[oa])\b[^0-9]{0,24}?\bid\b\s*[#:]?\s*(\d+)`)
	specialityPattern = regexp.MustCompile(`(?i)\b(?:speciality|specialty|especialidad)\b\s*(?:(?:in|en|de)\s+|:\s*)?(\p{L}+)`)
	datePattern       = regexp.MustCompile(`\b(\d{4}-\d{2}-\d{2})(?:T|\b)`)
	timePattern       = regexp.MustCompile(`(?:\b|T)([01]?\d|2[0-3]):([0-5]\d)\b`)
)

// SlotQuery is what the assistant could understand from a free-text message.
type SlotQuery struct {
	Filter model.SlotFilter
	// Target is the requested start time, when the message names one.
	Target *time.Time
}

// ExtractSlotQuery pulls a structured slot filter out of msg. The search window
// is the named day, or [now, now+lookahead) when no date is given. A time
// without a date that has already passed today means tomorrow. Only available
// slots are searched.
func ExtractSlotQuery(msg string, now time.Time, lookahead time.Duration) SlotQuery {
	now = now.UTC()
	available := true
	q := SlotQuery{Filter: model.SlotFilter{Available: &available}}

	if m := lawyerIDPattern.FindStringSubmatch(msg); m != nil {
		if id, err := strconv.ParseUint(m[1], 10, 64); err == nil {
			lawyerID := uint(id)
			q.Filter.LawyerID = &lawyerID
		}
	}
	if m := specialityPattern.FindStringSubmatch(msg); m != nil {
		speciality := m[1]
		q.Filter.LawyerSpeciality = &speciality
	}

	day, hasDate := parseDate(msg)
	var start, end time.Time
	if hasDate {
		start, end = day, day.Add(24*time.Hour)
	} else {
		start, end = now, now.Add(lookahead)
		day = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	}
	q.Filter.StartDate = &start
	q.Filter.EndDate = &end

	if m := timePattern.FindStringSubmatch(msg); m != nil {
		hour, _ := strconv.Atoi(m[1])
		minute, _ := strconv.Atoi(m[2])
		target := day.Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
		if !hasDate && target.Before(now) {
			target = target.Add(24 * time.Hour)
		}
		q.Target = &target
	}
	return q
}

func parseDate(msg string) (time.Time, bool) {
	m := datePattern.FindStringSubmatch(msg)
	if m == nil {
		return time.Time{}, false
	}
	day, err := time.Parse(time.DateOnly, m[1])
	if err != nil {
		return time.Time{}, false
	}
	return day, true
}

// SlotMatch is the outcome of looking for a requested time among slots.
type SlotMatch struct {
	Exact   *model.Slot
	Closest *model.Slot
}

// MatchSlot finds a slot containing target, or else the earliest slot that
// starts after it.
func MatchSlot(slots []model.Slot, target time.Time) SlotMatch {
	var match SlotMatch
	for i := range slots {
		s := &slots[i]
		if s.Contains(target) {
			match.Exact = s
			return match
		}
		if s.DateStart.After(target) && (match.Closest == nil || s.DateStart.Before(match.Closest.DateStart)) {
			match.Closest = s
		}
	}
	return match
}

const maxListedSlots = 5

// RenderSlots writes the search outcome as a Markdown block.
func RenderSlots(q SlotQuery, slots []model.Slot) string {
	var b strings.Builder
	if q.Target != nil {
		match := MatchSlot(slots, *q.Target)
		switch {
		case match.Exact != nil:
			b.WriteString("**Available slot at the requested time**\n\n")
			writeSlot(&b, match.Exact)
		case match.Closest != nil:
			fmt.Fprintf(&b, "**No slot at %s. Closest available slot:**\n\n", q.Target.Format("2006-01-02 15:04"))
			writeSlot(&b, match.Closest)
		default:
			b.WriteString("No available slots match the request.\n")
		}
		return b.String()
	}

	if len(slots) == 0 {
		b.WriteString("No available slots match the request.\n")
		return b.String()
	}
	b.WriteString("**Available slots**\n\n")
	for i := range slots {
		if i == maxListedSlots {
			fmt.Fprintf(&b, "- ...and %d more\n", len(slots)-maxListedSlots)
			break
		}
		writeSlot(&b, &slots[i])
	}
	return b.String()
}

func writeSlot(b *strings.Builder, s *model.Slot) {
	lawyer := fmt.Sprintf("lawyer %d", s.LawyerID)
	if s.Lawyer != nil {
		lawyer = fmt.Sprintf("%s %s (%s, ID %d)", s.Lawyer.FirstName, s.Lawyer.SecondName, s.Lawyer.Speciality, s.Lawyer.ID)
	}
	fmt.Fprintf(b, "- %s: %s to %s (slot %d)\n",
		lawyer,
		s.DateStart.UTC().Format("2006-01-02 15:04"),
		s.DateEnd.UTC().Format("15:04"),
		s.ID)
}
