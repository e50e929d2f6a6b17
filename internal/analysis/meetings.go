package analysis

import (
	"fmt"

	"pulse/internal/domain"
	"pulse/internal/lexicon"
)

const meetingExcerptLimit = 150

// MeetingAttendee records a confirmed sync attendance.
type MeetingAttendee struct {
	Name    string `json:"name"`
	Context string `json:"context"`
}

// MeetingAbsence records an announced sync absence with an optional reason.
type MeetingAbsence struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// MeetingReport summarizes sync-meeting mentions in the period.
type MeetingReport struct {
	Detected  bool              `json:"meetings_detected"`
	Mentions  int               `json:"num_meetings"`
	Attendees []MeetingAttendee `json:"attendees"`
	Absences  []MeetingAbsence  `json:"absences"`
}

// Summarize implements Signal.
func (r MeetingReport) Summarize() string {
	if !r.Detected {
		return "no sync meetings detected"
	}
	return fmt.Sprintf("%d sync mentions, %d attending, %d absent", r.Mentions, len(r.Attendees), len(r.Absences))
}

// Meetings scans for sync-meeting mentions. For each mention, attendance and
// absence keywords are tested separately, so one message can land in both
// lists. An absence keeps the full excerpt as its reason when a causal
// connector is present, else the reason stays unspecified.
func (a *Analyzer) Meetings(messages []domain.Message) MeetingReport {
	report := MeetingReport{Attendees: []MeetingAttendee{}, Absences: []MeetingAbsence{}}

	for _, msg := range messages {
		if !a.lex.Matches(msg.Text, lexicon.Meeting) {
			continue
		}
		report.Mentions++

		if a.lex.Matches(msg.Text, lexicon.Attendance) {
			report.Attendees = append(report.Attendees, MeetingAttendee{
				Name:    msg.UserName,
				Context: prefix(msg.Text, blockerContextLimit),
			})
		}

		if a.lex.Matches(msg.Text, lexicon.MeetingAbsence) {
			reason := "unspecified"
			if a.lex.Matches(msg.Text, lexicon.Reason) {
				reason = prefix(msg.Text, meetingExcerptLimit)
			}
			report.Absences = append(report.Absences, MeetingAbsence{
				Name:   msg.UserName,
				Reason: reason,
			})
		}
	}

	report.Detected = report.Mentions > 0
	return report
}
