package report

import (
	"fmt"
	"strings"

	"pulse/internal/analysis"
	"pulse/internal/domain"
)

const (
	maxHealthSignals  = 5
	maxCapacityBlocks = 2
)

// UserBaselineView joins one active user's activity today with the stored
// historical baseline, ready for the baseline section of the context.
type UserBaselineView struct {
	Name          string
	MessagesToday int
	Baseline      *domain.Baseline
	Comparison    domain.Comparison
}

// InactiveMember is a channel member with no messages today plus the cause
// inference attributed it, if any.
type InactiveMember struct {
	Name   string
	Reason string
}

// Context bundles every extractor output for one report run. It is owned by
// the orchestrator for the duration of the run and discarded afterwards.
type Context struct {
	ChannelName     string
	WindowDays      int
	BaselineDays    int
	Messages        []domain.Message
	Updates         []analysis.Update
	Status          analysis.StatusResult
	Progress        analysis.ProgressResult
	Capacities      []domain.CapacityProfile
	Decisions       analysis.DecisionReport
	Risks           []analysis.Risk
	Meetings        analysis.MeetingReport
	Health          analysis.HealthResult
	Sentiment       analysis.SentimentResult
	Participation   []*analysis.ParticipationProfile
	Causes          []analysis.InferredCause
	ChannelBaseline *domain.Baseline
	Users           []UserBaselineView
}

// TeamState derives the active/inactive split from the capacity profiles,
// attaching inferred causes to the inactive members.
func (c *Context) TeamState() (active int, inactive []InactiveMember) {
	causeByName := map[string]string{}
	for _, cause := range c.Causes {
		causeByName[cause.UserName] = cause.Cause
	}

	for _, cap := range c.Capacities {
		if cap.MessagesToday > 0 {
			active++
			continue
		}
		reason := "unknown"
		if cause, ok := causeByName[cap.Name]; ok {
			reason = cause
		}
		inactive = append(inactive, InactiveMember{Name: cap.Name, Reason: reason})
	}
	return active, inactive
}

// signals lists every tagged extractor result behind the shared summary
// capability, so sections that only need one-line summaries never inspect
// the concrete types.
func (c *Context) signals() []analysis.Signal {
	sigs := []analysis.Signal{
		c.Sentiment,
		c.Health,
		c.Status,
		c.Progress,
		c.Decisions,
		c.Meetings,
	}
	for _, p := range c.Participation {
		sigs = append(sigs, *p)
	}
	for _, cause := range c.Causes {
		sigs = append(sigs, cause)
	}
	return sigs
}

// Structured renders the machine-derived project facts: status, progress,
// per-person capacity, pending counts, team state and meeting attendance.
func (c *Context) Structured() string {
	var b strings.Builder

	b.WriteString("🎯 PROJECT STATE (automated analysis):\n")
	fmt.Fprintf(&b, "- Status: %s\n", c.Status.StatusText)
	fmt.Fprintf(&b, "- Sensitivity: %s\n", c.Status.SensitivityText)
	fmt.Fprintf(&b, "- Resources: %s\n", c.Status.ResourcesText)

	b.WriteString("\n📊 PROGRESS:\n")
	fmt.Fprintf(&b, "- Stated objective: %s\n", orUnspecified(c.Progress.Objective))
	fmt.Fprintf(&b, "- Current progress: %s\n", c.Progress.Progress)
	fmt.Fprintf(&b, "- Deadline: %s\n", orUnspecified(c.Progress.Deadline))
	fmt.Fprintf(&b, "- Deviation reason: %s\n", orNA(c.Progress.DeviationReason))

	b.WriteString("\n👥 CAPACITY PER PERSON:\n")
	for _, cap := range c.Capacities {
		fmt.Fprintf(&b, "\n%s:\n", cap.Name)
		fmt.Fprintf(&b, "  - Load: %s\n", cap.LoadDetail)
		fmt.Fprintf(&b, "  - Availability: %s\n", cap.AvailabilityDetail)
		blockers := cap.Blockers
		if len(blockers) > maxCapacityBlocks {
			blockers = blockers[:maxCapacityBlocks]
		}
		fmt.Fprintf(&b, "  - Blockers: %s\n", strings.Join(blockers, ", "))
		fmt.Fprintf(&b, "  - Releasable: %s\n", cap.ReleasableDetail)
	}

	fmt.Fprintf(&b, "\n⚠️ DECISIONS REQUIRED: %d pending\n", c.Decisions.TotalPending)
	fmt.Fprintf(&b, "🔴 CRITICAL RISKS: %d detected\n", len(c.Risks))

	active, inactive := c.TeamState()
	b.WriteString("\n👥 TEAM STATE:\n")
	fmt.Fprintf(&b, "  - Total members: %d\n", len(c.Capacities))
	fmt.Fprintf(&b, "  - Active today: %d\n", active)
	fmt.Fprintf(&b, "  - Inactive today: %d\n", len(inactive))
	if len(inactive) > 0 {
		b.WriteString("  - Inactive members:\n")
		for _, m := range inactive {
			fmt.Fprintf(&b, "    • %s: %s\n", m.Name, m.Reason)
		}
	}

	b.WriteString("\n📞 SYNC MEETING ATTENDANCE:\n")
	if c.Meetings.Detected {
		fmt.Fprintf(&b, "  - Mentions detected: %d\n", c.Meetings.Mentions)
		names := make([]string, 0, len(c.Meetings.Attendees))
		for _, att := range c.Meetings.Attendees {
			names = append(names, att.Name)
		}
		attending := "none recorded"
		if len(names) > 0 {
			attending = strings.Join(names, ", ")
		}
		fmt.Fprintf(&b, "  - Attending: %s\n", attending)
		if len(c.Meetings.Absences) > 0 {
			b.WriteString("  - Absences:\n")
			for _, abs := range c.Meetings.Absences {
				fmt.Fprintf(&b, "    • %s: %s\n", abs.Name, abs.Reason)
			}
		}
	} else {
		b.WriteString("  - No sync meetings detected in the period\n")
	}

	return b.String()
}

// Automated renders the signal-level section: health score with top signals,
// participation quality and inferred causes with their evidence.
func (c *Context) Automated() string {
	var b strings.Builder

	b.WriteString("🤖 AUTOMATED ANALYSIS:\n")
	b.WriteString("----------\n")
	fmt.Fprintf(&b, "📊 *Project health:* %d/100\n", c.Health.Score)

	writeSignals := func(title string, signals []analysis.HealthSignal) {
		if len(signals) == 0 {
			return
		}
		if len(signals) > maxHealthSignals {
			signals = signals[:maxHealthSignals]
		}
		fmt.Fprintf(&b, "\n%s\n", title)
		for _, sig := range signals {
			fmt.Fprintf(&b, "  • %s: %s - %s\n", sig.User, sig.Keyword, sig.Context)
		}
	}
	writeSignals("✅ *Positive signals:*", c.Health.Positive)
	writeSignals("⚠️ *Negative signals:*", c.Health.Negative)

	if len(c.Participation) > 0 {
		b.WriteString("\n👥 *Participation quality:*\n")
		for _, profile := range c.Participation {
			fmt.Fprintf(&b, "  • %s\n", profile.Summarize())
		}
	}

	if len(c.Causes) > 0 {
		b.WriteString("\n🔍 *Inferred causes:*\n")
		for _, cause := range c.Causes {
			fmt.Fprintf(&b, "  • %s\n", cause.Summarize())
			for _, ev := range cause.Evidence {
				fmt.Fprintf(&b, "    - %s\n", ev)
			}
		}
	}

	b.WriteString("\n📌 *Signal summaries:*\n")
	for _, sig := range c.signals() {
		fmt.Fprintf(&b, "  • %s\n", sig.Summarize())
	}

	b.WriteString("----------\n")
	return b.String()
}

// BaselineSection renders the channel and per-user historical comparisons.
func (c *Context) BaselineSection() string {
	var b strings.Builder

	if c.ChannelBaseline != nil {
		comparison := analysis.Compare(float64(len(c.Messages)), c.ChannelBaseline.AvgMessagesPerDay, "channel messages")
		fmt.Fprintf(&b, "\n📊 CHANNEL BASELINE (last %d days):\n", c.BaselineDays)
		fmt.Fprintf(&b, "• Average messages/day: %g\n", c.ChannelBaseline.AvgMessagesPerDay)
		fmt.Fprintf(&b, "• Today: %d messages\n", len(c.Messages))
		fmt.Fprintf(&b, "• Comparison: %s\n", comparison.Message)
	}

	b.WriteString("\n📊 PER-USER BASELINE:\n")
	for _, user := range c.Users {
		fmt.Fprintf(&b, "\n*%s*:\n", user.Name)
		fmt.Fprintf(&b, "• Messages today: %d\n", user.MessagesToday)
		if user.Baseline != nil {
			fmt.Fprintf(&b, "• Average last %d days: %g/day\n", c.BaselineDays, user.Baseline.AvgMessagesPerDay)
			fmt.Fprintf(&b, "• Days active: %d/%d (%.1f%%)\n", user.Baseline.DaysActive, c.BaselineDays, user.Baseline.ParticipationRate)
			if user.Comparison.HasBaseline {
				fmt.Fprintf(&b, "• %s\n", user.Comparison.Message)
			}
		} else {
			b.WriteString("• No usable history (new or rarely active user)\n")
		}
	}
	return b.String()
}

// Conversation renders the raw message excerpt fed to the model.
func (c *Context) Conversation() string {
	lines := make([]string, 0, len(c.Messages))
	for _, msg := range c.Messages {
		lines = append(lines, fmt.Sprintf("*%s*: %s", msg.UserName, msg.Text))
	}
	return strings.Join(lines, "\n")
}

// UpdatesSection renders the pre-filtered project updates, or nothing when
// none were detected.
func (c *Context) UpdatesSection() string {
	if len(c.Updates) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("\n📋 PROJECT UPDATES (pre-filtered):\n")
	b.WriteString("----------\n")
	for _, update := range c.Updates {
		fmt.Fprintf(&b, "• *%s*: %s\n", update.UserName, update.Text)
	}
	b.WriteString("----------\n")
	return b.String()
}

// Prompt assembles the full direct-mode prompt: conversation excerpt,
// updates, structured facts, automated signals, baselines and the report
// template instructions.
func (c *Context) Prompt() string {
	var b strings.Builder

	b.WriteString("You are an executive analyst producing STANDALONE daily reports (assume the reader remembers nothing).\n\n")
	fmt.Fprintf(&b, "CHANNEL DATA #%s:\n", c.ChannelName)
	b.WriteString("----------\n")
	b.WriteString(c.Conversation())
	b.WriteString("\n----------\n")
	b.WriteString(c.UpdatesSection())
	b.WriteString("\n")
	b.WriteString(c.Structured())
	b.WriteString("\n")
	b.WriteString(c.Automated())
	b.WriteString(c.BaselineSection())

	b.WriteString(`

CRITICAL INSTRUCTIONS:
1. NEVER use generic language, ALWAYS full names
2. EVERY claim MUST carry: NAME + NUMBER + WHY
3. Assume no reader memory, each report stands alone
4. Use ONLY data from the automated analysis above
5. Quantify EVERYTHING (numbers, dates, percentages)
6. When data is missing say "Not specified" instead of inventing

Produce the report in this EXACT format:

----------
🎯 *PROJECT STATE*
----------
[status, sensitivity and resources lines from the automated analysis]

----------
📋 *PROJECT UPDATES*
----------
[chronological list "• NAME: specific update text", or "No updates reported today"]

----------
👥 *TEAM STATE*
----------
[member totals, then one line per inactive member "• NAME: reason", or "Everyone participated today"]

----------
📞 *SYNC MEETING ATTENDANCE*
----------
[detected meetings with attendees and absences, or "No sync meetings detected"]

----------
👥 *RESOURCES AND CAPACITY*
----------
[for EVERY person in the capacity analysis: load, availability, blockers, releasable]

----------
⚠️ *DECISIONS REQUIRED*
----------
[pending decisions "• WHO asks WHAT: specific text", or "No pending decisions"]

----------
🔴 *HIGH IMPACT RISKS*
----------
[critical risks with reporter, probability and impact, or "No critical risks detected"]

REMEMBER: specific names + concrete numbers + data-backed whys.`)

	return b.String()
}

func orUnspecified(s string) string {
	if s == "" {
		return "Not specified"
	}
	return s
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
