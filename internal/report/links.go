package report

import (
	"fmt"
	"strings"
	"time"

	"pulse/internal/analysis"
	"pulse/internal/domain"
	"pulse/internal/lexicon"
)

const (
	maxUpdateLinks   = 5
	maxDecisionLinks = 3
	maxRiskLinks     = 3
	linkExcerptLimit = 50
)

// MessageLink points the reader at one source message in the channel.
type MessageLink struct {
	Text string
	User string
	URL  string
}

// DeepLinks groups the per-section jump links appended to the report.
type DeepLinks struct {
	Updates   []MessageLink
	Decisions []MessageLink
	Risks     []MessageLink
}

// BuildLinks collects jump links for the most relevant updates, open
// questions and risk mentions, capped per section.
func BuildLinks(channelID string, messages []domain.Message, updates []analysis.Update, lex *lexicon.Lexicon) DeepLinks {
	links := DeepLinks{}

	for _, update := range updates {
		if len(links.Updates) >= maxUpdateLinks {
			break
		}
		links.Updates = append(links.Updates, MessageLink{
			Text: linkExcerpt(update.Text),
			User: update.UserName,
			URL:  messageURL(channelID, update.Timestamp),
		})
	}

	for _, msg := range messages {
		if !strings.Contains(msg.Text, "?") {
			continue
		}
		links.Decisions = append(links.Decisions, MessageLink{
			Text: linkExcerpt(msg.Text),
			User: msg.UserName,
			URL:  messageURL(channelID, msg.Timestamp),
		})
		if len(links.Decisions) >= maxDecisionLinks {
			break
		}
	}

	for _, msg := range messages {
		if !lex.Matches(msg.Text, lexicon.Risk) {
			continue
		}
		links.Risks = append(links.Risks, MessageLink{
			Text: linkExcerpt(msg.Text),
			User: msg.UserName,
			URL:  messageURL(channelID, msg.Timestamp),
		})
		if len(links.Risks) >= maxRiskLinks {
			break
		}
	}

	return links
}

// Render writes the links section, skipping empty groups. Returns the empty
// string when no links were collected at all.
func (l DeepLinks) Render() string {
	if len(l.Updates) == 0 && len(l.Decisions) == 0 && len(l.Risks) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n\n----------\n")
	b.WriteString("🔗 *DETAIL LINKS*\n")
	b.WriteString("----------\n")

	writeGroup := func(title string, group []MessageLink) {
		if len(group) == 0 {
			return
		}
		fmt.Fprintf(&b, "\n*%s:*\n", title)
		for _, link := range group {
			fmt.Fprintf(&b, "• <%s|%s: %s>\n", link.URL, link.User, link.Text)
		}
	}
	writeGroup("Main updates", l.Updates)
	writeGroup("Decisions and questions", l.Decisions)
	writeGroup("Risk mentions", l.Risks)

	return b.String()
}

func messageURL(channelID string, ts time.Time) string {
	stamp := fmt.Sprintf("%d.%06d", ts.Unix(), ts.Nanosecond()/1000)
	return fmt.Sprintf("https://slack.com/app_redirect?channel=%s&message_ts=%s", channelID, stamp)
}

func linkExcerpt(text string) string {
	runes := []rune(text)
	if len(runes) <= linkExcerptLimit {
		return text
	}
	return string(runes[:linkExcerptLimit]) + "..."
}
