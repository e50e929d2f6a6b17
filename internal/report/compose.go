package report

import (
	"fmt"
	"time"
)

// Compose assembles the final message delivered to the lead: title line,
// metrics header, the model's report body with markup flattened, and the
// deep links section.
func Compose(channelName string, date time.Time, metrics Metrics, windowDays int, body string, links DeepLinks) string {
	return fmt.Sprintf("📊 *DAILY REPORT - #%s*\n%s\n\n%s%s%s",
		channelName,
		date.Format("02/01/2006"),
		metrics.Header(windowDays),
		FlattenBold(body),
		links.Render(),
	)
}
