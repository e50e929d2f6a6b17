package lexicon

import "strings"

// Category names a curated keyword set. Extractors refer to categories, never
// to inline keyword lists, so the vocabulary can be swapped through config
// without touching classifier logic.
type Category string

const (
	Frustration     Category = "frustration"
	Enthusiasm      Category = "enthusiasm"
	Concern         Category = "concern"
	Blocker         Category = "blocker"
	Unblock         Category = "unblock"
	Waiting         Category = "waiting"
	Decision        Category = "decision"
	Question        Category = "question"
	UrgencyCritical Category = "urgency_critical"
	UrgencyHigh     Category = "urgency_high"
	UrgencyMedium   Category = "urgency_medium"
	UrgencyLow      Category = "urgency_low"
	Deadline        Category = "deadline"
	ClientImpact    Category = "client_impact"
	Update          Category = "update"
	Technical       Category = "technical"
	Coordination    Category = "coordination"
	Meeting         Category = "meeting"
	Attendance      Category = "attendance"
	MeetingAbsence  Category = "meeting_absence"
	AbsenceNotice   Category = "absence_notice"
	Risk            Category = "risk"
	Positive        Category = "positive"
	Negative        Category = "negative"
	Delayed         Category = "delayed"
	BlockedStatus   Category = "blocked_status"
	Sensitivity     Category = "sensitivity"
	Objective       Category = "objective"
	Reason          Category = "reason"
	NextSteps       Category = "next_steps"
	Deviation       Category = "deviation"
)

// Lexicon holds ordered keyword sets per category. Matching is a
// case-insensitive substring containment test; order inside a set decides
// which keyword FirstMatch reports.
type Lexicon struct {
	sets map[Category][]string
}

// New builds a lexicon from explicit category sets. Keywords are normalized
// to lower case.
func New(sets map[Category][]string) *Lexicon {
	normalized := make(map[Category][]string, len(sets))
	for cat, words := range sets {
		list := make([]string, 0, len(words))
		for _, w := range words {
			w = strings.ToLower(strings.TrimSpace(w))
			if w != "" {
				list = append(list, w)
			}
		}
		normalized[cat] = list
	}
	return &Lexicon{sets: normalized}
}

// Merge overlays category sets from configuration on top of the current
// lexicon. An override replaces the whole category; unknown category names
// create new sets so custom vocabularies keep working.
func (l *Lexicon) Merge(overrides map[string][]string) {
	for name, words := range overrides {
		if len(words) == 0 {
			continue
		}
		list := make([]string, 0, len(words))
		for _, w := range words {
			w = strings.ToLower(strings.TrimSpace(w))
			if w != "" {
				list = append(list, w)
			}
		}
		l.sets[Category(name)] = list
	}
}

// Set returns the ordered keyword list for a category.
func (l *Lexicon) Set(cat Category) []string {
	return l.sets[cat]
}

// Matches reports whether any keyword of the category occurs in the text.
func (l *Lexicon) Matches(text string, cat Category) bool {
	_, ok := l.FirstMatch(text, cat)
	return ok
}

// FirstMatch returns the first keyword (in set order) contained in the
// lowercased text.
func (l *Lexicon) FirstMatch(text string, cat Category) (string, bool) {
	lowered := strings.ToLower(text)
	for _, kw := range l.sets[cat] {
		if strings.Contains(lowered, kw) {
			return kw, true
		}
	}
	return "", false
}

// AllMatches returns every keyword of the category contained in the text, in
// set order. A single text can hit multiple keywords of one set.
func (l *Lexicon) AllMatches(text string, cat Category) []string {
	lowered := strings.ToLower(text)
	var hits []string
	for _, kw := range l.sets[cat] {
		if strings.Contains(lowered, kw) {
			hits = append(hits, kw)
		}
	}
	return hits
}
