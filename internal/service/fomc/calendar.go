// Package fomc resolves FOMC decision dates from the Federal Reserve's
// public meeting calendar, with a pinned fallback schedule for when the
// page cannot be fetched or parsed.
package fomc

import (
	"context"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"RateWatch/internal/domain/models"
	"RateWatch/internal/domain/repository"
	xhttp "RateWatch/pkg/http"
	"RateWatch/pkg/logger"
)

// The calendar page groups meetings into one panel per year. Each meeting
// row carries the month name(s) and a day range; the decision lands on the
// last day of the range.
var (
	yearHeadingRe = regexp.MustCompile(`(\d{4})\s+FOMC\s+Meetings`)
	monthRe       = regexp.MustCompile(`fomc-meeting__month[^>]*>(?:\s*<strong>)?\s*([A-Za-z/]+)`)
	dateRe        = regexp.MustCompile(`fomc-meeting__date[^>]*>\s*([^<]+)`)
	dayRe         = regexp.MustCompile(`\d+`)
)

var monthIndex = map[string]time.Month{
	"january": time.January, "february": time.February, "march": time.March,
	"april": time.April, "may": time.May, "june": time.June,
	"july": time.July, "august": time.August, "september": time.September,
	"october": time.October, "november": time.November, "december": time.December,
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "jun": time.June, "jul": time.July,
	"aug": time.August, "sep": time.September, "oct": time.October,
	"nov": time.November, "dec": time.December,
}

// fallbackSchedule is the published schedule as of mid-2025. Used verbatim
// when the live page is unreachable.
var fallbackSchedule = [][3]int{
	{2025, 1, 29}, {2025, 3, 19}, {2025, 5, 7}, {2025, 6, 18},
	{2025, 7, 30}, {2025, 9, 17}, {2025, 10, 29}, {2025, 12, 10},
	{2026, 1, 28}, {2026, 3, 18}, {2026, 4, 29}, {2026, 6, 17},
	{2026, 7, 29}, {2026, 9, 16}, {2026, 10, 28}, {2026, 12, 9},
	{2027, 1, 27}, {2027, 3, 17}, {2027, 4, 28}, {2027, 6, 9},
	{2027, 7, 28}, {2027, 9, 15}, {2027, 10, 27}, {2027, 12, 8},
}

// Resolver fetches and caches the meeting schedule for the lifetime of the
// process. The first lookup triggers the fetch; later calls are served from
// memory.
type Resolver struct {
	url     string
	client  *xhttp.Client
	log     *logger.Logger
	metrics repository.Metrics
	now     func() time.Time

	mu       sync.Mutex
	loaded   bool
	meetings []time.Time
	source   models.DataSource
}

func NewResolver(url string, client *xhttp.Client, log *logger.Logger, metrics repository.Metrics) *Resolver {
	return &Resolver{
		url:     url,
		client:  client,
		log:     log,
		metrics: metrics,
		now:     time.Now,
		source:  models.SourceNone,
	}
}

// load populates the cache on first call. The caller must hold r.mu.
func (r *Resolver) load(ctx context.Context) {
	if r.loaded {
		return
	}
	r.loaded = true

	var body []byte
	err := r.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    r.url,
	}, &body)
	if err == nil {
		if meetings := parseCalendarPage(string(body)); len(meetings) > 0 {
			r.meetings = meetings
			r.source = models.SourceLive
			r.log.Info("loaded meeting calendar",
				logger.Int("meetings", len(meetings)),
				logger.String("source", string(models.SourceLive)))
			return
		}
		r.log.Warn("calendar page yielded no meetings", logger.String("url", r.url))
	} else {
		r.log.Warn("calendar fetch failed", logger.Error(err))
	}

	r.metrics.RecordFallback("calendar")
	r.meetings = fallbackMeetings()
	r.source = models.SourceFallback
}

func fallbackMeetings() []time.Time {
	meetings := make([]time.Time, 0, len(fallbackSchedule))
	for _, m := range fallbackSchedule {
		meetings = append(meetings, time.Date(m[0], time.Month(m[1]), m[2], 0, 0, 0, 0, time.UTC))
	}
	return meetings
}

// parseCalendarPage extracts decision dates from the calendar HTML. Meetings
// that span a month boundary ("Jan/Feb") end in the second month.
func parseCalendarPage(html string) []time.Time {
	headings := yearHeadingRe.FindAllStringSubmatchIndex(html, -1)
	var meetings []time.Time

	for i, h := range headings {
		year, err := strconv.Atoi(html[h[2]:h[3]])
		if err != nil {
			continue
		}
		end := len(html)
		if i+1 < len(headings) {
			end = headings[i+1][0]
		}
		section := html[h[1]:end]

		months := monthRe.FindAllStringSubmatch(section, -1)
		dates := dateRe.FindAllStringSubmatch(section, -1)
		n := len(months)
		if len(dates) < n {
			n = len(dates)
		}

		for j := 0; j < n; j++ {
			month, nextYear, ok := parseMeetingMonth(months[j][1])
			if !ok {
				continue
			}
			day, ok := parseDecisionDay(dates[j][1])
			if !ok {
				continue
			}
			y := year
			if nextYear {
				y++
			}
			meetings = append(meetings, time.Date(y, month, day, 0, 0, 0, 0, time.UTC))
		}
	}

	sort.Slice(meetings, func(a, b int) bool { return meetings[a].Before(meetings[b]) })
	return meetings
}

// parseMeetingMonth resolves the month a meeting ends in. A two-month pair
// ends in the second month; a pair that wraps the year end ("Dec/Jan") ends
// in the next year's first month.
func parseMeetingMonth(raw string) (time.Month, bool, bool) {
	parts := strings.Split(raw, "/")
	last, ok := monthIndex[normalizeMonth(parts[len(parts)-1])]
	if !ok {
		return 0, false, false
	}
	if len(parts) > 1 {
		if first, ok := monthIndex[normalizeMonth(parts[0])]; ok && last < first {
			return last, true, true
		}
	}
	return last, false, true
}

func normalizeMonth(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// parseDecisionDay takes the last day of a range like "28-29" or "16-17*".
func parseDecisionDay(raw string) (int, bool) {
	days := dayRe.FindAllString(raw, -1)
	if len(days) == 0 {
		return 0, false
	}
	day, err := strconv.Atoi(days[len(days)-1])
	if err != nil || day < 1 || day > 31 {
		return 0, false
	}
	return day, true
}

// AllMeetings returns every known decision date, ascending.
func (r *Resolver) AllMeetings(ctx context.Context) []time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.load(ctx)

	out := make([]time.Time, len(r.meetings))
	copy(out, r.meetings)
	return out
}

// UpcomingMeetings returns up to count decision dates strictly after today.
// A meeting happening today has already priced in its outcome.
func (r *Resolver) UpcomingMeetings(ctx context.Context, count int) []time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.load(ctx)

	today := truncateDay(r.now())
	out := make([]time.Time, 0, count)
	for _, m := range r.meetings {
		if !m.After(today) {
			continue
		}
		out = append(out, m)
		if len(out) == count {
			break
		}
	}
	return out
}

// NextMeeting returns the nearest decision date after today.
func (r *Resolver) NextMeeting(ctx context.Context) (time.Time, bool) {
	upcoming := r.UpcomingMeetings(ctx, 1)
	if len(upcoming) == 0 {
		return time.Time{}, false
	}
	return upcoming[0], true
}

// DaysUntilNextMeeting returns whole calendar days to the next decision.
func (r *Resolver) DaysUntilNextMeeting(ctx context.Context) (int, bool) {
	next, ok := r.NextMeeting(ctx)
	if !ok {
		return 0, false
	}
	days := int(next.Sub(truncateDay(r.now())).Hours() / 24)
	return days, true
}

// Source reports where the cached schedule came from. SourceNone until the
// first lookup.
func (r *Resolver) Source() models.DataSource {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.source
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

var _ repository.MeetingCalendar = (*Resolver)(nil)
