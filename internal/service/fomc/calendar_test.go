package fomc

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"RateWatch/internal/domain/models"
	xhttp "RateWatch/pkg/http"
	"RateWatch/pkg/logger"
	"RateWatch/pkg/metrics"
)

const calendarFixture = `
<div class="panel panel-default">
  <div class="panel-heading"><h4>2025 FOMC Meetings</h4></div>
  <div class="fomc-meeting__month"><strong>January</strong></div>
  <div class="fomc-meeting__date">28-29</div>
  <div class="fomc-meeting__month"><strong>March</strong></div>
  <div class="fomc-meeting__date">18-19*</div>
  <div class="fomc-meeting__month"><strong>June</strong></div>
  <div class="fomc-meeting__date">17-18</div>
</div>
<div class="panel panel-default">
  <div class="panel-heading"><h4>2026 FOMC Meetings</h4></div>
  <div class="fomc-meeting__month"><strong>Jan/Feb</strong></div>
  <div class="fomc-meeting__date">27-28</div>
  <div class="fomc-meeting__month"><strong>March</strong></div>
  <div class="fomc-meeting__date">17-18</div>
  <div class="fomc-meeting__month"><strong>Dec/Jan</strong></div>
  <div class="fomc-meeting__date">8-9</div>
</div>
`

func newTestResolver(t *testing.T, url string) *Resolver {
	t.Helper()
	log, err := logger.New(&logger.Config{Level: "error", Format: "json", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	rec := metrics.NewWithRegistry(prometheus.NewRegistry())
	return NewResolver(url, xhttp.NewClient(xhttp.WithTimeout(2*time.Second)), log, rec)
}

func TestParseCalendarPage(t *testing.T) {
	meetings := parseCalendarPage(calendarFixture)
	want := []time.Time{
		time.Date(2025, 1, 29, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 3, 19, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 6, 18, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 18, 0, 0, 0, 0, time.UTC),
		time.Date(2027, 1, 9, 0, 0, 0, 0, time.UTC),
	}
	if len(meetings) != len(want) {
		t.Fatalf("parsed %d meetings, want %d: %v", len(meetings), len(want), meetings)
	}
	for i, w := range want {
		if !meetings[i].Equal(w) {
			t.Fatalf("meeting %d = %s, want %s", i, meetings[i], w)
		}
	}
}

func TestResolverLiveSchedule(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(calendarFixture))
	}))
	defer srv.Close()

	r := newTestResolver(t, srv.URL)
	r.now = func() time.Time { return time.Date(2025, 4, 1, 12, 0, 0, 0, time.UTC) }

	upcoming := r.UpcomingMeetings(context.Background(), 2)
	if len(upcoming) != 2 {
		t.Fatalf("got %d upcoming meetings, want 2", len(upcoming))
	}
	if upcoming[0] != time.Date(2025, 6, 18, 0, 0, 0, 0, time.UTC) {
		t.Fatalf("first upcoming = %s", upcoming[0])
	}
	if r.Source() != models.SourceLive {
		t.Fatalf("source = %s, want live", r.Source())
	}
}

func TestResolverFallsBackOnFetchError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	r := newTestResolver(t, srv.URL)
	all := r.AllMeetings(context.Background())
	if len(all) != len(fallbackSchedule) {
		t.Fatalf("got %d fallback meetings, want %d", len(all), len(fallbackSchedule))
	}
	if r.Source() != models.SourceFallback {
		t.Fatalf("source = %s, want fallback", r.Source())
	}
}

func TestResolverFallsBackOnUnparseablePage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("<html><body>maintenance</body></html>"))
	}))
	defer srv.Close()

	r := newTestResolver(t, srv.URL)
	if got := r.AllMeetings(context.Background()); len(got) != len(fallbackSchedule) {
		t.Fatalf("got %d meetings, want the fallback schedule", len(got))
	}
	if r.Source() != models.SourceFallback {
		t.Fatalf("source = %s, want fallback", r.Source())
	}
}

func TestResolverFetchesOnce(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits++
		w.Write([]byte(calendarFixture))
	}))
	defer srv.Close()

	r := newTestResolver(t, srv.URL)
	ctx := context.Background()
	r.AllMeetings(ctx)
	r.AllMeetings(ctx)
	r.UpcomingMeetings(ctx, 3)
	if hits != 1 {
		t.Fatalf("calendar fetched %d times, want 1", hits)
	}
}

func TestDaysUntilNextMeeting(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(calendarFixture))
	}))
	defer srv.Close()

	r := newTestResolver(t, srv.URL)
	r.now = func() time.Time { return time.Date(2025, 6, 10, 9, 30, 0, 0, time.UTC) }

	days, ok := r.DaysUntilNextMeeting(context.Background())
	if !ok {
		t.Fatal("expected a next meeting")
	}
	if days != 8 {
		t.Fatalf("days = %d, want 8", days)
	}
}

func TestUpcomingMeetingsExcludesToday(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(calendarFixture))
	}))
	defer srv.Close()

	r := newTestResolver(t, srv.URL)
	// Decision day itself: the outcome is no longer upcoming.
	r.now = func() time.Time { return time.Date(2025, 6, 18, 9, 0, 0, 0, time.UTC) }

	upcoming := r.UpcomingMeetings(context.Background(), 1)
	if len(upcoming) != 1 {
		t.Fatalf("got %d upcoming meetings, want 1", len(upcoming))
	}
	if upcoming[0] != time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC) {
		t.Fatalf("first upcoming = %s, want the meeting after today's", upcoming[0])
	}
}
