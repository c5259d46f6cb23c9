package lms

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

const coursesPayload = `[
	{"id": 101, "name": "Mathematics", "enrollments": [{"computed_current_score": 91.2, "computed_current_grade": "A-"}]},
	{"id": 102, "name": "History", "enrollments": []}
]`

const upcomingPayload = `[
	{"title": "Essay Draft", "context_name": "History", "assignment": {"due_at": "2024-05-10T23:59:00Z", "points_possible": 50}},
	{"title": "Assembly", "context_name": "Homeroom"}
]`

const announcementsPayload = `[
	{"title": "Exam schedule posted", "posted_at": "2024-05-06T08:00:00Z", "context_code": "course_101"}
]`

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.Client(), srv.URL, "test-key")
}

func fullHandler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/courses", func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("Authorization = %q, want bearer key", got)
		}
		fmt.Fprint(w, coursesPayload)
	})
	mux.HandleFunc("/api/v1/users/self/upcoming_events", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, upcomingPayload)
	})
	mux.HandleFunc("/api/v1/announcements", func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.RawQuery, "context_codes") {
			t.Error("announcements request missing context codes")
		}
		fmt.Fprint(w, announcementsPayload)
	})
	return mux
}

func TestFetchAllComplete(t *testing.T) {
	client := newTestClient(t, fullHandler(t))
	res := client.FetchAll(context.Background())

	if res.Fallback {
		t.Fatalf("unexpected fallback: %s", res.Reason)
	}

	info := res.Data
	if len(info.Grades) != 2 {
		t.Fatalf("grades = %d, want 2", len(info.Grades))
	}
	if info.Grades[0].Course != "Mathematics" || info.Grades[0].CurrentGrade != "A-" {
		t.Errorf("grade = %+v, want Mathematics A-", info.Grades[0])
	}
	if info.Grades[1].CurrentScore != nil {
		t.Error("course without enrollments should carry no score")
	}

	// Non-assignment upcoming events are filtered out.
	if len(info.Assignments) != 1 || info.Assignments[0].Title != "Essay Draft" {
		t.Errorf("assignments = %+v, want only Essay Draft", info.Assignments)
	}

	if len(info.Announcements) != 1 || info.Announcements[0].Course != "Mathematics" {
		t.Errorf("announcements = %+v, want one tagged Mathematics", info.Announcements)
	}
}

func TestFetchAllPartialFailure(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/courses", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, coursesPayload)
	})
	mux.HandleFunc("/api/v1/announcements", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, announcementsPayload)
	})
	mux.HandleFunc("/api/v1/users/self/upcoming_events", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusNotFound)
	})

	client := newTestClient(t, mux)
	res := client.FetchAll(context.Background())

	if res.Fallback {
		t.Fatalf("two sub-calls succeeded; result must be success, got fallback: %s", res.Reason)
	}
	if len(res.Data.Assignments) != 0 {
		t.Error("failed assignments call should leave the list empty")
	}
	if len(res.Data.Grades) == 0 || len(res.Data.Announcements) == 0 {
		t.Error("successful sub-calls missing from result")
	}
}

func TestFetchAllEverythingFails(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))

	res := client.FetchAll(context.Background())
	if !res.Fallback {
		t.Fatal("expected fallback when every sub-call fails")
	}
	if len(res.Data.Assignments) == 0 {
		t.Error("fallback must carry mock data")
	}
}

func TestAnnouncementsInheritCoursesFailure(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/courses", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusNotFound)
	})
	mux.HandleFunc("/api/v1/users/self/upcoming_events", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, upcomingPayload)
	})

	client := newTestClient(t, mux)
	res := client.FetchAll(context.Background())

	// Assignments succeeded, so the section overall stays a success.
	if res.Fallback {
		t.Fatalf("unexpected fallback: %s", res.Reason)
	}
	if len(res.Data.Announcements) != 0 || len(res.Data.Grades) != 0 {
		t.Error("courses-dependent lists should be empty after courses failure")
	}
}
