// Package lms fetches assignments, announcements, and grade summaries from a
// Canvas-style course-management API. The whole section is optional: the
// orchestrator skips it entirely unless a base URL and API key are
// configured.
package lms

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/kioskdash/kioskdash/internal/fetch"
)

// Assignment is one upcoming assignment.
type Assignment struct {
	Title          string     `json:"title"`
	Course         string     `json:"course"`
	DueAt          *time.Time `json:"due_at,omitempty"`
	PointsPossible float64    `json:"points_possible"`
}

// Announcement is one recent course announcement.
type Announcement struct {
	Title    string     `json:"title"`
	Course   string     `json:"course"`
	PostedAt *time.Time `json:"posted_at,omitempty"`
}

// CourseGrade is a per-course engagement/grade summary.
type CourseGrade struct {
	Course       string   `json:"course"`
	CurrentScore *float64 `json:"current_score,omitempty"`
	CurrentGrade string   `json:"current_grade,omitempty"`
}

// Info is the LMS section of the render context.
type Info struct {
	Assignments   []Assignment   `json:"assignments"`
	Announcements []Announcement `json:"announcements"`
	Grades        []CourseGrade  `json:"grades"`
}

// Client talks to the LMS REST API with a bearer API key.
type Client struct {
	baseURL string
	apiKey  string
	door    *fetch.Door
}

// NewClient creates a Client for the given base URL and API key.
func NewClient(httpClient *http.Client, baseURL, apiKey string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		door:    fetch.NewDoor("lms", httpClient),
	}
}

// FetchAll retrieves the three LMS sub-resources with the same partial
// composition as weather: each failure only empties its own list, and the
// whole section falls back to mock data only when every sub-resource fails.
func (c *Client) FetchAll(ctx context.Context) fetch.Result[Info] {
	return fetch.Guard("lms", MockInfo(time.Now()), func() (Info, error) {
		var info Info
		var failures []string

		courses, coursesErr := c.fetchCourses(ctx)
		if coursesErr != nil {
			log.Printf("WARN: lms courses failed: %v", coursesErr)
			failures = append(failures, fmt.Sprintf("courses: %v", coursesErr))
		} else {
			info.Grades = gradesFromCourses(courses)
		}

		assignments, err := c.fetchAssignments(ctx)
		if err != nil {
			log.Printf("WARN: lms assignments failed: %v", err)
			failures = append(failures, fmt.Sprintf("assignments: %v", err))
		} else {
			info.Assignments = assignments
		}

		announcements, err := c.fetchAnnouncements(ctx, courses, coursesErr)
		if err != nil {
			log.Printf("WARN: lms announcements failed: %v", err)
			failures = append(failures, fmt.Sprintf("announcements: %v", err))
		} else {
			info.Announcements = announcements
		}

		if len(failures) == 3 {
			return Info{}, fmt.Errorf("all lms sub-calls failed: %s", strings.Join(failures, "; "))
		}
		return info, nil
	})
}

type course struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Enrollments []struct {
		ComputedCurrentScore *float64 `json:"computed_current_score"`
		ComputedCurrentGrade string   `json:"computed_current_grade"`
	} `json:"enrollments"`
}

func (c *Client) fetchCourses(ctx context.Context) ([]course, error) {
	var courses []course
	u := c.baseURL + "/api/v1/courses?enrollment_state=active&include[]=total_scores"
	if err := c.door.GetJSON(ctx, u, c.headers(), &courses); err != nil {
		return nil, err
	}
	return courses, nil
}

func gradesFromCourses(courses []course) []CourseGrade {
	grades := make([]CourseGrade, 0, len(courses))
	for _, crs := range courses {
		g := CourseGrade{Course: crs.Name}
		if len(crs.Enrollments) > 0 {
			g.CurrentScore = crs.Enrollments[0].ComputedCurrentScore
			g.CurrentGrade = crs.Enrollments[0].ComputedCurrentGrade
		}
		grades = append(grades, g)
	}
	return grades
}

func (c *Client) fetchAssignments(ctx context.Context) ([]Assignment, error) {
	var payload []struct {
		Title       string `json:"title"`
		ContextName string `json:"context_name"`
		Assignment  *struct {
			DueAt          *time.Time `json:"due_at"`
			PointsPossible float64    `json:"points_possible"`
		} `json:"assignment"`
	}

	u := c.baseURL + "/api/v1/users/self/upcoming_events"
	if err := c.door.GetJSON(ctx, u, c.headers(), &payload); err != nil {
		return nil, err
	}

	var assignments []Assignment
	for _, entry := range payload {
		// Upcoming events include non-assignment calendar entries; only
		// assignment-backed ones belong on the dashboard.
		if entry.Assignment == nil {
			continue
		}
		assignments = append(assignments, Assignment{
			Title:          entry.Title,
			Course:         entry.ContextName,
			DueAt:          entry.Assignment.DueAt,
			PointsPossible: entry.Assignment.PointsPossible,
		})
	}
	return assignments, nil
}

// fetchAnnouncements needs course context codes, so it inherits a courses
// failure as its own.
func (c *Client) fetchAnnouncements(ctx context.Context, courses []course, coursesErr error) ([]Announcement, error) {
	if coursesErr != nil {
		return nil, fmt.Errorf("course list unavailable: %w", coursesErr)
	}
	if len(courses) == 0 {
		return nil, nil
	}

	nameByCode := make(map[string]string, len(courses))
	params := url.Values{}
	for _, crs := range courses {
		code := fmt.Sprintf("course_%d", crs.ID)
		params.Add("context_codes[]", code)
		nameByCode[code] = crs.Name
	}

	var payload []struct {
		Title       string     `json:"title"`
		PostedAt    *time.Time `json:"posted_at"`
		ContextCode string     `json:"context_code"`
	}

	u := c.baseURL + "/api/v1/announcements?" + params.Encode()
	if err := c.door.GetJSON(ctx, u, c.headers(), &payload); err != nil {
		return nil, err
	}

	announcements := make([]Announcement, 0, len(payload))
	for _, entry := range payload {
		announcements = append(announcements, Announcement{
			Title:    entry.Title,
			Course:   nameByCode[entry.ContextCode],
			PostedAt: entry.PostedAt,
		})
	}
	return announcements, nil
}

func (c *Client) headers() map[string]string {
	return map[string]string{"Authorization": "Bearer " + c.apiKey}
}

// MockInfo is the canned LMS section for when the API is configured but
// completely unreachable.
func MockInfo(now time.Time) Info {
	due := now.AddDate(0, 0, 2)
	posted := now.AddDate(0, 0, -1)
	score := 87.5
	return Info{
		Assignments: []Assignment{
			{Title: "Problem Set 4", Course: "Mathematics", DueAt: &due, PointsPossible: 100},
		},
		Announcements: []Announcement{
			{Title: "Reminder: field trip forms due Friday", Course: "Homeroom", PostedAt: &posted},
		},
		Grades: []CourseGrade{
			{Course: "Mathematics", CurrentScore: &score, CurrentGrade: "B+"},
		},
	}
}
