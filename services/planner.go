package services

import (
	"fmt"
	"math"
	"time"
)

// Schedule phase split: 40% foundation, 40% practice, the remainder final
// review. Phase day counts use ceiling division so short plans still get a
// foundation and a practice day.
const (
	foundationFraction = 0.4
	practiceFraction   = 0.4

	// Hours of study assumed per available day in the fallback plan.
	fallbackHoursPerDay = 4
)

// ExamPlan is the study plan served to the client. The same shape is used to
// parse the model's JSON output, so the field tags double as the schema the
// prompt asks for. Topics, Schedule and SuccessTips are the required keys; a
// response missing any of them is treated as a failed generation.
type ExamPlan struct {
	ExamID          uint          `json:"exam_id,omitempty"`
	ExamTitle       string        `json:"examTitle"`
	ExamDate        string        `json:"examDate"`
	TotalStudyHours int           `json:"totalStudyHours"`
	Topics          []PlanTopic   `json:"topics"`
	Schedule        []ScheduleDay `json:"schedule"`
	Milestones      []Milestone   `json:"milestones"`
	SuccessTips     []string      `json:"successTips"`
	IsFallback      bool          `json:"isFallback"`
}

type PlanTopic struct {
	Name           string   `json:"name"`
	Priority       string   `json:"priority"`
	EstimatedHours int      `json:"estimatedHours"`
	Difficulty     string   `json:"difficulty"`
	StudyMethods   []string `json:"studyMethods"`
}

type ScheduleDay struct {
	Day    int      `json:"day"`
	Date   string   `json:"date"`
	Phase  string   `json:"phase"` // foundation, practice, final-review
	Focus  string   `json:"focus"`
	Topics []string `json:"topics"`
	Hours  int      `json:"hours"`
}

type Milestone struct {
	Label          string `json:"label"`
	Day            int    `json:"day"`
	Date           string `json:"date"`
	TargetProgress int    `json:"targetProgress"`
}

// fallbackTopics are the topic archetypes used when the model is
// unavailable. They cover a generic subject from fundamentals through
// critical analysis.
var fallbackTopics = []PlanTopic{
	{
		Name:           "Fundamental Concepts",
		Priority:       "high",
		EstimatedHours: 4,
		Difficulty:     "beginner",
		StudyMethods:   []string{"Read core material", "Summarize key definitions", "Flashcards"},
	},
	{
		Name:           "Core Theory",
		Priority:       "high",
		EstimatedHours: 5,
		Difficulty:     "intermediate",
		StudyMethods:   []string{"Work through derivations", "Concept maps", "Explain aloud"},
	},
	{
		Name:           "Advanced Applications",
		Priority:       "medium",
		EstimatedHours: 4,
		Difficulty:     "advanced",
		StudyMethods:   []string{"Solve applied problems", "Case studies"},
	},
	{
		Name:           "Practical Implementation",
		Priority:       "medium",
		EstimatedHours: 3,
		Difficulty:     "intermediate",
		StudyMethods:   []string{"Hands-on exercises", "Past exam questions"},
	},
	{
		Name:           "Critical Analysis",
		Priority:       "low",
		EstimatedHours: 2,
		Difficulty:     "advanced",
		StudyMethods:   []string{"Compare approaches", "Self-testing", "Review mistakes"},
	},
}

var fallbackSuccessTips = []string{
	"Use active recall instead of re-reading: close the book and write down what you remember.",
	"Space your reviews: a short session every day beats one long session the night before.",
	"Finish each day with a five-minute summary of what you covered and what is still shaky.",
}

// fallbackPlan builds the deterministic study plan used when the model call
// fails, times out or returns a malformed response. The schedule walks
// forward day by day from now.
func fallbackPlan(examTitle string, examDate time.Time, daysAvailable int, now time.Time) *ExamPlan {
	if daysAvailable < 1 {
		daysAvailable = 1
	}

	foundationDays := ceilFraction(daysAvailable, foundationFraction)
	practiceDays := ceilFraction(daysAvailable, practiceFraction)
	if foundationDays+practiceDays > daysAvailable {
		practiceDays = daysAvailable - foundationDays
	}
	// Whatever remains after foundation and practice is final review.

	schedule := make([]ScheduleDay, 0, daysAvailable)
	for day := 1; day <= daysAvailable; day++ {
		date := now.AddDate(0, 0, day-1)

		var phase, focus string
		var dayTopics []string
		switch {
		case day <= foundationDays:
			phase = "foundation"
			focus = "Build a solid base before moving to problems"
			dayTopics = []string{fallbackTopics[0].Name, fallbackTopics[1].Name}
		case day <= foundationDays+practiceDays:
			phase = "practice"
			focus = "Apply the theory until it feels routine"
			dayTopics = []string{fallbackTopics[2].Name, fallbackTopics[3].Name}
		default:
			phase = "final-review"
			focus = "Close gaps and rehearse under exam conditions"
			dayTopics = []string{fallbackTopics[4].Name}
		}

		schedule = append(schedule, ScheduleDay{
			Day:    day,
			Date:   date.Format("2006-01-02"),
			Phase:  phase,
			Focus:  focus,
			Topics: dayTopics,
			Hours:  fallbackHoursPerDay,
		})
	}

	milestones := fallbackMilestones(daysAvailable, now)

	return &ExamPlan{
		ExamTitle:       examTitle,
		ExamDate:        examDate.Format("2006-01-02"),
		TotalStudyHours: daysAvailable * fallbackHoursPerDay,
		Topics:          fallbackTopics,
		Schedule:        schedule,
		Milestones:      milestones,
		SuccessTips:     fallbackSuccessTips,
		IsFallback:      true,
	}
}

// fallbackMilestones places checkpoints at 40%, 80% and 100% of the
// available days.
func fallbackMilestones(daysAvailable int, now time.Time) []Milestone {
	points := []struct {
		label    string
		fraction float64
		progress int
	}{
		{"Foundations locked in", 0.4, 40},
		{"Practice complete", 0.8, 80},
		{"Exam ready", 1.0, 100},
	}

	milestones := make([]Milestone, 0, len(points))
	for _, p := range points {
		day := ceilFraction(daysAvailable, p.fraction)
		if day < 1 {
			day = 1
		}
		milestones = append(milestones, Milestone{
			Label:          p.label,
			Day:            day,
			Date:           now.AddDate(0, 0, day-1).Format("2006-01-02"),
			TargetProgress: p.progress,
		})
	}

	return milestones
}

// validatePlan checks the required top-level keys of a parsed plan.
func validatePlan(plan *ExamPlan) error {
	if len(plan.Topics) == 0 {
		return fmt.Errorf("plan is missing topics")
	}
	if len(plan.Schedule) == 0 {
		return fmt.Errorf("plan is missing schedule")
	}
	if len(plan.SuccessTips) == 0 {
		return fmt.Errorf("plan is missing successTips")
	}
	return nil
}

func ceilFraction(days int, fraction float64) int {
	return int(math.Ceil(float64(days) * fraction))
}
