package services

import (
	"testing"
	"time"
)

func TestFallbackPlanPhaseSplit(t *testing.T) {
	tests := []struct {
		name           string
		days           int
		wantFoundation int
		wantPractice   int
		wantReview     int
	}{
		{"ten days", 10, 4, 4, 2},
		{"seven days", 7, 3, 3, 1},
		{"five days", 5, 2, 2, 1},
		{"two days", 2, 1, 1, 0},
		{"one day", 1, 1, 0, 0},
	}

	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	examDate := time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := fallbackPlan("Linear Algebra", examDate, tt.days, now)

			if len(plan.Schedule) != tt.days {
				t.Fatalf("schedule has %d days, want %d", len(plan.Schedule), tt.days)
			}

			var foundation, practice, review int
			for _, day := range plan.Schedule {
				switch day.Phase {
				case "foundation":
					foundation++
				case "practice":
					practice++
				case "final-review":
					review++
				default:
					t.Errorf("unexpected phase %q on day %d", day.Phase, day.Day)
				}
			}

			if foundation != tt.wantFoundation {
				t.Errorf("foundation days = %d, want %d", foundation, tt.wantFoundation)
			}
			if practice != tt.wantPractice {
				t.Errorf("practice days = %d, want %d", practice, tt.wantPractice)
			}
			if review != tt.wantReview {
				t.Errorf("final-review days = %d, want %d", review, tt.wantReview)
			}
		})
	}
}

func TestFallbackPlanTotals(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	examDate := time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC)

	plan := fallbackPlan("Linear Algebra", examDate, 10, now)

	if plan.TotalStudyHours != 40 {
		t.Errorf("TotalStudyHours = %d, want 40", plan.TotalStudyHours)
	}
	if !plan.IsFallback {
		t.Error("IsFallback should be true")
	}
	if plan.ExamDate != "2026-03-20" {
		t.Errorf("ExamDate = %q, want 2026-03-20", plan.ExamDate)
	}

	// Schedule walks forward from today.
	if plan.Schedule[0].Date != "2026-03-01" {
		t.Errorf("first schedule date = %q, want 2026-03-01", plan.Schedule[0].Date)
	}
	if plan.Schedule[9].Date != "2026-03-10" {
		t.Errorf("last schedule date = %q, want 2026-03-10", plan.Schedule[9].Date)
	}
}

func TestFallbackPlanTopicArchetypes(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	plan := fallbackPlan("Chemistry", now.AddDate(0, 1, 0), 10, now)

	want := []string{
		"Fundamental Concepts",
		"Core Theory",
		"Advanced Applications",
		"Practical Implementation",
		"Critical Analysis",
	}

	if len(plan.Topics) != len(want) {
		t.Fatalf("got %d topics, want %d", len(plan.Topics), len(want))
	}
	for i, name := range want {
		if plan.Topics[i].Name != name {
			t.Errorf("topic %d = %q, want %q", i, plan.Topics[i].Name, name)
		}
		if plan.Topics[i].EstimatedHours <= 0 {
			t.Errorf("topic %q has no estimated hours", name)
		}
		if len(plan.Topics[i].StudyMethods) == 0 {
			t.Errorf("topic %q has no study methods", name)
		}
	}
}

func TestFallbackPlanMilestones(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	plan := fallbackPlan("History", now.AddDate(0, 1, 0), 10, now)

	if len(plan.Milestones) != 3 {
		t.Fatalf("got %d milestones, want 3", len(plan.Milestones))
	}

	wantDays := []int{4, 8, 10}
	wantProgress := []int{40, 80, 100}
	for i, m := range plan.Milestones {
		if m.Day != wantDays[i] {
			t.Errorf("milestone %d day = %d, want %d", i, m.Day, wantDays[i])
		}
		if m.TargetProgress != wantProgress[i] {
			t.Errorf("milestone %d progress = %d, want %d", i, m.TargetProgress, wantProgress[i])
		}
	}
}

func TestValidatePlan(t *testing.T) {
	complete := func() *ExamPlan {
		return &ExamPlan{
			Topics:      []PlanTopic{{Name: "A"}},
			Schedule:    []ScheduleDay{{Day: 1}},
			SuccessTips: []string{"tip"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*ExamPlan)
		wantErr bool
	}{
		{"complete", func(p *ExamPlan) {}, false},
		{"no topics", func(p *ExamPlan) { p.Topics = nil }, true},
		{"no schedule", func(p *ExamPlan) { p.Schedule = nil }, true},
		{"no success tips", func(p *ExamPlan) { p.SuccessTips = nil }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := complete()
			tt.mutate(plan)
			err := validatePlan(plan)
			if (err != nil) != tt.wantErr {
				t.Errorf("validatePlan() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
