package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"studyplanner/models"

	"github.com/redis/go-redis/v9"
	openai "github.com/sashabaranov/go-openai"
	"gorm.io/gorm"
)

// planTimeout bounds the completion call for plan generation. The context
// deadline aborts the in-flight HTTP request, so a slow upstream never holds
// the handler past this point; the fallback plan takes over.
const planTimeout = 20 * time.Second

// Generated plans are cached per exam with the same TTL as other ephemeral
// state.
const planCacheTTL = 2 * time.Hour

// AIService generates questions, topic suggestions and study plans through
// an OpenAI-compatible completion API.
type AIService struct {
	db       *gorm.DB
	redis    *redis.Client
	activity *ActivityService
	api      *openai.Client
	model    string
	timeout  time.Duration
}

func NewAIService(db *gorm.DB, redisClient *redis.Client, activity *ActivityService, apiKey, baseURL, model string) *AIService {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	return &AIService{
		db:       db,
		redis:    redisClient,
		activity: activity,
		api:      openai.NewClientWithConfig(config),
		model:    model,
		timeout:  planTimeout,
	}
}

type GeneratedQuestion struct {
	QuestionText  string   `json:"questionText"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correctAnswer"`
}

type QuestionSet struct {
	Questions []GeneratedQuestion `json:"questions"`
}

// GenerateQuestions asks the model for exactly 3 multiple-choice questions
// about a topic. There is no fallback here: a failed call or unparseable
// response is returned as an error.
func (s *AIService) GenerateQuestions(ctx context.Context, topicName string) (*QuestionSet, error) {
	prompt := fmt.Sprintf(`You are an expert tutor. Create exactly 3 multiple-choice practice questions about the topic: %q.
For each question, provide 4 options labeled A, B, C, D and clearly indicate the correct answer.
Format your entire response as a single, valid JSON object. The object must have a key "questions" which is an array of objects.
Each object in the array must have three keys: "questionText" (string), "options" (an array of 4 strings), and "correctAnswer" (a string, e.g., "C").
Do not include any text, introductory sentences, or formatting outside of this main JSON object.`, topicName)

	raw, err := s.complete(ctx, prompt)
	if err != nil {
		return nil, err
	}

	var set QuestionSet
	if err := json.Unmarshal([]byte(raw), &set); err != nil {
		return nil, fmt.Errorf("parse questions response: %w", err)
	}

	return &set, nil
}

type SuggestedTopic struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
}

type TopicSuggestions struct {
	Topics []SuggestedTopic `json:"topics"`
}

// GenerateTopics asks the model for totalTopics study topics for a subject.
// The result is normalized: priorities outside high/medium/low become
// medium, and the list is truncated or padded to the requested length.
func (s *AIService) GenerateTopics(ctx context.Context, subject, description string, totalTopics int) (*TopicSuggestions, error) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "You are a study planner. Suggest exactly %d study topics for an exam on %q.\n", totalTopics, subject)
	if description != "" {
		fmt.Fprintf(&sb, "Additional context about the exam: %s\n", description)
	}
	sb.WriteString(`Respond ONLY with a single valid JSON object with a key "topics": an array of objects, `)
	sb.WriteString(`each with keys "name" (string), "description" (string) and "priority" ("high", "medium" or "low"). `)
	sb.WriteString("Order the topics from most to least important. No text outside the JSON object.")

	raw, err := s.complete(ctx, sb.String())
	if err != nil {
		return nil, err
	}

	var suggestions TopicSuggestions
	if err := json.Unmarshal([]byte(raw), &suggestions); err != nil {
		return nil, fmt.Errorf("parse topics response: %w", err)
	}

	if len(suggestions.Topics) > totalTopics {
		suggestions.Topics = suggestions.Topics[:totalTopics]
	}
	for i := range suggestions.Topics {
		t := &suggestions.Topics[i]
		if t.Name == "" {
			t.Name = fmt.Sprintf("Untitled Topic %d", i+1)
		}
		switch strings.ToLower(t.Priority) {
		case "high", "medium", "low":
			t.Priority = strings.ToLower(t.Priority)
		default:
			t.Priority = "medium"
		}
	}
	for len(suggestions.Topics) < totalTopics {
		suggestions.Topics = append(suggestions.Topics, SuggestedTopic{
			Name:        fmt.Sprintf("Additional Topic %d", len(suggestions.Topics)+1),
			Description: "Auto-generated topic",
			Priority:    "low",
		})
	}

	return &suggestions, nil
}

type ExamPlanRequest struct {
	ExamID             uint   `json:"exam_id"`
	ExamTitle          string `json:"exam_title" binding:"required"`
	ExamDate           string `json:"exam_date" binding:"required"`
	StudyTimeAvailable int    `json:"study_time_available" binding:"required,min=1"` // days
	Preferences        string `json:"preferences"`
}

// GenerateExamPlan produces a study plan for an exam. It reuses the exam
// record when an id is given (serving a cached plan if one exists),
// otherwise it creates one flagged as AI-generated. The completion call runs
// under a 20 second deadline; on timeout, API error, malformed JSON or
// missing required keys the deterministic fallback plan is served instead.
// The caller always gets a complete plan.
func (s *AIService) GenerateExamPlan(ctx context.Context, req *ExamPlanRequest) (*ExamPlan, error) {
	examDate, err := parseExamDate(req.ExamDate)
	if err != nil {
		return nil, fmt.Errorf("invalid exam date %q", req.ExamDate)
	}

	exam, err := s.resolveExam(req, examDate)
	if err != nil {
		return nil, err
	}

	if cached := s.cachedPlan(exam.ID); cached != nil {
		return cached, nil
	}

	now := time.Now()
	plan := s.generatePlan(ctx, req, examDate, now)
	plan.ExamID = exam.ID
	plan.ExamTitle = exam.Title
	plan.ExamDate = examDate.Format("2006-01-02")

	if err := s.persistPlanTopics(exam, plan); err != nil {
		log.Printf("Failed to persist plan topics for exam %d: %v", exam.ID, err)
	}

	s.cachePlan(plan)

	return plan, nil
}

// generatePlan tries the model and falls back on any failure.
func (s *AIService) generatePlan(ctx context.Context, req *ExamPlanRequest, examDate time.Time, now time.Time) *ExamPlan {
	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	raw, err := s.complete(callCtx, buildPlanPrompt(req, examDate))
	if err != nil {
		log.Printf("Plan generation call failed for %q: %v", req.ExamTitle, err)
		return fallbackPlan(req.ExamTitle, examDate, req.StudyTimeAvailable, now)
	}

	var plan ExamPlan
	if err := json.Unmarshal([]byte(raw), &plan); err != nil {
		log.Printf("Plan generation returned malformed JSON for %q: %v", req.ExamTitle, err)
		return fallbackPlan(req.ExamTitle, examDate, req.StudyTimeAvailable, now)
	}
	if err := validatePlan(&plan); err != nil {
		log.Printf("Plan generation response incomplete for %q: %v", req.ExamTitle, err)
		return fallbackPlan(req.ExamTitle, examDate, req.StudyTimeAvailable, now)
	}

	return &plan
}

func buildPlanPrompt(req *ExamPlanRequest, examDate time.Time) string {
	var sb strings.Builder
	sb.WriteString("You are an expert study planner. Create a structured study plan for the following exam.\n\n")
	fmt.Fprintf(&sb, "EXAM: %s\n", req.ExamTitle)
	fmt.Fprintf(&sb, "EXAM DATE: %s\n", examDate.Format("2006-01-02"))
	fmt.Fprintf(&sb, "DAYS AVAILABLE FOR STUDY: %d\n", req.StudyTimeAvailable)
	if req.Preferences != "" {
		fmt.Fprintf(&sb, "STUDENT PREFERENCES: %s\n", req.Preferences)
	}
	sb.WriteString("\nRespond ONLY with a single valid JSON object with these keys:\n")
	sb.WriteString(`- "topics": array of {"name", "priority" ("high"/"medium"/"low"), "estimatedHours" (number), "difficulty", "studyMethods" (array of strings)}` + "\n")
	sb.WriteString(`- "schedule": array of {"day" (number), "date" ("YYYY-MM-DD"), "phase", "focus", "topics" (array of strings), "hours" (number)}, one entry per available day` + "\n")
	sb.WriteString(`- "milestones": array of {"label", "day" (number), "date", "targetProgress" (number, percent)}` + "\n")
	sb.WriteString(`- "successTips": array of strings` + "\n")
	sb.WriteString(`- "totalStudyHours": number` + "\n")
	sb.WriteString("No text outside the JSON object.")
	return sb.String()
}

// resolveExam fetches the exam when an id is supplied, otherwise creates a
// new one flagged as AI-generated.
func (s *AIService) resolveExam(req *ExamPlanRequest, examDate time.Time) (*models.Exam, error) {
	if req.ExamID != 0 {
		var exam models.Exam
		if err := s.db.First(&exam, req.ExamID).Error; err != nil {
			return nil, ErrExamNotFound
		}
		return &exam, nil
	}

	exam := models.Exam{
		Title:         req.ExamTitle,
		ExamDate:      examDate,
		IsAIGenerated: true,
	}
	if err := s.db.Create(&exam).Error; err != nil {
		return nil, err
	}

	s.activity.Record(models.ActionCreatedExam, exam.Title, &exam.ID)

	return &exam, nil
}

// persistPlanTopics stores the plan's topics on the exam so they show up in
// the regular topic views. Skipped when the exam already has topics, so
// regenerating a plan does not duplicate them.
func (s *AIService) persistPlanTopics(exam *models.Exam, plan *ExamPlan) error {
	var existing int64
	if err := s.db.Model(&models.Topic{}).Where("exam_id = ?", exam.ID).Count(&existing).Error; err != nil {
		return err
	}
	if existing > 0 {
		return nil
	}

	for _, pt := range plan.Topics {
		topic := models.Topic{
			Name:             pt.Name,
			ExamID:           exam.ID,
			Status:           models.StatusNotStarted,
			EstimatedMinutes: pt.EstimatedHours * 60,
		}
		if err := s.db.Create(&topic).Error; err != nil {
			return err
		}
	}

	return nil
}

func (s *AIService) cachedPlan(examID uint) *ExamPlan {
	if s.redis == nil {
		return nil
	}

	data, err := s.redis.Get(context.Background(), planCacheKey(examID)).Result()
	if err != nil {
		if err != redis.Nil {
			log.Printf("Redis error getting cached plan for exam %d: %v", examID, err)
		}
		return nil
	}

	var plan ExamPlan
	if err := json.Unmarshal([]byte(data), &plan); err != nil {
		log.Printf("Failed to unmarshal cached plan for exam %d: %v", examID, err)
		return nil
	}

	return &plan
}

func (s *AIService) cachePlan(plan *ExamPlan) {
	if s.redis == nil || plan.ExamID == 0 {
		return
	}

	data, err := json.Marshal(plan)
	if err != nil {
		log.Printf("Failed to marshal plan for exam %d: %v", plan.ExamID, err)
		return
	}

	if err := s.redis.Set(context.Background(), planCacheKey(plan.ExamID), data, planCacheTTL).Err(); err != nil {
		log.Printf("Failed to cache plan for exam %d: %v", plan.ExamID, err)
	}
}

func planCacheKey(examID uint) string {
	return fmt.Sprintf("plan:%d", examID)
}

// complete issues one chat completion and returns the raw message content.
func (s *AIService) complete(ctx context.Context, prompt string) (string, error) {
	resp, err := s.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Temperature: 0.3,
	})
	if err != nil {
		return "", fmt.Errorf("LLM API call: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("LLM returned no choices")
	}

	return resp.Choices[0].Message.Content, nil
}

// parseExamDate accepts RFC 3339 timestamps and plain dates.
func parseExamDate(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", value)
}
