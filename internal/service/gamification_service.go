package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/noah-isme/school-lms/internal/dto"
	"github.com/noah-isme/school-lms/internal/models"
	"github.com/noah-isme/school-lms/internal/observability"
	"github.com/noah-isme/school-lms/internal/repository"
)

// Ledger reasons written by student actions.
const (
	ReasonEnrollment           = "enrollment"
	ReasonAssignmentSubmission = "assignment_submission"
	ReasonQuizCompletion       = "quiz_completion"
)

// Points granted for student actions.
const (
	PointsEnrollment    = 5
	PointsSubmission    = 10
	PointsQuizCorrect   = 20
	PointsQuizIncorrect = 5
)

const (
	starStudentThreshold = 50
	quizMasterThreshold  = 5
	earlyBirdThreshold   = 3
	earlyBirdLeadDays    = 3

	defaultReminderWindowDays = 3
	defaultLeaderboardLimit   = 10
)

// PointsAwarder appends points and evaluates badge rules.
type PointsAwarder interface {
	AwardPoints(ctx context.Context, student string, points int, reason string) (dto.AwardResult, error)
}

// GamificationService evaluates badge rules, due date reminders and progress.
type GamificationService interface {
	PointsAwarder
	CheckDueDates(ctx context.Context, session Session) (int, error)
	ComputeProgress(ctx context.Context, student string, courseID uint) (dto.Progress, error)
	Leaderboard(ctx context.Context, limit int) ([]dto.LeaderboardEntry, error)
	TotalPoints(ctx context.Context, student string) (int64, error)
	Badges(ctx context.Context, student string) ([]dto.BadgeResponse, error)
	PointsHistory(ctx context.Context, student string) ([]dto.PointsEntryResponse, error)
}

type badgeRule struct {
	badge string
	check func(ctx context.Context, student string, total int64, reason string) (bool, error)
}

type gamificationService struct {
	repo          repository.GamificationRepository
	submissions   repository.SubmissionRepository
	assignments   repository.AssignmentRepository
	quizzes       repository.QuizRepository
	notifications NotificationPublisher
	windowDays    int
	logger        zerolog.Logger
	tracer        trace.Tracer
	now           func() time.Time
}

// NewGamificationService constructs the rule evaluator. windowDays is the reminder horizon; values below zero use 3.
func NewGamificationService(
	repo repository.GamificationRepository,
	submissions repository.SubmissionRepository,
	assignments repository.AssignmentRepository,
	quizzes repository.QuizRepository,
	notifications NotificationPublisher,
	windowDays int,
	logger zerolog.Logger,
) GamificationService {
	if windowDays < 0 {
		windowDays = defaultReminderWindowDays
	}
	return &gamificationService{
		repo:          repo,
		submissions:   submissions,
		assignments:   assignments,
		quizzes:       quizzes,
		notifications: notifications,
		windowDays:    windowDays,
		logger:        logger.With().Str("component", "gamification_service").Logger(),
		tracer:        otel.Tracer("github.com/noah-isme/school-lms/internal/service/gamification"),
		now:           time.Now,
	}
}

func (s *gamificationService) AwardPoints(ctx context.Context, student string, points int, reason string) (dto.AwardResult, error) {
	ctx, span := s.tracer.Start(ctx, "gamification.award_points", trace.WithAttributes(
		attribute.String("gamification.student", student),
		attribute.Int("gamification.points", points),
		attribute.String("gamification.reason", reason),
	))
	defer span.End()

	if strings.TrimSpace(student) == "" {
		err := errors.New("student is required")
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation failed")
		return dto.AwardResult{}, err
	}

	entry := models.PointsEntry{Student: student, Points: points, Reason: reason}
	if err := s.repo.AddPoints(ctx, &entry); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "ledger write failed")
		return dto.AwardResult{}, fmt.Errorf("append points: %w", err)
	}
	if points > 0 {
		observability.PointsAwarded().WithLabelValues(reason).Add(float64(points))
	}

	total, err := s.repo.TotalPoints(ctx, student)
	if err != nil {
		span.RecordError(err)
		return dto.AwardResult{}, fmt.Errorf("total points: %w", err)
	}

	result := dto.AwardResult{Total: total, Granted: []string{}}
	for _, rule := range s.rules() {
		held, err := s.repo.HasBadge(ctx, student, rule.badge)
		if err != nil {
			span.RecordError(err)
			return result, err
		}
		if held {
			continue
		}

		ok, err := rule.check(ctx, student, total, reason)
		if err != nil {
			span.RecordError(err)
			return result, fmt.Errorf("evaluate %s: %w", rule.badge, err)
		}
		if !ok {
			continue
		}

		granted, err := s.grant(ctx, student, rule.badge)
		if err != nil {
			span.RecordError(err)
			return result, err
		}
		if granted {
			result.Granted = append(result.Granted, rule.badge)
		}
	}

	span.SetAttributes(
		attribute.Int64("gamification.total", total),
		attribute.Int("gamification.granted", len(result.Granted)),
	)
	s.logger.Debug().Str("student", student).Int("points", points).Str("reason", reason).Int64("total", total).Strs("granted", result.Granted).Msg("points awarded")

	return result, nil
}

// rules lists the badge rules in evaluation order.
func (s *gamificationService) rules() []badgeRule {
	return []badgeRule{
		{badge: models.BadgeStarStudent, check: s.starStudent},
		{badge: models.BadgeQuizMaster, check: s.quizMaster},
		{badge: models.BadgeEarlyBird, check: s.earlyBird},
	}
}

func (s *gamificationService) starStudent(_ context.Context, _ string, total int64, _ string) (bool, error) {
	return total >= starStudentThreshold, nil
}

func (s *gamificationService) quizMaster(ctx context.Context, student string, _ int64, _ string) (bool, error) {
	count, err := s.quizzes.CountSubmissions(ctx, student)
	if err != nil {
		return false, err
	}
	return count >= quizMasterThreshold, nil
}

// earlyBird only fires on submission awards and counts submissions whose definition is due at least
// earlyBirdLeadDays after today.
func (s *gamificationService) earlyBird(ctx context.Context, student string, _ int64, reason string) (bool, error) {
	if reason != ReasonAssignmentSubmission {
		return false, nil
	}
	cutoff := models.DateOf(s.now()).AddDate(0, 0, earlyBirdLeadDays)
	count, err := s.submissions.CountWithDefinitionDueOnOrAfter(ctx, student, models.FormatDate(cutoff))
	if err != nil {
		return false, err
	}
	return count >= earlyBirdThreshold, nil
}

func (s *gamificationService) grant(ctx context.Context, student, badge string) (bool, error) {
	record := models.Badge{
		Student:     student,
		Name:        badge,
		AwardedDate: models.FormatDate(s.now()),
	}
	if err := s.repo.CreateBadge(ctx, &record); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return false, nil
		}
		return false, fmt.Errorf("grant %s: %w", badge, err)
	}

	message := fmt.Sprintf("Congratulations! You earned the '%s' badge!", badge)
	if _, err := s.notifications.Publish(ctx, student, message); err != nil {
		return true, fmt.Errorf("notify badge: %w", err)
	}

	observability.BadgesGranted().WithLabelValues(badge).Inc()
	s.logger.Info().Str("student", student).Str("badge", badge).Msg("badge granted")
	return true, nil
}

// CheckDueDates inserts one reminder per ungraded submission and unattempted quiz due within the
// reminder window. Reminders already present for the student are not repeated.
func (s *gamificationService) CheckDueDates(ctx context.Context, session Session) (int, error) {
	if !session.IsStudent() {
		return 0, nil
	}

	ctx, span := s.tracer.Start(ctx, "gamification.check_due_dates", trace.WithAttributes(
		attribute.String("gamification.student", session.Username),
	))
	defer span.End()

	today := models.DateOf(s.now())
	until := today.AddDate(0, 0, s.windowDays)
	created := 0

	submissions, err := s.submissions.ListUngradedByStudent(ctx, session.Username)
	if err != nil {
		span.RecordError(err)
		return 0, fmt.Errorf("list ungraded submissions: %w", err)
	}
	for _, submission := range submissions {
		due, ok := s.dueWithin(submission.DueDate, today, until, "submission", submission.ID)
		if !ok {
			continue
		}
		message := fmt.Sprintf("Reminder: '%s' due on %s (Course ID: %d)", submission.Description, models.FormatDate(due), submission.CourseID)
		inserted, err := s.notifications.PublishOnce(ctx, session.Username, message)
		if err != nil {
			span.RecordError(err)
			return created, err
		}
		if inserted {
			created++
			observability.RemindersCreated().WithLabelValues("assignment").Inc()
		}
	}

	quizzes, err := s.quizzes.ListUnattempted(ctx, session.Username, nil)
	if err != nil {
		span.RecordError(err)
		return created, fmt.Errorf("list pending quizzes: %w", err)
	}
	for _, quiz := range quizzes {
		due, ok := s.dueWithin(quiz.DueDate, today, until, "quiz", quiz.ID)
		if !ok {
			continue
		}
		message := fmt.Sprintf("Reminder: Quiz '%s' due on %s (Course ID: %d)", quiz.Title, models.FormatDate(due), quiz.CourseID)
		inserted, err := s.notifications.PublishOnce(ctx, session.Username, message)
		if err != nil {
			span.RecordError(err)
			return created, err
		}
		if inserted {
			created++
			observability.RemindersCreated().WithLabelValues("quiz").Inc()
		}
	}

	span.SetAttributes(attribute.Int("gamification.reminders", created))
	if created > 0 {
		s.logger.Info().Str("student", session.Username).Int("reminders", created).Msg("due date reminders created")
	}
	return created, nil
}

func (s *gamificationService) dueWithin(value string, from, until time.Time, kind string, id uint) (time.Time, bool) {
	due, err := models.ParseDate(value)
	if err != nil {
		s.logger.Warn().Err(err).Str("kind", kind).Uint("id", id).Msg("skipping item with unparseable due date")
		return time.Time{}, false
	}
	if due.Before(from) || due.After(until) {
		return time.Time{}, false
	}
	return due, true
}

func (s *gamificationService) ComputeProgress(ctx context.Context, student string, courseID uint) (dto.Progress, error) {
	submitted, err := s.submissions.CountByCourseAndStudent(ctx, courseID, student)
	if err != nil {
		return dto.Progress{}, err
	}
	attempted, err := s.quizzes.CountAttemptedInCourse(ctx, courseID, student)
	if err != nil {
		return dto.Progress{}, err
	}
	definitions, err := s.assignments.CountByCourse(ctx, courseID)
	if err != nil {
		return dto.Progress{}, err
	}
	quizzes, err := s.quizzes.CountByCourse(ctx, courseID)
	if err != nil {
		return dto.Progress{}, err
	}

	progress := dto.Progress{
		CourseID:  courseID,
		Completed: submitted + attempted,
		Total:     definitions + quizzes,
	}
	if progress.Total > 0 {
		// Resubmissions can push the completed count past the total.
		progress.Percent = int(min(progress.Completed*100/progress.Total, 100))
	}
	return progress, nil
}

func (s *gamificationService) Leaderboard(ctx context.Context, limit int) ([]dto.LeaderboardEntry, error) {
	if limit <= 0 {
		limit = defaultLeaderboardLimit
	}

	rows, err := s.repo.Leaderboard(ctx, limit)
	if err != nil {
		return nil, err
	}

	entries := make([]dto.LeaderboardEntry, 0, len(rows))
	for i, row := range rows {
		entries = append(entries, dto.LeaderboardEntry{
			Rank:    i + 1,
			Student: row.Student,
			Points:  row.Points,
			Badges:  row.Badges,
		})
	}
	return entries, nil
}

func (s *gamificationService) TotalPoints(ctx context.Context, student string) (int64, error) {
	return s.repo.TotalPoints(ctx, student)
}

func (s *gamificationService) Badges(ctx context.Context, student string) ([]dto.BadgeResponse, error) {
	badges, err := s.repo.ListBadges(ctx, student)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.BadgeResponse, 0, len(badges))
	for _, badge := range badges {
		responses = append(responses, dto.BadgeResponse{Name: badge.Name, AwardedDate: badge.AwardedDate})
	}
	return responses, nil
}

func (s *gamificationService) PointsHistory(ctx context.Context, student string) ([]dto.PointsEntryResponse, error) {
	entries, err := s.repo.ListPoints(ctx, student)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.PointsEntryResponse, 0, len(entries))
	for _, entry := range entries {
		responses = append(responses, dto.PointsEntryResponse{Points: entry.Points, Reason: entry.Reason, CreatedAt: entry.CreatedAt})
	}
	return responses, nil
}
