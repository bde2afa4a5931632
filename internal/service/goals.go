package service

import (
	"context"

	"github.com/TomyRioss/misstress/internal/domain"
	"github.com/TomyRioss/misstress/internal/port"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// GoalService handles financial goal CRUD.
type GoalService struct {
	goals  port.GoalStore
	logger *zap.Logger
}

// NewGoalService wires the goal service.
func NewGoalService(goals port.GoalStore, logger *zap.Logger) *GoalService {
	return &GoalService{goals: goals, logger: logger}
}

// Create registers a new goal with the frontend's default color and icon.
func (s *GoalService) Create(ctx context.Context, draft *domain.GoalDraft) (*domain.FinancialGoal, error) {
	ctx, span := tracer.Start(ctx, "GoalService.Create")
	defer span.End()

	if draft.Name == "" {
		return nil, &domain.ErrValidation{Field: "name", Message: "required"}
	}
	if draft.TargetAmount <= 0 {
		return nil, &domain.ErrValidation{Field: "targetAmount", Message: "must be positive"}
	}

	g := &domain.FinancialGoal{
		ID:           uuid.NewString(),
		Name:         draft.Name,
		Description:  draft.Description,
		TargetAmount: draft.TargetAmount,
		TargetDate:   draft.TargetDate,
		Status:       domain.GoalActive,
		Color:        draft.Color,
		Icon:         draft.Icon,
	}
	if draft.CurrentAmount != nil {
		g.CurrentAmount = *draft.CurrentAmount
	}
	if g.Color == "" {
		g.Color = "#3B82F6"
	}
	if g.Icon == "" {
		g.Icon = "🎯"
	}

	return s.goals.CreateGoal(ctx, g)
}

// Get fetches one goal.
func (s *GoalService) Get(ctx context.Context, id string) (*domain.FinancialGoal, error) {
	ctx, span := tracer.Start(ctx, "GoalService.Get")
	defer span.End()

	return s.goals.GetGoal(ctx, id)
}

// Update applies a draft over an existing goal. Reaching the target
// flips the status to COMPLETED automatically.
func (s *GoalService) Update(ctx context.Context, id string, draft *domain.GoalDraft) (*domain.FinancialGoal, error) {
	ctx, span := tracer.Start(ctx, "GoalService.Update")
	defer span.End()

	g, err := s.goals.GetGoal(ctx, id)
	if err != nil {
		return nil, err
	}

	if draft.Name != "" {
		g.Name = draft.Name
	}
	g.Description = draft.Description
	if draft.TargetAmount > 0 {
		g.TargetAmount = draft.TargetAmount
	}
	if draft.CurrentAmount != nil {
		g.CurrentAmount = *draft.CurrentAmount
	}
	g.TargetDate = draft.TargetDate
	if draft.Status != "" {
		g.Status = draft.Status
	}
	if draft.Color != "" {
		g.Color = draft.Color
	}
	if draft.Icon != "" {
		g.Icon = draft.Icon
	}
	if g.Status == domain.GoalActive && g.CurrentAmount >= g.TargetAmount {
		g.Status = domain.GoalCompleted
	}

	return s.goals.UpdateGoal(ctx, g)
}

// AddProgress adds amount to the goal's saved total. Negative amounts
// roll progress back but never below zero. Reaching the target flips
// the status to COMPLETED.
func (s *GoalService) AddProgress(ctx context.Context, id string, amount float64) (*domain.FinancialGoal, error) {
	ctx, span := tracer.Start(ctx, "GoalService.AddProgress")
	defer span.End()

	if amount == 0 {
		return nil, &domain.ErrValidation{Field: "amount", Message: "must be non-zero"}
	}

	g, err := s.goals.GetGoal(ctx, id)
	if err != nil {
		return nil, err
	}

	g.CurrentAmount += amount
	if g.CurrentAmount < 0 {
		g.CurrentAmount = 0
	}
	if g.Status == domain.GoalActive && g.CurrentAmount >= g.TargetAmount {
		g.Status = domain.GoalCompleted
	}

	return s.goals.UpdateGoal(ctx, g)
}

// Delete removes a goal.
func (s *GoalService) Delete(ctx context.Context, id string) error {
	ctx, span := tracer.Start(ctx, "GoalService.Delete")
	defer span.End()

	return s.goals.DeleteGoal(ctx, id)
}

// List returns goals, optionally filtered by status.
func (s *GoalService) List(ctx context.Context, status string) ([]domain.FinancialGoal, error) {
	ctx, span := tracer.Start(ctx, "GoalService.List")
	defer span.End()

	return s.goals.ListGoals(ctx, status)
}

// NotificationService handles in-app notifications.
type NotificationService struct {
	notifications port.NotificationStore
	logger        *zap.Logger
}

// NewNotificationService wires the notification service.
func NewNotificationService(notifications port.NotificationStore, logger *zap.Logger) *NotificationService {
	return &NotificationService{notifications: notifications, logger: logger}
}

// Create stores a notification. Type defaults to info.
func (s *NotificationService) Create(ctx context.Context, n *domain.Notification) (*domain.Notification, error) {
	ctx, span := tracer.Start(ctx, "NotificationService.Create")
	defer span.End()

	if n.Title == "" {
		return nil, &domain.ErrValidation{Field: "title", Message: "required"}
	}
	n.ID = uuid.NewString()
	if n.Type == "" {
		n.Type = domain.NotificationInfo
	}

	return s.notifications.CreateNotification(ctx, n)
}

// List returns the latest notifications; limit defaults to 20.
func (s *NotificationService) List(ctx context.Context, limit int) ([]domain.Notification, error) {
	ctx, span := tracer.Start(ctx, "NotificationService.List")
	defer span.End()

	if limit <= 0 {
		limit = 20
	}
	return s.notifications.ListNotifications(ctx, limit)
}

// MarkRead flips the read flag.
func (s *NotificationService) MarkRead(ctx context.Context, id string) error {
	ctx, span := tracer.Start(ctx, "NotificationService.MarkRead")
	defer span.End()

	return s.notifications.MarkNotificationRead(ctx, id)
}

// Delete removes a notification.
func (s *NotificationService) Delete(ctx context.Context, id string) error {
	ctx, span := tracer.Start(ctx, "NotificationService.Delete")
	defer span.End()

	return s.notifications.DeleteNotification(ctx, id)
}
