package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/Dosada05/league-system/models"
	"github.com/Dosada05/league-system/repositories"
)

// NotificationInput описывает одно уведомление пользователю.
type NotificationInput struct {
	UserID            int
	Type              models.NotificationType
	Title             string
	Message           string
	RelatedEntityKind string
	RelatedEntityID   int
	ActionURL         *string
}

// NotificationGateway — fire-and-forget доставка уведомлений.
// Ошибки доставки никогда не доходят до вызывающего кода: уведомления
// не должны ломать основную операцию.
type NotificationGateway interface {
	Notify(ctx context.Context, input NotificationInput)
}

// LiveBroadcaster рассылает событие всем подключённым к комнате сезона.
// Реализуется websocket-хабом из пакета live.
type LiveBroadcaster interface {
	BroadcastToSeason(seasonID int, messageType string, payload interface{})
}

type NotificationReader interface {
	ListByUser(ctx context.Context, userID int, unreadOnly bool) ([]*models.Notification, error)
	MarkRead(ctx context.Context, id, userID int) error
}

type notificationService struct {
	notificationRepo repositories.NotificationRepository
	logger           *slog.Logger
}

func NewNotificationService(
	notificationRepo repositories.NotificationRepository,
	logger *slog.Logger,
) *notificationService {
	return &notificationService{
		notificationRepo: notificationRepo,
		logger:           logger,
	}
}

func (s *notificationService) Notify(ctx context.Context, input NotificationInput) {
	if input.UserID <= 0 {
		return
	}

	notification := &models.Notification{
		UserID:            input.UserID,
		Type:              input.Type,
		Title:             input.Title,
		Message:           input.Message,
		RelatedEntityKind: input.RelatedEntityKind,
		RelatedEntityID:   input.RelatedEntityID,
		ActionURL:         input.ActionURL,
	}

	if err := s.notificationRepo.Create(ctx, notification); err != nil {
		// Проглатываем: доставка уведомлений best-effort.
		s.logger.Warn("failed to persist notification",
			slog.Int("user_id", input.UserID),
			slog.String("type", string(input.Type)),
			slog.Any("error", err),
		)
	}
}

func (s *notificationService) ListByUser(ctx context.Context, userID int, unreadOnly bool) ([]*models.Notification, error) {
	return s.notificationRepo.ListByUser(ctx, userID, unreadOnly)
}

func (s *notificationService) MarkRead(ctx context.Context, id, userID int) error {
	if err := s.notificationRepo.MarkRead(ctx, id, userID); err != nil {
		if errors.Is(err, repositories.ErrNotificationNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}
