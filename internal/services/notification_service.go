package services

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/containrrr/shoutrrr"
	"gorm.io/gorm"

	"github.com/sijamu/backend/internal/logger"
	"github.com/sijamu/backend/internal/models"
)

type NotificationService struct {
	DB *gorm.DB

	// ExternalURL is a shoutrrr service URL that receives a copy of every
	// notification. Empty disables forwarding.
	ExternalURL string

	send func(url, message string) error
}

func NewNotificationService(db *gorm.DB, externalURL string) *NotificationService {
	return &NotificationService{
		DB:          db,
		ExternalURL: normalizeURL(strings.TrimSpace(externalURL)),
		send:        shoutrrr.Send,
	}
}

var discordWebhookRegex = regexp.MustCompile(`^https://discord(?:app)?\.com/api/webhooks/(\d+)/([a-zA-Z0-9_-]+)`)

// normalizeURL turns a pasted Discord webhook link into a shoutrrr URL.
func normalizeURL(rawURL string) string {
	matches := discordWebhookRegex.FindStringSubmatch(rawURL)
	if len(matches) == 3 {
		return fmt.Sprintf("discord://%s@%s", matches[2], matches[1])
	}
	return rawURL
}

func (s *NotificationService) Create(userID uint, nType models.NotificationType, title, message string) (*models.Notification, error) {
	notification := &models.Notification{
		UserID:  userID,
		Type:    nType,
		Title:   title,
		Message: message,
	}
	result := s.DB.Create(notification)
	return notification, result.Error
}

// Notify stores an in-app notification and forwards it externally. Failures
// are logged; the operation that triggered the notification already succeeded.
func (s *NotificationService) Notify(userID uint, nType models.NotificationType, title, message string) {
	if _, err := s.Create(userID, nType, title, message); err != nil {
		logger.Log().WithError(err).WithField("user_id", userID).Warn("failed to store notification")
	}
	s.SendExternal(title, message)
}

func (s *NotificationService) List(userID uint, unreadOnly bool) ([]models.Notification, error) {
	var notifications []models.Notification
	query := s.DB.Where("user_id = ?", userID).Order("created_at desc")
	if unreadOnly {
		query = query.Where("read = ?", false)
	}
	result := query.Find(&notifications)
	return notifications, result.Error
}

func (s *NotificationService) MarkAsRead(userID uint, id string) error {
	result := s.DB.Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("read", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return userError(ErrNotFound, "Notifikasi tidak ditemukan")
	}
	return nil
}

func (s *NotificationService) MarkAllAsRead(userID uint) error {
	return s.DB.Model(&models.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Update("read", true).Error
}

// SendExternal forwards a message to the configured shoutrrr URL in the
// background.
func (s *NotificationService) SendExternal(title, message string) {
	if s.ExternalURL == "" || s.send == nil {
		return
	}
	url := s.ExternalURL
	send := s.send
	go func() {
		if err := send(url, fmt.Sprintf("%s\n\n%s", title, message)); err != nil {
			logger.Log().WithError(err).Warn("failed to forward notification")
		}
	}()
}
