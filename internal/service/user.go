package service

import (
	"fmt"
	"strings"
	"training-schedule-bot/internal/models"
	"training-schedule-bot/internal/repository"
)

type UserService struct {
	repo repository.UserRepository
}

func NewUserService(repo repository.UserRepository) *UserService {
	return &UserService{repo: repo}
}

// EnsureUser возвращает пользователя, регистрируя его при первом обращении
func (s *UserService) EnsureUser(chatID int64, username, firstName, lastName string) (*models.User, error) {
	user, err := s.repo.GetByChatID(chatID)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения пользователя: %w", err)
	}
	if user != nil {
		return user, nil
	}

	if firstName == "" {
		firstName = username
	}

	user = &models.User{
		ChatID:    chatID,
		Username:  username,
		FirstName: firstName,
		LastName:  lastName,
		Role:      models.RoleClient, // По умолчанию client
	}

	if err := s.repo.Create(user); err != nil {
		return nil, fmt.Errorf("ошибка создания пользователя: %w", err)
	}

	return user, nil
}

// GetUser возвращает пользователя по chatID
func (s *UserService) GetUser(chatID int64) (*models.User, error) {
	user, err := s.repo.GetByChatID(chatID)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения пользователя: %w", err)
	}

	if user == nil {
		return nil, fmt.Errorf("пользователь не найден")
	}

	return user, nil
}

// IsAdmin проверяет, является ли пользователь администратором
func (s *UserService) IsAdmin(chatID int64) (bool, error) {
	user, err := s.repo.GetByChatID(chatID)
	if err != nil {
		return false, err
	}
	return user != nil && user.IsAdmin(), nil
}

// InitializeAdmin назначает администратора из конфига, создавая его при необходимости
func (s *UserService) InitializeAdmin(chatID int64) error {
	if chatID == 0 {
		return nil
	}

	user, err := s.repo.GetByChatID(chatID)
	if err != nil {
		return err
	}

	if user == nil {
		return s.repo.Create(&models.User{
			ChatID:    chatID,
			FirstName: "Admin",
			Role:      models.RoleAdmin,
		})
	}

	if user.IsAdmin() {
		return nil
	}
	return s.repo.UpdateRole(chatID, models.RoleAdmin)
}

// Promote назначает пользователя администратором (только для админов)
func (s *UserService) Promote(adminChatID, targetChatID int64) error {
	isAdmin, err := s.IsAdmin(adminChatID)
	if err != nil {
		return fmt.Errorf("ошибка проверки админа: %w", err)
	}
	if !isAdmin {
		return fmt.Errorf("доступ запрещен: только администраторы могут менять роли")
	}

	return s.repo.UpdateRole(targetChatID, models.RoleAdmin)
}

// FormatUserInfo форматирует информацию о пользователе для вывода
func (s *UserService) FormatUserInfo(user *models.User) string {
	var lines []string

	lines = append(lines, "👤 Профиль:")
	lines = append(lines, fmt.Sprintf("🆔 ID чата: %d", user.ChatID))
	if user.Username != "" {
		lines = append(lines, fmt.Sprintf("📛 Username: @%s", user.Username))
	}
	lines = append(lines, fmt.Sprintf("✏️ Имя: %s", user.FullName()))

	role := "👤 Клиент"
	if user.IsAdmin() {
		role = "👑 Администратор"
	}
	lines = append(lines, fmt.Sprintf("🎭 Роль: %s", role))

	return strings.Join(lines, "\n")
}
