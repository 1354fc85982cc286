package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/google/uuid"

	"github.com/ignatzorin/freelance-platform/internal/logger"
	"github.com/ignatzorin/freelance-platform/internal/models"
	"github.com/ignatzorin/freelance-platform/internal/repository"
	"github.com/ignatzorin/freelance-platform/internal/repository/common"
	"github.com/ignatzorin/freelance-platform/internal/validation"
)

// AuthRepository описывает зависимости AuthService от слоя хранилища.
type AuthRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	CreateClientProfile(ctx context.Context, profile *models.ClientProfile) error
	CreateFreelancerProfile(ctx context.Context, profile *models.FreelancerProfile) error
	GetClientProfileByUserID(ctx context.Context, userID uuid.UUID) (*models.ClientProfile, error)
	GetFreelancerProfileByUserID(ctx context.Context, userID uuid.UUID) (*models.FreelancerProfile, error)
	ToggleFreelancerVerification(ctx context.Context, userID uuid.UUID) (*models.FreelancerProfile, error)
	CreateSession(ctx context.Context, session *models.Session) error
	DeleteSession(ctx context.Context, refreshToken string) error
	UpdateLastLoginAt(ctx context.Context, userID uuid.UUID) error
	ListSessions(ctx context.Context, userID uuid.UUID) ([]models.Session, error)
	DeleteSessionByID(ctx context.Context, sessionID uuid.UUID, userID uuid.UUID) error
	DeleteAllSessionsExcept(ctx context.Context, userID uuid.UUID, exceptRefreshToken string) error
}

// AuthService инкапсулирует бизнес-логику регистрации и аутентификации.
type AuthService struct {
	repo         AuthRepository
	tokenManager *TokenManager
}

// RegisterInput содержит данные пользователя при регистрации.
type RegisterInput struct {
	Email    string
	Password string
	FullName string
	UserType string
}

// LoginInput содержит данные для входа.
type LoginInput struct {
	Email    string
	Password string
}

// AuthResult возвращает итог регистрации или авторизации.
type AuthResult struct {
	User      *models.User
	TokenPair *TokenPair
}

// NewAuthService создаёт сервис аутентификации.
func NewAuthService(repo AuthRepository, tokenManager *TokenManager) *AuthService {
	return &AuthService{
		repo:         repo,
		tokenManager: tokenManager,
	}
}

// Register создаёт нового пользователя и профиль его роли.
func (s *AuthService) Register(ctx context.Context, in RegisterInput, meta map[string]string) (*AuthResult, error) {
	// Валидация email и пароля на уровне сервиса
	if err := validation.ValidateEmail(in.Email); err != nil {
		return nil, fmt.Errorf("auth service: %w", err)
	}

	if err := validation.ValidatePassword(in.Password); err != nil {
		return nil, fmt.Errorf("auth service: %w", err)
	}

	if _, err := s.repo.GetByEmail(ctx, in.Email); err == nil {
		return nil, fmt.Errorf("auth service: email уже зарегистрирован")
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, err
	}

	userType := in.UserType
	if userType == "" {
		userType = models.UserTypeFreelancer
	}
	if userType != models.UserTypeClient && userType != models.UserTypeFreelancer {
		return nil, fmt.Errorf("auth service: недопустимый тип пользователя: %s", userType)
	}

	passHash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("auth service: не удалось захешировать пароль: %w", err)
	}

	fullName := strings.TrimSpace(in.FullName)
	if fullName == "" {
		fullName = deriveFullName(in.Email)
	}

	user := &models.User{
		Email:        strings.ToLower(in.Email),
		FullName:     &fullName,
		PasswordHash: string(passHash),
		UserType:     userType,
		IsActive:     true,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	// Профиль роли создаётся сразу: без него пользователь не сможет
	// ни размещать заказы, ни откликаться.
	switch userType {
	case models.UserTypeClient:
		profile := &models.ClientProfile{UserID: user.ID}
		if err := s.repo.CreateClientProfile(ctx, profile); err != nil {
			return nil, err
		}
	case models.UserTypeFreelancer:
		profile := &models.FreelancerProfile{
			UserID:             user.ID,
			VerificationStatus: models.VerificationStatusPending,
		}
		if err := s.repo.CreateFreelancerProfile(ctx, profile); err != nil {
			return nil, err
		}
	}

	tokenPair, _, refreshExp, err := s.tokenManager.GeneratePair(user)
	if err != nil {
		return nil, err
	}

	session := &models.Session{
		UserID:       user.ID,
		RefreshToken: tokenPair.RefreshToken,
		ExpiresAt:    refreshExp,
	}

	applySessionMeta(session, meta)

	if err := s.repo.CreateSession(ctx, session); err != nil {
		return nil, err
	}

	return &AuthResult{
		User:      user,
		TokenPair: tokenPair,
	}, nil
}

// Login проверяет учётные данные и возвращает токены.
func (s *AuthService) Login(ctx context.Context, in LoginInput, meta map[string]string) (*AuthResult, error) {
	// Валидация email на уровне сервиса
	if err := validation.ValidateEmail(in.Email); err != nil {
		return nil, fmt.Errorf("auth service: %w", err)
	}

	user, err := s.repo.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, fmt.Errorf("auth service: неверный email или пароль")
	}

	// Проверка активности пользователя
	if !user.IsActive {
		return nil, fmt.Errorf("auth service: аккаунт заблокирован")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, fmt.Errorf("auth service: неверный email или пароль")
	}

	// Обновляем время последнего входа
	if err := s.repo.UpdateLastLoginAt(ctx, user.ID); err != nil {
		// Логируем ошибку, но не прерываем процесс логина
		if logger.Log != nil {
			logger.Log.WithFields(map[string]interface{}{
				"user_id": user.ID,
				"error":   err.Error(),
			}).Warn("auth service: не удалось обновить last_login_at")
		}
	}

	tokenPair, _, refreshExp, err := s.tokenManager.GeneratePair(user)
	if err != nil {
		return nil, err
	}

	session := &models.Session{
		UserID:       user.ID,
		RefreshToken: tokenPair.RefreshToken,
		ExpiresAt:    refreshExp,
	}

	applySessionMeta(session, meta)

	if err := s.repo.CreateSession(ctx, session); err != nil {
		return nil, err
	}

	return &AuthResult{
		User:      user,
		TokenPair: tokenPair,
	}, nil
}

// Refresh выпускает новую пару токенов.
func (s *AuthService) Refresh(ctx context.Context, oldToken string, meta map[string]string) (*TokenPair, error) {
	claims, err := s.tokenManager.ParseRefresh(oldToken)
	if err != nil {
		return nil, fmt.Errorf("auth service: refresh токен невалиден: %w", err)
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("auth service: некорректный subject: %w", err)
	}

	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	tokenPair, _, refreshExp, err := s.tokenManager.GeneratePair(user)
	if err != nil {
		return nil, err
	}

	if err := s.repo.DeleteSession(ctx, oldToken); err != nil {
		return nil, err
	}

	session := &models.Session{
		UserID:       userID,
		RefreshToken: tokenPair.RefreshToken,
		ExpiresAt:    refreshExp,
	}

	applySessionMeta(session, meta)

	if err := s.repo.CreateSession(ctx, session); err != nil {
		return nil, err
	}

	return tokenPair, nil
}

// ToggleVerification переключает статус верификации фрилансера из его
// кабинета: pending становится verified и обратно. Без verified профиля
// подача откликов недоступна.
func (s *AuthService) ToggleVerification(ctx context.Context, userID uuid.UUID) (*models.FreelancerProfile, error) {
	profile, err := s.repo.ToggleFreelancerVerification(ctx, userID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrProfileNotFound):
			return nil, fmt.Errorf("auth service: профиль фрилансера не найден")
		case errors.Is(err, common.ErrInvalidStatus):
			return nil, fmt.Errorf("auth service: верификация недоступна для отклонённого профиля")
		default:
			return nil, err
		}
	}
	return profile, nil
}

// ListSessions возвращает список активных сессий пользователя.
func (s *AuthService) ListSessions(ctx context.Context, userID uuid.UUID) ([]models.Session, error) {
	return s.repo.ListSessions(ctx, userID)
}

// DeleteSession удаляет сессию по идентификатору.
func (s *AuthService) DeleteSession(ctx context.Context, sessionID uuid.UUID, userID uuid.UUID) error {
	return s.repo.DeleteSessionByID(ctx, sessionID, userID)
}

// DeleteAllSessionsExcept удаляет все сессии пользователя кроме текущей.
func (s *AuthService) DeleteAllSessionsExcept(ctx context.Context, userID uuid.UUID, currentRefreshToken string) error {
	return s.repo.DeleteAllSessionsExcept(ctx, userID, currentRefreshToken)
}

// applySessionMeta переносит user-agent и IP из метаданных запроса в сессию.
func applySessionMeta(session *models.Session, meta map[string]string) {
	if meta == nil {
		return
	}
	if ua, ok := meta["user_agent"]; ok {
		session.UserAgent = &ua
	}
	if ip, ok := meta["ip"]; ok {
		session.IPAddress = &ip
	}
}

// deriveFullName формирует имя из email, если его не прислали.
func deriveFullName(email string) string {
	name := strings.Split(email, "@")[0]
	name = strings.NewReplacer(".", " ", "_", " ", "+", " ").Replace(name)
	name = strings.TrimSpace(name)
	if len(name) < 2 {
		name = "user " + uuid.NewString()[:6]
	}
	return name
}
