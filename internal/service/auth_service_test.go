package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/ignatzorin/freelance-platform/internal/models"
	"github.com/ignatzorin/freelance-platform/internal/repository"
	"github.com/ignatzorin/freelance-platform/internal/repository/common"
)

// mockAuthRepository реализует AuthRepository для тестов.
type mockAuthRepository struct {
	usersByEmail map[string]*models.User
	usersByID    map[uuid.UUID]*models.User
	clients      map[uuid.UUID]*models.ClientProfile
	freelancers  map[uuid.UUID]*models.FreelancerProfile
	sessions     map[string]*models.Session
}

func newMockAuthRepository() *mockAuthRepository {
	return &mockAuthRepository{
		usersByEmail: make(map[string]*models.User),
		usersByID:    make(map[uuid.UUID]*models.User),
		clients:      make(map[uuid.UUID]*models.ClientProfile),
		freelancers:  make(map[uuid.UUID]*models.FreelancerProfile),
		sessions:     make(map[string]*models.Session),
	}
}

func (m *mockAuthRepository) Create(ctx context.Context, user *models.User) error {
	user.ID = uuid.New()
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	m.usersByEmail[user.Email] = user
	m.usersByID[user.ID] = user
	return nil
}

func (m *mockAuthRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if user, ok := m.usersByEmail[email]; ok {
		return user, nil
	}
	return nil, repository.ErrUserNotFound
}

func (m *mockAuthRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if user, ok := m.usersByID[id]; ok {
		return user, nil
	}
	return nil, repository.ErrUserNotFound
}

func (m *mockAuthRepository) CreateClientProfile(ctx context.Context, profile *models.ClientProfile) error {
	profile.ID = uuid.New()
	m.clients[profile.UserID] = profile
	return nil
}

func (m *mockAuthRepository) CreateFreelancerProfile(ctx context.Context, profile *models.FreelancerProfile) error {
	profile.ID = uuid.New()
	m.freelancers[profile.UserID] = profile
	return nil
}

func (m *mockAuthRepository) GetClientProfileByUserID(ctx context.Context, userID uuid.UUID) (*models.ClientProfile, error) {
	if profile, ok := m.clients[userID]; ok {
		return profile, nil
	}
	return nil, repository.ErrProfileNotFound
}

func (m *mockAuthRepository) GetFreelancerProfileByUserID(ctx context.Context, userID uuid.UUID) (*models.FreelancerProfile, error) {
	if profile, ok := m.freelancers[userID]; ok {
		return profile, nil
	}
	return nil, repository.ErrProfileNotFound
}

func (m *mockAuthRepository) ToggleFreelancerVerification(ctx context.Context, userID uuid.UUID) (*models.FreelancerProfile, error) {
	profile, ok := m.freelancers[userID]
	if !ok {
		return nil, repository.ErrProfileNotFound
	}
	switch profile.VerificationStatus {
	case models.VerificationStatusPending:
		profile.VerificationStatus = models.VerificationStatusVerified
	case models.VerificationStatusVerified:
		profile.VerificationStatus = models.VerificationStatusPending
	default:
		return nil, common.ErrInvalidStatus
	}
	return profile, nil
}

func (m *mockAuthRepository) CreateSession(ctx context.Context, session *models.Session) error {
	session.ID = uuid.New()
	session.CreatedAt = time.Now()
	m.sessions[session.RefreshToken] = session
	return nil
}

func (m *mockAuthRepository) DeleteSession(ctx context.Context, refreshToken string) error {
	delete(m.sessions, refreshToken)
	return nil
}

func (m *mockAuthRepository) ListSessions(ctx context.Context, userID uuid.UUID) ([]models.Session, error) {
	var sessions []models.Session
	for _, s := range m.sessions {
		if s.UserID == userID {
			sessions = append(sessions, *s)
		}
	}
	return sessions, nil
}

func (m *mockAuthRepository) DeleteSessionByID(ctx context.Context, sessionID uuid.UUID, userID uuid.UUID) error {
	for token, s := range m.sessions {
		if s.ID == sessionID && s.UserID == userID {
			delete(m.sessions, token)
			return nil
		}
	}
	return nil
}

func (m *mockAuthRepository) DeleteAllSessionsExcept(ctx context.Context, userID uuid.UUID, exceptRefreshToken string) error {
	for token, s := range m.sessions {
		if s.UserID == userID && token != exceptRefreshToken {
			delete(m.sessions, token)
		}
	}
	return nil
}

func (m *mockAuthRepository) UpdateLastLoginAt(ctx context.Context, userID uuid.UUID) error {
	if user, ok := m.usersByID[userID]; ok {
		now := time.Now()
		user.LastLoginAt = &now
	}
	return nil
}

func TestAuthService_RegisterAndLogin(t *testing.T) {
	repo := newMockAuthRepository()
	tokenManager := NewTokenManager("access", "refresh", time.Minute, time.Hour)
	service := NewAuthService(repo, tokenManager)

	ctx := context.Background()
	res, err := service.Register(ctx, RegisterInput{
		Email:    "test@example.com",
		Password: "Password123",
		UserType: models.UserTypeClient,
	}, map[string]string{"ip": "127.0.0.1"})
	if err != nil {
		t.Fatalf("register returned error: %v", err)
	}

	if res.User.ID == uuid.Nil {
		t.Fatalf("user ID должен быть установлен")
	}

	if _, ok := repo.clients[res.User.ID]; !ok {
		t.Fatalf("профиль заказчика должен быть создан")
	}

	if len(repo.sessions) != 1 {
		t.Fatalf("ожидалась одна сессия, получили %d", len(repo.sessions))
	}

	loginRes, err := service.Login(ctx, LoginInput{
		Email:    "test@example.com",
		Password: "Password123",
	}, nil)
	if err != nil {
		t.Fatalf("login returned error: %v", err)
	}

	if loginRes.TokenPair.AccessToken == "" {
		t.Fatalf("ожидался access токен")
	}
}

func TestAuthService_RegisterFreelancerStartsPending(t *testing.T) {
	repo := newMockAuthRepository()
	service := NewAuthService(repo, NewTokenManager("a", "r", time.Minute, time.Hour))

	res, err := service.Register(context.Background(), RegisterInput{
		Email:    "dev@example.com",
		Password: "Password123",
		UserType: models.UserTypeFreelancer,
	}, nil)
	if err != nil {
		t.Fatalf("register returned error: %v", err)
	}

	profile, ok := repo.freelancers[res.User.ID]
	if !ok {
		t.Fatalf("профиль фрилансера должен быть создан")
	}
	if profile.VerificationStatus != models.VerificationStatusPending {
		t.Fatalf("новый фрилансер должен быть в статусе pending, получили %s", profile.VerificationStatus)
	}
}

func TestAuthService_ToggleVerification(t *testing.T) {
	repo := newMockAuthRepository()
	service := NewAuthService(repo, NewTokenManager("a", "r", time.Minute, time.Hour))
	ctx := context.Background()

	res, err := service.Register(ctx, RegisterInput{
		Email:    "dev@example.com",
		Password: "Password123",
		UserType: models.UserTypeFreelancer,
	}, nil)
	if err != nil {
		t.Fatalf("register returned error: %v", err)
	}

	// Свежезарегистрированный фрилансер проходит верификацию сам.
	profile, err := service.ToggleVerification(ctx, res.User.ID)
	if err != nil {
		t.Fatalf("toggle verification вернул ошибку: %v", err)
	}
	if profile.VerificationStatus != models.VerificationStatusVerified {
		t.Fatalf("ожидался статус verified, получили %s", profile.VerificationStatus)
	}

	// Повторное переключение возвращает профиль в pending.
	profile, err = service.ToggleVerification(ctx, res.User.ID)
	if err != nil {
		t.Fatalf("toggle verification вернул ошибку: %v", err)
	}
	if profile.VerificationStatus != models.VerificationStatusPending {
		t.Fatalf("ожидался статус pending, получили %s", profile.VerificationStatus)
	}
}

func TestAuthService_ToggleVerification_NoProfile(t *testing.T) {
	repo := newMockAuthRepository()
	service := NewAuthService(repo, NewTokenManager("a", "r", time.Minute, time.Hour))

	if _, err := service.ToggleVerification(context.Background(), uuid.New()); err == nil {
		t.Fatalf("ожидалась ошибка для пользователя без профиля фрилансера")
	}
}

func TestAuthService_Refresh(t *testing.T) {
	repo := newMockAuthRepository()
	tokenManager := NewTokenManager("access-secret", "refresh-secret", time.Minute, time.Hour)
	service := NewAuthService(repo, tokenManager)

	ctx := context.Background()
	hash, _ := bcrypt.GenerateFromPassword([]byte("Password123"), bcrypt.DefaultCost)
	user := &models.User{
		ID:           uuid.New(),
		Email:        "user@example.com",
		PasswordHash: string(hash),
		UserType:     models.UserTypeFreelancer,
		IsActive:     true,
	}
	repo.usersByEmail[user.Email] = user
	repo.usersByID[user.ID] = user

	tokenPair, accessExp, refreshExp, err := tokenManager.GeneratePair(user)
	if err != nil {
		t.Fatalf("не удалось сгенерировать токены: %v", err)
	}
	if accessExp.After(refreshExp) {
		t.Fatalf("access должен истекать раньше refresh")
	}

	repo.sessions[tokenPair.RefreshToken] = &models.Session{
		ID:           uuid.New(),
		UserID:       user.ID,
		RefreshToken: tokenPair.RefreshToken,
		ExpiresAt:    refreshExp,
	}

	newPair, err := service.Refresh(ctx, tokenPair.RefreshToken, nil)
	if err != nil {
		t.Fatalf("refresh вернул ошибку: %v", err)
	}

	if newPair.RefreshToken == tokenPair.RefreshToken {
		t.Fatalf("ожидался новый refresh токен")
	}
}
