package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/freelance-platform/internal/models"
	"github.com/ignatzorin/freelance-platform/internal/repository/common"
)

// Ошибки репозитория пользователей.
var (
	ErrUserNotFound    = errors.New("user not found")
	ErrProfileNotFound = errors.New("profile not found")
)

// UserRepository отвечает за пользователей, их профили и сессии.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository создаёт экземпляр репозитория.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create создаёт нового пользователя.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (email, full_name, password_hash, user_type, is_active)
		VALUES ($1, $2, $3, $4, TRUE)
		RETURNING id, created_at, updated_at
	`

	if err := r.db.QueryRowxContext(
		ctx, query,
		user.Email, user.FullName, user.PasswordHash, user.UserType,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt); err != nil {
		return fmt.Errorf("user repository: create %w", err)
	}

	return nil
}

// GetByEmail возвращает пользователя по email.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return common.GetByField[models.User](ctx, r.db, "users", "email", email, ErrUserNotFound)
}

// GetByID возвращает пользователя по идентификатору.
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return common.GetByID[models.User](ctx, r.db, "users", id, ErrUserNotFound)
}

// CreateClientProfile создаёт профиль заказчика.
func (r *UserRepository) CreateClientProfile(ctx context.Context, profile *models.ClientProfile) error {
	query := `
		INSERT INTO client_profiles (user_id, company_name, company_size, industry)
		VALUES ($1, $2, $3, $4)
		RETURNING id, total_spent, jobs_posted, created_at, updated_at
	`
	err := r.db.QueryRowxContext(ctx, query, profile.UserID, profile.CompanyName, profile.CompanySize, profile.Industry).
		Scan(&profile.ID, &profile.TotalSpent, &profile.JobsPosted, &profile.CreatedAt, &profile.UpdatedAt)
	if err != nil {
		return fmt.Errorf("user repository: create client profile %w", err)
	}
	return nil
}

// CreateFreelancerProfile создаёт профиль фрилансера.
func (r *UserRepository) CreateFreelancerProfile(ctx context.Context, profile *models.FreelancerProfile) error {
	query := `
		INSERT INTO freelancer_profiles (user_id, bio, hourly_rate, verification_status, certification_level)
		VALUES ($1, $2, $3, 'pending', 1)
		RETURNING id, verification_status, certification_level, total_earned, jobs_completed, created_at, updated_at
	`
	err := r.db.QueryRowxContext(ctx, query, profile.UserID, profile.Bio, profile.HourlyRate).
		Scan(&profile.ID, &profile.VerificationStatus, &profile.CertificationLevel,
			&profile.TotalEarned, &profile.JobsCompleted, &profile.CreatedAt, &profile.UpdatedAt)
	if err != nil {
		return fmt.Errorf("user repository: create freelancer profile %w", err)
	}
	return nil
}

// GetClientProfileByUserID возвращает профиль заказчика по пользователю.
func (r *UserRepository) GetClientProfileByUserID(ctx context.Context, userID uuid.UUID) (*models.ClientProfile, error) {
	return common.GetByField[models.ClientProfile](ctx, r.db, "client_profiles", "user_id", userID, ErrProfileNotFound)
}

// GetFreelancerProfileByUserID возвращает профиль фрилансера по пользователю.
func (r *UserRepository) GetFreelancerProfileByUserID(ctx context.Context, userID uuid.UUID) (*models.FreelancerProfile, error) {
	return common.GetByField[models.FreelancerProfile](ctx, r.db, "freelancer_profiles", "user_id", userID, ErrProfileNotFound)
}

// GetFreelancerProfileByID возвращает профиль фрилансера.
func (r *UserRepository) GetFreelancerProfileByID(ctx context.Context, id uuid.UUID) (*models.FreelancerProfile, error) {
	return common.GetByID[models.FreelancerProfile](ctx, r.db, "freelancer_profiles", id, ErrProfileNotFound)
}

// ToggleFreelancerVerification переключает статус верификации фрилансера:
// pending -> verified, verified -> pending. Отклонённый профиль не
// переключается.
func (r *UserRepository) ToggleFreelancerVerification(ctx context.Context, userID uuid.UUID) (*models.FreelancerProfile, error) {
	var profile *models.FreelancerProfile
	err := common.WithTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		var p models.FreelancerProfile
		err := tx.GetContext(ctx, &p, `SELECT * FROM freelancer_profiles WHERE user_id = $1 FOR UPDATE`, userID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrProfileNotFound
			}
			return fmt.Errorf("user repository: toggle verification lock %w", err)
		}

		var next string
		switch p.VerificationStatus {
		case models.VerificationStatusPending:
			next = models.VerificationStatusVerified
		case models.VerificationStatusVerified:
			next = models.VerificationStatusPending
		default:
			return common.ErrInvalidStatus
		}

		err = tx.QueryRowxContext(ctx, `
			UPDATE freelancer_profiles SET verification_status = $2, updated_at = NOW() WHERE id = $1
			RETURNING *
		`, p.ID, next).StructScan(&p)
		if err != nil {
			return fmt.Errorf("user repository: toggle verification update %w", err)
		}
		profile = &p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return profile, nil
}

// UpdateLastLoginAt отмечает время последнего входа.
func (r *UserRepository) UpdateLastLoginAt(ctx context.Context, userID uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `UPDATE users SET last_login_at = NOW() WHERE id = $1`, userID)
	if err != nil {
		return fmt.Errorf("user repository: update last login %w", err)
	}
	return nil
}

// CreateSession сохраняет refresh-сессию.
func (r *UserRepository) CreateSession(ctx context.Context, session *models.Session) error {
	query := `
		INSERT INTO user_sessions (user_id, refresh_token, user_agent, ip_address, expires_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`
	err := r.db.QueryRowxContext(ctx, query,
		session.UserID, session.RefreshToken, session.UserAgent, session.IPAddress, session.ExpiresAt,
	).Scan(&session.ID, &session.CreatedAt)
	if err != nil {
		return fmt.Errorf("user repository: create session %w", err)
	}
	return nil
}

// GetSessionByToken возвращает сессию по refresh токену.
func (r *UserRepository) GetSessionByToken(ctx context.Context, refreshToken string) (*models.Session, error) {
	var session models.Session
	err := r.db.GetContext(ctx, &session, `SELECT * FROM user_sessions WHERE refresh_token = $1`, refreshToken)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("user repository: get session %w", err)
	}
	return &session, nil
}

// DeleteSession удаляет сессию по refresh токену.
func (r *UserRepository) DeleteSession(ctx context.Context, refreshToken string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM user_sessions WHERE refresh_token = $1`, refreshToken)
	if err != nil {
		return fmt.Errorf("user repository: delete session %w", err)
	}
	return nil
}

// ListSessions возвращает активные сессии пользователя.
func (r *UserRepository) ListSessions(ctx context.Context, userID uuid.UUID) ([]models.Session, error) {
	var sessions []models.Session
	err := r.db.SelectContext(ctx, &sessions, `
		SELECT * FROM user_sessions WHERE user_id = $1 AND expires_at > NOW() ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("user repository: list sessions %w", err)
	}
	return sessions, nil
}

// DeleteSessionByID удаляет конкретную сессию пользователя.
func (r *UserRepository) DeleteSessionByID(ctx context.Context, sessionID, userID uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM user_sessions WHERE id = $1 AND user_id = $2`, sessionID, userID)
	if err != nil {
		return fmt.Errorf("user repository: delete session by id %w", err)
	}
	return nil
}

// DeleteAllSessionsExcept удаляет все сессии пользователя, кроме текущей.
func (r *UserRepository) DeleteAllSessionsExcept(ctx context.Context, userID uuid.UUID, exceptRefreshToken string) error {
	_, err := r.db.ExecContext(ctx, `
		DELETE FROM user_sessions WHERE user_id = $1 AND refresh_token <> $2
	`, userID, exceptRefreshToken)
	if err != nil {
		return fmt.Errorf("user repository: delete sessions %w", err)
	}
	return nil
}
