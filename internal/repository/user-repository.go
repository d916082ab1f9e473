package repository

import (
	"errors"
	"log"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/novatube/user-service/internal/domain"
	"gorm.io/gorm"
)

// sensitive columns excluded from redacted reads
var redactedOmit = []string{"password_hash", "refresh_token"}

type UserRepository interface {
	CreateUser(user *domain.User) (*domain.User, error)
	FindByUsernameOrEmail(username, email string) (*domain.User, error)
	FindByUsernameAndEmail(username, email string) (*domain.User, error)
	FindUserByUsername(username string) (*domain.User, error)
	FindUserByID(userID uint) (*domain.User, error)
	FindUserByIDRedacted(userID uint) (*domain.User, error)
	FindAllRedacted() ([]domain.User, error)
	UpdateFields(userID uint, patch map[string]interface{}) (*domain.User, error)
	SaveUser(user *domain.User) error
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// IsDuplicateKey reports whether err is a postgres unique constraint
// violation. The unique indexes on username and email are the real
// uniqueness guarantee; the pre-flight existence check only improves the
// error message.
func IsDuplicateKey(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

func (r *userRepository) CreateUser(user *domain.User) (*domain.User, error) {
	if user == nil {
		return nil, errors.New("nil user")
	}

	if err := r.db.Create(user).Error; err != nil {
		log.Printf("create user error: %v", err)
		return nil, err
	}

	return user, nil
}

func (r *userRepository) FindByUsernameOrEmail(username, email string) (*domain.User, error) {
	user := &domain.User{}

	err := r.db.Where("username = ? OR email = ?", username, email).First(user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		log.Printf("find user by username or email error: %v", err)
		return nil, err
	}

	return user, nil
}

func (r *userRepository) FindByUsernameAndEmail(username, email string) (*domain.User, error) {
	user := &domain.User{}

	err := r.db.Where("username = ? AND email = ?", username, email).First(user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		log.Printf("find user by identity error: %v", err)
		return nil, err
	}

	return user, nil
}

func (r *userRepository) FindUserByUsername(username string) (*domain.User, error) {
	user := &domain.User{}

	err := r.db.Where("username = ?", username).First(user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		log.Printf("find user by username error: %v", err)
		return nil, err
	}

	return user, nil
}

func (r *userRepository) FindUserByID(userID uint) (*domain.User, error) {
	user := &domain.User{}

	err := r.db.First(user, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		log.Printf("find user by id error: %v", err)
		return nil, err
	}

	return user, nil
}

func (r *userRepository) FindUserByIDRedacted(userID uint) (*domain.User, error) {
	user := &domain.User{}

	err := r.db.Omit(redactedOmit...).First(user, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		log.Printf("find user by id error: %v", err)
		return nil, err
	}

	return user, nil
}

func (r *userRepository) FindAllRedacted() ([]domain.User, error) {
	var users []domain.User

	if err := r.db.Omit(redactedOmit...).Find(&users).Error; err != nil {
		log.Printf("find all users error: %v", err)
		return nil, err
	}

	return users, nil
}

// UpdateFields applies an atomic partial update and returns the
// post-update record.
func (r *userRepository) UpdateFields(userID uint, patch map[string]interface{}) (*domain.User, error) {
	if err := r.db.Model(&domain.User{}).Where("id = ?", userID).Updates(patch).Error; err != nil {
		log.Printf("update user fields error: %v", err)
		return nil, err
	}

	return r.FindUserByID(userID)
}

func (r *userRepository) SaveUser(user *domain.User) error {
	if user == nil {
		return errors.New("nil user")
	}

	if err := r.db.Save(user).Error; err != nil {
		log.Printf("save user error: %v", err)
		return err
	}
	return nil
}
