package repositories

import (
	"context"
	"errors"

	"influmatch_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrAccountNotFound      = errors.New("account not found")
	ErrAccountAlreadyExists = errors.New("account already exists")
)

type AccountRepository interface {
	FindByID(ctx context.Context, id string) (*models.Account, error)
	FindByEmail(ctx context.Context, email string) (*models.Account, error)
	Create(ctx context.Context, account *models.Account) error
	// Delete удаляет аккаунт вместе с его сессиями
	Delete(ctx context.Context, id string) error
}

type AccountRepositoryImpl struct {
	db *gorm.DB
}

func NewAccountRepository(db *gorm.DB) AccountRepository {
	return &AccountRepositoryImpl{db: db}
}

func (r *AccountRepositoryImpl) FindByID(ctx context.Context, id string) (*models.Account, error) {
	var account models.Account
	err := r.db.WithContext(ctx).First(&account, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return &account, nil
}

func (r *AccountRepositoryImpl) FindByEmail(ctx context.Context, email string) (*models.Account, error) {
	var account models.Account
	err := r.db.WithContext(ctx).First(&account, "email = ?", email).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return &account, nil
}

func (r *AccountRepositoryImpl) Create(ctx context.Context, account *models.Account) error {
	db := r.db.WithContext(ctx)

	var existing models.Account
	if err := db.Where("email = ?", account.Email).First(&existing).Error; err == nil {
		return ErrAccountAlreadyExists
	}

	if err := db.Create(account).Error; err != nil {
		// гонка двух регистраций на один email ловится уникальным индексом
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrAccountAlreadyExists
		}
		return err
	}
	return nil
}

func (r *AccountRepositoryImpl) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("account_id = ?", id).Delete(&models.Session{}).Error; err != nil {
			return err
		}

		result := tx.Where("id = ?", id).Delete(&models.Account{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrAccountNotFound
		}
		return nil
	})
}
