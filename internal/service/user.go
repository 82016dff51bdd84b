package service

import (
	"GoVault/internal/repo"
	"GoVault/model"
	"GoVault/utils"
	"errors"
	"strings"

	"gorm.io/gorm"
)

// Users is the credential store. Passwords are bcrypt-hashed before they
// reach the catalog and are never compared in plaintext.
type Users struct {
	db *gorm.DB
}

// NewUsers creates the credential store over a database handle.
func NewUsers(db *gorm.DB) *Users {
	return &Users{db: db}
}

// Create registers a new user. A taken handle fails with ErrConflict.
func (u *Users) Create(handle, password string) (*model.User, error) {
	handle = strings.TrimSpace(handle)
	if handle == "" {
		return nil, validationErr("empty handle")
	}
	if password == "" {
		return nil, validationErr("empty password")
	}
	hash, err := utils.HashPwd(password)
	if err != nil {
		return nil, err
	}
	user := &model.User{
		Handle:   handle,
		Password: hash,
	}
	if err := u.db.Create(user).Error; err != nil {
		if repo.IsDuplicateKeyError(err) {
			return nil, ErrConflict
		}
		return nil, err
	}
	return user, nil
}

// Verify checks credentials and returns the user. Unknown handles and
// wrong passwords both fail with ErrUnauthorized.
func (u *Users) Verify(handle, password string) (*model.User, error) {
	var user model.User
	if err := u.db.Where("handle = ?", strings.TrimSpace(handle)).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, err
	}
	if !utils.CheckPwd(password, user.Password) {
		return nil, ErrUnauthorized
	}
	return &user, nil
}

// FindHandleById returns a user's handle.
func (u *Users) FindHandleById(userId uint64) (string, error) {
	var user model.User
	if err := u.db.Where("id = ?", userId).First(&user).Error; err != nil {
		return "", err
	}
	return user.Handle, nil
}
