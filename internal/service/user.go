package service

import (
	"FileVault/internal/repo"
	"FileVault/model"
	"FileVault/utils"
	"errors"

	"github.com/google/uuid"
)

// ErrInvalidCredentials is returned for any login failure; callers must not
// learn whether the email or the password was wrong.
var ErrInvalidCredentials = errors.New("invalid credentials")

// CreateUser hashes the password, assigns uuid and token, and persists the user.
func CreateUser(user *model.User) error {
	user.UUID = uuid.NewString()
	user.Token = utils.GenerateAuthToken()
	user.Password = utils.GetPwd(user.Password)
	return repo.Db.Create(user).Error
}

// IsEmailExist reports whether the email is already registered.
func IsEmailExist(email string) bool {
	var count int64
	repo.Db.Model(&model.User{}).Where("email = ?", email).Count(&count)
	return count > 0
}

// Authenticate verifies email and password and returns the user.
func Authenticate(email, password string) (*model.User, error) {
	var user model.User
	if err := repo.Db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, ErrInvalidCredentials
	}
	if !utils.CheckPwd(password, user.Password) {
		return nil, ErrInvalidCredentials
	}
	return &user, nil
}

// FindUserByToken resolves a bearer token to its user.
func FindUserByToken(token string) (*model.User, error) {
	var user model.User
	if err := repo.Db.Where("token = ?", token).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}
