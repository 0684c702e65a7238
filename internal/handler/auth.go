package handler

import (
	"FileVault/internal/dto"
	"FileVault/internal/service"
	"FileVault/model"
	"FileVault/utils"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Register creates a user and returns their bearer token.
func Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name, email, and password are required"})
		return
	}
	if service.IsEmailExist(req.Email) {
		c.JSON(http.StatusConflict, gin.H{"error": "email is already registered"})
		return
	}

	user := model.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	}
	if err := service.CreateUser(&user); err != nil {
		// the pre-check above can race a concurrent registration
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusConflict, gin.H{"error": "email is already registered"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user registration failed"})
		return
	}

	if err := utils.SendWelcomeMail(user.Email, user.Name); err != nil && !errors.Is(err, utils.ErrSMTPNotConfigured) {
		log.Printf("welcome mail to %s not sent: %v", user.Email, err)
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "User registered successfully",
		"newUser": user,
		"token":   user.Token,
	})
}

// Login verifies credentials and returns the user's stored token.
func Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email and password are required"})
		return
	}

	user, err := service.Authenticate(req.Email, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "User logged in successfully",
		"user":    user,
		"token":   user.Token,
	})
}
