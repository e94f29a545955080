package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"go-storefront/middleware"
	"go-storefront/models"
	"go-storefront/store"
	"go-storefront/utils"
)

// UserController handles signup, login and profile requests.
type UserController struct {
	Store        store.Store
	EmailService *utils.EmailService
	Logger       *zap.Logger
}

// NewUserController creates a new UserController.
func NewUserController(st store.Store, emailService *utils.EmailService, logger *zap.Logger) *UserController {
	return &UserController{
		Store:        st,
		EmailService: emailService,
		Logger:       logger,
	}
}

// Signup registers a new user, seeds their cart and returns a session token.
func (uc *UserController) Signup(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid input")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	exists, err := uc.Store.EmailExists(ctx, req.Email)
	if err != nil {
		uc.Logger.Error("signup: email lookup failed", zap.Error(err))
		utils.Error(w, http.StatusInternalServerError, "Server Error")
		return
	}
	if exists {
		utils.Error(w, http.StatusBadRequest, "User with the same email already exists.")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Server Error")
		return
	}

	user := models.User{
		Name:      req.Name,
		Email:     req.Email,
		Password:  string(hashed),
		Cart:      models.NewCart(),
		CreatedAt: time.Now(),
	}
	if err := uc.Store.InsertUser(ctx, &user); err != nil {
		uc.Logger.Error("signup: insert failed", zap.Error(err))
		utils.Error(w, http.StatusInternalServerError, "Server Error")
		return
	}

	token, err := utils.GenerateJWT(user.ID.Hex(), user.Email)
	if err != nil {
		uc.Logger.Error("signup: token generation failed", zap.Error(err))
		utils.Error(w, http.StatusInternalServerError, "Server Error")
		return
	}

	if err := uc.EmailService.SendWelcomeEmail(user.Name, user.Email); err != nil {
		uc.Logger.Warn("signup: welcome email failed", zap.String("email", user.Email), zap.Error(err))
	}

	utils.JSON(w, http.StatusOK, map[string]any{"success": true, "token": token})
}

// Login verifies credentials and returns a session token plus the stored cart.
func (uc *UserController) Login(w http.ResponseWriter, r *http.Request) {
	var creds struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid input")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	user, err := uc.Store.UserByEmail(ctx, creds.Email)
	if errors.Is(err, store.ErrUserNotFound) {
		utils.Error(w, http.StatusBadRequest, "Invalid email or password")
		return
	}
	if err != nil {
		uc.Logger.Error("login: user lookup failed", zap.Error(err))
		utils.Error(w, http.StatusInternalServerError, "Server Error")
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(creds.Password)) != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid email or password")
		return
	}

	token, err := utils.GenerateJWT(user.ID.Hex(), user.Email)
	if err != nil {
		uc.Logger.Error("login: token generation failed", zap.Error(err))
		utils.Error(w, http.StatusInternalServerError, "Server Error")
		return
	}

	utils.JSON(w, http.StatusOK, map[string]any{"success": true, "token": token, "cart": user.Cart})
}

// Profile returns the authenticated user's name, email and address.
func (uc *UserController) Profile(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.UserClaims(r)
	if !ok {
		http.Error(w, "Access Denied", http.StatusUnauthorized)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	user, err := uc.Store.UserByEmail(ctx, claims.Email)
	if errors.Is(err, store.ErrUserNotFound) {
		utils.Message(w, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		uc.Logger.Error("profile: user lookup failed", zap.Error(err))
		utils.Message(w, http.StatusInternalServerError, "Error fetching user profile")
		return
	}

	utils.JSON(w, http.StatusOK, map[string]any{
		"name":    user.Name,
		"email":   user.Email,
		"address": user.Address,
	})
}

// UpdateProfile updates the authenticated user's name, address and email. The
// new email must not belong to another account.
func (uc *UserController) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.UserClaims(r)
	if !ok {
		http.Error(w, "Access Denied", http.StatusUnauthorized)
		return
	}

	var req struct {
		Name    string `json:"name"`
		Address string `json:"address"`
		Email   string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid input")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if req.Email != claims.Email {
		exists, err := uc.Store.EmailExists(ctx, req.Email)
		if err != nil {
			uc.Logger.Error("update profile: email lookup failed", zap.Error(err))
			utils.Message(w, http.StatusInternalServerError, "Error updating profile")
			return
		}
		if exists {
			utils.Message(w, http.StatusBadRequest, "User with this email already exists.")
			return
		}
	}

	user, err := uc.Store.UpdateProfile(ctx, claims.Email, req.Name, req.Address, req.Email)
	if errors.Is(err, store.ErrUserNotFound) {
		utils.Message(w, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		uc.Logger.Error("update profile: update failed", zap.Error(err))
		utils.Message(w, http.StatusInternalServerError, "Error updating profile")
		return
	}

	utils.JSON(w, http.StatusOK, map[string]any{
		"message": "Profile updated successfully",
		"user":    user,
	})
}

// CheckEmail reports whether an email is already taken by another account.
func (uc *UserController) CheckEmail(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email        string `json:"email"`
		CurrentEmail string `json:"currentEmail"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid input")
		return
	}

	if req.Email == req.CurrentEmail {
		utils.JSON(w, http.StatusOK, map[string]bool{"exists": false})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	exists, err := uc.Store.EmailExists(ctx, req.Email)
	if err != nil {
		uc.Logger.Error("check email: lookup failed", zap.Error(err))
		utils.Message(w, http.StatusInternalServerError, "Error checking email")
		return
	}
	utils.JSON(w, http.StatusOK, map[string]bool{"exists": exists})
}

// RegistrationData lists all registered users. Password hashes are never
// serialized.
func (uc *UserController) RegistrationData(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	users, err := uc.Store.AllUsers(ctx)
	if err != nil {
		uc.Logger.Error("registration data: lookup failed", zap.Error(err))
		utils.JSON(w, http.StatusInternalServerError, map[string]any{
			"success": false, "message": "Error fetching users",
		})
		return
	}
	utils.JSON(w, http.StatusOK, map[string]any{"success": true, "users": users})
}
