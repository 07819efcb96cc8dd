package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"vetclinic-server/internal/models"
	"vetclinic-server/internal/utils"
)

// UserHandler handles staff account management. All routes here are
// admin-only except the veterinarian listing used by the scheduling screen.
type UserHandler struct {
	DB *gorm.DB
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(db *gorm.DB) *UserHandler {
	return &UserHandler{DB: db}
}

// ListUsers returns all staff accounts, optionally filtered by role.
func (h *UserHandler) ListUsers(c *gin.Context) {
	query := h.DB.Order("full_name asc")
	if role := c.Query("role"); role != "" {
		query = query.Where("role = ?", role)
	}

	var users []models.User
	if err := query.Find(&users).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch users: "+err.Error())
		return
	}

	sanitized := make([]models.UserSanitized, 0, len(users))
	for _, u := range users {
		sanitized = append(sanitized, u.Sanitize())
	}
	utils.Success(c, "Users fetched", sanitized)
}

// ListVeterinarians returns the accounts that can be booked for appointments.
func (h *UserHandler) ListVeterinarians(c *gin.Context) {
	var vets []models.User
	if err := h.DB.Where("role = ?", models.RoleVeterinarian).Order("full_name asc").Find(&vets).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch veterinarians: "+err.Error())
		return
	}

	sanitized := make([]models.UserSanitized, 0, len(vets))
	for _, v := range vets {
		sanitized = append(sanitized, v.Sanitize())
	}
	utils.Success(c, "Veterinarians fetched", sanitized)
}

// CreateUserRequest represents the request body for creating a staff account.
type CreateUserRequest struct {
	Username string      `json:"username" binding:"required,min=3"`
	Password string      `json:"password" binding:"required,min=8"`
	FullName string      `json:"fullName" binding:"required"`
	Email    string      `json:"email" binding:"omitempty,email"`
	Role     models.Role `json:"role" binding:"required,oneof=admin veterinarian receptionist"`
}

// CreateUser creates a staff account.
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	var count int64
	if err := h.DB.Model(&models.User{}).Where("username = ?", req.Username).Count(&count).Error; err != nil {
		utils.InternalServerError(c, "Database error: "+err.Error())
		return
	}
	if count > 0 {
		utils.Conflict(c, "Username already taken")
		return
	}

	user := models.User{
		Username: req.Username,
		FullName: req.FullName,
		Email:    req.Email,
		Role:     req.Role,
	}
	if err := user.SetPassword(req.Password); err != nil {
		utils.InternalServerError(c, "Failed to hash password: "+err.Error())
		return
	}
	if err := h.DB.Create(&user).Error; err != nil {
		utils.InternalServerError(c, "Failed to create user: "+err.Error())
		return
	}

	utils.Created(c, "User created", user.Sanitize())
}

// UpdateUserRequest represents the request body for editing a staff account.
type UpdateUserRequest struct {
	FullName string      `json:"fullName" binding:"required"`
	Email    string      `json:"email" binding:"omitempty,email"`
	Role     models.Role `json:"role" binding:"required,oneof=admin veterinarian receptionist"`
	Password string      `json:"password" binding:"omitempty,min=8"`
}

// UpdateUser edits a staff account. Password is only changed when provided.
func (h *UserHandler) UpdateUser(c *gin.Context) {
	id := c.Param("id")

	var req UpdateUserRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	var user models.User
	if err := h.DB.First(&user, "id = ?", id).Error; err != nil {
		utils.NotFound(c, "User not found")
		return
	}

	user.FullName = req.FullName
	user.Email = req.Email
	user.Role = req.Role
	if req.Password != "" {
		if err := user.SetPassword(req.Password); err != nil {
			utils.InternalServerError(c, "Failed to hash password: "+err.Error())
			return
		}
	}

	if err := h.DB.Save(&user).Error; err != nil {
		utils.InternalServerError(c, "Failed to update user: "+err.Error())
		return
	}

	utils.Success(c, "User updated", user.Sanitize())
}

// DeleteUser removes a staff account. The caller cannot delete themselves.
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id := c.Param("id")

	if callerID, ok := c.Get("userID"); ok && callerID == id {
		utils.BadRequest(c, "You cannot delete your own account")
		return
	}

	result := h.DB.Delete(&models.User{}, "id = ?", id)
	if result.Error != nil {
		utils.InternalServerError(c, "Failed to delete user: "+result.Error.Error())
		return
	}
	if result.RowsAffected == 0 {
		utils.NotFound(c, "User not found")
		return
	}

	utils.Success(c, "User deleted", nil)
}
