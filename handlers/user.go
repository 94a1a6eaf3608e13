package handlers

import (
	"net/http"

	"slotbook/middleware"
	"slotbook/models"
	"slotbook/services/user"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type UserHandler struct {
	UserService user.UserService
}

func NewUserHandler(svc user.UserService) *UserHandler {
	return &UserHandler{UserService: svc}
}

// SendCodeHandler handles POST /send-code.
func (h *UserHandler) SendCodeHandler(c *gin.Context) {
	var req models.SendCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := h.UserService.SendCode(c.Request.Context(), req.Email); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

// RegisterHandler handles POST /register.
func (h *UserHandler) RegisterHandler(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	id, err := h.UserService.Register(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, models.CreatedResponse{ID: id})
}

// LoginHandler handles POST /login.
func (h *UserHandler) LoginHandler(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	token, err := h.UserService.Login(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	getLogger(c).Info("User logged in", zap.String("username", req.Username))
	c.JSON(http.StatusOK, models.TokenResponse{Token: token})
}

// LogoutHandler handles POST /logout.
func (h *UserHandler) LogoutHandler(c *gin.Context) {
	if err := h.UserService.Logout(c.Request.Context(), c.GetString(middleware.ContextToken)); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// RestoreHandler handles POST /restore.
func (h *UserHandler) RestoreHandler(c *gin.Context) {
	var req models.RestoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := h.UserService.Restore(c.Request.Context(), req); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

// GetUserByIDHandler handles GET /users/:id.
func (h *UserHandler) GetUserByIDHandler(c *gin.Context) {
	usr, err := h.UserService.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, usr)
}

// GetMasterHandler handles GET /masters/:username.
func (h *UserHandler) GetMasterHandler(c *gin.Context) {
	master, err := h.UserService.GetMasterByUsername(c.Request.Context(), c.Param("username"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, master)
}

// ListMastersHandler handles GET /masters.
func (h *UserHandler) ListMastersHandler(c *gin.Context) {
	var filter models.MasterFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		badRequest(c, err)
		return
	}
	masters, err := h.UserService.ListMasters(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, masters)
}

// SearchHandler handles GET /search?key=.
func (h *UserHandler) SearchHandler(c *gin.Context) {
	users, err := h.UserService.Search(c.Request.Context(), c.Query("key"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// UpdateUserHandler handles PUT /users for the caller's own profile.
func (h *UserHandler) UpdateUserHandler(c *gin.Context) {
	var req models.UserUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	usr, err := h.UserService.Update(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, usr)
}

// SetPushTokenHandler handles PUT /users/push-token.
func (h *UserHandler) SetPushTokenHandler(c *gin.Context) {
	var req models.PushTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := h.UserService.SetPushToken(c.Request.Context(), currentUserID(c), req.Token); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
