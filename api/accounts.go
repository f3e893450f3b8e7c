package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mpetrov/flightdesk/internal/service/account"
)

type AccountHandler struct {
	service account.AccountUseCase
}

type createAccountRequest struct {
	Username       string `json:"username"`
	Password       string `json:"password"`
	InitialBalance int64  `json:"initial_balance"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func NewAccountHandler(service account.AccountUseCase) *AccountHandler {
	return &AccountHandler{service: service}
}

func (h *AccountHandler) Register(router *gin.RouterGroup) {
	router.POST("/accounts", h.create)
	router.POST("/login", h.login)
	router.POST("/logout", h.logout)
}

func (h *AccountHandler) create(c *gin.Context) {
	var req createAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.service.Register(c.Request.Context(), req.Username, req.Password, req.InitialBalance); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"username": req.Username})
}

func (h *AccountHandler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.service.Login(c.Request.Context(), currentSession(c), req.Username, req.Password); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"logged_in_as": req.Username})
}

func (h *AccountHandler) logout(c *gin.Context) {
	h.service.Logout(currentSession(c))
	c.Status(http.StatusNoContent)
}
