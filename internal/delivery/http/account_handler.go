package http

import (
	"context"
	"errors"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"cfohelper/internal/delivery/http/dto"
	"cfohelper/internal/domain"
)

// AccountService is the subset of service.AccountService the handlers need
type AccountService interface {
	Signup(ctx context.Context, username, password string) error
	Login(ctx context.Context, username, password string) error
	AppendHistory(ctx context.Context, username string, entry *domain.HistoryEntry) error
	GetHistory(ctx context.Context, username string) ([]domain.HistoryEntry, error)
}

// requestTimeout bounds each store round trip
const requestTimeout = 5 * time.Second

// AccountHandler handles signup, login and history requests
type AccountHandler struct {
	accounts AccountService
	logger   *zap.Logger
}

// NewAccountHandler creates a new AccountHandler
func NewAccountHandler(accounts AccountService, logger *zap.Logger) *AccountHandler {
	return &AccountHandler{
		accounts: accounts,
		logger:   logger,
	}
}

// Signup handles account creation
// POST /signup
func (h *AccountHandler) Signup(c echo.Context) error {
	var req dto.CredentialsRequest
	if err := c.Bind(&req); err != nil {
		return BadRequestResponse(c, MsgInvalidPayload)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	if err := h.accounts.Signup(ctx, req.Username, req.Password); err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			return BadRequestResponse(c, MsgUserExists)
		}
		h.logger.Error("Signup failed", zap.String("username", req.Username), zap.Error(err))
		return InternalServerErrorResponse(c)
	}

	return SuccessMessageResponse(c, MsgSignupSuccessful)
}

// Login handles credential checks. No token is issued.
// POST /login
func (h *AccountHandler) Login(c echo.Context) error {
	var req dto.CredentialsRequest
	if err := c.Bind(&req); err != nil {
		return BadRequestResponse(c, MsgInvalidPayload)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	if err := h.accounts.Login(ctx, req.Username, req.Password); err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			return BadRequestResponse(c, MsgInvalidCredentials)
		}
		h.logger.Error("Login failed", zap.String("username", req.Username), zap.Error(err))
		return InternalServerErrorResponse(c)
	}

	return SuccessMessageResponse(c, MsgLoginSuccessful)
}

// SaveHistory prepends an entry to a user's history
// POST /save-history
func (h *AccountHandler) SaveHistory(c echo.Context) error {
	var req dto.SaveHistoryRequest
	if err := c.Bind(&req); err != nil {
		return BadRequestResponse(c, MsgInvalidPayload)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	if err := h.accounts.AppendHistory(ctx, req.Username, &req.Entry); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return BadRequestResponse(c, MsgUserNotFound)
		}
		h.logger.Error("Save history failed", zap.String("username", req.Username), zap.Error(err))
		return InternalServerErrorResponse(c)
	}

	return SuccessMessageResponse(c, MsgHistorySaved)
}

// GetHistory returns a user's history newest first
// POST /get-history
func (h *AccountHandler) GetHistory(c echo.Context) error {
	var req dto.GetHistoryRequest
	if err := c.Bind(&req); err != nil {
		return BadRequestResponse(c, MsgInvalidPayload)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	history, err := h.accounts.GetHistory(ctx, req.Username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return BadRequestResponse(c, MsgUserNotFound)
		}
		h.logger.Error("Get history failed", zap.String("username", req.Username), zap.Error(err))
		return InternalServerErrorResponse(c)
	}

	if history == nil {
		history = []domain.HistoryEntry{}
	}
	return SuccessResponse(c, dto.HistoryResponse{History: history})
}
