package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/fernpay/payments-backend/internal/http/response"
	pkgerrors "github.com/fernpay/payments-backend/internal/pkg/errors"
	"github.com/fernpay/payments-backend/internal/pkg/logger"
	"github.com/fernpay/payments-backend/internal/services"
)

type AccountHandler struct {
	log      *logger.Logger
	accounts services.AccountService
}

func NewAccountHandler(log *logger.Logger, accounts services.AccountService) *AccountHandler {
	return &AccountHandler{
		log:      log.With("handler", "AccountHandler"),
		accounts: accounts,
	}
}

// Pointer fields so a missing key is distinguishable from a zero value.
type createAccountRequest struct {
	Name          *string  `json:"name" binding:"required"`
	Balance       *float64 `json:"balance" binding:"required"`
	AccountNumber *int64   `json:"accountNumber" binding:"required"`
}

func (h *AccountHandler) CreateAccount(c *gin.Context) {
	var req createAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_input", err)
		return
	}
	account, err := h.accounts.Create(c.Request.Context(), *req.Name, *req.Balance, *req.AccountNumber)
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	response.RespondOK(c, account)
}

func (h *AccountHandler) ListAccounts(c *gin.Context) {
	accounts, err := h.accounts.List(c.Request.Context())
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{"accounts": accounts})
}

func (h *AccountHandler) GetAccount(c *gin.Context) {
	accountNumber, ok := accountNumberParam(c)
	if !ok {
		return
	}
	account, err := h.accounts.GetByAccountNumber(c.Request.Context(), accountNumber)
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	response.RespondOK(c, account)
}

func accountNumberParam(c *gin.Context) (int64, bool) {
	raw := c.Param("accountNumber")
	accountNumber, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_input",
			fmt.Errorf("%w: account number %q is not numeric", pkgerrors.ErrInvalidInput, raw))
		return 0, false
	}
	return accountNumber, true
}
