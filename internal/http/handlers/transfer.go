package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fernpay/payments-backend/internal/http/response"
	"github.com/fernpay/payments-backend/internal/pkg/logger"
	"github.com/fernpay/payments-backend/internal/services"
)

type TransferHandler struct {
	log       *logger.Logger
	transfers services.TransferService
}

func NewTransferHandler(log *logger.Logger, transfers services.TransferService) *TransferHandler {
	return &TransferHandler{
		log:       log.With("handler", "TransferHandler"),
		transfers: transfers,
	}
}

type transferRequest struct {
	SenderAccountNumber   *int64   `json:"senderAccountNumber" binding:"required"`
	ReceiverAccountNumber *int64   `json:"receiverAccountNumber" binding:"required"`
	Amount                *float64 `json:"amount" binding:"required"`
}

// Pay executes one transfer attempt. A rejected transfer still responds 200:
// the rejection lives in the record's status, not in the HTTP status.
func (h *TransferHandler) Pay(c *gin.Context) {
	var req transferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_input", err)
		return
	}
	record, err := h.transfers.ProcessTransfer(c.Request.Context(), *req.SenderAccountNumber, *req.ReceiverAccountNumber, *req.Amount)
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	response.RespondOK(c, record)
}

func (h *TransferHandler) ListByAccount(c *gin.Context) {
	accountNumber, ok := accountNumberParam(c)
	if !ok {
		return
	}
	transfers, err := h.transfers.ListByAccountNumber(c.Request.Context(), accountNumber)
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{"transfers": transfers})
}
