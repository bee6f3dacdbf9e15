package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"sort"

	"bizledger/internal/apperrors"
	"bizledger/internal/core/domain"
	portssvc "bizledger/internal/core/ports/services"
	"bizledger/internal/dto"
	"bizledger/internal/middleware"

	"github.com/gin-gonic/gin"
)

// successEnvelope is the uniform success payload of the API.
type successEnvelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// errorEnvelope is the uniform failure payload of the API.
type errorEnvelope struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Code    int    `json:"code"`
}

func respondSuccess(c *gin.Context, status int, message string, data any) {
	c.JSON(status, successEnvelope{Success: true, Message: message, Data: data})
}

func respondErrorMsg(c *gin.Context, status int, message string) {
	c.JSON(status, errorEnvelope{Success: false, Error: message, Code: status})
}

// respondError maps a service error to the HTTP envelope. Unbalanced and
// storage errors stay generic on the wire; detail goes to the log only.
func respondError(c *gin.Context, err error) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	switch {
	case errors.Is(err, apperrors.ErrValidation):
		respondErrorMsg(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, apperrors.ErrNotFound):
		respondErrorMsg(c, http.StatusNotFound, err.Error())
	case errors.Is(err, apperrors.ErrConflict), errors.Is(err, apperrors.ErrDuplicate):
		respondErrorMsg(c, http.StatusConflict, err.Error())
	case errors.Is(err, apperrors.ErrInvalidState):
		respondErrorMsg(c, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, apperrors.ErrUnbalanced):
		logger.Error("Unbalanced entry reached the posting path", slog.String("error", err.Error()))
		respondErrorMsg(c, http.StatusInternalServerError, "Internal server error")
	default:
		logger.Error("Unhandled service error", slog.String("error", err.Error()))
		respondErrorMsg(c, http.StatusInternalServerError, "Internal server error")
	}
}

// actorFrom identifies the acting user for audit fields. There is no
// authentication surface; callers may identify themselves via header.
func actorFrom(c *gin.Context) string {
	if actor := c.GetHeader("X-Actor-ID"); actor != "" {
		return actor
	}
	return "system"
}

// postingResponse builds the standard balance-mutating response: the
// transaction plus a fresh read of every account it touched.
func postingResponse(c *gin.Context, accountSvc portssvc.AccountSvcFacade, companyID string, txn *domain.Transaction) (dto.PostingResponse, error) {
	accountIDs := make([]string, 0, len(txn.Lines))
	seen := make(map[string]struct{}, len(txn.Lines))
	for _, line := range txn.Lines {
		if _, ok := seen[line.AccountID]; !ok {
			seen[line.AccountID] = struct{}{}
			accountIDs = append(accountIDs, line.AccountID)
		}
	}

	accounts, err := accountSvc.GetAccountsByIDs(c.Request.Context(), companyID, accountIDs)
	if err != nil {
		return dto.PostingResponse{}, err
	}

	fresh := make([]domain.Account, 0, len(accounts))
	for _, account := range accounts {
		fresh = append(fresh, account)
	}
	sort.Slice(fresh, func(i, j int) bool { return fresh[i].AccountCode < fresh[j].AccountCode })

	return dto.PostingResponse{
		Transaction: dto.ToTransactionResponse(txn),
		Accounts:    dto.ToListAccountResponse(fresh),
	}, nil
}
