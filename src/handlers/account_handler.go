package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/Dionizioaf/opensheets-app-sub000/src/database"
	"github.com/Dionizioaf/opensheets-app-sub000/src/logger"
	"github.com/Dionizioaf/opensheets-app-sub000/src/model"
	"github.com/Dionizioaf/opensheets-app-sub000/src/models"
	"github.com/Dionizioaf/opensheets-app-sub000/src/utils"
)

type AccountHandler struct{}

func NewAccountHandler() *AccountHandler {
	return &AccountHandler{}
}

func (h *AccountHandler) HandleCreateAccount(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "authentication required or user ID not found in context", http.StatusUnauthorized)
		return
	}

	var account models.Account
	if err := json.NewDecoder(r.Body).Decode(&account); err != nil {
		utils.SendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	account.UserID = userID
	if account.Name == "" {
		utils.SendJSONError(w, "Account name is required", http.StatusBadRequest)
		return
	}
	switch account.Kind {
	case models.AccountChecking, models.AccountSavings, models.AccountCreditCard:
	case "":
		account.Kind = models.AccountChecking
	default:
		utils.SendJSONError(w, "Unknown account kind", http.StatusBadRequest)
		return
	}

	if err := model.CreateAccount(database.DB, &account); err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			utils.SendJSONError(w, "An account with that name already exists", http.StatusConflict)
			return
		}
		logger.L.Error("Failed to create account", "userID", userID, "error", err)
		utils.SendJSONError(w, "Failed to create account", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(account)
}

func (h *AccountHandler) HandleListAccounts(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "authentication required or user ID not found in context", http.StatusUnauthorized)
		return
	}

	accounts, err := model.ListAccounts(database.DB, userID)
	if err != nil {
		logger.L.Error("Failed to list accounts", "userID", userID, "error", err)
		utils.SendJSONError(w, "Failed to list accounts", http.StatusInternalServerError)
		return
	}
	if accounts == nil {
		accounts = []models.Account{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(accounts)
}

func (h *AccountHandler) HandleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "authentication required or user ID not found in context", http.StatusUnauthorized)
		return
	}

	accountID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		utils.SendJSONError(w, "Invalid account id", http.StatusBadRequest)
		return
	}

	if err := model.DeleteAccount(database.DB, userID, accountID); err != nil {
		if errors.Is(err, model.ErrAccountNotFound) {
			utils.SendJSONError(w, "Account not found", http.StatusNotFound)
			return
		}
		logger.L.Error("Failed to delete account", "userID", userID, "accountID", accountID, "error", err)
		utils.SendJSONError(w, "Failed to delete account", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
