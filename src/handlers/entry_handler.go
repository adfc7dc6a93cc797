package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Dionizioaf/opensheets-app-sub000/src/logger"
	"github.com/Dionizioaf/opensheets-app-sub000/src/model"
	"github.com/Dionizioaf/opensheets-app-sub000/src/models"
	"github.com/Dionizioaf/opensheets-app-sub000/src/processors"
	"github.com/Dionizioaf/opensheets-app-sub000/src/services"
	"github.com/Dionizioaf/opensheets-app-sub000/src/utils"
)

type EntryHandler struct {
	ledgerService services.LedgerService
}

func NewEntryHandler(service services.LedgerService) *EntryHandler {
	return &EntryHandler{
		ledgerService: service,
	}
}

// HandleCreateEntry expands one intent into its entries and persists
// them. The response is the full expanded series.
func (h *EntryHandler) HandleCreateEntry(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "authentication required or user ID not found in context", http.StatusUnauthorized)
		return
	}

	var intent models.LedgerEntryIntent
	if err := json.NewDecoder(r.Body).Decode(&intent); err != nil {
		utils.SendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	intent.UserID = userID

	entries, err := h.ledgerService.CreateFromIntent(intent)
	if err != nil {
		var fieldErr *models.FieldValidationError
		if errors.As(err, &fieldErr) {
			utils.SendJSONError(w, fieldErr.Error(), http.StatusBadRequest)
			return
		}
		logger.L.Error("Failed to create ledger entries", "userID", userID, "error", err)
		utils.SendJSONError(w, "Failed to create ledger entries", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(entries); err != nil {
		logger.L.Error("Error encoding JSON response for created entries", "userID", userID, "error", err)
	}
}

// HandleListEntries lists the user's entries with optional query filters
// and ETag support for unchanged result sets.
func (h *EntryHandler) HandleListEntries(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "authentication required or user ID not found in context", http.StatusUnauthorized)
		return
	}

	filter, err := entryFilterFromQuery(userID, r)
	if err != nil {
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	entries, err := h.ledgerService.ListEntries(filter)
	if err != nil {
		logger.L.Error("Error listing ledger entries", "userID", userID, "error", err)
		utils.SendJSONError(w, "Error retrieving ledger entries", http.StatusInternalServerError)
		return
	}
	if entries == nil {
		entries = []models.LedgerEntry{}
	}

	w.Header().Set("Cache-Control", "no-cache, private")
	currentETag, etagErr := utils.GenerateETag(entries)
	if etagErr == nil && currentETag != "" {
		quotedETag := fmt.Sprintf("%q", currentETag)
		w.Header().Set("ETag", quotedETag)
		for _, cETag := range strings.Split(r.Header.Get("If-None-Match"), ",") {
			if strings.TrimSpace(cETag) == quotedETag {
				w.WriteHeader(http.StatusNotModified)
				return
			}
		}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(entries); err != nil {
		logger.L.Error("Error encoding JSON response for entry list", "userID", userID, "error", err)
	}
}

// HandleUpdateSeries applies a bulk update to an entry or its series.
// The scope query parameter selects current, this_and_later or all.
func (h *EntryHandler) HandleUpdateSeries(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "authentication required or user ID not found in context", http.StatusUnauthorized)
		return
	}

	entryID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		utils.SendJSONError(w, "Invalid entry id", http.StatusBadRequest)
		return
	}
	scope, err := scopeFromQuery(r)
	if err != nil {
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	var update model.EntryUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		utils.SendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	affected, err := h.ledgerService.UpdateSeries(userID, entryID, scope, update)
	if err != nil {
		if errors.Is(err, model.ErrEntryNotFound) {
			utils.SendJSONError(w, "Ledger entry not found", http.StatusNotFound)
			return
		}
		logger.L.Error("Failed to update ledger series", "userID", userID, "entryID", entryID, "error", err)
		utils.SendJSONError(w, "Failed to update ledger entries", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]int64{"updated": affected})
}

// HandleDeleteSeries removes an entry or its series at the given scope.
func (h *EntryHandler) HandleDeleteSeries(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "authentication required or user ID not found in context", http.StatusUnauthorized)
		return
	}

	entryID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		utils.SendJSONError(w, "Invalid entry id", http.StatusBadRequest)
		return
	}
	scope, err := scopeFromQuery(r)
	if err != nil {
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	affected, err := h.ledgerService.DeleteSeries(userID, entryID, scope)
	if err != nil {
		if errors.Is(err, model.ErrEntryNotFound) {
			utils.SendJSONError(w, "Ledger entry not found", http.StatusNotFound)
			return
		}
		logger.L.Error("Failed to delete ledger series", "userID", userID, "entryID", entryID, "error", err)
		utils.SendJSONError(w, "Failed to delete ledger entries", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]int64{"deleted": affected})
}

func scopeFromQuery(r *http.Request) (models.SeriesScope, error) {
	switch strings.ToLower(r.URL.Query().Get("scope")) {
	case "", "current":
		return models.ScopeCurrent, nil
	case "this_and_later":
		return models.ScopeThisAndLater, nil
	case "all":
		return models.ScopeAll, nil
	default:
		return "", fmt.Errorf("unknown scope %q, expected current, this_and_later or all", r.URL.Query().Get("scope"))
	}
}

func entryFilterFromQuery(userID int64, r *http.Request) (processors.EntryFilter, error) {
	filter := processors.EntryFilter{UserID: userID}
	q := r.URL.Query()

	if v := q.Get("account_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return filter, fmt.Errorf("invalid account_id %q", v)
		}
		filter.AccountID = id
	}
	if v := q.Get("from"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return filter, fmt.Errorf("invalid from date %q, expected YYYY-MM-DD", v)
		}
		filter.DateFrom = t
	}
	if v := q.Get("to"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return filter, fmt.Errorf("invalid to date %q, expected YYYY-MM-DD", v)
		}
		filter.DateTo = t
	}
	switch strings.ToUpper(q.Get("direction")) {
	case "":
	case string(models.DirectionExpense):
		filter.Direction = models.DirectionExpense
	case string(models.DirectionIncome):
		filter.Direction = models.DirectionIncome
	default:
		return filter, fmt.Errorf("invalid direction %q", q.Get("direction"))
	}
	if v := q.Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 0 {
			return filter, fmt.Errorf("invalid limit %q", v)
		}
		filter.Limit = limit
	}
	return filter, nil
}
