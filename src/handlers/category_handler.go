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

type CategoryHandler struct{}

func NewCategoryHandler() *CategoryHandler {
	return &CategoryHandler{}
}

func (h *CategoryHandler) HandleCreateCategory(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "authentication required or user ID not found in context", http.StatusUnauthorized)
		return
	}

	var category models.Category
	if err := json.NewDecoder(r.Body).Decode(&category); err != nil {
		utils.SendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	category.UserID = userID
	if category.Name == "" {
		utils.SendJSONError(w, "Category name is required", http.StatusBadRequest)
		return
	}
	switch category.Direction {
	case models.DirectionExpense, models.DirectionIncome:
	case "":
		category.Direction = models.DirectionExpense
	default:
		utils.SendJSONError(w, "Unknown category direction", http.StatusBadRequest)
		return
	}

	if err := model.CreateCategory(database.DB, &category); err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			utils.SendJSONError(w, "A category with that name already exists", http.StatusConflict)
			return
		}
		logger.L.Error("Failed to create category", "userID", userID, "error", err)
		utils.SendJSONError(w, "Failed to create category", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(category)
}

func (h *CategoryHandler) HandleListCategories(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "authentication required or user ID not found in context", http.StatusUnauthorized)
		return
	}

	var direction models.Direction
	switch strings.ToUpper(r.URL.Query().Get("direction")) {
	case "":
	case string(models.DirectionExpense):
		direction = models.DirectionExpense
	case string(models.DirectionIncome):
		direction = models.DirectionIncome
	default:
		utils.SendJSONError(w, "Invalid direction filter", http.StatusBadRequest)
		return
	}

	categories, err := model.ListCategories(database.DB, userID, direction)
	if err != nil {
		logger.L.Error("Failed to list categories", "userID", userID, "error", err)
		utils.SendJSONError(w, "Failed to list categories", http.StatusInternalServerError)
		return
	}
	if categories == nil {
		categories = []models.Category{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(categories)
}

func (h *CategoryHandler) HandleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "authentication required or user ID not found in context", http.StatusUnauthorized)
		return
	}

	categoryID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		utils.SendJSONError(w, "Invalid category id", http.StatusBadRequest)
		return
	}

	if err := model.DeleteCategory(database.DB, userID, categoryID); err != nil {
		if errors.Is(err, model.ErrCategoryNotFound) {
			utils.SendJSONError(w, "Category not found", http.StatusNotFound)
			return
		}
		logger.L.Error("Failed to delete category", "userID", userID, "categoryID", categoryID, "error", err)
		utils.SendJSONError(w, "Failed to delete category", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
