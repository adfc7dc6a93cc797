package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/Dionizioaf/opensheets-app-sub000/src/config"
	"github.com/Dionizioaf/opensheets-app-sub000/src/logger"
	"github.com/Dionizioaf/opensheets-app-sub000/src/models"
	"github.com/Dionizioaf/opensheets-app-sub000/src/security/validation"
	"github.com/Dionizioaf/opensheets-app-sub000/src/services"
	"github.com/Dionizioaf/opensheets-app-sub000/src/utils"
)

type ImportHandler struct {
	importService services.ImportService
}

func NewImportHandler(service services.ImportService) *ImportHandler {
	return &ImportHandler{
		importService: service,
	}
}

// HandlePreview accepts a multipart statement upload, parses it and
// returns the analyzed transactions without writing anything. The form
// carries the file under "file", the target account under "account_id",
// and, for delimited files, a JSON column mapping under "mapping".
func (h *ImportHandler) HandlePreview(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "authentication required or user ID not found in context", http.StatusUnauthorized)
		return
	}

	if err := r.ParseMultipartForm(config.Cfg.MaxUploadSizeBytes); err != nil {
		logger.L.Warn("Failed to parse multipart form or request too large", "userID", userID, "error", err, "limit", config.Cfg.MaxUploadSizeBytes)
		utils.SendJSONError(w, fmt.Sprintf("Failed to parse form or request too large (max %d MB)", config.Cfg.MaxUploadSizeBytes/(1024*1024)), http.StatusBadRequest)
		return
	}

	accountID, err := strconv.ParseInt(r.FormValue("account_id"), 10, 64)
	if err != nil {
		utils.SendJSONError(w, "A valid account_id form field is required", http.StatusBadRequest)
		return
	}

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		logger.L.Warn("Failed to retrieve file from request", "userID", userID, "error", err)
		utils.SendJSONError(w, "Failed to retrieve file from request. Ensure 'file' field is used.", http.StatusBadRequest)
		return
	}
	defer file.Close()

	if fileHeader.Size > config.Cfg.MaxUploadSizeBytes {
		logger.L.Warn("Uploaded file header reports size too large", "userID", userID, "fileSize", fileHeader.Size, "limit", config.Cfg.MaxUploadSizeBytes)
		utils.SendJSONError(w, fmt.Sprintf("File too large, max %d MB", config.Cfg.MaxUploadSizeBytes/(1024*1024)), http.StatusBadRequest)
		return
	}

	clientContentType := fileHeader.Header.Get("Content-Type")
	if err := validation.ValidateClientContentType(clientContentType); err != nil {
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	detectedContentType, err := validation.ValidateFileContentByMagicBytes(file)
	if err != nil {
		logger.L.Warn("Server-side file content validation failed", "userID", userID, "filename", fileHeader.Filename, "error", err)
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	logger.L.Info("File content validated", "userID", userID, "filename", fileHeader.Filename,
		"clientType", clientContentType, "detectedType", detectedContentType)

	var mapping *models.ColumnMapping
	if rawMapping := r.FormValue("mapping"); rawMapping != "" {
		mapping = &models.ColumnMapping{}
		if err := json.Unmarshal([]byte(rawMapping), mapping); err != nil {
			utils.SendJSONError(w, "Invalid column mapping JSON", http.StatusBadRequest)
			return
		}
	}

	preview, err := h.importService.PreviewImport(file, userID, accountID, mapping)
	if err != nil {
		h.writeImportError(w, userID, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(preview); err != nil {
		logger.L.Error("Error encoding JSON response for import preview", "userID", userID, "error", err)
	}
}

// HandleConfirm writes a previously previewed batch. The body carries the
// transactions the user accepted plus an index-aligned list of chosen
// category ids (null for uncategorized).
func (h *ImportHandler) HandleConfirm(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "authentication required or user ID not found in context", http.StatusUnauthorized)
		return
	}

	var body struct {
		AccountID    int64                         `json:"account_id"`
		Transactions []models.CanonicalTransaction `json:"transactions"`
		CategoryIDs  []*int64                      `json:"category_ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.SendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if body.AccountID == 0 {
		utils.SendJSONError(w, "A valid account_id is required", http.StatusBadRequest)
		return
	}

	outcome, err := h.importService.ConfirmImport(userID, body.AccountID, body.Transactions, body.CategoryIDs)
	if err != nil {
		h.writeImportError(w, userID, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(outcome); err != nil {
		logger.L.Error("Error encoding JSON response for import confirm", "userID", userID, "error", err)
	}
}

func (h *ImportHandler) writeImportError(w http.ResponseWriter, userID int64, err error) {
	var fieldErr *models.FieldValidationError
	switch {
	case errors.As(err, &fieldErr):
		utils.SendJSONError(w, fieldErr.Error(), http.StatusBadRequest)
	case errors.Is(err, services.ErrRateLimited):
		logger.L.Warn("Import rate limited", "userID", userID, "error", err)
		utils.SendJSONError(w, err.Error(), http.StatusTooManyRequests)
	case errors.Is(err, models.ErrNoTransactions):
		logger.L.Info("Import statement contained no transactions", "userID", userID)
		utils.SendJSONError(w, "The statement file is valid but contains no transactions to import.", http.StatusBadRequest)
	case errors.Is(err, services.ErrParsingFailed):
		logger.L.Warn("Import failed during parsing", "userID", userID, "error", err)
		utils.SendJSONError(w, fmt.Sprintf("Error parsing statement file: %v", err), http.StatusBadRequest)
	case errors.Is(err, services.ErrProcessingFailed):
		logger.L.Warn("Import failed during processing", "userID", userID, "error", err)
		utils.SendJSONError(w, fmt.Sprintf("Error processing statement transactions: %v", err), http.StatusBadRequest)
	default:
		logger.L.Error("Internal error processing import", "userID", userID, "error", err)
		utils.SendJSONError(w, "An internal error occurred while processing the statement. Please try again later.", http.StatusInternalServerError)
	}
}
