package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/contactsmgr/contacts/internal/handler/dto"
	"github.com/contactsmgr/contacts/internal/service"
)

// uploadField is the multipart field holding the spreadsheet.
const uploadField = "excelFile"

// CountriesHandler handles HTTP requests for country operations.
type CountriesHandler struct {
	svc           *service.CountriesService
	logger        *slog.Logger
	maxUploadSize int64
}

// NewCountriesHandler creates a new CountriesHandler.
func NewCountriesHandler(svc *service.CountriesService, logger *slog.Logger, maxUploadSize int64) *CountriesHandler {
	return &CountriesHandler{
		svc:           svc,
		logger:        logger,
		maxUploadSize: maxUploadSize,
	}
}

// List handles GET /countries.
func (h *CountriesHandler) List(w http.ResponseWriter, r *http.Request) {
	countries, err := h.svc.GetAllCountries(r.Context())
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.CountriesView{Countries: countries})
}

// UploadFromExcel handles POST /countries/UploadFromExcel.
// The body is multipart with the workbook in the excelFile field.
func (h *CountriesHandler) UploadFromExcel(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", "Upload too large")
			return
		}
		h.writeUploadError(w, "Please select an xlsx file")
		return
	}

	file, header, err := r.FormFile(uploadField)
	if err != nil {
		h.writeUploadError(w, "Please select an xlsx file")
		return
	}
	defer file.Close()

	inserted, err := h.svc.UploadCountriesFromExcel(r.Context(), header.Filename, file)
	if err != nil {
		if errs, ok := formErrors(err); ok {
			writeJSON(w, http.StatusUnprocessableEntity, dto.UploadResultView{Errors: errs})
			return
		}
		handleServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.UploadResultView{
		Inserted: inserted,
		Message:  fmt.Sprintf("%d Countries Uploaded", inserted),
	})
}

func (h *CountriesHandler) writeUploadError(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusUnprocessableEntity, dto.UploadResultView{
		Errors: []dto.FormError{{Field: uploadField, Message: message}},
	})
}
