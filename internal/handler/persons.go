package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/contactsmgr/contacts/internal/export"
	"github.com/contactsmgr/contacts/internal/handler/dto"
	"github.com/contactsmgr/contacts/internal/model"
	"github.com/contactsmgr/contacts/internal/service"
)

const personsIndexPath = "/persons/index"

// PersonsServices groups the person services a PersonsHandler calls.
type PersonsServices struct {
	Adder     *service.PersonsAdderService
	Getter    *service.PersonsGetterService
	Sorter    *service.PersonsSorterService
	Updater   *service.PersonsUpdaterService
	Deleter   *service.PersonsDeleterService
	Countries *service.CountriesService
}

// PersonsHandler handles HTTP requests for person operations.
type PersonsHandler struct {
	svc    PersonsServices
	logger *slog.Logger
}

// NewPersonsHandler creates a new PersonsHandler.
func NewPersonsHandler(svc PersonsServices, logger *slog.Logger) *PersonsHandler {
	return &PersonsHandler{
		svc:    svc,
		logger: logger,
	}
}

// Index handles GET / and GET /persons/index.
// Query: searchBy, searchString, sortBy (default PersonName), sortOrder (default ASC).
func (h *PersonsHandler) Index(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	searchBy := query.Get("searchBy")
	if !model.IsSearchField(searchBy) {
		searchBy = model.FieldPersonName
	}
	searchString := query.Get("searchString")

	sortBy := query.Get("sortBy")
	if sortBy == "" {
		sortBy = model.FieldPersonName
	}
	sortOrder := model.ParseSortOrder(query.Get("sortOrder"))

	h.logger.Debug("persons index",
		"search_by", searchBy,
		"search_string", searchString,
		"sort_by", sortBy,
		"sort_order", sortOrder,
	)

	persons, err := h.svc.Getter.GetFilteredPersons(r.Context(), searchBy, searchString)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.PersonsIndexView{
		Persons:             h.svc.Sorter.SortPersons(persons, sortBy, sortOrder),
		SearchFields:        model.SearchFields,
		CurrentSearchBy:     searchBy,
		CurrentSearchString: searchString,
		CurrentSortBy:       sortBy,
		CurrentSortOrder:    sortOrder,
	})
}

// CreateForm handles GET /persons/create.
func (h *PersonsHandler) CreateForm(w http.ResponseWriter, r *http.Request) {
	h.writeForm(w, r, http.StatusOK, nil, nil)
}

// Create handles POST /persons/create.
func (h *PersonsHandler) Create(w http.ResponseWriter, r *http.Request) {
	req, bindErrs, err := bindPersonAdd(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", "Invalid request body")
		return
	}
	if len(bindErrs) > 0 {
		h.writeForm(w, r, http.StatusUnprocessableEntity, req, bindErrs)
		return
	}

	person, err := h.svc.Adder.AddPerson(r.Context(), req)
	if err != nil {
		if errs, ok := formErrors(err); ok {
			h.writeForm(w, r, http.StatusUnprocessableEntity, req, errs)
			return
		}
		handleServiceError(w, h.logger, err)
		return
	}

	h.logger.Info("person_created", "person_id", person.ID)
	redirect(w, r, personsIndexPath)
}

// EditForm handles GET /persons/edit/{personID}.
func (h *PersonsHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	person, ok := h.loadPerson(w, r)
	if !ok {
		return
	}

	form := person.ToUpdateRequest()
	h.writeForm(w, r, http.StatusOK, form, nil)
}

// Edit handles POST /persons/edit/{personID}.
func (h *PersonsHandler) Edit(w http.ResponseWriter, r *http.Request) {
	person, ok := h.loadPerson(w, r)
	if !ok {
		return
	}

	req, bindErrs, err := bindPersonUpdate(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", "Invalid request body")
		return
	}
	req.PersonID = person.ID
	if len(bindErrs) > 0 {
		h.writeForm(w, r, http.StatusUnprocessableEntity, req, bindErrs)
		return
	}

	if _, err := h.svc.Updater.UpdatePerson(r.Context(), req); err != nil {
		if errors.Is(err, service.ErrPersonNotFound) {
			// Deleted between the lookup and the update.
			redirect(w, r, personsIndexPath)
			return
		}
		if errs, ok := formErrors(err); ok {
			h.writeForm(w, r, http.StatusUnprocessableEntity, req, errs)
			return
		}
		handleServiceError(w, h.logger, err)
		return
	}

	redirect(w, r, personsIndexPath)
}

// DeleteForm handles GET /persons/delete/{personID}.
func (h *PersonsHandler) DeleteForm(w http.ResponseWriter, r *http.Request) {
	person, ok := h.loadPerson(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, dto.PersonDeleteView{Person: *person})
}

// Delete handles POST /persons/delete/{personID}.
func (h *PersonsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	person, ok := h.loadPerson(w, r)
	if !ok {
		return
	}

	if _, err := h.svc.Deleter.DeletePerson(r.Context(), &person.ID); err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	redirect(w, r, personsIndexPath)
}

// CSV handles GET /persons/PersonsCSV.
func (h *PersonsHandler) CSV(w http.ResponseWriter, r *http.Request) {
	h.download(w, r, h.svc.Getter.GetPersonsCSV, export.CSVContentType, export.CSVFileName)
}

// Excel handles GET /persons/PersonsExcel.
func (h *PersonsHandler) Excel(w http.ResponseWriter, r *http.Request) {
	h.download(w, r, h.svc.Getter.GetPersonsExcel, export.ExcelContentType, export.ExcelFileName)
}

// PDF handles GET /persons/PersonsPDF.
func (h *PersonsHandler) PDF(w http.ResponseWriter, r *http.Request) {
	h.download(w, r, h.svc.Getter.GetPersonsPDF, export.PDFContentType, export.PDFFileName)
}

func (h *PersonsHandler) download(
	w http.ResponseWriter,
	r *http.Request,
	render func(context.Context) ([]byte, error),
	contentType, filename string,
) {
	data, err := render(r.Context())
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	writeFile(w, contentType, filename, data)
}

// loadPerson resolves the {personID} URL parameter. Malformed or unknown
// ids redirect to the list and return ok=false.
func (h *PersonsHandler) loadPerson(w http.ResponseWriter, r *http.Request) (*model.PersonResponse, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "personID"))
	if err != nil {
		redirect(w, r, personsIndexPath)
		return nil, false
	}

	person, err := h.svc.Getter.GetPersonByID(r.Context(), &id)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return nil, false
	}
	if person == nil {
		redirect(w, r, personsIndexPath)
		return nil, false
	}
	return person, true
}

func (h *PersonsHandler) writeForm(w http.ResponseWriter, r *http.Request, status int, person any, errs []dto.FormError) {
	countries, err := h.svc.Countries.GetAllCountries(r.Context())
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, status, dto.PersonFormView{
		Person:    person,
		Countries: dto.CountryOptions(countries),
		Genders:   dto.GenderOptions(),
		Errors:    errs,
	})
}
