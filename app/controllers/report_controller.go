package controllers

import (
	"net/http"
	"time"

	"github.com/rpradhan/stockroom/app/repositories"
	"github.com/rpradhan/stockroom/app/services"
	"github.com/rpradhan/stockroom/pkg/bind"
	"github.com/rpradhan/stockroom/pkg/response"
)

// ReportController is the HTTP surface of the ledger: movement CRUD plus
// document upload. Create, Update and Delete run through LedgerService so
// quantity and history always move together.
type ReportController struct {
	ledger  *services.LedgerService
	reports *services.ReportService
}

func NewReportController(ledger *services.LedgerService, reports *services.ReportService) *ReportController {
	return &ReportController{ledger: ledger, reports: reports}
}

func (c *ReportController) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := repositories.MovementFilter{
		StockID: uint(queryInt(r, "stock_id", 0)),
		Type:    q.Get("type"),
		From:    queryDate(r, "from"),
		To:      queryDate(r, "to"),
		Page:    queryInt(r, "page", 1),
		Limit:   queryInt(r, "limit", 20),
	}

	views, p, err := c.reports.List(filter)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Paginated(w, views, p)
}

func (c *ReportController) Show(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		response.NotFound(w)
		return
	}

	view, err := c.reports.Get(id)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, view)
}

func (c *ReportController) Create(w http.ResponseWriter, r *http.Request) {
	var body services.MovementInput
	if errs, err := bind.JSON(r, &body); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	view, err := c.ledger.Apply(actorID(r), body)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Created(w, view)
}

func (c *ReportController) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		response.NotFound(w)
		return
	}

	var body services.MovementInput
	if errs, err := bind.JSON(r, &body); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	view, err := c.ledger.Revise(actorID(r), id, body)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, view)
}

func (c *ReportController) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		response.NotFound(w)
		return
	}

	if err := c.ledger.Reverse(actorID(r), id); err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, map[string]string{"message": "Movement reversed"})
}

// maxDocumentBytes caps movement document uploads at 10 MB.
const maxDocumentBytes = 10 << 20

// UploadDocument attaches a multipart "document" file to a ledger entry.
func (c *ReportController) UploadDocument(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		response.NotFound(w)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxDocumentBytes)
	if err := r.ParseMultipartForm(maxDocumentBytes); err != nil {
		response.Error(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("document")
	if err != nil {
		response.ValidationError(w, map[string]string{
			"document": "The document file is required.",
		})
		return
	}
	defer file.Close()

	url, err := c.reports.AttachDocument(id, header.Filename, file)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, map[string]string{"document_url": url})
}

// queryDate parses a date query parameter, accepting RFC3339 or YYYY-MM-DD.
// A missing or malformed value yields the zero time, which the filter treats
// as unset.
func queryDate(r *http.Request, key string) time.Time {
	v := r.URL.Query().Get(key)
	if v == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, v); err == nil {
			return t
		}
	}
	return time.Time{}
}
