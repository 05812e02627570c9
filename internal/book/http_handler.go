package book

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"bookquery/internal/httpx"
)

type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

// Register mounts every route on mux.
func (h *HTTPHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /books", h.List)
	mux.HandleFunc("GET /books/by-genre/{genre}", h.ByGenre)
	mux.HandleFunc("GET /books/by-author/{author}", h.ByAuthor)
	mux.HandleFunc("GET /books/by-title/{title}", h.ByTitle)
	mux.HandleFunc("GET /books/published-after/{year}", h.PublishedAfter)
	mux.HandleFunc("GET /books/in-stock", h.InStock)
	mux.HandleFunc("GET /books/sorted-by-price", h.SortedByPrice)
	mux.HandleFunc("PATCH /books/by-title/{title}/price", h.UpdatePrice)
	mux.HandleFunc("DELETE /books/by-title/{title}", h.DeleteByTitle)
	mux.HandleFunc("GET /stats/avg-price-by-genre", h.AvgPriceByGenre)
	mux.HandleFunc("GET /stats/top-author", h.TopAuthor)
	mux.HandleFunc("GET /stats/year-buckets", h.YearBuckets)
	mux.HandleFunc("POST /indexes/title", h.CreateTitleIndex)
	mux.HandleFunc("POST /indexes/author-year", h.CreateAuthorYearIndex)
}

// PageParams are the query parameters of GET /books.
type PageParams struct {
	Page     int `validate:"gte=1"`
	PageSize int `validate:"gte=0,max=100"`
}

// InStockParams are the query parameters of GET /books/in-stock.
type InStockParams struct {
	Fields string `validate:"fields"`
}

// UpdatePriceRequest is the body of PATCH /books/by-title/{title}/price.
type UpdatePriceRequest struct {
	Price *float64 `json:"price" validate:"required,gte=0"`
}

// List handles GET /books?page=&page_size=
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	params := PageParams{Page: 1}
	if v := query.Get("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			badRequest(w, r, "page", "page must be an integer")
			return
		}
		params.Page = n
	}
	if v := query.Get("page_size"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			badRequest(w, r, "page_size", "page_size must be an integer")
			return
		}
		params.PageSize = n
	}
	if errs := ValidateStruct(params); len(errs) > 0 {
		validationError(w, r, errs)
		return
	}

	pageSize := params.PageSize
	if pageSize == 0 {
		pageSize = h.service.PageSize()
	}
	books, err := h.service.GetPage(r.Context(), params.Page, pageSize)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, books, map[string]any{
		"page":      params.Page,
		"page_size": pageSize,
		"count":     len(books),
	})
}

// ByGenre handles GET /books/by-genre/{genre}
func (h *HTTPHandler) ByGenre(w http.ResponseWriter, r *http.Request) {
	books, err := h.service.FindByGenre(r.Context(), r.PathValue("genre"))
	h.respondList(w, r, books, err)
}

// ByAuthor handles GET /books/by-author/{author}
func (h *HTTPHandler) ByAuthor(w http.ResponseWriter, r *http.Request) {
	books, err := h.service.FindByAuthor(r.Context(), r.PathValue("author"))
	h.respondList(w, r, books, err)
}

// ByTitle handles GET /books/by-title/{title}
func (h *HTTPHandler) ByTitle(w http.ResponseWriter, r *http.Request) {
	books, err := h.service.FindByTitle(r.Context(), r.PathValue("title"))
	h.respondList(w, r, books, err)
}

// PublishedAfter handles GET /books/published-after/{year}
func (h *HTTPHandler) PublishedAfter(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(r.PathValue("year"))
	if err != nil {
		badRequest(w, r, "year", "year must be an integer")
		return
	}
	books, err := h.service.FindPublishedAfter(r.Context(), year)
	h.respondList(w, r, books, err)
}

// InStock handles GET /books/in-stock. With published_after it lists full
// in-stock books newer than that year; otherwise it returns the projection
// named by fields (default title,author,price).
func (h *HTTPHandler) InStock(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	if v := query.Get("published_after"); v != "" {
		year, err := strconv.Atoi(v)
		if err != nil {
			badRequest(w, r, "published_after", "published_after must be an integer")
			return
		}
		books, err := h.service.FindInStockAfterYear(r.Context(), year)
		h.respondList(w, r, books, err)
		return
	}

	params := InStockParams{Fields: query.Get("fields")}
	if errs := ValidateStruct(params); len(errs) > 0 {
		validationError(w, r, errs)
		return
	}
	var fields []Field
	if params.Fields != "" {
		for _, name := range strings.Split(params.Fields, ",") {
			f, _ := ParseField(strings.TrimSpace(name))
			fields = append(fields, f)
		}
	}
	docs, err := h.service.FindInStockProjected(r.Context(), fields...)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, docs, map[string]any{"count": len(docs)})
}

// SortedByPrice handles GET /books/sorted-by-price?order=asc|desc
func (h *HTTPHandler) SortedByPrice(w http.ResponseWriter, r *http.Request) {
	dir, err := ParseDirection(r.URL.Query().Get("order"))
	if err != nil {
		badRequest(w, r, "order", "order must be asc or desc")
		return
	}
	books, err := h.service.SortByPrice(r.Context(), dir)
	h.respondList(w, r, books, err)
}

// UpdatePrice handles PATCH /books/by-title/{title}/price
func (h *HTTPHandler) UpdatePrice(w http.ResponseWriter, r *http.Request) {
	var req UpdatePriceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, r, "", "Invalid JSON body")
		return
	}
	if errs := ValidateStruct(req); len(errs) > 0 {
		validationError(w, r, errs)
		return
	}

	res, err := h.service.UpdatePrice(r.Context(), r.PathValue("title"), *req.Price)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, res, nil)
}

// DeleteByTitle handles DELETE /books/by-title/{title}
func (h *HTTPHandler) DeleteByTitle(w http.ResponseWriter, r *http.Request) {
	n, err := h.service.DeleteByTitle(r.Context(), r.PathValue("title"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, map[string]int64{"deleted": n}, nil)
}

// AvgPriceByGenre handles GET /stats/avg-price-by-genre
func (h *HTTPHandler) AvgPriceByGenre(w http.ResponseWriter, r *http.Request) {
	out, err := h.service.AvgPriceByGenre(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, out, nil)
}

// TopAuthor handles GET /stats/top-author
func (h *HTTPHandler) TopAuthor(w http.ResponseWriter, r *http.Request) {
	out, err := h.service.AuthorWithMostBooks(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, out, nil)
}

// YearBuckets handles GET /stats/year-buckets
func (h *HTTPHandler) YearBuckets(w http.ResponseWriter, r *http.Request) {
	out, err := h.service.CountByDecadeBucket(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, out, map[string]any{"boundaries": YearBoundaries})
}

// CreateTitleIndex handles POST /indexes/title
func (h *HTTPHandler) CreateTitleIndex(w http.ResponseWriter, r *http.Request) {
	name, err := h.service.CreateTitleIndex(r.Context())
	h.respondIndex(w, r, name, err)
}

// CreateAuthorYearIndex handles POST /indexes/author-year
func (h *HTTPHandler) CreateAuthorYearIndex(w http.ResponseWriter, r *http.Request) {
	name, err := h.service.CreateAuthorYearIndex(r.Context())
	h.respondIndex(w, r, name, err)
}

func (h *HTTPHandler) respondList(w http.ResponseWriter, r *http.Request, books []Book, err error) {
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, books, map[string]any{"count": len(books)})
}

func (h *HTTPHandler) respondIndex(w http.ResponseWriter, r *http.Request, name string, err error) {
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.JSONCreated(w, r, map[string]string{"index": name})
}

func (h *HTTPHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "No matching book", nil)
	case errors.Is(err, ErrInvalidPage), errors.Is(err, ErrInvalidField), errors.Is(err, ErrInvalidDocument):
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", err.Error(), nil)
	default:
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
	}
}

func badRequest(w http.ResponseWriter, r *http.Request, field, message string) {
	var details []httpx.ErrorDetail
	if field != "" {
		details = []httpx.ErrorDetail{{Field: field, Message: message}}
	}
	httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", message, details)
}

func validationError(w http.ResponseWriter, r *http.Request, errs []ValidationError) {
	details := make([]httpx.ErrorDetail, 0, len(errs))
	for _, e := range errs {
		details = append(details, httpx.ErrorDetail{Field: e.Field, Message: e.Message})
	}
	httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request", details)
}
