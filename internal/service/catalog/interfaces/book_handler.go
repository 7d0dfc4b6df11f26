package interfaces

import (
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"bookhub/internal/pkg/httpx"
	"bookhub/internal/pkg/validation"
	"bookhub/internal/service/catalog/application"
	"bookhub/internal/service/catalog/domain"
)

const (
	adminPageSize  = 20
	userPageSize   = 50
	maxUploadBytes = 10 << 20
)

func (h *CatalogHandler) handleAddBook(w http.ResponseWriter, r *http.Request) {
	attrs, img, err := parseBookForm(r)
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}
	defer closeUpload(img)
	book, err := h.books.AddBook(r.Context(), attrs, img)
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":  http.StatusOK,
		"message": "Book created successfully",
		"data":    book,
	})
}

func (h *CatalogHandler) handleUpdateBook(w http.ResponseWriter, r *http.Request) {
	attrs, img, err := parseBookForm(r)
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}
	defer closeUpload(img)
	book, err := h.books.UpdateBook(r.Context(), r.PathValue("id"), attrs, img)
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]interface{}{"message": "Book updated successfully.", "data": book})
}

func (h *CatalogHandler) handleDeleteBook(w http.ResponseWriter, r *http.Request) {
	if err := h.books.DeleteBook(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]string{"message": "Book deleted successfully."})
}

func (h *CatalogHandler) handleGetBook(w http.ResponseWriter, r *http.Request) {
	book, err := h.books.GetBook(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]interface{}{"status": "success", "data": book})
}

func (h *CatalogHandler) listBooks(defaultSize int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, size, err := httpx.ParsePage(r, defaultSize)
		if err != nil {
			writeServiceError(r.Context(), w, err)
			return
		}
		result, err := h.books.ListBooks(r.Context(), page, size)
		if err != nil {
			writeServiceError(r.Context(), w, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, map[string]interface{}{
			"status":     "success",
			"code":       http.StatusOK,
			"message":    "Books retrieved successfully",
			"pagination": result.Pagination,
			"data":       result.Data,
		})
	}
}

func (h *CatalogHandler) handleDiscountOffer(w http.ResponseWriter, r *http.Request) {
	var req application.DiscountRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	if _, err := h.books.ApplyDiscount(r.Context(), r.PathValue("bookid"), &req); err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "success", "message": "Discount added successfully"})
}

func (h *CatalogHandler) handleSearch(w http.ResponseWriter, r *http.Request) {
	criteria, err := parseSearch(r)
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}
	books, err := h.books.Search(r.Context(), criteria)
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"results": len(books),
		"data":    books,
	})
}

func (h *CatalogHandler) feed(feed domain.Feed) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		books, err := h.books.Feed(r.Context(), feed)
		if err != nil {
			writeServiceError(r.Context(), w, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, books)
	}
}

func (h *CatalogHandler) handleBestSellers(w http.ResponseWriter, r *http.Request) {
	list, err := h.books.BestSellers(r.Context())
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"code":    http.StatusOK,
		"message": "Top selling books fetched successfully",
		"data":    list,
	})
}

func parseSearch(r *http.Request) (domain.SearchCriteria, error) {
	q := r.URL.Query()
	c := domain.SearchCriteria{
		Query:      q.Get("query"),
		Genre:      q.Get("genre"),
		Language:   q.Get("language"),
		Descending: strings.EqualFold(q.Get("sortDir"), "desc"),
	}
	switch strings.ToLower(q.Get("sortBy")) {
	case "price":
		c.SortBy = domain.SortByPrice
	case "title":
		c.SortBy = domain.SortByTitle
	}
	var err error
	if c.MinPrice, err = optionalInt(q.Get("minPrice"), "minPrice"); err != nil {
		return c, err
	}
	if c.MaxPrice, err = optionalInt(q.Get("maxPrice"), "maxPrice"); err != nil {
		return c, err
	}
	return c, nil
}

func optionalInt(v, field string) (*int, error) {
	if v == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return nil, validation.Errorf("%s must be an integer", field)
	}
	return &n, nil
}

// parseBookForm 读取 multipart 表单，images 文件字段可选。
func parseBookForm(r *http.Request) (domain.BookAttributes, *application.ImageUpload, error) {
	var attrs domain.BookAttributes
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil && err != http.ErrNotMultipart {
		return attrs, nil, validation.New("invalid multipart form")
	}

	attrs.Title = r.FormValue("title")
	attrs.Description = r.FormValue("description")
	attrs.Author = r.FormValue("author")
	attrs.Genre = r.FormValue("genre")
	attrs.Publisher = r.FormValue("publisher")
	attrs.Language = r.FormValue("language")
	attrs.Format = r.FormValue("format")
	attrs.ISBN = r.FormValue("isbn")

	var err error
	if attrs.PublishDate, err = parseDate(r.FormValue("publishDate")); err != nil {
		return attrs, nil, err
	}
	for field, dst := range map[string]*int{"price": &attrs.Price, "quantity": &attrs.Quantity, "discount": &attrs.Discount} {
		if v := r.FormValue(field); v != "" {
			if *dst, err = strconv.Atoi(v); err != nil {
				return attrs, nil, validation.Errorf("%s must be an integer", field)
			}
		}
	}
	attrs.AwardWinner = formBool(r, "awardWinner")
	attrs.AvailableInLibrary = formBool(r, "availableInLibrary")
	attrs.IsOnSale = formBool(r, "isOnSale")

	file, header, err := r.FormFile("images")
	if err != nil {
		// 未上传封面
		return attrs, nil, nil
	}
	return attrs, &application.ImageUpload{FileName: header.Filename, Content: file}, nil
}

func closeUpload(img *application.ImageUpload) {
	if img == nil {
		return
	}
	if c, ok := img.Content.(io.Closer); ok {
		_ = c.Close()
	}
}

func parseDate(v string) (time.Time, error) {
	if v == "" {
		return time.Time{}, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, v); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, validation.New("publishDate must be a date (YYYY-MM-DD)")
}

func formBool(r *http.Request, field string) bool {
	b, _ := strconv.ParseBool(r.FormValue(field))
	return b
}
