package export

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"

	"github.com/jmallet/catql/internal/domain"
	"github.com/jmallet/catql/internal/query"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type filterInput struct {
	Path  string `json:"path"`
	Op    string `json:"op"`
	Value any    `json:"value"`
}

type orderInput struct {
	Path       string `json:"path"`
	Descending bool   `json:"descending"`
}

type exportRequest struct {
	Filters    []filterInput `json:"filters"`
	Combinator string        `json:"combinator"`
	OrderBy    []orderInput  `json:"orderBy"`
	Include    []string      `json:"include"`
}

type Handler struct {
	service *Service
}

func NewHTTPHandler(service *Service) http.Handler {
	return &Handler{service: service}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req exportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	spec, err := req.toSpecification()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := h.service.Export(r.Context(), spec)
	if err != nil {
		log.Printf("[EXPORT] failed: %v", err)
		http.Error(w, "export failed", http.StatusInternalServerError)
		return
	}
	log.Printf("[EXPORT] wrote %d rows to %s", result.RowCount, result.FilePath)

	file, err := os.Open(result.FilePath)
	if err != nil {
		log.Printf("[EXPORT] failed to open %s: %v", result.FilePath, err)
		http.Error(w, "export failed", http.StatusInternalServerError)
		return
	}
	defer file.Close()

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", filepath.Base(result.FilePath)))
	if _, err := io.Copy(w, file); err != nil {
		log.Printf("[EXPORT] failed to send %s: %v", result.FilePath, err)
	}
}

func (req exportRequest) toSpecification() (*query.Specification[domain.Product], error) {
	combinator := query.CombineAnd
	if req.Combinator != "" {
		parsed, err := query.ParseCombinator(req.Combinator)
		if err != nil {
			return nil, err
		}
		combinator = parsed
	}

	spec := query.NewSpecification[domain.Product]()
	for _, f := range req.Filters {
		op, err := query.ParseOperation(f.Op)
		if err != nil {
			return nil, err
		}
		cond, err := query.NewCondition(f.Path, op, f.Value)
		if err != nil {
			return nil, err
		}
		if combinator == query.CombineOr {
			spec = spec.DynamicOr(cond)
		} else {
			spec = spec.DynamicAnd(cond)
		}
	}
	for _, include := range req.Include {
		spec = spec.AddInclude(include)
	}
	for _, o := range req.OrderBy {
		spec = spec.AddOrderBy(o.Path, o.Descending)
	}
	// Streaming needs a stable order; fall back to creation time.
	if !spec.HasOrdering() {
		spec = spec.AddOrderBy("created_at", false)
	}
	return spec, nil
}
