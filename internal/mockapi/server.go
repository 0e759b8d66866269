package mockapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/sirupsen/logrus"

	"github.com/example/shopadmin/internal/model"
)

// Server is an in-memory double of the remote product API, implementing
// the same endpoint contract the client consumes. It backs local
// development and the store round-trip tests.
type Server struct {
	tokens *TokenService

	mu         sync.RWMutex
	categories []model.Category
	products   []model.Product // newest first
}

// NewServer creates a seeded server signing tokens with secret.
func NewServer(secret string) *Server {
	categories := seedCategories()
	return &Server{
		tokens:     NewTokenService(secret, 24*time.Hour),
		categories: categories,
		products:   seedProducts(categories),
	}
}

// Router builds the HTTP handler. Every route except /auth requires a
// valid bearer token.
func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/auth", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			s.handleAuth(w, r)
		default:
			respondError(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})

	mux.Handle("/categories", s.requireAuth(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			s.handleListCategories(w, r)
		default:
			respondError(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}))

	mux.Handle("/products", s.requireAuth(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			s.handleListProducts(w, r)
		case http.MethodPost:
			s.handleCreateProduct(w, r)
		default:
			respondError(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}))

	mux.Handle("/products/", s.requireAuth(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/products/search" {
			if r.Method != http.MethodGet {
				respondError(w, "Method not allowed", http.StatusMethodNotAllowed)
				return
			}
			s.handleSearchProducts(w, r)
			return
		}

		key := strings.TrimPrefix(r.URL.Path, "/products/")
		switch r.Method {
		case http.MethodGet:
			s.handleGetProduct(w, r, key)
		case http.MethodPut:
			s.handleUpdateProduct(w, r, key)
		case http.MethodDelete:
			s.handleDeleteProduct(w, r, key)
		default:
			respondError(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}))

	return withLogging(mux)
}

func withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logrus.Debugf("[MockAPI] %s %s (request %s)", r.Method, r.URL.Path, r.Header.Get("X-Request-ID"))
		next.ServeHTTP(w, r)
	})
}

func (s *Server) requireAuth(next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			respondError(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		if _, err := s.tokens.Validate(strings.TrimPrefix(header, "Bearer ")); err != nil {
			respondError(w, "Invalid token", http.StatusUnauthorized)
			return
		}
		next(w, r)
	})
}

func (s *Server) handleAuth(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" {
		respondError(w, "Email is required", http.StatusBadRequest)
		return
	}

	token, err := s.tokens.Issue(req.Email)
	if err != nil {
		respondError(w, "Failed to issue token", http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"token": token})
}

func (s *Server) handleListCategories(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	categories := make([]model.Category, len(s.categories))
	copy(categories, s.categories)
	s.mu.RUnlock()

	respondJSON(w, http.StatusOK, categories)
}

func (s *Server) handleListProducts(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	offset, _ := strconv.Atoi(query.Get("offset"))
	limit, _ := strconv.Atoi(query.Get("limit"))
	categoryID := query.Get("categoryId")

	s.mu.RLock()
	matched := make([]model.Product, 0, len(s.products))
	for _, p := range s.products {
		if categoryID == "" || p.Category.ID == categoryID {
			matched = append(matched, p)
		}
	}
	s.mu.RUnlock()

	if offset < 0 {
		offset = 0
	}
	if offset > len(matched) {
		offset = len(matched)
	}
	matched = matched[offset:]
	if limit > 0 && limit < len(matched) {
		matched = matched[:limit]
	}

	respondJSON(w, http.StatusOK, matched)
}

func (s *Server) handleSearchProducts(w http.ResponseWriter, r *http.Request) {
	text := strings.ToLower(r.URL.Query().Get("searchedText"))

	s.mu.RLock()
	matched := make([]model.Product, 0)
	for _, p := range s.products {
		if strings.Contains(strings.ToLower(p.Name), text) ||
			strings.Contains(strings.ToLower(p.Description), text) {
			matched = append(matched, p)
		}
	}
	s.mu.RUnlock()

	respondJSON(w, http.StatusOK, matched)
}

func (s *Server) handleGetProduct(w http.ResponseWriter, _ *http.Request, productSlug string) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.products {
		if p.Slug == productSlug {
			respondJSON(w, http.StatusOK, p)
			return
		}
	}
	respondError(w, "Product not found", http.StatusNotFound)
}

func (s *Server) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	var dto model.CreateProductDto
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if msg, ok := s.checkDto(dto.Name, dto.Price, dto.CategoryID); !ok {
		respondError(w, msg, http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	product := model.Product{
		ID:          uuid.NewString(),
		Slug:        s.uniqueSlug(dto.Name, ""),
		Name:        dto.Name,
		Description: dto.Description,
		Price:       dto.Price,
		Category:    s.categoryByID(dto.CategoryID),
		Images:      dto.Images,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	s.products = append([]model.Product{product}, s.products...)
	respondJSON(w, http.StatusCreated, product)
}

func (s *Server) handleUpdateProduct(w http.ResponseWriter, r *http.Request, id string) {
	var dto model.UpdateProductDto
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if msg, ok := s.checkDto(dto.Name, dto.Price, dto.CategoryID); !ok {
		respondError(w, msg, http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.products {
		if s.products[i].ID != id {
			continue
		}

		p := &s.products[i]
		if dto.Name != p.Name {
			p.Slug = s.uniqueSlug(dto.Name, id)
		}
		p.Name = dto.Name
		p.Description = dto.Description
		p.Price = dto.Price
		p.Category = s.categoryByID(dto.CategoryID)
		p.Images = dto.Images
		p.UpdatedAt = time.Now().UTC()

		respondJSON(w, http.StatusOK, *p)
		return
	}

	respondError(w, "Product not found", http.StatusNotFound)
}

func (s *Server) handleDeleteProduct(w http.ResponseWriter, _ *http.Request, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.products {
		if s.products[i].ID != id {
			continue
		}
		deleted := s.products[i]
		s.products = append(s.products[:i], s.products[i+1:]...)
		respondJSON(w, http.StatusOK, deleted)
		return
	}

	respondError(w, "Product not found", http.StatusNotFound)
}

func (s *Server) checkDto(name string, price float64, categoryID string) (string, bool) {
	if strings.TrimSpace(name) == "" {
		return "Product name is required", false
	}
	if price <= 0 {
		return "Price must be greater than 0", false
	}
	if s.categoryByID(categoryID).ID == "" {
		return "Unknown category", false
	}
	return "", true
}

func (s *Server) categoryByID(id string) model.Category {
	for _, c := range s.categories {
		if c.ID == id {
			return c
		}
	}
	return model.Category{}
}

// uniqueSlug derives a URL-safe slug from name, suffixing -2, -3... until
// it collides with no product other than exceptID.
func (s *Server) uniqueSlug(name, exceptID string) string {
	base := slug.Make(name)
	candidate := base
	for n := 2; s.slugTaken(candidate, exceptID); n++ {
		candidate = fmt.Sprintf("%s-%d", base, n)
	}
	return candidate
}

func (s *Server) slugTaken(candidate, exceptID string) bool {
	for _, p := range s.products {
		if p.Slug == candidate && p.ID != exceptID {
			return true
		}
	}
	return false
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logrus.Warnf("[MockAPI] Failed to encode response: %v", err)
	}
}

// respondError writes the {message} body the client's gateway reads.
func respondError(w http.ResponseWriter, message string, status int) {
	respondJSON(w, status, map[string]string{"message": message})
}
