package common

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"biblioruche/hive/internal/models/dtos"
)

const lookupCacheTTL = time.Hour

// OpenLibraryService looks up book metadata for the proposal form. Failures
// are soft: callers get an empty result, never a fatal error at request level.
type OpenLibraryService struct {
	BaseURL   string
	CoversURL string
	Client    *http.Client
	cache     CacheInterface
}

// NewOpenLibraryService creates a new instance, reading config from environment variables
func NewOpenLibraryService(cache CacheInterface) *OpenLibraryService {
	baseURL := os.Getenv("OPEN_LIBRARY_BASE_URL")
	if baseURL == "" {
		baseURL = "https://openlibrary.org"
	}
	coversURL := os.Getenv("OPEN_LIBRARY_COVERS_URL")
	if coversURL == "" {
		coversURL = "https://covers.openlibrary.org/b"
	}
	return &OpenLibraryService{
		BaseURL:   baseURL,
		CoversURL: coversURL,
		Client:    &http.Client{Timeout: 10 * time.Second},
		cache:     cache,
	}
}

type searchDoc struct {
	Key        string   `json:"key"`
	Title      string   `json:"title"`
	AuthorName []string `json:"author_name"`
	FirstYear  *int     `json:"first_publish_year"`
	ISBN       []string `json:"isbn"`
	CoverID    *int     `json:"cover_i"`
	Pages      *int     `json:"number_of_pages_median"`
	Subjects   []string `json:"subject"`
}

type searchResponse struct {
	Docs []searchDoc `json:"docs"`
}

// SearchBooks searches by title, author or ISBN. Results are cached for an
// hour keyed by query and limit.
func (svc *OpenLibraryService) SearchBooks(query string, limit int) ([]dtos.BookSearchResult, error) {
	cacheKey := fmt.Sprintf("ol:search:%s:%d", query, limit)
	var cached []dtos.BookSearchResult
	if svc.cache.GetInto(cacheKey, &cached) {
		return cached, nil
	}

	params := url.Values{
		"q":      {query},
		"limit":  {fmt.Sprintf("%d", limit)},
		"fields": {"key,title,author_name,first_publish_year,isbn,cover_i,number_of_pages_median,subject"},
	}

	var payload searchResponse
	if err := svc.doGET("/search.json?"+params.Encode(), &payload); err != nil {
		return nil, err
	}

	results := make([]dtos.BookSearchResult, 0, len(payload.Docs))
	for _, doc := range payload.Docs {
		results = append(results, svc.toResult(doc))
	}

	svc.cache.Set(cacheKey, results, lookupCacheTTL)
	return results, nil
}

// Autocomplete returns lightweight suggestions for the proposal form.
func (svc *OpenLibraryService) Autocomplete(prefix string, limit int) ([]dtos.BookSearchResult, error) {
	return svc.SearchBooks(prefix, limit)
}

// GetBookByISBN fetches a single book. Returns (nil, nil) when not found.
func (svc *OpenLibraryService) GetBookByISBN(isbn string) (*dtos.BookSearchResult, error) {
	isbn = strings.ReplaceAll(strings.TrimSpace(isbn), "-", "")
	if isbn == "" {
		return nil, errors.New("empty isbn")
	}

	cacheKey := "ol:isbn:" + isbn
	var cached dtos.BookSearchResult
	if svc.cache.GetInto(cacheKey, &cached) {
		return &cached, nil
	}

	var payload searchResponse
	params := url.Values{"q": {"isbn:" + isbn}, "limit": {"1"}}
	if err := svc.doGET("/search.json?"+params.Encode(), &payload); err != nil {
		return nil, err
	}
	if len(payload.Docs) == 0 {
		return nil, nil
	}

	result := svc.toResult(payload.Docs[0])
	svc.cache.Set(cacheKey, &result, lookupCacheTTL)
	return &result, nil
}

func (svc *OpenLibraryService) toResult(doc searchDoc) dtos.BookSearchResult {
	author := "Auteur inconnu"
	if len(doc.AuthorName) > 0 {
		author = strings.Join(doc.AuthorName, ", ")
	}

	result := dtos.BookSearchResult{
		Key:    doc.Key,
		Title:  doc.Title,
		Author: author,
		Year:   doc.FirstYear,
		Pages:  doc.Pages,
	}
	if len(doc.ISBN) > 0 {
		result.ISBN = &doc.ISBN[0]
	}
	if len(doc.Subjects) > 5 {
		result.Subjects = doc.Subjects[:5]
	} else {
		result.Subjects = doc.Subjects
	}
	if doc.CoverID != nil {
		coverURL := fmt.Sprintf("%s/id/%d-M.jpg", svc.CoversURL, *doc.CoverID)
		result.CoverURL = &coverURL
	}
	return result
}

// helper: does GET, parses json into result
func (svc *OpenLibraryService) doGET(endpoint string, result interface{}) error {
	req, err := http.NewRequest("GET", svc.BaseURL+endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", "BiblioRuche/1.0 (Book Club App)")

	resp, err := svc.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(result)
}
