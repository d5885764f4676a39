package common

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newLookupService(upstream string) *OpenLibraryService {
	return &OpenLibraryService{
		BaseURL:   upstream,
		CoversURL: "https://covers.example.org/b",
		Client:    &http.Client{Timeout: time.Second},
		cache:     NewCacheService(60, 120),
	}
}

func TestCacheService_GetInto(t *testing.T) {
	cache := NewCacheService(60, 120)

	type snapshot struct {
		Users int64 `json:"users"`
		Books int64 `json:"books"`
	}
	cache.Set("stats:test", &snapshot{Users: 12, Books: 34}, time.Minute)

	var got snapshot
	if !cache.GetInto("stats:test", &got) {
		t.Fatal("Expected a cache hit")
	}
	if got.Users != 12 || got.Books != 34 {
		t.Errorf("Cached value came back mangled: %+v", got)
	}

	if cache.GetInto("stats:absent", &got) {
		t.Error("Expected a miss for an unknown key")
	}
}

func TestOpenLibraryService_SearchBooks_SecondCallHitsCache(t *testing.T) {
	calls := 0
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		fmt.Fprint(w, `{"docs":[{"key":"/works/OL1W","title":"La Horde du Contrevent","author_name":["Alain Damasio"],"first_publish_year":2004,"isbn":["9782070464951"],"cover_i":123,"number_of_pages_median":521}]}`)
	}))
	defer upstream.Close()

	svc := newLookupService(upstream.URL)

	first, err := svc.SearchBooks("horde", 5)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(first) != 1 || first[0].Title != "La Horde du Contrevent" {
		t.Fatalf("Unexpected results: %+v", first)
	}

	second, err := svc.SearchBooks("horde", 5)
	if err != nil {
		t.Fatalf("Cached search failed: %v", err)
	}
	if calls != 1 {
		t.Errorf("Expected one upstream call, got %d", calls)
	}
	if len(second) != 1 || second[0].Title != first[0].Title || second[0].Author != first[0].Author {
		t.Errorf("Cached results differ: %+v", second)
	}
}

func TestOpenLibraryService_GetBookByISBN_SecondCallHitsCache(t *testing.T) {
	calls := 0
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		fmt.Fprint(w, `{"docs":[{"key":"/works/OL2W","title":"Dune","author_name":["Frank Herbert"],"first_publish_year":1965,"isbn":["9780441172719"]}]}`)
	}))
	defer upstream.Close()

	svc := newLookupService(upstream.URL)

	first, err := svc.GetBookByISBN("978-0441172719")
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if first == nil || first.Title != "Dune" {
		t.Fatalf("Unexpected result: %+v", first)
	}

	second, err := svc.GetBookByISBN("9780441172719")
	if err != nil {
		t.Fatalf("Cached lookup failed: %v", err)
	}
	if calls != 1 {
		t.Errorf("Expected one upstream call, got %d", calls)
	}
	if second == nil || second.Title != "Dune" || second.ISBN == nil || *second.ISBN != "9780441172719" {
		t.Errorf("Cached result differs: %+v", second)
	}
}
