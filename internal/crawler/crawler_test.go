package crawler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"seopress/internal/config"
)

const samplePage = `<!DOCTYPE html>
<html>
<head><title>Ignorado</title></head>
<body>
  <h1>  Cortasetos   Stihl </h1>
  <img src="/img/cortasetos.jpg" alt="">
  <p>Primer   párrafo
     del artículo.</p>
  <p>   </p>
  <p>Segundo <b>párrafo</b>.</p>
  <img src="https://cdn.example.com/otra.jpg">
</body>
</html>`

func TestExtractor_Extract(t *testing.T) {
	e := NewExtractor("")

	article, err := e.Extract("https://example.com/blog/cortasetos", samplePage)
	if err != nil {
		t.Fatalf("Extract() error: %v", err)
	}

	if article.Title != "Cortasetos Stihl" {
		t.Errorf("Title = %q", article.Title)
	}

	if article.Body != "Primer párrafo del artículo. Segundo párrafo." {
		t.Errorf("Body = %q", article.Body)
	}

	if article.ImageURL != "https://example.com/img/cortasetos.jpg" {
		t.Errorf("ImageURL = %q", article.ImageURL)
	}

	if article.URL != "https://example.com/blog/cortasetos" {
		t.Errorf("URL = %q", article.URL)
	}
}

func TestExtractor_MissingElements(t *testing.T) {
	tests := []struct {
		name        string
		html        string
		placeholder string
		wantTitle   string
		wantBody    string
	}{
		{
			name:      "No h1",
			html:      "<html><body><p>Solo texto</p></body></html>",
			wantTitle: "Sin título",
			wantBody:  "Solo texto",
		},
		{
			name:        "Blank h1 with custom placeholder",
			html:        "<h1>  </h1><p>x</p>",
			placeholder: "Artículo",
			wantTitle:   "Artículo",
			wantBody:    "x",
		},
		{
			name:      "Empty document",
			html:      "",
			wantTitle: "Sin título",
			wantBody:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			article, err := NewExtractor(tt.placeholder).Extract("https://example.com/", tt.html)
			if err != nil {
				t.Fatalf("Extract() error: %v", err)
			}

			if article.Title != tt.wantTitle {
				t.Errorf("Title = %q, want %q", article.Title, tt.wantTitle)
			}

			if article.Body != tt.wantBody {
				t.Errorf("Body = %q, want %q", article.Body, tt.wantBody)
			}

			if article.HasImage() {
				t.Errorf("unexpected image %q", article.ImageURL)
			}
		})
	}
}

func TestResolveURL(t *testing.T) {
	tests := []struct {
		base string
		ref  string
		want string
	}{
		{"https://example.com/a/b", "img.png", "https://example.com/a/img.png"},
		{"https://example.com/a/b", "/img.png", "https://example.com/img.png"},
		{"https://example.com/a/b", "//cdn.example.com/x.png", "https://cdn.example.com/x.png"},
		{"https://example.com/a/b", "https://other.example/y.png", "https://other.example/y.png"},
		{"https://example.com/a/b", "  ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			if got := resolveURL(tt.base, tt.ref); got != tt.want {
				t.Errorf("resolveURL(%q, %q) = %q, want %q", tt.base, tt.ref, got, tt.want)
			}
		})
	}
}

func TestScraper_Headers(t *testing.T) {
	var gotUA, gotAccept string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotAccept = r.Header.Get("Accept")
		_, _ = w.Write([]byte("ok"))
	}))
	defer server.Close()

	cfg := config.Default().Source
	cfg.UserAgent = "TestAgent/1.0"

	body, status, _, err := NewScraperWithConfig(&cfg).ScrapeWithMetrics(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("ScrapeWithMetrics() error: %v", err)
	}

	if body != "ok" || status != http.StatusOK {
		t.Errorf("got (%q, %d)", body, status)
	}

	if gotUA != "TestAgent/1.0" {
		t.Errorf("User-Agent = %q", gotUA)
	}

	if !strings.HasPrefix(gotAccept, "text/html") {
		t.Errorf("Accept = %q", gotAccept)
	}
}

func TestScraper_StatusError(t *testing.T) {
	calls := 0

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++

		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	_, err := NewScraper().Scrape(context.Background(), server.URL)
	if !errors.Is(err, ErrUnexpectedStatusCode) {
		t.Fatalf("error = %v, want ErrUnexpectedStatusCode", err)
	}

	var httpErr *HTTPError
	if !errors.As(err, &httpErr) || httpErr.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("error = %#v, want HTTPError 503", err)
	}

	if calls != 1 {
		t.Errorf("server called %d times, want a single attempt", calls)
	}
}

func TestScraper_BodyLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(strings.Repeat("a", 3000)))
	}))
	defer server.Close()

	cfg := config.Default().Source
	cfg.MaxBodyKb = 1

	body, err := NewScraperWithConfig(&cfg).Scrape(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Scrape() error: %v", err)
	}

	if len(body) != 1024 {
		t.Errorf("body length = %d, want 1024", len(body))
	}
}

func TestScraper_CancelledContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := NewScraper().Scrape(ctx, server.URL); !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func TestClient_Fetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)

			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(samplePage))
	}))
	defer server.Close()

	client := NewClientFromConfig(config.Default())

	t.Run("Success", func(t *testing.T) {
		article, err := client.Fetch(context.Background(), server.URL+"/blog/cortasetos")
		if err != nil {
			t.Fatalf("Fetch() error: %v", err)
		}

		if article.Title != "Cortasetos Stihl" {
			t.Errorf("Title = %q", article.Title)
		}

		if article.ImageURL != server.URL+"/img/cortasetos.jpg" {
			t.Errorf("ImageURL = %q", article.ImageURL)
		}
	})

	t.Run("Not found", func(t *testing.T) {
		_, err := client.Fetch(context.Background(), server.URL+"/missing")
		if !errors.Is(err, ErrUnexpectedStatusCode) {
			t.Errorf("error = %v, want ErrUnexpectedStatusCode", err)
		}
	})
}
