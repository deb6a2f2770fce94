package generator

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"seopress/internal/config"
)

func testConfig(endpoint string) config.GeneratorConfig {
	cfg := config.Default().Generator
	cfg.Endpoint = endpoint
	cfg.APIKey = "sk-test"

	return cfg
}

func TestPrompt_Render(t *testing.T) {
	p, err := NewPrompt("", 0)
	if err != nil {
		t.Fatalf("NewPrompt() error: %v", err)
	}

	got, err := p.Render(" Cortasetos Stihl ", "Texto original...")
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}

	for _, want := range []string{
		`sobre "Cortasetos Stihl"`,
		"NO incluyas el título en el contenido",
		"encabezados H2",
		"Información de referencia:\nTexto original...",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("prompt missing %q:\n%s", want, got)
		}
	}
}

func TestPrompt_NoReference(t *testing.T) {
	p, err := NewPrompt("", 0)
	if err != nil {
		t.Fatalf("NewPrompt() error: %v", err)
	}

	got, err := p.Render("Cortasetos", "  ")
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}

	if strings.Contains(got, "Información de referencia") {
		t.Errorf("reference section should be omitted:\n%s", got)
	}
}

func TestPrompt_TruncatesReference(t *testing.T) {
	p, err := NewPrompt("", 5)
	if err != nil {
		t.Fatalf("NewPrompt() error: %v", err)
	}

	got, err := p.Render("t", "áéíóúñññ")
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}

	if !strings.HasSuffix(got, "\náéíóú") {
		t.Errorf("reference not cut to 5 runes:\n%s", got)
	}
}

func TestPrompt_CustomTemplate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prompt.md")
	if err := os.WriteFile(path, []byte("Escribe sobre {{.Title}}"), 0600); err != nil {
		t.Fatal(err)
	}

	p, err := NewPrompt(path, 0)
	if err != nil {
		t.Fatalf("NewPrompt() error: %v", err)
	}

	got, _ := p.Render("setos", "")
	if got != "Escribe sobre setos" {
		t.Errorf("Render() = %q", got)
	}

	if _, err := NewPrompt(filepath.Join(t.TempDir(), "missing.md"), 0); err == nil {
		t.Error("expected error for missing template")
	}

	bad := filepath.Join(t.TempDir(), "bad.md")
	_ = os.WriteFile(bad, []byte("{{.Title"), 0600)

	if _, err := NewPrompt(bad, 0); err == nil {
		t.Error("expected error for malformed template")
	}
}

func TestClient_Generate(t *testing.T) {
	var got ChatCompletionRequest

	var auth string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")

		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"  ## H1: Título\n## Ventajas\nTexto  "}}]}`))
	}))
	defer server.Close()

	client, err := NewClient(testConfig(server.URL))
	if err != nil {
		t.Fatalf("NewClient() error: %v", err)
	}

	gen, err := client.Generate(context.Background(), "Cortasetos", "referencia")
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}

	if gen.Raw != "## H1: Título\n## Ventajas\nTexto" {
		t.Errorf("Raw = %q", gen.Raw)
	}

	if auth != "Bearer sk-test" {
		t.Errorf("Authorization = %q", auth)
	}

	if got.Model != config.DefaultModel {
		t.Errorf("Model = %q", got.Model)
	}

	if len(got.Messages) != 2 || got.Messages[0].Role != "system" || got.Messages[1].Role != "user" {
		t.Fatalf("Messages = %+v", got.Messages)
	}

	if got.Messages[0].Content != config.DefaultSystemPrompt {
		t.Errorf("system message = %q", got.Messages[0].Content)
	}

	if !strings.Contains(got.Messages[1].Content, "referencia") {
		t.Errorf("user message missing reference: %q", got.Messages[1].Content)
	}
}

func TestClient_GenerateErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
		wantAPI bool
	}{
		{"Server error", http.StatusInternalServerError, `{"error":"boom"}`, nil, true},
		{"Unauthorized", http.StatusUnauthorized, `{"error":"bad key"}`, nil, true},
		{"No choices", http.StatusOK, `{"choices":[]}`, ErrEmptyResponse, false},
		{"Blank content", http.StatusOK, `{"choices":[{"message":{"content":"  \n "}}]}`, ErrEmptyResponse, false},
		{"Invalid JSON", http.StatusOK, `not json`, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client, err := NewClient(testConfig(server.URL))
			if err != nil {
				t.Fatalf("NewClient() error: %v", err)
			}

			gen, err := client.Generate(context.Background(), "t", "r")
			if err == nil {
				t.Fatalf("expected error, got %+v", gen)
			}

			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}

			var apiErr *APIError
			if errors.As(err, &apiErr) != tt.wantAPI {
				t.Errorf("APIError match = %v, want %v (%v)", !tt.wantAPI, tt.wantAPI, err)
			}

			if tt.wantAPI && (apiErr.StatusCode != tt.status || apiErr.Body != tt.body) {
				t.Errorf("APIError = %+v", apiErr)
			}
		})
	}
}

func TestClient_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client, err := NewClient(testConfig(url))
	if err != nil {
		t.Fatalf("NewClient() error: %v", err)
	}

	if _, err := client.Generate(context.Background(), "t", "r"); err == nil {
		t.Error("expected transport error")
	}
}
