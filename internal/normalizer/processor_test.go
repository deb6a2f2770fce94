package normalizer

import (
	"strings"
	"testing"

	"seopress/internal/models"
)

func TestNewProcessor(t *testing.T) {
	p := NewProcessor(Options{})

	if p == nil {
		t.Fatal("NewProcessor returned nil")
	}

	if p.opts.Placeholder != "Sin título" {
		t.Errorf("default placeholder = %q", p.opts.Placeholder)
	}

	if p.Validator().IsValid("Élite ñan") || !p.Validator().IsValid("Ñandúes ab") {
		t.Errorf("default validator should use a %d character threshold", DefaultMinTitleLength)
	}
}

func TestProcessor_Process(t *testing.T) {
	src := models.SourceArticle{
		URL:   "https://example.com/cortasetos",
		Title: "Cortasetos Stihl",
		Body:  "Texto original...",
	}

	tests := []struct {
		name          string
		gen           *models.GeneratedText
		wantTitle     string
		wantBody      string
		titleFallback bool
		bodyFallback  bool
	}{
		{
			name: "Generated article",
			gen: &models.GeneratedText{
				Raw: "## H1: CORTASETOS STIHL: GUÍA COMPLETA\n## VENTAJAS\nMuy ligero...",
			},
			wantTitle: "Cortasetos stihl: guía completa",
			wantBody:  "<h2>Ventajas</h2>\n<p>Muy ligero...</p>",
		},
		{
			name: "Lowercase label on first line",
			gen: &models.GeneratedText{
				Raw: "h1: cortasetos stihl: guía completa\n## Ventajas\n\nMuy ligero...",
			},
			wantTitle: "Cortasetos stihl: guía completa",
			wantBody:  "<h2>Ventajas</h2>\n<p>Muy ligero...</p>",
		},
		{
			name: "Label inside bold title",
			gen: &models.GeneratedText{
				Raw: "**H2: Mejores cortasetos de 2024**\nTexto.",
			},
			wantTitle: "Mejores cortasetos de 2024",
			wantBody:  "<p>Texto.</p>",
		},
		{
			name:          "Generation failed",
			gen:           nil,
			wantTitle:     "Cortasetos stihl",
			wantBody:      "<p>Texto original...</p>",
			titleFallback: true,
			bodyFallback:  true,
		},
		{
			name:          "Blank generation",
			gen:           &models.GeneratedText{Raw: " \n\t\n"},
			wantTitle:     "Cortasetos stihl",
			wantBody:      "<p>Texto original...</p>",
			titleFallback: true,
			bodyFallback:  true,
		},
		{
			name:          "Short generated title",
			gen:           &models.GeneratedText{Raw: "Podadora\n\nCuerpo generado."},
			wantTitle:     "Cortasetos stihl",
			wantBody:      "<p>Cuerpo generado.</p>",
			titleFallback: true,
		},
		{
			name:          "Numeric generated title",
			gen:           &models.GeneratedText{Raw: "## 1234567890123\nCuerpo."},
			wantTitle:     "Cortasetos stihl",
			wantBody:      "<p>Cuerpo.</p>",
			titleFallback: true,
		},
		{
			name:      "Leading blank lines before title",
			gen:       &models.GeneratedText{Raw: "\n\n  # Guía para podar setos\n\nPrimer párrafo.\n\nSegundo **clave**."},
			wantTitle: "Guía para podar setos",
			wantBody:  "<p>Primer párrafo.</p>\n<p>Segundo <strong>clave</strong>.</p>",
		},
		{
			name:      "Title only",
			gen:       &models.GeneratedText{Raw: "Guía para podar setos"},
			wantTitle: "Guía para podar setos",
			wantBody:  "",
		},
		{
			name:      "Repeated title heading dropped",
			gen:       &models.GeneratedText{Raw: "Guía para podar setos\n# GUÍA PARA PODAR SETOS\nTexto."},
			wantTitle: "Guía para podar setos",
			wantBody:  "<p>Texto.</p>",
		},
	}

	p := NewProcessor(Options{})

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := p.Process(src, tt.gen)

			if got.Title != tt.wantTitle {
				t.Errorf("Title = %q, want %q", got.Title, tt.wantTitle)
			}

			if got.HTMLBody != tt.wantBody {
				t.Errorf("HTMLBody =\n%q\nwant\n%q", got.HTMLBody, tt.wantBody)
			}

			if got.TitleFallback != tt.titleFallback {
				t.Errorf("TitleFallback = %v, want %v", got.TitleFallback, tt.titleFallback)
			}

			if got.ContentFallback != tt.bodyFallback {
				t.Errorf("ContentFallback = %v, want %v", got.ContentFallback, tt.bodyFallback)
			}
		})
	}
}

func TestProcessor_TitleNeverEmpty(t *testing.T) {
	p := NewProcessor(Options{Placeholder: "Artículo"})

	sources := []models.SourceArticle{
		{Title: ""},
		{Title: "## "},
		{Title: "Corto"},
	}

	for _, src := range sources {
		t.Run(src.Title, func(t *testing.T) {
			got := p.Process(src, &models.GeneratedText{Raw: "x\ncuerpo"})
			if strings.TrimSpace(got.Title) == "" {
				t.Fatal("title is empty")
			}

			failed := p.Process(src, nil)
			if strings.TrimSpace(failed.Title) == "" {
				t.Fatal("fallback title is empty")
			}
		})
	}

	if got := p.SourceTitle(models.SourceArticle{}); got != "Artículo" {
		t.Errorf("SourceTitle() = %q, want placeholder", got)
	}
}

func TestProcessor_IncludeTitleHeading(t *testing.T) {
	p := NewProcessor(Options{IncludeTitleHeadingInBody: true})

	got := p.Process(models.SourceArticle{Title: "Cortasetos Stihl"}, &models.GeneratedText{
		Raw: "Guía para podar setos\n# Guía para podar setos\n## Paso uno\nCortar.",
	})

	want := "<h1>Guía para podar setos</h1>\n<h2>Paso uno</h2>\n<p>Cortar.</p>"
	if got.HTMLBody != want {
		t.Errorf("HTMLBody =\n%q\nwant\n%q", got.HTMLBody, want)
	}

	if strings.Count(got.HTMLBody, "<h1>") != 1 {
		t.Errorf("title heading should appear once: %q", got.HTMLBody)
	}
}

func TestSplitTitle(t *testing.T) {
	tests := []struct {
		raw       string
		wantFirst string
		wantRest  string
	}{
		{"Título\ncuerpo", "Título", "cuerpo"},
		{"\n\n  Título  \r\ncuerpo\nmás", "Título", "cuerpo\nmás"},
		{"Solo título", "Solo título", ""},
		{"", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			first, rest := SplitTitle(tt.raw)
			if first != tt.wantFirst || rest != tt.wantRest {
				t.Errorf("SplitTitle(%q) = (%q, %q), want (%q, %q)", tt.raw, first, rest, tt.wantFirst, tt.wantRest)
			}
		})
	}
}
