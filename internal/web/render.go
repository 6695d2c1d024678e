// Package web renders the site's HTML pages.
package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/couchcryptid/solarsite-service/internal/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

// Page names accepted by Renderer.Render.
const (
	PageHome      = "home"
	PageAbout     = "about"
	PageContact   = "contact"
	PageAuth      = "auth"
	PageLocations = "locations"
)

var pages = []string{PageHome, PageAbout, PageContact, PageAuth, PageLocations}

// Data is passed to every page template.
type Data struct {
	Title   string
	Active  string
	Content Content
	Year    int

	// Locations page.
	View *domain.View

	// Form pages. Submitted values are echoed back into the inputs.
	ContactForm *domain.ContactMessage
	SignIn      *domain.SignInForm
	SignUp      *domain.SignUpForm
	Errors      domain.FieldErrors
	Notice      string
	Tab         string // auth page: "signin" or "signup"
}

// Renderer holds one parsed template set per page.
type Renderer struct {
	pages map[string]*template.Template
}

// NewRenderer parses the embedded templates.
func NewRenderer() (*Renderer, error) {
	funcs := template.FuncMap{
		"suitability": domain.SuitabilityText,
		"level":       domain.SuitabilityLevel,
		"landType":    domain.LandType,
		"energy":      domain.EnergyPotential,
		"score":       func(v float64) string { return fmt.Sprintf("%.0f", v) },
		"coord":       func(v float64) string { return fmt.Sprintf("%.4f", v) },
		"label":       func(l domain.Location) string { return l.Label() },
		"add":         func(a, b int) int { return a + b },
	}

	r := &Renderer{pages: make(map[string]*template.Template, len(pages))}
	for _, p := range pages {
		t, err := template.New("layout.html").Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/"+p+".html")
		if err != nil {
			return nil, fmt.Errorf("parse %s template: %w", p, err)
		}
		r.pages[p] = t
	}
	return r, nil
}

// Render writes page to w. The page is rendered into a buffer first so a
// template error never leaves a half-written response.
func (r *Renderer) Render(w io.Writer, page string, data Data) error {
	t, ok := r.pages[page]
	if !ok {
		return fmt.Errorf("unknown page %q", page)
	}
	if data.Active == "" {
		data.Active = page
	}
	if data.Year == 0 {
		data.Year = domain.Now().Year()
	}
	data.Content = SiteContent

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout.html", data); err != nil {
		return fmt.Errorf("render %s: %w", page, err)
	}
	_, err := buf.WriteTo(w)
	return err
}
