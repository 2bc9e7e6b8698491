package transform

import (
	"bytes"
	"fmt"
	"sync"
	"text/template"

	"github.com/Masterminds/sprig/v3"
)

// TemplateRule evaluates a user-supplied Go template with access to
// .FieldName, .FieldValue, and any named context bindings under .Ctx.
// Sprig's function map supplies string/date/faker-ish helpers templates
// can call, matching how the ambient stack's other CLI tools wire sprig
// into text/template.
type TemplateRule struct {
	Format string `yaml:"format"`

	mu     sync.Mutex
	tmpl   *template.Template
	inited bool
}

type templateData struct {
	FieldName  string
	FieldValue string
	Ctx        map[string]string
}

// Init compiles the template once. Idempotent.
func (t *TemplateRule) Init() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.inited {
		return nil
	}
	tmpl, err := template.New("field").Funcs(sprig.TxtFuncMap()).Parse(t.Format)
	if err != nil {
		return fmt.Errorf("compiling template %q: %w", t.Format, err)
	}
	t.tmpl = tmpl
	t.inited = true
	return nil
}

// Transform renders the compiled template.
func (t *TemplateRule) Transform(fieldName, fieldValue string, ctx *Context) (*string, error) {
	if err := t.Init(); err != nil {
		return nil, err
	}
	data := templateData{FieldName: fieldName, FieldValue: fieldValue}
	if ctx != nil {
		data.Ctx = ctx.Values
	}
	var buf bytes.Buffer
	if err := t.tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("rendering template for field %q: %w", fieldName, err)
	}
	return present(buf.String())
}
