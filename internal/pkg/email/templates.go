package email

import (
	"bytes"
	"fmt"
	"html/template"
	"path/filepath"
)

// TemplateManager holds the parsed email templates.
type TemplateManager struct {
	templates map[string]*template.Template
	config    Config
}

func NewTemplateManager(config Config) (*TemplateManager, error) {
	tm := &TemplateManager{
		templates: make(map[string]*template.Template),
		config:    config,
	}

	names := []string{
		"load_alert",
		"request_received",
		"request_decision",
		"welcome",
	}

	for _, name := range names {
		tpl, err := tm.loadTemplate(name)
		if err != nil {
			return nil, fmt.Errorf("failed to load template %s: %w", name, err)
		}
		tm.templates[name] = tpl
	}

	return tm, nil
}

// loadTemplate prefers a template file on disk, falling back to the
// builtin version when the file is absent.
func (tm *TemplateManager) loadTemplate(name string) (*template.Template, error) {
	contentPath := filepath.Join(tm.config.TemplatePath, name+".html")

	tpl, err := template.ParseFiles(contentPath)
	if err != nil {
		return tm.getBuiltinTemplate(name)
	}

	return tpl, nil
}

func (tm *TemplateManager) getBuiltinTemplate(name string) (*template.Template, error) {
	var tplText string

	switch name {
	case "load_alert":
		tplText = loadAlertTemplate
	case "request_received":
		tplText = requestReceivedTemplate
	case "request_decision":
		tplText = requestDecisionTemplate
	case "welcome":
		tplText = welcomeTemplate
	default:
		return nil, fmt.Errorf("unknown template: %s", name)
	}

	return template.New(name).Parse(tplText)
}

// Render executes a named template with the given data.
func (tm *TemplateManager) Render(name string, data interface{}) (string, error) {
	tpl, ok := tm.templates[name]
	if !ok {
		return "", fmt.Errorf("template not found: %s", name)
	}

	var buf bytes.Buffer
	if err := tpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template %s: %w", name, err)
	}

	return buf.String(), nil
}

const loadAlertTemplate = `
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
  <h2>New load in your service area</h2>
  <p>Hello {{.UserName}},</p>
  <p>A new {{.LoadType}} posting matches one of your service areas:</p>
  <table cellpadding="6">
    <tr><td><b>Pickup</b></td><td>{{.PickupCity}} ({{.PickupZip}})</td></tr>
    <tr><td><b>Delivery</b></td><td>{{.DeliveryCity}}</td></tr>
    <tr><td><b>Pickup date</b></td><td>{{.PickupDate}}</td></tr>
    {{if .Rate}}<tr><td><b>Rate</b></td><td>{{.Rate}}</td></tr>{{end}}
  </table>
  {{if .ActionURL}}<p><a href="{{.ActionURL}}">{{.ActionText}}</a></p>{{end}}
  <p>{{.CompanyName}}</p>
</body>
</html>`

const requestReceivedTemplate = `
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
  <h2>New request on your load</h2>
  <p>Hello {{.UserName}},</p>
  <p>{{.CarrierName}} requested your load {{.LoadRoute}}.</p>
  {{if .ProposedRate}}<p>Proposed rate: {{.ProposedRate}}</p>{{end}}
  {{if .ActionURL}}<p><a href="{{.ActionURL}}">{{.ActionText}}</a></p>{{end}}
  <p>{{.CompanyName}}</p>
</body>
</html>`

const requestDecisionTemplate = `
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
  <h2>Your request was {{.Decision}}</h2>
  <p>Hello {{.UserName}},</p>
  <p>Your request for the load {{.LoadRoute}} was {{.Decision}}.</p>
  {{if .OwnerNote}}<p>Message from the owner: {{.OwnerNote}}</p>{{end}}
  <p>{{.CompanyName}}</p>
</body>
</html>`

const welcomeTemplate = `
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
  <h2>Welcome to {{.CompanyName}}</h2>
  <p>Hello {{.UserName}},</p>
  <p>Your {{.UserRole}} account is ready. Set up your service areas to
  start receiving load alerts near you.</p>
  {{if .ActionURL}}<p><a href="{{.ActionURL}}">{{.ActionText}}</a></p>{{end}}
  <p>{{.CompanyName}}</p>
</body>
</html>`
