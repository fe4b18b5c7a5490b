package mailservice

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"
)

//go:embed templates/*
var templateFS embed.FS

// message is a rendered email. Every template defines the subject, plainBody
// and htmlBody blocks.
type message struct {
	Subject string
	Plain   string
	HTML    string
}

func NewTemplate() *Template {
	return &Template{}
}

// Render executes the named template file against data.
func (tp *Template) Render(name string, data any) (*message, error) {
	t, err := template.New("email").ParseFS(templateFS, "templates/"+name)
	if err != nil {
		return nil, fmt.Errorf("could not parse template %s: %w", name, err)
	}

	var msg message
	for _, block := range []struct {
		name string
		dst  *string
	}{
		{"subject", &msg.Subject},
		{"plainBody", &msg.Plain},
		{"htmlBody", &msg.HTML},
	} {
		buf := new(bytes.Buffer)
		if err := t.ExecuteTemplate(buf, block.name, data); err != nil {
			return nil, fmt.Errorf("could not render %s of %s: %w", block.name, name, err)
		}
		*block.dst = buf.String()
	}

	// a header value must stay on one line
	msg.Subject = strings.Join(strings.Fields(msg.Subject), " ")

	return &msg, nil
}
