// ABOUTME: Message-template CLI commands, including rendering for a contact
package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/harperreed/kith/models"
	"github.com/harperreed/kith/store"
)

// AddTemplateCommand creates a message template.
func AddTemplateCommand(ctx context.Context, s *store.Store, args []string) error {
	fs := flag.NewFlagSet("templates add", flag.ExitOnError)
	name := fs.String("name", "", "Template name (required)")
	kind := fs.String("type", models.TemplateCustom, "Template type: followup, birthday, anniversary, custom")
	content := fs.String("content", "", "Template body; {name} is replaced with the contact's first name (required)")
	_ = fs.Parse(args)

	if *name == "" || *content == "" {
		return fmt.Errorf("--name and --content are required")
	}

	created, offline, err := s.CreateTemplate(ctx, &models.MessageTemplate{
		Name:    *name,
		Type:    *kind,
		Content: *content,
	})
	if err != nil {
		return fmt.Errorf("failed to create template: %w", err)
	}
	fmt.Printf("✓ Template created: %s (ID: %s)%s\n", created.Name, created.ID, offlineNote(offline))
	return nil
}

// ListTemplatesCommand lists templates.
func ListTemplatesCommand(ctx context.Context, s *store.Store, args []string) error {
	fs := flag.NewFlagSet("templates list", flag.ExitOnError)
	_ = fs.Parse(args)

	templates, offline, err := s.FetchTemplates(ctx)
	if err != nil {
		return fmt.Errorf("failed to list templates: %w", err)
	}
	if offline {
		fmt.Println("(showing cached data, server unreachable)")
	}
	if len(templates) == 0 {
		fmt.Println("No templates")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tTYPE\tCONTENT")
	for _, tmpl := range templates {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", tmpl.ID, tmpl.Name, tmpl.Type, tmpl.Content)
	}
	return w.Flush()
}

// UpdateTemplateCommand applies a partial update to a template.
func UpdateTemplateCommand(ctx context.Context, s *store.Store, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: templates update <id> [flags]")
	}
	id := args[0]

	fs := flag.NewFlagSet("templates update", flag.ExitOnError)
	name := fs.String("name", "", "New name")
	kind := fs.String("type", "", "New type")
	content := fs.String("content", "", "New body")
	_ = fs.Parse(args[1:])

	patch := &models.TemplatePatch{}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "name":
			patch.Name = name
		case "type":
			patch.Type = kind
		case "content":
			patch.Content = content
		}
	})

	updated, offline, err := s.UpdateTemplate(ctx, id, patch)
	if err != nil {
		return fmt.Errorf("failed to update template: %w", err)
	}
	fmt.Printf("✓ Template updated: %s%s\n", updated.Name, offlineNote(offline))
	return nil
}

// DeleteTemplateCommand removes a template.
func DeleteTemplateCommand(ctx context.Context, s *store.Store, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: templates delete <id>")
	}
	offline, err := s.DeleteTemplate(ctx, args[0])
	if err != nil {
		return fmt.Errorf("failed to delete template: %w", err)
	}
	fmt.Printf("✓ Template deleted%s\n", offlineNote(offline))
	return nil
}

// RenderTemplateCommand prints a template filled in for a contact.
func RenderTemplateCommand(ctx context.Context, s *store.Store, args []string) error {
	fs := flag.NewFlagSet("templates render", flag.ExitOnError)
	templateID := fs.String("template", "", "Template id (required)")
	contactID := fs.String("contact", "", "Contact id (required)")
	_ = fs.Parse(args)

	if *templateID == "" || *contactID == "" {
		return fmt.Errorf("--template and --contact are required")
	}

	template, _, err := s.GetTemplate(ctx, *templateID)
	if err != nil {
		return fmt.Errorf("failed to load template: %w", err)
	}

	contact, _, err := s.GetContact(ctx, *contactID)
	if err != nil {
		return fmt.Errorf("failed to load contact: %w", err)
	}

	fmt.Println(s.RenderTemplate(template, contact.Name))
	return nil
}
