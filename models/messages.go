// ABOUTME: Message-template rendering and built-in fallback messages
// ABOUTME: Substitutes the {name} placeholder with the contact's first name
package models

import (
	"fmt"
	"strings"
)

// FirstName returns the first whitespace-delimited word of a contact name.
func FirstName(name string) string {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return name
	}
	return fields[0]
}

// RenderTemplate substitutes the {name} placeholder in a template body with
// the contact's first name.
func RenderTemplate(content, contactName string) string {
	return strings.ReplaceAll(content, "{name}", FirstName(contactName))
}

// DefaultMessage returns a built-in message for template types that have
// one, used when the user has no template of that type.
func DefaultMessage(templateType, contactName string) string {
	first := FirstName(contactName)
	switch templateType {
	case TemplateFollowup:
		return fmt.Sprintf("Hi %s, hope you're doing well! Just wanted to follow up on our previous conversation.", first)
	case TemplateBirthday:
		return fmt.Sprintf("Happy Birthday, %s! Wishing you a wonderful day filled with joy and happiness!", first)
	case TemplateAnniversary:
		return fmt.Sprintf("Happy Anniversary, %s! Wishing you many more years of happiness!", first)
	default:
		return ""
	}
}
