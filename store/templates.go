// ABOUTME: Message-template operations with offline fallback
package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/harperreed/kith/db"
	"github.com/harperreed/kith/models"
)

// FetchTemplates lists templates, preferring the server.
func (s *Store) FetchTemplates(ctx context.Context) ([]models.MessageTemplate, bool, error) {
	templates, err := s.api.FetchTemplates(ctx)
	if err == nil {
		if err := db.BulkPutTemplates(s.db, templates); err != nil {
			return nil, false, err
		}
		return templates, false, nil
	}

	s.log.Warn().Err(err).Msg("template list unavailable, using cache")
	local, lerr := db.ListTemplates(s.db)
	if lerr != nil {
		return nil, false, lerr
	}
	return local, true, nil
}

// GetTemplate fetches one template, falling back to the cache. Returns
// ErrNotFound when the template is unknown both remotely and locally.
func (s *Store) GetTemplate(ctx context.Context, id string) (*models.MessageTemplate, bool, error) {
	template, err := s.api.FetchTemplate(ctx, id)
	if err == nil {
		if err := db.PutTemplate(s.db, template); err != nil {
			return nil, false, err
		}
		return template, false, nil
	}

	local, lerr := db.GetTemplate(s.db, id)
	if lerr != nil {
		return nil, false, lerr
	}
	if local == nil {
		return nil, true, ErrNotFound
	}
	return local, true, nil
}

// CreateTemplate creates a template, queueing it when offline.
func (s *Store) CreateTemplate(ctx context.Context, template *models.MessageTemplate) (*models.MessageTemplate, bool, error) {
	created, err := s.api.CreateTemplate(ctx, template)
	if err == nil {
		if err := db.PutTemplate(s.db, created); err != nil {
			return nil, false, err
		}
		s.publish(Event{Kind: models.KindTemplate, Op: models.OpCreate, ID: created.ID})
		return created, false, nil
	}
	if !fallsBack(err) {
		return nil, false, err
	}

	local := *template
	local.ID = uuid.NewString()
	local.CreatedAt = time.Now().UTC()
	if err := db.PutTemplate(s.db, &local); err != nil {
		return nil, false, err
	}
	payload, err := json.Marshal(&local)
	if err != nil {
		return nil, false, err
	}
	if _, err := db.EnqueueChange(s.db, models.OpCreate, models.KindTemplate, local.ID, payload); err != nil {
		return nil, false, err
	}
	s.publish(Event{Kind: models.KindTemplate, Op: models.OpCreate, ID: local.ID})
	return &local, true, nil
}

// UpdateTemplate applies a partial update, merging into the cache and
// queueing the patch when offline.
func (s *Store) UpdateTemplate(ctx context.Context, id string, patch *models.TemplatePatch) (*models.MessageTemplate, bool, error) {
	updated, err := s.api.UpdateTemplate(ctx, id, patch)
	if err == nil {
		if err := db.PutTemplate(s.db, updated); err != nil {
			return nil, false, err
		}
		s.publish(Event{Kind: models.KindTemplate, Op: models.OpUpdate, ID: id})
		return updated, false, nil
	}
	if !fallsBack(err) {
		return nil, false, err
	}

	existing, lerr := db.GetTemplate(s.db, id)
	if lerr != nil {
		return nil, false, lerr
	}
	if existing == nil {
		return nil, true, ErrNotFound
	}
	patch.Apply(existing)
	if err := db.PutTemplate(s.db, existing); err != nil {
		return nil, false, err
	}
	payload, err := json.Marshal(patch)
	if err != nil {
		return nil, false, err
	}
	if _, err := db.EnqueueChange(s.db, models.OpUpdate, models.KindTemplate, id, payload); err != nil {
		return nil, false, err
	}
	s.publish(Event{Kind: models.KindTemplate, Op: models.OpUpdate, ID: id})
	return existing, true, nil
}

// DeleteTemplate removes the template locally no matter what; the delete
// is queued when the server did not confirm it.
func (s *Store) DeleteTemplate(ctx context.Context, id string) (bool, error) {
	err := s.api.DeleteTemplate(ctx, id)

	if derr := db.DeleteTemplate(s.db, id); derr != nil {
		return false, derr
	}
	offline := err != nil
	if offline {
		if _, qerr := db.EnqueueChange(s.db, models.OpDelete, models.KindTemplate, id, nil); qerr != nil {
			return false, qerr
		}
	}
	s.publish(Event{Kind: models.KindTemplate, Op: models.OpDelete, ID: id})
	return offline, nil
}

// RenderTemplate fills a template's placeholders for a contact, falling
// back to a stock message per type when the template has no content.
func (s *Store) RenderTemplate(template *models.MessageTemplate, contactName string) string {
	if template == nil || template.Content == "" {
		t := models.TemplateCustom
		if template != nil {
			t = template.Type
		}
		return models.DefaultMessage(t, contactName)
	}
	return models.RenderTemplate(template.Content, contactName)
}
