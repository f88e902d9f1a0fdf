// Package template manages named, per-user report templates: the field
// mapping and issue selection configuration the report engine consumes.
package template

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/weekrep/weekrep/pkg/models"
)

// DefaultTemplateName is the protected per-user template name: it cannot be
// deleted and cannot be renamed.
const DefaultTemplateName = "Default"

// Repository is the persistence collaborator the store round-trips through.
// The canonical storage shape is one JSON array of ReportTemplate objects.
type Repository interface {
	// Load reads every persisted template; a missing backing store yields an
	// empty slice, not an error.
	Load() ([]models.ReportTemplate, error)

	// Save replaces the persisted template set.
	Save(templates []models.ReportTemplate) error
}

// Store holds the in-memory template table, loaded once at construction and
// flushed to the repository on every mutation. Reads and writes are guarded
// by a single RWMutex; concurrent writers to the same template id are
// last-write-wins on the persisted snapshot.
type Store struct {
	mu        sync.RWMutex
	repo      Repository
	templates map[string]models.ReportTemplate
}

// NewStore builds a store over the given repository and loads the persisted
// templates into memory.
func NewStore(repo Repository) (*Store, error) {
	templates, err := repo.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}

	index := make(map[string]models.ReportTemplate, len(templates))
	for _, tpl := range templates {
		index[tpl.ID] = tpl
	}
	return &Store{repo: repo, templates: index}, nil
}

// normalizeUserID is the single place user ids are canonicalized; every
// ownership comparison goes through it.
func normalizeUserID(userID string) string {
	return strings.ToLower(strings.TrimSpace(userID))
}

func sameUser(a, b string) bool {
	return normalizeUserID(a) == normalizeUserID(b)
}

// newTemplateID generates an opaque, globally unique template id.
func newTemplateID() string {
	suffix := make([]byte, 6)
	_, _ = rand.Read(suffix)
	return fmt.Sprintf("tpl-%s-%s", time.Now().UTC().Format("20060102150405"), hex.EncodeToString(suffix))
}

func nowISO() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// DefaultFieldMapping is the built-in configuration every user's "Default"
// template is seeded from.
func DefaultFieldMapping() models.FieldMappingConfig {
	return models.FieldMappingConfig{
		CategoryField:       "status.name",
		InitiativeField:     "labels",
		IssueItemField:      "summary",
		MultiValueHandling:  models.MultiValueJoin,
		MultiValueSeparator: ", ",
	}
}

// DefaultIssueSelection is the built-in issue selection for new templates.
func DefaultIssueSelection() models.IssueSelectionConfig {
	return models.IssueSelectionConfig{
		MaxDepth:              1,
		IncludeNestedChildren: false,
		ParentGroupingField:   "parent.key",
	}
}

// flushLocked persists the current table. Callers hold the write lock.
func (s *Store) flushLocked() error {
	templates := make([]models.ReportTemplate, 0, len(s.templates))
	for _, tpl := range s.templates {
		templates = append(templates, tpl)
	}
	sort.Slice(templates, func(i, j int) bool { return templates[i].CreatedAt < templates[j].CreatedAt })
	if err := s.repo.Save(templates); err != nil {
		return fmt.Errorf("failed to save templates: %w", err)
	}
	return nil
}

// TemplatesForUser lists the user's own templates, unioned with every shared
// template when includeShared is set, sorted by updatedAt descending.
func (s *Store) TemplatesForUser(userID string, includeShared bool) []models.ReportTemplate {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := []models.ReportTemplate{}
	for _, tpl := range s.templates {
		if sameUser(tpl.UserID, userID) || (includeShared && tpl.IsShared) {
			result = append(result, tpl)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].UpdatedAt > result[j].UpdatedAt })
	return result
}

// Template returns the template by id if the requester may read it: the
// case-insensitive owner always can, anyone can when it is shared. Anything
// else, including an unknown id, is nil so private templates never leak.
func (s *Store) Template(id, userID string) *models.ReportTemplate {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.templateLocked(id, userID)
}

func (s *Store) templateLocked(id, userID string) *models.ReportTemplate {
	tpl, ok := s.templates[id]
	if !ok {
		return nil
	}
	if !sameUser(tpl.UserID, userID) && !tpl.IsShared {
		return nil
	}
	copied := tpl
	return &copied
}

// DefaultTemplate returns the user's "Default" template, materializing it
// from the built-in configuration on first access.
func (s *Store) DefaultTemplate(userID string) (models.ReportTemplate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, tpl := range s.templates {
		if sameUser(tpl.UserID, userID) && tpl.Name == DefaultTemplateName {
			return tpl, nil
		}
	}

	now := nowISO()
	tpl := models.ReportTemplate{
		ID:             newTemplateID(),
		Name:           DefaultTemplateName,
		Description:    "Built-in default report template",
		UserID:         normalizeUserID(userID),
		FieldMapping:   DefaultFieldMapping(),
		IssueSelection: DefaultIssueSelection(),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	s.templates[tpl.ID] = tpl
	if err := s.flushLocked(); err != nil {
		delete(s.templates, tpl.ID)
		return models.ReportTemplate{}, err
	}
	return tpl, nil
}

// Create adds a new template owned by the given user.
func (s *Store) Create(userID, name, description string, isShared bool, mapping models.FieldMappingConfig, selection models.IssueSelectionConfig) (models.ReportTemplate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := nowISO()
	tpl := models.ReportTemplate{
		ID:             newTemplateID(),
		Name:           name,
		Description:    description,
		UserID:         normalizeUserID(userID),
		IsShared:       isShared,
		FieldMapping:   mapping,
		IssueSelection: selection,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	s.templates[tpl.ID] = tpl
	if err := s.flushLocked(); err != nil {
		delete(s.templates, tpl.ID)
		return models.ReportTemplate{}, err
	}
	return tpl, nil
}

// Update is the set of mutable template fields. Nil members are left
// untouched.
type Update struct {
	Name           *string
	Description    *string
	IsShared       *bool
	FieldMapping   *models.FieldMappingConfig
	IssueSelection *models.IssueSelectionConfig
}

// UpdateTemplate applies an update to a template the user owns. It returns
// nil when the template does not exist or the user is not the owner. A
// rename of the "Default" template is ignored; the other fields of the
// update still apply.
func (s *Store) UpdateTemplate(id, userID string, update Update) (*models.ReportTemplate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tpl, ok := s.templates[id]
	if !ok || !sameUser(tpl.UserID, userID) {
		return nil, nil
	}

	previous := tpl
	if update.Name != nil && tpl.Name != DefaultTemplateName {
		tpl.Name = *update.Name
	}
	if update.Description != nil {
		tpl.Description = *update.Description
	}
	if update.IsShared != nil {
		tpl.IsShared = *update.IsShared
	}
	if update.FieldMapping != nil {
		tpl.FieldMapping = *update.FieldMapping
	}
	if update.IssueSelection != nil {
		tpl.IssueSelection = *update.IssueSelection
	}
	tpl.UpdatedAt = nowISO()

	s.templates[id] = tpl
	if err := s.flushLocked(); err != nil {
		s.templates[id] = previous
		return nil, err
	}
	return &tpl, nil
}

// Delete removes a template the user owns. It returns false for unknown ids,
// non-owners and the protected "Default" template; an error only when
// persisting the removal fails.
func (s *Store) Delete(id, userID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tpl, ok := s.templates[id]
	if !ok || !sameUser(tpl.UserID, userID) {
		return false, nil
	}
	if tpl.Name == DefaultTemplateName {
		return false, nil
	}

	delete(s.templates, id)
	if err := s.flushLocked(); err != nil {
		s.templates[id] = tpl
		return false, err
	}
	return true, nil
}

// Clone copies a readable template into a new one owned by the cloning user.
// The clone always gets a fresh id, sharing stripped, and the given name.
// Cloning a shared template owned by someone else is allowed.
func (s *Store) Clone(id, userID, name string) (*models.ReportTemplate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	source := s.templateLocked(id, userID)
	if source == nil {
		return nil, nil
	}
	if name == "" {
		name = "Copy of " + source.Name
	}

	now := nowISO()
	clone := *source
	clone.ID = newTemplateID()
	clone.Name = name
	clone.UserID = normalizeUserID(userID)
	clone.IsShared = false
	clone.CreatedAt = now
	clone.UpdatedAt = now

	s.templates[clone.ID] = clone
	if err := s.flushLocked(); err != nil {
		delete(s.templates, clone.ID)
		return nil, err
	}
	return &clone, nil
}
