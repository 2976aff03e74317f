// Package uploads implements the admin resource manager: it validates link
// submissions, records them in the uploaded-files and recent-uploads lists,
// and hands each one to the catalog once per language.
package uploads

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"

	"github.com/teachingtorch/torch/internal/links"
	"github.com/teachingtorch/torch/pkg/types"
)

// MaxRecent caps the recent-uploads list.
const MaxRecent = 10

// AddedBy is recorded on every submission.
const AddedBy = "admin"

// Dispatcher applies catalog commands as one unit. *catalog.Store
// implements it.
type Dispatcher interface {
	DispatchAll(cmds ...types.Command) error
}

// Form is an admin link submission.
type Form struct {
	Link          string   `json:"link" validate:"required"`
	Title         string   `json:"title" validate:"notblank"`
	Description   string   `json:"description"`
	Grade         string   `json:"grade" validate:"required"`
	Subject       string   `json:"subject" validate:"required"`
	ResourceType  string   `json:"resourceType" validate:"required,oneof=textbook notes papers videos"`
	Languages     []string `json:"languages" validate:"min=1,dive,oneof=sinhala tamil english"`
	PaperType     string   `json:"paperType" validate:"omitempty,oneof=term chapter"`
	PaperCategory string   `json:"paperCategory"`
	School        string   `json:"school"`
}

// Options configures a Manager. The zero value is usable.
type Options struct {
	Logger *zap.Logger
	Now    func() time.Time
	NewID  func() string
}

// Manager owns the uploaded-files and recent-uploads lists.
type Manager struct {
	mu       sync.Mutex
	kv       types.KVStore
	catalog  Dispatcher
	validate *validator.Validate
	policy   *bluemonday.Policy
	log      *zap.Logger
	now      func() time.Time
	newID    func() string
}

// New returns a Manager storing its lists in kv and publishing to catalog.
func New(kv types.KVStore, catalog Dispatcher, opts Options) *Manager {
	m := &Manager{
		kv:       kv,
		catalog:  catalog,
		validate: newValidator(),
		policy:   bluemonday.StrictPolicy(),
		log:      opts.Logger,
		now:      opts.Now,
		newID:    opts.NewID,
	}
	if m.log == nil {
		m.log = zap.NewNop()
	}
	if m.now == nil {
		m.now = time.Now
	}
	if m.newID == nil {
		m.newID = func() string {
			id, err := uuid.NewV7()
			if err != nil {
				return uuid.New().String()
			}
			return id.String()
		}
	}
	return m
}

// Add validates f, publishes it to the catalog once per language, and
// records it. Either every language is published or none is. The stored record is returned.
func (m *Manager) Add(f Form) (types.ResourceRecord, error) {
	f.Link = strings.TrimSpace(f.Link)
	f.Title = plainText(m.policy, f.Title)
	f.Description = plainText(m.policy, f.Description)
	f.School = plainText(m.policy, f.School)
	f.PaperCategory = strings.TrimSpace(f.PaperCategory)

	if err := m.validate.Struct(f); err != nil {
		return types.ResourceRecord{}, formError(err)
	}
	rec, err := m.record(f)
	if err != nil {
		return types.ResourceRecord{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.catalog.DispatchAll(commandsFor(rec)...); err != nil {
		return types.ResourceRecord{}, fmt.Errorf("publish %s: %w", rec.ResourceType, err)
	}

	uploaded, err := m.load(types.KeyUploadedFiles)
	if err != nil {
		return types.ResourceRecord{}, err
	}
	recent, err := m.load(types.KeyRecentUploads)
	if err != nil {
		return types.ResourceRecord{}, err
	}
	uploaded = append(uploaded, rec)
	recent = append([]types.ResourceRecord{rec}, recent...)
	if len(recent) > MaxRecent {
		recent = recent[:MaxRecent]
	}
	if err := m.save(types.KeyUploadedFiles, uploaded); err != nil {
		return types.ResourceRecord{}, err
	}
	if err := m.save(types.KeyRecentUploads, recent); err != nil {
		return types.ResourceRecord{}, err
	}

	m.log.Info("resource added",
		zap.String("id", rec.ID),
		zap.String("type", rec.ResourceType),
		zap.Strings("languages", rec.Languages))
	return rec, nil
}

// record resolves f's link and builds the stored record.
func (m *Manager) record(f Form) (types.ResourceRecord, error) {
	rec := types.ResourceRecord{
		ID:            m.newID(),
		Title:         f.Title,
		Name:          f.Title,
		Description:   f.Description,
		Grade:         f.Grade,
		Subject:       f.Subject,
		ResourceType:  f.ResourceType,
		Languages:     dedupe(f.Languages),
		UploadDate:    m.now(),
		AddedBy:       AddedBy,
		PaperType:     f.PaperType,
		PaperCategory: f.PaperCategory,
		School:        f.School,
	}

	link := f.Link
	switch {
	case f.ResourceType == types.ResourceVideos && links.IsYouTubeLink(link):
		id := links.ExtractVideoID(link)
		if id == "" {
			return types.ResourceRecord{}, fmt.Errorf("no video id in %q: %w", link, types.ErrInvalidLink)
		}
		rec.YouTubeURL = &link
		rec.FileID = id
		rec.URL = links.VideoWatchURL(link)
	case links.IsDriveLink(link):
		id := links.ExtractFileID(link)
		if id == "" {
			return types.ResourceRecord{}, fmt.Errorf("no file id in %q: %w", link, types.ErrInvalidLink)
		}
		rec.DriveLink = &link
		rec.FileID = id
		rec.URL = links.DriveViewURL(link)
	default:
		return types.ResourceRecord{}, fmt.Errorf("unsupported host %q: %w", link, types.ErrInvalidLink)
	}
	return rec, nil
}

// commandsFor returns the catalog commands publishing rec, one per language.
func commandsFor(rec types.ResourceRecord) []types.Command {
	cmds := make([]types.Command, 0, len(rec.Languages))
	for _, lang := range rec.Languages {
		switch rec.ResourceType {
		case types.ResourceTextbook:
			cmds = append(cmds, types.AddTextbook{
				GradeID: rec.Grade, SubjectID: rec.Subject, Language: lang, File: fileData(rec),
			})
		case types.ResourcePapers:
			cmds = append(cmds, types.AddPaper{
				GradeID:   rec.Grade,
				SubjectID: rec.Subject,
				PaperType: rec.PaperType,
				Category:  rec.PaperCategory,
				File:      fileData(rec),
				School:    rec.School,
				Language:  lang,
			})
		case types.ResourceNotes:
			cmds = append(cmds, types.AddNote{
				GradeID:   rec.Grade,
				SubjectID: rec.Subject,
				Category:  rec.PaperCategory,
				File:      fileData(rec),
				Language:  lang,
			})
		case types.ResourceVideos:
			cmds = append(cmds, types.AddVideo{
				GradeID: rec.Grade, SubjectID: rec.Subject, Video: videoData(rec, lang),
			})
		}
	}
	return cmds
}

func fileData(rec types.ResourceRecord) types.FileData {
	d := links.ResolveDrive(*rec.DriveLink)
	return types.FileData{
		Name:        rec.Name,
		Title:       rec.Title,
		Description: rec.Description,
		URL:         rec.URL,
		DriveLink:   d.ShareLink,
		FileID:      d.FileID,
		DownloadURL: d.DownloadURL,
		EmbedURL:    d.EmbedURL,
		ViewURL:     d.ViewURL,
	}
}

func videoData(rec types.ResourceRecord, lang string) types.VideoData {
	v := types.VideoData{
		Title:       rec.Title,
		Description: rec.Description,
		URL:         rec.URL,
		Language:    lang,
	}
	if rec.YouTubeURL != nil {
		r := links.ResolveVideo(*rec.YouTubeURL)
		v.VideoID = r.VideoID
		v.EmbedURL = r.EmbedURL
		v.WatchURL = r.WatchURL
		v.ThumbnailURL = r.ThumbnailURL
		return v
	}
	v.EmbedURL = links.DrivePreviewURL(*rec.DriveLink)
	v.WatchURL = links.DriveViewURL(*rec.DriveLink)
	return v
}

func dedupe(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, s := range in {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}

// List returns every recorded upload, oldest first.
func (m *Manager) List() ([]types.ResourceRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.load(types.KeyUploadedFiles)
}

// Recent returns the most recent uploads, newest first.
func (m *Manager) Recent() ([]types.ResourceRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.load(types.KeyRecentUploads)
}

// Delete removes the record with id from both lists. Catalog entries
// already published are left in place.
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	uploaded, err := m.load(types.KeyUploadedFiles)
	if err != nil {
		return err
	}
	recent, err := m.load(types.KeyRecentUploads)
	if err != nil {
		return err
	}
	keptUploaded, foundUploaded := without(uploaded, id)
	keptRecent, foundRecent := without(recent, id)
	if !foundUploaded && !foundRecent {
		return fmt.Errorf("%q: %w", id, types.ErrResourceNotFound)
	}
	if err := m.save(types.KeyUploadedFiles, keptUploaded); err != nil {
		return err
	}
	return m.save(types.KeyRecentUploads, keptRecent)
}

// Clear empties both lists.
func (m *Manager) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, key := range []string{types.KeyUploadedFiles, types.KeyRecentUploads} {
		if err := m.kv.Remove(key); err != nil {
			return fmt.Errorf("clear %s: %w", key, err)
		}
	}
	m.log.Info("resource lists cleared")
	return nil
}

// GroupKey returns the Groups key for rec.
func GroupKey(rec types.ResourceRecord) string {
	return rec.Grade + "/" + rec.Subject + "/" + rec.ResourceType
}

// Groups returns the recorded uploads keyed by GroupKey.
func (m *Manager) Groups() (map[string][]types.ResourceRecord, error) {
	all, err := m.List()
	if err != nil {
		return nil, err
	}
	groups := make(map[string][]types.ResourceRecord)
	for _, rec := range all {
		k := GroupKey(rec)
		groups[k] = append(groups[k], rec)
	}
	return groups, nil
}

func without(list []types.ResourceRecord, id string) ([]types.ResourceRecord, bool) {
	out := make([]types.ResourceRecord, 0, len(list))
	found := false
	for _, rec := range list {
		if rec.ID == id {
			found = true
			continue
		}
		out = append(out, rec)
	}
	return out, found
}

// load reads the list under key. A missing or unreadable list is empty.
func (m *Manager) load(key string) ([]types.ResourceRecord, error) {
	raw, err := m.kv.Get(key)
	if errors.Is(err, types.ErrKeyNotFound) {
		return []types.ResourceRecord{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	var list []types.ResourceRecord
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		m.log.Warn("discarding unreadable resource list", zap.String("key", key), zap.Error(err))
		return []types.ResourceRecord{}, nil
	}
	if list == nil {
		list = []types.ResourceRecord{}
	}
	return list, nil
}

func (m *Manager) save(key string, list []types.ResourceRecord) error {
	data, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := m.kv.Set(key, string(data)); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}
