// Package session persists the admin login flag and the visitor's language
// preference.
package session

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/teachingtorch/torch/pkg/types"
)

const loggedInValue = "true"

// SettingsSource supplies the current site settings. *catalog.Store
// implements it.
type SettingsSource interface {
	Settings() types.Settings
}

// Session reads and writes session keys in a KVStore.
type Session struct {
	kv       types.KVStore
	settings SettingsSource
	log      *zap.Logger
}

// New returns a Session over kv. Passwords are checked against
// settings.AdminPassword. A nil logger means zap.NewNop.
func New(kv types.KVStore, settings SettingsSource, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{kv: kv, settings: settings, log: logger}
}

// Login records an admin session when password matches the site password.
func (s *Session) Login(password string) error {
	if password == "" || password != s.settings.Settings().AdminPassword {
		s.log.Info("admin login rejected")
		return types.ErrWrongPassword
	}
	if err := s.kv.Set(types.KeyAdminLoggedIn, loggedInValue); err != nil {
		return fmt.Errorf("record login: %w", err)
	}
	return nil
}

// Logout ends the admin session. Logging out twice succeeds.
func (s *Session) Logout() error {
	if err := s.kv.Remove(types.KeyAdminLoggedIn); err != nil {
		return fmt.Errorf("record logout: %w", err)
	}
	return nil
}

// LoggedIn reports whether an admin session is active.
func (s *Session) LoggedIn() bool {
	v, err := s.kv.Get(types.KeyAdminLoggedIn)
	if err != nil {
		if !errors.Is(err, types.ErrKeyNotFound) {
			s.log.Warn("read session flag", zap.Error(err))
		}
		return false
	}
	return v == loggedInValue
}

// Require returns ErrNotLoggedIn unless an admin session is active.
func (s *Session) Require() error {
	if !s.LoggedIn() {
		return types.ErrNotLoggedIn
	}
	return nil
}

// Language returns the selected language, LanguageEnglish when none is
// stored or the stored value is not recognized.
func (s *Session) Language() string {
	v, err := s.kv.Get(types.KeySelectedLanguage)
	if err != nil || !validLanguage(v) {
		return types.LanguageEnglish
	}
	return v
}

// SetLanguage stores lang as the selected language. lang must be a known
// language or LanguageAll.
func (s *Session) SetLanguage(lang string) error {
	if !validLanguage(lang) {
		return fmt.Errorf("%q: %w", lang, types.ErrInvalidLanguage)
	}
	if err := s.kv.Set(types.KeySelectedLanguage, lang); err != nil {
		return fmt.Errorf("store language: %w", err)
	}
	return nil
}

func validLanguage(lang string) bool {
	return lang == types.LanguageAll || types.IsKnownLanguage(lang)
}
