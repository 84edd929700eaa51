package services

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"dario.cat/mergo"

	"github.com/custodia-labs/annlib/internal/core/domain"
	"github.com/custodia-labs/annlib/internal/core/ports/driven"
	"github.com/custodia-labs/annlib/internal/core/ports/driving"
	"github.com/custodia-labs/annlib/internal/logger"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	keySourceRoots       = "processor.source_roots"
	keyAnnotationPackage = "processor.annotation_package"
	keyInclude           = "processor.include"
	keyExclude           = "processor.exclude"
	keyEntityMarker      = "markers.entity"
	keyIDMarker          = "markers.id"
	keyMapping           = "controller.mapping_annotation"
	keyKnownTypes        = "types.known"
	keyJournalBackend    = "journal.backend"
	keyJournalPath       = "journal.path"
	keyWatchDebounce     = "watch.debounce"
	keyWatchMaxWait      = "watch.max_wait"
)

// SettingsService manages the project configuration.
type SettingsService struct {
	configStore driven.ConfigStore
	project     string
}

// NewSettingsService creates a new settings service. project is the
// project directory used to anchor relative paths.
func NewSettingsService(configStore driven.ConfigStore, project string) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		project:     project,
	}
}

// Get returns the configuration file merged over defaults and validated.
func (s *SettingsService) Get() (*domain.Settings, error) {
	loaded, err := s.load()
	if err != nil {
		return nil, err
	}

	settings := domain.DefaultSettings()
	if err := mergo.Merge(&settings, loaded, mergo.WithOverride); err != nil {
		return nil, fmt.Errorf("merge settings: %w", err)
	}
	if settings.Journal.Path == "" {
		settings.Journal.Path = filepath.Join(s.project, ".annlib", "journal.db")
	} else if !filepath.IsAbs(settings.Journal.Path) {
		settings.Journal.Path = filepath.Join(s.project, settings.Journal.Path)
	}

	if err := validateSettings(&settings); err != nil {
		return nil, err
	}
	return &settings, nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.Settings {
	return domain.DefaultSettings()
}

// Init writes the defaults unless the file already has a processor section.
func (s *SettingsService) Init() (bool, error) {
	if _, ok := s.configStore.Get(keySourceRoots); ok {
		return false, nil
	}

	d := domain.DefaultSettings()
	values := []struct {
		key   string
		value any
	}{
		{keySourceRoots, d.Processor.SourceRoots},
		{keyAnnotationPackage, d.Processor.AnnotationPackage},
		{keyInclude, d.Processor.Include},
		{keyExclude, d.Processor.Exclude},
		{keyEntityMarker, d.Markers.Entity},
		{keyIDMarker, d.Markers.ID},
		{keyMapping, d.Controller.MappingAnnotation},
		{keyJournalBackend, string(d.Journal.Backend)},
		{keyWatchDebounce, d.Watch.Debounce.String()},
		{keyWatchMaxWait, d.Watch.MaxWait.String()},
	}
	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return false, fmt.Errorf("save %s: %w", v.key, err)
		}
	}
	return true, nil
}

// Path returns the configuration file path.
func (s *SettingsService) Path() string {
	return s.configStore.Path()
}

// load reads the keys present in the store. Absent keys stay zero so that
// the merge keeps the defaults.
func (s *SettingsService) load() (domain.Settings, error) {
	var out domain.Settings

	out.Processor.SourceRoots = s.configStore.GetStringSlice(keySourceRoots)
	out.Processor.AnnotationPackage = s.configStore.GetString(keyAnnotationPackage)
	out.Processor.Include = s.configStore.GetStringSlice(keyInclude)
	out.Processor.Exclude = s.configStore.GetStringSlice(keyExclude)
	out.Markers.Entity = s.configStore.GetString(keyEntityMarker)
	out.Markers.ID = s.configStore.GetString(keyIDMarker)
	out.Controller.MappingAnnotation = s.configStore.GetString(keyMapping)
	out.Journal.Backend = domain.JournalBackend(s.configStore.GetString(keyJournalBackend))
	out.Journal.Path = s.configStore.GetString(keyJournalPath)

	for _, entry := range s.configStore.GetStringSlice(keyKnownTypes) {
		kt, err := parseKnownType(entry)
		if err != nil {
			return out, err
		}
		out.Types.Known = append(out.Types.Known, kt)
	}

	var err error
	if out.Watch.Debounce, err = s.getDuration(keyWatchDebounce); err != nil {
		return out, err
	}
	if out.Watch.MaxWait, err = s.getDuration(keyWatchMaxWait); err != nil {
		return out, err
	}
	return out, nil
}

func (s *SettingsService) getDuration(key string) (time.Duration, error) {
	raw := s.configStore.GetString(key)
	if raw == "" {
		if ms := s.configStore.GetInt(key); ms > 0 {
			return time.Duration(ms) * time.Millisecond, nil
		}
		return 0, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", domain.ErrInvalidInput, key, err)
	}
	return d, nil
}

// parseKnownType reads "fqn:kind:arity", where kind is class, interface
// or annotation and arity defaults to 0.
func parseKnownType(entry string) (domain.KnownType, error) {
	parts := strings.Split(entry, ":")
	if len(parts) < 2 || len(parts) > 3 || parts[0] == "" {
		return domain.KnownType{}, fmt.Errorf("%w: %s entry %q must be fqn:kind[:arity]", domain.ErrInvalidInput, keyKnownTypes, entry)
	}
	kt := domain.KnownType{QualifiedName: strings.TrimSpace(parts[0])}
	switch strings.TrimSpace(parts[1]) {
	case "class":
		kt.Kind = domain.KindClass
	case "interface":
		kt.Kind = domain.KindInterface
	case "annotation", "@interface":
		kt.Kind = domain.KindAnnotation
	default:
		return domain.KnownType{}, fmt.Errorf("%w: %s entry %q has unknown kind %q", domain.ErrInvalidInput, keyKnownTypes, entry, parts[1])
	}
	if len(parts) == 3 {
		n, err := strconv.Atoi(strings.TrimSpace(parts[2]))
		if err != nil || n < 0 {
			return domain.KnownType{}, fmt.Errorf("%w: %s entry %q has bad arity", domain.ErrInvalidInput, keyKnownTypes, entry)
		}
		kt.TypeParams = n
	}
	logger.Debug("known type %s (%s, %d)", kt.QualifiedName, kt.Kind, kt.TypeParams)
	return kt, nil
}
