package domain

import "time"

// JournalBackend selects where run reports are kept.
type JournalBackend string

// Journal backends.
const (
	JournalSQLite JournalBackend = "sqlite"
	JournalMemory JournalBackend = "memory"
)

// IsValid returns true if the backend is recognised.
func (b JournalBackend) IsValid() bool {
	return b == JournalSQLite || b == JournalMemory
}

// KnownType describes a type that cannot be found in the source tree, such
// as a framework interface, so that class-valued attributes can name it.
type KnownType struct {
	QualifiedName string   `validate:"required"`
	Kind          TypeKind `validate:"required,oneof=class interface @interface"`
	TypeParams    int      `validate:"gte=0"`
}

// ProcessorSettings configures element discovery and source roots.
type ProcessorSettings struct {
	SourceRoots       []string `validate:"min=1,dive,required"`
	AnnotationPackage string   `validate:"required,pkgpath"`
	Include           []string `validate:"min=1"`
	Exclude           []string
}

// MarkerSettings names the marker annotations used by domain discovery.
type MarkerSettings struct {
	Entity string `validate:"required"`
	ID     string `validate:"required"`
}

// ControllerSettings configures the controller generator.
type ControllerSettings struct {
	MappingAnnotation string `validate:"required"`
}

// TypeSettings extends the known-types catalog.
type TypeSettings struct {
	Known []KnownType `validate:"dive"`
}

// JournalSettings configures the run journal.
type JournalSettings struct {
	Backend JournalBackend `validate:"omitempty,oneof=sqlite memory"`
	Path    string
}

// WatchSettings configures the watch loop.
type WatchSettings struct {
	Debounce time.Duration `validate:"gte=0"`
	MaxWait  time.Duration `validate:"gte=0"`
}

// Settings is the complete annlib configuration.
type Settings struct {
	Processor  ProcessorSettings
	Markers    MarkerSettings
	Controller ControllerSettings
	Types      TypeSettings
	Journal    JournalSettings
	Watch      WatchSettings
}

// DefaultSettings returns the configuration used when no file overrides it.
func DefaultSettings() Settings {
	return Settings{
		Processor: ProcessorSettings{
			SourceRoots:       []string{"src", "src/main/java"},
			AnnotationPackage: "application.annotations",
			Include:           []string{"**/*.java"},
			Exclude:           []string{"**/build/**", "**/target/**", "**/.git/**", "**/.annlib/**"},
		},
		Markers: MarkerSettings{
			Entity: "Entity",
			ID:     "Id",
		},
		Controller: ControllerSettings{
			MappingAnnotation: "org.springframework.web.bind.annotation.RequestMapping",
		},
		Journal: JournalSettings{
			Backend: JournalSQLite,
		},
		Watch: WatchSettings{
			Debounce: 300 * time.Millisecond,
			MaxWait:  2 * time.Second,
		},
	}
}

// DefaultKnownTypes returns the framework types resolvable without sources.
func DefaultKnownTypes() []KnownType {
	const data = "org.springframework.data.repository."
	return []KnownType{
		{QualifiedName: data + "Repository", Kind: KindInterface, TypeParams: 2},
		{QualifiedName: data + "CrudRepository", Kind: KindInterface, TypeParams: 2},
		{QualifiedName: data + "ListCrudRepository", Kind: KindInterface, TypeParams: 2},
		{QualifiedName: data + "PagingAndSortingRepository", Kind: KindInterface, TypeParams: 2},
		{QualifiedName: "org.springframework.data.jpa.repository.JpaRepository", Kind: KindInterface, TypeParams: 2},
		{QualifiedName: "org.springframework.data.mongodb.repository.MongoRepository", Kind: KindInterface, TypeParams: 2},
		{QualifiedName: "org.springframework.stereotype.Controller", Kind: KindAnnotation},
		{QualifiedName: "org.springframework.web.bind.annotation.RestController", Kind: KindAnnotation},
		{QualifiedName: "org.springframework.web.bind.annotation.RequestMapping", Kind: KindAnnotation},
		{QualifiedName: "java.lang.Runnable", Kind: KindInterface},
	}
}
