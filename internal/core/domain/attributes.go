package domain

// ValueKind classifies an annotation attribute value.
type ValueKind int

// Attribute value kinds.
const (
	ValueString ValueKind = iota
	ValueBool
	ValueNumber
	ValueClass
	ValueArray
	ValueOther
)

// AttributeValue is one attribute value read off an annotation usage.
// Class literals are kept unresolved in Class until the generator asks the
// element host to resolve them.
type AttributeValue struct {
	Kind  ValueKind
	Str   string
	Bool  bool
	Class string
	Elems []AttributeValue
	Text  string
	Pos   Position
}

// AttributeSet holds the explicitly written attributes of one annotation usage.
type AttributeSet map[string]AttributeValue

// Has reports whether the attribute was written.
func (s AttributeSet) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// SingletonAttributes configures the singleton generator.
type SingletonAttributes struct {
	Name       string `validate:"required,javaident"`
	MethodName string `validate:"required,javaident,ne=createSingletonInstance"`
	ThreadSafe bool
	InitFields []string `validate:"unique,dive,javaident"`
}

// DefaultSingletonAttributes returns the annotation defaults.
func DefaultSingletonAttributes() SingletonAttributes {
	return SingletonAttributes{
		Name:       "INSTANCE",
		MethodName: "getInstance",
		ThreadSafe: true,
	}
}

// ThreadTemplateAttributes configures the thread-template generator.
type ThreadTemplateAttributes struct {
	ThreadName    string
	DoBeforeStart bool
	DoAfterStop   bool
}

// DefaultThreadTemplateAttributes returns the annotation defaults.
func DefaultThreadTemplateAttributes() ThreadTemplateAttributes {
	return ThreadTemplateAttributes{}
}

// RepositoryAttributes configures the repository generator.
// RepositoryInterface is the class literal as written.
type RepositoryAttributes struct {
	DomainPackagePath     string `validate:"required,pkgpath"`
	RepositoryPackagePath string `validate:"required,pkgpath"`
	RepositorySuffix      string `validate:"required,suffix"`
	RepositoryInterface   string `validate:"required"`
}

// DefaultRepositoryAttributes returns the annotation defaults.
func DefaultRepositoryAttributes() RepositoryAttributes {
	return RepositoryAttributes{
		RepositoryPackagePath: "repositories",
		RepositorySuffix:      "Repo",
	}
}

// ControllerAttributes configures the controller generator.
// ControllerAnnotation lists class literals as written.
type ControllerAttributes struct {
	DomainPackagePath     string   `validate:"required,pkgpath"`
	ControllerPackagePath string   `validate:"required,pkgpath"`
	ControllerSuffix      string   `validate:"required,suffix"`
	ControllerAnnotation  []string `validate:"min=1,dive,required"`
}

// DefaultControllerAttributes returns the annotation defaults.
func DefaultControllerAttributes() ControllerAttributes {
	return ControllerAttributes{
		ControllerPackagePath: "controllers",
		ControllerSuffix:      "Controller",
	}
}
