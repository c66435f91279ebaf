package model

// AnalysisResult lists every targeted escape-hatch annotation of one file.
type AnalysisResult struct {
	Path        Path
	Hash        string
	Occurrences []Occurrence
	Total       int
}

// FixChange is a single span replacement in the original text.
type FixChange struct {
	Start       int
	End         int
	Line        int
	Column      int
	Original    string
	Replacement string
}

// FixResult describes a rewrite of one file.
type FixResult struct {
	Path       Path
	Changes    []FixChange
	DryRun     bool
	Applied    bool
	BackupPath Path
	Diff       string
}

// PropOrigin records where a prop's type came from.
type PropOrigin string

// Prop origins.
const (
	OriginDeclared     PropOrigin = "declared"
	OriginUsage        PropOrigin = "usage"
	OriginDestructured PropOrigin = "destructured"
	OriginDefault      PropOrigin = "default"
	OriginName         PropOrigin = "name"
	OriginPlaceholder  PropOrigin = "placeholder"
)

// PropDescriptor is one field of a reconstructed props interface.
type PropDescriptor struct {
	Name        string
	Type        string
	Required    bool
	Description string
	Origin      PropOrigin
}

// InterfaceResult is the reconstructed props interface of a component.
type InterfaceResult struct {
	Path          Path
	Component     string
	InterfaceName string
	Props         []PropDescriptor
	Declaration   string
}

// CacheEntry wraps a cached payload with its creation time in unix nanoseconds.
type CacheEntry[T any] struct {
	CreatedAt int64
	Payload   T
}
