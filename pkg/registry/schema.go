// pkg/registry/schema.go
package registry

// ActivityRegistry is the catalogue of task types the worker manager can
// serve, kept in configs/activity-registry.json.
type ActivityRegistry struct {
	Version     string     `json:"version"`
	LastUpdated string     `json:"lastUpdated"`
	Activities  []Activity `json:"activities"`
}

// Activity describes one job type: its variables, failure codes and the
// gateway routes that reach it.
type Activity struct {
	ID                   string               `json:"id"`
	DisplayName          string               `json:"displayName"`
	Description          string               `json:"description"`
	Category             string               `json:"category"`
	Version              string               `json:"version"`
	TaskType             string               `json:"taskType"`
	ImplementationStatus string               `json:"implementationStatus"`
	InputSchema          map[string]FieldSpec `json:"inputSchema"`
	OutputSchema         map[string]FieldSpec `json:"outputSchema"`
	ErrorCodes           []string             `json:"errorCodes"`
	Timeout              string               `json:"timeout"`
	Retries              int                  `json:"retries"`
	Routes               []string             `json:"routes"`
	Tags                 []string             `json:"tags"`
}

// FieldSpec is one job variable. Type is a JSON type name.
type FieldSpec struct {
	Type        string `json:"type"`
	Required    bool   `json:"required,omitempty"`
	Description string `json:"description,omitempty"`
}

const (
	StatusPlanned    = "planned"
	StatusInProgress = "in-progress"
	StatusCompleted  = "completed"
	StatusVerified   = "verified"
)

var validStatuses = map[string]bool{
	StatusPlanned:    true,
	StatusInProgress: true,
	StatusCompleted:  true,
	StatusVerified:   true,
}

var jsonTypes = map[string]bool{
	"string": true, "integer": true, "number": true,
	"boolean": true, "object": true, "array": true,
}
