// Package registry describes the Zeebe job types this module serves. The
// catalogue is served on /activities and synced to a JSON file for the
// process modellers.
package registry

// Domains an activity can belong to.
const (
	DomainEstimate = "estimate"
	DomainCosting  = "costing"
)

type ActivityRegistry struct {
	Version     string     `json:"version"`
	GeneratedAt string     `json:"generatedAt"`
	Activities  []Activity `json:"activities"`
}

// Activity is one job type. ID is the worker name and the key of its
// workers.<id> configuration block.
type Activity struct {
	ID          string                 `json:"id"`
	DisplayName string                 `json:"displayName"`
	Description string                 `json:"description"`
	Domain      string                 `json:"domain"`
	Version     string                 `json:"version"`
	TaskType    string                 `json:"taskType"`
	InputSchema map[string]interface{} `json:"inputSchema"`
	Errors      []ActivityError        `json:"errors"`
	TimeoutMs   int64                  `json:"timeoutMs"`
	MaxRetries  int                    `json:"maxRetries"`
}

// ActivityError is a failure the activity can raise, keyed by the BPMN error
// code a boundary event catches.
type ActivityError struct {
	Code      string `json:"code"`
	BPMNCode  string `json:"bpmnCode"`
	Retryable bool   `json:"retryable"`
	Retries   int    `json:"retries,omitempty"`
}

// BPMNCodes lists the distinct BPMN codes of a in declaration order.
func (a Activity) BPMNCodes() []string {
	seen := make(map[string]bool, len(a.Errors))
	var out []string
	for _, e := range a.Errors {
		if !seen[e.BPMNCode] {
			seen[e.BPMNCode] = true
			out = append(out, e.BPMNCode)
		}
	}
	return out
}
