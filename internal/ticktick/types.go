package ticktick

// Task status values used by the TickTick API.
const (
	StatusIncomplete = 0
	StatusCompleted  = 2
)

// Task priority values used by the TickTick API.
const (
	PriorityNone   = 0
	PriorityHigh   = 1
	PriorityMedium = 3
	PriorityLow    = 5
)

// Task represents a TickTick task. Field names follow the upstream wire
// format so tasks round-trip through the API unchanged.
type Task struct {
	ID            string   `json:"id,omitempty"`
	ProjectID     string   `json:"projectId,omitempty"`
	Title         string   `json:"title"`
	Content       string   `json:"content,omitempty"`
	Desc          string   `json:"desc,omitempty"`
	StartDate     string   `json:"startDate,omitempty"`
	DueDate       string   `json:"dueDate,omitempty"`
	TimeZone      string   `json:"timeZone,omitempty"`
	IsAllDay      bool     `json:"isAllDay,omitempty"`
	Priority      int      `json:"priority"`
	Status        int      `json:"status"`
	Tags          []string `json:"tags,omitempty"`
	CreatedTime   string   `json:"createdTime,omitempty"`
	ModifiedTime  string   `json:"modifiedTime,omitempty"`
	CompletedTime string   `json:"completedTime,omitempty"`
	SortOrder     int64    `json:"sortOrder,omitempty"`
}

// Project represents a TickTick project (list).
type Project struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Color     string `json:"color,omitempty"`
	GroupID   string `json:"groupId,omitempty"`
	Closed    bool   `json:"closed,omitempty"`
	Kind      string `json:"kind,omitempty"`
	SortOrder int64  `json:"sortOrder,omitempty"`
}

// Tag represents a TickTick tag.
type Tag struct {
	Name      string `json:"name"`
	Label     string `json:"label,omitempty"`
	Color     string `json:"color,omitempty"`
	SortOrder int64  `json:"sortOrder,omitempty"`
}

// State is the synced account state returned by the batch check endpoint.
type State struct {
	InboxID  string
	Tasks    []Task
	Projects []Project
	Tags     []Tag
}

// TaskInput holds the mutable fields for creating or updating a task.
// Zero values mean "leave unset" (create) or "keep existing" (update);
// Priority and Status use pointers so that 0 is expressible.
type TaskInput struct {
	Title     string
	Content   string
	DueDate   string
	ProjectID string
	Tags      []string
	Priority  *int
	Status    *int
}

// priorityNames maps the priority names accepted by the tool surface onto
// API values. The numeric mapping is the one the upstream service uses.
var priorityNames = map[string]int{
	"none":   PriorityNone,
	"high":   PriorityHigh,
	"medium": PriorityMedium,
	"low":    PriorityLow,
}

// ParsePriority maps a priority name (none, low, medium, high) to its API
// value. The second return value reports whether the name was recognized.
func ParsePriority(name string) (int, bool) {
	v, ok := priorityNames[name]
	return v, ok
}

// ValidPriority reports whether the numeric priority is one the API accepts.
func ValidPriority(p int) bool {
	switch p {
	case PriorityNone, PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

// ParseStatus maps a status name (completed, incomplete) to its API value.
func ParseStatus(name string) (int, bool) {
	switch name {
	case "completed":
		return StatusCompleted, true
	case "incomplete":
		return StatusIncomplete, true
	}
	return 0, false
}

// IsCompleted reports whether the task is in the completed state.
func (t *Task) IsCompleted() bool {
	return t.Status == StatusCompleted
}

// HasTag reports whether the task carries the given tag.
func (t *Task) HasTag(tag string) bool {
	for _, have := range t.Tags {
		if have == tag {
			return true
		}
	}
	return false
}
