package roles

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"
)

// Exclusion records a role hidden from the menu because of a blocked permission.
type Exclusion struct {
	Timestamp   time.Time `json:"timestamp"`
	RoleID      string    `json:"roleId"`
	RoleName    string    `json:"roleName"`
	Permissions []string  `json:"permissions"`
}

// ExclusionLog appends exclusions to a file as JSON lines.
type ExclusionLog struct {
	mu   sync.Mutex
	path string
	now  func() time.Time
}

// NewExclusionLog returns a log writing to path. An empty path disables it.
func NewExclusionLog(path string) *ExclusionLog {
	return &ExclusionLog{path: path, now: time.Now}
}

// Record appends one line per exclusion, stamping entries that carry no time.
func (l *ExclusionLog) Record(excluded []Exclusion) error {
	if l == nil || l.path == "" || len(excluded) == 0 {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open role exclusion log: %w", err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	now := l.now().UTC()
	for _, e := range excluded {
		if e.Timestamp.IsZero() {
			e.Timestamp = now
		}
		if e.Permissions == nil {
			e.Permissions = []string{}
		}
		if err := enc.Encode(e); err != nil {
			return fmt.Errorf("write role exclusion log: %w", err)
		}
	}
	return nil
}
