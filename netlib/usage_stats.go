package netlib

import (
	"encoding/json"
	"sync"
	"time"
)

// UsageStats tracks how a provider behaves over the lifetime of the
// process. In one-shot mode it is mostly useful for JSON reports, in
// monitor mode it accumulates across runs.
type UsageStats struct {
	Name string

	mutex        sync.Mutex
	lastUsed     time.Time
	lastError    string
	successCount uint64
	failureCount uint64
}

func (u *UsageStats) Used(err error) {
	now := time.Now()

	u.mutex.Lock()
	defer u.mutex.Unlock()

	u.lastUsed = now

	if err == nil {
		u.successCount++
		u.lastError = ""
	} else {
		u.failureCount++
		u.lastError = err.Error()
	}
}

func (u *UsageStats) Counts() (uint64, uint64) {
	u.mutex.Lock()
	defer u.mutex.Unlock()

	return u.successCount, u.failureCount
}

func (u *UsageStats) MarshalJSON() ([]byte, error) {
	var lastUsedTime int64

	u.mutex.Lock()

	if !u.lastUsed.IsZero() {
		lastUsedTime = u.lastUsed.Unix()
	}

	rawStruct := struct {
		Name         string `json:"name"`
		LastUsed     int64  `json:"last_used"`
		LastError    string `json:"last_error,omitempty"`
		SuccessCount uint64 `json:"success_count"`
		FailureCount uint64 `json:"failure_count"`
	}{
		Name:         u.Name,
		LastUsed:     lastUsedTime,
		LastError:    u.lastError,
		SuccessCount: u.successCount,
		FailureCount: u.failureCount,
	}

	u.mutex.Unlock()

	return json.Marshal(&rawStruct)
}
