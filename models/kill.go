package models

// KillResult reports a single-process termination.
type KillResult struct {
	Success bool   `json:"success"`
	PID     int32  `json:"pid"`
	Error   string `json:"error,omitempty"`
}

// GroupKillResult reports a grouped termination. KilledPIDs is ordered
// with the main pid first; FailedPIDs holds related pids that never
// resolved.
type GroupKillResult struct {
	Success     bool    `json:"success"`
	MainPID     int32   `json:"main_pid"`
	KilledPIDs  []int32 `json:"killed_pids"`
	FailedPIDs  []int32 `json:"failed_pids"`
	TotalKilled int     `json:"total_killed"`
	Error       string  `json:"error,omitempty"`
}
