package models

// Category classifies a process into a human-meaningful application group.
type Category string

const (
	CategorySystem      Category = "System"
	CategoryUserProcess Category = "User Process"
	CategoryDevTool     Category = "Development Tool"
	CategoryPython      Category = "Python Application"
	CategoryNode        Category = "Node.js Application"
	CategoryRuby        Category = "Ruby Application"
	CategoryContainer   Category = "Container"
	CategoryVersionCtrl Category = "Version Control"
	CategoryDatabase    Category = "Database"
	CategoryIDE         Category = "Development IDE"
)

// ProcessRecord is the raw snapshot of one process. Optional fields that
// could not be read are left at their zero value.
type ProcessRecord struct {
	PID           int32    `json:"pid"`
	Name          string   `json:"name"`
	Cmdline       []string `json:"cmdline"`
	Cwd           string   `json:"cwd,omitempty"`
	Exe           string   `json:"exe,omitempty"`
	Username      string   `json:"username"`
	ParentPID     int32    `json:"parent_pid,omitempty"`
	ParentName    string   `json:"parent_name,omitempty"`
	CPUPercent    float64  `json:"cpu_percent"`
	MemoryPercent float64  `json:"memory_percent"`
	MemoryMB      float64  `json:"memory_mb"`
	NumThreads    int32    `json:"num_threads"`
	CreateTime    float64  `json:"create_time"`
	Status        string   `json:"status"`
	Ports         []int    `json:"-"`
}

// Classification is the semantic identity derived from a ProcessRecord.
type Classification struct {
	Category      Category `json:"category"`
	AppName       string   `json:"app_name"`
	Description   string   `json:"description"`
	IsUserProcess bool     `json:"is_user_process"`
}

// RelatedProcess summarizes a process that belongs to the same logical
// unit as its subject (helper, package manager, bundler, worker).
type RelatedProcess struct {
	PID        int32    `json:"pid"`
	Name       string   `json:"name"`
	Type       string   `json:"type"`
	CPUPercent float64  `json:"cpu_percent"`
	MemoryMB   float64  `json:"memory_mb"`
	Cmdline    []string `json:"cmdline"`
}

// ClassifiedProcess is a roster entry: the raw record plus its
// classification, relationships and port/context annotations.
type ClassifiedProcess struct {
	ProcessRecord
	Classification
	ListeningPorts   []int            `json:"listening_ports"`
	InUserDirectory  bool             `json:"in_user_directory"`
	FromTerminal     bool             `json:"from_terminal"`
	Uptime           string           `json:"uptime"`
	RelatedProcesses []RelatedProcess `json:"related_processes"`
}

// ConnectionDetail describes one socket of a process.
type ConnectionDetail struct {
	Fd         uint32 `json:"fd"`
	Family     uint32 `json:"family"`
	Type       uint32 `json:"type"`
	LocalAddr  string `json:"local_addr"`
	LocalPort  uint32 `json:"local_port"`
	RemoteAddr string `json:"remote_addr,omitempty"`
	RemotePort uint32 `json:"remote_port,omitempty"`
	Status     string `json:"status"`
}

// OpenFileDetail describes one open file of a process.
type OpenFileDetail struct {
	Path string `json:"path"`
	Fd   uint64 `json:"fd"`
}

// ProcessDetail is the full drill-down view of one process. Pointer and
// slice fields stay nil when the underlying read was denied.
type ProcessDetail struct {
	PID           int32              `json:"pid"`
	Name          string             `json:"name"`
	Status        string             `json:"status"`
	Username      string             `json:"username"`
	CPUPercent    float64            `json:"cpu_percent"`
	MemoryPercent float64            `json:"memory_percent"`
	MemoryRSS     uint64             `json:"memory_rss"`
	MemoryVMS     uint64             `json:"memory_vms"`
	NumThreads    int32              `json:"num_threads"`
	CreateTime    float64            `json:"create_time"`
	Exe           *string            `json:"exe"`
	Cwd           *string            `json:"cwd"`
	Cmdline       []string           `json:"cmdline"`
	Connections   []ConnectionDetail `json:"connections"`
	OpenFiles     []OpenFileDetail   `json:"open_files"`
}
