package collector

import (
	"procview/models"
	"procview/snapshot"
)

// Details returns the full drill-down view of one process. Each
// optional field is an independently failable read: a denied exe path
// or open-files listing yields a null/empty field, never an error for
// the whole operation.
func (s *Service) Details(pid int32) (*models.ProcessDetail, error) {
	proc, err := s.provider.Find(pid)
	if err != nil {
		return nil, snapshot.ErrNotFound
	}

	detail := &models.ProcessDetail{
		PID:         pid,
		Cmdline:     []string{},
		Connections: []models.ConnectionDetail{},
		OpenFiles:   []models.OpenFileDetail{},
	}

	name, err := proc.Name()
	if err != nil {
		// Without a name the process has effectively vanished.
		return nil, snapshot.ErrNotFound
	}
	detail.Name = name

	if status, err := proc.Status(); err == nil {
		detail.Status = status
	}
	if username, err := proc.Username(); err == nil {
		detail.Username = username
	}
	if cpu, err := proc.CPUPercent(); err == nil {
		detail.CPUPercent = cpu
	}
	if memPct, err := proc.MemoryPercent(); err == nil {
		detail.MemoryPercent = float64(memPct)
	}
	if rss, vms, err := proc.MemoryInfo(); err == nil {
		detail.MemoryRSS = rss
		detail.MemoryVMS = vms
	}
	if threads, err := proc.NumThreads(); err == nil {
		detail.NumThreads = threads
	}
	if created, err := proc.CreateTime(); err == nil {
		detail.CreateTime = float64(created) / 1000
	}

	if exe, err := proc.Exe(); err == nil {
		detail.Exe = &exe
	}
	if cwd, err := proc.Cwd(); err == nil {
		detail.Cwd = &cwd
	}
	if cmdline, err := proc.Cmdline(); err == nil {
		detail.Cmdline = cmdline
	}
	if conns, err := proc.Connections(); err == nil {
		detail.Connections = conns
	}
	if files, err := proc.OpenFiles(); err == nil {
		detail.OpenFiles = files
	}

	return detail, nil
}
