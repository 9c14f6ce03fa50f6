// Package snapshot adapts gopsutil into the per-field failable process
// access the rest of the viewer is built on. One unreadable attribute
// must never abort reads of the others, so every accessor returns its
// own error.
package snapshot

import (
	"errors"
	"os"
	"syscall"

	"github.com/shirou/gopsutil/v3/process"

	"procview/models"
)

var (
	ErrNotFound     = errors.New("process not found")
	ErrAccessDenied = errors.New("access denied")
)

// IsNotFound reports whether err means the process no longer exists.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, process.ErrorProcessNotRunning) ||
		errors.Is(err, syscall.ESRCH)
}

// IsAccessDenied reports whether err means the OS refused the read or signal.
func IsAccessDenied(err error) bool {
	return errors.Is(err, ErrAccessDenied) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, syscall.EPERM) ||
		errors.Is(err, syscall.EACCES)
}

// Process is a live process handle. Each accessor is independently failable.
type Process interface {
	PID() int32
	Name() (string, error)
	Cmdline() ([]string, error)
	Cwd() (string, error)
	Exe() (string, error)
	Username() (string, error)
	Parent() (Process, error)
	CPUPercent() (float64, error)
	MemoryPercent() (float32, error)
	MemoryInfo() (rss uint64, vms uint64, err error)
	NumThreads() (int32, error)
	CreateTime() (int64, error)
	Status() (string, error)
	ListeningPorts() ([]int, error)
	Connections() ([]models.ConnectionDetail, error)
	OpenFiles() ([]models.OpenFileDetail, error)
	Terminate() error
	Kill() error
	IsRunning() (bool, error)
}

// Provider enumerates and resolves live processes.
type Provider interface {
	Processes() ([]Process, error)
	Find(pid int32) (Process, error)
}

// New returns the gopsutil-backed provider.
func New() Provider {
	return gopsProvider{}
}

type gopsProvider struct{}

func (gopsProvider) Processes() ([]Process, error) {
	procs, err := process.Processes()
	if err != nil {
		return nil, err
	}
	out := make([]Process, 0, len(procs))
	for _, p := range procs {
		out = append(out, gopsProcess{p})
	}
	return out, nil
}

func (gopsProvider) Find(pid int32) (Process, error) {
	p, err := process.NewProcess(pid)
	if err != nil {
		return nil, ErrNotFound
	}
	return gopsProcess{p}, nil
}

type gopsProcess struct {
	p *process.Process
}

func (g gopsProcess) PID() int32 { return g.p.Pid }

func (g gopsProcess) Name() (string, error) { return g.p.Name() }
func (g gopsProcess) Cmdline() ([]string, error) { return g.p.CmdlineSlice() }
func (g gopsProcess) Cwd() (string, error) { return g.p.Cwd() }
func (g gopsProcess) Exe() (string, error) { return g.p.Exe() }
func (g gopsProcess) Username() (string, error) { return g.p.Username() }

func (g gopsProcess) Parent() (Process, error) {
	parent, err := g.p.Parent()
	if err != nil {
		return nil, err
	}
	return gopsProcess{parent}, nil
}

func (g gopsProcess) CPUPercent() (float64, error) { return g.p.CPUPercent() }

func (g gopsProcess) MemoryPercent() (float32, error) { return g.p.MemoryPercent() }

func (g gopsProcess) MemoryInfo() (uint64, uint64, error) {
	info, err := g.p.MemoryInfo()
	if err != nil {
		return 0, 0, err
	}
	return info.RSS, info.VMS, nil
}

func (g gopsProcess) NumThreads() (int32, error) { return g.p.NumThreads() }
func (g gopsProcess) CreateTime() (int64, error) { return g.p.CreateTime() }

func (g gopsProcess) Status() (string, error) {
	statuses, err := g.p.Status()
	if err != nil {
		return "", err
	}
	if len(statuses) == 0 {
		return "", nil
	}
	return statuses[0], nil
}

func (g gopsProcess) ListeningPorts() ([]int, error) {
	conns, err := g.p.Connections()
	if err != nil {
		return nil, err
	}
	seen := make(map[int]bool)
	var ports []int
	for _, conn := range conns {
		if conn.Status != "LISTEN" {
			continue
		}
		port := int(conn.Laddr.Port)
		if !seen[port] {
			seen[port] = true
			ports = append(ports, port)
		}
	}
	return ports, nil
}

func (g gopsProcess) Connections() ([]models.ConnectionDetail, error) {
	conns, err := g.p.Connections()
	if err != nil {
		return nil, err
	}
	out := make([]models.ConnectionDetail, 0, len(conns))
	for _, conn := range conns {
		out = append(out, models.ConnectionDetail{
			Fd:         conn.Fd,
			Family:     conn.Family,
			Type:       conn.Type,
			LocalAddr:  conn.Laddr.IP,
			LocalPort:  conn.Laddr.Port,
			RemoteAddr: conn.Raddr.IP,
			RemotePort: conn.Raddr.Port,
			Status:     conn.Status,
		})
	}
	return out, nil
}

func (g gopsProcess) OpenFiles() ([]models.OpenFileDetail, error) {
	files, err := g.p.OpenFiles()
	if err != nil {
		return nil, err
	}
	out := make([]models.OpenFileDetail, 0, len(files))
	for _, f := range files {
		out = append(out, models.OpenFileDetail{Path: f.Path, Fd: f.Fd})
	}
	return out, nil
}

func (g gopsProcess) Terminate() error { return g.p.Terminate() }
func (g gopsProcess) Kill() error { return g.p.Kill() }

func (g gopsProcess) IsRunning() (bool, error) { return g.p.IsRunning() }
