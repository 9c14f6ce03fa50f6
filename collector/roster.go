package collector

import (
	"strings"
	"sync"
	"time"

	"procview/models"
	"procview/snapshot"
)

// excludedNames drops obvious browser/editor/system-utility noise before
// any expensive per-process reads happen.
var excludedNames = []string{
	"code", "git", "vim", "nvim", "emacs", "sublime", "atom",
	"code-helper", "chrome", "firefox", "safari", "slack", "spotify",
	"finder", "dock", "systemuiserver", "windowserver",
}

// systemExePrefixes mark executables that live in system directories.
var systemExePrefixes = []string{"/System/", "/usr/libexec/", "/usr/sbin/"}

// serverKeywords gate the expensive port scan: only processes that might
// actually be listening get their connections enumerated in the user view.
var serverKeywords = []string{
	"python", "node", "npm", "flask", "django", "uvicorn",
	"gunicorn", "streamlit", "gradio", "vite", "webpack",
}

// infrastructureNames re-admit recognizable System-category processes
// into the enhanced view.
var infrastructureNames = []string{"docker", "postgres", "mysql", "redis", "mongo", "elastic"}

// excludedApps are filtered from both views after classification.
var excludedApps = map[string]bool{
	"code": true, "git": true, "vim": true, "nvim": true,
	"emacs": true, "sublime": true, "atom": true,
}

// terminals are shells and terminal emulators used for launch detection.
var terminals = map[string]bool{
	"terminal": true, "iterm2": true, "iterm": true, "alacritty": true,
	"kitty": true, "wezterm": true, "gnome-terminal": true, "konsole": true,
	"xterm": true, "tmux": true, "screen": true,
	"bash": true, "zsh": true, "fish": true, "sh": true, "tcsh": true,
	"ksh": true, "powershell": true, "cmd": true,
}

// Service owns the single-slot roster cache. The mutex covers the slot
// and the recompute together, so concurrent callers can never trigger
// duplicate full-table scans: they block and then observe the fresh entry.
type Service struct {
	provider snapshot.Provider
	ttl      time.Duration

	mu       sync.Mutex
	cached   []models.ClassifiedProcess
	cachedAt time.Time

	now func() time.Time
}

// NewService builds the roster service with the given cache TTL.
func NewService(provider snapshot.Provider, ttl time.Duration) *Service {
	return &Service{provider: provider, ttl: ttl, now: time.Now}
}

// UserProcesses returns the curated roster, cached up to the TTL.
func (s *Service) UserProcesses() ([]models.ClassifiedProcess, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cached != nil && s.now().Sub(s.cachedAt) < s.ttl {
		return s.cached, nil
	}

	cands, err := s.collectCandidates(true, false)
	if err != nil {
		return nil, err
	}
	roster := s.buildRoster(cands, false)
	s.cached = roster
	s.cachedAt = s.now()
	return roster, nil
}

// EnhancedProcesses returns the broader roster. It is recomputed on
// every call; only the curated view is cached.
func (s *Service) EnhancedProcesses() ([]models.ClassifiedProcess, error) {
	cands, err := s.collectCandidates(false, true)
	if err != nil {
		return nil, err
	}
	return s.buildRoster(cands, true), nil
}

// Invalidate clears the cached roster.
func (s *Service) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cached = nil
}

type candidate struct {
	rec          models.ProcessRecord
	fromTerminal bool
}

// collectCandidates enumerates processes and snapshots each into a
// record. A process whose name cannot be read is omitted; any other
// unreadable field is left at its zero value.
func (s *Service) collectCandidates(prefilter, portsForAll bool) ([]candidate, error) {
	procs, err := s.provider.Processes()
	if err != nil {
		return nil, err
	}

	var out []candidate
	for _, p := range procs {
		name, err := p.Name()
		if err != nil {
			continue
		}
		nameLower := strings.ToLower(name)

		if prefilter {
			if containsAny(nameLower, excludedNames) {
				continue
			}
			if exe, err := p.Exe(); err == nil && hasAnyPrefixPart(exe, systemExePrefixes) {
				continue
			}
		}

		checkPorts := portsForAll || containsAny(nameLower, serverKeywords)
		out = append(out, collectRecord(p, name, checkPorts))
	}
	return out, nil
}

func collectRecord(p snapshot.Process, name string, checkPorts bool) candidate {
	rec := models.ProcessRecord{PID: p.PID(), Name: name}

	rec.Cmdline, _ = p.Cmdline()
	if cwd, err := p.Cwd(); err == nil {
		rec.Cwd = cwd
	}
	if exe, err := p.Exe(); err == nil {
		rec.Exe = exe
	}
	if username, err := p.Username(); err == nil {
		rec.Username = username
	}
	if cpu, err := p.CPUPercent(); err == nil {
		rec.CPUPercent = cpu
	}
	if memPct, err := p.MemoryPercent(); err == nil {
		rec.MemoryPercent = float64(memPct)
	}
	if rss, _, err := p.MemoryInfo(); err == nil {
		rec.MemoryMB = float64(rss) / 1024 / 1024
	}
	if threads, err := p.NumThreads(); err == nil {
		rec.NumThreads = threads
	}
	if created, err := p.CreateTime(); err == nil {
		rec.CreateTime = float64(created) / 1000
	}
	if status, err := p.Status(); err == nil {
		rec.Status = status
	}
	if checkPorts {
		if ports, err := p.ListeningPorts(); err == nil {
			rec.Ports = ports
		}
	}

	var parent snapshot.Process
	if pp, err := p.Parent(); err == nil && pp != nil {
		parent = pp
		rec.ParentPID = pp.PID()
		if pname, err := pp.Name(); err == nil {
			rec.ParentName = pname
		}
	}

	return candidate{rec: rec, fromTerminal: launchedFromTerminal(rec, parent)}
}

// launchedFromTerminal checks the parent and grandparent against known
// shells, then falls back to the command itself.
func launchedFromTerminal(rec models.ProcessRecord, parent snapshot.Process) bool {
	if parent != nil {
		if terminals[strings.ToLower(rec.ParentName)] {
			return true
		}
		if gp, err := parent.Parent(); err == nil && gp != nil {
			if gpName, err := gp.Name(); err == nil && terminals[strings.ToLower(gpName)] {
				return true
			}
		}
	}
	if len(rec.Cmdline) > 0 {
		first := strings.ToLower(rec.Cmdline[0])
		for _, shell := range []string{"bash", "zsh", "sh", "python", "node", "ruby"} {
			if strings.Contains(first, shell) {
				return true
			}
		}
	}
	return false
}

// buildRoster classifies and filters the candidates, then resolves
// relationships against the full candidate set.
func (s *Service) buildRoster(cands []candidate, enhanced bool) []models.ClassifiedProcess {
	records := make([]models.ProcessRecord, len(cands))
	for i, c := range cands {
		records[i] = c.rec
	}

	now := float64(s.now().UnixMilli()) / 1000
	roster := make([]models.ClassifiedProcess, 0, len(cands))
	for _, c := range cands {
		cls := Classify(c.rec)
		if !admit(c.rec, cls, enhanced) {
			continue
		}

		cp := models.ClassifiedProcess{
			ProcessRecord:   c.rec,
			Classification:  cls,
			ListeningPorts:  filterWebPorts(c.rec.Ports),
			InUserDirectory: inUserDirectory(c.rec.Cwd),
			FromTerminal:    c.fromTerminal,
		}
		if c.rec.CreateTime > 0 {
			cp.Uptime = formatUptime(now - c.rec.CreateTime)
		}
		cp.RelatedProcesses = FindRelated(cp, records)
		roster = append(roster, cp)
	}
	return roster
}

// admit applies the post-classification view filters. The user view
// drops System/UserProcess/IDE categories plus editors and git; the
// enhanced view re-admits recognizable infrastructure even though its
// category is System.
func admit(rec models.ProcessRecord, cls models.Classification, enhanced bool) bool {
	switch cls.Category {
	case models.CategorySystem, models.CategoryUserProcess, models.CategoryIDE:
		if enhanced && cls.Category == models.CategorySystem &&
			containsAny(strings.ToLower(rec.Name), infrastructureNames) {
			return true
		}
		return false
	}

	app := strings.ToLower(cls.AppName)
	desc := strings.ToLower(cls.Description)
	if excludedApps[app] {
		return false
	}
	if strings.Contains(desc, "visual studio code") {
		return false
	}
	if app == "git" || strings.Contains(desc, "git version control") {
		return false
	}
	return true
}

func hasAnyPrefixPart(path string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if strings.Contains(path, prefix) {
			return true
		}
	}
	return false
}
