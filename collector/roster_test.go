package collector

import (
	"reflect"
	"sync"
	"testing"
	"time"

	"procview/models"
	"procview/snapshot"
)

type fakeProc struct {
	pid      int32
	name     string
	nameErr  error
	cmdline  []string
	cwd      string
	cwdErr   error
	exe      string
	exeErr   error
	username string
	parent   *fakeProc
	cpu      float64
	memPct   float32
	rss      uint64
	vms      uint64
	threads  int32
	created  int64
	status   string
	ports    []int
	portsErr error
	conns    []models.ConnectionDetail
	connsErr error
	files    []models.OpenFileDetail
	filesErr error
	running  bool
}

func (f *fakeProc) PID() int32 { return f.pid }
func (f *fakeProc) Name() (string, error) { return f.name, f.nameErr }
func (f *fakeProc) Cmdline() ([]string, error) { return f.cmdline, nil }
func (f *fakeProc) Cwd() (string, error) { return f.cwd, f.cwdErr }
func (f *fakeProc) Exe() (string, error) { return f.exe, f.exeErr }
func (f *fakeProc) Username() (string, error) { return f.username, nil }
func (f *fakeProc) CPUPercent() (float64, error) { return f.cpu, nil }
func (f *fakeProc) MemoryPercent() (float32, error) { return f.memPct, nil }
func (f *fakeProc) MemoryInfo() (uint64, uint64, error) { return f.rss, f.vms, nil }
func (f *fakeProc) NumThreads() (int32, error) { return f.threads, nil }
func (f *fakeProc) CreateTime() (int64, error) { return f.created, nil }
func (f *fakeProc) Status() (string, error) { return f.status, nil }
func (f *fakeProc) ListeningPorts() ([]int, error) { return f.ports, f.portsErr }
func (f *fakeProc) Terminate() error { return nil }
func (f *fakeProc) Kill() error { return nil }
func (f *fakeProc) IsRunning() (bool, error) { return f.running, nil }

func (f *fakeProc) Parent() (snapshot.Process, error) {
	if f.parent == nil {
		return nil, snapshot.ErrNotFound
	}
	return f.parent, nil
}

func (f *fakeProc) Connections() ([]models.ConnectionDetail, error) {
	return f.conns, f.connsErr
}

func (f *fakeProc) OpenFiles() ([]models.OpenFileDetail, error) {
	return f.files, f.filesErr
}

type fakeProvider struct {
	mu    sync.Mutex
	procs []*fakeProc
	calls int
	delay time.Duration
}

func (f *fakeProvider) Processes() ([]snapshot.Process, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	out := make([]snapshot.Process, len(f.procs))
	for i, p := range f.procs {
		out[i] = p
	}
	return out, nil
}

func (f *fakeProvider) Find(pid int32) (snapshot.Process, error) {
	for _, p := range f.procs {
		if p.pid == pid {
			return p, nil
		}
	}
	return nil, snapshot.ErrNotFound
}

func (f *fakeProvider) enumerations() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func devProvider() *fakeProvider {
	return &fakeProvider{procs: []*fakeProc{
		{pid: 100, name: "python3", cmdline: []string{"python3", "manage.py", "runserver"},
			cwd: "/home/alice/siteproj", ports: []int{8000, 49152}, created: 1000, rss: 64 << 20},
		{pid: 101, name: "node", cmdline: []string{"node", "/home/alice/siteproj/node_modules/.bin/vite"},
			cwd: "/home/alice/siteproj", created: 2000},
		{pid: 200, name: "chrome", cmdline: []string{"chrome"}},
		{pid: 201, name: "systemd", cmdline: []string{"/sbin/init"}, exe: "/usr/sbin/init"},
		{pid: 202, name: "mongod", cmdline: []string{"mongod", "--config", "/etc/mongod.conf"}},
	}}
}

func newTestService(provider *fakeProvider) *Service {
	return NewService(provider, 5*time.Second)
}

func TestUserRosterFiltersAndRelates(t *testing.T) {
	service := newTestService(devProvider())
	roster, err := service.UserProcesses()
	if err != nil {
		t.Fatalf("UserProcesses: %v", err)
	}

	byPID := map[int32]models.ClassifiedProcess{}
	for _, p := range roster {
		byPID[p.PID] = p
	}

	django, ok := byPID[100]
	if !ok {
		t.Fatalf("django process missing from roster: %+v", roster)
	}
	if django.Category != models.CategoryPython {
		t.Fatalf("category = %q, want %q", django.Category, models.CategoryPython)
	}
	if want := []int{8000}; !reflect.DeepEqual(django.ListeningPorts, want) {
		t.Fatalf("listening ports = %v, want %v (ephemeral filtered)", django.ListeningPorts, want)
	}
	if !django.InUserDirectory {
		t.Fatal("expected in_user_directory")
	}
	if len(django.RelatedProcesses) != 1 || django.RelatedProcesses[0].PID != 101 {
		t.Fatalf("related = %+v, want the vite process", django.RelatedProcesses)
	}

	for _, pid := range []int32{200, 201, 202} {
		if _, ok := byPID[pid]; ok {
			t.Fatalf("pid %d should have been filtered from the user view", pid)
		}
	}
}

func TestUserRosterSelfExclusion(t *testing.T) {
	service := newTestService(devProvider())
	roster, err := service.UserProcesses()
	if err != nil {
		t.Fatalf("UserProcesses: %v", err)
	}
	for _, p := range roster {
		for _, rel := range p.RelatedProcesses {
			if rel.PID == p.PID {
				t.Fatalf("pid %d lists itself as related", p.PID)
			}
		}
	}
}

func TestUserRosterCachedWithinTTL(t *testing.T) {
	provider := devProvider()
	service := newTestService(provider)

	current := time.Unix(10_000, 0)
	service.now = func() time.Time { return current }

	first, err := service.UserProcesses()
	if err != nil {
		t.Fatalf("UserProcesses: %v", err)
	}
	current = current.Add(2 * time.Second)
	second, err := service.UserProcesses()
	if err != nil {
		t.Fatalf("UserProcesses: %v", err)
	}

	if provider.enumerations() != 1 {
		t.Fatalf("enumerations = %d, want 1 within the TTL", provider.enumerations())
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatal("cached roster differs between calls inside the TTL window")
	}

	current = current.Add(10 * time.Second)
	if _, err := service.UserProcesses(); err != nil {
		t.Fatalf("UserProcesses: %v", err)
	}
	if provider.enumerations() != 2 {
		t.Fatalf("enumerations = %d, want 2 after expiry", provider.enumerations())
	}
}

func TestInvalidateDropsCache(t *testing.T) {
	provider := devProvider()
	service := newTestService(provider)

	if _, err := service.UserProcesses(); err != nil {
		t.Fatalf("UserProcesses: %v", err)
	}
	service.Invalidate()
	if _, err := service.UserProcesses(); err != nil {
		t.Fatalf("UserProcesses: %v", err)
	}
	if provider.enumerations() != 2 {
		t.Fatalf("enumerations = %d, want 2 after invalidation", provider.enumerations())
	}
}

func TestSingleRecomputeUnderConcurrency(t *testing.T) {
	provider := devProvider()
	provider.delay = 50 * time.Millisecond
	service := newTestService(provider)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := service.UserProcesses(); err != nil {
				t.Errorf("UserProcesses: %v", err)
			}
		}()
	}
	wg.Wait()

	if provider.enumerations() != 1 {
		t.Fatalf("enumerations = %d, want exactly 1 concurrent recompute", provider.enumerations())
	}
}

func TestEnhancedRosterUncachedAndReadmitsInfrastructure(t *testing.T) {
	provider := devProvider()
	service := newTestService(provider)

	roster, err := service.EnhancedProcesses()
	if err != nil {
		t.Fatalf("EnhancedProcesses: %v", err)
	}
	if _, err := service.EnhancedProcesses(); err != nil {
		t.Fatalf("EnhancedProcesses: %v", err)
	}
	if provider.enumerations() != 2 {
		t.Fatalf("enumerations = %d, want 2: the enhanced view is never cached", provider.enumerations())
	}

	found := map[int32]models.Category{}
	for _, p := range roster {
		found[p.PID] = p.Category
	}
	if cat, ok := found[202]; !ok || cat != models.CategorySystem {
		t.Fatalf("mongod should be re-admitted as System infrastructure, got %v", found)
	}
	if _, ok := found[200]; ok {
		t.Fatal("chrome must stay excluded even in the enhanced view")
	}
	if _, ok := found[201]; ok {
		t.Fatal("systemd must stay excluded in the enhanced view")
	}
}

func TestDetailsDegradesPerField(t *testing.T) {
	provider := &fakeProvider{procs: []*fakeProc{{
		pid:      300,
		name:     "python3",
		cmdline:  []string{"python3", "api.py"},
		exeErr:   snapshot.ErrAccessDenied,
		cwd:      "/home/alice/api",
		filesErr: snapshot.ErrAccessDenied,
		conns: []models.ConnectionDetail{
			{LocalAddr: "127.0.0.1", LocalPort: 8000, Status: "LISTEN"},
		},
		rss: 10 << 20, vms: 40 << 20, threads: 4, created: 5000,
	}}}
	service := newTestService(provider)

	detail, err := service.Details(300)
	if err != nil {
		t.Fatalf("Details: %v", err)
	}
	if detail.Exe != nil {
		t.Fatalf("exe should be null when denied, got %q", *detail.Exe)
	}
	if detail.Cwd == nil || *detail.Cwd != "/home/alice/api" {
		t.Fatalf("cwd = %v, want /home/alice/api", detail.Cwd)
	}
	if len(detail.OpenFiles) != 0 {
		t.Fatalf("open files should degrade to empty, got %v", detail.OpenFiles)
	}
	if len(detail.Connections) != 1 {
		t.Fatalf("connections = %v, want the listening socket", detail.Connections)
	}
	if detail.MemoryRSS != 10<<20 || detail.MemoryVMS != 40<<20 {
		t.Fatalf("memory info not populated: %+v", detail)
	}
}

func TestDetailsNotFound(t *testing.T) {
	service := newTestService(&fakeProvider{})
	if _, err := service.Details(9999); !snapshot.IsNotFound(err) {
		t.Fatalf("err = %v, want not-found", err)
	}
}

func TestFilterWebPorts(t *testing.T) {
	got := filterWebPorts([]int{49152, 8000, 3000, 6543, 8050, 12345, 8000})
	want := []int{3000, 8000, 8050}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("filterWebPorts = %v, want %v", got, want)
	}
}

func TestFormatUptime(t *testing.T) {
	tests := map[float64]string{
		37:     "37s",
		312:    "5m 12s",
		11040:  "3h 4m",
		180000: "2d 2h",
	}
	for seconds, want := range tests {
		if got := formatUptime(seconds); got != want {
			t.Fatalf("formatUptime(%v) = %q, want %q", seconds, got, want)
		}
	}
}
