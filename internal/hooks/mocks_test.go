package hooks

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"sync"
	"testing"
	"time"
)

// mockFileSystem is an in-memory FileSystem. Func fields override the
// map-backed defaults.
type mockFileSystem struct {
	mu    sync.Mutex
	files map[string][]byte
	dirs  map[string]bool

	statFunc      func(name string) (os.FileInfo, error)
	readFileFunc  func(name string) ([]byte, error)
	writeFileFunc func(name string, data []byte, perm os.FileMode) error
	readDirFunc   func(name string) ([]os.DirEntry, error)
	removeFunc    func(name string) error
	tempDirFunc   func() string
}

func newMockFileSystem() *mockFileSystem {
	return &mockFileSystem{files: make(map[string][]byte), dirs: make(map[string]bool)}
}

func (m *mockFileSystem) addFile(name, content string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[filepath.Clean(name)] = []byte(content)
}

func (m *mockFileSystem) addDir(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dirs[filepath.Clean(name)] = true
}

func (m *mockFileSystem) content(name string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.files[filepath.Clean(name)]
	return string(data), ok
}

func (m *mockFileSystem) Stat(name string) (os.FileInfo, error) {
	if m.statFunc != nil {
		return m.statFunc(name)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	clean := filepath.Clean(name)
	if data, ok := m.files[clean]; ok {
		return fakeFileInfo{name: filepath.Base(clean), size: int64(len(data))}, nil
	}
	if m.dirs[clean] {
		return fakeFileInfo{name: filepath.Base(clean), dir: true}, nil
	}
	return nil, &fs.PathError{Op: "stat", Path: name, Err: fs.ErrNotExist}
}

func (m *mockFileSystem) ReadFile(name string) ([]byte, error) {
	if m.readFileFunc != nil {
		return m.readFileFunc(name)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.files[filepath.Clean(name)]
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}
	return bytes.Clone(data), nil
}

func (m *mockFileSystem) WriteFile(name string, data []byte, perm os.FileMode) error {
	if m.writeFileFunc != nil {
		return m.writeFileFunc(name, data, perm)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[filepath.Clean(name)] = bytes.Clone(data)
	return nil
}

func (m *mockFileSystem) ReadDir(name string) ([]os.DirEntry, error) {
	if m.readDirFunc != nil {
		return m.readDirFunc(name)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	dir := filepath.Clean(name)
	var entries []os.DirEntry
	for path := range m.files {
		if filepath.Dir(path) == dir {
			entries = append(entries, fs.FileInfoToDirEntry(fakeFileInfo{name: filepath.Base(path)}))
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })
	return entries, nil
}

func (m *mockFileSystem) Remove(name string) error {
	if m.removeFunc != nil {
		return m.removeFunc(name)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	clean := filepath.Clean(name)
	if _, ok := m.files[clean]; !ok {
		return &fs.PathError{Op: "remove", Path: name, Err: fs.ErrNotExist}
	}
	delete(m.files, clean)
	return nil
}

func (m *mockFileSystem) TempDir() string {
	if m.tempDirFunc != nil {
		return m.tempDirFunc()
	}
	return "/tmp"
}

type fakeFileInfo struct {
	name string
	size int64
	dir  bool
}

func (f fakeFileInfo) Name() string { return f.name }
func (f fakeFileInfo) Size() int64  { return f.size }
func (f fakeFileInfo) Mode() os.FileMode {
	if f.dir {
		return os.ModeDir | 0755
	}
	return 0644
}
func (f fakeFileInfo) ModTime() time.Time { return time.Unix(1700000000, 0) }
func (f fakeFileInfo) IsDir() bool        { return f.dir }
func (f fakeFileInfo) Sys() any           { return nil }

// runCall records one RunContext invocation.
type runCall struct {
	Dir  string
	Name string
	Args []string
}

type mockCommandRunner struct {
	mu    sync.Mutex
	calls []runCall

	runContextFunc func(ctx context.Context, dir, name string, args ...string) (*CommandOutput, error)
	lookPathFunc   func(file string) (string, error)
}

func (m *mockCommandRunner) RunContext(ctx context.Context, dir, name string, args ...string) (*CommandOutput, error) {
	m.mu.Lock()
	m.calls = append(m.calls, runCall{Dir: dir, Name: name, Args: append([]string(nil), args...)})
	m.mu.Unlock()
	if m.runContextFunc != nil {
		return m.runContextFunc(ctx, dir, name, args...)
	}
	return &CommandOutput{}, nil
}

func (m *mockCommandRunner) LookPath(file string) (string, error) {
	if m.lookPathFunc != nil {
		return m.lookPathFunc(file)
	}
	return "/usr/bin/" + file, nil
}

// toolCalls returns the recorded calls that are not --version or git queries.
func (m *mockCommandRunner) toolCalls() []runCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []runCall
	for _, c := range m.calls {
		if c.Name == "git" || (len(c.Args) == 1 && (c.Args[0] == flagVersion || c.Args[0] == "--show-config")) {
			continue
		}
		out = append(out, c)
	}
	return out
}

type mockProcessManager struct {
	getPIDFunc func() int
}

func (m *mockProcessManager) GetPID() int {
	if m.getPIDFunc != nil {
		return m.getPIDFunc()
	}
	return 4242
}

type mockClock struct {
	nowFunc func() time.Time
}

func (m *mockClock) Now() time.Time {
	if m.nowFunc != nil {
		return m.nowFunc()
	}
	return time.Unix(1700000000, 0)
}

type testDependencies struct {
	*Dependencies
	MockFS      *mockFileSystem
	MockRunner  *mockCommandRunner
	MockProcess *mockProcessManager
	MockClock   *mockClock
	StdoutBuf   *bytes.Buffer
	StderrBuf   *bytes.Buffer
}

func createTestDependencies() *testDependencies {
	mockFS := newMockFileSystem()
	mockRunner := &mockCommandRunner{}
	mockProcess := &mockProcessManager{}
	mockClock := &mockClock{}
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	return &testDependencies{
		Dependencies: &Dependencies{
			FS:      mockFS,
			Runner:  mockRunner,
			Process: mockProcess,
			Clock:   mockClock,
			Stdout:  stdout,
			Stderr:  stderr,
		},
		MockFS:      mockFS,
		MockRunner:  mockRunner,
		MockProcess: mockProcess,
		MockClock:   mockClock,
		StdoutBuf:   stdout,
		StderrBuf:   stderr,
	}
}

var (
	exitErrorsMu sync.Mutex
	exitErrors   = map[int]*exec.ExitError{}
)

// exitError returns a genuine *exec.ExitError carrying code.
func exitError(t testing.TB, code int) error {
	t.Helper()
	exitErrorsMu.Lock()
	defer exitErrorsMu.Unlock()
	if e, ok := exitErrors[code]; ok {
		return e
	}
	err := exec.Command("sh", "-c", "exit "+strconv.Itoa(code)).Run() // #nosec G204 - fixed test command
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("expected exit error for code %d, got %v", code, err)
	}
	exitErrors[code] = exitErr
	return exitErr
}

// toolResponse scripts the mock runner: version banner, show-config output,
// git output and a per-file tool response.
type toolResponse struct {
	stdout string
	stderr string
	code   int
}

func scriptRunner(t testing.TB, runner *mockCommandRunner, version string, respond func(args []string) toolResponse) {
	t.Helper()
	runner.runContextFunc = func(_ context.Context, _ string, name string, args ...string) (*CommandOutput, error) {
		var resp toolResponse
		switch {
		case name == "git":
			resp = toolResponse{}
		case len(args) == 1 && args[0] == flagVersion:
			resp = toolResponse{stdout: version}
		case len(args) == 1 && args[0] == "--show-config":
			resp = toolResponse{stdout: "indent_columns = 8\n"}
		default:
			resp = respond(args)
		}
		out := &CommandOutput{Stdout: []byte(resp.stdout), Stderr: []byte(resp.stderr)}
		if resp.code != 0 {
			return out, exitError(t, resp.code)
		}
		return out, nil
	}
}
