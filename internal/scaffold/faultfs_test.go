package scaffold

import (
	"os"
	"sync"

	"github.com/spf13/afero"
)

// faultFs wraps an afero.Fs, records mutating calls, and fails the ones
// listed in failMkdir / failWrite.
type faultFs struct {
	afero.Fs

	mu        sync.Mutex
	calls     []string
	failMkdir map[string]error
	failWrite map[string]error
}

func newFaultFs() *faultFs {
	return &faultFs{
		Fs:        afero.NewMemMapFs(),
		failMkdir: map[string]error{},
		failWrite: map[string]error{},
	}
}

func (f *faultFs) record(call string) {
	f.mu.Lock()
	f.calls = append(f.calls, call)
	f.mu.Unlock()
}

func (f *faultFs) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *faultFs) Mkdir(name string, perm os.FileMode) error {
	f.record("mkdir " + name)
	if err, ok := f.failMkdir[name]; ok {
		return &os.PathError{Op: "mkdir", Path: name, Err: err}
	}
	return f.Fs.Mkdir(name, perm)
}

func (f *faultFs) OpenFile(name string, flag int, perm os.FileMode) (afero.File, error) {
	if flag&(os.O_WRONLY|os.O_RDWR|os.O_CREATE) != 0 {
		f.record("write " + name)
		if err, ok := f.failWrite[name]; ok {
			return nil, &os.PathError{Op: "open", Path: name, Err: err}
		}
	}
	return f.Fs.OpenFile(name, flag, perm)
}
