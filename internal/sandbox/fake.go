package sandbox

import (
	"context"
	"strings"
	"sync"
)

// Fake is a scriptable in-memory sandbox used in tests across the module.
// Commands are matched by substring against registered handlers, files are
// served from the Files map.
type Fake struct {
	Name  string
	Files map[string]string

	mu       sync.Mutex
	handlers []fakeHandler
	Commands []string // every command passed to Exec, in order

	// ExecErr, when set, makes every Exec call fail. Used to verify
	// graceful degradation.
	ExecErr error
}

type fakeHandler struct {
	substr string
	result ExecResult
	err    error
}

// NewFake creates an empty fake sandbox with the given identity.
func NewFake(name string) *Fake {
	return &Fake{Name: name, Files: make(map[string]string)}
}

func (f *Fake) ID() string { return "fake:" + f.Name }

// Handle registers a canned result for any command containing substr.
// Handlers are matched in registration order.
func (f *Fake) Handle(substr string, result ExecResult, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handlers = append(f.handlers, fakeHandler{substr: substr, result: result, err: err})
}

func (f *Fake) Exec(ctx context.Context, command string) (ExecResult, error) {
	if err := ctx.Err(); err != nil {
		return ExecResult{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Commands = append(f.Commands, command)
	if f.ExecErr != nil {
		return ExecResult{}, f.ExecErr
	}
	for _, h := range f.handlers {
		if strings.Contains(command, h.substr) {
			return h.result, h.err
		}
	}
	return ExecResult{}, nil
}

func (f *Fake) ReadFile(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	content, ok := f.Files[path]
	if !ok {
		return "", ErrNotFound
	}
	return content, nil
}
