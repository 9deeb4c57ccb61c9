package agent

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/dop251/goja"
	"github.com/dop251/goja_nodejs/console"
	"github.com/dop251/goja_nodejs/require"
)

//go:embed scripts
var embedded embed.FS

const embedPrefix = "embed:"

// Scripts returns the file system holding the bundled agent scripts.
func Scripts() fs.FS {
	sub, err := fs.Sub(embedded, "scripts")
	if err != nil {
		panic(err)
	}

	return sub
}

// ScriptLLM answers prompts by calling the global generate(prompt, model)
// function of a JavaScript program. Modules loaded with require are
// resolved from the file system the script was loaded from.
type ScriptLLM struct {
	model string

	l        sync.Mutex
	vm       *goja.Runtime
	generate goja.Callable
}

// LoadScriptLLM loads a script either from the bundled scripts, using
// "embed:<name>", or from a path on disk.
func LoadScriptLLM(location, model string) (*ScriptLLM, error) {
	if name, ok := strings.CutPrefix(location, embedPrefix); ok {
		root := Scripts()

		src, err := fs.ReadFile(root, name)
		if err != nil {
			return nil, fmt.Errorf("failed to read bundled script %q: %w", name, err)
		}

		return NewScriptLLM(name, string(src), root, model)
	}

	src, err := os.ReadFile(location)
	if err != nil {
		return nil, fmt.Errorf("failed to read script: %w", err)
	}

	return NewScriptLLM(filepath.Base(location), string(src), os.DirFS(filepath.Dir(location)), model)
}

func NewScriptLLM(name, source string, modules fs.FS, model string) (*ScriptLLM, error) {
	registry := require.NewRegistryWithLoader(func(p string) ([]byte, error) {
		return sourceLoader(modules, p)
	})
	registry.RegisterNativeModule(console.ModuleName, console.RequireWithPrinter(printer{script: name}))

	vm := goja.New()
	registry.Enable(vm)
	console.Enable(vm)

	// an absolute name keeps relative requires such as "./util" apart from
	// the native modules of the same name
	if _, err := vm.RunScript("/"+strings.TrimPrefix(name, "/"), source); err != nil {
		return nil, fmt.Errorf("failed to evaluate script %q: %w", name, err)
	}

	fn, ok := goja.AssertFunction(vm.Get("generate"))
	if !ok {
		return nil, fmt.Errorf("script %q does not define a generate function", name)
	}

	return &ScriptLLM{
		model:    model,
		vm:       vm,
		generate: fn,
	}, nil
}

func (s *ScriptLLM) Generate(ctx context.Context, prompt string) (string, error) {
	s.l.Lock()
	defer s.l.Unlock()

	if err := ctx.Err(); err != nil {
		return "", err
	}

	interrupted := make(chan struct{})
	stop := context.AfterFunc(ctx, func() {
		s.vm.Interrupt(ctx.Err())
		close(interrupted)
	})
	defer func() {
		// a late interrupt must not leak into the next call
		if !stop() {
			<-interrupted
		}
		s.vm.ClearInterrupt()
	}()

	res, err := s.generate(goja.Undefined(), s.vm.ToValue(prompt), s.vm.ToValue(s.model))
	if err != nil {
		var interrupted *goja.InterruptedError
		if errors.As(err, &interrupted) && ctx.Err() != nil {
			return "", ctx.Err()
		}

		return "", fmt.Errorf("script failed: %w", err)
	}

	return res.String(), nil
}

var _ LLM = (*ScriptLLM)(nil)

type printer struct {
	script string
}

func (p printer) Log(msg string)   { slog.Info(msg, "script", p.script) }
func (p printer) Warn(msg string)  { slog.Warn(msg, "script", p.script) }
func (p printer) Error(msg string) { slog.Error(msg, "script", p.script) }

func sourceLoader(root fs.FS, filename string) ([]byte, error) {
	name := strings.TrimPrefix(path.Clean("/"+filename), "/")

	f, err := root.Open(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrInvalid) {
			err = require.ModuleFileDoesNotExistError
		}

		return nil, err
	}
	defer f.Close()

	// reading a directory does not reliably fail, so stat first
	if fi, err := f.Stat(); err == nil {
		if fi.IsDir() {
			return nil, require.ModuleFileDoesNotExistError
		}
	} else {
		return nil, err
	}

	return io.ReadAll(f)
}
