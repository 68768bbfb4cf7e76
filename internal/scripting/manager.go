package scripting

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/diceroll/internal/dice"
)

// ErrNoMacro is returned by Call when the named function is not defined by
// any loaded script.
var ErrNoMacro = errors.New("scripting: macro not defined")

// Manager owns the sandboxed LState holding loaded macro scripts and runs
// ad-hoc chunks in throwaway VMs.
//
// Manager is safe for concurrent use. Calls into the macro VM are
// serialized; Eval never touches it.
type Manager struct {
	mu        sync.Mutex
	macros    *lua.LState
	roller    *dice.Roller
	logger    *zap.Logger
	instLimit int
}

// NewManager creates a Manager whose scripts roll through roller.
//
// Precondition: roller and logger must be non-nil; instLimit >= 0
// (0 selects DefaultInstructionLimit).
// Postcondition: Returns a non-nil Manager with no macros loaded.
func NewManager(roller *dice.Roller, logger *zap.Logger, instLimit int) *Manager {
	if roller == nil {
		panic("scripting: NewManager requires a non-nil roller")
	}
	if logger == nil {
		panic("scripting: NewManager requires a non-nil logger")
	}
	return &Manager{roller: roller, logger: logger, instLimit: instLimit}
}

// LoadDir creates a fresh macro VM, registers all engine.* modules, then
// executes every *.lua file in scriptDir in lexicographic order. A
// previously loaded VM is replaced only when every file loads.
//
// Precondition: scriptDir must be a readable directory.
// Postcondition: Macro VM is replaced; returns error on Lua load failure.
func (m *Manager) LoadDir(scriptDir string) error {
	L, release := NewSandboxedState(m.instLimit)
	defer release()
	m.RegisterModules(L)

	entries, err := os.ReadDir(scriptDir)
	if err != nil {
		L.Close()
		return fmt.Errorf("scripting: reading script dir %q: %w", scriptDir, err)
	}

	var luaFiles []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".lua" {
			luaFiles = append(luaFiles, filepath.Join(scriptDir, e.Name()))
		}
	}
	sort.Strings(luaFiles)

	for _, path := range luaFiles {
		rearm := armLimit(L, m.instLimit)
		err := L.DoFile(path)
		rearm()
		if err != nil {
			L.Close()
			return fmt.Errorf("scripting: loading %q: %w", path, err)
		}
	}

	m.mu.Lock()
	if m.macros != nil {
		m.macros.Close()
	}
	m.macros = L
	m.mu.Unlock()

	m.logger.Debug("scripting: macros loaded",
		zap.String("dir", scriptDir),
		zap.Int("files", len(luaFiles)),
	)
	return nil
}

// Call invokes the named global function defined by the loaded scripts
// with a fresh instruction budget. Lua runtime errors are logged at Warn
// level and returned.
//
// Precondition: args must be valid lua.LValue instances.
// Postcondition: Returns the first return value of the macro, or an error
// wrapping ErrNoMacro when it is not defined.
func (m *Manager) Call(name string, args ...lua.LValue) (lua.LValue, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.macros == nil {
		return lua.LNil, fmt.Errorf("%w: %q (no scripts loaded)", ErrNoMacro, name)
	}
	fn := m.macros.GetGlobal(name)
	if fn.Type() != lua.LTFunction {
		return lua.LNil, fmt.Errorf("%w: %q", ErrNoMacro, name)
	}

	cancel := armLimit(m.macros, m.instLimit)
	defer cancel()
	return m.protectedCall(m.macros, fn, name, args...)
}

// Eval runs chunk in a new sandboxed VM with all engine.* modules and
// returns the chunk's first return value (LNil when it returns nothing).
//
// Postcondition: The VM is closed before Eval returns.
func (m *Manager) Eval(chunk string) (lua.LValue, error) {
	L, release := NewSandboxedState(m.instLimit)
	defer L.Close()
	defer release()
	m.RegisterModules(L)

	fn, err := L.LoadString(chunk)
	if err != nil {
		return lua.LNil, fmt.Errorf("scripting: compiling chunk: %w", err)
	}
	return m.protectedCall(L, fn, "<chunk>")
}

// Close releases the macro VM. Subsequent Calls fail with ErrNoMacro.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.macros != nil {
		m.macros.Close()
		m.macros = nil
	}
}

func (m *Manager) protectedCall(L *lua.LState, fn lua.LValue, name string, args ...lua.LValue) (lua.LValue, error) {
	if err := L.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, args...); err != nil {
		m.logger.Warn("scripting: Lua runtime error",
			zap.String("function", name),
			zap.Error(err),
		)
		return lua.LNil, fmt.Errorf("scripting: running %s: %w", name, err)
	}
	ret := L.Get(-1)
	L.Pop(1)
	return ret, nil
}
