// Package scripting runs dice macros inside a restricted GopherLua VM. Scripts
// reach the roller only through the engine.dice table.
package scripting

import (
	"context"
	"sync/atomic"

	lua "github.com/yuin/gopher-lua"
)

// DefaultInstructionLimit applies when scripting.instruction_limit is unset.
const DefaultInstructionLimit = 100_000

// blockedGlobals are base library entries a macro must not reach: file
// loaders, dynamic code loading and the collector.
var blockedGlobals = [...]string{"dofile", "loadfile", "load", "collectgarbage", "require"}

// opBudget counts opcodes through Done, which GopherLua polls once per
// instruction while a context is attached. Spending the last opcode cancels
// the embedded context, and the VM raises on its next poll.
type opBudget struct {
	context.Context
	left atomic.Int64
	stop context.CancelFunc
}

func (b *opBudget) Done() <-chan struct{} {
	if b.left.Add(-1) <= 0 {
		b.stop()
	}
	return b.Context.Done()
}

// armLimit attaches a budget of instLimit opcodes to L, replacing any budget
// already attached. A non-positive instLimit means DefaultInstructionLimit.
//
// Postcondition: the returned release must be called when the run is over;
// afterwards L refuses to execute until re-armed.
func armLimit(L *lua.LState, instLimit int) (release context.CancelFunc) {
	if instLimit <= 0 {
		instLimit = DefaultInstructionLimit
	}
	ctx, cancel := context.WithCancel(context.Background())
	b := &opBudget{Context: ctx, stop: cancel}
	b.left.Store(int64(instLimit))
	L.SetContext(b)
	return cancel
}

// NewSandboxedState returns a VM that has only the base, table, string and
// math libraries, with blockedGlobals removed, and an instLimit opcode budget
// armed.
//
// Postcondition: the caller owns both results. release frees the initial
// budget and must be called before or alongside L.Close.
func NewSandboxedState(instLimit int) (L *lua.LState, release context.CancelFunc) {
	L = lua.NewState(lua.Options{SkipOpenLibs: true})
	for _, open := range []lua.LGFunction{lua.OpenBase, lua.OpenTable, lua.OpenString, lua.OpenMath} {
		open(L)
	}
	for _, name := range blockedGlobals {
		L.SetGlobal(name, lua.LNil)
	}
	return L, armLimit(L, instLimit)
}
