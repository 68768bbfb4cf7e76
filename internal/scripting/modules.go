package scripting

import (
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/diceroll/internal/dice"
)

// RegisterModules registers all engine.* Lua tables into L.
//
// Precondition: L must be from NewSandboxedState.
// Postcondition: engine global is defined in L with dice and log sub-tables.
func (m *Manager) RegisterModules(L *lua.LState) {
	engine := L.NewTable()
	L.SetField(engine, "dice", m.diceModule(L))
	L.SetField(engine, "log", m.logModule(L))
	L.SetGlobal("engine", engine)
}

// diceModule exposes:
//
//	engine.dice.roll(notation)                  -> aggregate table
//	engine.dice.roll_group(count, sides[, mod]) -> group table | nil, message
func (m *Manager) diceModule(L *lua.LState) *lua.LTable {
	return L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"roll": func(L *lua.LState) int {
			agg := m.roller.RollAll(L.CheckString(1))
			L.Push(aggregateTable(L, agg))
			return 1
		},
		"roll_group": func(L *lua.LState) int {
			count := L.CheckInt(1)
			sides := L.CheckInt(2)
			modifier := L.OptInt(3, 0)
			out, err := m.roller.RollGroup(count, sides, modifier)
			if err != nil {
				L.Push(lua.LNil)
				L.Push(lua.LString(err.Error()))
				return 2
			}
			L.Push(outcomeTable(L, out))
			return 1
		},
	})
}

func (m *Manager) logModule(L *lua.LState) *lua.LTable {
	logFn := func(write func(string, ...zap.Field)) lua.LGFunction {
		return func(L *lua.LState) int {
			write(L.CheckString(1), zap.String("source", "lua"))
			return 0
		}
	}
	return L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"debug": logFn(m.logger.Debug),
		"info":  logFn(m.logger.Info),
		"warn":  logFn(m.logger.Warn),
		"error": logFn(m.logger.Error),
	})
}

func aggregateTable(L *lua.LState, agg dice.AggregateOutcome) *lua.LTable {
	t := L.NewTable()
	t.RawSetString("total", lua.LNumber(agg.Total))
	t.RawSetString("display", lua.LString(agg.String()))

	groups := L.NewTable()
	for _, o := range agg.Outcomes {
		groups.Append(outcomeTable(L, o))
	}
	t.RawSetString("groups", groups)

	skipped := L.NewTable()
	for _, s := range agg.Skipped {
		entry := L.NewTable()
		entry.RawSetString("token", lua.LString(s.Token))
		entry.RawSetString("reason", lua.LString(s.Err.Error()))
		skipped.Append(entry)
	}
	t.RawSetString("skipped", skipped)
	return t
}

func outcomeTable(L *lua.LState, o dice.RollOutcome) *lua.LTable {
	t := L.NewTable()
	t.RawSetString("notation", lua.LString(o.Notation()))
	t.RawSetString("display", lua.LString(o.String()))
	t.RawSetString("total", lua.LNumber(o.Total))
	t.RawSetString("count", lua.LNumber(o.NumDice))
	t.RawSetString("sides", lua.LNumber(o.Sides))
	t.RawSetString("modifier", lua.LNumber(o.Modifier))
	t.RawSetString("rolls", intList(L, o.Rolls))
	t.RawSetString("selected", intList(L, o.SelectedRolls))
	return t
}

func intList(L *lua.LState, values []int) *lua.LTable {
	t := L.CreateTable(len(values), 0)
	for _, v := range values {
		t.Append(lua.LNumber(v))
	}
	return t
}
