package config

import (
	lua "github.com/yuin/gopher-lua"
)

// callStackSize bounds recursion depth of manifest code.
const callStackSize = 256

// sandboxLuaVM removes every global that reaches outside the VM:
// process control and environment (os), files (io), code loading
// (require, dofile, loadfile, load, loadstring) and introspection (debug).
func sandboxLuaVM(L *lua.LState) {
	L.SetGlobal("os", lua.LNil)
	L.SetGlobal("io", lua.LNil)

	L.SetGlobal("require", lua.LNil)
	L.SetGlobal("dofile", lua.LNil)
	L.SetGlobal("loadfile", lua.LNil)
	L.SetGlobal("load", lua.LNil)
	L.SetGlobal("loadstring", lua.LNil)

	L.SetGlobal("debug", lua.LNil)
}

// newSandboxedVM creates a Lua VM for evaluating a manifest.
func newSandboxedVM() *lua.LState {
	L := lua.NewState(lua.Options{
		CallStackSize: callStackSize,
	})
	sandboxLuaVM(L)
	return L
}
