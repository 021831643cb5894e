package guest

import "github.com/wippyai/sides/guest/internal/module"

// Names of the host module and its functions imported by the guest.
const (
	HostModule       = "sides"
	HostThingNumber  = "thing_number"
	HostThingDestroy = "thing_destroy"
	HostReport       = "report"

	// ExportConsume is the guest entry point taking a handle.
	ExportConsume = "consume"
)

const (
	typeHandleToI32 uint32 = iota // (i32) -> i32
	typeHandle                    // (i32) -> ()
	typeHandleI32                 // (i32, i32) -> ()
)

const (
	funcThingNumber uint32 = iota
	funcThingDestroy
	funcReport
)

// program builds the guest module. consume(handle) dispatches number on the
// handle, reports the result, and, when destroy is set, ends the object's
// lifetime through thing_destroy.
func program(destroy bool) []byte {
	m := &module.Module{
		Types: []module.FuncType{
			typeHandleToI32: {Params: []module.ValType{module.I32}, Results: []module.ValType{module.I32}},
			typeHandle:      {Params: []module.ValType{module.I32}},
			typeHandleI32:   {Params: []module.ValType{module.I32, module.I32}},
		},
		Imports: []module.Import{
			funcThingNumber:  {Module: HostModule, Name: HostThingNumber, TypeIdx: typeHandleToI32},
			funcThingDestroy: {Module: HostModule, Name: HostThingDestroy, TypeIdx: typeHandle},
			funcReport:       {Module: HostModule, Name: HostReport, TypeIdx: typeHandleI32},
		},
	}

	// local 0 is the handle parameter, local 1 holds the number
	code := new(module.Code).
		LocalGet(0).
		Call(funcThingNumber).
		LocalSet(1).
		LocalGet(0).
		LocalGet(1).
		Call(funcReport)
	if destroy {
		code.LocalGet(0).Call(funcThingDestroy)
	}

	m.Funcs = []module.Func{{
		TypeIdx: typeHandle,
		Locals:  []module.ValType{module.I32},
		Body:    code.End(),
	}}
	m.Exports = []module.Export{{Name: ExportConsume, FuncIdx: m.FuncIndex(0)}}

	return m.Encode()
}
