package module

// WebAssembly binary format magic number and version.
const (
	Magic   uint32 = 0x6D736100
	Version uint32 = 0x01
)

// Section IDs used by the encoder. Sections are written in increasing order.
const (
	sectionType     byte = 1
	sectionImport   byte = 2
	sectionFunction byte = 3
	sectionExport   byte = 7
	sectionCode     byte = 10
)

const (
	kindFunc     byte = 0
	funcTypeByte byte = 0x60
)

// ValType is a core value type.
type ValType byte

const (
	I32 ValType = 0x7F
	I64 ValType = 0x7E
)

// FuncType is a function signature.
type FuncType struct {
	Params  []ValType
	Results []ValType
}

// Import is a function import.
type Import struct {
	Module  string
	Name    string
	TypeIdx uint32
}

// Func is a function defined in the module.
type Func struct {
	Locals  []ValType
	Body    []byte
	TypeIdx uint32
}

// Export is a function export.
type Export struct {
	Name    string
	FuncIdx uint32
}

// Module is a core module restricted to function imports, definitions and exports.
// Imported functions occupy the first indices of the function index space.
type Module struct {
	Types   []FuncType
	Imports []Import
	Funcs   []Func
	Exports []Export
}

// Encode encodes the module to WebAssembly binary format.
func (m *Module) Encode() []byte {
	var w writer

	w.u32LE(Magic)
	w.u32LE(Version)

	if len(m.Types) > 0 {
		var sec writer
		sec.u32(uint32(len(m.Types)))
		for _, ft := range m.Types {
			sec.byte(funcTypeByte)
			writeValTypes(&sec, ft.Params)
			writeValTypes(&sec, ft.Results)
		}
		w.section(sectionType, sec.bytes())
	}

	if len(m.Imports) > 0 {
		var sec writer
		sec.u32(uint32(len(m.Imports)))
		for _, imp := range m.Imports {
			sec.name(imp.Module)
			sec.name(imp.Name)
			sec.byte(kindFunc)
			sec.u32(imp.TypeIdx)
		}
		w.section(sectionImport, sec.bytes())
	}

	if len(m.Funcs) > 0 {
		var sec writer
		sec.u32(uint32(len(m.Funcs)))
		for _, f := range m.Funcs {
			sec.u32(f.TypeIdx)
		}
		w.section(sectionFunction, sec.bytes())
	}

	if len(m.Exports) > 0 {
		var sec writer
		sec.u32(uint32(len(m.Exports)))
		for _, exp := range m.Exports {
			sec.name(exp.Name)
			sec.byte(kindFunc)
			sec.u32(exp.FuncIdx)
		}
		w.section(sectionExport, sec.bytes())
	}

	if len(m.Funcs) > 0 {
		var sec writer
		sec.u32(uint32(len(m.Funcs)))
		for _, f := range m.Funcs {
			body := encodeBody(f)
			sec.u32(uint32(len(body)))
			sec.write(body)
		}
		w.section(sectionCode, sec.bytes())
	}

	return w.bytes()
}

// FuncIndex returns the function index of the i-th defined function.
func (m *Module) FuncIndex(i int) uint32 {
	return uint32(len(m.Imports) + i)
}

func writeValTypes(w *writer, types []ValType) {
	w.u32(uint32(len(types)))
	for _, t := range types {
		w.byte(byte(t))
	}
}

// encodeBody writes the locals vector, grouping runs of equal types, followed by the code.
func encodeBody(f Func) []byte {
	type group struct {
		n   uint32
		typ ValType
	}
	var groups []group
	for _, l := range f.Locals {
		if len(groups) > 0 && groups[len(groups)-1].typ == l {
			groups[len(groups)-1].n++
			continue
		}
		groups = append(groups, group{n: 1, typ: l})
	}

	var w writer
	w.u32(uint32(len(groups)))
	for _, g := range groups {
		w.u32(g.n)
		w.byte(byte(g.typ))
	}
	w.write(f.Body)
	return w.bytes()
}
