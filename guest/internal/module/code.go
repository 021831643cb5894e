package module

// Instruction opcodes used by Code.
const (
	opCall     byte = 0x10
	opLocalGet byte = 0x20
	opLocalSet byte = 0x21
	opEnd      byte = 0x0B
)

// Code assembles a function body.
type Code struct {
	w writer
}

// LocalGet pushes local idx.
func (c *Code) LocalGet(idx uint32) *Code {
	c.w.byte(opLocalGet)
	c.w.u32(idx)
	return c
}

// LocalSet pops into local idx.
func (c *Code) LocalSet(idx uint32) *Code {
	c.w.byte(opLocalSet)
	c.w.u32(idx)
	return c
}

// Call calls function idx.
func (c *Code) Call(idx uint32) *Code {
	c.w.byte(opCall)
	c.w.u32(idx)
	return c
}

// End terminates the body and returns the encoded instructions.
func (c *Code) End() []byte {
	c.w.byte(opEnd)
	return c.w.bytes()
}
