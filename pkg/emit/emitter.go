// Package emit writes the textual VM program, one instruction per line,
// and hands out fresh jump labels. It is a pure formatter: calls append
// text in order, nothing is buffered or reordered, and write errors are
// not reported (the checker has already accepted the program by the time
// anything is emitted).
package emit

import (
	"fmt"
	"io"
	"strings"
)

// Emitter is a stateful sink for VM instructions. The fresh-label counter
// belongs to the Emitter, so determinism is per compilation.
type Emitter struct {
	w      io.Writer
	labels int
}

// New returns an Emitter writing to w.
func New(w io.Writer) *Emitter {
	return &Emitter{w: w}
}

// Fresh returns a label unused in this emission.
func (e *Emitter) Fresh() string {
	l := fmt.Sprintf("lbl%d", e.labels)
	e.labels++
	return l
}

var escaper = strings.NewReplacer(
	"\\", "\\\\",
	"\"", "\\\"",
	"\n", "\\n",
	"\t", "\\t",
)

func (e *Emitter) op(format string, args ...interface{}) {
	fmt.Fprintf(e.w, format+"\n", args...)
}

// Label defines a jump target. The VM encodes label definitions as a NOP.
func (e *Emitter) Label(name string) { e.op("%s: NOP", name) }

// Comment writes a line the VM ignores.
func (e *Emitter) Comment(text string) { e.op("-- %s", text) }

func (e *Emitter) Nop()           { e.op("NOP") }
func (e *Emitter) Err(s string)   { e.op("ERR \"%s\"", escaper.Replace(s)) }
func (e *Emitter) Start()         { e.op("START") }
func (e *Emitter) Stop()          { e.op("STOP") }
func (e *Emitter) Pushi(n int)    { e.op("PUSHI %d", n) }
func (e *Emitter) Pushs(s string) { e.op("PUSHS \"%s\"", escaper.Replace(s)) }
func (e *Emitter) Pushg(n int)    { e.op("PUSHG %d", n) }
func (e *Emitter) Pushl(n int)    { e.op("PUSHL %d", n) }
func (e *Emitter) Pushsp()        { e.op("PUSHSP") }
func (e *Emitter) Pushfp(n int)   { e.op("PUSHFP %d", n) }
func (e *Emitter) Storel(n int)   { e.op("STOREL %d", n) }
func (e *Emitter) Storeg(n int)   { e.op("STOREG %d", n) }
func (e *Emitter) Pushn(n int)    { e.op("PUSHN %d", n) }
func (e *Emitter) Popn(n int)     { e.op("POPN %d", n) }
func (e *Emitter) Dupn(n int)     { e.op("DUPN %d", n) }
func (e *Emitter) Swap()          { e.op("SWAP") }
func (e *Emitter) Equal()         { e.op("EQUAL") }
func (e *Emitter) Not()           { e.op("NOT") }
func (e *Emitter) Inf()           { e.op("INF") }
func (e *Emitter) Infeq()         { e.op("INFEQ") }
func (e *Emitter) Sup()           { e.op("SUP") }
func (e *Emitter) Supeq()         { e.op("SUPEQ") }
func (e *Emitter) Add()           { e.op("ADD") }
func (e *Emitter) Sub()           { e.op("SUB") }
func (e *Emitter) Mul()           { e.op("MUL") }
func (e *Emitter) Div()           { e.op("DIV") }
func (e *Emitter) Concat()        { e.op("CONCAT") }
func (e *Emitter) Str()           { e.op("STR") }
func (e *Emitter) Writei()        { e.op("WRITEI") }
func (e *Emitter) Writes()        { e.op("WRITES") }
func (e *Emitter) Jump(l string)  { e.op("JUMP %s", l) }
func (e *Emitter) Jz(l string)    { e.op("JZ %s", l) }
func (e *Emitter) Pusha(l string) { e.op("PUSHA %s", l) }
func (e *Emitter) Call()          { e.op("CALL") }
func (e *Emitter) Return()        { e.op("RETURN") }
func (e *Emitter) Store(n int)    { e.op("STORE %d", n) }
func (e *Emitter) Load(n int)     { e.op("LOAD %d", n) }
func (e *Emitter) Alloc(n int)    { e.op("ALLOC %d", n) }
