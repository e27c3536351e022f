package ops

import "fmt"

// Opcode identifies the operation an Instruction performs.
type Opcode int

const (
	PushInt Opcode = iota
	PushFloat
	PushName

	Add
	Sub
	Mul
	Div

	Lt
	Le
	Gt
	Ge
	Eq
	Ne

	Assign

	Read
	Print

	Jmp
	JumpIfFalse

	LabelDef
	LabelRef
)

func (o Opcode) String() string {
	switch o {
	case PushInt:
		return "PushInt"
	case PushFloat:
		return "PushFloat"
	case PushName:
		return "PushName"
	case Add:
		return "Add"
	case Sub:
		return "Sub"
	case Mul:
		return "Mul"
	case Div:
		return "Div"
	case Lt:
		return "Lt"
	case Le:
		return "Le"
	case Gt:
		return "Gt"
	case Ge:
		return "Ge"
	case Eq:
		return "Eq"
	case Ne:
		return "Ne"
	case Assign:
		return "Assign"
	case Read:
		return "Read"
	case Print:
		return "Print"
	case Jmp:
		return "Jmp"
	case JumpIfFalse:
		return "JumpIfFalse"
	case LabelDef:
		return "LabelDef"
	case LabelRef:
		return "LabelRef"
	default:
		return "Unknown"
	}
}

// Instruction is one entry of the postfix intermediate form the parser
// emits and the VM consumes. Only the field relevant to Op is meaningful;
// the rest are zero.
type Instruction struct {
	Op Opcode

	IntVal   int64
	FloatVal float64
	Name     string // PushName (which also supplies Assign and Read targets)
	Label    string // LabelDef, LabelRef
}

// String renders an instruction for diagnostic display, e.g. in the step
// debugger's instruction panel.
func (ins Instruction) String() string {
	switch ins.Op {
	case PushInt:
		return fmt.Sprintf("PushInt %d", ins.IntVal)
	case PushFloat:
		return fmt.Sprintf("PushFloat %g", ins.FloatVal)
	case PushName:
		return fmt.Sprintf("PushName %s", ins.Name)
	case LabelDef, LabelRef:
		return fmt.Sprintf("%s %s", ins.Op, ins.Label)
	default:
		return ins.Op.String()
	}
}

func pushInt(v int64) Instruction      { return Instruction{Op: PushInt, IntVal: v} }
func pushFloat(v float64) Instruction  { return Instruction{Op: PushFloat, FloatVal: v} }
func pushName(name string) Instruction { return Instruction{Op: PushName, Name: name} }
func labelDef(id string) Instruction   { return Instruction{Op: LabelDef, Label: id} }
func labelRef(id string) Instruction   { return Instruction{Op: LabelRef, Label: id} }
func op(code Opcode) Instruction       { return Instruction{Op: code} }
