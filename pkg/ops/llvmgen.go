package ops

import (
	"fmt"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
)

// IR is the result of lowering an ops instruction buffer to LLVM IR. It's
// the same shape as the teacher's own IR interface: anything that can
// render itself as textual LLVM IR.
type IR interface {
	fmt.Stringer
}

// llvmOperand mirrors the VM's own Value union one level up: either an
// already-materialized SSA value, or a deferred variable name that the
// consuming instruction decides whether to load or to treat as an lvalue.
// This is the same "name rides the stack, resolved on use" design the VM
// uses, lifted to build SSA values instead of executing directly.
type llvmOperand struct {
	isName bool
	name   string
	val    value.Value
}

// llvmBuilder walks a frozen instruction buffer once and builds a single
// LLVM function whose body is the straight-line (plus branches) translation
// of the postfix stream. Grounded in the teacher's LLVMIRBuilder, adapted
// from an AST walk to a postfix-stream walk, and simplified to a single
// uniform numeric type (double) rather than tracking int/float per
// variable — see DESIGN.md for why.
type llvmBuilder struct {
	mod    *ir.Module
	fn     *ir.Func
	block  *ir.Block
	printf *ir.Func
	scanf  *ir.Func

	code    []Instruction
	allocas map[string]*ir.InstAlloca
	labels  map[string]*ir.Block
	stack   []llvmOperand
}

// Lower translates a frozen ops instruction buffer into an LLVM module
// containing a single `main` function.
func Lower(code []Instruction) (IR, error) {
	b := &llvmBuilder{
		mod:     ir.NewModule(),
		code:    code,
		allocas: make(map[string]*ir.InstAlloca),
		labels:  make(map[string]*ir.Block),
	}

	b.declareRuntime()

	b.fn = b.mod.NewFunc("main", types.I32)
	b.block = b.fn.NewBlock("entry")

	for i, ins := range code {
		if err := b.step(ins, i); err != nil {
			return nil, err
		}
	}

	if b.block.Term == nil {
		b.block.NewRet(constant.NewInt(types.I32, 0))
	}

	return b.mod, nil
}

func (b *llvmBuilder) declareRuntime() {
	printf := b.mod.NewFunc("printf", types.I32, ir.NewParam("format", types.I8Ptr))
	printf.Sig.Variadic = true
	b.printf = printf

	scanf := b.mod.NewFunc("scanf", types.I32, ir.NewParam("format", types.I8Ptr))
	scanf.Sig.Variadic = true
	b.scanf = scanf
}

// cstring declares a private, null-terminated global for a format string
// and returns a pointer to its first byte.
func (b *llvmBuilder) cstring(name, text string) value.Value {
	withNUL := text + "\x00"
	data := constant.NewCharArrayFromString(withNUL)
	glob := b.mod.NewGlobalDef(name, data)

	zero := constant.NewInt(types.I32, 0)
	arrType := types.NewArray(uint64(len(withNUL)), types.I8)
	return constant.NewGetElementPtr(arrType, glob, zero, zero)
}

func (b *llvmBuilder) varAddr(name string) *ir.InstAlloca {
	if a, ok := b.allocas[name]; ok {
		return a
	}

	a := b.fn.Blocks[0].NewAlloca(types.Double)
	a.SetName(name)
	b.fn.Blocks[0].Insts = append([]ir.Instruction{a}, b.fn.Blocks[0].Insts...)
	b.allocas[name] = a
	return a
}

// blockFor returns the block a label resolves to, creating it if this is
// the first reference.
func (b *llvmBuilder) blockFor(label string) *ir.Block {
	if blk, ok := b.labels[label]; ok {
		return blk
	}
	blk := b.fn.NewBlock(label)
	b.labels[label] = blk
	return blk
}

func (b *llvmBuilder) push(v llvmOperand) { b.stack = append(b.stack, v) }

func (b *llvmBuilder) pop() (llvmOperand, error) {
	if len(b.stack) == 0 {
		return llvmOperand{}, fmt.Errorf("llvmgen: operand stack underflow")
	}
	v := b.stack[len(b.stack)-1]
	b.stack = b.stack[:len(b.stack)-1]
	return v, nil
}

// load materializes an operand as an SSA double, issuing a Load if it was
// a deferred variable name.
func (b *llvmBuilder) load(v llvmOperand) value.Value {
	if !v.isName {
		return v.val
	}
	addr := b.varAddr(v.name)
	return b.block.NewLoad(types.Double, addr)
}

func (b *llvmBuilder) step(ins Instruction, idx int) error {
	switch ins.Op {
	case PushInt:
		b.push(llvmOperand{val: constant.NewFloat(types.Double, float64(ins.IntVal))})
	case PushFloat:
		b.push(llvmOperand{val: constant.NewFloat(types.Double, ins.FloatVal)})
	case PushName:
		b.push(llvmOperand{isName: true, name: ins.Name})

	case Add, Sub, Mul, Div:
		rhs, err := b.pop()
		if err != nil {
			return err
		}
		lhs, err := b.pop()
		if err != nil {
			return err
		}
		x, y := b.load(lhs), b.load(rhs)

		var result value.Value
		switch ins.Op {
		case Add:
			result = b.block.NewFAdd(x, y)
		case Sub:
			result = b.block.NewFSub(x, y)
		case Mul:
			result = b.block.NewFMul(x, y)
		case Div:
			result = b.block.NewFDiv(x, y)
		}
		b.push(llvmOperand{val: result})

	case Lt, Le, Gt, Ge, Eq, Ne:
		rhs, err := b.pop()
		if err != nil {
			return err
		}
		lhs, err := b.pop()
		if err != nil {
			return err
		}
		x, y := b.load(lhs), b.load(rhs)

		pred := map[Opcode]enum.FPred{
			Lt: enum.FPredOLT, Le: enum.FPredOLE,
			Gt: enum.FPredOGT, Ge: enum.FPredOGE,
			Eq: enum.FPredOEQ, Ne: enum.FPredONE,
		}[ins.Op]

		cmp := b.block.NewFCmp(pred, x, y)
		asDouble := b.block.NewUIToFP(cmp, types.Double)
		b.push(llvmOperand{val: asDouble})

	case Assign:
		target, err := b.pop()
		if err != nil {
			return err
		}
		if !target.isName {
			return fmt.Errorf("llvmgen: Assign target is not a name at instruction %d", idx)
		}
		rhs, err := b.pop()
		if err != nil {
			return err
		}
		b.block.NewStore(b.load(rhs), b.varAddr(target.name))

	case Read:
		target, err := b.pop()
		if err != nil {
			return err
		}
		if !target.isName {
			return fmt.Errorf("llvmgen: Read target is not a name at instruction %d", idx)
		}
		fmtStr := b.cstring(fmt.Sprintf(".read_fmt.%d", idx), "%lf")
		b.block.NewCall(b.scanf, fmtStr, b.varAddr(target.name))

	case Print:
		val, err := b.pop()
		if err != nil {
			return err
		}
		fmtStr := b.cstring(fmt.Sprintf(".print_fmt.%d", idx), "%g\n")
		b.block.NewCall(b.printf, fmtStr, b.load(val))

	case LabelDef:
		target := b.blockFor(ins.Label)
		if b.block.Term == nil {
			b.block.NewBr(target)
		}
		b.block = target

	case LabelRef:
		// Carries no code-generation effect of its own; the following
		// Jmp/JumpIfFalse reads ins.Label directly from the buffer.

	case Jmp:
		label, err := b.refAt(idx)
		if err != nil {
			return err
		}
		b.block.NewBr(b.blockFor(label))
		b.block = b.fn.NewBlock(fmt.Sprintf("after.%d", idx))

	case JumpIfFalse:
		cond, err := b.pop()
		if err != nil {
			return err
		}
		falseVal := b.load(cond)
		isTrue := b.block.NewFCmp(enum.FPredONE, falseVal, constant.NewFloat(types.Double, 0))

		label, err := b.refAt(idx)
		if err != nil {
			return err
		}
		target := b.blockFor(label)
		fallthroughBlk := b.fn.NewBlock(fmt.Sprintf("cont.%d", idx))
		b.block.NewCondBr(isTrue, fallthroughBlk, target)
		b.block = fallthroughBlk
	}

	return nil
}

// refAt returns the label carried by the LabelRef that must immediately
// precede the Jmp/JumpIfFalse at idx, mirroring the VM's own
// precedingLabel check.
func (b *llvmBuilder) refAt(idx int) (string, error) {
	if idx == 0 || b.code[idx-1].Op != LabelRef {
		return "", fmt.Errorf("llvmgen: jump at instruction %d not preceded by a LabelRef", idx)
	}
	return b.code[idx-1].Label, nil
}
