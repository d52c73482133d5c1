// Package ssadriver runs the alias domain over the registers of a Go SSA
// function. It is a demonstration consumer: one AliasDomain per basic
// block, a transfer function covering the value-preserving instructions,
// and joins where control flow merges. It makes the domain observable on
// real code; it is not an optimizer pass.
package ssadriver

import (
	"go/constant"

	"github.com/BarrensZeppelin/aliased"
	"github.com/BarrensZeppelin/aliased/internal/queue"
	"golang.org/x/tools/go/ssa"
)

// Result holds the per-block alias states computed for one function.
type Result struct {
	out map[*ssa.BasicBlock]aliased.AliasDomain

	regs    map[ssa.Value]aliased.Register
	byReg   map[aliased.Register]ssa.Value
	strings map[string]*aliased.StringConstant
}

// Run analyses fn to a fixpoint and returns the alias state at the exit of
// every basic block.
func Run(fn *ssa.Function) *Result {
	r := &Result{
		out:     make(map[*ssa.BasicBlock]aliased.AliasDomain),
		regs:    make(map[ssa.Value]aliased.Register),
		byReg:   make(map[aliased.Register]ssa.Value),
		strings: make(map[string]*aliased.StringConstant),
	}

	for _, b := range fn.Blocks {
		r.out[b] = aliased.Bottom()
	}

	var work queue.Queue[*ssa.BasicBlock]
	inWork := make(map[*ssa.BasicBlock]bool)
	if len(fn.Blocks) > 0 {
		work.Push(fn.Blocks[0])
		inWork[fn.Blocks[0]] = true
	}

	for !work.Empty() {
		b := work.Pop()
		inWork[b] = false

		in := r.inState(b)
		r.transfer(b, &in)

		old := r.out[b]
		if old.Equals(&in) {
			continue
		}
		r.out[b] = in

		for _, succ := range b.Succs {
			if !inWork[succ] {
				work.Push(succ)
				inWork[succ] = true
			}
		}
	}

	return r
}

// inState joins the exit states of b's predecessors. The entry block starts
// from Top; a block whose predecessors were all unreached stays Bottom
// until one of them is.
func (r *Result) inState(b *ssa.BasicBlock) aliased.AliasDomain {
	if len(b.Preds) == 0 {
		return aliased.Top()
	}

	in := aliased.Bottom()
	for _, pred := range b.Preds {
		p := r.out[pred]
		in.JoinWith(&p)
	}
	return in
}

func (r *Result) transfer(b *ssa.BasicBlock, dom *aliased.AliasDomain) {
	for _, insn := range b.Instrs {
		v, ok := insn.(ssa.Value)
		if !ok {
			continue
		}

		dst := aliased.MakeRegister(r.register(v))

		// Defining a register invalidates whatever it was aliased to.
		dom.Update(func(ar *aliased.AliasedRegisters) {
			ar.BreakAlias(dst)
		})

		if src, ok := r.copySource(v); ok {
			dom.Update(func(ar *aliased.AliasedRegisters) {
				ar.Move(dst, src)
			})
		}
	}
}

// copySource returns the location v provably copies, if any: the operand of
// a value-preserving conversion, or the constant identity a constant
// operand carries.
func (r *Result) copySource(v ssa.Value) (aliased.Value, bool) {
	var x ssa.Value
	switch v := v.(type) {
	case *ssa.ChangeType:
		x = v.X
	case *ssa.ChangeInterface:
		x = v.X
	case *ssa.SliceToArrayPointer:
		x = v.X
	case *ssa.Phi:
		// A φ with one incoming edge is a plain copy.
		if len(v.Edges) != 1 {
			return aliased.Value{}, false
		}
		x = v.Edges[0]
	default:
		return aliased.Value{}, false
	}

	if c, ok := x.(*ssa.Const); ok {
		return r.constValue(c)
	}
	return aliased.MakeRegister(r.register(x)), true
}

func (r *Result) constValue(c *ssa.Const) (aliased.Value, bool) {
	if c.Value == nil {
		return aliased.Value{}, false
	}

	switch c.Value.Kind() {
	case constant.Int:
		if i, exact := constant.Int64Val(c.Value); exact {
			return aliased.MakeLiteral(i), true
		}
	case constant.String:
		s := constant.StringVal(c.Value)
		sc, ok := r.strings[s]
		if !ok {
			sc = &aliased.StringConstant{Value: s}
			r.strings[s] = sc
		}
		return aliased.MakeString(sc), true
	}
	return aliased.Value{}, false
}

// register returns the virtual register id assigned to v, allocating one on
// first use.
func (r *Result) register(v ssa.Value) aliased.Register {
	if reg, ok := r.regs[v]; ok {
		return reg
	}

	reg := aliased.Register(len(r.regs))
	r.regs[v] = reg
	r.byReg[reg] = v
	return reg
}

// Out returns the alias state at the exit of b.
func (r *Result) Out(b *ssa.BasicBlock) aliased.AliasDomain {
	return r.out[b]
}

// RegisterOf returns the register id assigned to v during the analysis.
func (r *Result) RegisterOf(v ssa.Value) (aliased.Register, bool) {
	reg, ok := r.regs[v]
	return reg, ok
}

// GroupsAt renders the alias groups at the exit of b with SSA value names
// substituted for register ids. Empty when the state is Top or Bottom.
func (r *Result) GroupsAt(b *ssa.BasicBlock) [][]string {
	dom := r.out[b]
	if dom.Kind() != aliased.KindValue {
		return nil
	}

	var res [][]string
	for _, grp := range dom.Value().Groups() {
		names := make([]string, len(grp))
		for i, val := range grp {
			if val.IsRegister() {
				if v, ok := r.byReg[val.Reg()]; ok {
					names[i] = v.Name()
					continue
				}
			}
			names[i] = val.String()
		}
		res = append(res, names)
	}
	return res
}
