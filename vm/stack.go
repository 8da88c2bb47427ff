package vm

import "github.com/eth2030/evmcore/types"

const maxStackSize = 1024

// Stack is the EVM's 256-bit-word operand stack, capped at 1024 entries.
type Stack struct {
	data []*types.Word
}

func newStack() *Stack {
	return &Stack{data: make([]*types.Word, 0, 16)}
}

func (st *Stack) push(w *types.Word) {
	st.data = append(st.data, w)
}

func (st *Stack) pop() *types.Word {
	n := len(st.data) - 1
	w := st.data[n]
	st.data = st.data[:n]
	return w
}

func (st *Stack) len() int { return len(st.data) }

// peek returns the top element without removing it.
func (st *Stack) peek() *types.Word {
	return st.data[len(st.data)-1]
}

// back returns the n-th element from the top (0 = top) without removing it.
func (st *Stack) back(n int) *types.Word {
	return st.data[len(st.data)-1-n]
}

func (st *Stack) swap(n int) {
	top := len(st.data) - 1
	st.data[top], st.data[top-n] = st.data[top-n], st.data[top]
}

func (st *Stack) dup(n int) {
	st.push(new(types.Word).Set(st.back(n - 1)))
}
