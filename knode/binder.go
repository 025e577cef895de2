package knode

import "fmt"

// PortBinder gives the runtime type-erased access to the data ports of one
// kernel port struct instance. Generated KG_BindPorts methods populate it.
type PortBinder struct {
	inputs  map[uint16]inputSlot
	outputs map[uint16]outputSlot
}

func NewPortBinder() *PortBinder {
	return &PortBinder{
		inputs:  map[uint16]inputSlot{},
		outputs: map[uint16]outputSlot{},
	}
}

type inputSlot interface {
	attach(index int, src any) error
	detach(index int) error
	set(index int, v any) error
	arrayPort
}

type outputSlot interface {
	source(index int) (any, error)
	value(index int) (any, error)
	arrayPort
}

type arrayPort interface {
	isArray() bool
	length() int
	resize(n int)
}

// Attach points input element index at src, which must be the *T returned by
// Source for an output of the same payload type.
func (b *PortBinder) Attach(in PortID, index int, src any) error {
	slot, err := b.input(in)
	if err != nil {
		return err
	}
	return slot.attach(index, src)
}

// Detach makes input element index fall back to its own value.
func (b *PortBinder) Detach(in PortID, index int) error {
	slot, err := b.input(in)
	if err != nil {
		return err
	}
	return slot.detach(index)
}

// SetValue sets the own value of input element index.
func (b *PortBinder) SetValue(in PortID, index int, v any) error {
	slot, err := b.input(in)
	if err != nil {
		return err
	}
	return slot.set(index, v)
}

// Source returns a pointer to the storage of output element index.
func (b *PortBinder) Source(out PortID, index int) (any, error) {
	slot, err := b.output(out)
	if err != nil {
		return nil, err
	}
	return slot.source(index)
}

// Value returns the current value of output element index.
func (b *PortBinder) Value(out PortID, index int) (any, error) {
	slot, err := b.output(out)
	if err != nil {
		return nil, err
	}
	return slot.value(index)
}

// Resize changes the size of a data port array. Pointers previously returned
// by Source for that array are invalid afterwards.
func (b *PortBinder) Resize(port PortID, n int) error {
	p, err := b.arrayPort(port)
	if err != nil {
		return err
	}
	p.resize(n)
	return nil
}

// Len returns the size of a data port array.
func (b *PortBinder) Len(port PortID) (int, error) {
	p, err := b.arrayPort(port)
	if err != nil {
		return 0, err
	}
	return p.length(), nil
}

func (b *PortBinder) arrayPort(port PortID) (arrayPort, error) {
	var p arrayPort
	switch port.Class {
	case DataInputClass:
		s, err := b.input(port)
		if err != nil {
			return nil, err
		}
		p = s
	case DataOutputClass:
		s, err := b.output(port)
		if err != nil {
			return nil, err
		}
		p = s
	default:
		return nil, fmt.Errorf("%w: %s", ErrPortNotBound, port)
	}
	if !p.isArray() {
		return nil, fmt.Errorf("%w: %s", ErrNotAPortArray, port)
	}
	return p, nil
}

func (b *PortBinder) input(id PortID) (inputSlot, error) {
	if id.Class != DataInputClass {
		return nil, fmt.Errorf("%w: %s", ErrPortNotBound, id)
	}
	slot, ok := b.inputs[id.Index]
	if !ok || slot.isArray() != id.Array {
		return nil, fmt.Errorf("%w: %s", ErrPortNotBound, id)
	}
	return slot, nil
}

func (b *PortBinder) output(id PortID) (outputSlot, error) {
	if id.Class != DataOutputClass {
		return nil, fmt.Errorf("%w: %s", ErrPortNotBound, id)
	}
	slot, ok := b.outputs[id.Index]
	if !ok || slot.isArray() != id.Array {
		return nil, fmt.Errorf("%w: %s", ErrPortNotBound, id)
	}
	return slot, nil
}

func BindDataInput[TDef, T any](b *PortBinder, p *DataInput[TDef, T]) {
	b.inputs[p.port] = &scalarInput[TDef, T]{p: p}
}

func BindDataInputArray[TDef, T any](b *PortBinder, p *PortArray[DataInput[TDef, T]]) {
	b.inputs[p.port] = &arrayInput[TDef, T]{p: p}
}

func BindDataOutput[TDef, T any](b *PortBinder, p *DataOutput[TDef, T]) {
	b.outputs[p.port] = &scalarOutput[TDef, T]{p: p}
}

func BindDataOutputArray[TDef, T any](b *PortBinder, p *PortArray[DataOutput[TDef, T]]) {
	b.outputs[p.port] = &arrayOutput[TDef, T]{p: p}
}

func checkIndex(index, n int) error {
	if index < 0 || index >= n {
		return fmt.Errorf("%w: %d (size %d)", ErrPortIndexOutOfRange, index, n)
	}
	return nil
}

func typedSource[T any](src any) (*T, error) {
	ptr, ok := src.(*T)
	if !ok || ptr == nil {
		return nil, fmt.Errorf("%w: want *%T, got %T", ErrPortTypeMismatch, *new(T), src)
	}
	return ptr, nil
}

func typedValue[T any](v any) (T, error) {
	t, ok := v.(T)
	if !ok {
		return t, fmt.Errorf("%w: want %T, got %T", ErrPortTypeMismatch, t, v)
	}
	return t, nil
}

type scalarInput[TDef, T any] struct {
	p *DataInput[TDef, T]
}

func (s *scalarInput[TDef, T]) attach(index int, src any) error {
	if err := checkIndex(index, 1); err != nil {
		return err
	}
	ptr, err := typedSource[T](src)
	if err != nil {
		return err
	}
	s.p.src = ptr
	return nil
}

func (s *scalarInput[TDef, T]) detach(index int) error {
	if err := checkIndex(index, 1); err != nil {
		return err
	}
	s.p.src = nil
	return nil
}

func (s *scalarInput[TDef, T]) set(index int, v any) error {
	if err := checkIndex(index, 1); err != nil {
		return err
	}
	t, err := typedValue[T](v)
	if err != nil {
		return err
	}
	s.p.own = t
	return nil
}

func (s *scalarInput[TDef, T]) isArray() bool { return false }
func (s *scalarInput[TDef, T]) length() int   { return 1 }
func (s *scalarInput[TDef, T]) resize(int)    {}

type arrayInput[TDef, T any] struct {
	p *PortArray[DataInput[TDef, T]]
}

func (s *arrayInput[TDef, T]) attach(index int, src any) error {
	if err := checkIndex(index, len(s.p.items)); err != nil {
		return err
	}
	ptr, err := typedSource[T](src)
	if err != nil {
		return err
	}
	s.p.items[index].src = ptr
	return nil
}

func (s *arrayInput[TDef, T]) detach(index int) error {
	if err := checkIndex(index, len(s.p.items)); err != nil {
		return err
	}
	s.p.items[index].src = nil
	return nil
}

func (s *arrayInput[TDef, T]) set(index int, v any) error {
	if err := checkIndex(index, len(s.p.items)); err != nil {
		return err
	}
	t, err := typedValue[T](v)
	if err != nil {
		return err
	}
	s.p.items[index].own = t
	return nil
}

func (s *arrayInput[TDef, T]) isArray() bool { return true }
func (s *arrayInput[TDef, T]) length() int   { return len(s.p.items) }

func (s *arrayInput[TDef, T]) resize(n int) {
	s.p.resize(n)
	for i := range s.p.items {
		s.p.items[i].port = s.p.port
	}
}

type scalarOutput[TDef, T any] struct {
	p *DataOutput[TDef, T]
}

func (s *scalarOutput[TDef, T]) source(index int) (any, error) {
	if err := checkIndex(index, 1); err != nil {
		return nil, err
	}
	return &s.p.value, nil
}

func (s *scalarOutput[TDef, T]) value(index int) (any, error) {
	if err := checkIndex(index, 1); err != nil {
		return nil, err
	}
	return s.p.value, nil
}

func (s *scalarOutput[TDef, T]) isArray() bool { return false }
func (s *scalarOutput[TDef, T]) length() int   { return 1 }
func (s *scalarOutput[TDef, T]) resize(int)    {}

type arrayOutput[TDef, T any] struct {
	p *PortArray[DataOutput[TDef, T]]
}

func (s *arrayOutput[TDef, T]) source(index int) (any, error) {
	if err := checkIndex(index, len(s.p.items)); err != nil {
		return nil, err
	}
	return &s.p.items[index].value, nil
}

func (s *arrayOutput[TDef, T]) value(index int) (any, error) {
	if err := checkIndex(index, len(s.p.items)); err != nil {
		return nil, err
	}
	return s.p.items[index].value, nil
}

func (s *arrayOutput[TDef, T]) isArray() bool { return true }
func (s *arrayOutput[TDef, T]) length() int   { return len(s.p.items) }

func (s *arrayOutput[TDef, T]) resize(n int) {
	s.p.resize(n)
	for i := range s.p.items {
		s.p.items[i].port = s.p.port
	}
}
