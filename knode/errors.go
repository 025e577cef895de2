package knode

import "errors"

var (
	ErrNotRegistered         = errors.New("node definition not registered")
	ErrAlreadyRegistered     = errors.New("node definition already registered")
	ErrPortNotBound          = errors.New("port not bound")
	ErrPortIndexOutOfRange   = errors.New("port index out of range")
	ErrPortTypeMismatch      = errors.New("port type mismatch")
	ErrNotAPortArray         = errors.New("port is not a port array")
	ErrMessageTypeMismatch   = errors.New("message type mismatch")
	ErrVirtualTableSealed    = errors.New("virtual table sealed")
	ErrKernelDataUnavailable = errors.New("node has no kernel data")
)
