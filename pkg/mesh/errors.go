package mesh

import "errors"

// Mesh errors.
var (
	ErrInvalidArgument  = errors.New("invalid argument")
	ErrInvalidOperation = errors.New("invalid operation")
	ErrIndexOutOfRange  = errors.New("vertex index out of range")
	ErrAttributeLength  = errors.New("attribute length does not match vertex count")
	ErrInvalidGroups    = errors.New("shared vertex groups do not partition the vertex range")
)
