package tensor

import "fmt"

// ShapeError reports incompatible operand shapes for an operation.
// It is raised at forward-evaluation time, before any graph node is
// created, so a failed operation never leaves a partially built graph.
type ShapeError struct {
	Op   string // operation name, e.g. "matmul"
	Want Shape  // shape of the first operand (or the expected shape)
	Got  Shape  // shape of the offending operand
	Msg  string // optional extra context
}

func (e *ShapeError) Error() string {
	if e.Msg != "" {
		return fmt.Sprintf("%s: incompatible shapes %v and %v: %s", e.Op, e.Want, e.Got, e.Msg)
	}
	return fmt.Sprintf("%s: incompatible shapes %v and %v", e.Op, e.Want, e.Got)
}
