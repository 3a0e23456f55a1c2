package pdo

import (
	"fmt"
	"io"
	"strings"
)

// DebugDumpParams writes the template, the driver-native SQL and every bound
// parameter in slot order.
func (s *Statement) DebugDumpParams(w io.Writer) error {
	if s.cmd == nil {
		return newError("debug dump", ErrStatementClosed, StateGeneral, "statement was never prepared")
	}
	var b strings.Builder
	fmt.Fprintf(&b, "SQL: [%d] %s\n", len(s.cmd.Template), s.cmd.Template)
	fmt.Fprintf(&b, "Sent SQL: [%d] %s\n", len(s.cmd.SQL), s.cmd.SQL)

	var slots []string
	for _, slot := range s.cmd.Slots {
		if _, ok := s.bindings[slot]; ok {
			slots = append(slots, slot)
		}
	}
	fmt.Fprintf(&b, "Params:  %d\n", len(slots))
	for _, slot := range slots {
		bd := s.bindings[slot]
		if name := s.cmd.ParameterName(slot); name != "" {
			fmt.Fprintf(&b, "Key: Name: [%d] %s\n", len(name), name)
			fmt.Fprintf(&b, "paramno=-1\nname=[%d] %q\n", len(name), name)
		} else {
			pos := s.cmd.Ordinal(slot) - 1
			fmt.Fprintf(&b, "Key: Position #%d:\n", pos)
			fmt.Fprintf(&b, "paramno=%d\nname=[0] \"\"\n", pos)
		}
		fmt.Fprintf(&b, "is_param=1\nparam_type=%d\n", wireType(bd))
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// wireType reports the numeric parameter type code used in debug dumps.
func wireType(b *binding) int {
	typ := b.typ
	if typ == ParamAuto {
		switch b.current().(type) {
		case nil:
			typ = ParamNull
		case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
			typ = ParamInt
		case bool:
			typ = ParamBool
		case []byte:
			typ = ParamLOB
		default:
			typ = ParamStr
		}
	}
	switch typ {
	case ParamNull:
		return 0
	case ParamInt:
		return 1
	case ParamLOB:
		return 3
	case ParamBool:
		return 5
	default:
		return 2
	}
}
