package vm

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// builtinTable dispatches CALL targets that have no user-defined LABEL:
// the six named I/O built-ins. printX write without a trailing newline;
// inputInt/inputDouble read one whitespace-separated token; inputStr
// reads one line. vsuprun (a leftover host-CPU-time query in the
// implementation this was distilled from) has no source-language
// syntax that can reach it and is intentionally not wired here.
var builtinTable = map[string]func(vm *VM) error{
	"printInt":    builtinPrint,
	"printDouble": builtinPrint,
	"printStr":    builtinPrint,
	"inputInt":    builtinInputInt,
	"inputDouble": builtinInputDouble,
	"inputStr":    builtinInputStr,
}

func builtinPrint(vm *VM) error {
	v, err := vm.pop()
	if err != nil {
		return err
	}
	fmt.Fprint(vm.out, v.AsString())
	return nil
}

func builtinInputInt(vm *VM) error {
	tok := vm.readToken()
	n, err := strconv.ParseInt(tok, 10, 64)
	if err != nil {
		n = 0
	}
	vm.push(Int(n))
	return nil
}

func builtinInputDouble(vm *VM) error {
	tok := vm.readToken()
	f, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		f = 0
	}
	vm.push(Double(f))
	return nil
}

func builtinInputStr(vm *VM) error {
	vm.push(Str(vm.readLine()))
	return nil
}

// readToken skips leading whitespace then collects bytes up to (not
// including) the next whitespace byte or EOF.
func (vm *VM) readToken() string {
	var sb strings.Builder
	for {
		b, err := vm.in.ReadByte()
		if err != nil {
			break
		}
		if unicode.IsSpace(rune(b)) {
			if sb.Len() > 0 {
				break
			}
			continue
		}
		sb.WriteByte(b)
	}
	return sb.String()
}

// readLine reads up to and including the next newline, returning the
// line without its terminator. At EOF it returns whatever was collected.
func (vm *VM) readLine() string {
	line, _ := vm.in.ReadString('\n')
	return strings.TrimRight(line, "\r\n")
}
