package sema

// builtins are predeclared into the global scope before any user code is
// checked, so calls to them type-check without a matching source
// declaration.
var builtins = []Symbol{
	{Name: "printInt", Type: TypeVoid, IsFunction: true, ParamTypes: []Type{TypeInt}, ParamIsArray: []bool{false}},
	{Name: "printDouble", Type: TypeVoid, IsFunction: true, ParamTypes: []Type{TypeDouble}, ParamIsArray: []bool{false}},
	{Name: "printStr", Type: TypeVoid, IsFunction: true, ParamTypes: []Type{TypeString}, ParamIsArray: []bool{false}},
	{Name: "inputInt", Type: TypeInt, IsFunction: true},
	{Name: "inputDouble", Type: TypeDouble, IsFunction: true},
	{Name: "inputStr", Type: TypeString, IsFunction: true},
}
