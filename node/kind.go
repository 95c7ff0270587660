package node

type DispatcherEnum int

const (
	DispatcherUnsupported DispatcherEnum = iota
	DispatcherPrimitive
	DispatcherString
	DispatcherArray
	DispatcherTarget

	// DispatcherTotal is a constant that represents the total number of kinds defined
	DispatcherTotal = int(iota)
)

var dispatcherNames = [DispatcherTotal]string{
	DispatcherUnsupported: "unsupported",
	DispatcherPrimitive:   "primitive",
	DispatcherString:      "string",
	DispatcherArray:       "array",
	DispatcherTarget:      "target",
}

// String returns a human-readable dispatcher name.
func (d DispatcherEnum) String() string {
	if d < 0 || int(d) >= DispatcherTotal {
		return dispatcherNames[DispatcherUnsupported]
	}
	return dispatcherNames[d]
}
