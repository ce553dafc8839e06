package vtable

// Target describes the addressing properties of the machine the generated
// vtables are for. Offsets are computed in slots; code generators that
// address in bytes convert through Bytes.
type Target struct {
	Triple   string // e.g. "x86_64-linux-gnu"
	PtrSize  int    // bytes per vtable word
	PtrAlign int    // bytes
}

func X86_64LinuxGNU() Target {
	return Target{
		Triple:   "x86_64-linux-gnu",
		PtrSize:  8,
		PtrAlign: 8,
	}
}

// Bytes converts a slot offset to the target's byte addressing.
func (t Target) Bytes(slots int) int {
	return slots * t.PtrSize
}
