package errcode

// Names maps codes to display names. It is built once at startup and never written
// afterwards, so it is shared between goroutines without locking.
type Names map[Code]string

// Lookup returns the name for code if the table has one.
func (n Names) Lookup(code Code) (string, bool) {
	name, ok := n[code]
	return name, ok
}

// Name returns the name for code, or an empty string when the table has no entry.
func (n Names) Name(code Code) string {
	return n[code]
}
