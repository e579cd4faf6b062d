package sentinel

var _ error = Error("")

// Error is a string-backed error suitable for const declarations.
// Being a comparable value type, it works with errors.Is out of the box.
type Error string

func (e Error) Error() string {
	return string(e)
}
