package launcher

// Transfer hands control to a resolved launch target. The POSIX
// implementation replaces the current process image and does not return on
// success; elsewhere the target runs as a child with inherited standard
// streams and Exec returns its exit code.
type Transfer interface {
	Exec(l *Launch) (int, error)
}

// NewTransfer returns the Transfer for the current platform.
func NewTransfer() Transfer {
	return newTransfer()
}
