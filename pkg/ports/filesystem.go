package ports

// FileSystem is where downloads, debug output and reports end up.
type FileSystem interface {
	// WriteFile replaces path with data in one step, creating missing parent
	// directories. Readers never observe a partially written file.
	WriteFile(path string, data []byte) error

	MkdirAll(path string) error

	// Exists reports whether path names a file or directory.
	Exists(path string) (bool, error)
}
