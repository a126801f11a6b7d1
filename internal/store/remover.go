package store

// FileRemover receives the stored paths of deleted videos so the file
// storage collaborator can remove the physical files. The catalog itself
// never reads, writes, or deletes file bytes.
type FileRemover interface {
	RemoveFiles(paths []string)
}

// NoopFileRemover discards removal notifications. Used when no file
// storage collaborator is wired, and in tests.
type NoopFileRemover struct{}

// NewNoopFileRemover creates a no-op file remover.
func NewNoopFileRemover() *NoopFileRemover {
	return &NoopFileRemover{}
}

// RemoveFiles implements FileRemover.
func (*NoopFileRemover) RemoveFiles([]string) {}
