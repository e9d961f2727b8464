package store

// Provider defines the behavior for any key/value backend.
// Keys are flat strings namespaced by prefix (see store.go); values are
// opaque bytes. List must return every stored key starting with prefix.
type Provider interface {
	Get(key string) ([]byte, bool, error)
	Set(key string, value []byte) error
	Delete(key string) error
	List(prefix string) ([]string, error)
	Close() error
}
