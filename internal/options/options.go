// Package options implements functional options over a config value of type T,
// usually a pointer to an unexported config struct.
package options

// Option mutates a config value and may reject it.
type Option[T any] func(T) error

// New wraps fn as an option.
func New[T any](fn func(T) error) Option[T] {
	return Option[T](fn)
}

// NoError wraps an option that cannot fail.
func NoError[T any](fn func(T)) Option[T] {
	return func(target T) error {
		fn(target)
		return nil
	}
}

// Apply runs opts against target in order and stops at the first error. Nil
// options are skipped.
func Apply[T any](target T, opts ...Option[T]) error {
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(target); err != nil {
			return err
		}
	}

	return nil
}
