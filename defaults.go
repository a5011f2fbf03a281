package packd

// coalesce returns def when v is the zero value of T - otherwise v.
func coalesce[T comparable](v, def T) T {
	var zero T
	if v == zero {
		return def
	}
	return v
}

// Options tune a single decode or encode call. The zero value is ready to use.
type Options struct {
	// Logger receives debug traces from composite codecs. nil => NopLogger.
	Logger Logger

	// MaxElements caps any element count read from input (sequence counts,
	// length prefixes). <= 0 disables the check.
	MaxElements int

	// MaxBytes caps any byte length read from input (Sized, compressed blocks).
	// <= 0 disables the check.
	MaxBytes int

	// AllowTrailing lets Unmarshal succeed when input remains after the value.
	AllowTrailing bool
}

func (o Options) withDefaults() Options {
	o.Logger = coalesce[Logger](o.Logger, NopLogger{})
	return o
}

// CheckElements returns ErrTooLarge when n exceeds MaxElements.
func (o Options) CheckElements(n int) error {
	if o.MaxElements > 0 && n > o.MaxElements {
		return tooLarge("element count", n, o.MaxElements)
	}
	return nil
}

// CheckBytes returns ErrTooLarge when n exceeds MaxBytes.
func (o Options) CheckBytes(n int) error {
	if o.MaxBytes > 0 && n > o.MaxBytes {
		return tooLarge("byte length", n, o.MaxBytes)
	}
	return nil
}
