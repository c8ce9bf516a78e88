// SPDX-License-Identifier: MPL-2.0

package cueutil

// DefaultMaxFileSize bounds the documents handed to the CUE evaluator (5MB).
const DefaultMaxFileSize int64 = 5 * 1024 * 1024

// Encoding selects how the document bytes are compiled.
const (
	// EncodingCUE compiles the document as CUE source.
	EncodingCUE Encoding = iota
	// EncodingJSON extracts the document as strict JSON.
	EncodingJSON
)

type (
	// Encoding is the input format of a validated document.
	Encoding int

	options struct {
		maxFileSize int64
		concrete    bool
		filename    string
		encoding    Encoding
	}

	// Option configures Validate.
	Option func(*options)
)

func defaultOptions() options {
	return options{
		maxFileSize: DefaultMaxFileSize,
		concrete:    true,
		filename:    "<input>",
		encoding:    EncodingCUE,
	}
}

// WithMaxFileSize overrides DefaultMaxFileSize.
func WithMaxFileSize(size int64) Option {
	return func(o *options) { o.maxFileSize = size }
}

// WithConcrete controls whether every value must be concrete after
// unification. Config files leave most fields unset, so they pass false.
func WithConcrete(concrete bool) Option {
	return func(o *options) { o.concrete = concrete }
}

// WithFilename sets the name used in error messages.
func WithFilename(name string) Option {
	return func(o *options) {
		if name != "" {
			o.filename = name
		}
	}
}

// WithEncoding selects the document format.
func WithEncoding(enc Encoding) Option {
	return func(o *options) { o.encoding = enc }
}
