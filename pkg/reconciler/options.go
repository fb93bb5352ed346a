package reconciler

import (
	"github.com/unitbook/unitbook/pkg/errors"
	"github.com/unitbook/unitbook/pkg/fields"
)

// options configures a reconciler.
type options struct {
	aliases fields.Aliases
	dryRun  bool
}

func defaultOptions() *options {
	return &options{
		aliases: fields.DefaultAliases(),
	}
}

// Option is a function that configures a Reconciler.
type Option func(*options) error

func (options *options) apply(opts ...Option) (*options, error) {
	for _, opt := range opts {
		if err := opt(options); err != nil {
			return nil, err
		}
	}
	return options, nil
}

// newOptions returns reconciler options with default values.
func newOptions(opts ...Option) (*options, error) {
	return defaultOptions().apply(opts...)
}

// WithAliases sets the header alias table used for field extraction.
func WithAliases(aliases fields.Aliases) Option {
	return func(o *options) error {
		if len(aliases) == 0 {
			return &errors.ValidationError{
				Field:   "aliases",
				Message: "cannot be empty",
			}
		}
		o.aliases = aliases
		return nil
	}
}

// WithDryRun classifies and counts every row without writing to the store.
// The in-memory mirror is still maintained so intra-run decisions stay
// accurate.
func WithDryRun(dryRun bool) Option {
	return func(o *options) error {
		o.dryRun = dryRun
		return nil
	}
}
