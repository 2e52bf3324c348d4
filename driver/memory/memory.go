// Package memory provides an in-memory intake Disk for tests and dry runs.
package memory

import (
	"github.com/gobeaver/intake/driver/local"
	"github.com/spf13/afero"
)

// New creates a Disk backed by an afero.MemMapFs
func New(opts ...local.Option) *local.Adapter {
	return local.New(afero.NewMemMapFs(), opts...)
}
