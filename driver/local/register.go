package local

import "github.com/gobeaver/intake"

func init() {
	intake.RegisterDriver("local", func(cfg *intake.Config) (intake.Disk, error) {
		return NewOS(cfg.Root)
	})
}
