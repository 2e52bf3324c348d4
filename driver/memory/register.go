package memory

import "github.com/gobeaver/intake"

func init() {
	intake.RegisterDriver("memory", func(cfg *intake.Config) (intake.Disk, error) {
		return New(), nil
	})
}
