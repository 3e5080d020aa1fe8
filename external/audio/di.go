package audio

import (
	"github.com/foxseedlab/kikitori/internal/audio"
	"github.com/foxseedlab/kikitori/internal/config"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (audio.Loader, error) {
		c := do.MustInvoke[*config.Config](i)
		return NewFileLoader(c.FFmpegPath), nil
	})
}
