package diarizer

import (
	"github.com/foxseedlab/kikitori/internal/config"
	"github.com/foxseedlab/kikitori/internal/diarizer"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (diarizer.Diarizer, error) {
		c := do.MustInvoke[*config.Config](i)
		return NewPyannoteDiarizer(PyannoteConfig{
			Python: c.DiarizationPython,
			Model:  c.DiarizationModel,
			Token:  c.HuggingFaceToken,
		}), nil
	})
}
