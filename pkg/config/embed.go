package config

import (
	"embed"
	"io/fs"

	"github.com/goliatone/go-formengine/pkg/model"
)

//go:embed forms/*
var embeddedForms embed.FS

// EmbeddedFS returns the bundled sample forms.
func EmbeddedFS() fs.FS {
	sub, err := fs.Sub(embeddedForms, "forms")
	if err != nil {
		// The embed directive guarantees the directory exists.
		panic(err)
	}
	return sub
}

// Embedded loads the bundled catalogue (user-registration and
// project-creation).
func Embedded(decorators ...model.Decorator) (*Catalog, error) {
	return LoadFS(EmbeddedFS(), decorators...)
}
