// Package content embeds the built-in graphs and surveys.
package content

import (
	"context"
	"embed"

	"github.com/aretw0/wayfinder/pkg/adapters/file"
)

// FS holds graphs/*.yaml and surveys/*.yaml.
//
//go:embed graphs surveys
var FS embed.FS

// Default IDs of the bundled artifacts.
const (
	PermitGraphID     = "permesso"
	ScreeningSurveyID = "ai-screening-v1"
)

// Catalog loads the bundled artifacts.
func Catalog(ctx context.Context, opts ...file.CatalogOption) (*file.Catalog, error) {
	c := file.NewCatalog(FS, opts...)
	return c, c.Reload(ctx)
}
