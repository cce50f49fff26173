package ports

import "github.com/akilivoice/pathrag/pkg/domain"

// AssetCatalog resolves a node id to zero or more visual guides.
// An empty result is valid; most nodes have at least one diagram.
type AssetCatalog interface {
	AssetsFor(nodeID string) []domain.RouterAsset
}
