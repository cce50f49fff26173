package domain

// AssetType classifies a visual guide.
type AssetType string

const (
	AssetScreenshot AssetType = "screenshot"
	AssetDiagram    AssetType = "diagram"
	AssetVideo      AssetType = "video"
	AssetDocument   AssetType = "document"
)

// RouterAsset is a visual guide (diagram, screenshot) attached to a node.
// Landmarks name the UI elements the guide highlights.
type RouterAsset struct {
	AssetID   string    `json:"asset_id"`
	Vendor    string    `json:"vendor"`
	Firmware  string    `json:"firmware"`
	NodeID    string    `json:"node_id"`
	Type      AssetType `json:"type"`
	URL       string    `json:"url"`
	AltText   string    `json:"alt_text"`
	Landmarks []string  `json:"landmarks,omitempty"`
}
