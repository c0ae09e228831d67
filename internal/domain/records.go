package domain

// SizeMap maps a size label to its rendered measurement value,
// e.g. {"3ft Single": "190 cm (74.8\")"}.
type SizeMap map[string]string

// StyleOption is one selectable entry inside a style group. Sizes limits the
// option to the named product sizes; empty means the option applies to all.
type StyleOption struct {
	Label       string   `json:"label"`
	Description string   `json:"description,omitempty"`
	IconURL     string   `json:"icon_url,omitempty"`
	PriceDelta  string   `json:"price_delta,omitempty"`
	Sizes       []string `json:"sizes,omitempty"`
}

// FabricColor is one swatch inside a fabric set.
type FabricColor struct {
	Name     string `json:"name"`
	HexCode  string `json:"hex_code"`
	ImageURL string `json:"image_url,omitempty"`
}

// DimensionOverride is a per-product measurement row that overlays a linked
// template row of the same measurement name, or is appended when the
// template has no such row.
type DimensionOverride struct {
	Measurement string  `json:"measurement"`
	Values      SizeMap `json:"values"`
}

// FAQ is a question/answer pair shown on the product page.
type FAQ struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// CustomInfoSection is a free-form titled content block.
type CustomInfoSection struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// DimensionImage keys an image to a size label for the dimensions modal.
type DimensionImage struct {
	Size string `json:"size"`
	URL  string `json:"url"`
}
