package services

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"github.com/loomhaven/api/internal/domain"
	"github.com/loomhaven/api/internal/platform/textutil"
)

// Column limits the normalizer enforces before persistence.
const (
	maxURLLength      = 1000
	maxNameLength     = 100
	maxSizeNameLength = 50
	maxIconLength     = 64 * 1024
	maxHexCodeLength  = 7
	defaultColorHex   = "#000000"
)

// ValidationError carries field-scoped messages for a rejected write. The
// whole write aborts; no partial variant set is ever persisted.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// fieldErrors accumulates per-field messages, keeping the first message per
// field.
type fieldErrors map[string]string

func (f fieldErrors) add(field, msg string) {
	if _, ok := f[field]; !ok {
		f[field] = msg
	}
}

func (f fieldErrors) err() error {
	if len(f) == 0 {
		return nil
	}
	return &ValidationError{Fields: f}
}

// FlexString accepts either a JSON string or a number, keeping the textual
// form.
type FlexString string

func (s *FlexString) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		*s = FlexString(str)
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(data, &num); err == nil {
		*s = FlexString(num.String())
		return nil
	}
	if string(data) == "null" {
		*s = ""
		return nil
	}
	return fmt.Errorf("expected string or number, got %s", string(data))
}

// SizeInput accepts either a bare size name string or a full object.
type SizeInput struct {
	Name        string
	Description string
	PriceDelta  FlexString
}

func (s *SizeInput) UnmarshalJSON(data []byte) error {
	var bare string
	if err := json.Unmarshal(data, &bare); err == nil {
		s.Name = bare
		return nil
	}
	var obj struct {
		Name        string     `json:"name"`
		Description string     `json:"description"`
		PriceDelta  FlexString `json:"price_delta"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	s.Name = obj.Name
	s.Description = obj.Description
	s.PriceDelta = obj.PriceDelta
	return nil
}

// StyleOptionInput accepts either a bare label string or a full object. A
// single `size` value folds into the `sizes` list.
type StyleOptionInput struct {
	Label       string
	Description string
	IconURL     string
	PriceDelta  FlexString
	Sizes       []string
}

func (o *StyleOptionInput) UnmarshalJSON(data []byte) error {
	var bare string
	if err := json.Unmarshal(data, &bare); err == nil {
		o.Label = bare
		return nil
	}
	var obj struct {
		Label       string     `json:"label"`
		Description string     `json:"description"`
		IconURL     string     `json:"icon_url"`
		PriceDelta  FlexString `json:"price_delta"`
		Sizes       []string   `json:"sizes"`
		Size        string     `json:"size"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	o.Label = obj.Label
	o.Description = obj.Description
	o.IconURL = obj.IconURL
	o.PriceDelta = obj.PriceDelta
	o.Sizes = obj.Sizes
	if obj.Size != "" {
		o.Sizes = append(o.Sizes, obj.Size)
	}
	return nil
}

// StyleInput references a product size by name or id; unresolvable
// references leave the style unscoped.
type StyleInput struct {
	Name     string             `json:"name"`
	IconURL  string             `json:"icon_url"`
	IsShared bool               `json:"is_shared"`
	Size     FlexString         `json:"size"`
	SizeID   *uint              `json:"size_id"`
	Options  []StyleOptionInput `json:"options"`
}

type ColorInput struct {
	Name     string `json:"name"`
	HexCode  string `json:"hex_code"`
	ImageURL string `json:"image_url"`
}

type FabricInput struct {
	Name     string       `json:"name"`
	ImageURL string       `json:"image_url"`
	IsShared bool         `json:"is_shared"`
	Colors   []ColorInput `json:"colors"`
}

type MattressInput struct {
	Name                string     `json:"name"`
	Description         string     `json:"description"`
	ImageURL            string     `json:"image_url"`
	Price               FlexString `json:"price"`
	SourceProduct       *uint      `json:"source_product"`
	EnableBunkPositions bool       `json:"enable_bunk_positions"`
	PriceTop            FlexString `json:"price_top"`
	PriceBottom         FlexString `json:"price_bottom"`
	PriceBoth           FlexString `json:"price_both"`
}

// ImageInput pairs a URL with an optional color gallery name.
type ImageInput struct {
	URL       string `json:"url"`
	ColorName string `json:"color_name"`
}

func (i *ImageInput) UnmarshalJSON(data []byte) error {
	var bare string
	if err := json.Unmarshal(data, &bare); err == nil {
		i.URL = bare
		return nil
	}
	var obj struct {
		URL       string `json:"url"`
		ColorName string `json:"color_name"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	i.URL = obj.URL
	i.ColorName = obj.ColorName
	return nil
}

// VariantPayload is the raw, untrusted variant section of a product write.
type VariantPayload struct {
	Images     []ImageInput    `json:"images"`
	Videos     []string        `json:"videos"`
	Colors     []ColorInput    `json:"colors"`
	Sizes      []SizeInput     `json:"sizes"`
	Styles     []StyleInput    `json:"styles"`
	Fabrics    []FabricInput   `json:"fabrics"`
	Mattresses []MattressInput `json:"mattresses"`
}

// NormalizedVariants is the cleaned output ready for persistence.
type NormalizedVariants struct {
	Images     []domain.ProductImage
	Videos     []domain.ProductVideo
	Colors     []domain.ProductColor
	Sizes      []domain.ProductSize
	Styles     []domain.ProductStyle
	Fabrics    []domain.ProductFabric
	Mattresses []domain.ProductMattress
}

// VariantNormalizer validates and cleans raw variant payloads. ProductExists
// resolves mattress source-product references; a nil hook treats every
// reference as unresolvable.
type VariantNormalizer struct {
	ProductExists func(id uint) bool
}

// Normalize cleans the whole payload or fails with field-scoped errors. No
// output is usable when an error is returned.
func (n *VariantNormalizer) Normalize(payload VariantPayload) (*NormalizedVariants, error) {
	errs := fieldErrors{}
	out := &NormalizedVariants{}

	out.Images = n.normalizeImages(payload.Images, errs)
	out.Videos = n.normalizeVideos(payload.Videos, errs)
	out.Colors = n.normalizeColors("colors", payload.Colors, errs)
	out.Sizes = n.normalizeSizes(payload.Sizes, errs)
	out.Styles = n.normalizeStyles(payload.Styles, payload.Sizes, errs)
	out.Fabrics = n.normalizeFabrics(payload.Fabrics, errs)
	out.Mattresses = n.normalizeMattresses(payload.Mattresses, errs)

	if err := errs.err(); err != nil {
		return nil, err
	}
	return out, nil
}

// normalizeImages skips blank entries silently but rejects over-long URLs.
func (n *VariantNormalizer) normalizeImages(inputs []ImageInput, errs fieldErrors) []domain.ProductImage {
	images := make([]domain.ProductImage, 0, len(inputs))
	for i, in := range inputs {
		url := strings.TrimSpace(in.URL)
		if url == "" {
			continue
		}
		if len(url) > maxURLLength {
			errs.add(fmt.Sprintf("images[%d]", i), "image URL exceeds maximum length")
			continue
		}
		images = append(images, domain.ProductImage{URL: url, ColorName: strings.TrimSpace(in.ColorName)})
	}
	return images
}

func (n *VariantNormalizer) normalizeVideos(inputs []string, errs fieldErrors) []domain.ProductVideo {
	videos := make([]domain.ProductVideo, 0, len(inputs))
	for i, in := range inputs {
		url := strings.TrimSpace(in)
		if url == "" {
			continue
		}
		if len(url) > maxURLLength {
			errs.add(fmt.Sprintf("videos[%d]", i), "video URL exceeds maximum length")
			continue
		}
		videos = append(videos, domain.ProductVideo{URL: url})
	}
	return videos
}

func (n *VariantNormalizer) normalizeColors(field string, inputs []ColorInput, errs fieldErrors) []domain.ProductColor {
	colors := make([]domain.ProductColor, 0, len(inputs))
	for i, in := range inputs {
		name := strings.TrimSpace(in.Name)
		if name == "" {
			errs.add(fmt.Sprintf("%s[%d].name", field, i), "color name is required")
			continue
		}
		if len(name) > maxNameLength {
			errs.add(fmt.Sprintf("%s[%d].name", field, i), "color name exceeds maximum length")
			continue
		}
		hex := strings.TrimSpace(in.HexCode)
		if hex == "" {
			hex = defaultColorHex
		}
		if len(hex) > maxHexCodeLength {
			errs.add(fmt.Sprintf("%s[%d].hex_code", field, i), "hex code exceeds maximum length")
			continue
		}
		imageURL := strings.TrimSpace(in.ImageURL)
		if len(imageURL) > maxURLLength {
			errs.add(fmt.Sprintf("%s[%d].image_url", field, i), "image URL exceeds maximum length")
			continue
		}
		colors = append(colors, domain.ProductColor{Name: name, HexCode: hex, ImageURL: imageURL})
	}
	return colors
}

func (n *VariantNormalizer) normalizeSizes(inputs []SizeInput, errs fieldErrors) []domain.ProductSize {
	sizes := make([]domain.ProductSize, 0, len(inputs))
	for i, in := range inputs {
		name := strings.TrimSpace(in.Name)
		if name == "" {
			errs.add(fmt.Sprintf("sizes[%d].name", i), "size name is required")
			continue
		}
		if len(name) > maxSizeNameLength {
			errs.add(fmt.Sprintf("sizes[%d].name", i), "size name exceeds maximum length")
			continue
		}
		delta := decimal.Zero
		if raw := strings.TrimSpace(string(in.PriceDelta)); raw != "" {
			parsed, err := decimal.NewFromString(raw)
			if err != nil {
				errs.add(fmt.Sprintf("sizes[%d].price_delta", i), fmt.Sprintf("invalid price delta for size %q", name))
				continue
			}
			delta = parsed
		}
		sizes = append(sizes, domain.ProductSize{
			Name:        name,
			Description: strings.TrimSpace(in.Description),
			PriceDelta:  delta,
		})
	}
	return sizes
}

// normalizeStyles validates the constrained style-name token and resolves
// size references against the sizes submitted in the same payload. An id
// reference is mapped to the matching size's name; anything unresolvable
// leaves the style unscoped.
func (n *VariantNormalizer) normalizeStyles(inputs []StyleInput, sizes []SizeInput, errs fieldErrors) []domain.ProductStyle {
	sizeNames := make(map[string]bool, len(sizes))
	for _, s := range sizes {
		if name := strings.TrimSpace(s.Name); name != "" {
			sizeNames[name] = true
		}
	}

	styles := make([]domain.ProductStyle, 0, len(inputs))
	for i, in := range inputs {
		name, ok := textutil.NormalizeStyleName(in.Name)
		if !ok {
			errs.add(fmt.Sprintf("styles[%d].name", i), "style name may only contain letters, digits, dashes and underscores")
			continue
		}
		if len(name) > maxNameLength {
			errs.add(fmt.Sprintf("styles[%d].name", i), "style name exceeds maximum length")
			continue
		}
		iconURL := strings.TrimSpace(in.IconURL)
		if len(iconURL) > maxIconLength {
			errs.add(fmt.Sprintf("styles[%d].icon_url", i), "icon payload exceeds maximum size")
			continue
		}

		options := make([]domain.StyleOption, 0, len(in.Options))
		optionsValid := true
		for j, opt := range in.Options {
			label := strings.TrimSpace(opt.Label)
			if label == "" {
				errs.add(fmt.Sprintf("styles[%d].options[%d].label", i, j), "option label is required")
				optionsValid = false
				continue
			}
			optIcon := strings.TrimSpace(opt.IconURL)
			if len(optIcon) > maxIconLength {
				errs.add(fmt.Sprintf("styles[%d].options[%d].icon_url", i, j), "icon payload exceeds maximum size")
				optionsValid = false
				continue
			}
			delta := strings.TrimSpace(string(opt.PriceDelta))
			if delta != "" {
				if _, err := decimal.NewFromString(delta); err != nil {
					errs.add(fmt.Sprintf("styles[%d].options[%d].price_delta", i, j), "invalid price delta")
					optionsValid = false
					continue
				}
			}
			optSizes := make([]string, 0, len(opt.Sizes))
			for _, s := range opt.Sizes {
				if s = strings.TrimSpace(s); s != "" {
					optSizes = append(optSizes, s)
				}
			}
			options = append(options, domain.StyleOption{
				Label:       label,
				Description: strings.TrimSpace(opt.Description),
				IconURL:     optIcon,
				PriceDelta:  delta,
				Sizes:       optSizes,
			})
		}
		if !optionsValid {
			continue
		}

		style := domain.ProductStyle{
			Name:     name,
			IconURL:  iconURL,
			IsShared: in.IsShared,
			Options:  datatypes.NewJSONSlice(options),
		}
		applySizeRef(&style, in, sizeNames)
		styles = append(styles, style)
	}
	return styles
}

// applySizeRef records the style's size reference for write-time resolution.
// Names must match a size in the same payload; a numeric reference is kept
// as an id to be checked against the persisted sizes. Unknown names leave
// the style unscoped.
func applySizeRef(style *domain.ProductStyle, in StyleInput, names map[string]bool) {
	if ref := strings.TrimSpace(string(in.Size)); ref != "" {
		if names[ref] {
			style.SizeName = ref
			return
		}
		if id, err := decimal.NewFromString(ref); err == nil && id.IsInteger() && id.IsPositive() {
			v := uint(id.IntPart())
			style.SizeID = &v
		}
		return
	}
	style.SizeID = in.SizeID
}

// normalizeFabrics requires a name or an image, and cleans nested swatches
// like product colors.
func (n *VariantNormalizer) normalizeFabrics(inputs []FabricInput, errs fieldErrors) []domain.ProductFabric {
	fabrics := make([]domain.ProductFabric, 0, len(inputs))
	for i, in := range inputs {
		name := strings.TrimSpace(in.Name)
		imageURL := strings.TrimSpace(in.ImageURL)
		if name == "" && imageURL == "" {
			errs.add(fmt.Sprintf("fabrics[%d]", i), "fabric requires a name or an image URL")
			continue
		}
		if len(name) > maxNameLength {
			errs.add(fmt.Sprintf("fabrics[%d].name", i), "fabric name exceeds maximum length")
			continue
		}
		if len(imageURL) > maxURLLength {
			errs.add(fmt.Sprintf("fabrics[%d].image_url", i), "image URL exceeds maximum length")
			continue
		}

		colors := make([]domain.FabricColor, 0, len(in.Colors))
		colorsValid := true
		for j, c := range in.Colors {
			cname := strings.TrimSpace(c.Name)
			if cname == "" {
				errs.add(fmt.Sprintf("fabrics[%d].colors[%d].name", i, j), "color name is required")
				colorsValid = false
				continue
			}
			hex := strings.TrimSpace(c.HexCode)
			if hex == "" {
				hex = defaultColorHex
			}
			colors = append(colors, domain.FabricColor{
				Name:     cname,
				HexCode:  hex,
				ImageURL: strings.TrimSpace(c.ImageURL),
			})
		}
		if !colorsValid {
			continue
		}
		fabrics = append(fabrics, domain.ProductFabric{
			Name:     name,
			ImageURL: imageURL,
			IsShared: in.IsShared,
			Colors:   datatypes.NewJSONSlice(colors),
		})
	}
	return fabrics
}

// normalizeMattresses drops fully-empty rows and nulls unresolvable source
// references rather than erroring.
func (n *VariantNormalizer) normalizeMattresses(inputs []MattressInput, errs fieldErrors) []domain.ProductMattress {
	mattresses := make([]domain.ProductMattress, 0, len(inputs))
	for i, in := range inputs {
		name := strings.TrimSpace(in.Name)
		description := strings.TrimSpace(in.Description)
		imageURL := strings.TrimSpace(in.ImageURL)
		if name == "" && description == "" && imageURL == "" &&
			string(in.Price) == "" && in.SourceProduct == nil {
			continue
		}
		if len(imageURL) > maxURLLength {
			errs.add(fmt.Sprintf("mattresses[%d].image_url", i), "image URL exceeds maximum length")
			continue
		}

		m := domain.ProductMattress{
			Name:                name,
			Description:         description,
			ImageURL:            imageURL,
			EnableBunkPositions: in.EnableBunkPositions,
		}
		ok := true
		m.Price = parseNullDecimal(in.Price, fmt.Sprintf("mattresses[%d].price", i), errs, &ok)
		m.PriceTop = parseNullDecimal(in.PriceTop, fmt.Sprintf("mattresses[%d].price_top", i), errs, &ok)
		m.PriceBottom = parseNullDecimal(in.PriceBottom, fmt.Sprintf("mattresses[%d].price_bottom", i), errs, &ok)
		m.PriceBoth = parseNullDecimal(in.PriceBoth, fmt.Sprintf("mattresses[%d].price_both", i), errs, &ok)
		if !ok {
			continue
		}

		if in.SourceProduct != nil && n.ProductExists != nil && n.ProductExists(*in.SourceProduct) {
			m.SourceProductID = in.SourceProduct
		}
		mattresses = append(mattresses, m)
	}
	return mattresses
}

func parseNullDecimal(raw FlexString, field string, errs fieldErrors, ok *bool) decimal.NullDecimal {
	s := strings.TrimSpace(string(raw))
	if s == "" {
		return decimal.NullDecimal{}
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		errs.add(field, "invalid decimal value")
		*ok = false
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: d, Valid: true}
}
