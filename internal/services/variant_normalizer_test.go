package services

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestNormalizeImagesSkipsBlanksRejectsLong(t *testing.T) {
	n := &VariantNormalizer{}
	out, err := n.Normalize(VariantPayload{
		Images: []ImageInput{
			{URL: "https://cdn.example.com/a.jpg", ColorName: "Grey"},
			{URL: "   "},
			{URL: ""},
		},
	})
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if len(out.Images) != 1 {
		t.Fatalf("blank entries must be skipped, got %d images", len(out.Images))
	}
	if out.Images[0].ColorName != "Grey" {
		t.Fatalf("color name lost: %+v", out.Images[0])
	}

	long := "https://cdn.example.com/" + strings.Repeat("x", 1001)
	_, err = n.Normalize(VariantPayload{Images: []ImageInput{{URL: long}}})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, ok := verr.Fields["images[0]"]; !ok {
		t.Fatalf("expected images[0] field error, got %+v", verr.Fields)
	}
}

func TestNormalizeColorsDefaultsHex(t *testing.T) {
	n := &VariantNormalizer{}
	out, err := n.Normalize(VariantPayload{
		Colors: []ColorInput{
			{Name: "Slate"},
			{Name: "Ocean", HexCode: "#0044cc"},
		},
	})
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if out.Colors[0].HexCode != "#000000" {
		t.Fatalf("blank hex must default, got %q", out.Colors[0].HexCode)
	}
	if out.Colors[1].HexCode != "#0044cc" {
		t.Fatalf("supplied hex must pass through, got %q", out.Colors[1].HexCode)
	}

	_, err = n.Normalize(VariantPayload{Colors: []ColorInput{{Name: ""}}})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatal("expected validation error for missing color name")
	}
}

func TestNormalizeSizesAcceptsLegacyStringsAndObjects(t *testing.T) {
	raw := `{"sizes":["3ft Single",{"name":"4ft6 Double","description":"Standard double","price_delta":"80.00"},{"name":"5ft King","price_delta":120}]}`
	var payload VariantPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	n := &VariantNormalizer{}
	out, err := n.Normalize(payload)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if len(out.Sizes) != 3 {
		t.Fatalf("expected 3 sizes, got %d", len(out.Sizes))
	}
	if out.Sizes[0].Name != "3ft Single" || !out.Sizes[0].PriceDelta.IsZero() {
		t.Fatalf("legacy string size mishandled: %+v", out.Sizes[0])
	}
	if out.Sizes[1].PriceDelta.String() != "80" {
		t.Fatalf("unexpected delta %s", out.Sizes[1].PriceDelta)
	}
	if out.Sizes[2].PriceDelta.String() != "120" {
		t.Fatalf("numeric delta mishandled: %s", out.Sizes[2].PriceDelta)
	}
}

func TestNormalizeSizesRejectsBadDelta(t *testing.T) {
	n := &VariantNormalizer{}
	_, err := n.Normalize(VariantPayload{
		Sizes: []SizeInput{{Name: "Double", PriceDelta: "eighty"}},
	})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	msg, ok := verr.Fields["sizes[0].price_delta"]
	if !ok {
		t.Fatalf("expected sizes[0].price_delta error, got %+v", verr.Fields)
	}
	if !strings.Contains(msg, "Double") {
		t.Fatalf("error must name the offending size, got %q", msg)
	}
}

func TestNormalizeStyleNameToken(t *testing.T) {
	n := &VariantNormalizer{}
	out, err := n.Normalize(VariantPayload{
		Styles: []StyleInput{{Name: "Oak Finish"}},
	})
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if out.Styles[0].Name != "Oak-Finish" {
		t.Fatalf("expected Oak-Finish, got %q", out.Styles[0].Name)
	}

	_, err = n.Normalize(VariantPayload{Styles: []StyleInput{{Name: "bad@style"}}})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error for @, got %v", err)
	}
	if _, ok := verr.Fields["styles[0].name"]; !ok {
		t.Fatalf("expected styles[0].name error, got %+v", verr.Fields)
	}
}

func TestNormalizeStyleOptionsFoldSingleSize(t *testing.T) {
	raw := `{"styles":[{"name":"Headboard","options":["Plain",{"label":"Winged","price_delta":"30","size":"4ft6 Double"}]}]}`
	var payload VariantPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	n := &VariantNormalizer{}
	out, err := n.Normalize(payload)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	opts := out.Styles[0].Options
	if len(opts) != 2 {
		t.Fatalf("expected 2 options, got %d", len(opts))
	}
	if opts[0].Label != "Plain" {
		t.Fatalf("bare string option mishandled: %+v", opts[0])
	}
	if len(opts[1].Sizes) != 1 || opts[1].Sizes[0] != "4ft6 Double" {
		t.Fatalf("single size must fold into sizes list, got %+v", opts[1].Sizes)
	}
}

func TestNormalizeStyleSizeResolution(t *testing.T) {
	n := &VariantNormalizer{}
	out, err := n.Normalize(VariantPayload{
		Sizes: []SizeInput{{Name: "Single"}, {Name: "Double"}},
		Styles: []StyleInput{
			{Name: "ByName", Size: "Double"},
			{Name: "Unknown", Size: "Emperor"},
			{Name: "Global"},
		},
	})
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if out.Styles[0].SizeName != "Double" {
		t.Fatalf("by-name reference unresolved: %q", out.Styles[0].SizeName)
	}
	if out.Styles[1].SizeName != "" {
		t.Fatalf("unknown reference must leave style unscoped, got %q", out.Styles[1].SizeName)
	}
	if out.Styles[2].SizeName != "" {
		t.Fatalf("unreferenced style must stay global, got %q", out.Styles[2].SizeName)
	}
}

func TestNormalizeStyleIconCap(t *testing.T) {
	n := &VariantNormalizer{}
	_, err := n.Normalize(VariantPayload{
		Styles: []StyleInput{{Name: "Big", IconURL: strings.Repeat("<svg>", 20000)}},
	})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected icon size validation error, got %v", err)
	}
}

func TestNormalizeFabrics(t *testing.T) {
	n := &VariantNormalizer{}
	out, err := n.Normalize(VariantPayload{
		Fabrics: []FabricInput{
			{Name: "Plush Velvet", Colors: []ColorInput{{Name: "Teal"}}},
			{ImageURL: "https://cdn.example.com/linen.jpg"},
		},
	})
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if len(out.Fabrics) != 2 {
		t.Fatalf("expected 2 fabrics, got %d", len(out.Fabrics))
	}
	if out.Fabrics[0].Colors[0].HexCode != "#000000" {
		t.Fatalf("fabric swatch hex must default, got %q", out.Fabrics[0].Colors[0].HexCode)
	}

	_, err = n.Normalize(VariantPayload{Fabrics: []FabricInput{{}}})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatal("fabric without name or image must be rejected")
	}
}

func TestNormalizeMattresses(t *testing.T) {
	known := uint(7)
	unknown := uint(99)
	n := &VariantNormalizer{ProductExists: func(id uint) bool { return id == known }}

	out, err := n.Normalize(VariantPayload{
		Mattresses: []MattressInput{
			{Name: "Memory Foam", Price: "149.00", SourceProduct: &known},
			{Name: "Orphaned", SourceProduct: &unknown},
			{},
		},
	})
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if len(out.Mattresses) != 2 {
		t.Fatalf("fully empty row must be dropped, got %d", len(out.Mattresses))
	}
	if out.Mattresses[0].SourceProductID == nil || *out.Mattresses[0].SourceProductID != known {
		t.Fatalf("resolvable source must link, got %+v", out.Mattresses[0].SourceProductID)
	}
	if out.Mattresses[1].SourceProductID != nil {
		t.Fatal("unresolvable source must fall back to null, not error")
	}
	if !out.Mattresses[0].Price.Valid || out.Mattresses[0].Price.Decimal.String() != "149" {
		t.Fatalf("price mishandled: %+v", out.Mattresses[0].Price)
	}

	_, err = n.Normalize(VariantPayload{
		Mattresses: []MattressInput{{Name: "Bad", Price: "lots"}},
	})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatal("invalid mattress price must be a validation error")
	}
}

func TestNormalizeAbortsWholeWriteOnAnyError(t *testing.T) {
	n := &VariantNormalizer{}
	out, err := n.Normalize(VariantPayload{
		Colors: []ColorInput{{Name: "Valid"}},
		Sizes:  []SizeInput{{Name: "Double", PriceDelta: "bad"}},
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if out != nil {
		t.Fatal("no partial output may escape a failed normalize")
	}
}
