package encoder

// Variant identifies one encoder of the NVENC family. The value is the
// FFmpeg codec name and is what variant-specific option naming keys off.
type Variant string

const (
	VariantH264 Variant = "h264_nvenc"
	VariantHEVC Variant = "hevc_nvenc"
)

// Name returns the FFmpeg codec name.
func (v Variant) Name() string { return string(v) }

// DisplayName returns the human-readable encoder name.
func (v Variant) DisplayName() string {
	switch v {
	case VariantH264:
		return "NVIDIA NVENC H.264"
	case VariantHEVC:
		return "NVIDIA NVENC H.265/HEVC"
	default:
		return string(v)
	}
}

// IsH264 reports whether this is the H.264 variant. Several options use
// different names or are absent outside h264_nvenc.
func (v Variant) IsH264() bool { return v == VariantH264 }

// Valid reports whether the variant is a known NVENC encoder.
func (v Variant) Valid() bool {
	switch v {
	case VariantH264, VariantHEVC:
		return true
	default:
		return false
	}
}

// Variants returns the supported NVENC encoder variants in declaration order.
func Variants() []Variant {
	return []Variant{VariantH264, VariantHEVC}
}
