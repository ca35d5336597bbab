package nvenc

import (
	"testing"

	"github.com/smazurov/nvencd/internal/encoder"
	"github.com/smazurov/nvencd/internal/properties"
	"github.com/smazurov/nvencd/internal/settings"
)

func newFormAndStore(t *testing.T, variant encoder.Variant) (*properties.Form, *settings.Store) {
	t.Helper()
	s := settings.New()
	ApplyDefaults(s)
	return NewForm(variant), s
}

func visible(t *testing.T, f *properties.Form, name string) bool {
	t.Helper()
	p := f.Get(name)
	if p == nil {
		t.Fatalf("property %q missing from form", name)
	}
	return p.Visible
}

func TestVisibilityPerMode(t *testing.T) {
	cases := []struct {
		name       string
		mode       RateControlMode
		bitrate    bool
		bitrateMax bool
		quality    bool
		qp         bool
		qpInit     bool
	}{
		{"cqp", RCModeCQP, false, false, false, true, false},
		{"cbr", RCModeCBR, true, false, false, false, false},
		{"cbr_hq", RCModeCBRHQ, true, false, false, false, false},
		{"cbr_ld_hq", RCModeCBRLDHQ, true, false, false, false, false},
		{"vbr", RCModeVBR, true, true, true, false, true},
		{"vbr_hq", RCModeVBRHQ, true, true, true, false, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f, s := newFormAndStore(t, encoder.VariantH264)
			s.SetInt(KeyRateControlMode, int64(tc.mode))
			ApplyVisibility(f, s)

			if got := visible(t, f, KeyBitrateTarget); got != tc.bitrate {
				t.Errorf("bitrate target visible = %v, want %v", got, tc.bitrate)
			}
			if got := visible(t, f, KeyBitrateMaximum); got != tc.bitrateMax {
				t.Errorf("bitrate maximum visible = %v, want %v", got, tc.bitrateMax)
			}
			if got := visible(t, f, KeyGroupBitrate); got != (tc.bitrate || tc.bitrateMax) {
				t.Errorf("bitrate group visible = %v", got)
			}
			if got := visible(t, f, KeyBufferSize); got != (tc.bitrate || tc.bitrateMax) {
				t.Errorf("buffer size visible = %v", got)
			}
			for _, key := range []string{KeyGroupQuality, KeyQualityMinimum, KeyQualityMaximum, KeyQualityTarget} {
				if got := visible(t, f, key); got != tc.quality {
					t.Errorf("%s visible = %v, want %v", key, got, tc.quality)
				}
			}
			for _, key := range []string{KeyQPI, KeyQPP, KeyQPB} {
				if got := visible(t, f, key); got != tc.qp {
					t.Errorf("%s visible = %v, want %v", key, got, tc.qp)
				}
			}
			for _, key := range []string{KeyQPIInitial, KeyQPPInitial, KeyQPBInitial} {
				if got := visible(t, f, key); got != tc.qpInit {
					t.Errorf("%s visible = %v, want %v", key, got, tc.qpInit)
				}
			}
			if got := visible(t, f, KeyGroupQP); got != (tc.qp || tc.qpInit) {
				t.Errorf("QP group visible = %v", got)
			}
		})
	}
}

// For every mode exactly one of {bitrate-only, bitrate+quality, QP} is
// active, and the three are pairwise disjoint.
func TestVisibilityGroupsDisjoint(t *testing.T) {
	modes := []RateControlMode{RCModeCQP, RCModeVBR, RCModeVBRHQ, RCModeCBR, RCModeCBRHQ, RCModeCBRLDHQ}
	for _, mode := range modes {
		f, s := newFormAndStore(t, encoder.VariantH264)
		s.SetInt(KeyRateControlMode, int64(mode))
		ApplyVisibility(f, s)

		qp := visible(t, f, KeyQPI)
		quality := visible(t, f, KeyQualityMinimum)
		bitrateOnly := visible(t, f, KeyBitrateTarget) && !quality

		active := 0
		for _, v := range []bool{bitrateOnly, quality, qp} {
			if v {
				active++
			}
		}
		if active != 1 {
			t.Errorf("mode %d: %d field groups active, want exactly 1", mode, active)
		}
		if qp && (quality || visible(t, f, KeyBitrateTarget)) {
			t.Errorf("mode %d: QP group overlaps bitrate/quality", mode)
		}
	}
}

func TestVisibilityQualityToggleEnablesRange(t *testing.T) {
	f, s := newFormAndStore(t, encoder.VariantH264)
	s.SetInt(KeyRateControlMode, int64(RCModeVBR))

	ApplyVisibility(f, s)
	if f.Get(KeyQualityMinimum).Enabled || f.Get(KeyQualityMaximum).Enabled {
		t.Error("quality range enabled while toggle is off")
	}

	s.SetBool(KeyGroupQuality, true)
	ApplyVisibility(f, s)
	if !f.Get(KeyQualityMinimum).Enabled || !f.Get(KeyQualityMaximum).Enabled {
		t.Error("quality range disabled while toggle is on")
	}
}

func TestVisibilityAQStrength(t *testing.T) {
	cases := []struct {
		value int64
		want  bool
	}{
		{int64(TristateUnset), false},
		{int64(TristateDisabled), false},
		{int64(TristateEnabled), true},
	}
	for _, tc := range cases {
		f, s := newFormAndStore(t, encoder.VariantH264)
		s.SetInt(KeyAQSpatial, tc.value)
		ApplyVisibility(f, s)
		if got := visible(t, f, KeyAQStrength); got != tc.want {
			t.Errorf("spatial AQ %d: strength visible = %v, want %v", tc.value, got, tc.want)
		}
	}
}

func TestVisibilityIdempotent(t *testing.T) {
	f, s := newFormAndStore(t, encoder.VariantH264)
	s.SetInt(KeyRateControlMode, int64(RCModeVBR))

	ApplyVisibility(f, s)
	first := make(map[string][2]bool)
	for _, p := range f.Properties() {
		first[p.Name] = [2]bool{p.Visible, p.Enabled}
	}

	ApplyVisibility(f, s)
	ApplyVisibility(f, s)
	for _, p := range f.Properties() {
		if got := [2]bool{p.Visible, p.Enabled}; got != first[p.Name] {
			t.Errorf("%s changed on re-run: %v != %v", p.Name, got, first[p.Name])
		}
	}
}

func TestAdaptiveBOnlyOnH264(t *testing.T) {
	h264 := NewForm(encoder.VariantH264)
	if !h264.Has(KeyAdaptiveB) {
		t.Error("h264_nvenc form lacks the AdaptiveB control")
	}

	hevc := NewForm(encoder.VariantHEVC)
	if hevc.Has(KeyAdaptiveB) {
		t.Error("hevc_nvenc form offers the AdaptiveB control")
	}
}

func TestRuntimeLockdown(t *testing.T) {
	f, s := newFormAndStore(t, encoder.VariantH264)
	ApplyVisibility(f, s)
	ApplyRuntimeLockdown(f)

	editable := map[string]bool{
		KeyGroupBitrate:   true,
		KeyBitrateTarget:  true,
		KeyBitrateMaximum: true,
		KeyBufferSize:     true,
	}
	for _, p := range f.Properties() {
		want := editable[p.Name]
		if p.Enabled != want {
			t.Errorf("%s enabled = %v during session, want %v", p.Name, p.Enabled, want)
		}
	}
}
