package nvenc

import (
	"reflect"
	"testing"

	"github.com/smazurov/nvencd/internal/settings"
)

func TestApplyDefaultsValues(t *testing.T) {
	s := settings.New()
	ApplyDefaults(s)

	intDefaults := map[string]int64{
		KeyPreset:              int64(PresetDefault),
		KeyRateControlMode:     int64(RCModeCBRHQ),
		KeyTwoPass:             -1,
		KeyLookAhead:           0,
		KeyAdaptiveI:           -1,
		KeyAdaptiveB:           -1,
		KeyBitrateTarget:       6000,
		KeyBitrateMaximum:      6000,
		KeyBufferSize:          12000,
		KeyQualityMinimum:      51,
		KeyQualityMaximum:      -1,
		KeyQPI:                 21,
		KeyQPIInitial:          -1,
		KeyQPP:                 21,
		KeyQPPInitial:          -1,
		KeyQPB:                 21,
		KeyQPBInitial:          -1,
		KeyAQSpatial:           -1,
		KeyAQTemporal:          -1,
		KeyAQStrength:          8,
		KeyBFrames:             2,
		KeyBFrameReferenceMode: int64(BRefModeDisabled),
		KeyZeroLatency:         -1,
		KeyWeightedPrediction:  -1,
		KeyNonReferencePFrames: -1,
		KeyLegacyBitrate:       0,
	}
	for key, want := range intDefaults {
		if got := s.Int(key); got != want {
			t.Errorf("%s: default %d, want %d", key, got, want)
		}
	}

	if got := s.Float(KeyQualityTarget); got != 0 {
		t.Errorf("%s: default %v, want 0", KeyQualityTarget, got)
	}
	if s.Bool(KeyGroupQuality) {
		t.Errorf("%s: quality toggle defaults on", KeyGroupQuality)
	}
}

func TestApplyDefaultsIdempotent(t *testing.T) {
	a := settings.New()
	ApplyDefaults(a)
	once := a.Snapshot()

	b := settings.New()
	ApplyDefaults(b)
	ApplyDefaults(b)
	twice := b.Snapshot()

	if !reflect.DeepEqual(once, twice) {
		t.Errorf("defaults differ after second application:\nonce:  %v\ntwice: %v", once, twice)
	}
}

func TestApplyDefaultsLeavesUserValues(t *testing.T) {
	s := settings.New()
	s.SetInt(KeyBFrames, 4)
	ApplyDefaults(s)

	if got := s.Int(KeyBFrames); got != 4 {
		t.Errorf("user value overwritten by defaults: got %d", got)
	}
}
