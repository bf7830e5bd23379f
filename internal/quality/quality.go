package quality

import (
	"fmt"
	"strings"

	"reel/internal/services"
)

// Tier names a quality preset from the static catalog.
type Tier string

const (
	TierBest   Tier = "best"
	TierHigh   Tier = "high"
	TierMedium Tier = "medium"
	TierLow    Tier = "low"
	TierAudio  Tier = "audio"
)

// Spec carries everything a tier implies: the extraction format selector
// (an ordered fallback chain, best candidate first) and the transcode
// rate-control pair.
type Spec struct {
	Tier           Tier
	HeightCeiling  int
	FormatSelector string
	CRF            int
	Preset         string
	AudioOnly      bool
}

var catalog = map[Tier]Spec{
	TierBest: {
		Tier:           TierBest,
		FormatSelector: "bestvideo+bestaudio/best",
		CRF:            18,
		Preset:         "slow",
	},
	TierHigh: {
		Tier:           TierHigh,
		HeightCeiling:  1080,
		FormatSelector: selectorWithCeiling(1080),
		CRF:            20,
		Preset:         "medium",
	},
	TierMedium: {
		Tier:           TierMedium,
		HeightCeiling:  720,
		FormatSelector: selectorWithCeiling(720),
		CRF:            23,
		Preset:         "medium",
	},
	TierLow: {
		Tier:           TierLow,
		HeightCeiling:  480,
		FormatSelector: selectorWithCeiling(480),
		CRF:            28,
		Preset:         "fast",
	},
	TierAudio: {
		Tier:           TierAudio,
		FormatSelector: "bestaudio/best",
		CRF:            0,
		Preset:         "",
		AudioOnly:      true,
	},
}

// selectorWithCeiling renders a fallback chain that never selects video
// taller than the ceiling while it can avoid it: capped best split
// streams, then capped muxed, then anything.
func selectorWithCeiling(height int) string {
	return fmt.Sprintf(
		"bestvideo[height<=%d]+bestaudio/best[height<=%d]/best",
		height, height,
	)
}

// Lookup resolves a tier name. Empty input means the default tier.
func Lookup(name string) (Spec, error) {
	if strings.TrimSpace(name) == "" {
		return catalog[TierBest], nil
	}
	spec, ok := catalog[Tier(strings.ToLower(strings.TrimSpace(name)))]
	if !ok {
		return Spec{}, services.Wrap(services.ErrValidation, "quality", "lookup",
			fmt.Sprintf("unknown quality tier %q", name), nil)
	}
	return spec, nil
}

// Tiers lists the catalog in descending quality order.
func Tiers() []Tier {
	return []Tier{TierBest, TierHigh, TierMedium, TierLow, TierAudio}
}
