// Copyright 2026 Contributors to the fritz-go project.
// SPDX-License-Identifier: Apache-2.0

package homeauto

import (
	"net/url"
	"strconv"
)

// Color selects the variant of a set-color command: either a white color
// temperature or a hue/saturation pair. The two variants map to different
// router commands, so the dispatch is explicit rather than by argument type.
type Color interface {
	command() string
	values() url.Values
}

// ColorTemperature is a white color temperature in Kelvin. The router
// accepts 2700–6500 K.
type ColorTemperature uint16

func (t ColorTemperature) command() string { return "setcolortemperature" }

func (t ColorTemperature) values() url.Values {
	v := url.Values{}
	v.Set("temperature", strconv.Itoa(int(t)))

	return v
}

// HueSaturation is a color in the router's HSV palette: hue in degrees
// (0–359) and saturation (0–255).
type HueSaturation struct {
	Hue        uint16
	Saturation uint8
}

func (c HueSaturation) command() string { return "setcolor" }

func (c HueSaturation) values() url.Values {
	v := url.Values{}
	v.Set("hue", strconv.Itoa(int(c.Hue)))
	v.Set("saturation", strconv.Itoa(int(c.Saturation)))

	return v
}
