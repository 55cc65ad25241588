// Copyright 2026 Contributors to the fritz-go project.
// SPDX-License-Identifier: Apache-2.0

package homeauto

import (
	"fmt"
	"strings"

	fritz "github.com/ShortDevelopment/fritz-go"
)

// Functions is the feature bitmask the router advertises per device.
type Functions uint32

const (
	FunctionHANFUNDevice      Functions = 1 << 0
	FunctionLight             Functions = 1 << 2
	FunctionAlarm             Functions = 1 << 4
	FunctionButton            Functions = 1 << 5
	FunctionThermostat        Functions = 1 << 6
	FunctionEnergyMeter       Functions = 1 << 7
	FunctionTemperatureSensor Functions = 1 << 8
	FunctionSwitchSocket      Functions = 1 << 9
	FunctionRepeater          Functions = 1 << 10
	FunctionMicrophone        Functions = 1 << 11
	FunctionHANFUNUnit        Functions = 1 << 13
	FunctionSwitchControl     Functions = 1 << 15
	FunctionLevelControl      Functions = 1 << 16
	FunctionColorControl      Functions = 1 << 17
	FunctionBlind             Functions = 1 << 18
)

// Has reports whether every feature in mask is present.
func (f Functions) Has(mask Functions) bool {
	return f&mask == mask
}

// Device is one actor or sensor known to the router.
type Device struct {
	Identifier   string
	ID           string
	Name         string
	Manufacturer string
	Product      string
	Firmware     string
	Present      bool
	Functions    Functions

	// Switch and Temperature are nil for devices without the
	// corresponding feature.
	Switch      *Switch
	Temperature *Temperature
}

// Switch is the state of a switchable socket.
type Switch struct {
	On   bool
	Mode string
	Lock bool
}

// Temperature is a sensor reading in degrees Celsius.
type Temperature struct {
	Celsius float64
	Offset  float64
}

// AIN returns the actor identification number in the compact form the
// homeautoswitch commands accept.
func (d Device) AIN() string {
	return strings.ReplaceAll(d.Identifier, " ", "")
}

// serializationVersion tags the mapping returned by Serialize so consumers
// can detect layout changes.
const serializationVersion = 1

// Serialize returns the device's public fields as a plain mapping.
func (d Device) Serialize() map[string]interface{} {
	m := map[string]interface{}{
		"version":      serializationVersion,
		"identifier":   d.Identifier,
		"ain":          d.AIN(),
		"id":           d.ID,
		"name":         d.Name,
		"manufacturer": d.Manufacturer,
		"product":      d.Product,
		"firmware":     d.Firmware,
		"present":      d.Present,
		"functions":    uint32(d.Functions),
	}

	if d.Switch != nil {
		m["switch"] = map[string]interface{}{
			"on":   d.Switch.On,
			"mode": d.Switch.Mode,
			"lock": d.Switch.Lock,
		}
	}
	if d.Temperature != nil {
		m["temperature"] = map[string]interface{}{
			"celsius": d.Temperature.Celsius,
			"offset":  d.Temperature.Offset,
		}
	}

	return m
}

// deviceListDocument models the getdevicelistinfos XML.
type deviceListDocument struct {
	DeviceList deviceListEntry `mapstructure:"devicelist" validate:"required"`
}

type deviceListEntry struct {
	Version string `mapstructure:"version"`

	// Device holds one subtree per device; a single device arrives as a
	// bare mapping rather than a list, so normalization happens later.
	Device interface{} `mapstructure:"device"`
}

// deviceDocument models the getdeviceinfos XML, whose root is the device
// subtree itself.
type deviceDocument struct {
	Device interface{} `mapstructure:"device" validate:"required"`
}

type deviceEntry struct {
	Identifier   string            `mapstructure:"identifier" validate:"required"`
	ID           string            `mapstructure:"id"`
	Bitmask      uint32            `mapstructure:"functionbitmask"`
	Firmware     string            `mapstructure:"fwversion"`
	Manufacturer string            `mapstructure:"manufacturer"`
	Product      string            `mapstructure:"productname"`
	Present      bool              `mapstructure:"present"`
	Name         string            `mapstructure:"name"`
	Switch       *switchEntry      `mapstructure:"switch"`
	Temperature  *temperatureEntry `mapstructure:"temperature"`
}

type switchEntry struct {
	State bool   `mapstructure:"state"`
	Mode  string `mapstructure:"mode"`
	Lock  bool   `mapstructure:"lock"`
}

type temperatureEntry struct {
	Celsius float64 `mapstructure:"celsius"`
	Offset  float64 `mapstructure:"offset"`
}

func (e deviceEntry) device() Device {
	d := Device{
		Identifier:   e.Identifier,
		ID:           e.ID,
		Name:         e.Name,
		Manufacturer: e.Manufacturer,
		Product:      e.Product,
		Firmware:     e.Firmware,
		Present:      e.Present,
		Functions:    Functions(e.Bitmask),
	}

	if e.Switch != nil {
		d.Switch = &Switch{On: e.Switch.State, Mode: e.Switch.Mode, Lock: e.Switch.Lock}
	}
	if e.Temperature != nil {
		// The router reports tenths of a degree.
		d.Temperature = &Temperature{
			Celsius: e.Temperature.Celsius / 10,
			Offset:  e.Temperature.Offset / 10,
		}
	}

	return d
}

// devicesFrom normalizes the device subtree(s): the XML decoder yields a
// bare mapping for a single device and a list for several.
func devicesFrom(v interface{}) ([]Device, error) {
	if v == nil {
		return nil, nil
	}

	var subtrees []interface{}
	switch t := v.(type) {
	case []interface{}:
		subtrees = t
	default:
		subtrees = []interface{}{t}
	}

	devices := make([]Device, 0, len(subtrees))
	for _, subtree := range subtrees {
		var entry deviceEntry
		if err := fritz.DecodeShape(subtree, &entry); err != nil {
			return nil, fmt.Errorf("decoding device entry: %w", err)
		}
		devices = append(devices, entry.device())
	}

	return devices, nil
}
