// Copyright 2026 Contributors to the fritz-go project.
// SPDX-License-Identifier: Apache-2.0

package homeauto

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	fritz "github.com/ShortDevelopment/fritz-go"
)

const deviceListDoc = `<?xml version="1.0" encoding="utf-8"?>
<devicelist version="17">
<device identifier="08761 0000434" id="17" functionbitmask="896" fwversion="03.33" manufacturer="AVM" productname="FRITZ!DECT 200">
<present>1</present>
<name>Steckdose Wohnzimmer</name>
<switch><state>1</state><mode>auto</mode><lock>0</lock></switch>
<temperature><celsius>255</celsius><offset>-10</offset></temperature>
</device>
<device identifier="12345 0000123" id="20" functionbitmask="237572" fwversion="04.16" manufacturer="AVM" productname="FRITZ!DECT 500">
<present>0</present>
<name>Lampe</name>
</device>
</devicelist>`

const singleDeviceListDoc = `<?xml version="1.0" encoding="utf-8"?>
<devicelist version="17">
<device identifier="08761 0000434" id="17" functionbitmask="896" fwversion="03.33" manufacturer="AVM" productname="FRITZ!DECT 200">
<present>1</present>
<name>Steckdose Wohnzimmer</name>
</device>
</devicelist>`

const deviceInfoDoc = `<?xml version="1.0" encoding="utf-8"?>
<device identifier="08761 0000434" id="17" functionbitmask="896" fwversion="03.33" manufacturer="AVM" productname="FRITZ!DECT 200">
<present>1</present>
<name>Steckdose Wohnzimmer</name>
<switch><state>0</state><mode>manuell</mode><lock>0</lock></switch>
</device>`

func commandHandler(t *testing.T, wantCmd string, contentType, body string) (http.HandlerFunc, *int) {
	calls := new(int)

	return func(w http.ResponseWriter, r *http.Request) {
		*calls++

		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/webservices/homeautoswitch.lua", r.URL.Path)
		assert.Equal(t, wantCmd, r.URL.Query().Get("switchcmd"))

		w.Header().Set("Content-Type", contentType)
		fmt.Fprint(w, body)
	}, calls
}

func newTestService(t *testing.T, h http.Handler) (*Service, func()) {
	client, teardown := fritz.NewTestingClient(h)

	svc, err := NewService(client)
	require.NoError(t, err)

	return svc, teardown
}

func TestNewService_nil_client(t *testing.T) {
	_, err := NewService(nil)
	assert.EqualError(t, err, "no client supplied")
}

func TestService_ListDevices(t *testing.T) {
	h, _ := commandHandler(t, "getdevicelistinfos", "text/xml", deviceListDoc)

	svc, teardown := newTestService(t, h)
	defer teardown()

	devices, err := svc.ListDevices(context.Background())
	require.NoError(t, err)
	require.Len(t, devices, 2)

	socket := devices[0]
	assert.Equal(t, "08761 0000434", socket.Identifier)
	assert.Equal(t, "087610000434", socket.AIN())
	assert.Equal(t, "Steckdose Wohnzimmer", socket.Name)
	assert.Equal(t, "AVM", socket.Manufacturer)
	assert.Equal(t, "FRITZ!DECT 200", socket.Product)
	assert.Equal(t, "03.33", socket.Firmware)
	assert.True(t, socket.Present)
	assert.True(t, socket.Functions.Has(FunctionSwitchSocket|FunctionEnergyMeter|FunctionTemperatureSensor))
	assert.False(t, socket.Functions.Has(FunctionColorControl))

	require.NotNil(t, socket.Switch)
	assert.True(t, socket.Switch.On)
	assert.Equal(t, "auto", socket.Switch.Mode)

	require.NotNil(t, socket.Temperature)
	assert.InDelta(t, 25.5, socket.Temperature.Celsius, 0.001)
	assert.InDelta(t, -1.0, socket.Temperature.Offset, 0.001)

	bulb := devices[1]
	assert.False(t, bulb.Present)
	assert.True(t, bulb.Functions.Has(FunctionColorControl|FunctionLevelControl|FunctionLight))
	assert.Nil(t, bulb.Switch)
	assert.Nil(t, bulb.Temperature)
}

func TestService_ListDevices_single_device(t *testing.T) {
	h, _ := commandHandler(t, "getdevicelistinfos", "text/xml", singleDeviceListDoc)

	svc, teardown := newTestService(t, h)
	defer teardown()

	devices, err := svc.ListDevices(context.Background())
	require.NoError(t, err)
	require.Len(t, devices, 1)

	assert.Equal(t, "Steckdose Wohnzimmer", devices[0].Name)
}

func TestService_GetDevice(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "getdeviceinfos", r.URL.Query().Get("switchcmd"))
		assert.Equal(t, "087610000434", r.URL.Query().Get("ain"))

		w.Header().Set("Content-Type", "text/xml")
		fmt.Fprint(w, deviceInfoDoc)
	})

	svc, teardown := newTestService(t, h)
	defer teardown()

	device, err := svc.GetDevice(context.Background(), "087610000434")
	require.NoError(t, err)

	assert.Equal(t, "Steckdose Wohnzimmer", device.Name)
	require.NotNil(t, device.Switch)
	assert.False(t, device.Switch.On)
	assert.Equal(t, "manuell", device.Switch.Mode)
}

func TestService_GetDevice_unknown_ain(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad request", http.StatusBadRequest)
	})

	svc, teardown := newTestService(t, h)
	defer teardown()

	_, err := svc.GetDevice(context.Background(), "000000000000")
	assert.ErrorIs(t, err, ErrDeviceNotFound)

	var rf *fritz.RequestFailedError
	assert.ErrorAs(t, err, &rf)
}

func TestService_ListSwitches(t *testing.T) {
	h, _ := commandHandler(t, "getswitchlist", "text/plain", "08761 0000434,08761 0000436\n")

	svc, teardown := newTestService(t, h)
	defer teardown()

	ains, err := svc.ListSwitches(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"08761 0000434", "08761 0000436"}, ains)
}

func TestService_ListSwitches_empty(t *testing.T) {
	h, _ := commandHandler(t, "getswitchlist", "text/plain", "\n")

	svc, teardown := newTestService(t, h)
	defer teardown()

	ains, err := svc.ListSwitches(context.Background())
	require.NoError(t, err)

	assert.Empty(t, ains)
}

func TestService_SwitchState_on(t *testing.T) {
	h, _ := commandHandler(t, "getswitchstate", "text/plain", "1\n")

	svc, teardown := newTestService(t, h)
	defer teardown()

	on, err := svc.SwitchState(context.Background(), "087610000434")
	require.NoError(t, err)

	assert.True(t, on)
}

func TestService_SwitchState_inval(t *testing.T) {
	h, _ := commandHandler(t, "getswitchstate", "text/plain", "inval\n")

	svc, teardown := newTestService(t, h)
	defer teardown()

	_, err := svc.SwitchState(context.Background(), "000000000000")
	assert.ErrorIs(t, err, ErrDeviceNotFound)
}

func TestService_SwitchToggle(t *testing.T) {
	h, _ := commandHandler(t, "setswitchtoggle", "text/plain", "0\n")

	svc, teardown := newTestService(t, h)
	defer teardown()

	on, err := svc.SwitchToggle(context.Background(), "087610000434")
	require.NoError(t, err)

	assert.False(t, on)
}

func TestService_SwitchOn(t *testing.T) {
	h, calls := commandHandler(t, "setswitchon", "text/plain", "1\n")

	svc, teardown := newTestService(t, h)
	defer teardown()

	require.NoError(t, svc.SwitchOn(context.Background(), "087610000434"))
	assert.Equal(t, 1, *calls)
}

func TestService_SetLevel(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "setlevel", r.URL.Query().Get("switchcmd"))
		assert.Equal(t, "128", r.URL.Query().Get("level"))
		assert.Equal(t, "087610000434", r.URL.Query().Get("ain"))
	})

	svc, teardown := newTestService(t, h)
	defer teardown()

	require.NoError(t, svc.SetLevel(context.Background(), "087610000434", 128))
}

func TestService_SetLevel_out_of_range(t *testing.T) {
	svc, teardown := newTestService(t, http.NewServeMux())
	defer teardown()

	err := svc.SetLevel(context.Background(), "087610000434", 300)
	assert.ErrorContains(t, err, "out of range")
}

func TestService_SetLevelPercentage_out_of_range(t *testing.T) {
	svc, teardown := newTestService(t, http.NewServeMux())
	defer teardown()

	err := svc.SetLevelPercentage(context.Background(), "087610000434", -1)
	assert.ErrorContains(t, err, "out of range")
}

func TestService_SetColor_temperature(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "setcolortemperature", r.URL.Query().Get("switchcmd"))
		assert.Equal(t, "2700", r.URL.Query().Get("temperature"))
		assert.Equal(t, "5", r.URL.Query().Get("duration"))
	})

	svc, teardown := newTestService(t, h)
	defer teardown()

	err := svc.SetColor(context.Background(), "135790000123", ColorTemperature(2700), 500*time.Millisecond)
	require.NoError(t, err)
}

func TestService_SetColor_hue_saturation(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "setcolor", r.URL.Query().Get("switchcmd"))
		assert.Equal(t, "254", r.URL.Query().Get("hue"))
		assert.Equal(t, "210", r.URL.Query().Get("saturation"))
		assert.Equal(t, "0", r.URL.Query().Get("duration"))
	})

	svc, teardown := newTestService(t, h)
	defer teardown()

	err := svc.SetColor(context.Background(), "135790000123", HueSaturation{Hue: 254, Saturation: 210}, 0)
	require.NoError(t, err)
}

func TestService_SetColor_nil_color(t *testing.T) {
	svc, teardown := newTestService(t, http.NewServeMux())
	defer teardown()

	err := svc.SetColor(context.Background(), "135790000123", nil, 0)
	assert.EqualError(t, err, "no color supplied")
}

func TestDevice_Serialize(t *testing.T) {
	d := Device{
		Identifier:   "08761 0000434",
		ID:           "17",
		Name:         "Steckdose Wohnzimmer",
		Manufacturer: "AVM",
		Product:      "FRITZ!DECT 200",
		Firmware:     "03.33",
		Present:      true,
		Functions:    FunctionSwitchSocket | FunctionEnergyMeter,
		Switch:       &Switch{On: true, Mode: "auto"},
	}

	m := d.Serialize()

	assert.Equal(t, 1, m["version"])
	assert.Equal(t, "087610000434", m["ain"])
	assert.Equal(t, "Steckdose Wohnzimmer", m["name"])
	assert.Equal(t, uint32(FunctionSwitchSocket|FunctionEnergyMeter), m["functions"])

	sw, ok := m["switch"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, true, sw["on"])

	_, hasTemperature := m["temperature"]
	assert.False(t, hasTemperature)
}
