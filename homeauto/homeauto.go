// Copyright 2026 Contributors to the fritz-go project.
// SPDX-License-Identifier: Apache-2.0

// Package homeauto drives the router's home automation interface: device
// inventory, switchable sockets, dimmers and color bulbs. All operations go
// through /webservices/homeautoswitch.lua and require an authenticated
// client (see the auth package).
package homeauto

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	fritz "github.com/ShortDevelopment/fritz-go"
)

const switchPath = "/webservices/homeautoswitch.lua"

// ErrDeviceNotFound is reported when the router does not know the requested
// actor, either via a 400 reply or an "inval" result.
var ErrDeviceNotFound = errors.New("device not found")

func command(name string, shape func() interface{}) fritz.Endpoint {
	return fritz.Endpoint{
		Method:  http.MethodGet,
		Path:    switchPath,
		Command: name,
		Shape:   shape,
	}
}

var (
	deviceListEndpoint = command("getdevicelistinfos", func() interface{} { return &deviceListDocument{} })
	deviceInfoEndpoint = command("getdeviceinfos", func() interface{} { return &deviceDocument{} })

	switchListEndpoint   = command("getswitchlist", nil)
	switchStateEndpoint  = command("getswitchstate", nil)
	switchOnEndpoint     = command("setswitchon", nil)
	switchOffEndpoint    = command("setswitchoff", nil)
	switchToggleEndpoint = command("setswitchtoggle", nil)

	levelEndpoint           = command("setlevel", nil)
	levelPercentageEndpoint = command("setlevelpercentage", nil)
)

// Service is the primary interface to the home automation API.
type Service struct {
	// Client is the underlying client used for HTTP requests; it should
	// carry the session middleware.
	Client *fritz.Client
}

// NewService creates a Service on top of an existing client.
func NewService(c *fritz.Client) (*Service, error) {
	if c == nil {
		return nil, errors.New("no client supplied")
	}

	return &Service{Client: c}, nil
}

// ListDevices fetches the full device inventory.
func (s *Service) ListDevices(ctx context.Context) ([]Device, error) {
	res, err := s.Client.Call(ctx, deviceListEndpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("device list request failed: %w", err)
	}
	defer res.Close()

	data, err := res.Data()
	if err != nil {
		return nil, err
	}

	doc, ok := data.(*deviceListDocument)
	if !ok {
		return nil, fmt.Errorf("unexpected device list type %T", data)
	}

	return devicesFrom(doc.DeviceList.Device)
}

// GetDevice fetches one device by its actor identification number.
func (s *Service) GetDevice(ctx context.Context, ain string) (*Device, error) {
	res, err := s.Client.Call(ctx, deviceInfoEndpoint, ainValues(ain))
	if err != nil {
		return nil, fmt.Errorf("device info request failed: %w", err)
	}
	defer res.Close()

	data, err := res.Data()
	if err != nil {
		return nil, translateNotFound(ain, err)
	}

	doc, ok := data.(*deviceDocument)
	if !ok {
		return nil, fmt.Errorf("unexpected device document type %T", data)
	}

	devices, err := devicesFrom(doc.Device)
	if err != nil {
		return nil, err
	}
	if len(devices) == 0 {
		return nil, fmt.Errorf("device %q: %w", ain, ErrDeviceNotFound)
	}

	return &devices[0], nil
}

// ListSwitches returns the actor identification numbers of all switchable
// sockets.
func (s *Service) ListSwitches(ctx context.Context) ([]string, error) {
	reply, err := s.text(ctx, switchListEndpoint, "", nil)
	if err != nil {
		return nil, err
	}

	var ains []string
	for _, ain := range strings.Split(reply, ",") {
		if ain = strings.TrimSpace(ain); ain != "" {
			ains = append(ains, ain)
		}
	}

	return ains, nil
}

// SwitchState reports whether the socket is currently on.
func (s *Service) SwitchState(ctx context.Context, ain string) (bool, error) {
	reply, err := s.text(ctx, switchStateEndpoint, ain, nil)
	if err != nil {
		return false, err
	}

	return parseSwitchReply(ain, reply)
}

// SwitchOn turns the socket on.
func (s *Service) SwitchOn(ctx context.Context, ain string) error {
	reply, err := s.text(ctx, switchOnEndpoint, ain, nil)
	if err != nil {
		return err
	}

	_, err = parseSwitchReply(ain, reply)
	return err
}

// SwitchOff turns the socket off.
func (s *Service) SwitchOff(ctx context.Context, ain string) error {
	reply, err := s.text(ctx, switchOffEndpoint, ain, nil)
	if err != nil {
		return err
	}

	_, err = parseSwitchReply(ain, reply)
	return err
}

// SwitchToggle flips the socket and returns the new state.
func (s *Service) SwitchToggle(ctx context.Context, ain string) (bool, error) {
	reply, err := s.text(ctx, switchToggleEndpoint, ain, nil)
	if err != nil {
		return false, err
	}

	return parseSwitchReply(ain, reply)
}

// SetLevel sets a dimmer or blind to an absolute level between 0 and 255.
func (s *Service) SetLevel(ctx context.Context, ain string, level int) error {
	if level < 0 || level > 255 {
		return fmt.Errorf("level %d out of range 0..255", level)
	}

	extra := url.Values{}
	extra.Set("level", strconv.Itoa(level))

	_, err := s.text(ctx, levelEndpoint, ain, extra)
	return err
}

// SetLevelPercentage sets a dimmer or blind to a level between 0 and 100
// percent.
func (s *Service) SetLevelPercentage(ctx context.Context, ain string, pct int) error {
	if pct < 0 || pct > 100 {
		return fmt.Errorf("percentage %d out of range 0..100", pct)
	}

	extra := url.Values{}
	extra.Set("level", strconv.Itoa(pct))

	_, err := s.text(ctx, levelPercentageEndpoint, ain, extra)
	return err
}

// SetColor applies a color command to a bulb, fading over the given
// duration. The command issued depends on the Color variant.
func (s *Service) SetColor(ctx context.Context, ain string, c Color, fade time.Duration) error {
	if c == nil {
		return errors.New("no color supplied")
	}

	extra := c.values()
	extra.Set("duration", strconv.Itoa(int(fade/(100*time.Millisecond))))

	_, err := s.text(ctx, command(c.command(), nil), ain, extra)
	return err
}

// text performs a command whose reply is a plain text value.
func (s *Service) text(
	ctx context.Context,
	ep fritz.Endpoint,
	ain string,
	extra url.Values,
) (string, error) {
	payload := ainValues(ain)
	for k, vs := range extra {
		payload[k] = vs
	}

	res, err := s.Client.Call(ctx, ep, payload)
	if err != nil {
		return "", fmt.Errorf("%s request failed: %w", ep.Command, err)
	}
	defer res.Close()

	data, err := res.Data()
	if err != nil {
		return "", translateNotFound(ain, err)
	}

	reply, ok := data.(string)
	if !ok {
		return "", fmt.Errorf("%s: unexpected reply type %T", ep.Command, data)
	}

	return strings.TrimSpace(reply), nil
}

func ainValues(ain string) url.Values {
	payload := url.Values{}
	if ain != "" {
		payload.Set("ain", ain)
	}

	return payload
}

func parseSwitchReply(ain, reply string) (bool, error) {
	switch reply {
	case "0":
		return false, nil
	case "1":
		return true, nil
	case "inval":
		return false, fmt.Errorf("device %q: %w", ain, ErrDeviceNotFound)
	}

	return false, fmt.Errorf("unexpected switch reply %q", reply)
}

// translateNotFound maps the router's 400 reply for an unknown actor onto
// ErrDeviceNotFound while keeping the transport error in the chain.
func translateNotFound(ain string, err error) error {
	var rf *fritz.RequestFailedError
	if ain != "" && errors.As(err, &rf) && rf.StatusCode == http.StatusBadRequest {
		return fmt.Errorf("device %q: %w: %w", ain, ErrDeviceNotFound, err)
	}

	return err
}
