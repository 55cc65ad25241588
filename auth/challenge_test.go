// Copyright 2026 Contributors to the fritz-go project.
// SPDX-License-Identifier: Apache-2.0

package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeResponse_v1_vector(t *testing.T) {
	// reference vector from the vendor's session documentation
	response, err := ComputeResponse("1234567z", "äbc")
	require.NoError(t, err)

	assert.Equal(t, "1234567z-9e224a41eeefa284df7bb0f26c2913e2", response)
}

func TestComputeResponse_v2_vector(t *testing.T) {
	response, err := ComputeResponse("2$10000$5A1711$2000$5A1722", "1example!")
	require.NoError(t, err)

	assert.Equal(t,
		"5A1722$1798a1672bca7c6463d6b245f82b53703b0f50813401b03e4045a5861e689adb",
		response)
}

func TestComputeResponse_non_v2_prefix_takes_v1_path(t *testing.T) {
	// looks almost like a v2 challenge, but the prefix is "2x", not "2$"
	challenge := "2x$10000$5A1711"

	response, err := ComputeResponse(challenge, "secret")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(response, challenge+"-"))
}

func TestComputeResponse_v2_wrong_field_count(t *testing.T) {
	_, err := ComputeResponse("2$10000$5A1711$2000", "secret")
	require.Error(t, err)

	var mc *MalformedChallengeError
	require.ErrorAs(t, err, &mc)
	assert.Contains(t, mc.Reason, "5 $-separated fields")
}

func TestComputeResponse_v2_odd_length_salt(t *testing.T) {
	_, err := ComputeResponse("2$10000$5A171$2000$5A1722", "secret")

	var mc *MalformedChallengeError
	require.ErrorAs(t, err, &mc)
	assert.Contains(t, mc.Reason, "first salt")
}

func TestComputeResponse_v2_non_hex_salt(t *testing.T) {
	_, err := ComputeResponse("2$10000$5A1711$2000$ZZZZZZ", "secret")

	var mc *MalformedChallengeError
	require.ErrorAs(t, err, &mc)
	assert.Contains(t, mc.Reason, "second salt")
}

func TestComputeResponse_v2_non_decimal_iterations(t *testing.T) {
	_, err := ComputeResponse("2$many$5A1711$2000$5A1722", "secret")

	var mc *MalformedChallengeError
	require.ErrorAs(t, err, &mc)
	assert.Contains(t, mc.Reason, "iteration count")
}

func TestComputeResponse_is_deterministic(t *testing.T) {
	a, err := ComputeResponse("2$10000$5A1711$2000$5A1722", "1example!")
	require.NoError(t, err)

	b, err := ComputeResponse("2$10000$5A1711$2000$5A1722", "1example!")
	require.NoError(t, err)

	assert.Equal(t, a, b)
}
