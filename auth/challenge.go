// Copyright 2026 Contributors to the fritz-go project.
// SPDX-License-Identifier: Apache-2.0

package auth

import (
	"crypto/md5"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/pbkdf2"
	"golang.org/x/text/encoding/unicode"
)

// MalformedChallengeError reports a challenge string the router handed out
// in a form the algorithm cannot parse. It is fatal to the login attempt.
type MalformedChallengeError struct {
	Challenge string
	Reason    string
}

func (e *MalformedChallengeError) Error() string {
	return fmt.Sprintf("malformed challenge %q: %s", e.Challenge, e.Reason)
}

const v2Prefix = "2$"

// ComputeResponse derives the login response for a server-issued challenge.
// Challenges starting with "2$" use the PBKDF2 scheme of current firmware;
// everything else falls back to the legacy MD5 scheme. The computation is
// deterministic and performs no I/O; it fails only on a malformed version-2
// challenge.
func ComputeResponse(challenge, password string) (string, error) {
	if strings.HasPrefix(challenge, v2Prefix) {
		return computeV2(challenge, password)
	}

	return computeV1(challenge, password)
}

// computeV1 implements the legacy scheme: MD5 over the UTF-16LE encoding of
// "<challenge>-<password>". The UTF-16 encoding (two bytes per code unit,
// no byte order mark) is what the firmware hashes on its side; UTF-8 would
// not match for passwords outside ASCII.
func computeV1(challenge, password string) (string, error) {
	enc := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewEncoder()

	raw, err := enc.Bytes([]byte(challenge + "-" + password))
	if err != nil {
		return "", fmt.Errorf("encoding login secret: %w", err)
	}

	digest := md5.Sum(raw)

	return challenge + "-" + hex.EncodeToString(digest[:]), nil
}

// computeV2 implements the "2$iter1$salt1$iter2$salt2" scheme: two chained
// PBKDF2-HMAC-SHA256 passes, each deriving 256 bits.
func computeV2(challenge, password string) (string, error) {
	fields := strings.Split(challenge, "$")
	if len(fields) != 5 {
		return "", &MalformedChallengeError{
			Challenge: challenge,
			Reason:    fmt.Sprintf("expected 5 $-separated fields, got %d", len(fields)),
		}
	}

	iter1, err := strconv.Atoi(fields[1])
	if err != nil {
		return "", &MalformedChallengeError{Challenge: challenge, Reason: "first iteration count is not decimal"}
	}

	salt1, err := hex.DecodeString(fields[2])
	if err != nil {
		return "", &MalformedChallengeError{Challenge: challenge, Reason: "first salt is not valid hex"}
	}

	iter2, err := strconv.Atoi(fields[3])
	if err != nil {
		return "", &MalformedChallengeError{Challenge: challenge, Reason: "second iteration count is not decimal"}
	}

	salt2, err := hex.DecodeString(fields[4])
	if err != nil {
		return "", &MalformedChallengeError{Challenge: challenge, Reason: "second salt is not valid hex"}
	}

	hash1 := pbkdf2.Key([]byte(password), salt1, iter1, sha256.Size, sha256.New)
	hash2 := pbkdf2.Key(hash1, salt2, iter2, sha256.Size, sha256.New)

	return fields[4] + "$" + hex.EncodeToString(hash2), nil
}
