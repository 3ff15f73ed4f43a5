// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package analytics

import (
	"crypto/sha256"
	"encoding/hex"
	"net"
	"time"
)

// AnonymizeIP masks the host part of an address: the last octet for IPv4,
// the last 80 bits for IPv6. Invalid input yields "".
func AnonymizeIP(ip string) string {
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return ""
	}

	if v4 := parsed.To4(); v4 != nil {
		v4[3] = 0
		return v4.String()
	}

	v6 := parsed.To16()
	for i := 6; i < 16; i++ {
		v6[i] = 0
	}
	return v6.String()
}

// VisitorHash fingerprints a visitor for one UTC day. The same browser on the
// same network hashes identically within a day and differently across days.
func VisitorHash(salt, ip, userAgent string, day time.Time) string {
	h := sha256.New()
	h.Write([]byte(AnonymizeIP(ip)))
	h.Write([]byte{0})
	h.Write([]byte(userAgent))
	h.Write([]byte{0})
	h.Write([]byte(day.UTC().Format(time.DateOnly)))
	h.Write([]byte{0})
	h.Write([]byte(salt))
	return hex.EncodeToString(h.Sum(nil))[:16]
}
