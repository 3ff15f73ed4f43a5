// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package analytics

import (
	"github.com/mileusna/useragent"

	"github.com/muratkanik/rotabiletiket/internal/model"
)

// Agent is the parsed form of a User-Agent header.
type Agent struct {
	Browser string
	OS      string
	Device  string
	Bot     bool
}

// ParseUserAgent extracts browser, OS and device type from a user agent string.
func ParseUserAgent(raw string) Agent {
	ua := useragent.Parse(raw)

	agent := Agent{
		Browser: ua.Name,
		OS:      ua.OS,
		Bot:     ua.Bot,
	}
	if agent.Browser == "" {
		agent.Browser = "Unknown"
	}
	if agent.OS == "" {
		agent.OS = "Unknown"
	}

	switch {
	case ua.Mobile:
		agent.Device = model.DeviceMobile
	case ua.Tablet:
		agent.Device = model.DeviceTablet
	case ua.Desktop:
		agent.Device = model.DeviceDesktop
	default:
		agent.Device = model.DeviceUnknown
	}

	// An empty header is almost always a script.
	if raw == "" {
		agent.Bot = true
	}
	return agent
}
