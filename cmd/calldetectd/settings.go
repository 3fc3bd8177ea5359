package main

import (
	"fmt"
	"strings"

	ini "gopkg.in/ini.v1"
)

// Settings holds daemon configuration loaded from an ini file.
type Settings struct {
	listenAddr string

	telephonyEnabled bool
	telephonyLegacy  bool

	audioEnabled bool
	audioLegacy  bool
}

// LoadSettings reads daemon configuration from cfg and validates it.
func LoadSettings(cfg *ini.File) (*Settings, error) {
	s := &Settings{}

	sec := cfg.Section("server")
	s.listenAddr = sec.Key("listen").MustString(":8333")
	if !strings.Contains(s.listenAddr, ":") {
		return nil, fmt.Errorf("server.listen %q missing port", s.listenAddr)
	}

	sec = cfg.Section("telephony")
	s.telephonyEnabled = sec.Key("enabled").MustBool(true)
	s.telephonyLegacy = sec.Key("legacy_api").MustBool(false)

	sec = cfg.Section("audio")
	s.audioEnabled = sec.Key("enabled").MustBool(true)
	s.audioLegacy = sec.Key("legacy_api").MustBool(false)

	return s, nil
}

// ListenAddr returns the HTTP listen address.
func (s *Settings) ListenAddr() string { return s.listenAddr }

// TelephonyEnabled reports whether the telephony service is wired.
func (s *Settings) TelephonyEnabled() bool { return s.telephonyEnabled }

// TelephonyLegacy reports whether the telephony simulator uses the
// legacy listener API, which carries caller numbers.
func (s *Settings) TelephonyLegacy() bool { return s.telephonyLegacy }

// AudioEnabled reports whether the audio focus service is wired.
func (s *Settings) AudioEnabled() bool { return s.audioEnabled }

// AudioLegacy reports whether the audio focus simulator uses the
// legacy request API.
func (s *Settings) AudioLegacy() bool { return s.audioLegacy }
