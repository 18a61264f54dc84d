package app

import "errors"

var (
	ErrPersonaNotFound  = errors.New("persona not found")
	ErrInvalidURL       = errors.New("invalid URL")
	ErrArchiveNotFound  = errors.New("archive not found")
	ErrAssetNotFound    = errors.New("media asset not found")
	ErrPacketNotFound   = errors.New("sentry packet not found")
	ErrUnknownVPNRegion = errors.New("unknown VPN region")
	ErrVPNLockedByTor   = errors.New("VPN region cannot change while Tor mode is active")
	ErrUnknownToggle    = errors.New("unknown toggle")
	ErrRefererPolicy    = errors.New("referer policy must be secure, strict or none")
)
