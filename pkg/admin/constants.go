// Package admin is a client for the OpenTTD Admin Port: a length-prefixed
// binary TCP protocol for authenticating to, querying, and issuing
// rcon/chat/gamescript commands against a running OpenTTD dedicated server.
package admin

// Constant names and values are taken from OpenTTD's
// src/network/core/config.h, same as the teacher's and the original
// libottdadmin2's constants.py.
const (
	// NetworkAdminPort is the default TCP port for the admin interface.
	NetworkAdminPort = 3977

	// SendMTU is the maximum size, in bytes, of a single framed packet
	// (length prefix + id + body). Packets that would exceed this are
	// invalid to emit.
	SendMTU = 1460

	maxNameLength        = 80  // server name / map name, including NUL
	maxCompanyNameLength = 128 // company name / manager, including NUL
	maxHostnameLength    = 80  // client hostname, including NUL
	maxRevisionLength    = 33  // admin/client version string, including NUL
	maxPasswordLength    = 33  // join password, including NUL
	maxClientNameLength  = 25  // client name, including NUL
	maxRconCommandLength = 500 // rcon command/result, including NUL
	maxGamescriptLength  = 1450
	maxChatLength        = 900
)

// DefaultPollTimeoutMillis is the default maximum wait, in milliseconds, per
// dispatcher wake-up when polling for readiness.
const DefaultPollTimeoutMillis = 250
