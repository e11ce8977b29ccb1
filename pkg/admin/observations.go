package admin

import "time"

// Observation is the typed event a Connection hands to a subscriber
// (spec section 4.6). original_source/libottdadmin2/event.py dispatches
// these by calling registered callables; here each decoded packet maps to
// at most one concrete Observation type (some, such as ServerClientInfo
// and ServerCmdLogging, produce none), delivered through a single Go
// channel rather than a reflective on_<name> callback table.
type Observation interface {
	observation()
}

type ConnectedObservation struct{}

func (ConnectedObservation) observation() {}

// DisconnectedObservation reports why the connection ended; Cause is nil
// for a clean Disconnect() call.
type DisconnectedObservation struct {
	Cause error
}

func (DisconnectedObservation) observation() {}

type AuthenticatedObservation struct{}

func (AuthenticatedObservation) observation() {}

// NewMapObservation fires once per ServerWelcome, i.e. whenever the
// server starts a new session (spec scenario S1).
type NewMapObservation struct {
	Welcome WelcomeInfo
}

func (NewMapObservation) observation() {}

type ProtocolObservation struct {
	Protocol ProtocolInfo
}

func (ProtocolObservation) observation() {}

type DateChangedObservation struct {
	Date time.Time
}

func (DateChangedObservation) observation() {}

type ClientJoinedObservation struct {
	ClientID uint32
}

func (ClientJoinedObservation) observation() {}

type ClientUpdatedObservation struct {
	ClientID uint32
	Name     string
	PlayAs   uint8
}

func (ClientUpdatedObservation) observation() {}

type ClientLeftObservation struct {
	ClientID uint32
}

func (ClientLeftObservation) observation() {}

type CompanyNewObservation struct {
	CompanyID uint8
}

func (CompanyNewObservation) observation() {}

type CompanyUpdatedObservation struct {
	CompanyID uint8
}

func (CompanyUpdatedObservation) observation() {}

type CompanyRemovedObservation struct {
	CompanyID uint8
	Reason    CompanyRemoveReason
}

func (CompanyRemovedObservation) observation() {}

type CompanyEconomyObservation struct {
	CompanyID uint8
}

func (CompanyEconomyObservation) observation() {}

type CompanyStatsObservation struct {
	CompanyID uint8
}

func (CompanyStatsObservation) observation() {}

type ChatObservation struct {
	Chat ChatInfo
}

func (ChatObservation) observation() {}

type ConsoleObservation struct {
	Console ConsoleInfo
}

func (ConsoleObservation) observation() {}

type RconOutputObservation struct {
	Colour Colour
	Result string
}

func (RconOutputObservation) observation() {}

type RconEndObservation struct {
	Command string
}

func (RconEndObservation) observation() {}

type PongObservation struct {
	Payload uint32
}

func (PongObservation) observation() {}

type CmdNamesObservation struct {
	Commands map[uint16]string
}

func (CmdNamesObservation) observation() {}

type ShutdownObservation struct{}

func (ShutdownObservation) observation() {}

type NewGameObservation struct{}

func (NewGameObservation) observation() {}
