package admin

import (
	"sync"
	"time"
)

// ClientState is the mirror's running record of one connected client,
// built up from ServerClientInfo/ServerClientUpdate/ServerClientJoin.
type ClientState struct {
	ID       uint32
	Hostname string
	Name     string
	Language uint8
	JoinDate time.Time
	PlayAs   uint8
}

// CompanyState is the mirror's running record of one company, including
// the synthetic Spectators entry (id SpectatorsCompanyID) that is always
// present even though the server never actually describes it.
type CompanyState struct {
	ID                uint8
	Name              string
	Manager           string
	Colour            Colour
	Passworded        bool
	StartYear         uint32
	IsAI              bool
	BankruptcyCounter uint8
	Shareholders      [4]uint8
	Economy           CompanyEconomyInfo
	Vehicles          VehicleStats
	Stations          VehicleStats
}

// Mirror is the in-memory state snapshot a Connection maintains from the
// stream of server observations, generalized from
// original_source/libottdadmin2/client/tracking.py's TrackingMixin, which
// keeps the same four collections (clients, companies, protocol info,
// server info) up to date as packets arrive.
type Mirror struct {
	mu sync.RWMutex

	welcome  WelcomeInfo
	protocol ProtocolInfo

	clients   map[uint32]*ClientState
	companies map[uint8]*CompanyState

	commandNames map[uint16]string
	currentDate  time.Time
}

func newMirror() *Mirror {
	m := &Mirror{
		clients:      map[uint32]*ClientState{},
		companies:    map[uint8]*CompanyState{},
		commandNames: map[uint16]string{},
	}
	m.resetCompanies()
	return m
}

// resetCompanies restores the synthetic Spectators entry, called both at
// construction and whenever ServerWelcome signals a fresh session.
func (m *Mirror) resetCompanies() {
	m.companies = map[uint8]*CompanyState{
		SpectatorsCompanyID: {ID: SpectatorsCompanyID, Name: "Spectators", Colour: ColourInvalid},
	}
}

// reset clears all per-session state on a new ServerWelcome, mirroring
// tracking.py's behaviour of starting a fresh client/company table for
// each new game.
func (m *Mirror) reset(w WelcomeInfo) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.welcome = w
	m.clients = map[uint32]*ClientState{}
	m.resetCompanies()
	m.currentDate = w.StartDate
}

// clear drops the per-session clients and companies without touching the
// welcome/protocol/command-name records, for ServerNewGame and
// ServerShutdown, which tracking.py handles with the same _reset() call
// as a fresh ServerWelcome even though no new welcome packet has arrived
// yet.
func (m *Mirror) clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clients = map[uint32]*ClientState{}
	m.resetCompanies()
}

func (m *Mirror) setProtocol(p ProtocolInfo) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.protocol = p
}

func (m *Mirror) setDate(t time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.currentDate = t
}

func (m *Mirror) setCommandNames(names map[uint16]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, name := range names {
		m.commandNames[id] = name
	}
}

func (m *Mirror) clientJoined(id uint32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.clients[id]; !ok {
		m.clients[id] = &ClientState{ID: id}
	}
}

func (m *Mirror) clientInfo(f ClientInfoFields) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clients[f.ClientID] = &ClientState{
		ID: f.ClientID, Hostname: f.Hostname, Name: f.Name,
		Language: f.Language, JoinDate: f.JoinDate, PlayAs: f.PlayAs,
	}
}

func (m *Mirror) clientUpdated(u ClientUpdateInfo) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.clients[u.ClientID]
	if !ok {
		c = &ClientState{ID: u.ClientID}
		m.clients[u.ClientID] = c
	}
	c.Name = u.Name
	c.PlayAs = u.PlayAs
}

func (m *Mirror) clientLeft(id uint32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.clients, id)
}

func (m *Mirror) companyNew(id uint8) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.companies[id]; !ok {
		m.companies[id] = &CompanyState{ID: id}
	}
}

func (m *Mirror) companyInfo(f CompanyInfoFields) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.companies[f.CompanyID] = &CompanyState{
		ID: f.CompanyID, Name: f.Name, Manager: f.Manager, Colour: f.Colour,
		Passworded: f.Passworded, StartYear: f.StartYear, IsAI: f.IsAI,
		BankruptcyCounter: f.BankruptcyCounter, Shareholders: f.Shareholders,
	}
}

func (m *Mirror) companyUpdated(u CompanyUpdateInfo) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.companies[u.CompanyID]
	if !ok {
		c = &CompanyState{ID: u.CompanyID}
		m.companies[u.CompanyID] = c
	}
	c.Name = u.Name
	c.Manager = u.Manager
	c.Colour = u.Colour
	c.Passworded = u.Passworded
	c.BankruptcyCounter = u.BankruptcyCounter
	c.Shareholders = u.Shareholders
}

func (m *Mirror) companyRemoved(id uint8) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.companies, id)
}

func (m *Mirror) companyEconomy(e CompanyEconomyInfo) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.companies[e.CompanyID]
	if !ok {
		c = &CompanyState{ID: e.CompanyID}
		m.companies[e.CompanyID] = c
	}
	c.Economy = e
}

func (m *Mirror) companyStats(s CompanyStatsInfo) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.companies[s.CompanyID]
	if !ok {
		c = &CompanyState{ID: s.CompanyID}
		m.companies[s.CompanyID] = c
	}
	c.Vehicles = s.Vehicles
	c.Stations = s.Stations
}

// Welcome returns a copy of the last ServerWelcome decoded.
func (m *Mirror) Welcome() WelcomeInfo {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.welcome
}

// Protocol returns a copy of the advertised protocol info.
func (m *Mirror) Protocol() ProtocolInfo {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.protocol
}

// CurrentDate returns the game date of the most recent ServerDate/Welcome.
func (m *Mirror) CurrentDate() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.currentDate
}

// Client returns a copy of one client's state and whether it is known.
func (m *Mirror) Client(id uint32) (ClientState, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.clients[id]
	if !ok {
		return ClientState{}, false
	}
	return *c, true
}

// Clients returns a snapshot copy of every known client, keyed by id.
func (m *Mirror) Clients() map[uint32]ClientState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[uint32]ClientState, len(m.clients))
	for id, c := range m.clients {
		out[id] = *c
	}
	return out
}

// Company returns a copy of one company's state and whether it is known.
func (m *Mirror) Company(id uint8) (CompanyState, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.companies[id]
	if !ok {
		return CompanyState{}, false
	}
	return *c, true
}

// Companies returns a snapshot copy of every known company, including the
// synthetic Spectators entry, keyed by id.
func (m *Mirror) Companies() map[uint8]CompanyState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[uint8]CompanyState, len(m.companies))
	for id, c := range m.companies {
		out[id] = *c
	}
	return out
}

// CommandNames returns a snapshot copy of the numeric-command-id to name
// dictionary delivered by ServerCmdNames.
func (m *Mirror) CommandNames() map[uint16]string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[uint16]string, len(m.commandNames))
	for id, name := range m.commandNames {
		out[id] = name
	}
	return out
}
