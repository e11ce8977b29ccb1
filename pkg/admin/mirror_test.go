package admin

import "testing"

func TestNewMirrorHasSpectators(t *testing.T) {
	m := newMirror()
	c, ok := m.Company(SpectatorsCompanyID)
	if !ok {
		t.Fatal("new mirror should always contain the Spectators company")
	}
	if c.Name != "Spectators" {
		t.Fatalf("Spectators name = %q", c.Name)
	}
}

func TestMirrorClientLifecycle(t *testing.T) {
	m := newMirror()
	m.clientJoined(5)
	if _, ok := m.Client(5); !ok {
		t.Fatal("client 5 should be tracked after clientJoined")
	}

	m.clientInfo(ClientInfoFields{ClientID: 5, Name: "alice", Hostname: "alice.example"})
	c, ok := m.Client(5)
	if !ok || c.Name != "alice" {
		t.Fatalf("client 5 = %+v, ok=%v", c, ok)
	}

	m.clientUpdated(ClientUpdateInfo{ClientID: 5, Name: "alice2", PlayAs: 1})
	c, _ = m.Client(5)
	if c.Name != "alice2" || c.PlayAs != 1 {
		t.Fatalf("client 5 after update = %+v", c)
	}

	m.clientLeft(5)
	if _, ok := m.Client(5); ok {
		t.Fatal("client 5 should be gone after clientLeft")
	}
}

func TestMirrorCompanyLifecycle(t *testing.T) {
	m := newMirror()
	m.companyNew(1)
	m.companyInfo(CompanyInfoFields{CompanyID: 1, Name: "Acme", Manager: "Bob", Colour: ColourRed})

	c, ok := m.Company(1)
	if !ok || c.Name != "Acme" || c.Colour != ColourRed {
		t.Fatalf("company 1 = %+v, ok=%v", c, ok)
	}

	m.companyEconomy(CompanyEconomyInfo{CompanyID: 1, Money: 1000})
	c, _ = m.Company(1)
	if c.Economy.Money != 1000 {
		t.Fatalf("company 1 economy = %+v", c.Economy)
	}

	m.companyRemoved(1)
	if _, ok := m.Company(1); ok {
		t.Fatal("company 1 should be gone after companyRemoved")
	}
	// Spectators must survive unrelated removals.
	if _, ok := m.Company(SpectatorsCompanyID); !ok {
		t.Fatal("Spectators must never be removable")
	}
}

func TestMirrorResetClearsPriorSession(t *testing.T) {
	m := newMirror()
	m.clientJoined(1)
	m.companyNew(3)

	m.reset(WelcomeInfo{Name: "new-game"})

	if _, ok := m.Client(1); ok {
		t.Fatal("reset should drop clients from the previous session")
	}
	if _, ok := m.Company(3); ok {
		t.Fatal("reset should drop companies from the previous session")
	}
	if _, ok := m.Company(SpectatorsCompanyID); !ok {
		t.Fatal("reset must re-create the Spectators company")
	}
	if m.Welcome().Name != "new-game" {
		t.Fatalf("Welcome() = %+v", m.Welcome())
	}
}

func TestMirrorClearKeepsWelcomeAndProtocol(t *testing.T) {
	m := newMirror()
	m.reset(WelcomeInfo{Name: "ongoing-game"})
	m.setProtocol(ProtocolInfo{Settings: map[UpdateType]UpdateFrequency{UpdateDate: FreqDaily}})
	m.clientJoined(1)
	m.companyNew(3)

	m.clear()

	if _, ok := m.Client(1); ok {
		t.Fatal("clear should drop clients from the previous game")
	}
	if _, ok := m.Company(3); ok {
		t.Fatal("clear should drop companies from the previous game")
	}
	if _, ok := m.Company(SpectatorsCompanyID); !ok {
		t.Fatal("clear must re-create the Spectators company")
	}
	if m.Welcome().Name != "ongoing-game" {
		t.Fatalf("clear must not touch Welcome(), got %+v", m.Welcome())
	}
	if len(m.Protocol().Settings) != 1 {
		t.Fatalf("clear must not touch Protocol(), got %+v", m.Protocol())
	}
}
