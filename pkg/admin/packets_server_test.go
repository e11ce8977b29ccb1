package admin

import "testing"

func TestDecodeServerWelcome(t *testing.T) {
	p := newEncodePacket(idServerWelcome)
	if err := p.WriteString("my server", 0); err != nil {
		t.Fatal(err)
	}
	if err := p.WriteString("14.0", 0); err != nil {
		t.Fatal(err)
	}
	p.WriteBool(true)
	if err := p.WriteString("my map", 0); err != nil {
		t.Fatal(err)
	}
	p.WriteUint32(123456)
	p.WriteByte(uint8(LandscapeTemperate))
	p.WriteUint32(800000)
	p.WriteUint16(256)
	p.WriteUint16(256)

	d, err := decodeServerPacket(idServerWelcome, p.Body)
	if err != nil {
		t.Fatalf("decodeServerPacket: %v", err)
	}
	w, ok := d.fields.(WelcomeInfo)
	if !ok {
		t.Fatalf("fields type = %T", d.fields)
	}
	if w.Name != "my server" || w.Version != "14.0" || !w.Dedicated || w.Map != "my map" {
		t.Fatalf("welcome = %+v", w)
	}
	if w.Seed != 123456 || w.X != 256 || w.Y != 256 {
		t.Fatalf("welcome = %+v", w)
	}
	if w.StartDate.IsZero() {
		t.Fatal("expected a non-zero start date for gamedate 800000")
	}
}

func TestDecodeServerCompanyInfoWithoutOptionalTail(t *testing.T) {
	p := newEncodePacket(idServerCompanyInfo)
	p.WriteByte(1)
	_ = p.WriteString("Acme", 0)
	_ = p.WriteString("Bob", 0)
	p.WriteByte(uint8(ColourBlue))
	p.WriteBool(false)
	p.WriteUint32(2000)
	p.WriteBool(true)

	d, err := decodeServerPacket(idServerCompanyInfo, p.Body)
	if err != nil {
		t.Fatalf("decodeServerPacket: %v", err)
	}
	info, ok := d.fields.(CompanyInfoFields)
	if !ok {
		t.Fatalf("fields type = %T", d.fields)
	}
	if info.Name != "Acme" || info.Colour != ColourBlue || !info.IsAI {
		t.Fatalf("info = %+v", info)
	}
	if info.BankruptcyCounter != 0 {
		t.Fatalf("expected zero-value BankruptcyCounter when tail is absent, got %d", info.BankruptcyCounter)
	}
}

func TestDecodeServerCompanyInfoWithOptionalTail(t *testing.T) {
	p := newEncodePacket(idServerCompanyInfo)
	p.WriteByte(1)
	_ = p.WriteString("Acme", 0)
	_ = p.WriteString("Bob", 0)
	p.WriteByte(uint8(ColourBlue))
	p.WriteBool(false)
	p.WriteUint32(2000)
	p.WriteBool(false)
	p.WriteByte(3)
	p.WriteByte(10)
	p.WriteByte(20)
	p.WriteByte(30)
	p.WriteByte(40)

	d, err := decodeServerPacket(idServerCompanyInfo, p.Body)
	if err != nil {
		t.Fatalf("decodeServerPacket: %v", err)
	}
	info := d.fields.(CompanyInfoFields)
	if info.BankruptcyCounter != 3 {
		t.Fatalf("BankruptcyCounter = %d, want 3", info.BankruptcyCounter)
	}
	if info.Shareholders != [4]uint8{10, 20, 30, 40} {
		t.Fatalf("Shareholders = %v", info.Shareholders)
	}
}

// TestDecodeServerCmdLoggingFieldOrder guards against the field-order bug
// present in the original_source decoder, where company_id was
// accidentally returned a second time in the command_id slot.
func TestDecodeServerCmdLoggingFieldOrder(t *testing.T) {
	p := newEncodePacket(idServerCmdLogging)
	p.WriteUint32(1)   // client id
	p.WriteByte(2)     // company id
	p.WriteUint16(300) // command id
	p.WriteUint32(4)
	p.WriteUint32(5)
	p.WriteUint32(6)
	_ = p.WriteString("do a thing", 0)
	p.WriteUint32(7)

	d, err := decodeServerPacket(idServerCmdLogging, p.Body)
	if err != nil {
		t.Fatalf("decodeServerPacket: %v", err)
	}
	info := d.fields.(CmdLoggingInfo)
	if info.ClientID != 1 || info.CompanyID != 2 || info.CommandID != 300 {
		t.Fatalf("info = %+v", info)
	}
}

func TestDecodeUnknownPacketID(t *testing.T) {
	if _, err := decodeServerPacket(255, nil); err != ErrUnknownPacket {
		t.Fatalf("err = %v, want ErrUnknownPacket", err)
	}
}

func TestDecodeServerProtocolSettingsLoop(t *testing.T) {
	p := newEncodePacket(idServerProtocol)
	p.WriteByte(1)
	p.WriteBool(true)
	p.WriteUint16(uint16(UpdateDate))
	p.WriteUint16(uint16(FreqDaily | FreqMonthly))
	p.WriteBool(false)

	d, err := decodeServerPacket(idServerProtocol, p.Body)
	if err != nil {
		t.Fatalf("decodeServerPacket: %v", err)
	}
	info := d.fields.(ProtocolInfo)
	if info.Version != 1 {
		t.Fatalf("version = %d", info.Version)
	}
	if info.Settings[UpdateDate] != FreqDaily|FreqMonthly {
		t.Fatalf("settings = %+v", info.Settings)
	}
}
