package admin

// Administrator -> Server packet descriptors, grounded field-for-field on
// original_source/libottdadmin2/packets/admin.py. AdminJoinSecure and
// AdminAuthResponse have no original_source counterpart (see
// SPEC_FULL.md section 4.2 / DESIGN.md) and are designed directly from
// spec section 4.3.

// encodeAdminJoin builds the plaintext join packet (spec scenario S2).
func encodeAdminJoin(password, name, version string) (*Packet, error) {
	p := newEncodePacket(idAdminJoin)
	if err := p.WriteString(password, maxPasswordLength); err != nil {
		return nil, err
	}
	if err := p.WriteString(name, maxClientNameLength); err != nil {
		return nil, err
	}
	if err := p.WriteString(version, maxRevisionLength); err != nil {
		return nil, err
	}
	return p, nil
}

// encodeAdminJoinSecure advertises the bitmask of authentication methods
// this client supports for the encrypted handshake (spec section 4.3
// step 1).
func encodeAdminJoinSecure(name, version string, methods uint8) (*Packet, error) {
	p := newEncodePacket(idAdminJoinSecure)
	if err := p.WriteString(name, maxClientNameLength); err != nil {
		return nil, err
	}
	if err := p.WriteString(version, maxRevisionLength); err != nil {
		return nil, err
	}
	p.WriteByte(methods)
	return p, nil
}

// encodeAdminAuthResponse sends the client's half of the key exchange
// (spec section 4.3 step 4).
func encodeAdminAuthResponse(ourPublic [32]byte, ciphertext, mac []byte) *Packet {
	p := newEncodePacket(idAdminAuthResponse)
	p.Body = append(p.Body, ourPublic[:]...)
	p.Body = append(p.Body, ciphertext...)
	p.Body = append(p.Body, mac...)
	return p
}

func encodeAdminQuit() *Packet {
	return newEncodePacket(idAdminQuit)
}

func encodeAdminUpdateFrequency(t UpdateType, freq UpdateFrequency) *Packet {
	p := newEncodePacket(idAdminUpdateFrequency)
	p.WriteUint16(uint16(t))
	p.WriteUint16(uint16(freq))
	return p
}

func encodeAdminPoll(t UpdateType, extra uint32) *Packet {
	p := newEncodePacket(idAdminPoll)
	p.WriteByte(uint8(t))
	p.WriteUint32(extra)
	return p
}

func encodeAdminChat(action ChatAction, dest DestType, clientID uint32, message string) (*Packet, error) {
	p := newEncodePacket(idAdminChat)
	p.WriteByte(uint8(action))
	p.WriteByte(uint8(dest))
	p.WriteUint32(clientID)
	if err := p.WriteString(message, maxChatLength); err != nil {
		return nil, err
	}
	return p, nil
}

func encodeAdminRcon(command string) (*Packet, error) {
	p := newEncodePacket(idAdminRcon)
	if err := p.WriteString(command, maxRconCommandLength); err != nil {
		return nil, err
	}
	return p, nil
}

func encodeAdminGamescript(json string) (*Packet, error) {
	p := newEncodePacket(idAdminGamescript)
	if err := p.WriteString(json, maxGamescriptLength); err != nil {
		return nil, err
	}
	return p, nil
}

func encodeAdminPing(payload uint32) *Packet {
	p := newEncodePacket(idAdminPing)
	p.WriteUint32(payload)
	return p
}
