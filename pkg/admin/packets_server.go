package admin

import "time"

// Server -> Administrator packet descriptors, grounded field-for-field on
// original_source/libottdadmin2/packets/server.py. ServerAuthRequest and
// ServerEnableEncryption have no original_source counterpart (see
// SPEC_FULL.md section 4.2 / DESIGN.md) and are designed directly from
// spec section 4.3.

// WelcomeInfo is the decoded body of ServerWelcome (spec scenario S1).
type WelcomeInfo struct {
	Name       string
	Version    string
	Dedicated  bool
	Map        string
	Seed       uint32
	Landscape  Landscape
	StartDate  time.Time
	X, Y       uint16
}

// ProtocolInfo is the server's advertised protocol version and the
// per-UpdateType supported-frequency bitmasks.
type ProtocolInfo struct {
	Version  uint8
	Settings map[UpdateType]UpdateFrequency
}

type ErrorInfo struct{ Code ErrorCode }

type DateInfo struct{ Date time.Time }

type ClientJoinInfo struct{ ClientID uint32 }

type ClientInfoFields struct {
	ClientID uint32
	Hostname string
	Name     string
	Language uint8
	JoinDate time.Time
	PlayAs   uint8
}

type ClientUpdateInfo struct {
	ClientID uint32
	Name     string
	PlayAs   uint8
}

type ClientQuitInfo struct{ ClientID uint32 }

type ClientErrorInfo struct {
	ClientID uint32
	Code     ErrorCode
}

type CompanyNewInfo struct{ CompanyID uint8 }

type CompanyInfoFields struct {
	CompanyID         uint8
	Name              string
	Manager           string
	Colour            Colour
	Passworded        bool
	StartYear         uint32
	IsAI              bool
	BankruptcyCounter uint8
	Shareholders      [4]uint8
}

type CompanyUpdateInfo struct {
	CompanyID         uint8
	Name              string
	Manager           string
	Colour            Colour
	Passworded        bool
	BankruptcyCounter uint8
	Shareholders      [4]uint8
}

type CompanyRemoveInfo struct {
	CompanyID uint8
	Reason    CompanyRemoveReason
}

// EconomyHistory is one entry of CompanyEconomy's fixed 2-element history.
type EconomyHistory struct {
	Value       int64
	Performance uint16
	Delivered   uint16
}

type CompanyEconomyInfo struct {
	CompanyID    uint8
	Money        int64
	CurrentLoan  int64
	Income       int64
	Delivered    uint16
	History      [2]EconomyHistory
}

// VehicleStats is the (train, lorry, bus, plane, ship) 5-tuple used for
// both vehicle counts and station counts in CompanyStats.
type VehicleStats struct {
	Train, Lorry, Bus, Plane, Ship uint16
}

type CompanyStatsInfo struct {
	CompanyID uint8
	Vehicles  VehicleStats
	Stations  VehicleStats
}

type ChatInfo struct {
	Action   ChatAction
	Dest     DestType
	ClientID uint32
	Message  string
	Extra    uint64
}

type RconInfo struct {
	Colour Colour
	Result string
}

type ConsoleInfo struct {
	Origin  string
	Message string
}

type CmdNamesInfo struct {
	Commands map[uint16]string
}

type CmdLoggingInfo struct {
	ClientID  uint32
	CompanyID uint8
	CommandID uint16
	Param1    uint32
	Param2    uint32
	Tile      uint32
	Text      string
	Frame     uint32
}

type GamescriptInfo struct{ JSON string }

type RconEndInfo struct{ Command string }

type PongInfo struct{ Payload uint32 }

// AuthRequestInfo is the server's half of the secure-join handshake (spec
// section 4.3 step 2).
type AuthRequestInfo struct {
	Method       AuthenticationMethod
	ServerPublic [32]byte
	Nonce        []byte
}

// EnableEncryptionInfo carries the nonce the two per-direction AEAD
// streams are seeded with (spec section 4.3 step 5).
type EnableEncryptionInfo struct {
	Nonce []byte
}

func init() {
	registerServerPacket(idServerFull, "server_full", func(p *Packet) (interface{}, error) { return struct{}{}, nil })
	registerServerPacket(idServerBanned, "server_banned", func(p *Packet) (interface{}, error) { return struct{}{}, nil })
	registerServerPacket(idServerNewGame, "server_new_game", func(p *Packet) (interface{}, error) { return struct{}{}, nil })
	registerServerPacket(idServerShutdown, "server_shutdown", func(p *Packet) (interface{}, error) { return struct{}{}, nil })

	registerServerPacket(idServerError, "server_error", func(p *Packet) (interface{}, error) {
		code, err := p.ReadByte()
		if err != nil {
			return nil, err
		}
		return ErrorInfo{Code: ErrorCode(code)}, nil
	})

	registerServerPacket(idServerProtocol, "server_protocol", func(p *Packet) (interface{}, error) {
		version, err := p.ReadByte()
		if err != nil {
			return nil, err
		}
		settings := map[UpdateType]UpdateFrequency{}
		for {
			more, err := p.ReadBool()
			if err != nil {
				return nil, err
			}
			if !more {
				break
			}
			key, err := p.ReadUint16()
			if err != nil {
				return nil, err
			}
			val, err := p.ReadUint16()
			if err != nil {
				return nil, err
			}
			settings[UpdateType(key)] = UpdateFrequency(val)
		}
		return ProtocolInfo{Version: version, Settings: settings}, nil
	})

	registerServerPacket(idServerWelcome, "server_welcome", func(p *Packet) (interface{}, error) {
		name, err := p.ReadString()
		if err != nil {
			return nil, err
		}
		version, err := p.ReadString()
		if err != nil {
			return nil, err
		}
		dedicated, err := p.ReadBool()
		if err != nil {
			return nil, err
		}
		mapName, err := p.ReadString()
		if err != nil {
			return nil, err
		}
		seed, err := p.ReadUint32()
		if err != nil {
			return nil, err
		}
		landscape, err := p.ReadByte()
		if err != nil {
			return nil, err
		}
		startdate, err := p.ReadUint32()
		if err != nil {
			return nil, err
		}
		x, err := p.ReadUint16()
		if err != nil {
			return nil, err
		}
		y, err := p.ReadUint16()
		if err != nil {
			return nil, err
		}
		return WelcomeInfo{
			Name: name, Version: version, Dedicated: dedicated, Map: mapName,
			Seed: seed, Landscape: Landscape(landscape), StartDate: gamedateToTime(startdate),
			X: x, Y: y,
		}, nil
	})

	registerServerPacket(idServerDate, "server_date", func(p *Packet) (interface{}, error) {
		date, err := p.ReadUint32()
		if err != nil {
			return nil, err
		}
		return DateInfo{Date: gamedateToTime(date)}, nil
	})

	registerServerPacket(idServerClientJoin, "server_client_join", func(p *Packet) (interface{}, error) {
		id, err := p.ReadUint32()
		if err != nil {
			return nil, err
		}
		return ClientJoinInfo{ClientID: id}, nil
	})

	registerServerPacket(idServerClientInfo, "server_client_info", func(p *Packet) (interface{}, error) {
		id, err := p.ReadUint32()
		if err != nil {
			return nil, err
		}
		hostname, err := p.ReadString()
		if err != nil {
			return nil, err
		}
		name, err := p.ReadString()
		if err != nil {
			return nil, err
		}
		lang, err := p.ReadByte()
		if err != nil {
			return nil, err
		}
		join, err := p.ReadUint32()
		if err != nil {
			return nil, err
		}
		playAs, err := p.ReadByte()
		if err != nil {
			return nil, err
		}
		return ClientInfoFields{
			ClientID: id, Hostname: hostname, Name: name, Language: lang,
			JoinDate: gamedateToTime(join), PlayAs: playAs,
		}, nil
	})

	registerServerPacket(idServerClientUpdate, "server_client_update", func(p *Packet) (interface{}, error) {
		id, err := p.ReadUint32()
		if err != nil {
			return nil, err
		}
		name, err := p.ReadString()
		if err != nil {
			return nil, err
		}
		playAs, err := p.ReadByte()
		if err != nil {
			return nil, err
		}
		return ClientUpdateInfo{ClientID: id, Name: name, PlayAs: playAs}, nil
	})

	registerServerPacket(idServerClientQuit, "server_client_quit", func(p *Packet) (interface{}, error) {
		id, err := p.ReadUint32()
		if err != nil {
			return nil, err
		}
		return ClientQuitInfo{ClientID: id}, nil
	})

	registerServerPacket(idServerClientError, "server_client_error", func(p *Packet) (interface{}, error) {
		id, err := p.ReadUint32()
		if err != nil {
			return nil, err
		}
		code, err := p.ReadByte()
		if err != nil {
			return nil, err
		}
		return ClientErrorInfo{ClientID: id, Code: ErrorCode(code)}, nil
	})

	registerServerPacket(idServerCompanyNew, "server_company_new", func(p *Packet) (interface{}, error) {
		id, err := p.ReadByte()
		if err != nil {
			return nil, err
		}
		return CompanyNewInfo{CompanyID: id}, nil
	})

	registerServerPacket(idServerCompanyInfo, "server_company_info", func(p *Packet) (interface{}, error) {
		id, err := p.ReadByte()
		if err != nil {
			return nil, err
		}
		name, err := p.ReadString()
		if err != nil {
			return nil, err
		}
		manager, err := p.ReadString()
		if err != nil {
			return nil, err
		}
		colour, err := p.ReadByte()
		if err != nil {
			return nil, err
		}
		passworded, err := p.ReadBool()
		if err != nil {
			return nil, err
		}
		startyear, err := p.ReadUint32()
		if err != nil {
			return nil, err
		}
		isAI, err := p.ReadBool()
		if err != nil {
			return nil, err
		}
		fields := CompanyInfoFields{
			CompanyID: id, Name: name, Manager: manager, Colour: Colour(colour),
			Passworded: passworded, StartYear: startyear, IsAI: isAI,
		}
		if p.HasMore() {
			bc, err := p.ReadByte()
			if err != nil {
				return nil, err
			}
			fields.BankruptcyCounter = bc
			for i := 0; i < 4; i++ {
				sh, err := p.ReadByte()
				if err != nil {
					return nil, err
				}
				fields.Shareholders[i] = sh
			}
		}
		return fields, nil
	})

	registerServerPacket(idServerCompanyUpdate, "server_company_update", func(p *Packet) (interface{}, error) {
		id, err := p.ReadByte()
		if err != nil {
			return nil, err
		}
		name, err := p.ReadString()
		if err != nil {
			return nil, err
		}
		manager, err := p.ReadString()
		if err != nil {
			return nil, err
		}
		colour, err := p.ReadByte()
		if err != nil {
			return nil, err
		}
		passworded, err := p.ReadBool()
		if err != nil {
			return nil, err
		}
		bc, err := p.ReadByte()
		if err != nil {
			return nil, err
		}
		var shareholders [4]uint8
		for i := 0; i < 4; i++ {
			sh, err := p.ReadByte()
			if err != nil {
				return nil, err
			}
			shareholders[i] = sh
		}
		return CompanyUpdateInfo{
			CompanyID: id, Name: name, Manager: manager, Colour: Colour(colour),
			Passworded: passworded, BankruptcyCounter: bc, Shareholders: shareholders,
		}, nil
	})

	registerServerPacket(idServerCompanyRemove, "server_company_remove", func(p *Packet) (interface{}, error) {
		id, err := p.ReadByte()
		if err != nil {
			return nil, err
		}
		reason, err := p.ReadByte()
		if err != nil {
			return nil, err
		}
		return CompanyRemoveInfo{CompanyID: id, Reason: CompanyRemoveReason(reason)}, nil
	})

	registerServerPacket(idServerCompanyEconomy, "server_company_economy", func(p *Packet) (interface{}, error) {
		id, err := p.ReadByte()
		if err != nil {
			return nil, err
		}
		money, err := p.ReadInt64()
		if err != nil {
			return nil, err
		}
		loan, err := p.ReadInt64()
		if err != nil {
			return nil, err
		}
		income, err := p.ReadInt64()
		if err != nil {
			return nil, err
		}
		delivered, err := p.ReadUint16()
		if err != nil {
			return nil, err
		}
		var history [2]EconomyHistory
		for i := 0; i < 2; i++ {
			val, err := p.ReadInt64()
			if err != nil {
				return nil, err
			}
			perf, err := p.ReadUint16()
			if err != nil {
				return nil, err
			}
			del, err := p.ReadUint16()
			if err != nil {
				return nil, err
			}
			history[i] = EconomyHistory{Value: val, Performance: perf, Delivered: del}
		}
		return CompanyEconomyInfo{
			CompanyID: id, Money: money, CurrentLoan: loan, Income: income,
			Delivered: delivered, History: history,
		}, nil
	})

	registerServerPacket(idServerCompanyStats, "server_company_stats", func(p *Packet) (interface{}, error) {
		id, err := p.ReadByte()
		if err != nil {
			return nil, err
		}
		readStats := func() (VehicleStats, error) {
			var s VehicleStats
			vals := make([]uint16, 5)
			for i := range vals {
				v, err := p.ReadUint16()
				if err != nil {
					return s, err
				}
				vals[i] = v
			}
			s.Train, s.Lorry, s.Bus, s.Plane, s.Ship = vals[0], vals[1], vals[2], vals[3], vals[4]
			return s, nil
		}
		vehicles, err := readStats()
		if err != nil {
			return nil, err
		}
		stations, err := readStats()
		if err != nil {
			return nil, err
		}
		return CompanyStatsInfo{CompanyID: id, Vehicles: vehicles, Stations: stations}, nil
	})

	registerServerPacket(idServerChat, "server_chat", func(p *Packet) (interface{}, error) {
		action, err := p.ReadByte()
		if err != nil {
			return nil, err
		}
		dest, err := p.ReadByte()
		if err != nil {
			return nil, err
		}
		clientID, err := p.ReadUint32()
		if err != nil {
			return nil, err
		}
		message, err := p.ReadString()
		if err != nil {
			return nil, err
		}
		extra, err := p.ReadUint64()
		if err != nil {
			return nil, err
		}
		return ChatInfo{Action: ChatAction(action), Dest: DestType(dest), ClientID: clientID, Message: message, Extra: extra}, nil
	})

	registerServerPacket(idServerRcon, "server_rcon", func(p *Packet) (interface{}, error) {
		colour, err := p.ReadUint16()
		if err != nil {
			return nil, err
		}
		result, err := p.ReadString()
		if err != nil {
			return nil, err
		}
		return RconInfo{Colour: Colour(colour), Result: result}, nil
	})

	registerServerPacket(idServerConsole, "server_console", func(p *Packet) (interface{}, error) {
		origin, err := p.ReadString()
		if err != nil {
			return nil, err
		}
		message, err := p.ReadString()
		if err != nil {
			return nil, err
		}
		return ConsoleInfo{Origin: origin, Message: message}, nil
	})

	registerServerPacket(idServerCmdNames, "server_cmd_names", func(p *Packet) (interface{}, error) {
		commands := map[uint16]string{}
		for {
			more, err := p.ReadBool()
			if err != nil {
				return nil, err
			}
			if !more {
				break
			}
			id, err := p.ReadUint16()
			if err != nil {
				return nil, err
			}
			name, err := p.ReadString()
			if err != nil {
				return nil, err
			}
			commands[id] = name
		}
		return CmdNamesInfo{Commands: commands}, nil
	})

	registerServerPacket(idServerCmdLogging, "server_cmd_logging", func(p *Packet) (interface{}, error) {
		clientID, err := p.ReadUint32()
		if err != nil {
			return nil, err
		}
		companyID, err := p.ReadByte()
		if err != nil {
			return nil, err
		}
		commandID, err := p.ReadUint16()
		if err != nil {
			return nil, err
		}
		param1, err := p.ReadUint32()
		if err != nil {
			return nil, err
		}
		param2, err := p.ReadUint32()
		if err != nil {
			return nil, err
		}
		tile, err := p.ReadUint32()
		if err != nil {
			return nil, err
		}
		text, err := p.ReadString()
		if err != nil {
			return nil, err
		}
		frame, err := p.ReadUint32()
		if err != nil {
			return nil, err
		}
		return CmdLoggingInfo{
			ClientID: clientID, CompanyID: companyID, CommandID: commandID,
			Param1: param1, Param2: param2, Tile: tile, Text: text, Frame: frame,
		}, nil
	})

	registerServerPacket(idServerGamescript, "server_gamescript", func(p *Packet) (interface{}, error) {
		s, err := p.ReadString()
		if err != nil {
			return nil, err
		}
		return GamescriptInfo{JSON: s}, nil
	})

	registerServerPacket(idServerRconEnd, "server_rcon_end", func(p *Packet) (interface{}, error) {
		s, err := p.ReadString()
		if err != nil {
			return nil, err
		}
		return RconEndInfo{Command: s}, nil
	})

	registerServerPacket(idServerPong, "server_pong", func(p *Packet) (interface{}, error) {
		v, err := p.ReadUint32()
		if err != nil {
			return nil, err
		}
		return PongInfo{Payload: v}, nil
	})

	registerServerPacket(idServerAuthRequest, "server_auth_request", func(p *Packet) (interface{}, error) {
		method, err := p.ReadByte()
		if err != nil {
			return nil, err
		}
		var pub [32]byte
		b, err := p.need(publicKeySize)
		if err != nil {
			return nil, err
		}
		copy(pub[:], b)
		nonce, err := p.need(kxNonceSize)
		if err != nil {
			return nil, err
		}
		return AuthRequestInfo{Method: AuthenticationMethod(method), ServerPublic: pub, Nonce: append([]byte(nil), nonce...)}, nil
	})

	registerServerPacket(idServerEnableEncrypt, "server_enable_encryption", func(p *Packet) (interface{}, error) {
		nonce, err := p.need(kxNonceSize)
		if err != nil {
			return nil, err
		}
		return EnableEncryptionInfo{Nonce: append([]byte(nil), nonce...)}, nil
	})
}
