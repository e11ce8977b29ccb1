package admin

// applyAndObserve folds one decoded server packet into the mirror and
// produces the Observation to publish, if any. This is the explicit
// vtable replacement for original_source's reflective
// "on_<snake_name>"/"on_<snake_name>_raw" method lookup (client/common.py):
// a single switch over the decoded field type, falling back to the
// packet's registry name for the packets that carry no fields, rather
// than a method table walked via getattr.
func (c *Connection) applyAndObserve(d *decodedPacket) Observation {
	switch f := d.fields.(type) {
	case WelcomeInfo:
		c.mirror.reset(f)
		return NewMapObservation{Welcome: f}
	case ProtocolInfo:
		c.mirror.setProtocol(f)
		return ProtocolObservation{Protocol: f}
	case ErrorInfo:
		return nil
	case DateInfo:
		c.mirror.setDate(f.Date)
		return DateChangedObservation{Date: f.Date}
	case ClientJoinInfo:
		c.mirror.clientJoined(f.ClientID)
		return ClientJoinedObservation{ClientID: f.ClientID}
	case ClientInfoFields:
		c.mirror.clientInfo(f)
		return nil
	case ClientUpdateInfo:
		c.mirror.clientUpdated(f)
		return ClientUpdatedObservation{ClientID: f.ClientID, Name: f.Name, PlayAs: f.PlayAs}
	case ClientQuitInfo:
		c.mirror.clientLeft(f.ClientID)
		return ClientLeftObservation{ClientID: f.ClientID}
	case ClientErrorInfo:
		c.mirror.clientLeft(f.ClientID)
		return ClientLeftObservation{ClientID: f.ClientID}
	case CompanyNewInfo:
		c.mirror.companyNew(f.CompanyID)
		return CompanyNewObservation{CompanyID: f.CompanyID}
	case CompanyInfoFields:
		c.mirror.companyInfo(f)
		return CompanyUpdatedObservation{CompanyID: f.CompanyID}
	case CompanyUpdateInfo:
		c.mirror.companyUpdated(f)
		return CompanyUpdatedObservation{CompanyID: f.CompanyID}
	case CompanyRemoveInfo:
		c.mirror.companyRemoved(f.CompanyID)
		return CompanyRemovedObservation{CompanyID: f.CompanyID, Reason: f.Reason}
	case CompanyEconomyInfo:
		c.mirror.companyEconomy(f)
		return CompanyEconomyObservation{CompanyID: f.CompanyID}
	case CompanyStatsInfo:
		c.mirror.companyStats(f)
		return CompanyStatsObservation{CompanyID: f.CompanyID}
	case ChatInfo:
		return ChatObservation{Chat: f}
	case RconInfo:
		return RconOutputObservation{Colour: f.Colour, Result: f.Result}
	case ConsoleInfo:
		return ConsoleObservation{Console: f}
	case CmdNamesInfo:
		c.mirror.setCommandNames(f.Commands)
		return CmdNamesObservation{Commands: f.Commands}
	case CmdLoggingInfo:
		return nil
	case GamescriptInfo:
		return nil
	case RconEndInfo:
		return RconEndObservation{Command: f.Command}
	case PongInfo:
		return PongObservation{Payload: f.Payload}
	case AuthRequestInfo, EnableEncryptionInfo:
		// consumed directly by the handshake inside Connect, never
		// reaches the steady-state dispatcher.
		return nil
	default:
		switch d.snakeName {
		case "server_full", "server_banned":
			return DisconnectedObservation{Cause: ErrFullOrBanned(d.snakeName)}
		case "server_new_game":
			c.mirror.clear()
			return NewGameObservation{}
		case "server_shutdown":
			c.mirror.clear()
			return ShutdownObservation{}
		}
		return nil
	}
}

// ErrFullOrBanned turns the two no-payload rejection packets into a
// distinguishable error for DisconnectedObservation.Cause.
func ErrFullOrBanned(name string) error {
	if name == "server_banned" {
		return errServerBanned
	}
	return errServerFull
}
