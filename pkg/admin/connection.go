package admin

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Config configures a Connection, replacing the teacher's flat
// Connect(host, port, password, botName, botVersion) arguments
// (_examples/tardisx-openttd-admin/pkg/admin/admin.go) with a single
// struct so the secure-join fields (SecretKey, UseInsecureJoin) and the
// subscription table have somewhere to live.
type Config struct {
	Host string
	Port int

	// Name and Version identify this client to the server, sent as-is
	// (spec scenario S2).
	Name    string
	Version string

	// Password authenticates the insecure join and/or the PAKE variant
	// of the secure handshake. Leave empty to rely solely on SecretKey.
	Password string
	// SecretKey is a 64-hex-character X25519 private key for the
	// authorized-key variant of the secure handshake. Leave empty to
	// generate an ephemeral key for the session.
	SecretKey string
	// UseInsecureJoin sends a plaintext AdminJoin instead of the
	// encrypted AdminJoinSecure handshake. Only meaningful against
	// servers that still accept the legacy join.
	UseInsecureJoin bool

	// Cooperative selects loopTransport instead of streamTransport:
	// rather than a background reader goroutine, the embedder must call
	// Connection.Pump periodically (e.g. from its own tick loop) to read
	// and dispatch whatever has arrived (spec section 4.5's "two
	// interchangeable adapters").
	Cooperative bool

	// Subscriptions maps each UpdateType to the frequency bitmask to
	// request via AdminUpdateFrequency right after authentication. Nil
	// falls back to defaultSubscriptions().
	Subscriptions map[UpdateType]UpdateFrequency

	DialTimeout time.Duration
	Logger      zerolog.Logger
}

// defaultSubscriptions mirrors the default subscription table the
// teacher's multitool registers for (date changes and chat), extended to
// the automatic-delivery update types spec section 4.6 lists, matching
// original_source/libottdadmin2/client/common.py's update-on-connect
// behaviour.
func defaultSubscriptions() map[UpdateType]UpdateFrequency {
	return map[UpdateType]UpdateFrequency{
		UpdateDate:           FreqDaily,
		UpdateClientInfo:     FreqAutomatic,
		UpdateCompanyInfo:    FreqAutomatic,
		UpdateCompanyEconomy: FreqMonthly,
		UpdateCompanyStats:   FreqMonthly,
		UpdateChat:           FreqAutomatic,
		UpdateConsole:        FreqAutomatic,
		UpdateNames:          FreqPoll,
		UpdateLogging:        FreqAutomatic,
	}
}

func (c *Config) normalize() error {
	if c.Host == "" {
		return fmt.Errorf("admin: Config.Host is required")
	}
	if c.Port == 0 {
		c.Port = NetworkAdminPort
	}
	if c.Name == "" {
		c.Name = "go-openttd-admin"
	}
	if c.Version == "" {
		c.Version = "dev"
	}
	if c.Subscriptions == nil {
		c.Subscriptions = defaultSubscriptions()
	}
	if c.DialTimeout <= 0 {
		c.DialTimeout = 10 * time.Second
	}
	if len(c.Name)+1 > maxClientNameLength {
		return fmt.Errorf("%w: Name", ErrStringTooLong)
	}
	if len(c.Version)+1 > maxRevisionLength {
		return fmt.Errorf("%w: Version", ErrStringTooLong)
	}
	return nil
}

// Connection is a single administration session: the state machine of
// spec section 4.4 (Disconnected -> Connecting -> Authenticating ->
// Active -> Disconnecting), wrapping a Transport, an optional pair of
// AEAD streams, and the Mirror the dispatcher goroutine keeps current.
// It generalizes the teacher's OpenTTDServer struct
// (_examples/tardisx-openttd-admin/pkg/admin/admin.go) from a single
// blocking reconnect loop into an explicit, inspectable state machine.
type Connection struct {
	cfg Config
	log zerolog.Logger

	mu    sync.RWMutex
	state ConnState

	transport Transport
	loop      *loopTransport
	aeadSend  *aeadStream
	aeadRecv  *aeadStream

	mirror  *Mirror
	metrics *connMetrics

	observations chan Observation
	done         chan struct{}
	closeOnce    sync.Once
	lastErr      error
}

// NewConnection builds a Connection from cfg without dialing.
func NewConnection(cfg Config) (*Connection, error) {
	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return &Connection{
		cfg:          cfg,
		log:          cfg.Logger,
		state:        StateDisconnected,
		mirror:       newMirror(),
		metrics:      newConnMetrics(),
		observations: make(chan Observation, 64),
		done:         make(chan struct{}),
	}, nil
}

// State reports the connection's current position in the state machine.
func (c *Connection) State() ConnState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

func (c *Connection) setState(s ConnState) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
	c.log.Debug().Stringer("state", s).Msg("admin: state transition")
}

// Mirror returns the live state mirror; its accessors are safe to call
// concurrently with the dispatcher.
func (c *Connection) Mirror() *Mirror { return c.mirror }

// Observations returns the channel new Observation values are published
// on. The caller must keep draining it; a full buffer stalls dispatch.
func (c *Connection) Observations() <-chan Observation { return c.observations }

// WritePrometheus renders this connection's counters.
func (c *Connection) WritePrometheus(w io.Writer) { c.metrics.WritePrometheus(w) }

// Connect dials the server, performs the join/authentication handshake
// (insecure or secure per Config.UseInsecureJoin), and starts the
// dispatcher goroutine. It returns once the connection has reached
// StateActive or failed to.
func (c *Connection) Connect() error {
	c.setState(StateConnecting)
	if c.cfg.Cooperative {
		t, err := dialLoopTransport(c.cfg.Host, c.cfg.Port, c.cfg.DialTimeout)
		if err != nil {
			c.setState(StateDisconnected)
			return fmt.Errorf("admin: dial: %w", err)
		}
		c.loop = t
		c.transport = t
	} else {
		t, err := dialStreamTransport(c.cfg.Host, c.cfg.Port, c.cfg.DialTimeout)
		if err != nil {
			c.setState(StateDisconnected)
			return fmt.Errorf("admin: dial: %w", err)
		}
		c.transport = t
	}

	c.setState(StateAuthenticating)
	var welcome *WelcomeInfo
	var err error
	if c.cfg.UseInsecureJoin {
		welcome, err = c.joinInsecure()
	} else {
		welcome, err = c.joinSecure()
	}
	if err != nil {
		c.metrics.authFailures.Inc()
		_ = c.transport.Close()
		c.setState(StateDisconnected)
		return err
	}

	c.setState(StateActive)
	c.mirror.reset(*welcome)
	c.observations <- ConnectedObservation{}
	c.observations <- AuthenticatedObservation{}
	c.observations <- NewMapObservation{Welcome: *welcome}

	if err := c.subscribeDefaults(); err != nil {
		c.log.Warn().Err(err).Msg("admin: failed to register default subscriptions")
	}

	if c.loop == nil {
		go c.dispatchLoop()
	}
	return nil
}

func (c *Connection) subscribeDefaults() error {
	for t, freq := range c.cfg.Subscriptions {
		if err := c.applyDefaultSubscription(t, freq); err != nil {
			return err
		}
	}
	return nil
}

// applyDefaultSubscription splits a configured frequency into the
// AdminUpdateFrequency/AdminPoll pair the server actually expects,
// matching original_source/libottdadmin2/client/tracking.py's
// on_server_welcome_raw: the POLL bit never belongs in
// AdminUpdateFrequency itself, it instead requests an immediate
// AdminPoll(type, PollAll).
func (c *Connection) applyDefaultSubscription(t UpdateType, freq UpdateFrequency) error {
	if err := c.Subscribe(t, freq&^FreqPoll); err != nil {
		return err
	}
	if freq&FreqPoll != 0 {
		return c.Poll(t, PollAll)
	}
	return nil
}

// joinInsecure sends the plaintext AdminJoin and waits for ServerWelcome,
// matching the teacher's original handshake.
func (c *Connection) joinInsecure() (*WelcomeInfo, error) {
	p, err := encodeAdminJoin(c.cfg.Password, c.cfg.Name, c.cfg.Version)
	if err != nil {
		return nil, err
	}
	if err := c.writeRaw(p); err != nil {
		return nil, err
	}
	return c.awaitWelcome()
}

// joinSecure performs the X25519 handshake of spec section 4.3: advertise
// methods, receive ServerAuthRequest, answer with AdminAuthResponse,
// receive ServerEnableEncryption, then continue reading (now encrypted)
// until ServerWelcome arrives.
func (c *Connection) joinSecure() (*WelcomeInfo, error) {
	ch, err := newCryptoHandler(c.cfg.Password, c.cfg.SecretKey)
	if err != nil {
		return nil, err
	}

	joinPkt, err := encodeAdminJoinSecure(c.cfg.Name, c.cfg.Version, ch.availableMethods())
	if err != nil {
		return nil, err
	}
	if err := c.writeRaw(joinPkt); err != nil {
		return nil, err
	}

	d, err := c.readOneDecoded()
	if err != nil {
		return nil, err
	}
	authReq, ok := d.fields.(AuthRequestInfo)
	if !ok {
		return nil, fmt.Errorf("admin: expected ServerAuthRequest, got %s", d.snakeName)
	}

	ourPublic, ciphertext, mac, err := ch.onAuthRequest(authReq.Method, authReq.ServerPublic, authReq.Nonce)
	if err != nil {
		return nil, err
	}
	if err := c.writeRaw(encodeAdminAuthResponse(ourPublic, ciphertext, mac)); err != nil {
		return nil, err
	}

	d, err = c.readOneDecoded()
	if err != nil {
		return nil, err
	}
	enable, ok := d.fields.(EnableEncryptionInfo)
	if !ok {
		return nil, fmt.Errorf("admin: expected ServerEnableEncryption, got %s", d.snakeName)
	}

	c.aeadSend, err = newAEADStream(ch.sendKey(), enable.Nonce)
	if err != nil {
		return nil, err
	}
	c.aeadRecv, err = newAEADStream(ch.recvKey(), enable.Nonce)
	if err != nil {
		return nil, err
	}

	return c.awaitWelcome()
}

// writeRaw encodes and sends one packet, using the active AEAD stream
// once encryption has been enabled.
func (c *Connection) writeRaw(p *Packet) error {
	var buf []byte
	var err error
	if c.aeadSend != nil {
		buf, err = encryptFrame(p, c.aeadSend)
	} else {
		buf, err = p.encodeFrame()
	}
	if err != nil {
		return err
	}
	if err := c.transport.Write(buf); err != nil {
		return fmt.Errorf("%w: %v", ErrConnectionLost, err)
	}
	c.metrics.packetsSent.total.Inc()
	return nil
}

// readOneDecoded blocks for exactly one frame off the transport and
// decodes it, decrypting first if encryption is active. Used only during
// the handshake; dispatchLoop takes over afterwards. In Cooperative mode
// this drives loopTransport's Poll itself instead of relying on a
// background reader, so the handshake still completes synchronously
// inside Connect.
func (c *Connection) readOneDecoded() (*decodedPacket, error) {
	if c.loop != nil {
		return c.readOneDecodedCooperative()
	}
	frame, ok := <-c.transport.Frames()
	if !ok {
		if err := c.transport.Err(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrConnectionLost, err)
		}
		return nil, ErrConnectionLost
	}
	return c.decodeFrame(frame)
}

// readOneDecodedCooperative polls loopTransport until a whole frame has
// been extracted, then decodes it. Poll delivers extracted frames onto
// the same Frames() channel the steady-state dispatcher reads from, so
// this never drops or duplicates a frame once dispatchLoop starts.
func (c *Connection) readOneDecodedCooperative() (*decodedPacket, error) {
	for {
		select {
		case frame, ok := <-c.loop.Frames():
			if !ok {
				if err := c.loop.Err(); err != nil {
					return nil, fmt.Errorf("%w: %v", ErrConnectionLost, err)
				}
				return nil, ErrConnectionLost
			}
			return c.decodeFrame(frame)
		default:
		}
		if _, err := c.loop.Poll(c.cfg.DialTimeout); err != nil && err != io.EOF {
			return nil, fmt.Errorf("%w: %v", ErrConnectionLost, err)
		}
	}
}

// Pump drives a Cooperative-mode connection: the embedder must call this
// periodically (e.g. every tick) once Connect has returned, to read
// whatever has arrived within timeout and dispatch it exactly as
// dispatchLoop would for a streamTransport connection. It is an error to
// call Pump on a connection that was not configured with Cooperative.
func (c *Connection) Pump(timeout time.Duration) error {
	if c.loop == nil {
		return fmt.Errorf("admin: Pump requires Config.Cooperative")
	}
	if _, err := c.loop.Poll(timeout); err != nil && err != io.EOF {
		c.log.Error().Err(err).Msg("admin: poll failed")
	}
	for {
		select {
		case frame, ok := <-c.loop.Frames():
			if !ok {
				c.lastErr = c.loop.Err()
				c.setState(StateDisconnected)
				c.observations <- DisconnectedObservation{Cause: c.lastErr}
				return c.lastErr
			}
			d, err := c.decodeFrame(frame)
			if err != nil {
				c.metrics.dispatchErrors.Inc()
				c.log.Error().Err(err).Msg("admin: failed to decode packet")
				continue
			}
			c.metrics.packetsReceived.total.Inc()
			if obs := c.applyAndObserve(d); obs != nil {
				c.observations <- obs
			}
		default:
			return nil
		}
	}
}

func (c *Connection) decodeFrame(frame []byte) (*decodedPacket, error) {
	if c.aeadRecv != nil {
		_, pkt, ok, err := extractEncryptedFrame(frame, c.aeadRecv)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrInvalidHeader
		}
		return decodeServerPacket(pkt.ID, pkt.Body)
	}
	_, pkt, ok, err := extractFrame(frame)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrInvalidHeader
	}
	return decodeServerPacket(pkt.ID, pkt.Body)
}

// awaitWelcome reads frames until ServerWelcome, ServerError,
// ServerFull, or ServerBanned, which is as far as the handshake goes
// before dispatchLoop takes over steady-state traffic.
func (c *Connection) awaitWelcome() (*WelcomeInfo, error) {
	for {
		d, err := c.readOneDecoded()
		if err != nil {
			return nil, err
		}
		switch f := d.fields.(type) {
		case WelcomeInfo:
			return &f, nil
		case ErrorInfo:
			return nil, fmt.Errorf("admin: server rejected join: %w (code %d)", ErrAuthFailed, f.Code)
		}
		switch d.snakeName {
		case "server_full":
			return nil, fmt.Errorf("admin: %w", errServerFull)
		case "server_banned":
			return nil, fmt.Errorf("admin: %w", errServerBanned)
		}
		// anything else arriving before Welcome is ignored, matching
		// the teacher's listenSocket which only acts on packets it
		// recognises.
	}
}

// dispatchLoop is the single goroutine that owns the Mirror and the
// Observations channel once the connection is Active, generalizing the
// teacher's listenSocket goroutine
// (_examples/tardisx-openttd-admin/pkg/admin/admin.go) to decode via the
// registry and optionally decrypt each frame first.
func (c *Connection) dispatchLoop() {
	defer close(c.done)
	for frame := range c.transport.Frames() {
		d, err := c.decodeFrame(frame)
		if err != nil {
			c.metrics.dispatchErrors.Inc()
			c.log.Error().Err(err).Msg("admin: failed to decode packet")
			continue
		}
		c.metrics.packetsReceived.total.Inc()
		obs := c.applyAndObserve(d)
		if obs != nil {
			c.observations <- obs
		}
	}
	c.lastErr = c.transport.Err()
	c.setState(StateDisconnected)
	c.observations <- DisconnectedObservation{Cause: c.lastErr}
}

// Disconnect sends AdminQuit and closes the transport, matching the
// teacher's graceful-shutdown path.
func (c *Connection) Disconnect() error {
	var err error
	c.closeOnce.Do(func() {
		c.setState(StateDisconnecting)
		_ = c.writeRaw(encodeAdminQuit())
		if c.transport != nil {
			err = c.transport.Close()
		}
	})
	return err
}

func (c *Connection) requireActive() error {
	if c.State() != StateActive {
		return ErrNotConnected
	}
	return nil
}

// Subscribe registers interest in an UpdateType at the given frequency
// (AdminUpdateFrequency).
func (c *Connection) Subscribe(t UpdateType, freq UpdateFrequency) error {
	if err := c.requireActive(); err != nil {
		return err
	}
	return c.writeRaw(encodeAdminUpdateFrequency(t, freq))
}

// Poll requests an immediate, one-shot update for an UpdateType
// (AdminPoll). extra selects which instance(s); use PollAll for
// everything.
func (c *Connection) Poll(t UpdateType, extra uint32) error {
	if err := c.requireActive(); err != nil {
		return err
	}
	return c.writeRaw(encodeAdminPoll(t, extra))
}

// SendChat sends a chat message (AdminChat).
func (c *Connection) SendChat(action ChatAction, dest DestType, clientID uint32, message string) error {
	if err := c.requireActive(); err != nil {
		return err
	}
	p, err := encodeAdminChat(action, dest, clientID, message)
	if err != nil {
		return err
	}
	return c.writeRaw(p)
}

// SendRcon issues a remote console command (AdminRcon); the result
// arrives asynchronously as RconOutputObservation/RconEndObservation.
func (c *Connection) SendRcon(command string) error {
	if err := c.requireActive(); err != nil {
		return err
	}
	p, err := encodeAdminRcon(command)
	if err != nil {
		return err
	}
	return c.writeRaw(p)
}

// SendGamescript forwards a JSON payload to the running game script
// (AdminGamescript).
func (c *Connection) SendGamescript(json string) error {
	if err := c.requireActive(); err != nil {
		return err
	}
	p, err := encodeAdminGamescript(json)
	if err != nil {
		return err
	}
	return c.writeRaw(p)
}

// Ping sends an AdminPing; the matching ServerPong arrives as a
// PongObservation with the same payload.
func (c *Connection) Ping(payload uint32) error {
	if err := c.requireActive(); err != nil {
		return err
	}
	return c.writeRaw(encodeAdminPing(payload))
}
