package watch

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/pilebones/go-udev/netlink"

	"seqsort/internal/config"
	"seqsort/internal/logging"
)

// Handler is invoked once per newly mounted card. The monitor keeps reading
// events while the handler runs; repeat events for the same device are
// dropped until the handler returns.
type Handler func(ctx context.Context, mount Mount) error

// Monitor listens for udev netlink partition events and hands newly mounted
// removable media to the handler. It replaces polling loops and udev rules
// that would otherwise have to call the CLI as root.
type Monitor struct {
	cfg     *config.Config
	logger  *slog.Logger
	handler Handler
	runner  commandRunner

	filesystems  map[string]struct{}
	pollInterval time.Duration

	mu      sync.Mutex
	conn    *netlink.UEventConn
	quit    chan struct{}
	busy    map[string]bool
	running bool
}

// NewMonitor creates a monitor bound to the configured filesystem types.
func NewMonitor(cfg *config.Config, logger *slog.Logger, handler Handler) *Monitor {
	filesystems := make(map[string]struct{}, len(cfg.Watch.Filesystems))
	for _, fs := range cfg.Watch.Filesystems {
		filesystems[strings.ToLower(strings.TrimSpace(fs))] = struct{}{}
	}

	return &Monitor{
		cfg:          cfg,
		logger:       logging.NewComponentLogger(logger, "watch"),
		handler:      handler,
		runner:       execCommandRunner{},
		filesystems:  filesystems,
		pollInterval: time.Duration(cfg.Watch.MountPollSeconds) * time.Second,
		busy:         make(map[string]bool),
	}
}

// Start begins listening for udev netlink events.
func (m *Monitor) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running {
		return nil
	}

	conn := new(netlink.UEventConn)
	if err := conn.Connect(netlink.UdevEvent); err != nil {
		m.logger.Error("failed to connect to netlink socket",
			logging.Error(err),
			logging.String("hint", "watch mode needs permission to open netlink sockets"),
		)
		return err
	}

	m.conn = conn
	m.quit = make(chan struct{})
	m.running = true

	quit := m.quit
	go m.monitorLoop(ctx, quit)

	m.logger.Info("watching for removable media",
		logging.String("filesystems", strings.Join(m.cfg.Watch.Filesystems, ",")),
	)
	return nil
}

// Stop shuts down the monitor.
func (m *Monitor) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.running {
		return
	}

	if m.quit != nil {
		close(m.quit)
		m.quit = nil
	}
	if m.conn != nil {
		_ = m.conn.Close()
		m.conn = nil
	}
	m.running = false

	m.logger.Info("media watch stopped")
}

// Running reports whether the monitor is active.
func (m *Monitor) Running() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

func (m *Monitor) monitorLoop(ctx context.Context, quit <-chan struct{}) {
	queue := make(chan netlink.UEvent)
	errs := make(chan error)

	m.mu.Lock()
	conn := m.conn
	m.mu.Unlock()
	if conn == nil {
		return
	}

	monitorQuit := conn.Monitor(queue, errs, partitionMatcher())

	for {
		select {
		case <-ctx.Done():
			close(monitorQuit)
			return
		case <-quit:
			close(monitorQuit)
			return
		case uevent := <-queue:
			m.handleEvent(ctx, uevent)
		case err := <-errs:
			m.logger.Warn("netlink monitor error", logging.Error(err))
		}
	}
}

// partitionMatcher matches block partition add/change events. Filesystem type
// filtering happens later against lsblk output; udev does not reliably carry
// ID_FS_TYPE for every event.
func partitionMatcher() netlink.Matcher {
	action := "add|change"
	rules := &netlink.RuleDefinitions{}
	rules.AddRule(netlink.RuleDefinition{
		Action: &action,
		Env: map[string]string{
			"SUBSYSTEM": "block",
			"DEVTYPE":   "partition",
		},
	})
	return rules
}

func (m *Monitor) handleEvent(ctx context.Context, uevent netlink.UEvent) {
	devname := extractDeviceName(uevent)
	if devname == "" {
		m.logger.Debug("ignoring event without device name",
			logging.String("action", string(uevent.Action)),
			logging.String("kobj", uevent.KObj),
		)
		return
	}

	m.mu.Lock()
	if m.busy[devname] {
		m.mu.Unlock()
		m.logger.Debug("device already being handled", logging.String("device", devname))
		return
	}
	m.busy[devname] = true
	m.mu.Unlock()

	go func() {
		defer func() {
			m.mu.Lock()
			delete(m.busy, devname)
			m.mu.Unlock()
		}()
		m.handleDevice(ctx, devname)
	}()
}

func (m *Monitor) handleDevice(ctx context.Context, devname string) {
	mount, ok := m.awaitMount(ctx, devname)
	if !ok {
		return
	}

	m.logger.Info("removable media mounted",
		logging.String("device", mount.Device),
		logging.String("mountpoint", mount.Mountpoint),
		logging.String("fstype", mount.Fstype),
	)

	if m.handler == nil {
		return
	}
	if err := m.handler(ctx, mount); err != nil {
		m.logger.Warn("media handler failed",
			logging.Error(err),
			logging.String("device", mount.Device),
		)
	}
}

// awaitMount polls lsblk until the partition shows up mounted with one of the
// configured filesystem types. The desktop automounter usually needs a moment
// after the kernel event.
func (m *Monitor) awaitMount(ctx context.Context, devname string) (Mount, bool) {
	interval := m.pollInterval
	attempts := m.cfg.Watch.MountPollAttempts

	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return Mount{}, false
			case <-time.After(interval):
			}
		}

		mount, err := queryMount(ctx, m.runner, devname)
		if err != nil {
			m.logger.Debug("lsblk query failed",
				logging.String("device", devname),
				logging.Error(err),
			)
			continue
		}
		if mount.Mountpoint == "" {
			continue
		}
		if _, recognized := m.filesystems[strings.ToLower(mount.Fstype)]; !recognized {
			m.logger.Debug("ignoring partition with unwatched filesystem",
				logging.String("device", devname),
				logging.String("fstype", mount.Fstype),
			)
			return Mount{}, false
		}
		return mount, true
	}

	m.logger.Debug("partition never mounted", logging.String("device", devname))
	return Mount{}, false
}

func extractDeviceName(uevent netlink.UEvent) string {
	if devname := uevent.Env["DEVNAME"]; devname != "" {
		return devname
	}

	devpath := uevent.Env["DEVPATH"]
	if devpath == "" {
		return ""
	}
	parts := strings.Split(devpath, "/")
	return "/dev/" + parts[len(parts)-1]
}
