package facts

import (
	"context"
	"log/slog"
	"slices"
)

// NetworkProbe combines connectivity, interface and signal sources. Access
// failures in any of them leave the matching optional fields nil.
type NetworkProbe struct {
	conn     ConnectivitySource
	ifaces   InterfaceSource
	signal   SignalSource
	wireless string
	log      *slog.Logger
}

func NewNetworkProbe(conn ConnectivitySource, ifaces InterfaceSource, signal SignalSource, wireless string, log *slog.Logger) *NetworkProbe {
	return &NetworkProbe{conn: conn, ifaces: ifaces, signal: signal, wireless: wireless, log: discardIfNil(log)}
}

func (p *NetworkProbe) Run(ctx context.Context) Network {
	out := UnknownNetwork()

	if p.conn != nil {
		if c, err := p.conn.Connectivity(ctx); err != nil {
			p.log.Debug("connectivity unavailable", "err", err)
		} else {
			out.WiFiEnabled = c.WiFiEnabled
			out.WiFiConnected = slices.Contains(c.Active, TransportWiFi)
			out.Type = ClassifyTransport(c.Active)
			if out.WiFiConnected && c.SSID != "" {
				ssid := c.SSID
				out.SSID = &ssid
			}
			if c.IPv4 != 0 {
				ip := UnpackIPv4(c.IPv4)
				out.IPAddress = &ip
			}
		}
	}

	if p.ifaces != nil && p.wireless != "" {
		if list, err := p.ifaces.Interfaces(ctx); err != nil {
			p.log.Debug("interfaces unavailable", "err", err)
		} else {
			for _, iface := range list {
				if iface.Name != p.wireless {
					continue
				}
				if mac := FormatHardwareAddr(iface.HardwareAddr); mac != "" {
					out.MACAddress = &mac
				}
				break
			}
		}
	}

	if p.signal != nil && out.WiFiConnected {
		if dbm, err := p.signal.SignalDBm(ctx, p.wireless); err != nil {
			p.log.Debug("signal strength unavailable", "err", err)
		} else {
			out.Signal = &dbm
		}
	}
	return out
}
