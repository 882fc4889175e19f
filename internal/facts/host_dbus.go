package facts

import (
	"context"
	"fmt"
	"log/slog"

	godbus "github.com/godbus/dbus/v5"
)

const (
	nmDest = "org.freedesktop.NetworkManager"
	nmPath = "/org/freedesktop/NetworkManager"
)

// networkManager queries NetworkManager on the system bus for the active
// connections, their SSID and the IPv4 address of the preferred one.
type networkManager struct{}

func getProperty(ctx context.Context, obj godbus.BusObject, iface, prop string) (godbus.Variant, error) {
	var v godbus.Variant
	err := obj.CallWithContext(ctx, "org.freedesktop.DBus.Properties.Get", 0, iface, prop).Store(&v)
	if err != nil {
		return godbus.Variant{}, fmt.Errorf("get %s.%s: %w", iface, prop, err)
	}
	return v, nil
}

func (networkManager) Connectivity(ctx context.Context) (Connectivity, error) {
	conn, err := godbus.SystemBus()
	if err != nil {
		return Connectivity{}, fmt.Errorf("system bus: %w", err)
	}
	nm := conn.Object(nmDest, nmPath)

	var out Connectivity
	v, err := getProperty(ctx, nm, nmDest, "WirelessEnabled")
	if err != nil {
		return Connectivity{}, err
	}
	out.WiFiEnabled, _ = v.Value().(bool)

	v, err = getProperty(ctx, nm, nmDest, "ActiveConnections")
	if err != nil {
		return Connectivity{}, err
	}
	paths, _ := v.Value().([]godbus.ObjectPath)

	var best Transport
	for _, path := range paths {
		active := conn.Object(nmDest, path)
		tv, err := getProperty(ctx, active, nmDest+".Connection.Active", "Type")
		if err != nil {
			continue
		}
		typ, _ := tv.Value().(string)
		t := nmTransport(typ)
		if t == 0 {
			continue
		}
		out.Active = append(out.Active, t)

		if t == TransportWiFi && out.SSID == "" {
			out.SSID = activeSSID(ctx, conn, active)
		}
		if best == 0 || t < best {
			if ip := activeIPv4(ctx, conn, active); ip != 0 {
				best, out.IPv4 = t, ip
			}
		}
	}
	return out, nil
}

func nmTransport(connType string) Transport {
	switch connType {
	case "802-11-wireless":
		return TransportWiFi
	case "gsm", "cdma":
		return TransportCellular
	case "802-3-ethernet":
		return TransportEthernet
	default:
		return 0
	}
}

func activeSSID(ctx context.Context, conn *godbus.Conn, active godbus.BusObject) string {
	v, err := getProperty(ctx, active, nmDest+".Connection.Active", "SpecificObject")
	if err == nil {
		if ap, ok := v.Value().(godbus.ObjectPath); ok && ap != "/" {
			if sv, err := getProperty(ctx, conn.Object(nmDest, ap), nmDest+".AccessPoint", "Ssid"); err == nil {
				if ssid, ok := sv.Value().([]byte); ok && len(ssid) > 0 {
					return string(ssid)
				}
			}
		}
	}
	// Fall back to the connection profile name, which defaults to the SSID.
	if v, err := getProperty(ctx, active, nmDest+".Connection.Active", "Id"); err == nil {
		id, _ := v.Value().(string)
		return id
	}
	return ""
}

// activeIPv4 returns the first address of the connection's IP4Config. The
// deprecated aau Addresses property already stores it in network byte order,
// which reads back as the low-byte-first packing.
func activeIPv4(ctx context.Context, conn *godbus.Conn, active godbus.BusObject) uint32 {
	v, err := getProperty(ctx, active, nmDest+".Connection.Active", "Ip4Config")
	if err != nil {
		return 0
	}
	cfg, ok := v.Value().(godbus.ObjectPath)
	if !ok || cfg == "/" {
		return 0
	}
	av, err := getProperty(ctx, conn.Object(nmDest, cfg), nmDest+".IP4Config", "Addresses")
	if err != nil {
		return 0
	}
	addrs, _ := av.Value().([][]uint32)
	if len(addrs) == 0 || len(addrs[0]) == 0 {
		return 0
	}
	return addrs[0][0]
}

// fallbackConnectivity asks primary first and secondary when primary fails.
type fallbackConnectivity struct {
	primary   ConnectivitySource
	secondary ConnectivitySource
	log       *slog.Logger
}

func (f fallbackConnectivity) Connectivity(ctx context.Context) (Connectivity, error) {
	c, err := f.primary.Connectivity(ctx)
	if err == nil {
		return c, nil
	}
	discardIfNil(f.log).Debug("primary connectivity source unavailable", "err", err)
	return f.secondary.Connectivity(ctx)
}
