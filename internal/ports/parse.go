package ports

import (
	"strconv"
	"strings"
)

// parsePort reads the trailing ":port" of an address token such as
// "0.0.0.0:135", "[::]:135" or "*:8080".
func parsePort(addr string) (uint16, bool) {
	i := strings.LastIndexByte(addr, ':')
	if i < 0 || i == len(addr)-1 {
		return 0, false
	}
	p, err := strconv.ParseUint(addr[i+1:], 10, 16)
	if err != nil || p == 0 {
		return 0, false
	}
	return uint16(p), true
}

func parsePID(s string) (uint32, bool) {
	pid, err := strconv.ParseUint(s, 10, 32)
	if err != nil || pid == 0 {
		return 0, false
	}
	return uint32(pid), true
}

// parseNetstat reads `netstat -ano` output. The first four lines are the
// banner and column header. TCP rows count only while LISTENING; UDP rows
// have no state column and always count.
func parseNetstat(lines []string) []Binding {
	const header = 4
	if len(lines) <= header {
		return nil
	}
	var out []Binding
	for _, line := range lines[header:] {
		fields := strings.Fields(line)
		if len(fields) < 4 {
			continue
		}
		proto := strings.ToUpper(fields[0])
		switch {
		case strings.HasPrefix(proto, "TCP"):
			if len(fields) < 5 || !strings.EqualFold(fields[3], "LISTENING") {
				continue
			}
		case strings.HasPrefix(proto, "UDP"):
		default:
			continue
		}
		port, ok := parsePort(fields[1])
		if !ok {
			continue
		}
		pid, ok := parsePID(fields[len(fields)-1])
		if !ok {
			continue
		}
		out = append(out, Binding{Port: port, PID: pid})
	}
	return out
}

// socketRow is one line of a /proc/net table.
type socketRow struct {
	Port  uint16
	Inode uint64
}

const tcpListen = "0A"

// parseProcNet reads /proc/net/{tcp,udp}[6]. Addresses are hex encoded
// ("0100007F:1F90" is 127.0.0.1:8080). When listenOnly is set, rows not in
// the LISTEN state are dropped.
func parseProcNet(content string, listenOnly bool) []socketRow {
	lines := strings.Split(content, "\n")
	if len(lines) < 2 {
		return nil
	}
	var out []socketRow
	for _, line := range lines[1:] {
		fields := strings.Fields(line)
		if len(fields) < 10 {
			continue
		}
		if listenOnly && !strings.EqualFold(fields[3], tcpListen) {
			continue
		}
		_, portHex, found := strings.Cut(fields[1], ":")
		if !found {
			continue
		}
		port, err := strconv.ParseUint(portHex, 16, 16)
		if err != nil || port == 0 {
			continue
		}
		inode, err := strconv.ParseUint(fields[9], 10, 64)
		if err != nil || inode == 0 {
			continue
		}
		out = append(out, socketRow{Port: uint16(port), Inode: inode})
	}
	return out
}

// parseSocketLink extracts the inode from an fd link like "socket:[12345]".
func parseSocketLink(link string) (uint64, bool) {
	rest, ok := strings.CutPrefix(link, "socket:[")
	if !ok {
		return 0, false
	}
	rest, ok = strings.CutSuffix(rest, "]")
	if !ok {
		return 0, false
	}
	inode, err := strconv.ParseUint(rest, 10, 64)
	if err != nil {
		return 0, false
	}
	return inode, true
}

// parseLsof reads `lsof -i -n -P` output:
//
//	COMMAND PID USER FD TYPE DEVICE SIZE/OFF NODE NAME
//	node  12345 user 21u IPv4 0x...  0t0     TCP  *:8080 (LISTEN)
//
// Rows describing an established connection ("a:1->b:2") are skipped.
func parseLsof(lines []string) []Binding {
	if len(lines) < 2 {
		return nil
	}
	var out []Binding
	for _, line := range lines[1:] {
		fields := strings.Fields(line)
		if len(fields) < 9 {
			continue
		}
		pid, ok := parsePID(fields[1])
		if !ok {
			continue
		}
		name := fields[8]
		if strings.Contains(name, "->") {
			continue
		}
		if i := strings.IndexByte(name, '('); i >= 0 {
			name = name[:i]
		}
		port, ok := parsePort(strings.TrimSpace(name))
		if !ok {
			continue
		}
		out = append(out, Binding{Port: port, PID: pid})
	}
	return out
}
