package discovery

import (
	"fmt"
	"sort"
	"strings"
)

// TXTRecordMap is a map of TXT record key-value pairs.
type TXTRecordMap map[string]string

// EncodeBrokerTXT creates TXT records for a broker listener.
func EncodeBrokerTXT(info *BrokerInfo) TXTRecordMap {
	txt := make(TXTRecordMap)

	// Required fields
	txt[TXTKeyVersionTXT] = TXTVersion
	txt[TXTKeyListener] = info.Listener

	// Optional fields
	if info.Version != "" {
		txt[TXTKeyVersion] = info.Version
	}
	if info.Websocket {
		path := info.Path
		if path == "" {
			path = DefaultWebsocketPath
		}
		txt[TXTKeyPath] = path
	}

	return txt
}

// DecodeBrokerTXT parses TXT records of a broker listener.
func DecodeBrokerTXT(txt TXTRecordMap) (*BrokerInfo, error) {
	v, ok := txt[TXTKeyVersionTXT]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingRequired, TXTKeyVersionTXT)
	}
	if v != TXTVersion {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedVersion, v)
	}

	info := &BrokerInfo{}
	info.Listener, ok = txt[TXTKeyListener]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingRequired, TXTKeyListener)
	}

	info.Version = txt[TXTKeyVersion]
	info.Path, info.Websocket = txt[TXTKeyPath]

	return info, nil
}

// TXTRecordsToStrings converts a TXTRecordMap to a slice of "key=value" strings.
// The slice is sorted by key so announcements are stable.
func TXTRecordsToStrings(txt TXTRecordMap) []string {
	result := make([]string, 0, len(txt))
	for k, v := range txt {
		result = append(result, fmt.Sprintf("%s=%s", k, v))
	}
	sort.Strings(result)
	return result
}

// StringsToTXTRecords parses a slice of "key=value" strings into a TXTRecordMap.
func StringsToTXTRecords(strs []string) TXTRecordMap {
	txt := make(TXTRecordMap)
	for _, s := range strs {
		parts := strings.SplitN(s, "=", 2)
		if len(parts) == 2 {
			txt[parts[0]] = parts[1]
		} else if len(parts) == 1 && parts[0] != "" {
			// Key without value (boolean flag)
			txt[parts[0]] = ""
		}
	}
	return txt
}

// ValidateTXTSize checks the encoded size of a TXT record set.
// Each string costs one length byte plus its content.
func ValidateTXTSize(strs []string) error {
	size := 0
	for _, s := range strs {
		size += 1 + len(s)
	}
	if size > MaxTXTRecordSize {
		return ErrTXTRecordTooLarge
	}
	return nil
}

// ValidateInstanceName checks if an instance name is valid for mDNS.
func ValidateInstanceName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInstanceNameTooLong)
	}
	if len(name) > MaxInstanceNameLen {
		return ErrInstanceNameTooLong
	}
	return nil
}

// InstanceName builds "mqttlog-<host>" truncated to the DNS label limit.
func InstanceName(host string) string {
	name := "mqttlog"
	if host != "" {
		name += "-" + host
	}
	if len(name) > MaxInstanceNameLen {
		name = name[:MaxInstanceNameLen]
	}
	return name
}
