package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"net"
	"strings"
)

// TerminalID derives a stable ID for this till from the machine's MAC
// address, so receipts and sessions can be traced back to a physical
// counter. Format: "TILL-A1B2C3D4".
func TerminalID() string {
	interfaces, err := net.Interfaces()
	if err != nil {
		return "TILL-UNKNOWN"
	}

	var macAddress string
	for _, i := range interfaces {
		if i.Flags&net.FlagUp != 0 && len(i.HardwareAddr) > 0 {
			macAddress = i.HardwareAddr.String()
			break
		}
	}
	if macAddress == "" {
		return "TILL-UNKNOWN"
	}

	hash := sha256.Sum256([]byte("pos-terminal:" + macAddress))
	return "TILL-" + strings.ToUpper(hex.EncodeToString(hash[:])[:8])
}
