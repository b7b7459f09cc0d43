package stack

import (
	"encoding/hex"
	"fmt"
	"strings"

	"golang-quizlink/internal/types"
)

const supplicantHeader = `# Generated by golang-quizlink
ctrl_interface=/run/wpa_supplicant
update_config=0
`

// renderSupplicantConfig builds a wpa_supplicant configuration holding exactly one network.
func renderSupplicantConfig(identity types.NetworkIdentity) string {
	var b strings.Builder
	b.WriteString(supplicantHeader)
	b.WriteString("\nnetwork={\n")
	b.WriteString(fmt.Sprintf("\tssid=%s\n", quoteOrHex(identity.SSID)))

	switch {
	case identity.Passphrase == "":
		b.WriteString("\tkey_mgmt=NONE\n")
	case isRawPSK(identity.Passphrase):
		b.WriteString(fmt.Sprintf("\tpsk=%s\n", identity.Passphrase))
	default:
		b.WriteString(fmt.Sprintf("\tpsk=\"%s\"\n", identity.Passphrase))
	}

	b.WriteString("\tscan_ssid=1\n")
	b.WriteString("}\n")
	return b.String()
}

// quoteOrHex quotes printable SSIDs and hex-encodes anything wpa_supplicant cannot parse quoted.
func quoteOrHex(ssid string) string {
	for _, r := range ssid {
		if r < 0x20 || r > 0x7e || r == '"' || r == '\\' {
			return hex.EncodeToString([]byte(ssid))
		}
	}
	return `"` + ssid + `"`
}

// isRawPSK reports whether the passphrase is a 256-bit key written as 64 hex digits.
func isRawPSK(passphrase string) bool {
	if len(passphrase) != 64 {
		return false
	}
	_, err := hex.DecodeString(passphrase)
	return err == nil
}
